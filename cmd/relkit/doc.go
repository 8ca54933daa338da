// Copyright 2025 RelKit Authors
//
// Licensed under the Business Source License 1.1 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://mariadb.com/bsl11
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package main implements the relkit command-line interface.
// This tool fetches release data from GitHub repositories and outputs it
// in NDJSON format for efficient streaming and processing, and can publish
// new releases against existing tags.
//
// The CLI supports:
//   - Fetching a single page of releases (default behavior)
//   - Fetching all releases with the --all flag
//   - Incremental fetches that resume from the last recorded state
//   - Creating releases with optional draft/prerelease settings
//   - Customizable output destinations (stdout or file)
//   - GitHub token authentication via flag or environment variable
//   - Graceful error handling with appropriate exit codes
//
// Usage:
//
//	relkit fetch <org>/<repo> [flags]
//	relkit create <org>/<repo> <tag> [flags]
//	relkit latest <org>/<repo> [flags]
//
// Example:
//
//	export GITHUB_TOKEN=your_token
//	relkit fetch golang/go --all --output releases.ndjson
//	relkit create myorg/myrepo v1.2.0 --name "v1.2.0" --prerelease
//
// Exit codes:
//   - 0: Success
//   - 1: General error
//   - 2: Authentication/authorization error
//   - 3: Network error
package main
