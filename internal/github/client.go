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

package github

import "context"

// Client defines the interface for interacting with GitHub's releases API.
// This interface allows for easy mocking in tests.
type Client interface {
	// FetchReleases retrieves a page of releases from the specified
	// repository. Page-number pagination is supported through opts.Page;
	// the page size can be configured via opts.PageSize (max 100).
	FetchReleases(ctx context.Context, owner, repo string, opts FetchOptions) (*ReleasePage, error)

	// GetLatestRelease retrieves the repository's latest published release.
	GetLatestRelease(ctx context.Context, owner, repo string) (*Release, error)

	// GetReleaseByTag retrieves the published release for the given tag.
	GetReleaseByTag(ctx context.Context, owner, repo, tag string) (*Release, error)

	// CreateRelease creates a new release for the tag in input.TagName.
	// Optional fields left unset in input are omitted from the request so
	// the API applies its defaults.
	CreateRelease(ctx context.Context, owner, repo string, input CreateReleaseInput) (*Release, error)

	// GetRepositoryInfo retrieves basic repository metadata including the
	// total release count. Used for progress tracking and ETA calculation.
	GetRepositoryInfo(ctx context.Context, owner, repo string) (*RepositoryInfo, error)
}
