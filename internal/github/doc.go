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

// Package github provides a typed client for GitHub's releases REST
// resource. Requests are built through a fluent chain: a repository scope,
// a releases handler created from it, and per-operation builders that
// accumulate optional parameters and issue the request on Send.
//
// The package includes:
//   - A Client interface for fetching and creating releases
//   - A REST implementation that drives the builder chain
//   - A retrying decorator and a mock client for testing
//   - Pagination via ReleasePage, parsed from the Link response header
//
// Basic usage:
//
//	client := github.NewRESTClient("your-github-token", "https://api.github.com", "https://api.github.com/graphql")
//	page, err := client.Repo("golang", "go").Releases().
//	    List().
//	    PerPage(100).
//	    Page(2).
//	    Send(ctx)
//	if err != nil {
//	    // Handle error
//	}
//	for _, rel := range page.Releases {
//	    // Process release
//	}
//
// Builders hold no shared mutable state: independent chains, even against
// the same repository scope, can be configured and sent concurrently.
// Optional parameters that were never set are omitted from the request
// entirely; the API distinguishes omitted fields from explicitly empty ones.
package github
