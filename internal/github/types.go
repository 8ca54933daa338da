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

import "time"

// Release represents a GitHub release with the metadata the REST resource
// returns. This is the core data structure serialized to NDJSON output, so
// field names follow the API's JSON names exactly.
type Release struct {
	ID              int64          `json:"id"`
	TagName         string         `json:"tag_name"`
	TargetCommitish string         `json:"target_commitish"`
	Name            string         `json:"name,omitempty"`
	Body            string         `json:"body,omitempty"`
	Draft           bool           `json:"draft"`
	Prerelease      bool           `json:"prerelease"`
	HTMLURL         string         `json:"html_url,omitempty"`
	CreatedAt       time.Time      `json:"created_at"`
	PublishedAt     *time.Time     `json:"published_at,omitempty"`
	Author          Author         `json:"author"`
	Assets          []ReleaseAsset `json:"assets,omitempty"`
}

// Author represents the user that created a release.
// Only the login is kept to keep records small.
type Author struct {
	Login string `json:"login"`
}

// ReleaseAsset represents a single downloadable file attached to a release.
type ReleaseAsset struct {
	ID            int64  `json:"id"`
	Name          string `json:"name"`
	ContentType   string `json:"content_type"`
	Size          int    `json:"size"`
	DownloadCount int    `json:"download_count"`
	DownloadURL   string `json:"browser_download_url"`
}

// FetchOptions configures how releases are fetched through the service-level
// Client interface. Zero values fall back to the API defaults.
type FetchOptions struct {
	// PageSize controls how many releases to fetch per page.
	// Defaults to 50 if not specified. Maximum is 100 per GitHub's API limits.
	PageSize int

	// Page is the 1-based page number to fetch. Zero fetches the first page.
	// Use ReleasePage.NextPage from a previous response to continue.
	Page int
}

// Default and limit values for fetch operations. GitHub caps per_page at 100.
const (
	defaultPageSize = 50
	maxPageSize     = 100
)

// CreateReleaseInput carries the fields for creating a release through the
// service-level Client interface. TagName is required; empty strings leave
// the optional string fields unset, and nil leaves the flags unset so the
// API applies its own defaults.
type CreateReleaseInput struct {
	TagName         string
	TargetCommitish string
	Name            string
	Body            string
	Draft           *bool
	Prerelease      *bool
}

// RepositoryInfo contains basic repository metadata.
// Used primarily to get the total release count for accurate progress
// tracking and ETA calculation when fetching with the --all flag.
type RepositoryInfo struct {
	TotalReleases int
}
