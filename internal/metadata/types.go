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

// Package metadata types define the structures used for tracking and
// persisting information about fetch operations. These types capture
// comprehensive statistics and audit information for enterprise compliance.
package metadata

import (
	"time"
)

// FetchMetadata represents the complete metadata record for a single fetch
// operation. It captures all relevant information about what was fetched,
// how it was fetched, and the results. This structure is designed to provide
// a complete audit trail for enterprise compliance and troubleshooting.
type FetchMetadata struct {
	ToolVersion   string       `json:"tool_version"`
	MethodVersion string       `json:"method_version"`
	FetchID       string       `json:"fetch_id"`
	Parameters    FetchParams  `json:"parameters"`
	Results       FetchResults `json:"results"`
	Incremental   bool         `json:"incremental"`
	PreviousFetch *FetchRef    `json:"previous_fetch,omitempty"`
}

// FetchParams captures the input parameters used for a fetch operation.
// This includes the target repository, the incremental cutoff, and
// operational settings like page size. These parameters are preserved
// to enable reproducible fetches and debugging.
type FetchParams struct {
	Organization string     `json:"organization"`
	Repository   string     `json:"repository"`
	Since        *time.Time `json:"since,omitempty"`
	FetchAll     bool       `json:"fetch_all"`
	PageSize     int        `json:"page_size"`
}

// FetchResults contains comprehensive statistics about a completed fetch
// operation. It tracks both quantitative metrics (release counts, API calls)
// and temporal information (date ranges, duration). This data is essential
// for performance monitoring and troubleshooting.
type FetchResults struct {
	TotalReleases int       `json:"total_releases"`
	FirstRelease  int64     `json:"first_release_id"`
	LastRelease   int64     `json:"last_release_id"`
	Oldest        time.Time `json:"oldest_published_at"`
	Newest        time.Time `json:"newest_published_at"`
	Drafts        int       `json:"draft_count"`
	Prereleases   int       `json:"prerelease_count"`
	Duration      string    `json:"fetch_duration"`
	APICallCount  int       `json:"api_calls_made"`
	StartedAt     time.Time `json:"started_at"`
	CompletedAt   time.Time `json:"completed_at"`
}

// FetchRef provides a lightweight reference to a previous fetch operation,
// used to link incremental fetches to their predecessors. This creates an
// audit trail showing the chain of fetches for a repository.
type FetchRef struct {
	FetchID     string    `json:"fetch_id"`
	CompletedAt time.Time `json:"completed_at"`
}
