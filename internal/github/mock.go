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

import (
	"context"
	"fmt"
	"time"

	relerrors "github.com/relkithq/relkit/internal/errors"
)

// MockClient is a mock implementation of the GitHub Client interface for
// testing. Listing paginates over the configured Releases slice so callers
// can exercise multi-page loops without a server.
type MockClient struct {
	// Releases to page over
	Releases []Release

	// Error to return
	Error error

	// Behavior flags
	ShouldFailAuth     bool
	ShouldFailNetwork  bool
	ShouldFailNotFound bool

	// Track calls for verification
	CallCount  int
	LastOwner  string
	LastRepo   string
	LastOpts   FetchOptions
	LastCreate CreateReleaseInput
}

// NewMockClient creates a new mock client with default test data.
func NewMockClient() *MockClient {
	return &MockClient{
		Releases: generateTestReleases(),
	}
}

// FetchReleases implements the Client interface.
func (m *MockClient) FetchReleases(ctx context.Context, owner, repo string, opts FetchOptions) (*ReleasePage, error) {
	m.CallCount++
	m.LastOwner = owner
	m.LastRepo = repo
	m.LastOpts = opts

	if err := m.failure(ctx, owner, repo); err != nil {
		return nil, err
	}

	pageSize := opts.PageSize
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	pageNum := opts.Page
	if pageNum <= 0 {
		pageNum = 1
	}

	start := (pageNum - 1) * pageSize
	if start > len(m.Releases) {
		start = len(m.Releases)
	}
	end := start + pageSize
	if end > len(m.Releases) {
		end = len(m.Releases)
	}

	page := &ReleasePage{
		Releases: m.Releases[start:end],
		Page:     pageNum,
		PerPage:  pageSize,
	}
	if end < len(m.Releases) {
		page.NextPage = pageNum + 1
		page.LastPage = (len(m.Releases) + pageSize - 1) / pageSize
	}
	if pageNum > 1 {
		page.PrevPage = pageNum - 1
		page.FirstPage = 1
	}

	return page, nil
}

// GetLatestRelease implements the Client interface. The newest
// non-draft, non-prerelease entry is considered latest.
func (m *MockClient) GetLatestRelease(ctx context.Context, owner, repo string) (*Release, error) {
	m.CallCount++
	m.LastOwner = owner
	m.LastRepo = repo

	if err := m.failure(ctx, owner, repo); err != nil {
		return nil, err
	}

	for i := range m.Releases {
		if !m.Releases[i].Draft && !m.Releases[i].Prerelease {
			rel := m.Releases[i]
			return &rel, nil
		}
	}
	return nil, fmt.Errorf("repository has no published releases: %w", relerrors.ErrRepoNotFound)
}

// GetReleaseByTag implements the Client interface.
func (m *MockClient) GetReleaseByTag(ctx context.Context, owner, repo, tag string) (*Release, error) {
	m.CallCount++
	m.LastOwner = owner
	m.LastRepo = repo

	if err := m.failure(ctx, owner, repo); err != nil {
		return nil, err
	}

	for i := range m.Releases {
		if m.Releases[i].TagName == tag && !m.Releases[i].Draft {
			rel := m.Releases[i]
			return &rel, nil
		}
	}
	return nil, fmt.Errorf("no release found for tag %q: %w", tag, relerrors.ErrRepoNotFound)
}

// CreateRelease implements the Client interface, recording the input and
// prepending the resulting release to the mock data.
func (m *MockClient) CreateRelease(ctx context.Context, owner, repo string, input CreateReleaseInput) (*Release, error) {
	m.CallCount++
	m.LastOwner = owner
	m.LastRepo = repo
	m.LastCreate = input

	if err := m.failure(ctx, owner, repo); err != nil {
		return nil, err
	}

	if input.TagName == "" {
		return nil, fmt.Errorf("tag_name must be non-empty: %w", relerrors.ErrValidation)
	}
	for _, rel := range m.Releases {
		if rel.TagName == input.TagName {
			return nil, fmt.Errorf("release for tag %q already exists: %w", input.TagName, relerrors.ErrValidation)
		}
	}

	created := Release{
		ID:              int64(9000 + len(m.Releases)),
		TagName:         input.TagName,
		TargetCommitish: input.TargetCommitish,
		Name:            input.Name,
		Body:            input.Body,
		CreatedAt:       time.Now().UTC(),
		Author:          Author{Login: "mock"},
	}
	if input.Draft != nil {
		created.Draft = *input.Draft
	}
	if input.Prerelease != nil {
		created.Prerelease = *input.Prerelease
	}
	m.Releases = append([]Release{created}, m.Releases...)

	return &created, nil
}

// GetRepositoryInfo implements the Client interface.
func (m *MockClient) GetRepositoryInfo(ctx context.Context, owner, repo string) (*RepositoryInfo, error) {
	m.CallCount++
	m.LastOwner = owner
	m.LastRepo = repo

	if err := m.failure(ctx, owner, repo); err != nil {
		return nil, err
	}

	return &RepositoryInfo{TotalReleases: len(m.Releases)}, nil
}

// failure returns the configured error condition, if any.
func (m *MockClient) failure(ctx context.Context, owner, repo string) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	if m.ShouldFailAuth {
		return fmt.Errorf("authentication failed: %w", relerrors.ErrInvalidToken)
	}
	if m.ShouldFailNetwork {
		return fmt.Errorf("network timeout: %w", relerrors.ErrNetworkFailure)
	}
	if m.ShouldFailNotFound || (owner == "nonexistent" && repo == "repo") {
		return fmt.Errorf("repository not found: %w", relerrors.ErrRepoNotFound)
	}
	return m.Error
}

// generateTestReleases creates sample release data for testing,
// newest first as the API returns them.
func generateTestReleases() []Release {
	now := time.Now().UTC()
	lastWeek := now.Add(-7 * 24 * time.Hour)
	lastMonth := now.Add(-30 * 24 * time.Hour)

	published := lastWeek

	return []Release{
		{
			ID:         103,
			TagName:    "v1.2.0-rc.1",
			Name:       "v1.2.0 release candidate",
			Prerelease: true,
			CreatedAt:  now.Add(-time.Hour),
			Author:     Author{Login: "alice"},
		},
		{
			ID:          102,
			TagName:     "v1.1.0",
			Name:        "Version 1.1.0",
			Body:        "Incremental fetch support.",
			CreatedAt:   lastWeek,
			PublishedAt: &published,
			Author:      Author{Login: "bob"},
			Assets: []ReleaseAsset{
				{ID: 1, Name: "relkit_linux_amd64.tar.gz", ContentType: "application/gzip", Size: 4 << 20, DownloadCount: 42},
			},
		},
		{
			ID:        101,
			TagName:   "v1.0.0",
			Name:      "Version 1.0.0",
			CreatedAt: lastMonth,
			Author:    Author{Login: "charlie"},
		},
	}
}

// MockClientOption allows configuring the mock client.
type MockClientOption func(*MockClient)

// WithReleases sets specific releases to page over.
func WithReleases(releases []Release) MockClientOption {
	return func(m *MockClient) {
		m.Releases = releases
	}
}

// WithError makes the client return a specific error.
func WithError(err error) MockClientOption {
	return func(m *MockClient) {
		m.Error = err
	}
}

// WithAuthFailure makes the client simulate authentication failure.
func WithAuthFailure() MockClientOption {
	return func(m *MockClient) {
		m.ShouldFailAuth = true
	}
}

// NewMockClientWithOptions creates a mock client with options.
func NewMockClientWithOptions(opts ...MockClientOption) *MockClient {
	mock := NewMockClient()
	for _, opt := range opts {
		opt(mock)
	}
	return mock
}
