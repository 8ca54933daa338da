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
	"net/url"
	"strconv"

	relerrors "github.com/relkithq/relkit/internal/errors"
)

// ReleasesHandler is the releases scope of a repository. It holds only a
// reference to its parent handler and constructs operation builders; it has
// no mutable state of its own.
//
// Created with RepoHandler.Releases.
type ReleasesHandler struct {
	parent *RepoHandler
}

// List returns a builder for listing the repository's releases.
//
//	page, err := client.Repo("owner", "repo").Releases().
//	    List().
//	    PerPage(100).
//	    Page(5).
//	    Send(ctx)
//
// Both parameters are optional; a builder sent without setters requests the
// server defaults.
func (h *ReleasesHandler) List() *ListReleasesBuilder {
	return &ListReleasesBuilder{handler: h}
}

// Create returns a builder for creating a release from tagName.
//
//	release, err := client.Repo("owner", "repo").Releases().
//	    Create("v1.0.0").
//	    TargetCommitish("main").
//	    Name("Version 1.0.0").
//	    Body("Announcing 1.0.0!").
//	    Draft(false).
//	    Prerelease(false).
//	    Send(ctx)
//
// tagName is the only required field. Optional fields left unset are omitted
// from the request body so the API applies its own defaults.
func (h *ReleasesHandler) Create(tagName string) *CreateReleaseBuilder {
	return &CreateReleaseBuilder{handler: h, tagName: tagName}
}

// Latest fetches the repository's latest published release. Drafts and
// prereleases are not considered by the API.
func (h *ReleasesHandler) Latest(ctx context.Context) (*Release, error) {
	if err := h.parent.validate(); err != nil {
		return nil, err
	}
	var release Release
	path := h.parent.releasesPath() + "/latest"
	if _, err := h.parent.client.get(ctx, path, nil, &release); err != nil {
		return nil, err
	}
	return &release, nil
}

// ByTag fetches the release associated with the given tag.
func (h *ReleasesHandler) ByTag(ctx context.Context, tag string) (*Release, error) {
	if err := h.parent.validate(); err != nil {
		return nil, err
	}
	if tag == "" {
		return nil, fmt.Errorf("release tag must be non-empty: %w", relerrors.ErrValidation)
	}
	var release Release
	path := h.parent.releasesPath() + "/tags/" + url.PathEscape(tag)
	if _, err := h.parent.client.get(ctx, path, nil, &release); err != nil {
		return nil, err
	}
	return &release, nil
}

// ListReleasesBuilder accumulates the optional parameters of a release
// listing. Each setter records the value and returns the builder for
// chaining; setting a field twice keeps the last value. Fields never set
// are omitted from the request entirely.
//
// Created with ReleasesHandler.List.
type ListReleasesBuilder struct {
	handler *ReleasesHandler
	perPage *uint8
	page    *uint32
}

// PerPage sets the number of results per page (max 100).
func (b *ListReleasesBuilder) PerPage(perPage uint8) *ListReleasesBuilder {
	b.perPage = &perPage
	return b
}

// Page sets the page number of the results to fetch.
func (b *ListReleasesBuilder) Page(page uint32) *ListReleasesBuilder {
	b.page = &page
	return b
}

// query serializes the set fields into URL query parameters under their
// declared names. Absent fields produce no parameter at all.
func (b *ListReleasesBuilder) query() url.Values {
	q := url.Values{}
	if b.perPage != nil {
		q.Set("per_page", strconv.FormatUint(uint64(*b.perPage), 10))
	}
	if b.page != nil {
		q.Set("page", strconv.FormatUint(uint64(*b.page), 10))
	}
	return q
}

// Send issues the listing request. The builder retains nothing afterwards;
// independent builders never interfere, even concurrently.
func (b *ListReleasesBuilder) Send(ctx context.Context) (*ReleasePage, error) {
	if err := b.handler.parent.validate(); err != nil {
		return nil, err
	}

	var releases []Release
	resp, err := b.handler.parent.client.get(ctx, b.handler.parent.releasesPath(), b.query(), &releases)
	if err != nil {
		return nil, err
	}

	var page, perPage int
	if b.page != nil {
		page = int(*b.page)
	}
	if b.perPage != nil {
		perPage = int(*b.perPage)
	}
	return newReleasePage(releases, resp, page, perPage), nil
}

// createReleaseRequest is the wire shape of a release creation body.
// Pointer fields with omitempty keep unset optionals out of the payload
// while still serializing explicit false values for the flags.
type createReleaseRequest struct {
	TagName         string  `json:"tag_name"`
	TargetCommitish *string `json:"target_commitish,omitempty"`
	Name            *string `json:"name,omitempty"`
	Body            *string `json:"body,omitempty"`
	Draft           *bool   `json:"draft,omitempty"`
	Prerelease      *bool   `json:"prerelease,omitempty"`
}

// CreateReleaseBuilder accumulates the fields of a release creation. The
// tag name is fixed at construction; every other field is optional and
// omitted from the request body unless set. Last set wins.
//
// Created with ReleasesHandler.Create.
type CreateReleaseBuilder struct {
	handler         *ReleasesHandler
	tagName         string
	targetCommitish *string
	name            *string
	body            *string
	draft           *bool
	prerelease      *bool
}

// TargetCommitish sets the commitish value that determines where the Git
// tag is created from. Can be any branch or commit SHA. Unused if the tag
// already exists. Default: the repository's default branch.
func (b *CreateReleaseBuilder) TargetCommitish(targetCommitish string) *CreateReleaseBuilder {
	b.targetCommitish = &targetCommitish
	return b
}

// Name sets the display name of the release.
func (b *CreateReleaseBuilder) Name(name string) *CreateReleaseBuilder {
	b.name = &name
	return b
}

// Body sets the text describing the contents of the release.
func (b *CreateReleaseBuilder) Body(body string) *CreateReleaseBuilder {
	b.body = &body
	return b
}

// Draft sets whether the release is created as a draft.
// An explicit false is serialized; only an unset flag is omitted.
func (b *CreateReleaseBuilder) Draft(draft bool) *CreateReleaseBuilder {
	b.draft = &draft
	return b
}

// Prerelease sets whether the release is marked as a prerelease.
func (b *CreateReleaseBuilder) Prerelease(prerelease bool) *CreateReleaseBuilder {
	b.prerelease = &prerelease
	return b
}

// request serializes the present fields into the creation body.
func (b *CreateReleaseBuilder) request() createReleaseRequest {
	return createReleaseRequest{
		TagName:         b.tagName,
		TargetCommitish: b.targetCommitish,
		Name:            b.name,
		Body:            b.body,
		Draft:           b.draft,
		Prerelease:      b.prerelease,
	}
}

// Send issues the creation request. Creation is a mutating operation and
// always uses POST with a JSON body. Returns the release as the API
// recorded it.
func (b *CreateReleaseBuilder) Send(ctx context.Context) (*Release, error) {
	if err := b.handler.parent.validate(); err != nil {
		return nil, err
	}
	if b.tagName == "" {
		return nil, fmt.Errorf("tag_name must be non-empty: %w", relerrors.ErrValidation)
	}

	var release Release
	if _, err := b.handler.parent.client.post(ctx, b.handler.parent.releasesPath(), b.request(), &release); err != nil {
		return nil, err
	}
	return &release, nil
}
