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
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

// ReleasePage represents one page of a release listing. It carries the
// ordered releases for the current page plus the pagination metadata parsed
// from the Link response header. The page never fetches its successor;
// callers continue by building a new list chain with Page set to NextPage.
type ReleasePage struct {
	Releases []Release

	// Page and PerPage are the effective values for this request.
	// Zero means the parameter was omitted and the server default applied.
	Page    int
	PerPage int

	// Page numbers parsed from the Link header. Zero means the relation
	// was not present (e.g. NextPage == 0 on the final page).
	NextPage  int
	PrevPage  int
	FirstPage int
	LastPage  int
}

// HasNextPage reports whether the server advertised a further page.
func (p *ReleasePage) HasNextPage() bool {
	return p.NextPage != 0
}

// newReleasePage assembles a ReleasePage from a decoded listing response.
func newReleasePage(releases []Release, resp *http.Response, page, perPage int) *ReleasePage {
	rp := &ReleasePage{
		Releases: releases,
		Page:     page,
		PerPage:  perPage,
	}
	if resp != nil {
		rels := parseLinkHeader(resp.Header.Get("Link"))
		rp.NextPage = rels["next"]
		rp.PrevPage = rels["prev"]
		rp.FirstPage = rels["first"]
		rp.LastPage = rels["last"]
	}
	return rp
}

// parseLinkHeader extracts the page number of each relation from an RFC 5988
// Link header as GitHub emits it:
//
//	<https://api.github.com/repos/o/r/releases?page=3>; rel="next", <...?page=12>; rel="last"
//
// Relations without a parseable page query parameter are skipped. An empty
// or malformed header yields an empty map, which callers treat as "no
// further pages".
func parseLinkHeader(header string) map[string]int {
	pages := make(map[string]int)
	if header == "" {
		return pages
	}

	for _, link := range strings.Split(header, ",") {
		segments := strings.Split(strings.TrimSpace(link), ";")
		if len(segments) < 2 {
			continue
		}

		target := strings.TrimSpace(segments[0])
		if !strings.HasPrefix(target, "<") || !strings.HasSuffix(target, ">") {
			continue
		}
		u, err := url.Parse(target[1 : len(target)-1])
		if err != nil {
			continue
		}
		pageNum, err := strconv.Atoi(u.Query().Get("page"))
		if err != nil {
			continue
		}

		for _, segment := range segments[1:] {
			segment = strings.TrimSpace(segment)
			if rel, ok := strings.CutPrefix(segment, `rel="`); ok {
				pages[strings.TrimSuffix(rel, `"`)] = pageNum
			}
		}
	}

	return pages
}
