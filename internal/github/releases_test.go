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
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	relerrors "github.com/relkithq/relkit/internal/errors"
)

// newTestClient creates a RESTClient pointed at a test server running the
// given handler. The server is torn down with the test.
func newTestClient(t *testing.T, handler http.HandlerFunc) *RESTClient {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewRESTClient("test-token", server.URL, server.URL)
}

func TestListReleasesOmitsUnsetParams(t *testing.T) {
	var gotQuery string
	var gotPath string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		w.Write([]byte(`[]`))
	})

	_, err := client.Repo("octo", "hello").Releases().List().Send(context.Background())
	if err != nil {
		t.Fatalf("Send failed: %v", err)
	}

	if gotPath != "/repos/octo/hello/releases" {
		t.Errorf("path = %q, want %q", gotPath, "/repos/octo/hello/releases")
	}
	if gotQuery != "" {
		t.Errorf("expected no query parameters, got %q", gotQuery)
	}
}

func TestListReleasesSerializesSetParams(t *testing.T) {
	tests := []struct {
		name  string
		build func(*ListReleasesBuilder) *ListReleasesBuilder
		want  map[string]string
		unset []string
	}{
		{
			name: "both parameters set",
			build: func(b *ListReleasesBuilder) *ListReleasesBuilder {
				return b.PerPage(7).Page(2)
			},
			want: map[string]string{"per_page": "7", "page": "2"},
		},
		{
			name: "only per_page set",
			build: func(b *ListReleasesBuilder) *ListReleasesBuilder {
				return b.PerPage(25)
			},
			want:  map[string]string{"per_page": "25"},
			unset: []string{"page"},
		},
		{
			name: "only page set",
			build: func(b *ListReleasesBuilder) *ListReleasesBuilder {
				return b.Page(3)
			},
			want:  map[string]string{"page": "3"},
			unset: []string{"per_page"},
		},
		{
			name: "last set wins",
			build: func(b *ListReleasesBuilder) *ListReleasesBuilder {
				return b.PerPage(1).PerPage(8).Page(9).Page(4)
			},
			want: map[string]string{"per_page": "8", "page": "4"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotQuery map[string][]string
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				gotQuery = r.URL.Query()
				w.Write([]byte(`[]`))
			})

			builder := tt.build(client.Repo("octo", "hello").Releases().List())
			if _, err := builder.Send(context.Background()); err != nil {
				t.Fatalf("Send failed: %v", err)
			}

			for key, want := range tt.want {
				values := gotQuery[key]
				if len(values) != 1 || values[0] != want {
					t.Errorf("query[%q] = %v, want [%q]", key, values, want)
				}
			}
			for _, key := range tt.unset {
				if _, ok := gotQuery[key]; ok {
					t.Errorf("query parameter %q should be omitted, got %v", key, gotQuery[key])
				}
			}
		})
	}
}

func TestListReleasesPagination(t *testing.T) {
	requests := 0
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		requests++
		switch r.URL.Query().Get("page") {
		case "", "1":
			w.Header().Set("Link", `<https://api.github.com/repos/octo/hello/releases?per_page=2&page=2>; rel="next", <https://api.github.com/repos/octo/hello/releases?per_page=2&page=3>; rel="last"`)
			w.Write([]byte(`[{"id": 4, "tag_name": "v0.4.0"}, {"id": 3, "tag_name": "v0.3.0"}]`))
		case "2":
			w.Header().Set("Link", `<https://api.github.com/repos/octo/hello/releases?per_page=2&page=1>; rel="prev", <https://api.github.com/repos/octo/hello/releases?per_page=2&page=3>; rel="next", <https://api.github.com/repos/octo/hello/releases?per_page=2&page=3>; rel="last"`)
			w.Write([]byte(`[{"id": 2, "tag_name": "v0.2.0"}]`))
		default:
			w.Write([]byte(`[]`))
		}
	})

	// The scope handler is reusable: each List() call builds an
	// independent request.
	releases := client.Repo("octo", "hello").Releases()

	page1, err := releases.List().PerPage(2).Send(context.Background())
	if err != nil {
		t.Fatalf("first Send failed: %v", err)
	}
	if !page1.HasNextPage() {
		t.Fatal("expected first page to have a next page")
	}
	if page1.NextPage != 2 {
		t.Errorf("NextPage = %d, want 2", page1.NextPage)
	}
	if page1.LastPage != 3 {
		t.Errorf("LastPage = %d, want 3", page1.LastPage)
	}
	if len(page1.Releases) != 2 || page1.Releases[0].TagName != "v0.4.0" {
		t.Errorf("unexpected first page contents: %+v", page1.Releases)
	}

	page2, err := releases.List().PerPage(2).Page(uint32(page1.NextPage)).Send(context.Background())
	if err != nil {
		t.Fatalf("second Send failed: %v", err)
	}
	if page2.Page != 2 {
		t.Errorf("Page = %d, want 2", page2.Page)
	}
	if page2.PrevPage != 1 {
		t.Errorf("PrevPage = %d, want 1", page2.PrevPage)
	}
	if page2.NextPage != 3 {
		t.Errorf("NextPage = %d, want 3", page2.NextPage)
	}

	if requests != 2 {
		t.Errorf("expected 2 requests, got %d", requests)
	}
}

func TestListReleasesNoLinkHeader(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"id": 1, "tag_name": "v1.0.0"}]`))
	})

	page, err := client.Repo("octo", "hello").Releases().List().Send(context.Background())
	if err != nil {
		t.Fatalf("Send failed: %v", err)
	}
	if page.HasNextPage() {
		t.Error("expected no next page without a Link header")
	}
}

func TestCreateReleaseBodyContainsOnlyTagName(t *testing.T) {
	var gotBody []byte
	var gotMethod string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotBody, _ = io.ReadAll(r.Body)
		w.Write([]byte(`{"id": 1, "tag_name": "v1.0.0"}`))
	})

	release, err := client.Repo("octo", "hello").Releases().
		Create("v1.0.0").
		Send(context.Background())
	if err != nil {
		t.Fatalf("Send failed: %v", err)
	}
	if release.TagName != "v1.0.0" {
		t.Errorf("TagName = %q, want %q", release.TagName, "v1.0.0")
	}

	if gotMethod != http.MethodPost {
		t.Errorf("method = %q, want POST", gotMethod)
	}

	var body map[string]any
	if err := json.Unmarshal(gotBody, &body); err != nil {
		t.Fatalf("request body is not valid JSON: %v", err)
	}
	if len(body) != 1 {
		t.Errorf("body has %d keys, want exactly 1: %s", len(body), gotBody)
	}
	if body["tag_name"] != "v1.0.0" {
		t.Errorf("tag_name = %v, want %q", body["tag_name"], "v1.0.0")
	}
}

func TestCreateReleaseBodyContainsSetFields(t *testing.T) {
	var gotBody []byte
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotBody, _ = io.ReadAll(r.Body)
		w.Write([]byte(`{"id": 2, "tag_name": "v1.1.0"}`))
	})

	// An explicit false must serialize; only unset flags are omitted
	_, err := client.Repo("octo", "hello").Releases().
		Create("v1.1.0").
		TargetCommitish("main").
		Draft(false).
		Send(context.Background())
	if err != nil {
		t.Fatalf("Send failed: %v", err)
	}

	var body map[string]any
	if err := json.Unmarshal(gotBody, &body); err != nil {
		t.Fatalf("request body is not valid JSON: %v", err)
	}
	if len(body) != 3 {
		t.Errorf("body has %d keys, want exactly 3: %s", len(body), gotBody)
	}
	if body["tag_name"] != "v1.1.0" {
		t.Errorf("tag_name = %v, want %q", body["tag_name"], "v1.1.0")
	}
	if body["target_commitish"] != "main" {
		t.Errorf("target_commitish = %v, want %q", body["target_commitish"], "main")
	}
	draft, ok := body["draft"].(bool)
	if !ok || draft {
		t.Errorf("draft = %v, want explicit false", body["draft"])
	}
	if _, ok := body["prerelease"]; ok {
		t.Errorf("prerelease should be omitted, got %v", body["prerelease"])
	}
}

func TestCreateReleaseLastSetWins(t *testing.T) {
	var gotBody []byte
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotBody, _ = io.ReadAll(r.Body)
		w.Write([]byte(`{"id": 3, "tag_name": "v2.0.0"}`))
	})

	_, err := client.Repo("octo", "hello").Releases().
		Create("v2.0.0").
		Name("first").
		Name("second").
		Draft(true).
		Draft(false).
		Send(context.Background())
	if err != nil {
		t.Fatalf("Send failed: %v", err)
	}

	var body map[string]any
	if err := json.Unmarshal(gotBody, &body); err != nil {
		t.Fatalf("request body is not valid JSON: %v", err)
	}
	if body["name"] != "second" {
		t.Errorf("name = %v, want %q", body["name"], "second")
	}
	if draft, ok := body["draft"].(bool); !ok || draft {
		t.Errorf("draft = %v, want false", body["draft"])
	}
}

func TestCreateReleaseEmptyTagFailsLocally(t *testing.T) {
	requests := 0
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		requests++
		w.Write([]byte(`{}`))
	})

	_, err := client.Repo("octo", "hello").Releases().Create("").Send(context.Background())
	if !errors.Is(err, relerrors.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
	if requests != 0 {
		t.Errorf("expected no network request, got %d", requests)
	}
}

func TestRepoScopeValidation(t *testing.T) {
	requests := 0
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		requests++
		w.Write([]byte(`[]`))
	})

	tests := []struct {
		name  string
		owner string
		repo  string
	}{
		{"empty owner", "", "hello"},
		{"empty repo", "octo", ""},
		{"both empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := client.Repo(tt.owner, tt.repo).Releases().List().Send(context.Background())
			if !errors.Is(err, relerrors.ErrValidation) {
				t.Errorf("expected ErrValidation, got %v", err)
			}
		})
	}

	if requests != 0 {
		t.Errorf("expected no network requests, got %d", requests)
	}
}

func TestLatestReleasePath(t *testing.T) {
	var gotPath string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Write([]byte(`{"id": 5, "tag_name": "v3.0.0"}`))
	})

	release, err := client.Repo("octo", "hello").Releases().Latest(context.Background())
	if err != nil {
		t.Fatalf("Latest failed: %v", err)
	}
	if gotPath != "/repos/octo/hello/releases/latest" {
		t.Errorf("path = %q, want %q", gotPath, "/repos/octo/hello/releases/latest")
	}
	if release.TagName != "v3.0.0" {
		t.Errorf("TagName = %q, want %q", release.TagName, "v3.0.0")
	}
}

func TestReleaseByTag(t *testing.T) {
	var gotPath string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Write([]byte(`{"id": 6, "tag_name": "v1.2.3"}`))
	})

	_, err := client.Repo("octo", "hello").Releases().ByTag(context.Background(), "v1.2.3")
	if err != nil {
		t.Fatalf("ByTag failed: %v", err)
	}
	if gotPath != "/repos/octo/hello/releases/tags/v1.2.3" {
		t.Errorf("path = %q, want %q", gotPath, "/repos/octo/hello/releases/tags/v1.2.3")
	}

	_, err = client.Repo("octo", "hello").Releases().ByTag(context.Background(), "")
	if !errors.Is(err, relerrors.ErrValidation) {
		t.Errorf("expected ErrValidation for empty tag, got %v", err)
	}
}

func TestFetchReleasesClampsPageSize(t *testing.T) {
	var gotPerPage string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPerPage = r.URL.Query().Get("per_page")
		w.Write([]byte(`[]`))
	})

	_, err := client.FetchReleases(context.Background(), "octo", "hello", FetchOptions{PageSize: 500})
	if err != nil {
		t.Fatalf("FetchReleases failed: %v", err)
	}
	if gotPerPage != "100" {
		t.Errorf("per_page = %q, want clamped to 100", gotPerPage)
	}
}

func TestFetchReleasesErrorMapping(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr error
	}{
		{
			name:    "not found maps to ErrRepoNotFound",
			status:  http.StatusNotFound,
			body:    `{"message": "Not Found"}`,
			wantErr: relerrors.ErrRepoNotFound,
		},
		{
			name:    "unauthorized maps to ErrInvalidToken",
			status:  http.StatusUnauthorized,
			body:    `{"message": "Bad credentials"}`,
			wantErr: relerrors.ErrInvalidToken,
		},
		{
			name:    "forbidden rate limit maps to ErrRateLimit",
			status:  http.StatusForbidden,
			body:    `{"message": "API rate limit exceeded for user"}`,
			wantErr: relerrors.ErrRateLimit,
		},
		{
			name:    "unprocessable maps to ErrValidation",
			status:  http.StatusUnprocessableEntity,
			body:    `{"message": "Validation Failed"}`,
			wantErr: relerrors.ErrValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			})

			_, err := client.FetchReleases(context.Background(), "octo", "hello", FetchOptions{})
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestCreateReleaseViaServiceLayer(t *testing.T) {
	var gotBody []byte
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotBody, _ = io.ReadAll(r.Body)
		w.Write([]byte(`{"id": 7, "tag_name": "v4.0.0", "prerelease": true}`))
	})

	release, err := client.CreateRelease(context.Background(), "octo", "hello", CreateReleaseInput{
		TagName:    "v4.0.0",
		Prerelease: Ptr(true),
	})
	if err != nil {
		t.Fatalf("CreateRelease failed: %v", err)
	}
	if !release.Prerelease {
		t.Error("expected prerelease release")
	}

	var body map[string]any
	if err := json.Unmarshal(gotBody, &body); err != nil {
		t.Fatalf("request body is not valid JSON: %v", err)
	}
	if len(body) != 2 {
		t.Errorf("body has %d keys, want exactly 2: %s", len(body), gotBody)
	}
	if pre, ok := body["prerelease"].(bool); !ok || !pre {
		t.Errorf("prerelease = %v, want true", body["prerelease"])
	}
}
