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

package metadata

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"
)

func TestTrackerReleaseStats(t *testing.T) {
	tracker := New()

	base := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	tracker.UpdateReleaseStats(300, base.Add(48*time.Hour), false, false)
	tracker.UpdateReleaseStats(100, base, false, true)
	tracker.UpdateReleaseStats(200, base.Add(24*time.Hour), true, false)

	meta := tracker.GenerateMetadata("1.0.0", FetchParams{
		Organization: "octo",
		Repository:   "hello",
		FetchAll:     true,
		PageSize:     50,
	}, false, nil)

	if meta.Results.TotalReleases != 3 {
		t.Errorf("TotalReleases = %d, want 3", meta.Results.TotalReleases)
	}
	if meta.Results.FirstRelease != 100 {
		t.Errorf("FirstRelease = %d, want 100", meta.Results.FirstRelease)
	}
	if meta.Results.LastRelease != 300 {
		t.Errorf("LastRelease = %d, want 300", meta.Results.LastRelease)
	}
	if !meta.Results.Oldest.Equal(base) {
		t.Errorf("Oldest = %v, want %v", meta.Results.Oldest, base)
	}
	if !meta.Results.Newest.Equal(base.Add(48 * time.Hour)) {
		t.Errorf("Newest = %v, want %v", meta.Results.Newest, base.Add(48*time.Hour))
	}
	if meta.Results.Drafts != 1 {
		t.Errorf("Drafts = %d, want 1", meta.Results.Drafts)
	}
	if meta.Results.Prereleases != 1 {
		t.Errorf("Prereleases = %d, want 1", meta.Results.Prereleases)
	}
}

func TestTrackerSkipsZeroDatesForDrafts(t *testing.T) {
	tracker := New()

	published := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	tracker.UpdateReleaseStats(1, published, false, false)
	// Drafts carry a zero publish date
	tracker.UpdateReleaseStats(2, time.Time{}, true, false)

	meta := tracker.GenerateMetadata("1.0.0", FetchParams{}, false, nil)
	if !meta.Results.Oldest.Equal(published) {
		t.Errorf("Oldest = %v, zero draft date should not win", meta.Results.Oldest)
	}
}

func TestTrackerAPICallCount(t *testing.T) {
	tracker := New()
	for i := 0; i < 7; i++ {
		tracker.IncrementAPICall()
	}

	meta := tracker.GenerateMetadata("1.0.0", FetchParams{}, false, nil)
	if meta.Results.APICallCount != 7 {
		t.Errorf("APICallCount = %d, want 7", meta.Results.APICallCount)
	}
}

func TestGenerateMetadataFetchID(t *testing.T) {
	full := New().GenerateMetadata("1.0.0", FetchParams{}, false, nil)
	if !strings.HasPrefix(full.FetchID, "full-") {
		t.Errorf("FetchID = %q, want full- prefix", full.FetchID)
	}

	prev := &FetchRef{FetchID: full.FetchID, CompletedAt: full.Results.CompletedAt}
	incr := New().GenerateMetadata("1.0.0", FetchParams{}, true, prev)
	if !strings.HasPrefix(incr.FetchID, "incremental-") {
		t.Errorf("FetchID = %q, want incremental- prefix", incr.FetchID)
	}
	if incr.PreviousFetch == nil || incr.PreviousFetch.FetchID != full.FetchID {
		t.Error("incremental metadata should link its predecessor")
	}
	if incr.MethodVersion != MethodVersion {
		t.Errorf("MethodVersion = %q, want %q", incr.MethodVersion, MethodVersion)
	}
}

func TestSaveAndLoadLatestMetadata(t *testing.T) {
	tempDir := t.TempDir()

	tracker := New()
	tracker.UpdateReleaseStats(1, time.Now().UTC(), false, false)
	meta := tracker.GenerateMetadata("1.0.0", FetchParams{
		Organization: "octo",
		Repository:   "hello",
		PageSize:     50,
	}, false, nil)

	if err := SaveMetadata(meta, tempDir); err != nil {
		t.Fatalf("SaveMetadata failed: %v", err)
	}

	loaded, err := LoadLatestMetadata(tempDir, "octo/hello")
	if err != nil {
		t.Fatalf("LoadLatestMetadata failed: %v", err)
	}
	if loaded == nil {
		t.Fatal("expected metadata, got nil")
	}
	if loaded.FetchID != meta.FetchID {
		t.Errorf("FetchID = %q, want %q", loaded.FetchID, meta.FetchID)
	}
	if loaded.Results.TotalReleases != 1 {
		t.Errorf("TotalReleases = %d, want 1", loaded.Results.TotalReleases)
	}
}

func TestLoadLatestMetadataDifferentRepo(t *testing.T) {
	tempDir := t.TempDir()

	meta := New().GenerateMetadata("1.0.0", FetchParams{
		Organization: "octo",
		Repository:   "hello",
	}, false, nil)
	if err := SaveMetadata(meta, tempDir); err != nil {
		t.Fatalf("SaveMetadata failed: %v", err)
	}

	loaded, err := LoadLatestMetadata(tempDir, "other/repo")
	if err != nil {
		t.Fatalf("LoadLatestMetadata failed: %v", err)
	}
	if loaded != nil {
		t.Error("metadata for a different repository should not be returned")
	}
}

func TestLoadLatestMetadataEmpty(t *testing.T) {
	loaded, err := LoadLatestMetadata(t.TempDir(), "octo/hello")
	if err != nil {
		t.Fatalf("LoadLatestMetadata failed: %v", err)
	}
	if loaded != nil {
		t.Error("expected nil for empty state directory")
	}
}

func TestWriteMetadataToWriter(t *testing.T) {
	meta := New().GenerateMetadata("1.0.0", FetchParams{
		Organization: "octo",
		Repository:   "hello",
	}, false, nil)

	var buf bytes.Buffer
	if err := WriteMetadataToWriter(meta, &buf); err != nil {
		t.Fatalf("WriteMetadataToWriter failed: %v", err)
	}

	var decoded FetchMetadata
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if decoded.Parameters.Organization != "octo" {
		t.Errorf("Organization = %q, want octo", decoded.Parameters.Organization)
	}
}
