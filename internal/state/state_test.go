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

package state

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestGetStateFilePath(t *testing.T) {
	tests := []struct {
		name       string
		repository string
		wantSuffix string
	}{
		{
			name:       "standard repository",
			repository: "kubernetes/kubernetes",
			wantSuffix: ".relkit/state/kubernetes-kubernetes.state",
		},
		{
			name:       "repository with multiple slashes",
			repository: "org/sub/repo",
			wantSuffix: ".relkit/state/org-sub-repo.state",
		},
		{
			name:       "simple repository",
			repository: "simple",
			wantSuffix: ".relkit/state/simple.state",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := GetStateFilePath(tt.repository)
			if !strings.HasSuffix(got, tt.wantSuffix) {
				t.Errorf("GetStateFilePath(%q) = %q, want suffix %q", tt.repository, got, tt.wantSuffix)
			}
		})
	}
}

func TestSaveAndLoadState(t *testing.T) {
	tempDir := t.TempDir()

	testState := &FetchState{
		Repository:      "test/repo",
		LastFetchID:     "full-1718000000",
		LastReleaseID:   987654,
		LastReleaseTag:  "v2.4.0",
		LastPublishedAt: time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC),
		LastFetchTime:   time.Date(2024, 1, 15, 11, 0, 0, 0, time.UTC),
		TotalFetched:    150,
	}

	stateFile := filepath.Join(tempDir, "test.state")

	if err := SaveState(testState, stateFile); err != nil {
		t.Fatalf("SaveState failed: %v", err)
	}

	if _, err := os.Stat(stateFile); err != nil {
		t.Fatalf("State file not created: %v", err)
	}

	loadedState, err := LoadState(stateFile)
	if err != nil {
		t.Fatalf("LoadState failed: %v", err)
	}

	if loadedState.Repository != testState.Repository {
		t.Errorf("Repository mismatch: got %q, want %q", loadedState.Repository, testState.Repository)
	}
	if loadedState.LastReleaseID != testState.LastReleaseID {
		t.Errorf("LastReleaseID mismatch: got %d, want %d", loadedState.LastReleaseID, testState.LastReleaseID)
	}
	if loadedState.LastReleaseTag != testState.LastReleaseTag {
		t.Errorf("LastReleaseTag mismatch: got %q, want %q", loadedState.LastReleaseTag, testState.LastReleaseTag)
	}
	if !loadedState.LastPublishedAt.Equal(testState.LastPublishedAt) {
		t.Errorf("LastPublishedAt mismatch: got %v, want %v", loadedState.LastPublishedAt, testState.LastPublishedAt)
	}
	if loadedState.Version != CurrentVersion {
		t.Errorf("Version mismatch: got %d, want %d", loadedState.Version, CurrentVersion)
	}
	if loadedState.Checksum == "" {
		t.Error("Checksum should be populated after save")
	}
}

func TestLoadStateMissingFile(t *testing.T) {
	_, err := LoadState(filepath.Join(t.TempDir(), "missing.state"))
	if err == nil {
		t.Fatal("expected error for missing state file")
	}
	if !strings.Contains(err.Error(), "--all") {
		t.Errorf("error should suggest --all for initial fetch, got: %v", err)
	}
}

func TestLoadStateDetectsCorruption(t *testing.T) {
	tempDir := t.TempDir()
	stateFile := filepath.Join(tempDir, "corrupt.state")

	testState := &FetchState{
		Repository:    "test/repo",
		LastReleaseID: 42,
	}
	if err := SaveState(testState, stateFile); err != nil {
		t.Fatalf("SaveState failed: %v", err)
	}

	// Tamper with a field without recalculating the checksum
	data, err := os.ReadFile(stateFile)
	if err != nil {
		t.Fatalf("failed to read state file: %v", err)
	}
	var tampered FetchState
	if err := json.Unmarshal(data, &tampered); err != nil {
		t.Fatalf("failed to parse state file: %v", err)
	}
	tampered.LastReleaseID = 9999
	data, _ = json.Marshal(tampered)
	if err := os.WriteFile(stateFile, data, 0o600); err != nil {
		t.Fatalf("failed to write tampered state: %v", err)
	}

	_, err = LoadState(stateFile)
	if err == nil {
		t.Fatal("expected checksum mismatch error")
	}
	if !strings.Contains(err.Error(), "checksum") {
		t.Errorf("error should mention checksum, got: %v", err)
	}
}

func TestLoadStateInvalidJSON(t *testing.T) {
	tempDir := t.TempDir()
	stateFile := filepath.Join(tempDir, "garbage.state")
	if err := os.WriteFile(stateFile, []byte("not json at all"), 0o600); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}

	_, err := LoadState(stateFile)
	if err == nil {
		t.Fatal("expected error for invalid JSON")
	}
}

func TestLoadStateVersionMismatch(t *testing.T) {
	tempDir := t.TempDir()
	stateFile := filepath.Join(tempDir, "old.state")

	old := map[string]any{
		"version":    CurrentVersion + 1,
		"repository": "test/repo",
	}
	data, _ := json.Marshal(old)
	if err := os.WriteFile(stateFile, data, 0o600); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}

	_, err := LoadState(stateFile)
	if err == nil {
		t.Fatal("expected version incompatibility error")
	}
	if !strings.Contains(err.Error(), "incompatible") {
		t.Errorf("error should mention incompatibility, got: %v", err)
	}
}

func TestDeleteState(t *testing.T) {
	tempDir := t.TempDir()
	stateFile := filepath.Join(tempDir, "delete.state")

	if err := SaveState(&FetchState{Repository: "a/b"}, stateFile); err != nil {
		t.Fatalf("SaveState failed: %v", err)
	}
	if err := DeleteState(stateFile); err != nil {
		t.Fatalf("DeleteState failed: %v", err)
	}
	if _, err := os.Stat(stateFile); !os.IsNotExist(err) {
		t.Error("state file should be gone")
	}

	// Deleting a missing file is not an error
	if err := DeleteState(stateFile); err != nil {
		t.Errorf("DeleteState on missing file: %v", err)
	}
}

func TestSaveStateCreatesDirectory(t *testing.T) {
	tempDir := t.TempDir()
	stateFile := filepath.Join(tempDir, "nested", "dir", "test.state")

	if err := SaveState(&FetchState{Repository: "a/b"}, stateFile); err != nil {
		t.Fatalf("SaveState failed: %v", err)
	}
	if _, err := os.Stat(stateFile); err != nil {
		t.Errorf("state file not created in nested directory: %v", err)
	}
}

func TestSaveStateAtomicity(t *testing.T) {
	tempDir := t.TempDir()
	stateFile := filepath.Join(tempDir, "atomic.state")

	if err := SaveState(&FetchState{Repository: "a/b", TotalFetched: 1}, stateFile); err != nil {
		t.Fatalf("first SaveState failed: %v", err)
	}
	if err := SaveState(&FetchState{Repository: "a/b", TotalFetched: 2}, stateFile); err != nil {
		t.Fatalf("second SaveState failed: %v", err)
	}

	// No temp files must survive a successful save
	entries, err := os.ReadDir(tempDir)
	if err != nil {
		t.Fatalf("failed to read dir: %v", err)
	}
	for _, e := range entries {
		if strings.HasSuffix(e.Name(), ".tmp") {
			t.Errorf("leftover temp file: %s", e.Name())
		}
	}

	loaded, err := LoadState(stateFile)
	if err != nil {
		t.Fatalf("LoadState failed: %v", err)
	}
	if loaded.TotalFetched != 2 {
		t.Errorf("TotalFetched = %d, want latest write 2", loaded.TotalFetched)
	}
}
