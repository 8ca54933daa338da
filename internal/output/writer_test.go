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

package output

import (
	"bufio"
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
)

type testRecord struct {
	TagName string `json:"tag_name"`
	ID      int    `json:"id"`
}

func TestWriterProducesNDJSON(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)

	records := []testRecord{
		{TagName: "v1.0.0", ID: 1},
		{TagName: "v1.1.0", ID: 2},
		{TagName: "v2.0.0", ID: 3},
	}
	for _, r := range records {
		if err := w.Write(r); err != nil {
			t.Fatalf("Write failed: %v", err)
		}
	}

	if w.Count() != 3 {
		t.Errorf("Count() = %d, want 3", w.Count())
	}

	scanner := bufio.NewScanner(&buf)
	lines := 0
	for scanner.Scan() {
		var rec testRecord
		if err := json.Unmarshal(scanner.Bytes(), &rec); err != nil {
			t.Errorf("line %d is not valid JSON: %v", lines+1, err)
		}
		if rec.TagName != records[lines].TagName {
			t.Errorf("line %d = %q, want %q", lines+1, rec.TagName, records[lines].TagName)
		}
		lines++
	}
	if lines != 3 {
		t.Errorf("got %d lines, want 3", lines)
	}
}

func TestFileWriter(t *testing.T) {
	path := filepath.Join(t.TempDir(), "releases.ndjson")

	w, err := NewFileWriter(path)
	if err != nil {
		t.Fatalf("NewFileWriter failed: %v", err)
	}
	if err := w.Write(testRecord{TagName: "v1.0.0", ID: 1}); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read output file: %v", err)
	}
	if !strings.Contains(string(data), `"tag_name":"v1.0.0"`) {
		t.Errorf("unexpected file contents: %s", data)
	}
}

func TestFileWriterBadPath(t *testing.T) {
	_, err := NewFileWriter(filepath.Join(t.TempDir(), "missing-dir", "out.ndjson"))
	if err == nil {
		t.Fatal("expected error for unwritable path")
	}
}

func TestWriterConcurrentWrites(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			for j := 0; j < 20; j++ {
				_ = w.Write(testRecord{TagName: "v0.0.1", ID: id})
			}
		}(i)
	}
	wg.Wait()

	if w.Count() != 200 {
		t.Errorf("Count() = %d, want 200", w.Count())
	}

	// Every line must still be intact JSON
	scanner := bufio.NewScanner(&buf)
	for scanner.Scan() {
		var rec testRecord
		if err := json.Unmarshal(scanner.Bytes(), &rec); err != nil {
			t.Fatalf("interleaved write produced invalid JSON: %v", err)
		}
	}
}

func TestWriterCloseWithoutFile(t *testing.T) {
	w := NewWriter(&bytes.Buffer{})
	if err := w.Close(); err != nil {
		t.Errorf("Close on non-file writer: %v", err)
	}
}
