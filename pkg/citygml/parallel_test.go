package citygml

import (
	"bytes"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestFindDocuments(t *testing.T) {
	paths, err := FindDocuments(testDataDir)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	var names []string
	for _, p := range paths {
		rel, _ := filepath.Rel(testDataDir, p)
		names = append(names, filepath.ToSlash(rel))
	}
	want := []string{"broken/truncated.gml", "tokyo/block_a.gml", "tokyo/block_b.gml"}
	if diff := cmp.Diff(want, names); diff != "" {
		t.Errorf("Documents mismatch (-want +got):\n%s", diff)
	}

	if _, err := FindDocuments(testDataDir + "/nowhere"); err == nil {
		t.Error("Expected an error for a missing directory")
	}
}

func TestLoadModelsParallel(t *testing.T) {
	paths := []string{
		testDataDir + "/tokyo/block_b.gml",
		testDataDir + "/broken/truncated.gml",
		testDataDir + "/tokyo/block_a.gml",
	}

	tests := []struct {
		name     string
		parallel bool
		workers  int
	}{
		{"serial", false, 0},
		{"one worker", true, 1},
		{"many workers", true, 8},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var mu sync.Mutex
			var calls []int
			var log bytes.Buffer

			opts := DefaultLoadOptions()
			opts.Parallel = tt.parallel
			opts.Workers = tt.workers
			opts.ErrorLog = &log
			opts.Progress = func(loaded, total int) {
				mu.Lock()
				defer mu.Unlock()
				if total != len(paths) {
					t.Errorf("Expected total %d, got %d", len(paths), total)
				}
				calls = append(calls, loaded)
			}

			models, errs := LoadModelsParallel(paths, NewParser(), opts)
			if len(models) != 2 {
				t.Fatalf("Expected 2 models, got %d", len(models))
			}
			if len(errs) != 1 {
				t.Fatalf("Expected 1 error, got %d", len(errs))
			}
			if !strings.Contains(errs[0].Error(), "truncated.gml") {
				t.Errorf("Expected the error to name the document, got %v", errs[0])
			}
			if models[0].ID != "block_b" || models[1].ID != "block_a" {
				t.Errorf("Expected models in path order, got %s, %s", models[0].ID, models[1].ID)
			}
			if diff := cmp.Diff([]int{1, 2, 3}, calls); diff != "" {
				t.Errorf("Progress mismatch (-want +got):\n%s", diff)
			}
			if !strings.Contains(log.String(), "truncated.gml") {
				t.Errorf("Expected the failure in the error log, got %q", log.String())
			}
		})
	}
}

func TestLoadModelsStopsOnError(t *testing.T) {
	paths := []string{testDataDir + "/broken/truncated.gml", testDataDir + "/tokyo/block_a.gml"}
	for _, parallel := range []bool{false, true} {
		opts := DefaultLoadOptions()
		opts.Parallel = parallel
		opts.SkipErrors = false
		models, errs := LoadModelsParallel(paths, NewParser(), opts)
		if models != nil || len(errs) != 1 {
			t.Errorf("parallel=%v: Expected only the first error, got %d models and %d errors", parallel, len(models), len(errs))
		}
	}
}

func TestLoadModelsEmpty(t *testing.T) {
	models, errs := LoadModelsParallel(nil, NewParser(), DefaultLoadOptions())
	if len(models) != 0 || errs != nil {
		t.Errorf("Expected nothing for no paths, got %d models and %v", len(models), errs)
	}
}
