package store

import (
	"path/filepath"
	"testing"

	"github.com/roach88/summarycmp/internal/summary"
)

// createTestStore creates a new store in a temp directory for testing.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// createTestDataset returns a small valid dataset.
func createTestDataset() *summary.Dataset {
	return &summary.Dataset{
		Case:  "BASE",
		Times: []float64{0, 10, 20},
		Vectors: map[string][]float64{
			"FOPR":    {1500, 1490, 1470},
			"WBHP:W1": {100, 90, 80},
		},
	}
}
