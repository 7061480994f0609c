// Package source opens dataset locations for comparison.
package source

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/roach88/summarycmp/internal/engine"
	"github.com/roach88/summarycmp/internal/store"
	"github.com/roach88/summarycmp/internal/summary"
)

// Kind is the storage format of a dataset location.
type Kind string

const (
	KindFixture Kind = "fixture"
	KindStore   Kind = "store"
)

// DetectKind infers the format from the file extension.
func DetectKind(path string) (Kind, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml", ".json":
		return KindFixture, nil
	case ".db", ".sqlite", ".sqlite3":
		return KindStore, nil
	default:
		return "", fmt.Errorf("unrecognized dataset extension %q (want .yaml, .yml, .json, .db, .sqlite or .sqlite3)", filepath.Ext(path))
	}
}

// Open loads and materializes the dataset at path.
//
// Any failure is returned as a DATASET_UNAVAILABLE CompareError naming path.
// A missing store file is never created.
func Open(ctx context.Context, path string) (*summary.Dataset, error) {
	ds, err := open(ctx, path)
	if err != nil {
		return nil, engine.NewDatasetUnavailableError(path, err)
	}
	return ds, nil
}

func open(ctx context.Context, path string) (*summary.Dataset, error) {
	kind, err := DetectKind(path)
	if err != nil {
		return nil, err
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%s is a directory", path)
	}

	switch kind {
	case KindStore:
		s, err := store.Open(path)
		if err != nil {
			return nil, err
		}
		defer s.Close()
		return summary.Materialize(ctx, s)
	default:
		ds, err := summary.LoadFile(path)
		if err != nil {
			return nil, err
		}
		return summary.Materialize(ctx, ds)
	}
}
