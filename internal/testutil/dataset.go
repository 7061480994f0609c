package testutil

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/roach88/summarycmp/internal/store"
	"github.com/roach88/summarycmp/internal/summary"
)

// DatasetBuilder assembles summary datasets for tests.
//
//	ds := testutil.NewDataset("BASE", 0, 10, 20).
//		With("WBHP:W1", 200, 210, 220).
//		Linear("FOPR", 100, 5).
//		Build()
type DatasetBuilder struct {
	ds *summary.Dataset
}

// NewDataset starts a dataset with the given case name and report times.
func NewDataset(name string, times ...float64) *DatasetBuilder {
	return &DatasetBuilder{ds: &summary.Dataset{
		Case:    name,
		Times:   append([]float64(nil), times...),
		Vectors: make(map[string][]float64),
	}}
}

// With sets the values of keyword.
func (b *DatasetBuilder) With(keyword string, values ...float64) *DatasetBuilder {
	b.ds.Vectors[keyword] = append([]float64(nil), values...)
	return b
}

// Linear sets keyword to intercept + slope*t at every report time.
func (b *DatasetBuilder) Linear(keyword string, intercept, slope float64) *DatasetBuilder {
	values := make([]float64, len(b.ds.Times))
	for i, t := range b.ds.Times {
		values[i] = intercept + slope*t
	}
	b.ds.Vectors[keyword] = values
	return b
}

// Scaled sets keyword to the values of source multiplied by factor.
// The source keyword must already be set.
func (b *DatasetBuilder) Scaled(keyword, source string, factor float64) *DatasetBuilder {
	src := b.ds.Vectors[source]
	values := make([]float64, len(src))
	for i, v := range src {
		values[i] = v * factor
	}
	b.ds.Vectors[keyword] = values
	return b
}

// Build returns the dataset. The builder must not be reused afterwards.
func (b *DatasetBuilder) Build() *summary.Dataset {
	return b.ds
}

// WriteFixture writes ds as a YAML fixture in dir and returns its path.
func WriteFixture(t testing.TB, dir string, ds *summary.Dataset) string {
	t.Helper()

	path := filepath.Join(dir, ds.Case+".yaml")
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	require.NoError(t, summary.WriteYAML(f, ds))
	return path
}

// WriteStore imports ds into a new SQLite store in dir and returns its path.
func WriteStore(t testing.TB, dir string, ds *summary.Dataset) string {
	t.Helper()

	path := filepath.Join(dir, ds.Case+".db")
	st, err := store.Open(path)
	require.NoError(t, err)
	defer st.Close()

	require.NoError(t, st.WriteDataset(context.Background(), ds, "testutil"))
	return path
}
