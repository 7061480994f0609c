package summary

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadYAML(t *testing.T) {
	in := `
case: BASE
times: [0, 10, 20]
vectors:
  WBHP:W1: [100, 90, 80]
  FOPR: [1500, 1490, 1470]
`
	ds, err := ReadYAML(strings.NewReader(in))
	require.NoError(t, err)
	assert.Equal(t, "BASE", ds.Case)
	assert.Equal(t, []float64{0, 10, 20}, ds.Times)
	assert.Equal(t, []float64{100, 90, 80}, ds.Vectors["WBHP:W1"])
	assert.NoError(t, ds.Validate())
}

func TestReadYAML_AcceptsJSON(t *testing.T) {
	in := `{"case": "J", "times": [0, 1], "vectors": {"FOPR": [1, 2]}}`
	ds, err := ReadYAML(strings.NewReader(in))
	require.NoError(t, err)
	assert.Equal(t, "J", ds.Case)
	assert.Equal(t, []float64{1, 2}, ds.Vectors["FOPR"])
}

func TestReadYAML_RejectsUnknownFields(t *testing.T) {
	in := "case: X\ntimes: [0]\nseries:\n  FOPR: [1]\n"
	_, err := ReadYAML(strings.NewReader(in))
	assert.ErrorContains(t, err, "failed to parse dataset")
}

func TestWriteYAML_RoundTrip(t *testing.T) {
	ds := sampleDataset()

	var buf bytes.Buffer
	require.NoError(t, WriteYAML(&buf, ds))

	back, err := ReadYAML(&buf)
	require.NoError(t, err)
	assert.Equal(t, ds, back)
}

func TestLoadFile_DefaultsCaseToBaseName(t *testing.T) {
	path := filepath.Join(t.TempDir(), "NORNE_ATW2013.yaml")
	require.NoError(t, os.WriteFile(path, []byte("times: [0]\nvectors:\n  FOPR: [1]\n"), 0o644))

	ds, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "NORNE_ATW2013", ds.Case)
}

func TestLoadFile_Missing(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.ErrorContains(t, err, "failed to open dataset file")
}
