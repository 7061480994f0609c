package summary

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// ReadYAML parses a dataset fixture. JSON documents are accepted too.
//
// Format:
//
//	case: BASE
//	times: [0, 10, 20]
//	vectors:
//	  WBHP:W1: [100, 90, 80]
//	  FOPR: [1500, 1490, 1470]
//
// Unknown fields are rejected so typos surface immediately.
func ReadYAML(r io.Reader) (*Dataset, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read dataset: %w", err)
	}

	var ds Dataset
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&ds); err != nil {
		return nil, fmt.Errorf("failed to parse dataset: %w", err)
	}
	if ds.Vectors == nil {
		ds.Vectors = make(map[string][]float64)
	}
	return &ds, nil
}

// LoadFile reads a dataset fixture from disk. When the fixture does not name
// its case, the file's base name is used.
func LoadFile(path string) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open dataset file: %w", err)
	}
	defer f.Close()

	ds, err := ReadYAML(f)
	if err != nil {
		return nil, err
	}
	if ds.Case == "" {
		base := filepath.Base(path)
		ds.Case = strings.TrimSuffix(base, filepath.Ext(base))
	}
	return ds, nil
}

// WriteYAML writes ds in the fixture format read by ReadYAML.
func WriteYAML(w io.Writer, ds *Dataset) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(ds); err != nil {
		return fmt.Errorf("failed to encode dataset: %w", err)
	}
	return enc.Close()
}
