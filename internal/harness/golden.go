package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/sebdah/goldie/v2"
)

// GoldenPath returns the golden report path for a case of suite.
func GoldenPath(suite *Suite, caseName string) string {
	return filepath.Join(suite.Dir, "golden", caseName+".golden")
}

// checkGolden compares the case's text report with its golden file, or
// rewrites the file when update is set. A missing golden file is not an
// error; the case is then judged on its expectation alone.
func checkGolden(suite *Suite, res *CaseResult, update bool) error {
	data, err := res.Text()
	if err != nil {
		return fmt.Errorf("failed to render report: %w", err)
	}

	goldenPath := GoldenPath(suite, res.Name)

	if update {
		if err := os.MkdirAll(filepath.Dir(goldenPath), 0o755); err != nil {
			return fmt.Errorf("failed to create golden directory: %w", err)
		}
		if err := os.WriteFile(goldenPath, data, 0o644); err != nil {
			return fmt.Errorf("failed to write golden file: %w", err)
		}
		res.Golden = GoldenUpdated
		return nil
	}

	want, err := os.ReadFile(goldenPath)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read golden file: %w", err)
	}

	if bytes.Equal(want, data) {
		res.Golden = GoldenMatch
		return nil
	}
	res.Golden = GoldenMismatch
	res.AddError("report does not match golden file (run with --update to regenerate)")
	return nil
}

// AssertGolden compares data against testdata/golden/<name>.golden.
//
// To regenerate golden files, run:
//
//	go test ./... -update
func AssertGolden(t *testing.T, name string, data []byte) {
	t.Helper()

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, name, data)
}

// AssertCaseGolden renders the case's text report and compares it with
// testdata/golden/<case>.golden.
func AssertCaseGolden(t *testing.T, res CaseResult) {
	t.Helper()

	data, err := res.Text()
	if err != nil {
		t.Fatalf("render report for %s: %v", res.Name, err)
	}
	if data == nil {
		t.Fatalf("case %s produced no report: %v", res.Name, res.Err)
	}
	AssertGolden(t, res.Name, data)
}
