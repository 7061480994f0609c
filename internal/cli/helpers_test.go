package cli

import (
	"bytes"
	"testing"

	"github.com/roach88/summarycmp/internal/testutil"
)

// executeCommand runs the root command with args and captures its output.
func executeCommand(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()

	cmd := NewRootCommand()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)

	err = cmd.Execute()
	return out.String(), errOut.String(), err
}

// testDatasets holds fixture paths written by writeDatasets.
type testDatasets struct {
	dir    string
	base   string
	rerun  string
	drift  string
	late   string
	subset string
}

// writeDatasets writes a base case and variations of it to a temp dir.
//
// drift deviates from base by 0.5 relative at the last report step of
// WBHP:W1 only; late starts after base's first report time; subset holds a
// keyword base lacks.
func writeDatasets(t *testing.T) testDatasets {
	t.Helper()
	dir := t.TempDir()

	return testDatasets{
		dir: dir,
		base: testutil.WriteFixture(t, dir, testutil.NewDataset("BASE", 0, 10, 20).
			Linear("FOPR", 100, 1).
			With("WBHP:W1", 200, 210, 220).
			Build()),
		rerun: testutil.WriteFixture(t, dir, testutil.NewDataset("RERUN", 0, 10, 20).
			Linear("FOPR", 100, 1).
			With("WBHP:W1", 200, 210, 220).
			Build()),
		drift: testutil.WriteFixture(t, dir, testutil.NewDataset("DRIFT", 0, 10, 20).
			Linear("FOPR", 100, 1).
			With("WBHP:W1", 200, 210, 440).
			Build()),
		late: testutil.WriteFixture(t, dir, testutil.NewDataset("LATE", 10, 20, 30).
			Linear("FOPR", 100, 1).
			With("WBHP:W1", 210, 220, 230).
			Build()),
		subset: testutil.WriteFixture(t, dir, testutil.NewDataset("SUBSET", 0, 10, 20).
			With("FGOR", 1.2, 1.2, 1.3).
			Build()),
	}
}
