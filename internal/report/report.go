// Package report renders comparison reports for humans and machines.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/roach88/summarycmp/internal/engine"
)

// WriteText renders r as a human-readable report.
//
// Passing keywords show their statistics; failing keywords additionally list
// each violated threshold, and keywords that could not be compared show the
// error instead.
func WriteText(w io.Writer, r *engine.Report) error {
	p := &printer{w: w}

	p.printf("Comparing %s (reference) with %s (candidate)\n", r.Reference, r.Candidate)
	p.printf("Run %s: %d keyword(s), time reference is the %s\n", r.RunID, len(r.Keywords), r.TimeReference)

	for _, res := range r.Results {
		mark := "✓"
		if !res.Passed() {
			mark = "✗"
		}
		p.printf("%s %s\n", mark, res.Keyword)

		if res.Error != nil {
			p.printf("  %s\n", res.Error.Error())
			continue
		}

		st := res.Statistics
		p.printf("  relative: avg=%s median=%s max=%s\n",
			formatFloat(st.AverageRelative), formatFloat(st.MedianRelative), formatFloat(st.MaxRelative))
		p.printf("  absolute: avg=%s median=%s max=%s (samples=%d)\n",
			formatFloat(st.AverageAbsolute), formatFloat(st.MedianAbsolute), formatFloat(st.MaxAbsolute), st.SampleCount)
		for _, v := range res.Verdict.Violations {
			p.printf("  %s\n", v.String())
		}
	}

	if r.Skipped > 0 {
		p.printf("Stopped after first failure; %d keyword(s) not compared\n", r.Skipped)
	}

	if r.Pass {
		p.printf("PASS: %d of %d keyword(s) within tolerance\n", len(r.Results), len(r.Keywords))
	} else {
		p.printf("FAIL: %d of %d keyword(s) failed\n", r.Failed, len(r.Keywords))
	}

	return p.err
}

// WriteJSON renders r as indented JSON.
func WriteJSON(w io.Writer, r *engine.Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(r); err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}
	return nil
}

// printer keeps the first write error so rendering code stays linear.
type printer struct {
	w   io.Writer
	err error
}

func (p *printer) printf(format string, args ...any) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintf(p.w, format, args...)
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', 6, 64)
}
