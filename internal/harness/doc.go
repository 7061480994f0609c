// Package harness runs suites of summary comparisons.
//
// A suite is a YAML file listing comparison cases. Each case names a reference
// and a candidate dataset, optional tolerance settings, and the outcome it
// expects. A case passes when the comparison outcome matches the expectation,
// so known regressions can be pinned as expected failures.
//
// # Suite Format
//
//	name: wells
//	description: "Rerun against the base case"
//	tolerance:
//	  relative_max: 1.0
//	  relative_median_max: 0.1
//	fail_mode: collect-all
//	cases:
//	  - name: rerun_matches_base
//	    reference: data/base.yaml
//	    candidate: data/rerun.db
//	    keys: ["WBHP:*", "FOPR"]
//	  - name: coarse_grid_drifts
//	    reference: data/base.yaml
//	    candidate: data/coarse.yaml
//	    policy: policies/coarse.cue
//	    expect: fail
//	    expect_code: TOLERANCE_EXCEEDED
//
// Dataset and policy paths are relative to the suite file. Suite-level
// tolerance and fail_mode apply to every case; case-level settings win.
//
// # Golden Reports
//
// Cases that produce a report can be pinned by a golden file in
// <suite dir>/golden/<case>.golden holding the text report. Run IDs are fixed
// per case so golden reports are reproducible.
//
// # Usage
//
//	suite, err := harness.LoadSuite("testdata/suites/wells.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	result, err := harness.Run(ctx, suite, harness.Options{})
//	if !result.Pass() {
//	    for _, c := range result.Cases {
//	        log.Println(c.Name, c.Errors)
//	    }
//	}
package harness
