// Package engine implements the summary comparison engine.
//
// A comparison takes two datasets, a reference and a candidate, and decides
// whether they are equivalent within configured tolerances.
//
// PIPELINE:
//
// 1. Both datasets are materialized from their Source (DATASET_UNAVAILABLE on failure)
// 2. ReconcileKeys pairs the keyword sets (KEYWORD_MISMATCH on divergence)
// 3. Per keyword, SelectReference picks the series with fewer report times
// 4. Align samples the checking series at every reference time
// 5. A Calculator turns each aligned pair into a Deviation
// 6. Aggregate reduces the deviations to Statistics
// 7. Judge compares the Statistics against the keyword's Tolerance
//
// Two unrelated notions of "smaller" exist: the smaller keyword set (step 2)
// and the smaller time vector (step 3). They are decided independently and
// need not refer to the same dataset.
//
// DETERMINISM:
//
// Keywords are evaluated in lexicographic order. In fail-fast mode evaluation
// is strictly sequential and stops at the first failing keyword. In
// collect-all mode keywords may be evaluated concurrently, but every keyword
// owns its working slices and results are stored by index, so the Report is
// identical to a sequential run.
package engine
