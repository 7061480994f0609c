// Package store provides SQLite-backed storage for summary datasets.
//
// A store file holds exactly one dataset:
//   - meta: case name and import provenance (key/value)
//   - report_steps: report step index and simulation time
//   - keywords: one row per keyword identifier
//   - samples: one value per (keyword, report step)
//
// # Ordering
//
// Report times are always read ORDER BY step ASC, and series values are
// joined against report_steps so they line up 1:1 with the time vector.
// A keyword missing a sample at any report step is reported as an error
// rather than padded.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
//
// *Store implements summary.Source, so a stored dataset can be compared
// directly without first exporting it.
package store
