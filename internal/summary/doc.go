// Package summary provides the data model for simulation summary datasets.
//
// A dataset is a set of report times plus, per keyword, one value per report
// time. Keywords identify a physical quantity and its location, for example
// "WBHP:WELL1" (bottom-hole pressure of WELL1) or "FOPR" (field oil rate).
//
// This package contains no comparison logic. All other internal packages
// import summary; summary imports nothing internal.
//
// Key constraints:
//   - Report times are non-decreasing and never NaN
//   - Every series has exactly one value per report time
//   - Keywords are NFC-normalized at the Source boundary (see Materialize)
package summary
