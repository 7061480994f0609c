package engine

import (
	"fmt"
	"strconv"
	"strings"
)

// Statistic names used in violations.
const (
	StatMaxRelative    = "max_relative"
	StatMedianRelative = "median_relative"
	StatMaxAbsolute    = "max_absolute"
)

// Violation is one statistic that exceeded its threshold.
type Violation struct {
	Statistic string  `json:"statistic"`
	Value     float64 `json:"value"`
	Threshold float64 `json:"threshold"`
}

// String renders e.g. "max_relative 0.5 exceeds tolerance 0.25".
func (v Violation) String() string {
	return fmt.Sprintf("%s %s exceeds tolerance %s", v.Statistic, formatFloat(v.Value), formatFloat(v.Threshold))
}

// Verdict is the tolerance decision for one keyword.
type Verdict struct {
	Keyword    string      `json:"keyword"`
	Pass       bool        `json:"pass"`
	Violations []Violation `json:"violations,omitempty"`
}

// Diagnostic renders a one-line description of the verdict.
func (v Verdict) Diagnostic() string {
	if v.Pass {
		return fmt.Sprintf("%s: within tolerance", v.Keyword)
	}
	parts := make([]string, len(v.Violations))
	for i, viol := range v.Violations {
		parts[i] = viol.String()
	}
	return fmt.Sprintf("%s: %s", v.Keyword, strings.Join(parts, "; "))
}

// Judge decides whether stats are within tol.
//
// The keyword fails if MaxRelative > RelativeMax, MedianRelative >
// RelativeMedianMax, or (when AbsoluteMax > 0) MaxAbsolute > AbsoluteMax.
// Values equal to a threshold pass.
func Judge(keyword string, stats Statistics, tol Tolerance) Verdict {
	v := Verdict{Keyword: keyword}

	if stats.MaxRelative > tol.RelativeMax {
		v.Violations = append(v.Violations, Violation{StatMaxRelative, stats.MaxRelative, tol.RelativeMax})
	}
	if stats.MedianRelative > tol.RelativeMedianMax {
		v.Violations = append(v.Violations, Violation{StatMedianRelative, stats.MedianRelative, tol.RelativeMedianMax})
	}
	if tol.AbsoluteMax > 0 && stats.MaxAbsolute > tol.AbsoluteMax {
		v.Violations = append(v.Violations, Violation{StatMaxAbsolute, stats.MaxAbsolute, tol.AbsoluteMax})
	}

	v.Pass = len(v.Violations) == 0
	return v
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', 6, 64)
}
