package engine

import (
	"math"
)

// Deviation is the discrepancy between two aligned values.
//
// HasRelative is false when the relative deviation is undefined (both values
// zero). An undefined relative deviation is distinct from a true zero and is
// excluded from relative statistics.
type Deviation struct {
	Absolute    float64 `json:"absolute"`
	Relative    float64 `json:"relative"`
	HasRelative bool    `json:"has_relative"`
}

// CalculateDeviation returns the deviation between two non-negative values:
// absolute = max - min, relative = absolute / max, undefined when both are zero.
//
// Negative inputs are outside this function's contract; use a Calculator to
// apply a NegativePolicy.
func CalculateDeviation(v1, v2 float64) Deviation {
	hi, lo := math.Max(v1, v2), math.Min(v1, v2)
	d := Deviation{Absolute: hi - lo}
	if v1 == 0 && v2 == 0 {
		return d
	}
	d.Relative = d.Absolute / hi
	d.HasRelative = true
	return d
}

// Calculator computes deviations under a NegativePolicy.
type Calculator struct {
	Negative NegativePolicy
}

// Calculate returns the deviation between v1 and v2.
//
// A NaN or infinite input yields a NON_FINITE_VALUE error under every policy.
// Under NegativeReject a negative input yields a NEGATIVE_VALUE error. Under
// NegativeMagnitude the deviation is |v1 - v2| relative to max(|v1|, |v2|).
func (c Calculator) Calculate(v1, v2 float64) (Deviation, error) {
	if !finite(v1) || !finite(v2) {
		return Deviation{}, NewNonFiniteValueError(v1, v2)
	}
	if v1 >= 0 && v2 >= 0 {
		return CalculateDeviation(v1, v2), nil
	}

	switch c.Negative {
	case NegativeMagnitude:
		d := Deviation{Absolute: math.Abs(v1 - v2)}
		scale := math.Max(math.Abs(v1), math.Abs(v2))
		if scale == 0 {
			return d, nil
		}
		d.Relative = d.Absolute / scale
		d.HasRelative = true
		return d, nil
	default:
		return Deviation{}, NewNegativeValueError(v1, v2)
	}
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// Deviations computes one Deviation per aligned pair. The first error aborts.
func (c Calculator) Deviations(pairs []AlignedPair) ([]Deviation, error) {
	out := make([]Deviation, 0, len(pairs))
	for _, p := range pairs {
		d, err := c.Calculate(p.Reference, p.Comparable)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, nil
}
