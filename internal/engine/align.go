package engine

import (
	"gonum.org/v1/gonum/floats/scalar"

	"github.com/roach88/summarycmp/internal/summary"
)

// DefaultTimeEpsilon is the tolerance under which two report times are
// considered the same instant.
const DefaultTimeEpsilon = 1e-9

// AlignedPair is one reference sample and the comparable checking value at
// the same time.
type AlignedPair struct {
	Time       float64 `json:"time"`
	Reference  float64 `json:"reference"`
	Comparable float64 `json:"comparable"`
}

// SelectReference returns the series with fewer report times as reference and
// the other as checking. Ties keep a as the reference. swapped reports
// whether b was chosen.
func SelectReference(a, b summary.TimeSeries) (reference, checking summary.TimeSeries, swapped bool) {
	if b.Len() < a.Len() {
		return b, a, true
	}
	return a, b, false
}

// Align samples checking at every reference time.
//
// Times within eps of each other (absolute or relative) are treated as equal
// and take the checking value exactly. Otherwise the value is linearly
// interpolated between the checking samples bracketing the reference time.
// The checking cursor only moves past times strictly before the current
// reference time and never moves back.
//
// A reference time before the first or after the last checking time yields
// an OUT_OF_RANGE_TIMESTAMP error.
func Align(reference, checking summary.TimeSeries, eps float64) ([]AlignedPair, error) {
	n := checking.Len()
	pairs := make([]AlignedPair, 0, reference.Len())

	j := 0
	for i, t := range reference.Times {
		if n == 0 {
			return nil, NewOutOfRangeError(reference.Keyword, t, 0, 0)
		}

		for j < n && checking.Times[j] < t && !sameTime(checking.Times[j], t, eps) {
			j++
		}

		first, last := checking.Times[0], checking.Times[n-1]
		if j == n {
			return nil, NewOutOfRangeError(reference.Keyword, t, first, last)
		}

		var value float64
		switch {
		case sameTime(checking.Times[j], t, eps):
			value = checking.Values[j]
		case j == 0:
			return nil, NewOutOfRangeError(reference.Keyword, t, first, last)
		default:
			value = Interpolate(
				checking.Times[j-1], checking.Times[j],
				checking.Values[j-1], checking.Values[j],
				t,
			)
		}

		pairs = append(pairs, AlignedPair{
			Time:       t,
			Reference:  reference.Values[i],
			Comparable: value,
		})
	}

	return pairs, nil
}

// Interpolate returns the value at t on the line through (tPrev, vPrev) and
// (tNext, vNext). tPrev and tNext must differ.
func Interpolate(tPrev, tNext, vPrev, vNext, t float64) float64 {
	return vPrev + (t-tPrev)/(tNext-tPrev)*(vNext-vPrev)
}

func sameTime(a, b, eps float64) bool {
	if a == b {
		return true
	}
	if eps <= 0 {
		return false
	}
	return scalar.EqualWithinAbsOrRel(a, b, eps, eps)
}
