package engine

import (
	"errors"

	"github.com/montanaflynn/stats"
)

// Statistics summarizes the deviations of one keyword.
//
// Relative statistics cover only samples with a defined relative deviation;
// RelativeCount is their number. When no sample has one, the relative
// statistics are zero and RelativeCount is zero.
type Statistics struct {
	AverageAbsolute float64 `json:"average_absolute"`
	AverageRelative float64 `json:"average_relative"`
	MedianAbsolute  float64 `json:"median_absolute"`
	MedianRelative  float64 `json:"median_relative"`
	MaxAbsolute     float64 `json:"max_absolute"`
	MaxRelative     float64 `json:"max_relative"`
	SampleCount     int     `json:"sample_count"`
	RelativeCount   int     `json:"relative_count"`
}

// errEmptyInput is returned by the exported helpers for an empty slice.
var errEmptyInput = errors.New("empty input")

// Aggregate reduces deviations to Statistics. The input slice is not modified.
// An empty input is an EMPTY_DEVIATION_SET error (without a keyword; the
// caller attaches one).
func Aggregate(samples []Deviation) (Statistics, error) {
	if len(samples) == 0 {
		return Statistics{}, NewEmptyDeviationError("")
	}

	absolute := make(stats.Float64Data, 0, len(samples))
	relative := make(stats.Float64Data, 0, len(samples))
	for _, s := range samples {
		absolute = append(absolute, s.Absolute)
		if s.HasRelative {
			relative = append(relative, s.Relative)
		}
	}

	var st Statistics
	var err error
	st.SampleCount = len(absolute)
	if st.AverageAbsolute, st.MedianAbsolute, st.MaxAbsolute, err = summarize(absolute); err != nil {
		return Statistics{}, err
	}

	st.RelativeCount = len(relative)
	if len(relative) > 0 {
		if st.AverageRelative, st.MedianRelative, st.MaxRelative, err = summarize(relative); err != nil {
			return Statistics{}, err
		}
	}

	return st, nil
}

func summarize(data stats.Float64Data) (mean, median, maximum float64, err error) {
	if mean, err = stats.Mean(data); err != nil {
		return 0, 0, 0, err
	}
	if median, err = stats.Median(data); err != nil {
		return 0, 0, 0, err
	}
	if maximum, err = stats.Max(data); err != nil {
		return 0, 0, 0, err
	}
	return mean, median, maximum, nil
}

// Average returns the arithmetic mean of values.
func Average(values []float64) (float64, error) {
	if len(values) == 0 {
		return 0, errEmptyInput
	}
	return stats.Mean(values)
}

// Median returns the median of values without reordering them.
// An even-length input averages the two central elements.
func Median(values []float64) (float64, error) {
	if len(values) == 0 {
		return 0, errEmptyInput
	}
	return stats.Median(values)
}
