package summary

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
)

// Source is the contract with a time-series store.
//
// Implementations expose, per dataset, the ordered report times and, per
// keyword, the values aligned 1:1 with those times. Dataset and store.Store
// both implement it.
type Source interface {
	// Name identifies the dataset in reports and diagnostics.
	Name() string

	// ListKeywords returns every keyword in the dataset, in any order.
	ListKeywords(ctx context.Context) ([]string, error)

	// TimeVector returns the report times in ascending order.
	TimeVector(ctx context.Context) ([]float64, error)

	// Series returns the values for keyword, aligned with TimeVector.
	Series(ctx context.Context, keyword string) ([]float64, error)
}

// TimeSeries is the ordered (time, value) sequence of one keyword.
type TimeSeries struct {
	Keyword string    `json:"keyword"`
	Times   []float64 `json:"times"`
	Values  []float64 `json:"values"`
}

// Len returns the number of samples.
func (ts TimeSeries) Len() int {
	return len(ts.Times)
}

// Dataset is a fully materialized summary dataset.
// Treat it as read-only once built; comparisons never mutate it.
type Dataset struct {
	// Case is the simulation case name (the summary file's base name).
	Case  string    `json:"case" yaml:"case"`
	Times []float64 `json:"times" yaml:"times"`

	// Vectors maps each keyword to its values, one per report time.
	Vectors map[string][]float64 `json:"vectors" yaml:"vectors"`
}

// Keywords returns the dataset's keywords sorted lexicographically.
func (d *Dataset) Keywords() []string {
	keys := make([]string, 0, len(d.Vectors))
	for k := range d.Vectors {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Has reports whether the dataset contains keyword.
func (d *Dataset) Has(keyword string) bool {
	_, ok := d.Vectors[keyword]
	return ok
}

// TimeSeries derives the time series of keyword from the dataset's report times.
func (d *Dataset) TimeSeries(keyword string) (TimeSeries, error) {
	values, ok := d.Vectors[keyword]
	if !ok {
		return TimeSeries{}, fmt.Errorf("keyword not found: %s", keyword)
	}
	return TimeSeries{Keyword: keyword, Times: d.Times, Values: values}, nil
}

// Validate checks the dataset invariants.
func (d *Dataset) Validate() error {
	for i, t := range d.Times {
		if !isFinite(t) {
			return fmt.Errorf("report time %d is not finite: %g", i, t)
		}
		if i > 0 && t < d.Times[i-1] {
			return fmt.Errorf("report times must be non-decreasing: times[%d]=%g < times[%d]=%g", i, t, i-1, d.Times[i-1])
		}
	}
	for _, k := range d.Keywords() {
		if k == "" {
			return errors.New("keyword must not be empty")
		}
		if n := len(d.Vectors[k]); n != len(d.Times) {
			return fmt.Errorf("keyword %s has %d values for %d report times", k, n, len(d.Times))
		}
		for i, v := range d.Vectors[k] {
			if !isFinite(v) {
				return fmt.Errorf("keyword %s value %d is not finite: %g", k, i, v)
			}
		}
	}
	return nil
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// Name implements Source.
func (d *Dataset) Name() string {
	return d.Case
}

// ListKeywords implements Source.
func (d *Dataset) ListKeywords(ctx context.Context) ([]string, error) {
	return d.Keywords(), nil
}

// TimeVector implements Source.
func (d *Dataset) TimeVector(ctx context.Context) ([]float64, error) {
	return append([]float64(nil), d.Times...), nil
}

// Series implements Source.
func (d *Dataset) Series(ctx context.Context, keyword string) ([]float64, error) {
	values, ok := d.Vectors[keyword]
	if !ok {
		return nil, fmt.Errorf("keyword not found: %s", keyword)
	}
	return append([]float64(nil), values...), nil
}
