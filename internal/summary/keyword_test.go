package summary

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeKeyword(t *testing.T) {
	// "e" + combining acute accent composes to a single rune.
	decomposed := "WBHP:CAFE\u0301"
	composed := "WBHP:CAF\u00c9"

	assert.Equal(t, composed, NormalizeKeyword(decomposed))
	assert.Equal(t, "FOPR", NormalizeKeyword("  FOPR "))
}

func TestSplitKeyword(t *testing.T) {
	m, q := SplitKeyword("WBHP:PROD1")
	assert.Equal(t, "WBHP", m)
	assert.Equal(t, "PROD1", q)

	m, q = SplitKeyword("FOPR")
	assert.Equal(t, "FOPR", m)
	assert.Empty(t, q)
}

func TestMatchKeyword(t *testing.T) {
	assert.True(t, MatchKeyword("FOPR", nil))
	assert.True(t, MatchKeyword("WBHP:W1", []string{"WBHP:*"}))
	assert.False(t, MatchKeyword("WOPR:W1", []string{"WBHP:*"}))
	assert.True(t, MatchKeyword("FOPT", []string{"WBHP:*", "F*"}))
	assert.False(t, MatchKeyword("FOPR", []string{"[bad"}))
}

func TestValidatePattern(t *testing.T) {
	assert.NoError(t, ValidatePattern("W*:PROD?"))
	assert.Error(t, ValidatePattern("[bad"))
}

func TestFilterKeywords(t *testing.T) {
	keys := []string{"FOPR", "FOPT", "WBHP:W1", "WBHP:W2"}
	assert.Equal(t, keys, FilterKeywords(keys, nil))
	assert.Equal(t, []string{"WBHP:W1", "WBHP:W2"}, FilterKeywords(keys, []string{"WBHP:*"}))
	assert.Empty(t, FilterKeywords(keys, []string{"G*"}))
}

// rawSource serves keywords without normalizing them.
type rawSource struct {
	name    string
	times   []float64
	series  map[string][]float64
	failKey string
}

func (r *rawSource) Name() string { return r.name }

func (r *rawSource) ListKeywords(ctx context.Context) ([]string, error) {
	keys := make([]string, 0, len(r.series))
	for k := range r.series {
		keys = append(keys, k)
	}
	return keys, nil
}

func (r *rawSource) TimeVector(ctx context.Context) ([]float64, error) {
	return r.times, nil
}

func (r *rawSource) Series(ctx context.Context, keyword string) ([]float64, error) {
	if keyword == r.failKey {
		return nil, errors.New("read failed")
	}
	return r.series[keyword], nil
}

func TestMaterialize_NormalizesKeywords(t *testing.T) {
	src := &rawSource{
		name:  "CASE",
		times: []float64{0, 1},
		series: map[string][]float64{
			"WBHP:CAFE\u0301": {1, 2},
		},
	}

	ds, err := Materialize(context.Background(), src)
	require.NoError(t, err)
	assert.Equal(t, "CASE", ds.Case)
	assert.Equal(t, []float64{1, 2}, ds.Vectors["WBHP:CAF\u00c9"])
}

func TestMaterialize_RejectsNormalizationCollision(t *testing.T) {
	src := &rawSource{
		name:  "CASE",
		times: []float64{0},
		series: map[string][]float64{
			"WBHP:CAFE\u0301": {1},
			"WBHP:CAF\u00c9":  {2},
		},
	}

	_, err := Materialize(context.Background(), src)
	assert.ErrorContains(t, err, "duplicate keyword")
}

func TestMaterialize_PropagatesErrors(t *testing.T) {
	src := &rawSource{
		name:    "CASE",
		times:   []float64{0},
		series:  map[string][]float64{"FOPR": {1}},
		failKey: "FOPR",
	}
	_, err := Materialize(context.Background(), src)
	assert.ErrorContains(t, err, "read series FOPR")

	bad := &rawSource{
		name:   "CASE",
		times:  []float64{0, 1},
		series: map[string][]float64{"FOPR": {1}},
	}
	_, err = Materialize(context.Background(), bad)
	assert.ErrorContains(t, err, "invalid dataset CASE")
}
