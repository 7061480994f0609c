package report

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/summarycmp/internal/engine"
	"github.com/roach88/summarycmp/internal/summary"
)

func compare(t *testing.T, cfg engine.Config, ref, cand *summary.Dataset) *engine.Report {
	t.Helper()
	e := engine.New(cfg, engine.WithRunIDGenerator(engine.NewFixedGenerator("run-0001")))
	r, err := e.Compare(context.Background(), ref, cand)
	require.NoError(t, err)
	return r
}

func reference() *summary.Dataset {
	return &summary.Dataset{
		Case:  "REF",
		Times: []float64{0, 10, 20},
		Vectors: map[string][]float64{
			"FOPR":    {100, 100, 100},
			"WBHP:W1": {100, 90, 80},
		},
	}
}

func toleranceFailureReport(t *testing.T) *engine.Report {
	cfg := engine.DefaultConfig()
	cfg.Tolerance.Default.RelativeMax = 0.25
	bad := &summary.Dataset{
		Case:  "BAD",
		Times: []float64{0, 10, 20},
		Vectors: map[string][]float64{
			"FOPR":    {100, 100, 100},
			"WBHP:W1": {100, 45, 80},
		},
	}
	return compare(t, cfg, reference(), bad)
}

func TestWriteText_Golden(t *testing.T) {
	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)

	t.Run("pass", func(t *testing.T) {
		ref := &summary.Dataset{
			Case:    "REF",
			Times:   []float64{0, 10, 20},
			Vectors: map[string][]float64{"WBHP:W1": {100, 90, 80}},
		}
		cand := &summary.Dataset{
			Case:    "CAND",
			Times:   []float64{0, 5, 10, 15, 20},
			Vectors: map[string][]float64{"WBHP:W1": {100, 95, 90, 85, 80}},
		}
		r := compare(t, engine.DefaultConfig(), ref, cand)

		var buf bytes.Buffer
		require.NoError(t, WriteText(&buf, r))
		g.Assert(t, "pass", buf.Bytes())
	})

	t.Run("tolerance_exceeded", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, WriteText(&buf, toleranceFailureReport(t)))
		g.Assert(t, "tolerance_exceeded", buf.Bytes())
	})

	t.Run("out_of_range_fail_fast", func(t *testing.T) {
		ref := &summary.Dataset{
			Case:  "REF",
			Times: []float64{0, 10, 20},
			Vectors: map[string][]float64{
				"A": {1, 1, 1},
				"B": {1, 1, 1},
				"C": {1, 1, 1},
			},
		}
		late := &summary.Dataset{
			Case:  "LATE",
			Times: []float64{5, 10, 15, 20},
			Vectors: map[string][]float64{
				"A": {1, 1, 1, 1},
				"B": {1, 1, 1, 1},
				"C": {1, 1, 1, 1},
			},
		}
		r := compare(t, engine.DefaultConfig(), ref, late)

		var buf bytes.Buffer
		require.NoError(t, WriteText(&buf, r))
		g.Assert(t, "out_of_range_fail_fast", buf.Bytes())
	})
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, toleranceFailureReport(t)))

	var got struct {
		RunID         string `json:"run_id"`
		TimeReference string `json:"time_reference"`
		FailMode      string `json:"fail_mode"`
		Pass          bool   `json:"pass"`
		Failed        int    `json:"failed"`
		Results       []struct {
			Keyword    string `json:"keyword"`
			Statistics struct {
				MaxRelative float64 `json:"max_relative"`
			} `json:"statistics"`
			Verdict struct {
				Violations []struct {
					Statistic string  `json:"statistic"`
					Threshold float64 `json:"threshold"`
				} `json:"violations"`
			} `json:"verdict"`
		} `json:"results"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))

	assert.Equal(t, "run-0001", got.RunID)
	assert.Equal(t, "reference", got.TimeReference)
	assert.Equal(t, "fail-fast", got.FailMode)
	assert.False(t, got.Pass)
	assert.Equal(t, 1, got.Failed)
	require.Len(t, got.Results, 2)
	assert.Equal(t, "WBHP:W1", got.Results[1].Keyword)
	assert.Equal(t, 0.5, got.Results[1].Statistics.MaxRelative)
	require.Len(t, got.Results[1].Verdict.Violations, 1)
	assert.Equal(t, "max_relative", got.Results[1].Verdict.Violations[0].Statistic)
	assert.Equal(t, 0.25, got.Results[1].Verdict.Violations[0].Threshold)
}

type failingWriter struct{}

func (failingWriter) Write(p []byte) (int, error) {
	return 0, errors.New("broken pipe")
}

func TestWriteText_PropagatesWriteError(t *testing.T) {
	err := WriteText(failingWriter{}, toleranceFailureReport(t))
	assert.ErrorContains(t, err, "broken pipe")
}
