package stats

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummarize(t *testing.T) {
	tests := []struct {
		name   string
		values []float64
		mean   float64
		stdev  float64
		sem    float64
	}{
		{
			name:   "two values",
			values: []float64{1, 3},
			mean:   2,
			stdev:  math.Sqrt2,
			sem:    1,
		},
		{
			name:   "textbook sample",
			values: []float64{2, 4, 4, 4, 5, 5, 7, 9},
			mean:   5,
			stdev:  math.Sqrt(32.0 / 7.0),
			sem:    math.Sqrt(32.0/7.0) / math.Sqrt(8),
		},
		{
			name:   "constant",
			values: []float64{0.25, 0.25, 0.25},
			mean:   0.25,
			stdev:  0,
			sem:    0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Summarize(tt.values)
			assert.Equal(t, len(tt.values), s.N)
			assert.True(t, s.Defined())
			assert.InDelta(t, tt.mean, s.Mean, 1e-12)
			assert.InDelta(t, tt.stdev, s.StdDev, 1e-12)
			assert.InDelta(t, tt.sem, s.SEM, 1e-12)
		})
	}
}

func TestSummarizeUndefined(t *testing.T) {
	s := Summarize(nil)
	assert.Equal(t, 0, s.N)
	assert.True(t, math.IsNaN(s.Mean))
	assert.True(t, math.IsNaN(s.StdDev))
	assert.True(t, math.IsNaN(s.SEM))
	assert.False(t, s.Defined())

	s = Summarize([]float64{4.2})
	assert.Equal(t, 1, s.N)
	assert.Equal(t, 4.2, s.Mean)
	assert.True(t, math.IsNaN(s.StdDev))
	assert.True(t, math.IsNaN(s.SEM))
	assert.False(t, s.Defined())
}

func TestSummaryJSON(t *testing.T) {
	data, err := json.Marshal(Summarize([]float64{4.2}))
	require.NoError(t, err)
	assert.JSONEq(t, `{"n":1,"mean":4.2,"stdev":null,"sem":null}`, string(data))

	var back Summary
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, 1, back.N)
	assert.Equal(t, 4.2, back.Mean)
	assert.True(t, math.IsNaN(back.StdDev))

	data, err = json.Marshal(Summarize([]float64{1, 3}))
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, &back))
	assert.InDelta(t, math.Sqrt2, back.StdDev, 1e-12)
	assert.InDelta(t, 1, back.SEM, 1e-12)
}
