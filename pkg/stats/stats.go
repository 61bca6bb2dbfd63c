// Package stats reduces per-sample measurements to group summary statistics.
//
// The statistics follow the usual sample conventions: the standard deviation
// uses the n−1 denominator and the standard error of the mean is stdev/√n.
// Both are undefined for fewer than two values and are reported as NaN.
package stats

import (
	"encoding/json"
	"math"

	"gonum.org/v1/gonum/stat"
)

// Summary holds the mean, sample standard deviation and standard error of
// the mean of a set of values.
type Summary struct {
	N      int     `json:"n" bson:"n"`
	Mean   float64 `json:"mean" bson:"mean"`
	StdDev float64 `json:"stdev" bson:"stdev"`
	SEM    float64 `json:"sem" bson:"sem"`
}

// Summarize computes the summary of values. With no values every statistic
// is NaN; with one value only the mean is defined.
func Summarize(values []float64) Summary {
	s := Summary{
		N:      len(values),
		Mean:   math.NaN(),
		StdDev: math.NaN(),
		SEM:    math.NaN(),
	}
	if s.N == 0 {
		return s
	}
	s.Mean = stat.Mean(values, nil)
	if s.N < 2 {
		return s
	}
	s.StdDev = stat.StdDev(values, nil)
	s.SEM = stat.StdErr(s.StdDev, float64(s.N))
	return s
}

// Defined reports whether the spread statistics are defined.
func (s Summary) Defined() bool {
	return s.N >= 2
}

// summaryJSON mirrors Summary with nullable floats; encoding/json rejects NaN.
type summaryJSON struct {
	N      int      `json:"n"`
	Mean   *float64 `json:"mean"`
	StdDev *float64 `json:"stdev"`
	SEM    *float64 `json:"sem"`
}

// MarshalJSON encodes undefined statistics as null.
func (s Summary) MarshalJSON() ([]byte, error) {
	return json.Marshal(summaryJSON{
		N:      s.N,
		Mean:   nullable(s.Mean),
		StdDev: nullable(s.StdDev),
		SEM:    nullable(s.SEM),
	})
}

// UnmarshalJSON decodes null statistics as NaN.
func (s *Summary) UnmarshalJSON(data []byte) error {
	var v summaryJSON
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*s = Summary{N: v.N, Mean: orNaN(v.Mean), StdDev: orNaN(v.StdDev), SEM: orNaN(v.SEM)}
	return nil
}

func nullable(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

func orNaN(v *float64) float64 {
	if v == nil {
		return math.NaN()
	}
	return *v
}
