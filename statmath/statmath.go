// Copyright 2025 The osgstat Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package statmath computes summary statistics over metric values.
//
// It operates on plain []float64 of present values; callers are
// expected to have dropped missing observations already (see
// statproc.Series.Present).
package statmath

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/aclements/go-moremath/stats"
)

// ErrInsufficientData indicates an operation that needs at least one
// value was given none.
var ErrInsufficientData = errors.New("insufficient data")

// A Summary holds the summary statistics of one metric in one source.
//
// Stdev is the sample standard deviation and is NaN when N < 2. Q95
// is the 95th percentile with linear interpolation between ranks.
type Summary struct {
	N      int
	Min    float64
	Max    float64
	Mean   float64
	Median float64
	Stdev  float64
	Q95    float64
}

// Summarize computes the Summary of values. It fails with
// ErrInsufficientData when values is empty, since none of the order
// statistics are defined there.
func Summarize(values []float64) (Summary, error) {
	if len(values) == 0 {
		return Summary{}, fmt.Errorf("summarizing: %w", ErrInsufficientData)
	}
	sample := stats.Sample{Xs: values}
	min, max := stats.Bounds(values)
	return Summary{
		N:      len(values),
		Min:    min,
		Max:    max,
		Mean:   stats.Mean(values),
		Median: sample.Quantile(0.5),
		Stdev:  sample.StdDev(),
		Q95:    sample.Quantile(0.95),
	}, nil
}

// Window returns the value window median ± stdev/2·scale, used to
// clip outliers from windowed histograms. It needs at least two
// values for the standard deviation to be defined.
func Window(values []float64, scale float64) (lo, hi float64, err error) {
	if len(values) < 2 {
		return 0, 0, fmt.Errorf("stdev window: %w", ErrInsufficientData)
	}
	sample := stats.Sample{Xs: values}
	median := sample.Quantile(0.5)
	stdev := sample.StdDev()
	lo = median - stdev/2*scale
	hi = median + stdev/2*scale
	return lo, hi, nil
}

// An AggFunc reduces a group of values to a single value.
type AggFunc func([]float64) float64

// Agg returns the aggregation function with the given name: "mean" or
// "median".
func Agg(name string) (AggFunc, bool) {
	switch name {
	case "mean":
		return stats.Mean, true
	case "median":
		return func(xs []float64) float64 {
			return stats.Sample{Xs: xs}.Quantile(0.5)
		}, true
	}
	return nil, false
}

// An XY is one point of a 2D relation between two metrics.
type XY struct {
	X, Y float64
}

// AggregateXY groups the points of a 2D relation by exact X value,
// reduces each group's Y values with agg, and returns one point per
// group in ascending X order.
func AggregateXY(points []XY, agg AggFunc) []XY {
	groups := make(map[float64][]float64)
	for _, p := range points {
		groups[p.X] = append(groups[p.X], p.Y)
	}
	result := make([]XY, 0, len(groups))
	for x, ys := range groups {
		result = append(result, XY{X: x, Y: agg(ys)})
	}
	sort.Slice(result, func(i, j int) bool { return result[i].X < result[j].X })
	return result
}

// Linspace returns num evenly spaced values from lo to hi inclusive,
// used as shared histogram bin edges.
func Linspace(lo, hi float64, num int) []float64 {
	if num < 2 {
		return []float64{lo}
	}
	edges := make([]float64, num)
	step := (hi - lo) / float64(num-1)
	for i := range edges {
		edges[i] = lo + float64(i)*step
	}
	edges[num-1] = hi
	return edges
}

// BinCounts counts values into the bins delimited by edges. Bin i
// spans [edges[i], edges[i+1]); the final bin includes its upper
// edge. Values outside the edges are ignored.
func BinCounts(values, edges []float64) []float64 {
	if len(edges) < 2 {
		return nil
	}
	counts := make([]float64, len(edges)-1)
	lo, hi := edges[0], edges[len(edges)-1]
	for _, v := range values {
		if v < lo || v > hi || math.IsNaN(v) {
			continue
		}
		i := sort.SearchFloat64s(edges, v)
		// SearchFloat64s finds the left insertion point; shift
		// exact edge hits into the bin they open, and fold the
		// top edge into the last bin.
		if i < len(edges) && edges[i] == v {
			i++
		}
		if i <= 0 {
			i = 1
		}
		if i >= len(edges) {
			i = len(edges) - 1
		}
		counts[i-1]++
	}
	return counts
}
