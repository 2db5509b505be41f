// Copyright 2025 The osgstat Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package statproc aligns frames from one or more sources into
// per-metric, frame-indexed series.
//
// The pipeline is strictly sequential: materialize every source with
// statfmt.ReadAll, collect the key universe with CollectKeys, then
// build aligned series with CollectPerFrame. A metric a frame did not
// report is an explicitly missing observation, never a zero; all
// series of one source have the same length, so observations at the
// same index always belong to the same frame.
package statproc

import (
	"sort"

	"github.com/osgtools/osgstat/statfmt"
)

// An Obs is one frame's observation of one metric. Defined reports
// whether the frame actually carried the metric; the zero Obs is a
// missing observation.
type Obs struct {
	Value   float64
	Int     bool
	Defined bool
}

// A Series is a frame-indexed sequence of observations of one metric
// in one source, sliced to the requested frame range. Series for the
// same source share a common length and indexing.
type Series []Obs

// Present returns the ordered present values of s, dropping missing
// observations. The result indexes are not frame indexes.
func (s Series) Present() []float64 {
	var values []float64
	for _, o := range s {
		if o.Defined {
			values = append(values, o.Value)
		}
	}
	return values
}

// A SourceSeries holds every requested series of one source, keyed by
// metric.
type SourceSeries struct {
	Name   string
	Series map[string]Series
}

// CollectKeys returns the sorted universe of metric keys observed
// across all frames of all sources. The sort makes the result
// independent of source order.
func CollectKeys(sources []statfmt.Source) []string {
	seen := make(map[string]bool)
	for _, src := range sources {
		for _, frame := range src.Frames {
			for _, m := range frame.Metrics {
				seen[m.Key] = true
			}
		}
	}
	keys := make([]string, 0, len(seen))
	for k := range seen {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// CollectPerFrame builds, for every source and every requested key,
// the frame-indexed series of observations, sliced to the frame range
// [begin, end). Results are in source order.
//
// A key a frame lacks contributes a missing observation, and a key a
// source never reports yields an all-missing series of full length,
// so every series of a source has length min(end, frames)-begin
// (clamped at zero). Out-of-range bounds are defined behavior, not an
// error: they clamp, and an inverted or fully out-of-range request
// yields empty series.
func CollectPerFrame(sources []statfmt.Source, keys []string, begin, end int) []SourceSeries {
	result := make([]SourceSeries, 0, len(sources))
	for _, src := range sources {
		series := make(map[string]Series, len(keys))
		lo, hi := clampRange(begin, end, len(src.Frames))
		for _, key := range keys {
			s := make(Series, 0, hi-lo)
			for _, frame := range src.Frames[lo:hi] {
				if v, ok := frame.Value(key); ok {
					s = append(s, Obs{Value: v.Value, Int: v.Int, Defined: true})
				} else {
					s = append(s, Obs{})
				}
			}
			series[key] = s
		}
		result = append(result, SourceSeries{Name: src.Name, Series: series})
	}
	return result
}

// clampRange clamps [begin, end) to [0, n), collapsing inverted
// ranges to empty.
func clampRange(begin, end, n int) (lo, hi int) {
	lo, hi = begin, end
	if lo < 0 {
		lo = 0
	}
	if lo > n {
		lo = n
	}
	if hi > n {
		hi = n
	}
	if hi < lo {
		hi = lo
	}
	return lo, hi
}

// SumFrames sums the present values of the given keys at each frame
// index. A missing key contributes nothing to its frame's sum; an
// index where every key is missing stays a missing observation. The
// result keeps the frame indexing of the input series, so the sum can
// be charted against them without drifting.
func SumFrames(series map[string]Series, keys []string) Series {
	n := 0
	for _, key := range keys {
		if len(series[key]) > n {
			n = len(series[key])
		}
	}
	if n == 0 {
		return nil
	}
	sums := make(Series, n)
	for i := 0; i < n; i++ {
		total, any := 0.0, false
		for _, key := range keys {
			s := series[key]
			if i < len(s) && s[i].Defined {
				total += s[i].Value
				any = true
			}
		}
		if any {
			sums[i] = Obs{Value: total, Defined: true}
		}
	}
	return sums
}

// Ratio returns the element-wise num/den ratio of two series. Frame
// indexes where either side is missing are skipped.
func Ratio(num, den Series) []float64 {
	n := len(num)
	if len(den) < n {
		n = len(den)
	}
	var ratios []float64
	for i := 0; i < n; i++ {
		if num[i].Defined && den[i].Defined {
			ratios = append(ratios, num[i].Value/den[i].Value)
		}
	}
	return ratios
}
