// Copyright 2025 The osgstat Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package config provides configuration loading and parsing for osgstat.
package config

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// A RatioSpec names the two metrics of a ratio histogram,
// numerator over denominator.
type RatioSpec struct {
	Num, Den string
}

// A StdevHistSpec names the metric and window scale of a
// stdev-windowed histogram.
type StdevHistSpec struct {
	Key   string
	Scale float64
}

// A PlotSpec describes a 2D aggregation plot: Y grouped by X and
// reduced with Agg.
type PlotSpec struct {
	X, Y, Agg string
}

// Config is the full invocation configuration: which views to
// produce, over which metrics, frames and sources, and where chart
// files go.
type Config struct {
	PrintKeys bool

	Timeseries              []string
	TimeseriesSum           bool
	CumulativeTimeseries    []string
	CumulativeTimeseriesSum bool
	Hist                    []string
	HistRatio               []RatioSpec
	StdevHist               []StdevHistSpec
	Plots                   []PlotSpec
	Stats                   []string
	StatsSum                bool

	BeginFrame int
	EndFrame   int

	Output string
	Format string
	HTML   bool

	Paths      []string
	ConfigFile string
}

var chartFormats = map[string]bool{"png": true, "svg": true, "pdf": true}

// Validate checks cross-field consistency of the configuration.
func (c *Config) Validate() error {
	for _, p := range c.Plots {
		if p.Agg != "mean" && p.Agg != "median" {
			return fmt.Errorf("plot %s,%s: unknown aggregation function %q (want mean or median)", p.X, p.Y, p.Agg)
		}
	}
	if !chartFormats[c.Format] {
		return fmt.Errorf("unknown chart format %q (want png, svg or pdf)", c.Format)
	}
	return nil
}

// WantsOutput reports whether any view was requested at all.
func (c *Config) WantsOutput() bool {
	return c.PrintKeys ||
		len(c.Timeseries) > 0 ||
		len(c.CumulativeTimeseries) > 0 ||
		len(c.Hist) > 0 ||
		len(c.HistRatio) > 0 ||
		len(c.StdevHist) > 0 ||
		len(c.Plots) > 0 ||
		len(c.Stats) > 0
}

// parseRatio parses "num,den". Metric keys may contain spaces but not
// commas.
func parseRatio(s string) (RatioSpec, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return RatioSpec{}, fmt.Errorf("ratio %q: want <num>,<den>", s)
	}
	return RatioSpec{
		Num: strings.TrimSpace(parts[0]),
		Den: strings.TrimSpace(parts[1]),
	}, nil
}

// parseStdevHist parses "key,scale" with a numeric scale.
func parseStdevHist(s string) (StdevHistSpec, error) {
	i := strings.LastIndex(s, ",")
	if i < 0 {
		return StdevHistSpec{}, fmt.Errorf("stdev-hist %q: want <key>,<scale>", s)
	}
	scale, err := strconv.ParseFloat(strings.TrimSpace(s[i+1:]), 64)
	if err != nil {
		return StdevHistSpec{}, fmt.Errorf("stdev-hist %q: scale is not a number", s)
	}
	return StdevHistSpec{Key: strings.TrimSpace(s[:i]), Scale: scale}, nil
}

// parsePlot parses "x,y,agg".
func parsePlot(s string) (PlotSpec, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return PlotSpec{}, fmt.Errorf("plot %q: want <x>,<y>,<agg>", s)
	}
	return PlotSpec{
		X:   strings.TrimSpace(parts[0]),
		Y:   strings.TrimSpace(parts[1]),
		Agg: strings.TrimSpace(parts[2]),
	}, nil
}

func defaultConfig() *Config {
	return &Config{
		EndFrame: math.MaxInt,
		Output:   ".",
		Format:   "png",
	}
}
