// Copyright 2025 The osgstat Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/osgtools/osgstat/cmd/osgstat/internal/texttab"
	"github.com/osgtools/osgstat/statmath"
	"github.com/osgtools/osgstat/statproc"
)

// A statsRow is one line of the summary statistics table: the
// statistics of one metric (or the per-frame sum) in one source.
type statsRow struct {
	Source, Key string
	Summary     statmath.Summary
}

// buildStats computes one row per (source, key) pair, plus a "sum"
// row per source when addSum is set. A key with no present values in
// a source makes the whole run fail; a partial table would just hide
// the typo or the missing metric.
func buildStats(frames []statproc.SourceSeries, keys []string, addSum bool) ([]statsRow, error) {
	var rows []statsRow
	for _, src := range frames {
		for _, key := range keys {
			summary, err := statmath.Summarize(src.Series[key].Present())
			if err != nil {
				return nil, fmt.Errorf("stats of %s in %s: %w", key, src.Name, err)
			}
			rows = append(rows, statsRow{Source: src.Name, Key: key, Summary: summary})
		}
		if addSum {
			summary, err := statmath.Summarize(statproc.SumFrames(src.Series, keys).Present())
			if err != nil {
				return nil, fmt.Errorf("stats of sum in %s: %w", src.Name, err)
			}
			rows = append(rows, statsRow{Source: src.Name, Key: "sum", Summary: summary})
		}
	}
	return rows, nil
}

var statsHeader = []string{"source", "key", "number", "min", "max", "mean", "median", "stdev", "q95"}

// formatText writes the rows as a markdown-ruled text table.
func formatText(w io.Writer, rows []statsRow) error {
	var tab texttab.Table
	tab.HeaderRow()
	for _, h := range statsHeader {
		tab.Cell(h)
	}
	for _, row := range rows {
		tab.Row().Cell(row.Source).Cell(row.Key)
		tab.Cell(strconv.Itoa(row.Summary.N), texttab.Right)
		for _, v := range []float64{
			row.Summary.Min,
			row.Summary.Max,
			row.Summary.Mean,
			row.Summary.Median,
			row.Summary.Stdev,
			row.Summary.Q95,
		} {
			tab.Cell(formatNum(v), texttab.Right)
		}
	}
	return tab.Format(w)
}

// formatNum formats a statistic compactly: integral values without a
// decimal part, everything else with up to six significant digits. An
// undefined statistic (the stdev of a single value) formats as an
// empty cell rather than a literal NaN.
func formatNum(v float64) string {
	if math.IsNaN(v) {
		return ""
	}
	return strconv.FormatFloat(v, 'g', 6, 64)
}
