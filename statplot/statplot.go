// Copyright 2025 The osgstat Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package statplot renders aggregated frame series as charts.
//
// Every function builds a *plot.Plot from already-aggregated series;
// Config.Save writes it out as an image file named after the view.
// These are thin views over statproc and statmath: all alignment and
// math happens there.
package statplot

import (
	"fmt"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"

	"github.com/osgtools/osgstat/statmath"
	"github.com/osgtools/osgstat/statproc"
)

// histEdges is the shared bin edge count for histograms; stdevHistEdges
// is the finer-grained count for stdev-windowed ones.
const (
	histEdges      = 20
	stdevHistEdges = 9
)

// A Config controls where and how charts are written.
type Config struct {
	Dir    string // output directory
	Format string // image format by extension: png, svg, pdf
}

// Save writes p into the configured directory as "<name>.<format>"
// and returns the path written.
func (c Config) Save(p *plot.Plot, name string) (string, error) {
	path := filepath.Join(c.Dir, name+"."+c.Format)
	if err := p.Save(8*vg.Inch, 6*vg.Inch, path); err != nil {
		return "", fmt.Errorf("saving %s: %w", path, err)
	}
	return path, nil
}

// Timeseries charts each requested metric of each source over frame
// index. With addSum, a per-source "sum" line of the per-frame sum
// across the requested keys is added.
func Timeseries(sources []statproc.SourceSeries, keys []string, addSum bool) (*plot.Plot, error) {
	return timeseries(sources, keys, addSum, false, "timeseries")
}

// CumulativeTimeseries charts the running sum of each requested
// metric over frame index.
func CumulativeTimeseries(sources []statproc.SourceSeries, keys []string, addSum bool) (*plot.Plot, error) {
	return timeseries(sources, keys, addSum, true, "cumulative timeseries")
}

func timeseries(sources []statproc.SourceSeries, keys []string, addSum, cumulative bool, title string) (*plot.Plot, error) {
	p := newPlot(title)
	p.X.Label.Text = "frame"
	n := 0
	for _, src := range sources {
		for _, key := range keys {
			pts := seriesXYs(src.Series[key], cumulative)
			if err := addLine(p, pts, fmt.Sprintf("%s:%s", key, src.Name), n); err != nil {
				return nil, err
			}
			n++
		}
		if addSum {
			sums := statproc.SumFrames(src.Series, keys)
			pts := seriesXYs(sums, cumulative)
			if err := addLine(p, pts, "sum:"+src.Name, n); err != nil {
				return nil, err
			}
			n++
		}
	}
	return p, nil
}

// seriesXYs converts a series to plot points, skipping missing
// observations. X is the frame index within the aggregated range, so
// gaps stay visible as jumps in X.
func seriesXYs(s statproc.Series, cumulative bool) plotter.XYs {
	var pts plotter.XYs
	total := 0.0
	for i, o := range s {
		if !o.Defined {
			continue
		}
		y := o.Value
		if cumulative {
			total += o.Value
			y = total
		}
		pts = append(pts, plotter.XY{X: float64(i), Y: y})
	}
	return pts
}

// Hist charts one shared-bin histogram of every requested metric of
// every source. The bins span the global value range of everything
// plotted, so the bars of different series are directly comparable.
func Hist(sources []statproc.SourceSeries, keys []string) (*plot.Plot, error) {
	var labels []string
	var groups [][]float64
	for _, src := range sources {
		for _, key := range keys {
			labels = append(labels, fmt.Sprintf("%s:%s", key, src.Name))
			groups = append(groups, src.Series[key].Present())
		}
	}
	return histogram("histogram", labels, groups, histEdges)
}

// HistRatio charts a histogram of the per-frame ratio of each metric
// pair (first divided by second), with bins shared across all pairs
// and sources.
func HistRatio(sources []statproc.SourceSeries, pairs [][2]string) (*plot.Plot, error) {
	var labels []string
	var groups [][]float64
	for _, src := range sources {
		for _, pair := range pairs {
			labels = append(labels, fmt.Sprintf("%s / %s:%s", pair[0], pair[1], src.Name))
			groups = append(groups, statproc.Ratio(src.Series[pair[0]], src.Series[pair[1]]))
		}
	}
	return histogram("histogram ratio", labels, groups, histEdges)
}

// StdevHist charts a histogram of key clipped to the window
// median ± stdev/2·scale. The window is computed from the first
// source, so every source is clipped identically.
func StdevHist(sources []statproc.SourceSeries, key string, scale float64) (*plot.Plot, error) {
	if len(sources) == 0 {
		return nil, fmt.Errorf("stdev histogram of %s: %w", key, statmath.ErrInsufficientData)
	}
	lo, hi, err := statmath.Window(sources[0].Series[key].Present(), scale)
	if err != nil {
		return nil, fmt.Errorf("stdev histogram of %s: %w", key, err)
	}

	p := newPlot(fmt.Sprintf("stdev histogram of %s", key))
	edges := statmath.Linspace(lo, hi, stdevHistEdges)
	for i, src := range sources {
		var clipped []float64
		for _, v := range src.Series[key].Present() {
			if lo <= v && v <= hi {
				clipped = append(clipped, v)
			}
		}
		if err := addBars(p, edges, clipped, fmt.Sprintf("%s:%s", key, src.Name), i, len(sources)); err != nil {
			return nil, err
		}
	}
	finishHist(p, edges)
	return p, nil
}

// XYSpec describes one 2D aggregation plot: Y grouped by exact X
// value and reduced with Agg ("mean" or "median").
type XYSpec struct {
	X, Y, Agg string
}

// XYPlots charts the aggregated relation between metric pairs.
func XYPlots(sources []statproc.SourceSeries, specs []XYSpec) (*plot.Plot, error) {
	p := newPlot("plots")
	n := 0
	for _, src := range sources {
		for _, spec := range specs {
			agg, ok := statmath.Agg(spec.Agg)
			if !ok {
				return nil, fmt.Errorf("unknown aggregation function %q", spec.Agg)
			}
			xs, ys := src.Series[spec.X], src.Series[spec.Y]
			var points []statmath.XY
			for i := 0; i < len(xs) && i < len(ys); i++ {
				if xs[i].Defined && ys[i].Defined {
					points = append(points, statmath.XY{X: xs[i].Value, Y: ys[i].Value})
				}
			}
			aggregated := statmath.AggregateXY(points, agg)
			pts := make(plotter.XYs, len(aggregated))
			for i, q := range aggregated {
				pts[i] = plotter.XY{X: q.X, Y: q.Y}
			}
			label := fmt.Sprintf("x=%s, y=%s, agg=%s:%s", spec.X, spec.Y, spec.Agg, src.Name)
			if err := addLine(p, pts, label, n); err != nil {
				return nil, err
			}
			n++
		}
	}
	return p, nil
}

// histogram builds a shared-bin histogram over all groups. It fails
// with ErrInsufficientData when no group has any value, since there
// is no range to bin over.
func histogram(title string, labels []string, groups [][]float64, nedges int) (*plot.Plot, error) {
	lo, hi, any := 0.0, 0.0, false
	for _, g := range groups {
		for _, v := range g {
			if !any || v < lo {
				lo = v
			}
			if !any || v > hi {
				hi = v
			}
			any = true
		}
	}
	if !any {
		return nil, fmt.Errorf("%s: %w", title, statmath.ErrInsufficientData)
	}

	p := newPlot(title)
	edges := statmath.Linspace(lo, hi, nedges)
	for i, g := range groups {
		if err := addBars(p, edges, g, labels[i], i, len(groups)); err != nil {
			return nil, err
		}
	}
	finishHist(p, edges)
	return p, nil
}

func newPlot(title string) *plot.Plot {
	p := plot.New()
	p.Title.Text = title
	p.Add(plotter.NewGrid())
	p.Legend.Top = true
	return p
}

func addLine(p *plot.Plot, pts plotter.XYs, label string, i int) error {
	line, err := plotter.NewLine(pts)
	if err != nil {
		return fmt.Errorf("plotting %s: %w", label, err)
	}
	line.Color = plotutil.Color(i)
	p.Add(line)
	p.Legend.Add(label, line)
	return nil
}

// addBars adds one series' bin counts as a group of offset bars, so
// overlapping series stay distinguishable.
func addBars(p *plot.Plot, edges, values []float64, label string, i, of int) error {
	counts := statmath.BinCounts(values, edges)
	width := vg.Points(16 / float64(of))
	bars, err := plotter.NewBarChart(plotter.Values(counts), width)
	if err != nil {
		return fmt.Errorf("plotting %s: %w", label, err)
	}
	bars.Color = plotutil.Color(i)
	bars.Offset = width * vg.Length(i)
	p.Add(bars)
	p.Legend.Add(label, bars)
	return nil
}

// finishHist labels the nominal bin axis with each bin's lower edge.
func finishHist(p *plot.Plot, edges []float64) {
	names := make([]string, len(edges)-1)
	for i := range names {
		names[i] = fmt.Sprintf("%.4g", edges[i])
	}
	p.NominalX(names...)
	p.Y.Label.Text = "frames"
}
