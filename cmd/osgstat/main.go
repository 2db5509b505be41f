// Copyright 2025 The osgstat Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Osgstat analyzes the statistics log of a scene-graph renderer's
// stats viewer.
//
// Usage:
//
//	osgstat [flags] [path...]
//
// Each input file is a stats viewer log; with no paths, osgstat reads
// standard input. A path of the form label=path names the source in
// every view; otherwise the path itself is the name.
//
// Osgstat reconstructs the log into a per-frame, per-metric time
// series for each source and produces the requested views over a
// frame range: raw or cumulative time series, histograms (plain,
// ratio of two metrics, or windowed to a band around the median),
// 2D aggregation plots, and a summary statistics table. Charts are
// written as image files into the --output directory; the table and
// the key listing go to standard output.
//
// For example, to compare physics load across two runs:
//
//	osgstat --stats "Physics Actors" --timeseries "Physics Actors" \
//	    --begin-frame 100 before=a.log after=b.log
package main

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"

	"gonum.org/v1/plot"

	"github.com/osgtools/osgstat/internal/config"
	"github.com/osgtools/osgstat/statfmt"
	"github.com/osgtools/osgstat/statplot"
	"github.com/osgtools/osgstat/statproc"
)

func main() {
	log.SetPrefix("osgstat: ")
	log.SetFlags(0)
	if err := run(os.Args[1:], os.Stdout); err != nil {
		if errors.Is(err, config.ErrHelpRequested) {
			return
		}
		log.Fatal(err)
	}
}

func run(args []string, w io.Writer) error {
	cfg, err := config.NewLoader().Load(args)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	if !cfg.WantsOutput() {
		return errors.New("no view requested (try --print-keys or --stats)")
	}

	sources, err := statfmt.ReadAll(cfg.Paths)
	if err != nil {
		return err
	}
	keys := statproc.CollectKeys(sources)
	frames := statproc.CollectPerFrame(sources, keys, cfg.BeginFrame, cfg.EndFrame)

	if cfg.PrintKeys {
		for _, key := range keys {
			fmt.Fprintln(w, key)
		}
	}

	charts := statplot.Config{Dir: cfg.Output, Format: cfg.Format}
	if len(cfg.Timeseries) > 0 {
		p, err := statplot.Timeseries(frames, cfg.Timeseries, cfg.TimeseriesSum)
		if err != nil {
			return err
		}
		if err := save(charts, p, "timeseries"); err != nil {
			return err
		}
	}
	if len(cfg.CumulativeTimeseries) > 0 {
		p, err := statplot.CumulativeTimeseries(frames, cfg.CumulativeTimeseries, cfg.CumulativeTimeseriesSum)
		if err != nil {
			return err
		}
		if err := save(charts, p, "cumulative_timeseries"); err != nil {
			return err
		}
	}
	if len(cfg.Hist) > 0 {
		p, err := statplot.Hist(frames, cfg.Hist)
		if err != nil {
			return err
		}
		if err := save(charts, p, "hists"); err != nil {
			return err
		}
	}
	if len(cfg.HistRatio) > 0 {
		pairs := make([][2]string, len(cfg.HistRatio))
		for i, r := range cfg.HistRatio {
			pairs[i] = [2]string{r.Num, r.Den}
		}
		p, err := statplot.HistRatio(frames, pairs)
		if err != nil {
			return err
		}
		if err := save(charts, p, "hist_ratio"); err != nil {
			return err
		}
	}
	for i, spec := range cfg.StdevHist {
		p, err := statplot.StdevHist(frames, spec.Key, spec.Scale)
		if err != nil {
			return err
		}
		if err := save(charts, p, fmt.Sprintf("stdev_hist_%d", i)); err != nil {
			return err
		}
	}
	if len(cfg.Plots) > 0 {
		specs := make([]statplot.XYSpec, len(cfg.Plots))
		for i, p := range cfg.Plots {
			specs[i] = statplot.XYSpec{X: p.X, Y: p.Y, Agg: p.Agg}
		}
		p, err := statplot.XYPlots(frames, specs)
		if err != nil {
			return err
		}
		if err := save(charts, p, "plots"); err != nil {
			return err
		}
	}

	if len(cfg.Stats) > 0 {
		rows, err := buildStats(frames, cfg.Stats, cfg.StatsSum)
		if err != nil {
			return err
		}
		if cfg.HTML {
			return formatHTML(w, rows)
		}
		return formatText(w, rows)
	}
	return nil
}

func save(charts statplot.Config, p *plot.Plot, name string) error {
	path, err := charts.Save(p, name)
	if err != nil {
		return err
	}
	log.Printf("wrote %s", path)
	return nil
}
