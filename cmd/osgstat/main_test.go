// Copyright 2025 The osgstat Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/osgtools/osgstat/statmath"
)

const sampleLog = `Stats Viewer : framenumber 1
    Physics Actors 3
Stats Camera
    Time taken 1.5
Stats Camera
    Time taken 2.5
Stats Viewer : framenumber 2
    Physics Actors 4
Stats Viewer : framenumber 3
    Physics Actors 5
Stats Viewer : framenumber 4
`

func writeLog(t *testing.T, data string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "stats.log")
	if err := os.WriteFile(path, []byte(data), 0666); err != nil {
		t.Fatal(err)
	}
	return path
}

func runOsgstat(t *testing.T, args ...string) string {
	t.Helper()
	var buf bytes.Buffer
	if err := run(args, &buf); err != nil {
		t.Fatal(err)
	}
	return buf.String()
}

func TestPrintKeys(t *testing.T) {
	path := writeLog(t, sampleLog)
	got := runOsgstat(t, "--print-keys", path)
	want := `Physics Actors
Time taken Camera 1
Time taken Camera 2
framenumber
`
	if got != want {
		t.Errorf("got:\n%swant:\n%s", got, want)
	}
}

func TestStatsTable(t *testing.T) {
	path := writeLog(t, sampleLog)
	got := runOsgstat(t, "--stats", "Physics Actors", "--stats-sum", "a="+path)
	want := `| source | key            | number | min | max | mean | median | stdev | q95 |
|--------|----------------|--------|-----|-----|------|--------|-------|-----|
| a      | Physics Actors |      3 |   3 |   5 |    4 |      4 |     1 |   5 |
| a      | sum            |      3 |   3 |   5 |    4 |      4 |     1 |   5 |
`
	if got != want {
		t.Errorf("got:\n%swant:\n%s", got, want)
	}
}

func TestStatsHTML(t *testing.T) {
	path := writeLog(t, sampleLog)
	got := runOsgstat(t, "--stats", "Physics Actors", "--html", "a="+path)
	for _, want := range []string{
		"<table class='osgstat'>",
		"<td>a<td>Physics Actors<td>3<td>3<td>5<td>4<td>4<td>1<td>5",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("output does not contain %q:\n%s", want, got)
		}
	}
}

// From the log format's trailing-frame rule: only frames closed by a
// following marker exist, so the [0,1) range holds the first frame.
func TestStatsFrameRange(t *testing.T) {
	path := writeLog(t, sampleLog)
	got := runOsgstat(t, "--stats", "Physics Actors", "--begin-frame", "0", "--end-frame", "1", path)
	// A single value has no sample stdev; the cell stays empty.
	if !strings.Contains(got, "|      1 |   3 |   3 |    3 |      3 |       |   3 |") {
		t.Errorf("unexpected stats for single-frame range:\n%s", got)
	}
}

func TestStatsMissingKey(t *testing.T) {
	path := writeLog(t, sampleLog)
	var buf bytes.Buffer
	err := run([]string{"--stats", "no such metric", path}, &buf)
	if !errors.Is(err, statmath.ErrInsufficientData) {
		t.Fatalf("got err %v, want ErrInsufficientData", err)
	}
}

func TestCharts(t *testing.T) {
	path := writeLog(t, sampleLog)
	dir := t.TempDir()
	runOsgstat(t,
		"--timeseries", "Physics Actors",
		"--timeseries-sum",
		"--cumulative-timeseries", "Physics Actors",
		"--hist", "Physics Actors",
		"--hist-ratio", "Time taken Camera 1,Time taken Camera 2",
		"--stdev-hist", "Physics Actors,2",
		"--plot", "framenumber,Physics Actors,mean",
		"--output", dir,
		path,
	)
	for _, name := range []string{
		"timeseries.png",
		"cumulative_timeseries.png",
		"hists.png",
		"hist_ratio.png",
		"stdev_hist_0.png",
		"plots.png",
	} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("chart %s: %v", name, err)
		}
	}
}

func TestBadInput(t *testing.T) {
	path := writeLog(t, "Stats Viewer : framenumber 1\n    Physics Actors x\nStats Viewer : framenumber 2\n")
	var buf bytes.Buffer
	err := run([]string{"--print-keys", path}, &buf)
	if err == nil || !strings.Contains(err.Error(), "not a number") {
		t.Fatalf("got err %v, want parse error", err)
	}
}

func TestNoViews(t *testing.T) {
	path := writeLog(t, sampleLog)
	var buf bytes.Buffer
	if err := run([]string{path}, &buf); err == nil {
		t.Fatal("expected error when no view is requested")
	}
}
