// Copyright 2025 The osgstat Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package statplot

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/osgtools/osgstat/statmath"
	"github.com/osgtools/osgstat/statproc"
)

func testSources() []statproc.SourceSeries {
	return []statproc.SourceSeries{
		{
			Name: "a",
			Series: map[string]statproc.Series{
				"Physics Actors": {
					{Value: 3, Int: true, Defined: true},
					{Value: 4, Int: true, Defined: true},
					{Value: 5, Int: true, Defined: true},
				},
				"Script Time": {
					{},
					{Value: 0.25, Defined: true},
					{Value: 0.5, Defined: true},
				},
			},
		},
	}
}

func TestTimeseries(t *testing.T) {
	p, err := Timeseries(testSources(), []string{"Physics Actors", "Script Time"}, true)
	if err != nil {
		t.Fatal(err)
	}
	if p == nil {
		t.Fatal("got nil plot")
	}
}

// The sum line must sit at the same frame indexes as the metric
// lines, even across frames where every summed key is missing.
func TestTimeseriesSumAlignment(t *testing.T) {
	sources := []statproc.SourceSeries{{
		Name: "a",
		Series: map[string]statproc.Series{
			"x": {{}, {Value: 2, Defined: true}, {Value: 3, Defined: true}},
			"y": {{}, {}, {Value: 10, Defined: true}},
		},
	}}
	sums := statproc.SumFrames(sources[0].Series, []string{"x", "y"})
	pts := seriesXYs(sums, false)
	if len(pts) != 2 || pts[0].X != 1 || pts[1].X != 2 {
		t.Fatalf("sum points = %v, want X positions 1 and 2", pts)
	}
	if pts[0].Y != 2 || pts[1].Y != 13 {
		t.Errorf("sum points = %v, want Y values 2 and 13", pts)
	}

	if _, err := Timeseries(sources, []string{"x", "y"}, true); err != nil {
		t.Fatal(err)
	}
}

func TestCumulativeTimeseries(t *testing.T) {
	if _, err := CumulativeTimeseries(testSources(), []string{"Physics Actors"}, false); err != nil {
		t.Fatal(err)
	}
}

func TestHist(t *testing.T) {
	if _, err := Hist(testSources(), []string{"Physics Actors"}); err != nil {
		t.Fatal(err)
	}

	// A histogram over nothing has no range to bin.
	_, err := Hist(testSources(), []string{"no such metric"})
	if !errors.Is(err, statmath.ErrInsufficientData) {
		t.Errorf("got err %v, want ErrInsufficientData", err)
	}
}

func TestHistRatio(t *testing.T) {
	p, err := HistRatio(testSources(), [][2]string{{"Script Time", "Physics Actors"}})
	if err != nil {
		t.Fatal(err)
	}
	if p == nil {
		t.Fatal("got nil plot")
	}
}

func TestStdevHist(t *testing.T) {
	if _, err := StdevHist(testSources(), "Physics Actors", 2); err != nil {
		t.Fatal(err)
	}

	// One present value is not enough for a stdev window.
	sources := []statproc.SourceSeries{{
		Name:   "a",
		Series: map[string]statproc.Series{"x": {{Value: 1, Defined: true}}},
	}}
	if _, err := StdevHist(sources, "x", 2); !errors.Is(err, statmath.ErrInsufficientData) {
		t.Errorf("got err %v, want ErrInsufficientData", err)
	}
}

func TestXYPlots(t *testing.T) {
	specs := []XYSpec{{X: "Physics Actors", Y: "Script Time", Agg: "mean"}}
	if _, err := XYPlots(testSources(), specs); err != nil {
		t.Fatal(err)
	}

	bad := []XYSpec{{X: "a", Y: "b", Agg: "mode"}}
	if _, err := XYPlots(testSources(), bad); err == nil {
		t.Error("expected error for unknown aggregation function")
	}
}

func TestSave(t *testing.T) {
	dir := t.TempDir()
	cfg := Config{Dir: dir, Format: "png"}
	p, err := Timeseries(testSources(), []string{"Physics Actors"}, false)
	if err != nil {
		t.Fatal(err)
	}
	path, err := cfg.Save(p, "timeseries")
	if err != nil {
		t.Fatal(err)
	}
	if path != filepath.Join(dir, "timeseries.png") {
		t.Errorf("Save wrote %s", path)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("output file: %v", err)
	}
}
