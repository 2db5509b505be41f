// Copyright 2025 The osgstat Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package statproc

import (
	"math"
	"reflect"
	"strings"
	"testing"

	"github.com/osgtools/osgstat/statfmt"
)

func readSource(t *testing.T, name, data string) statfmt.Source {
	t.Helper()
	r := statfmt.NewReader(strings.NewReader(data), name)
	src := statfmt.Source{Name: name}
	for r.Scan() {
		src.Frames = append(src.Frames, r.Frame())
	}
	if err := r.Err(); err != nil {
		t.Fatal(err)
	}
	return src
}

// mixed has three complete frames. "Physics Actors" is present in all
// of them, "Script Time" only in the middle one, and the cameras
// report "Time taken" in the first one.
func mixedSources(t *testing.T) []statfmt.Source {
	t.Helper()
	a := readSource(t, "a", `Stats Viewer : framenumber 1
    Physics Actors 3
Stats Camera
    Time taken 1.5
Stats Camera
    Time taken 2.5
Stats Viewer : framenumber 2
    Physics Actors 4
    Script Time 0.25
Stats Viewer : framenumber 3
    Physics Actors 5
Stats Viewer : framenumber 4
`)
	b := readSource(t, "b", `Stats Viewer : framenumber 1
    Draw 0.75
Stats Viewer : framenumber 2
`)
	return []statfmt.Source{a, b}
}

func TestCollectKeys(t *testing.T) {
	got := CollectKeys(mixedSources(t))
	want := []string{
		"Draw",
		"Physics Actors",
		"Script Time",
		"Time taken Camera 1",
		"Time taken Camera 2",
		"framenumber",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("CollectKeys = %v, want %v", got, want)
	}
}

func TestCollectKeysSourceOrderIndependent(t *testing.T) {
	sources := mixedSources(t)
	reversed := []statfmt.Source{sources[1], sources[0]}
	if !reflect.DeepEqual(CollectKeys(sources), CollectKeys(reversed)) {
		t.Error("key universe depends on source order")
	}
}

func TestCollectPerFrame(t *testing.T) {
	sources := mixedSources(t)
	keys := CollectKeys(sources)
	frames := CollectPerFrame(sources, keys, 0, math.MaxInt)

	if len(frames) != 2 || frames[0].Name != "a" || frames[1].Name != "b" {
		t.Fatalf("got %d source series, want a then b", len(frames))
	}

	// Every series of a source has that source's frame count, even
	// for keys the source never reports.
	for _, src := range frames {
		want := 3
		if src.Name == "b" {
			want = 1
		}
		for key, s := range src.Series {
			if len(s) != want {
				t.Errorf("%s[%q] has length %d, want %d", src.Name, key, len(s), want)
			}
		}
	}

	s := frames[0].Series["Script Time"]
	if s[0].Defined || !s[1].Defined || s[2].Defined {
		t.Errorf(`a["Script Time"] defined pattern = %v %v %v, want false true false`, s[0].Defined, s[1].Defined, s[2].Defined)
	}
	if s[1].Value != 0.25 {
		t.Errorf(`a["Script Time"][1] = %v, want 0.25`, s[1].Value)
	}

	for i, o := range frames[1].Series["Physics Actors"] {
		if o.Defined {
			t.Errorf(`b["Physics Actors"][%d] unexpectedly defined`, i)
		}
	}
}

func TestCollectPerFrameRange(t *testing.T) {
	sources := mixedSources(t)
	keys := []string{"Physics Actors"}

	tests := []struct {
		name       string
		begin, end int
		want       []float64
	}{
		{"all", 0, math.MaxInt, []float64{3, 4, 5}},
		{"slice", 0, 1, []float64{3}},
		{"middle", 1, 2, []float64{4}},
		{"clampEnd", 1, 100, []float64{4, 5}},
		{"beginPastEnd", 5, 100, nil},
		{"inverted", 2, 1, nil},
		{"negativeBegin", -3, 2, []float64{3, 4}},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			frames := CollectPerFrame(sources, keys, test.begin, test.end)
			got := frames[0].Series["Physics Actors"].Present()
			if !reflect.DeepEqual(got, test.want) {
				t.Errorf("[%d:%d) = %v, want %v", test.begin, test.end, got, test.want)
			}
		})
	}
}

func TestPresent(t *testing.T) {
	s := Series{
		{Value: 1, Defined: true},
		{},
		{Value: 3, Defined: true},
		{},
	}
	if got := s.Present(); !reflect.DeepEqual(got, []float64{1, 3}) {
		t.Errorf("Present = %v, want [1 3]", got)
	}
	if got := (Series{}).Present(); got != nil {
		t.Errorf("empty Present = %v, want nil", got)
	}
}

func TestSumFrames(t *testing.T) {
	series := map[string]Series{
		"x": {
			{Value: 1, Defined: true},
			{},
			{Value: 3, Defined: true},
			{},
		},
		"y": {
			{Value: 10, Defined: true},
			{Value: 20, Defined: true},
			{},
			{},
		},
	}
	// Index 3 has every key missing and stays a missing observation;
	// indexes where only one key is present sum just that key.
	got := SumFrames(series, []string{"x", "y"})
	want := Series{
		{Value: 11, Defined: true},
		{Value: 20, Defined: true},
		{Value: 3, Defined: true},
		{},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("SumFrames = %v, want %v", got, want)
	}
	if present := got.Present(); !reflect.DeepEqual(present, []float64{11, 20, 3}) {
		t.Errorf("SumFrames present values = %v, want [11 20 3]", present)
	}

	if got := SumFrames(series, []string{"absent"}); got != nil {
		t.Errorf("SumFrames over absent key = %v, want nil", got)
	}
}

func TestRatio(t *testing.T) {
	num := Series{
		{Value: 1, Defined: true},
		{Value: 4, Defined: true},
		{},
		{Value: 9, Defined: true},
	}
	den := Series{
		{Value: 2, Defined: true},
		{},
		{Value: 5, Defined: true},
		{Value: 3, Defined: true},
	}
	got := Ratio(num, den)
	want := []float64{0.5, 3}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Ratio = %v, want %v", got, want)
	}
}
