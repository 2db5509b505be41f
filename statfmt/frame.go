// Copyright 2025 The osgstat Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package statfmt provides a reader for the frame statistics log
// emitted by a scene-graph renderer's stats viewer.
//
// The log is line-oriented and semi-free-form. A frame begins at a
// "Stats Viewer" marker line, whose trailing key/value pair is the
// frame's first metric. Indented lines report further metrics for the
// frame; "Stats Camera" marker lines open per-camera sub-sections,
// inside which metric keys are qualified with the 1-based camera
// index so that cameras reporting the same base metric do not collide.
// All other lines are ignored, which keeps the reader forward
// compatible with log sections it does not know about.
//
// The reader is structured as a streaming operation modeled on
// bufio.Scanner, so consumers can process frames incrementally
// without dictating a data model.
package statfmt

import (
	"fmt"
	"strconv"
)

// A Value is a single numeric metric value.
//
// All arithmetic downstream is done in float64. Int records whether
// the source token was an integer, which only affects formatting.
type Value struct {
	Value float64
	Int   bool
}

// String formats the value the way it appeared in the log: integers
// without a decimal part, floats in their shortest representation.
func (v Value) String() string {
	if v.Int {
		return strconv.FormatInt(int64(v.Value), 10)
	}
	return strconv.FormatFloat(v.Value, 'g', -1, 64)
}

// A Metric is a single key/value metric within a frame. The key of a
// metric reported inside a camera sub-section has the form
// "<base> Camera <n>".
type Metric struct {
	Key   string
	Value Value
}

// A Frame is one reporting cycle of the renderer: every metric
// reported between two consecutive frame markers in one source.
//
// Metrics preserves insertion order. Frame maintains an index of the
// keys, so callers must use Set to add or update metrics. Setting an
// existing key overwrites its value in place; the log can legitimately
// repeat a key within one frame and the last occurrence wins.
type Frame struct {
	Metrics []Metric

	// metricPos maps from Metric.Key to index in Metrics. This
	// may be nil, which indicates the index needs to be
	// constructed.
	metricPos map[string]int

	// fileName and line record where this Frame started.
	fileName string
	line     int
}

// Pos returns the file name and 1-based line number of the marker
// line that started this frame. For frames not read from a file, it
// returns "", 0.
func (f *Frame) Pos() (fileName string, line int) {
	return f.fileName, f.line
}

// Set sets metric key to value, overwriting any prior value for that
// exact key within this frame.
func (f *Frame) Set(key string, value Value) {
	if pos, ok := f.index(key); ok {
		f.Metrics[pos].Value = value
		return
	}
	f.metricPos[key] = len(f.Metrics)
	f.Metrics = append(f.Metrics, Metric{key, value})
}

// Value returns the value of metric key and whether the frame
// reported it.
func (f *Frame) Value(key string) (Value, bool) {
	pos, ok := f.index(key)
	if !ok {
		return Value{}, false
	}
	return f.Metrics[pos].Value, true
}

func (f *Frame) index(key string) (pos int, ok bool) {
	if f.metricPos == nil {
		// This is a fresh Frame. Construct the index.
		f.metricPos = make(map[string]int)
		for i, m := range f.Metrics {
			f.metricPos[m.Key] = i
		}
	}
	pos, ok = f.metricPos[key]
	return
}

// Clone makes a copy of Frame that shares no state with f.
func (f *Frame) Clone() *Frame {
	return &Frame{
		Metrics:  append([]Metric(nil), f.Metrics...),
		fileName: f.fileName,
		line:     f.line,
	}
}

// A SyntaxError represents a syntax error on a particular line of a
// stats log.
type SyntaxError struct {
	FileName string
	Line     int
	Msg      string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%s:%d: %s", e.FileName, e.Line, e.Msg)
}
