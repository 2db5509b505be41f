// Copyright 2025 The osgstat Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package statfmt

import (
	"fmt"
	"os"
	"strings"
)

// A Source is a named log origin and its full, ordered sequence of
// frames. Frame order is the chronological frame order of the log.
type Source struct {
	Name   string
	Frames []*Frame
}

// A Files reads frames from a sequence of input files.
//
// Each frame is attributed to a source name derived from its path. By
// default the name is the path itself. If AllowLabels is set, entries
// in Paths may be of the form label=path, and the label part names
// the source. Either way, a name that would appear more than once is
// disambiguated by appending "#N".
type Files struct {
	// Paths is the list of file names to read in.
	Paths []string

	// AllowStdin indicates that the path "-" should be treated as
	// stdin and if the file list is empty, it should be treated
	// as consisting of stdin. Stdin sources are named "stdin".
	//
	// This is generally the desired behavior when the file list
	// comes from command-line arguments.
	AllowStdin bool

	// AllowLabels indicates that custom labels are allowed in
	// Paths.
	AllowLabels bool

	// inputs is the sequence of remaining inputs, or nil if this
	// Files has not started yet. Note that this distinguishes nil
	// from length 0.
	inputs []input

	reader  Reader
	file    *os.File
	name    string
	isStdin bool
	err     error
}

type input struct {
	path    string
	label   string
	isStdin bool
}

// init does first-use initialization of f.
func (f *Files) init() {
	// Set f.inputs to a non-nil slice to indicate initialization
	// has happened.
	f.inputs = []input{}

	// Parse the paths. Doing this first simplifies iteration and
	// disambiguation.
	labelCount := make(map[string]int)
	if f.AllowStdin && len(f.Paths) == 0 {
		f.inputs = append(f.inputs, input{"-", "stdin", true})
		labelCount["stdin"]++
	}
	for _, path := range f.Paths {
		// Parse the label.
		label := path
		isLabeled := false
		if i := strings.Index(path, "="); f.AllowLabels && i >= 0 {
			label, path = path[:i], path[i+1:]
			isLabeled = true
		}

		isStdin := f.AllowStdin && path == "-"
		if isStdin && !isLabeled {
			label = "stdin"
		}
		labelCount[label]++
		f.inputs = append(f.inputs, input{path, label, isStdin})
	}

	// If the same source name appears multiple times, whether as a
	// repeated path or a repeated explicit label, disambiguate it.
	// Otherwise, the sources are indistinguishable and their frames
	// would silently pile up under one name in every view.
	labelI := make(map[string]int)
	for i := range f.inputs {
		inp := &f.inputs[i]
		if labelCount[inp.label] == 1 {
			continue
		}
		// Disambiguate.
		orig := inp.label
		inp.label = fmt.Sprintf("%s#%d", orig, labelI[orig])
		labelI[orig]++
	}
}

// Scan advances the reader to the next frame in the sequence of files
// and reports whether one was read. The caller should use the Frame
// method to get the frame and SourceName for the source it belongs
// to. If Scan reaches the end of the file sequence, or if an error
// occurs, it returns false and the caller should use the Err method
// to check for errors.
func (f *Files) Scan() bool {
	if f.err != nil {
		return false
	}

	if f.inputs == nil {
		f.init()
	}

	for {
		if f.file == nil {
			// Open the next file.
			if len(f.inputs) == 0 {
				// We're out of inputs.
				return false
			}
			inp := f.inputs[0]
			f.inputs = f.inputs[1:]

			if inp.isStdin {
				f.isStdin, f.file = true, os.Stdin
			} else {
				file, err := os.Open(inp.path)
				if err != nil {
					f.err = err
					return false
				}
				f.isStdin, f.file = false, file
			}
			f.name = inp.label
			f.reader.Reset(f.file, inp.path)
		}

		// Try to get the next frame.
		if f.reader.Scan() {
			return true
		}
		if err := f.reader.Err(); err != nil {
			f.err = err
			break
		}
		// Just an EOF. Close this file and open the next.
		if !f.isStdin {
			f.file.Close()
		}
		f.file = nil
	}
	// We're out of files.
	return false
}

// Frame returns the frame that was just read by Scan.
// See Reader.Frame.
func (f *Files) Frame() *Frame {
	return f.reader.Frame()
}

// SourceName returns the source name of the frame that was just read
// by Scan.
func (f *Files) SourceName() string {
	return f.name
}

// Err returns the error that stopped Scan, if any.
// If Scan stopped because it read each file to completion,
// or if Scan has not yet returned false, Err returns nil.
func (f *Files) Err() error {
	return f.err
}

// ReadAll reads every path to completion and returns the materialized
// sources in path order. An empty path list reads stdin. Reading
// stops at the first error; a malformed line aborts the whole run
// rather than producing misleading statistics from a partial source.
func ReadAll(paths []string) ([]Source, error) {
	files := &Files{Paths: paths, AllowStdin: true, AllowLabels: true}
	files.init()

	// Register every source up front so a log with no complete
	// frames still shows up as an empty source rather than
	// vanishing from the output.
	sources := make([]Source, len(files.inputs))
	pos := make(map[string]int, len(files.inputs))
	for i, inp := range files.inputs {
		sources[i] = Source{Name: inp.label}
		pos[inp.label] = i
	}

	for files.Scan() {
		i := pos[files.SourceName()]
		sources[i].Frames = append(sources[i].Frames, files.Frame())
	}
	if err := files.Err(); err != nil {
		return nil, err
	}
	return sources, nil
}
