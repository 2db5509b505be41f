// Copyright 2025 The osgstat Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package statfmt

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"strconv"
)

// A Reader reads the stats viewer log format.
//
// Its API is modeled on bufio.Scanner: call Scan to advance to the
// next frame, Frame to retrieve it, and Err once Scan returns false.
// Frames are yielded in log order and are owned by the caller.
//
// The reader is single pass. Re-reading a source requires a new
// Reader (or Reset) over a fresh input; there is no hidden state
// carried between reads.
//
// To construct a new Reader, either call NewReader, or call Reset on
// a zeroed Reader.
type Reader struct {
	s        *bufio.Scanner
	fileName string
	line     int
	err      error

	// cur is the frame being accumulated. It starts empty and is
	// emitted when the next frame marker arrives; a frame still in
	// progress at EOF is dropped, matching the viewer's own habit
	// of only closing a frame by starting the next one.
	cur    *Frame
	camera int

	frame *Frame // completed frame for Frame()
}

// NewReader constructs a reader to parse the stats log format from r.
// fileName is used in error messages; it is purely diagnostic.
func NewReader(r io.Reader, fileName string) *Reader {
	reader := new(Reader)
	reader.Reset(r, fileName)
	return reader
}

// Reset resets the reader to begin reading from a new input.
func (r *Reader) Reset(ior io.Reader, fileName string) {
	r.s = bufio.NewScanner(ior)
	if fileName == "" {
		fileName = "<unknown>"
	}
	r.fileName = fileName
	r.line = 0
	r.err = nil
	r.cur = &Frame{fileName: fileName}
	r.camera = 0
	r.frame = nil
}

var (
	framePrefix  = []byte("Stats Viewer")
	cameraPrefix = []byte("Stats Camera")
	metricIndent = []byte("    ")
)

// newSyntaxError returns a *SyntaxError at the Reader's current position.
func (r *Reader) newSyntaxError(msg string) *SyntaxError {
	return &SyntaxError{r.fileName, r.line, msg}
}

// Scan advances the reader to the next complete frame and reports
// whether one was read. When Scan returns false, the caller should
// use the Err method to distinguish EOF from a malformed line or an
// I/O error. Malformed metric values are fatal for the source; the
// reader does not skip and continue, since doing so would silently
// skew every statistic computed downstream.
func (r *Reader) Scan() bool {
	if r.err != nil {
		return false
	}

	for r.s.Scan() {
		r.line++
		line := r.s.Bytes()
		switch {
		case bytes.HasPrefix(line, framePrefix):
			key, value, err := r.parseFrameStart(line)
			if err != nil {
				r.err = err
				return false
			}
			var done *Frame
			if len(r.cur.Metrics) > 0 {
				r.camera = 0
				done = r.cur
			}
			r.cur = &Frame{fileName: r.fileName, line: r.line}
			r.cur.Set(key, value)
			if done != nil {
				r.frame = done
				return true
			}

		case bytes.HasPrefix(line, cameraPrefix):
			// The marker line itself carries no metric.
			r.camera++

		case bytes.HasPrefix(line, metricIndent):
			key, value, err := r.parseMetricLine(line)
			if err != nil {
				r.err = err
				return false
			}
			if r.camera > 0 {
				key = fmt.Sprintf("%s Camera %d", key, r.camera)
			}
			r.cur.Set(key, value)

		default:
			// Ignore the line. The viewer interleaves sections we
			// don't model; skipping them keeps old builds readable.
		}
	}

	if err := r.s.Err(); err != nil {
		r.err = fmt.Errorf("%s:%d: %w", r.fileName, r.line, err)
	}
	return false
}

// Frame returns the frame that was just read by Scan.
func (r *Reader) Frame() *Frame {
	return r.frame
}

// Err returns the error that stopped Scan: a *SyntaxError for a
// malformed line, or the underlying I/O error. It returns nil if Scan
// stopped at EOF.
func (r *Reader) Err() error {
	return r.err
}

// parseFrameStart parses a frame marker line. The line's last two
// whitespace-separated fields are a key/value pair; the marker itself
// may span a varying number of fields between builds, so only the
// tail is significant.
func (r *Reader) parseFrameStart(line []byte) (key string, value Value, err error) {
	fields := bytes.Fields(line)
	if len(fields) < 4 {
		return "", Value{}, r.newSyntaxError("frame marker missing key/value pair")
	}
	key = string(fields[len(fields)-2])
	value, err = r.parseValue(fields[len(fields)-1])
	return key, value, err
}

// parseMetricLine parses an indented metric line. The value is the
// final whitespace-delimited token; everything before it is the key,
// which may itself contain spaces.
func (r *Reader) parseMetricLine(line []byte) (key string, value Value, err error) {
	trimmed := bytes.TrimSpace(line)
	i := lastFieldStart(trimmed)
	if i <= 0 {
		return "", Value{}, r.newSyntaxError("metric line missing value")
	}
	key = string(bytes.TrimRight(trimmed[:i], " \t"))
	value, err = r.parseValue(trimmed[i:])
	return key, value, err
}

// lastFieldStart returns the index of the first byte of the last
// whitespace-delimited field of x, or -1 if x has no whitespace.
func lastFieldStart(x []byte) int {
	for i := len(x) - 1; i >= 0; i-- {
		if x[i] == ' ' || x[i] == '\t' {
			return i + 1
		}
	}
	return -1
}

// parseValue converts a metric value token into a Value: an integer
// if it parses as one, else a float. Anything else is a syntax error.
func (r *Reader) parseValue(tok []byte) (Value, error) {
	// Try parsing as an integer. Most metric values are small
	// integer counts, so this is the hot path.
	neg := false
	digits := tok
	if len(digits) > 0 && (digits[0] == '-' || digits[0] == '+') {
		neg = digits[0] == '-'
		digits = digits[1:]
	}
	if len(digits) > 0 {
		var val int64
		for i := 0; ; i++ {
			if i == len(digits) {
				if neg {
					val = -val
				}
				return Value{Value: float64(val), Int: true}, nil
			}
			digit := digits[i] - '0'
			if digit >= 10 {
				break
			}
			if val > (1<<63-1-10)/10 {
				break // avoid int64 overflow
			}
			val = val*10 + int64(digit)
		}
	}

	// The fast path failed. Parse it as a float.
	f, err := strconv.ParseFloat(string(tok), 64)
	if err != nil {
		return Value{}, r.newSyntaxError(fmt.Sprintf("parsing metric value %q: not a number", tok))
	}
	return Value{Value: f}, nil
}
