// Copyright 2025 The osgstat Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package texttab does layout of text-based tables with
// markdown-style rules.
package texttab

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"
)

// Table does layout of text-based tables.
//
// Many of its methods return the Table so callers can easily chain
// them to build up many cells at once. Cells are laid out on a fixed
// column grid; every column is as wide as its widest cell.
type Table struct {
	cells []textCell
	cols  int

	headerRows int

	curRow, curCol int
}

type textCell struct {
	row, col  int
	value     string
	alignment align
}

type CellOption func(c *textCell)

var (
	Left  CellOption = func(c *textCell) { c.alignment = alignLeft }
	Right CellOption = func(c *textCell) { c.alignment = alignRight }
)

type align int

const (
	alignLeft align = iota
	alignRight
)

func (a align) pad(s string, w int) string {
	if a == alignRight {
		return fmt.Sprintf("%*s", w, s)
	}
	return fmt.Sprintf("%-*s", w, s)
}

// Row starts a new row in table t.
func (t *Table) Row() *Table {
	if len(t.cells) > 0 {
		t.curRow++
	}
	t.curCol = 0
	return t
}

// HeaderRow starts a new row and marks everything up to and including
// it as table header; a rule is drawn under the last header row.
func (t *Table) HeaderRow() *Table {
	t.Row()
	t.headerRows = t.curRow + 1
	return t
}

// Cell adds a cell at the current row and column.
func (t *Table) Cell(value string, opts ...CellOption) *Table {
	t.cells = append(t.cells, textCell{t.curRow, t.curCol, value, alignLeft})
	for _, o := range opts {
		o(&t.cells[len(t.cells)-1])
	}
	t.curCol++
	if t.curCol > t.cols {
		t.cols = t.curCol
	}
	return t
}

// Format lays out table t and writes it to w, one markdown-ruled line
// per row.
func (t *Table) Format(w io.Writer) error {
	if len(t.cells) == 0 {
		return nil
	}

	// Compute column widths.
	ws := make([]int, t.cols)
	rows := 0
	for _, cell := range t.cells {
		if n := utf8.RuneCountInString(cell.value); n > ws[cell.col] {
			ws[cell.col] = n
		}
		if cell.row+1 > rows {
			rows = cell.row + 1
		}
	}

	// Lay the cells out on the row/column grid. The cell list is
	// already in order: Row and Cell only ever advance.
	grid := make([][]string, rows)
	for i := range grid {
		grid[i] = make([]string, t.cols)
		for col := range grid[i] {
			grid[i][col] = strings.Repeat(" ", ws[col])
		}
	}
	for _, cell := range t.cells {
		grid[cell.row][cell.col] = cell.alignment.pad(cell.value, ws[cell.col])
	}

	for i, row := range grid {
		if _, err := fmt.Fprintf(w, "| %s |\n", strings.Join(row, " | ")); err != nil {
			return err
		}
		if i+1 == t.headerRows {
			if err := t.formatRule(w, ws); err != nil {
				return err
			}
		}
	}
	return nil
}

func (t *Table) formatRule(w io.Writer, ws []int) error {
	parts := make([]string, len(ws))
	for i, width := range ws {
		parts[i] = strings.Repeat("-", width+2)
	}
	_, err := fmt.Fprintf(w, "|%s|\n", strings.Join(parts, "|"))
	return err
}
