// Copyright 2025 The osgstat Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"io"
	"strconv"

	"github.com/google/safehtml/template"
)

var htmlTemplate = template.Must(template.New("stats").ParseFromTrustedTemplate(template.MakeTrustedTemplate(`<table class='osgstat'>
<thead>
<tr><th>source<th>key<th>number<th>min<th>max<th>mean<th>median<th>stdev<th>q95
</thead>
<tbody>
{{range . -}}
<tr><td>{{.Source}}<td>{{.Key}}<td>{{.N}}<td>{{.Min}}<td>{{.Max}}<td>{{.Mean}}<td>{{.Median}}<td>{{.Stdev}}<td>{{.Q95}}
{{end -}}
</tbody>
</table>
`)))

// An htmlRow is a statsRow with every statistic pre-formatted, so the
// template stays dumb.
type htmlRow struct {
	Source, Key                        string
	N                                  string
	Min, Max, Mean, Median, Stdev, Q95 string
}

// formatHTML writes the rows as an HTML table.
func formatHTML(w io.Writer, rows []statsRow) error {
	views := make([]htmlRow, len(rows))
	for i, row := range rows {
		views[i] = htmlRow{
			Source: row.Source,
			Key:    row.Key,
			N:      strconv.Itoa(row.Summary.N),
			Min:    formatNum(row.Summary.Min),
			Max:    formatNum(row.Summary.Max),
			Mean:   formatNum(row.Summary.Mean),
			Median: formatNum(row.Summary.Median),
			Stdev:  formatNum(row.Summary.Stdev),
			Q95:    formatNum(row.Summary.Q95),
		}
	}
	return htmlTemplate.Execute(w, views)
}
