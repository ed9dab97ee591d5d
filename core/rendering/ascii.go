/*
SPDX-License-Identifier: Apache-2.0

Copyright 2024 The Taxinomia Authors

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    https://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package rendering

import (
	"strconv"
	"strings"

	"github.com/google/tabulae/core/tables"
	"github.com/google/tabulae/core/views"
	"golang.org/x/text/width"
)

// ToASCII returns t as a bordered plain-text table, with the same row
// elision and value formatting as RenderHTML.
func ToASCII(t *tables.DataTable) string {
	return RenderASCII(views.NewTableViewModel(t, nil, views.Options{}))
}

// RenderASCII draws a view model with ASCII borders. Numeric cells are
// right aligned, everything else left aligned.
func RenderASCII(vm views.TableViewModel) string {
	grid := make([][]views.Cell, 0, len(vm.Rows)+1)
	header := []views.Cell{{}}
	for _, h := range vm.Headers {
		header = append(header, views.Cell{Text: h.Name})
	}
	grid = append(grid, header)
	for _, row := range vm.Rows {
		line := make([]views.Cell, 0, len(vm.Headers)+1)
		if row.Ellipsis {
			for range len(vm.Headers) + 1 {
				line = append(line, views.Cell{Text: "..."})
			}
		} else {
			line = append(line, views.Cell{Text: strconv.Itoa(row.Index), Numeric: true})
			line = append(line, row.Cells...)
		}
		grid = append(grid, line)
	}

	// Calculate column widths
	widths := make([]int, len(header))
	for _, line := range grid {
		for i, c := range line {
			widths[i] = max(widths[i], displayWidth(c.Text))
		}
	}

	var sb strings.Builder
	border := func() {
		for _, w := range widths {
			sb.WriteString("+")
			sb.WriteString(strings.Repeat("-", w+2))
		}
		sb.WriteString("+\n")
	}

	border()
	for n, line := range grid {
		for i, c := range line {
			pad := strings.Repeat(" ", widths[i]-displayWidth(c.Text))
			sb.WriteString("| ")
			if c.Numeric {
				sb.WriteString(pad)
				sb.WriteString(c.Text)
			} else {
				sb.WriteString(c.Text)
				sb.WriteString(pad)
			}
			sb.WriteString(" ")
		}
		sb.WriteString("|\n")
		if n == 0 {
			border()
		}
	}
	border()
	return sb.String()
}

// displayWidth counts terminal columns: wide and fullwidth runes take two.
func displayWidth(s string) int {
	n := 0
	for _, r := range s {
		switch width.LookupRune(r).Kind() {
		case width.EastAsianWide, width.EastAsianFullwidth:
			n += 2
		default:
			n++
		}
	}
	return n
}
