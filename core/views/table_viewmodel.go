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

package views

import (
	"fmt"
	"math"

	"github.com/google/safehtml"
	"github.com/google/tabulae/core/columns"
	"github.com/google/tabulae/core/query"
	"github.com/google/tabulae/core/tables"
)

// Default numbers of leading and trailing rows shown for a long table.
const (
	DefaultHead = 10
	DefaultTail = 10
)

// TableViewModel contains the data from the table formatted for template consumption
type TableViewModel struct {
	Title   string
	Headers []HeaderInfo
	Rows    []RowInfo
	Linked  bool // Whether headers carry sort links

	// Pagination info
	TotalRows     int          // Number of rows after the query, before the limit
	DisplayedRows int          // Number of rows actually displayed
	HasMoreRows   bool         // True if the limit cut rows off
	CurrentLimit  int          // Current row limit
	MoreRowsURL   safehtml.URL // URL doubling the limit
	AllRowsURL    safehtml.URL // URL removing the limit
}

// HeaderInfo describes one column header.
type HeaderInfo struct {
	Name       string
	Kind       string
	Sorted     bool
	Descending bool
	SortURL    safehtml.URL // URL cycling the sort on this column
	HideURL    safehtml.URL // URL toggling the column's visibility
}

// RowInfo is one displayed row, or the gap between head and tail rows.
type RowInfo struct {
	Index    int
	Cells    []Cell
	Ellipsis bool
}

// Cell is a formatted value. Numeric values are right aligned.
type Cell struct {
	Text    string
	Numeric bool
}

// Options controls how many rows are displayed.
type Options struct {
	Title string
	// Head and Tail are the rows kept around the gap when a table has more
	// than Head+Tail rows. Zero values use DefaultHead and DefaultTail.
	Head, Tail int
}

func (o Options) withDefaults() Options {
	if o.Head <= 0 {
		o.Head = DefaultHead
	}
	if o.Tail <= 0 {
		o.Tail = DefaultTail
	}
	return o
}

// NewTableViewModel formats t for display. When q is not nil, t is assumed
// to be the result of q.Apply: rows beyond q.Limit are cut and headers link
// to the neighbouring query states.
func NewTableViewModel(t *tables.DataTable, q *query.Query, opts Options) TableViewModel {
	opts = opts.withDefaults()
	vm := TableViewModel{
		Title:     opts.Title,
		TotalRows: t.Len(),
		Linked:    q != nil,
	}

	shown := t
	if q != nil {
		vm.CurrentLimit = q.Limit
		if q.Limit > 0 && t.Len() > q.Limit {
			shown = t.Head(q.Limit)
			vm.HasMoreRows = true
			vm.MoreRowsURL = q.WithLimit(q.Limit * 2)
			vm.AllRowsURL = q.WithLimit(0)
		}
	}

	for _, name := range shown.Columns() {
		h := HeaderInfo{Name: name, Kind: shown.GetColumn(name).Kind().String()}
		if q != nil {
			h.Sorted, h.Descending = q.SortDirection(name)
			h.SortURL = q.WithSortToggled(name)
			h.HideURL = q.WithColumnToggled(name)
		}
		vm.Headers = append(vm.Headers, h)
	}

	n := shown.Len()
	if n <= opts.Head+opts.Tail {
		for i := 0; i < n; i++ {
			vm.Rows = append(vm.Rows, buildRow(shown, i))
		}
	} else {
		for i := 0; i < opts.Head; i++ {
			vm.Rows = append(vm.Rows, buildRow(shown, i))
		}
		vm.Rows = append(vm.Rows, RowInfo{Index: -1, Ellipsis: true})
		for i := n - opts.Tail; i < n; i++ {
			vm.Rows = append(vm.Rows, buildRow(shown, i))
		}
	}
	vm.DisplayedRows = n
	return vm
}

func buildRow(t *tables.DataTable, i int) RowInfo {
	row := RowInfo{Index: i}
	for _, name := range t.Columns() {
		row.Cells = append(row.Cells, FormatCell(t.GetColumn(name), i))
	}
	return row
}

// FormatCell formats the value at row i: floats with three decimals, null
// text as None and booleans as True/False.
func FormatCell(col columns.Column, i int) Cell {
	switch c := col.(type) {
	case *columns.Float64Column:
		v := c.Value(i).(float64)
		if math.IsNaN(v) {
			return Cell{Text: "nan", Numeric: true}
		}
		return Cell{Text: fmt.Sprintf("%.3f", v), Numeric: true}
	case *columns.Int64Column:
		return Cell{Text: c.GetString(i), Numeric: true}
	}
	return Cell{Text: col.GetString(i)}
}

// LandingViewModel lists the tables a server holds.
type LandingViewModel struct {
	Title  string
	Tables []TableInfo
}

// TableInfo is one entry of the landing page.
type TableInfo struct {
	Name    string
	Rows    int
	Columns int
	URL     safehtml.URL
}
