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
	"math"
	"net/url"
	"strings"
	"testing"

	"github.com/google/tabulae/core/columns"
	"github.com/google/tabulae/core/query"
	"github.com/google/tabulae/core/tables"
)

func numbers(n int) *tables.DataTable {
	vals := make([]int, n)
	for i := range vals {
		vals[i] = i
	}
	return tables.MustNew(tables.Field{Name: "n", Values: vals})
}

func TestFormatCell(t *testing.T) {
	tests := []struct {
		col  columns.Column
		want Cell
	}{
		{columns.NewFloat64Column([]float64{2.0 / 3}), Cell{Text: "0.667", Numeric: true}},
		{columns.NewFloat64Column([]float64{math.NaN()}), Cell{Text: "nan", Numeric: true}},
		{columns.NewInt64Column([]int64{-4}), Cell{Text: "-4", Numeric: true}},
		{columns.NewBoolColumn([]bool{true}), Cell{Text: "True"}},
		{columns.NewNullableStringColumn([]*string{nil}), Cell{Text: "None"}},
	}
	for _, tt := range tests {
		if got := FormatCell(tt.col, 0); got != tt.want {
			t.Errorf("FormatCell(%v) = %+v, want %+v", tt.col.Kind(), got, tt.want)
		}
	}
}

func TestElision(t *testing.T) {
	tests := []struct {
		rows      int
		opts      Options
		wantRows  int
		wantGapAt int
	}{
		{20, Options{}, 20, -1},
		{21, Options{}, 21, 10},
		{10, Options{Head: 2, Tail: 3}, 6, 2},
		{5, Options{Head: 2, Tail: 3}, 5, -1},
	}
	for _, tt := range tests {
		vm := NewTableViewModel(numbers(tt.rows), nil, tt.opts)
		if len(vm.Rows) != tt.wantRows {
			t.Errorf("%d rows %+v: got %d display rows, want %d", tt.rows, tt.opts, len(vm.Rows), tt.wantRows)
			continue
		}
		gap := -1
		for i, r := range vm.Rows {
			if r.Ellipsis {
				gap = i
			}
		}
		if gap != tt.wantGapAt {
			t.Errorf("%d rows %+v: gap at %d, want %d", tt.rows, tt.opts, gap, tt.wantGapAt)
		}
		if last := vm.Rows[len(vm.Rows)-1]; last.Index != tt.rows-1 {
			t.Errorf("%d rows: last index %d", tt.rows, last.Index)
		}
		if vm.Linked || vm.HasMoreRows {
			t.Errorf("unexpected links without a query")
		}
	}
}

func TestQueryLinks(t *testing.T) {
	u, _ := url.Parse("/table?sort=-n&limit=5")
	q := query.NewQuery(u)
	vm := NewTableViewModel(numbers(12), q, Options{Title: "numbers"})

	if vm.TotalRows != 12 || vm.DisplayedRows != 5 || !vm.HasMoreRows || vm.CurrentLimit != 5 {
		t.Errorf("pagination = total %d displayed %d more %v limit %d", vm.TotalRows, vm.DisplayedRows, vm.HasMoreRows, vm.CurrentLimit)
	}
	if !strings.Contains(vm.MoreRowsURL.String(), "limit=10") || !strings.Contains(vm.AllRowsURL.String(), "limit=0") {
		t.Errorf("more = %s, all = %s", vm.MoreRowsURL, vm.AllRowsURL)
	}
	if len(vm.Headers) != 1 {
		t.Fatalf("headers = %+v", vm.Headers)
	}
	h := vm.Headers[0]
	if !h.Sorted || !h.Descending || h.Kind != "int" {
		t.Errorf("header = %+v", h)
	}
	if strings.Contains(h.SortURL.String(), "sort=") {
		t.Errorf("sort link should clear the sort, got %s", h.SortURL)
	}
}
