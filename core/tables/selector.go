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

package tables

import (
	"github.com/google/tabulae/core/columns"
)

// Selector addresses a subset of a table. The set of selectors is closed:
// ByName, ByNames, ByMask and ByPosition.
type Selector interface {
	isSelector()
}

// ByName selects a single column.
type ByName string

// ByNames selects several columns in the given order.
type ByNames []string

// ByMask keeps the rows where the one-column boolean Mask is true.
type ByMask struct {
	Mask *DataTable
}

// ByPosition selects rows and columns simultaneously.
type ByPosition struct {
	Rows RowSelector
	Cols ColSelector
}

func (ByName) isSelector()     {}
func (ByNames) isSelector()    {}
func (ByMask) isSelector()     {}
func (ByPosition) isSelector() {}

// RowSelector is one of RowInt, RowList, RowSlice or RowMask.
type RowSelector interface {
	isRowSelector()
}

// RowInt selects a single row; negative positions count from the end.
type RowInt int

// RowList selects rows by position, in the given order. Positions may repeat.
type RowList []int

// RowSlice selects a range of rows; bounds must be nil or int.
type RowSlice Slice

// RowMask keeps the rows where the one-column boolean Mask is true.
type RowMask struct {
	Mask *DataTable
}

func (RowInt) isRowSelector()   {}
func (RowList) isRowSelector()  {}
func (RowSlice) isRowSelector() {}
func (RowMask) isRowSelector()  {}

// ColSelector is one of ColInt, ColName, ColList or ColSlice.
type ColSelector interface {
	isColSelector()
}

// ColInt selects a column by position; negative positions count from the end.
type ColInt int

// ColName selects a column by name.
type ColName string

// ColList selects columns by position (int) or name (string), each item
// resolved independently.
type ColList []any

// ColSlice selects a range of columns. A string Start resolves to that
// column's position; a string Stop is inclusive. Integer bounds follow
// ordinary exclusive slice rules. The zero value selects every column.
type ColSlice Slice

func (ColInt) isColSelector()   {}
func (ColName) isColSelector()  {}
func (ColList) isColSelector()  {}
func (ColSlice) isColSelector() {}

// Slice is a start:stop:step range. Start and Stop are nil (open), int
// (negative counts from the end) or, for columns only, a column name.
// A zero Step means 1. The zero Slice covers everything.
type Slice struct {
	Start any
	Stop  any
	Step  int
}

// All is the slice covering every row or column.
func All() Slice {
	return Slice{}
}

// Select returns the part of the table addressed by sel. Every selector
// component is validated before any data is copied; the receiver is never
// modified.
func (dt *DataTable) Select(sel Selector) (*DataTable, error) {
	switch s := sel.(type) {
	case ByName:
		if !dt.HasColumn(string(s)) {
			return nil, keyError("select", string(s))
		}
		return dt.build(nil, []string{string(s)}), nil

	case ByNames:
		for _, name := range s {
			if !dt.HasColumn(name) {
				return nil, keyError("select", name)
			}
		}
		return dt.build(nil, s), nil

	case ByMask:
		rows, err := dt.maskRows(s.Mask)
		if err != nil {
			return nil, err
		}
		return dt.build(rows, dt.names), nil

	case ByPosition:
		rows, err := dt.resolveRows(s.Rows)
		if err != nil {
			return nil, err
		}
		names, err := dt.resolveCols(s.Cols)
		if err != nil {
			return nil, err
		}
		for _, name := range names {
			if !dt.HasColumn(name) {
				return nil, keyError("select", name)
			}
		}
		return dt.build(rows, names), nil

	case nil:
		return nil, typeError("select", "selector is nil")
	}
	return nil, typeError("select", "unsupported selector %T", sel)
}

// Loc selects rows and columns simultaneously.
func (dt *DataTable) Loc(rows RowSelector, cols ColSelector) (*DataTable, error) {
	return dt.Select(ByPosition{Rows: rows, Cols: cols})
}

// build copies the given rows (all rows when rows is nil) of the named
// columns into a new table. Repeated names keep their first position.
func (dt *DataTable) build(rows []int, names []string) *DataTable {
	if rows == nil {
		rows = make([]int, dt.Len())
		for i := range rows {
			rows[i] = i
		}
	}
	var outNames []string
	var outCols []columns.Column
	seen := make(map[string]bool, len(names))
	for _, name := range names {
		if seen[name] {
			continue
		}
		seen[name] = true
		outNames = append(outNames, name)
		outCols = append(outCols, dt.columns[name].Take(rows))
	}
	return fromColumns(outNames, outCols)
}

// maskRows validates a boolean mask table and returns the positions where
// it is true.
func (dt *DataTable) maskRows(mask *DataTable) ([]int, error) {
	if mask == nil {
		return nil, typeError("select", "mask table is nil")
	}
	if len(mask.names) != 1 {
		return nil, valueError("select", "can only pass a one column table for selection, got %d columns", len(mask.names))
	}
	b, ok := mask.columns[mask.names[0]].(*columns.BoolColumn)
	if !ok {
		return nil, typeError("select", "mask table must be boolean, got %v", mask.columns[mask.names[0]].Kind())
	}
	if len(dt.names) > 0 && b.Length() != dt.Len() {
		return nil, valueError("select", "mask has length %d, want %d", b.Length(), dt.Len())
	}
	return b.TrueIndices(), nil
}

func (dt *DataTable) resolveRows(rs RowSelector) ([]int, error) {
	n := dt.Len()
	switch r := rs.(type) {
	case RowInt:
		pos, err := normalizeRow(int(r), n)
		if err != nil {
			return nil, err
		}
		return []int{pos}, nil
	case RowList:
		rows := make([]int, len(r))
		for i, p := range r {
			pos, err := normalizeRow(p, n)
			if err != nil {
				return nil, err
			}
			rows[i] = pos
		}
		return rows, nil
	case RowSlice:
		start, err := rowBound(r.Start)
		if err != nil {
			return nil, err
		}
		stop, err := rowBound(r.Stop)
		if err != nil {
			return nil, err
		}
		return sliceIndices(start, stop, r.Step, n), nil
	case RowMask:
		return dt.maskRows(r.Mask)
	case nil:
		return nil, typeError("select", "row selection is nil")
	}
	return nil, typeError("select", "row selection must be an int, list, slice or table, got %T", rs)
}

func normalizeRow(pos, n int) (int, error) {
	if pos < -n || pos >= n {
		return 0, valueError("select", "row %d out of range for %d rows", pos, n)
	}
	if pos < 0 {
		pos += n
	}
	return pos, nil
}

func rowBound(b any) (*int, error) {
	switch v := b.(type) {
	case nil:
		return nil, nil
	case int:
		return &v, nil
	}
	return nil, typeError("select", "row slice bounds must be int or nil, got %T", b)
}

func (dt *DataTable) resolveCols(cs ColSelector) ([]string, error) {
	switch c := cs.(type) {
	case ColInt:
		name, err := dt.columnAt(int(c))
		if err != nil {
			return nil, err
		}
		return []string{name}, nil
	case ColName:
		return []string{string(c)}, nil
	case ColList:
		names := make([]string, len(c))
		for i, item := range c {
			switch v := item.(type) {
			case int:
				name, err := dt.columnAt(v)
				if err != nil {
					return nil, err
				}
				names[i] = name
			case string:
				names[i] = v
			default:
				return nil, typeError("select", "column list items must be int or string, got %T", item)
			}
		}
		return names, nil
	case ColSlice:
		start, err := dt.colBound(c.Start, false)
		if err != nil {
			return nil, err
		}
		stop, err := dt.colBound(c.Stop, true)
		if err != nil {
			return nil, err
		}
		positions := sliceIndices(start, stop, c.Step, len(dt.names))
		names := make([]string, len(positions))
		for i, p := range positions {
			names[i] = dt.names[p]
		}
		return names, nil
	case nil:
		return nil, typeError("select", "column selection is nil")
	}
	return nil, typeError("select", "column selection must be an int, string, list or slice, got %T", cs)
}

func (dt *DataTable) columnAt(pos int) (string, error) {
	n := len(dt.names)
	if pos < -n || pos >= n {
		return "", valueError("select", "column position %d out of range for %d columns", pos, n)
	}
	if pos < 0 {
		pos += n
	}
	return dt.names[pos], nil
}

// colBound resolves a column slice bound. A name resolves to its position,
// plus one when it is the stop bound.
func (dt *DataTable) colBound(b any, stop bool) (*int, error) {
	switch v := b.(type) {
	case nil:
		return nil, nil
	case int:
		return &v, nil
	case string:
		for i, name := range dt.names {
			if name == v {
				if stop {
					i++
				}
				return &i, nil
			}
		}
		return nil, keyError("select", v)
	}
	return nil, typeError("select", "column slice bounds must be int, string or nil, got %T", b)
}

// sliceIndices expands start:stop:step over a sequence of length n using
// the usual clamping rules for open, negative and out-of-range bounds.
func sliceIndices(start, stop *int, step, n int) []int {
	if step == 0 {
		step = 1
	}
	lower, upper := 0, n
	if step < 0 {
		lower, upper = -1, n-1
	}
	clamp := func(b *int, def int) int {
		if b == nil {
			return def
		}
		v := *b
		if v < 0 {
			v += n
			if v < lower {
				v = lower
			}
		} else if v > upper {
			v = upper
		}
		return v
	}
	var from, to int
	if step > 0 {
		from, to = clamp(start, lower), clamp(stop, upper)
	} else {
		from, to = clamp(start, upper), clamp(stop, lower)
	}

	var out []int
	if step > 0 {
		for i := from; i < to; i += step {
			out = append(out, i)
		}
	} else {
		for i := from; i > to; i += step {
			out = append(out, i)
		}
	}
	if out == nil {
		out = []int{}
	}
	return out
}
