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
	"fmt"
	"sort"

	"github.com/google/tabulae/core/columns"
)

// DataTable is an ordered set of uniquely named, equal-length columns.
// Operations return new tables; SetColumn is the only method that changes
// the receiver.
type DataTable struct {
	names   []string
	columns map[string]columns.Column
}

// Field is one named input sequence for New.
type Field struct {
	Name   string
	Values any
}

// New builds a table from fields, in order. Each Values must be a
// one-dimensional slice of bool, int, int32, int64, float32, float64,
// string, *string (nil is null) or []rune, or a columns.Column.
func New(fields ...Field) (*DataTable, error) {
	t := &DataTable{columns: make(map[string]columns.Column, len(fields))}
	for i, f := range fields {
		if f.Name == "" {
			return nil, typeError("new", "column %d has an empty name", i)
		}
		if _, dup := t.columns[f.Name]; dup {
			return nil, valueError("new", "duplicate column name %q", f.Name)
		}
		col, ok := columns.FromSlice(f.Values)
		if !ok {
			return nil, typeError("new", "column %q: values must be a 1-D sequence, got %T", f.Name, f.Values)
		}
		if i > 0 && col.Length() != t.Len() {
			return nil, valueError("new", "column %q has length %d, want %d", f.Name, col.Length(), t.Len())
		}
		t.names = append(t.names, f.Name)
		t.columns[f.Name] = col
	}
	return t, nil
}

// FromMapping builds a table from a name to values mapping. It accepts
// map[string]any, map[any]any whose keys are all strings, or []Field.
// Map keys are taken in ascending order.
func FromMapping(data any) (*DataTable, error) {
	switch m := data.(type) {
	case []Field:
		return New(m...)
	case map[string]any:
		names := make([]string, 0, len(m))
		for name := range m {
			names = append(names, name)
		}
		sort.Strings(names)
		fields := make([]Field, len(names))
		for i, name := range names {
			fields[i] = Field{Name: name, Values: m[name]}
		}
		return New(fields...)
	case map[any]any:
		converted := make(map[string]any, len(m))
		for k, v := range m {
			name, ok := k.(string)
			if !ok {
				return nil, typeError("new", "column names must be strings, got %T", k)
			}
			converted[name] = v
		}
		return FromMapping(converted)
	}
	return nil, typeError("new", "data must be a mapping of names to 1-D sequences, got %T", data)
}

// FromColumns builds a table from parallel name and column slices.
func FromColumns(names []string, cols []columns.Column) (*DataTable, error) {
	if len(names) != len(cols) {
		return nil, valueError("new", "got %d names for %d columns", len(names), len(cols))
	}
	fields := make([]Field, len(names))
	for i, name := range names {
		fields[i] = Field{Name: name, Values: cols[i]}
	}
	return New(fields...)
}

// MustNew is like New but panics on error. It is meant for literals in
// tests and examples.
func MustNew(fields ...Field) *DataTable {
	t, err := New(fields...)
	if err != nil {
		panic(err)
	}
	return t
}

// fromColumns assembles a table from already validated parts.
func fromColumns(names []string, cols []columns.Column) *DataTable {
	t := &DataTable{
		names:   append([]string(nil), names...),
		columns: make(map[string]columns.Column, len(names)),
	}
	for i, name := range names {
		t.columns[name] = cols[i]
	}
	return t
}

// Len returns the number of rows. A table without columns has zero rows.
func (dt *DataTable) Len() int {
	if len(dt.names) == 0 {
		return 0
	}
	return dt.columns[dt.names[0]].Length()
}

// Shape returns the number of rows and columns.
func (dt *DataTable) Shape() (rows, cols int) {
	return dt.Len(), len(dt.names)
}

// Columns returns the column names in order.
func (dt *DataTable) Columns() []string {
	return append([]string(nil), dt.names...)
}

// GetColumnNames is an alias of Columns.
func (dt *DataTable) GetColumnNames() []string {
	return dt.Columns()
}

// GetColumn returns the named column, or nil.
func (dt *DataTable) GetColumn(name string) columns.Column {
	return dt.columns[name]
}

// HasColumn reports whether the table has a column called name.
func (dt *DataTable) HasColumn(name string) bool {
	_, ok := dt.columns[name]
	return ok
}

// DTypes returns a two-column table listing each column and its kind.
func (dt *DataTable) DTypes() *DataTable {
	kinds := make([]string, len(dt.names))
	for i, name := range dt.names {
		kinds[i] = dt.columns[name].Kind().String()
	}
	return MustNew(
		Field{Name: "Column Name", Values: dt.Columns()},
		Field{Name: "Data Type", Values: kinds},
	)
}

// Values returns the data row by row, as returned by columns.Column.Value.
func (dt *DataTable) Values() [][]any {
	rows := make([][]any, dt.Len())
	for r := range rows {
		row := make([]any, len(dt.names))
		for c, name := range dt.names {
			row[c] = dt.columns[name].Value(r)
		}
		rows[r] = row
	}
	return rows
}

// Equal reports whether both tables have the same column names, in the same
// order, holding equal columns.
func (dt *DataTable) Equal(other *DataTable) bool {
	if other == nil || len(dt.names) != len(other.names) {
		return false
	}
	for i, name := range dt.names {
		if other.names[i] != name || !columns.Equal(dt.columns[name], other.columns[name]) {
			return false
		}
	}
	return true
}

// Head returns the first n rows.
func (dt *DataTable) Head(n int) *DataTable {
	if n < 0 {
		n = 0
	}
	return dt.takeAll(Slice{Stop: n})
}

// Tail returns the last n rows.
func (dt *DataTable) Tail(n int) *DataTable {
	if n < 0 {
		n = 0
	}
	start := dt.Len() - n
	if start < 0 {
		start = 0
	}
	return dt.takeAll(Slice{Start: start})
}

func (dt *DataTable) takeAll(rows Slice) *DataTable {
	out, err := dt.Select(ByPosition{Rows: RowSlice(rows), Cols: ColSlice{}})
	if err != nil {
		// integer slices over existing columns cannot fail
		panic(err)
	}
	return out
}

// Rename returns a table with columns renamed according to mapping. The
// result shares column storage with the receiver.
func (dt *DataTable) Rename(mapping map[string]string) (*DataTable, error) {
	for old := range mapping {
		if !dt.HasColumn(old) {
			return nil, keyError("rename", old)
		}
	}
	names := make([]string, len(dt.names))
	cols := make([]columns.Column, len(dt.names))
	seen := make(map[string]bool, len(dt.names))
	for i, name := range dt.names {
		newName, ok := mapping[name]
		if !ok {
			newName = name
		}
		if newName == "" {
			return nil, typeError("rename", "column %q renamed to an empty name", name)
		}
		if seen[newName] {
			return nil, valueError("rename", "column names must be unique, %q repeats", newName)
		}
		seen[newName] = true
		names[i] = newName
		cols[i] = dt.columns[name]
	}
	return fromColumns(names, cols), nil
}

// WithColumnNames returns a table whose columns are renamed positionally.
func (dt *DataTable) WithColumnNames(names []string) (*DataTable, error) {
	if len(names) != len(dt.names) {
		return nil, valueError("set columns", "new column count must be %d, got %d", len(dt.names), len(names))
	}
	seen := make(map[string]bool, len(names))
	for _, n := range names {
		if n == "" {
			return nil, typeError("set columns", "column names must be non-empty strings")
		}
		if seen[n] {
			return nil, valueError("set columns", "column names must be unique, %q repeats", n)
		}
		seen[n] = true
	}
	cols := make([]columns.Column, len(names))
	for i, name := range dt.names {
		cols[i] = dt.columns[name]
	}
	return fromColumns(names, cols), nil
}

// Drop returns a table without the named columns.
func (dt *DataTable) Drop(names ...string) (*DataTable, error) {
	drop := make(map[string]bool, len(names))
	for _, n := range names {
		if !dt.HasColumn(n) {
			return nil, keyError("drop", n)
		}
		drop[n] = true
	}
	var keep []string
	var cols []columns.Column
	for _, name := range dt.names {
		if !drop[name] {
			keep = append(keep, name)
			cols = append(cols, dt.columns[name])
		}
	}
	return fromColumns(keep, cols), nil
}

// SetColumn inserts or replaces the column called name. value may be a
// one-dimensional slice, a columns.Column, a one-column DataTable, or a
// scalar (bool, int, int64, float64, string) repeated to the table length.
// A replaced column keeps its position; a new one is appended. No other
// column is affected.
func (dt *DataTable) SetColumn(name string, value any) error {
	if name == "" {
		return typeError("set column", "column name must be a non-empty string")
	}
	col, err := dt.assignable(value)
	if err != nil {
		return err
	}
	if _, exists := dt.columns[name]; !exists {
		dt.names = append(dt.names, name)
	}
	dt.columns[name] = col
	return nil
}

// SetItem is the bracket-assignment entry point: a string key behaves like
// SetColumn, a list of keys is rejected as unsupported.
func (dt *DataTable) SetItem(key any, value any) error {
	switch k := key.(type) {
	case string:
		return dt.SetColumn(k, value)
	case []string, []any:
		return dt.SetColumns(nil, value)
	}
	return typeError("set column", "column key must be a string, got %T", key)
}

// SetColumns would assign several columns at once; it is not supported.
func (dt *DataTable) SetColumns(names []string, value any) error {
	return &Error{Kind: ErrNotImplemented, Op: "set column", Msg: "only able to set a single column"}
}

func (dt *DataTable) assignable(value any) (columns.Column, error) {
	n := dt.Len()
	if len(dt.names) == 0 {
		n = -1
	}
	var col columns.Column
	switch v := value.(type) {
	case *DataTable:
		if len(v.names) != 1 {
			return nil, valueError("set column", "setting table must have one column, got %d", len(v.names))
		}
		col = v.columns[v.names[0]]
	case bool, int, int64, float64, string:
		if n < 0 {
			n = 1
		}
		col, _ = columns.Repeat(v, n)
		return col, nil
	default:
		c, ok := columns.FromSlice(value)
		if !ok {
			if isNested(value) {
				return nil, valueError("set column", "setting array must be 1-D")
			}
			return nil, typeError("set column", "setting value must be a 1-D slice, a one-column table or a scalar, got %T", value)
		}
		col = c
	}
	if n >= 0 && col.Length() != n {
		return nil, valueError("set column", "setting value has length %d, want %d", col.Length(), n)
	}
	return col, nil
}

// isNested reports whether v is a slice of slices of a supported element type.
func isNested(v any) bool {
	switch v.(type) {
	case [][]bool, [][]int, [][]int64, [][]float64, [][]string:
		return true
	}
	return false
}

// String returns a short description such as "DataTable(3x2)".
func (dt *DataTable) String() string {
	rows, cols := dt.Shape()
	return fmt.Sprintf("DataTable(%dx%d)", rows, cols)
}
