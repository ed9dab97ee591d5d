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
	"errors"
	"math"
	"testing"

	"github.com/google/tabulae/core/columns"
)

var nan = math.NaN()

func sampleTable() *DataTable {
	return MustNew(
		Field{Name: "a", Values: []int{1, 2, 3}},
		Field{Name: "b", Values: []float64{1.5, 2.5, 3.5}},
		Field{Name: "c", Values: []string{"x", "y", "z"}},
	)
}

func assertTable(t *testing.T, got, want *DataTable) {
	t.Helper()
	if !got.Equal(want) {
		t.Errorf("got %v %v %v, want %v %v %v", got, got.Columns(), got.Values(), want, want.Columns(), want.Values())
	}
}

func assertErr(t *testing.T, err, kind error) {
	t.Helper()
	if !errors.Is(err, kind) {
		t.Errorf("got error %v, want %v", err, kind)
	}
}

func mustGet(t *testing.T, dt *DataTable, items ...any) *DataTable {
	t.Helper()
	out, err := dt.Get(items...)
	if err != nil {
		t.Fatalf("Get(%v): %v", items, err)
	}
	return out
}

func str(s string) *string { return &s }

func TestNew(t *testing.T) {
	dt, err := New(
		Field{Name: "a", Values: []int{1, 2}},
		Field{Name: "b", Values: []float64{1.5, 2}},
		Field{Name: "c", Values: []*string{str("x"), nil}},
	)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	rows, cols := dt.Shape()
	if rows != 2 || cols != 3 {
		t.Errorf("Shape() = (%d, %d), want (2, 3)", rows, cols)
	}
	if got := dt.GetColumn("c").IsNA(1); !got {
		t.Errorf("nil *string should be stored as null")
	}
	if got := dt.GetColumn("a").Kind(); got != columns.Int {
		t.Errorf("kind of a = %v, want int", got)
	}
}

func TestNewErrors(t *testing.T) {
	tests := []struct {
		name   string
		fields []Field
		want   error
	}{
		{"empty name", []Field{{Name: "", Values: []int{1}}}, ErrType},
		{"duplicate name", []Field{{Name: "a", Values: []int{1}}, {Name: "a", Values: []int{2}}}, ErrValue},
		{"nested values", []Field{{Name: "a", Values: [][]float64{{1}, {2}}}}, ErrType},
		{"scalar values", []Field{{Name: "a", Values: 3}}, ErrType},
		{"unequal lengths", []Field{{Name: "a", Values: []int{1, 2}}, {Name: "b", Values: []int{1}}}, ErrValue},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.fields...)
			assertErr(t, err, tt.want)
		})
	}
}

func TestFromMapping(t *testing.T) {
	dt, err := FromMapping(map[string]any{
		"c": []string{"x"},
		"a": []int{1},
		"b": []bool{true},
	})
	if err != nil {
		t.Fatalf("FromMapping: %v", err)
	}
	if got := dt.Columns(); len(got) != 3 || got[0] != "a" || got[1] != "b" || got[2] != "c" {
		t.Errorf("Columns() = %v, want [a b c]", got)
	}

	_, err = FromMapping(42)
	assertErr(t, err, ErrType)
	_, err = FromMapping(map[any]any{1: []int{1}})
	assertErr(t, err, ErrType)

	dt, err = FromMapping(map[any]any{"z": []int{1, 2}})
	if err != nil || dt.Len() != 2 {
		t.Errorf("map[any]any with string keys: %v, %v", dt, err)
	}
}

func TestFromColumns(t *testing.T) {
	dt, err := FromColumns([]string{"a"}, []columns.Column{columns.NewInt64Column([]int64{1, 2})})
	if err != nil || dt.Len() != 2 {
		t.Fatalf("FromColumns = %v, %v", dt, err)
	}
	_, err = FromColumns([]string{"a", "b"}, []columns.Column{columns.NewInt64Column(nil)})
	assertErr(t, err, ErrValue)
}

func TestEmptyTable(t *testing.T) {
	dt := MustNew()
	if dt.Len() != 0 {
		t.Errorf("Len() = %d, want 0", dt.Len())
	}
	if err := dt.SetColumn("a", []int{1, 2, 3}); err != nil {
		t.Fatalf("SetColumn on empty table: %v", err)
	}
	if dt.Len() != 3 {
		t.Errorf("Len() = %d, want 3", dt.Len())
	}
}

func TestAccessors(t *testing.T) {
	dt := sampleTable()
	assertTable(t, dt.DTypes(), MustNew(
		Field{Name: "Column Name", Values: []string{"a", "b", "c"}},
		Field{Name: "Data Type", Values: []string{"int", "float", "string"}},
	))
	values := dt.Values()
	if len(values) != 3 || values[1][0] != int64(2) || values[1][1] != 2.5 || values[1][2] != "y" {
		t.Errorf("Values() = %v", values)
	}
	assertTable(t, dt.Head(2), MustNew(
		Field{Name: "a", Values: []int{1, 2}},
		Field{Name: "b", Values: []float64{1.5, 2.5}},
		Field{Name: "c", Values: []string{"x", "y"}},
	))
	assertTable(t, dt.Tail(1), MustNew(
		Field{Name: "a", Values: []int{3}},
		Field{Name: "b", Values: []float64{3.5}},
		Field{Name: "c", Values: []string{"z"}},
	))
	if got := dt.Head(10).Len(); got != 3 {
		t.Errorf("Head(10).Len() = %d, want 3", got)
	}
	if got := dt.String(); got != "DataTable(3x3)" {
		t.Errorf("String() = %q", got)
	}
}

func TestSetColumn(t *testing.T) {
	dt := sampleTable()
	if err := dt.SetColumn("d", 7); err != nil {
		t.Fatalf("broadcast: %v", err)
	}
	assertTable(t, mustGet(t, dt, "d"), MustNew(Field{Name: "d", Values: []int{7, 7, 7}}))

	if err := dt.SetColumn("a", []string{"p", "q", "r"}); err != nil {
		t.Fatalf("replace: %v", err)
	}
	if got := dt.Columns(); got[0] != "a" || got[3] != "d" {
		t.Errorf("replaced column moved: %v", got)
	}
	if dt.GetColumn("a").Kind() != columns.Text {
		t.Errorf("a should now be text")
	}

	one := MustNew(Field{Name: "z", Values: []bool{true, false, true}})
	if err := dt.SetColumn("e", one); err != nil {
		t.Fatalf("one-column table: %v", err)
	}

	tests := []struct {
		name  string
		key   string
		value any
		want  error
	}{
		{"length mismatch", "f", []int{1}, ErrValue},
		{"nested", "f", [][]int{{1}, {2}, {3}}, ErrValue},
		{"two-column table", "f", sampleTable(), ErrValue},
		{"unsupported", "f", map[string]int{}, ErrType},
		{"empty name", "", 1, ErrType},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := dt.Columns()
			assertErr(t, dt.SetColumn(tt.key, tt.value), tt.want)
			if len(dt.Columns()) != len(before) {
				t.Errorf("failed SetColumn changed the table")
			}
		})
	}
}

func TestSetItem(t *testing.T) {
	dt := sampleTable()
	if err := dt.SetItem("b", 0.5); err != nil {
		t.Fatalf("SetItem: %v", err)
	}
	assertErr(t, dt.SetItem([]string{"a", "b"}, 1), ErrNotImplemented)
	assertErr(t, dt.SetItem(3, 1), ErrType)
}

func TestRenameAndDrop(t *testing.T) {
	dt := sampleTable()
	renamed, err := dt.Rename(map[string]string{"a": "A"})
	if err != nil {
		t.Fatalf("Rename: %v", err)
	}
	if got := renamed.Columns(); got[0] != "A" || got[1] != "b" {
		t.Errorf("Rename columns = %v", got)
	}
	if dt.Columns()[0] != "a" {
		t.Errorf("Rename modified the receiver")
	}
	_, err = dt.Rename(map[string]string{"nope": "x"})
	assertErr(t, err, ErrKey)
	_, err = dt.Rename(map[string]string{"a": "b"})
	assertErr(t, err, ErrValue)

	positional, err := dt.WithColumnNames([]string{"x", "y", "z"})
	if err != nil || positional.Columns()[2] != "z" {
		t.Errorf("WithColumnNames = %v, %v", positional, err)
	}
	_, err = dt.WithColumnNames([]string{"x"})
	assertErr(t, err, ErrValue)
	_, err = dt.WithColumnNames([]string{"x", "x", "y"})
	assertErr(t, err, ErrValue)
	_, err = dt.WithColumnNames([]string{"x", "", "y"})
	assertErr(t, err, ErrType)

	dropped, err := dt.Drop("b")
	if err != nil {
		t.Fatalf("Drop: %v", err)
	}
	if got := dropped.Columns(); len(got) != 2 || got[1] != "c" {
		t.Errorf("Drop columns = %v", got)
	}
	_, err = dt.Drop("nope")
	assertErr(t, err, ErrKey)
}
