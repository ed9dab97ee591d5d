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

// Package columns implements the four typed, immutable column kinds that
// back a table: bool, int64, float64 and nullable text.
package columns

import (
	"fmt"
	"math"

	"golang.org/x/text/unicode/norm"
)

// Kind identifies the element type of a column.
type Kind int

const (
	Bool Kind = iota
	Int
	Float
	Text
)

// String returns the name used for the kind in dtype listings.
func (k Kind) String() string {
	switch k {
	case Bool:
		return "bool"
	case Int:
		return "int"
	case Float:
		return "float"
	case Text:
		return "string"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Column is a fixed-length sequence of values of a single kind.
// It is implemented by BoolColumn, Int64Column, Float64Column and
// StringColumn only; callers dispatch with a type switch.
type Column interface {
	Kind() Kind
	Length() int
	// GetString returns the display form of the value at row i.
	GetString(i int) string
	// Value returns the value at row i as bool, int64, float64 or string,
	// and nil for a null text slot.
	Value(i int) any
	// IsNA reports whether the value at row i is missing.
	IsNA(i int) bool
	// Take returns a new column holding the values at the given rows, in order.
	Take(rows []int) Column
}

// FromSlice builds a column from a one-dimensional slice. The slice is
// copied. Wide text ([][]rune) is converted to the canonical text kind.
// The second result is false when values is not a recognized shape.
func FromSlice(values any) (Column, bool) {
	switch v := values.(type) {
	case Column:
		return v, true
	case []bool:
		return NewBoolColumn(v), true
	case []int:
		data := make([]int64, len(v))
		for i, x := range v {
			data[i] = int64(x)
		}
		return &Int64Column{data: data}, true
	case []int32:
		data := make([]int64, len(v))
		for i, x := range v {
			data[i] = int64(x)
		}
		return &Int64Column{data: data}, true
	case []int64:
		return NewInt64Column(v), true
	case []float32:
		data := make([]float64, len(v))
		for i, x := range v {
			data[i] = float64(x)
		}
		return &Float64Column{data: data}, true
	case []float64:
		return NewFloat64Column(v), true
	case []string:
		return NewStringColumn(v), true
	case []*string:
		return NewNullableStringColumn(v), true
	case [][]rune:
		data := make([]string, len(v))
		for i, r := range v {
			data[i] = norm.NFC.String(string(r))
		}
		return &StringColumn{data: data}, true
	}
	return nil, false
}

// Repeat broadcasts a scalar to a column of length n.
func Repeat(scalar any, n int) (Column, bool) {
	switch v := scalar.(type) {
	case bool:
		data := make([]bool, n)
		for i := range data {
			data[i] = v
		}
		return &BoolColumn{data: data}, true
	case int:
		return repeatInt(int64(v), n), true
	case int64:
		return repeatInt(v, n), true
	case float64:
		data := make([]float64, n)
		for i := range data {
			data[i] = v
		}
		return &Float64Column{data: data}, true
	case string:
		data := make([]string, n)
		for i := range data {
			data[i] = v
		}
		return &StringColumn{data: data}, true
	}
	return nil, false
}

func repeatInt(v int64, n int) *Int64Column {
	data := make([]int64, n)
	for i := range data {
		data[i] = v
	}
	return &Int64Column{data: data}
}

// Filter returns the rows of col where mask is true. mask must have the
// same length as col.
func Filter(col Column, mask []bool) Column {
	rows := make([]int, 0, len(mask))
	for i, keep := range mask {
		if keep {
			rows = append(rows, i)
		}
	}
	return col.Take(rows)
}

// Equal reports whether a and b have the same kind, length and values.
// NaN equals NaN and null equals null.
func Equal(a, b Column) bool {
	if a.Kind() != b.Kind() || a.Length() != b.Length() {
		return false
	}
	for i := 0; i < a.Length(); i++ {
		if a.IsNA(i) || b.IsNA(i) {
			if a.IsNA(i) != b.IsNA(i) {
				return false
			}
			continue
		}
		if a.Value(i) != b.Value(i) {
			return false
		}
	}
	return true
}

// FromValues builds a column of the given kind from scalars shaped like the
// results of Column.Value. A nil entry becomes NaN in a Float column and a
// null in a Text column; ints are widened when kind is Float.
func FromValues(kind Kind, values []any) Column {
	switch kind {
	case Bool:
		data := make([]bool, len(values))
		for i, v := range values {
			data[i], _ = v.(bool)
		}
		return &BoolColumn{data: data}
	case Int:
		data := make([]int64, len(values))
		for i, v := range values {
			data[i], _ = v.(int64)
		}
		return &Int64Column{data: data}
	case Float:
		data := make([]float64, len(values))
		for i, v := range values {
			switch x := v.(type) {
			case float64:
				data[i] = x
			case int64:
				data[i] = float64(x)
			case bool:
				if x {
					data[i] = 1
				}
			default:
				data[i] = math.NaN()
			}
		}
		return &Float64Column{data: data}
	default:
		c := &StringColumn{data: make([]string, len(values))}
		for i, v := range values {
			s, ok := v.(string)
			if !ok {
				c.setNull(i)
				continue
			}
			c.data[i] = s
		}
		return c
	}
}
