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
	"math"
	"strings"

	"github.com/google/tabulae/core/columns"
)

// Op is an elementwise arithmetic or comparison operator.
type Op int

const (
	OpAdd Op = iota + 1
	OpSub
	OpMul
	OpDiv
	OpFloorDiv
	OpMod
	OpPow
	OpGt
	OpLt
	OpGe
	OpLe
	OpEq
	OpNe
)

var opSymbols = map[Op]string{
	OpAdd: "+", OpSub: "-", OpMul: "*", OpDiv: "/", OpFloorDiv: "//", OpMod: "%", OpPow: "**",
	OpGt: ">", OpLt: "<", OpGe: ">=", OpLe: "<=", OpEq: "==", OpNe: "!=",
}

func (o Op) String() string {
	if s, ok := opSymbols[o]; ok {
		return s
	}
	return fmt.Sprintf("Op(%d)", int(o))
}

// IsComparison reports whether o produces booleans.
func (o Op) IsComparison() bool {
	return o >= OpGt && o <= OpNe
}

// Apply computes "column op other" for every column. other is a scalar
// (bool, int, int64, float64, string), a columns.Column, or a one-column
// table of the same length.
func (dt *DataTable) Apply(op Op, other any) (*DataTable, error) {
	return dt.apply(op, other, false)
}

// ApplyReflected computes "other op column" for every column.
func (dt *DataTable) ApplyReflected(op Op, other any) (*DataTable, error) {
	return dt.apply(op, other, true)
}

func (dt *DataTable) Add(other any) (*DataTable, error)      { return dt.Apply(OpAdd, other) }
func (dt *DataTable) RAdd(other any) (*DataTable, error)     { return dt.ApplyReflected(OpAdd, other) }
func (dt *DataTable) Sub(other any) (*DataTable, error)      { return dt.Apply(OpSub, other) }
func (dt *DataTable) RSub(other any) (*DataTable, error)     { return dt.ApplyReflected(OpSub, other) }
func (dt *DataTable) Mul(other any) (*DataTable, error)      { return dt.Apply(OpMul, other) }
func (dt *DataTable) RMul(other any) (*DataTable, error)     { return dt.ApplyReflected(OpMul, other) }
func (dt *DataTable) Div(other any) (*DataTable, error)      { return dt.Apply(OpDiv, other) }
func (dt *DataTable) RDiv(other any) (*DataTable, error)     { return dt.ApplyReflected(OpDiv, other) }
func (dt *DataTable) FloorDiv(other any) (*DataTable, error) { return dt.Apply(OpFloorDiv, other) }
func (dt *DataTable) Mod(other any) (*DataTable, error)      { return dt.Apply(OpMod, other) }
func (dt *DataTable) Pow(other any) (*DataTable, error)      { return dt.Apply(OpPow, other) }
func (dt *DataTable) RPow(other any) (*DataTable, error)     { return dt.ApplyReflected(OpPow, other) }
func (dt *DataTable) Gt(other any) (*DataTable, error)       { return dt.Apply(OpGt, other) }
func (dt *DataTable) Lt(other any) (*DataTable, error)       { return dt.Apply(OpLt, other) }
func (dt *DataTable) Ge(other any) (*DataTable, error)       { return dt.Apply(OpGe, other) }
func (dt *DataTable) Le(other any) (*DataTable, error)       { return dt.Apply(OpLe, other) }
func (dt *DataTable) Eq(other any) (*DataTable, error)       { return dt.Apply(OpEq, other) }
func (dt *DataTable) Ne(other any) (*DataTable, error)       { return dt.Apply(OpNe, other) }

func (dt *DataTable) apply(op Op, other any, reflected bool) (*DataTable, error) {
	if _, ok := opSymbols[op]; !ok {
		return nil, valueError("operator", "unknown operator %v", op)
	}
	n := dt.Len()
	var rhs columns.Column
	switch v := other.(type) {
	case *DataTable:
		if len(v.names) != 1 {
			return nil, valueError("operator", "other must be a one-column table, got %d columns", len(v.names))
		}
		rhs = v.columns[v.names[0]]
	case columns.Column:
		rhs = v
	case bool, int, int64, float64, string:
		rhs, _ = columns.Repeat(v, n)
	default:
		return nil, typeError("operator", "unsupported operand %T", other)
	}
	if rhs.Length() != n {
		return nil, valueError("operator", "operand has length %d, want %d", rhs.Length(), n)
	}

	cols := make([]columns.Column, len(dt.names))
	for i, name := range dt.names {
		a, b := dt.columns[name], rhs
		if reflected {
			a, b = b, a
		}
		out, err := applyColumns(op, a, b)
		if err != nil {
			return nil, typeError("operator", "column %q: %v", name, err)
		}
		cols[i] = out
	}
	return fromColumns(dt.names, cols), nil
}

func applyColumns(op Op, a, b columns.Column) (columns.Column, error) {
	aText, bText := a.Kind() == columns.Text, b.Kind() == columns.Text
	if aText || bText {
		if !(aText && bText) {
			return nil, fmt.Errorf("cannot apply %v between %v and %v", op, a.Kind(), b.Kind())
		}
		return applyText(op, a.(*columns.StringColumn), b.(*columns.StringColumn))
	}
	if op.IsComparison() {
		return compareNumeric(op, a, b), nil
	}
	if isIntegral(a) && isIntegral(b) && op != OpDiv && !(op == OpPow && hasNegative(b)) {
		return applyInt(op, asInts(a), asInts(b)), nil
	}
	return applyFloat(op, asFloats(a), asFloats(b)), nil
}

func isIntegral(c columns.Column) bool {
	return c.Kind() == columns.Int || c.Kind() == columns.Bool
}

func hasNegative(c columns.Column) bool {
	for _, v := range asInts(c) {
		if v < 0 {
			return true
		}
	}
	return false
}

func asInts(c columns.Column) []int64 {
	switch col := c.(type) {
	case *columns.Int64Column:
		return col.Values()
	case *columns.BoolColumn:
		out := make([]int64, col.Length())
		for i := range out {
			if col.At(i) {
				out[i] = 1
			}
		}
		return out
	}
	return nil
}

func asFloats(c columns.Column) []float64 {
	switch col := c.(type) {
	case *columns.Float64Column:
		return col.Values()
	case *columns.Int64Column:
		return col.Floats()
	}
	ints := asInts(c)
	out := make([]float64, len(ints))
	for i, v := range ints {
		out[i] = float64(v)
	}
	return out
}

func applyInt(op Op, a, b []int64) columns.Column {
	out := make([]int64, len(a))
	for i := range a {
		x, y := a[i], b[i]
		switch op {
		case OpAdd:
			out[i] = x + y
		case OpSub:
			out[i] = x - y
		case OpMul:
			out[i] = x * y
		case OpFloorDiv:
			if y != 0 {
				q := x / y
				if (x%y != 0) && ((x < 0) != (y < 0)) {
					q--
				}
				out[i] = q
			}
		case OpMod:
			if y != 0 {
				m := x % y
				if m != 0 && ((m < 0) != (y < 0)) {
					m += y
				}
				out[i] = m
			}
		case OpPow:
			r := int64(1)
			for e := y; e > 0; e-- {
				r *= x
			}
			out[i] = r
		}
	}
	return columns.NewInt64Column(out)
}

func applyFloat(op Op, a, b []float64) columns.Column {
	out := make([]float64, len(a))
	for i := range a {
		x, y := a[i], b[i]
		switch op {
		case OpAdd:
			out[i] = x + y
		case OpSub:
			out[i] = x - y
		case OpMul:
			out[i] = x * y
		case OpDiv:
			out[i] = x / y
		case OpFloorDiv:
			out[i] = math.Floor(x / y)
		case OpMod:
			m := math.Mod(x, y)
			if m != 0 && ((m < 0) != (y < 0)) {
				m += y
			}
			out[i] = m
		case OpPow:
			out[i] = math.Pow(x, y)
		}
	}
	return columns.NewFloat64Column(out)
}

func compareNumeric(op Op, a, b columns.Column) columns.Column {
	out := make([]bool, a.Length())
	if isIntegral(a) && isIntegral(b) {
		x, y := asInts(a), asInts(b)
		for i := range out {
			out[i] = compareResult(op, cmpOrdered(x[i], y[i]), false)
		}
		return columns.NewBoolColumn(out)
	}
	x, y := asFloats(a), asFloats(b)
	for i := range out {
		nan := math.IsNaN(x[i]) || math.IsNaN(y[i])
		out[i] = compareResult(op, cmpOrdered(x[i], y[i]), nan)
	}
	return columns.NewBoolColumn(out)
}

func cmpOrdered[T int64 | float64 | string](x, y T) int {
	if x < y {
		return -1
	}
	if x > y {
		return 1
	}
	return 0
}

// compareResult maps a three-way comparison to op's boolean. Any comparison
// involving a missing value is false, except "!=".
func compareResult(op Op, c int, missing bool) bool {
	if missing {
		return op == OpNe
	}
	switch op {
	case OpGt:
		return c > 0
	case OpLt:
		return c < 0
	case OpGe:
		return c >= 0
	case OpLe:
		return c <= 0
	case OpEq:
		return c == 0
	case OpNe:
		return c != 0
	}
	return false
}

func applyText(op Op, a, b *columns.StringColumn) (columns.Column, error) {
	n := a.Length()
	if op.IsComparison() {
		out := make([]bool, n)
		for i := range out {
			x, okX := a.At(i)
			y, okY := b.At(i)
			out[i] = compareResult(op, strings.Compare(x, y), !okX || !okY)
		}
		return columns.NewBoolColumn(out), nil
	}
	if op != OpAdd {
		return nil, fmt.Errorf("operator %v is not defined for text", op)
	}
	data := make([]string, n)
	null := make([]bool, n)
	for i := range data {
		x, okX := a.At(i)
		y, okY := b.At(i)
		if !okX || !okY {
			null[i] = true
			continue
		}
		data[i] = x + y
	}
	return columns.NewStringColumnWithNulls(data, null), nil
}
