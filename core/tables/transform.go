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
	"math"

	"github.com/google/tabulae/core/columns"
)

// transform applies fn to every column and keeps the columns for which fn
// reports success. Columns whose kind fn does not support are dropped.
func (dt *DataTable) transform(fn func(columns.Column) (columns.Column, bool)) *DataTable {
	var names []string
	var cols []columns.Column
	for _, name := range dt.names {
		out, ok := fn(dt.columns[name])
		if !ok {
			continue
		}
		names = append(names, name)
		cols = append(cols, out)
	}
	return fromColumns(names, cols)
}

// Abs takes the absolute value of every numeric column.
func (dt *DataTable) Abs() *DataTable {
	return dt.transform(func(c columns.Column) (columns.Column, bool) {
		switch col := c.(type) {
		case *columns.BoolColumn:
			return columns.NewBoolColumn(col.Values()), true
		case *columns.Int64Column:
			v := col.Values()
			for i, x := range v {
				if x < 0 {
					v[i] = -x
				}
			}
			return columns.NewInt64Column(v), true
		case *columns.Float64Column:
			v := col.Values()
			for i, x := range v {
				v[i] = math.Abs(x)
			}
			return columns.NewFloat64Column(v), true
		}
		return nil, false
	})
}

// CumMin is the running minimum of every numeric column. NaN propagates.
func (dt *DataTable) CumMin() *DataTable {
	return dt.transform(func(c columns.Column) (columns.Column, bool) {
		return accumulate(c, func(a, b float64) float64 {
			if math.IsNaN(a) || math.IsNaN(b) {
				return math.NaN()
			}
			return math.Min(a, b)
		}, func(a, b int64) int64 { return min(a, b) })
	})
}

// CumMax is the running maximum of every numeric column. NaN propagates.
func (dt *DataTable) CumMax() *DataTable {
	return dt.transform(func(c columns.Column) (columns.Column, bool) {
		return accumulate(c, func(a, b float64) float64 {
			if math.IsNaN(a) || math.IsNaN(b) {
				return math.NaN()
			}
			return math.Max(a, b)
		}, func(a, b int64) int64 { return max(a, b) })
	})
}

// CumSum is the running sum of every numeric column. Boolean columns are
// summed as integers.
func (dt *DataTable) CumSum() *DataTable {
	return dt.transform(func(c columns.Column) (columns.Column, bool) {
		if b, ok := c.(*columns.BoolColumn); ok {
			c = columns.NewInt64Column(asInts(b))
		}
		return accumulate(c,
			func(a, b float64) float64 { return a + b },
			func(a, b int64) int64 { return a + b })
	})
}

func accumulate(c columns.Column, ff func(a, b float64) float64, fi func(a, b int64) int64) (columns.Column, bool) {
	switch col := c.(type) {
	case *columns.BoolColumn:
		v := asInts(col)
		out := make([]bool, len(v))
		for i := range v {
			if i > 0 {
				v[i] = fi(v[i-1], v[i])
			}
			out[i] = v[i] != 0
		}
		return columns.NewBoolColumn(out), true
	case *columns.Int64Column:
		v := col.Values()
		for i := 1; i < len(v); i++ {
			v[i] = fi(v[i-1], v[i])
		}
		return columns.NewInt64Column(v), true
	case *columns.Float64Column:
		v := col.Values()
		for i := 1; i < len(v); i++ {
			v[i] = ff(v[i-1], v[i])
		}
		return columns.NewFloat64Column(v), true
	}
	return nil, false
}

// Clip limits every numeric column to [lower, upper]. A nil bound is not
// applied. Integer columns stay integers when both bounds are whole numbers.
func (dt *DataTable) Clip(lower, upper *float64) *DataTable {
	clip := func(x float64) float64 {
		if lower != nil && x < *lower {
			x = *lower
		}
		if upper != nil && x > *upper {
			x = *upper
		}
		return x
	}
	whole := func(b *float64) bool { return b == nil || *b == math.Trunc(*b) }
	return dt.transform(func(c columns.Column) (columns.Column, bool) {
		switch col := c.(type) {
		case *columns.Int64Column:
			if whole(lower) && whole(upper) {
				v := col.Values()
				for i, x := range v {
					v[i] = int64(clip(float64(x)))
				}
				return columns.NewInt64Column(v), true
			}
			v := col.Floats()
			for i, x := range v {
				v[i] = clip(x)
			}
			return columns.NewFloat64Column(v), true
		case *columns.Float64Column:
			v := col.Values()
			for i, x := range v {
				if !math.IsNaN(x) {
					v[i] = clip(x)
				}
			}
			return columns.NewFloat64Column(v), true
		}
		return nil, false
	})
}

// Round rounds every numeric column to n decimals, halves to even. A
// negative n rounds to tens, hundreds and so on.
func (dt *DataTable) Round(n int) *DataTable {
	p := math.Pow(10, math.Abs(float64(n)))
	round := func(x float64) float64 {
		if n >= 0 {
			return math.RoundToEven(x*p) / p
		}
		return math.RoundToEven(x/p) * p
	}
	return dt.transform(func(c columns.Column) (columns.Column, bool) {
		switch col := c.(type) {
		case *columns.BoolColumn:
			return columns.NewBoolColumn(col.Values()), true
		case *columns.Int64Column:
			v := col.Values()
			if n < 0 {
				step := int64(p)
				for i, x := range v {
					v[i] = roundIntToEven(x, step)
				}
			}
			return columns.NewInt64Column(v), true
		case *columns.Float64Column:
			v := col.Values()
			for i, x := range v {
				v[i] = round(x)
			}
			return columns.NewFloat64Column(v), true
		}
		return nil, false
	})
}

// roundIntToEven rounds x to a multiple of step, halves to the even multiple.
func roundIntToEven(x, step int64) int64 {
	q, r := x/step, x%step
	if r < 0 {
		q, r = q-1, r+step
	}
	switch {
	case 2*r > step, 2*r == step && q%2 != 0:
		q++
	}
	return q * step
}

// Copy returns a deep copy of the table.
func (dt *DataTable) Copy() *DataTable {
	return dt.build(nil, dt.names)
}

// Diff subtracts from each value the value n rows above it. The first n
// rows (the last -n rows when n is negative) are NaN. Results are floats.
func (dt *DataTable) Diff(n int) *DataTable {
	return dt.transform(func(c columns.Column) (columns.Column, bool) {
		v, ok := numericFloats(c)
		if !ok {
			return nil, false
		}
		out := make([]float64, len(v))
		for i := range v {
			if j := i - n; j >= 0 && j < len(v) {
				out[i] = v[i] - v[j]
			} else {
				out[i] = math.NaN()
			}
		}
		return columns.NewFloat64Column(out), true
	})
}

// PctChange is the fractional change from the value n rows above.
func (dt *DataTable) PctChange(n int) *DataTable {
	return dt.transform(func(c columns.Column) (columns.Column, bool) {
		v, ok := numericFloats(c)
		if !ok {
			return nil, false
		}
		out := make([]float64, len(v))
		for i := range v {
			if j := i - n; j >= 0 && j < len(v) {
				out[i] = (v[i] - v[j]) / v[j]
			} else {
				out[i] = math.NaN()
			}
		}
		return columns.NewFloat64Column(out), true
	})
}

// numericFloats widens Int and Float columns. Booleans do not subtract.
func numericFloats(c columns.Column) ([]float64, bool) {
	switch col := c.(type) {
	case *columns.Int64Column:
		return col.Floats(), true
	case *columns.Float64Column:
		return col.Values(), true
	}
	return nil, false
}
