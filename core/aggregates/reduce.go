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

package aggregates

import (
	"math"
	"sort"
	"strings"

	"github.com/google/tabulae/core/columns"
)

// ResultKind reports the kind of the value f produces for a column of kind
// k. The second result is false when the kind does not support f.
func ResultKind(k columns.Kind, f Func) (columns.Kind, bool) {
	switch f {
	case Size, Count, NUnique:
		return columns.Int, true
	case First, Last:
		return k, true
	case ArgMax, ArgMin:
		return columns.Int, true
	case Min, Max:
		return k, true
	}
	if k == columns.Text {
		return 0, false
	}
	switch f {
	case Mean, Median, Var, Std:
		return columns.Float, true
	case Sum:
		if k == columns.Float {
			return columns.Float, true
		}
		return columns.Int, true
	case All, Any:
		return columns.Bool, true
	}
	return 0, false
}

// Reduce applies f to every row of col. See ReduceRows.
func Reduce(col columns.Column, f Func) (any, bool) {
	return ReduceRows(col, nil, f)
}

// ReduceRows applies f to the given rows of col (all rows when rows is nil)
// and returns a scalar shaped like columns.Column.Value: bool, int64,
// float64, string, or nil for a missing text result. The second result is
// false when col's kind does not support f or when f has no value for an
// empty input (min, max, argmax, argmin). ArgMax and ArgMin return positions
// relative to rows.
func ReduceRows(col columns.Column, rows []int, f Func) (any, bool) {
	if _, ok := ResultKind(col.Kind(), f); !ok {
		return nil, false
	}
	if rows == nil {
		rows = make([]int, col.Length())
		for i := range rows {
			rows[i] = i
		}
	}

	switch f {
	case Size:
		return int64(len(rows)), true
	case Count:
		n := int64(0)
		for _, r := range rows {
			if !col.IsNA(r) {
				n++
			}
		}
		return n, true
	case NUnique:
		return int64(countDistinct(col, rows)), true
	case First, Last:
		if len(rows) == 0 {
			return nil, false
		}
		if f == First {
			return col.Value(rows[0]), true
		}
		return col.Value(rows[len(rows)-1]), true
	case Min, Max:
		return extreme(col, rows, f == Max)
	case ArgMax, ArgMin:
		pos := argExtreme(col, rows, f == ArgMax)
		if pos < 0 {
			return nil, false
		}
		return int64(pos), true
	case Sum:
		return sum(col, rows), true
	}

	// The remaining functions work on the numeric view of the column.
	values := numericAt(col, rows)
	switch f {
	case Mean:
		return numericState(values).Mean(), true
	case Var:
		return numericState(values).Variance(), true
	case Std:
		return numericState(values).StdDev(), true
	case Median:
		return median(values), true
	case All:
		for _, v := range values {
			if v == 0 {
				return false, true
			}
		}
		return true, true
	case Any:
		for _, v := range values {
			if v != 0 {
				return true, true
			}
		}
		return false, true
	}
	return nil, false
}

// numericAt returns the values of a bool, int or float column at rows as
// float64; true is 1 and false is 0.
func numericAt(col columns.Column, rows []int) []float64 {
	out := make([]float64, len(rows))
	switch c := col.(type) {
	case *columns.BoolColumn:
		for i, r := range rows {
			if c.At(r) {
				out[i] = 1
			}
		}
	case *columns.Int64Column:
		for i, r := range rows {
			out[i] = float64(c.At(r))
		}
	case *columns.Float64Column:
		for i, r := range rows {
			out[i] = c.At(r)
		}
	}
	return out
}

// sum adds the values at rows. Int and bool columns are summed as int64 so
// large values stay exact.
func sum(col columns.Column, rows []int) any {
	switch c := col.(type) {
	case *columns.Int64Column:
		s := int64(0)
		for _, r := range rows {
			s += c.At(r)
		}
		return s
	case *columns.BoolColumn:
		s := int64(0)
		for _, r := range rows {
			if c.At(r) {
				s++
			}
		}
		return s
	}
	s := 0.0
	for _, v := range numericAt(col, rows) {
		s += v
	}
	return s
}

// stateBlock is the number of values accumulated before merging into the
// running state.
const stateBlock = 4096

// numericState accumulates values block by block and merges the blocks
// with Combine.
func numericState(values []float64) *NumericAggState {
	st := NewNumericAggState()
	for start := 0; start < len(values); start += stateBlock {
		end := min(start+stateBlock, len(values))
		block := NewNumericAggState()
		block.AddAll(values[start:end])
		st.Combine(block)
	}
	return st
}

// median returns NaN for empty input or when any value is NaN.
func median(values []float64) float64 {
	if len(values) == 0 {
		return math.NaN()
	}
	sorted := append([]float64(nil), values...)
	for _, v := range sorted {
		if math.IsNaN(v) {
			return math.NaN()
		}
	}
	sort.Float64s(sorted)
	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		return sorted[mid]
	}
	return (sorted[mid-1] + sorted[mid]) / 2
}

// extreme returns the minimum or maximum, keeping the column kind.
// A NaN anywhere makes a float result NaN; null text is ignored.
func extreme(col columns.Column, rows []int, max bool) (any, bool) {
	switch c := col.(type) {
	case *columns.BoolColumn:
		if len(rows) == 0 {
			return nil, false
		}
		// min of booleans is "all", max is "any"
		result := !max
		for _, r := range rows {
			if c.At(r) == max {
				result = max
				break
			}
		}
		return result, true
	case *columns.Int64Column:
		if len(rows) == 0 {
			return nil, false
		}
		best := c.At(rows[0])
		for _, r := range rows[1:] {
			v := c.At(r)
			if (max && v > best) || (!max && v < best) {
				best = v
			}
		}
		return best, true
	case *columns.Float64Column:
		if len(rows) == 0 {
			return nil, false
		}
		best := c.At(rows[0])
		for _, r := range rows {
			v := c.At(r)
			if math.IsNaN(v) {
				return math.NaN(), true
			}
			if (max && v > best) || (!max && v < best) {
				best = v
			}
		}
		return best, true
	case *columns.StringColumn:
		found := false
		var best string
		for _, r := range rows {
			v, ok := c.At(r)
			if !ok {
				continue
			}
			cmp := strings.Compare(v, best)
			if !found || (max && cmp > 0) || (!max && cmp < 0) {
				best = v
				found = true
			}
		}
		if !found {
			return nil, false
		}
		return best, true
	}
	return nil, false
}

// argExtreme returns the position within rows of the first maximum or
// minimum, or -1 when there is none. For floats the first NaN wins, for
// text nulls are skipped.
func argExtreme(col columns.Column, rows []int, max bool) int {
	if f, ok := col.(*columns.Float64Column); ok {
		for i, r := range rows {
			if math.IsNaN(f.At(r)) {
				return i
			}
		}
	}
	best := -1
	for i, r := range rows {
		if col.IsNA(r) {
			continue
		}
		if best < 0 {
			best = i
			continue
		}
		cmp := columns.CompareAtIndex(col, r, rows[best])
		if (max && cmp > 0) || (!max && cmp < 0) {
			best = i
		}
	}
	return best
}

// countDistinct sorts a copy of rows and counts value boundaries. All
// missing values count as one distinct value.
func countDistinct(col columns.Column, rows []int) int {
	if len(rows) == 0 {
		return 0
	}
	sorted := append([]int(nil), rows...)
	sort.SliceStable(sorted, func(a, b int) bool {
		return columns.CompareAtIndex(col, sorted[a], sorted[b]) < 0
	})
	n := 1
	for i := 1; i < len(sorted); i++ {
		if columns.CompareAtIndex(col, sorted[i-1], sorted[i]) != 0 {
			n++
		}
	}
	return n
}
