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
	"sort"

	"github.com/google/tabulae/core/aggregates"
	"github.com/google/tabulae/core/columns"
	"github.com/google/tabulae/core/grouping"
)

// Reduce applies f to every column and returns a one-row table. Columns
// whose kind does not support f are left out of the result.
func (dt *DataTable) Reduce(f aggregates.Func) (*DataTable, error) {
	if !f.Valid() {
		return nil, valueError("reduce", "unknown aggregation %v", f)
	}
	var names []string
	var cols []columns.Column
	for _, name := range dt.names {
		col := dt.columns[name]
		kind, ok := aggregates.ResultKind(col.Kind(), f)
		if !ok {
			continue
		}
		v, ok := aggregates.Reduce(col, f)
		if !ok {
			continue
		}
		names = append(names, name)
		cols = append(cols, columns.FromValues(kind, []any{v}))
	}
	return fromColumns(names, cols), nil
}

func (dt *DataTable) mustReduce(f aggregates.Func) *DataTable {
	out, err := dt.Reduce(f)
	if err != nil {
		panic(err)
	}
	return out
}

func (dt *DataTable) Min() *DataTable    { return dt.mustReduce(aggregates.Min) }
func (dt *DataTable) Max() *DataTable    { return dt.mustReduce(aggregates.Max) }
func (dt *DataTable) Mean() *DataTable   { return dt.mustReduce(aggregates.Mean) }
func (dt *DataTable) Median() *DataTable { return dt.mustReduce(aggregates.Median) }
func (dt *DataTable) Sum() *DataTable    { return dt.mustReduce(aggregates.Sum) }
func (dt *DataTable) Var() *DataTable    { return dt.mustReduce(aggregates.Var) }
func (dt *DataTable) Std() *DataTable    { return dt.mustReduce(aggregates.Std) }
func (dt *DataTable) All() *DataTable    { return dt.mustReduce(aggregates.All) }
func (dt *DataTable) Any() *DataTable    { return dt.mustReduce(aggregates.Any) }
func (dt *DataTable) ArgMax() *DataTable { return dt.mustReduce(aggregates.ArgMax) }
func (dt *DataTable) ArgMin() *DataTable { return dt.mustReduce(aggregates.ArgMin) }

// Count returns the number of non-missing values in each column.
func (dt *DataTable) Count() *DataTable {
	return dt.mustReduce(aggregates.Count)
}

// IsNA returns a boolean table of the same shape marking missing values:
// null text and NaN floats. Bool and int values are never missing.
func (dt *DataTable) IsNA() *DataTable {
	cols := make([]columns.Column, len(dt.names))
	for i, name := range dt.names {
		col := dt.columns[name]
		mask := make([]bool, col.Length())
		for r := range mask {
			mask[r] = col.IsNA(r)
		}
		cols[i] = columns.NewBoolColumn(mask)
	}
	return fromColumns(dt.names, cols)
}

// Unique returns, for each column, a one-column table of its distinct
// values in ascending order. Missing values collapse into one trailing entry.
func (dt *DataTable) Unique() []*DataTable {
	out := make([]*DataTable, len(dt.names))
	for i, name := range dt.names {
		g := grouping.Label(dt.columns[name])
		out[i] = fromColumns([]string{name}, []columns.Column{g.KeyColumn(0)})
	}
	return out
}

// UniqueColumn returns the distinct values of one column.
func (dt *DataTable) UniqueColumn(name string) (*DataTable, error) {
	col := dt.GetColumn(name)
	if col == nil {
		return nil, keyError("unique", name)
	}
	g := grouping.Label(col)
	return fromColumns([]string{name}, []columns.Column{g.KeyColumn(0)}), nil
}

// NUnique returns the number of distinct values in each column.
func (dt *DataTable) NUnique() *DataTable {
	cols := make([]columns.Column, len(dt.names))
	for i, u := range dt.Unique() {
		cols[i] = columns.NewInt64Column([]int64{int64(u.Len())})
	}
	return fromColumns(dt.names, cols)
}

// ValueCounts returns, for each column, a two-column table of its distinct
// values and how often each occurs, most frequent first. Values with equal
// counts stay in ascending order. With normalize the counts are divided by
// the number of rows.
func (dt *DataTable) ValueCounts(normalize bool) []*DataTable {
	out := make([]*DataTable, len(dt.names))
	for i, name := range dt.names {
		g := grouping.Label(dt.columns[name])
		sizes := g.Sizes()
		order := make([]int, len(sizes))
		for j := range order {
			order[j] = j
		}
		sort.SliceStable(order, func(a, b int) bool {
			return sizes[order[a]] > sizes[order[b]]
		})

		keys := g.KeyColumn(0).Take(order)
		var counts columns.Column
		if normalize {
			total := float64(dt.Len())
			freq := make([]float64, len(order))
			for j, o := range order {
				freq[j] = float64(sizes[o]) / total
			}
			counts = columns.NewFloat64Column(freq)
		} else {
			raw := make([]int64, len(order))
			for j, o := range order {
				raw[j] = int64(sizes[o])
			}
			counts = columns.NewInt64Column(raw)
		}
		countName := "count"
		if name == countName {
			countName = "count_"
		}
		out[i] = fromColumns([]string{name, countName}, []columns.Column{keys, counts})
	}
	return out
}
