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
	"github.com/google/tabulae/core/aggregates"
	"github.com/google/tabulae/core/columns"
	"github.com/google/tabulae/core/grouping"
)

// PivotOptions configures PivotTable.
type PivotOptions struct {
	// Rows is the column whose distinct values become output rows.
	Rows string
	// Columns is the column whose distinct values become output columns.
	Columns string
	// Values is the column to aggregate. When empty, rows are counted.
	Values string
	// Agg aggregates Values within each group. It must be set when Values is.
	Agg aggregates.Func
}

// GroupBy aggregates value within each distinct value of key. The result
// has the distinct keys in ascending order and a column named after agg.
func (dt *DataTable) GroupBy(key, value string, agg aggregates.Func) (*DataTable, error) {
	return dt.PivotTable(PivotOptions{Rows: key, Values: value, Agg: agg})
}

// PivotTable summarizes the table by one or two key columns.
//
// With only Rows the result is tall: the distinct row keys and one column
// named after the aggregation. With only Columns the result is wide: a
// single row with one column per distinct key, named by the key column's
// name followed by the value. With both, each distinct row key is a row and
// each distinct column key a column; combinations that never occur are
// missing (NaN, or null for text results).
func (dt *DataTable) PivotTable(opts PivotOptions) (*DataTable, error) {
	if opts.Rows == "" && opts.Columns == "" {
		return nil, valueError("pivot", "rows and columns cannot both be empty")
	}
	agg := opts.Agg
	if opts.Values != "" && agg == aggregates.None {
		return nil, valueError("pivot", "an aggregation is required when values is provided")
	}
	if opts.Values == "" {
		if agg != aggregates.None && agg != aggregates.Size {
			return nil, valueError("pivot", "aggregation %v needs a values column", agg)
		}
		agg = aggregates.Size
	}
	if !agg.Valid() {
		return nil, valueError("pivot", "unknown aggregation %v", agg)
	}

	var rowKey, colKey, values columns.Column
	for _, ref := range []struct {
		name string
		dst  *columns.Column
	}{{opts.Rows, &rowKey}, {opts.Columns, &colKey}, {opts.Values, &values}} {
		if ref.name == "" {
			continue
		}
		col := dt.GetColumn(ref.name)
		if col == nil {
			return nil, keyError("pivot", ref.name)
		}
		*ref.dst = col
	}
	if values == nil {
		// size ignores the values themselves; any column of the right length will do
		values = rowKey
		if values == nil {
			values = colKey
		}
	}
	kind, ok := aggregates.ResultKind(values.Kind(), agg)
	if !ok {
		return nil, typeError("pivot", "cannot apply %v to %v column %q", agg, values.Kind(), opts.Values)
	}

	switch {
	case colKey == nil:
		g := grouping.Label(rowKey)
		name := agg.String()
		if name == opts.Rows {
			return nil, valueError("pivot", "row key %q collides with the aggregate column", name)
		}
		return fromColumns(
			[]string{opts.Rows, name},
			[]columns.Column{g.KeyColumn(0), aggregateGroups(g, values, agg, kind)},
		), nil

	case rowKey == nil:
		g := grouping.Label(colKey)
		agged := aggregateGroups(g, values, agg, kind)
		keys := g.KeyColumn(0)
		names := make([]string, g.Len())
		cols := make([]columns.Column, g.Len())
		for i := range names {
			names[i] = opts.Columns + keys.GetString(i)
			cols[i] = agged.Take([]int{i})
		}
		return fromColumns(names, cols), nil
	}

	return pivotBoth(opts, rowKey, colKey, values, agg, kind)
}

// pivotBoth groups by the (row, column) key pair and spreads the aggregated
// cells over a grid of distinct row keys by distinct column keys.
func pivotBoth(opts PivotOptions, rowKey, colKey, values columns.Column, agg aggregates.Func, kind columns.Kind) (*DataTable, error) {
	pairs := grouping.Label(rowKey, colKey)
	rowGroups := grouping.Label(rowKey)
	colGroups := grouping.Label(colKey)

	grid := make([][]any, colGroups.Len())
	for c := range grid {
		grid[c] = make([]any, rowGroups.Len())
	}
	for _, grp := range pairs.Groups {
		first := grp.Indices[0]
		r, c := rowGroups.Labels[first], colGroups.Labels[first]
		if v, ok := aggregates.ReduceRows(values, grp.Indices, agg); ok {
			grid[c][r] = v
		}
	}

	names := []string{opts.Rows}
	cols := []columns.Column{rowGroups.KeyColumn(0)}
	seen := map[string]bool{opts.Rows: true}
	colValues := colGroups.KeyColumn(0)
	for c, cells := range grid {
		name := opts.Columns + colValues.GetString(c)
		if seen[name] {
			return nil, valueError("pivot", "pivoted column %q collides with an existing column", name)
		}
		seen[name] = true
		names = append(names, name)
		cols = append(cols, buildCells(kind, cells))
	}
	return fromColumns(names, cols), nil
}

// aggregateGroups reduces values within every group, in group order.
func aggregateGroups(g *grouping.Grouping, values columns.Column, agg aggregates.Func, kind columns.Kind) columns.Column {
	cells := make([]any, g.Len())
	for i, grp := range g.Groups {
		if v, ok := aggregates.ReduceRows(values, grp.Indices, agg); ok {
			cells[i] = v
		}
	}
	return buildCells(kind, cells)
}

// buildCells turns aggregated cells into a column. Missing cells become NaN,
// which widens bool and int results to float, or null for text results.
func buildCells(kind columns.Kind, cells []any) columns.Column {
	if kind == columns.Int || kind == columns.Bool {
		for _, v := range cells {
			if v == nil {
				kind = columns.Float
				break
			}
		}
	}
	return columns.FromValues(kind, cells)
}
