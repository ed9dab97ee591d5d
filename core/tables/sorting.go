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

	"github.com/google/tabulae/core/columns"
)

// SortValues returns the table reordered by the values of the columns in by,
// earliest name most significant. The ascending order is stable and puts
// missing values last. When ascending is false the ascending permutation is
// reversed as a whole, so rows with equal keys also come out reversed.
func (dt *DataTable) SortValues(by []string, ascending bool) (*DataTable, error) {
	order, err := dt.SortOrder(by)
	if err != nil {
		return nil, err
	}
	if !ascending {
		for i, j := 0, len(order)-1; i < j; i, j = i+1, j-1 {
			order[i], order[j] = order[j], order[i]
		}
	}
	return dt.Select(ByPosition{Rows: RowList(order), Cols: ColSlice{}})
}

// SortOrder returns the stable ascending permutation of row positions for
// the given sort keys.
func (dt *DataTable) SortOrder(by []string) ([]int, error) {
	if len(by) == 0 {
		return nil, valueError("sort", "at least one sort column is required")
	}
	keys := make([]columns.Column, len(by))
	for i, name := range by {
		col := dt.GetColumn(name)
		if col == nil {
			return nil, keyError("sort", name)
		}
		keys[i] = col
	}
	order := make([]int, dt.Len())
	for i := range order {
		order[i] = i
	}
	sortIndices(order, keys)
	return order, nil
}

// SortKey names a sort column and its direction.
type SortKey struct {
	Column     string
	Descending bool
}

// SortBy returns the table stably reordered by keys, each with its own
// direction. Unlike SortValues, equal rows keep their relative order and
// missing values stay last in descending keys too.
func (dt *DataTable) SortBy(keys []SortKey) (*DataTable, error) {
	if len(keys) == 0 {
		return nil, valueError("sort", "at least one sort column is required")
	}
	cols := make([]columns.Column, len(keys))
	for i, k := range keys {
		col := dt.GetColumn(k.Column)
		if col == nil {
			return nil, keyError("sort", k.Column)
		}
		cols[i] = col
	}
	order := make([]int, dt.Len())
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool {
		a, b := order[i], order[j]
		for n, col := range cols {
			cmp := columns.CompareAtIndex(col, a, b)
			if cmp == 0 {
				continue
			}
			if keys[n].Descending && !col.IsNA(a) && !col.IsNA(b) {
				cmp = -cmp
			}
			return cmp < 0
		}
		return false
	})
	return dt.Select(ByPosition{Rows: RowList(order), Cols: ColSlice{}})
}

// sortIndices stably sorts a slice of row indices by the key columns.
func sortIndices(indices []int, keys []columns.Column) {
	sort.SliceStable(indices, func(i, j int) bool {
		for _, col := range keys {
			if cmp := columns.CompareAtIndex(col, indices[i], indices[j]); cmp != 0 {
				return cmp < 0
			}
		}
		return false
	})
}
