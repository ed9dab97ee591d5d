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

// Package grouping partitions table rows by the values of one or more key
// columns. Rows are sorted by their key tuple and a group starts wherever the
// tuple differs from the previous sorted row, so groups come out in
// ascending key order without any hashing.
package grouping

import (
	"sort"

	"github.com/google/tabulae/core/columns"
)

// Group is one partition of rows sharing the same key tuple.
type Group struct {
	// GroupKey is the zero-based rank of the group's key tuple.
	GroupKey int
	// Indices are the member rows in their original order.
	Indices []int
}

// Length returns the number of rows in the group.
func (g *Group) Length() int {
	return len(g.Indices)
}

// Grouping labels every row of a set of equal-length key columns.
type Grouping struct {
	Keys []columns.Column
	// Labels holds the group index of every original row.
	Labels []int
	Groups []*Group
}

// Label groups rows by the tuple of values in keys. Missing values form
// their own group, after every other value. With no keys, or keys of
// length zero, the result has no groups.
func Label(keys ...columns.Column) *Grouping {
	g := &Grouping{Keys: keys}
	if len(keys) == 0 {
		return g
	}
	n := keys[0].Length()
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return g.compare(order[a], order[b]) < 0
	})

	g.Labels = make([]int, n)
	label := -1
	for i, row := range order {
		if i == 0 || g.compare(order[i-1], row) != 0 {
			label++
			g.Groups = append(g.Groups, &Group{GroupKey: label})
		}
		g.Labels[row] = label
	}
	for row, l := range g.Labels {
		g.Groups[l].Indices = append(g.Groups[l].Indices, row)
	}
	return g
}

// compare orders two rows by their key tuple, first key most significant.
func (g *Grouping) compare(i, j int) int {
	for _, k := range g.Keys {
		if c := columns.CompareAtIndex(k, i, j); c != 0 {
			return c
		}
	}
	return 0
}

// Len returns the number of groups.
func (g *Grouping) Len() int {
	return len(g.Groups)
}

// KeyRows returns, for each group in order, one row holding its key tuple.
func (g *Grouping) KeyRows() []int {
	rows := make([]int, len(g.Groups))
	for i, grp := range g.Groups {
		rows[i] = grp.Indices[0]
	}
	return rows
}

// KeyColumn returns the distinct values of key k, one per group, as a new column.
func (g *Grouping) KeyColumn(k int) columns.Column {
	return g.Keys[k].Take(g.KeyRows())
}

// Sizes returns the number of rows in each group.
func (g *Grouping) Sizes() []int {
	sizes := make([]int, len(g.Groups))
	for i, grp := range g.Groups {
		sizes[i] = grp.Length()
	}
	return sizes
}
