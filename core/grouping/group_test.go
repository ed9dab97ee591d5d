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

package grouping

import (
	"math"
	"reflect"
	"testing"

	"github.com/google/tabulae/core/columns"
)

func TestLabelSingleKey(t *testing.T) {
	keys := columns.NewStringColumn([]string{"y", "x", "y", "z", "x"})
	g := Label(keys)

	if g.Len() != 3 {
		t.Fatalf("expected 3 groups, got %d", g.Len())
	}
	wantLabels := []int{1, 0, 1, 2, 0}
	if !reflect.DeepEqual(g.Labels, wantLabels) {
		t.Errorf("expected labels %v, got %v", wantLabels, g.Labels)
	}
	wantIndices := [][]int{{1, 4}, {0, 2}, {3}}
	for i, grp := range g.Groups {
		if grp.GroupKey != i {
			t.Errorf("group %d has key %d", i, grp.GroupKey)
		}
		if !reflect.DeepEqual(grp.Indices, wantIndices[i]) {
			t.Errorf("group %d: expected %v, got %v", i, wantIndices[i], grp.Indices)
		}
	}
	distinct := g.KeyColumn(0)
	if !columns.Equal(distinct, columns.NewStringColumn([]string{"x", "y", "z"})) {
		t.Errorf("unexpected distinct keys")
	}
}

func TestLabelTwoKeys(t *testing.T) {
	rows := columns.NewStringColumn([]string{"a", "b", "a", "a", "b"})
	cols := columns.NewInt64Column([]int64{2, 1, 1, 2, 1})
	g := Label(rows, cols)

	// (a,1) (a,2) (b,1)
	if g.Len() != 3 {
		t.Fatalf("expected 3 groups, got %d", g.Len())
	}
	if !reflect.DeepEqual(g.Sizes(), []int{1, 2, 2}) {
		t.Errorf("unexpected sizes %v", g.Sizes())
	}
	if !columns.Equal(g.KeyColumn(1), columns.NewInt64Column([]int64{1, 2, 1})) {
		t.Errorf("unexpected second key values")
	}
}

func TestLabelCoversEveryRowOnce(t *testing.T) {
	keys := columns.NewFloat64Column([]float64{3, math.NaN(), 1, 3, math.NaN(), 2})
	g := Label(keys)

	seen := make([]int, keys.Length())
	total := 0
	for _, grp := range g.Groups {
		total += grp.Length()
		for _, r := range grp.Indices {
			seen[r]++
		}
	}
	if total != keys.Length() {
		t.Errorf("group sizes sum to %d, want %d", total, keys.Length())
	}
	for r, n := range seen {
		if n != 1 {
			t.Errorf("row %d appears in %d groups", r, n)
		}
	}
	// NaNs group together, last.
	last := g.Groups[g.Len()-1]
	if !reflect.DeepEqual(last.Indices, []int{1, 4}) {
		t.Errorf("expected NaN group [1 4], got %v", last.Indices)
	}
}

func TestLabelEmpty(t *testing.T) {
	if g := Label(); g.Len() != 0 {
		t.Errorf("expected no groups without keys")
	}
	if g := Label(columns.NewInt64Column(nil)); g.Len() != 0 {
		t.Errorf("expected no groups for empty key")
	}
}
