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
	"testing"

	"github.com/google/tabulae/core/columns"
)

func TestParse(t *testing.T) {
	for _, name := range Names() {
		f, err := Parse(name)
		if err != nil {
			t.Fatalf("Parse(%q): %v", name, err)
		}
		if f.String() != name {
			t.Errorf("expected %q, got %q", name, f.String())
		}
	}
	if f, err := Parse(" SUM "); err != nil || f != Sum {
		t.Errorf("expected Sum, got %v, %v", f, err)
	}
	if _, err := Parse("mode"); err == nil {
		t.Errorf("expected error for unknown aggregation")
	}
	if len(Reductions()) != 11 {
		t.Errorf("expected 11 reductions, got %d", len(Reductions()))
	}
	if Func(99).Valid() || Func(99).String() != "Func(99)" {
		t.Errorf("unexpected handling of invalid Func")
	}
	if Sum.Doc() != "Find the sum of each column" {
		t.Errorf("unexpected doc %q", Sum.Doc())
	}
}

func TestReduceNumeric(t *testing.T) {
	ints := columns.NewInt64Column([]int64{4, 1, 3, 2})
	tests := []struct {
		f    Func
		want any
	}{
		{Min, int64(1)},
		{Max, int64(4)},
		{Sum, int64(10)},
		{Mean, 2.5},
		{Median, 2.5},
		{ArgMax, int64(0)},
		{ArgMin, int64(1)},
		{All, true},
		{Any, true},
		{Size, int64(4)},
		{Count, int64(4)},
		{First, int64(4)},
		{Last, int64(2)},
		{NUnique, int64(4)},
	}
	for _, tt := range tests {
		t.Run(tt.f.String(), func(t *testing.T) {
			got, ok := Reduce(ints, tt.f)
			if !ok {
				t.Fatalf("%v not supported on ints", tt.f)
			}
			if got != tt.want {
				t.Errorf("expected %v (%T), got %v (%T)", tt.want, tt.want, got, got)
			}
		})
	}
	variance, _ := Reduce(ints, Var)
	if math.Abs(variance.(float64)-1.25) > 1e-12 {
		t.Errorf("unexpected var %v", variance)
	}
	std, _ := Reduce(ints, Std)
	if math.Abs(std.(float64)-math.Sqrt(1.25)) > 1e-12 {
		t.Errorf("unexpected std %v", std)
	}
}

func TestReduceFloatNaN(t *testing.T) {
	floats := columns.NewFloat64Column([]float64{1, math.NaN(), 3})
	for _, f := range []Func{Min, Max, Sum, Mean, Median, Var, Std} {
		got, ok := Reduce(floats, f)
		if !ok || !math.IsNaN(got.(float64)) {
			t.Errorf("%v: expected NaN, got %v", f, got)
		}
	}
	if got, _ := Reduce(floats, ArgMax); got != int64(1) {
		t.Errorf("argmax should point at the first NaN, got %v", got)
	}
	if got, _ := Reduce(floats, ArgMin); got != int64(1) {
		t.Errorf("argmin should point at the first NaN, got %v", got)
	}
	if got, _ := Reduce(floats, Count); got != int64(2) {
		t.Errorf("expected count 2, got %v", got)
	}
}

func TestReduceTextAndBool(t *testing.T) {
	b := "b"
	a := "a"
	text := columns.NewNullableStringColumn([]*string{&b, nil, &a})
	if _, ok := Reduce(text, Mean); ok {
		t.Errorf("mean must not be supported on text")
	}
	if _, ok := Reduce(text, Sum); ok {
		t.Errorf("sum must not be supported on text")
	}
	if got, _ := Reduce(text, Min); got != "a" {
		t.Errorf("expected min a, got %v", got)
	}
	if got, _ := Reduce(text, ArgMax); got != int64(0) {
		t.Errorf("expected argmax 0, got %v", got)
	}
	if got, _ := Reduce(text, NUnique); got != int64(3) {
		t.Errorf("expected 3 distinct values including the null, got %v", got)
	}

	bools := columns.NewBoolColumn([]bool{true, false, true})
	if got, _ := Reduce(bools, Sum); got != int64(2) {
		t.Errorf("expected sum 2, got %v", got)
	}
	if got, _ := Reduce(bools, All); got != false {
		t.Errorf("expected all false, got %v", got)
	}
	if got, _ := Reduce(bools, Min); got != false {
		t.Errorf("expected min false, got %v", got)
	}
	if got, _ := Reduce(bools, Max); got != true {
		t.Errorf("expected max true, got %v", got)
	}
}

func TestReduceRowsSubset(t *testing.T) {
	col := columns.NewInt64Column([]int64{5, 9, 1, 7})
	got, ok := ReduceRows(col, []int{1, 3}, ArgMin)
	if !ok || got != int64(1) {
		t.Errorf("expected position 1 within subset, got %v", got)
	}
	if _, ok := ReduceRows(col, []int{}, Max); ok {
		t.Errorf("max of an empty subset has no value")
	}
	if got, _ := ReduceRows(col, []int{}, Mean); !math.IsNaN(got.(float64)) {
		t.Errorf("mean of an empty subset should be NaN, got %v", got)
	}
}

func TestNumericAggStateCombine(t *testing.T) {
	whole := NewNumericAggState()
	whole.AddAll([]float64{1, 2, 3, 4, 5, 6})

	left := NewNumericAggState()
	left.AddAll([]float64{1, 2, 3})
	right := NewNumericAggState()
	right.AddAll([]float64{4, 5, 6})
	left.Combine(right)

	if left.Count != whole.Count || left.Sum != whole.Sum {
		t.Errorf("count/sum mismatch: %+v vs %+v", left, whole)
	}
	if math.Abs(left.Mean()-whole.Mean()) > 1e-12 || math.Abs(left.Variance()-whole.Variance()) > 1e-12 {
		t.Errorf("moments mismatch: %v/%v vs %v/%v", left.Mean(), left.Variance(), whole.Mean(), whole.Variance())
	}
	empty := NewNumericAggState()
	empty.Combine(whole)
	if empty.Count != 6 {
		t.Errorf("combining into an empty state should copy, got count %d", empty.Count)
	}
}

func TestReduceAcrossBlocks(t *testing.T) {
	n := 3*stateBlock + 17
	values := make([]int64, n)
	for i := range values {
		values[i] = int64(i % 10)
	}
	col := columns.NewInt64Column(values)

	mean, sq := 0.0, 0.0
	for _, v := range values {
		mean += float64(v)
	}
	mean /= float64(n)
	for _, v := range values {
		d := float64(v) - mean
		sq += d * d
	}
	want := sq / float64(n)

	if got, _ := Reduce(col, Mean); math.Abs(got.(float64)-mean) > 1e-9 {
		t.Errorf("mean = %v, want %v", got, mean)
	}
	if got, _ := Reduce(col, Var); math.Abs(got.(float64)-want) > 1e-9 {
		t.Errorf("var = %v, want %v", got, want)
	}
	if got, _ := Reduce(col, Std); math.Abs(got.(float64)-math.Sqrt(want)) > 1e-9 {
		t.Errorf("std = %v, want %v", got, math.Sqrt(want))
	}

	withNaN := columns.NewFloat64Column(append(make([]float64, stateBlock), math.NaN()))
	if got, _ := Reduce(withNaN, Var); !math.IsNaN(got.(float64)) {
		t.Errorf("NaN in a later block should make var NaN, got %v", got)
	}
}

func TestSumLargeInts(t *testing.T) {
	col := columns.NewInt64Column([]int64{1<<53 + 1, 0, 0})
	if got, _ := Reduce(col, Sum); got != int64(1<<53+1) {
		t.Errorf("sum = %v, want %d", got, int64(1<<53+1))
	}
	bools := columns.NewBoolColumn([]bool{true, false, true})
	if got, _ := Reduce(bools, Sum); got != int64(2) {
		t.Errorf("bool sum = %v, want 2", got)
	}
}
