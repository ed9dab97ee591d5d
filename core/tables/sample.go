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
	"math/rand/v2"
)

// SampleOptions configures Sample. Set at most one of N and Frac; when
// neither is set a single row is drawn. Seed makes the draw reproducible.
type SampleOptions struct {
	N       *int
	Frac    *float64
	Replace bool
	Seed    *uint64
}

// Sample returns randomly chosen rows, in the order they were drawn.
func (dt *DataTable) Sample(opts SampleOptions) (*DataTable, error) {
	rows := dt.Len()
	n := 1
	switch {
	case opts.N != nil && opts.Frac != nil:
		return nil, valueError("sample", "set only one of n and frac")
	case opts.Frac != nil:
		if *opts.Frac <= 0 {
			return nil, valueError("sample", "frac must be positive, got %v", *opts.Frac)
		}
		n = int(*opts.Frac * float64(rows))
	case opts.N != nil:
		n = *opts.N
	}
	if n < 0 {
		return nil, valueError("sample", "n must be non-negative, got %d", n)
	}
	if !opts.Replace && n > rows {
		return nil, valueError("sample", "cannot take %d rows without replacement from %d", n, rows)
	}
	if rows == 0 && n > 0 {
		return nil, valueError("sample", "cannot sample from an empty table")
	}

	var r *rand.Rand
	if opts.Seed != nil {
		r = rand.New(rand.NewPCG(*opts.Seed, 0))
	} else {
		r = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	picked := make([]int, n)
	if opts.Replace {
		for i := range picked {
			picked[i] = r.IntN(rows)
		}
	} else {
		copy(picked, r.Perm(rows)[:n])
	}
	return dt.Select(ByPosition{Rows: RowList(picked), Cols: ColSlice{}})
}
