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

package columns

import (
	"cmp"
	"math"
	"strings"
)

// CompareAtIndex compares values at indices i and j for the given column.
// Returns -1 if value[i] < value[j], 0 if equal, 1 if value[i] > value[j].
// Missing values (NaN, null text) sort after everything else.
func CompareAtIndex(col Column, i, j int) int {
	switch c := col.(type) {
	case *StringColumn:
		ni, nj := c.IsNA(i), c.IsNA(j)
		if ni || nj {
			return compareMissing(ni, nj)
		}
		return strings.Compare(c.data[i], c.data[j])

	case *BoolColumn:
		return compareBools(c.data[i], c.data[j])

	case *Float64Column:
		return compareFloat64s(c.data[i], c.data[j])

	case *Int64Column:
		return cmp.Compare(c.data[i], c.data[j])

	default:
		return strings.Compare(col.GetString(i), col.GetString(j))
	}
}

// compareBools compares two bool values (false < true)
func compareBools(a, b bool) int {
	if a == b {
		return 0
	}
	if !a && b {
		return -1
	}
	return 1
}

// compareFloat64s compares two float64 values with NaN handling.
// NaN values are considered greater than all other values (sort to end).
func compareFloat64s(a, b float64) int {
	aNaN := math.IsNaN(a)
	bNaN := math.IsNaN(b)
	if aNaN || bNaN {
		return compareMissing(aNaN, bNaN)
	}

	if a < b {
		return -1
	}
	if a > b {
		return 1
	}
	return 0
}

// compareMissing orders missing values after present ones.
func compareMissing(missingI, missingJ bool) int {
	if missingI && missingJ {
		return 0
	}
	if missingI {
		return 1
	}
	return -1
}
