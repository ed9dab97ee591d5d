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
	"fmt"
	"strings"
)

// BoolColumn stores boolean values.
type BoolColumn struct {
	data []bool
}

// NewBoolColumn creates a boolean column holding a copy of data.
func NewBoolColumn(data []bool) *BoolColumn {
	return &BoolColumn{data: append([]bool(nil), data...)}
}

func (c *BoolColumn) Kind() Kind {
	return Bool
}

// Length returns the number of rows in the column.
func (c *BoolColumn) Length() int {
	return len(c.data)
}

// At returns the boolean value at row i.
func (c *BoolColumn) At(i int) bool {
	return c.data[i]
}

// Values returns a copy of the column data.
func (c *BoolColumn) Values() []bool {
	return append([]bool(nil), c.data...)
}

func (c *BoolColumn) Value(i int) any {
	return c.data[i]
}

// GetString returns "True" or "False".
func (c *BoolColumn) GetString(i int) string {
	if c.data[i] {
		return "True"
	}
	return "False"
}

// IsNA is always false: booleans have no missing sentinel.
func (c *BoolColumn) IsNA(i int) bool {
	return false
}

func (c *BoolColumn) Take(rows []int) Column {
	data := make([]bool, len(rows))
	for i, r := range rows {
		data[i] = c.data[r]
	}
	return &BoolColumn{data: data}
}

// CountTrue returns the number of true values in the column.
func (c *BoolColumn) CountTrue() int {
	count := 0
	for _, v := range c.data {
		if v {
			count++
		}
	}
	return count
}

// TrueIndices returns the positions of the true values, in order.
func (c *BoolColumn) TrueIndices() []int {
	indices := make([]int, 0, len(c.data))
	for i, v := range c.data {
		if v {
			indices = append(indices, i)
		}
	}
	return indices
}

// ParseBool parses a string to a boolean value.
// Accepts: "true", "false", "1", "0", "yes", "no", "t", "f", "y", "n" (case-insensitive).
func ParseBool(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "1", "yes", "t", "y":
		return true, nil
	case "false", "0", "no", "f", "n":
		return false, nil
	default:
		return false, fmt.Errorf("cannot parse %q as boolean", s)
	}
}
