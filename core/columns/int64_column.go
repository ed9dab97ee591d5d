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
	"strconv"
)

// Int64Column stores int64 values. Integers have no missing sentinel.
type Int64Column struct {
	data []int64
}

// NewInt64Column creates an int64 column holding a copy of data.
func NewInt64Column(data []int64) *Int64Column {
	return &Int64Column{data: append([]int64(nil), data...)}
}

func (c *Int64Column) Kind() Kind {
	return Int
}

func (c *Int64Column) Length() int {
	return len(c.data)
}

// At returns the value at row i.
func (c *Int64Column) At(i int) int64 {
	return c.data[i]
}

// Values returns a copy of the column data.
func (c *Int64Column) Values() []int64 {
	return append([]int64(nil), c.data...)
}

// Floats returns the column converted to float64.
func (c *Int64Column) Floats() []float64 {
	out := make([]float64, len(c.data))
	for i, v := range c.data {
		out[i] = float64(v)
	}
	return out
}

func (c *Int64Column) Value(i int) any {
	return c.data[i]
}

// GetString returns the decimal representation of the value at row i
func (c *Int64Column) GetString(i int) string {
	return strconv.FormatInt(c.data[i], 10)
}

func (c *Int64Column) IsNA(i int) bool {
	return false
}

func (c *Int64Column) Take(rows []int) Column {
	data := make([]int64, len(rows))
	for i, r := range rows {
		data[i] = c.data[r]
	}
	return &Int64Column{data: data}
}
