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
	"math"
	"strconv"
)

// Float64Column stores float64 (double) values. NaN marks a missing value.
type Float64Column struct {
	data []float64
}

// NewFloat64Column creates a float64 column holding a copy of data.
func NewFloat64Column(data []float64) *Float64Column {
	return &Float64Column{data: append([]float64(nil), data...)}
}

// Kind returns Float.
func (c *Float64Column) Kind() Kind {
	return Float
}

// Length returns the number of rows in the column.
func (c *Float64Column) Length() int {
	return len(c.data)
}

// At returns the value at row i.
func (c *Float64Column) At(i int) float64 {
	return c.data[i]
}

// Values returns a copy of the column data.
func (c *Float64Column) Values() []float64 {
	return append([]float64(nil), c.data...)
}

// Value returns the float64 value at row i.
func (c *Float64Column) Value(i int) any {
	return c.data[i]
}

// GetString returns the string representation of the value at the given index.
// Returns "NaN" for NaN values, "+Inf"/"-Inf" for infinities.
func (c *Float64Column) GetString(i int) string {
	return FormatFloat64(c.data[i])
}

// IsNA reports whether the value at row i is NaN.
func (c *Float64Column) IsNA(i int) bool {
	return math.IsNaN(c.data[i])
}

// Take returns a new column with the values at rows.
func (c *Float64Column) Take(rows []int) Column {
	data := make([]float64, len(rows))
	for i, r := range rows {
		data[i] = c.data[r]
	}
	return &Float64Column{data: data}
}

// FormatFloat64 formats a float64 value for display.
// Returns "NaN" for NaN, "+Inf"/"-Inf" for infinities.
func FormatFloat64(v float64) string {
	if math.IsNaN(v) {
		return "NaN"
	}
	if math.IsInf(v, 1) {
		return "+Inf"
	}
	if math.IsInf(v, -1) {
		return "-Inf"
	}
	// Use 'g' format for compact representation without trailing zeros
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// ParseFloat64 parses a string to float64.
// Recognizes "NaN", "Inf", "+Inf", "-Inf" as special values.
func ParseFloat64(s string) (float64, error) {
	switch s {
	case "NaN", "nan", "NAN":
		return math.NaN(), nil
	case "Inf", "+Inf", "inf", "+inf":
		return math.Inf(1), nil
	case "-Inf", "-inf":
		return math.Inf(-1), nil
	}
	return strconv.ParseFloat(s, 64)
}
