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

// StringColumn stores text values. A slot may be null; nulls are tracked in
// a parallel flag slice that stays nil while the column has none.
type StringColumn struct {
	data []string
	null []bool
}

// NewStringColumn creates a text column without nulls holding a copy of data.
func NewStringColumn(data []string) *StringColumn {
	return &StringColumn{data: append([]string(nil), data...)}
}

// NewNullableStringColumn creates a text column where nil pointers are nulls.
func NewNullableStringColumn(data []*string) *StringColumn {
	c := &StringColumn{data: make([]string, len(data))}
	for i, p := range data {
		if p == nil {
			c.setNull(i)
			continue
		}
		c.data[i] = *p
	}
	return c
}

// NewStringColumnWithNulls creates a text column from values and a null mask
// of the same length. A nil mask means no nulls.
func NewStringColumnWithNulls(data []string, null []bool) *StringColumn {
	c := &StringColumn{data: append([]string(nil), data...)}
	for i, isNull := range null {
		if isNull {
			c.setNull(i)
		}
	}
	return c
}

func (c *StringColumn) setNull(i int) {
	if c.null == nil {
		c.null = make([]bool, len(c.data))
	}
	c.null[i] = true
	c.data[i] = ""
}

func (c *StringColumn) Kind() Kind {
	return Text
}

func (c *StringColumn) Length() int {
	return len(c.data)
}

// At returns the value at row i and whether it is non-null.
func (c *StringColumn) At(i int) (string, bool) {
	if c.IsNA(i) {
		return "", false
	}
	return c.data[i], true
}

// Value returns the string at row i, or nil for a null slot.
func (c *StringColumn) Value(i int) any {
	if c.IsNA(i) {
		return nil
	}
	return c.data[i]
}

// GetString returns the string value at row i; nulls print as "None".
func (c *StringColumn) GetString(i int) string {
	if c.IsNA(i) {
		return "None"
	}
	return c.data[i]
}

// IsNA reports whether row i is null.
func (c *StringColumn) IsNA(i int) bool {
	return c.null != nil && c.null[i]
}

// HasNulls reports whether any slot is null.
func (c *StringColumn) HasNulls() bool {
	for _, n := range c.null {
		if n {
			return true
		}
	}
	return false
}

func (c *StringColumn) Take(rows []int) Column {
	out := &StringColumn{data: make([]string, len(rows))}
	for i, r := range rows {
		if c.IsNA(r) {
			out.setNull(i)
			continue
		}
		out.data[i] = c.data[r]
	}
	return out
}

// Map applies fn to every non-null value and returns a new text column.
// Nulls stay null.
func (c *StringColumn) Map(fn func(string) string) *StringColumn {
	out := &StringColumn{data: make([]string, len(c.data))}
	for i, v := range c.data {
		if c.IsNA(i) {
			out.setNull(i)
			continue
		}
		out.data[i] = fn(v)
	}
	return out
}
