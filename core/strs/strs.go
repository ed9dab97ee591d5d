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

// Package strs applies per-element string functions to the text columns of
// a table. Every function returns a new one-column table named after the
// input column; null slots stay null (or false, or NaN, depending on the
// result kind).
package strs

import (
	"fmt"
	"math"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/google/tabulae/core/columns"
	"github.com/google/tabulae/core/tables"
)

// Accessor is the string function namespace of a table.
type Accessor struct {
	t *tables.DataTable
}

// Of returns the string accessor of t.
func Of(t *tables.DataTable) Accessor {
	return Accessor{t: t}
}

func (a Accessor) text(col string) (*columns.StringColumn, error) {
	c := a.t.GetColumn(col)
	if c == nil {
		return nil, fmt.Errorf("strs: %w: column %q not found", tables.ErrKey, col)
	}
	s, ok := c.(*columns.StringColumn)
	if !ok {
		return nil, fmt.Errorf("strs: %w: the string accessor only works with text columns, %q is %v", tables.ErrType, col, c.Kind())
	}
	return s, nil
}

func (a Accessor) mapText(col string, fn func(string) string) (*tables.DataTable, error) {
	s, err := a.text(col)
	if err != nil {
		return nil, err
	}
	return tables.FromColumns([]string{col}, []columns.Column{s.Map(fn)})
}

func (a Accessor) mapBool(col string, fn func(string) bool) (*tables.DataTable, error) {
	s, err := a.text(col)
	if err != nil {
		return nil, err
	}
	out := make([]bool, s.Length())
	for i := range out {
		if v, ok := s.At(i); ok {
			out[i] = fn(v)
		}
	}
	return tables.FromColumns([]string{col}, []columns.Column{columns.NewBoolColumn(out)})
}

// mapInt produces an int column, or a float column with NaN at the nulls
// when the input has any.
func (a Accessor) mapInt(col string, fn func(string) int) (*tables.DataTable, error) {
	s, err := a.text(col)
	if err != nil {
		return nil, err
	}
	var out columns.Column
	if s.HasNulls() {
		v := make([]float64, s.Length())
		for i := range v {
			if x, ok := s.At(i); ok {
				v[i] = float64(fn(x))
			} else {
				v[i] = math.NaN()
			}
		}
		out = columns.NewFloat64Column(v)
	} else {
		v := make([]int64, s.Length())
		for i := range v {
			x, _ := s.At(i)
			v[i] = int64(fn(x))
		}
		out = columns.NewInt64Column(v)
	}
	return tables.FromColumns([]string{col}, []columns.Column{out})
}

// Capitalize upper-cases the first character and lower-cases the rest.
func (a Accessor) Capitalize(col string) (*tables.DataTable, error) {
	lower := cases.Lower(language.Und)
	return a.mapText(col, func(s string) string {
		r, size := utf8.DecodeRuneInString(s)
		if size == 0 {
			return s
		}
		return string(unicode.ToUpper(r)) + lower.String(s[size:])
	})
}

// Center pads each value on both sides with fill to width runes.
func (a Accessor) Center(col string, width int, fill rune) (*tables.DataTable, error) {
	return a.mapText(col, func(s string) string {
		n := utf8.RuneCountInString(s)
		if n >= width {
			return s
		}
		total := width - n
		left := total / 2
		if total%2 == 1 && width%2 == 1 {
			left++
		}
		return strings.Repeat(string(fill), left) + s + strings.Repeat(string(fill), total-left)
	})
}

// Count counts non-overlapping occurrences of sub.
func (a Accessor) Count(col, sub string) (*tables.DataTable, error) {
	return a.mapInt(col, func(s string) int {
		if sub == "" {
			return utf8.RuneCountInString(s) + 1
		}
		return strings.Count(s, sub)
	})
}

func (a Accessor) EndsWith(col, suffix string) (*tables.DataTable, error) {
	return a.mapBool(col, func(s string) bool { return strings.HasSuffix(s, suffix) })
}

func (a Accessor) StartsWith(col, prefix string) (*tables.DataTable, error) {
	return a.mapBool(col, func(s string) bool { return strings.HasPrefix(s, prefix) })
}

// Find returns the rune position of the first occurrence of sub, or -1.
func (a Accessor) Find(col, sub string) (*tables.DataTable, error) {
	return a.mapInt(col, func(s string) int { return runeIndex(s, sub) })
}

// Index is like Find but fails when any value lacks sub.
func (a Accessor) Index(col, sub string) (*tables.DataTable, error) {
	s, err := a.text(col)
	if err != nil {
		return nil, err
	}
	for i := 0; i < s.Length(); i++ {
		if v, ok := s.At(i); ok && !strings.Contains(v, sub) {
			return nil, fmt.Errorf("strs: %w: substring %q not found in row %d", tables.ErrValue, sub, i)
		}
	}
	return a.Find(col, sub)
}

func runeIndex(s, sub string) int {
	i := strings.Index(s, sub)
	if i < 0 {
		return -1
	}
	return utf8.RuneCountInString(s[:i])
}

// Len returns the number of characters of each value.
func (a Accessor) Len(col string) (*tables.DataTable, error) {
	return a.mapInt(col, utf8.RuneCountInString)
}

// Get returns the character at position i; negative positions count from
// the end. Values too short to have one become null.
func (a Accessor) Get(col string, i int) (*tables.DataTable, error) {
	s, err := a.text(col)
	if err != nil {
		return nil, err
	}
	n := s.Length()
	data := make([]string, n)
	null := make([]bool, n)
	for r := 0; r < n; r++ {
		v, ok := s.At(r)
		runes := []rune(v)
		pos := i
		if pos < 0 {
			pos += len(runes)
		}
		if !ok || pos < 0 || pos >= len(runes) {
			null[r] = true
			continue
		}
		data[r] = string(runes[pos])
	}
	return tables.FromColumns([]string{col}, []columns.Column{columns.NewStringColumnWithNulls(data, null)})
}

func allRunes(s string, pred func(rune) bool) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !pred(r) {
			return false
		}
	}
	return true
}

func (a Accessor) IsAlnum(col string) (*tables.DataTable, error) {
	return a.mapBool(col, func(s string) bool {
		return allRunes(s, func(r rune) bool { return unicode.IsLetter(r) || unicode.IsNumber(r) })
	})
}

func (a Accessor) IsAlpha(col string) (*tables.DataTable, error) {
	return a.mapBool(col, func(s string) bool { return allRunes(s, unicode.IsLetter) })
}

func (a Accessor) IsDecimal(col string) (*tables.DataTable, error) {
	return a.mapBool(col, func(s string) bool { return allRunes(s, unicode.IsDigit) })
}

func (a Accessor) IsNumeric(col string) (*tables.DataTable, error) {
	return a.mapBool(col, func(s string) bool { return allRunes(s, unicode.IsNumber) })
}

func (a Accessor) IsSpace(col string) (*tables.DataTable, error) {
	return a.mapBool(col, func(s string) bool { return allRunes(s, unicode.IsSpace) })
}

// IsLower reports whether every cased character is lower case and there is
// at least one.
func (a Accessor) IsLower(col string) (*tables.DataTable, error) {
	return a.mapBool(col, func(s string) bool { return hasCased(s) && s == strings.ToLower(s) })
}

func (a Accessor) IsUpper(col string) (*tables.DataTable, error) {
	return a.mapBool(col, func(s string) bool { return hasCased(s) && s == strings.ToUpper(s) })
}

func (a Accessor) IsTitle(col string) (*tables.DataTable, error) {
	title := cases.Title(language.Und)
	return a.mapBool(col, func(s string) bool { return hasCased(s) && s == title.String(s) })
}

func hasCased(s string) bool {
	for _, r := range s {
		if unicode.IsUpper(r) || unicode.IsLower(r) || unicode.IsTitle(r) {
			return true
		}
	}
	return false
}

// LStrip removes leading characters in chars; empty chars strips white space.
func (a Accessor) LStrip(col, chars string) (*tables.DataTable, error) {
	return a.mapText(col, func(s string) string {
		if chars == "" {
			return strings.TrimLeftFunc(s, unicode.IsSpace)
		}
		return strings.TrimLeft(s, chars)
	})
}

func (a Accessor) RStrip(col, chars string) (*tables.DataTable, error) {
	return a.mapText(col, func(s string) string {
		if chars == "" {
			return strings.TrimRightFunc(s, unicode.IsSpace)
		}
		return strings.TrimRight(s, chars)
	})
}

func (a Accessor) Strip(col, chars string) (*tables.DataTable, error) {
	return a.mapText(col, func(s string) string {
		if chars == "" {
			return strings.TrimSpace(s)
		}
		return strings.Trim(s, chars)
	})
}

// Replace replaces the first n occurrences of old; n < 0 replaces all.
func (a Accessor) Replace(col, old, repl string, n int) (*tables.DataTable, error) {
	return a.mapText(col, func(s string) string { return strings.Replace(s, old, repl, n) })
}

func (a Accessor) SwapCase(col string) (*tables.DataTable, error) {
	return a.mapText(col, func(s string) string {
		return strings.Map(func(r rune) rune {
			switch {
			case unicode.IsUpper(r):
				return unicode.ToLower(r)
			case unicode.IsLower(r):
				return unicode.ToUpper(r)
			}
			return r
		}, s)
	})
}

func (a Accessor) Title(col string) (*tables.DataTable, error) {
	return a.mapText(col, cases.Title(language.Und).String)
}

func (a Accessor) Lower(col string) (*tables.DataTable, error) {
	return a.mapText(col, cases.Lower(language.Und).String)
}

func (a Accessor) Upper(col string) (*tables.DataTable, error) {
	return a.mapText(col, cases.Upper(language.Und).String)
}

// ZFill pads each value on the left with zeros to width characters, after
// any leading sign.
func (a Accessor) ZFill(col string, width int) (*tables.DataTable, error) {
	return a.mapText(col, func(s string) string {
		n := utf8.RuneCountInString(s)
		if n >= width {
			return s
		}
		pad := strings.Repeat("0", width-n)
		if s != "" && (s[0] == '+' || s[0] == '-') {
			return s[:1] + pad + s[1:]
		}
		return pad + s
	})
}
