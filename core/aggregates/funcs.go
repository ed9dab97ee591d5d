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

// Package aggregates holds the closed set of aggregation functions shared by
// table reductions and group-by/pivot summaries, and applies them to columns.
package aggregates

import (
	"fmt"
	"strings"
)

// Func is an aggregation function. The set is closed; every consumer
// dispatches on it with a single switch.
type Func int

const (
	// None is the zero value and means no aggregation was chosen.
	None Func = iota
	Min
	Max
	Mean
	Median
	Sum
	Var
	Std
	All
	Any
	ArgMax
	ArgMin
	// Size counts rows, including missing values.
	Size
	// Count counts non-missing values.
	Count
	First
	Last
	NUnique
)

var funcNames = [...]string{
	None:    "",
	Min:     "min",
	Max:     "max",
	Mean:    "mean",
	Median:  "median",
	Sum:     "sum",
	Var:     "var",
	Std:     "std",
	All:     "all",
	Any:     "any",
	ArgMax:  "argmax",
	ArgMin:  "argmin",
	Size:    "size",
	Count:   "count",
	First:   "first",
	Last:    "last",
	NUnique: "nunique",
}

// String returns the name of the function, which is also the name of the
// value column produced by a row-keyed group-by.
func (f Func) String() string {
	if !f.Valid() {
		return fmt.Sprintf("Func(%d)", int(f))
	}
	return funcNames[f]
}

// Valid reports whether f is one of the declared functions.
func (f Func) Valid() bool {
	return f > None && int(f) < len(funcNames)
}

// IsReduction reports whether f is one of the whole-column reductions a
// table exposes directly (min through argmin).
func (f Func) IsReduction() bool {
	return f >= Min && f <= ArgMin
}

// Doc returns a one-line description of the function.
func (f Func) Doc() string {
	switch f {
	case Size:
		return "Count the rows of each group"
	case Count:
		return "Count the non-missing values of each column"
	case First, Last:
		return fmt.Sprintf("Take the %s value of each column", f)
	case NUnique:
		return "Count the distinct values of each column"
	default:
		return fmt.Sprintf("Find the %s of each column", f)
	}
}

// Parse resolves an aggregation name such as "sum" or "argmax".
func Parse(name string) (Func, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	for f, fn := range funcNames {
		if f != int(None) && fn == n {
			return Func(f), nil
		}
	}
	return 0, fmt.Errorf("unknown aggregation %q (valid: %s)", name, strings.Join(Names(), ", "))
}

// Names returns the names of every aggregation, in declaration order.
func Names() []string {
	return append([]string(nil), funcNames[None+1:]...)
}

// Reductions returns the whole-column reductions, in declaration order.
func Reductions() []Func {
	out := make([]Func, 0, int(ArgMin))
	for f := Min; f <= ArgMin; f++ {
		out = append(out, f)
	}
	return out
}
