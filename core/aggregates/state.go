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
)

// NumericAggState stores intermediate state for numeric aggregates.
// States built over disjoint inputs can be merged with Combine, so a
// reduction may be split across partitions and joined afterwards.
type NumericAggState struct {
	Count int64   // Number of values
	Sum   float64 // Sum of values
	mean  float64
	m2    float64 // sum of squared deviations from mean
	nan   bool
}

// NewNumericAggState creates a new empty numeric aggregate state.
func NewNumericAggState() *NumericAggState {
	return &NumericAggState{}
}

// Add adds a single value to the aggregate state.
func (s *NumericAggState) Add(value float64) {
	if math.IsNaN(value) {
		s.nan = true
	}
	s.Count++
	s.Sum += value
	delta := value - s.mean
	s.mean += delta / float64(s.Count)
	s.m2 += delta * (value - s.mean)
}

// AddAll adds every value in values.
func (s *NumericAggState) AddAll(values []float64) {
	for _, v := range values {
		s.Add(v)
	}
}

// Combine merges another state into this one.
func (s *NumericAggState) Combine(o *NumericAggState) {
	if o == nil || o.Count == 0 {
		return
	}
	if s.Count == 0 {
		*s = *o
		return
	}
	n := s.Count + o.Count
	delta := o.mean - s.mean
	s.m2 += o.m2 + delta*delta*float64(s.Count)*float64(o.Count)/float64(n)
	s.mean += delta * float64(o.Count) / float64(n)
	s.Count = n
	s.Sum += o.Sum
	s.nan = s.nan || o.nan
}

// Mean returns the arithmetic mean, NaN when empty or when any value is NaN.
func (s *NumericAggState) Mean() float64 {
	if s.Count == 0 || s.nan {
		return math.NaN()
	}
	return s.Sum / float64(s.Count)
}

// Variance returns the population variance.
func (s *NumericAggState) Variance() float64 {
	if s.Count == 0 || s.nan {
		return math.NaN()
	}
	v := s.m2 / float64(s.Count)
	if v < 0 {
		// Handle floating point precision issues
		v = 0
	}
	return v
}

// StdDev returns the population standard deviation.
func (s *NumericAggState) StdDev() float64 {
	return math.Sqrt(s.Variance())
}
