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

package rendering

import (
	"bytes"
	"math"
	"strings"
	"testing"

	"github.com/google/tabulae/core/tables"
)

func str(s string) *string { return &s }

func smallTable() *tables.DataTable {
	return tables.MustNew(
		tables.Field{Name: "a", Values: []int{1, 2}},
		tables.Field{Name: "b", Values: []float64{1.5, math.NaN()}},
		tables.Field{Name: "c", Values: []*string{str("x"), nil}},
	)
}

func longTable(n int) *tables.DataTable {
	vals := make([]int, n)
	for i := range vals {
		vals[i] = i * 100
	}
	return tables.MustNew(tables.Field{Name: "v", Values: vals})
}

func TestToASCII(t *testing.T) {
	want := strings.Join([]string{
		"+---+---+-------+------+",
		"|   | a | b     | c    |",
		"+---+---+-------+------+",
		"| 0 | 1 | 1.500 | x    |",
		"| 1 | 2 |   nan | None |",
		"+---+---+-------+------+",
		"",
	}, "\n")
	if got := ToASCII(smallTable()); got != want {
		t.Errorf("ToASCII =\n%s\nwant\n%s", got, want)
	}
}

func TestToASCIIElides(t *testing.T) {
	got := ToASCII(longTable(25))
	lines := strings.Split(strings.TrimSuffix(got, "\n"), "\n")
	// 3 border lines, header, 10 head rows, gap, 10 tail rows
	if len(lines) != 25 {
		t.Fatalf("got %d lines:\n%s", len(lines), got)
	}
	if !strings.Contains(lines[13], "...") {
		t.Errorf("line 13 = %q, want the gap row", lines[13])
	}
	if !strings.Contains(lines[14], "15") || !strings.Contains(lines[14], "1500") {
		t.Errorf("line 14 = %q, want row 15", lines[14])
	}
}

func TestDisplayWidth(t *testing.T) {
	tests := map[string]int{"": 0, "abc": 3, "日本": 4, "é": 1}
	for s, want := range tests {
		if got := displayWidth(s); got != want {
			t.Errorf("displayWidth(%q) = %d, want %d", s, got, want)
		}
	}
}

func TestRenderHTML(t *testing.T) {
	var buf bytes.Buffer
	if err := RenderHTML(&buf, smallTable()); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{"<th>a</th>", "<th>c</th>", "<td><strong>1</strong></td>", ">1.500</td>", ">nan</td>", "<td>None</td>", "<td>x</td>"} {
		if !strings.Contains(out, want) {
			t.Errorf("RenderHTML output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "...") {
		t.Errorf("short table should not be elided:\n%s", out)
	}
}

func TestRenderHTMLElides(t *testing.T) {
	tests := []struct {
		rows    int
		present []string
		absent  []string
	}{
		{20, []string{"<strong>19</strong>"}, []string{"<strong>...</strong>"}},
		{21, []string{"<strong>9</strong>", "<strong>...</strong>", "<strong>11</strong>", "<strong>20</strong>"}, []string{"<strong>10</strong>"}},
	}
	for _, tt := range tests {
		var buf bytes.Buffer
		if err := RenderHTML(&buf, longTable(tt.rows)); err != nil {
			t.Fatal(err)
		}
		out := buf.String()
		for _, s := range tt.present {
			if !strings.Contains(out, s) {
				t.Errorf("%d rows: missing %q", tt.rows, s)
			}
		}
		for _, s := range tt.absent {
			if strings.Contains(out, s) {
				t.Errorf("%d rows: unexpected %q", tt.rows, s)
			}
		}
	}
}

func TestRenderHTMLEscapes(t *testing.T) {
	dt := tables.MustNew(tables.Field{Name: "<b>", Values: []string{"<script>x</script>"}})
	var buf bytes.Buffer
	if err := RenderHTML(&buf, dt); err != nil {
		t.Fatal(err)
	}
	if strings.Contains(buf.String(), "<script>") || strings.Contains(buf.String(), "<b>") {
		t.Errorf("values were not escaped:\n%s", buf.String())
	}
}
