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

package query

import (
	"errors"
	"net/url"
	"testing"

	"github.com/google/tabulae/core/tables"
)

func mustParse(t *testing.T, raw string) *Query {
	t.Helper()
	u, err := url.Parse(raw)
	if err != nil {
		t.Fatal(err)
	}
	return NewQuery(u)
}

func esc(s string) string {
	return url.QueryEscape(s)
}

func salesTable() *tables.DataTable {
	return tables.MustNew(
		tables.Field{Name: "region", Values: []string{"east", "west", "east", "west"}},
		tables.Field{Name: "year", Values: []int{2023, 2023, 2024, 2024}},
		tables.Field{Name: "amount", Values: []float64{10, 20, 30, 40}},
	)
}

func TestNewQuery(t *testing.T) {
	q := mustParse(t, "/table?table=sales&columns=region,amount&sort=region,-amount&limit=5&filter:year=2024&rows=region&cols=year&values=amount&agg=sum")

	if q.Path != "/table" || q.Table != "sales" {
		t.Errorf("path/table = %q/%q", q.Path, q.Table)
	}
	if !equalStringSlices(q.Columns, []string{"region", "amount"}) {
		t.Errorf("Columns = %v", q.Columns)
	}
	wantSort := []tables.SortKey{{Column: "region"}, {Column: "amount", Descending: true}}
	if len(q.Sort) != len(wantSort) || q.Sort[0] != wantSort[0] || q.Sort[1] != wantSort[1] {
		t.Errorf("Sort = %v, want %v", q.Sort, wantSort)
	}
	if q.Limit != 5 {
		t.Errorf("Limit = %d, want 5", q.Limit)
	}
	if q.Filters["year"] != "2024" {
		t.Errorf("Filters = %v", q.Filters)
	}
	if q.Rows != "region" || q.PivotColumns != "year" || q.Values != "amount" || q.Agg != "sum" {
		t.Errorf("pivot = %q %q %q %q", q.Rows, q.PivotColumns, q.Values, q.Agg)
	}
}

func TestNewQueryDefaults(t *testing.T) {
	q := mustParse(t, "/table?limit=-3")
	if q.Limit != DefaultLimit {
		t.Errorf("Limit = %d, want %d", q.Limit, DefaultLimit)
	}
	if len(q.Columns) != 0 || len(q.Sort) != 0 || q.IsPivot() {
		t.Errorf("unexpected state %+v", q)
	}
	if !q.IsColumnVisible("anything") {
		t.Error("every column should be visible without a columns parameter")
	}
}

func TestRoundTrip(t *testing.T) {
	q := mustParse(t, "/table?columns=a,b&sort=-b&limit=10&filter:a=x")
	again := mustParse(t, q.ToSafeURL().String())
	if !equalStringSlices(again.Columns, q.Columns) || again.Limit != 10 || again.Filters["a"] != "x" {
		t.Errorf("round trip lost state: %+v", again)
	}
	if len(again.Sort) != 1 || again.Sort[0] != (tables.SortKey{Column: "b", Descending: true}) {
		t.Errorf("Sort = %v", again.Sort)
	}
}

func TestExpressions(t *testing.T) {
	q := mustParse(t, "/table?computed="+esc("double=amount * 2")+"&computed="+esc("label = region.upper()")+
		"&computed=broken&where="+esc("double > 30"))
	want := []Computed{{Name: "double", Expr: "amount * 2"}, {Name: "label", Expr: " region.upper()"}}
	if len(q.Computed) != len(want) || q.Computed[0] != want[0] || q.Computed[1] != want[1] {
		t.Errorf("Computed = %q, want %q", q.Computed, want)
	}
	if q.Where != "double > 30" {
		t.Errorf("Where = %q", q.Where)
	}

	again := mustParse(t, q.ToURL())
	if len(again.Computed) != 2 || again.Computed[0] != want[0] || again.Computed[1] != want[1] || again.Where != q.Where {
		t.Errorf("round trip lost expressions: %+v", again)
	}

	cleared := mustParse(t, q.WithWhere("").String())
	if cleared.Where != "" || len(cleared.Computed) != 2 {
		t.Errorf("WithWhere(\"\") = %+v", cleared)
	}
	if q.Where != "double > 30" {
		t.Errorf("WithWhere modified the receiver")
	}
}

func TestWithSortToggled(t *testing.T) {
	tests := []struct {
		start string
		want  []tables.SortKey
	}{
		{"/table", []tables.SortKey{{Column: "a"}}},
		{"/table?sort=a", []tables.SortKey{{Column: "a", Descending: true}}},
		{"/table?sort=-a", nil},
		{"/table?sort=b", []tables.SortKey{{Column: "a"}, {Column: "b"}}},
	}
	for _, tt := range tests {
		q := mustParse(t, tt.start)
		next := mustParse(t, q.WithSortToggled("a").String())
		if len(next.Sort) != len(tt.want) {
			t.Errorf("%s: Sort = %v, want %v", tt.start, next.Sort, tt.want)
			continue
		}
		for i := range tt.want {
			if next.Sort[i] != tt.want[i] {
				t.Errorf("%s: Sort = %v, want %v", tt.start, next.Sort, tt.want)
			}
		}
	}
}

func TestWithColumnToggled(t *testing.T) {
	q := mustParse(t, "/table?columns=a,b")
	removed := mustParse(t, q.WithColumnToggled("a").String())
	if !equalStringSlices(removed.Columns, []string{"b"}) {
		t.Errorf("Columns = %v, want [b]", removed.Columns)
	}
	added := mustParse(t, q.WithColumnToggled("c").String())
	if !equalStringSlices(added.Columns, []string{"a", "b", "c"}) {
		t.Errorf("Columns = %v, want [a b c]", added.Columns)
	}
	if !equalStringSlices(q.Columns, []string{"a", "b"}) {
		t.Errorf("toggle modified the receiver: %v", q.Columns)
	}
}

func TestFilterLinks(t *testing.T) {
	q := mustParse(t, "/table")
	with := mustParse(t, q.WithFilter("region", "east").String())
	if with.Filters["region"] != "east" {
		t.Errorf("Filters = %v", with.Filters)
	}
	without := mustParse(t, with.WithoutFilter("region").String())
	if _, ok := without.Filters["region"]; ok {
		t.Errorf("Filters = %v", without.Filters)
	}
	if got := mustParse(t, q.WithLimit(0).String()).Limit; got != 0 {
		t.Errorf("Limit = %d, want 0", got)
	}
}

func TestApply(t *testing.T) {
	tests := []struct {
		name string
		url  string
		want *tables.DataTable
	}{
		{
			name: "filter select and sort",
			url:  "/table?filter:region=west&columns=amount,year&sort=-amount",
			want: tables.MustNew(
				tables.Field{Name: "amount", Values: []float64{40, 20}},
				tables.Field{Name: "year", Values: []int{2024, 2023}},
			),
		},
		{
			name: "numeric filter",
			url:  "/table?filter:year=2023&columns=region",
			want: tables.MustNew(tables.Field{Name: "region", Values: []string{"east", "west"}}),
		},
		{
			name: "computed column and where",
			url:  "/table?computed=" + esc("double=amount * 2") + "&where=" + esc("double > 30") + "&columns=region,double",
			want: tables.MustNew(
				tables.Field{Name: "region", Values: []string{"west", "east", "west"}},
				tables.Field{Name: "double", Values: []float64{40, 60, 80}},
			),
		},
		{
			name: "sort by computed column",
			url:  "/table?computed=" + esc("neg=-amount") + "&sort=neg&columns=amount",
			want: tables.MustNew(tables.Field{Name: "amount", Values: []float64{40, 30, 20, 10}}),
		},
		{
			name: "where with filter",
			url:  "/table?filter:region=east&where=" + esc("year > 2023 or amount < 5") + "&columns=amount",
			want: tables.MustNew(tables.Field{Name: "amount", Values: []float64{30}}),
		},
		{
			name: "group by",
			url:  "/table?rows=region&values=amount&agg=sum&sort=-sum",
			want: tables.MustNew(
				tables.Field{Name: "region", Values: []string{"west", "east"}},
				tables.Field{Name: "sum", Values: []float64{60, 40}},
			),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := mustParse(t, tt.url).Apply(salesTable())
			if err != nil {
				t.Fatal(err)
			}
			if !got.Equal(tt.want) {
				t.Errorf("Apply = %v %v, want %v", got.Columns(), got.Values(), tt.want.Values())
			}
		})
	}
}

func TestApplyErrors(t *testing.T) {
	tests := []struct {
		url  string
		kind error
	}{
		{"/table?columns=nope", tables.ErrKey},
		{"/table?sort=nope", tables.ErrKey},
		{"/table?filter:nope=1", tables.ErrKey},
		{"/table?values=amount&agg=sum", nil},
		{"/table?rows=region&values=amount", tables.ErrValue},
		{"/table?where=amount", tables.ErrType},
		{"/table?where=" + esc("region.len() > year.len()"), tables.ErrType},
		{"/table?computed=" + esc("x=nope + 1"), tables.ErrKey},
	}
	for _, tt := range tests {
		_, err := mustParse(t, tt.url).Apply(salesTable())
		if tt.kind == nil {
			if err != nil {
				t.Errorf("%s: unexpected error %v", tt.url, err)
			}
			continue
		}
		if !errors.Is(err, tt.kind) {
			t.Errorf("%s: err = %v, want %v", tt.url, err, tt.kind)
		}
	}

	if _, err := mustParse(t, "/table?filter:year=abc").Apply(salesTable()); err == nil {
		t.Error("expected an error for an unparsable filter value")
	}
	if _, err := mustParse(t, "/table?rows=region&values=amount&agg=bogus").Apply(salesTable()); err == nil {
		t.Error("expected an error for an unknown aggregation")
	}
	if _, err := mustParse(t, "/table?where="+esc("amount >")).Apply(salesTable()); err == nil {
		t.Error("expected an error for a malformed where condition")
	}
}

// equalStringSlices compares two string slices for equality
func equalStringSlices(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
