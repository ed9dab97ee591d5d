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

// Package query parses the state of a table view from its URL and applies
// it to a table: computed columns, filters, an optional pivot, column
// selection and sorting.
package query

import (
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/google/safehtml"
	"github.com/google/tabulae/core/aggregates"
	"github.com/google/tabulae/core/columns"
	"github.com/google/tabulae/core/expr"
	"github.com/google/tabulae/core/tables"
)

// DefaultLimit is the row limit used when the URL does not carry one.
const DefaultLimit = 25

// Query represents the parsed state of a table view URL
type Query struct {
	// Base path (e.g., "/table")
	Path string

	Table   string            // The table being viewed
	Columns []string          // Ordered list of visible columns (empty = all)
	Sort    []tables.SortKey  // Sort keys, most significant first
	Filters map[string]string // Equality filters (columnName -> value)
	Limit   int               // Number of rows to display (0 = show all)

	Computed []Computed // Columns added by expressions, in order
	Where    string     // Boolean expression rows must satisfy

	// Pivot parameters. Rows and/or PivotColumns enable the pivot.
	Rows         string
	PivotColumns string
	Values       string
	Agg          string
}

// Computed is a column defined by an expression over the table, written
// computed=name=expression in the URL.
type Computed struct {
	Name string
	Expr string
}

// NewQuery creates a Query from a URL
func NewQuery(u *url.URL) *Query {
	return NewQueryWithLimit(u, DefaultLimit)
}

// NewQueryWithLimit is NewQuery with a configurable default row limit.
func NewQueryWithLimit(u *url.URL, defaultLimit int) *Query {
	state := &Query{
		Path:    u.Path,
		Filters: make(map[string]string),
		Limit:   defaultLimit,
	}

	q := u.Query()
	state.Table = q.Get("table")
	state.Columns = splitList(q.Get("columns"))

	// sort=a,-b sorts by a ascending, then b descending
	for _, part := range splitList(q.Get("sort")) {
		key := tables.SortKey{Column: part}
		if strings.HasPrefix(part, "-") {
			key = tables.SortKey{Column: part[1:], Descending: true}
		}
		if key.Column != "" {
			state.Sort = append(state.Sort, key)
		}
	}

	if limitStr := q.Get("limit"); limitStr != "" {
		if limit, err := strconv.Atoi(limitStr); err == nil && limit >= 0 {
			state.Limit = limit
		}
	}

	// Extract filter parameters (format: filter:columnName=value)
	for key, values := range q {
		if strings.HasPrefix(key, "filter:") && len(values) > 0 {
			state.Filters[strings.TrimPrefix(key, "filter:")] = values[0]
		}
	}

	for _, def := range q["computed"] {
		name, source, ok := strings.Cut(def, "=")
		name = strings.TrimSpace(name)
		if ok && name != "" && source != "" {
			state.Computed = append(state.Computed, Computed{Name: name, Expr: source})
		}
	}
	state.Where = q.Get("where")

	state.Rows = q.Get("rows")
	state.PivotColumns = q.Get("cols")
	state.Values = q.Get("values")
	state.Agg = q.Get("agg")
	return state
}

func splitList(s string) []string {
	if s == "" {
		return []string{}
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Clone creates a deep copy of the Query
func (s *Query) Clone() *Query {
	clone := *s
	clone.Columns = append([]string{}, s.Columns...)
	clone.Sort = append([]tables.SortKey(nil), s.Sort...)
	clone.Computed = append([]Computed(nil), s.Computed...)
	clone.Filters = make(map[string]string, len(s.Filters))
	for colName, filterValue := range s.Filters {
		clone.Filters[colName] = filterValue
	}
	return &clone
}

// IsPivot reports whether the query summarizes the table.
func (s *Query) IsPivot() bool {
	return s.Rows != "" || s.PivotColumns != ""
}

// Apply runs the query against t: computed columns first, then equality
// filters and the where condition, then the pivot, the sort and finally
// column selection, so rows may be sorted by a hidden column. Row limiting
// is left to the view so that the total row count stays available. t itself
// is never modified.
func (s *Query) Apply(t *tables.DataTable) (*tables.DataTable, error) {
	var err error
	for _, c := range s.Computed {
		if t, err = expr.WithColumn(t, c.Name, c.Expr); err != nil {
			return nil, fmt.Errorf("computed %s: %w", c.Name, err)
		}
	}

	names := make([]string, 0, len(s.Filters))
	for name := range s.Filters {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if t, err = applyFilter(t, name, s.Filters[name]); err != nil {
			return nil, err
		}
	}
	if s.Where != "" {
		if t, err = expr.Where(t, s.Where); err != nil {
			return nil, fmt.Errorf("where: %w", err)
		}
	}

	if s.IsPivot() {
		agg := aggregates.None
		if s.Agg != "" {
			if agg, err = aggregates.Parse(s.Agg); err != nil {
				return nil, err
			}
		}
		t, err = t.PivotTable(tables.PivotOptions{
			Rows:    s.Rows,
			Columns: s.PivotColumns,
			Values:  s.Values,
			Agg:     agg,
		})
		if err != nil {
			return nil, err
		}
	}

	if len(s.Sort) > 0 {
		if t, err = t.SortBy(s.Sort); err != nil {
			return nil, err
		}
	}

	if len(s.Columns) > 0 {
		if t, err = t.Select(tables.ByNames(s.Columns)); err != nil {
			return nil, err
		}
	}
	return t, nil
}

// applyFilter keeps the rows where column name equals value, with value
// parsed according to the column's kind.
func applyFilter(t *tables.DataTable, name, value string) (*tables.DataTable, error) {
	col, err := t.Get(name)
	if err != nil {
		return nil, err
	}
	var scalar any
	switch col.GetColumn(name).Kind() {
	case columns.Bool:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return nil, fmt.Errorf("filter %s: %w", name, err)
		}
		scalar = b
	case columns.Int:
		i, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("filter %s: %w", name, err)
		}
		scalar = i
	case columns.Float:
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return nil, fmt.Errorf("filter %s: %w", name, err)
		}
		scalar = f
	default:
		scalar = value
	}
	mask, err := col.Eq(scalar)
	if err != nil {
		return nil, err
	}
	return t.Select(tables.ByMask{Mask: mask})
}

// SortDirection reports whether column is a sort key and, if so, whether it
// sorts descending.
func (s *Query) SortDirection(column string) (sorted, descending bool) {
	for _, k := range s.Sort {
		if k.Column == column {
			return true, k.Descending
		}
	}
	return false, false
}

// WithSortToggled returns a URL that cycles column through ascending,
// descending and unsorted. A newly sorted column becomes the primary key.
func (s *Query) WithSortToggled(column string) safehtml.URL {
	newState := s.Clone()
	sorted, desc := s.SortDirection(column)
	keys := make([]tables.SortKey, 0, len(s.Sort)+1)
	switch {
	case !sorted:
		keys = append(keys, tables.SortKey{Column: column})
	case !desc:
		keys = append(keys, tables.SortKey{Column: column, Descending: true})
	}
	for _, k := range s.Sort {
		if k.Column != column {
			keys = append(keys, k)
		}
	}
	newState.Sort = keys
	return newState.ToSafeURL()
}

// WithColumnToggled returns a URL with the column toggled (added if not present, removed if present)
func (s *Query) WithColumnToggled(column string) safehtml.URL {
	newState := s.Clone()
	found := false
	newColumns := make([]string, 0, len(s.Columns))
	for _, col := range s.Columns {
		if col == column {
			found = true
		} else {
			newColumns = append(newColumns, col)
		}
	}

	if found {
		newState.Columns = newColumns
	} else {
		newState.Columns = append(newState.Columns, column)
	}
	return newState.ToSafeURL()
}

// WithFilter returns a URL that keeps only rows where column equals value.
func (s *Query) WithFilter(column, value string) safehtml.URL {
	newState := s.Clone()
	newState.Filters[column] = value
	return newState.ToSafeURL()
}

// WithoutFilter returns a URL with the filter on column removed.
func (s *Query) WithoutFilter(column string) safehtml.URL {
	newState := s.Clone()
	delete(newState.Filters, column)
	return newState.ToSafeURL()
}

// WithWhere returns a URL with the where condition replaced. An empty
// condition removes it.
func (s *Query) WithWhere(condition string) safehtml.URL {
	newState := s.Clone()
	newState.Where = condition
	return newState.ToSafeURL()
}

// WithLimit returns a URL with a different row limit
func (s *Query) WithLimit(limit int) safehtml.URL {
	newState := s.Clone()
	newState.Limit = limit
	return newState.ToSafeURL()
}

// IsColumnVisible checks if a column is in the visible columns list. An
// empty list shows every column.
func (s *Query) IsColumnVisible(column string) bool {
	if len(s.Columns) == 0 {
		return true
	}
	for _, col := range s.Columns {
		if col == column {
			return true
		}
	}
	return false
}

// ToURL converts the Query back to a URL string
func (s *Query) ToURL() string {
	u := &url.URL{Path: s.Path}
	q := u.Query()

	if s.Table != "" {
		q.Set("table", s.Table)
	}
	if len(s.Columns) > 0 {
		q.Set("columns", strings.Join(s.Columns, ","))
	}
	if len(s.Sort) > 0 {
		keys := make([]string, len(s.Sort))
		for i, k := range s.Sort {
			if k.Descending {
				keys[i] = "-" + k.Column
			} else {
				keys[i] = k.Column
			}
		}
		q.Set("sort", strings.Join(keys, ","))
	}
	for colName, filterValue := range s.Filters {
		q.Set("filter:"+colName, filterValue)
	}
	for _, c := range s.Computed {
		q.Add("computed", c.Name+"="+c.Expr)
	}
	if s.Where != "" {
		q.Set("where", s.Where)
	}
	for key, value := range map[string]string{"rows": s.Rows, "cols": s.PivotColumns, "values": s.Values, "agg": s.Agg} {
		if value != "" {
			q.Set(key, value)
		}
	}

	// Add limit parameter (always included in URL)
	q.Set("limit", strconv.Itoa(s.Limit))

	u.RawQuery = q.Encode()
	return u.String()
}

// ToSafeURL converts the Query to a safehtml.URL
func (s *Query) ToSafeURL() safehtml.URL {
	return safehtml.URLSanitized(s.ToURL())
}
