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

package tables

// Get is the bracket-style entry point. It converts plain Go values into
// selector variants and resolves them:
//
//	t.Get("a")                       // one column
//	t.Get([]string{"a", "b"})        // several columns
//	t.Get(mask)                      // boolean row filter
//	t.Get(1, "b")                    // row 1, column b
//	t.Get([]int{0, 2}, tables.All()) // rows 0 and 2, every column
//	t.Get(tables.Slice{Stop: 3}, tables.Slice{Start: "a", Stop: "c"})
//
// One item is unwrapped and treated as a single selector; two items are a
// row and a column selection. Any other number of items is a value error.
func (dt *DataTable) Get(items ...any) (*DataTable, error) {
	switch len(items) {
	case 1:
		sel, err := toSelector(items[0])
		if err != nil {
			return nil, err
		}
		return dt.Select(sel)
	case 2:
		rows, err := toRowSelector(items[0])
		if err != nil {
			return nil, err
		}
		cols, err := toColSelector(items[1])
		if err != nil {
			return nil, err
		}
		return dt.Select(ByPosition{Rows: rows, Cols: cols})
	}
	return nil, valueError("select", "pass either a single selector or a row and column selection, got %d items", len(items))
}

func toSelector(item any) (Selector, error) {
	switch v := item.(type) {
	case Selector:
		return v, nil
	case string:
		return ByName(v), nil
	case []string:
		return ByNames(v), nil
	case []any:
		names := make(ByNames, len(v))
		for i, x := range v {
			s, ok := x.(string)
			if !ok {
				return nil, typeError("select", "column list items must be strings, got %T", x)
			}
			names[i] = s
		}
		return names, nil
	case *DataTable:
		return ByMask{Mask: v}, nil
	}
	return nil, typeError("select", "select with a string, a list of strings, a boolean table, or a row and column selection; got %T", item)
}

func toRowSelector(item any) (RowSelector, error) {
	switch v := item.(type) {
	case RowSelector:
		return v, nil
	case int:
		return RowInt(v), nil
	case []int:
		return RowList(v), nil
	case Slice:
		return RowSlice(v), nil
	case *DataTable:
		return RowMask{Mask: v}, nil
	}
	return nil, typeError("select", "row selection must be an int, slice, list or table, got %T", item)
}

func toColSelector(item any) (ColSelector, error) {
	switch v := item.(type) {
	case ColSelector:
		return v, nil
	case int:
		return ColInt(v), nil
	case string:
		return ColName(v), nil
	case []any:
		return ColList(v), nil
	case []string:
		list := make(ColList, len(v))
		for i, s := range v {
			list[i] = s
		}
		return list, nil
	case []int:
		list := make(ColList, len(v))
		for i, p := range v {
			list[i] = p
		}
		return list, nil
	case Slice:
		return ColSlice(v), nil
	}
	return nil, typeError("select", "column selection must be an int, string, list or slice, got %T", item)
}
