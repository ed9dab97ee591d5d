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

package models

import (
	"sort"

	"github.com/google/tabulae/core/columns"
	"github.com/google/tabulae/core/tables"
)

// System table name constants
const (
	ColumnsTableName = "_columns"
)

var systemTables = map[string]func(*DataModel) *tables.DataTable{
	ColumnsTableName: BuildColumnsTable,
}

// IsSystemTable reports whether name is reserved for a system table.
func IsSystemTable(name string) bool {
	_, ok := systemTables[name]
	return ok
}

// SystemTableNames returns the system table names in sorted order.
func SystemTableNames() []string {
	names := make([]string, 0, len(systemTables))
	for name := range systemTables {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// BuildColumnsTable creates a system table containing metadata about all columns
// in the DataModel. Each row represents one column from any table.
//
// Schema:
//   - table_name: string - The table this column belongs to
//   - column_name: string - The column's name
//   - kind: string - bool, int, float or string
//   - position: int - Column index within the table
//   - row_count: int - Number of rows in the column
//   - missing: int - Number of missing values
//   - nunique: int - Number of distinct values
//   - is_key: bool - Whether every value is present and distinct
func BuildColumnsTable(dm *DataModel) *tables.DataTable {
	var (
		tableNames, columnNames, kinds []string
		positions, rowCounts, missing  []int64
		nunique                        []int64
		isKey                          []bool
	)

	all := dm.GetAllTables()
	for _, tableName := range dm.TableNames() {
		table := all[tableName]
		for position, colName := range table.Columns() {
			col := table.GetColumn(colName)
			na := int64(0)
			for i := 0; i < col.Length(); i++ {
				if col.IsNA(i) {
					na++
				}
			}
			distinct := countDistinct(table, colName)

			tableNames = append(tableNames, tableName)
			columnNames = append(columnNames, colName)
			kinds = append(kinds, col.Kind().String())
			positions = append(positions, int64(position))
			rowCounts = append(rowCounts, int64(col.Length()))
			missing = append(missing, na)
			nunique = append(nunique, distinct)
			isKey = append(isKey, na == 0 && distinct == int64(col.Length()))
		}
	}

	return tables.MustNew(
		tables.Field{Name: "table_name", Values: orEmpty(tableNames)},
		tables.Field{Name: "column_name", Values: orEmpty(columnNames)},
		tables.Field{Name: "kind", Values: orEmpty(kinds)},
		tables.Field{Name: "position", Values: columns.NewInt64Column(positions)},
		tables.Field{Name: "row_count", Values: columns.NewInt64Column(rowCounts)},
		tables.Field{Name: "missing", Values: columns.NewInt64Column(missing)},
		tables.Field{Name: "nunique", Values: columns.NewInt64Column(nunique)},
		tables.Field{Name: "is_key", Values: columns.NewBoolColumn(isKey)},
	)
}

// countDistinct counts the distinct values of one column.
func countDistinct(t *tables.DataTable, name string) int64 {
	col, err := t.Get(name)
	if err != nil {
		return 0
	}
	return col.NUnique().GetColumn(name).Value(0).(int64)
}

func orEmpty(s []string) columns.Column {
	return columns.NewStringColumn(append([]string{}, s...))
}
