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

package csvimport

import (
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/tabulae/core/columns"
)

func TestImportBasicCSV(t *testing.T) {
	csvData := `name,age,score
Alice,30,1.5
Bob,25,2
Charlie,35,NaN`

	table, err := ImportFromReader(strings.NewReader(csvData), DefaultOptions())
	if err != nil {
		t.Fatalf("failed to import CSV: %v", err)
	}

	if table.Len() != 3 {
		t.Errorf("expected 3 rows, got %d", table.Len())
	}
	names := table.GetColumnNames()
	if len(names) != 3 || names[0] != "name" || names[2] != "score" {
		t.Errorf("unexpected columns %v", names)
	}

	wantKinds := map[string]columns.Kind{"name": columns.Text, "age": columns.Int, "score": columns.Float}
	for name, kind := range wantKinds {
		if got := table.GetColumn(name).Kind(); got != kind {
			t.Errorf("column %s: expected %v, got %v", name, kind, got)
		}
	}
	if got := table.GetColumn("name").GetString(0); got != "Alice" {
		t.Errorf("expected 'Alice', got '%s'", got)
	}
	if got := table.GetColumn("age").Value(1); got != int64(25) {
		t.Errorf("expected 25, got %v", got)
	}
	if !table.GetColumn("score").IsNA(2) {
		t.Errorf("expected NaN score in row 2")
	}
}

func TestImportWithoutHeader(t *testing.T) {
	csvData := `Alice,30,New York
Bob,25,Los Angeles`

	options := DefaultOptions()
	options.HasHeader = false
	table, err := ImportFromReader(strings.NewReader(csvData), options)
	if err != nil {
		t.Fatalf("failed to import CSV: %v", err)
	}

	col1 := table.GetColumn("column_1")
	if col1 == nil {
		t.Fatal("column_1 not found")
	}
	if val := col1.GetString(0); val != "Alice" {
		t.Errorf("expected 'Alice', got '%s'", val)
	}
	if table.GetColumn("column_2").Kind() != columns.Int {
		t.Errorf("column_2 should be int")
	}
}

func TestImportWithCsvColumnSource(t *testing.T) {
	csvData := `id,active,amount
1,yes,100
2,no,200`

	options := DefaultOptions()
	options.ColumnSources = map[string]CsvColumnSource{
		"id":     {Name: "order_id", Type: CsvColumnTypeString},
		"active": {Type: CsvColumnTypeBool},
		"amount": {Type: CsvColumnTypeFloat64},
	}
	table, err := ImportFromReader(strings.NewReader(csvData), options)
	if err != nil {
		t.Fatalf("failed to import CSV: %v", err)
	}

	idCol := table.GetColumn("order_id")
	if idCol == nil || idCol.Kind() != columns.Text {
		t.Fatalf("order_id should be a text column, got %v", idCol)
	}
	if got := table.GetColumn("active").Value(1); got != false {
		t.Errorf("expected false, got %v", got)
	}
	if got := table.GetColumn("amount").Value(0); got != 100.0 {
		t.Errorf("expected 100.0, got %v", got)
	}

	options.ColumnSources = map[string]CsvColumnSource{"active": {Type: CsvColumnTypeInt64}}
	if _, err := ImportFromReader(strings.NewReader(csvData), options); err == nil {
		t.Errorf("forcing int on text values should fail")
	}
}

func TestImportWithDelimiter(t *testing.T) {
	csvData := `name;age
Alice;30`

	options := DefaultOptions()
	options.Delimiter = ';'
	table, err := ImportFromReader(strings.NewReader(csvData), options)
	if err != nil {
		t.Fatalf("failed to import CSV: %v", err)
	}
	if len(table.GetColumnNames()) != 2 {
		t.Errorf("expected 2 columns, got %v", table.GetColumnNames())
	}
}

func TestImportEmptyCells(t *testing.T) {
	csvData := `a,b,c
1,x,2.5
,,3`

	table, err := ImportFromReader(strings.NewReader(csvData), DefaultOptions())
	if err != nil {
		t.Fatalf("failed to import CSV: %v", err)
	}
	if table.GetColumn("a").Kind() != columns.Text {
		t.Errorf("an empty cell keeps an int column as text by default")
	}
	if table.GetColumn("b").IsNA(1) {
		t.Errorf("empty text should not be null by default")
	}

	options := DefaultOptions()
	options.EmptyAsNull = true
	table, err = ImportFromReader(strings.NewReader(csvData), options)
	if err != nil {
		t.Fatalf("failed to import CSV: %v", err)
	}
	a := table.GetColumn("a")
	if a.Kind() != columns.Float || !math.IsNaN(a.Value(1).(float64)) {
		t.Errorf("column a should be float with NaN, got %v %v", a.Kind(), a.Value(1))
	}
	if !table.GetColumn("b").IsNA(1) {
		t.Errorf("empty text should be null with EmptyAsNull")
	}
	if table.GetColumn("c").Kind() != columns.Float {
		t.Errorf("column c should be float")
	}
}

func TestImportErrors(t *testing.T) {
	if _, err := ImportFromReader(strings.NewReader(""), DefaultOptions()); err == nil {
		t.Errorf("empty input should fail")
	}
	if _, err := ImportFromReader(strings.NewReader("a,a\n1,2"), DefaultOptions()); err == nil {
		t.Errorf("duplicate headers should fail")
	}
	if _, err := ImportFromFile(filepath.Join(t.TempDir(), "missing.csv"), DefaultOptions()); err == nil {
		t.Errorf("missing file should fail")
	}
}

func TestImportFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.csv")
	if err := os.WriteFile(path, []byte("k,v\nx,1\ny,2\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	table, err := ImportFromFile(path, DefaultOptions())
	if err != nil {
		t.Fatalf("ImportFromFile: %v", err)
	}
	if table.Len() != 2 {
		t.Errorf("expected 2 rows, got %d", table.Len())
	}
}

func TestParseColumnType(t *testing.T) {
	tests := map[string]CsvColumnType{
		"":      CsvColumnTypeAuto,
		"text":  CsvColumnTypeString,
		"Int64": CsvColumnTypeInt64,
		"float": CsvColumnTypeFloat64,
		"bool":  CsvColumnTypeBool,
	}
	for in, want := range tests {
		got, err := ParseColumnType(in)
		if err != nil || got != want {
			t.Errorf("ParseColumnType(%q) = %v, %v; want %v", in, got, err, want)
		}
	}
	if _, err := ParseColumnType("date"); err == nil {
		t.Errorf("ParseColumnType(date) should fail")
	}
}
