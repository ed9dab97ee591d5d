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

package datasources

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/tabulae/core/csvimport"
	"github.com/google/tabulae/core/tables"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestTypeForPath(t *testing.T) {
	tests := map[string]string{
		"a.csv":        TypeCSV,
		"a.TSV":        TypeCSV,
		"a":            TypeCSV,
		"dir/a.json":   TypeJSON,
		"a.pbjson":     TypeProtoJSON,
		"a.textproto":  TypeTextproto,
		"a.txtpb":      TypeTextproto,
		"a.tar.gz.csv": TypeCSV,
	}
	for path, want := range tests {
		if got := TypeForPath(path); got != want {
			t.Errorf("TypeForPath(%q) = %q, want %q", path, got, want)
		}
	}
	if got := NameForPath("/data/sales.2024.csv"); got != "sales.2024" {
		t.Errorf("NameForPath = %q, want sales.2024", got)
	}
}

func TestLoadFormats(t *testing.T) {
	dir := t.TempDir()
	want := tables.MustNew(
		tables.Field{Name: "name", Values: []string{"a", "b"}},
		tables.Field{Name: "qty", Values: []int64{1, 3}},
	)
	files := []string{
		writeFile(t, dir, "orders.csv", "name,qty\na,1\nb,3\n"),
		writeFile(t, dir, "tabbed.tsv", "name\tqty\na\t1\nb\t3\n"),
		writeFile(t, dir, "columns.json", `{"columns":[{"name":"name","kind":"string","values":["a","b"]},{"name":"qty","kind":"int","values":[1,3]}]}`),
		writeFile(t, dir, "list.pbjson", `[{"name":"name","kind":"string","values":["a","b"]},{"name":"qty","kind":"int","values":[1,3]}]`),
	}

	m := NewDefaultManager(nil, nil)
	for _, path := range files {
		got, err := m.LoadFile(path)
		if err != nil {
			t.Fatalf("LoadFile(%s): %v", filepath.Base(path), err)
		}
		if !got.Equal(want) {
			t.Errorf("LoadFile(%s) = %v %v", filepath.Base(path), got.Columns(), got.Values())
		}
	}
	if got := strings.Join(m.SourceNames(), ","); got != "columns,list,orders,tabbed" {
		t.Errorf("SourceNames = %s", got)
	}
}

func TestLazyLoadingAndCache(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "orders.csv", "name,qty\na,1\n")

	m := NewDefaultManager(&CSVLoader{Options: csvimport.DefaultOptions()}, nil)
	m.SetBaseDir(dir)
	if err := m.AddSource(Source{Name: "orders", Path: "orders.csv"}); err != nil {
		t.Fatal(err)
	}
	if m.IsLoaded("orders") {
		t.Error("orders should not be loaded before first use")
	}

	first, err := m.LoadData("orders")
	if err != nil {
		t.Fatal(err)
	}
	if !m.IsLoaded("orders") {
		t.Error("orders should be cached after loading")
	}

	writeFile(t, dir, "orders.csv", "name,qty\na,1\nb,2\n")
	cached, err := m.LoadData("orders")
	if err != nil {
		t.Fatal(err)
	}
	if cached != first || cached.Len() != 1 {
		t.Errorf("second load should come from the cache, got %d rows", cached.Len())
	}

	m.InvalidateCache("orders")
	reloaded, err := m.LoadData("orders")
	if err != nil {
		t.Fatal(err)
	}
	if reloaded.Len() != 2 {
		t.Errorf("reloaded rows = %d, want 2", reloaded.Len())
	}

	all, err := m.LoadAll()
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 1 || all["orders"] != reloaded {
		t.Errorf("LoadAll = %v", all)
	}
}

func TestCSVLoaderOptions(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "semi.csv", "a;b\n1;\n")
	opts := csvimport.DefaultOptions()
	opts.Delimiter = ';'
	opts.EmptyAsNull = true
	got, err := (&CSVLoader{Options: opts}).Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if got.Len() != 1 || !got.GetColumn("b").IsNA(0) {
		t.Errorf("Load = %v %v", got.Columns(), got.Values())
	}
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()
	proto := writeFile(t, dir, "rows.textproto", "")

	m := NewDefaultManager(nil, nil)
	if _, err := m.LoadData("nope"); err == nil {
		t.Error("expected an error for an unknown source")
	}
	if _, err := m.LoadFile(proto); err == nil || !strings.Contains(err.Error(), "descriptor set") {
		t.Errorf("textproto without a descriptor set: err = %v", err)
	}
	if _, err := m.LoadFile(filepath.Join(dir, "missing.csv")); err == nil {
		t.Error("expected an error for a missing file")
	}
	if err := m.AddSource(Source{Path: "x.csv"}); err == nil {
		t.Error("expected an error for a source without a name")
	}

	bare := NewManager()
	if err := bare.AddSource(Source{Name: "x", Path: "x.csv"}); err != nil {
		t.Fatal(err)
	}
	if _, err := bare.LoadData("x"); err == nil || !strings.Contains(err.Error(), "no loader") {
		t.Errorf("missing loader: err = %v", err)
	}
	if m.IsLoaded("rows") {
		t.Error("failed loads must not be cached")
	}
}
