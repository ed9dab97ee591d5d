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

// Package jsonio encodes tables as JSON, either row by row or column by
// column. Missing values (NaN floats and null text) are written as null.
package jsonio

import (
	"bytes"
	"fmt"
	"io"
	"math"

	gojson "github.com/goccy/go-json"

	"github.com/google/tabulae/core/columns"
	"github.com/google/tabulae/core/tables"
)

// Column is the column-oriented wire form of one table column.
type Column struct {
	Name   string `json:"name"`
	Kind   string `json:"kind"`
	Values []any  `json:"values"`
}

// Document is the column-oriented wire form of a table.
type Document struct {
	Columns []Column `json:"columns"`
}

// jsonValue returns the value at row i in a form the encoder accepts.
func jsonValue(col columns.Column, i int) any {
	if col.IsNA(i) {
		return nil
	}
	v := col.Value(i)
	if f, ok := v.(float64); ok && math.IsInf(f, 0) {
		return nil
	}
	return v
}

// MarshalRecords encodes t as an array of objects, one per row, with keys
// in column order.
func MarshalRecords(t *tables.DataTable) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteRecords(&buf, t); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteRecords streams the records encoding of t to w.
func WriteRecords(w io.Writer, t *tables.DataTable) error {
	names := t.Columns()
	keys := make([][]byte, len(names))
	for i, name := range names {
		k, err := gojson.Marshal(name)
		if err != nil {
			return err
		}
		keys[i] = k
	}

	var buf bytes.Buffer
	buf.WriteByte('[')
	for r := 0; r < t.Len(); r++ {
		if r > 0 {
			buf.WriteByte(',')
		}
		buf.WriteByte('{')
		for c, name := range names {
			if c > 0 {
				buf.WriteByte(',')
			}
			buf.Write(keys[c])
			buf.WriteByte(':')
			v, err := gojson.Marshal(jsonValue(t.GetColumn(name), r))
			if err != nil {
				return fmt.Errorf("row %d column %q: %w", r, name, err)
			}
			buf.Write(v)
		}
		buf.WriteByte('}')
	}
	buf.WriteByte(']')
	_, err := w.Write(buf.Bytes())
	return err
}

// ToDocument converts t to its column-oriented wire form.
func ToDocument(t *tables.DataTable) Document {
	doc := Document{Columns: make([]Column, 0, len(t.Columns()))}
	for _, name := range t.Columns() {
		col := t.GetColumn(name)
		values := make([]any, col.Length())
		for i := range values {
			values[i] = jsonValue(col, i)
		}
		doc.Columns = append(doc.Columns, Column{Name: name, Kind: col.Kind().String(), Values: values})
	}
	return doc
}

// MarshalColumns encodes t column by column, keeping each column's kind
// so that UnmarshalColumns restores the same table.
func MarshalColumns(t *tables.DataTable) ([]byte, error) {
	return gojson.Marshal(ToDocument(t))
}

// UnmarshalColumns decodes the output of MarshalColumns.
func UnmarshalColumns(data []byte) (*tables.DataTable, error) {
	dec := gojson.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var doc Document
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to decode table: %w", err)
	}
	return FromDocument(doc)
}

// FromDocument rebuilds a table from its column-oriented wire form.
func FromDocument(doc Document) (*tables.DataTable, error) {
	names := make([]string, len(doc.Columns))
	cols := make([]columns.Column, len(doc.Columns))
	for i, c := range doc.Columns {
		col, err := decodeColumn(c)
		if err != nil {
			return nil, fmt.Errorf("column %q: %w", c.Name, err)
		}
		names[i] = c.Name
		cols[i] = col
	}
	return tables.FromColumns(names, cols)
}

func decodeColumn(c Column) (columns.Column, error) {
	var kind columns.Kind
	switch c.Kind {
	case "bool":
		kind = columns.Bool
	case "int":
		kind = columns.Int
	case "float":
		kind = columns.Float
	case "string":
		kind = columns.Text
	default:
		return nil, fmt.Errorf("unknown kind %q", c.Kind)
	}

	values := make([]any, len(c.Values))
	for i, v := range c.Values {
		switch x := v.(type) {
		case nil:
			if kind != columns.Float && kind != columns.Text {
				return nil, fmt.Errorf("row %d: null in a %s column", i, c.Kind)
			}
		case gojson.Number:
			switch kind {
			case columns.Int:
				n, err := x.Int64()
				if err != nil {
					return nil, fmt.Errorf("row %d: %w", i, err)
				}
				values[i] = n
			case columns.Float:
				f, err := x.Float64()
				if err != nil {
					return nil, fmt.Errorf("row %d: %w", i, err)
				}
				values[i] = f
			default:
				return nil, fmt.Errorf("row %d: number in a %s column", i, c.Kind)
			}
		case bool:
			if kind != columns.Bool {
				return nil, fmt.Errorf("row %d: bool in a %s column", i, c.Kind)
			}
			values[i] = x
		case string:
			if kind != columns.Text {
				return nil, fmt.Errorf("row %d: string in a %s column", i, c.Kind)
			}
			values[i] = x
		default:
			return nil, fmt.Errorf("row %d: unsupported value %T", i, v)
		}
	}
	return columns.FromValues(kind, values), nil
}
