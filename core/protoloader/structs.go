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

package protoloader

import (
	"fmt"
	"math"

	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/google/tabulae/core/columns"
	"github.com/google/tabulae/core/tables"
)

// ToListValue encodes t as a list with one struct per column:
// {name, kind, values}. Missing values become null. Numbers are doubles, so
// integers beyond 2^53 lose precision.
func ToListValue(t *tables.DataTable) (*structpb.ListValue, error) {
	out := &structpb.ListValue{}
	for _, name := range t.Columns() {
		col := t.GetColumn(name)
		values := make([]*structpb.Value, col.Length())
		for i := range values {
			values[i] = toValue(col, i)
		}
		out.Values = append(out.Values, structpb.NewStructValue(&structpb.Struct{
			Fields: map[string]*structpb.Value{
				"name":   structpb.NewStringValue(name),
				"kind":   structpb.NewStringValue(col.Kind().String()),
				"values": structpb.NewListValue(&structpb.ListValue{Values: values}),
			},
		}))
	}
	return out, nil
}

func toValue(col columns.Column, i int) *structpb.Value {
	if col.IsNA(i) {
		return structpb.NewNullValue()
	}
	switch v := col.Value(i).(type) {
	case bool:
		return structpb.NewBoolValue(v)
	case int64:
		return structpb.NewNumberValue(float64(v))
	case float64:
		if math.IsInf(v, 0) {
			return structpb.NewNullValue()
		}
		return structpb.NewNumberValue(v)
	case string:
		return structpb.NewStringValue(v)
	}
	return structpb.NewNullValue()
}

// FromListValue decodes the output of ToListValue.
func FromListValue(lv *structpb.ListValue) (*tables.DataTable, error) {
	names := make([]string, 0, len(lv.GetValues()))
	cols := make([]columns.Column, 0, len(lv.GetValues()))
	for i, v := range lv.GetValues() {
		s := v.GetStructValue()
		if s == nil {
			return nil, fmt.Errorf("column %d is not a struct", i)
		}
		name := s.GetFields()["name"].GetStringValue()
		col, err := fromValues(s.GetFields()["kind"].GetStringValue(), s.GetFields()["values"].GetListValue().GetValues())
		if err != nil {
			return nil, fmt.Errorf("column %q: %w", name, err)
		}
		names = append(names, name)
		cols = append(cols, col)
	}
	return tables.FromColumns(names, cols)
}

func fromValues(kindName string, values []*structpb.Value) (columns.Column, error) {
	var kind columns.Kind
	switch kindName {
	case "bool":
		kind = columns.Bool
	case "int":
		kind = columns.Int
	case "float":
		kind = columns.Float
	case "string":
		kind = columns.Text
	default:
		return nil, fmt.Errorf("unknown kind %q", kindName)
	}

	out := make([]any, len(values))
	for i, v := range values {
		switch x := v.GetKind().(type) {
		case *structpb.Value_NullValue:
			if kind != columns.Float && kind != columns.Text {
				return nil, fmt.Errorf("row %d: null in a %s column", i, kindName)
			}
		case *structpb.Value_BoolValue:
			if kind != columns.Bool {
				return nil, fmt.Errorf("row %d: bool in a %s column", i, kindName)
			}
			out[i] = x.BoolValue
		case *structpb.Value_NumberValue:
			switch kind {
			case columns.Float:
				out[i] = x.NumberValue
			case columns.Int:
				if x.NumberValue != math.Trunc(x.NumberValue) {
					return nil, fmt.Errorf("row %d: %v is not an integer", i, x.NumberValue)
				}
				out[i] = int64(x.NumberValue)
			default:
				return nil, fmt.Errorf("row %d: number in a %s column", i, kindName)
			}
		case *structpb.Value_StringValue:
			if kind != columns.Text {
				return nil, fmt.Errorf("row %d: string in a %s column", i, kindName)
			}
			out[i] = x.StringValue
		default:
			return nil, fmt.Errorf("row %d: unsupported value %v", i, v)
		}
	}
	return columns.FromValues(kind, out), nil
}

// MarshalJSON encodes t as the protojson form of ToListValue.
func MarshalJSON(t *tables.DataTable) ([]byte, error) {
	lv, err := ToListValue(t)
	if err != nil {
		return nil, err
	}
	return protojson.Marshal(lv)
}

// UnmarshalJSON decodes the output of MarshalJSON.
func UnmarshalJSON(data []byte) (*tables.DataTable, error) {
	lv := &structpb.ListValue{}
	if err := protojson.Unmarshal(data, lv); err != nil {
		return nil, fmt.Errorf("failed to decode table: %w", err)
	}
	return FromListValue(lv)
}
