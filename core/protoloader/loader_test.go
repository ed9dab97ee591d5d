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
	"math"
	"os"
	"path/filepath"
	"testing"

	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/reflect/protodesc"
	"google.golang.org/protobuf/reflect/protoregistry"
	"google.golang.org/protobuf/types/descriptorpb"

	"github.com/google/tabulae/core/columns"
	"github.com/google/tabulae/core/tables"
)

func field(name string, number int32, typ descriptorpb.FieldDescriptorProto_Type) *descriptorpb.FieldDescriptorProto {
	return &descriptorpb.FieldDescriptorProto{
		Name:   proto.String(name),
		Number: proto.Int32(number),
		Type:   typ.Enum(),
		Label:  descriptorpb.FieldDescriptorProto_LABEL_OPTIONAL.Enum(),
	}
}

// storeFile describes shop.Store { name; repeated Order orders } and
// shop.Order { id; paid; total }.
func storeFile() *descriptorpb.FileDescriptorProto {
	orders := field("orders", 2, descriptorpb.FieldDescriptorProto_TYPE_MESSAGE)
	orders.TypeName = proto.String(".shop.Order")
	orders.Label = descriptorpb.FieldDescriptorProto_LABEL_REPEATED.Enum()

	return &descriptorpb.FileDescriptorProto{
		Name:    proto.String("shop.proto"),
		Package: proto.String("shop"),
		Syntax:  proto.String("proto3"),
		MessageType: []*descriptorpb.DescriptorProto{
			{
				Name:  proto.String("Store"),
				Field: []*descriptorpb.FieldDescriptorProto{field("name", 1, descriptorpb.FieldDescriptorProto_TYPE_STRING), orders},
			},
			{
				Name: proto.String("Order"),
				Field: []*descriptorpb.FieldDescriptorProto{
					field("id", 1, descriptorpb.FieldDescriptorProto_TYPE_INT64),
					field("paid", 2, descriptorpb.FieldDescriptorProto_TYPE_BOOL),
					field("total", 3, descriptorpb.FieldDescriptorProto_TYPE_DOUBLE),
				},
			},
		},
	}
}

func storeRegistry(t *testing.T) *protoregistry.Files {
	t.Helper()
	fd, err := protodesc.NewFile(storeFile(), nil)
	if err != nil {
		t.Fatalf("building descriptor: %v", err)
	}
	files := new(protoregistry.Files)
	if err := files.RegisterFile(fd); err != nil {
		t.Fatalf("registering descriptor: %v", err)
	}
	return files
}

func TestLoadDescriptorSet(t *testing.T) {
	data, err := proto.Marshal(&descriptorpb.FileDescriptorSet{File: []*descriptorpb.FileDescriptorProto{storeFile()}})
	if err != nil {
		t.Fatal(err)
	}
	dir := t.TempDir()
	path := filepath.Join(dir, "shop.pb")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}
	files, err := LoadDescriptorSet(path)
	if err != nil {
		t.Fatalf("LoadDescriptorSet: %v", err)
	}
	table, err := NewLoader(files).LoadTextproto([]byte(`name: "x" orders { id: 7 }`), "shop.Store")
	if err != nil {
		t.Fatalf("LoadTextproto: %v", err)
	}
	if rows, cols := table.Shape(); rows != 1 || cols != 4 {
		t.Errorf("shape = %dx%d, want 1x4", rows, cols)
	}

	garbage := filepath.Join(dir, "garbage.pb")
	if err := os.WriteFile(garbage, []byte("not a descriptor set"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadDescriptorSet(garbage); err == nil {
		t.Error("expected an error for a corrupt descriptor set")
	}
	if _, err := LoadDescriptorSet(filepath.Join(dir, "missing.pb")); err == nil {
		t.Error("expected an error for a missing file")
	}
}

// TestLoadTextproto denormalizes one row per order.
func TestLoadTextproto(t *testing.T) {
	loader := NewLoader(storeRegistry(t))
	data := []byte(`
name: "north"
orders { id: 1 paid: true total: 9.5 }
orders { id: 2 total: 3 }
`)
	table, err := loader.LoadTextproto(data, "shop.Store")
	if err != nil {
		t.Fatalf("LoadTextproto: %v", err)
	}
	want := tables.MustNew(
		tables.Field{Name: "name", Values: []string{"north", "north"}},
		tables.Field{Name: "id", Values: []int64{1, 2}},
		tables.Field{Name: "paid", Values: []bool{true, false}},
		tables.Field{Name: "total", Values: []float64{9.5, 3}},
	)
	if !table.Equal(want) {
		t.Errorf("got %v %v, want %v", table.Columns(), table.Values(), want.Values())
	}
}

// TestLoadTextprotoWithoutChildren keeps a parent without children as one
// row with missing child fields.
func TestLoadTextprotoWithoutChildren(t *testing.T) {
	loader := NewLoader(storeRegistry(t))
	table, err := loader.LoadTextproto([]byte(`name: "empty"`), "shop.Store")
	if err != nil {
		t.Fatalf("LoadTextproto: %v", err)
	}
	if table.Len() != 1 {
		t.Fatalf("expected 1 row, got %d", table.Len())
	}
	id := table.GetColumn("id")
	if id.Kind() != columns.Float || !id.IsNA(0) {
		t.Errorf("id should be a missing float, got %v %v", id.Kind(), id.Value(0))
	}
}

func TestGetRegisteredMessages(t *testing.T) {
	loader := NewLoader(storeRegistry(t))
	messages := loader.GetRegisteredMessages()
	if len(messages) != 2 || messages[0] != "shop.Store" || messages[1] != "shop.Order" {
		t.Errorf("unexpected messages %v", messages)
	}

	empty := NewLoader(new(protoregistry.Files))
	if got := empty.GetRegisteredMessages(); len(got) != 0 {
		t.Errorf("expected empty message list, got %v", got)
	}
}

// TestParseTextprotoMissingMessage tests error handling for unknown message type.
func TestParseTextprotoMissingMessage(t *testing.T) {
	loader := NewLoader(storeRegistry(t))
	if _, err := loader.ParseTextproto([]byte(`name: "test"`), "unknown.Message"); err == nil {
		t.Error("expected error for unknown message type, got nil")
	}
	if _, err := loader.ParseTextproto([]byte(`nope: 1`), "shop.Store"); err == nil {
		t.Error("expected error for unknown field, got nil")
	}
	if _, err := loader.LoadTextprotoFile("/does/not/exist.textproto", "shop.Store"); err == nil {
		t.Error("expected error for missing file, got nil")
	}
}

func str(s string) *string { return &s }

func TestListValueRoundTrip(t *testing.T) {
	in := tables.MustNew(
		tables.Field{Name: "b", Values: []bool{true, false}},
		tables.Field{Name: "a", Values: []int{1, -2}},
		tables.Field{Name: "f", Values: []float64{0.25, math.NaN()}},
		tables.Field{Name: "s", Values: []*string{nil, str("x")}},
	)
	data, err := MarshalJSON(in)
	if err != nil {
		t.Fatal(err)
	}
	out, err := UnmarshalJSON(data)
	if err != nil {
		t.Fatalf("UnmarshalJSON(%s): %v", data, err)
	}
	if !out.Equal(in) {
		t.Errorf("round trip changed the table: %v", out.Values())
	}
}

func TestFromListValueErrors(t *testing.T) {
	tests := []string{
		`[1]`,
		`[{"name":"a","kind":"date","values":[]}]`,
		`[{"name":"a","kind":"int","values":[1.5]}]`,
		`[{"name":"a","kind":"bool","values":[null]}]`,
		`[{"name":"a","kind":"string","values":[true]}]`,
	}
	for _, data := range tests {
		if _, err := UnmarshalJSON([]byte(data)); err == nil {
			t.Errorf("UnmarshalJSON(%s) should fail", data)
		}
	}
}
