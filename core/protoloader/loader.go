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

// Package protoloader moves tables in and out of protocol buffers. A Loader
// denormalizes textproto files into tables using a pre-populated descriptor
// registry; ToListValue and FromListValue convert tables to and from the
// well-known structpb types, which MarshalJSON and UnmarshalJSON encode with
// protojson.
package protoloader

import (
	"fmt"
	"os"
	"strings"

	"google.golang.org/protobuf/encoding/prototext"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/reflect/protodesc"
	"google.golang.org/protobuf/reflect/protoreflect"
	"google.golang.org/protobuf/reflect/protoregistry"
	"google.golang.org/protobuf/types/descriptorpb"
	"google.golang.org/protobuf/types/dynamicpb"

	"github.com/google/tabulae/core/columns"
	"github.com/google/tabulae/core/tables"
)

// Loader handles loading textproto files into DataTables using a pre-populated registry.
type Loader struct {
	registry *protoregistry.Files
}

// NewLoader creates a new Loader with the given proto registry.
// The registry should be pre-populated with all required message descriptors.
func NewLoader(registry *protoregistry.Files) *Loader {
	return &Loader{
		registry: registry,
	}
}

// LoadDescriptorSet reads a serialized FileDescriptorSet, as written by
// protoc --descriptor_set_out with --include_imports, into a registry.
func LoadDescriptorSet(path string) (*protoregistry.Files, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read descriptor set: %w", err)
	}
	var set descriptorpb.FileDescriptorSet
	if err := proto.Unmarshal(data, &set); err != nil {
		return nil, fmt.Errorf("failed to parse descriptor set: %w", err)
	}
	files, err := protodesc.NewFiles(&set)
	if err != nil {
		return nil, fmt.Errorf("invalid descriptor set: %w", err)
	}
	return files, nil
}

// ParseTextproto parses textproto data into a dynamic message of the named type.
func (l *Loader) ParseTextproto(data []byte, messageName string) (protoreflect.Message, error) {
	mt, err := l.FindMessageByName(protoreflect.FullName(messageName))
	if err != nil {
		return nil, fmt.Errorf("message %q not found in registry: %w", messageName, err)
	}
	msg := mt.New().Interface()
	opts := prototext.UnmarshalOptions{
		Resolver: l,
	}
	if err := opts.Unmarshal(data, msg); err != nil {
		return nil, fmt.Errorf("failed to parse textproto: %w", err)
	}
	return msg.ProtoReflect(), nil
}

// FindMessageByName implements protoregistry.MessageTypeResolver
func (l *Loader) FindMessageByName(name protoreflect.FullName) (protoreflect.MessageType, error) {
	desc, err := l.registry.FindDescriptorByName(name)
	if err != nil {
		return nil, err
	}
	msgDesc, ok := desc.(protoreflect.MessageDescriptor)
	if !ok {
		return nil, fmt.Errorf("%q is not a message type", name)
	}
	return dynamicpb.NewMessageType(msgDesc), nil
}

// FindMessageByURL implements protoregistry.MessageTypeResolver
func (l *Loader) FindMessageByURL(url string) (protoreflect.MessageType, error) {
	name := protoreflect.FullName(strings.TrimPrefix(url, "type.googleapis.com/"))
	return l.FindMessageByName(name)
}

// FindExtensionByName implements protoregistry.ExtensionTypeResolver
func (l *Loader) FindExtensionByName(name protoreflect.FullName) (protoreflect.ExtensionType, error) {
	return nil, protoregistry.NotFound
}

// FindExtensionByNumber implements protoregistry.ExtensionTypeResolver
func (l *Loader) FindExtensionByNumber(message protoreflect.FullName, field protoreflect.FieldNumber) (protoreflect.ExtensionType, error) {
	return nil, protoregistry.NotFound
}

// HierarchyLevel represents one level in a linear message hierarchy.
type HierarchyLevel struct {
	// FieldDesc is the repeated message field leading to the next level (nil for leaf)
	FieldDesc protoreflect.FieldDescriptor
	// ScalarFields are non-message, non-repeated fields at this level
	ScalarFields []protoreflect.FieldDescriptor
}

// FindLinearHierarchy walks a message descriptor to find a linear chain of
// nested repeated messages, from root to leaf.
func (l *Loader) FindLinearHierarchy(msgDesc protoreflect.MessageDescriptor) []HierarchyLevel {
	var levels []HierarchyLevel
	current := msgDesc
	for current != nil {
		level := HierarchyLevel{}
		var nextLevel protoreflect.MessageDescriptor
		fields := current.Fields()
		for i := 0; i < fields.Len(); i++ {
			fd := fields.Get(i)
			switch {
			case fd.Kind() == protoreflect.MessageKind && fd.Cardinality() == protoreflect.Repeated:
				if nextLevel == nil {
					level.FieldDesc = fd
					nextLevel = fd.Message()
				}
			case fd.Kind() != protoreflect.MessageKind && fd.Kind() != protoreflect.GroupKind && !fd.IsList() && !fd.IsMap():
				level.ScalarFields = append(level.ScalarFields, fd)
			}
		}
		levels = append(levels, level)
		current = nextLevel
	}
	return levels
}

// RowBuilder accumulates denormalized rows from a hierarchical message.
type RowBuilder struct {
	fields        []protoreflect.FieldDescriptor
	rows          [][]any
	current       map[protoreflect.FieldDescriptor]any
	fieldsByLevel [][]protoreflect.FieldDescriptor
}

func newRowBuilder(hierarchy []HierarchyLevel) *RowBuilder {
	rb := &RowBuilder{
		current:       make(map[protoreflect.FieldDescriptor]any),
		fieldsByLevel: make([][]protoreflect.FieldDescriptor, len(hierarchy)),
	}
	for i, level := range hierarchy {
		rb.fields = append(rb.fields, level.ScalarFields...)
		rb.fieldsByLevel[i] = level.ScalarFields
	}
	return rb
}

// clearFromLevel marks every field at and below level as missing.
func (rb *RowBuilder) clearFromLevel(level int) {
	for i := level; i < len(rb.fieldsByLevel); i++ {
		for _, fd := range rb.fieldsByLevel[i] {
			rb.current[fd] = nil
		}
	}
}

func (rb *RowBuilder) emitRow() {
	row := make([]any, len(rb.fields))
	for i, fd := range rb.fields {
		row[i] = rb.current[fd]
	}
	rb.rows = append(rb.rows, row)
}

// Len returns the number of rows extracted so far.
func (rb *RowBuilder) Len() int {
	return len(rb.rows)
}

// ExtractRows walks a message hierarchy and extracts denormalized rows:
// one row per leaf, repeating the values of its ancestors.
func (l *Loader) ExtractRows(msg protoreflect.Message, hierarchy []HierarchyLevel) *RowBuilder {
	rb := newRowBuilder(hierarchy)
	l.walkHierarchy(msg, hierarchy, 0, rb)
	return rb
}

func (l *Loader) walkHierarchy(msg protoreflect.Message, hierarchy []HierarchyLevel, depth int, rb *RowBuilder) {
	if depth >= len(hierarchy) {
		return
	}
	level := hierarchy[depth]
	for _, fd := range level.ScalarFields {
		rb.current[fd] = scalarValue(msg.Get(fd), fd)
	}

	if level.FieldDesc == nil || depth == len(hierarchy)-1 {
		rb.emitRow()
		return
	}

	list := msg.Get(level.FieldDesc).List()
	if list.Len() == 0 {
		// a parent without children still yields one row
		rb.clearFromLevel(depth + 1)
		rb.emitRow()
		return
	}
	for i := 0; i < list.Len(); i++ {
		rb.clearFromLevel(depth + 1)
		l.walkHierarchy(list.Get(i).Message(), hierarchy, depth+1, rb)
	}
}

// fieldKind maps a scalar proto field to the column kind that stores it.
func fieldKind(fd protoreflect.FieldDescriptor) columns.Kind {
	switch fd.Kind() {
	case protoreflect.BoolKind:
		return columns.Bool
	case protoreflect.Int32Kind, protoreflect.Sint32Kind, protoreflect.Sfixed32Kind,
		protoreflect.Int64Kind, protoreflect.Sint64Kind, protoreflect.Sfixed64Kind,
		protoreflect.Uint32Kind, protoreflect.Fixed32Kind:
		return columns.Int
	case protoreflect.FloatKind, protoreflect.DoubleKind, protoreflect.Uint64Kind, protoreflect.Fixed64Kind:
		return columns.Float
	}
	return columns.Text
}

// scalarValue converts a field value to the scalar form of its column kind.
func scalarValue(val protoreflect.Value, fd protoreflect.FieldDescriptor) any {
	switch fd.Kind() {
	case protoreflect.BoolKind:
		return val.Bool()
	case protoreflect.Int32Kind, protoreflect.Sint32Kind, protoreflect.Sfixed32Kind,
		protoreflect.Int64Kind, protoreflect.Sint64Kind, protoreflect.Sfixed64Kind:
		return val.Int()
	case protoreflect.Uint32Kind, protoreflect.Fixed32Kind:
		return int64(val.Uint())
	case protoreflect.Uint64Kind, protoreflect.Fixed64Kind:
		return float64(val.Uint())
	case protoreflect.FloatKind, protoreflect.DoubleKind:
		return val.Float()
	case protoreflect.BytesKind:
		return string(val.Bytes())
	case protoreflect.EnumKind:
		if ev := fd.Enum().Values().ByNumber(val.Enum()); ev != nil {
			return string(ev.Name())
		}
		return fmt.Sprintf("%d", val.Enum())
	}
	return val.String()
}

// CreateDataTable builds a table from extracted rows, one column per scalar
// field. Fields missing from some rows are stored as NaN or null, which
// turns int and bool fields into float columns.
func (l *Loader) CreateDataTable(rb *RowBuilder) (*tables.DataTable, error) {
	names := make([]string, len(rb.fields))
	cols := make([]columns.Column, len(rb.fields))
	for i, fd := range rb.fields {
		kind := fieldKind(fd)
		values := make([]any, len(rb.rows))
		for r, row := range rb.rows {
			values[r] = row[i]
			if row[i] == nil && (kind == columns.Int || kind == columns.Bool) {
				kind = columns.Float
			}
		}
		names[i] = string(fd.Name())
		cols[i] = columns.FromValues(kind, values)
	}
	return tables.FromColumns(names, cols)
}

// LoadTextproto parses textproto data and returns a denormalized DataTable.
// The messageName should be the fully qualified protobuf message name (e.g., "mypackage.Customer").
func (l *Loader) LoadTextproto(data []byte, messageName string) (*tables.DataTable, error) {
	msg, err := l.ParseTextproto(data, messageName)
	if err != nil {
		return nil, err
	}
	hierarchy := l.FindLinearHierarchy(msg.Descriptor())
	rb := l.ExtractRows(msg, hierarchy)
	if rb.Len() == 0 {
		return nil, fmt.Errorf("no rows extracted from textproto")
	}
	return l.CreateDataTable(rb)
}

// LoadTextprotoFile is LoadTextproto over the contents of a file.
func (l *Loader) LoadTextprotoFile(path, messageName string) (*tables.DataTable, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read textproto file: %w", err)
	}
	return l.LoadTextproto(data, messageName)
}

// GetRegisteredMessages returns all message names registered in the loader.
func (l *Loader) GetRegisteredMessages() []string {
	var messages []string
	l.registry.RangeFiles(func(fd protoreflect.FileDescriptor) bool {
		msgs := fd.Messages()
		for i := 0; i < msgs.Len(); i++ {
			messages = append(messages, string(msgs.Get(i).FullName()))
		}
		return true
	})
	return messages
}
