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

// Package datasources provides a unified interface for loading tables from
// files in various formats (CSV, column JSON, protobuf JSON, textproto),
// with named sources that are loaded lazily and cached.
package datasources

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/tabulae/core/csvimport"
	"github.com/google/tabulae/core/jsonio"
	"github.com/google/tabulae/core/protoloader"
	"github.com/google/tabulae/core/tables"
)

// Source types of the built-in loaders.
const (
	TypeCSV       = "csv"
	TypeJSON      = "json"
	TypeProtoJSON = "pbjson"
	TypeTextproto = "textproto"
)

// Loader is the interface that all data source loaders must implement.
// Users can register additional loaders for databases, APIs, or custom formats.
type Loader interface {
	// SourceType returns the type identifier used in Source.Type.
	SourceType() string

	// Load reads the table stored at path.
	Load(path string) (*tables.DataTable, error)
}

// TypeForPath guesses the source type from a file extension. Anything not
// recognized is read as CSV.
func TypeForPath(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return TypeJSON
	case ".pbjson":
		return TypeProtoJSON
	case ".textproto", ".txtpb":
		return TypeTextproto
	}
	return TypeCSV
}

// CSVLoader reads delimited text. Files ending in .tsv are split on tabs
// unless Options names a delimiter other than the comma.
type CSVLoader struct {
	Options csvimport.ImportOptions
}

func (l *CSVLoader) SourceType() string { return TypeCSV }

func (l *CSVLoader) Load(path string) (*tables.DataTable, error) {
	opts := l.Options
	if opts.Delimiter == 0 {
		opts.Delimiter = ','
	}
	if opts.Delimiter == ',' && strings.EqualFold(filepath.Ext(path), ".tsv") {
		opts.Delimiter = '\t'
	}
	return csvimport.ImportFromFile(path, opts)
}

// JSONLoader reads the column-oriented JSON document written by jsonio.
type JSONLoader struct{}

func (JSONLoader) SourceType() string { return TypeJSON }

func (JSONLoader) Load(path string) (*tables.DataTable, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return jsonio.UnmarshalColumns(data)
}

// ProtoJSONLoader reads a google.protobuf.ListValue holding one
// {name, kind, values} struct per column, in the protobuf JSON mapping.
type ProtoJSONLoader struct{}

func (ProtoJSONLoader) SourceType() string { return TypeProtoJSON }

func (ProtoJSONLoader) Load(path string) (*tables.DataTable, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return protoloader.UnmarshalJSON(data)
}

// TextprotoLoader flattens a textproto message into rows. The descriptor
// set is read on first use.
type TextprotoLoader struct {
	// DescriptorSet is the path of a serialized FileDescriptorSet.
	DescriptorSet string
	// Message is the fully qualified name of the top-level message.
	Message string

	loader *protoloader.Loader
}

func (l *TextprotoLoader) SourceType() string { return TypeTextproto }

func (l *TextprotoLoader) Load(path string) (*tables.DataTable, error) {
	if l.DescriptorSet == "" || l.Message == "" {
		return nil, fmt.Errorf("%s: textproto sources need a descriptor set and a message name", path)
	}
	if l.loader == nil {
		files, err := protoloader.LoadDescriptorSet(l.DescriptorSet)
		if err != nil {
			return nil, err
		}
		l.loader = protoloader.NewLoader(files)
	}
	return l.loader.LoadTextprotoFile(path, l.Message)
}
