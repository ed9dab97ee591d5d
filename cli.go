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

package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/google/tabulae/core/aggregates"
	"github.com/google/tabulae/core/csvimport"
	"github.com/google/tabulae/core/expr"
	"github.com/google/tabulae/core/jsonio"
	"github.com/google/tabulae/core/rendering"
	"github.com/google/tabulae/core/tables"
	"github.com/google/tabulae/core/views"
	"github.com/google/tabulae/datasources"
)

// inputFlags override the csv section of the configuration and describe
// textproto inputs.
type inputFlags struct {
	delimiter        string
	emptyAsNull      bool
	noHeader         bool
	protoDescriptors string
	protoMessage     string
}

func (f *inputFlags) register(cmd *cobra.Command) {
	cmd.PersistentFlags().StringVar(&f.delimiter, "delimiter", "", "CSV field delimiter; overrides csv.delimiter")
	cmd.PersistentFlags().BoolVar(&f.emptyAsNull, "empty-as-null", false, "Treat empty CSV cells as missing values")
	cmd.PersistentFlags().BoolVar(&f.noHeader, "no-header", false, "The CSV file has no header row")
	cmd.PersistentFlags().StringVar(&f.protoDescriptors, "proto-descriptors", "", "FileDescriptorSet used to parse textproto inputs")
	cmd.PersistentFlags().StringVar(&f.protoMessage, "proto-message", "", "Fully qualified message name of textproto inputs")
}

// sources returns the data source manager, creating it from the
// configuration and the input flags on first use.
func (a *app) sources() (*datasources.Manager, error) {
	if a.manager != nil {
		return a.manager, nil
	}
	opts, err := a.csvOptions()
	if err != nil {
		return nil, err
	}
	a.manager = datasources.NewDefaultManager(
		&datasources.CSVLoader{Options: opts},
		&datasources.TextprotoLoader{DescriptorSet: a.input.protoDescriptors, Message: a.input.protoMessage},
	)
	return a.manager, nil
}

// load reads a table, choosing the loader from the file extension.
func (a *app) load(path string) (*tables.DataTable, error) {
	m, err := a.sources()
	if err != nil {
		return nil, err
	}
	return m.LoadFile(path)
}

func (a *app) csvOptions() (csvimport.ImportOptions, error) {
	csvCfg := a.cfg.CSV
	if a.input.delimiter != "" {
		csvCfg.Delimiter = a.input.delimiter
	}
	if a.input.emptyAsNull {
		csvCfg.EmptyAsNull = true
	}
	if a.input.noHeader {
		csvCfg.HasHeader = false
	}
	return csvCfg.ImportOptions()
}

// applyExpressions adds each NAME=EXPR column in computed, in order, and
// then keeps the rows matching where when it is set.
func applyExpressions(t *tables.DataTable, computed []string, where string) (*tables.DataTable, error) {
	var err error
	for _, def := range computed {
		name, source, ok := strings.Cut(def, "=")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return nil, fmt.Errorf("--computed %q: want NAME=EXPR", def)
		}
		if t, err = expr.WithColumn(t, name, source); err != nil {
			return nil, err
		}
	}
	if where != "" {
		return expr.Where(t, where)
	}
	return t, nil
}

// write prints t in the selected output format.
func (a *app) write(cmd *cobra.Command, t *tables.DataTable) error {
	w := cmd.OutOrStdout()
	opts := a.cfg.Render.ViewOptions("")
	switch a.format {
	case "text", "":
		_, err := fmt.Fprint(w, rendering.RenderASCII(views.NewTableViewModel(t, nil, opts)))
		return err
	case "html":
		r, err := rendering.NewTableRenderer()
		if err != nil {
			return err
		}
		return r.RenderFragment(w, views.NewTableViewModel(t, nil, opts))
	case "json":
		if err := jsonio.WriteRecords(w, t); err != nil {
			return err
		}
		_, err := fmt.Fprintln(w)
		return err
	case "columns":
		data, err := jsonio.MarshalColumns(t)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, string(data))
		return err
	}
	return fmt.Errorf("unknown output format %q (valid: text, html, json, columns)", a.format)
}

// describeStats are the rows of describe, after dtype.
var describeStats = []aggregates.Func{aggregates.Count, aggregates.NUnique, aggregates.Min, aggregates.Max, aggregates.Mean, aggregates.Std}

// describe summarizes every column as text: its kind and the statistics in
// describeStats. Statistics that do not apply to a column are left empty.
func describe(t *tables.DataTable) (*tables.DataTable, error) {
	names := t.Columns()
	cells := make([][]string, len(names))
	for i, name := range names {
		cells[i] = []string{t.GetColumn(name).Kind().String()}
	}
	for _, f := range describeStats {
		var r *tables.DataTable
		if f == aggregates.NUnique {
			r = t.NUnique()
		} else {
			var err error
			if r, err = t.Reduce(f); err != nil {
				return nil, err
			}
		}
		for i, name := range names {
			s := ""
			if col := r.GetColumn(name); col != nil {
				s = views.FormatCell(col, 0).Text
			}
			cells[i] = append(cells[i], s)
		}
	}

	stats := []string{"dtype"}
	for _, f := range describeStats {
		stats = append(stats, f.String())
	}
	fields := []tables.Field{{Name: "stat", Values: stats}}
	for i, name := range names {
		fields = append(fields, tables.Field{Name: name, Values: cells[i]})
	}
	return tables.New(fields...)
}
