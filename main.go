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

// Command tabulae inspects tabular files from the command line and serves
// them over HTTP.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/google/tabulae/core/aggregates"
	"github.com/google/tabulae/core/config"
	"github.com/google/tabulae/core/logging"
	"github.com/google/tabulae/core/server"
	"github.com/google/tabulae/core/tables"
	"github.com/google/tabulae/datasources"
	"github.com/google/tabulae/demo"
)

var version = "0.1.0"

// app carries the state shared by all subcommands.
type app struct {
	configFile string
	logLevel   string
	format     string
	cfg        config.Config
	input      inputFlags
	manager    *datasources.Manager
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
	logging.Sync()
}

func newRootCmd() *cobra.Command {
	a := &app{cfg: config.Default()}

	root := &cobra.Command{
		Use:   "tabulae",
		Short: "Tabulae - columnar tables from the command line",
		Long: `Tabulae loads CSV, JSON and textproto files into typed columnar tables,
summarizes them and serves them through a small HTTP viewer.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup()
		},
	}
	root.PersistentFlags().StringVar(&a.configFile, "config", "", "Path to a YAML configuration file")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "Log level (debug, info, warn, error); overrides the configuration")
	root.PersistentFlags().StringVarP(&a.format, "format", "f", "text", "Output format: text, html, json or columns")
	a.input.register(root)

	root.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "tabulae v%s\n", version)
			fmt.Fprintf(cmd.OutOrStdout(), "Go version: %s\n", runtime.Version())
			fmt.Fprintf(cmd.OutOrStdout(), "OS/Arch: %s/%s\n", runtime.GOOS, runtime.GOARCH)
		},
	})

	var head, tail int
	var where string
	var computed []string
	showCmd := &cobra.Command{
		Use:   "show FILE",
		Short: "Print a table",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := a.load(args[0])
			if err != nil {
				return err
			}
			if t, err = applyExpressions(t, computed, where); err != nil {
				return err
			}
			if head > 0 {
				t = t.Head(head)
			} else if tail > 0 {
				t = t.Tail(tail)
			}
			return a.write(cmd, t)
		},
	}
	showCmd.Flags().IntVar(&head, "head", 0, "Print only the first N rows")
	showCmd.Flags().IntVar(&tail, "tail", 0, "Print only the last N rows")
	showCmd.Flags().StringArrayVar(&computed, "computed", nil, "Add a column NAME=EXPR before filtering; may be repeated")
	showCmd.Flags().StringVar(&where, "where", "", "Keep only the rows for which the boolean expression holds")
	root.AddCommand(showCmd)

	root.AddCommand(&cobra.Command{
		Use:   "describe FILE",
		Short: "Print the shape, types and summary statistics of a table",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := a.load(args[0])
			if err != nil {
				return err
			}
			rows, cols := t.Shape()
			fmt.Fprintf(cmd.OutOrStdout(), "%d rows x %d columns\n", rows, cols)
			summary, err := describe(t)
			if err != nil {
				return err
			}
			return a.write(cmd, summary)
		},
	})

	var by string
	var descending bool
	sortCmd := &cobra.Command{
		Use:   "sort FILE",
		Short: "Sort a table by one or more columns",
		Long: `Sort a table by a comma-separated list of columns. A leading '-' sorts that
column in descending order; --desc reverses the whole ascending order instead.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := a.load(args[0])
			if err != nil {
				return err
			}
			keys := parseSortKeys(by)
			if descending {
				names := make([]string, len(keys))
				for i, k := range keys {
					names[i] = k.Column
				}
				t, err = t.SortValues(names, false)
			} else {
				t, err = t.SortBy(keys)
			}
			if err != nil {
				return err
			}
			return a.write(cmd, t)
		},
	}
	sortCmd.Flags().StringVar(&by, "by", "", "Columns to sort by, e.g. region,-amount (required)")
	sortCmd.Flags().BoolVar(&descending, "desc", false, "Reverse the ascending order, ties included")
	_ = sortCmd.MarkFlagRequired("by")
	root.AddCommand(sortCmd)

	var key, value, agg string
	groupCmd := &cobra.Command{
		Use:   "groupby FILE",
		Short: "Aggregate one column within each distinct value of another",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := a.load(args[0])
			if err != nil {
				return err
			}
			f, err := aggregates.Parse(agg)
			if err != nil {
				return err
			}
			if value == "" && !cmd.Flags().Changed("agg") {
				f = aggregates.Size
			}
			out, err := t.GroupBy(key, value, f)
			if err != nil {
				return err
			}
			return a.write(cmd, out)
		},
	}
	groupCmd.Flags().StringVar(&key, "key", "", "Column to group by (required)")
	groupCmd.Flags().StringVar(&value, "value", "", "Column to aggregate; rows are counted when empty")
	groupCmd.Flags().StringVar(&agg, "agg", "sum", "Aggregation: "+strings.Join(aggregates.Names(), ", "))
	_ = groupCmd.MarkFlagRequired("key")
	root.AddCommand(groupCmd)

	var pivotOpts tables.PivotOptions
	var pivotAgg string
	pivotCmd := &cobra.Command{
		Use:   "pivot FILE",
		Short: "Summarize a table by row and/or column keys",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := a.load(args[0])
			if err != nil {
				return err
			}
			opts := pivotOpts
			if pivotAgg != "" {
				if opts.Agg, err = aggregates.Parse(pivotAgg); err != nil {
					return err
				}
			}
			out, err := t.PivotTable(opts)
			if err != nil {
				return err
			}
			return a.write(cmd, out)
		},
	}
	pivotCmd.Flags().StringVar(&pivotOpts.Rows, "rows", "", "Column whose values become rows")
	pivotCmd.Flags().StringVar(&pivotOpts.Columns, "cols", "", "Column whose values become columns")
	pivotCmd.Flags().StringVar(&pivotOpts.Values, "values", "", "Column to aggregate; rows are counted when empty")
	pivotCmd.Flags().StringVar(&pivotAgg, "agg", "", "Aggregation applied to --values")
	root.AddCommand(pivotCmd)

	var normalize bool
	countsCmd := &cobra.Command{
		Use:   "counts FILE",
		Short: "Count the distinct values of every column",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := a.load(args[0])
			if err != nil {
				return err
			}
			for _, vc := range t.ValueCounts(normalize) {
				if err := a.write(cmd, vc); err != nil {
					return err
				}
			}
			return nil
		},
	}
	countsCmd.Flags().BoolVar(&normalize, "normalize", false, "Report frequencies instead of counts")
	root.AddCommand(countsCmd)

	var addr string
	var withDemo bool
	serveCmd := &cobra.Command{
		Use:   "serve [FILE...]",
		Short: "Serve tables through the HTTP viewer",
		Long: `Serve the given files, plus the tables listed under server.tables in the
configuration, through the HTTP viewer. Each file is named after its base name.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr != "" {
				a.cfg.Server.Addr = addr
			}
			srv, err := server.NewServer(server.Options{
				DefaultLimit: a.cfg.Server.DefaultLimit,
				Head:         a.cfg.Render.Head,
				Tail:         a.cfg.Render.Tail,
			})
			if err != nil {
				return err
			}
			m, err := a.sources()
			if err != nil {
				return err
			}
			for name, path := range a.cfg.Server.Tables {
				if err := m.AddSource(datasources.Source{Name: name, Path: path}); err != nil {
					return err
				}
			}
			for _, path := range args {
				if _, err := m.AddFile(path); err != nil {
					return err
				}
			}
			loaded, err := m.LoadAll()
			if err != nil {
				return err
			}
			if withDemo {
				for name, t := range demo.Tables(1) {
					if _, taken := loaded[name]; !taken {
						loaded[name] = t
					}
				}
			}
			for name, t := range loaded {
				if err := srv.AddTable(name, t); err != nil {
					return err
				}
				logging.Get().Info("table loaded", zap.String("table", name), zap.Int("rows", t.Len()))
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return srv.ListenAndServe(ctx, a.cfg.Server.Addr)
		},
	}
	serveCmd.Flags().StringVar(&addr, "addr", "", "Listen address; overrides server.addr")
	serveCmd.Flags().BoolVar(&withDemo, "demo", false, "Also serve generated demo tables")
	root.AddCommand(serveCmd)

	return root
}

// setup loads the configuration and installs the logger.
func (a *app) setup() error {
	if a.configFile != "" {
		cfg, err := config.Load(a.configFile)
		if err != nil {
			return err
		}
		a.cfg = cfg
	}
	if a.logLevel != "" {
		a.cfg.Log.Level = a.logLevel
	}
	if err := logging.Init(a.cfg.Log); err != nil {
		return err
	}
	logging.Get().Debug("configuration loaded", zap.String("config", a.configFile))
	return nil
}

func parseSortKeys(spec string) []tables.SortKey {
	var keys []tables.SortKey
	for _, part := range strings.Split(spec, ",") {
		part = strings.TrimSpace(part)
		if strings.HasPrefix(part, "-") {
			keys = append(keys, tables.SortKey{Column: part[1:], Descending: true})
		} else if part != "" {
			keys = append(keys, tables.SortKey{Column: part})
		}
	}
	return keys
}
