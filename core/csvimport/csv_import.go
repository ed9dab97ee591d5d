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
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/google/tabulae/core/columns"
	"github.com/google/tabulae/core/logging"
	"github.com/google/tabulae/core/tables"
)

// CsvColumnType specifies the data type for a column
type CsvColumnType int

const (
	// CsvColumnTypeAuto tries int, then float, then text (default)
	CsvColumnTypeAuto CsvColumnType = iota
	// CsvColumnTypeString forces text
	CsvColumnTypeString
	// CsvColumnTypeBool forces bool
	CsvColumnTypeBool
	// CsvColumnTypeFloat64 forces float64
	CsvColumnTypeFloat64
	// CsvColumnTypeInt64 forces int64
	CsvColumnTypeInt64
)

// ParseColumnType maps the configuration spelling of a type to a CsvColumnType.
func ParseColumnType(s string) (CsvColumnType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "auto":
		return CsvColumnTypeAuto, nil
	case "string", "text":
		return CsvColumnTypeString, nil
	case "bool":
		return CsvColumnTypeBool, nil
	case "float", "float64":
		return CsvColumnTypeFloat64, nil
	case "int", "int64":
		return CsvColumnTypeInt64, nil
	}
	return CsvColumnTypeAuto, fmt.Errorf("unknown column type %q", s)
}

// CsvColumnSource defines how one column is imported
type CsvColumnSource struct {
	// Name renames the column (defaults to the header name)
	Name string
	// Type specifies the data type for this column (default: auto-detect)
	Type CsvColumnType
}

// ImportOptions configures CSV import behavior
type ImportOptions struct {
	// HasHeader indicates whether the first row contains column headers
	HasHeader bool
	// Delimiter is the field delimiter (defaults to comma)
	Delimiter rune
	// EmptyAsNull stores empty cells as missing values: null text, NaN
	// floats. Int columns holding an empty cell become float columns.
	// When false an empty cell is ordinary text.
	EmptyAsNull bool
	// ColumnSources provides configuration for specific columns by header name
	ColumnSources map[string]CsvColumnSource
}

// DefaultOptions returns default import options
func DefaultOptions() ImportOptions {
	return ImportOptions{
		HasHeader:     true,
		Delimiter:     ',',
		ColumnSources: make(map[string]CsvColumnSource),
	}
}

// ImportFromFile imports a CSV file and returns a DataTable
func ImportFromFile(filepath string, options ImportOptions) (*tables.DataTable, error) {
	file, err := os.Open(filepath)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	logging.Get().Debug("importing csv", zap.String("path", filepath))
	return ImportFromReader(file, options)
}

// ImportFromReader imports CSV data from an io.Reader and returns a DataTable
func ImportFromReader(reader io.Reader, options ImportOptions) (*tables.DataTable, error) {
	csvReader := csv.NewReader(reader)
	if options.Delimiter != 0 {
		csvReader.Comma = options.Delimiter
	}
	csvReader.FieldsPerRecord = -1

	records, err := csvReader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("CSV file is empty")
	}

	var headers []string
	var dataRows [][]string
	if options.HasHeader {
		headers = records[0]
		dataRows = records[1:]
	} else {
		numCols := len(records[0])
		headers = make([]string, numCols)
		for i := 0; i < numCols; i++ {
			headers[i] = fmt.Sprintf("column_%d", i+1)
		}
		dataRows = records
	}

	log := logging.Get()
	names := make([]string, len(headers))
	cols := make([]columns.Column, len(headers))
	for i, header := range headers {
		header = strings.TrimSpace(header)
		source := getColumnSource(header, options.ColumnSources)
		names[i] = header
		if source.Name != "" {
			names[i] = source.Name
		}

		cells := make([]string, len(dataRows))
		for r, row := range dataRows {
			if i < len(row) {
				cells[r] = strings.TrimSpace(row[i])
			}
		}
		col, err := buildColumn(cells, source.Type, options.EmptyAsNull)
		if err != nil {
			return nil, fmt.Errorf("column %q: %w", header, err)
		}
		log.Debug("inferred csv column",
			zap.String("column", names[i]),
			zap.Stringer("kind", col.Kind()),
			zap.Int("rows", col.Length()))
		cols[i] = col
	}

	table, err := tables.FromColumns(names, cols)
	if err != nil {
		return nil, fmt.Errorf("failed to build table: %w", err)
	}
	return table, nil
}

// buildColumn converts the cells of one column. With CsvColumnTypeAuto the
// whole column is tried as int64, then float64, and otherwise kept as text.
func buildColumn(cells []string, typ CsvColumnType, emptyAsNull bool) (columns.Column, error) {
	switch typ {
	case CsvColumnTypeString:
		return textColumn(cells, emptyAsNull), nil
	case CsvColumnTypeBool:
		data := make([]bool, len(cells))
		for i, v := range cells {
			b, err := columns.ParseBool(v)
			if err != nil {
				return nil, fmt.Errorf("row %d: %w", i, err)
			}
			data[i] = b
		}
		return columns.NewBoolColumn(data), nil
	case CsvColumnTypeInt64:
		if col, ok := intColumn(cells); ok {
			return col, nil
		}
		return nil, fmt.Errorf("values are not all integers")
	case CsvColumnTypeFloat64:
		if col, ok := floatColumn(cells, emptyAsNull); ok {
			return col, nil
		}
		return nil, fmt.Errorf("values are not all numbers")
	}

	if col, ok := intColumn(cells); ok {
		return col, nil
	}
	if col, ok := floatColumn(cells, emptyAsNull); ok {
		return col, nil
	}
	return textColumn(cells, emptyAsNull), nil
}

func intColumn(cells []string) (columns.Column, bool) {
	data := make([]int64, len(cells))
	for i, v := range cells {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return nil, false
		}
		data[i] = n
	}
	return columns.NewInt64Column(data), true
}

func floatColumn(cells []string, emptyAsNull bool) (columns.Column, bool) {
	data := make([]float64, len(cells))
	for i, v := range cells {
		if v == "" && emptyAsNull {
			data[i] = math.NaN()
			continue
		}
		f, err := columns.ParseFloat64(v)
		if err != nil {
			return nil, false
		}
		data[i] = f
	}
	return columns.NewFloat64Column(data), true
}

func textColumn(cells []string, emptyAsNull bool) columns.Column {
	null := make([]bool, len(cells))
	if emptyAsNull {
		for i, v := range cells {
			null[i] = v == ""
		}
	}
	return columns.NewStringColumnWithNulls(cells, null)
}

// getColumnSource returns the config for a column, or an empty config if not specified
func getColumnSource(header string, configs map[string]CsvColumnSource) CsvColumnSource {
	if configs == nil {
		return CsvColumnSource{}
	}
	if config, ok := configs[header]; ok {
		return config
	}
	return CsvColumnSource{}
}
