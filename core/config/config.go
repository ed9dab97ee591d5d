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

// Package config loads the YAML configuration shared by the CLI and the
// HTTP viewer.
package config

import (
	"fmt"
	"os"
	"strings"
	"unicode/utf8"

	"gopkg.in/yaml.v3"

	"github.com/google/tabulae/core/csvimport"
	"github.com/google/tabulae/core/logging"
	"github.com/google/tabulae/core/views"
)

// Config is the root of the configuration file.
type Config struct {
	Log    logging.Config `yaml:"log"`
	CSV    CSVConfig      `yaml:"csv"`
	Server ServerConfig   `yaml:"server"`
	Render RenderConfig   `yaml:"render"`
}

// CSVConfig controls CSV import.
type CSVConfig struct {
	Delimiter   string `yaml:"delimiter"`
	HasHeader   bool   `yaml:"has_header"`
	EmptyAsNull bool   `yaml:"empty_as_null"`
	// Columns overrides the inferred type or name of columns, keyed by header.
	Columns map[string]ColumnConfig `yaml:"columns"`
}

// ColumnConfig renames or types one CSV column.
type ColumnConfig struct {
	Name string `yaml:"name"`
	Type string `yaml:"type"` // auto, string, bool, float or int
}

// ServerConfig configures the HTTP viewer.
type ServerConfig struct {
	Addr         string `yaml:"addr"`
	DefaultLimit int    `yaml:"default_limit"`
	// Tables maps table names to CSV files loaded at startup.
	Tables map[string]string `yaml:"tables"`
}

// RenderConfig sets how many rows surround the gap of a long table.
type RenderConfig struct {
	Head int `yaml:"head"`
	Tail int `yaml:"tail"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Log: logging.DefaultConfig(),
		CSV: CSVConfig{Delimiter: ",", HasHeader: true},
		Server: ServerConfig{
			Addr:         ":8097",
			DefaultLimit: 25,
		},
		Render: RenderConfig{Head: views.DefaultHead, Tail: views.DefaultTail},
	}
}

// Load reads a YAML file over the defaults. ${VAR} references are replaced
// with environment values before parsing.
func Load(filePath string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(filePath)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := Parse(data, &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Parse decodes YAML into cfg after environment substitution and validates
// the result. Fields missing from data keep their value in cfg.
func Parse(data []byte, cfg *Config) error {
	content := substituteEnvVars(string(data))
	if err := yaml.Unmarshal([]byte(content), cfg); err != nil {
		return fmt.Errorf("failed to parse YAML: %w", err)
	}
	return cfg.Validate()
}

// Save writes cfg as YAML.
func Save(filePath string, cfg Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal YAML: %w", err)
	}
	if err := os.WriteFile(filePath, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// Validate checks values that cannot be caught by decoding.
func (c Config) Validate() error {
	if utf8.RuneCountInString(c.CSV.Delimiter) > 1 {
		return fmt.Errorf("csv.delimiter must be a single character, got %q", c.CSV.Delimiter)
	}
	if c.Server.DefaultLimit < 0 {
		return fmt.Errorf("server.default_limit must not be negative")
	}
	if c.Render.Head < 0 || c.Render.Tail < 0 {
		return fmt.Errorf("render.head and render.tail must not be negative")
	}
	for header, col := range c.CSV.Columns {
		if _, err := csvimport.ParseColumnType(col.Type); err != nil {
			return fmt.Errorf("csv.columns.%s: %w", header, err)
		}
	}
	return nil
}

// ImportOptions converts the csv section for csvimport.
func (c CSVConfig) ImportOptions() (csvimport.ImportOptions, error) {
	opts := csvimport.DefaultOptions()
	opts.HasHeader = c.HasHeader
	opts.EmptyAsNull = c.EmptyAsNull
	if r, _ := utf8.DecodeRuneInString(c.Delimiter); r != utf8.RuneError {
		opts.Delimiter = r
	}
	for header, col := range c.Columns {
		typ, err := csvimport.ParseColumnType(col.Type)
		if err != nil {
			return opts, fmt.Errorf("csv.columns.%s: %w", header, err)
		}
		opts.ColumnSources[header] = csvimport.CsvColumnSource{Name: col.Name, Type: typ}
	}
	return opts, nil
}

// ViewOptions converts the render section for the view model.
func (c RenderConfig) ViewOptions(title string) views.Options {
	return views.Options{Title: title, Head: c.Head, Tail: c.Tail}
}

// substituteEnvVars replaces ${VAR_NAME} with environment variable values
func substituteEnvVars(content string) string {
	var sb strings.Builder
	for {
		start := strings.Index(content, "${")
		if start == -1 {
			break
		}
		end := strings.Index(content[start:], "}")
		if end == -1 {
			break
		}
		end += start
		sb.WriteString(content[:start])
		sb.WriteString(os.Getenv(content[start+2 : end]))
		content = content[end+1:]
	}
	sb.WriteString(content)
	return sb.String()
}
