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
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/google/tabulae/core/csvimport"
	"github.com/google/tabulae/core/logging"
	"github.com/google/tabulae/core/tables"
)

// Source names a table stored in a file.
type Source struct {
	Name string
	Path string
	// Type selects the loader; empty means TypeForPath(Path).
	Type string
}

// NameForPath names a file's table after its base name without extension.
func NameForPath(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// Manager handles loading and caching of data sources.
// Sources are registered eagerly; data is loaded lazily on demand.
type Manager struct {
	mu sync.RWMutex

	// Source metadata indexed by name
	sources map[string]Source

	// Cached tables indexed by source name - populated lazily
	tables map[string]*tables.DataTable

	// Registered loaders indexed by source type
	loaders map[string]Loader

	// Base directory for resolving relative paths
	baseDir string
}

// NewManager creates a data source manager with no loaders.
func NewManager() *Manager {
	return &Manager{
		sources: make(map[string]Source),
		tables:  make(map[string]*tables.DataTable),
		loaders: make(map[string]Loader),
	}
}

// NewDefaultManager creates a manager with the JSON and protobuf JSON
// loaders and the given CSV and textproto loaders registered. A nil loader
// is replaced by one with default settings.
func NewDefaultManager(csv *CSVLoader, textproto *TextprotoLoader) *Manager {
	if csv == nil {
		csv = &CSVLoader{Options: csvimport.DefaultOptions()}
	}
	if textproto == nil {
		textproto = &TextprotoLoader{}
	}
	m := NewManager()
	m.RegisterLoader(csv)
	m.RegisterLoader(JSONLoader{})
	m.RegisterLoader(ProtoJSONLoader{})
	m.RegisterLoader(textproto)
	return m
}

// RegisterLoader registers a data source loader for its source type.
// If a loader is already registered for this type, it will be replaced.
func (m *Manager) RegisterLoader(loader Loader) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.loaders[loader.SourceType()] = loader
}

// SetBaseDir sets the base directory for resolving relative source paths.
func (m *Manager) SetBaseDir(dir string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.baseDir = dir
}

// AddSource registers a source. Registering a name again replaces the
// source and drops its cached table.
func (m *Manager) AddSource(source Source) error {
	if source.Name == "" {
		return fmt.Errorf("source for %q has no name", source.Path)
	}
	if source.Type == "" {
		source.Type = TypeForPath(source.Path)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sources[source.Name] = source
	delete(m.tables, source.Name)
	return nil
}

// AddFile registers the file at path under NameForPath(path) and returns
// that name.
func (m *Manager) AddFile(path string) (string, error) {
	name := NameForPath(path)
	return name, m.AddSource(Source{Name: name, Path: path})
}

// SourceNames returns all registered source names, sorted.
func (m *Manager) SourceNames() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	names := make([]string, 0, len(m.sources))
	for name := range m.sources {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// LoadData loads data for a source by name.
// Returns cached data if already loaded; otherwise loads from the source.
func (m *Manager) LoadData(sourceName string) (*tables.DataTable, error) {
	// Check cache first (with read lock)
	m.mu.RLock()
	if table, ok := m.tables[sourceName]; ok {
		m.mu.RUnlock()
		return table, nil
	}
	source, ok := m.sources[sourceName]
	if !ok {
		m.mu.RUnlock()
		return nil, fmt.Errorf("source %q not found", sourceName)
	}
	loader, hasLoader := m.loaders[source.Type]
	path := m.resolvePath(source.Path)
	m.mu.RUnlock()

	if !hasLoader {
		return nil, fmt.Errorf("no loader registered for source type %q", source.Type)
	}

	table, err := loader.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load source %q: %w", sourceName, err)
	}
	logging.Get().Debug("source loaded",
		zap.String("source", sourceName),
		zap.String("type", source.Type),
		zap.Int("rows", table.Len()),
		zap.Int("columns", len(table.Columns())))

	// Cache the result
	m.mu.Lock()
	m.tables[sourceName] = table
	m.mu.Unlock()

	return table, nil
}

// LoadFile registers path and loads it.
func (m *Manager) LoadFile(path string) (*tables.DataTable, error) {
	name, err := m.AddFile(path)
	if err != nil {
		return nil, err
	}
	return m.LoadData(name)
}

// LoadAll loads every registered source, stopping at the first error.
func (m *Manager) LoadAll() (map[string]*tables.DataTable, error) {
	out := make(map[string]*tables.DataTable)
	for _, name := range m.SourceNames() {
		t, err := m.LoadData(name)
		if err != nil {
			return nil, err
		}
		out[name] = t
	}
	return out, nil
}

// resolvePath resolves a relative path against the base directory.
func (m *Manager) resolvePath(path string) string {
	if m.baseDir == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(m.baseDir, path)
}

// InvalidateCache removes a source from the cache, forcing reload on next access.
func (m *Manager) InvalidateCache(sourceName string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.tables, sourceName)
}

// IsLoaded returns whether data for a source is currently cached.
func (m *Manager) IsLoaded(sourceName string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.tables[sourceName]
	return ok
}
