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

// Package models holds the set of named tables a server exposes, plus the
// system tables that describe them.
package models

import (
	"sort"
	"sync"

	"github.com/google/tabulae/core/tables"
)

// DataModel is a concurrency-safe registry of named tables.
type DataModel struct {
	mu     sync.RWMutex
	tables map[string]*tables.DataTable
}

// NewDataModel creates a new DataModel instance
func NewDataModel() *DataModel {
	return &DataModel{tables: make(map[string]*tables.DataTable)}
}

// AddTable adds a table to the data model, replacing any table of that
// name. System table names are reserved and ignored.
func (dm *DataModel) AddTable(name string, table *tables.DataTable) bool {
	if IsSystemTable(name) {
		return false
	}
	dm.mu.Lock()
	defer dm.mu.Unlock()
	dm.tables[name] = table
	return true
}

// GetTable returns a table by name, or nil. System tables are built from
// the current contents of the model.
func (dm *DataModel) GetTable(name string) *tables.DataTable {
	if build, ok := systemTables[name]; ok {
		return build(dm)
	}
	dm.mu.RLock()
	defer dm.mu.RUnlock()
	return dm.tables[name]
}

// TableNames returns the names of the user tables in sorted order.
func (dm *DataModel) TableNames() []string {
	dm.mu.RLock()
	defer dm.mu.RUnlock()
	names := make([]string, 0, len(dm.tables))
	for name := range dm.tables {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// GetAllTables returns a snapshot of the user tables.
func (dm *DataModel) GetAllTables() map[string]*tables.DataTable {
	dm.mu.RLock()
	defer dm.mu.RUnlock()
	out := make(map[string]*tables.DataTable, len(dm.tables))
	for name, t := range dm.tables {
		out[name] = t
	}
	return out
}
