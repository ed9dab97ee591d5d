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

// Package rendering turns tables into HTML and bordered plain text.
package rendering

import (
	"embed"
	"io"

	"github.com/google/safehtml/template"
	"github.com/google/tabulae/core/tables"
	"github.com/google/tabulae/core/views"
)

//go:embed templates/*
var templateFS embed.FS

// TableRenderer handles rendering of table view models to HTML
type TableRenderer struct {
	templates *template.Template
}

// NewTableRenderer creates a new table renderer
func NewTableRenderer() (*TableRenderer, error) {
	trustedFS := template.TrustedFSFromEmbed(templateFS)
	tmpl, err := template.New("page.html").ParseFS(trustedFS, "templates/*.html")
	if err != nil {
		return nil, err
	}
	return &TableRenderer{templates: tmpl}, nil
}

// Render renders a full page for a TableViewModel to the provided writer
func (r *TableRenderer) Render(w io.Writer, vm views.TableViewModel) error {
	return r.templates.ExecuteTemplate(w, "page.html", vm)
}

// RenderFragment renders only the table element.
func (r *TableRenderer) RenderFragment(w io.Writer, vm views.TableViewModel) error {
	return r.templates.ExecuteTemplate(w, "table", vm)
}

// RenderLanding renders a LandingViewModel to the provided writer
func (r *TableRenderer) RenderLanding(w io.Writer, vm views.LandingViewModel) error {
	return r.templates.ExecuteTemplate(w, "landing.html", vm)
}

// RenderHTML writes t as an HTML table: every row when there are at most 20,
// otherwise the first and last 10 separated by an ellipsis row.
func RenderHTML(w io.Writer, t *tables.DataTable) error {
	r, err := NewTableRenderer()
	if err != nil {
		return err
	}
	return r.RenderFragment(w, views.NewTableViewModel(t, nil, views.Options{}))
}
