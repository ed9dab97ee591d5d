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

// Package server serves loaded tables over HTTP. Each table is viewed
// through a URL query (see package query) and rendered as HTML, plain text
// or JSON records.
package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/google/tabulae/core/jsonio"
	"github.com/google/tabulae/core/logging"
	"github.com/google/tabulae/core/models"
	"github.com/google/tabulae/core/query"
	"github.com/google/tabulae/core/rendering"
	"github.com/google/tabulae/core/tables"
	"github.com/google/tabulae/core/views"
)

// Format selects the representation written by HandleTableRequest.
type Format int

const (
	FormatHTML Format = iota
	FormatText
	FormatJSON
)

// Options configures a Server.
type Options struct {
	// DefaultLimit is the row limit for URLs without one.
	DefaultLimit int
	// Head and Tail control the elision of long tables.
	Head, Tail int
}

// Server represents the application server with all its dependencies
type Server struct {
	renderer *rendering.TableRenderer
	opts     Options
	model    *models.DataModel
}

// NewServer creates a new server without tables.
func NewServer(opts Options) (*Server, error) {
	renderer, err := rendering.NewTableRenderer()
	if err != nil {
		return nil, fmt.Errorf("failed to create renderer: %w", err)
	}
	if opts.DefaultLimit < 0 {
		opts.DefaultLimit = query.DefaultLimit
	}
	return &Server{
		renderer: renderer,
		opts:     opts,
		model:    models.NewDataModel(),
	}, nil
}

// AddTable registers t under name, replacing any table of that name.
// System table names such as _columns cannot be registered.
func (s *Server) AddTable(name string, t *tables.DataTable) error {
	if !s.model.AddTable(name, t) {
		return fmt.Errorf("table name %q is reserved", name)
	}
	return nil
}

// GetTable returns the named table or nil. System tables are included.
func (s *Server) GetTable(name string) *tables.DataTable {
	return s.model.GetTable(name)
}

// TableNames returns the registered table names in sorted order.
func (s *Server) TableNames() []string {
	return s.model.TableNames()
}

// TableHandlerResult represents the result of handling a table request
type TableHandlerResult struct {
	Error      error
	StatusCode int
	Message    string
}

// HandleTableRequest processes a table request and writes the response.
// Returns an error result if the request is invalid, nil on success.
func (s *Server) HandleTableRequest(ctx context.Context, w io.Writer, requestURL *url.URL, format Format, setHeader func(key, value string)) *TableHandlerResult {
	logger := logging.WithContext(ctx)
	start := time.Now()

	q := query.NewQueryWithLimit(requestURL, s.opts.DefaultLimit)
	if q.Table == "" {
		return &TableHandlerResult{StatusCode: http.StatusBadRequest, Message: "Table parameter is required"}
	}
	table := s.GetTable(q.Table)
	if table == nil {
		return &TableHandlerResult{StatusCode: http.StatusNotFound, Message: fmt.Sprintf("Table '%s' not found", q.Table)}
	}

	result, err := q.Apply(table)
	if err != nil {
		return &TableHandlerResult{StatusCode: statusFor(err), Message: err.Error(), Error: err}
	}
	logger.Debug("query applied",
		zap.String("table", q.Table),
		zap.Int("rows", result.Len()),
		zap.Duration("elapsed", time.Since(start)),
	)

	switch format {
	case FormatJSON:
		if q.Limit > 0 {
			result = result.Head(q.Limit)
		}
		setHeader("Content-Type", "application/json")
		err = jsonio.WriteRecords(w, result)
	case FormatText:
		vm := views.NewTableViewModel(result, q, s.viewOptions(q.Table))
		setHeader("Content-Type", "text/plain; charset=utf-8")
		_, err = io.WriteString(w, rendering.RenderASCII(vm))
	default:
		vm := views.NewTableViewModel(result, q, s.viewOptions(q.Table))
		setHeader("Content-Type", "text/html; charset=utf-8")
		err = s.renderer.Render(w, vm)
	}
	if err != nil {
		// the response may already be partially written
		logger.Error("rendering failed", zap.String("table", q.Table), zap.Error(err))
		return &TableHandlerResult{Error: err}
	}
	return nil
}

func (s *Server) viewOptions(title string) views.Options {
	return views.Options{Title: title, Head: s.opts.Head, Tail: s.opts.Tail}
}

// statusFor maps table errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, tables.ErrKey):
		return http.StatusNotFound
	case errors.Is(err, tables.ErrNotImplemented):
		return http.StatusNotImplemented
	default:
		return http.StatusBadRequest
	}
}

// HandleLandingRequest writes the list of tables.
func (s *Server) HandleLandingRequest(w io.Writer, setHeader func(key, value string)) error {
	vm := views.LandingViewModel{Title: "Tables"}
	for _, name := range append(s.TableNames(), models.SystemTableNames()...) {
		t := s.GetTable(name)
		rows, cols := t.Shape()
		q := &query.Query{Path: "/table", Table: name, Filters: map[string]string{}, Limit: s.opts.DefaultLimit}
		vm.Tables = append(vm.Tables, views.TableInfo{Name: name, Rows: rows, Columns: cols, URL: q.ToSafeURL()})
	}
	setHeader("Content-Type", "text/html; charset=utf-8")
	return s.renderer.RenderLanding(w, vm)
}

// Handler returns the HTTP routes of the viewer:
//
//	/            landing page
//	/table       HTML view
//	/table.txt   bordered text view
//	/table.json  JSON records
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	table := func(format Format) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			res := s.HandleTableRequest(r.Context(), w, r.URL, format, w.Header().Set)
			if res != nil && res.StatusCode != 0 {
				http.Error(w, res.Message, res.StatusCode)
			}
		}
	}
	mux.HandleFunc("/table", table(FormatHTML))
	mux.HandleFunc("/table.txt", table(FormatText))
	mux.HandleFunc("/table.json", table(FormatJSON))
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		if err := s.HandleLandingRequest(w, w.Header().Set); err != nil {
			logging.WithContext(r.Context()).Error("landing page failed", zap.Error(err))
		}
	})
	return withRequestID(mux)
}

// withRequestID tags each request with an id, echoed in the X-Request-ID
// header and attached to log lines.
func withRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", id)
		ctx := context.WithValue(r.Context(), logging.RequestIDKey, id)
		start := time.Now()
		next.ServeHTTP(w, r.WithContext(ctx))
		logging.WithContext(ctx).Info("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Duration("elapsed", time.Since(start)),
		)
	})
}

// ListenAndServe serves the viewer on addr until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	errc := make(chan error, 1)
	go func() {
		logging.Get().Info("listening", zap.String("addr", addr))
		errc <- srv.ListenAndServe()
	}()
	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
