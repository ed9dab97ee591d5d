/*
SPDX-License-Identifier: Apache-2.0

Copyright 2024 The Taxinomia Authors

Package expr evaluates Python-like expressions over whole table columns.
It supports:
  - Column references by name (e.g., price, qty), or `quoted name` for
    names that are not identifiers
  - Arithmetic operators: +, -, *, /, //, %, **
  - Comparison operators: ==, !=, <, >, <=, >=
  - Logical operators on boolean columns: and, or, not
  - String concatenation with +
  - Literals: 123, 3.14, "hello", 'hello', True, False
  - Functions: abs(), round(), clip(), cumsum(), cummin(), cummax(), diff(),
    pct_change(), isna()
  - String methods: .upper(), .lower(), .title(), .capitalize(), .swapcase(),
    .strip(), .lstrip(), .rstrip(), .len(), .startswith(), .endswith(),
    .count(), .find(), .replace(), .zfill(), .center(), .get() and the
    .isalpha() family

Every operation works column at a time through the table operators, so the
result of an expression is a column of the table's length.
*/
package expr

import (
	"fmt"

	"github.com/google/tabulae/core/columns"
	"github.com/google/tabulae/core/tables"
)

// Expression represents a compiled expression ready for evaluation
type Expression struct {
	source string
	ast    Node
}

// Compile parses and compiles an expression string
func Compile(source string) (*Expression, error) {
	if source == "" {
		return nil, fmt.Errorf("empty expression")
	}

	ast, err := NewParser(source).Parse()
	if err != nil {
		return nil, fmt.Errorf("parse error: %w", err)
	}
	return &Expression{source: source, ast: ast}, nil
}

// Source returns the original expression source
func (e *Expression) Source() string {
	return e.source
}

// Columns returns the column names the expression references, in order of
// first appearance.
func (e *Expression) Columns() []string {
	var names []string
	seen := make(map[string]bool)
	var walk func(Node)
	walk = func(n Node) {
		switch n := n.(type) {
		case *Ident:
			if !seen[n.Name] {
				seen[n.Name] = true
				names = append(names, n.Name)
			}
		case *BinaryOp:
			walk(n.Left)
			walk(n.Right)
		case *UnaryOp:
			walk(n.Expr)
		case *CallExpr:
			for _, a := range n.Args {
				walk(a)
			}
		case *MethodCall:
			walk(n.Obj)
			for _, a := range n.Args {
				walk(a)
			}
		}
	}
	walk(e.ast)
	return names
}

// Eval evaluates the expression against t and returns a column of t's length.
func (e *Expression) Eval(t *tables.DataTable) (columns.Column, error) {
	ev := &evaluator{table: t}
	v, err := ev.eval(e.ast)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", e.source, err)
	}
	return ev.column(v), nil
}

// WithColumn returns a copy of t with the result of source stored in the
// column called name.
func WithColumn(t *tables.DataTable, name, source string) (*tables.DataTable, error) {
	e, err := Compile(source)
	if err != nil {
		return nil, err
	}
	col, err := e.Eval(t)
	if err != nil {
		return nil, err
	}
	out := t.Copy()
	if err := out.SetColumn(name, col); err != nil {
		return nil, err
	}
	return out, nil
}

// Where returns the rows of t for which the boolean expression source holds.
func Where(t *tables.DataTable, source string) (*tables.DataTable, error) {
	e, err := Compile(source)
	if err != nil {
		return nil, err
	}
	col, err := e.Eval(t)
	if err != nil {
		return nil, err
	}
	if col.Kind() != columns.Bool {
		return nil, fmt.Errorf("%s: %w: condition must be boolean, got %v", source, tables.ErrType, col.Kind())
	}
	mask, err := tables.FromColumns([]string{"mask"}, []columns.Column{col})
	if err != nil {
		return nil, err
	}
	return t.Select(tables.ByMask{Mask: mask})
}
