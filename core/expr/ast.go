/*
SPDX-License-Identifier: Apache-2.0

Copyright 2024 The Taxinomia Authors
*/

package expr

// Node is the interface for all AST nodes
type Node interface {
	node()
}

// IntLit is an integer literal such as 3.
type IntLit struct {
	Value int64
}

// FloatLit is a literal with a decimal point such as 2.5.
type FloatLit struct {
	Value float64
}

// StringLit represents a string literal
type StringLit struct {
	Value string
}

// BoolLit is True or False.
type BoolLit struct {
	Value bool
}

// Ident represents an identifier (column name)
type Ident struct {
	Name string
}

// BinaryOp represents a binary operation
type BinaryOp struct {
	Op    TokenType
	Left  Node
	Right Node
}

// UnaryOp represents a unary operation
type UnaryOp struct {
	Op   TokenType
	Expr Node
}

// CallExpr is a function call such as round(price, 1).
type CallExpr struct {
	Func string
	Args []Node
}

// MethodCall is a string method call such as name.upper().
type MethodCall struct {
	Obj    Node
	Method string
	Args   []Node
}

func (*IntLit) node()     {}
func (*FloatLit) node()   {}
func (*StringLit) node()  {}
func (*BoolLit) node()    {}
func (*Ident) node()      {}
func (*BinaryOp) node()   {}
func (*UnaryOp) node()    {}
func (*CallExpr) node()   {}
func (*MethodCall) node() {}
