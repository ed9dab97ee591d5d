/*
SPDX-License-Identifier: Apache-2.0

Copyright 2024 The Taxinomia Authors
*/

package expr

import (
	"fmt"
	"unicode/utf8"

	"github.com/google/tabulae/core/columns"
	"github.com/google/tabulae/core/strs"
	"github.com/google/tabulae/core/tables"
)

// valueName names the column of a broadcast literal.
const valueName = "value"

// value is an intermediate result: a one-column table of the input's
// length, or a literal that has not been broadcast yet.
type value struct {
	t   *tables.DataTable
	lit any // bool, int64, float64 or string
}

func (v value) isLit() bool { return v.t == nil }

// operand returns v in the form accepted by the table operators.
func (v value) operand() any {
	if v.isLit() {
		return v.lit
	}
	return v.t
}

type evaluator struct {
	table *tables.DataTable
}

func (ev *evaluator) broadcast(v value) *tables.DataTable {
	if !v.isLit() {
		return v.t
	}
	col, _ := columns.Repeat(v.lit, ev.table.Len())
	t, _ := tables.FromColumns([]string{valueName}, []columns.Column{col})
	return t
}

func (ev *evaluator) column(v value) columns.Column {
	t := ev.broadcast(v)
	return t.GetColumn(t.Columns()[0])
}

func (ev *evaluator) eval(node Node) (value, error) {
	switch n := node.(type) {
	case *IntLit:
		return value{lit: n.Value}, nil
	case *FloatLit:
		return value{lit: n.Value}, nil
	case *StringLit:
		return value{lit: n.Value}, nil
	case *BoolLit:
		return value{lit: n.Value}, nil
	case *Ident:
		t, err := ev.table.Select(tables.ByName(n.Name))
		if err != nil {
			return value{}, err
		}
		return value{t: t}, nil
	case *UnaryOp:
		return ev.unary(n)
	case *BinaryOp:
		return ev.binary(n)
	case *CallExpr:
		return ev.call(n)
	case *MethodCall:
		return ev.method(n)
	}
	return value{}, fmt.Errorf("unsupported expression %T", node)
}

var binaryOps = map[TokenType]tables.Op{
	TokenPlus:     tables.OpAdd,
	TokenMinus:    tables.OpSub,
	TokenStar:     tables.OpMul,
	TokenSlash:    tables.OpDiv,
	TokenFloorDiv: tables.OpFloorDiv,
	TokenPercent:  tables.OpMod,
	TokenPower:    tables.OpPow,
	TokenEq:       tables.OpEq,
	TokenNe:       tables.OpNe,
	TokenLt:       tables.OpLt,
	TokenGt:       tables.OpGt,
	TokenLe:       tables.OpLe,
	TokenGe:       tables.OpGe,
}

func (ev *evaluator) binary(n *BinaryOp) (value, error) {
	left, err := ev.eval(n.Left)
	if err != nil {
		return value{}, err
	}
	right, err := ev.eval(n.Right)
	if err != nil {
		return value{}, err
	}
	if n.Op == TokenAnd || n.Op == TokenOr {
		return ev.logical(n.Op, left, right)
	}
	op, ok := binaryOps[n.Op]
	if !ok {
		return value{}, fmt.Errorf("unsupported operator %v", n.Op)
	}

	var out *tables.DataTable
	if left.isLit() && !right.isLit() {
		out, err = right.t.ApplyReflected(op, left.lit)
	} else {
		out, err = ev.broadcast(left).Apply(op, right.operand())
	}
	if err != nil {
		return value{}, err
	}
	return value{t: out}, nil
}

func (ev *evaluator) bools(v value, op TokenType) ([]bool, error) {
	c, ok := ev.column(v).(*columns.BoolColumn)
	if !ok {
		return nil, fmt.Errorf("%w: %v needs boolean operands, got %v", tables.ErrType, op, ev.column(v).Kind())
	}
	return c.Values(), nil
}

func (ev *evaluator) logical(op TokenType, left, right value) (value, error) {
	a, err := ev.bools(left, op)
	if err != nil {
		return value{}, err
	}
	b, err := ev.bools(right, op)
	if err != nil {
		return value{}, err
	}
	for i := range a {
		if op == TokenAnd {
			a[i] = a[i] && b[i]
		} else {
			a[i] = a[i] || b[i]
		}
	}
	return ev.wrap(columns.NewBoolColumn(a))
}

func (ev *evaluator) wrap(col columns.Column) (value, error) {
	t, err := tables.FromColumns([]string{valueName}, []columns.Column{col})
	if err != nil {
		return value{}, err
	}
	return value{t: t}, nil
}

func (ev *evaluator) unary(n *UnaryOp) (value, error) {
	v, err := ev.eval(n.Expr)
	if err != nil {
		return value{}, err
	}
	switch n.Op {
	case TokenMinus:
		switch x := v.lit.(type) {
		case int64:
			return value{lit: -x}, nil
		case float64:
			return value{lit: -x}, nil
		}
		out, err := ev.broadcast(v).ApplyReflected(tables.OpSub, int64(0))
		if err != nil {
			return value{}, err
		}
		return value{t: out}, nil
	case TokenNot:
		b, err := ev.bools(v, n.Op)
		if err != nil {
			return value{}, err
		}
		for i := range b {
			b[i] = !b[i]
		}
		return ev.wrap(columns.NewBoolColumn(b))
	}
	return value{}, fmt.Errorf("unsupported unary operator %v", n.Op)
}

func checkArity(name string, args []Node, lo, hi int) error {
	if len(args) < lo || len(args) > hi {
		if lo == hi {
			return fmt.Errorf("%s takes %d argument(s), got %d", name, lo, len(args))
		}
		return fmt.Errorf("%s takes %d to %d arguments, got %d", name, lo, hi, len(args))
	}
	return nil
}

// literal evaluates args[i], which must be a literal. ok is false when the
// argument is absent.
func (ev *evaluator) literal(name string, args []Node, i int) (lit any, ok bool, err error) {
	if i >= len(args) {
		return nil, false, nil
	}
	v, err := ev.eval(args[i])
	if err != nil {
		return nil, false, err
	}
	if !v.isLit() {
		return nil, false, fmt.Errorf("%s: argument %d must be a literal", name, i+1)
	}
	return v.lit, true, nil
}

func (ev *evaluator) intArg(name string, args []Node, i, def int) (int, error) {
	lit, ok, err := ev.literal(name, args, i)
	if err != nil || !ok {
		return def, err
	}
	n, isInt := lit.(int64)
	if !isInt {
		return 0, fmt.Errorf("%s: argument %d must be an integer, got %T", name, i+1, lit)
	}
	return int(n), nil
}

func (ev *evaluator) floatArg(name string, args []Node, i int) (*float64, error) {
	lit, ok, err := ev.literal(name, args, i)
	if err != nil || !ok {
		return nil, err
	}
	switch x := lit.(type) {
	case int64:
		f := float64(x)
		return &f, nil
	case float64:
		return &x, nil
	}
	return nil, fmt.Errorf("%s: argument %d must be a number, got %T", name, i+1, lit)
}

func (ev *evaluator) stringArg(name string, args []Node, i int, def string) (string, error) {
	lit, ok, err := ev.literal(name, args, i)
	if err != nil || !ok {
		return def, err
	}
	s, isString := lit.(string)
	if !isString {
		return "", fmt.Errorf("%s: argument %d must be a string, got %T", name, i+1, lit)
	}
	return s, nil
}

// call evaluates the column functions. The first argument is the column;
// the rest are literals.
func (ev *evaluator) call(n *CallExpr) (value, error) {
	if len(n.Args) == 0 {
		return value{}, fmt.Errorf("%s takes a column argument", n.Func)
	}
	x, err := ev.eval(n.Args[0])
	if err != nil {
		return value{}, err
	}
	t := ev.broadcast(x)
	args := n.Args[1:]

	var out *tables.DataTable
	switch n.Func {
	case "abs", "cumsum", "cummin", "cummax", "isna":
		if err := checkArity(n.Func, args, 0, 0); err != nil {
			return value{}, err
		}
		out = map[string]func() *tables.DataTable{
			"abs":    t.Abs,
			"cumsum": t.CumSum,
			"cummin": t.CumMin,
			"cummax": t.CumMax,
			"isna":   t.IsNA,
		}[n.Func]()
	case "round":
		if err := checkArity(n.Func, args, 0, 1); err != nil {
			return value{}, err
		}
		digits, err := ev.intArg(n.Func, args, 0, 0)
		if err != nil {
			return value{}, err
		}
		out = t.Round(digits)
	case "diff", "pct_change":
		if err := checkArity(n.Func, args, 0, 1); err != nil {
			return value{}, err
		}
		periods, err := ev.intArg(n.Func, args, 0, 1)
		if err != nil {
			return value{}, err
		}
		if n.Func == "diff" {
			out = t.Diff(periods)
		} else {
			out = t.PctChange(periods)
		}
	case "clip":
		if err := checkArity(n.Func, args, 1, 2); err != nil {
			return value{}, err
		}
		lower, err := ev.floatArg(n.Func, args, 0)
		if err != nil {
			return value{}, err
		}
		upper, err := ev.floatArg(n.Func, args, 1)
		if err != nil {
			return value{}, err
		}
		out = t.Clip(lower, upper)
	default:
		return value{}, fmt.Errorf("unknown function %s", n.Func)
	}
	if len(out.Columns()) == 0 {
		return value{}, fmt.Errorf("%w: %s does not support %v columns", tables.ErrType, n.Func, ev.column(x).Kind())
	}
	return value{t: out}, nil
}

// textMethods take no arguments besides the column.
var textMethods = map[string]func(strs.Accessor, string) (*tables.DataTable, error){
	"upper":      strs.Accessor.Upper,
	"lower":      strs.Accessor.Lower,
	"title":      strs.Accessor.Title,
	"capitalize": strs.Accessor.Capitalize,
	"swapcase":   strs.Accessor.SwapCase,
	"len":        strs.Accessor.Len,
	"isalnum":    strs.Accessor.IsAlnum,
	"isalpha":    strs.Accessor.IsAlpha,
	"isdecimal":  strs.Accessor.IsDecimal,
	"isdigit":    strs.Accessor.IsDecimal,
	"isnumeric":  strs.Accessor.IsNumeric,
	"isspace":    strs.Accessor.IsSpace,
	"islower":    strs.Accessor.IsLower,
	"isupper":    strs.Accessor.IsUpper,
	"istitle":    strs.Accessor.IsTitle,
}

// substringMethods take one string argument.
var substringMethods = map[string]func(strs.Accessor, string, string) (*tables.DataTable, error){
	"startswith": strs.Accessor.StartsWith,
	"endswith":   strs.Accessor.EndsWith,
	"count":      strs.Accessor.Count,
	"find":       strs.Accessor.Find,
	"index":      strs.Accessor.Index,
}

// stripMethods take an optional set of characters.
var stripMethods = map[string]func(strs.Accessor, string, string) (*tables.DataTable, error){
	"strip":  strs.Accessor.Strip,
	"lstrip": strs.Accessor.LStrip,
	"rstrip": strs.Accessor.RStrip,
}

func (ev *evaluator) method(n *MethodCall) (value, error) {
	obj, err := ev.eval(n.Obj)
	if err != nil {
		return value{}, err
	}
	t := ev.broadcast(obj)
	col := t.Columns()[0]
	acc := strs.Of(t)
	name := "." + n.Method

	var out *tables.DataTable
	if fn, ok := textMethods[n.Method]; ok {
		if err := checkArity(name, n.Args, 0, 0); err != nil {
			return value{}, err
		}
		out, err = fn(acc, col)
	} else if fn, ok := substringMethods[n.Method]; ok {
		if err := checkArity(name, n.Args, 1, 1); err != nil {
			return value{}, err
		}
		sub, err := ev.stringArg(name, n.Args, 0, "")
		if err != nil {
			return value{}, err
		}
		out, err = fn(acc, col, sub)
		if err != nil {
			return value{}, err
		}
	} else if fn, ok := stripMethods[n.Method]; ok {
		if err := checkArity(name, n.Args, 0, 1); err != nil {
			return value{}, err
		}
		chars, err := ev.stringArg(name, n.Args, 0, "")
		if err != nil {
			return value{}, err
		}
		out, err = fn(acc, col, chars)
		if err != nil {
			return value{}, err
		}
	} else {
		out, err = ev.argMethod(acc, col, name, n)
	}
	if err != nil {
		return value{}, err
	}
	return value{t: out}, nil
}

// argMethod handles the methods with mixed argument types.
func (ev *evaluator) argMethod(acc strs.Accessor, col, name string, n *MethodCall) (*tables.DataTable, error) {
	switch n.Method {
	case "replace":
		if err := checkArity(name, n.Args, 2, 3); err != nil {
			return nil, err
		}
		old, err := ev.stringArg(name, n.Args, 0, "")
		if err != nil {
			return nil, err
		}
		repl, err := ev.stringArg(name, n.Args, 1, "")
		if err != nil {
			return nil, err
		}
		count, err := ev.intArg(name, n.Args, 2, -1)
		if err != nil {
			return nil, err
		}
		return acc.Replace(col, old, repl, count)
	case "zfill", "get":
		if err := checkArity(name, n.Args, 1, 1); err != nil {
			return nil, err
		}
		i, err := ev.intArg(name, n.Args, 0, 0)
		if err != nil {
			return nil, err
		}
		if n.Method == "zfill" {
			return acc.ZFill(col, i)
		}
		return acc.Get(col, i)
	case "center":
		if err := checkArity(name, n.Args, 1, 2); err != nil {
			return nil, err
		}
		width, err := ev.intArg(name, n.Args, 0, 0)
		if err != nil {
			return nil, err
		}
		fill, err := ev.stringArg(name, n.Args, 1, " ")
		if err != nil {
			return nil, err
		}
		if utf8.RuneCountInString(fill) != 1 {
			return nil, fmt.Errorf("%s: the fill character must be exactly one character long", name)
		}
		r, _ := utf8.DecodeRuneInString(fill)
		return acc.Center(col, width, r)
	}
	return nil, fmt.Errorf("unknown method %s", name)
}
