/*
SPDX-License-Identifier: Apache-2.0

Copyright 2024 The Taxinomia Authors
*/

package expr

import (
	"fmt"
	"strconv"
	"strings"
)

// Binding powers of the infix operators; higher binds tighter. Comparisons
// chain left to right, ** groups to the right.
var infixPower = map[TokenType]int{
	TokenOr:       1,
	TokenAnd:      2,
	TokenEq:       4,
	TokenNe:       4,
	TokenLt:       4,
	TokenGt:       4,
	TokenLe:       4,
	TokenGe:       4,
	TokenPlus:     5,
	TokenMinus:    5,
	TokenStar:     6,
	TokenSlash:    6,
	TokenFloorDiv: 6,
	TokenPercent:  6,
	TokenPower:    7,
}

// notPower is the binding power of the operand of not: not a == b negates
// the comparison, not a and b negates only a.
const notPower = 3

// Parser turns the tokens of one expression into an AST.
type Parser struct {
	lexer *Lexer
	cur   Token
}

// NewParser creates a new parser
func NewParser(input string) *Parser {
	return &Parser{lexer: NewLexer(input)}
}

func (p *Parser) advance() error {
	tok, err := p.lexer.NextToken()
	if err != nil {
		return err
	}
	p.cur = tok
	return nil
}

// expect consumes a token of type t or fails naming what came instead.
func (p *Parser) expect(t TokenType, after string) error {
	if p.cur.Type != t {
		return fmt.Errorf("expected %q %s, got %s at position %d", t.String(), after, p.describe(), p.cur.Pos)
	}
	return p.advance()
}

func (p *Parser) describe() string {
	switch p.cur.Type {
	case TokenEOF:
		return p.cur.Type.String()
	case TokenNumber, TokenString, TokenIdent:
		return fmt.Sprintf("%s %q", p.cur.Type, p.cur.Value)
	}
	return fmt.Sprintf("%q", p.cur.Type.String())
}

// Parse parses the input and returns the AST. The whole input must be
// consumed.
func (p *Parser) Parse() (Node, error) {
	if err := p.advance(); err != nil {
		return nil, err
	}
	node, err := p.parseBinary(0)
	if err != nil {
		return nil, err
	}
	if p.cur.Type != TokenEOF {
		return nil, fmt.Errorf("unexpected %s at position %d", p.describe(), p.cur.Pos)
	}
	return node, nil
}

// parseBinary parses operators whose binding power is at least minPower.
func (p *Parser) parseBinary(minPower int) (Node, error) {
	var left Node
	var err error
	if p.cur.Type == TokenNot {
		if minPower > notPower {
			return nil, fmt.Errorf("not must be parenthesized at position %d", p.cur.Pos)
		}
		if err := p.advance(); err != nil {
			return nil, err
		}
		operand, err := p.parseBinary(notPower)
		if err != nil {
			return nil, err
		}
		left = &UnaryOp{Op: TokenNot, Expr: operand}
	} else if left, err = p.parseUnary(); err != nil {
		return nil, err
	}

	for {
		op := p.cur.Type
		power, ok := infixPower[op]
		if !ok || power < minPower {
			return left, nil
		}
		if err := p.advance(); err != nil {
			return nil, err
		}
		next := power + 1
		if op == TokenPower {
			next = power
		}
		right, err := p.parseBinary(next)
		if err != nil {
			return nil, err
		}
		left = &BinaryOp{Op: op, Left: left, Right: right}
	}
}

// parseUnary handles prefix minus, which binds tighter than any infix
// operator.
func (p *Parser) parseUnary() (Node, error) {
	if p.cur.Type != TokenMinus {
		return p.parsePostfix()
	}
	if err := p.advance(); err != nil {
		return nil, err
	}
	operand, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	return &UnaryOp{Op: TokenMinus, Expr: operand}, nil
}

// parsePostfix parses an operand followed by any number of calls and
// method calls: round(x, 1), name.strip().upper().
func (p *Parser) parsePostfix() (Node, error) {
	node, err := p.parseOperand()
	if err != nil {
		return nil, err
	}
	for {
		switch p.cur.Type {
		case TokenLParen:
			ident, ok := node.(*Ident)
			if !ok {
				return nil, fmt.Errorf("cannot call non-function at position %d", p.cur.Pos)
			}
			args, err := p.parseArgs()
			if err != nil {
				return nil, err
			}
			node = &CallExpr{Func: ident.Name, Args: args}
		case TokenDot:
			if err := p.advance(); err != nil {
				return nil, err
			}
			if p.cur.Type != TokenIdent {
				return nil, fmt.Errorf("expected method name after '.', got %s", p.describe())
			}
			method := p.cur.Value
			if err := p.advance(); err != nil {
				return nil, err
			}
			if p.cur.Type != TokenLParen {
				return nil, fmt.Errorf("expected '(' after .%s", method)
			}
			args, err := p.parseArgs()
			if err != nil {
				return nil, err
			}
			node = &MethodCall{Obj: node, Method: method, Args: args}
		default:
			return node, nil
		}
	}
}

// parseArgs parses a parenthesized, comma separated argument list starting
// at the opening parenthesis.
func (p *Parser) parseArgs() ([]Node, error) {
	if err := p.advance(); err != nil {
		return nil, err
	}
	var args []Node
	for p.cur.Type != TokenRParen {
		if len(args) > 0 {
			if err := p.expect(TokenComma, "between arguments"); err != nil {
				return nil, err
			}
		}
		arg, err := p.parseBinary(0)
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
		if p.cur.Type == TokenEOF {
			break
		}
	}
	if err := p.expect(TokenRParen, "after arguments"); err != nil {
		return nil, err
	}
	return args, nil
}

// parseOperand parses a literal, a column reference or a parenthesized
// expression.
func (p *Parser) parseOperand() (Node, error) {
	tok := p.cur
	switch tok.Type {
	case TokenNumber, TokenString, TokenIdent:
		if err := p.advance(); err != nil {
			return nil, err
		}
		return literalOrIdent(tok)
	case TokenLParen:
		if err := p.advance(); err != nil {
			return nil, err
		}
		inner, err := p.parseBinary(0)
		if err != nil {
			return nil, err
		}
		if err := p.expect(TokenRParen, "after expression"); err != nil {
			return nil, err
		}
		return inner, nil
	case TokenEOF:
		return nil, fmt.Errorf("unexpected end of expression")
	}
	return nil, fmt.Errorf("unexpected %s at position %d", p.describe(), tok.Pos)
}

func literalOrIdent(tok Token) (Node, error) {
	switch tok.Type {
	case TokenString:
		return &StringLit{Value: tok.Value}, nil
	case TokenIdent:
		switch tok.Value {
		case "True":
			return &BoolLit{Value: true}, nil
		case "False":
			return &BoolLit{Value: false}, nil
		}
		return &Ident{Name: tok.Value}, nil
	}
	if !strings.ContainsAny(tok.Value, ".eE") {
		if v, err := strconv.ParseInt(tok.Value, 10, 64); err == nil {
			return &IntLit{Value: v}, nil
		}
	}
	v, err := strconv.ParseFloat(tok.Value, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid number %q at position %d", tok.Value, tok.Pos)
	}
	return &FloatLit{Value: v}, nil
}
