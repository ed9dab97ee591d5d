/*
SPDX-License-Identifier: Apache-2.0

Copyright 2024 The Taxinomia Authors
*/

package expr

import (
	"fmt"
	"strings"
	"unicode"
)

var twoCharOps = map[string]TokenType{
	"**": TokenPower,
	"//": TokenFloorDiv,
	"==": TokenEq,
	"!=": TokenNe,
	"<=": TokenLe,
	">=": TokenGe,
}

var oneCharOps = map[byte]TokenType{
	'+': TokenPlus,
	'-': TokenMinus,
	'*': TokenStar,
	'/': TokenSlash,
	'%': TokenPercent,
	'(': TokenLParen,
	')': TokenRParen,
	',': TokenComma,
	'.': TokenDot,
	'<': TokenLt,
	'>': TokenGt,
}

// Lexer tokenizes an expression string
type Lexer struct {
	input string
	pos   int
	ch    byte
}

// NewLexer creates a new lexer for the given input
func NewLexer(input string) *Lexer {
	l := &Lexer{input: input}
	if len(input) > 0 {
		l.ch = input[0]
	}
	return l
}

func (l *Lexer) advance() {
	l.pos++
	if l.pos >= len(l.input) {
		l.ch = 0
	} else {
		l.ch = l.input[l.pos]
	}
}

func (l *Lexer) peek() byte {
	if l.pos+1 >= len(l.input) {
		return 0
	}
	return l.input[l.pos+1]
}

func (l *Lexer) skipWhitespace() {
	for l.ch != 0 && (l.ch == ' ' || l.ch == '\t' || l.ch == '\n' || l.ch == '\r') {
		l.advance()
	}
}

// NextToken returns the next token from the input
func (l *Lexer) NextToken() (Token, error) {
	l.skipWhitespace()

	if l.ch == 0 {
		return Token{Type: TokenEOF, Pos: l.pos}, nil
	}

	startPos := l.pos

	// Numbers
	if isDigit(l.ch) || (l.ch == '.' && isDigit(l.peek())) {
		return l.readNumber(startPos)
	}

	// Strings
	if l.ch == '"' || l.ch == '\'' {
		return l.readString(startPos)
	}

	// Identifiers and keywords
	if isLetter(l.ch) || l.ch == '_' {
		return l.readIdent(startPos)
	}

	// Column names that are not identifiers: `unit price`
	if l.ch == '`' {
		return l.readQuotedIdent(startPos)
	}

	// Two-character operators first
	if tt, ok := twoCharOps[string([]byte{l.ch, l.peek()})]; ok {
		l.advance()
		l.advance()
		return Token{Type: tt, Value: tt.String(), Pos: startPos}, nil
	}
	if tt, ok := oneCharOps[l.ch]; ok {
		l.advance()
		return Token{Type: tt, Value: tt.String(), Pos: startPos}, nil
	}
	switch l.ch {
	case '=':
		return Token{}, fmt.Errorf("unexpected '=' at position %d, did you mean '=='?", startPos)
	case '!':
		return Token{}, fmt.Errorf("unexpected '!' at position %d", startPos)
	}

	return Token{}, fmt.Errorf("unexpected character '%c' at position %d", l.ch, startPos)
}

func (l *Lexer) readQuotedIdent(startPos int) (Token, error) {
	l.advance()
	var sb strings.Builder
	for l.ch != 0 && l.ch != '`' {
		sb.WriteByte(l.ch)
		l.advance()
	}
	if l.ch != '`' {
		return Token{}, fmt.Errorf("unterminated column name starting at position %d", startPos)
	}
	l.advance()
	return Token{Type: TokenIdent, Value: sb.String(), Pos: startPos}, nil
}

func (l *Lexer) readNumber(startPos int) (Token, error) {
	var sb strings.Builder
	hasDecimal := false

	for isDigit(l.ch) || l.ch == '.' {
		if l.ch == '.' {
			if hasDecimal {
				break
			}
			hasDecimal = true
		}
		sb.WriteByte(l.ch)
		l.advance()
	}

	return Token{Type: TokenNumber, Value: sb.String(), Pos: startPos}, nil
}

func (l *Lexer) readString(startPos int) (Token, error) {
	quote := l.ch
	l.advance()
	var sb strings.Builder

	for l.ch != 0 && l.ch != quote {
		if l.ch == '\\' {
			l.advance()
			switch l.ch {
			case 'n':
				sb.WriteByte('\n')
			case 't':
				sb.WriteByte('\t')
			case 'r':
				sb.WriteByte('\r')
			case '\\':
				sb.WriteByte('\\')
			case '"':
				sb.WriteByte('"')
			case '\'':
				sb.WriteByte('\'')
			default:
				sb.WriteByte(l.ch)
			}
		} else {
			sb.WriteByte(l.ch)
		}
		l.advance()
	}

	if l.ch != quote {
		return Token{}, fmt.Errorf("unterminated string starting at position %d", startPos)
	}
	l.advance()

	return Token{Type: TokenString, Value: sb.String(), Pos: startPos}, nil
}

func (l *Lexer) readIdent(startPos int) (Token, error) {
	var sb strings.Builder

	for isLetter(l.ch) || isDigit(l.ch) || l.ch == '_' {
		sb.WriteByte(l.ch)
		l.advance()
	}

	value := sb.String()

	switch value {
	case "and":
		return Token{Type: TokenAnd, Value: value, Pos: startPos}, nil
	case "or":
		return Token{Type: TokenOr, Value: value, Pos: startPos}, nil
	case "not":
		return Token{Type: TokenNot, Value: value, Pos: startPos}, nil
	}

	return Token{Type: TokenIdent, Value: value, Pos: startPos}, nil
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

// isLetter accepts ASCII letters and every byte of a multi-byte UTF-8
// sequence, so identifiers may hold non-ASCII letters.
func isLetter(ch byte) bool {
	return ch >= 0x80 || unicode.IsLetter(rune(ch))
}
