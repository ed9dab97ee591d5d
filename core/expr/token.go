/*
SPDX-License-Identifier: Apache-2.0

Copyright 2024 The Taxinomia Authors
*/

package expr

// TokenType represents the type of a token
type TokenType int

const (
	TokenEOF TokenType = iota
	TokenNumber
	TokenString
	TokenIdent
	TokenPlus
	TokenMinus
	TokenStar
	TokenSlash
	TokenPercent
	TokenPower    // **
	TokenFloorDiv // //
	TokenLParen
	TokenRParen
	TokenComma
	TokenEq // ==
	TokenNe // !=
	TokenLt // <
	TokenGt // >
	TokenLe // <=
	TokenGe // >=
	TokenAnd
	TokenOr
	TokenNot
	TokenDot
)

var tokenNames = map[TokenType]string{
	TokenEOF:      "end of expression",
	TokenNumber:   "number",
	TokenString:   "string",
	TokenIdent:    "identifier",
	TokenPlus:     "+",
	TokenMinus:    "-",
	TokenStar:     "*",
	TokenSlash:    "/",
	TokenPercent:  "%",
	TokenPower:    "**",
	TokenFloorDiv: "//",
	TokenLParen:   "(",
	TokenRParen:   ")",
	TokenComma:    ",",
	TokenEq:       "==",
	TokenNe:       "!=",
	TokenLt:       "<",
	TokenGt:       ">",
	TokenLe:       "<=",
	TokenGe:       ">=",
	TokenAnd:      "and",
	TokenOr:       "or",
	TokenNot:      "not",
	TokenDot:      ".",
}

func (t TokenType) String() string {
	if s, ok := tokenNames[t]; ok {
		return s
	}
	return "unknown token"
}

// Token represents a lexical token
type Token struct {
	Type  TokenType
	Value string
	Pos   int
}
