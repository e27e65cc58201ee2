package compiler

import (
	"fmt"

	"github.com/chazu/petlik/pkg/bytecode"
)

// ---------------------------------------------------------------------------
// Token types for the petlik lexer
// ---------------------------------------------------------------------------

// TokenType represents the type of a token.
type TokenType int

const (
	TokenEOF TokenType = iota

	TokenVar    // a..z
	TokenMinus  // -
	TokenEquals // =
	TokenLParen // (
	TokenRParen // )
)

var tokenNames = map[TokenType]string{
	TokenEOF:    "EOF",
	TokenVar:    "VAR",
	TokenMinus:  "-",
	TokenEquals: "=",
	TokenLParen: "(",
	TokenRParen: ")",
}

func (t TokenType) String() string {
	if name, ok := tokenNames[t]; ok {
		return name
	}
	return fmt.Sprintf("Token(%d)", t)
}

// Position is a location in source text.
type Position struct {
	Offset int // byte offset
	Line   int // 1-based line number
	Column int // 1-based column number
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// Token represents a lexical token.
type Token struct {
	Type    TokenType
	Literal rune     // the source character
	Pos     Position // start position
}

// Var returns the counter a TokenVar names.
func (t Token) Var() bytecode.Var {
	return bytecode.Var(t.Literal)
}

func (t Token) String() string {
	if t.Type == TokenEOF {
		return "EOF"
	}
	return fmt.Sprintf("%s(%q)", t.Type, t.Literal)
}
