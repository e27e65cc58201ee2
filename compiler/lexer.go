package compiler

import (
	"unicode/utf8"

	"github.com/chazu/petlik/pkg/bytecode"
)

// ---------------------------------------------------------------------------
// Lexer: tokenizer for petlik source
// ---------------------------------------------------------------------------

// Lexer splits source into significant tokens. Every character that is not
// a counter letter, '-', '=', '(' or ')' is skipped.
type Lexer struct {
	input   string
	pos     int  // current position in input
	readPos int  // reading position (after current char)
	ch      rune // current character
	line    int  // current line (1-based)
	col     int  // current column (1-based)
}

// NewLexer creates a new lexer for the given input.
func NewLexer(input string) *Lexer {
	l := &Lexer{
		input: input,
		line:  1,
		col:   0,
	}
	l.readChar()
	return l
}

// readChar reads the next character.
func (l *Lexer) readChar() {
	if l.readPos >= len(l.input) {
		l.ch = 0
		l.pos = l.readPos
		return
	}

	if l.ch == '\n' {
		l.line++
		l.col = 0
	}

	r, size := utf8.DecodeRuneInString(l.input[l.readPos:])
	l.ch = r
	l.pos = l.readPos
	l.readPos += size
	l.col++
}

func (l *Lexer) atEOF() bool {
	return l.pos >= len(l.input)
}

// position returns the current position.
func (l *Lexer) position() Position {
	return Position{
		Offset: l.pos,
		Line:   l.line,
		Column: l.col,
	}
}

// NextToken returns the next significant token, or TokenEOF.
func (l *Lexer) NextToken() Token {
	for !l.atEOF() {
		pos := l.position()
		ch := l.ch
		l.readChar()

		switch {
		case bytecode.IsVar(ch):
			return Token{Type: TokenVar, Literal: ch, Pos: pos}
		case ch == '-':
			return Token{Type: TokenMinus, Literal: ch, Pos: pos}
		case ch == '=':
			return Token{Type: TokenEquals, Literal: ch, Pos: pos}
		case ch == '(':
			return Token{Type: TokenLParen, Literal: ch, Pos: pos}
		case ch == ')':
			return Token{Type: TokenRParen, Literal: ch, Pos: pos}
		}
	}
	return Token{Type: TokenEOF, Pos: l.position()}
}

// Tokenize returns all significant tokens of input, without the final EOF.
func Tokenize(input string) []Token {
	l := NewLexer(input)
	var tokens []Token
	for {
		tok := l.NextToken()
		if tok.Type == TokenEOF {
			return tokens
		}
		tokens = append(tokens, tok)
	}
}
