package compiler

import (
	"testing"
)

func tokenTypes(tokens []Token) []TokenType {
	types := make([]TokenType, len(tokens))
	for i, tok := range tokens {
		types[i] = tok.Type
	}
	return types
}

func TestLexerSignificantTokens(t *testing.T) {
	tokens := Tokenize("a-b=c(d)")

	want := []TokenType{
		TokenVar, TokenMinus, TokenVar, TokenEquals, TokenVar,
		TokenLParen, TokenVar, TokenRParen,
	}
	got := tokenTypes(tokens)
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("token %d = %s, want %s", i, got[i], want[i])
		}
	}
	if tokens[6].Var() != 'd' {
		t.Errorf("token 6 names %s, want d", tokens[6].Var())
	}
}

func TestLexerSkipsEverythingElse(t *testing.T) {
	tests := []string{
		"",
		" \t\r\n",
		"0123456789",
		"ABCXYZ",
		"+*/.,;:!?{}[]<>#$%^&_|~`'\"",
		"ĄĘ€ß\xff",
	}

	for _, input := range tests {
		tokens := Tokenize(input)
		if len(tokens) != 0 {
			t.Errorf("Tokenize(%q) = %v, want none", input, tokens)
		}
	}
}

func TestLexerNonASCIIBetweenTokens(t *testing.T) {
	tokens := Tokenize("ą a € b")
	if len(tokens) != 2 || tokens[0].Var() != 'a' || tokens[1].Var() != 'b' {
		t.Errorf("Tokenize = %v", tokens)
	}
}

func TestLexerPositions(t *testing.T) {
	tokens := Tokenize("a\n  (b\n)")

	want := []Position{
		{Offset: 0, Line: 1, Column: 1},
		{Offset: 4, Line: 2, Column: 3},
		{Offset: 5, Line: 2, Column: 4},
		{Offset: 7, Line: 3, Column: 1},
	}
	if len(tokens) != len(want) {
		t.Fatalf("got %d tokens, want %d", len(tokens), len(want))
	}
	for i := range want {
		if tokens[i].Pos != want[i] {
			t.Errorf("token %d at %+v, want %+v", i, tokens[i].Pos, want[i])
		}
	}
}

func TestLexerNextTokenEOF(t *testing.T) {
	l := NewLexer("x")

	if tok := l.NextToken(); tok.Type != TokenVar {
		t.Fatalf("first token = %s", tok)
	}
	for i := 0; i < 2; i++ {
		if tok := l.NextToken(); tok.Type != TokenEOF {
			t.Errorf("expected EOF, got %s", tok)
		}
	}
}

func TestTokenString(t *testing.T) {
	tests := []struct {
		tok  Token
		want string
	}{
		{Token{Type: TokenVar, Literal: 'q'}, "VAR('q')"},
		{Token{Type: TokenLParen, Literal: '('}, "(('(')"},
		{Token{Type: TokenEOF}, "EOF"},
	}

	for _, tt := range tests {
		if got := tt.tok.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
	if TokenType(42).String() != "Token(42)" {
		t.Errorf("unknown token type = %q", TokenType(42).String())
	}
}
