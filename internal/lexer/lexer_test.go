package lexer

import (
	"testing"

	"github.com/cwbudde/scriptengine/internal/token"
)

func TestNext(t *testing.T) {
	src := `let x = 40 + 2; // answer
fn add(a, b) { return a + b; }
if x >= 10 && !false { x.y = [1, 2].z }`

	want := []token.Type{
		token.LET, token.IDENT, token.ASSIGN, token.INT, token.PLUS, token.INT, token.SEMI,
		token.FN, token.IDENT, token.LPAREN, token.IDENT, token.COMMA, token.IDENT, token.RPAREN,
		token.LBRACE, token.RETURN, token.IDENT, token.PLUS, token.IDENT, token.SEMI, token.RBRACE,
		token.IF, token.IDENT, token.GTE, token.INT, token.AND, token.NOT, token.FALSE,
		token.LBRACE, token.IDENT, token.DOT, token.IDENT, token.ASSIGN,
		token.LBRACKET, token.INT, token.COMMA, token.INT, token.RBRACKET, token.DOT, token.IDENT,
		token.RBRACE, token.EOF,
	}

	l := New(src)
	for i, wantType := range want {
		got := l.Next()
		if got.Type != wantType {
			t.Fatalf("token %d: got %s, want %s (literal %q)", i, got.Type, wantType, got.Literal)
		}
	}
}

func TestStringEscapes(t *testing.T) {
	l := New(`"a\nb\tc\"d"`)
	tok := l.Next()
	if tok.Type != token.STRING {
		t.Fatalf("got %s, want STRING", tok.Type)
	}
	want := "a\nb\tc\"d"
	if tok.Literal != want {
		t.Fatalf("got %q, want %q", tok.Literal, want)
	}
}

func TestFloatVsIntVsDot(t *testing.T) {
	l := New(`3.14 3 .x`)
	if tok := l.Next(); tok.Type != token.FLOAT || tok.Literal != "3.14" {
		t.Fatalf("got %v", tok)
	}
	if tok := l.Next(); tok.Type != token.INT || tok.Literal != "3" {
		t.Fatalf("got %v", tok)
	}
	if tok := l.Next(); tok.Type != token.DOT {
		t.Fatalf("got %v", tok)
	}
}

func TestAllStopsAtEOF(t *testing.T) {
	toks := All("1 + 1")
	if len(toks) == 0 || toks[len(toks)-1].Type != token.EOF {
		t.Fatalf("last token should be EOF, got %v", toks)
	}
}
