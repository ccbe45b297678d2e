package lexer

import (
	"testing"

	"github.com/sflang/sfl/internal/token"
)

func collect(src string) []token.Token {
	l := New(src)
	var toks []token.Token
	for {
		tk := l.NextToken()
		toks = append(toks, tk)
		if tk.Type == token.EOF {
			return toks
		}
	}
}

func TestTokenStream(t *testing.T) {
	src := "inc :: Int -> Int\ninc = \\i. add i 1"
	want := []struct {
		tt     token.TokenType
		lexeme string
	}{
		{token.IDENT, "inc"},
		{token.DOUBLE_COLON, "::"},
		{token.UPPER_IDENT, "Int"},
		{token.ARROW, "->"},
		{token.UPPER_IDENT, "Int"},
		{token.NEWLINE, "\\n"},
		{token.IDENT, "inc"},
		{token.ASSIGN, "="},
		{token.LAMBDA, "\\"},
		{token.IDENT, "i"},
		{token.DOT, "."},
		{token.IDENT, "add"},
		{token.IDENT, "i"},
		{token.INT_LIT, "1"},
		{token.EOF, ""},
	}
	got := collect(src)
	if len(got) != len(want) {
		t.Fatalf("token count = %d, want %d: %v", len(got), len(want), got)
	}
	for i, w := range want {
		if got[i].Type != w.tt || got[i].Lexeme != w.lexeme {
			t.Errorf("token %d = %s %q, want %s %q", i, got[i].Type, got[i].Lexeme, w.tt, w.lexeme)
		}
	}
}

func TestKeywordsAndLiterals(t *testing.T) {
	cases := []struct {
		src  string
		tt   token.TokenType
		text string
	}{
		{"match", token.KW_MATCH, "match"},
		{"data", token.KW_DATA, "data"},
		{"type", token.KW_TYPE, "type"},
		{"then", token.KW_THEN, "then"},
		{"else", token.KW_ELSE, "else"},
		{"true", token.BOOL_LIT, "true"},
		{"false", token.BOOL_LIT, "false"},
		{"42", token.INT_LIT, "42"},
		{"-42", token.INT_LIT, "-42"},
		{"1.5", token.FLOAT_LIT, "1.5"},
		{"Cons", token.UPPER_IDENT, "Cons"},
		{"xs'", token.IDENT, "xs'"},
		{"_", token.IDENT, "_"},
		{"$", token.DOLLAR, "$"},
		{"|", token.BAR, "|"},
	}
	for _, tc := range cases {
		got := New(tc.src).NextToken()
		if got.Type != tc.tt || got.Lexeme != tc.text {
			t.Errorf("%q lexed to %s %q, want %s %q", tc.src, got.Type, got.Lexeme, tc.tt, tc.text)
		}
	}
}

func TestCharLiteral(t *testing.T) {
	got := New("'a'").NextToken()
	if got.Type != token.CHAR_LIT || got.Literal != "a" {
		t.Errorf("char literal lexed to %s %q", got.Type, got.Literal)
	}
	got = New(`'\n'`).NextToken()
	if got.Type != token.CHAR_LIT || got.Literal != "\n" {
		t.Errorf("escaped char literal lexed to %s %q", got.Type, got.Literal)
	}
}

func TestCommentsAreSkipped(t *testing.T) {
	toks := collect("// line comment\nx /* block */ = 1")
	var kinds []token.TokenType
	for _, tk := range toks {
		kinds = append(kinds, tk.Type)
	}
	want := []token.TokenType{token.NEWLINE, token.IDENT, token.ASSIGN, token.INT_LIT, token.EOF}
	if len(kinds) != len(want) {
		t.Fatalf("kinds = %v, want %v", kinds, want)
	}
	for i := range want {
		if kinds[i] != want[i] {
			t.Fatalf("kinds = %v, want %v", kinds, want)
		}
	}
}

func TestFloatDotDisambiguation(t *testing.T) {
	// The dot of a lambda directly before a number stays a dot.
	toks := collect("\\x. 1")
	want := []token.TokenType{token.LAMBDA, token.IDENT, token.DOT, token.INT_LIT, token.EOF}
	for i, w := range want {
		if toks[i].Type != w {
			t.Fatalf("toks = %v", toks)
		}
	}
}

func TestPositions(t *testing.T) {
	l := New("a\n  b")
	a := l.NextToken()
	if a.Line != 0 || a.Column != 0 {
		t.Errorf("a at %d:%d, want 0:0", a.Line, a.Column)
	}
	l.NextToken() // newline
	b := l.NextToken()
	if b.Line != 1 || b.Column != 2 {
		t.Errorf("b at %d:%d, want 1:2", b.Line, b.Column)
	}
}
