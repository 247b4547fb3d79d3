// Tests the lexer by verifying small sample programs tokenize to the
// expected token kind sequence, in the teacher's table-driven bare
// testing.T style (frontend/lexer_test.go), since inline source
// strings replace the teacher's on-disk fixture file.
package lexer

import (
	"testing"

	"pyilc/src/token"
)

func kinds(toks []token.Token) []token.Kind {
	out := make([]token.Kind, len(toks))
	for i, t := range toks {
		out[i] = t.Kind
	}
	return out
}

func assertKinds(t *testing.T, src string, want []token.Kind) {
	t.Helper()
	toks, err := Lex(src, DefaultConfig())
	if err != nil {
		t.Fatalf("Lex(%q) returned error: %s", src, err)
	}
	got := kinds(toks)
	if len(got) != len(want) {
		t.Fatalf("Lex(%q) = %v, want %v", src, got, want)
	}
	for i := range got {
		if got[i] != want[i] {
			t.Fatalf("Lex(%q)[%d] = %s, want %s", src, i, got[i], want[i])
		}
	}
}

func TestLexSimpleAssign(t *testing.T) {
	assertKinds(t, "x = 1\n", []token.Kind{
		token.IDENTIFIER, token.ASSIGN, token.INTEGER, token.NEWLINE, token.EOF,
	})
}

func TestLexIndentDedent(t *testing.T) {
	src := "if x:\n    y = 1\n    z = 2\n"
	assertKinds(t, src, []token.Kind{
		token.IF, token.IDENTIFIER, token.COLON, token.NEWLINE,
		token.INDENT,
		token.IDENTIFIER, token.ASSIGN, token.INTEGER, token.NEWLINE,
		token.IDENTIFIER, token.ASSIGN, token.INTEGER, token.NEWLINE,
		token.DEDENT, token.EOF,
	})
}

// TestIndentDedentBalance checks spec §8 invariant 1: INDENT count
// equals DEDENT count (trailing DEDENTs at EOF restore indent 0).
func TestIndentDedentBalance(t *testing.T) {
	src := "if a:\n    if b:\n        x = 1\n"
	toks, err := Lex(src, DefaultConfig())
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	var indents, dedents int
	for _, tk := range toks {
		switch tk.Kind {
		case token.INDENT:
			indents++
		case token.DEDENT:
			dedents++
		}
	}
	if indents != dedents {
		t.Fatalf("INDENT count %d != DEDENT count %d", indents, dedents)
	}
}

func TestLexOperators(t *testing.T) {
	assertKinds(t, "a += 1\n", []token.Kind{
		token.IDENTIFIER, token.PLUSEQ, token.INTEGER, token.NEWLINE, token.EOF,
	})
	assertKinds(t, "a // b\n", []token.Kind{
		token.IDENTIFIER, token.DSLASH, token.IDENTIFIER, token.NEWLINE, token.EOF,
	})
	assertKinds(t, "a ** b\n", []token.Kind{
		token.IDENTIFIER, token.DSTAR, token.IDENTIFIER, token.NEWLINE, token.EOF,
	})
}

func TestLexStringEscapes(t *testing.T) {
	toks, err := Lex(`s = "a\nb"` + "\n", DefaultConfig())
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	var str string
	for _, tk := range toks {
		if tk.Kind == token.STRING {
			str = tk.Text
		}
	}
	if str != "a\nb" {
		t.Fatalf("string literal = %q, want %q", str, "a\nb")
	}
}

func TestLexInconsistentIndentationRejected(t *testing.T) {
	// A single line mixing tabs and spaces in its own indentation is
	// rejected outright under StrictIndentation (spec §4.2.3).
	src := "if a:\n\t x = 1\n"
	if _, err := Lex(src, DefaultConfig()); err == nil {
		t.Fatalf("expected inconsistent indentation error, got nil")
	}
}

func TestLexDedentToUnknownLevelRejected(t *testing.T) {
	// Dedenting to a column that doesn't match any enclosing indent
	// level is a lexical error (spec §4.2.3).
	src := "if a:\n        x = 1\n   y = 2\n"
	if _, err := Lex(src, DefaultConfig()); err == nil {
		t.Fatalf("expected inconsistent-dedent error, got nil")
	}
}

func TestLexUnterminatedString(t *testing.T) {
	if _, err := Lex("s = \"unterminated\n", DefaultConfig()); err == nil {
		t.Fatalf("expected unterminated string error, got nil")
	}
}

func TestLexComment(t *testing.T) {
	assertKinds(t, "x = 1 # a comment\n", []token.Kind{
		token.IDENTIFIER, token.ASSIGN, token.INTEGER, token.NEWLINE, token.EOF,
	})
}
