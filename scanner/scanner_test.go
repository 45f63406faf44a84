/*
 * Luma
 *
 * A tree-walking interpreter for a dialect of the Lua 5.1 source language.
 */

package scanner

import (
	"testing"

	"github.com/krotik/luma/token"
)

func kinds(toks []token.Token) []token.Kind {
	out := make([]token.Kind, len(toks))
	for i, t := range toks {
		out[i] = t.Kind
	}
	return out
}

func TestScanSimpleExpression(t *testing.T) {
	toks, err := Scan("1 + 2")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := kinds(toks)
	want := []token.Kind{token.Number, token.Plus, token.Number, token.EOF}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("index %d: got %v, want %v", i, got[i], want[i])
		}
	}
}

func TestScanKeywordsVsIdentifiers(t *testing.T) {
	toks, err := Scan("local functionvar function")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if toks[0].Kind != token.Local {
		t.Errorf("expected local keyword, got %v", toks[0].Kind)
	}
	if toks[1].Kind != token.Identifier || toks[1].Val != "functionvar" {
		t.Errorf("expected identifier functionvar, got %+v", toks[1])
	}
	if toks[2].Kind != token.Function {
		t.Errorf("expected function keyword, got %v", toks[2].Kind)
	}
}

func TestScanMultiCharOperators(t *testing.T) {
	toks, err := Scan("== ~= <= >= .. ...")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []token.Kind{token.Eq, token.Neq, token.Le, token.Ge, token.Concat, token.Ellipsis, token.EOF}
	got := kinds(toks)
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("index %d: got %v, want %v", i, got[i], want[i])
		}
	}
}

func TestScanStringLiteralNoEscapeInterpretation(t *testing.T) {
	toks, err := Scan(`"a\nb"`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if toks[0].Kind != token.String {
		t.Fatalf("expected a string token, got %v", toks[0].Kind)
	}
	if toks[0].Val != `a\nb` {
		t.Errorf("expected the body to be stored verbatim, got %q", toks[0].Val)
	}
}

func TestScanUnterminatedStringIsFatal(t *testing.T) {
	_, err := Scan(`"unterminated`)
	if err == nil {
		t.Fatal("expected an error")
	}
	serr, ok := err.(*Error)
	if !ok || serr.Kind != UnterminatedString {
		t.Errorf("got %v", err)
	}
}

func TestScanBlockComment(t *testing.T) {
	toks, err := Scan("--[[ a\nb ]]1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if toks[0].Kind != token.Comment {
		t.Fatalf("expected a comment token, got %v", toks[0].Kind)
	}
	if toks[1].Kind != token.Number {
		t.Errorf("expected a number token after the comment, got %v", toks[1].Kind)
	}
}

func TestScanUnterminatedBlockCommentIsFatal(t *testing.T) {
	_, err := Scan("--[[ never closed")
	if err == nil {
		t.Fatal("expected an error")
	}
	serr, ok := err.(*Error)
	if !ok || serr.Kind != UnterminatedComment {
		t.Errorf("got %v", err)
	}
}

func TestScanLineComment(t *testing.T) {
	toks, err := Scan("-- a line comment\n1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if toks[0].Kind != token.Comment {
		t.Fatalf("expected a comment token, got %v", toks[0].Kind)
	}
}

func TestScanMalformedNumber(t *testing.T) {
	_, err := Scan("1.2.3")
	if err == nil {
		t.Fatal("expected an error")
	}
	serr, ok := err.(*Error)
	if !ok || serr.Kind != MalformedNumber {
		t.Errorf("got %v", err)
	}
}

func TestScanIllegalCharacter(t *testing.T) {
	_, err := Scan("@")
	if err == nil {
		t.Fatal("expected an error")
	}
	serr, ok := err.(*Error)
	if !ok || serr.Kind != IllegalCharacter {
		t.Errorf("got %v", err)
	}
}

func TestScanTracksLineNumbers(t *testing.T) {
	toks, err := Scan("1\n2\n3")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var numbers []token.Token
	for _, tk := range toks {
		if tk.Kind == token.Number {
			numbers = append(numbers, tk)
		}
	}
	if len(numbers) != 3 {
		t.Fatalf("got %d numbers", len(numbers))
	}
	for i, tk := range numbers {
		if tk.Slice.Line != i+1 {
			t.Errorf("number %d: got line %d, want %d", i, tk.Slice.Line, i+1)
		}
	}
}

func TestStripLayoutRemovesWhitespaceCommentsAndEOL(t *testing.T) {
	toks, err := Scan("1\n-- c\n2")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	stripped := StripLayout(toks)
	for _, tk := range stripped {
		if tk.Kind == token.EndOfLine || tk.Kind == token.Comment || tk.Kind == token.Whitespace {
			t.Errorf("expected layout tokens to be stripped, found %v", tk.Kind)
		}
	}
	if len(stripped) != 3 { // 1, 2, EOF
		t.Errorf("got %d tokens, want 3", len(stripped))
	}
}
