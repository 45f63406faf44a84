/*
 * Luma
 *
 * A tree-walking interpreter for a dialect of the Lua 5.1 source language.
 */

package diag

import (
	"strings"
	"testing"

	"github.com/krotik/luma/token"
)

func TestErrorMessage(t *testing.T) {
	err := New(TypeError, "attempt to call a nil value", token.SourceSlice{Line: 3, ColStart: 5})
	if !strings.Contains(err.Error(), "TypeError") {
		t.Errorf("expected error string to mention kind, got %q", err.Error())
	}
	if !strings.Contains(err.Error(), "attempt to call a nil value") {
		t.Errorf("expected error string to mention message, got %q", err.Error())
	}
}

func TestRenderPointsAtOffendingColumn(t *testing.T) {
	source := "local x = nil + 1\n"
	slice := token.SourceSlice{Line: 1, ColStart: 11, ColEnd: 14}
	err := New(TypeError, "attempt to perform arithmetic on a nil value", slice)

	out := Render(err, "stdin", source)

	if !strings.Contains(out, "stdin:1:11") {
		t.Errorf("expected location header, got:\n%s", out)
	}
	if !strings.Contains(out, "local x = nil + 1") {
		t.Errorf("expected source line to be shown, got:\n%s", out)
	}
	if !strings.Contains(out, "^^^") {
		t.Errorf("expected caret span, got:\n%s", out)
	}
	if !strings.Contains(out, "attempt to perform arithmetic on a nil value") {
		t.Errorf("expected message, got:\n%s", out)
	}
}

func TestRenderOutOfRangeLine(t *testing.T) {
	err := New(UnexpectedToken, "unexpected eof", token.SourceSlice{Line: 99, ColStart: 1})
	out := Render(err, "stdin", "x = 1\n")
	if !strings.Contains(out, "stdin:99:1") {
		t.Errorf("expected header even for out-of-range line, got:\n%s", out)
	}
}
