/*
 * Luma
 *
 * A tree-walking interpreter for a dialect of the Lua 5.1 source language.
 */

package builtin

import (
	"testing"

	"github.com/krotik/luma/diag"
	"github.com/krotik/luma/token"
	"github.com/krotik/luma/value"
)

func TestLookupKnownAndUnknown(t *testing.T) {
	if _, ok := Lookup("print"); !ok {
		t.Error("expected print to be registered")
	}
	if _, ok := Lookup("assert"); !ok {
		t.Error("expected assert to be registered")
	}
	if _, ok := Lookup("does_not_exist"); ok {
		t.Error("expected unregistered name to be absent")
	}
}

func TestNamesIncludesAllRegistered(t *testing.T) {
	names := Names()
	seen := map[string]bool{}
	for _, n := range names {
		seen[n] = true
	}
	if !seen["print"] || !seen["assert"] {
		t.Errorf("got %v, missing a registered builtin", names)
	}
}

func TestAssertPassesThroughArgsOnTruthy(t *testing.T) {
	out, err := assert_([]value.Value{true, "msg"}, token.SourceSlice{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out) != 2 || out[0] != true || out[1] != "msg" {
		t.Errorf("got %v", out)
	}
}

func TestAssertFailsOnFalse(t *testing.T) {
	_, err := assert_([]value.Value{false}, token.SourceSlice{})
	derr, ok := err.(*diag.Error)
	if !ok {
		t.Fatalf("expected a *diag.Error, got %T", err)
	}
	if derr.Kind != diag.AssertionFailed {
		t.Errorf("got kind %v", derr.Kind)
	}
	if derr.Message != "assertion failed!" {
		t.Errorf("got message %q", derr.Message)
	}
}

func TestAssertFailsOnNilWithCustomMessage(t *testing.T) {
	_, err := assert_([]value.Value{value.Nil, "custom reason"}, token.SourceSlice{})
	derr, ok := err.(*diag.Error)
	if !ok {
		t.Fatalf("expected a *diag.Error, got %T", err)
	}
	if derr.Message != "custom reason" {
		t.Errorf("got message %q", derr.Message)
	}
}

func TestAssertNoArgsFails(t *testing.T) {
	if _, err := assert_(nil, token.SourceSlice{}); err == nil {
		t.Error("expected assert() with no args to fail")
	}
}

func TestPrintReturnsNoValues(t *testing.T) {
	out, err := print_([]value.Value{"a", float64(1)}, token.SourceSlice{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out) != 0 {
		t.Errorf("expected no return values, got %v", out)
	}
}
