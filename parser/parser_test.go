/*
 * Luma
 *
 * A tree-walking interpreter for a dialect of the Lua 5.1 source language.
 */

package parser

import (
	"testing"

	"github.com/krotik/luma/ast"
	"github.com/krotik/luma/diag"
)

func TestParseLocalAssign(t *testing.T) {
	block, err := Parse("test", "local x, y = 1, 2")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(block.Stats) != 1 {
		t.Fatalf("expected 1 statement, got %d", len(block.Stats))
	}
	stat, ok := block.Stats[0].(*ast.LocalAssignStat)
	if !ok {
		t.Fatalf("expected *ast.LocalAssignStat, got %T", block.Stats[0])
	}
	if len(stat.Names) != 2 || stat.Names[0] != "x" || stat.Names[1] != "y" {
		t.Errorf("got names %v", stat.Names)
	}
	if len(stat.Values) != 2 {
		t.Errorf("got %d initializers", len(stat.Values))
	}
}

func TestParseReturnIsLast(t *testing.T) {
	block, err := Parse("test", "local x = 1\nreturn x")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(block.Stats) != 1 {
		t.Fatalf("expected 1 regular statement, got %d", len(block.Stats))
	}
	ret, ok := block.Last.(*ast.ReturnStat)
	if !ok {
		t.Fatalf("expected a trailing return, got %T", block.Last)
	}
	if len(ret.Values) != 1 {
		t.Errorf("got %d return values", len(ret.Values))
	}
}

func TestParseBinopPrecedence(t *testing.T) {
	block, err := Parse("test", "return 1 + 2 * 3")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ret := block.Last.(*ast.ReturnStat)
	top, ok := ret.Values[0].(*ast.BinopExp)
	if !ok {
		t.Fatalf("expected a binop at top level, got %T", ret.Values[0])
	}
	if top.Op.String() != "+" {
		t.Fatalf("expected + at the top (lowest precedence binds loosest), got %v", top.Op)
	}
	rhs, ok := top.RHS.(*ast.BinopExp)
	if !ok || rhs.Op.String() != "*" {
		t.Fatalf("expected * nested on the right, got %+v", top.RHS)
	}
}

func TestParseIfElseif(t *testing.T) {
	block, err := Parse("test", `
if x then
  return 1
elseif y then
  return 2
else
  return 3
end
`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ifStat, ok := block.Stats[0].(*ast.IfStat)
	if !ok {
		t.Fatalf("expected *ast.IfStat, got %T", block.Stats[0])
	}
	if len(ifStat.Branches) != 2 {
		t.Errorf("expected 2 branches (if + elseif), got %d", len(ifStat.Branches))
	}
	if ifStat.Else == nil {
		t.Error("expected an else block")
	}
}

func TestParseFunctionDeclDesugarsMethodSelf(t *testing.T) {
	block, err := Parse("test", "function obj:method(a) return a end")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	decl, ok := block.Stats[0].(*ast.FunctionDeclStat)
	if !ok {
		t.Fatalf("expected *ast.FunctionDeclStat, got %T", block.Stats[0])
	}
	if !decl.IsMethod {
		t.Error("expected IsMethod to be true for obj:method")
	}
	if len(decl.Fn.Params) != 2 || decl.Fn.Params[0] != "self" {
		t.Errorf("expected self prepended to params, got %v", decl.Fn.Params)
	}
}

func TestParseTableConstructor(t *testing.T) {
	block, err := Parse("test", `return {1, 2, x = 3, [1+1] = 4}`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ret := block.Last.(*ast.ReturnStat)
	tbl, ok := ret.Values[0].(*ast.TableExp)
	if !ok {
		t.Fatalf("expected *ast.TableExp, got %T", ret.Values[0])
	}
	if len(tbl.Fields) != 4 {
		t.Fatalf("expected 4 fields, got %d", len(tbl.Fields))
	}
	if _, ok := tbl.Fields[0].(*ast.PositionalField); !ok {
		t.Errorf("expected field 0 to be positional, got %T", tbl.Fields[0])
	}
	if _, ok := tbl.Fields[2].(*ast.NamedField); !ok {
		t.Errorf("expected field 2 to be named, got %T", tbl.Fields[2])
	}
	if _, ok := tbl.Fields[3].(*ast.ComputedField); !ok {
		t.Errorf("expected field 3 to be computed, got %T", tbl.Fields[3])
	}
}

func TestParseVarargFunction(t *testing.T) {
	block, err := Parse("test", "local function f(a, ...) return a end")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	decl, ok := block.Stats[0].(*ast.LocalFunctionStat)
	if !ok {
		t.Fatalf("expected *ast.LocalFunctionStat, got %T", block.Stats[0])
	}
	if !decl.Fn.IsVararg {
		t.Error("expected IsVararg to be true")
	}
	if len(decl.Fn.Params) != 1 || decl.Fn.Params[0] != "a" {
		t.Errorf("got params %v", decl.Fn.Params)
	}
}

func TestParseUnterminatedBlockIsError(t *testing.T) {
	_, err := Parse("test", "if x then\n  return 1\n")
	if err == nil {
		t.Fatal("expected an error for a missing 'end'")
	}
}

func TestParseMethodCallAndIndexing(t *testing.T) {
	block, err := Parse("test", "return obj:method(1), obj.field, obj[1]")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ret := block.Last.(*ast.ReturnStat)
	if len(ret.Values) != 3 {
		t.Fatalf("got %d return values", len(ret.Values))
	}
	if _, ok := ret.Values[0].(*ast.MethodCallExp); !ok {
		t.Errorf("expected a method call, got %T", ret.Values[0])
	}
	if _, ok := ret.Values[1].(*ast.FieldExp); !ok {
		t.Errorf("expected a field access, got %T", ret.Values[1])
	}
	if _, ok := ret.Values[2].(*ast.IndexExp); !ok {
		t.Errorf("expected an index access, got %T", ret.Values[2])
	}
}

func TestParseNumericForWithStep(t *testing.T) {
	block, err := Parse("test", "for i = 1, 10, 2 do end")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	forStat, ok := block.Stats[0].(*ast.NumericForStat)
	if !ok {
		t.Fatalf("expected *ast.NumericForStat, got %T", block.Stats[0])
	}
	if forStat.Step == nil {
		t.Error("expected an explicit step expression")
	}
}

func TestParsePropagatesScannerError(t *testing.T) {
	_, err := Parse("test", `"unterminated`)
	if err == nil {
		t.Fatal("expected the scanner's error to propagate")
	}
}

func TestParseLiteralAssignmentTargetIsMalformedAssignment(t *testing.T) {
	_, err := Parse("test", "1 = 2")
	if err == nil {
		t.Fatal("expected an error for a literal on the left of an assignment")
	}
	derr, ok := err.(*diag.Error)
	if !ok {
		t.Fatalf("expected a *diag.Error, got %T", err)
	}
	if derr.Kind != diag.MalformedAssignment {
		t.Errorf("expected MalformedAssignment, got %v", derr.Kind)
	}
	if derr.Slice.Line != 1 || derr.Slice.ColStart != 1 {
		t.Errorf("expected the error to point at line 1, column 1, got %+v", derr.Slice)
	}
}

func TestParseLiteralCommaAssignmentTargetIsMalformedAssignment(t *testing.T) {
	_, err := Parse("test", "1, x = 2, 3")
	if err == nil {
		t.Fatal("expected an error")
	}
	derr, ok := err.(*diag.Error)
	if !ok || derr.Kind != diag.MalformedAssignment {
		t.Fatalf("expected MalformedAssignment, got %v", err)
	}
}

func TestParseBareLiteralExpressionIsNotAStatement(t *testing.T) {
	_, err := Parse("test", "1 + 2")
	if err == nil {
		t.Fatal("expected an error")
	}
	derr, ok := err.(*diag.Error)
	if !ok || derr.Kind != diag.NotAStatement {
		t.Fatalf("expected NotAStatement, got %v", err)
	}
}
