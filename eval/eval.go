/*
 * Luma
 *
 * A tree-walking interpreter for a dialect of the Lua 5.1 source language.
 */

/*
Package eval walks the AST produced by package parser against a
package env Environment, performing arithmetic, control flow, table
construction and indexing, and function calls (spec.md §4.4). It is
split by concern the way ecal's interpreter package splits its
runtimes across rt_*.go files: this file holds the two public entry
points and the outcome model; statements.go, expressions.go, call.go,
and arithmetic.go hold everything those entry points dispatch to.
*/
package eval

import (
	"fmt"

	"github.com/krotik/luma/ast"
	"github.com/krotik/luma/env"
	"github.com/krotik/luma/value"
)

/*
OutcomeKind tags how a Block finished executing.
*/
type OutcomeKind int

const (
	Normal OutcomeKind = iota
	Returned
	Broke
)

/*
Outcome is exec's result: which of Normal, Returned, or Broke a block
finished with, plus the return value vector when Returned.
*/
type Outcome struct {
	Kind   OutcomeKind
	Values []value.Value
}

/*
Exec runs block's statements against en in order. It does not push a
frame of its own: the caller (Do, While, If, a function call, ...) is
responsible for bracketing the call with PushFrame/PopFrame, matching
spec.md §5's "every block that is entered pushes exactly one local
frame" rule, which binds to the statement that owns the block rather
than to exec itself.
*/
func Exec(block *ast.Block, en *env.Environment) (Outcome, error) {
	for _, stat := range block.Stats {
		outcome, err := execStat(stat, en)
		if err != nil {
			return Outcome{}, err
		}
		if outcome.Kind != Normal {
			return outcome, nil
		}
	}

	switch t := block.Last.(type) {
	case *ast.ReturnStat:
		if t.Values == nil {
			return Outcome{Kind: Returned}, nil
		}
		vals, err := evalExpList(t.Values, en)
		if err != nil {
			return Outcome{}, err
		}
		return Outcome{Kind: Returned, Values: vals}, nil
	case *ast.BreakStat:
		return Outcome{Kind: Broke}, nil
	}

	return Outcome{Kind: Normal}, nil
}

/*
Eval evaluates exp to a single value, truncating any multi-value
result (call, vararg expansion) to its first value or Nil (spec.md
§4.4: "all other contexts truncate to one").
*/
func Eval(exp ast.Exp, en *env.Environment) (value.Value, error) {
	switch n := exp.(type) {
	case *ast.NilExp:
		return value.Nil, nil
	case *ast.BoolExp:
		return n.Val, nil
	case *ast.NumberExp:
		return n.Val, nil
	case *ast.StringExp:
		return n.Val, nil
	case *ast.VarargExp:
		vals := currentVarargs(en)
		if len(vals) == 0 {
			return value.Nil, nil
		}
		return vals[0], nil
	case *ast.NameExp:
		return en.Lookup(n.Name), nil
	case *ast.IndexExp:
		return evalIndex(n, en)
	case *ast.FieldExp:
		return evalField(n, en)
	case *ast.CallExp, *ast.MethodCallExp:
		vals, err := evalCall(n, en)
		if err != nil {
			return nil, err
		}
		if len(vals) == 0 {
			return value.Nil, nil
		}
		return vals[0], nil
	case *ast.BinopExp:
		return evalBinop(n, en)
	case *ast.UnopExp:
		return evalUnop(n, en)
	case *ast.FunctionExp:
		return makeClosure(n, en), nil
	case *ast.TableExp:
		return evalTable(n, en)
	}
	return nil, fmt.Errorf("eval: unhandled expression %T", exp)
}

/*
EvalMulti evaluates exp in a multi-value context (the last element of
an explist, a return, a table constructor's trailing positional
field): calls and vararg expansions yield their whole value vector;
everything else yields a single-element vector.
*/
func EvalMulti(exp ast.Exp, en *env.Environment) ([]value.Value, error) {
	switch exp.(type) {
	case *ast.CallExp, *ast.MethodCallExp:
		return evalCall(exp, en)
	case *ast.VarargExp:
		return currentVarargs(en), nil
	}
	v, err := Eval(exp, en)
	if err != nil {
		return nil, err
	}
	return []value.Value{v}, nil
}

/*
evalExpList evaluates an explist: every element but the last truncates
to one value, the last expands (spec.md §4.4, §5 "Ordering" — strictly
left-to-right).
*/
func evalExpList(exps []ast.Exp, en *env.Environment) ([]value.Value, error) {
	if len(exps) == 0 {
		return nil, nil
	}
	var out []value.Value
	for i, exp := range exps {
		if i == len(exps)-1 {
			vals, err := EvalMulti(exp, en)
			if err != nil {
				return nil, err
			}
			out = append(out, vals...)
			continue
		}
		v, err := Eval(exp, en)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

/*
varargsBox is the hidden "..." local a vararg function's call frame
carries its surplus arguments in; it is never visible as a Lua value.
*/
type varargsBox struct {
	vals []value.Value
}

func currentVarargs(en *env.Environment) []value.Value {
	if box, ok := en.Lookup("...").(varargsBox); ok {
		return box.vals
	}
	return nil
}
