/*
 * Luma
 *
 * A tree-walking interpreter for a dialect of the Lua 5.1 source language.
 */

package eval

import (
	"fmt"

	"github.com/krotik/luma/ast"
	"github.com/krotik/luma/builtin"
	"github.com/krotik/luma/diag"
	"github.com/krotik/luma/env"
	"github.com/krotik/luma/token"
	"github.com/krotik/luma/value"
)

func makeClosure(n *ast.FunctionExp, en *env.Environment) *value.Function {
	return &value.Function{
		Params:   n.Params,
		IsVararg: n.IsVararg,
		Body:     n.Body,
		Env:      en.Snapshot(),
	}
}

/*
evalCall handles both plain calls and method calls (spec.md §4.4
"Function call"); it is the only place a name resolves to a builtin
instead of a user value, per spec.md §4.5's "checked when a call's
callee name is not bound as a user value".
*/
func evalCall(exp ast.Exp, en *env.Environment) ([]value.Value, error) {
	switch c := exp.(type) {
	case *ast.CallExp:
		calleeVal, err := resolveCallee(c.Prefix, en)
		if err != nil {
			return nil, err
		}
		args, err := evalExpList(c.Args, en)
		if err != nil {
			return nil, err
		}
		return invoke(calleeVal, args, c.Slice())

	case *ast.MethodCallExp:
		objVal, err := Eval(c.Prefix, en)
		if err != nil {
			return nil, err
		}
		tbl, ok := objVal.(*value.Table)
		if !ok {
			return nil, diag.New(diag.TypeError,
				fmt.Sprintf("attempt to index a %s value", value.TypeName(objVal)), c.Slice())
		}
		methodVal := tbl.Get(value.StringKey(c.Name))
		args, err := evalExpList(c.Args, en)
		if err != nil {
			return nil, err
		}
		args = append([]value.Value{objVal}, args...)
		return invoke(methodVal, args, c.Slice())
	}

	return nil, fmt.Errorf("eval: unhandled call expression %T", exp)
}

/*
resolveCallee looks up a call's prefix expression as a normal value
first; only when that prefix is a bare, unbound name does it fall back
to the builtin table.
*/
func resolveCallee(prefix ast.Exp, en *env.Environment) (value.Value, error) {
	v, err := Eval(prefix, en)
	if err != nil {
		return nil, err
	}
	if name, ok := prefix.(*ast.NameExp); ok && value.IsNil(v) {
		if b, ok := builtin.Lookup(name.Name); ok {
			return b, nil
		}
	}
	return v, nil
}

func invoke(callee value.Value, args []value.Value, callSlice token.SourceSlice) ([]value.Value, error) {
	switch fn := callee.(type) {
	case *value.Builtin:
		return fn.Fn(args, callSlice)
	case *value.Function:
		return callFunction(fn, args)
	}
	return nil, diag.New(diag.UndefinedFunction,
		fmt.Sprintf("attempt to call a %s value", value.TypeName(callee)), callSlice)
}

/*
callFunction snapshots the closure's captured environment again before
pushing the call's own frame: each activation needs an independent
frame stack on top of the shared closure frames, otherwise concurrent
or recursive calls through the same closure would stomp on each
other's locals (spec.md §9's closure design note).
*/
func callFunction(fn *value.Function, args []value.Value) ([]value.Value, error) {
	capturedEnv, ok := fn.Env.(*env.Environment)
	if !ok {
		return nil, fmt.Errorf("eval: closure has no captured environment")
	}
	callEnv := capturedEnv.Snapshot()
	callEnv.PushFrame()

	for i, name := range fn.Params {
		v := value.Nil
		if i < len(args) {
			v = args[i]
		}
		callEnv.DeclareLocal(name, v)
	}
	if fn.IsVararg && len(args) > len(fn.Params) {
		callEnv.DeclareLocal("...", varargsBox{vals: append([]value.Value(nil), args[len(fn.Params):]...)})
	}

	body, ok := fn.Body.(*ast.Block)
	if !ok {
		return nil, fmt.Errorf("eval: closure has no body")
	}

	outcome, err := Exec(body, callEnv)
	if err != nil {
		return nil, err
	}
	if outcome.Kind == Returned {
		return outcome.Values, nil
	}
	return nil, nil
}
