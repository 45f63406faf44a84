/*
 * Luma
 *
 * A tree-walking interpreter for a dialect of the Lua 5.1 source language.
 */

package eval

import (
	"fmt"
	"math"

	"github.com/krotik/luma/ast"
	"github.com/krotik/luma/diag"
	"github.com/krotik/luma/env"
	"github.com/krotik/luma/token"
	"github.com/krotik/luma/value"
)

func evalBinop(n *ast.BinopExp, en *env.Environment) (value.Value, error) {
	if n.Op == token.And || n.Op == token.Or {
		lhs, err := Eval(n.LHS, en)
		if err != nil {
			return nil, err
		}
		truthy := value.Truthy(lhs)
		if (n.Op == token.And && !truthy) || (n.Op == token.Or && truthy) {
			return lhs, nil
		}
		return Eval(n.RHS, en)
	}

	lhs, err := Eval(n.LHS, en)
	if err != nil {
		return nil, err
	}
	rhs, err := Eval(n.RHS, en)
	if err != nil {
		return nil, err
	}
	return applyBinop(n.Op, lhs, rhs, n.Slice())
}

func applyBinop(op token.Kind, lhs, rhs value.Value, slice token.SourceSlice) (value.Value, error) {
	switch op {
	case token.Plus, token.Minus, token.Star, token.Slash, token.Percent, token.Caret:
		return arith(op, lhs, rhs, slice)
	case token.Concat:
		return concat(lhs, rhs, slice)
	case token.Eq:
		return luaEquals(lhs, rhs), nil
	case token.Neq:
		return !luaEquals(lhs, rhs), nil
	case token.Lt, token.Le, token.Gt, token.Ge:
		return compare(op, lhs, rhs, slice)
	}
	return nil, fmt.Errorf("eval: unhandled binary operator %s", op)
}

func arith(op token.Kind, lhs, rhs value.Value, slice token.SourceSlice) (value.Value, error) {
	ln, lok := value.ToNumber(lhs)
	rn, rok := value.ToNumber(rhs)
	if !lok || !rok {
		bad := lhs
		if lok {
			bad = rhs
		}
		return nil, diag.New(diag.TypeError,
			fmt.Sprintf("attempt to perform arithmetic on a %s value", value.TypeName(bad)), slice)
	}

	switch op {
	case token.Plus:
		return ln + rn, nil
	case token.Minus:
		return ln - rn, nil
	case token.Star:
		return ln * rn, nil
	case token.Slash:
		return ln / rn, nil
	case token.Percent:
		return math.Mod(ln, rn), nil
	case token.Caret:
		return math.Pow(ln, rn), nil
	}
	return nil, fmt.Errorf("eval: unhandled arithmetic operator %s", op)
}

func concat(lhs, rhs value.Value, slice token.SourceSlice) (value.Value, error) {
	ls, lok := toConcatString(lhs)
	rs, rok := toConcatString(rhs)
	if !lok || !rok {
		bad := lhs
		if lok {
			bad = rhs
		}
		return nil, diag.New(diag.TypeError,
			fmt.Sprintf("attempt to concatenate a %s value", value.TypeName(bad)), slice)
	}
	return ls + rs, nil
}

func toConcatString(v value.Value) (string, bool) {
	switch vv := v.(type) {
	case string:
		return vv, true
	case float64:
		return value.ToDisplayString(vv), true
	}
	return "", false
}

func luaEquals(lhs, rhs value.Value) bool {
	if value.IsNil(lhs) || value.IsNil(rhs) {
		return value.IsNil(lhs) && value.IsNil(rhs)
	}
	switch lv := lhs.(type) {
	case bool:
		rv, ok := rhs.(bool)
		return ok && lv == rv
	case float64:
		rv, ok := rhs.(float64)
		return ok && lv == rv
	case string:
		rv, ok := rhs.(string)
		return ok && lv == rv
	case *value.Table:
		rv, ok := rhs.(*value.Table)
		return ok && lv == rv
	case *value.Function:
		rv, ok := rhs.(*value.Function)
		return ok && lv == rv
	case *value.Builtin:
		rv, ok := rhs.(*value.Builtin)
		return ok && lv == rv
	}
	return false
}

func compare(op token.Kind, lhs, rhs value.Value, slice token.SourceSlice) (value.Value, error) {
	if ln, ok := lhs.(float64); ok {
		rn, ok := rhs.(float64)
		if !ok {
			return nil, diag.New(diag.TypeError,
				fmt.Sprintf("attempt to compare number with %s", value.TypeName(rhs)), slice)
		}
		return compareOrdered(op, ln < rn, ln == rn), nil
	}
	if ls, ok := lhs.(string); ok {
		rs, ok := rhs.(string)
		if !ok {
			return nil, diag.New(diag.TypeError,
				fmt.Sprintf("attempt to compare string with %s", value.TypeName(rhs)), slice)
		}
		return compareOrdered(op, ls < rs, ls == rs), nil
	}
	return nil, diag.New(diag.TypeError,
		fmt.Sprintf("attempt to compare two %s values", value.TypeName(lhs)), slice)
}

func compareOrdered(op token.Kind, less, equal bool) bool {
	switch op {
	case token.Lt:
		return less
	case token.Le:
		return less || equal
	case token.Gt:
		return !less && !equal
	case token.Ge:
		return !less
	}
	return false
}

func evalUnop(n *ast.UnopExp, en *env.Environment) (value.Value, error) {
	v, err := Eval(n.Operand, en)
	if err != nil {
		return nil, err
	}

	switch n.Op {
	case token.Minus:
		num, ok := value.ToNumber(v)
		if !ok {
			return nil, diag.New(diag.TypeError,
				fmt.Sprintf("attempt to perform arithmetic on a %s value", value.TypeName(v)), n.Slice())
		}
		return -num, nil
	case token.Not:
		return !value.Truthy(v), nil
	case token.Hash:
		switch vv := v.(type) {
		case string:
			return float64(len(vv)), nil
		case *value.Table:
			return float64(vv.Len()), nil
		}
		return nil, diag.New(diag.TypeError,
			fmt.Sprintf("attempt to get length of a %s value", value.TypeName(v)), n.Slice())
	}

	return nil, fmt.Errorf("eval: unhandled unary operator %s", n.Op)
}
