/*
 * Luma
 *
 * A tree-walking interpreter for a dialect of the Lua 5.1 source language.
 */

package eval

import (
	"fmt"

	"github.com/krotik/luma/ast"
	"github.com/krotik/luma/diag"
	"github.com/krotik/luma/env"
	"github.com/krotik/luma/value"
)

func evalIndex(n *ast.IndexExp, en *env.Environment) (value.Value, error) {
	prefixVal, err := Eval(n.Prefix, en)
	if err != nil {
		return nil, err
	}
	tbl, ok := prefixVal.(*value.Table)
	if !ok {
		return nil, diag.New(diag.TypeError,
			fmt.Sprintf("attempt to index a %s value", value.TypeName(prefixVal)), n.Slice())
	}

	keyVal, err := Eval(n.Key, en)
	if err != nil {
		return nil, err
	}
	if value.IsNil(keyVal) {
		return nil, diag.New(diag.TypeError, "table index is nil", n.Slice())
	}
	key, ok := value.KeyFromValue(keyVal)
	if !ok {
		return value.Nil, nil
	}
	return tbl.Get(key), nil
}

func evalField(n *ast.FieldExp, en *env.Environment) (value.Value, error) {
	prefixVal, err := Eval(n.Prefix, en)
	if err != nil {
		return nil, err
	}
	tbl, ok := prefixVal.(*value.Table)
	if !ok {
		return nil, diag.New(diag.TypeError,
			fmt.Sprintf("attempt to index a %s value", value.TypeName(prefixVal)), n.Slice())
	}
	return tbl.Get(value.StringKey(n.Name)), nil
}

/*
evalTable builds a table from a constructor, tracking the next
positional index across fields in source order (spec.md §4.4 "Table
construction"). Only the constructor's last field expands to multiple
positional slots when it is itself multi-valued (a call or "...").
*/
func evalTable(n *ast.TableExp, en *env.Environment) (value.Value, error) {
	tbl := value.NewTable()
	var nextIdx int64 = 1

	for i, f := range n.Fields {
		switch field := f.(type) {
		case *ast.PositionalField:
			if i == len(n.Fields)-1 {
				vals, err := EvalMulti(field.Val, en)
				if err != nil {
					return nil, err
				}
				for _, v := range vals {
					tbl.Set(value.IntKey(nextIdx), v)
					nextIdx++
				}
				continue
			}
			v, err := Eval(field.Val, en)
			if err != nil {
				return nil, err
			}
			tbl.Set(value.IntKey(nextIdx), v)
			nextIdx++

		case *ast.NamedField:
			v, err := Eval(field.Val, en)
			if err != nil {
				return nil, err
			}
			tbl.Set(value.StringKey(field.Name), v)

		case *ast.ComputedField:
			keyVal, err := Eval(field.Key, en)
			if err != nil {
				return nil, err
			}
			v, err := Eval(field.Val, en)
			if err != nil {
				return nil, err
			}
			key, ok := value.KeyFromValue(keyVal)
			if !ok {
				return nil, diag.New(diag.TypeError, "invalid table key", field.Slice())
			}
			tbl.Set(key, v)
		}
	}

	return tbl, nil
}
