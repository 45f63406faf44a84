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

func execStat(stat ast.Stat, en *env.Environment) (Outcome, error) {
	switch s := stat.(type) {
	case *ast.AssignStat:
		return execAssign(s, en)
	case *ast.LocalAssignStat:
		return execLocalAssign(s, en)
	case *ast.DoStat:
		en.PushFrame()
		outcome, err := Exec(s.Body, en)
		en.PopFrame()
		return outcome, err
	case *ast.WhileStat:
		return execWhile(s, en)
	case *ast.RepeatStat:
		return execRepeat(s, en)
	case *ast.IfStat:
		return execIf(s, en)
	case *ast.NumericForStat:
		return execNumericFor(s, en)
	case *ast.GenericForStat:
		return execGenericFor(s, en)
	case *ast.FunctionDeclStat:
		return execFunctionDecl(s, en)
	case *ast.LocalFunctionStat:
		return execLocalFunction(s, en)
	case *ast.CallStat:
		if _, err := EvalMulti(s.Call, en); err != nil {
			return Outcome{}, err
		}
		return Outcome{Kind: Normal}, nil
	}
	return Outcome{}, fmt.Errorf("eval: unhandled statement %T", stat)
}

func execAssign(s *ast.AssignStat, en *env.Environment) (Outcome, error) {
	vals, err := evalExpList(s.Values, en)
	if err != nil {
		return Outcome{}, err
	}

	padded := make([]value.Value, len(s.Targets))
	for i := range padded {
		if i < len(vals) {
			padded[i] = vals[i]
		} else {
			padded[i] = value.Nil
		}
	}

	for i, target := range s.Targets {
		if err := assignTarget(target, padded[i], en); err != nil {
			return Outcome{}, err
		}
	}
	return Outcome{Kind: Normal}, nil
}

func execLocalAssign(s *ast.LocalAssignStat, en *env.Environment) (Outcome, error) {
	var vals []value.Value
	if s.Values != nil {
		var err error
		vals, err = evalExpList(s.Values, en)
		if err != nil {
			return Outcome{}, err
		}
	}
	for i, name := range s.Names {
		v := value.Nil
		if i < len(vals) {
			v = vals[i]
		}
		en.DeclareLocal(name, v)
	}
	return Outcome{Kind: Normal}, nil
}

func execWhile(s *ast.WhileStat, en *env.Environment) (Outcome, error) {
	for {
		condVal, err := Eval(s.Cond, en)
		if err != nil {
			return Outcome{}, err
		}
		if !value.Truthy(condVal) {
			return Outcome{Kind: Normal}, nil
		}

		en.PushFrame()
		outcome, err := Exec(s.Body, en)
		en.PopFrame()
		if err != nil {
			return Outcome{}, err
		}
		if outcome.Kind == Broke {
			return Outcome{Kind: Normal}, nil
		}
		if outcome.Kind == Returned {
			return outcome, nil
		}
	}
}

/*
execRepeat keeps one frame open across both the body and the until
condition, since locals declared in the body must be visible to the
condition (spec.md §4.4 "Repeat").
*/
func execRepeat(s *ast.RepeatStat, en *env.Environment) (Outcome, error) {
	for {
		en.PushFrame()
		outcome, err := Exec(s.Body, en)
		if err != nil {
			en.PopFrame()
			return Outcome{}, err
		}
		if outcome.Kind == Broke {
			en.PopFrame()
			return Outcome{Kind: Normal}, nil
		}
		if outcome.Kind == Returned {
			en.PopFrame()
			return outcome, nil
		}

		condVal, err := Eval(s.Cond, en)
		en.PopFrame()
		if err != nil {
			return Outcome{}, err
		}
		if value.Truthy(condVal) {
			return Outcome{Kind: Normal}, nil
		}
	}
}

func execIf(s *ast.IfStat, en *env.Environment) (Outcome, error) {
	for _, branch := range s.Branches {
		condVal, err := Eval(branch.Cond, en)
		if err != nil {
			return Outcome{}, err
		}
		if value.Truthy(condVal) {
			en.PushFrame()
			outcome, err := Exec(branch.Body, en)
			en.PopFrame()
			return outcome, err
		}
	}
	if s.Else != nil {
		en.PushFrame()
		outcome, err := Exec(s.Else, en)
		en.PopFrame()
		return outcome, err
	}
	return Outcome{Kind: Normal}, nil
}

func execNumericFor(s *ast.NumericForStat, en *env.Environment) (Outcome, error) {
	startVal, err := Eval(s.Start, en)
	if err != nil {
		return Outcome{}, err
	}
	stopVal, err := Eval(s.Stop, en)
	if err != nil {
		return Outcome{}, err
	}
	var stepVal value.Value = float64(1)
	if s.Step != nil {
		stepVal, err = Eval(s.Step, en)
		if err != nil {
			return Outcome{}, err
		}
	}

	start, ok := value.ToNumber(startVal)
	if !ok {
		return Outcome{}, diag.New(diag.ArityError, "'for' initial value must be a number", s.Start.Slice())
	}
	stop, ok := value.ToNumber(stopVal)
	if !ok {
		return Outcome{}, diag.New(diag.ArityError, "'for' limit must be a number", s.Stop.Slice())
	}
	step, ok := value.ToNumber(stepVal)
	if !ok {
		return Outcome{}, diag.New(diag.ArityError, "'for' step must be a number", s.Slice())
	}
	if step == 0 {
		return Outcome{}, diag.New(diag.ArityError, "'for' step is zero", s.Slice())
	}

	for i := start; (step > 0 && i <= stop) || (step < 0 && i >= stop); i += step {
		en.PushFrame()
		en.DeclareLocal(s.Name, i)
		outcome, err := Exec(s.Body, en)
		en.PopFrame()
		if err != nil {
			return Outcome{}, err
		}
		if outcome.Kind == Broke {
			return Outcome{Kind: Normal}, nil
		}
		if outcome.Kind == Returned {
			return outcome, nil
		}
	}
	return Outcome{Kind: Normal}, nil
}

func execGenericFor(s *ast.GenericForStat, en *env.Environment) (Outcome, error) {
	vals, err := evalExpList(s.Exps, en)
	if err != nil {
		return Outcome{}, err
	}
	at := func(i int) value.Value {
		if i < len(vals) {
			return vals[i]
		}
		return value.Nil
	}
	iterFn, state, control := at(0), at(1), at(2)

	for {
		results, err := invoke(iterFn, []value.Value{state, control}, s.Slice())
		if err != nil {
			return Outcome{}, err
		}
		if len(results) == 0 || value.IsNil(results[0]) {
			return Outcome{Kind: Normal}, nil
		}
		control = results[0]

		en.PushFrame()
		for i, name := range s.Names {
			v := value.Nil
			if i < len(results) {
				v = results[i]
			}
			en.DeclareLocal(name, v)
		}
		outcome, err := Exec(s.Body, en)
		en.PopFrame()
		if err != nil {
			return Outcome{}, err
		}
		if outcome.Kind == Broke {
			return Outcome{Kind: Normal}, nil
		}
		if outcome.Kind == Returned {
			return outcome, nil
		}
	}
}

/*
execFunctionDecl builds the closure and assigns it to the dotted path
(spec.md §4.2 "funcname desugars to an assignment"). A single-element
path assigns a plain variable; a longer path mutates the table bound
to its second-to-last segment, per spec.md §9's resolution of the
nested-field-assignment open question.
*/
func execFunctionDecl(s *ast.FunctionDeclStat, en *env.Environment) (Outcome, error) {
	fn := makeClosure(s.Fn, en)
	fn.Name = s.Path[len(s.Path)-1]

	if len(s.Path) == 1 {
		en.Assign(s.Path[0], fn)
		return Outcome{Kind: Normal}, nil
	}

	base := en.Lookup(s.Path[0])
	for i := 1; i < len(s.Path)-1; i++ {
		tbl, ok := base.(*value.Table)
		if !ok {
			return Outcome{}, diag.New(diag.TypeError,
				fmt.Sprintf("attempt to index a %s value", value.TypeName(base)), s.Slice())
		}
		base = tbl.Get(value.StringKey(s.Path[i]))
	}
	tbl, ok := base.(*value.Table)
	if !ok {
		return Outcome{}, diag.New(diag.TypeError,
			fmt.Sprintf("attempt to index a %s value", value.TypeName(base)), s.Slice())
	}
	tbl.Set(value.StringKey(s.Path[len(s.Path)-1]), fn)
	return Outcome{Kind: Normal}, nil
}

/*
execLocalFunction declares the name before building the closure so a
recursive call inside the function body resolves back to itself
(spec.md §9's upvalue-by-shared-frame design: the frame the closure
captured is the same map this second DeclareLocal call mutates).
*/
func execLocalFunction(s *ast.LocalFunctionStat, en *env.Environment) (Outcome, error) {
	en.DeclareLocal(s.Name, value.Nil)
	fn := makeClosure(s.Fn, en)
	fn.Name = s.Name
	en.DeclareLocal(s.Name, fn)
	return Outcome{Kind: Normal}, nil
}

/*
assignTarget implements the assignment half of spec.md §4.3's
assign_path: Name targets go through the environment's free-name rule,
Index/Field targets require their prefix to already be a table.
*/
func assignTarget(target ast.Exp, v value.Value, en *env.Environment) error {
	switch t := target.(type) {
	case *ast.NameExp:
		en.Assign(t.Name, v)
		return nil

	case *ast.IndexExp:
		prefixVal, err := Eval(t.Prefix, en)
		if err != nil {
			return err
		}
		tbl, ok := prefixVal.(*value.Table)
		if !ok {
			return diag.New(diag.TypeError,
				fmt.Sprintf("attempt to index a %s value", value.TypeName(prefixVal)), t.Slice())
		}
		keyVal, err := Eval(t.Key, en)
		if err != nil {
			return err
		}
		if value.IsNil(keyVal) {
			return diag.New(diag.TypeError, "table index is nil", t.Slice())
		}
		key, ok := value.KeyFromValue(keyVal)
		if !ok {
			return diag.New(diag.TypeError, "invalid table key", t.Slice())
		}
		tbl.Set(key, v)
		return nil

	case *ast.FieldExp:
		prefixVal, err := Eval(t.Prefix, en)
		if err != nil {
			return err
		}
		tbl, ok := prefixVal.(*value.Table)
		if !ok {
			return diag.New(diag.TypeError,
				fmt.Sprintf("attempt to index a %s value", value.TypeName(prefixVal)), t.Slice())
		}
		tbl.Set(value.StringKey(t.Name), v)
		return nil
	}

	return fmt.Errorf("eval: invalid assignment target %T", target)
}
