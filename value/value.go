/*
 * Luma
 *
 * A tree-walking interpreter for a dialect of the Lua 5.1 source language.
 */

/*
Package value implements the Luma runtime value model (spec.md §3
"Value model"): Nil, Bool, Number, String, Table, Function, and
Builtin, plus the shared mutable Table type.
*/
package value

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/krotik/common/stringutil"

	"github.com/krotik/luma/token"
)

/*
Value is any of Nil, Bool, float64 (Number), string (String),
*Table, *Function, or *Builtin. Go's interface{} already gives Values
by-reference semantics for the pointer-backed kinds (Table, Function,
Builtin) and by-value semantics for the immutable kinds (Bool, float64,
string), which matches spec.md's "strings and tables are shared by
reference; assignment copies the handle" exactly.
*/
type Value = interface{}

/*
Nil is the singleton value for an absent or uninitialized variable.
*/
type NilType struct{}

/*
Nil is the one NilType value.
*/
var Nil Value = NilType{}

/*
TableKey is either an Integer or a String; Table uses it as map key so
that integer and string keys never collide with each other or with
Go's untyped interface equality surprises (e.g. int64(1) vs float64(1)).
*/
type TableKey struct {
	isInt bool
	i     int64
	s     string
}

/*
IntKey builds an Integer TableKey.
*/
func IntKey(i int64) TableKey { return TableKey{isInt: true, i: i} }

/*
StringKey builds a String TableKey.
*/
func StringKey(s string) TableKey { return TableKey{s: s} }

/*
KeyFromValue converts a runtime Value into a TableKey, as used for
t[k] indexing. Numbers that are mathematically integral use IntKey so
that t[1] and t[1.0] refer to the same slot, as Lua requires.
*/
func KeyFromValue(v Value) (TableKey, bool) {
	switch vv := v.(type) {
	case float64:
		if vv == float64(int64(vv)) {
			return IntKey(int64(vv)), true
		}
		return TableKey{}, false
	case string:
		return StringKey(vv), true
	}
	return TableKey{}, false
}

/*
Table is a shared, mutable map from TableKey to Value (spec.md §3
"Table"). The positional-constructor counter that assigns 1,2,3,... to
unkeyed table-literal items lives in eval.evalTable, not here: a Table
itself has no notion of "next" index, only of the keys currently set.
*/
type Table struct {
	data map[TableKey]Value
}

/*
NewTable creates an empty table.
*/
func NewTable() *Table {
	return &Table{data: make(map[TableKey]Value)}
}

/*
Get returns the value stored at k, or Nil if absent.
*/
func (t *Table) Get(k TableKey) Value {
	if v, ok := t.data[k]; ok {
		return v
	}
	return Nil
}

/*
Set stores v at k. Storing Nil removes the key, matching Lua's "nil
assignment deletes" semantics.
*/
func (t *Table) Set(k TableKey, v Value) {
	if IsNil(v) {
		delete(t.data, k)
		return
	}
	t.data[k] = v
}

/*
Len implements unary `#` on a table: the largest n >= 1 such that
1..n are all non-nil (spec.md §4.4). Behavior on sparse tables is
intentionally unspecified beyond "some such n"; this walks up from 1.
*/
func (t *Table) Len() int64 {
	var n int64
	for {
		if _, ok := t.data[IntKey(n+1)]; !ok {
			break
		}
		n++
	}
	return n
}

/*
Keys returns the table's keys in a repeatable order: integer keys
first, then string keys, each group sorted by its sortKey text.
*/
func (t *Table) Keys() []TableKey {
	keys := make([]TableKey, 0, len(t.data))
	for k := range t.data {
		keys = append(keys, k)
	}

	strs := make([]string, len(keys))
	for i, k := range keys {
		strs[i] = k.sortKey()
	}
	idx := make([]int, len(keys))
	for i := range idx {
		idx[i] = i
	}
	sort.Slice(idx, func(a, b int) bool { return strs[idx[a]] < strs[idx[b]] })

	out := make([]TableKey, len(keys))
	for i, j := range idx {
		out[i] = keys[j]
	}
	return out
}

func (k TableKey) sortKey() string {
	if k.isInt {
		return fmt.Sprintf("0:%020d", k.i)
	}
	return "1:" + k.s
}

/*
ToValue converts a TableKey back to the Value a program would observe
from next()/pairs()-style iteration.
*/
func (k TableKey) ToValue() Value {
	if k.isInt {
		return float64(k.i)
	}
	return k.s
}

/*
Function is a user-defined closure: the parameter list, body, and the
defining environment frame stack captured at creation time (spec.md
§9: "capture the entire current frame stack by shared handle").
Env is declared as interface{} here to avoid an import cycle with
package env; eval type-asserts it back to *env.Environment.
*/
type Function struct {
	Params   []string
	IsVararg bool
	Body     interface{} // *ast.Block, typed loosely to avoid a value->ast dependency cycle
	Env      interface{} // captured *env.Environment
	Name     string      // best-effort name for diagnostics, "" if anonymous
}

/*
Builtin is a built-in function identified by name (spec.md §4.5); the
actual Go implementation lives in package builtin and is looked up by
name at call time. Fn receives the SourceSlice of the call expression
so it can raise a diagnostic pointing at the call site (e.g. a failing
assert).
*/
type Builtin struct {
	Name string
	Fn   func(args []Value, call token.SourceSlice) ([]Value, error)
}

/*
IsNil reports whether v is the Nil value.
*/
func IsNil(v Value) bool {
	_, ok := v.(NilType)
	return ok || v == nil
}

/*
Truthy implements spec.md §4.4's truthiness rule: only Nil and
Bool(false) are falsy.
*/
func Truthy(v Value) bool {
	if IsNil(v) {
		return false
	}
	if b, ok := v.(bool); ok {
		return b
	}
	return true
}

/*
TypeName returns the Lua-visible type name of v, used in TypeError
messages.
*/
func TypeName(v Value) string {
	switch v.(type) {
	case NilType, nil:
		return "nil"
	case bool:
		return "boolean"
	case float64:
		return "number"
	case string:
		return "string"
	case *Table:
		return "table"
	case *Function, *Builtin:
		return "function"
	}
	return "userdata"
}

/*
ToNumber attempts the numeric coercion spec.md §4.4 requires for
arithmetic on strings. ok is false if v is neither a number nor a
string parsable as one.
*/
func ToNumber(v Value) (float64, bool) {
	switch vv := v.(type) {
	case float64:
		return vv, true
	case string:
		n, err := strconv.ParseFloat(strings.TrimSpace(vv), 64)
		return n, err == nil
	}
	return 0, false
}

/*
ToDisplayString renders v the way `print` and the REPL show it to a
user, using Lua-specific formatting for every Luma value kind and the
teacher's stringutil.ConvertToString only as the fallback for any other
Go value.
*/
func ToDisplayString(v Value) string {
	switch vv := v.(type) {
	case NilType, nil:
		return "nil"
	case bool:
		if vv {
			return "true"
		}
		return "false"
	case float64:
		return formatNumber(vv)
	case string:
		return vv
	case *Table:
		return fmt.Sprintf("table: %p", vv)
	case *Function:
		return fmt.Sprintf("function: %p", vv)
	case *Builtin:
		return fmt.Sprintf("builtin: %s", vv.Name)
	}
	return stringutil.ConvertToString(v)
}

func formatNumber(n float64) string {
	if n == float64(int64(n)) {
		return strconv.FormatInt(int64(n), 10)
	}
	return strconv.FormatFloat(n, 'g', 14, 64)
}
