/*
 * Luma
 *
 * A tree-walking interpreter for a dialect of the Lua 5.1 source language.
 */

/*
Package builtin implements the fixed built-in function table (spec.md
§4.5): print and assert. Builtins are plain Go functions wrapped in a
value.Builtin and looked up by name; package eval falls back to this
table only when a call's callee name is not bound to a user value.
*/
package builtin

import (
	"fmt"
	"os"
	"strings"

	"github.com/krotik/luma/diag"
	"github.com/krotik/luma/token"
	"github.com/krotik/luma/value"
)

var table = map[string]*value.Builtin{}

func register(name string, fn func(args []value.Value, call token.SourceSlice) ([]value.Value, error)) {
	table[name] = &value.Builtin{Name: name, Fn: fn}
}

func init() {
	register("print", print_)
	register("assert", assert_)
}

/*
Lookup returns the builtin registered under name, if any.
*/
func Lookup(name string) (*value.Builtin, bool) {
	b, ok := table[name]
	return b, ok
}

/*
Names returns every registered builtin name, unordered.
*/
func Names() []string {
	names := make([]string, 0, len(table))
	for name := range table {
		names = append(names, name)
	}
	return names
}

/*
print_ concatenates the user-display form of its arguments with tab
separators and a trailing newline, written to standard output
(spec.md §4.5). It returns no values.
*/
func print_(args []value.Value, call token.SourceSlice) ([]value.Value, error) {
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = value.ToDisplayString(a)
	}
	fmt.Fprintln(os.Stdout, strings.Join(parts, "\t"))
	return nil, nil
}

/*
assert_ raises an AssertionFailed diagnostic at the call site if its
first argument is falsy, using Lua's falsy rule (only Nil and false),
per spec.md §9's resolution of the source's "any non-boolean is
falsy" ambiguity. On success it returns all of its arguments
unchanged, matching Lua's assert(v, ...) -> v, ...
*/
func assert_(args []value.Value, call token.SourceSlice) ([]value.Value, error) {
	v := value.Nil
	if len(args) > 0 {
		v = args[0]
	}
	if value.Truthy(v) {
		return args, nil
	}

	msg := "assertion failed!"
	if len(args) > 1 {
		if s, ok := args[1].(string); ok {
			msg = s
		} else {
			msg = value.ToDisplayString(args[1])
		}
	}
	return nil, diag.New(diag.AssertionFailed, msg, call)
}
