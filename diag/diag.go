/*
 * Luma
 *
 * A tree-walking interpreter for a dialect of the Lua 5.1 source language.
 */

/*
Package diag implements the uniform error model and caret-rendering
contract of spec.md §6/§7, grounded on ecal's util.RuntimeError: a
single Error type carries a Kind, a message, and a SourceSlice, and
renders itself as a caret-annotated excerpt of the offending line.
*/
package diag

import (
	"fmt"
	"strings"

	"github.com/krotik/common/stringutil"

	"github.com/krotik/luma/token"
)

/*
Kind enumerates every diagnostic kind named in spec.md §7.
*/
type Kind string

const (
	UnterminatedString  Kind = "UnterminatedString"
	UnterminatedComment Kind = "UnterminatedComment"
	IllegalCharacter    Kind = "IllegalCharacter"
	MalformedNumber     Kind = "MalformedNumber"
	UnexpectedToken     Kind = "UnexpectedToken"
	Unterminated        Kind = "Unterminated"
	NotAStatement       Kind = "NotAStatement"
	MalformedAssignment Kind = "MalformedAssignment"
	TypeError           Kind = "TypeError"
	UndefinedFunction   Kind = "UndefinedFunction"
	AssertionFailed     Kind = "AssertionFailed"
	ArityError          Kind = "ArityError"
)

/*
Error is the one error type raised by the scanner, parser, and
evaluator. It always carries the SourceSlice of the offending
construct.
*/
type Error struct {
	Kind    Kind
	Message string
	Slice   token.SourceSlice
}

func (e *Error) Error() string {
	return fmt.Sprintf("error: %s: %s (%s)", e.Kind, e.Message, e.Slice)
}

/*
New builds a diagnostic Error.
*/
func New(kind Kind, msg string, slice token.SourceSlice) *Error {
	return &Error{Kind: kind, Message: msg, Slice: slice}
}

/*
Render produces the multi-line caret-annotated diagnostic specified by
spec.md §6:

    error: <kind>
        --> <file>:<line>:<col_start>
         |
     <ln> |  <full source line, leading whitespace trimmed>
         |  <caret_padding>^^^^ <description>

source is the full original text the error was raised against; file is
the label to show after "-->" (e.g. a filename, or "stdin").
*/
func Render(err *Error, file string, source string) string {
	var b strings.Builder

	fmt.Fprintf(&b, "error: %s\n", err.Kind)
	fmt.Fprintf(&b, "    --> %s:%d:%d\n", file, err.Slice.Line, err.Slice.ColStart)
	b.WriteString("     |\n")

	line := sourceLine(source, err.Slice.Line)
	trimmed := strings.TrimLeft(line, " \t")
	trimCount := len(line) - len(trimmed)

	colStart := err.Slice.ColStart - trimCount
	if colStart < 1 {
		colStart = 1
	}
	span := err.Slice.ColEnd - err.Slice.ColStart
	if span < 1 {
		span = 1
	}

	fmt.Fprintf(&b, " %4d | %s\n", err.Slice.Line, trimmed)
	fmt.Fprintf(&b, "     | %s%s %s\n",
		stringutil.GenerateRollingString(" ", colStart-1),
		stringutil.GenerateRollingString("^", span),
		err.Message)

	return b.String()
}

func sourceLine(source string, line int) string {
	lines := strings.Split(source, "\n")
	if line < 1 || line > len(lines) {
		return ""
	}
	return strings.TrimRight(lines[line-1], "\r")
}
