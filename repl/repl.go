/*
 * Luma
 *
 * A tree-walking interpreter for a dialect of the Lua 5.1 source language.
 */

/*
Package repl implements the interactive read-eval loop (spec.md §5
"Interactive driver", §6 "Command-line driver"): it reads lines from a
termutil.ConsoleLineTerminal, accumulates them until the buffer
balances open and close keywords, and feeds each complete chunk
through the Scan → Parse → Exec pipeline against one persistent
Environment.
*/
package repl

import (
	"fmt"
	"io"
	"strings"

	"github.com/krotik/common/sortutil"
	"github.com/krotik/common/termutil"

	"github.com/krotik/luma/builtin"
	"github.com/krotik/luma/config"
	"github.com/krotik/luma/diag"
	"github.com/krotik/luma/env"
	"github.com/krotik/luma/eval"
	"github.com/krotik/luma/parser"
	"github.com/krotik/luma/scanner"
	"github.com/krotik/luma/util"
	"github.com/krotik/luma/value"
)

/*
Driver runs the shell loop. Env persists across chunks so top-level
assignments in one line are visible to the next, exactly as a script
run start-to-finish would see them.
*/
type Driver struct {
	Term  termutil.ConsoleLineTerminal
	Out   io.Writer
	Env   *env.Environment
	Debug bool

	buf     strings.Builder
	balance int
}

/*
NewDriver creates a Driver with a fresh global Environment.
*/
func NewDriver(term termutil.ConsoleLineTerminal, out io.Writer) *Driver {
	return &Driver{Term: term, Out: out, Env: env.New()}
}

/*
Run prints the welcome banner and loops reading lines until the
terminal returns an error (typically io.EOF) or the user types an
exit command.
*/
func (d *Driver) Run() error {
	fmt.Fprintf(d.Out, "Luma %s\n", config.ProductVersion)
	fmt.Fprintln(d.Out, "Type 'exit' or 'quit' to leave the shell and '?' to list built-ins")

	line, err := d.Term.NextLinePrompt(config.Prompt, 0)
	for err == nil && !isExitLine(line) {
		d.Feed(line)
		line, err = d.Term.NextLinePrompt(d.prompt(), 0)
	}
	if err == io.EOF {
		return nil
	}
	return err
}

/*
Feed appends one line to the pending buffer and, once the accumulated
text balances (spec.md §5's opening/closing keyword count), runs it
through the full pipeline and reports the outcome. A blank buffer is
silently discarded rather than parsed.
*/
func (d *Driver) Feed(line string) {
	if d.buf.Len() == 0 && strings.TrimSpace(line) == "?" {
		d.printHelp()
		return
	}

	if d.buf.Len() > 0 {
		d.buf.WriteByte('\n')
	}
	d.buf.WriteString(line)
	d.balance += lineBalance(line)

	source := d.buf.String()
	if strings.TrimSpace(source) == "" {
		d.buf.Reset()
		d.balance = 0
		return
	}
	if d.balance > 0 {
		return
	}

	d.buf.Reset()
	d.balance = 0
	d.evalChunk(source)
}

/*
printHelp lists the available built-in functions in alphabetical order,
answering the shell's "?" command.
*/
func (d *Driver) printHelp() {
	names := make([]interface{}, 0, len(builtin.Names()))
	for _, n := range builtin.Names() {
		names = append(names, n)
	}
	sortutil.InterfaceStrings(names)

	fmt.Fprintln(d.Out, "Built-in functions:")
	for _, n := range names {
		fmt.Fprintf(d.Out, "  %s\n", n)
	}
}

func (d *Driver) prompt() string {
	if d.buf.Len() == 0 {
		return config.Prompt
	}
	return config.ContinuationPrompt
}

/*
logger builds the leveled logger (SPEC_FULL.md §2.2) that the debug
trace and error reporting write through. Its level tracks d.Debug, so
toggling Debug mid-session (the -d flag, or a future REPL command)
takes effect on the very next chunk.
*/
func (d *Driver) logger() *util.LogLevelLogger {
	level := util.Info
	if d.Debug {
		level = util.Debug
	}
	return util.MustNewLogLevelLogger(util.NewBufferLogger(d.Out), string(level))
}

/*
evalChunk runs one complete chunk. In debug mode it first tries the
chunk as a trailing expression (spec.md §6 "-d: print the last
expression's user-display value") by reparsing it as an implicit
return; a chunk that is not itself an expression falls back to normal
statement execution without printing anything. The debug trace of the
evaluated expression is written through the Debug level of the logger
described in SPEC_FULL.md §2.2.
*/
func (d *Driver) evalChunk(source string) {
	if d.Debug {
		if block, err := parser.Parse("stdin", "return "+source); err == nil {
			outcome, err := eval.Exec(block, d.Env)
			if err != nil {
				d.reportError(err, source)
				return
			}
			if len(outcome.Values) > 0 {
				d.logger().LogDebug(value.ToDisplayString(outcome.Values[0]))
			} else {
				d.logger().LogDebug("nil")
			}
			return
		}
	}

	block, err := parser.Parse("stdin", source)
	if err != nil {
		d.reportError(err, source)
		return
	}

	if _, err := eval.Exec(block, d.Env); err != nil {
		d.reportError(err, source)
	}
}

func (d *Driver) reportError(err error, source string) {
	if derr, ok := err.(*diag.Error); ok {
		d.logger().LogError(diag.Render(derr, "stdin", source))
		return
	}
	d.logger().LogError(err.Error())
}

func isExitLine(s string) bool {
	switch strings.TrimSpace(s) {
	case "exit", "quit", "q":
		return true
	}
	return false
}

/*
lineBalance scans one line and returns its net opening-minus-closing
keyword count for the completeness heuristic. A line that fails to
scan on its own (e.g. a string literal split across lines) contributes
no balance; the eventual full-chunk scan still catches the error with
a precise diagnostic.
*/
func lineBalance(line string) int {
	toks, err := scanner.Scan(line)
	if err != nil {
		return 0
	}
	balance := 0
	for _, t := range toks {
		if scanner.OpeningKeywords[t.Kind] {
			balance++
		} else if scanner.ClosingKeywords[t.Kind] {
			balance--
		}
	}
	return balance
}
