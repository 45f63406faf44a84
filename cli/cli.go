/*
 * Luma
 *
 * A tree-walking interpreter for a dialect of the Lua 5.1 source language.
 */

/*
Package cli wires the command-line driver named in spec.md §6: version
banner, forced-interactive, one-shot string evaluation, the reserved
library-load flag, debug echo, and a trailing script-file argument.
It is the thin external collaborator the core spec treats as out of
scope for its own design, built with cobra/pflag the way the rest of
the retrieved example pack builds its command-line tools.
*/
package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/krotik/common/fileutil"
	"github.com/krotik/common/termutil"
	"github.com/spf13/cobra"

	"github.com/krotik/luma/config"
	"github.com/krotik/luma/diag"
	"github.com/krotik/luma/env"
	"github.com/krotik/luma/eval"
	"github.com/krotik/luma/parser"
	"github.com/krotik/luma/repl"
	"github.com/krotik/luma/util"
)

/*
Options collects the flags and the optional trailing file argument.
*/
type Options struct {
	Version     bool
	Interactive bool
	Eval        string
	Library     string
	Debug       bool
	File        string
}

/*
NewRootCommand builds the luma cobra command.
*/
func NewRootCommand() *cobra.Command {
	opts := &Options{}

	cmd := &cobra.Command{
		Use:           "luma [file]",
		Short:         "Luma is an interpreter for a dialect of the Lua 5.1 language",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				opts.File = args[0]
			}
			return Run(opts, cmd.OutOrStdout())
		},
	}

	flags := cmd.Flags()
	flags.BoolVarP(&opts.Version, "version", "v", false, "print version banner and exit")
	flags.BoolVarP(&opts.Interactive, "interactive", "i", false, "force interactive mode even if other flags were given")
	flags.StringVarP(&opts.Eval, "eval", "e", "", "evaluate the given source string as a complete chunk")
	flags.StringVarP(&opts.Library, "load", "l", "", "load and evaluate a library by name (reserved, no-op)")
	flags.BoolVarP(&opts.Debug, "debug", "d", false, "after each interactive chunk print the last expression's value")

	return cmd
}

/*
Run dispatches to one-shot string evaluation, one-shot file execution,
or the interactive shell, per spec.md §6's precedence (-i forces
interactive over -e or a file argument).
*/
func Run(opts *Options, out io.Writer) error {
	if opts.Version {
		fmt.Fprintf(out, "Luma %s\n", config.ProductVersion)
		return nil
	}

	config.Config[config.Debug] = opts.Debug
	config.Config[config.LibraryPath] = opts.Library

	if !opts.Interactive && opts.Eval != "" {
		return runSource("-e", opts.Eval, out)
	}

	if !opts.Interactive && opts.File != "" {
		if ok, _ := fileutil.PathExists(opts.File); !ok {
			return fmt.Errorf("no such file: %s", opts.File)
		}
		src, err := os.ReadFile(opts.File)
		if err != nil {
			return err
		}
		return runSource(opts.File, string(src), out)
	}

	return runInteractive(opts, out)
}

func runInteractive(opts *Options, out io.Writer) error {
	term, err := termutil.NewConsoleLineTerminal(os.Stdout)
	if err != nil {
		return err
	}
	term, err = termutil.AddHistoryMixin(term, "", func(s string) bool {
		switch s {
		case "exit", "quit", "q":
			return true
		}
		return false
	})
	if err != nil {
		return err
	}

	if err := term.StartTerm(); err != nil {
		return err
	}
	defer term.StopTerm()

	driver := repl.NewDriver(term, out)
	driver.Debug = opts.Debug
	return driver.Run()
}

func runSource(name, source string, out io.Writer) error {
	block, err := parser.Parse(name, source)
	if err != nil {
		reportError(err, name, source, out)
		return fmt.Errorf("luma: failed to evaluate %s", name)
	}
	if _, err := eval.Exec(block, env.New()); err != nil {
		reportError(err, name, source, out)
		return fmt.Errorf("luma: failed to evaluate %s", name)
	}
	return nil
}

/*
reportError writes a one-shot diagnostic through the Error level of
the leveled logger described in SPEC_FULL.md §2.2, the same logger the
REPL driver uses for interactive diagnostics.
*/
func reportError(err error, name, source string, out io.Writer) {
	logger := util.MustNewLogLevelLogger(util.NewBufferLogger(out), string(util.Error))
	if derr, ok := err.(*diag.Error); ok {
		logger.LogError(diag.Render(derr, name, source))
		return
	}
	logger.LogError(err.Error())
}
