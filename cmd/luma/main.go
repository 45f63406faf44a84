/*
 * Luma
 *
 * A tree-walking interpreter for a dialect of the Lua 5.1 source language.
 */

package main

import (
	"fmt"
	"os"

	"github.com/krotik/luma/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
