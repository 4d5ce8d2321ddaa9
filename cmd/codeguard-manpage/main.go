package main

import (
	"fmt"
	"os"

	"github.com/arthur-debert/codeguard/internal/cli"
	"github.com/spf13/cobra/doc"
)

// Writes codeguard(1) to stdout, or one page per command into the
// directory given as the only argument.
func main() {
	rootCmd := cli.NewRootCmd()

	var err error
	if len(os.Args) > 1 {
		err = doc.GenManTree(rootCmd, cli.ManHeader(), os.Args[1])
	} else {
		err = doc.GenMan(rootCmd, cli.ManHeader(), os.Stdout)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error generating man page: %v\n", err)
		os.Exit(1)
	}
}
