// Package main is the typegen command.
package main

import (
	"os"

	"github.com/roach88/typegen/internal/cli"
)

func main() {
	// Commands report their own errors through the output formatter.
	if err := cli.NewRootCommand().Execute(); err != nil {
		os.Exit(cli.GetExitCode(err))
	}
}
