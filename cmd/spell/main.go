package main

import (
	"fmt"
	"os"

	"github.com/roach88/spell/internal/cli"
	"github.com/roach88/spell/internal/ir"
)

var (
	// Version information (set via ldflags during build)
	Version = ir.ServiceVersion
	Commit  = "unknown"
)

func main() {
	root := cli.NewRootCommand()
	root.Version = Version
	root.SetVersionTemplate(fmt.Sprintf("spell version %s\nCommit: %s\n", Version, Commit))

	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(cli.GetExitCode(err))
	}
}
