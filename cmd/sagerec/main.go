// Package main is the entry point for the sagerec CLI.
//
// sagerec drives SageMaker resources (domains, user profiles, pipelines,
// projects, model packages and MLflow tracking servers) to the state given
// in a YAML or JSON document, waiting for asynchronous operations to
// stabilize.
//
//	sagerec --help
package main

import (
	"fmt"
	"os"

	"github.com/imamik/sagerec/cmd/sagerec/commands"
)

// Version information set by goreleaser at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	commands.SetVersionInfo(version, commit, date)
	if err := commands.Root().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
