// Package commands defines the CLI command structure and flag bindings.
//
// Command execution is delegated to handler functions in the handlers
// package.
package commands

import (
	"github.com/spf13/cobra"

	"github.com/imamik/sagerec/cmd/sagerec/handlers"
)

// Root returns the root command for the sagerec CLI.
func Root() *cobra.Command {
	opts := &handlers.Options{}

	cmd := &cobra.Command{
		Use:          "sagerec",
		Short:        "Reconcile SageMaker resources to a desired state",
		SilenceUsage: true,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			handlers.SetupLogging(opts.Verbose)
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVarP(&opts.ConfigPath, "config", "c", "", "Path to config file (default: ./sagerec.yaml)")
	flags.BoolVarP(&opts.Verbose, "verbose", "v", false, "Enable debug logging")
	flags.BoolVar(&opts.JSON, "json", false, "Output as JSON")
	flags.StringVar(&opts.MetricsTextfile, "metrics-textfile", "", "Write prometheus metrics to this file on exit")

	// Resource operations
	cmd.AddCommand(Create(opts))
	cmd.AddCommand(Read(opts))
	cmd.AddCommand(Update(opts))
	cmd.AddCommand(Delete(opts))
	cmd.AddCommand(List(opts))

	// Utility commands
	cmd.AddCommand(Types(opts))
	cmd.AddCommand(Init())
	cmd.AddCommand(Doctor(opts))
	cmd.AddCommand(Checkpoints(opts))
	cmd.AddCommand(Version())

	return cmd
}
