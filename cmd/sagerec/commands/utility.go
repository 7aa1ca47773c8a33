package commands

import (
	"github.com/spf13/cobra"

	"github.com/imamik/sagerec/cmd/sagerec/handlers"
)

// Types returns the types command.
func Types(opts *handlers.Options) *cobra.Command {
	return &cobra.Command{
		Use:   "types",
		Short: "List supported resource types",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			return handlers.Types(opts.JSON)
		},
	}
}

// Init returns the init command.
func Init() *cobra.Command {
	var answers handlers.InitAnswers

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a sample desired-state document",
		Long: `Write a sample desired-state document for a resource type.

Without --type an interactive wizard asks for the values.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Init(cmd.Context(), answers)
		},
	}

	cmd.Flags().StringVarP(&answers.TypeName, "type", "t", "", "Resource type")
	cmd.Flags().StringVar(&answers.Name, "name", "", "Resource name")
	cmd.Flags().StringVar(&answers.RoleArn, "role-arn", "", "Execution role ARN")
	cmd.Flags().StringVar(&answers.Parent, "parent", "", "Domain ID or model package group")
	cmd.Flags().StringVarP(&answers.Output, "output", "o", "", "Output file (default: derived from the type)")
	cmd.Flags().BoolVar(&answers.WriteConfig, "write-config", false, "Also write a default sagerec.yaml")

	return cmd
}

// Doctor returns the doctor command.
func Doctor(opts *handlers.Options) *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check configuration, credentials and checkpoint storage",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Doctor(cmd.Context(), opts)
		},
	}
}

// Checkpoints returns the checkpoints command.
func Checkpoints(opts *handlers.Options) *cobra.Command {
	var co handlers.CheckpointOptions

	cmd := &cobra.Command{
		Use:   "checkpoints [--clear KEY]... [--all]",
		Short: "List or clear checkpoints of interrupted operations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Checkpoints(cmd.Context(), opts, co)
		},
	}

	cmd.Flags().StringSliceVar(&co.Clear, "clear", nil, "Remove the checkpoint with this key")
	cmd.Flags().BoolVar(&co.All, "all", false, "Remove every checkpoint")

	return cmd
}
