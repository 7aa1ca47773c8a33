package commands

import (
	"github.com/spf13/cobra"

	"github.com/imamik/sagerec/cmd/sagerec/handlers"
	"github.com/imamik/sagerec/internal/resource"
)

// Create returns the create command.
func Create(opts *handlers.Options) *cobra.Command {
	return resourceCommand(opts, resource.OperationCreate,
		"Create a resource and wait until it is stable",
		`Create the resource described by a desired-state document.

The command polls until the resource reaches a terminal status. Progress is
checkpointed, so an interrupted run resumes where it stopped when invoked
again with the same document.`)
}

// Read returns the read command.
func Read(opts *handlers.Options) *cobra.Command {
	return resourceCommand(opts, resource.OperationRead,
		"Describe a resource",
		"Read the current state of the resource identified by a document.")
}

// Update returns the update command.
func Update(opts *handlers.Options) *cobra.Command {
	return resourceCommand(opts, resource.OperationUpdate,
		"Update a resource and wait until it is stable",
		`Update the resource identified by a document to the state it describes.

Immutable properties cannot be changed. Omitted properties keep their
current values.`)
}

// Delete returns the delete command.
func Delete(opts *handlers.Options) *cobra.Command {
	return resourceCommand(opts, resource.OperationDelete,
		"Delete a resource and wait until it is gone",
		"Delete the resource identified by a document.")
}

func resourceCommand(opts *handlers.Options, op resource.Operation, short, long string) *cobra.Command {
	var ro handlers.ResourceOptions

	cmd := &cobra.Command{
		Use:   op.String(),
		Short: short,
		Long:  long,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Resource(cmd.Context(), opts, op, ro)
		},
	}

	cmd.Flags().StringVarP(&ro.TypeName, "type", "t", "", "Resource type, e.g. AWS::SageMaker::Domain")
	cmd.Flags().StringVarP(&ro.File, "file", "f", "", `Desired-state document ("-" reads stdin)`)
	cmd.MarkFlagRequired("type") //nolint:errcheck
	cmd.MarkFlagRequired("file") //nolint:errcheck

	if op.Mutating() {
		cmd.Flags().DurationVar(&ro.MaxDelay, "max-delay", 0, "Cap the wait between polls")
		cmd.Flags().BoolVar(&ro.Once, "once", false, "Invoke once and report in-progress results instead of waiting")
	}

	return cmd
}

// List returns the list command.
func List(opts *handlers.Options) *cobra.Command {
	var lo handlers.ListOptions

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List resources of a type",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.List(cmd.Context(), opts, lo)
		},
	}

	cmd.Flags().StringVarP(&lo.TypeName, "type", "t", "", "Resource type")
	cmd.Flags().StringVarP(&lo.File, "file", "f", "", "Optional scope document, e.g. a DomainId")
	cmd.Flags().StringVar(&lo.NextToken, "next-token", "", "Continue a previous listing")
	cmd.Flags().BoolVar(&lo.All, "all", false, "Follow pagination until the last page")
	cmd.MarkFlagRequired("type") //nolint:errcheck

	return cmd
}
