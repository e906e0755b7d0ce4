// Package cli wires the cobra command tree for the lorapick binary.
package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/knmt/lorapick/internal/app"
)

// Options holds CLI-level configuration.
type Options struct {
	Verbose bool
}

// NewRootCmd wires the cobra root command.
func NewRootCmd(ctx context.Context, opts Options) (*cobra.Command, error) {
	container, err := app.BuildContainer(ctx, opts.Verbose)
	if err != nil {
		return nil, err
	}

	selectCmd := newSelectCommand(container)

	root := &cobra.Command{
		Use:   "lorapick [category]",
		Short: "lorapick - category based LoRA random selection",
		Long: "lorapick picks random LoRAs from a configured category, derives strengths\n" +
			"and trigger words, and emits a combined prompt for image generation pipelines.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return cmd.Help()
			}
			selectCmd.SetArgs(args)
			return selectCmd.ExecuteContext(cmd.Context())
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(selectCmd)
	root.AddCommand(newCategoriesCommand(container))
	root.AddCommand(newConfigCommand(container))
	root.AddCommand(newMigrateCommand(container))
	root.AddCommand(newDoctorCommand(container))
	root.AddCommand(newVersionCommand())
	return root, nil
}
