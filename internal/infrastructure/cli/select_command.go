package cli

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/knmt/lorapick/internal/app"
	"github.com/knmt/lorapick/internal/domain"
)

func newSelectCommand(container *app.Container) *cobra.Command {
	var (
		count        int
		triggerCount int
		seed         int64
		strength     float64
		basePrompt   string
		position     string
		noTriggers   bool
		asJSON       bool
	)

	cmd := &cobra.Command{
		Use:   "select [category]",
		Short: "Select random LoRAs from a category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := domain.SelectRequest{
				Context:            cmd.Context(),
				Category:           args[0],
				NumLoRAs:           count,
				TriggerWordCount:   triggerCount,
				Seed:               seed,
				EnableTriggerWords: !noTriggers,
				StrengthOverride:   strength,
				BasePrompt:         basePrompt,
				Position:           position,
			}

			out := container.SelectionService.Run(req)
			if asJSON {
				if err := renderJSON(cmd.OutOrStdout(), out); err != nil {
					return err
				}
			} else {
				renderOutput(cmd.OutOrStdout(), out)
			}

			if out.Failed {
				return errors.New(out.Message)
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&count, "count", "n", 1, "Number of LoRAs to select (1-5)")
	cmd.Flags().IntVarP(&triggerCount, "trigger-words", "t", 1, "Trigger words sampled per LoRA")
	cmd.Flags().Int64Var(&seed, "seed", -1, "Random seed (-1 for non-deterministic sampling)")
	cmd.Flags().Float64Var(&strength, "strength", -1, "Strength override 0.1-2.0 (-1 uses per-LoRA defaults)")
	cmd.Flags().StringVarP(&basePrompt, "base-prompt", "b", "", "Base prompt to merge trigger words into")
	cmd.Flags().StringVar(&position, "position", "", "Trigger word position: beginning|end|both")
	cmd.Flags().BoolVar(&noTriggers, "no-trigger-words", false, "Disable trigger word sampling")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Emit the six outputs as one JSON object")

	return cmd
}
