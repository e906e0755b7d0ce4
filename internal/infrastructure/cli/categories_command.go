package cli

import (
	"fmt"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"github.com/knmt/lorapick/internal/app"
)

func newCategoriesCommand(container *app.Container) *cobra.Command {
	var showLoras bool

	cmd := &cobra.Command{
		Use:   "categories",
		Short: "List discovered LoRA categories",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			store := container.Store

			if !store.Reload(cmd.Context()) {
				return fmt.Errorf("no usable categories under %s", store.ConfigDir())
			}

			for _, category := range store.Categories() {
				entries := store.CategoryLoRAs(category)
				fmt.Fprintf(out, "%s (%d loras)\n", category, len(entries))
				if !showLoras {
					continue
				}

				names := make([]string, 0, len(entries))
				for name := range entries {
					names = append(names, name)
				}
				sort.Strings(names)
				for _, name := range names {
					entry := entries[name]
					fmt.Fprintf(out, "  - %s (strength %.2f, %d trigger words)\n",
						name, entry.StrengthDefault, len(entry.TriggerWords))
				}
			}

			if last := store.LastModified(); !last.IsZero() {
				fmt.Fprintf(out, "\nLast modified: %s\n", last.Format(time.RFC3339))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&showLoras, "loras", false, "Show the entries of each category")
	return cmd
}
