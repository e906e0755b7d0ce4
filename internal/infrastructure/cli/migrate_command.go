package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/knmt/lorapick/internal/app"
)

func newMigrateCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Migrate a legacy lora_config.json into the per-category layout",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			store := container.Store

			if _, err := os.Stat(store.LegacyPath()); err != nil {
				if _, err := os.Stat(store.BackupPath()); err == nil {
					fmt.Fprintf(out, "Already migrated, backup at %s\n", store.BackupPath())
					return nil
				}
				fmt.Fprintf(out, "No legacy config at %s, nothing to do\n", store.LegacyPath())
				return nil
			}

			// Reload performs the migration when the legacy file is present
			// and the per-category directory is not.
			store.Reload(cmd.Context())

			if _, err := os.Stat(store.LegacyPath()); err == nil {
				return fmt.Errorf("legacy config still present at %s; the per-category directory may already exist", store.LegacyPath())
			}
			fmt.Fprintf(out, "Migrated %d categories, legacy config backed up at %s\n",
				len(store.Categories()), store.BackupPath())
			return nil
		},
	}
}
