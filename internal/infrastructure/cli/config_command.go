package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/knmt/lorapick/internal/app"
)

func newConfigCommand(container *app.Container) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect lorapick configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			return showConfiguration(cmd, container)
		},
	}

	configCmd.AddCommand(
		newConfigShowCommand(container),
		newConfigPathCommand(container),
		newConfigValidateCommand(container),
	)
	return configCmd
}

func newConfigShowCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show tool settings and global catalog settings",
		RunE: func(cmd *cobra.Command, args []string) error {
			return showConfiguration(cmd, container)
		},
	}
}

func showConfiguration(cmd *cobra.Command, container *app.Container) error {
	out := cmd.OutOrStdout()

	raw, err := yaml.Marshal(container.Settings)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "# %s\n%s\n", container.SettingsLoader.Path(), raw)

	container.Store.Reload(cmd.Context())
	global, err := json.MarshalIndent(container.Store.Global(), "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "# global settings\n%s\n", global)
	return nil
}

func newConfigPathCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print configuration file locations",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "settings:   %s\n", container.SettingsLoader.Path())
			fmt.Fprintf(out, "catalog:    %s\n", container.Settings.ConfigDir)
			fmt.Fprintf(out, "loras dir:  %s\n", container.Settings.LorasDir)
			return nil
		},
	}
}

func newConfigValidateCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Validate every category document",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			store := container.Store

			loaded := store.Reload(cmd.Context())
			valid := make(map[string]bool, len(store.Categories()))
			for _, category := range store.Categories() {
				valid[category] = true
				fmt.Fprintf(out, "ok    %s\n", category)
			}

			styleDir := filepath.Join(store.ConfigDir(), "lora_style")
			entries, err := os.ReadDir(styleDir)
			if err == nil {
				for _, entry := range entries {
					name := entry.Name()
					if entry.IsDir() || !strings.HasSuffix(name, ".json") {
						continue
					}
					category := strings.TrimSuffix(name, ".json")
					if !valid[category] {
						fmt.Fprintf(out, "SKIP  %s (failed validation)\n", category)
					}
				}
			}

			if !loaded {
				return fmt.Errorf("catalog invalid: no usable categories under %s", store.ConfigDir())
			}
			fmt.Fprintln(out, "Catalog valid")
			return nil
		},
	}
}
