package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/knmt/lorapick/internal/app"
	"github.com/knmt/lorapick/internal/domain"
)

func newDoctorCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Diagnose settings, catalog and LoRA file availability",
		RunE: func(cmd *cobra.Command, args []string) error {
			report, err := container.DoctorService.Run(cmd.Context())
			out := cmd.OutOrStdout()

			failed := false
			for _, check := range report.Checks {
				fmt.Fprintf(out, "%-6s %s: %s\n", marker(check.Status), check.Name, check.Details)
				if check.Status == domain.HealthError {
					failed = true
				}
			}
			if err != nil {
				return err
			}
			if failed {
				return fmt.Errorf("doctor found problems")
			}
			return nil
		},
	}
}

func marker(status domain.HealthStatus) string {
	switch status {
	case domain.HealthOK:
		return "[ok]"
	case domain.HealthWarn:
		return "[warn]"
	default:
		return "[fail]"
	}
}
