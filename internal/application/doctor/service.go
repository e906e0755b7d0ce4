// Package doctor runs environment diagnostics over the settings and the
// LoRA catalog.
package doctor

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/knmt/lorapick/internal/domain"
	"github.com/knmt/lorapick/internal/ports"
)

// Service runs environment diagnostics.
type Service struct {
	Settings ports.SettingsProvider
	Store    ports.ConfigStore
}

// Run executes checks and returns a report.
func (s *Service) Run(ctx context.Context) (domain.HealthReport, error) {
	var checks []domain.HealthCheck

	if s.Settings == nil || s.Store == nil {
		return domain.HealthReport{}, errors.New("doctor.Service dependencies not satisfied")
	}

	cfg, err := s.Settings.Load(ctx)
	if err != nil {
		checks = append(checks, fail("Settings file", fmt.Sprintf("load failed: %v", err)))
		return domain.HealthReport{Checks: checks}, err
	}
	checks = append(checks, ok("Settings file", fmt.Sprintf("format version %s", cfg.SettingsFormatVersion)))

	if _, err := os.Stat(cfg.ConfigDir); err != nil {
		checks = append(checks, warn("Config directory", fmt.Sprintf("%s missing, defaults will be written on first reload", cfg.ConfigDir)))
	} else {
		checks = append(checks, ok("Config directory", cfg.ConfigDir))
	}

	if !s.Store.Reload(ctx) {
		checks = append(checks, fail("Catalog", "reload failed: no usable categories"))
		return domain.HealthReport{Checks: checks}, nil
	}
	categories := s.Store.Categories()
	checks = append(checks, ok("Catalog", fmt.Sprintf("%d categories loaded", len(categories))))

	var total, missing int
	for _, category := range categories {
		for _, entry := range s.Store.CategoryLoRAs(category) {
			total++
			if !s.Store.FileExists(entry.FilePath) {
				missing++
			}
		}
	}
	if missing > 0 {
		checks = append(checks, warn("LoRA files", fmt.Sprintf("%d of %d referenced files missing under %s", missing, total, cfg.LorasDir)))
	} else {
		checks = append(checks, ok("LoRA files", fmt.Sprintf("all %d referenced files present", total)))
	}

	if last := s.Store.LastModified(); !last.IsZero() {
		checks = append(checks, ok("Catalog freshness", fmt.Sprintf("last modified %s", last.Format(time.RFC3339))))
	}

	return domain.HealthReport{Checks: checks}, nil
}

func ok(name, details string) domain.HealthCheck {
	return domain.HealthCheck{Name: name, Status: domain.HealthOK, Details: details}
}

func warn(name, details string) domain.HealthCheck {
	return domain.HealthCheck{Name: name, Status: domain.HealthWarn, Details: details}
}

func fail(name, details string) domain.HealthCheck {
	return domain.HealthCheck{Name: name, Status: domain.HealthError, Details: details}
}
