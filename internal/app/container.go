package app

import (
	"context"

	"github.com/knmt/lorapick/internal/application/doctor"
	"github.com/knmt/lorapick/internal/application/selection"
	"github.com/knmt/lorapick/internal/domain"
	"github.com/knmt/lorapick/internal/infrastructure/config"
	"github.com/knmt/lorapick/internal/infrastructure/settings"
	"github.com/knmt/lorapick/internal/pkg/logger"
	"github.com/knmt/lorapick/internal/ports"
	"github.com/knmt/lorapick/internal/prompt"
)

// Container wires up application services with infrastructure adapters.
type Container struct {
	Settings         domain.Settings
	SettingsLoader   *settings.FileLoader
	Store            *config.Store
	SelectionService *selection.Service
	DoctorService    *doctor.Service
	Logger           ports.Logger
}

// BuildContainer constructs the dependency graph.
func BuildContainer(ctx context.Context, verbose bool) (*Container, error) {
	settingsLoader := settings.NewFileLoader("")
	cfg, err := settingsLoader.Load(ctx)
	if err != nil {
		return nil, err
	}

	log := logger.New(verbose || cfg.Logging.Verbose)
	store := config.NewStore(cfg.ConfigDir, cfg.LorasDir, log)

	selectionService := &selection.Service{
		Store:    store,
		Selector: selection.NewSelector(log),
		Prompts:  prompt.NewBuilder(),
		Logger:   log,
		Position: cfg.Prompt.TriggerPosition,
	}

	doctorService := &doctor.Service{
		Settings: settingsLoader,
		Store:    store,
	}

	return &Container{
		Settings:         cfg,
		SettingsLoader:   settingsLoader,
		Store:            store,
		SelectionService: selectionService,
		DoctorService:    doctorService,
		Logger:           log,
	}, nil
}
