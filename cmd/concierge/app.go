package main

import (
	"context"
	"fmt"
	"log"

	"github.com/anthropics/anthropic-sdk-go"

	"github.com/guestflow/concierge/internal/config"
	"github.com/guestflow/concierge/internal/events"
	"github.com/guestflow/concierge/internal/orchestrator"
	"github.com/guestflow/concierge/internal/planner"
	"github.com/guestflow/concierge/internal/runtime"
	"github.com/guestflow/concierge/internal/session"
	"github.com/guestflow/concierge/internal/state"
	"github.com/guestflow/concierge/internal/tools"
	"github.com/guestflow/concierge/internal/validation"
)

// eventBufferSize sizes the observability channel shared by a process.
const eventBufferSize = 256

// App wires the full concierge stack for a command invocation.
type App struct {
	Config       *config.Config
	DB           *state.DB
	Registry     *tools.MapRegistry
	Emitter      *events.Emitter
	Planner      *planner.ClaudePlanner
	Orchestrator *orchestrator.Orchestrator
	Sessions     *session.Manager

	watcher *session.SignalWatcher
}

// buildApp loads configuration and assembles the registry, planner,
// scheduler, orchestrator, and session manager.
func buildApp(ctx context.Context) (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	dbPath := cfg.Storage.DBPath
	if dbPath == "" {
		dbPath = state.DefaultDBPath()
	}
	db, err := state.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open state db: %w", err)
	}
	if err := db.Migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate state db: %w", err)
	}
	if err := tools.SeedFAQ(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("seed faq store: %w", err)
	}

	registry, err := buildRegistry(cfg, db)
	if err != nil {
		db.Close()
		return nil, err
	}

	apiKey, err := config.GetAPIKey(cfg)
	if err != nil {
		db.Close()
		return nil, err
	}
	client, err := planner.NewClient(planner.ClientConfig{
		Model:         anthropic.Model(cfg.Anthropic.Model),
		APIKey:        apiKey,
		UseAWSBedrock: cfg.Anthropic.UseAWSBedrock,
		AWSRegion:     cfg.Anthropic.AWSRegion,
		AWSProfile:    cfg.Anthropic.AWSProfile,
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("create planner client: %w", err)
	}
	plnr := planner.NewClaudePlanner(client, registry)

	emitter := events.NewEmitter(eventBufferSize)

	sched := runtime.New(registry,
		runtime.WithCallTimeout(cfg.Runtime.CallTimeout),
		runtime.WithMaxParallel(cfg.Runtime.MaxParallel),
		runtime.WithEmitter(emitter),
		runtime.WithWaveHook(tools.CheapestRateHook),
	)

	validator := validation.NewValidator()
	validator.SetThreshold(cfg.Orchestrator.AdaptationThreshold)

	orch := orchestrator.New(plnr, sched,
		orchestrator.WithValidator(validator),
		orchestrator.WithEmitter(emitter),
		orchestrator.WithMaxAdaptationTurns(cfg.Orchestrator.MaxAdaptationTurns),
		orchestrator.WithMaxTotalTools(cfg.Orchestrator.MaxTotalTools),
	)

	classifier := session.NewClassifier(plnr, cfg.Session.ClassifyTimeout)
	sessions := session.NewManager(classifier,
		session.WithEmitter(emitter),
		session.WithRecorder(db),
	)

	app := &App{
		Config:       cfg,
		DB:           db,
		Registry:     registry,
		Emitter:      emitter,
		Planner:      plnr,
		Orchestrator: orch,
		Sessions:     sessions,
	}

	if cfg.Storage.RuntimeDir != "" {
		watcher, err := session.NewSignalWatcher(cfg.Storage.RuntimeDir, sessions)
		if err != nil {
			log.Printf("[app] signal watcher unavailable: %v", err)
		} else {
			app.watcher = watcher
		}
	}

	return app, nil
}

// buildRegistry registers the built-in concierge tools.
func buildRegistry(cfg *config.Config, db *state.DB) (*tools.MapRegistry, error) {
	calendar, err := tools.LoadHolidayCalendar(cfg.Storage.HolidayCalendar)
	if err != nil {
		return nil, err
	}

	pms := tools.NewPMS()
	registry := tools.NewRegistry()
	for _, t := range []tools.Tool{
		tools.NewAvailabilityTool(pms),
		tools.NewRoomsTool(pms),
		tools.NewFAQTool(db),
		tools.NewDatesTool(calendar),
	} {
		if err := registry.Register(t); err != nil {
			return nil, err
		}
	}
	return registry, nil
}

// Close releases the app's resources.
func (a *App) Close() {
	if a.watcher != nil {
		a.watcher.Close()
	}
	if a.Emitter != nil {
		a.Emitter.Close()
	}
	if a.DB != nil {
		a.DB.Close()
	}
}
