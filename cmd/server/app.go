package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/lunafield/cortex-api/internal/config"
	"github.com/lunafield/cortex-api/internal/domain/engine"
	prom "github.com/lunafield/cortex-api/internal/platform/metrics"
	"github.com/lunafield/cortex-api/internal/platform/postgres"
	"github.com/lunafield/cortex-api/internal/service/auth"
	"github.com/lunafield/cortex-api/internal/service/metrics"
	"github.com/lunafield/cortex-api/internal/service/wearable"
	"github.com/lunafield/cortex-api/internal/store"
)

// application holds all the shared application dependencies to simplify
// management and ensure proper cleanup on shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB

	userStore store.UserStore

	jwtService       auth.JWTService
	passwordVerifier auth.PasswordVerifier
	metricsService   metrics.Service

	promManager *prom.Manager
}

// newApplication creates a new application instance with all dependencies
// initialized. It accepts core dependencies that must be established before
// application initialization.
func newApplication(cfg *config.Config, logger *slog.Logger, db *sql.DB) (*application, error) {
	app := &application{
		config: cfg,
		logger: logger,
		db:     db,
	}

	var err error
	app.jwtService, err = auth.NewJWTService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize JWT service: %w", err)
	}
	logger.Info("JWT authentication service initialized",
		"token_lifetime_minutes", cfg.Auth.TokenLifetimeMinutes)

	app.passwordVerifier = auth.NewBcryptVerifier()
	app.promManager = prom.NewManager()

	app.userStore = postgres.NewPostgresUserStore(db, cfg.Auth.BcryptCost, logger)

	params := engineParams(cfg.Engine)
	engineService := engine.NewServiceWithParams(params)

	debounceWindow := 30 * time.Second
	if cfg.Engine.DebounceWindowSeconds > 0 {
		debounceWindow = time.Duration(cfg.Engine.DebounceWindowSeconds) * time.Second
	}

	app.metricsService, err = metrics.NewService(metrics.Config{
		DB:        db,
		Engine:    engineService,
		Params:    params,
		Users:     app.userStore,
		Skills:    postgres.NewPostgresSkillStore(db, logger),
		Recovery:  postgres.NewPostgresRecoveryStore(db, logger),
		Snapshots: postgres.NewPostgresSnapshotStore(db, logger),
		Events:    postgres.NewPostgresEventStore(db, logger),
		Activity:  postgres.NewPostgresActivityStore(db, logger),
		Wearable:  wearable.NewNoopProvider(),
		Debouncer: metrics.NewInMemoryDebouncer(debounceWindow),
		Metrics:   app.promManager,
		Logger:    logger,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create metrics service: %w", err)
	}

	logger.Info("application initialized")
	return app, nil
}

// engineParams converts operator overrides from configuration into
// scoring engine parameters. Zero values keep the built-in defaults.
func engineParams(cfg config.EngineConfig) *engine.Params {
	params := engine.NewParams(engine.ParamsConfig{
		RecoveryHalfLifeHours:   cfg.RecoveryHalfLifeHours,
		RecoveryGainPerMinute:   cfg.RecoveryGainCoeff,
		InactivityThresholdDays: cfg.InactivityThresholdDays,
		PenaltyTriggerDays:      cfg.PenaltyTriggerDays,
		PenaltyInitial:          cfg.PenaltyInitialPoints,
		PenaltyPerDay:           cfg.PenaltyPointsPerDay,
		PenaltyCap:              cfg.PenaltyCapPoints,
		RQSkillWeight:           cfg.RQSkillWeight,
		RQRecentWeight:          cfg.RQRecentWeight,
		RQTaskWeight:            cfg.RQTaskWeight,
		RQRecencyDiscount:       cfg.RQRecencyDiscount,
	})
	if cfg.SharpnessFastWeight > 0 {
		params.SharpnessFastWeight = cfg.SharpnessFastWeight
	}
	if cfg.SharpnessFloor > 0 {
		params.SharpnessFloor = cfg.SharpnessFloor
	}
	return params
}

// Run starts the application server, handling lifecycle and cleanup.
func (app *application) Run(ctx context.Context) error {
	router := app.setupRouter()

	if err := app.startHTTPServer(ctx, router); err != nil {
		return fmt.Errorf("server error: %w", err)
	}

	return nil
}

// cleanup handles graceful shutdown of application resources.
func (app *application) cleanup() {
	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("error closing database connection", "error", err)
		}
	}

	app.logger.Info("application shutdown completed")
}
