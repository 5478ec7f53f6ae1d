package app

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/templui/workoutbuddy/internal/config"
	"github.com/templui/workoutbuddy/internal/db"
	"github.com/templui/workoutbuddy/internal/metrics"
	"github.com/templui/workoutbuddy/internal/repository"
	"github.com/templui/workoutbuddy/internal/service"
)

type App struct {
	Cfg                 *config.Config
	DB                  *sqlx.DB
	Registry            *prometheus.Registry
	TokenService        *service.TokenService
	UserService         *service.UserService
	GoalService         *service.GoalService
	WorkoutService      *service.WorkoutService
	ProgressService     *service.ProgressService
	BuddyService        *service.BuddyService
	NotificationService *service.NotificationService
}

func New(ctx context.Context, cfg *config.Config) (*App, error) {
	// Initialize database
	database, err := db.Init(ctx, cfg.DBDriver, cfg.DBConnection)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	// Run database migrations
	err = db.RunMigrations(ctx, database.DB, cfg.DBDriver)
	if err != nil {
		_ = database.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return NewWithDB(cfg, database), nil
}

// NewWithDB wires repositories and services on top of an open, migrated database.
func NewWithDB(cfg *config.Config, database *sqlx.DB) *App {
	// Repositories
	userRepository := repository.NewUserRepository(database)
	goalRepository := repository.NewGoalRepository(database)
	workoutRepository := repository.NewWorkoutRepository(database)
	reactionRepository := repository.NewReactionRepository(database)
	buddyRepository := repository.NewBuddyRepository(database)
	notificationRepository := repository.NewNotificationRepository(database)

	// Services
	notificationService := service.NewNotificationService(notificationRepository, userRepository)
	goalService := service.NewGoalService(goalRepository)
	workoutService := service.NewWorkoutService(
		workoutRepository,
		reactionRepository,
		userRepository,
		goalService,
		notificationService,
	)
	progressService := service.NewProgressService(
		goalService,
		workoutRepository,
		userRepository,
		cfg.DefaultBuddyTargetFrequency,
	)
	buddyService := service.NewBuddyService(
		buddyRepository,
		userRepository,
		notificationService,
		cfg.BuddySearchLimit,
	)

	// Metrics
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics.Register(registry)

	return &App{
		Cfg:                 cfg,
		DB:                  database,
		Registry:            registry,
		TokenService:        service.NewTokenService(cfg.JWTSecret, cfg.JWTExpiry),
		UserService:         service.NewUserService(userRepository),
		GoalService:         goalService,
		WorkoutService:      workoutService,
		ProgressService:     progressService,
		BuddyService:        buddyService,
		NotificationService: notificationService,
	}
}

func (a *App) Close() error {
	return db.Close(a.DB)
}
