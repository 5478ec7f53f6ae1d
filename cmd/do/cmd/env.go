package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/jmoiron/sqlx"
	"github.com/templui/workoutbuddy/internal/app"
	"github.com/templui/workoutbuddy/internal/config"
	"github.com/templui/workoutbuddy/internal/db"
	"github.com/templui/workoutbuddy/internal/logger"
)

// load reads config and sends logs to stderr so stdout stays machine readable.
func load() *config.Config {
	cfg := config.Load()
	logger.Init(logger.Options{
		Development: cfg.IsDevelopment(),
		Level:       cfg.LogLevel,
		Output:      os.Stderr,
	})
	return cfg
}

func openDB(ctx context.Context, cfg *config.Config) (*sqlx.DB, error) {
	database, err := db.Init(ctx, cfg.DBDriver, cfg.DBConnection)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	return database, nil
}

// withApp runs fn against a migrated, fully wired app.
func withApp(ctx context.Context, fn func(*app.App) error) error {
	a, err := app.New(ctx, load())
	if err != nil {
		return err
	}
	defer a.Close()
	return fn(a)
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
