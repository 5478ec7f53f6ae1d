// Package testutil provides a migrated SQLite database for tests.
package testutil

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/templui/workoutbuddy/internal/db"
	"github.com/templui/workoutbuddy/internal/model"
)

// NewDB opens a fresh, fully migrated SQLite database under t.TempDir().
func NewDB(t testing.TB) *sqlx.DB {
	t.Helper()

	ctx := context.Background()
	dsn := filepath.Join(t.TempDir(), "test.db") + "?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"

	database, err := db.Init(ctx, "sqlite", dsn)
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	t.Cleanup(func() { _ = db.Close(database) })

	err = db.RunMigrations(ctx, database.DB, "sqlite")
	if err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return database
}

// CreateUser inserts a user row directly.
func CreateUser(t testing.TB, database *sqlx.DB, id, name string) *model.User {
	t.Helper()

	user := &model.User{ID: id, Name: name, CreatedAt: time.Now().UTC()}
	_, err := database.Exec(`INSERT INTO users (id, name, created_at) VALUES ($1, $2, $3)`, user.ID, user.Name, user.CreatedAt)
	if err != nil {
		t.Fatalf("failed to create user %s: %v", id, err)
	}
	return user
}

// Clock is a manually advanced time source.
type Clock struct {
	mu sync.Mutex
	t  time.Time
}

func NewClock(start time.Time) *Clock {
	return &Clock{t: start}
}

func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *Clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

func (c *Clock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = t
}
