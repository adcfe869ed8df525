// Package store persists circular fences in SQLite and answers containment
// and intersection queries against them.
package store

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"georoute.onebusaway.org/internal/appconf"
	"georoute.onebusaway.org/internal/clock"
	"georoute.onebusaway.org/internal/geo"
	"georoute.onebusaway.org/internal/logging"
	_ "github.com/mattn/go-sqlite3" // CGo-based SQLite driver
)

//go:embed schema.sql
var ddl string

var ErrFenceNotFound = errors.New("fence not found")

// Config configures the fence database.
type Config struct {
	DBPath  string
	Env     appconf.Environment
	Verbose bool
	// Calc measures the stored circles. Nil means geo.Earth.
	Calc geo.DistanceCalc
	// Clock stamps stored fences. Nil means the system clock.
	Clock clock.Clock
}

func NewConfig(dbPath string, env appconf.Environment, verbose bool) Config {
	return Config{DBPath: dbPath, Env: env, Verbose: verbose}
}

// Client is the entry point for fence storage.
type Client struct {
	config Config
	DB     *sql.DB
	logger *slog.Logger
}

// NewClient opens the database, applies the schema and tunes the pool.
func NewClient(config Config) (*Client, error) {
	if config.Calc == nil {
		config.Calc = geo.Earth
	}
	if config.Clock == nil {
		config.Clock = clock.RealClock{}
	}

	logger := slog.Default().With(slog.String("component", "fence_store"))

	db, err := createDB(config)
	if err != nil {
		return nil, fmt.Errorf("unable to create DB: %w", err)
	}
	if config.Verbose {
		logging.LogOperation(logger, "fence_store_opened",
			slog.String("path", config.DBPath),
			slog.String("calc", geo.CalcName(config.Calc)))
	}

	return &Client{config: config, DB: db, logger: logger}, nil
}

func (c *Client) Close() error {
	return c.DB.Close()
}

func (c *Client) GetDBPath() string {
	return c.config.DBPath
}

func createDB(config Config) (*sql.DB, error) {
	if config.Env == appconf.Test && config.DBPath != ":memory:" {
		return nil, fmt.Errorf("test database must use in-memory storage, got path: %s", config.DBPath)
	}

	db, err := sql.Open("sqlite3", config.DBPath)
	if err != nil {
		return nil, err
	}

	ctx := context.Background()
	if err := configureSQLitePerformance(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("error configuring SQLite performance: %w", err)
	}

	if err := performDatabaseMigration(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("error performing database migration: %w", err)
	}

	configureConnectionPool(db, config)
	return db, nil
}

func performDatabaseMigration(ctx context.Context, db *sql.DB) error {
	for _, stmt := range strings.Split(ddl, "-- migrate") {
		trimmed := strings.TrimSpace(stmt)
		if trimmed == "" {
			continue
		}
		if _, err := db.ExecContext(ctx, trimmed); err != nil {
			return fmt.Errorf("error executing DDL statement [%s]: %w", trimmed, err)
		}
	}
	return nil
}

func configureSQLitePerformance(ctx context.Context, db *sql.DB) error {
	pragmas := []struct {
		name        string
		description string
	}{
		{"PRAGMA cache_size=-16000", "Set cache size to 16MB"},
		{"PRAGMA temp_store=MEMORY", "Store temporary data in memory"},
	}

	logger := slog.Default().With(slog.String("component", "sqlite_performance"))

	for _, pragma := range pragmas {
		if _, err := db.ExecContext(ctx, pragma.name); err != nil {
			logging.LogError(logger, fmt.Sprintf("Failed to set %s", pragma.description), err)
			return fmt.Errorf("failed to execute %s: %w", pragma.name, err)
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
	}
	return nil
}

// configureConnectionPool limits :memory: databases to a single connection,
// since every connection to one opens a separate database.
func configureConnectionPool(db *sql.DB, config Config) {
	if config.DBPath == ":memory:" {
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
		return
	}
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)
}
