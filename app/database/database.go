// Package database opens the bun connection and runs schema migrations.
package database

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	gamemigrations "github.com/Black-And-White-Club/golf-scorecard/app/modules/game/infrastructure/repositories/migrations"
	"github.com/Black-And-White-Club/golf-scorecard/app/shared/observability/attr"
	"github.com/Black-And-White-Club/golf-scorecard/config"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/mattn/go-sqlite3"
	"github.com/riverqueue/river/riverdriver/riverpgxv5"
	"github.com/riverqueue/river/rivermigrate"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/uptrace/bun/migrate"
)

// Open connects to the configured database.
func Open(ctx context.Context, cfg config.DatabaseConfig) (*bun.DB, error) {
	var db *bun.DB
	switch cfg.Driver {
	case "postgres":
		sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(cfg.DSN)))
		db = bun.NewDB(sqldb, pgdialect.New())
	case "sqlite":
		sqldb, err := sql.Open("sqlite3", cfg.SQLitePath+"?_foreign_keys=on&_busy_timeout=5000")
		if err != nil {
			return nil, fmt.Errorf("failed to open sqlite database: %w", err)
		}
		// sqlite allows a single writer
		sqldb.SetMaxOpenConns(1)
		db = bun.NewDB(sqldb, sqlitedialect.New())
	default:
		return nil, fmt.Errorf("unknown database driver %q", cfg.Driver)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return db, nil
}

// Migrator returns the bun migrator for the game schema.
func Migrator(db *bun.DB) *migrate.Migrator {
	return migrate.NewMigrator(db, gamemigrations.Migrations)
}

// Migrate creates the migration tables if needed and applies pending game
// migrations.
func Migrate(ctx context.Context, db *bun.DB, logger *slog.Logger) error {
	migrator := Migrator(db)
	if err := migrator.Init(ctx); err != nil {
		return fmt.Errorf("failed to initialize migration tables: %w", err)
	}

	group, err := migrator.Migrate(ctx)
	if err != nil {
		return fmt.Errorf("failed to run game migrations: %w", err)
	}
	if group.IsZero() {
		logger.InfoContext(ctx, "No game migrations to run")
	} else {
		logger.InfoContext(ctx, "Ran game migrations", attr.String("group", group.String()))
	}
	return nil
}

// MigrateRiver applies the river queue schema. Postgres only.
func MigrateRiver(ctx context.Context, dsn string, logger *slog.Logger) error {
	poolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return fmt.Errorf("failed to parse DSN for River migrations: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return fmt.Errorf("failed to create pgx pool for River migrations: %w", err)
	}
	defer pool.Close()

	migrator, err := rivermigrate.New(riverpgxv5.New(pool), nil)
	if err != nil {
		return fmt.Errorf("failed to create River migrator: %w", err)
	}

	res, err := migrator.Migrate(ctx, rivermigrate.DirectionUp, &rivermigrate.MigrateOpts{})
	if err != nil {
		return fmt.Errorf("failed to run River migrations: %w", err)
	}
	logger.InfoContext(ctx, "River queue migrations completed", attr.Int("versions", len(res.Versions)))
	return nil
}
