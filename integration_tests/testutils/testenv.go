// Package testutils starts the containers shared by the integration suites.
package testutils

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/Black-And-White-Club/golf-scorecard/app/database"
	"github.com/Black-And-White-Club/golf-scorecard/app/eventbus"
	gameevents "github.com/Black-And-White-Club/golf-scorecard/app/modules/game/domain/events"
	"github.com/Black-And-White-Club/golf-scorecard/config"
	"github.com/Black-And-White-Club/golf-scorecard/integration_tests/containers"
	"github.com/testcontainers/testcontainers-go/modules/nats"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/uptrace/bun"
)

// TestEnvironment holds all resources needed for integration testing
type TestEnvironment struct {
	PgContainer   *postgres.PostgresContainer
	NatsContainer *nats.NATSContainer
	DSN           string
	NatsURL       string
	DB            *bun.DB
	Logger        *slog.Logger
}

var (
	globalEnv  *TestEnvironment
	globalErr  error
	globalOnce sync.Once
)

// GetOrCreateTestEnv returns the process wide environment, starting the
// containers on first use. Tests are skipped under -short.
func GetOrCreateTestEnv(t *testing.T) *TestEnvironment {
	t.Helper()
	if testing.Short() {
		t.Skip("integration test skipped in short mode")
	}

	globalOnce.Do(func() {
		globalEnv, globalErr = newTestEnvironment(context.Background())
	})
	if globalErr != nil {
		t.Fatalf("failed to set up integration environment: %v", globalErr)
	}
	return globalEnv
}

func newTestEnvironment(ctx context.Context) (*TestEnvironment, error) {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Minute)
	defer cancel()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	if os.Getenv("INTEGRATION_LOGS") == "true" {
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}

	pgContainer, dsn, err := containers.SetupPostgresContainer(ctx)
	if err != nil {
		return nil, err
	}
	natsContainer, natsURL, err := containers.SetupNatsContainer(ctx)
	if err != nil {
		_ = pgContainer.Terminate(ctx)
		return nil, err
	}

	env := &TestEnvironment{
		PgContainer:   pgContainer,
		NatsContainer: natsContainer,
		DSN:           dsn,
		NatsURL:       natsURL,
		Logger:        logger,
	}

	env.DB, err = database.Open(ctx, config.DatabaseConfig{Driver: "postgres", DSN: dsn})
	if err != nil {
		env.Shutdown(ctx)
		return nil, err
	}
	if err := database.MigrateRiver(ctx, dsn, logger); err != nil {
		env.Shutdown(ctx)
		return nil, err
	}
	if err := database.Migrate(ctx, env.DB, logger); err != nil {
		env.Shutdown(ctx)
		return nil, err
	}
	return env, nil
}

// NewEventBus connects a fresh JetStream bus with the game stream in place.
func (env *TestEnvironment) NewEventBus(t *testing.T) eventbus.EventBus {
	t.Helper()
	ctx := context.Background()
	bus, err := eventbus.NewEventBus(ctx, eventbus.Config{
		URL:           env.NatsURL,
		QueueGroup:    "golf-it",
		DurablePrefix: fmt.Sprintf("it-%d", time.Now().UnixNano()),
		AckWait:       5 * time.Second,
	}, env.Logger)
	if err != nil {
		t.Fatalf("failed to connect event bus: %v", err)
	}
	if err := bus.CreateStream(ctx, gameevents.StreamName, gameevents.Subjects); err != nil {
		t.Fatalf("failed to create stream: %v", err)
	}
	t.Cleanup(func() { _ = bus.Close() })
	return bus
}

// appTables are truncated between tests.
var appTables = "hole_scores, standings_snapshots, game_holes, game_players, games"

// CleanupDatabase truncates the game tables and the river job table.
func (env *TestEnvironment) CleanupDatabase(ctx context.Context) error {
	if _, err := env.DB.ExecContext(ctx, "TRUNCATE TABLE "+appTables+" CASCADE"); err != nil {
		return fmt.Errorf("failed to truncate tables: %w", err)
	}
	if _, err := env.DB.ExecContext(ctx, "DELETE FROM river_job"); err != nil {
		return fmt.Errorf("failed to cleanup river jobs: %w", err)
	}
	return nil
}

// Shutdown closes connections and terminates the containers.
func (env *TestEnvironment) Shutdown(ctx context.Context) {
	if env.DB != nil {
		_ = env.DB.Close()
	}
	if env.NatsContainer != nil {
		_ = env.NatsContainer.Terminate(ctx)
	}
	if env.PgContainer != nil {
		_ = env.PgContainer.Terminate(ctx)
	}
}

// ShutdownGlobal tears down the shared environment, if it was started.
func ShutdownGlobal(ctx context.Context) {
	if globalEnv != nil {
		globalEnv.Shutdown(ctx)
	}
}
