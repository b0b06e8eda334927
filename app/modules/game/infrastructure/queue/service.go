package gamequeue

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	gameservice "github.com/Black-And-White-Club/golf-scorecard/app/modules/game/application"
	gamemetrics "github.com/Black-And-White-Club/golf-scorecard/app/modules/game/infrastructure/metrics"
	"github.com/Black-And-White-Club/golf-scorecard/app/shared/observability/attr"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/riverqueue/river"
	"github.com/riverqueue/river/riverdriver/riverpgxv5"
	"github.com/uptrace/bun"
)

const (
	queueName   = "game"
	serviceName = "river"
)

// QueueService defines the contract for background game jobs.
type QueueService interface {
	gameservice.RecalculationQueue
	// HealthCheck verifies the queue service is healthy
	HealthCheck(ctx context.Context) error
	// Start starts the queue service
	Start(ctx context.Context) error
	// Stop stops the queue service
	Stop(ctx context.Context) error
}

var _ QueueService = (*Service)(nil)

// Service handles background jobs for the game module using River.
type Service struct {
	client  *river.Client[pgx.Tx]
	pool    *pgxpool.Pool
	logger  *slog.Logger
	db      *bun.DB
	metrics gamemetrics.GameMetrics
}

// NewService creates a River-backed queue and registers the game workers.
func NewService(ctx context.Context, bunDB *bun.DB, logger *slog.Logger, dsn string, metrics gamemetrics.GameMetrics, worker *RecalculateStandingsWorker) (*Service, error) {
	ctxLogger := logger.With(
		attr.String("operation", "new_game_queue_service"),
		attr.String("component", "river_queue"),
	)

	start := time.Now()
	metrics.RecordOperationAttempt(ctx, "initialize_service", serviceName)

	ctxLogger.Info("Initializing game queue service")

	// River requires pgx, not database/sql
	config, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		ctxLogger.Error("Failed to parse DSN for River", attr.Error(err))
		metrics.RecordOperationFailure(ctx, "initialize_service", serviceName)
		return nil, fmt.Errorf("failed to parse DSN: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		ctxLogger.Error("Failed to create pgx pool for River", attr.Error(err))
		metrics.RecordOperationFailure(ctx, "initialize_service", serviceName)
		return nil, fmt.Errorf("failed to create pgx pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		ctxLogger.Error("Failed to ping database for River", attr.Error(err))
		metrics.RecordOperationFailure(ctx, "initialize_service", serviceName)
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	workers := river.NewWorkers()
	river.AddWorker(workers, worker)

	riverClient, err := river.NewClient(riverpgxv5.New(pool), &river.Config{
		Queues: map[string]river.QueueConfig{
			river.QueueDefault: {MaxWorkers: 50},
			queueName:          {MaxWorkers: 25},
		},
		Workers: workers,
		Logger:  ctxLogger,
	})
	if err != nil {
		pool.Close()
		ctxLogger.Error("Failed to create River client", attr.Error(err))
		metrics.RecordOperationFailure(ctx, "initialize_service", serviceName)
		return nil, fmt.Errorf("failed to create River client: %w", err)
	}

	service := &Service{
		client:  riverClient,
		pool:    pool,
		logger:  ctxLogger,
		db:      bunDB,
		metrics: metrics,
	}

	metrics.RecordOperationSuccess(ctx, "initialize_service", serviceName)
	metrics.RecordOperationDuration(ctx, "initialize_service", serviceName, time.Since(start))

	ctxLogger.Info("Game queue service initialized successfully")
	return service, nil
}

// Start starts the River queue service
func (s *Service) Start(ctx context.Context) error {
	start := time.Now()
	s.metrics.RecordOperationAttempt(ctx, "start_service", serviceName)

	s.logger.Info("Starting game queue service")

	if err := s.client.Start(ctx); err != nil {
		s.logger.Error("Failed to start River client", attr.Error(err))
		s.metrics.RecordOperationFailure(ctx, "start_service", serviceName)
		return fmt.Errorf("failed to start River client: %w", err)
	}

	s.metrics.RecordOperationSuccess(ctx, "start_service", serviceName)
	s.metrics.RecordOperationDuration(ctx, "start_service", serviceName, time.Since(start))

	s.logger.Info("Game queue service started successfully")
	return nil
}

// Stop stops the River queue service and releases its pool.
func (s *Service) Stop(ctx context.Context) error {
	start := time.Now()
	s.metrics.RecordOperationAttempt(ctx, "stop_service", serviceName)

	s.logger.Info("Stopping game queue service")
	defer s.pool.Close()

	if err := s.client.Stop(ctx); err != nil {
		s.logger.Error("Failed to stop River client", attr.Error(err))
		s.metrics.RecordOperationFailure(ctx, "stop_service", serviceName)
		return fmt.Errorf("failed to stop River client: %w", err)
	}

	s.metrics.RecordOperationSuccess(ctx, "stop_service", serviceName)
	s.metrics.RecordOperationDuration(ctx, "stop_service", serviceName, time.Since(start))

	s.logger.Info("Game queue service stopped successfully")
	return nil
}

// EnqueueRecalculation queues a standings recompute for a game. Jobs are not
// deduplicated: a job already running may have read scores before this
// request's import committed.
func (s *Service) EnqueueRecalculation(ctx context.Context, gameID uuid.UUID, reason string) error {
	start := time.Now()
	s.metrics.RecordOperationAttempt(ctx, "enqueue_recalculation", serviceName)

	ctxLogger := s.logger.With(
		attr.GameID(gameID.String()),
		attr.String("operation", "enqueue_recalculation"),
	)

	res, err := s.client.Insert(ctx, RecalculateStandingsJob{GameID: gameID.String(), Reason: reason}, &river.InsertOpts{
		Queue: queueName,
	})
	if err != nil {
		ctxLogger.Error("Failed to enqueue recalculation job", attr.Error(err))
		s.metrics.RecordOperationFailure(ctx, "enqueue_recalculation", serviceName)
		return fmt.Errorf("failed to enqueue recalculation job: %w", err)
	}

	s.metrics.RecordOperationSuccess(ctx, "enqueue_recalculation", serviceName)
	s.metrics.RecordOperationDuration(ctx, "enqueue_recalculation", serviceName, time.Since(start))

	ctxLogger.Info("Recalculation job enqueued", attr.Int64("job_id", res.Job.ID))
	return nil
}

// HealthCheck verifies the queue service is healthy
func (s *Service) HealthCheck(ctx context.Context) error {
	start := time.Now()
	s.metrics.RecordOperationAttempt(ctx, "health_check", serviceName)

	if s.client == nil {
		s.metrics.RecordOperationFailure(ctx, "health_check", serviceName)
		return fmt.Errorf("river client is nil")
	}

	var count int
	err := s.db.NewSelect().
		Table("river_job").
		ColumnExpr("COUNT(*)").
		Where("kind = ?", RecalculateStandingsJob{}.Kind()).
		Where("state IN (?, ?)", "available", "retryable").
		Scan(ctx, &count)
	if err != nil {
		s.logger.Error("Queue service health check failed", attr.Error(err))
		s.metrics.RecordOperationFailure(ctx, "health_check", serviceName)
		return fmt.Errorf("queue service health check failed: %w", err)
	}

	s.metrics.RecordOperationSuccess(ctx, "health_check", serviceName)
	s.metrics.RecordOperationDuration(ctx, "health_check", serviceName, time.Since(start))

	s.logger.Debug("Queue service health check passed", attr.Int("pending_jobs", count))
	return nil
}
