package gamequeue

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	gameservice "github.com/Black-And-White-Club/golf-scorecard/app/modules/game/application"
	gamemetrics "github.com/Black-And-White-Club/golf-scorecard/app/modules/game/infrastructure/metrics"
	gamedb "github.com/Black-And-White-Club/golf-scorecard/app/modules/game/infrastructure/repositories"
	"github.com/Black-And-White-Club/golf-scorecard/app/shared/observability/attr"
	"github.com/google/uuid"
	"github.com/riverqueue/river"
)

// StandingsRecalculator is the part of the game service the worker drives.
type StandingsRecalculator interface {
	RecalculateStandings(ctx context.Context, gameID uuid.UUID) (*gameservice.StandingsView, error)
}

// RecalculateStandingsWorker runs RecalculateStandingsJob.
type RecalculateStandingsWorker struct {
	river.WorkerDefaults[RecalculateStandingsJob]

	logger  *slog.Logger
	metrics gamemetrics.GameMetrics

	mu           sync.RWMutex
	recalculator StandingsRecalculator
}

func NewRecalculateStandingsWorker(logger *slog.Logger, metrics gamemetrics.GameMetrics) *RecalculateStandingsWorker {
	if metrics == nil {
		metrics = gamemetrics.NewNoop()
	}
	return &RecalculateStandingsWorker{logger: logger, metrics: metrics}
}

// SetRecalculator binds the game service once it exists; the service itself
// depends on the queue.
func (w *RecalculateStandingsWorker) SetRecalculator(r StandingsRecalculator) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.recalculator = r
}

// Timeout bounds one recalculation.
func (w *RecalculateStandingsWorker) Timeout(*river.Job[RecalculateStandingsJob]) time.Duration {
	return 30 * time.Second
}

func (w *RecalculateStandingsWorker) Work(ctx context.Context, job *river.Job[RecalculateStandingsJob]) error {
	ctx = attr.WithCorrelationID(ctx, fmt.Sprintf("river-%d", job.ID))
	logger := w.logger.With(
		attr.GameID(job.Args.GameID),
		attr.Int64("job_id", job.ID),
		attr.String("reason", job.Args.Reason),
	)

	w.mu.RLock()
	recalculator := w.recalculator
	w.mu.RUnlock()
	if recalculator == nil {
		w.metrics.RecordJobCompleted(ctx, job.Kind, false)
		return errors.New("recalculator not bound")
	}

	gameID, err := uuid.Parse(job.Args.GameID)
	if err != nil {
		logger.ErrorContext(ctx, "Invalid game id in job", attr.Error(err))
		w.metrics.RecordJobCompleted(ctx, job.Kind, false)
		return river.JobCancel(fmt.Errorf("invalid game id %q: %w", job.Args.GameID, err))
	}

	view, err := recalculator.RecalculateStandings(ctx, gameID)
	if err != nil {
		w.metrics.RecordJobCompleted(ctx, job.Kind, false)
		if errors.Is(err, gamedb.ErrNotFound) {
			logger.WarnContext(ctx, "Game no longer exists, cancelling job")
			return river.JobCancel(err)
		}
		logger.ErrorContext(ctx, "Failed to recalculate standings", attr.Error(err))
		return err
	}

	w.metrics.RecordJobCompleted(ctx, job.Kind, true)
	logger.InfoContext(ctx, "Standings recalculated", attr.Int64("version", view.Version))
	return nil
}
