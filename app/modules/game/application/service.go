package gameservice

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/Black-And-White-Club/golf-scorecard/app/modules/game/application/parsers"
	gamedb "github.com/Black-And-White-Club/golf-scorecard/app/modules/game/infrastructure/repositories"
	gamemetrics "github.com/Black-And-White-Club/golf-scorecard/app/modules/game/infrastructure/metrics"
	"github.com/Black-And-White-Club/golf-scorecard/app/shared/observability/attr"
	"github.com/Black-And-White-Club/golf-scorecard/app/shared/results"
	"github.com/ThreeDotsLabs/watermill/message"
	petname "github.com/dustinkirkland/golang-petname"
	"github.com/uptrace/bun"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const serviceName = "GameService"

// GameService implements the Service interface.
type GameService struct {
	repo    gamedb.Repository
	logger  *slog.Logger
	metrics gamemetrics.GameMetrics
	tracer  trace.Tracer
	db      *bun.DB

	publisher     message.Publisher
	queue         RecalculationQueue
	parsers       parsers.ParserFactory
	timeParser    *TimeParser
	clock         Clock
	joinCode      func() string
	publicBaseURL string
}

// Option configures optional GameService collaborators.
type Option func(*GameService)

// WithPublisher publishes standings updates after every change.
func WithPublisher(p message.Publisher) Option {
	return func(s *GameService) { s.publisher = p }
}

// WithQueue defers recalculation after imports to a background queue.
func WithQueue(q RecalculationQueue) Option {
	return func(s *GameService) { s.queue = q }
}

func WithParserFactory(f parsers.ParserFactory) Option {
	return func(s *GameService) { s.parsers = f }
}

func WithClock(c Clock) Option {
	return func(s *GameService) { s.clock = c }
}

// WithJoinCodeGenerator replaces the petname generator.
func WithJoinCodeGenerator(gen func() string) Option {
	return func(s *GameService) { s.joinCode = gen }
}

// WithPublicBaseURL sets the base of share links.
func WithPublicBaseURL(u string) Option {
	return func(s *GameService) { s.publicBaseURL = u }
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

// NewGameService creates a new GameService.
func NewGameService(
	repo gamedb.Repository,
	logger *slog.Logger,
	metrics gamemetrics.GameMetrics,
	tracer trace.Tracer,
	db *bun.DB,
	opts ...Option,
) *GameService {
	if logger == nil {
		logger = slog.Default()
	}
	if metrics == nil {
		metrics = gamemetrics.NewNoop()
	}
	s := &GameService{
		repo:          repo,
		logger:        logger,
		metrics:       metrics,
		tracer:        tracer,
		db:            db,
		parsers:       parsers.NewFactory(),
		timeParser:    NewTimeParser(),
		clock:         realClock{},
		joinCode:      func() string { return petname.Generate(2, "-") },
		publicBaseURL: "http://localhost:8080",
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// -----------------------------------------------------------------------------
// Generic Helpers (Defined as functions because methods cannot have type params)
// -----------------------------------------------------------------------------

// operationFunc is the generic signature for service operation functions.
type operationFunc[S any, F any] func(ctx context.Context) (results.OperationResult[S, F], error)

// withTelemetry wraps a service operation with tracing, metrics, and panic recovery.
func withTelemetry[S any, F any](
	s *GameService,
	ctx context.Context,
	operationName string,
	identifier string,
	op operationFunc[S, F],
) (result results.OperationResult[S, F], err error) {

	var span trace.Span
	if s.tracer != nil {
		ctx, span = s.tracer.Start(ctx, operationName, trace.WithAttributes(
			attribute.String("operation", operationName),
			attribute.String("identifier", identifier),
		))
	} else {
		span = trace.SpanFromContext(ctx)
	}
	defer span.End()

	s.metrics.RecordOperationAttempt(ctx, operationName, serviceName)

	startTime := time.Now()
	defer func() {
		s.metrics.RecordOperationDuration(ctx, operationName, serviceName, time.Since(startTime))
	}()

	s.logger.InfoContext(ctx, "Operation triggered", attr.ExtractCorrelationID(ctx), attr.String("operation", operationName))

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic in %s: %v", operationName, r)
			s.logger.ErrorContext(ctx, "Critical panic recovered",
				attr.ExtractCorrelationID(ctx),
				attr.String("identifier", identifier),
				attr.Error(err),
			)
			s.metrics.RecordOperationFailure(ctx, operationName, serviceName)
			span.RecordError(err)
			result = results.OperationResult[S, F]{}
		}
	}()

	result, err = op(ctx)

	// Infrastructure error
	if err != nil {
		wrappedErr := fmt.Errorf("%s: %w", operationName, err)
		s.logger.ErrorContext(ctx, "Operation failed with error",
			attr.ExtractCorrelationID(ctx),
			attr.String("operation", operationName),
			attr.String("identifier", identifier),
			attr.Error(wrappedErr),
		)
		s.metrics.RecordOperationFailure(ctx, operationName, serviceName)
		span.RecordError(wrappedErr)
		return result, wrappedErr
	}

	// Domain failure
	if result.IsFailure() {
		s.logger.WarnContext(ctx, "Operation returned failure result",
			attr.ExtractCorrelationID(ctx),
			attr.String("operation", operationName),
			attr.String("identifier", identifier),
			attr.Any("failure_payload", *result.Failure),
		)
	}

	if result.IsSuccess() {
		s.logger.InfoContext(ctx, "Operation completed successfully",
			attr.ExtractCorrelationID(ctx),
			attr.String("operation", operationName),
			attr.String("identifier", identifier),
		)
	}

	s.metrics.RecordOperationSuccess(ctx, operationName, serviceName)
	return result, nil
}

// runInTx ensures the operation runs within a transaction.
func runInTx[S any, F any](
	s *GameService,
	ctx context.Context,
	fn func(ctx context.Context, db bun.IDB) (results.OperationResult[S, F], error),
) (results.OperationResult[S, F], error) {

	if s.db == nil {
		return fn(ctx, nil)
	}

	var result results.OperationResult[S, F]

	err := s.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		var txErr error
		result, txErr = fn(ctx, tx)
		return txErr
	})

	return result, err
}

// unwrap converts an operation outcome into the public (value, error) shape.
func unwrap[S any](result results.OperationResult[S, error], err error) (S, error) {
	var zero S
	if err != nil {
		return zero, err
	}
	if result.IsFailure() {
		return zero, *result.Failure
	}
	if !result.IsSuccess() {
		return zero, fmt.Errorf("operation returned no result")
	}
	return *result.Success, nil
}
