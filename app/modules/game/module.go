package game

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/Black-And-White-Club/golf-scorecard/app/eventbus"
	gameservice "github.com/Black-And-White-Club/golf-scorecard/app/modules/game/application"
	gameevents "github.com/Black-And-White-Club/golf-scorecard/app/modules/game/domain/events"
	gameapi "github.com/Black-And-White-Club/golf-scorecard/app/modules/game/infrastructure/api"
	gamehandlers "github.com/Black-And-White-Club/golf-scorecard/app/modules/game/infrastructure/handlers"
	gamemetrics "github.com/Black-And-White-Club/golf-scorecard/app/modules/game/infrastructure/metrics"
	gamequeue "github.com/Black-And-White-Club/golf-scorecard/app/modules/game/infrastructure/queue"
	gamedb "github.com/Black-And-White-Club/golf-scorecard/app/modules/game/infrastructure/repositories"
	gamerouter "github.com/Black-And-White-Club/golf-scorecard/app/modules/game/infrastructure/router"
	"github.com/Black-And-White-Club/golf-scorecard/app/shared/observability/attr"
	"github.com/Black-And-White-Club/golf-scorecard/config"
	"github.com/Black-And-White-Club/golf-scorecard/pkg/jwt"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/uptrace/bun"
	"go.opentelemetry.io/otel/trace"
)

// Deps are the shared components the game module is built from.
type Deps struct {
	Config     *config.Config
	Logger     *slog.Logger
	Tracer     trace.Tracer
	Metrics    gamemetrics.GameMetrics
	Registry   prometheus.Registerer
	EventBus   eventbus.EventBus
	Router     *message.Router
	DB         *bun.DB
	HTTPRouter chi.Router
}

// Module represents the game module.
type Module struct {
	GameService gameservice.Service
	GameRouter  *gamerouter.GameRouter
	Hub         *gameapi.Hub

	queue      gamequeue.QueueService
	eventBus   eventbus.EventBus
	logger     *slog.Logger
	cancelFunc context.CancelFunc
}

// NewGameModule creates and initializes the game module.
func NewGameModule(ctx context.Context, deps Deps) (*Module, error) {
	logger := deps.Logger
	cfg := deps.Config
	metrics := deps.Metrics
	if metrics == nil {
		metrics = gamemetrics.NewNoop()
	}

	logger.InfoContext(ctx, "game.NewGameModule initializing")

	// 1. Repository
	repo := gamedb.NewRepository(deps.DB)

	// 2. Optional recalculation queue
	opts := []gameservice.Option{
		gameservice.WithPublisher(deps.EventBus),
		gameservice.WithPublicBaseURL(cfg.HTTP.PublicBaseURL),
	}
	var queue gamequeue.QueueService
	var worker *gamequeue.RecalculateStandingsWorker
	if cfg.Queue.Enabled {
		worker = gamequeue.NewRecalculateStandingsWorker(logger, metrics)
		q, err := gamequeue.NewService(ctx, deps.DB, logger, cfg.Database.DSN, metrics, worker)
		if err != nil {
			return nil, fmt.Errorf("failed to create game queue: %w", err)
		}
		queue = q
		opts = append(opts, gameservice.WithQueue(q))
	}

	// 3. Service
	service := gameservice.NewGameService(repo, logger, metrics, deps.Tracer, deps.DB, opts...)
	if worker != nil {
		worker.SetRecalculator(service)
	}

	// 4. Event handlers and router
	handlers := gamehandlers.NewGameHandlers(service, logger, deps.Tracer)
	gameRouter := gamerouter.NewGameRouter(logger, deps.Router, deps.EventBus, deps.EventBus, deps.Tracer, metrics, deps.Registry)
	if err := gameRouter.Configure(ctx, handlers); err != nil {
		return nil, fmt.Errorf("failed to configure game router: %w", err)
	}

	// 5. HTTP routes
	hub := gameapi.NewHub(logger)
	if deps.HTTPRouter != nil {
		tokens := jwt.NewService(cfg.JWT.Secret, cfg.JWT.Issuer, cfg.JWT.DefaultTTL, cfg.HTTP.PublicBaseURL)
		api := gameapi.NewGameAPI(service, tokens, hub, logger, deps.Tracer, cfg.HTTP.AllowedOrigins)

		checks := map[string]gameapi.HealthCheck{
			"database": func(ctx context.Context) error { return deps.DB.PingContext(ctx) },
		}
		if queue != nil {
			checks["queue"] = queue.HealthCheck
		}
		deps.HTTPRouter.Mount("/", gameapi.NewRouter(api, gameapi.RouteOptions{
			AllowedOrigins:      cfg.HTTP.AllowedOrigins,
			RatePerSecond:       cfg.HTTP.RatePerSecond,
			RateBurst:           cfg.HTTP.RateBurst,
			ScorerRatePerSecond: cfg.HTTP.ScorerRatePerSecond,
			ScorerRateBurst:     cfg.HTTP.ScorerRateBurst,
			HealthChecks:        checks,
		}))
	}

	return &Module{
		GameService: service,
		GameRouter:  gameRouter,
		Hub:         hub,
		queue:       queue,
		eventBus:    deps.EventBus,
		logger:      logger,
	}, nil
}

// Run starts the queue and the live standings hub, then blocks until ctx is done.
func (m *Module) Run(ctx context.Context, wg *sync.WaitGroup) {
	m.logger.InfoContext(ctx, "Starting game module")

	ctx, cancel := context.WithCancel(ctx)
	m.cancelFunc = cancel
	defer cancel()

	if wg != nil {
		defer wg.Done()
	}

	if m.queue != nil {
		if err := m.queue.Start(ctx); err != nil {
			m.logger.ErrorContext(ctx, "Failed to start game queue", attr.Error(err))
		}
	}

	go m.Hub.Run(ctx)
	updates, err := m.eventBus.Fanout(ctx, gameevents.StandingsUpdatedV1)
	if err != nil {
		m.logger.ErrorContext(ctx, "Failed to subscribe to standings updates, live clients get no pushes", attr.Error(err))
	} else {
		go m.Hub.Consume(ctx, updates)
	}

	<-ctx.Done()
	m.logger.InfoContext(ctx, "Game module goroutine stopped")
}

// Close shuts down the game module.
func (m *Module) Close() error {
	m.logger.Info("Stopping game module")

	if m.cancelFunc != nil {
		m.cancelFunc()
	}

	if m.queue != nil {
		if err := m.queue.Stop(context.Background()); err != nil {
			m.logger.Error("Error stopping game queue", attr.Error(err))
		}
	}

	if m.GameRouter != nil {
		if err := m.GameRouter.Close(); err != nil {
			m.logger.Error("Error closing GameRouter from module", attr.Error(err))
			return fmt.Errorf("error closing GameRouter: %w", err)
		}
	}

	m.logger.Info("Game module stopped")
	return nil
}
