package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/Black-And-White-Club/golf-scorecard/app/database"
	"github.com/Black-And-White-Club/golf-scorecard/app/eventbus"
	"github.com/Black-And-White-Club/golf-scorecard/app/modules/game"
	gameevents "github.com/Black-And-White-Club/golf-scorecard/app/modules/game/domain/events"
	gamemetrics "github.com/Black-And-White-Club/golf-scorecard/app/modules/game/infrastructure/metrics"
	"github.com/Black-And-White-Club/golf-scorecard/app/shared/observability/attr"
	"github.com/Black-And-White-Club/golf-scorecard/config"
	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/uptrace/bun"
	"go.opentelemetry.io/otel"
)

// App holds the process wide components.
type App struct {
	Config     *config.Config
	Logger     *slog.Logger
	DB         *bun.DB
	EventBus   eventbus.EventBus
	Router     *message.Router
	HTTPRouter chi.Router
	GameModule *game.Module
	Registry   *prometheus.Registry

	httpServer    *http.Server
	metricsServer *http.Server
	wg            sync.WaitGroup
}

// NewApp connects storage and messaging and builds the game module.
func NewApp(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	app := &App{Config: cfg, Logger: logger}
	if err := app.initialize(ctx); err != nil {
		_ = app.Close()
		return nil, err
	}
	return app, nil
}

func (app *App) initialize(ctx context.Context) error {
	cfg := app.Config
	logger := app.Logger

	app.Registry = prometheus.NewRegistry()
	app.Registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	db, err := database.Open(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	app.DB = db
	logger.InfoContext(ctx, "Database connected", attr.String("driver", cfg.Database.Driver))

	if err := database.Migrate(ctx, db, logger); err != nil {
		return err
	}
	if cfg.Queue.Enabled {
		if err := database.MigrateRiver(ctx, cfg.Database.DSN, logger); err != nil {
			return err
		}
	}

	if cfg.NATS.URL == "" {
		logger.InfoContext(ctx, "NATS not configured, using in-memory event bus")
		app.EventBus = eventbus.NewMemoryBus(logger)
	} else {
		bus, err := eventbus.NewEventBus(ctx, eventbus.Config{
			URL:        cfg.NATS.URL,
			QueueGroup: cfg.NATS.QueueGroup,
			AckWait:    cfg.NATS.AckWait,
		}, logger)
		if err != nil {
			return fmt.Errorf("failed to create event bus: %w", err)
		}
		app.EventBus = bus
	}
	if err := app.EventBus.CreateStream(ctx, gameevents.StreamName, gameevents.Subjects); err != nil {
		return fmt.Errorf("failed to create %s stream: %w", gameevents.StreamName, err)
	}

	router, err := message.NewRouter(message.RouterConfig{CloseTimeout: 30 * time.Second}, watermill.NewSlogLogger(logger))
	if err != nil {
		return fmt.Errorf("failed to create Watermill router: %w", err)
	}
	app.Router = router

	metrics, err := gamemetrics.NewPrometheusMetrics(app.Registry, "golf")
	if err != nil {
		return fmt.Errorf("failed to register game metrics: %w", err)
	}

	app.HTTPRouter = chi.NewRouter()
	module, err := game.NewGameModule(ctx, game.Deps{
		Config:     cfg,
		Logger:     logger,
		Tracer:     otel.Tracer(cfg.Observability.ServiceName),
		Metrics:    metrics,
		Registry:   app.Registry,
		EventBus:   app.EventBus,
		Router:     router,
		DB:         db,
		HTTPRouter: app.HTTPRouter,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize game module: %w", err)
	}
	app.GameModule = module
	return nil
}

// Close releases everything NewApp opened. Safe on a partially built App.
func (app *App) Close() error {
	var firstErr error
	keep := func(err error) {
		if err != nil && firstErr == nil {
			firstErr = err
		}
	}

	if app.GameModule != nil {
		keep(app.GameModule.Close())
	} else if app.Router != nil {
		keep(app.Router.Close())
	}
	if app.EventBus != nil {
		keep(app.EventBus.Close())
	}
	if app.DB != nil {
		keep(app.DB.Close())
	}
	return firstErr
}
