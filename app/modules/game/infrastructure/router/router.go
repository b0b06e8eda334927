package gamerouter

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	gameevents "github.com/Black-And-White-Club/golf-scorecard/app/modules/game/domain/events"
	gamehandlers "github.com/Black-And-White-Club/golf-scorecard/app/modules/game/infrastructure/handlers"
	"github.com/Black-And-White-Club/golf-scorecard/app/shared/handlerwrapper"
	"github.com/Black-And-White-Club/golf-scorecard/app/shared/observability/attr"
	"github.com/ThreeDotsLabs/watermill/components/metrics"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel/trace"
)

const (
	TestEnvironmentFlag  = "APP_ENV"
	TestEnvironmentValue = "test"
)

// GameRouter wires game topics to their handlers.
type GameRouter struct {
	logger         *slog.Logger
	Router         *message.Router
	subscriber     message.Subscriber
	publisher      message.Publisher
	tracer         trace.Tracer
	metrics        handlerwrapper.ReturningMetrics
	metricsBuilder *metrics.PrometheusMetricsBuilder
}

func NewGameRouter(
	logger *slog.Logger,
	router *message.Router,
	subscriber message.Subscriber,
	publisher message.Publisher,
	tracer trace.Tracer,
	handlerMetrics handlerwrapper.ReturningMetrics,
	prometheusRegistry prometheus.Registerer,
) *GameRouter {
	inTestEnv := os.Getenv(TestEnvironmentFlag) == TestEnvironmentValue

	var metricsBuilder *metrics.PrometheusMetricsBuilder
	if prometheusRegistry != nil && !inTestEnv {
		builder := metrics.NewPrometheusMetricsBuilder(prometheusRegistry, "", "")
		metricsBuilder = &builder
	}
	return &GameRouter{
		logger:         logger,
		Router:         router,
		subscriber:     subscriber,
		publisher:      publisher,
		tracer:         tracer,
		metrics:        handlerMetrics,
		metricsBuilder: metricsBuilder,
	}
}

// Configure adds middleware and registers the game handlers.
func (r *GameRouter) Configure(_ context.Context, handlers gamehandlers.Handlers) error {
	if r.metricsBuilder != nil {
		r.logger.Info("Adding Prometheus router metrics middleware")
		r.metricsBuilder.AddPrometheusRouterMetrics(r.Router)
	} else {
		r.logger.Info("Skipping Prometheus router metrics middleware - either in test environment or metrics not configured")
	}

	r.Router.AddMiddleware(
		middleware.CorrelationID,
		middleware.Recoverer,
		middleware.Retry{MaxRetries: 3}.Middleware,
	)

	r.registerHandlers(handlers)
	return nil
}

func (r *GameRouter) registerHandlers(handlers gamehandlers.Handlers) {
	r.logger.Info("Registering game module handlers",
		attr.String("score_subject", gameevents.ScoreSubmittedV1),
		attr.String("recalculation_subject", gameevents.RecalculationRequestedV1),
	)

	registerHandler(r, gameevents.ScoreSubmittedV1, handlers.HandleScoreSubmitted)
	registerHandler(r, gameevents.RecalculationRequestedV1, handlers.HandleRecalculationRequested)
}

// registerHandler is a generic function for type-safe Watermill handler registration.
// Output messages go to the topic named in their metadata.
func registerHandler[T any](
	r *GameRouter,
	topic string,
	handler func(context.Context, *T) ([]handlerwrapper.Result, error),
) {
	handlerName := "game." + topic
	wrapped := handlerwrapper.WrapTransformingTyped(handlerName, r.logger, r.tracer, r.metrics, handler)

	r.Router.AddHandler(
		handlerName,
		topic,
		r.subscriber,
		"",
		nil,
		func(msg *message.Message) ([]*message.Message, error) {
			messages, err := wrapped(msg)
			if err != nil {
				return nil, err
			}
			for _, m := range messages {
				publishTopic := m.Metadata.Get("topic")
				if publishTopic == "" {
					r.logger.Error("router failed to resolve publish topic - MESSAGE DROPPED",
						attr.String("handler", handlerName),
						attr.String("msg_uuid", m.UUID),
					)
					continue
				}
				if err := r.publisher.Publish(publishTopic, m); err != nil {
					return nil, fmt.Errorf("failed to publish to %s: %w", publishTopic, err)
				}
			}
			return nil, nil
		},
	)
}

func (r *GameRouter) Close() error {
	return r.Router.Close()
}
