package gamehandlers

import (
	"context"
	"errors"
	"log/slog"

	gameservice "github.com/Black-And-White-Club/golf-scorecard/app/modules/game/application"
	gameevents "github.com/Black-And-White-Club/golf-scorecard/app/modules/game/domain/events"
	gamedb "github.com/Black-And-White-Club/golf-scorecard/app/modules/game/infrastructure/repositories"
	"github.com/Black-And-White-Club/golf-scorecard/app/shared/handlerwrapper"
	"github.com/Black-And-White-Club/golf-scorecard/app/shared/observability/attr"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"
)

// GameHandlers implements the Handlers interface.
type GameHandlers struct {
	service gameservice.Service
	logger  *slog.Logger
	tracer  trace.Tracer
}

// NewGameHandlers creates a new GameHandlers instance.
func NewGameHandlers(
	service gameservice.Service,
	logger *slog.Logger,
	tracer trace.Tracer,
) Handlers {
	return &GameHandlers{
		service: service,
		logger:  logger,
		tracer:  tracer,
	}
}

// HandleScoreSubmitted records or clears a hole score. The service publishes
// the resulting standings; a rejected submission is answered with
// ScoreRejectedV1.
func (h *GameHandlers) HandleScoreSubmitted(ctx context.Context, payload *gameevents.ScoreSubmittedPayloadV1) ([]handlerwrapper.Result, error) {
	ctx, span := h.tracer.Start(ctx, "GameHandlers.HandleScoreSubmitted")
	defer span.End()

	if payload == nil {
		return nil, errors.New("payload is nil")
	}

	gameID, err := uuid.Parse(payload.GameID)
	if err != nil {
		h.logger.WarnContext(ctx, "Invalid game id in score submission",
			attr.ExtractCorrelationID(ctx),
			attr.GameID(payload.GameID),
		)
		return h.reject(payload, "invalid game id"), nil
	}

	if payload.Strokes == nil {
		_, err = h.service.ClearScore(ctx, gameID, payload.PlayerID, payload.HoleNumber)
	} else {
		_, err = h.service.RecordScore(ctx, gameID, payload.PlayerID, payload.HoleNumber, *payload.Strokes)
	}
	if err != nil {
		if gameservice.IsRejection(err) {
			h.logger.InfoContext(ctx, "Score submission rejected",
				attr.ExtractCorrelationID(ctx),
				attr.GameID(payload.GameID),
				attr.PlayerID(string(payload.PlayerID)),
				attr.Error(err),
			)
			return h.reject(payload, err.Error()), nil
		}
		span.RecordError(err)
		return nil, err
	}
	return nil, nil
}

func (h *GameHandlers) reject(payload *gameevents.ScoreSubmittedPayloadV1, reason string) []handlerwrapper.Result {
	return []handlerwrapper.Result{
		{
			Topic: gameevents.ScoreRejectedV1,
			Payload: &gameevents.ScoreRejectedPayloadV1{
				GameID:     payload.GameID,
				PlayerID:   payload.PlayerID,
				HoleNumber: payload.HoleNumber,
				Reason:     reason,
			},
			Metadata: map[string]string{"game_id": payload.GameID},
		},
	}
}

// HandleRecalculationRequested recomputes standings from storage. Requests for
// unknown games are dropped.
func (h *GameHandlers) HandleRecalculationRequested(ctx context.Context, payload *gameevents.RecalculationRequestedPayloadV1) ([]handlerwrapper.Result, error) {
	ctx, span := h.tracer.Start(ctx, "GameHandlers.HandleRecalculationRequested")
	defer span.End()

	if payload == nil {
		return nil, errors.New("payload is nil")
	}

	gameID, err := uuid.Parse(payload.GameID)
	if err != nil {
		h.logger.WarnContext(ctx, "Invalid game id in recalculation request",
			attr.ExtractCorrelationID(ctx),
			attr.GameID(payload.GameID),
		)
		return nil, nil
	}

	if _, err := h.service.RecalculateStandings(ctx, gameID); err != nil {
		if errors.Is(err, gamedb.ErrNotFound) {
			h.logger.WarnContext(ctx, "Recalculation requested for unknown game",
				attr.ExtractCorrelationID(ctx),
				attr.GameID(payload.GameID),
			)
			return nil, nil
		}
		span.RecordError(err)
		return nil, err
	}
	return nil, nil
}
