package gamehandlers

import (
	"context"

	gameevents "github.com/Black-And-White-Club/golf-scorecard/app/modules/game/domain/events"
	"github.com/Black-And-White-Club/golf-scorecard/app/shared/handlerwrapper"
)

// Handlers interface defines the methods the game module handles from the bus.
type Handlers interface {
	HandleScoreSubmitted(ctx context.Context, payload *gameevents.ScoreSubmittedPayloadV1) ([]handlerwrapper.Result, error)
	HandleRecalculationRequested(ctx context.Context, payload *gameevents.RecalculationRequestedPayloadV1) ([]handlerwrapper.Result, error)
}
