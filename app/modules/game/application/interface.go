package gameservice

import (
	"context"
	"time"

	gamedomain "github.com/Black-And-White-Club/golf-scorecard/app/modules/game/domain"
	"github.com/google/uuid"
)

// Service defines the game application operations.
type Service interface {
	CreateGame(ctx context.Context, req CreateGameRequest) (*GameView, error)
	GetGame(ctx context.Context, gameID uuid.UUID) (*GameView, error)
	GetGameByJoinCode(ctx context.Context, code string) (*GameView, error)

	// RecordScore validates and stores a gross score, then recomputes standings.
	RecordScore(ctx context.Context, gameID uuid.UUID, playerID gamedomain.PlayerID, hole, strokes int) (*StandingsView, error)
	// ClearScore removes a score, then recomputes standings.
	ClearScore(ctx context.Context, gameID uuid.UUID, playerID gamedomain.PlayerID, hole int) (*StandingsView, error)

	GetStandings(ctx context.Context, gameID uuid.UUID) (*StandingsView, error)
	RecalculateStandings(ctx context.Context, gameID uuid.UUID) (*StandingsView, error)

	ImportScorecard(ctx context.Context, gameID uuid.UUID, filename string, data []byte) (*ImportResult, error)
	ExportScorecard(ctx context.Context, gameID uuid.UUID) ([]byte, error)
	RenderProgressChart(ctx context.Context, gameID uuid.UUID) ([]byte, error)
	ShareQRCode(ctx context.Context, gameID uuid.UUID) ([]byte, error)
	Summary(ctx context.Context, gameID uuid.UUID) (string, error)
}

// RecalculationQueue defers a full standings recompute to a background worker.
type RecalculationQueue interface {
	EnqueueRecalculation(ctx context.Context, gameID uuid.UUID, reason string) error
}

// Clock abstracts time for tee time parsing.
type Clock interface {
	Now() time.Time
}
