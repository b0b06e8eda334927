package gamedb

import (
	"context"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Repository defines the contract for game persistence.
type Repository interface {
	// CreateGame inserts a game with its players and holes.
	CreateGame(ctx context.Context, db bun.IDB, game *Game) error

	// GetGame retrieves a game with players and holes loaded.
	GetGame(ctx context.Context, db bun.IDB, gameID uuid.UUID) (*Game, error)

	// LockGame takes a row lock on the game for the rest of the transaction.
	// Writers that recompute standings call it before reading scores.
	LockGame(ctx context.Context, db bun.IDB, gameID uuid.UUID) error

	// GetGameByJoinCode retrieves a game by its join code.
	GetGameByJoinCode(ctx context.Context, db bun.IDB, code string) (*Game, error)

	// ListScores returns every recorded score for a game.
	ListScores(ctx context.Context, db bun.IDB, gameID uuid.UUID) ([]*HoleScore, error)

	// UpsertScores records or replaces scores.
	UpsertScores(ctx context.Context, db bun.IDB, scores []*HoleScore) error

	// DeleteScore removes a recorded score. Deleting a missing score is not an error.
	DeleteScore(ctx context.Context, db bun.IDB, gameID uuid.UUID, playerID string, hole int) error

	// SaveSnapshot stores a standings snapshot.
	SaveSnapshot(ctx context.Context, db bun.IDB, snapshot *StandingsSnapshot) error

	// LatestSnapshot returns the highest version snapshot for a game.
	LatestSnapshot(ctx context.Context, db bun.IDB, gameID uuid.UUID) (*StandingsSnapshot, error)
}
