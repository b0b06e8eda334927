package gamedb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect"
)

// ErrNotFound is returned when a game or snapshot does not exist.
var ErrNotFound = errors.New("game not found")

// Impl implements the Repository interface using Bun ORM.
type Impl struct {
	db bun.IDB
}

// NewRepository creates a new game repository.
func NewRepository(db bun.IDB) Repository {
	return &Impl{db: db}
}

// resolveDB returns the provided db handle, falling back to the repository's
// default connection if db is nil.
func (r *Impl) resolveDB(db bun.IDB) bun.IDB {
	if db == nil {
		return r.db
	}
	return db
}

// CreateGame inserts the game row followed by its players and holes.
// Callers wanting atomicity pass a transaction.
func (r *Impl) CreateGame(ctx context.Context, db bun.IDB, game *Game) error {
	db = r.resolveDB(db)
	now := time.Now().UTC()
	game.CreatedAt = now
	game.UpdatedAt = now

	if _, err := db.NewInsert().Model(game).Exec(ctx); err != nil {
		return fmt.Errorf("failed to insert game: %w", err)
	}

	if len(game.Players) > 0 {
		for i, p := range game.Players {
			p.GameID = game.ID
			p.Position = i
		}
		if _, err := db.NewInsert().Model(&game.Players).Exec(ctx); err != nil {
			return fmt.Errorf("failed to insert game players: %w", err)
		}
	}

	if len(game.Holes) > 0 {
		for _, h := range game.Holes {
			h.GameID = game.ID
		}
		if _, err := db.NewInsert().Model(&game.Holes).Exec(ctx); err != nil {
			return fmt.Errorf("failed to insert game holes: %w", err)
		}
	}
	return nil
}

func (r *Impl) GetGame(ctx context.Context, db bun.IDB, gameID uuid.UUID) (*Game, error) {
	return r.getGameWhere(ctx, db, "g.id = ?", gameID)
}

// LockGame selects the game row FOR UPDATE on postgres. SQLite serializes
// writers on its single connection, so there it only checks existence.
func (r *Impl) LockGame(ctx context.Context, db bun.IDB, gameID uuid.UUID) error {
	db = r.resolveDB(db)
	q := db.NewSelect().
		Model((*Game)(nil)).
		ColumnExpr("g.id").
		Where("g.id = ?", gameID)
	if db.Dialect().Name() == dialect.PG {
		q = q.For("UPDATE")
	}

	var id uuid.UUID
	if err := q.Scan(ctx, &id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to lock game: %w", err)
	}
	return nil
}

func (r *Impl) GetGameByJoinCode(ctx context.Context, db bun.IDB, code string) (*Game, error) {
	return r.getGameWhere(ctx, db, "g.join_code = ?", code)
}

func (r *Impl) getGameWhere(ctx context.Context, db bun.IDB, where string, arg any) (*Game, error) {
	db = r.resolveDB(db)
	game := new(Game)
	err := db.NewSelect().
		Model(game).
		Relation("Players", func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Order("gp.position ASC")
		}).
		Relation("Holes", func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Order("gh.hole_number ASC")
		}).
		Where(where, arg).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get game: %w", err)
	}
	return game, nil
}

func (r *Impl) ListScores(ctx context.Context, db bun.IDB, gameID uuid.UUID) ([]*HoleScore, error) {
	db = r.resolveDB(db)
	var scores []*HoleScore
	err := db.NewSelect().
		Model(&scores).
		Where("hs.game_id = ?", gameID).
		Order("hs.player_id ASC", "hs.hole_number ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list scores: %w", err)
	}
	return scores, nil
}

func (r *Impl) UpsertScores(ctx context.Context, db bun.IDB, scores []*HoleScore) error {
	if len(scores) == 0 {
		return nil
	}
	db = r.resolveDB(db)
	now := time.Now().UTC()
	for _, s := range scores {
		s.UpdatedAt = now
	}
	_, err := db.NewInsert().
		Model(&scores).
		On("CONFLICT (game_id, player_id, hole_number) DO UPDATE").
		Set("strokes = EXCLUDED.strokes").
		Set("updated_at = EXCLUDED.updated_at").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to upsert scores: %w", err)
	}
	return nil
}

func (r *Impl) DeleteScore(ctx context.Context, db bun.IDB, gameID uuid.UUID, playerID string, hole int) error {
	db = r.resolveDB(db)
	_, err := db.NewDelete().
		Model((*HoleScore)(nil)).
		Where("game_id = ?", gameID).
		Where("player_id = ?", playerID).
		Where("hole_number = ?", hole).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to delete score: %w", err)
	}
	return nil
}

func (r *Impl) SaveSnapshot(ctx context.Context, db bun.IDB, snapshot *StandingsSnapshot) error {
	db = r.resolveDB(db)
	snapshot.CreatedAt = time.Now().UTC()
	if _, err := db.NewInsert().Model(snapshot).Exec(ctx); err != nil {
		return fmt.Errorf("failed to save standings snapshot: %w", err)
	}
	return nil
}

func (r *Impl) LatestSnapshot(ctx context.Context, db bun.IDB, gameID uuid.UUID) (*StandingsSnapshot, error) {
	db = r.resolveDB(db)
	snapshot := new(StandingsSnapshot)
	err := db.NewSelect().
		Model(snapshot).
		Where("ss.game_id = ?", gameID).
		Order("ss.version DESC").
		Limit(1).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get latest snapshot: %w", err)
	}
	return snapshot, nil
}
