package gameservice

import (
	"context"
	"errors"
	"fmt"
	"time"

	gamedomain "github.com/Black-And-White-Club/golf-scorecard/app/modules/game/domain"
	gameevents "github.com/Black-And-White-Club/golf-scorecard/app/modules/game/domain/events"
	gamedb "github.com/Black-And-White-Club/golf-scorecard/app/modules/game/infrastructure/repositories"
	"github.com/Black-And-White-Club/golf-scorecard/app/shared/handlerwrapper"
	"github.com/Black-And-White-Club/golf-scorecard/app/shared/observability/attr"
	"github.com/Black-And-White-Club/golf-scorecard/app/shared/results"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// RecordScore stores a gross score for one hole and recomputes standings.
func (s *GameService) RecordScore(ctx context.Context, gameID uuid.UUID, playerID gamedomain.PlayerID, hole, strokes int) (*StandingsView, error) {
	action := gamedomain.SetScore{Player: playerID, Hole: hole, Strokes: strokes}
	return s.applyAction(ctx, "RecordScore", gameID, action, func(ctx context.Context, db bun.IDB) error {
		return s.repo.UpsertScores(ctx, db, []*gamedb.HoleScore{{
			GameID:     gameID,
			PlayerID:   string(playerID),
			HoleNumber: hole,
			Strokes:    strokes,
		}})
	})
}

// ClearScore removes the score for one hole and recomputes standings.
func (s *GameService) ClearScore(ctx context.Context, gameID uuid.UUID, playerID gamedomain.PlayerID, hole int) (*StandingsView, error) {
	action := gamedomain.ClearScore{Player: playerID, Hole: hole}
	return s.applyAction(ctx, "ClearScore", gameID, action, func(ctx context.Context, db bun.IDB) error {
		return s.repo.DeleteScore(ctx, db, gameID, string(playerID), hole)
	})
}

// applyAction runs action through the reducer against stored state, persists
// the change with write and stores the resulting snapshot.
func (s *GameService) applyAction(
	ctx context.Context,
	operationName string,
	gameID uuid.UUID,
	action gamedomain.Action,
	write func(ctx context.Context, db bun.IDB) error,
) (*StandingsView, error) {
	applyTx := func(ctx context.Context, db bun.IDB) (results.OperationResult[*StandingsView, error], error) {
		game, state, err := s.lockState(ctx, db, gameID)
		if err != nil {
			if errors.Is(err, gamedb.ErrNotFound) {
				return results.FailureResult[*StandingsView, error](err), nil
			}
			return results.OperationResult[*StandingsView, error]{}, err
		}

		start := time.Now()
		next, err := gamedomain.Reduce(state, action)
		s.metrics.RecordCalculationDuration(ctx, string(game.Format), time.Since(start))
		if err != nil {
			return results.FailureResult[*StandingsView, error](err), nil
		}

		if err := write(ctx, db); err != nil {
			return results.OperationResult[*StandingsView, error]{}, err
		}
		s.metrics.RecordScoreRecorded(ctx, string(game.Format))

		view, err := s.saveSnapshot(ctx, db, game, next.Scores, next.Standings)
		if err != nil {
			return results.OperationResult[*StandingsView, error]{}, err
		}
		return results.SuccessResult[*StandingsView, error](view), nil
	}

	result, err := withTelemetry(s, ctx, operationName, gameID.String(), func(ctx context.Context) (results.OperationResult[*StandingsView, error], error) {
		return runInTx(s, ctx, applyTx)
	})
	view, err := unwrap(result, err)
	if err != nil {
		return nil, err
	}
	s.publishStandings(ctx, view)
	return view, nil
}

// GetStandings returns the latest snapshot, computing one if none exists.
func (s *GameService) GetStandings(ctx context.Context, gameID uuid.UUID) (*StandingsView, error) {
	getTx := func(ctx context.Context, db bun.IDB) (results.OperationResult[*StandingsView, error], error) {
		_, state, err := s.loadState(ctx, db, gameID)
		if err != nil {
			if errors.Is(err, gamedb.ErrNotFound) {
				return results.FailureResult[*StandingsView, error](err), nil
			}
			return results.OperationResult[*StandingsView, error]{}, err
		}

		latest, err := s.repo.LatestSnapshot(ctx, db, gameID)
		switch {
		case err == nil:
			return results.SuccessResult[*StandingsView, error](&StandingsView{
				GameID:    gameID,
				Version:   latest.Version,
				Standings: latest.Standings,
				Scores:    state.Scores,
			}), nil
		case errors.Is(err, gamedb.ErrNotFound):
			return s.recalculateLogic(ctx, db, gameID)
		default:
			return results.OperationResult[*StandingsView, error]{}, fmt.Errorf("failed to load standings: %w", err)
		}
	}

	result, err := withTelemetry(s, ctx, "GetStandings", gameID.String(), func(ctx context.Context) (results.OperationResult[*StandingsView, error], error) {
		return runInTx(s, ctx, getTx)
	})
	return unwrap(result, err)
}

// RecalculateStandings recomputes standings from stored scores and publishes them.
func (s *GameService) RecalculateStandings(ctx context.Context, gameID uuid.UUID) (*StandingsView, error) {
	recalcTx := func(ctx context.Context, db bun.IDB) (results.OperationResult[*StandingsView, error], error) {
		return s.recalculateLogic(ctx, db, gameID)
	}

	result, err := withTelemetry(s, ctx, "RecalculateStandings", gameID.String(), func(ctx context.Context) (results.OperationResult[*StandingsView, error], error) {
		return runInTx(s, ctx, recalcTx)
	})
	view, err := unwrap(result, err)
	if err != nil {
		return nil, err
	}
	s.publishStandings(ctx, view)
	return view, nil
}

func (s *GameService) recalculateLogic(ctx context.Context, db bun.IDB, gameID uuid.UUID) (results.OperationResult[*StandingsView, error], error) {
	game, state, err := s.lockState(ctx, db, gameID)
	if err != nil {
		if errors.Is(err, gamedb.ErrNotFound) {
			return results.FailureResult[*StandingsView, error](err), nil
		}
		return results.OperationResult[*StandingsView, error]{}, err
	}
	view, err := s.saveSnapshot(ctx, db, game, state.Scores, state.Standings)
	if err != nil {
		return results.OperationResult[*StandingsView, error]{}, err
	}
	return results.SuccessResult[*StandingsView, error](view), nil
}

// lockState is loadState under the game row lock. Snapshot versions and the
// score table it reads stay consistent until the transaction ends.
func (s *GameService) lockState(ctx context.Context, db bun.IDB, gameID uuid.UUID) (*gamedb.Game, gamedomain.State, error) {
	if err := s.repo.LockGame(ctx, db, gameID); err != nil {
		if errors.Is(err, gamedb.ErrNotFound) {
			return nil, gamedomain.State{}, err
		}
		return nil, gamedomain.State{}, fmt.Errorf("failed to lock game: %w", err)
	}
	return s.loadState(ctx, db, gameID)
}

// loadState reads a game and its scores and builds the engine state.
func (s *GameService) loadState(ctx context.Context, db bun.IDB, gameID uuid.UUID) (*gamedb.Game, gamedomain.State, error) {
	game, err := s.repo.GetGame(ctx, db, gameID)
	if err != nil {
		if errors.Is(err, gamedb.ErrNotFound) {
			return nil, gamedomain.State{}, err
		}
		return nil, gamedomain.State{}, fmt.Errorf("failed to get game: %w", err)
	}

	rows, err := s.repo.ListScores(ctx, db, gameID)
	if err != nil {
		return nil, gamedomain.State{}, fmt.Errorf("failed to list scores: %w", err)
	}

	start := time.Now()
	state, err := gamedomain.NewState(game.DomainConfig(), game.DomainHoles(), gamedb.ScoreTableFrom(rows))
	s.metrics.RecordCalculationDuration(ctx, string(game.Format), time.Since(start))
	if err != nil {
		return nil, gamedomain.State{}, fmt.Errorf("failed to compute standings: %w", err)
	}
	return game, state, nil
}

// snapshot computes standings for scores and stores them. Used on game
// creation where no state exists yet.
func (s *GameService) snapshot(ctx context.Context, db bun.IDB, game *gamedb.Game, scores gamedomain.ScoreTable) (*StandingsView, error) {
	standings, err := gamedomain.Calculate(game.DomainConfig(), scores, game.DomainHoles())
	if err != nil {
		return nil, fmt.Errorf("failed to compute standings: %w", err)
	}
	return s.saveSnapshot(ctx, db, game, scores, standings)
}

func (s *GameService) saveSnapshot(ctx context.Context, db bun.IDB, game *gamedb.Game, scores gamedomain.ScoreTable, standings gamedomain.Standings) (*StandingsView, error) {
	version := int64(1)
	latest, err := s.repo.LatestSnapshot(ctx, db, game.ID)
	switch {
	case err == nil:
		version = latest.Version + 1
	case !errors.Is(err, gamedb.ErrNotFound):
		return nil, fmt.Errorf("failed to read snapshot version: %w", err)
	}

	if err := s.repo.SaveSnapshot(ctx, db, &gamedb.StandingsSnapshot{
		GameID:    game.ID,
		Version:   version,
		Format:    game.Format,
		Standings: standings,
	}); err != nil {
		return nil, err
	}

	if scores == nil {
		scores = gamedomain.ScoreTable{}
	}
	return &StandingsView{GameID: game.ID, Version: version, Standings: standings, Scores: scores}, nil
}

// publishStandings announces a new snapshot. Failures are logged; the
// snapshot is already stored and clients can poll for it.
func (s *GameService) publishStandings(ctx context.Context, view *StandingsView) {
	if s.publisher == nil || view == nil {
		return
	}

	msg, err := handlerwrapper.NewMessage(handlerwrapper.Result{
		Topic: gameevents.StandingsUpdatedV1,
		Payload: &gameevents.StandingsUpdatedPayloadV1{
			GameID:    view.GameID.String(),
			Format:    view.Standings.Format,
			Version:   view.Version,
			Standings: view.Standings,
		},
		Metadata: map[string]string{"game_id": view.GameID.String()},
	}, attr.CorrelationIDFromContext(ctx))
	if err == nil {
		err = s.publisher.Publish(gameevents.StandingsUpdatedV1, msg)
	}
	if err != nil {
		s.logger.WarnContext(ctx, "Failed to publish standings update",
			attr.ExtractCorrelationID(ctx),
			attr.GameID(view.GameID.String()),
			attr.Error(err),
		)
		return
	}
	s.metrics.RecordStandingsPublished(ctx, string(view.Standings.Format))
}
