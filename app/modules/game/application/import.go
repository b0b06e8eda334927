package gameservice

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Black-And-White-Club/golf-scorecard/app/modules/game/application/parsers"
	gamedomain "github.com/Black-And-White-Club/golf-scorecard/app/modules/game/domain"
	gamedb "github.com/Black-And-White-Club/golf-scorecard/app/modules/game/infrastructure/repositories"
	"github.com/Black-And-White-Club/golf-scorecard/app/shared/observability/attr"
	"github.com/Black-And-White-Club/golf-scorecard/app/shared/results"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// ImportScorecard loads scores from an uploaded CSV or XLSX scorecard. Rows
// are matched to players by name or id, ignoring case. Blank cells leave the
// stored score untouched.
func (s *GameService) ImportScorecard(ctx context.Context, gameID uuid.UUID, filename string, data []byte) (*ImportResult, error) {
	importTx := func(ctx context.Context, db bun.IDB) (results.OperationResult[*ImportResult, error], error) {
		return s.importScorecardLogic(ctx, db, gameID, filename, data)
	}

	result, err := withTelemetry(s, ctx, "ImportScorecard", gameID.String(), func(ctx context.Context) (results.OperationResult[*ImportResult, error], error) {
		return runInTx(s, ctx, importTx)
	})
	res, err := unwrap(result, err)
	if err != nil {
		return nil, err
	}

	if res.Queued {
		if err := s.queue.EnqueueRecalculation(ctx, gameID, "scorecard import"); err != nil {
			// fall back to computing inline so the import is never left without standings
			s.logger.WarnContext(ctx, "Failed to enqueue recalculation, computing inline",
				attr.ExtractCorrelationID(ctx),
				attr.GameID(gameID.String()),
				attr.Error(err),
			)
			res.Queued = false
			view, err := s.RecalculateStandings(ctx, gameID)
			if err != nil {
				return nil, err
			}
			res.Standings = view
			return res, nil
		}
		s.metrics.RecordJobEnqueued(ctx, "recalculate_standings")
		return res, nil
	}

	s.publishStandings(ctx, res.Standings)
	return res, nil
}

func (s *GameService) importScorecardLogic(ctx context.Context, db bun.IDB, gameID uuid.UUID, filename string, data []byte) (results.OperationResult[*ImportResult, error], error) {
	parser, err := s.parsers.GetParser(filename)
	if err != nil {
		return results.FailureResult[*ImportResult, error](fmt.Errorf("%w: %v", ErrInvalidScorecard, err)), nil
	}
	card, err := parser.Parse(data)
	if err != nil {
		return results.FailureResult[*ImportResult, error](fmt.Errorf("%w: %v", ErrInvalidScorecard, err)), nil
	}

	if err := s.repo.LockGame(ctx, db, gameID); err != nil {
		if errors.Is(err, gamedb.ErrNotFound) {
			return results.FailureResult[*ImportResult, error](err), nil
		}
		return results.OperationResult[*ImportResult, error]{}, fmt.Errorf("failed to lock game: %w", err)
	}
	game, err := s.repo.GetGame(ctx, db, gameID)
	if err != nil {
		if errors.Is(err, gamedb.ErrNotFound) {
			return results.FailureResult[*ImportResult, error](err), nil
		}
		return results.OperationResult[*ImportResult, error]{}, fmt.Errorf("failed to get game: %w", err)
	}

	res, rows := matchScorecard(game, card)
	if len(res.Matched) == 0 {
		return results.FailureResult[*ImportResult, error](
			fmt.Errorf("%w: no scorecard rows match players in this game", ErrInvalidScorecard)), nil
	}

	if err := s.repo.UpsertScores(ctx, db, rows); err != nil {
		return results.OperationResult[*ImportResult, error]{}, err
	}
	res.ScoresImported = len(rows)

	if s.queue != nil {
		res.Queued = true
		return results.SuccessResult[*ImportResult, error](res), nil
	}

	recalc, err := s.recalculateLogic(ctx, db, gameID)
	if err != nil {
		return results.OperationResult[*ImportResult, error]{}, err
	}
	if recalc.IsSuccess() {
		res.Standings = *recalc.Success
	}
	return results.SuccessResult[*ImportResult, error](res), nil
}

// matchScorecard maps parsed rows onto the game's players and holes.
func matchScorecard(game *gamedb.Game, card *parsers.Scorecard) (*ImportResult, []*gamedb.HoleScore) {
	res := &ImportResult{GameID: game.ID, Matched: []gamedomain.PlayerID{}}

	pars := make(map[int]int, len(game.Holes))
	for _, h := range game.Holes {
		pars[h.HoleNumber] = h.Par
	}
	for i, par := range card.Pars {
		if want, ok := pars[i+1]; ok && want != par {
			res.ParMismatches = append(res.ParMismatches, i+1)
		}
	}

	byName := make(map[string]string, len(game.Players)*2)
	for _, p := range game.Players {
		byName[strings.ToLower(p.Name)] = p.PlayerID
		byName[strings.ToLower(p.PlayerID)] = p.PlayerID
	}

	var rows []*gamedb.HoleScore
	seen := make(map[string]bool)
	for _, row := range card.Rows {
		pid, ok := byName[strings.ToLower(strings.TrimSpace(row.PlayerName))]
		if !ok || seen[pid] {
			res.Unmatched = append(res.Unmatched, row.PlayerName)
			continue
		}
		seen[pid] = true
		res.Matched = append(res.Matched, gamedomain.PlayerID(pid))

		for i, strokes := range row.Scores {
			hole := i + 1
			if _, ok := pars[hole]; !ok || strokes <= 0 {
				continue
			}
			rows = append(rows, &gamedb.HoleScore{
				GameID:     game.ID,
				PlayerID:   pid,
				HoleNumber: hole,
				Strokes:    strokes,
			})
		}
	}
	return res, rows
}
