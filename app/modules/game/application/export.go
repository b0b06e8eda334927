package gameservice

import (
	"context"
	"errors"
	"fmt"
	"strings"

	gamedomain "github.com/Black-And-White-Club/golf-scorecard/app/modules/game/domain"
	gamedb "github.com/Black-And-White-Club/golf-scorecard/app/modules/game/infrastructure/repositories"
	"github.com/Black-And-White-Club/golf-scorecard/app/shared/results"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
	"github.com/xuri/excelize/v2"
)

const (
	scorecardSheet = "Scorecard"
	standingsSheet = "Standings"
)

// loadedGame is a stored game with its current engine state.
type loadedGame struct {
	game  *gamedb.Game
	state gamedomain.State
}

// readGame loads a game and computes its state under telemetry for the
// read-only render operations.
func (s *GameService) readGame(ctx context.Context, operationName string, gameID uuid.UUID) (*loadedGame, error) {
	readTx := func(ctx context.Context, db bun.IDB) (results.OperationResult[*loadedGame, error], error) {
		game, state, err := s.loadState(ctx, db, gameID)
		if err != nil {
			if errors.Is(err, gamedb.ErrNotFound) {
				return results.FailureResult[*loadedGame, error](err), nil
			}
			return results.OperationResult[*loadedGame, error]{}, err
		}
		return results.SuccessResult[*loadedGame, error](&loadedGame{game: game, state: state}), nil
	}

	result, err := withTelemetry(s, ctx, operationName, gameID.String(), func(ctx context.Context) (results.OperationResult[*loadedGame, error], error) {
		return runInTx(s, ctx, readTx)
	})
	return unwrap(result, err)
}

// ExportScorecard renders the game as an XLSX workbook. The Scorecard sheet
// uses the same layout ImportScorecard reads.
func (s *GameService) ExportScorecard(ctx context.Context, gameID uuid.UUID) ([]byte, error) {
	loaded, err := s.readGame(ctx, "ExportScorecard", gameID)
	if err != nil {
		return nil, err
	}
	return buildWorkbook(loaded.game.DomainConfig(), loaded.state)
}

// Summary returns the plain text standings summary.
func (s *GameService) Summary(ctx context.Context, gameID uuid.UUID) (string, error) {
	loaded, err := s.readGame(ctx, "Summary", gameID)
	if err != nil {
		return "", err
	}
	return gamedomain.Summarize(loaded.game.DomainConfig(), loaded.state.Standings), nil
}

func buildWorkbook(cfg gamedomain.GameConfig, state gamedomain.State) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", scorecardSheet); err != nil {
		return nil, fmt.Errorf("failed to name sheet: %w", err)
	}

	header := []any{"Player"}
	par := []any{"Par"}
	for _, h := range state.Holes {
		header = append(header, h.Number)
		par = append(par, h.Par)
	}
	header = append(header, "Total")
	par = append(par, gamedomain.TotalPar(state.Holes))

	if err := f.SetSheetRow(scorecardSheet, "A1", &header); err != nil {
		return nil, err
	}
	if err := f.SetSheetRow(scorecardSheet, "A2", &par); err != nil {
		return nil, err
	}

	for i, p := range cfg.Players {
		row := []any{p.Name}
		total := 0
		for _, h := range state.Holes {
			strokes, ok := state.Scores.Score(p.ID, h.Number).Strokes()
			if !ok {
				row = append(row, "")
				continue
			}
			total += strokes
			row = append(row, strokes)
		}
		row = append(row, total)

		cell, err := excelize.CoordinatesToCellName(1, i+3)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(scorecardSheet, cell, &row); err != nil {
			return nil, err
		}
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, err
	}
	lastHeader, err := excelize.CoordinatesToCellName(len(header), 1)
	if err != nil {
		return nil, err
	}
	if err := f.SetCellStyle(scorecardSheet, "A1", lastHeader, bold); err != nil {
		return nil, err
	}
	if err := f.SetColWidth(scorecardSheet, "A", "A", 18); err != nil {
		return nil, err
	}

	if _, err := f.NewSheet(standingsSheet); err != nil {
		return nil, fmt.Errorf("failed to add standings sheet: %w", err)
	}
	lines := strings.Split(strings.TrimRight(gamedomain.Summarize(cfg, state.Standings), "\n"), "\n")
	for i, line := range lines {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(standingsSheet, cell, line); err != nil {
			return nil, err
		}
	}
	if err := f.SetCellStyle(standingsSheet, "A1", "A1", bold); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf.Bytes(), nil
}
