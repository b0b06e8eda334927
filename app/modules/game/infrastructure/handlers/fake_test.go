package gamehandlers

import (
	"context"

	gameservice "github.com/Black-And-White-Club/golf-scorecard/app/modules/game/application"
	gamedomain "github.com/Black-And-White-Club/golf-scorecard/app/modules/game/domain"
	"github.com/google/uuid"
)

// ------------------------
// Fake Game Service
// ------------------------

// FakeService provides a programmable stub for the gameservice.Service interface.
type FakeService struct {
	trace []string

	RecordScoreFunc          func(ctx context.Context, gameID uuid.UUID, playerID gamedomain.PlayerID, hole, strokes int) (*gameservice.StandingsView, error)
	ClearScoreFunc           func(ctx context.Context, gameID uuid.UUID, playerID gamedomain.PlayerID, hole int) (*gameservice.StandingsView, error)
	RecalculateStandingsFunc func(ctx context.Context, gameID uuid.UUID) (*gameservice.StandingsView, error)
}

func (f *FakeService) record(step string) {
	f.trace = append(f.trace, step)
}

// Trace returns the sequence of service methods called.
func (f *FakeService) Trace() []string {
	out := make([]string, len(f.trace))
	copy(out, f.trace)
	return out
}

func (f *FakeService) CreateGame(ctx context.Context, req gameservice.CreateGameRequest) (*gameservice.GameView, error) {
	f.record("CreateGame")
	return &gameservice.GameView{}, nil
}

func (f *FakeService) GetGame(ctx context.Context, gameID uuid.UUID) (*gameservice.GameView, error) {
	f.record("GetGame")
	return &gameservice.GameView{ID: gameID}, nil
}

func (f *FakeService) GetGameByJoinCode(ctx context.Context, code string) (*gameservice.GameView, error) {
	f.record("GetGameByJoinCode")
	return &gameservice.GameView{JoinCode: code}, nil
}

func (f *FakeService) RecordScore(ctx context.Context, gameID uuid.UUID, playerID gamedomain.PlayerID, hole, strokes int) (*gameservice.StandingsView, error) {
	f.record("RecordScore")
	if f.RecordScoreFunc != nil {
		return f.RecordScoreFunc(ctx, gameID, playerID, hole, strokes)
	}
	return &gameservice.StandingsView{GameID: gameID}, nil
}

func (f *FakeService) ClearScore(ctx context.Context, gameID uuid.UUID, playerID gamedomain.PlayerID, hole int) (*gameservice.StandingsView, error) {
	f.record("ClearScore")
	if f.ClearScoreFunc != nil {
		return f.ClearScoreFunc(ctx, gameID, playerID, hole)
	}
	return &gameservice.StandingsView{GameID: gameID}, nil
}

func (f *FakeService) GetStandings(ctx context.Context, gameID uuid.UUID) (*gameservice.StandingsView, error) {
	f.record("GetStandings")
	return &gameservice.StandingsView{GameID: gameID}, nil
}

func (f *FakeService) RecalculateStandings(ctx context.Context, gameID uuid.UUID) (*gameservice.StandingsView, error) {
	f.record("RecalculateStandings")
	if f.RecalculateStandingsFunc != nil {
		return f.RecalculateStandingsFunc(ctx, gameID)
	}
	return &gameservice.StandingsView{GameID: gameID}, nil
}

func (f *FakeService) ImportScorecard(ctx context.Context, gameID uuid.UUID, filename string, data []byte) (*gameservice.ImportResult, error) {
	f.record("ImportScorecard")
	return &gameservice.ImportResult{GameID: gameID}, nil
}

func (f *FakeService) ExportScorecard(ctx context.Context, gameID uuid.UUID) ([]byte, error) {
	f.record("ExportScorecard")
	return nil, nil
}

func (f *FakeService) RenderProgressChart(ctx context.Context, gameID uuid.UUID) ([]byte, error) {
	f.record("RenderProgressChart")
	return nil, nil
}

func (f *FakeService) ShareQRCode(ctx context.Context, gameID uuid.UUID) ([]byte, error) {
	f.record("ShareQRCode")
	return nil, nil
}

func (f *FakeService) Summary(ctx context.Context, gameID uuid.UUID) (string, error) {
	f.record("Summary")
	return "", nil
}

var _ gameservice.Service = (*FakeService)(nil)
