package gameapi

import (
	"context"
	"sync"

	gameservice "github.com/Black-And-White-Club/golf-scorecard/app/modules/game/application"
	gamedomain "github.com/Black-And-White-Club/golf-scorecard/app/modules/game/domain"
	"github.com/google/uuid"
)

// ------------------------
// Fake Game Service
// ------------------------

// FakeService provides a programmable stub for the gameservice.Service interface.
type FakeService struct {
	mu    sync.Mutex
	trace []string

	CreateGameFunc      func(ctx context.Context, req gameservice.CreateGameRequest) (*gameservice.GameView, error)
	GetGameFunc         func(ctx context.Context, gameID uuid.UUID) (*gameservice.GameView, error)
	RecordScoreFunc     func(ctx context.Context, gameID uuid.UUID, playerID gamedomain.PlayerID, hole, strokes int) (*gameservice.StandingsView, error)
	GetStandingsFunc    func(ctx context.Context, gameID uuid.UUID) (*gameservice.StandingsView, error)
	ImportScorecardFunc func(ctx context.Context, gameID uuid.UUID, filename string, data []byte) (*gameservice.ImportResult, error)
	SummaryFunc         func(ctx context.Context, gameID uuid.UUID) (string, error)
}

func (f *FakeService) record(step string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.trace = append(f.trace, step)
}

// Trace returns the sequence of service methods called.
func (f *FakeService) Trace() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.trace))
	copy(out, f.trace)
	return out
}

func (f *FakeService) CreateGame(ctx context.Context, req gameservice.CreateGameRequest) (*gameservice.GameView, error) {
	f.record("CreateGame")
	if f.CreateGameFunc != nil {
		return f.CreateGameFunc(ctx, req)
	}
	return &gameservice.GameView{ID: uuid.New(), Name: req.Name}, nil
}

func (f *FakeService) GetGame(ctx context.Context, gameID uuid.UUID) (*gameservice.GameView, error) {
	f.record("GetGame")
	if f.GetGameFunc != nil {
		return f.GetGameFunc(ctx, gameID)
	}
	return &gameservice.GameView{ID: gameID, Format: gamedomain.FormatSkins}, nil
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
	return &gameservice.StandingsView{GameID: gameID}, nil
}

func (f *FakeService) GetStandings(ctx context.Context, gameID uuid.UUID) (*gameservice.StandingsView, error) {
	f.record("GetStandings")
	if f.GetStandingsFunc != nil {
		return f.GetStandingsFunc(ctx, gameID)
	}
	return &gameservice.StandingsView{GameID: gameID, Version: 1}, nil
}

func (f *FakeService) RecalculateStandings(ctx context.Context, gameID uuid.UUID) (*gameservice.StandingsView, error) {
	f.record("RecalculateStandings")
	return &gameservice.StandingsView{GameID: gameID}, nil
}

func (f *FakeService) ImportScorecard(ctx context.Context, gameID uuid.UUID, filename string, data []byte) (*gameservice.ImportResult, error) {
	f.record("ImportScorecard")
	if f.ImportScorecardFunc != nil {
		return f.ImportScorecardFunc(ctx, gameID, filename, data)
	}
	return &gameservice.ImportResult{GameID: gameID}, nil
}

func (f *FakeService) ExportScorecard(ctx context.Context, gameID uuid.UUID) ([]byte, error) {
	f.record("ExportScorecard")
	return []byte("PK\x03\x04"), nil
}

func (f *FakeService) RenderProgressChart(ctx context.Context, gameID uuid.UUID) ([]byte, error) {
	f.record("RenderProgressChart")
	return []byte("\x89PNG"), nil
}

func (f *FakeService) ShareQRCode(ctx context.Context, gameID uuid.UUID) ([]byte, error) {
	f.record("ShareQRCode")
	return []byte("\x89PNG"), nil
}

func (f *FakeService) Summary(ctx context.Context, gameID uuid.UUID) (string, error) {
	f.record("Summary")
	if f.SummaryFunc != nil {
		return f.SummaryFunc(ctx, gameID)
	}
	return "", nil
}

var _ gameservice.Service = (*FakeService)(nil)
