package gameservice

import (
	"context"
	"sync"

	gamedb "github.com/Black-And-White-Club/golf-scorecard/app/modules/game/infrastructure/repositories"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// ------------------------
// Fake Game Repository
// ------------------------

type FakeGameRepo struct {
	trace []string

	CreateGameFunc        func(ctx context.Context, db bun.IDB, game *gamedb.Game) error
	GetGameFunc           func(ctx context.Context, db bun.IDB, gameID uuid.UUID) (*gamedb.Game, error)
	LockGameFunc          func(ctx context.Context, db bun.IDB, gameID uuid.UUID) error
	GetGameByJoinCodeFunc func(ctx context.Context, db bun.IDB, code string) (*gamedb.Game, error)
	ListScoresFunc        func(ctx context.Context, db bun.IDB, gameID uuid.UUID) ([]*gamedb.HoleScore, error)
	UpsertScoresFunc      func(ctx context.Context, db bun.IDB, scores []*gamedb.HoleScore) error
	DeleteScoreFunc       func(ctx context.Context, db bun.IDB, gameID uuid.UUID, playerID string, hole int) error
	SaveSnapshotFunc      func(ctx context.Context, db bun.IDB, snapshot *gamedb.StandingsSnapshot) error
	LatestSnapshotFunc    func(ctx context.Context, db bun.IDB, gameID uuid.UUID) (*gamedb.StandingsSnapshot, error)
}

func (f *FakeGameRepo) Trace() []string {
	return f.trace
}

func (f *FakeGameRepo) record(step string) {
	f.trace = append(f.trace, step)
}

func (f *FakeGameRepo) CreateGame(ctx context.Context, db bun.IDB, game *gamedb.Game) error {
	f.record("CreateGame")
	if f.CreateGameFunc != nil {
		return f.CreateGameFunc(ctx, db, game)
	}
	return nil
}

func (f *FakeGameRepo) GetGame(ctx context.Context, db bun.IDB, gameID uuid.UUID) (*gamedb.Game, error) {
	f.record("GetGame")
	if f.GetGameFunc != nil {
		return f.GetGameFunc(ctx, db, gameID)
	}
	return nil, gamedb.ErrNotFound
}

func (f *FakeGameRepo) LockGame(ctx context.Context, db bun.IDB, gameID uuid.UUID) error {
	f.record("LockGame")
	if f.LockGameFunc != nil {
		return f.LockGameFunc(ctx, db, gameID)
	}
	return nil
}

func (f *FakeGameRepo) GetGameByJoinCode(ctx context.Context, db bun.IDB, code string) (*gamedb.Game, error) {
	f.record("GetGameByJoinCode")
	if f.GetGameByJoinCodeFunc != nil {
		return f.GetGameByJoinCodeFunc(ctx, db, code)
	}
	return nil, gamedb.ErrNotFound
}

func (f *FakeGameRepo) ListScores(ctx context.Context, db bun.IDB, gameID uuid.UUID) ([]*gamedb.HoleScore, error) {
	f.record("ListScores")
	if f.ListScoresFunc != nil {
		return f.ListScoresFunc(ctx, db, gameID)
	}
	return nil, nil
}

func (f *FakeGameRepo) UpsertScores(ctx context.Context, db bun.IDB, scores []*gamedb.HoleScore) error {
	f.record("UpsertScores")
	if f.UpsertScoresFunc != nil {
		return f.UpsertScoresFunc(ctx, db, scores)
	}
	return nil
}

func (f *FakeGameRepo) DeleteScore(ctx context.Context, db bun.IDB, gameID uuid.UUID, playerID string, hole int) error {
	f.record("DeleteScore")
	if f.DeleteScoreFunc != nil {
		return f.DeleteScoreFunc(ctx, db, gameID, playerID, hole)
	}
	return nil
}

func (f *FakeGameRepo) SaveSnapshot(ctx context.Context, db bun.IDB, snapshot *gamedb.StandingsSnapshot) error {
	f.record("SaveSnapshot")
	if f.SaveSnapshotFunc != nil {
		return f.SaveSnapshotFunc(ctx, db, snapshot)
	}
	return nil
}

func (f *FakeGameRepo) LatestSnapshot(ctx context.Context, db bun.IDB, gameID uuid.UUID) (*gamedb.StandingsSnapshot, error) {
	f.record("LatestSnapshot")
	if f.LatestSnapshotFunc != nil {
		return f.LatestSnapshotFunc(ctx, db, gameID)
	}
	return nil, gamedb.ErrNotFound
}

var _ gamedb.Repository = (*FakeGameRepo)(nil)

// ------------------------
// Fake Recalculation Queue
// ------------------------

type FakeQueue struct {
	trace []string

	EnqueueRecalculationFunc func(ctx context.Context, gameID uuid.UUID, reason string) error
}

func (f *FakeQueue) Trace() []string {
	return f.trace
}

func (f *FakeQueue) EnqueueRecalculation(ctx context.Context, gameID uuid.UUID, reason string) error {
	f.trace = append(f.trace, "EnqueueRecalculation")
	if f.EnqueueRecalculationFunc != nil {
		return f.EnqueueRecalculationFunc(ctx, gameID, reason)
	}
	return nil
}

// ------------------------
// Fake Publisher
// ------------------------

type FakePublisher struct {
	mu       sync.Mutex
	messages map[string][]*message.Message

	PublishFunc func(topic string, messages ...*message.Message) error
}

func (f *FakePublisher) Publish(topic string, messages ...*message.Message) error {
	if f.PublishFunc != nil {
		return f.PublishFunc(topic, messages...)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.messages == nil {
		f.messages = make(map[string][]*message.Message)
	}
	f.messages[topic] = append(f.messages[topic], messages...)
	return nil
}

func (f *FakePublisher) Close() error { return nil }

func (f *FakePublisher) Messages(topic string) []*message.Message {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.messages[topic]
}
