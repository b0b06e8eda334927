package gamehandlers

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	gameservice "github.com/Black-And-White-Club/golf-scorecard/app/modules/game/application"
	gamedomain "github.com/Black-And-White-Club/golf-scorecard/app/modules/game/domain"
	gameevents "github.com/Black-And-White-Club/golf-scorecard/app/modules/game/domain/events"
	gamedb "github.com/Black-And-White-Club/golf-scorecard/app/modules/game/infrastructure/repositories"
	"github.com/Black-And-White-Club/golf-scorecard/app/shared/handlerwrapper"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace/noop"
)

func newTestHandlers(svc *FakeService) Handlers {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewGameHandlers(svc, logger, noop.NewTracerProvider().Tracer("test"))
}

func TestGameHandlers_HandleScoreSubmitted(t *testing.T) {
	gameID := uuid.New()
	four := 4

	tests := []struct {
		name      string
		payload   *gameevents.ScoreSubmittedPayloadV1
		setup     func(f *FakeService)
		wantErr   bool
		wantTrace []string
		check     func(t *testing.T, res []handlerwrapper.Result)
	}{
		{
			name:      "records a score",
			payload:   &gameevents.ScoreSubmittedPayloadV1{GameID: gameID.String(), PlayerID: "alice", HoleNumber: 3, Strokes: &four},
			wantTrace: []string{"RecordScore"},
			check: func(t *testing.T, res []handlerwrapper.Result) {
				assert.Empty(t, res)
			},
		},
		{
			name:      "nil strokes clears the hole",
			payload:   &gameevents.ScoreSubmittedPayloadV1{GameID: gameID.String(), PlayerID: "alice", HoleNumber: 3},
			wantTrace: []string{"ClearScore"},
		},
		{
			name:    "domain rejection is answered",
			payload: &gameevents.ScoreSubmittedPayloadV1{GameID: gameID.String(), PlayerID: "zed", HoleNumber: 3, Strokes: &four},
			setup: func(f *FakeService) {
				f.RecordScoreFunc = func(context.Context, uuid.UUID, gamedomain.PlayerID, int, int) (*gameservice.StandingsView, error) {
					return nil, gamedomain.ErrUnknownPlayer
				}
			},
			wantTrace: []string{"RecordScore"},
			check: func(t *testing.T, res []handlerwrapper.Result) {
				require.Len(t, res, 1)
				assert.Equal(t, gameevents.ScoreRejectedV1, res[0].Topic)
				rejected, ok := res[0].Payload.(*gameevents.ScoreRejectedPayloadV1)
				require.True(t, ok, "unexpected payload type %T", res[0].Payload)
				assert.Equal(t, gamedomain.PlayerID("zed"), rejected.PlayerID)
				assert.Equal(t, gamedomain.ErrUnknownPlayer.Error(), rejected.Reason)
				assert.Equal(t, gameID.String(), res[0].Metadata["game_id"])
			},
		},
		{
			name:      "invalid game id is answered",
			payload:   &gameevents.ScoreSubmittedPayloadV1{GameID: "not-a-uuid", PlayerID: "alice", HoleNumber: 1, Strokes: &four},
			wantTrace: nil,
			check: func(t *testing.T, res []handlerwrapper.Result) {
				require.Len(t, res, 1)
				assert.Equal(t, "invalid game id", res[0].Payload.(*gameevents.ScoreRejectedPayloadV1).Reason)
			},
		},
		{
			name:    "infrastructure error is retried",
			payload: &gameevents.ScoreSubmittedPayloadV1{GameID: gameID.String(), PlayerID: "alice", HoleNumber: 3, Strokes: &four},
			setup: func(f *FakeService) {
				f.RecordScoreFunc = func(context.Context, uuid.UUID, gamedomain.PlayerID, int, int) (*gameservice.StandingsView, error) {
					return nil, errors.New("connection refused")
				}
			},
			wantErr:   true,
			wantTrace: []string{"RecordScore"},
		},
		{
			name:    "nil payload",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &FakeService{}
			if tt.setup != nil {
				tt.setup(svc)
			}
			res, err := newTestHandlers(svc).HandleScoreSubmitted(context.Background(), tt.payload)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, tt.wantTrace, svc.trace)
			if tt.check != nil {
				tt.check(t, res)
			}
		})
	}
}

func TestGameHandlers_HandleRecalculationRequested(t *testing.T) {
	gameID := uuid.New()

	tests := []struct {
		name      string
		payload   *gameevents.RecalculationRequestedPayloadV1
		recalcErr error
		wantErr   bool
		wantTrace []string
	}{
		{name: "recalculates", payload: &gameevents.RecalculationRequestedPayloadV1{GameID: gameID.String()}, wantTrace: []string{"RecalculateStandings"}},
		{name: "unknown game is dropped", payload: &gameevents.RecalculationRequestedPayloadV1{GameID: gameID.String()}, recalcErr: gamedb.ErrNotFound, wantTrace: []string{"RecalculateStandings"}},
		{name: "bad id is dropped", payload: &gameevents.RecalculationRequestedPayloadV1{GameID: "??"}},
		{name: "store error retries", payload: &gameevents.RecalculationRequestedPayloadV1{GameID: gameID.String()}, recalcErr: errors.New("timeout"), wantErr: true, wantTrace: []string{"RecalculateStandings"}},
		{name: "nil payload", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &FakeService{}
			if tt.recalcErr != nil {
				svc.RecalculateStandingsFunc = func(context.Context, uuid.UUID) (*gameservice.StandingsView, error) {
					return nil, tt.recalcErr
				}
			}
			res, err := newTestHandlers(svc).HandleRecalculationRequested(context.Background(), tt.payload)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				require.NoError(t, err)
			}
			assert.Empty(t, res)
			assert.Equal(t, tt.wantTrace, svc.trace)
		})
	}
}
