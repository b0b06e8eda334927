package gamequeue

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	gameservice "github.com/Black-And-White-Club/golf-scorecard/app/modules/game/application"
	gamedb "github.com/Black-And-White-Club/golf-scorecard/app/modules/game/infrastructure/repositories"
	"github.com/google/uuid"
	"github.com/riverqueue/river"
	"github.com/riverqueue/river/rivertype"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRecalculator struct {
	calls []uuid.UUID
	err   error
}

func (f *fakeRecalculator) RecalculateStandings(_ context.Context, gameID uuid.UUID) (*gameservice.StandingsView, error) {
	f.calls = append(f.calls, gameID)
	if f.err != nil {
		return nil, f.err
	}
	return &gameservice.StandingsView{GameID: gameID, Version: 2}, nil
}

func newJob(gameID string) *river.Job[RecalculateStandingsJob] {
	return &river.Job[RecalculateStandingsJob]{
		JobRow: &rivertype.JobRow{ID: 7, Kind: RecalculateStandingsJob{}.Kind()},
		Args:   RecalculateStandingsJob{GameID: gameID, Reason: "scorecard import"},
	}
}

func TestRecalculateStandingsWorker_Work(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	gameID := uuid.New()

	tests := []struct {
		name        string
		bind        bool
		jobGameID   string
		recalcErr   error
		wantErr     bool
		wantContain string
		wantCalls   int
	}{
		{name: "recalculates", bind: true, jobGameID: gameID.String(), wantCalls: 1},
		{name: "unbound", bind: false, jobGameID: gameID.String(), wantErr: true, wantContain: "not bound"},
		{name: "invalid id is cancelled", bind: true, jobGameID: "nope", wantErr: true, wantContain: "invalid game id"},
		{name: "missing game is cancelled", bind: true, jobGameID: gameID.String(), recalcErr: gamedb.ErrNotFound, wantErr: true, wantContain: "game not found", wantCalls: 1},
		{name: "transient error retries", bind: true, jobGameID: gameID.String(), recalcErr: errors.New("deadlock"), wantErr: true, wantContain: "deadlock", wantCalls: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recalc := &fakeRecalculator{err: tt.recalcErr}
			worker := NewRecalculateStandingsWorker(logger, nil)
			if tt.bind {
				worker.SetRecalculator(recalc)
			}

			err := worker.Work(context.Background(), newJob(tt.jobGameID))
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantContain)
			} else {
				require.NoError(t, err)
			}
			assert.Len(t, recalc.calls, tt.wantCalls)
		})
	}
}

func TestRecalculateStandingsJob_Kind(t *testing.T) {
	assert.Equal(t, "recalculate_standings", RecalculateStandingsJob{}.Kind())
}
