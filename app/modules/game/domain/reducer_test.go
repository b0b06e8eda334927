package gamedomain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReduce(t *testing.T) {
	cfg := GameConfig{Format: FormatSkins, Name: "Saturday skins", Players: twoPlayers()}
	initial, err := NewState(cfg, flatHoles(3, 4), nil)
	require.NoError(t, err)
	require.NotNil(t, initial.Standings.Skins)
	assert.Equal(t, 0, initial.Standings.Skins.SkinsWon["alice"])

	t.Run("set score recomputes standings", func(t *testing.T) {
		next, err := Reduce(initial, SetScore{Player: "alice", Hole: 1, Strokes: 3})
		require.NoError(t, err)
		assert.Equal(t, 1, next.Standings.Skins.SkinsWon["alice"])
		assert.Equal(t, Played(3), next.Scores.Score("alice", 1))

		// the previous state is untouched
		assert.False(t, initial.Scores.Score("alice", 1).IsPlayed())
		assert.Equal(t, 0, initial.Standings.Skins.SkinsWon["alice"])
	})

	t.Run("clear score", func(t *testing.T) {
		s1, err := Reduce(initial, SetScore{Player: "alice", Hole: 1, Strokes: 3})
		require.NoError(t, err)
		s2, err := Reduce(s1, ClearScore{Player: "alice", Hole: 1})
		require.NoError(t, err)

		assert.False(t, s2.Scores.Score("alice", 1).IsPlayed())
		assert.Equal(t, 0, s2.Standings.Skins.SkinsWon["alice"])
		assert.True(t, s1.Scores.Score("alice", 1).IsPlayed())
	})

	t.Run("rejects bad input", func(t *testing.T) {
		tests := []struct {
			name    string
			action  Action
			wantErr error
		}{
			{"unknown player", SetScore{Player: "zed", Hole: 1, Strokes: 4}, ErrUnknownPlayer},
			{"unknown hole", SetScore{Player: "alice", Hole: 19, Strokes: 4}, ErrUnknownHole},
			{"zero strokes", SetScore{Player: "alice", Hole: 1, Strokes: 0}, ErrInvalidStrokes},
			{"clear unknown hole", ClearScore{Player: "bob", Hole: 0}, ErrUnknownHole},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				got, err := Reduce(initial, tt.action)
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Equal(t, initial.Scores, got.Scores)
			})
		}
	})
}

func TestNewStateCopiesScores(t *testing.T) {
	scores := card(map[PlayerID][]int{"alice": {4}})
	state, err := NewState(GameConfig{Format: FormatStrokePlay, Players: twoPlayers()}, flatHoles(1, 4), scores)
	require.NoError(t, err)

	scores["alice"][1] = Played(9)
	assert.Equal(t, Played(4), state.Scores.Score("alice", 1))
}
