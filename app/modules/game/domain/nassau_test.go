package gamedomain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculateNassauSegmentIndependence(t *testing.T) {
	alice := append(repeat(9, 3), repeat(9, 5)...)
	bob := repeat(18, 4)
	scores := card(map[PlayerID][]int{"alice": alice, "bob": bob})

	got := CalculateNassau(scores, twoPlayers(), flatHoles(18, 4), NassauSettings{FrontBet: 10, BackBet: 10, OverallBet: 20})
	require.Empty(t, got.Error)

	require.NotNil(t, got.Front.Winner)
	assert.Equal(t, PlayerID("alice"), *got.Front.Winner)
	assert.Equal(t, "Alice wins 5&4", got.Front.Status)
	assert.Equal(t, 9, got.Front.HolesWon["alice"])
	assert.Equal(t, 0, got.Front.HolesWon["bob"])
	assert.Equal(t, 9, got.Front.HolesLost["bob"])

	require.NotNil(t, got.Back.Winner)
	assert.Equal(t, PlayerID("bob"), *got.Back.Winner)
	assert.Equal(t, "Bob wins 5&4", got.Back.Status)
	assert.Equal(t, 0, got.Back.HolesWon["alice"])
	assert.Equal(t, 9, got.Back.HolesWon["bob"])

	assert.Equal(t, 9, got.Overall.HolesWon["alice"])
	assert.Equal(t, 9, got.Overall.HolesWon["bob"])
	assert.Equal(t, 0, got.Overall.Lead)
	assert.Nil(t, got.Overall.Winner)
	assert.Equal(t, "All Square", got.Overall.Status)
	assert.Equal(t, 20.0, got.Overall.Bet)
}

func TestCalculateNassauStatus(t *testing.T) {
	tests := []struct {
		name       string
		alice      []int
		bob        []int
		wantFront  string
		wantThru   int
		wantRemain int
	}{
		{
			name:       "all square before a ball is struck",
			wantFront:  "All Square",
			wantThru:   0,
			wantRemain: 9,
		},
		{
			name:       "one up",
			alice:      []int{3, 4},
			bob:        []int{4, 4},
			wantFront:  "Alice 1 UP",
			wantThru:   2,
			wantRemain: 7,
		},
		{
			name:       "dormie",
			alice:      []int{4, 4, 4, 4, 4, 4, 4, 4},
			bob:        []int{5, 4, 4, 4, 4, 4, 4, 4},
			wantFront:  "Alice 1 UP (dormie)",
			wantThru:   8,
			wantRemain: 1,
		},
		{
			name:       "trailing player leads",
			alice:      []int{5, 5},
			bob:        []int{4, 4},
			wantFront:  "Bob 2 UP",
			wantThru:   2,
			wantRemain: 7,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			scores := card(map[PlayerID][]int{"alice": tt.alice, "bob": tt.bob})
			got := CalculateNassau(scores, twoPlayers(), flatHoles(18, 4), NassauSettings{})
			assert.Equal(t, tt.wantFront, got.Front.Status)
			assert.Equal(t, tt.wantThru, got.Front.Thru)
			assert.Equal(t, tt.wantRemain, got.Front.HolesRemaining)
		})
	}
}

func TestCalculateNassauPlayerCount(t *testing.T) {
	t.Run("one player", func(t *testing.T) {
		got := CalculateNassau(nil, twoPlayers()[:1], flatHoles(18, 4), NassauSettings{})
		assert.Equal(t, "Nassau requires at least 2 players", got.Error)
		assert.Nil(t, got.Front)
	})

	t.Run("three players lists pairings only", func(t *testing.T) {
		players := append(twoPlayers(), Player{ID: "carol", Name: "Carol"})
		got := CalculateNassau(nil, players, flatHoles(18, 4), NassauSettings{})
		assert.Equal(t, "Nassau supports exactly 2 players", got.Error)
		assert.Equal(t, []NassauPairing{
			{Player1: "alice", Player2: "bob"},
			{Player1: "alice", Player2: "carol"},
			{Player1: "bob", Player2: "carol"},
		}, got.Pairings)
		assert.Nil(t, got.Overall)
	})
}

func TestCalculateNassauHandicap(t *testing.T) {
	players := []Player{
		{ID: "alice", Name: "Alice", Handicap: hcp(12)},
		{ID: "bob", Name: "Bob", Handicap: hcp(4)},
	}
	scores := card(map[PlayerID][]int{"alice": repeat(18, 5), "bob": repeat(18, 4)})

	t.Run("higher handicap gets a stroke on every hole", func(t *testing.T) {
		got := CalculateNassau(scores, players, flatHoles(18, 4), NassauSettings{UseHandicaps: true})
		assert.Equal(t, 9, got.Front.HolesTied)
		assert.Equal(t, "All Square", got.Overall.Status)
		assert.Equal(t, 1, got.StrokesPerHole["alice"])
		assert.Equal(t, 0, got.StrokesPerHole["bob"])
		assert.Equal(t, Halved, got.HoleResults[1])
	})

	t.Run("ignored when disabled", func(t *testing.T) {
		got := CalculateNassau(scores, players, flatHoles(18, 4), NassauSettings{})
		assert.Equal(t, "Bob wins 5&4", got.Front.Status)
	})

	t.Run("ignored when one handicap is missing", func(t *testing.T) {
		partial := []Player{players[0], {ID: "bob", Name: "Bob"}}
		got := CalculateNassau(scores, partial, flatHoles(18, 4), NassauSettings{UseHandicaps: true})
		assert.Equal(t, 0, got.StrokesPerHole["alice"])
		assert.Equal(t, "bob", got.HoleResults[1])
	})
}

func TestCalculateNassauStopsAtIncompleteHole(t *testing.T) {
	bob := repeat(18, 4)
	bob[2] = 0
	scores := card(map[PlayerID][]int{"alice": repeat(18, 3), "bob": bob})

	got := CalculateNassau(scores, twoPlayers(), flatHoles(18, 4), NassauSettings{})
	assert.Equal(t, 2, got.Front.Thru)
	assert.Equal(t, 2, got.Overall.Thru)
	assert.Equal(t, 9, got.Back.Thru)
	assert.NotContains(t, got.HoleResults, 3)
	assert.Equal(t, "alice", got.HoleResults[4])
}

func TestCalculateNassauPartialRound(t *testing.T) {
	scores := card(map[PlayerID][]int{"alice": repeat(9, 4), "bob": repeat(9, 4)})

	got := CalculateNassau(scores, twoPlayers(), flatHoles(18, 4), NassauSettings{})
	assert.Equal(t, 9, got.Front.Thru)
	assert.Equal(t, 0, got.Back.Thru)
	assert.Equal(t, 9, got.Back.HolesRemaining)
	assert.Equal(t, "All Square", got.Back.Status)
	assert.Equal(t, 9, got.Overall.HolesRemaining)
}
