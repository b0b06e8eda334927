package gamedomain

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummarize(t *testing.T) {
	scores := card(map[PlayerID][]int{"alice": {4, 3, 5}, "bob": {4, 4, 4}})

	tests := []struct {
		name     string
		cfg      GameConfig
		contains []string
	}{
		{
			name: "skins",
			cfg:  GameConfig{Format: FormatSkins, Name: "Sunday", Players: twoPlayers()},
			contains: []string{
				"Sunday - Skins",
				"Alice: 2 skins ($10.00)",
				"Bob: 1 skins ($5.00)",
				"Carried holes: 1",
			},
		},
		{
			name: "match play",
			cfg:  GameConfig{Format: FormatMatchPlay, Players: twoPlayers()},
			contains: []string{
				"Game - Match Play",
				"All Square",
				"Thru 3, 0 to play",
				"Match halved",
			},
		},
		{
			name: "stroke play",
			cfg:  GameConfig{Format: FormatStrokePlay, Players: twoPlayers()},
			contains: []string{
				"1. Alice 12 (E) thru 3",
				"2. Bob 12 (E) thru 3",
			},
		},
		{
			name:     "nassau",
			cfg:      GameConfig{Format: FormatNassau, Players: twoPlayers(), Settings: Settings{FrontBet: ptr(5.0)}},
			contains: []string{"Front: All Square (thru 3) $5.00", "Back: All Square (thru 0)"},
		},
		{
			name:     "misconfigured",
			cfg:      GameConfig{Format: FormatNassau, Players: twoPlayers()[:1]},
			contains: []string{"Nassau requires at least 2 players"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			standings, err := Calculate(tt.cfg, scores, flatHoles(3, 4))
			require.NoError(t, err)
			got := Summarize(tt.cfg, standings)
			for _, want := range tt.contains {
				assert.True(t, strings.Contains(got, want), "missing %q in:\n%s", want, got)
			}
		})
	}
}

func TestToParString(t *testing.T) {
	assert.Equal(t, "E", toParString(0))
	assert.Equal(t, "+3", toParString(3))
	assert.Equal(t, "-2", toParString(-2))
}
