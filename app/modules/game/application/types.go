package gameservice

import (
	"time"

	gamedomain "github.com/Black-And-White-Club/golf-scorecard/app/modules/game/domain"
	"github.com/google/uuid"
)

// CreateGameRequest describes a new game. Holes default to an 18-hole par 72
// layout when empty. TeeTime accepts natural language such as "tomorrow at 9am"
// interpreted in TimeZone.
type CreateGameRequest struct {
	Name      string              `json:"name"`
	Format    string              `json:"format"`
	Settings  gamedomain.Settings `json:"settings"`
	Players   []gamedomain.Player `json:"players"`
	Holes     []gamedomain.Hole   `json:"holes,omitempty"`
	TeeTime   string              `json:"tee_time,omitempty"`
	TimeZone  string              `json:"time_zone,omitempty"`
	CreatedBy string              `json:"-"`
}

type GameView struct {
	ID        uuid.UUID           `json:"id"`
	JoinCode  string              `json:"join_code"`
	Name      string              `json:"name"`
	Format    gamedomain.Format   `json:"format"`
	Settings  gamedomain.Settings `json:"settings"`
	Players   []gamedomain.Player `json:"players"`
	Holes     []gamedomain.Hole   `json:"holes"`
	TotalPar  int                 `json:"total_par"`
	TeeTime   *time.Time          `json:"tee_time,omitempty"`
	TimeZone  string              `json:"time_zone,omitempty"`
	CreatedAt time.Time           `json:"created_at"`
}

// StandingsView is a standings snapshot together with the scores it was built from.
type StandingsView struct {
	GameID    uuid.UUID             `json:"game_id"`
	Version   int64                 `json:"version"`
	Standings gamedomain.Standings  `json:"standings"`
	Scores    gamedomain.ScoreTable `json:"scores"`
}

type ImportResult struct {
	GameID         uuid.UUID             `json:"game_id"`
	ScoresImported int                   `json:"scores_imported"`
	Matched        []gamedomain.PlayerID `json:"matched"`
	Unmatched      []string              `json:"unmatched,omitempty"`
	ParMismatches  []int                 `json:"par_mismatches,omitempty"`
	Queued         bool                  `json:"queued"`
	Standings      *StandingsView        `json:"standings,omitempty"`
}
