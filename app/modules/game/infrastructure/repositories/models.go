package gamedb

import (
	"sort"
	"time"

	gamedomain "github.com/Black-And-White-Club/golf-scorecard/app/modules/game/domain"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Game is a configured game. Format, settings, players and holes are fixed
// once the game is created.
type Game struct {
	bun.BaseModel `bun:"table:games,alias:g"`

	ID        uuid.UUID           `bun:"id,pk,type:uuid"`
	JoinCode  string              `bun:"join_code,notnull,unique"`
	Name      string              `bun:"name,notnull"`
	Format    gamedomain.Format   `bun:"format,notnull"`
	Settings  gamedomain.Settings `bun:"settings,type:jsonb"`
	TeeTime   *time.Time          `bun:"tee_time,nullzero"`
	TimeZone  string              `bun:"time_zone,nullzero"`
	CreatedBy string              `bun:"created_by,nullzero"`
	CreatedAt time.Time           `bun:",nullzero,notnull,default:current_timestamp"`
	UpdatedAt time.Time           `bun:",nullzero,notnull,default:current_timestamp"`

	Players []*GamePlayer `bun:"rel:has-many,join:id=game_id"`
	Holes   []*GameHole   `bun:"rel:has-many,join:id=game_id"`
}

// GamePlayer is one player in a game. Position keeps the configured order,
// which several formats use for tie breaks.
type GamePlayer struct {
	bun.BaseModel `bun:"table:game_players,alias:gp"`

	GameID   uuid.UUID `bun:"game_id,pk,type:uuid"`
	PlayerID string    `bun:"player_id,pk"`
	Name     string    `bun:"name,notnull"`
	Handicap *float64  `bun:"handicap"`
	Position int       `bun:"position,notnull"`
}

type GameHole struct {
	bun.BaseModel `bun:"table:game_holes,alias:gh"`

	GameID     uuid.UUID `bun:"game_id,pk,type:uuid"`
	HoleNumber int       `bun:"hole_number,pk"`
	Par        int       `bun:"par,notnull"`
}

// HoleScore is a recorded gross score. Unplayed holes have no row.
type HoleScore struct {
	bun.BaseModel `bun:"table:hole_scores,alias:hs"`

	GameID     uuid.UUID `bun:"game_id,pk,type:uuid"`
	PlayerID   string    `bun:"player_id,pk"`
	HoleNumber int       `bun:"hole_number,pk"`
	Strokes    int       `bun:"strokes,notnull"`
	UpdatedAt  time.Time `bun:",nullzero,notnull,default:current_timestamp"`
}

// StandingsSnapshot stores a computed result. Versions increase by one per
// recompute of a game.
type StandingsSnapshot struct {
	bun.BaseModel `bun:"table:standings_snapshots,alias:ss"`

	GameID    uuid.UUID            `bun:"game_id,pk,type:uuid"`
	Version   int64                `bun:"version,pk"`
	Format    gamedomain.Format    `bun:"format,notnull"`
	Standings gamedomain.Standings `bun:"standings,type:jsonb"`
	CreatedAt time.Time            `bun:",nullzero,notnull,default:current_timestamp"`
}

// DomainConfig converts the stored game into the engine's configuration.
func (g *Game) DomainConfig() gamedomain.GameConfig {
	players := make([]*GamePlayer, len(g.Players))
	copy(players, g.Players)
	sort.SliceStable(players, func(i, j int) bool { return players[i].Position < players[j].Position })

	cfg := gamedomain.GameConfig{
		Format:   g.Format,
		Name:     g.Name,
		Settings: g.Settings,
		Players:  make([]gamedomain.Player, 0, len(players)),
	}
	for _, p := range players {
		cfg.Players = append(cfg.Players, gamedomain.Player{
			ID:       gamedomain.PlayerID(p.PlayerID),
			Name:     p.Name,
			Handicap: p.Handicap,
		})
	}
	return cfg
}

// DomainHoles returns the game's holes in ascending order.
func (g *Game) DomainHoles() []gamedomain.Hole {
	holes := make([]gamedomain.Hole, 0, len(g.Holes))
	for _, h := range g.Holes {
		holes = append(holes, gamedomain.Hole{Number: h.HoleNumber, Par: h.Par})
	}
	sort.Slice(holes, func(i, j int) bool { return holes[i].Number < holes[j].Number })
	return holes
}

// ScoreTableFrom builds a score table from stored rows.
func ScoreTableFrom(rows []*HoleScore) gamedomain.ScoreTable {
	table := make(gamedomain.ScoreTable)
	for _, r := range rows {
		pid := gamedomain.PlayerID(r.PlayerID)
		if table[pid] == nil {
			table[pid] = make(map[int]gamedomain.HoleScore)
		}
		table[pid][r.HoleNumber] = gamedomain.Played(r.Strokes)
	}
	return table
}
