package gamedomain

import (
	"math"
	"sort"
)

// StablefordPlayer is one player's points card.
type StablefordPlayer struct {
	PlayerID    PlayerID    `json:"playerId"`
	Name        string      `json:"name"`
	TotalPoints int         `json:"totalPoints"`
	HolesPlayed int         `json:"holesPlayed"`
	Points      map[int]int `json:"points"`
}

type StablefordResult struct {
	Players     map[PlayerID]*StablefordPlayer `json:"players"`
	Leaderboard []StablefordPlayer             `json:"leaderboard"`
}

// CalculateStableford awards points per hole relative to par. Unplayed holes
// are worth nothing and are not counted against the player.
func CalculateStableford(scores ScoreTable, players []Player, holes []Hole, settings StablefordSettings) StablefordResult {
	res := StablefordResult{
		Players:     make(map[PlayerID]*StablefordPlayer, len(players)),
		Leaderboard: make([]StablefordPlayer, 0, len(players)),
	}
	ordered := sortedHoles(holes)

	for _, p := range players {
		card := &StablefordPlayer{PlayerID: p.ID, Name: p.Name, Points: make(map[int]int)}
		hcp, hasHcp := handicapOf(p)
		useHcp := settings.UseHandicaps && hasHcp

		for _, hole := range ordered {
			gross, ok := scores.Score(p.ID, hole.Number).Strokes()
			if !ok {
				card.Points[hole.Number] = 0
				continue
			}
			net := gross
			if useHcp {
				net -= stablefordStrokes(hcp, hole.Number)
			}
			pts := settings.points(net - hole.Par)
			card.Points[hole.Number] = pts
			card.TotalPoints += pts
			card.HolesPlayed++
		}
		res.Players[p.ID] = card
		res.Leaderboard = append(res.Leaderboard, *card)
	}

	sort.SliceStable(res.Leaderboard, func(i, j int) bool {
		return res.Leaderboard[i].TotalPoints > res.Leaderboard[j].TotalPoints
	})
	return res
}

// stablefordStrokes spreads the handicap over the course by raw hole number:
// every hole gets floor(h/18) and the lowest-numbered holes take the remainder.
func stablefordStrokes(handicap float64, hole int) int {
	strokes := int(math.Floor(handicap / 18))
	if float64(hole) <= math.Mod(handicap, 18) {
		strokes++
	}
	return strokes
}

func (s StablefordSettings) points(toPar int) int {
	switch {
	case toPar <= -2:
		return s.EaglePoints
	case toPar == -1:
		return s.BirdiePoints
	case toPar == 0:
		return s.ParPoints
	case toPar == 1:
		return s.BogeyPoints
	default:
		return 0
	}
}
