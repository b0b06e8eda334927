package gamedomain

import "fmt"

// SkinsHole is the outcome of a single hole.
type SkinsHole struct {
	HoleNumber int       `json:"holeNumber"`
	Winner     *PlayerID `json:"winner,omitempty"`
	Skins      int       `json:"skins"`
	Carried    bool      `json:"carried"`
	Field      int       `json:"field"`
}

type SkinsResult struct {
	SkinsWon     map[PlayerID]int     `json:"skinsWon"`
	Winnings     map[PlayerID]float64 `json:"winnings"`
	Holes        []SkinsHole          `json:"holes"`
	CarriedHoles []int                `json:"carriedHoles"`
	TotalCarried int                  `json:"totalCarried"`
	SkinValue    float64              `json:"skinValue"`
	CarryOver    bool                 `json:"carryOver"`
	Status       string               `json:"status"`
}

// CalculateSkins awards each hole to its sole low scorer among the players
// who have posted a score there. Ties carry the skin forward when carry-over
// is on and forfeit it otherwise.
func CalculateSkins(scores ScoreTable, players []Player, holes []Hole, settings SkinsSettings) SkinsResult {
	res := SkinsResult{
		SkinsWon:     make(map[PlayerID]int, len(players)),
		Winnings:     make(map[PlayerID]float64, len(players)),
		Holes:        []SkinsHole{},
		CarriedHoles: []int{},
		SkinValue:    settings.SkinValue,
		CarryOver:    settings.CarryOver,
	}
	for _, p := range players {
		res.SkinsWon[p.ID] = 0
	}

	carried := 0
	for _, hole := range sortedHoles(holes) {
		low, field := 0, 0
		var leaders []PlayerID
		for _, p := range players {
			strokes, ok := scores.Score(p.ID, hole.Number).Strokes()
			if !ok {
				continue
			}
			field++
			switch {
			case len(leaders) == 0 || strokes < low:
				low = strokes
				leaders = []PlayerID{p.ID}
			case strokes == low:
				leaders = append(leaders, p.ID)
			}
		}
		if field == 0 {
			continue
		}

		outcome := SkinsHole{HoleNumber: hole.Number, Field: field}
		if len(leaders) == 1 {
			won := 1 + carried
			res.SkinsWon[leaders[0]] += won
			outcome.Winner = ptr(leaders[0])
			outcome.Skins = won
			carried = 0
		} else if settings.CarryOver {
			carried++
			res.CarriedHoles = append(res.CarriedHoles, hole.Number)
			outcome.Carried = true
		}
		res.Holes = append(res.Holes, outcome)
	}

	for id, n := range res.SkinsWon {
		res.Winnings[id] = float64(n) * settings.SkinValue
	}
	res.TotalCarried = carried
	res.Status = skinsStatus(players, res.SkinsWon, carried)
	return res
}

func skinsStatus(players []Player, won map[PlayerID]int, carried int) string {
	if carried > 0 {
		return fmt.Sprintf("%d skins carried", carried)
	}
	if len(players) == 0 {
		return "No players"
	}
	leader := players[0]
	for _, p := range players[1:] {
		if won[p.ID] > won[leader.ID] {
			leader = p
		}
	}
	return fmt.Sprintf("%s leads with %d skins", leader.Name, won[leader.ID])
}
