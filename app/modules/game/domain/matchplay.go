package gamedomain

import "math"

type MatchPlayResult struct {
	Error string `json:"error,omitempty"`

	HoleResults     map[int]string   `json:"holeResults,omitempty"`
	HolesWon        map[PlayerID]int `json:"holesWon,omitempty"`
	HolesHalved     int              `json:"holesHalved"`
	HolesPlayed     int              `json:"holesPlayed"`
	HolesRemaining  int              `json:"holesRemaining"`
	MatchClosed     bool             `json:"matchClosed"`
	ClosedAtHole    int              `json:"closedAtHole,omitempty"`
	Winner          *PlayerID        `json:"winner,omitempty"`
	Leader          *PlayerID        `json:"leader,omitempty"`
	Lead            int              `json:"lead"`
	Status          string           `json:"status,omitempty"`
	HandicapStrokes int              `json:"handicapStrokes"`
	StrokeReceiver  *PlayerID        `json:"strokeReceiver,omitempty"`
	// Halved is set when every hole has been played and the match is level.
	Halved bool `json:"halved"`
	// ConcessionAllowed is stored with the game; concessions are not scored.
	ConcessionAllowed bool `json:"concessionAllowed"`
}

// CalculateMatchPlay plays the match hole by hole until it is closed out or
// reaches a hole that is missing a score.
func CalculateMatchPlay(scores ScoreTable, players []Player, holes []Hole, settings MatchPlaySettings) MatchPlayResult {
	if len(players) != 2 {
		return MatchPlayResult{Error: "Match play requires exactly 2 players"}
	}
	p1, p2 := players[0], players[1]
	ordered := sortedHoles(holes)

	res := MatchPlayResult{
		HoleResults:       make(map[int]string),
		HolesWon:          map[PlayerID]int{p1.ID: 0, p2.ID: 0},
		HolesRemaining:    len(ordered),
		Status:            matchStatus("", 0, 0),
		ConcessionAllowed: settings.ConcessionAllowed,
	}

	var receiver PlayerID
	if settings.UseHandicaps {
		h1, _ := handicapOf(p1)
		h2, _ := handicapOf(p2)
		res.HandicapStrokes = roundHalfUp(math.Abs(h1 - h2))
		if res.HandicapStrokes > 0 {
			receiver = p1.ID
			if h2 > h1 {
				receiver = p2.ID
			}
			res.StrokeReceiver = ptr(receiver)
		}
	}

	for i, hole := range ordered {
		s1, ok1 := scores.Score(p1.ID, hole.Number).Strokes()
		s2, ok2 := scores.Score(p2.ID, hole.Number).Strokes()
		if !ok1 || !ok2 {
			break
		}
		if i < res.HandicapStrokes {
			switch receiver {
			case p1.ID:
				s1--
			case p2.ID:
				s2--
			}
		}

		outcome := pairResult(p1, p2, s1, s2)
		res.HoleResults[hole.Number] = outcome
		switch outcome {
		case Halved:
			res.HolesHalved++
		default:
			res.HolesWon[PlayerID(outcome)]++
		}
		res.HolesPlayed++
		res.HolesRemaining = len(ordered) - res.HolesPlayed

		diff := res.HolesWon[p1.ID] - res.HolesWon[p2.ID]
		res.Lead = abs(diff)
		leader := p1
		switch {
		case diff > 0:
			res.Leader = ptr(p1.ID)
		case diff < 0:
			leader = p2
			res.Leader = ptr(p2.ID)
		default:
			res.Leader = nil
		}
		res.Status = matchStatus(leader.Name, res.Lead, res.HolesRemaining)

		if res.Lead > res.HolesRemaining {
			res.MatchClosed = true
			res.ClosedAtHole = hole.Number
			res.Winner = ptr(leader.ID)
			break
		}
	}

	res.Halved = !res.MatchClosed && res.HolesRemaining == 0 && res.Lead == 0 && res.HolesPlayed > 0
	return res
}
