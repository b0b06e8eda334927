package gamedomain

const (
	SegmentFront   = "front"
	SegmentBack    = "back"
	SegmentOverall = "overall"
)

// NassauSegment is one of the three independent matches.
type NassauSegment struct {
	Name           string           `json:"name"`
	FirstHole      int              `json:"firstHole"`
	LastHole       int              `json:"lastHole"`
	HolesWon       map[PlayerID]int `json:"holesWon"`
	HolesLost      map[PlayerID]int `json:"holesLost"`
	HolesTied      int              `json:"holesTied"`
	Thru           int              `json:"thru"`
	HolesRemaining int              `json:"holesRemaining"`
	Leader         *PlayerID        `json:"leader,omitempty"`
	Lead           int              `json:"lead"`
	Status         string           `json:"status"`
	Winner         *PlayerID        `json:"winner,omitempty"`
	Bet            float64          `json:"bet"`

	size    int
	stalled bool
}

// NassauPairing lists a head-to-head the app would need for more than two
// players. Pairings are recorded but never scored.
type NassauPairing struct {
	Player1 PlayerID `json:"player1"`
	Player2 PlayerID `json:"player2"`
}

type NassauResult struct {
	Error    string          `json:"error,omitempty"`
	Pairings []NassauPairing `json:"pairings,omitempty"`

	Front   *NassauSegment `json:"front,omitempty"`
	Back    *NassauSegment `json:"back,omitempty"`
	Overall *NassauSegment `json:"overall,omitempty"`

	HoleResults map[int]string `json:"holeResults,omitempty"`
	// StrokesPerHole is the flat handicap adjustment applied to each player.
	StrokesPerHole map[PlayerID]int `json:"strokesPerHole,omitempty"`
	Presses        bool             `json:"presses"`
}

// CalculateNassau scores front nine, back nine and overall as three separate
// two-player matches.
func CalculateNassau(scores ScoreTable, players []Player, holes []Hole, settings NassauSettings) NassauResult {
	if len(players) < 2 {
		return NassauResult{Error: "Nassau requires at least 2 players"}
	}
	if len(players) > 2 {
		res := NassauResult{Error: "Nassau supports exactly 2 players"}
		for i := 0; i < len(players); i++ {
			for j := i + 1; j < len(players); j++ {
				res.Pairings = append(res.Pairings, NassauPairing{Player1: players[i].ID, Player2: players[j].ID})
			}
		}
		return res
	}

	p1, p2 := players[0], players[1]
	adj := map[PlayerID]int{p1.ID: 0, p2.ID: 0}
	if settings.UseHandicaps {
		h1, ok1 := handicapOf(p1)
		h2, ok2 := handicapOf(p2)
		if ok1 && ok2 {
			switch {
			case h1 > h2:
				adj[p1.ID] = 1
			case h2 > h1:
				adj[p2.ID] = 1
			}
		}
	}

	ordered := sortedHoles(holes)
	front := newNassauSegment(SegmentFront, 1, 9, settings.FrontBet, ordered, p1, p2)
	back := newNassauSegment(SegmentBack, 10, 18, settings.BackBet, ordered, p1, p2)
	overall := newNassauSegment(SegmentOverall, 1, 18, settings.OverallBet, ordered, p1, p2)
	segments := []*NassauSegment{front, back, overall}

	res := NassauResult{
		Front:          front,
		Back:           back,
		Overall:        overall,
		HoleResults:    make(map[int]string),
		StrokesPerHole: adj,
		Presses:        settings.Presses,
	}

	for _, hole := range ordered {
		s1, ok1 := scores.Score(p1.ID, hole.Number).Strokes()
		s2, ok2 := scores.Score(p2.ID, hole.Number).Strokes()
		complete := ok1 && ok2

		var outcome string
		if complete {
			outcome = pairResult(p1, p2, s1-adj[p1.ID], s2-adj[p2.ID])
			res.HoleResults[hole.Number] = outcome
		}

		for _, seg := range segments {
			if !seg.contains(hole.Number) || seg.stalled {
				continue
			}
			if !complete {
				seg.stalled = true
				continue
			}
			seg.record(outcome, p1, p2)
		}
	}
	return res
}

func newNassauSegment(name string, first, last int, bet float64, holes []Hole, p1, p2 Player) *NassauSegment {
	seg := &NassauSegment{
		Name:      name,
		FirstHole: first,
		LastHole:  last,
		HolesWon:  map[PlayerID]int{p1.ID: 0, p2.ID: 0},
		HolesLost: map[PlayerID]int{p1.ID: 0, p2.ID: 0},
		Bet:       bet,
		Status:    matchStatus("", 0, 0),
	}
	for _, h := range holes {
		if seg.contains(h.Number) {
			seg.size++
		}
	}
	seg.HolesRemaining = seg.size
	return seg
}

func (s *NassauSegment) contains(hole int) bool {
	return hole >= s.FirstHole && hole <= s.LastHole
}

func (s *NassauSegment) record(outcome string, p1, p2 Player) {
	s.Thru++
	switch outcome {
	case string(p1.ID):
		s.HolesWon[p1.ID]++
		s.HolesLost[p2.ID]++
	case string(p2.ID):
		s.HolesWon[p2.ID]++
		s.HolesLost[p1.ID]++
	default:
		s.HolesTied++
	}
	s.HolesRemaining = s.size - s.Thru

	diff := s.HolesWon[p1.ID] - s.HolesWon[p2.ID]
	s.Lead = abs(diff)
	leader := p1
	switch {
	case diff > 0:
		s.Leader = ptr(p1.ID)
	case diff < 0:
		leader = p2
		s.Leader = ptr(p2.ID)
	default:
		s.Leader = nil
	}

	// A clinched segment keeps counting holes but its result is settled.
	if s.Winner != nil {
		return
	}
	s.Status = matchStatus(leader.Name, s.Lead, s.HolesRemaining)
	if s.Lead > s.HolesRemaining {
		s.Winner = ptr(leader.ID)
	}
}
