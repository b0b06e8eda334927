package gamedomain

func hcp(v float64) *float64 { return &v }

func twoPlayers() []Player {
	return []Player{
		{ID: "alice", Name: "Alice"},
		{ID: "bob", Name: "Bob"},
	}
}

func flatHoles(n, par int) []Hole {
	holes := make([]Hole, n)
	for i := range holes {
		holes[i] = Hole{Number: i + 1, Par: par}
	}
	return holes
}

// card builds a score table from per-player stroke slices starting at hole 1.
// Zero entries are left unplayed.
func card(rows map[PlayerID][]int) ScoreTable {
	t := make(ScoreTable, len(rows))
	for id, strokes := range rows {
		t[id] = make(map[int]HoleScore, len(strokes))
		for i, s := range strokes {
			if s > 0 {
				t[id][i+1] = Played(s)
			}
		}
	}
	return t
}

func repeat(n, v int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = v
	}
	return out
}
