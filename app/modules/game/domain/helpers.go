package gamedomain

import (
	"errors"
	"fmt"
	"math"
	"sort"
)

var (
	ErrUnknownFormat  = errors.New("unknown game format")
	ErrUnknownPlayer  = errors.New("player is not in this game")
	ErrUnknownHole    = errors.New("hole is not on this course")
	ErrInvalidStrokes = errors.New("strokes must be a positive integer")
)

// Halved marks a hole neither player won.
const Halved = "halved"

// sortedHoles returns a copy of holes in ascending hole-number order.
func sortedHoles(holes []Hole) []Hole {
	out := make([]Hole, len(holes))
	copy(out, holes)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Number < out[j].Number })
	return out
}

// roundHalfUp rounds .5 toward positive infinity, the same way the mobile
// client rounds handicap allowances.
func roundHalfUp(x float64) int {
	return int(math.Floor(x + 0.5))
}

// handicapOf returns the player's handicap and whether one is set.
func handicapOf(p Player) (float64, bool) {
	if p.Handicap == nil {
		return 0, false
	}
	return *p.Handicap, true
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

// matchStatus formats a two-sided running match. lead is the leader's
// margin; leaderName is ignored when lead is zero.
func matchStatus(leaderName string, lead, remaining int) string {
	switch {
	case lead == 0:
		return "All Square"
	case lead > remaining:
		return fmt.Sprintf("%s wins %d&%d", leaderName, lead, remaining)
	case lead == remaining:
		return fmt.Sprintf("%s %d UP (dormie)", leaderName, lead)
	default:
		return fmt.Sprintf("%s %d UP", leaderName, lead)
	}
}

// pairResult compares two net scores and returns the hole winner id or Halved.
func pairResult(p1, p2 Player, net1, net2 int) string {
	switch {
	case net1 < net2:
		return string(p1.ID)
	case net2 < net1:
		return string(p2.ID)
	default:
		return Halved
	}
}

func ptr[T any](v T) *T { return &v }
