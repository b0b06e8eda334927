package gamedomain

import (
	"fmt"
	"strings"
)

var formatTitles = map[Format]string{
	FormatSkins:      "Skins",
	FormatNassau:     "Nassau",
	FormatStableford: "Stableford",
	FormatMatchPlay:  "Match Play",
	FormatStrokePlay: "Stroke Play",
}

// Title is the display name of the format.
func (f Format) Title() string {
	if t, ok := formatTitles[f]; ok {
		return t
	}
	return string(f)
}

// Summarize renders standings as plain text suitable for sharing.
func Summarize(cfg GameConfig, standings Standings) string {
	var b strings.Builder
	name := cfg.Name
	if name == "" {
		name = "Game"
	}
	fmt.Fprintf(&b, "%s - %s\n", name, standings.Format.Title())

	if msg := standings.Error(); msg != "" {
		fmt.Fprintf(&b, "%s\n", msg)
		return b.String()
	}

	names := make(map[PlayerID]string, len(cfg.Players))
	for _, p := range cfg.Players {
		names[p.ID] = p.Name
	}
	nameOf := func(id *PlayerID) string {
		if id == nil {
			return ""
		}
		if n, ok := names[*id]; ok {
			return n
		}
		return id.String()
	}

	switch {
	case standings.Skins != nil:
		r := standings.Skins
		fmt.Fprintf(&b, "%s\n", r.Status)
		for _, p := range cfg.Players {
			fmt.Fprintf(&b, "%s: %d skins ($%.2f)\n", p.Name, r.SkinsWon[p.ID], r.Winnings[p.ID])
		}
		if len(r.CarriedHoles) > 0 {
			fmt.Fprintf(&b, "Carried holes: %s\n", joinInts(r.CarriedHoles))
		}
	case standings.Nassau != nil:
		for _, seg := range []*NassauSegment{standings.Nassau.Front, standings.Nassau.Back, standings.Nassau.Overall} {
			line := fmt.Sprintf("%s: %s (thru %d)", strings.ToUpper(seg.Name[:1])+seg.Name[1:], seg.Status, seg.Thru)
			if seg.Bet > 0 {
				line += fmt.Sprintf(" $%.2f", seg.Bet)
			}
			if seg.Winner != nil {
				line += " - " + nameOf(seg.Winner)
			}
			fmt.Fprintln(&b, line)
		}
	case standings.Stableford != nil:
		for i, row := range standings.Stableford.Leaderboard {
			fmt.Fprintf(&b, "%d. %s %d pts (%d holes)\n", i+1, row.Name, row.TotalPoints, row.HolesPlayed)
		}
	case standings.Match != nil:
		r := standings.Match
		fmt.Fprintf(&b, "%s\n", r.Status)
		fmt.Fprintf(&b, "Thru %d, %d to play\n", r.HolesPlayed, r.HolesRemaining)
		if r.StrokeReceiver != nil {
			fmt.Fprintf(&b, "%s receives %d strokes\n", nameOf(r.StrokeReceiver), r.HandicapStrokes)
		}
		if r.Halved {
			fmt.Fprintln(&b, "Match halved")
		}
	case standings.Stroke != nil:
		r := standings.Stroke
		board := r.GrossLeaderboard
		if r.UseHandicaps {
			board = r.NetLeaderboard
		}
		for i, row := range board {
			fmt.Fprintf(&b, "%d. %s %d (%s) thru %d", i+1, row.Name, row.Gross, toParString(row.ToPar), row.HolesPlayed)
			if r.UseHandicaps {
				fmt.Fprintf(&b, " net %d", row.Net)
			}
			b.WriteByte('\n')
		}
	}
	return b.String()
}

func toParString(n int) string {
	switch {
	case n == 0:
		return "E"
	case n > 0:
		return fmt.Sprintf("+%d", n)
	default:
		return fmt.Sprintf("%d", n)
	}
}

func joinInts(nums []int) string {
	parts := make([]string, len(nums))
	for i, n := range nums {
		parts[i] = fmt.Sprintf("%d", n)
	}
	return strings.Join(parts, ", ")
}
