package gamedomain

import "fmt"

// Standings is the derived result of a game. Exactly one format field is set,
// matching Format.
type Standings struct {
	Format     Format            `json:"format"`
	Skins      *SkinsResult      `json:"skins,omitempty"`
	Nassau     *NassauResult     `json:"nassau,omitempty"`
	Stableford *StablefordResult `json:"stableford,omitempty"`
	Match      *MatchPlayResult  `json:"match,omitempty"`
	Stroke     *StrokePlayResult `json:"stroke,omitempty"`
}

// Error returns the misconfiguration message of a two-player format, or "".
func (s Standings) Error() string {
	switch {
	case s.Nassau != nil:
		return s.Nassau.Error
	case s.Match != nil:
		return s.Match.Error
	}
	return ""
}

// Calculate runs the calculator for cfg.Format. It fails only on an unknown
// format; player-count problems are reported inside the result.
func Calculate(cfg GameConfig, scores ScoreTable, holes []Hole) (Standings, error) {
	out := Standings{Format: cfg.Format}
	switch cfg.Format {
	case FormatSkins:
		r := CalculateSkins(scores, cfg.Players, holes, cfg.Settings.Skins())
		out.Skins = &r
	case FormatNassau:
		r := CalculateNassau(scores, cfg.Players, holes, cfg.Settings.Nassau())
		out.Nassau = &r
	case FormatStableford:
		r := CalculateStableford(scores, cfg.Players, holes, cfg.Settings.Stableford())
		out.Stableford = &r
	case FormatMatchPlay:
		r := CalculateMatchPlay(scores, cfg.Players, holes, cfg.Settings.MatchPlay())
		out.Match = &r
	case FormatStrokePlay:
		r := CalculateStrokePlay(scores, cfg.Players, holes, cfg.Settings.StrokePlay())
		out.Stroke = &r
	default:
		return Standings{}, fmt.Errorf("%w: %q", ErrUnknownFormat, cfg.Format)
	}
	return out, nil
}

var standardPars = [18]int{4, 4, 3, 5, 4, 4, 3, 4, 5, 4, 4, 3, 5, 4, 4, 3, 4, 5}

// DefaultHoles is a par-72 eighteen.
func DefaultHoles() []Hole {
	holes := make([]Hole, len(standardPars))
	for i, par := range standardPars {
		holes[i] = Hole{Number: i + 1, Par: par}
	}
	return holes
}

// TotalPar sums par over holes.
func TotalPar(holes []Hole) int {
	total := 0
	for _, h := range holes {
		total += h.Par
	}
	return total
}
