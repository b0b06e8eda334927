package gamedomain

// Settings is the game's options as entered in the app. Optional fields are
// pointers so an absent value falls back to the format default.
type Settings struct {
	// Skins
	CarryOver *bool    `json:"carryOver,omitempty" yaml:"carryOver,omitempty"`
	SkinValue *float64 `json:"skinValue,omitempty" yaml:"skinValue,omitempty"`

	// Nassau
	FrontBet   *float64 `json:"frontBet,omitempty" yaml:"frontBet,omitempty"`
	BackBet    *float64 `json:"backBet,omitempty" yaml:"backBet,omitempty"`
	OverallBet *float64 `json:"overallBet,omitempty" yaml:"overallBet,omitempty"`
	Presses    bool     `json:"presses,omitempty" yaml:"presses,omitempty"`

	// Stableford
	EaglePoints  *int `json:"eaglePoints,omitempty" yaml:"eaglePoints,omitempty"`
	BirdiePoints *int `json:"birdiePoints,omitempty" yaml:"birdiePoints,omitempty"`
	ParPoints    *int `json:"parPoints,omitempty" yaml:"parPoints,omitempty"`
	BogeyPoints  *int `json:"bogeyPoints,omitempty" yaml:"bogeyPoints,omitempty"`

	// Match play
	ConcessionAllowed bool `json:"concessionAllowed,omitempty" yaml:"concessionAllowed,omitempty"`

	UseHandicaps bool `json:"useHandicaps,omitempty" yaml:"useHandicaps,omitempty"`
}

const (
	DefaultSkinValue    = 5.0
	DefaultEaglePoints  = 4
	DefaultBirdiePoints = 3
	DefaultParPoints    = 2
	DefaultBogeyPoints  = 1
)

type SkinsSettings struct {
	CarryOver bool
	SkinValue float64
}

type NassauSettings struct {
	FrontBet     float64
	BackBet      float64
	OverallBet   float64
	UseHandicaps bool
	// Presses is accepted and echoed back; press side-matches are not scored.
	Presses bool
}

type StablefordSettings struct {
	EaglePoints  int
	BirdiePoints int
	ParPoints    int
	BogeyPoints  int
	UseHandicaps bool
}

type MatchPlaySettings struct {
	UseHandicaps bool
	// ConcessionAllowed is stored with the game but has no scoring effect.
	ConcessionAllowed bool
}

type StrokePlaySettings struct {
	UseHandicaps bool
}

func (s Settings) Skins() SkinsSettings {
	return SkinsSettings{
		CarryOver: boolOr(s.CarryOver, true),
		SkinValue: floatOr(s.SkinValue, DefaultSkinValue),
	}
}

func (s Settings) Nassau() NassauSettings {
	return NassauSettings{
		FrontBet:     floatOr(s.FrontBet, 0),
		BackBet:      floatOr(s.BackBet, 0),
		OverallBet:   floatOr(s.OverallBet, 0),
		UseHandicaps: s.UseHandicaps,
		Presses:      s.Presses,
	}
}

func (s Settings) Stableford() StablefordSettings {
	return StablefordSettings{
		EaglePoints:  intOr(s.EaglePoints, DefaultEaglePoints),
		BirdiePoints: intOr(s.BirdiePoints, DefaultBirdiePoints),
		ParPoints:    intOr(s.ParPoints, DefaultParPoints),
		BogeyPoints:  intOr(s.BogeyPoints, DefaultBogeyPoints),
		UseHandicaps: s.UseHandicaps,
	}
}

func (s Settings) MatchPlay() MatchPlaySettings {
	return MatchPlaySettings{
		UseHandicaps:      s.UseHandicaps,
		ConcessionAllowed: s.ConcessionAllowed,
	}
}

func (s Settings) StrokePlay() StrokePlaySettings {
	return StrokePlaySettings{UseHandicaps: s.UseHandicaps}
}

func boolOr(v *bool, def bool) bool {
	if v == nil {
		return def
	}
	return *v
}

func floatOr(v *float64, def float64) float64 {
	if v == nil {
		return def
	}
	return *v
}

func intOr(v *int, def int) int {
	if v == nil {
		return def
	}
	return *v
}
