package gamedomain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// PlayerID identifies a player within a single game.
type PlayerID string

func (id PlayerID) String() string { return string(id) }

// Player is a participant in a game. A nil Handicap counts as zero strokes
// wherever a handicap is required.
type Player struct {
	ID       PlayerID `json:"id" yaml:"id"`
	Name     string   `json:"name" yaml:"name"`
	Handicap *float64 `json:"handicap" yaml:"handicap"`
}

// Hole is static course data.
type Hole struct {
	Number int `json:"holeNumber" yaml:"holeNumber"`
	Par    int `json:"par" yaml:"par"`
}

// HoleScore is either Played(n) with n >= 1, or NotPlayed (the zero value).
type HoleScore struct {
	strokes int
}

// NotPlayed is the score of a hole that has not been recorded.
func NotPlayed() HoleScore { return HoleScore{} }

// Played returns a played score. Non-positive stroke counts are NotPlayed.
func Played(strokes int) HoleScore {
	if strokes <= 0 {
		return HoleScore{}
	}
	return HoleScore{strokes: strokes}
}

// Strokes returns the stroke count and whether the hole was played.
func (s HoleScore) Strokes() (int, bool) {
	return s.strokes, s.strokes > 0
}

// IsPlayed reports whether the score counts.
func (s HoleScore) IsPlayed() bool { return s.strokes > 0 }

func (s HoleScore) String() string {
	if !s.IsPlayed() {
		return "-"
	}
	return strconv.Itoa(s.strokes)
}

// MarshalJSON encodes NotPlayed as null.
func (s HoleScore) MarshalJSON() ([]byte, error) {
	if !s.IsPlayed() {
		return []byte("null"), nil
	}
	return []byte(strconv.Itoa(s.strokes)), nil
}

// UnmarshalJSON accepts numbers, numeric strings, null and "" the way the
// mobile clients send them.
func (s *HoleScore) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*s = NotPlayed()
		return nil
	}
	if data[0] == '"' {
		var str string
		if err := json.Unmarshal(data, &str); err != nil {
			return err
		}
		str = strings.TrimSpace(str)
		if str == "" {
			*s = NotPlayed()
			return nil
		}
		n, err := strconv.Atoi(str)
		if err != nil {
			return fmt.Errorf("invalid hole score %q", str)
		}
		*s = Played(n)
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err != nil || f != math.Trunc(f) {
		return fmt.Errorf("invalid hole score %s", data)
	}
	*s = Played(int(f))
	return nil
}

// MarshalYAML encodes NotPlayed as null.
func (s HoleScore) MarshalYAML() (any, error) {
	if !s.IsPlayed() {
		return nil, nil
	}
	return s.strokes, nil
}

// UnmarshalYAML mirrors UnmarshalJSON for YAML game files.
func (s *HoleScore) UnmarshalYAML(unmarshal func(any) error) error {
	var raw any
	if err := unmarshal(&raw); err != nil {
		return err
	}
	switch v := raw.(type) {
	case nil:
		*s = NotPlayed()
	case int:
		*s = Played(v)
	case float64:
		if v != math.Trunc(v) {
			return fmt.Errorf("invalid hole score %v", v)
		}
		*s = Played(int(v))
	case string:
		if strings.TrimSpace(v) == "" || strings.TrimSpace(v) == "-" {
			*s = NotPlayed()
			return nil
		}
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("invalid hole score %q", v)
		}
		*s = Played(n)
	default:
		return fmt.Errorf("invalid hole score %v", raw)
	}
	return nil
}

// ScoreTable maps player id -> hole number -> score. The engine never
// writes to a ScoreTable it is given.
type ScoreTable map[PlayerID]map[int]HoleScore

// Score returns the recorded score, NotPlayed when absent.
func (t ScoreTable) Score(player PlayerID, hole int) HoleScore {
	if t == nil {
		return NotPlayed()
	}
	return t[player][hole]
}

// Clone returns a deep copy.
func (t ScoreTable) Clone() ScoreTable {
	out := make(ScoreTable, len(t))
	for player, holes := range t {
		cp := make(map[int]HoleScore, len(holes))
		for h, s := range holes {
			cp[h] = s
		}
		out[player] = cp
	}
	return out
}

// With returns a copy of the table with one score replaced.
func (t ScoreTable) With(player PlayerID, hole int, score HoleScore) ScoreTable {
	out := t.Clone()
	if out[player] == nil {
		out[player] = make(map[int]HoleScore)
	}
	out[player][hole] = score
	return out
}

// Without returns a copy of the table with one score removed.
func (t ScoreTable) Without(player PlayerID, hole int) ScoreTable {
	out := t.Clone()
	if holes, ok := out[player]; ok {
		delete(holes, hole)
	}
	return out
}

// Format selects a scoring game.
type Format string

const (
	FormatSkins      Format = "skins"
	FormatNassau     Format = "nassau"
	FormatStableford Format = "stableford"
	FormatMatchPlay  Format = "match"
	FormatStrokePlay Format = "stroke"
)

// Formats lists every supported format.
var Formats = []Format{FormatSkins, FormatNassau, FormatStableford, FormatMatchPlay, FormatStrokePlay}

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	switch f {
	case FormatSkins, FormatNassau, FormatStableford, FormatMatchPlay, FormatStrokePlay:
		return f, nil
	case "matchplay", "match_play":
		return FormatMatchPlay, nil
	case "strokeplay", "stroke_play":
		return FormatStrokePlay, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
}

// GameConfig is fixed once a game starts.
type GameConfig struct {
	Format   Format   `json:"format" yaml:"format"`
	Name     string   `json:"name" yaml:"name"`
	Settings Settings `json:"settings" yaml:"settings"`
	Players  []Player `json:"players" yaml:"players"`
}

// Player looks up a player by id.
func (c GameConfig) Player(id PlayerID) (Player, bool) {
	for _, p := range c.Players {
		if p.ID == id {
			return p, true
		}
	}
	return Player{}, false
}
