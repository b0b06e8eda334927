package gamedomain

import "fmt"

// State is everything needed to display a game. Reduce never modifies the
// state it is given.
type State struct {
	Config    GameConfig `json:"config"`
	Holes     []Hole     `json:"holes"`
	Scores    ScoreTable `json:"scores"`
	Standings Standings  `json:"standings"`
}

// Action is a single score edit.
type Action interface {
	apply(State) (ScoreTable, error)
}

type SetScore struct {
	Player  PlayerID
	Hole    int
	Strokes int
}

type ClearScore struct {
	Player PlayerID
	Hole   int
}

// NewState computes the initial standings for a game.
func NewState(cfg GameConfig, holes []Hole, scores ScoreTable) (State, error) {
	standings, err := Calculate(cfg, scores, holes)
	if err != nil {
		return State{}, err
	}
	return State{Config: cfg, Holes: holes, Scores: scores.Clone(), Standings: standings}, nil
}

// Reduce applies action and recomputes standings from scratch.
func Reduce(state State, action Action) (State, error) {
	scores, err := action.apply(state)
	if err != nil {
		return state, err
	}
	standings, err := Calculate(state.Config, scores, state.Holes)
	if err != nil {
		return state, err
	}
	return State{
		Config:    state.Config,
		Holes:     state.Holes,
		Scores:    scores,
		Standings: standings,
	}, nil
}

func (a SetScore) apply(s State) (ScoreTable, error) {
	if err := s.check(a.Player, a.Hole); err != nil {
		return nil, err
	}
	if a.Strokes <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidStrokes, a.Strokes)
	}
	return s.Scores.With(a.Player, a.Hole, Played(a.Strokes)), nil
}

func (a ClearScore) apply(s State) (ScoreTable, error) {
	if err := s.check(a.Player, a.Hole); err != nil {
		return nil, err
	}
	return s.Scores.Without(a.Player, a.Hole), nil
}

func (s State) check(player PlayerID, hole int) error {
	if _, ok := s.Config.Player(player); !ok {
		return fmt.Errorf("%w: %s", ErrUnknownPlayer, player)
	}
	for _, h := range s.Holes {
		if h.Number == hole {
			return nil
		}
	}
	return fmt.Errorf("%w: %d", ErrUnknownHole, hole)
}
