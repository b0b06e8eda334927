package gameservice

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	gamedomain "github.com/Black-And-White-Club/golf-scorecard/app/modules/game/domain"
	gamedb "github.com/Black-And-White-Club/golf-scorecard/app/modules/game/infrastructure/repositories"
	"github.com/Black-And-White-Club/golf-scorecard/app/shared/results"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

const (
	maxHoles         = 36
	joinCodeAttempts = 5
)

// CreateGame validates the request, stores the game and its initial
// standings snapshot.
func (s *GameService) CreateGame(ctx context.Context, req CreateGameRequest) (*GameView, error) {
	createTx := func(ctx context.Context, db bun.IDB) (results.OperationResult[*GameView, error], error) {
		return s.createGameLogic(ctx, db, req)
	}

	result, err := withTelemetry(s, ctx, "CreateGame", req.Name, func(ctx context.Context) (results.OperationResult[*GameView, error], error) {
		return runInTx(s, ctx, createTx)
	})
	return unwrap(result, err)
}

func (s *GameService) createGameLogic(ctx context.Context, db bun.IDB, req CreateGameRequest) (results.OperationResult[*GameView, error], error) {
	game, err := s.buildGame(req)
	if err != nil {
		return results.FailureResult[*GameView, error](err), nil
	}

	code, err := s.allocateJoinCode(ctx, db)
	if err != nil {
		return results.OperationResult[*GameView, error]{}, err
	}
	game.JoinCode = code

	if err := s.repo.CreateGame(ctx, db, game); err != nil {
		return results.OperationResult[*GameView, error]{}, fmt.Errorf("failed to create game: %w", err)
	}

	if _, err := s.snapshot(ctx, db, game, nil); err != nil {
		return results.OperationResult[*GameView, error]{}, err
	}

	return results.SuccessResult[*GameView, error](toGameView(game)), nil
}

// buildGame turns a request into a storable game, rejecting bad input.
func (s *GameService) buildGame(req CreateGameRequest) (*gamedb.Game, error) {
	format, err := gamedomain.ParseFormat(req.Format)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}

	players, err := normalizePlayers(req.Players)
	if err != nil {
		return nil, err
	}

	holes, err := normalizeHoles(req.Holes)
	if err != nil {
		return nil, err
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		name = format.Title()
	}

	game := &gamedb.Game{
		ID:        uuid.New(),
		Name:      name,
		Format:    format,
		Settings:  req.Settings,
		CreatedBy: req.CreatedBy,
	}

	if strings.TrimSpace(req.TeeTime) != "" {
		tee, err := s.timeParser.Parse(req.TeeTime, req.TimeZone, s.clock.Now())
		if err != nil {
			return nil, err
		}
		game.TeeTime = &tee
		game.TimeZone = req.TimeZone
	}

	for _, p := range players {
		game.Players = append(game.Players, &gamedb.GamePlayer{
			PlayerID: string(p.ID),
			Name:     p.Name,
			Handicap: p.Handicap,
		})
	}
	for _, h := range holes {
		game.Holes = append(game.Holes, &gamedb.GameHole{HoleNumber: h.Number, Par: h.Par})
	}
	return game, nil
}

// normalizePlayers fills missing ids from names and rejects duplicates.
func normalizePlayers(in []gamedomain.Player) ([]gamedomain.Player, error) {
	if len(in) == 0 {
		return nil, fmt.Errorf("%w: at least one player is required", ErrInvalidRequest)
	}
	seen := make(map[gamedomain.PlayerID]bool, len(in))
	out := make([]gamedomain.Player, 0, len(in))
	for i, p := range in {
		p.Name = strings.TrimSpace(p.Name)
		if p.ID == "" {
			p.ID = gamedomain.PlayerID(strings.Join(strings.Fields(strings.ToLower(p.Name)), "-"))
		}
		if p.ID == "" {
			return nil, fmt.Errorf("%w: player %d has neither id nor name", ErrInvalidRequest, i+1)
		}
		if p.Name == "" {
			p.Name = string(p.ID)
		}
		if seen[p.ID] {
			return nil, fmt.Errorf("%w: duplicate player id %q", ErrInvalidRequest, p.ID)
		}
		if p.Handicap != nil && (*p.Handicap < -10 || *p.Handicap > 54) {
			return nil, fmt.Errorf("%w: handicap for %q out of range", ErrInvalidRequest, p.ID)
		}
		seen[p.ID] = true
		out = append(out, p)
	}
	return out, nil
}

// normalizeHoles sorts holes and requires them to run 1..N with positive pars.
func normalizeHoles(in []gamedomain.Hole) ([]gamedomain.Hole, error) {
	if len(in) == 0 {
		return gamedomain.DefaultHoles(), nil
	}
	if len(in) > maxHoles {
		return nil, fmt.Errorf("%w: at most %d holes", ErrInvalidRequest, maxHoles)
	}
	holes := make([]gamedomain.Hole, len(in))
	copy(holes, in)
	sort.Slice(holes, func(i, j int) bool { return holes[i].Number < holes[j].Number })
	for i, h := range holes {
		if h.Number != i+1 {
			return nil, fmt.Errorf("%w: holes must be numbered 1 to %d", ErrInvalidRequest, len(holes))
		}
		if h.Par <= 0 {
			return nil, fmt.Errorf("%w: hole %d has par %d", ErrInvalidRequest, h.Number, h.Par)
		}
	}
	return holes, nil
}

func (s *GameService) allocateJoinCode(ctx context.Context, db bun.IDB) (string, error) {
	for i := 0; i < joinCodeAttempts; i++ {
		code := s.joinCode()
		_, err := s.repo.GetGameByJoinCode(ctx, db, code)
		if errors.Is(err, gamedb.ErrNotFound) {
			return code, nil
		}
		if err != nil {
			return "", fmt.Errorf("failed to check join code: %w", err)
		}
	}
	return "", ErrJoinCodeExhausted
}

// GetGame retrieves a game by id.
func (s *GameService) GetGame(ctx context.Context, gameID uuid.UUID) (*GameView, error) {
	getTx := func(ctx context.Context, db bun.IDB) (results.OperationResult[*GameView, error], error) {
		return s.lookupGame(ctx, func() (*gamedb.Game, error) { return s.repo.GetGame(ctx, db, gameID) })
	}

	result, err := withTelemetry(s, ctx, "GetGame", gameID.String(), func(ctx context.Context) (results.OperationResult[*GameView, error], error) {
		return runInTx(s, ctx, getTx)
	})
	return unwrap(result, err)
}

// GetGameByJoinCode retrieves a game by its share code.
func (s *GameService) GetGameByJoinCode(ctx context.Context, code string) (*GameView, error) {
	code = strings.ToLower(strings.TrimSpace(code))
	getTx := func(ctx context.Context, db bun.IDB) (results.OperationResult[*GameView, error], error) {
		return s.lookupGame(ctx, func() (*gamedb.Game, error) { return s.repo.GetGameByJoinCode(ctx, db, code) })
	}

	result, err := withTelemetry(s, ctx, "GetGameByJoinCode", code, func(ctx context.Context) (results.OperationResult[*GameView, error], error) {
		return runInTx(s, ctx, getTx)
	})
	return unwrap(result, err)
}

func (s *GameService) lookupGame(_ context.Context, get func() (*gamedb.Game, error)) (results.OperationResult[*GameView, error], error) {
	game, err := get()
	if err != nil {
		if errors.Is(err, gamedb.ErrNotFound) {
			return results.FailureResult[*GameView, error](err), nil
		}
		return results.OperationResult[*GameView, error]{}, fmt.Errorf("failed to get game: %w", err)
	}
	return results.SuccessResult[*GameView, error](toGameView(game)), nil
}

func toGameView(g *gamedb.Game) *GameView {
	cfg := g.DomainConfig()
	holes := g.DomainHoles()
	return &GameView{
		ID:        g.ID,
		JoinCode:  g.JoinCode,
		Name:      g.Name,
		Format:    g.Format,
		Settings:  g.Settings,
		Players:   cfg.Players,
		Holes:     holes,
		TotalPar:  gamedomain.TotalPar(holes),
		TeeTime:   g.TeeTime,
		TimeZone:  g.TimeZone,
		CreatedAt: g.CreatedAt,
	}
}
