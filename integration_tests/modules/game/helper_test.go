package gameintegrationtests

import (
	"context"
	"testing"

	gameservice "github.com/Black-And-White-Club/golf-scorecard/app/modules/game/application"
	gamedomain "github.com/Black-And-White-Club/golf-scorecard/app/modules/game/domain"
	gamemetrics "github.com/Black-And-White-Club/golf-scorecard/app/modules/game/infrastructure/metrics"
	gamedb "github.com/Black-And-White-Club/golf-scorecard/app/modules/game/infrastructure/repositories"
	"github.com/Black-And-White-Club/golf-scorecard/integration_tests/testutils"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace/noop"
)

type deps struct {
	Ctx     context.Context
	Env     *testutils.TestEnvironment
	Service *gameservice.GameService
}

// setupService returns a service on the shared Postgres with clean tables.
func setupService(t *testing.T, publisher message.Publisher, opts ...gameservice.Option) deps {
	t.Helper()
	env := testutils.GetOrCreateTestEnv(t)
	ctx := context.Background()
	require.NoError(t, env.CleanupDatabase(ctx))

	if publisher != nil {
		opts = append(opts, gameservice.WithPublisher(publisher))
	}
	svc := gameservice.NewGameService(
		gamedb.NewRepository(env.DB),
		env.Logger,
		gamemetrics.NewNoop(),
		noop.NewTracerProvider().Tracer("integration"),
		env.DB,
		opts...,
	)
	return deps{Ctx: ctx, Env: env, Service: svc}
}

func createSkins(t *testing.T, d deps) *gameservice.GameView {
	t.Helper()
	game, err := d.Service.CreateGame(d.Ctx, gameservice.CreateGameRequest{
		Name:   "Integration skins",
		Format: "skins",
		Players: []gamedomain.Player{
			{ID: "alice", Name: "Alice"},
			{ID: "bob", Name: "Bob"},
		},
	})
	require.NoError(t, err)
	return game
}
