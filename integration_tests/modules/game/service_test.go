package gameintegrationtests

import (
	"sync"
	"testing"
	"time"

	gameservice "github.com/Black-And-White-Club/golf-scorecard/app/modules/game/application"
	gamedomain "github.com/Black-And-White-Club/golf-scorecard/app/modules/game/domain"
	gamemetrics "github.com/Black-And-White-Club/golf-scorecard/app/modules/game/infrastructure/metrics"
	gamequeue "github.com/Black-And-White-Club/golf-scorecard/app/modules/game/infrastructure/queue"
	gamedb "github.com/Black-And-White-Club/golf-scorecard/app/modules/game/infrastructure/repositories"
	"github.com/Black-And-White-Club/golf-scorecard/integration_tests/testutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScoringOnPostgres(t *testing.T) {
	d := setupService(t, nil)
	game := createSkins(t, d)

	initial, err := d.Service.GetStandings(d.Ctx, game.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), initial.Version)

	_, err = d.Service.RecordScore(d.Ctx, game.ID, "alice", 1, 3)
	require.NoError(t, err)
	view, err := d.Service.RecordScore(d.Ctx, game.ID, "bob", 1, 4)
	require.NoError(t, err)

	assert.Equal(t, int64(3), view.Version)
	require.NotNil(t, view.Standings.Skins)
	assert.Equal(t, 1, view.Standings.Skins.SkinsWon["alice"])

	cleared, err := d.Service.ClearScore(d.Ctx, game.ID, "alice", 1)
	require.NoError(t, err)
	assert.Equal(t, 0, cleared.Standings.Skins.SkinsWon["alice"])
	assert.False(t, cleared.Scores.Score("alice", 1).IsPlayed())

	_, err = d.Service.RecordScore(d.Ctx, game.ID, "zed", 1, 3)
	assert.ErrorIs(t, err, gamedomain.ErrUnknownPlayer)

	byCode, err := d.Service.GetGameByJoinCode(d.Ctx, game.JoinCode)
	require.NoError(t, err)
	assert.Equal(t, game.ID, byCode.ID)
}

func TestConcurrentWritersKeepSnapshotsComplete(t *testing.T) {
	d := setupService(t, nil)
	game, err := d.Service.CreateGame(d.Ctx, gameservice.CreateGameRequest{
		Name:    "Concurrent strokes",
		Format:  "stroke",
		Players: []gamedomain.Player{{ID: "alice", Name: "Alice"}, {ID: "bob", Name: "Bob"}},
	})
	require.NoError(t, err)

	const holes = 9
	var wg sync.WaitGroup
	errs := make(chan error, 2*holes)
	for hole := 1; hole <= holes; hole++ {
		for _, player := range []gamedomain.PlayerID{"alice", "bob"} {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, err := d.Service.RecordScore(d.Ctx, game.ID, player, hole, 4)
				errs <- err
			}()
		}
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	latest, err := d.Service.GetStandings(d.Ctx, game.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1+2*holes), latest.Version)
	require.NotNil(t, latest.Standings.Stroke)
	assert.Equal(t, 36, latest.Standings.Stroke.Players["alice"].Gross)
	assert.Equal(t, 36, latest.Standings.Stroke.Players["bob"].Gross)
}

func TestImportQueuesRecalculation(t *testing.T) {
	env := testutils.GetOrCreateTestEnv(t)
	metrics := gamemetrics.NewNoop()

	worker := gamequeue.NewRecalculateStandingsWorker(env.Logger, metrics)
	queue, err := gamequeue.NewService(t.Context(), env.DB, env.Logger, env.DSN, metrics, worker)
	require.NoError(t, err)

	d := setupService(t, nil, gameservice.WithQueue(queue))
	worker.SetRecalculator(d.Service)

	require.NoError(t, queue.Start(d.Ctx))
	t.Cleanup(func() { _ = queue.Stop(d.Ctx) })

	game := createSkins(t, d)
	card := "Player,1,2,3,Total\nPar,4,4,3,11\nAlice,4,3,3,10\nBob,4,4,3,11\n"
	res, err := d.Service.ImportScorecard(d.Ctx, game.ID, "card.csv", []byte(card))
	require.NoError(t, err)
	assert.True(t, res.Queued)
	assert.Equal(t, 6, res.ScoresImported)
	assert.Empty(t, res.ParMismatches)

	require.Eventually(t, func() bool {
		snap, err := gamedb.NewRepository(env.DB).LatestSnapshot(d.Ctx, nil, game.ID)
		return err == nil && snap.Version >= 2
	}, 20*time.Second, 200*time.Millisecond, "recalculation job never ran")

	standings, err := d.Service.GetStandings(d.Ctx, game.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, standings.Standings.Skins.SkinsWon["alice"])

	require.NoError(t, queue.HealthCheck(d.Ctx))
}
