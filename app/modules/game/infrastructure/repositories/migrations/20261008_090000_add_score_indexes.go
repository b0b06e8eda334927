package gamemigrations

import (
	"context"
	"fmt"

	gamedb "github.com/Black-And-White-Club/golf-scorecard/app/modules/game/infrastructure/repositories"
	"github.com/uptrace/bun"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Adding game score indexes...")

		return db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
			if _, err := tx.NewCreateIndex().
				Model((*gamedb.HoleScore)(nil)).
				Index("idx_hole_scores_game_id").
				Column("game_id").
				IfNotExists().
				Exec(ctx); err != nil {
				return fmt.Errorf("failed to create hole_scores index: %w", err)
			}

			if _, err := tx.NewCreateIndex().
				Model((*gamedb.StandingsSnapshot)(nil)).
				Index("idx_standings_snapshots_game_version").
				Column("game_id", "version").
				IfNotExists().
				Exec(ctx); err != nil {
				return fmt.Errorf("failed to create standings_snapshots index: %w", err)
			}
			return nil
		})
	}, func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Dropping game score indexes...")

		for _, name := range []string{"idx_standings_snapshots_game_version", "idx_hole_scores_game_id"} {
			if _, err := db.NewDropIndex().Index(name).IfExists().Exec(ctx); err != nil {
				return fmt.Errorf("failed to drop index %s: %w", name, err)
			}
		}
		return nil
	})
}
