package gamemigrations

import (
	"context"
	"fmt"

	gamedb "github.com/Black-And-White-Club/golf-scorecard/app/modules/game/infrastructure/repositories"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/migrate"
)

var Migrations = migrate.NewMigrations()

// tables in creation order; dropped in reverse.
var tables = []struct {
	name  string
	model any
	fk    string
}{
	{name: "games", model: (*gamedb.Game)(nil)},
	{name: "game_players", model: (*gamedb.GamePlayer)(nil), fk: `("game_id") REFERENCES "games" ("id") ON DELETE CASCADE`},
	{name: "game_holes", model: (*gamedb.GameHole)(nil), fk: `("game_id") REFERENCES "games" ("id") ON DELETE CASCADE`},
	{name: "hole_scores", model: (*gamedb.HoleScore)(nil), fk: `("game_id") REFERENCES "games" ("id") ON DELETE CASCADE`},
	{name: "standings_snapshots", model: (*gamedb.StandingsSnapshot)(nil), fk: `("game_id") REFERENCES "games" ("id") ON DELETE CASCADE`},
}

// CreateGameTables creates every game table using the Bun models.
func CreateGameTables(ctx context.Context, db *bun.DB) error {
	for _, t := range tables {
		fmt.Printf("Creating %s table...\n", t.name)
		q := db.NewCreateTable().Model(t.model).IfNotExists()
		if t.fk != "" {
			q = q.ForeignKey(t.fk)
		}
		if _, err := q.Exec(ctx); err != nil {
			return fmt.Errorf("failed to create %s table: %w", t.name, err)
		}
	}
	fmt.Println("Game tables created successfully!")
	return nil
}

// DropGameTables drops every game table.
func DropGameTables(ctx context.Context, db *bun.DB) error {
	for i := len(tables) - 1; i >= 0; i-- {
		t := tables[i]
		fmt.Printf("Dropping %s table...\n", t.name)
		if _, err := db.NewDropTable().Model(t.model).IfExists().Cascade().Exec(ctx); err != nil {
			return fmt.Errorf("failed to drop %s table: %w", t.name, err)
		}
	}
	fmt.Println("Game tables dropped successfully!")
	return nil
}

func init() {
	if err := Migrations.DiscoverCaller(); err != nil {
		panic(err)
	}
}
