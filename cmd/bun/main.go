package main

import (
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"

	"github.com/Black-And-White-Club/golf-scorecard/app/database"
	"github.com/Black-And-White-Club/golf-scorecard/config"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/migrate"
	"github.com/urfave/cli/v2"
)

func main() {
	cliApp := &cli.App{
		Name:  "bun",
		Usage: "golf-scorecard database tooling",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "config",
				Value: "config.yaml",
				Usage: "path to the configuration file",
			},
		},
		Commands: []*cli.Command{
			newDBCommand(),
		},
	}

	if err := cliApp.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

// withMigrator loads config, connects and hands the game migrator to fn.
func withMigrator(c *cli.Context, fn func(db *bun.DB, cfg *config.Config, migrator *migrate.Migrator) error) error {
	cfg, err := config.LoadConfig(c.String("config"))
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	db, err := database.Open(c.Context, cfg.Database)
	if err != nil {
		return err
	}
	defer db.Close()

	return fn(db, cfg, database.Migrator(db))
}

func newDBCommand() *cli.Command {
	return &cli.Command{
		Name:  "migrate",
		Usage: "database migrations",
		Subcommands: []*cli.Command{
			{
				Name:  "init",
				Usage: "create migration tables",
				Action: func(c *cli.Context) error {
					return withMigrator(c, func(_ *bun.DB, _ *config.Config, migrator *migrate.Migrator) error {
						return migrator.Init(c.Context)
					})
				},
			},
			{
				Name:  "migrate",
				Usage: "migrate database",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "river", Usage: "also apply the river queue schema (postgres only)"},
				},
				Action: func(c *cli.Context) error {
					return withMigrator(c, func(db *bun.DB, cfg *config.Config, migrator *migrate.Migrator) error {
						if err := migrator.Init(c.Context); err != nil {
							return err
						}
						group, err := migrator.Migrate(c.Context)
						if err != nil {
							return err
						}
						if group.IsZero() {
							fmt.Println("No new migrations to run")
						} else {
							fmt.Printf("Migrated to %s\n", group)
						}

						if c.Bool("river") || cfg.Queue.Enabled {
							if cfg.Database.Driver != "postgres" {
								return fmt.Errorf("river migrations need the postgres driver")
							}
							return database.MigrateRiver(c.Context, cfg.Database.DSN, slog.Default())
						}
						return nil
					})
				},
			},
			{
				Name:  "rollback",
				Usage: "rollback the last migration group",
				Action: func(c *cli.Context) error {
					return withMigrator(c, func(_ *bun.DB, _ *config.Config, migrator *migrate.Migrator) error {
						group, err := migrator.Rollback(c.Context)
						if err != nil {
							return err
						}
						if group.IsZero() {
							fmt.Println("No groups to roll back")
						} else {
							fmt.Printf("Rolled back %s\n", group)
						}
						return nil
					})
				},
			},
			{
				Name:  "create_go",
				Usage: "create Go migration",
				Action: func(c *cli.Context) error {
					return withMigrator(c, func(_ *bun.DB, _ *config.Config, migrator *migrate.Migrator) error {
						name := strings.Join(c.Args().Slice(), "_")
						mf, err := migrator.CreateGoMigration(c.Context, name)
						if err != nil {
							return err
						}
						fmt.Printf("Created migration %s (%s)\n", mf.Name, mf.Path)
						return nil
					})
				},
			},
			{
				Name:  "status",
				Usage: "print migrations status",
				Action: func(c *cli.Context) error {
					return withMigrator(c, func(_ *bun.DB, _ *config.Config, migrator *migrate.Migrator) error {
						ms, err := migrator.MigrationsWithStatus(c.Context)
						if err != nil {
							return err
						}
						fmt.Printf("Migrations: %s\n", ms)
						fmt.Printf("  Applied: %s\n", ms.Applied())
						fmt.Printf("  Unapplied: %s\n", ms.Unapplied())
						return nil
					})
				},
			},
		},
	}
}
