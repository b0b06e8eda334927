// Command scorecalc computes standings for a game described in a YAML file,
// without a database or message bus.
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"

	gamedomain "github.com/Black-And-White-Club/golf-scorecard/app/modules/game/domain"
	"github.com/urfave/cli/v2"
	"gopkg.in/yaml.v3"
)

// gameFile is the on-disk layout:
//
//	game:
//	  format: skins
//	  players: [{id: alice, name: Alice}]
//	holes: [{holeNumber: 1, par: 4}]   # optional, defaults to 18 holes par 72
//	scores:
//	  alice: {1: 4, 2: 5}
type gameFile struct {
	Game   gamedomain.GameConfig `yaml:"game"`
	Holes  []gamedomain.Hole     `yaml:"holes"`
	Scores gamedomain.ScoreTable `yaml:"scores"`
}

type options struct {
	format string
	json   bool
}

func main() {
	cliApp := &cli.App{
		Name:      "scorecalc",
		Usage:     "calculate golf game standings from a YAML file",
		ArgsUsage: "<game.yaml | ->",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "format", Aliases: []string{"f"}, Usage: "override the game format"},
			&cli.BoolFlag{Name: "json", Usage: "print standings as JSON instead of a summary"},
		},
		Action: func(c *cli.Context) error {
			path := c.Args().First()
			if path == "" {
				return cli.Exit("a game file is required", 2)
			}

			var in io.Reader = os.Stdin
			if path != "-" {
				f, err := os.Open(path)
				if err != nil {
					return err
				}
				defer f.Close()
				in = f
			}
			return run(in, c.App.Writer, options{format: c.String("format"), json: c.Bool("json")})
		},
	}

	if err := cliApp.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func run(in io.Reader, out io.Writer, opts options) error {
	var gf gameFile
	if err := yaml.NewDecoder(in).Decode(&gf); err != nil {
		return fmt.Errorf("failed to decode game file: %w", err)
	}

	if opts.format != "" {
		format, err := gamedomain.ParseFormat(opts.format)
		if err != nil {
			return err
		}
		gf.Game.Format = format
	} else if gf.Game.Format != "" {
		format, err := gamedomain.ParseFormat(string(gf.Game.Format))
		if err != nil {
			return err
		}
		gf.Game.Format = format
	}

	holes := gf.Holes
	if len(holes) == 0 {
		holes = gamedomain.DefaultHoles()
	}

	standings, err := gamedomain.Calculate(gf.Game, gf.Scores, holes)
	if err != nil {
		return err
	}

	if opts.json {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(standings)
	}
	_, err = fmt.Fprintln(out, gamedomain.Summarize(gf.Game, standings))
	return err
}
