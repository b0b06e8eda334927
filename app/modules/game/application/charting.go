package gameservice

import (
	"bytes"
	"context"

	gamedomain "github.com/Black-And-White-Club/golf-scorecard/app/modules/game/domain"
	"github.com/google/uuid"
	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// ChartPalette holds the colors used for rendered charts.
type ChartPalette struct {
	Background drawing.Color
	Text       drawing.Color
	Baseline   drawing.Color
	Lines      []drawing.Color
}

// DefaultPalette is the fairway green theme.
var DefaultPalette = ChartPalette{
	Background: drawing.ColorFromHex("f5f7f2"),
	Text:       drawing.ColorFromHex("1f2a1f"),
	Baseline:   drawing.ColorFromHex("9aa59a"),
	Lines: []drawing.Color{
		drawing.ColorFromHex("2e7d32"),
		drawing.ColorFromHex("c8a415"),
		drawing.ColorFromHex("1565c0"),
		drawing.ColorFromHex("c62828"),
		drawing.ColorFromHex("6a1b9a"),
		drawing.ColorFromHex("ef6c00"),
	},
}

// RenderProgressChart draws each player's running score to par as a PNG.
func (s *GameService) RenderProgressChart(ctx context.Context, gameID uuid.UUID) ([]byte, error) {
	loaded, err := s.readGame(ctx, "RenderProgressChart", gameID)
	if err != nil {
		return nil, err
	}
	return GenerateProgressChart(loaded.game.DomainConfig(), loaded.state.Holes, loaded.state.Scores, DefaultPalette)
}

// GenerateProgressChart produces a line chart of cumulative strokes to par
// against holes played. An unplayed hole ends that player's line.
func GenerateProgressChart(cfg gamedomain.GameConfig, holes []gamedomain.Hole, scores gamedomain.ScoreTable, palette ChartPalette) ([]byte, error) {
	lastHole := 1.0
	if len(holes) > 0 {
		lastHole = float64(holes[len(holes)-1].Number)
	}

	series := []chart.Series{
		chart.ContinuousSeries{
			Name:    "Par",
			XValues: []float64{0, lastHole},
			YValues: []float64{0, 0},
			Style: chart.Style{
				StrokeColor:     palette.Baseline,
				StrokeWidth:     1,
				StrokeDashArray: []float64{4, 4},
			},
		},
	}

	minY, maxY := 0.0, 0.0
	anyPlayed := false
	for i, p := range cfg.Players {
		xs := []float64{0}
		ys := []float64{0}
		toPar := 0
		for _, h := range holes {
			strokes, ok := scores.Score(p.ID, h.Number).Strokes()
			if !ok {
				break
			}
			anyPlayed = true
			toPar += strokes - h.Par
			xs = append(xs, float64(h.Number))
			ys = append(ys, float64(toPar))
			minY = min(minY, float64(toPar))
			maxY = max(maxY, float64(toPar))
		}
		if len(xs) < 2 {
			continue
		}

		color := palette.Lines[i%len(palette.Lines)]
		series = append(series, chart.ContinuousSeries{
			Name:    p.Name,
			XValues: xs,
			YValues: ys,
			Style: chart.Style{
				StrokeColor: color,
				StrokeWidth: 2,
				DotWidth:    3,
				DotColor:    color,
			},
		})
	}

	graph := chart.Chart{
		Title:  cfg.Name,
		Width:  800,
		Height: 400,
		TitleStyle: chart.Style{
			FontColor: palette.Text,
		},
		Background: chart.Style{
			FillColor: palette.Background,
			Padding:   chart.Box{Top: 40, Left: 20, Right: 20, Bottom: 20},
		},
		Canvas: chart.Style{
			FillColor: palette.Background,
		},
		XAxis: chart.XAxis{
			Name:  "Hole",
			Style: chart.Style{FontColor: palette.Text},
			Range: &chart.ContinuousRange{Min: 0, Max: lastHole},
		},
		YAxis: chart.YAxis{
			Name:  "To Par",
			Style: chart.Style{FontColor: palette.Text},
			Range: &chart.ContinuousRange{Min: minY - 1, Max: maxY + 1},
		},
		Series: series,
	}

	if anyPlayed {
		graph.Elements = []chart.Renderable{chart.Legend(&graph)}
	} else {
		graph.Elements = []chart.Renderable{noScoresText(palette)}
	}

	buffer := bytes.NewBuffer([]byte{})
	if err := graph.Render(chart.PNG, buffer); err != nil {
		return nil, err
	}
	return buffer.Bytes(), nil
}

func noScoresText(palette ChartPalette) chart.Renderable {
	const msg = "No scores yet"
	return func(r chart.Renderer, cb chart.Box, _ chart.Style) {
		r.SetFontColor(palette.Text)
		r.SetFontSize(14.0)
		tb := r.MeasureText(msg)
		x := cb.Left + (cb.Width()-tb.Width())/2
		y := cb.Top + (cb.Height()+tb.Height())/2
		r.Text(msg, x, y)
	}
}
