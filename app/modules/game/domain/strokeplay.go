package gamedomain

import "sort"

type StrokePlayPlayer struct {
	PlayerID    PlayerID `json:"playerId"`
	Name        string   `json:"name"`
	Gross       int      `json:"gross"`
	Net         int      `json:"net"`
	ParPlayed   int      `json:"parPlayed"`
	ToPar       int      `json:"toPar"`
	HolesPlayed int      `json:"holesPlayed"`
	Allowance   int      `json:"allowance"`
}

type StrokePlayResult struct {
	Players          map[PlayerID]*StrokePlayPlayer `json:"players"`
	GrossLeaderboard []StrokePlayPlayer             `json:"grossLeaderboard"`
	NetLeaderboard   []StrokePlayPlayer             `json:"netLeaderboard"`
	UseHandicaps     bool                           `json:"useHandicaps"`
}

// CalculateStrokePlay totals gross strokes and a handicap-adjusted net over
// the holes each player has played.
func CalculateStrokePlay(scores ScoreTable, players []Player, holes []Hole, settings StrokePlaySettings) StrokePlayResult {
	res := StrokePlayResult{
		Players:      make(map[PlayerID]*StrokePlayPlayer, len(players)),
		UseHandicaps: settings.UseHandicaps,
	}
	ordered := sortedHoles(holes)

	rows := make([]StrokePlayPlayer, 0, len(players))
	for _, p := range players {
		row := StrokePlayPlayer{PlayerID: p.ID, Name: p.Name}
		for _, hole := range ordered {
			strokes, ok := scores.Score(p.ID, hole.Number).Strokes()
			if !ok {
				continue
			}
			row.Gross += strokes
			row.ParPlayed += hole.Par
			row.HolesPlayed++
		}
		row.ToPar = row.Gross - row.ParPlayed
		row.Net = row.Gross
		if hcp, ok := handicapOf(p); ok && settings.UseHandicaps {
			row.Allowance = roundHalfUp(hcp * float64(row.HolesPlayed) / 18)
			row.Net = row.Gross - row.Allowance
		}
		rows = append(rows, row)
	}
	for i := range rows {
		res.Players[rows[i].PlayerID] = &rows[i]
	}

	res.GrossLeaderboard = append([]StrokePlayPlayer(nil), rows...)
	sort.SliceStable(res.GrossLeaderboard, func(i, j int) bool {
		return res.GrossLeaderboard[i].Gross < res.GrossLeaderboard[j].Gross
	})
	res.NetLeaderboard = append([]StrokePlayPlayer(nil), rows...)
	sort.SliceStable(res.NetLeaderboard, func(i, j int) bool {
		return res.NetLeaderboard[i].Net < res.NetLeaderboard[j].Net
	})
	return res
}
