package gamequeue

// RecalculateStandingsJob recomputes a game's standings from stored scores.
type RecalculateStandingsJob struct {
	GameID string `json:"game_id"`
	Reason string `json:"reason"`
}

// Kind returns the job type identifier for River
func (RecalculateStandingsJob) Kind() string { return "recalculate_standings" }
