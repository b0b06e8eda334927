// Package gameevents defines the topics and payloads exchanged by the game module.
package gameevents

import (
	gamedomain "github.com/Black-And-White-Club/golf-scorecard/app/modules/game/domain"
)

// StreamName is the JetStream stream that holds every game subject.
const StreamName = "game"

const (
	// ScoreSubmittedV1 is published by scorers. A nil Strokes clears the hole.
	ScoreSubmittedV1 = "game.score.submitted.v1"
	// ScoreRejectedV1 answers a submission that failed validation.
	ScoreRejectedV1 = "game.score.rejected.v1"
	// StandingsUpdatedV1 carries a freshly computed standings snapshot.
	StandingsUpdatedV1 = "game.standings.updated.v1"
	// RecalculationRequestedV1 asks for a full recompute from storage.
	RecalculationRequestedV1 = "game.recalculation.requested.v1"
)

// Subjects lists every subject the game stream must capture.
var Subjects = []string{
	ScoreSubmittedV1,
	ScoreRejectedV1,
	StandingsUpdatedV1,
	RecalculationRequestedV1,
}

type ScoreSubmittedPayloadV1 struct {
	GameID     string              `json:"game_id"`
	PlayerID   gamedomain.PlayerID `json:"player_id"`
	HoleNumber int                 `json:"hole_number"`
	Strokes    *int                `json:"strokes,omitempty"`
}

type ScoreRejectedPayloadV1 struct {
	GameID     string              `json:"game_id"`
	PlayerID   gamedomain.PlayerID `json:"player_id"`
	HoleNumber int                 `json:"hole_number"`
	Reason     string              `json:"reason"`
}

type StandingsUpdatedPayloadV1 struct {
	GameID    string               `json:"game_id"`
	Format    gamedomain.Format    `json:"format"`
	Version   int64                `json:"version"`
	Standings gamedomain.Standings `json:"standings"`
}

type RecalculationRequestedPayloadV1 struct {
	GameID string `json:"game_id"`
	Reason string `json:"reason,omitempty"`
}
