package gameservice

import (
	"errors"

	gamedomain "github.com/Black-And-White-Club/golf-scorecard/app/modules/game/domain"
	gamedb "github.com/Black-And-White-Club/golf-scorecard/app/modules/game/infrastructure/repositories"
)

var (
	// ErrInvalidRequest marks a request that failed validation.
	ErrInvalidRequest = errors.New("invalid request")
	// ErrInvalidTeeTime is returned when a tee time cannot be understood.
	ErrInvalidTeeTime = errors.New("invalid tee time")
	// ErrInvalidScorecard is returned when an uploaded scorecard cannot be parsed.
	ErrInvalidScorecard = errors.New("invalid scorecard")
	// ErrJoinCodeExhausted is returned when no free join code could be found.
	ErrJoinCodeExhausted = errors.New("could not allocate a unique join code")
)

// IsRejection reports whether err is a caller mistake rather than an
// infrastructure fault. Rejections are answered; faults are retried.
func IsRejection(err error) bool {
	for _, target := range []error{
		ErrInvalidRequest,
		ErrInvalidTeeTime,
		ErrInvalidScorecard,
		gamedb.ErrNotFound,
		gamedomain.ErrUnknownPlayer,
		gamedomain.ErrUnknownHole,
		gamedomain.ErrInvalidStrokes,
		gamedomain.ErrUnknownFormat,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
