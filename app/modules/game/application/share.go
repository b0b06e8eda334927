package gameservice

import (
	"context"
	"strings"

	"github.com/google/uuid"
	qr "github.com/skip2/go-qrcode"
)

// JoinURL is the link players open to follow a game.
func (s *GameService) JoinURL(joinCode string) string {
	return strings.TrimRight(s.publicBaseURL, "/") + "/join/" + joinCode
}

// ShareQRCode returns a PNG QR code of the game's join link.
func (s *GameService) ShareQRCode(ctx context.Context, gameID uuid.UUID) ([]byte, error) {
	view, err := s.GetGame(ctx, gameID)
	if err != nil {
		return nil, err
	}
	return qr.Encode(s.JoinURL(view.JoinCode), qr.Medium, 256)
}
