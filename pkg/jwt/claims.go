package jwt

import "github.com/golang-jwt/jwt/v5"

// GameClaims scope a token to one game, or every game when Game is "*".
type GameClaims struct {
	jwt.RegisteredClaims
	Game string `json:"game"`
	Role string `json:"role"`
}

type Role string

const (
	RoleViewer Role = "viewer"
	RoleScorer Role = "scorer"
)

// AllGames grants access to every game.
const AllGames = "*"

// CanScore reports whether the claims allow changing scores in gameID.
func (c *GameClaims) CanScore(gameID string) bool {
	return Role(c.Role) == RoleScorer && (c.Game == AllGames || c.Game == gameID)
}
