package gameapi

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/Black-And-White-Club/golf-scorecard/pkg/jwt"
	"github.com/go-chi/chi/v5"
)

type claimsKey struct{}

// ClaimsFromContext returns the token claims set by RequireScorer.
func ClaimsFromContext(ctx context.Context) (*jwt.GameClaims, bool) {
	c, ok := ctx.Value(claimsKey{}).(*jwt.GameClaims)
	return c, ok
}

// bearerToken reads the Authorization header, falling back to the t query
// parameter used by scorer links.
func bearerToken(r *http.Request) string {
	if h := r.Header.Get("Authorization"); h != "" {
		if token, ok := strings.CutPrefix(h, "Bearer "); ok {
			return strings.TrimSpace(token)
		}
	}
	return r.URL.Query().Get("t")
}

// RequireScorer rejects requests without a scorer token for the game in the
// route. Routes without a gameID need a token for every game.
func RequireScorer(tokens jwt.Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := bearerToken(r)
			if raw == "" {
				http.Error(w, "missing token", http.StatusUnauthorized)
				return
			}

			claims, err := tokens.ValidateToken(raw)
			if err != nil {
				msg := "invalid token"
				if errors.Is(err, jwt.ErrExpiredToken) {
					msg = "token expired"
				}
				http.Error(w, msg, http.StatusUnauthorized)
				return
			}

			gameID := chi.URLParam(r, "gameID")
			if gameID == "" {
				gameID = jwt.AllGames
			}
			if !claims.CanScore(gameID) {
				http.Error(w, "scorer role required", http.StatusForbidden)
				return
			}

			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), claimsKey{}, claims)))
		})
	}
}
