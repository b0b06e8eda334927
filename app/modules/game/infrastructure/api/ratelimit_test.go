package gameapi

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Black-And-White-Club/golf-scorecard/pkg/jwt"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
)

func TestLimiterTake(t *testing.T) {
	now := time.Date(2026, 10, 14, 9, 0, 0, 0, time.UTC)
	l := NewLimiter(rate.Every(2*time.Second), 1)
	l.now = func() time.Time { return now }

	ok, _ := l.Take("a")
	assert.True(t, ok)

	ok, wait := l.Take("a")
	assert.False(t, ok)
	assert.Equal(t, 2*time.Second, wait)

	ok, _ = l.Take("b")
	assert.True(t, ok, "keys have separate buckets")

	now = now.Add(2 * time.Second)
	ok, _ = l.Take("a")
	assert.True(t, ok, "bucket refills")

	now = now.Add(bucketIdleAge + time.Second)
	ok, _ = l.Take("c")
	assert.True(t, ok)
	assert.NotContains(t, l.buckets, "a")
	assert.NotContains(t, l.buckets, "b")
	assert.Contains(t, l.buckets, "c")
}

func TestThrottleRetryAfter(t *testing.T) {
	l := NewLimiter(rate.Every(90*time.Second), 1)
	handler := Throttle(l, ClientIP)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	codes := make([]int, 0, 2)
	var last *httptest.ResponseRecorder
	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "203.0.113.7:4000"
		last = httptest.NewRecorder()
		handler.ServeHTTP(last, req)
		codes = append(codes, last.Code)
	}
	assert.Equal(t, []int{http.StatusNoContent, http.StatusTooManyRequests}, codes)
	assert.Equal(t, "90", last.Header().Get("Retry-After"))
}

func TestScorerRateLimitFollowsToken(t *testing.T) {
	env := newTestEnv(t, RouteOptions{
		RatePerSecond:       0.001,
		RateBurst:           1,
		ScorerRatePerSecond: 0.001,
		ScorerRateBurst:     2,
	})
	gameID := uuid.New()
	path := fmt.Sprintf("/v1/games/%s/scores/alice/1", gameID)
	scorer := env.token(t, gameID.String(), jwt.RoleScorer)

	put := func(token, ip string) int {
		req := httptest.NewRequest(http.MethodPut, path, strings.NewReader(`{"strokes":4}`))
		req.Header.Set("Authorization", "Bearer "+token)
		req.RemoteAddr = ip + ":5555"
		return env.do(req).Code
	}

	// the budget follows the token across networks
	assert.Equal(t, http.StatusOK, put(scorer, "203.0.113.9"))
	assert.Equal(t, http.StatusOK, put(scorer, "203.0.113.9"))
	assert.Equal(t, http.StatusTooManyRequests, put(scorer, "198.51.100.4"))

	other, err := env.tokens.GenerateToken("second-scorer", gameID.String(), jwt.RoleScorer, time.Hour)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, put(other, "203.0.113.9"))

	allGames := env.token(t, jwt.AllGames, jwt.RoleScorer)
	otherGame := fmt.Sprintf("/v1/games/%s/scores/alice/1", uuid.New())
	req := httptest.NewRequest(http.MethodPut, otherGame, strings.NewReader(`{"strokes":4}`))
	req.Header.Set("Authorization", "Bearer "+allGames)
	assert.Equal(t, http.StatusOK, env.do(req).Code, "each game has its own scorer budget")

	// scoring did not spend the public budget of that address
	req = httptest.NewRequest(http.MethodGet, "/v1/games/join/brave-otter", nil)
	req.RemoteAddr = "203.0.113.9:5555"
	assert.Equal(t, http.StatusOK, env.do(req).Code)
}
