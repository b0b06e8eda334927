package gameapi

import (
	"math"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"golang.org/x/time/rate"
)

// bucketIdleAge is how long an unused bucket survives a sweep.
const bucketIdleAge = 10 * time.Minute

// RequestKey names the bucket a request draws from.
type RequestKey func(r *http.Request) string

type bucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// Limiter hands out one token bucket per key. Buckets idle for
// bucketIdleAge are swept at most once per bucketIdleAge.
type Limiter struct {
	mu        sync.Mutex
	buckets   map[string]*bucket
	limit     rate.Limit
	burst     int
	lastSweep time.Time
	now       func() time.Time
}

func NewLimiter(limit rate.Limit, burst int) *Limiter {
	return &Limiter{
		buckets: make(map[string]*bucket),
		limit:   limit,
		burst:   burst,
		now:     time.Now,
	}
}

// Take spends one token for key. When the bucket is empty it returns false
// and how long until a token is available.
func (l *Limiter) Take(key string) (bool, time.Duration) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if now.Sub(l.lastSweep) > bucketIdleAge {
		for k, b := range l.buckets {
			if now.Sub(b.lastSeen) > bucketIdleAge {
				delete(l.buckets, k)
			}
		}
		l.lastSweep = now
	}

	b, ok := l.buckets[key]
	if !ok {
		b = &bucket{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.buckets[key] = b
	}
	b.lastSeen = now

	res := b.limiter.ReserveN(now, 1)
	if !res.OK() {
		return false, bucketIdleAge
	}
	if delay := res.DelayFrom(now); delay > 0 {
		res.CancelAt(now)
		return false, delay
	}
	return true, 0
}

// ClientIP keys public requests by remote address. RealIP has already run.
func ClientIP(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		ip = r.RemoteAddr
	}
	return "ip:" + ip
}

// ScorerKey keys authenticated requests by token subject and game, so a
// scorer keeps one budget per game across networks.
func ScorerKey(r *http.Request) string {
	claims, ok := ClaimsFromContext(r.Context())
	if !ok {
		return ClientIP(r)
	}
	gameID := chi.URLParam(r, "gameID")
	if gameID == "" {
		gameID = "new"
	}
	return "scorer:" + claims.Subject + "/" + gameID
}

// Throttle rejects requests whose bucket is empty with 429 and a
// Retry-After in whole seconds.
func Throttle(l *Limiter, key RequestKey) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ok, wait := l.Take(key(r))
			if !ok {
				secs := int(math.Ceil(wait.Seconds()))
				if secs < 1 {
					secs = 1
				}
				w.Header().Set("Retry-After", strconv.Itoa(secs))
				http.Error(w, http.StatusText(http.StatusTooManyRequests), http.StatusTooManyRequests)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
