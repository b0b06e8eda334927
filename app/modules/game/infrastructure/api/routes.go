package gameapi

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/time/rate"
)

// HealthCheck reports whether a dependency is usable.
type HealthCheck func(ctx context.Context) error

// RouteOptions tunes the HTTP surface. Public routes are limited per client
// IP, scorer routes per token subject and game.
type RouteOptions struct {
	AllowedOrigins      []string
	RatePerSecond       float64
	RateBurst           int
	ScorerRatePerSecond float64
	ScorerRateBurst     int
	HealthChecks        map[string]HealthCheck
}

func (o RouteOptions) withDefaults() RouteOptions {
	if o.RatePerSecond <= 0 {
		o.RatePerSecond = 10
	}
	if o.RateBurst <= 0 {
		o.RateBurst = 20
	}
	if o.ScorerRatePerSecond <= 0 {
		o.ScorerRatePerSecond = o.RatePerSecond
	}
	if o.ScorerRateBurst <= 0 {
		o.ScorerRateBurst = o.RateBurst
	}
	return o
}

// NewRouter builds the chi router for the game API.
func NewRouter(api *GameAPI, opts RouteOptions) chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", api.healthz(opts.HealthChecks))
	r.Route("/v1", func(r chi.Router) {
		api.RegisterRoutes(r, opts)
	})
	return r
}

// RegisterRoutes mounts the game routes on r.
func (a *GameAPI) RegisterRoutes(r chi.Router, opts RouteOptions) {
	opts = opts.withDefaults()
	public := Throttle(NewLimiter(rate.Limit(opts.RatePerSecond), opts.RateBurst), ClientIP)
	scorer := Throttle(NewLimiter(rate.Limit(opts.ScorerRatePerSecond), opts.ScorerRateBurst), ScorerKey)

	r.Use(CORSMiddleware(opts.AllowedOrigins))

	r.With(public).Get("/games/join/{code}", a.JoinGame)
	r.With(RequireScorer(a.tokens), scorer).Post("/games", a.CreateGame)

	r.Route("/games/{gameID}", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(public)
			r.Get("/", a.GetGame)
			r.Get("/standings", a.GetStandings)
			r.Get("/summary", a.Summary)
			r.Get("/scorecard.xlsx", a.ExportScorecard)
			r.Get("/progress.png", a.ProgressChart)
			r.Get("/share.png", a.ShareQRCode)
			r.Get("/live", a.Live)
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.Timeout(30 * time.Second))
			r.Use(RequireScorer(a.tokens))
			r.Use(scorer)
			r.Put("/scores/{playerID}/{hole}", a.RecordScore)
			r.Delete("/scores/{playerID}/{hole}", a.ClearScore)
			r.Post("/scorecard", a.ImportScorecard)
		})
	})
}

func (a *GameAPI) healthz(checks map[string]HealthCheck) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		status := http.StatusOK
		report := map[string]string{"status": "ok"}
		for name, check := range checks {
			if err := check(ctx); err != nil {
				status = http.StatusServiceUnavailable
				report["status"] = "degraded"
				report[name] = err.Error()
				continue
			}
			report[name] = "ok"
		}
		writeJSON(w, status, report)
	}
}
