package rest

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/heartmarshall/livecue-backend/internal/config"
	"github.com/heartmarshall/livecue-backend/internal/transport/middleware"
)

// loginsPerMinute bounds password guessing per client address.
const loginsPerMinute = 10

// Handlers groups everything the router mounts.
type Handlers struct {
	Health  *HealthHandler
	Auth    *AuthHandler
	Config  *ConfigHandler
	History *HistoryHandler
	// Console is the websocket endpoint; it authenticates its own query token.
	Console http.Handler
}

// NewRouter builds the HTTP routing tree.
func NewRouter(
	logger *slog.Logger,
	cors config.CORSConfig,
	validator middleware.TokenValidator,
	limiter *middleware.RateLimiter,
	h Handlers,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.RequestID(),
		middleware.ClientIP,
		middleware.Recovery(logger),
		middleware.Logger(logger),
		middleware.CORS(cors),
	)

	r.Get("/live", h.Health.Live)
	r.Get("/ready", h.Health.Ready)
	r.Get("/health", h.Health.Health)

	r.Handle("/ws/admin/{account_id}", h.Console)

	r.Route("/api", func(r chi.Router) {
		r.With(limiter.Limit(loginsPerMinute)).Post("/token", h.Auth.Token)

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(validator), middleware.RequireAccount)

			r.Get("/config", h.Config.GetLinks)
			r.Post("/config", h.Config.SaveLinks)
			r.Get("/alarm-config", h.Config.GetAlarm)
			r.Post("/alarm-config", h.Config.SaveAlarm)

			r.Get("/audits", h.History.Audits)
			r.Get("/logs/history", h.History.Logs)
			r.Get("/stats", h.History.Stats)
		})
	})

	return r
}
