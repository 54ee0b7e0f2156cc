// Package httptransport assembles the public HTTP surface: shared
// middleware, probes, metrics and the authenticated settlement API.
package httptransport

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"consortium/pkg/platform/httputil"
	"consortium/pkg/platform/middleware/auth"
	"consortium/pkg/platform/middleware/metadata"
	request "consortium/pkg/platform/middleware/request"
	"consortium/pkg/platform/middleware/requesttime"
)

// Registrar is implemented by domain handlers mounting their routes.
type Registrar interface {
	Register(r chi.Router)
}

// Metrics wraps requests for instrumentation and serves the scrape endpoint.
type Metrics interface {
	Middleware(next http.Handler) http.Handler
	Handler() http.Handler
}

// ReadinessCheck reports whether a dependency can serve traffic.
type ReadinessCheck func(ctx context.Context) error

type RouterConfig struct {
	Logger     *slog.Logger
	Validator  auth.JWTValidator
	Publisher  auth.AuditPublisher
	Metrics    Metrics
	Readiness  map[string]ReadinessCheck
	Registrars []Registrar
}

// NewRouter wires all public endpoints. Probes and /metrics are open; every
// registrar is mounted behind operator authentication.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()
	r.Use(request.RequestID)
	r.Use(metadata.ClientMetadata)
	r.Use(requesttime.Middleware)
	r.Use(chimw.Recoverer)
	if cfg.Metrics != nil {
		r.Use(cfg.Metrics.Middleware)
		r.Handle("/metrics", cfg.Metrics.Handler())
	}

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Get("/readyz", readiness(cfg.Readiness, cfg.Logger))

	r.Group(func(r chi.Router) {
		r.Use(auth.RequireAuth(cfg.Validator, cfg.Publisher, cfg.Logger))
		for _, reg := range cfg.Registrars {
			reg.Register(r)
		}
	})
	return r
}

func readiness(checks map[string]ReadinessCheck, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		status := make(map[string]string, len(checks))
		code := http.StatusOK
		for name, check := range checks {
			if err := check(ctx); err != nil {
				logger.WarnContext(ctx, "readiness check failed", "dependency", name, "error", err)
				status[name] = "unavailable"
				code = http.StatusServiceUnavailable
				continue
			}
			status[name] = "ok"
		}
		httputil.WriteJSON(w, code, status)
	}
}
