// Package httptransport assembles the admin HTTP surface: router-wide
// middleware, health and metrics endpoints, and the tenant-scoped module
// routes.
package httptransport

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"tally/internal/platform/metrics"
	"tally/internal/platform/middleware"
	"tally/pkg/platform/httputil"
	"tally/pkg/platform/middleware/request"
	"tally/pkg/platform/middleware/tenant"
)

// Registrar is a module handler that mounts its routes.
type Registrar interface {
	Register(r chi.Router)
}

// Check reports whether a backing dependency can serve requests.
type Check func(ctx context.Context) error

// Options configures NewRouter. A nil Metrics disables request metrics and
// the /metrics endpoint.
type Options struct {
	Logger  *slog.Logger
	Metrics *metrics.Metrics
	// Timeout bounds each tenant-scoped request. Zero means no limit.
	Timeout time.Duration
	// Checks are run by /readyz, keyed by dependency name.
	Checks map[string]Check
}

// NewRouter wires the middleware chain and mounts every module under the
// tenant middleware.
func NewRouter(opts Options, modules ...Registrar) http.Handler {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	r := chi.NewRouter()
	r.Use(middleware.Recovery(logger, opts.Metrics))
	r.Use(request.RequestID)
	r.Use(request.Time)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Latency(opts.Metrics))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Get("/readyz", readiness(logger, opts.Checks))
	if opts.Metrics != nil {
		r.Handle("/metrics", promhttp.Handler())
	}

	r.Group(func(r chi.Router) {
		if opts.Timeout > 0 {
			r.Use(chimiddleware.Timeout(opts.Timeout))
		}
		r.Use(middleware.ContentTypeJSON)
		r.Use(tenant.RequireTenant(logger))
		for _, m := range modules {
			m.Register(r)
		}
	})
	return r
}

func readiness(logger *slog.Logger, checks map[string]Check) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status := http.StatusOK
		result := make(map[string]string, len(checks))
		for name, check := range checks {
			if err := check(r.Context()); err != nil {
				logger.WarnContext(r.Context(), "readiness check failed", "dependency", name, "error", err)
				result[name] = "unavailable"
				status = http.StatusServiceUnavailable
				continue
			}
			result[name] = "ok"
		}
		httputil.WriteJSON(w, status, result)
	}
}
