// Package httptransport assembles the HTTP API: middleware chain, public and
// authenticated route groups, and operational endpoints.
package httptransport

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	platformmetrics "crivo/internal/platform/metrics"
	pricinghandler "crivo/internal/pricing/handler"
	proposalhandler "crivo/internal/proposal/handler"
	"crivo/pkg/platform/middleware/admin"
	"crivo/pkg/platform/middleware/auth"
	"crivo/pkg/platform/middleware/requestid"
	"crivo/pkg/platform/middleware/requesttime"
)

// Deps carries everything the router mounts.
type Deps struct {
	Logger       *slog.Logger
	Metrics      *platformmetrics.Metrics
	JWTValidator auth.JWTValidator
	AdminToken   string

	Proposals *proposalhandler.Handler
	Pricing   *pricinghandler.Handler
	Admin     *AdminHandler
	Health    http.HandlerFunc
}

// NewRouter wires the full API surface.
func NewRouter(deps Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.Recoverer)
	r.Use(requestid.Middleware)
	r.Use(requesttime.Middleware)
	r.Use(chimw.Timeout(30 * time.Second))
	r.Use(metricsMiddleware(deps.Metrics))

	if deps.Health != nil {
		r.Get("/healthz", deps.Health)
	} else {
		r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte(`{"status":"ok"}`))
		})
	}
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(api chi.Router) {
		api.Use(auth.RequireAuth(deps.JWTValidator, deps.Logger))

		deps.Proposals.Register(api)
		deps.Pricing.Register(api)
	})

	if deps.Admin != nil {
		r.Route("/admin", func(adm chi.Router) {
			adm.Use(admin.RequireAdminToken(deps.AdminToken, deps.Logger))
			deps.Admin.Register(adm)
		})
	}

	return r
}

// metricsMiddleware records per-route latency and status counts using the
// matched chi route pattern, keeping label cardinality bounded.
func metricsMiddleware(m *platformmetrics.Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			recorder := chimw.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(recorder, r)

			route := chi.RouteContext(r.Context()).RoutePattern()
			if route == "" {
				route = "unmatched"
			}
			m.Observe(r.Method, route, recorder.Status(), time.Since(start))
		})
	}
}
