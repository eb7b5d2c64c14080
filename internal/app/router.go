package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/subcore/company-service/internal/company"
	"github.com/subcore/company-service/internal/identity"
	"github.com/subcore/company-service/internal/member"
	"github.com/subcore/company-service/internal/observability"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger         *slog.Logger
	Config         *Config
	Gateway        *identity.Gateway
	CompanyHandler *company.Handler
	MemberHandler  *member.Handler
	Metrics        *observability.Metrics
}

// NewRouter constructs the chi.Router. Every /api route sits behind the
// token gateway; health and metrics stay open.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:  params.Logger,
		Config:  params.Config,
		Metrics: params.Metrics,
	}) {
		r.Use(mw)
	}

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	if params.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())
	}

	r.Route("/api", func(api chi.Router) {
		api.Use(params.Gateway.Middleware)
		params.CompanyHandler.MountRoutes(api)
		params.MemberHandler.MountRoutes(api)
	})

	return r
}
