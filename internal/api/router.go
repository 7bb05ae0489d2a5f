package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	_ "github.com/joestump/linkpage/docs/swagger"
	"github.com/joestump/linkpage/internal/auth"
	"github.com/joestump/linkpage/internal/logging"
	"github.com/joestump/linkpage/internal/metrics"
	"github.com/joestump/linkpage/internal/store"
)

const healthTimeout = 2 * time.Second

// Deps holds all dependencies required to build the router.
type Deps struct {
	Users       store.Users
	Links       store.Links
	Health      store.Pinger
	Hasher      *auth.Hasher
	Issuer      *auth.Issuer
	Logger      *slog.Logger
	CORSOrigins []string
}

// NewRouter assembles the chi router with middleware, the API routes and the
// ambient /healthz, /metrics and /api-docs endpoints. It is built once and
// not modified afterwards.
func NewRouter(deps Deps) http.Handler {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(logging.Requests(logger))
	r.Use(metrics.Instrument)
	r.Use(middleware.Recoverer)
	r.Use(cors(deps.CORSOrigins))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "route not found", codeNotFound)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed", codeMethodNotAllowed)
	})

	r.Get("/healthz", healthz(deps.Health))
	r.Handle("/metrics", metrics.Handler())
	r.Get("/api-docs/*", httpSwagger.WrapHandler)
	r.Get("/api-docs", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/api-docs/index.html", http.StatusMovedPermanently)
	})

	users := &usersAPIHandler{users: deps.Users, links: deps.Links, logger: logger}
	registerAuthRoutes(r, &authAPIHandler{
		users:  deps.Users,
		hasher: deps.Hasher,
		issuer: deps.Issuer,
		logger: logger,
	})
	r.Get("/users/{username}", users.Profile)

	tokens := auth.NewMiddleware(deps.Issuer, logger)
	r.Group(func(r chi.Router) {
		r.Use(tokens.RequireToken)
		registerUserRoutes(r, users)
		registerLinkRoutes(r, &linksAPIHandler{links: deps.Links, logger: logger})
	})

	return r
}

// healthz reports whether the store answers a ping.
//
// @Summary      Health check
// @Tags         Health
// @Produce      json
// @Success      200  {object}  HealthResponse
// @Failure      503  {object}  HealthResponse
// @Router       /healthz [get]
func healthz(p store.Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if p != nil {
			ctx, cancel := context.WithTimeout(r.Context(), healthTimeout)
			defer cancel()
			if err := p.Ping(ctx); err != nil {
				slog.WarnContext(r.Context(), "health check failed", slog.Any("error", err))
				writeJSON(w, http.StatusServiceUnavailable, HealthResponse{Status: "unavailable"})
				return
			}
		}
		writeJSON(w, http.StatusOK, HealthResponse{Status: "ok"})
	}
}
