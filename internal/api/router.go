// ABOUTME: HTTP router wiring auth, tenant-scoped content routes and plugin routes
// ABOUTME: Every authenticated request is served from the caller's own tenant store

package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/2389/benotes/internal/auth"
	"github.com/2389/benotes/internal/metrics"
	"github.com/2389/benotes/internal/plugins"
	"github.com/2389/benotes/internal/store"
	"github.com/2389/benotes/internal/tenant"
)

// RateLimit bounds auth attempts per client IP.
type RateLimit struct {
	Requests int
	Window   time.Duration
}

// RouterConfig holds the router's collaborators and options.
type RouterConfig struct {
	Tenants *tenant.Router
	Plugins *plugins.Registry
	Issuer  *auth.JWTIssuer
	Logger  *slog.Logger
	Metrics *metrics.Metrics

	// Gatherer backs the metrics endpoint; nil disables it.
	Gatherer    prometheus.Gatherer
	MetricsPath string

	TokenTTL          time.Duration
	AllowRegistration bool
	RateLimit         RateLimit

	// TrustProxy takes the client address from X-Forwarded-For / X-Real-IP.
	// Only set it behind a proxy that overwrites those headers, since the
	// auth rate limiter keys on that address.
	TrustProxy bool

	// AllowReset mounts DELETE /api/admin/tenants/{id}/store for Admins.
	AllowReset bool
	Admins     []string
}

type server struct {
	tenants *tenant.Router
	plugins *plugins.Registry
	issuer  *auth.JWTIssuer
	logger  *slog.Logger

	tokenTTL          time.Duration
	allowRegistration bool
}

// NewRouter creates a new HTTP router with all routes registered.
func NewRouter(cfg RouterConfig) http.Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "api")
	m := cfg.Metrics
	if m == nil {
		m = metrics.NewNop()
	}
	ttl := cfg.TokenTTL
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}

	s := &server{
		tenants:           cfg.Tenants,
		plugins:           cfg.Plugins,
		issuer:            cfg.Issuer,
		logger:            logger,
		tokenTTL:          ttl,
		allowRegistration: cfg.AllowRegistration,
	}

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	if cfg.TrustProxy {
		r.Use(chimw.RealIP)
	}
	r.Use(recoverer(logger))
	r.Use(requestLogger(logger))
	r.Use(instrument(m))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		plugins.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	if cfg.Gatherer != nil && cfg.MetricsPath != "" {
		r.Handle(cfg.MetricsPath, promhttp.HandlerFor(cfg.Gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(rateLimit(cfg.RateLimit, logger))
			r.Post("/auth/register", s.handleRegister)
			r.Post("/auth/login", s.handleLogin)
		})

		r.Group(func(r chi.Router) {
			r.Use(auth.Middleware(cfg.Issuer))

			r.Get("/me", s.handleMe)

			r.Route("/pages", func(r chi.Router) {
				r.Get("/", s.handleListPages)
				r.Post("/", s.handleCreatePage)
				r.Get("/by-slug/{slug}", s.handleGetPageBySlug)
				r.Get("/{id}", s.handleGetPage)
				r.Get("/{id}/children", s.handleListChildPages)
				r.Put("/{id}/content", s.handleUpdatePageContent)
				r.Put("/{id}/title", s.handleRenamePage)
				r.Delete("/{id}", s.handleDeletePage)
			})

			r.Route("/cards", func(r chi.Router) {
				r.Get("/", s.handleListCards)
				r.Post("/", s.handleCreateCard)
				r.Get("/{id}", s.handleGetCard)
				r.Put("/{id}", s.handleUpdateCard)
				r.Delete("/{id}", s.handleDeleteCard)
			})

			r.Route("/tags", func(r chi.Router) {
				r.Get("/", s.handleListTags)
				r.Post("/", s.handleCreateTag)
				r.Delete("/{id}", s.handleDeleteTag)
			})

			r.Get("/plugins", s.handleListPlugins)
			s.mountPlugins(r)

			if cfg.AllowReset {
				logger.Warn("tenant reset endpoint enabled", "admins", cfg.Admins)
				r.With(auth.RequireAdmin(cfg.Admins)).
					Delete("/admin/tenants/{id}/store", s.handleResetTenant)
			}
		})
	})

	return r
}

// tenantStore resolves the store for the identity in ctx. It is also the
// StoreResolver handed to plugin routes.
func (s *server) tenantStore(ctx context.Context) (*store.TenantStore, error) {
	id := auth.MustFromContext(ctx)
	return s.tenants.Store(ctx, id.TenantID())
}

// mountPlugins gives each plugin with routes its own sub-router under
// /plugins/{id}.
func (s *server) mountPlugins(r chi.Router) {
	for _, p := range s.plugins.All() {
		if p.Routes == nil {
			continue
		}
		sub := chi.NewRouter()
		p.Routes(sub, s.tenantStore)
		r.Mount("/plugins/"+p.ID, sub)
		s.logger.Debug("mounted plugin routes", "plugin_id", p.ID)
	}
}
