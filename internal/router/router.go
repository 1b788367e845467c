// Package router sets up all HTTP routes and middleware chains for the
// Diabolo Hub API. Routes live under /api/v1 and are grouped by the
// authentication they need.
package router

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"diabolohub/internal/handlers"
	"diabolohub/internal/middleware"
)

// requestTimeout bounds every request, uploads included.
const requestTimeout = 120 * time.Second

// Options configures the middleware stack.
type Options struct {
	Sessions    middleware.SessionGetter
	Secure      bool     // TLS deployment; sets Secure on cookies
	CORSOrigins []string // origins of the web app; empty disables CORS

	// Optional per-caller limiters. Nil disables limiting for that group.
	AuthLimiter  *middleware.RateLimiter
	CoachLimiter *middleware.RateLimiter

	// Ready reports whether backing services are reachable. Nil means
	// always ready.
	Ready func(ctx context.Context) error
}

// Handlers bundles the handler groups the router mounts.
type Handlers struct {
	Auth    *handlers.Auth
	Profile *handlers.Profile
	Forum   *handlers.Forum
	Uploads *handlers.Uploads
	Learn   *handlers.Learn
	Coach   *handlers.Coach
	Admin   *handlers.Admin
}

// New creates and returns the configured Chi router with all middleware
// and route groups wired up.
func New(opts Options, h Handlers) chi.Router {
	r := chi.NewRouter()

	// Global middleware, applied to every request.
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.SecureHeaders)
	if len(opts.CORSOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   opts.CORSOrigins,
			AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Content-Type", middleware.CSRFHeaderName, "X-Request-ID"},
			ExposedHeaders:   []string{"X-Request-ID", "Retry-After"},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}
	r.Use(chimw.Timeout(requestTimeout))

	// Health checks, no session and no CSRF.
	r.Get("/health", healthHandler)
	r.Get("/ready", readyHandler(opts.Ready))

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.NewCSRF(opts.Secure))
		r.Use(middleware.LoadSession(opts.Sessions))

		r.Get("/csrf", csrfHandler)

		// Auth. Login and registration are rate limited.
		r.Route("/auth", func(r chi.Router) {
			r.With(limit(opts.AuthLimiter)).Post("/register", h.Auth.Register)
			r.With(limit(opts.AuthLimiter)).Post("/login", h.Auth.Login)
			r.Post("/logout", h.Auth.Logout)

			// Requires auth but NOT completed 2FA.
			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireAuth)
				r.Get("/me", h.Auth.Me)
				r.Post("/2fa/setup", h.Auth.TwoFASetup)
				r.With(limit(opts.AuthLimiter)).Post("/2fa/verify", h.Auth.TwoFAVerify)
			})
		})

		// Learn: public catalog search plus member submissions.
		r.Route("/tutorials", func(r chi.Router) {
			r.Get("/", h.Learn.Search)
			r.Get("/countries", h.Learn.Countries)
			r.Get("/{id}", h.Learn.Get)
			r.With(middleware.RequireAuth, middleware.Require2FA).Post("/submissions", h.Uploads.SubmitTutorial)
		})

		r.Get("/users/{username}", h.Profile.Show)

		r.Route("/profile", func(r chi.Router) {
			r.Use(middleware.RequireAuth)
			r.Use(middleware.Require2FA)
			r.Patch("/", h.Profile.Update)
			r.Post("/avatar", h.Profile.Avatar)
			r.Post("/cover", h.Profile.Cover)
		})

		r.Route("/forum", func(r chi.Router) {
			r.Get("/channels", h.Forum.Channels)
			r.Get("/channels/{channel}/posts", h.Forum.Posts)

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireAuth)
				r.Use(middleware.Require2FA)
				r.Post("/posts", h.Forum.Create)
				r.Post("/posts/{id}/like", h.Forum.Like)
				r.Post("/uploads", h.Uploads.Forum)
				r.With(middleware.RequireAdmin).Delete("/posts/{id}", h.Forum.Delete)
			})
		})

		r.With(limit(opts.CoachLimiter)).Post("/coach/messages", h.Coach.Send)

		// Moderation, admins only.
		r.Route("/admin", func(r chi.Router) {
			r.Use(middleware.RequireAuth)
			r.Use(middleware.Require2FA)
			r.Use(middleware.RequireAdmin)
			r.Get("/submissions", h.Admin.Submissions)
			r.Post("/submissions/{id}/status", h.Admin.SetSubmissionStatus)
			r.Post("/users/{id}/role", h.Admin.SetRole)
		})
	})

	return r
}

// limit returns rl's middleware, or a pass-through when rl is nil.
func limit(rl *middleware.RateLimiter) func(http.Handler) http.Handler {
	if rl == nil {
		return func(next http.Handler) http.Handler { return next }
	}
	return rl.Middleware
}

// healthHandler returns a simple JSON health check response.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}

// readyHandler answers 503 while a backing service is down.
func readyHandler(ready func(ctx context.Context) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if ready != nil {
			ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
			defer cancel()
			if err := ready(ctx); err != nil {
				slog.Warn("readiness check failed", "error", err)
				w.WriteHeader(http.StatusServiceUnavailable)
				w.Write([]byte(`{"status":"unavailable"}`))
				return
			}
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ready"}`))
	}
}

// csrfHandler hands the CSRF token to clients that cannot read cookies.
func csrfHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"token":"` + middleware.CSRFTokenFromCtx(r.Context()) + `"}`))
}
