package middleware

import (
	"context"
	"net/http"
	"time"
)

// Guarded is the part of a browser session the route guard looks at.
type Guarded interface {
	Wait(ctx context.Context) error
	Loading() bool
	IsAuthenticated() bool
}

// GuardConfig configures RequireSession.
type GuardConfig struct {
	// Lookup returns the session attached to r, nil when there is none.
	Lookup func(r *http.Request) Guarded
	// Timeout bounds how long a request waits for the first session check.
	Timeout   time.Duration
	LoginPath string
	// Loading renders the placeholder shown while the check is pending.
	Loading http.Handler
}

// RequireSession lets authenticated sessions through and sends anonymous
// ones to the login page. A session still being checked after Timeout gets
// the loading page, which reloads itself after a second.
func RequireSession(cfg GuardConfig) func(http.Handler) http.Handler {
	if cfg.LoginPath == "" {
		cfg.LoginPath = "/login"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 5 * time.Second
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			s := cfg.Lookup(r)
			if s == nil {
				http.Redirect(w, r, cfg.LoginPath, http.StatusFound)
				return
			}

			ctx, cancel := context.WithTimeout(r.Context(), cfg.Timeout)
			err := s.Wait(ctx)
			cancel()
			if err != nil && s.Loading() {
				w.Header().Set("Refresh", "1")
				w.Header().Set("Cache-Control", "no-store")
				if cfg.Loading != nil {
					cfg.Loading.ServeHTTP(w, r)
					return
				}
				w.WriteHeader(http.StatusOK)
				_, _ = w.Write([]byte("Cargando…"))
				return
			}

			if !s.IsAuthenticated() {
				http.Redirect(w, r, cfg.LoginPath, http.StatusFound)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
