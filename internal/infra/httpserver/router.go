package httpserver

import (
	"errors"
	"html/template"
	"io/fs"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/gorilla/sessions"

	appai "github.com/bryanwahyu/fisichecker/internal/application/ai"
	appaudits "github.com/bryanwahyu/fisichecker/internal/application/audits"
	"github.com/bryanwahyu/fisichecker/internal/application/auth"
	appexports "github.com/bryanwahyu/fisichecker/internal/application/exports"
	"github.com/bryanwahyu/fisichecker/internal/application/preferences"
	appstats "github.com/bryanwahyu/fisichecker/internal/application/statistics"
	domai "github.com/bryanwahyu/fisichecker/internal/domain/ai"
	"github.com/bryanwahyu/fisichecker/internal/domain/session"
	"github.com/bryanwahyu/fisichecker/internal/infra/backend"
	"github.com/bryanwahyu/fisichecker/internal/infra/memory"
	"github.com/bryanwahyu/fisichecker/internal/logging"
	"github.com/bryanwahyu/fisichecker/internal/middleware"
)

// Options wires the dashboard. Nil services fall back to defaults: no AI,
// no export archive, preferences in memory.
type Options struct {
	Resolver    backend.Resolver
	Sessions    *auth.Registry
	Audits      *appaudits.Service
	Statistics  *appstats.Service
	Exports     *appexports.Service
	Preferences *preferences.Service
	AI          *appai.Service
	Markdown    appai.Renderer

	CookieStore  sessions.Store
	CookieName   string
	CSRFSecret   []byte
	CheckTimeout time.Duration
	MaxBodyBytes int64
	CORSOrigins  []string

	// TrustedProxies is how many reverse proxies sit in front of the
	// dashboard. Zero ignores X-Forwarded-For.
	TrustedProxies int

	Limiter *middleware.RateLimiter
	Metrics *middleware.Metrics
	Health  map[string]middleware.HealthChecker
	Ready   middleware.HealthChecker
}

type Router struct {
	resolver backend.Resolver
	sessions *auth.Registry
	audits   *appaudits.Service
	stats    *appstats.Service
	exports  *appexports.Service
	prefs    *preferences.Service
	ai       *appai.Service

	store      sessions.Store
	cookieName string
	csrf       csrfSigner
	pages      map[string]*template.Template
	colab      template.HTML
}

func NewRouter(opts Options) (http.Handler, error) {
	pages, err := parseTemplates()
	if err != nil {
		return nil, err
	}
	r := &Router{
		resolver:   opts.Resolver,
		sessions:   opts.Sessions,
		audits:     opts.Audits,
		stats:      opts.Statistics,
		exports:    opts.Exports,
		prefs:      opts.Preferences,
		ai:         opts.AI,
		store:      opts.CookieStore,
		cookieName: opts.CookieName,
		csrf:       newCSRFSigner(opts.CSRFSecret),
		pages:      pages,
	}
	if r.audits == nil {
		r.audits = &appaudits.Service{}
	}
	if r.stats == nil {
		r.stats = &appstats.Service{}
	}
	if r.exports == nil {
		r.exports = &appexports.Service{}
	}
	if r.prefs == nil {
		r.prefs = &preferences.Service{Repo: memory.NewPreferenceRepository()}
	}
	if r.cookieName == "" {
		r.cookieName = "fisichecker"
	}
	if r.store == nil {
		r.store = NewCookieStore(r.csrf.secret, 0, false)
	}
	if opts.Markdown != nil {
		if r.colab, err = opts.Markdown.Render(colabInstructions); err != nil {
			return nil, err
		}
	}

	static, err := fs.Sub(staticFS, "static")
	if err != nil {
		return nil, err
	}

	limit := func(next http.Handler) http.Handler { return next }
	if opts.Limiter != nil {
		limit = middleware.RateLimit(opts.Limiter, http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			r.renderError(w, req, http.StatusTooManyRequests, msgRateLimited)
		}))
	}
	guard := middleware.RequireSession(middleware.GuardConfig{
		Lookup:    lookupSession,
		Timeout:   opts.CheckTimeout,
		LoginPath: "/login",
		Loading: http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			_ = r.render(w, req, http.StatusOK, "loading", r.page(req, nil, "Cargando…", "", nil))
		}),
	})

	mux := chi.NewRouter()
	mux.Use(middleware.ClientIP(opts.TrustedProxies))
	mux.Use(middleware.LoggingMiddleware)
	if opts.Metrics != nil {
		mux.Use(opts.Metrics.Middleware)
	}
	mux.Use(chimw.Recoverer)
	mux.Use(middleware.SecurityHeaders)
	mux.Use(middleware.LimitBody(opts.MaxBodyBytes))

	mux.Get("/health", middleware.HealthHandler(opts.Health))
	mux.Get("/health/ready", middleware.ReadinessHandler(opts.Ready))
	mux.Get("/health/live", middleware.LivenessHandler)
	if opts.Metrics != nil {
		mux.Handle("/metrics", opts.Metrics.Handler())
	}
	mux.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(static))))

	mux.Route("/api/v1", func(api chi.Router) {
		if len(opts.CORSOrigins) > 0 {
			api.Use(cors.Handler(cors.Options{
				AllowedOrigins:   opts.CORSOrigins,
				AllowedMethods:   []string{http.MethodGet, http.MethodOptions},
				AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-ID"},
				ExposedHeaders:   []string{"X-Request-ID"},
				AllowCredentials: true,
				MaxAge:           300,
			}))
		}
		api.Use(r.browserSession)
		api.Get("/session", r.wrapJSON(r.apiSession))
		api.Group(func(priv chi.Router) {
			priv.Use(r.requireAPISession(opts.CheckTimeout))
			priv.Get("/audits", r.wrapJSON(r.apiRecent))
			priv.Get("/audits/{id}", r.wrapJSON(r.apiAudit))
			priv.Get("/statistics", r.wrapJSON(r.apiStatistics))
		})
	})

	mux.Group(func(pages chi.Router) {
		pages.Use(r.browserSession)

		pages.Get("/login", r.wrap(r.handleLoginPage))
		pages.With(limit, r.verifyCSRF).Post("/login", r.wrap(r.handleLogin))
		pages.Get("/logout", r.wrap(r.handleLogoutPage))
		pages.With(r.verifyCSRF).Post("/logout", r.wrap(r.handleLogout))
		pages.With(r.verifyCSRF).Post("/theme", r.wrap(r.handleTheme))

		pages.Group(func(priv chi.Router) {
			priv.Use(guard)
			priv.Get("/panelprincipal", r.wrap(r.handlePanel))
			priv.With(limit, r.verifyCSRF).Post("/panelprincipal/audit", r.wrap(r.handleRunAudit))
			priv.With(r.verifyCSRF).Post("/panelprincipal/history/clear", r.wrap(r.handleClearHistory))
			priv.Get("/audit/{id}", r.wrap(r.handleDetail))
			priv.With(r.verifyCSRF).Post("/audit/{id}/delete", r.wrap(r.handleDelete))
			priv.With(limit, r.verifyCSRF).Post("/audit/{id}/summary", r.wrap(r.handleSummary))
			priv.Get("/colab", r.wrap(r.handleColab))
			priv.Get("/statistics", r.wrap(r.handleStatistics))
			priv.Get("/export/{format}", r.wrap(r.handleExport))
			priv.With(limit, r.verifyCSRF).Post("/export/{format}/archive", r.wrap(r.handleArchive))
		})
	})

	toPanel := func(w http.ResponseWriter, req *http.Request) {
		http.Redirect(w, req, "/panelprincipal", http.StatusFound)
	}
	mux.Get("/", toPanel)
	mux.NotFound(toPanel)

	return mux, nil
}

type handlerFunc func(http.ResponseWriter, *http.Request) error

// wrap renders errors a handler did not turn into an inline message. A
// backend 401 ends the local session and goes back to the login page.
func (r *Router) wrap(h handlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		err := h(w, req)
		if err == nil {
			return
		}
		if errors.Is(err, session.ErrUnauthorized) {
			if b := browserFrom(req.Context()); b != nil {
				b.session.Expire()
			}
			r.redirect(w, req, "/login", http.StatusFound)
			return
		}
		status, msg := classify(err)
		log := logging.FromContext(req.Context())
		if status >= 500 {
			log.Error("request failed", "path", req.URL.Path, "error", err)
		} else {
			log.Warn("request failed", "path", req.URL.Path, "error", err)
		}
		r.renderError(w, req, status, msg)
	}
}

const (
	msgRateLimited   = "Demasiadas solicitudes. Espera un momento e inténtalo de nuevo."
	msgUnreachable   = "No se pudo contactar al servidor de auditorías."
	msgQuota         = "Se agotó la cuota de IA. Inténtalo más tarde."
	msgArchiveOff    = "El archivo de exportaciones no está configurado."
	msgNotFound      = "No encontrado."
	msgInternal      = "Error interno del servidor."
	msgFormExpired   = "El formulario expiró. Recarga la página e inténtalo de nuevo."
	msgLoginFailed   = "Usuario o contraseña incorrectos"
	msgDetailFailed  = "No se pudo cargar el reporte."
	msgSummaryOff    = "El resumen con IA no está configurado."
	msgSummaryFailed = "No se pudo generar el resumen."
)

func classify(err error) (int, string) {
	switch {
	case errors.Is(err, domai.ErrQuotaExceeded):
		return http.StatusTooManyRequests, msgQuota
	case errors.Is(err, appexports.ErrArchiveDisabled):
		return http.StatusNotFound, msgArchiveOff
	case errors.Is(err, backend.ErrTransport):
		return http.StatusBadGateway, msgUnreachable
	}
	var he *backend.HTTPError
	if errors.As(err, &he) {
		if he.Status == http.StatusNotFound {
			return http.StatusNotFound, msgNotFound
		}
		return http.StatusBadGateway, "El servidor de auditorías respondió " + he.StatusText()
	}
	return http.StatusInternalServerError, msgInternal
}
