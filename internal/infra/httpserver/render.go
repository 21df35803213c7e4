package httpserver

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"strings"
	"unicode"

	"github.com/bryanwahyu/fisichecker/internal/domain/audits"
	"github.com/bryanwahyu/fisichecker/internal/domain/session"
	"github.com/bryanwahyu/fisichecker/internal/logging"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

// pageNames are the templates under templates/ that render a full page
// inside layout.html.
var pageNames = []string{"login", "logout", "loading", "panel", "detail", "statistics", "colab", "error"}

var funcs = template.FuncMap{
	"verdictClass": verdictClass,
	"modeClass":    func(mode string) string { return "mode-" + strings.ToLower(mode) },
	"levelClass":   func(level string) string { return "level-" + strings.ToLower(level) },
	"date":         audits.FormatTimestamp,
	"join":         strings.Join,
	"pct": func(v float64) string {
		return fmt.Sprintf("%.1f%%", v)
	},
}

func parseTemplates() (map[string]*template.Template, error) {
	base, err := template.New("layout.html").Funcs(funcs).ParseFS(templateFS, "templates/layout.html", "templates/partials.html")
	if err != nil {
		return nil, fmt.Errorf("parse layout: %w", err)
	}
	pages := make(map[string]*template.Template, len(pageNames))
	for _, name := range pageNames {
		t, err := base.Clone()
		if err != nil {
			return nil, err
		}
		if _, err := t.ParseFS(templateFS, "templates/"+name+".html"); err != nil {
			return nil, fmt.Errorf("parse %s: %w", name, err)
		}
		pages[name] = t
	}
	return pages, nil
}

func verdictClass(v audits.Verdict) string {
	switch v.Normalize() {
	case audits.VerdictPass:
		return "verdict-pass"
	case audits.VerdictFail:
		return "verdict-fail"
	case audits.VerdictPartial:
		return "verdict-partial"
	case audits.VerdictNA:
		return "verdict-na"
	}
	return "verdict-unknown"
}

// pageData is what layout.html sees. Data carries the page's own model.
type pageData struct {
	Title         string
	Nav           string
	User          string
	Authenticated bool
	Theme         string
	CSRF          string
	Path          string
	Flash         flashMessages
	Data          any
}

// page assembles the layout model. prefs may be nil, in which case the
// browser's preferences are loaded.
func (r *Router) page(req *http.Request, prefs *session.Preferences, title, nav string, data any) pageData {
	p := pageData{
		Title: title,
		Nav:   nav,
		Theme: session.ThemeLight,
		Path:  req.URL.RequestURI(),
		Data:  data,
	}
	b := browserFrom(req.Context())
	if b == nil {
		return p
	}
	if prefs == nil {
		var err error
		if prefs, err = r.prefs.Get(req.Context(), b.clientID); err != nil {
			logging.FromContext(req.Context()).Warn("load preferences", "error", err)
		}
	}
	if prefs != nil {
		p.Theme = prefs.EffectiveTheme()
	}
	p.CSRF = r.csrf.Token(b.clientID)
	p.Flash = r.takeFlashes(req)
	if b.session.IsAuthenticated() {
		p.Authenticated = true
		p.User = b.session.User().DisplayName()
	}
	return p
}

// render executes the page into a buffer so template errors still produce
// a clean 500.
func (r *Router) render(w http.ResponseWriter, req *http.Request, status int, name string, data pageData) error {
	t, ok := r.pages[name]
	if !ok {
		return fmt.Errorf("unknown page %q", name)
	}
	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout.html", data); err != nil {
		logging.FromContext(req.Context()).Error("render page", "page", name, "error", err)
		http.Error(w, msgInternal, http.StatusInternalServerError)
		return nil
	}
	r.commit(w, req)
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, err := buf.WriteTo(w)
	return err
}

type errorView struct {
	Status  int
	Message string
}

func (r *Router) renderError(w http.ResponseWriter, req *http.Request, status int, msg string) {
	data := r.page(req, nil, "Error", "", errorView{Status: status, Message: msg})
	if err := r.render(w, req, status, "error", data); err != nil {
		logging.FromContext(req.Context()).Warn("write error page", "error", err)
	}
}

// redirect saves the browser cookie before sending the redirect.
func (r *Router) redirect(w http.ResponseWriter, req *http.Request, target string, code int) {
	r.commit(w, req)
	http.Redirect(w, req, target, code)
}

// safeNext keeps redirects on this host.
func safeNext(next, fallback string) string {
	if !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") {
		return fallback
	}
	// browsers drop tabs and newlines and read \ as /, so "/\t/x" and
	// "/\\x" would leave the site
	if strings.ContainsRune(next, '\\') || strings.IndexFunc(next, unicode.IsControl) >= 0 {
		return fallback
	}
	return next
}
