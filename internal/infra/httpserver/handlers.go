package httpserver

import (
	"errors"
	"fmt"
	"html/template"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/go-chi/chi/v5"

	appaudits "github.com/bryanwahyu/fisichecker/internal/application/audits"
	appexports "github.com/bryanwahyu/fisichecker/internal/application/exports"
	domai "github.com/bryanwahyu/fisichecker/internal/domain/ai"
	"github.com/bryanwahyu/fisichecker/internal/domain/audits"
	"github.com/bryanwahyu/fisichecker/internal/domain/exports"
	"github.com/bryanwahyu/fisichecker/internal/domain/session"
	"github.com/bryanwahyu/fisichecker/internal/domain/statistics"
	"github.com/bryanwahyu/fisichecker/internal/infra/backend"
	"github.com/bryanwahyu/fisichecker/internal/logging"
	"github.com/bryanwahyu/fisichecker/internal/middleware"
)

//
// ==== LOGIN / LOGOUT ====
//

type loginView struct {
	Username string
	Error    string
}

func (r *Router) handleLoginPage(w http.ResponseWriter, req *http.Request) error {
	b := browserFrom(req.Context())
	if !b.session.Loading() && b.session.IsAuthenticated() {
		r.redirect(w, req, "/panelprincipal", http.StatusFound)
		return nil
	}
	return r.render(w, req, http.StatusOK, "login", r.page(req, nil, "Iniciar sesión", "login", loginView{}))
}

func (r *Router) handleLogin(w http.ResponseWriter, req *http.Request) error {
	b := browserFrom(req.Context())
	username := middleware.SanitizeString(req.PostFormValue("username"))
	password := req.PostFormValue("password")

	if err := middleware.ValidateCredentials(username, password); err != nil {
		view := loginView{Username: username, Error: err.Error()}
		return r.render(w, req, http.StatusUnprocessableEntity, "login", r.page(req, nil, "Iniciar sesión", "login", view))
	}

	res := b.session.Login(req.Context(), username, password)
	if !res.Success {
		msg := res.Error
		if msg == "" {
			msg = msgLoginFailed
		}
		view := loginView{Username: username, Error: msg}
		return r.render(w, req, http.StatusUnauthorized, "login", r.page(req, nil, "Iniciar sesión", "login", view))
	}
	logging.FromContext(req.Context()).Info("login", "user", username)
	r.redirect(w, req, "/panelprincipal", http.StatusSeeOther)
	return nil
}

type logoutView struct {
	Done bool
}

// GET /logout only asks for confirmation.
func (r *Router) handleLogoutPage(w http.ResponseWriter, req *http.Request) error {
	return r.render(w, req, http.StatusOK, "logout", r.page(req, nil, "Cerrar sesión", "", logoutView{}))
}

// POST /logout
func (r *Router) handleLogout(w http.ResponseWriter, req *http.Request) error {
	b := browserFrom(req.Context())
	b.session.Logout(req.Context())
	return r.render(w, req, http.StatusOK, "logout", r.page(req, nil, "Sesión cerrada", "", logoutView{Done: true}))
}

//
// ==== PANEL ====
//

func filterFrom(req *http.Request) audits.Filter {
	q := req.URL.Query()
	return audits.Filter{
		Principle: q.Get("principle"),
		Level:     q.Get("level"),
		State:     strings.ToUpper(q.Get("state")),
		Search:    middleware.SanitizeString(q.Get("q")),
	}
}

// renderPanel loads the recent list and preferences around view. A failing
// recent list degrades to an inline message.
func (r *Router) renderPanel(w http.ResponseWriter, req *http.Request, status int, view panelView) error {
	ctx := req.Context()
	b := browserFrom(ctx)

	recent, err := r.audits.Recent(ctx, b.session.Client(), appaudits.RecentQuery{
		Pending: b.session.LastAudit(),
		Deleted: b.session.Deleted,
	})
	switch {
	case errors.Is(err, session.ErrUnauthorized):
		return err
	case err != nil:
		logging.FromContext(ctx).Warn("list audits", "error", err)
		view.RecentError = backend.StatusText(err)
	default:
		view.Recent = newRecentRows(recent)
	}

	prefs, err := r.prefs.Get(ctx, b.clientID)
	if err != nil {
		logging.FromContext(ctx).Warn("load preferences", "error", err)
	} else {
		view.History = prefs.History
	}
	view.Examples = audits.SampleURLs
	view.Modes = modeButtons
	view.ArchiveEnabled = r.exports.ArchiveEnabled()
	if view.Result == nil && view.AuditError == "" {
		view.Result = newResultView(b.session.LastAudit(), filterFrom(req))
	}
	return r.render(w, req, status, "panel", r.page(req, prefs, "Panel principal", "panel", view))
}

func (r *Router) handlePanel(w http.ResponseWriter, req *http.Request) error {
	return r.renderPanel(w, req, http.StatusOK, panelView{URL: middleware.SanitizeString(req.URL.Query().Get("url"))})
}

func (r *Router) handleRunAudit(w http.ResponseWriter, req *http.Request) error {
	ctx := req.Context()
	b := browserFrom(ctx)
	cmd := appaudits.RunAuditCommand{
		URL:  strings.TrimSpace(req.PostFormValue("url")),
		Mode: audits.ParseMode(req.PostFormValue("mode")),
	}

	res, err := r.audits.RunAudit(ctx, b.session.Client(), cmd)
	switch {
	case errors.Is(err, appaudits.ErrInvalidURL):
		return r.renderPanel(w, req, http.StatusUnprocessableEntity, panelView{URL: cmd.URL, AuditError: err.Error()})
	case errors.Is(err, session.ErrUnauthorized):
		return err
	case err != nil:
		logging.FromContext(ctx).Warn("run audit", "url", res.URL, "mode", cmd.Mode, "error", err)
		return r.renderPanel(w, req, http.StatusBadGateway, panelView{URL: res.URL, AuditError: backend.Message(err)})
	}

	b.session.RememberAudit(res.Record)
	if _, err := r.prefs.PushHistory(ctx, b.clientID, res.URL); err != nil {
		logging.FromContext(ctx).Warn("save history", "error", err)
	}
	logging.FromContext(ctx).Info("audit finished", "url", res.URL, "mode", cmd.Mode, "id", res.Record.ID)
	r.redirect(w, req, "/panelprincipal", http.StatusSeeOther)
	return nil
}

func (r *Router) handleClearHistory(w http.ResponseWriter, req *http.Request) error {
	b := browserFrom(req.Context())
	if _, err := r.prefs.ClearHistory(req.Context(), b.clientID); err != nil {
		return err
	}
	r.redirect(w, req, "/panelprincipal", http.StatusSeeOther)
	return nil
}

func (r *Router) handleDelete(w http.ResponseWriter, req *http.Request) error {
	ctx := req.Context()
	b := browserFrom(ctx)
	id := chi.URLParam(req, "id")
	if err := middleware.ValidateAuditID(id); err != nil {
		r.renderError(w, req, http.StatusNotFound, msgNotFound)
		return nil
	}

	err := r.audits.Delete(ctx, b.session.Client(), audits.AuditID(id))
	switch {
	case errors.Is(err, session.ErrUnauthorized):
		return err
	case err != nil:
		logging.FromContext(ctx).Warn("delete audit", "id", id, "error", err)
		r.flash(req, flashError, "Error al borrar auditoría: "+backend.Message(err))
	default:
		b.session.ForgetAudit(audits.AuditID(id))
		r.flash(req, flashSuccess, "Auditoría eliminada")
	}
	r.redirect(w, req, "/panelprincipal", http.StatusSeeOther)
	return nil
}

//
// ==== DETAIL ====
//

type detailPage struct {
	ID    string
	Error string
	View  *detailView
}

// loadDetail resolves the audit for the detail page. On failure the page
// gets an inline error and a status for it.
func (r *Router) loadDetail(req *http.Request) (*audits.Record, detailPage, int, error) {
	ctx := req.Context()
	b := browserFrom(ctx)
	id := chi.URLParam(req, "id")
	page := detailPage{ID: id}
	if err := middleware.ValidateAuditID(id); err != nil {
		page.Error = msgNotFound
		return nil, page, http.StatusNotFound, nil
	}

	rec, err := r.audits.Detail(ctx, b.session.Client(), audits.AuditID(id), b.session.LastAudit())
	if err != nil {
		if errors.Is(err, session.ErrUnauthorized) {
			return nil, page, 0, err
		}
		logging.FromContext(ctx).Warn("load audit", "id", id, "error", err)
		status, _ := classify(err)
		var he *backend.HTTPError
		if errors.As(err, &he) {
			page.Error = he.StatusText()
		} else {
			page.Error = msgDetailFailed
		}
		return nil, page, status, nil
	}
	page.View = newDetailView(rec)
	page.View.AIEnabled = r.ai.Enabled()
	return rec, page, http.StatusOK, nil
}

func (r *Router) handleDetail(w http.ResponseWriter, req *http.Request) error {
	_, page, status, err := r.loadDetail(req)
	if err != nil {
		return err
	}
	return r.render(w, req, status, "detail", r.page(req, nil, "Reporte de auditoría", "panel", page))
}

func (r *Router) handleSummary(w http.ResponseWriter, req *http.Request) error {
	rec, page, status, err := r.loadDetail(req)
	if err != nil {
		return err
	}
	if rec != nil {
		sum, err := r.ai.Summarize(req.Context(), rec)
		switch {
		case errors.Is(err, domai.ErrQuotaExceeded):
			status, page.View.SummaryError = http.StatusTooManyRequests, msgQuota
		case errors.Is(err, domai.ErrDisabled):
			page.View.SummaryError = msgSummaryOff
		case err != nil:
			logging.FromContext(req.Context()).Error("summarize audit", "id", rec.ID, "error", err)
			status, page.View.SummaryError = http.StatusBadGateway, msgSummaryFailed
		default:
			page.View.Summary = sum.HTML
		}
	}
	return r.render(w, req, status, "detail", r.page(req, nil, "Reporte de auditoría", "panel", page))
}

//
// ==== STATISTICS ====
//

func (r *Router) handleStatistics(w http.ResponseWriter, req *http.Request) error {
	ctx := req.Context()
	b := browserFrom(ctx)
	q := req.URL.Query()
	tab := statistics.ParseTab(q.Get("tab"))
	source := ""
	if q.Get("source") == sourceIndividual {
		source = sourceIndividual
	}

	var (
		rep *statistics.Report
		err error
	)
	if source == sourceIndividual {
		rep, err = r.stats.Individual(ctx, b.session.Client())
	} else {
		rep, err = r.stats.Report(ctx, b.session.Client())
	}
	status := http.StatusOK
	view := newStatisticsView(tab, source, rep)
	if err != nil {
		if errors.Is(err, session.ErrUnauthorized) {
			return err
		}
		logging.FromContext(ctx).Warn("load statistics", "source", source, "error", err)
		status = http.StatusBadGateway
		view = newStatisticsView(tab, source, nil)
		view.Error = "Error al cargar estadísticas: " + backend.Message(err)
	}
	return r.render(w, req, status, "statistics", r.page(req, nil, "Estadísticas", "statistics", view))
}

//
// ==== EXPORTS ====
//

func (r *Router) handleExport(w http.ResponseWriter, req *http.Request) error {
	ctx := req.Context()
	b := browserFrom(ctx)
	f, ok := exports.ParseFormat(chi.URLParam(req, "format"))
	if !ok {
		r.renderError(w, req, http.StatusNotFound, msgNotFound)
		return nil
	}

	file, err := r.exports.Download(ctx, b.session.Client(), f)
	if err != nil {
		if errors.Is(err, session.ErrUnauthorized) {
			return err
		}
		logging.FromContext(ctx).Warn("export audits", "format", f, "error", err)
		r.flash(req, flashError, "Error al exportar: "+backend.Message(err))
		r.redirect(w, req, "/panelprincipal", http.StatusSeeOther)
		return nil
	}

	name := file.Filename
	if name == "" {
		name = "auditorias." + f.Extension()
	}
	ctype := file.ContentType
	if ctype == "" {
		ctype = f.ContentType()
	}
	r.commit(w, req)
	h := w.Header()
	h.Set("Content-Type", ctype)
	h.Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": name}))
	h.Set("Content-Length", strconv.Itoa(len(file.Data)))
	h.Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	_, err = w.Write(file.Data)
	return err
}

func (r *Router) handleArchive(w http.ResponseWriter, req *http.Request) error {
	ctx := req.Context()
	b := browserFrom(ctx)
	f, ok := exports.ParseFormat(chi.URLParam(req, "format"))
	if !ok {
		r.renderError(w, req, http.StatusNotFound, msgNotFound)
		return nil
	}

	res, err := r.exports.ArchiveExport(ctx, b.session.Client(), f)
	switch {
	case errors.Is(err, session.ErrUnauthorized), errors.Is(err, appexports.ErrArchiveDisabled):
		return err
	case err != nil:
		logging.FromContext(ctx).Error("archive export", "format", f, "error", err)
		r.flash(req, flashError, "Error al archivar exportación: "+backend.Message(err))
	default:
		logging.FromContext(ctx).Info("export archived", "key", res.Key, "size", res.Size)
		r.flash(req, flashSuccess, fmt.Sprintf("Exportación archivada (%s)", humanize.Bytes(uint64(res.Size))))
		r.flash(req, flashArchive, res.Link)
	}
	r.redirect(w, req, "/panelprincipal", http.StatusSeeOther)
	return nil
}

//
// ==== MISC ====
//

func (r *Router) handleTheme(w http.ResponseWriter, req *http.Request) error {
	b := browserFrom(req.Context())
	if _, err := r.prefs.ToggleTheme(req.Context(), b.clientID); err != nil {
		return err
	}
	r.redirect(w, req, safeNext(req.PostFormValue("next"), "/panelprincipal"), http.StatusSeeOther)
	return nil
}

type colabView struct {
	Instructions template.HTML
	Script       string
}

func (r *Router) handleColab(w http.ResponseWriter, req *http.Request) error {
	view := colabView{Instructions: r.colab, Script: colabScript}
	return r.render(w, req, http.StatusOK, "colab", r.page(req, nil, "Colab", "colab", view))
}
