package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	appaudits "github.com/bryanwahyu/fisichecker/internal/application/audits"
	"github.com/bryanwahyu/fisichecker/internal/domain/audits"
	"github.com/bryanwahyu/fisichecker/internal/domain/session"
	"github.com/bryanwahyu/fisichecker/internal/domain/statistics"
	"github.com/bryanwahyu/fisichecker/internal/logging"
	"github.com/bryanwahyu/fisichecker/internal/middleware"
)

// The JSON API serves the same data as the pages to same-origin scripts and
// configured CORS origins. It is read-only.

func writeJSON(w http.ResponseWriter, status int, v any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(v)
}

type apiError struct {
	Error string `json:"error"`
}

func (r *Router) wrapJSON(h handlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		err := h(w, req)
		if err == nil {
			return
		}
		if errors.Is(err, session.ErrUnauthorized) {
			if b := browserFrom(req.Context()); b != nil {
				b.session.Expire()
			}
			r.commit(w, req)
			_ = writeJSON(w, http.StatusUnauthorized, apiError{Error: "unauthorized"})
			return
		}
		status, msg := classify(err)
		if status >= 500 {
			logging.FromContext(req.Context()).Error("api request failed", "path", req.URL.Path, "error", err)
		}
		_ = writeJSON(w, status, apiError{Error: msg})
	}
}

// requireAPISession is the JSON counterpart of the page guard: no loading
// page, a 503 with Retry-After instead.
func (r *Router) requireAPISession(timeout time.Duration) func(http.Handler) http.Handler {
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			b := browserFrom(req.Context())
			ctx, cancel := context.WithTimeout(req.Context(), timeout)
			err := b.session.Wait(ctx)
			cancel()
			if err != nil && b.session.Loading() {
				w.Header().Set("Retry-After", "1")
				_ = writeJSON(w, http.StatusServiceUnavailable, apiError{Error: "session check pending"})
				return
			}
			if !b.session.IsAuthenticated() {
				_ = writeJSON(w, http.StatusUnauthorized, apiError{Error: "unauthorized"})
				return
			}
			next.ServeHTTP(w, req)
		})
	}
}

type sessionResponse struct {
	State         string        `json:"state"`
	Authenticated bool          `json:"authenticated"`
	User          *session.User `json:"user,omitempty"`
	Theme         string        `json:"theme"`
	History       []string      `json:"history"`
}

// GET /api/v1/session
func (r *Router) apiSession(w http.ResponseWriter, req *http.Request) error {
	b := browserFrom(req.Context())
	resp := sessionResponse{
		State:         b.session.State().String(),
		Authenticated: b.session.IsAuthenticated(),
		User:          b.session.User(),
		Theme:         session.ThemeLight,
		History:       []string{},
	}
	if prefs, err := r.prefs.Get(req.Context(), b.clientID); err == nil {
		resp.Theme = prefs.EffectiveTheme()
		if prefs.History != nil {
			resp.History = prefs.History
		}
	}
	r.commit(w, req)
	return writeJSON(w, http.StatusOK, resp)
}

// GET /api/v1/audits?limit=20
func (r *Router) apiRecent(w http.ResponseWriter, req *http.Request) error {
	b := browserFrom(req.Context())
	limit, _ := strconv.Atoi(req.URL.Query().Get("limit"))
	limit = middleware.ValidateLimit(limit, appaudits.RecentLimit, 100)

	list, err := r.audits.Recent(req.Context(), b.session.Client(), appaudits.RecentQuery{
		Pending: b.session.LastAudit(),
		Deleted: b.session.Deleted,
	})
	if err != nil {
		return err
	}
	if len(list) > limit {
		list = list[:limit]
	}
	if list == nil {
		list = []audits.Record{}
	}
	return writeJSON(w, http.StatusOK, list)
}

// GET /api/v1/audits/{id}
func (r *Router) apiAudit(w http.ResponseWriter, req *http.Request) error {
	b := browserFrom(req.Context())
	id := chi.URLParam(req, "id")
	if err := middleware.ValidateAuditID(id); err != nil {
		return writeJSON(w, http.StatusBadRequest, apiError{Error: err.Error()})
	}
	rec, err := r.audits.Detail(req.Context(), b.session.Client(), audits.AuditID(id), b.session.LastAudit())
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, rec)
}

// GET /api/v1/statistics?source=individual
func (r *Router) apiStatistics(w http.ResponseWriter, req *http.Request) error {
	b := browserFrom(req.Context())
	var (
		rep *statistics.Report
		err error
	)
	if req.URL.Query().Get("source") == sourceIndividual {
		rep, err = r.stats.Individual(req.Context(), b.session.Client())
	} else {
		rep, err = r.stats.Report(req.Context(), b.session.Client())
	}
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, rep)
}
