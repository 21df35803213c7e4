package httpserver

import (
	"encoding/json"
	"fmt"
	"html"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"regexp"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bryanwahyu/fisichecker/internal/application/auth"
	"github.com/bryanwahyu/fisichecker/internal/domain/audits"
	"github.com/bryanwahyu/fisichecker/internal/infra/backend"
)

const auditJSON = `{
	"id": 5,
	"url": "https://example.com",
	"page_title": "Example Domain",
	"status_code": 200,
	"score": 1.5,
	"fetched_at": "2024-05-01T10:00:00Z",
	"criterion_results": [
		{"code": "1.1.1", "verdict": "fail", "source": "raw", "details": {"images": 3, "missing_alt": 2}},
		{"code": "2.4.2", "verdict": "pass", "source": "rendered", "details": {}}
	]
}`

// fakeAPI is a minimal audit API: one user, one audit, cookie sessions.
type fakeAPI struct {
	mu      sync.Mutex
	deleted bool
	failAll atomic.Bool
	csrf    string
}

func (f *fakeAPI) authed(r *http.Request) bool {
	c, err := r.Cookie("sessionid")
	return err == nil && c.Value == "abc"
}

func (f *fakeAPI) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/auth/user", func(w http.ResponseWriter, r *http.Request) {
		if !f.authed(r) {
			http.Error(w, `{"detail":"no autenticado"}`, http.StatusUnauthorized)
			return
		}
		_, _ = io.WriteString(w, `{"username":"ana"}`)
	})
	mux.HandleFunc("POST /api/auth/login", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body["username"] != "ana" || body["password"] != "secret" {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = io.WriteString(w, `{"detail":"Credenciales inválidas"}`)
			return
		}
		http.SetCookie(w, &http.Cookie{Name: "sessionid", Value: "abc", Path: "/"})
		http.SetCookie(w, &http.Cookie{Name: "csrftoken", Value: "tok", Path: "/"})
		_, _ = io.WriteString(w, `{"token":"t1","user":{"username":"ana"}}`)
	})
	mux.HandleFunc("POST /api/auth/logout", func(w http.ResponseWriter, r *http.Request) {
		http.SetCookie(w, &http.Cookie{Name: "sessionid", Value: "", Path: "/", MaxAge: -1})
	})
	mux.HandleFunc("POST /api/audit", func(w http.ResponseWriter, r *http.Request) {
		if !f.authed(r) {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		if f.failAll.Load() {
			http.Error(w, "fetch failed", http.StatusInternalServerError)
			return
		}
		_, _ = io.WriteString(w, auditJSON)
	})
	mux.HandleFunc("GET /api/audits", func(w http.ResponseWriter, r *http.Request) {
		if !f.authed(r) {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		f.mu.Lock()
		defer f.mu.Unlock()
		if f.deleted {
			_, _ = io.WriteString(w, `[]`)
			return
		}
		_, _ = io.WriteString(w, "["+auditJSON+"]")
	})
	mux.HandleFunc("GET /api/audits/{id}", func(w http.ResponseWriter, r *http.Request) {
		if r.PathValue("id") != "5" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_, _ = io.WriteString(w, auditJSON)
	})
	mux.HandleFunc("DELETE /api/audits/{id}/delete/", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		f.csrf = r.Header.Get("X-CSRFToken")
		f.deleted = true
		w.WriteHeader(http.StatusNoContent)
	})
	mux.HandleFunc("GET /api/statistics/report/", func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{
			"global_statistics": {"total_audits": 12, "average_score": 1.4, "total_unique_urls": 7, "audits_with_render": 3},
			"verdict_distribution": {"distribution": {"pass": {"percentage": 60, "count": 6}, "fail": {"percentage": 40, "count": 4}}},
			"level_statistics": {"A": {"total_checks": 10, "pass_rate": 70, "fail_rate": 30, "average_score": 1.4}},
			"top_failing_criteria": [{"code": "1.1.1", "title": "Contenido no textual", "level": "A", "fail_count": 4, "fail_rate": 40, "pass_rate": 60}],
			"url_ranking": {"best_urls": [{"url": "https://a.test", "score": 2}], "worst_urls": []}
		}`)
	})
	mux.HandleFunc("GET /api/export/csv", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/csv")
		_, _ = io.WriteString(w, "id,url\n5,https://example.com\n")
	})
	return mux
}

type harness struct {
	api    *fakeAPI
	server *httptest.Server
	client *http.Client
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	api := &fakeAPI{}
	be := httptest.NewServer(api.handler())
	t.Cleanup(be.Close)

	registry := auth.NewRegistry(func(base string) (auth.Client, error) {
		c, err := backend.NewClient(base, backend.Options{Timeout: 5 * time.Second})
		if err != nil {
			return nil, err
		}
		return c, nil
	}, time.Hour, nil)

	h, err := NewRouter(Options{
		Resolver:     backend.Resolver{BaseURL: be.URL},
		Sessions:     registry,
		CSRFSecret:   []byte("test-secret"),
		CheckTimeout: 2 * time.Second,
	})
	require.NoError(t, err)
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	client := &http.Client{
		Jar: jar,
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
	return &harness{api: api, server: srv, client: client}
}

func (h *harness) get(t *testing.T, path string) (*http.Response, string) {
	t.Helper()
	resp, err := h.client.Get(h.server.URL + path)
	require.NoError(t, err)
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, string(b)
}

func (h *harness) post(t *testing.T, path string, form url.Values) (*http.Response, string) {
	t.Helper()
	resp, err := h.client.PostForm(h.server.URL+path, form)
	require.NoError(t, err)
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, string(b)
}

var csrfRe = regexp.MustCompile(`name="csrf_token" value="([^"]*)"`)

func csrfFrom(t *testing.T, body string) string {
	t.Helper()
	m := csrfRe.FindStringSubmatch(body)
	require.Len(t, m, 2, "no csrf token in page")
	return html.UnescapeString(m[1])
}

func (h *harness) login(t *testing.T) {
	t.Helper()
	_, body := h.get(t, "/login")
	resp, _ := h.post(t, "/login", url.Values{
		"csrf_token": {csrfFrom(t, body)},
		"username":   {"ana"},
		"password":   {"secret"},
	})
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	require.Equal(t, "/panelprincipal", resp.Header.Get("Location"))
}

func TestAnonymousIsSentToLogin(t *testing.T) {
	h := newHarness(t)
	resp, _ := h.get(t, "/panelprincipal")
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/login", resp.Header.Get("Location"))
}

func TestUnknownPathsGoToPanel(t *testing.T) {
	h := newHarness(t)
	for _, p := range []string{"/", "/does/not/exist"} {
		resp, _ := h.get(t, p)
		assert.Equal(t, http.StatusFound, resp.StatusCode, p)
		assert.Equal(t, "/panelprincipal", resp.Header.Get("Location"), p)
	}
}

func TestLogin(t *testing.T) {
	tests := []struct {
		name     string
		username string
		password string
		wantCode int
		wantText string
	}{
		{"blank fields", " ", "", http.StatusUnprocessableEntity, "Por favor ingrese usuario y contraseña"},
		{"rejected", "ana", "wrong", http.StatusUnauthorized, "Credenciales inválidas"},
		{"accepted", "ana", "secret", http.StatusSeeOther, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t)
			_, page := h.get(t, "/login")
			resp, body := h.post(t, "/login", url.Values{
				"csrf_token": {csrfFrom(t, page)},
				"username":   {tt.username},
				"password":   {tt.password},
			})
			assert.Equal(t, tt.wantCode, resp.StatusCode)
			if tt.wantText != "" {
				assert.Contains(t, html.UnescapeString(body), tt.wantText)
			}
		})
	}
}

func TestFormsWithoutCSRFAreRejected(t *testing.T) {
	h := newHarness(t)
	resp, body := h.post(t, "/login", url.Values{"username": {"ana"}, "password": {"secret"}})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Contains(t, html.UnescapeString(body), msgFormExpired)
}

func TestPanelAfterLogin(t *testing.T) {
	h := newHarness(t)
	h.login(t)

	resp, body := h.get(t, "/panelprincipal")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body = html.UnescapeString(body)
	assert.Contains(t, body, "ana")
	assert.Contains(t, body, "Example Domain")
	assert.Contains(t, body, `href="/audit/5"`)
}

func TestRunAudit(t *testing.T) {
	h := newHarness(t)
	h.login(t)
	_, page := h.get(t, "/panelprincipal")
	token := csrfFrom(t, page)

	t.Run("invalid url", func(t *testing.T) {
		resp, body := h.post(t, "/panelprincipal/audit", url.Values{"csrf_token": {token}, "url": {"https://"}, "mode": {"rendered"}})
		assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
		assert.Contains(t, html.UnescapeString(body), "URL inválida")
	})

	t.Run("success", func(t *testing.T) {
		resp, _ := h.post(t, "/panelprincipal/audit", url.Values{"csrf_token": {token}, "url": {"example.com"}, "mode": {"rendered"}})
		require.Equal(t, http.StatusSeeOther, resp.StatusCode)

		_, body := h.get(t, "/panelprincipal?state=FAILED")
		body = html.UnescapeString(body)
		assert.Contains(t, body, "Puntaje: <strong>75%</strong>")
		assert.Contains(t, body, "NO CUMPLE")
		assert.Contains(t, body, "/panelprincipal/history/clear", "history shown")
	})

	t.Run("backend failure", func(t *testing.T) {
		h.api.failAll.Store(true)
		defer h.api.failAll.Store(false)
		resp, body := h.post(t, "/panelprincipal/audit", url.Values{"csrf_token": {token}, "url": {"https://example.com"}})
		assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
		assert.Contains(t, body, "fetch failed")
	})
}

func TestDetailPage(t *testing.T) {
	h := newHarness(t)
	h.login(t)

	resp, body := h.get(t, "/audit/5")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body = html.UnescapeString(body)
	assert.Contains(t, body, "<details class=\"criterion\">")
	assert.Less(t, strings.Index(body, "1.1.1"), strings.Index(body, "2.4.2"))

	resp, body = h.get(t, "/audit/99")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Contains(t, body, "HTTP 404")
}

func TestDeleteAudit(t *testing.T) {
	h := newHarness(t)
	h.login(t)
	_, page := h.get(t, "/panelprincipal")

	resp, _ := h.post(t, "/audit/5/delete", url.Values{"csrf_token": {csrfFrom(t, page)}})
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	h.api.mu.Lock()
	assert.Equal(t, "tok", h.api.csrf, "backend csrftoken forwarded")
	h.api.mu.Unlock()

	_, body := h.get(t, "/panelprincipal")
	body = html.UnescapeString(body)
	assert.Contains(t, body, "Auditoría eliminada")
	assert.NotContains(t, body, `href="/audit/5"`)
}

func TestStatisticsPage(t *testing.T) {
	h := newHarness(t)
	h.login(t)

	resp, body := h.get(t, "/statistics")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "60.0%")

	_, body = h.get(t, "/statistics?tab=criteria")
	assert.Contains(t, body, "Contenido no textual")

	_, body = h.get(t, "/statistics?tab=ranking")
	assert.Contains(t, body, "https://a.test")
}

func TestExportDownload(t *testing.T) {
	h := newHarness(t)
	h.login(t)

	resp, body := h.get(t, "/export/csv")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/csv", resp.Header.Get("Content-Type"))
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "auditorias.csv")
	assert.Contains(t, body, "5,https://example.com")

	resp, _ = h.get(t, "/export/pdf")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestArchiveDisabled(t *testing.T) {
	h := newHarness(t)
	h.login(t)
	_, page := h.get(t, "/panelprincipal")
	resp, _ := h.post(t, "/export/csv/archive", url.Values{"csrf_token": {csrfFrom(t, page)}})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestThemeToggle(t *testing.T) {
	h := newHarness(t)
	h.login(t)
	_, page := h.get(t, "/colab")
	assert.Contains(t, page, `data-theme="light"`)

	resp, _ := h.post(t, "/theme", url.Values{"csrf_token": {csrfFrom(t, page)}, "next": {"/colab"}})
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/colab", resp.Header.Get("Location"))

	_, page = h.get(t, "/colab")
	assert.Contains(t, page, `data-theme="dark"`)

	resp, _ = h.post(t, "/theme", url.Values{"csrf_token": {csrfFrom(t, page)}, "next": {"//evil.test"}})
	assert.Equal(t, "/panelprincipal", resp.Header.Get("Location"))
}

func TestLogout(t *testing.T) {
	h := newHarness(t)
	h.login(t)

	// GET only confirms
	resp, page := h.get(t, "/logout")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, page, `action="/logout"`)
	assert.NotContains(t, page, `http-equiv="refresh"`)

	resp, _ = h.get(t, "/panelprincipal")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = h.post(t, "/logout", url.Values{})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp, _ = h.get(t, "/panelprincipal")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, body := h.post(t, "/logout", url.Values{"csrf_token": {csrfFrom(t, page)}})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, `content="2;url=/login"`)

	resp, _ = h.get(t, "/panelprincipal")
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/login", resp.Header.Get("Location"))
}

func TestAPI(t *testing.T) {
	h := newHarness(t)

	resp, body := h.get(t, "/api/v1/audits")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.JSONEq(t, `{"error":"unauthorized"}`, body)

	h.login(t)

	resp, body = h.get(t, "/api/v1/session")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var sess sessionResponse
	require.NoError(t, json.Unmarshal([]byte(body), &sess))
	assert.True(t, sess.Authenticated)
	assert.Equal(t, "ana", sess.User.Username)

	resp, body = h.get(t, "/api/v1/audits?limit=1")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var list []audits.Record
	require.NoError(t, json.Unmarshal([]byte(body), &list))
	require.Len(t, list, 1)
	assert.Equal(t, audits.AuditID("5"), list[0].ID)

	resp, body = h.get(t, "/api/v1/audits/99")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.JSONEq(t, `{"error":"`+msgNotFound+`"}`, body)
}

func TestCSRFSigner(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	c := newCSRFSigner([]byte("k"))
	c.now = func() time.Time { return now }

	tok := c.Token("client-a")
	assert.True(t, c.Valid("client-a", tok))
	assert.False(t, c.Valid("client-b", tok))
	assert.False(t, c.Valid("client-a", "garbage"))

	now = now.Add(csrfTokenMaxAge + time.Second)
	assert.False(t, c.Valid("client-a", tok))
}

func TestSafeNext(t *testing.T) {
	tests := []struct {
		next string
		want string
	}{
		{"/statistics?tab=ranking", "/statistics?tab=ranking"},
		{"/panelprincipal?q=a%2Fb", "/panelprincipal?q=a%2Fb"},
		{"https://evil.test", "/"},
		{"//evil.test", "/"},
		{"/\\evil.test", "/"},
		{"/\t/evil.test", "/"},
		{"/\n/evil.test", "/"},
		{"/\r/evil.test", "/"},
		{"/x\\y", "/"},
		{"", "/"},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%q", tt.next), func(t *testing.T) {
			assert.Equal(t, tt.want, safeNext(tt.next, "/"))
		})
	}
}
