package httpserver

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/sessions"

	"github.com/bryanwahyu/fisichecker/internal/application/auth"
	"github.com/bryanwahyu/fisichecker/internal/logging"
	"github.com/bryanwahyu/fisichecker/internal/middleware"
)

// Browser cookie values.
const (
	keyClientID  = "client_id"
	keyAuthUser  = "auth_user"
	keyAuthToken = "auth_token"
	keyBackend   = "backend_cookies"
)

// NewCookieStore returns an encrypted cookie store whose hash and block keys
// are derived from secret.
func NewCookieStore(secret []byte, maxAge int, secure bool) *sessions.CookieStore {
	store := sessions.NewCookieStore(deriveKey(secret, "hash"), deriveKey(secret, "block"))
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
	return store
}

func deriveKey(secret []byte, label string) []byte {
	h := hmac.New(sha256.New, secret)
	h.Write([]byte(label))
	return h.Sum(nil)
}

// browser is everything known about the browser behind one request.
type browser struct {
	clientID string
	cookie   *sessions.Session
	session  *auth.Session
}

type ctxKey int

const browserKey ctxKey = iota

func browserFrom(ctx context.Context) *browser {
	b, _ := ctx.Value(browserKey).(*browser)
	return b
}

func lookupSession(r *http.Request) middleware.Guarded {
	b := browserFrom(r.Context())
	if b == nil || b.session == nil {
		return nil
	}
	return b.session
}

// browserSession attaches the browser's session, creating the client id
// cookie on first visit. Backend cookies saved in the browser cookie seed a
// session the registry no longer holds.
func (r *Router) browserSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		cs, err := r.store.Get(req, r.cookieName)
		if err != nil {
			logging.FromContext(req.Context()).Debug("discarding browser cookie", "error", err)
		}
		id, _ := cs.Values[keyClientID].(string)
		if !middleware.ValidateClientID(id) {
			id = uuid.NewString()
			cs.Values = map[any]any{keyClientID: id}
		}

		s, err := r.sessions.Get(id, r.resolver.Resolve(req.Host), decodeCookies(cs.Values[keyBackend]))
		if err != nil {
			logging.FromContext(req.Context()).Error("create session", "error", err)
			http.Error(w, msgInternal, http.StatusInternalServerError)
			return
		}
		b := &browser{clientID: id, cookie: cs, session: s}
		next.ServeHTTP(w, req.WithContext(context.WithValue(req.Context(), browserKey, b)))
	})
}

// commit mirrors the session into the browser cookie. It must run before
// the response header is written.
func (r *Router) commit(w http.ResponseWriter, req *http.Request) {
	b := browserFrom(req.Context())
	if b == nil {
		return
	}
	s := b.session
	switch {
	case s.IsAuthenticated():
		b.cookie.Values[keyAuthUser] = s.User().DisplayName()
		b.cookie.Values[keyAuthToken] = s.Token()
	case !s.Loading():
		delete(b.cookie.Values, keyAuthUser)
		delete(b.cookie.Values, keyAuthToken)
	}
	if enc := encodeCookies(s.Client().Cookies()); enc != "" {
		b.cookie.Values[keyBackend] = enc
	} else {
		delete(b.cookie.Values, keyBackend)
	}
	if err := b.cookie.Save(req, w); err != nil {
		logging.FromContext(req.Context()).Warn("save browser cookie", "error", err)
	}
}

func encodeCookies(values map[string]string) string {
	if len(values) == 0 {
		return ""
	}
	b, err := json.Marshal(values)
	if err != nil {
		return ""
	}
	return string(b)
}

func decodeCookies(v any) map[string]string {
	s, _ := v.(string)
	if s == "" {
		return nil
	}
	var out map[string]string
	if json.Unmarshal([]byte(s), &out) != nil {
		return nil
	}
	return out
}

// Flash kinds.
const (
	flashSuccess = "success"
	flashError   = "error"
	flashArchive = "archive"
)

type flashMessages struct {
	Success []string
	Error   []string
	Archive []string
}

func (r *Router) flash(req *http.Request, kind, msg string) {
	if b := browserFrom(req.Context()); b != nil {
		b.cookie.AddFlash(msg, kind)
	}
}

// takeFlashes drains pending flashes; the next commit clears them from the
// cookie.
func (r *Router) takeFlashes(req *http.Request) flashMessages {
	var f flashMessages
	b := browserFrom(req.Context())
	if b == nil {
		return f
	}
	strs := func(kind string) []string {
		var out []string
		for _, v := range b.cookie.Flashes(kind) {
			if s, ok := v.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	f.Success = strs(flashSuccess)
	f.Error = strs(flashError)
	f.Archive = strs(flashArchive)
	return f
}
