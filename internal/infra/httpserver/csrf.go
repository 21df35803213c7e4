package httpserver

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"
)

const (
	csrfField       = "csrf_token"
	csrfHeader      = "X-CSRF-Token"
	csrfTokenMaxAge = 2 * time.Hour
)

// csrfSigner issues form tokens bound to the browser's client id.
// Format: timestamp.signature
type csrfSigner struct {
	secret []byte
	now    func() time.Time
}

// newCSRFSigner falls back to a random secret, which invalidates open forms
// on restart.
func newCSRFSigner(secret []byte) csrfSigner {
	if len(secret) == 0 {
		secret = make([]byte, 32)
		if _, err := rand.Read(secret); err != nil {
			panic("failed to generate CSRF secret: " + err.Error())
		}
	}
	return csrfSigner{secret: secret, now: time.Now}
}

func (c csrfSigner) Token(clientID string) string {
	ts := c.now().Unix()
	return fmt.Sprintf("%d.%s", ts, c.sign(clientID, ts))
}

func (c csrfSigner) Valid(clientID, token string) bool {
	parts := strings.SplitN(token, ".", 2)
	if len(parts) != 2 {
		return false
	}
	ts, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil {
		return false
	}
	if c.now().Unix()-ts > int64(csrfTokenMaxAge.Seconds()) {
		return false
	}
	return hmac.Equal([]byte(parts[1]), []byte(c.sign(clientID, ts)))
}

func (c csrfSigner) sign(clientID string, ts int64) string {
	h := hmac.New(sha256.New, c.secret)
	fmt.Fprintf(h, "%s.%d", clientID, ts)
	return base64.URLEncoding.EncodeToString(h.Sum(nil))
}

func (r *Router) verifyCSRF(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		b := browserFrom(req.Context())
		token := req.Header.Get(csrfHeader)
		if token == "" {
			token = req.PostFormValue(csrfField)
		}
		if b == nil || !r.csrf.Valid(b.clientID, token) {
			r.renderError(w, req, http.StatusForbidden, msgFormExpired)
			return
		}
		next.ServeHTTP(w, req)
	})
}
