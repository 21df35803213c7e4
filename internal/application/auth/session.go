package auth

import (
	"context"
	"errors"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/bryanwahyu/fisichecker/internal/domain/audits"
	"github.com/bryanwahyu/fisichecker/internal/domain/exports"
	"github.com/bryanwahyu/fisichecker/internal/domain/session"
	"github.com/bryanwahyu/fisichecker/internal/domain/statistics"
	"github.com/bryanwahyu/fisichecker/internal/logging"
)

// Client is everything one browser session needs from the audit API.
type Client interface {
	session.Gateway
	audits.Gateway
	statistics.Gateway
	exports.Source
	Cookies() map[string]string
	RestoreCookies(map[string]string)
}

// LoginResult reports a login attempt; Error is set only on failure.
type LoginResult struct {
	Success bool
	Error   string
}

const genericLoginError = "Error en login"

// Session is the server-side state of one browser: who is logged in and the
// backend client carrying that browser's backend cookies.
type Session struct {
	ID      string
	BaseURL string

	client Client
	check  singleflight.Group

	mu       sync.RWMutex
	state    session.State
	user     *session.User
	token    string
	lastSeen time.Time

	// navigation state handed from the panel to the detail page
	lastAudit *audits.Record
	deleted   map[audits.AuditID]struct{}
}

func newSession(id, baseURL string, client Client, now time.Time) *Session {
	return &Session{
		ID:       id,
		BaseURL:  baseURL,
		client:   client,
		lastSeen: now,
		deleted:  make(map[audits.AuditID]struct{}),
	}
}

func (s *Session) Client() Client { return s.client }

func (s *Session) State() session.State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Loading reports whether the session has not been checked yet.
func (s *Session) Loading() bool { return s.State() == session.StateUnknown }

// IsAuthenticated reports whether a token is held. Check Loading first.
func (s *Session) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token != ""
}

func (s *Session) User() *session.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user
}

func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

func (s *Session) touch(now time.Time) {
	s.mu.Lock()
	s.lastSeen = now
	s.mu.Unlock()
}

func (s *Session) idleSince(now time.Time) time.Duration {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return now.Sub(s.lastSeen)
}

func (s *Session) setAuthenticated(user *session.User, token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = session.StateAuthenticated
	s.user = user
	s.token = token
}

func (s *Session) clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = session.StateAnonymous
	s.user = nil
	s.token = ""
	s.lastAudit = nil
}

// Initialize asks the backend who is logged in. Any failure leaves the
// session anonymous. Concurrent callers share one request, and the request
// is not cancelled when a caller gives up waiting.
func (s *Session) Initialize(ctx context.Context) {
	<-s.initialize(ctx)
}

func (s *Session) initialize(ctx context.Context) <-chan singleflight.Result {
	checkCtx := context.WithoutCancel(ctx)
	return s.check.DoChan("current_user", func() (any, error) {
		user, err := s.client.CurrentUser(checkCtx)
		if err != nil {
			if !errors.Is(err, session.ErrUnauthorized) {
				logging.FromContext(checkCtx).Warn("session check failed", "session", s.ID, "error", err)
			}
			s.clear()
			return nil, nil
		}
		s.setAuthenticated(user, session.TokenSentinel)
		return nil, nil
	})
}

// Wait blocks until the session state is known or ctx is done.
func (s *Session) Wait(ctx context.Context) error {
	if !s.Loading() {
		return nil
	}
	select {
	case <-s.initialize(ctx):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Login never returns an error: failures are described in the result.
func (s *Session) Login(ctx context.Context, username, password string) LoginResult {
	reply, err := s.client.Login(ctx, username, password)
	if err != nil {
		msg := genericLoginError
		var rej session.Rejection
		switch {
		case errors.As(err, &rej):
			if rej.Reason() != "" {
				msg = rej.Reason()
			}
		default:
			msg = err.Error()
		}
		logging.FromContext(ctx).Info("login rejected", "session", s.ID, "error", err)
		return LoginResult{Error: msg}
	}
	token := reply.Token
	if token == "" {
		token = session.TokenSentinel
	}
	user := reply.User
	if user == nil {
		user = &session.User{Username: username}
	}
	s.setAuthenticated(user, token)
	return LoginResult{Success: true}
}

// Logout tells the backend best-effort and always clears local state.
func (s *Session) Logout(ctx context.Context) {
	if err := s.client.Logout(ctx); err != nil {
		logging.FromContext(ctx).Warn("logout failed", "session", s.ID, "error", err)
	}
	s.clear()
}

// Expire drops local state after the backend rejected the session.
func (s *Session) Expire() { s.clear() }

// RememberAudit stores the audit the panel just ran for the next page.
func (s *Session) RememberAudit(rec *audits.Record) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastAudit = rec
	if rec != nil {
		delete(s.deleted, rec.ID)
	}
}

// LastAudit is the most recent audit run from the panel, or nil.
func (s *Session) LastAudit() *audits.Record {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastAudit
}

// ForgetAudit records a successful delete.
func (s *Session) ForgetAudit(id audits.AuditID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deleted[id] = struct{}{}
	if s.lastAudit != nil && s.lastAudit.ID == id {
		s.lastAudit = nil
	}
}

// Deleted reports whether id was deleted through this session.
func (s *Session) Deleted(id audits.AuditID) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.deleted[id]
	return ok
}
