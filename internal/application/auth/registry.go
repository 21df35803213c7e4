package auth

import (
	"context"
	"sync"
	"time"

	"github.com/bryanwahyu/fisichecker/internal/application"
)

// ClientFactory builds a backend client for one browser.
type ClientFactory func(baseURL string) (Client, error)

// Registry holds the Session of every browser seen recently, keyed by the
// client id stored in the browser cookie.
type Registry struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	factory  ClientFactory
	idleTTL  time.Duration
	clock    application.Clock
}

func NewRegistry(factory ClientFactory, idleTTL time.Duration, clock application.Clock) *Registry {
	if clock == nil {
		clock = application.SystemClock{}
	}
	return &Registry{
		sessions: make(map[string]*Session),
		factory:  factory,
		idleTTL:  idleTTL,
		clock:    clock,
	}
}

// Get returns the session for id, creating one when none exists or the
// browser now resolves to another backend. cookies seed a new session's
// backend cookie jar.
func (r *Registry) Get(id, baseURL string, cookies map[string]string) (*Session, error) {
	now := r.clock.Now()

	r.mu.RLock()
	s, ok := r.sessions[id]
	r.mu.RUnlock()
	if ok && s.BaseURL == baseURL {
		s.touch(now)
		return s, nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	// Double-check after acquiring write lock
	if s, ok := r.sessions[id]; ok && s.BaseURL == baseURL {
		s.touch(now)
		return s, nil
	}

	client, err := r.factory(baseURL)
	if err != nil {
		return nil, err
	}
	client.RestoreCookies(cookies)
	s = newSession(id, baseURL, client, now)
	r.sessions[id] = s
	return s, nil
}

func (r *Registry) Remove(id string) {
	r.mu.Lock()
	delete(r.sessions, id)
	r.mu.Unlock()
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// Sweep drops sessions idle longer than the configured TTL and returns how
// many were removed.
func (r *Registry) Sweep() int {
	if r.idleTTL <= 0 {
		return 0
	}
	now := r.clock.Now()
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for id, s := range r.sessions {
		if s.idleSince(now) > r.idleTTL {
			delete(r.sessions, id)
			n++
		}
	}
	return n
}

// Run sweeps every interval until ctx is done.
func (r *Registry) Run(ctx context.Context, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.Sweep()
		}
	}
}
