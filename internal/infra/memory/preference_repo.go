package memory

import (
	"context"
	"sync"

	"github.com/bryanwahyu/fisichecker/internal/domain/session"
)

// PreferenceRepository keeps preferences in process memory. Values are
// copied in and out so callers never share slices.
type PreferenceRepository struct {
	mu    sync.RWMutex
	prefs map[string]session.Preferences
}

func NewPreferenceRepository() *PreferenceRepository {
	return &PreferenceRepository{prefs: make(map[string]session.Preferences)}
}

func (r *PreferenceRepository) Get(ctx context.Context, clientID string) (*session.Preferences, error) {
	r.mu.RLock()
	p, ok := r.prefs[clientID]
	r.mu.RUnlock()
	if !ok {
		return &session.Preferences{ClientID: clientID}, nil
	}
	p.History = append([]string(nil), p.History...)
	return &p, nil
}

func (r *PreferenceRepository) Save(ctx context.Context, p *session.Preferences) error {
	cp := *p
	cp.History = append([]string(nil), p.History...)
	r.mu.Lock()
	r.prefs[p.ClientID] = cp
	r.mu.Unlock()
	return nil
}

func (r *PreferenceRepository) Ping(ctx context.Context) error { return nil }
