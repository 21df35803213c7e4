package preferences

import (
	"context"

	"github.com/bryanwahyu/fisichecker/internal/application"
	"github.com/bryanwahyu/fisichecker/internal/domain/session"
)

// Service reads and updates the per-browser theme and URL history.
type Service struct {
	Repo  session.PreferenceRepository
	Clock application.Clock
}

func (s *Service) Get(ctx context.Context, clientID string) (*session.Preferences, error) {
	p, err := s.Repo.Get(ctx, clientID)
	if err != nil {
		return nil, err
	}
	if p.ClientID == "" {
		p.ClientID = clientID
	}
	return p, nil
}

func (s *Service) update(ctx context.Context, clientID string, fn func(*session.Preferences)) (*session.Preferences, error) {
	p, err := s.Get(ctx, clientID)
	if err != nil {
		return nil, err
	}
	fn(p)
	if s.Clock != nil {
		p.UpdatedAt = s.Clock.Now().UTC()
	}
	if err := s.Repo.Save(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// PushHistory records a submitted URL.
func (s *Service) PushHistory(ctx context.Context, clientID, url string) (*session.Preferences, error) {
	return s.update(ctx, clientID, func(p *session.Preferences) { p.PushHistory(url) })
}

func (s *Service) ClearHistory(ctx context.Context, clientID string) (*session.Preferences, error) {
	return s.update(ctx, clientID, func(p *session.Preferences) { p.ClearHistory() })
}

func (s *Service) ToggleTheme(ctx context.Context, clientID string) (*session.Preferences, error) {
	return s.update(ctx, clientID, func(p *session.Preferences) { p.ToggleTheme() })
}

func (s *Service) Ping(ctx context.Context) error { return s.Repo.Ping(ctx) }
