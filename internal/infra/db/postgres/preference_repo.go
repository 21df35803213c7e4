package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/bryanwahyu/fisichecker/internal/domain/session"
)

type PreferenceRepository struct {
	db *sql.DB
}

func NewPreferenceRepository(db *sql.DB) *PreferenceRepository {
	return &PreferenceRepository{db: db}
}

func (r *PreferenceRepository) Get(ctx context.Context, clientID string) (*session.Preferences, error) {
	const q = `
SELECT client_id, theme, history_json, updated_at
FROM dashboard_preferences
WHERE client_id=$1;
`
	var p session.Preferences
	var history []byte
	err := r.db.QueryRowContext(ctx, q, clientID).Scan(&p.ClientID, &p.Theme, &history, &p.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return &session.Preferences{ClientID: clientID}, nil
	}
	if err != nil {
		return nil, err
	}
	if len(history) > 0 {
		if err := json.Unmarshal(history, &p.History); err != nil {
			return nil, fmt.Errorf("decode history for %s: %w", clientID, err)
		}
	}
	if len(p.History) == 0 {
		p.History = nil
	}
	return &p, nil
}

// Save inserts or updates the row of p.ClientID
func (r *PreferenceRepository) Save(ctx context.Context, p *session.Preferences) error {
	const q = `
INSERT INTO dashboard_preferences
  (client_id, theme, history_json, updated_at)
VALUES ($1,$2,$3,$4)
ON CONFLICT (client_id) DO UPDATE SET
  theme=EXCLUDED.theme,
  history_json=EXCLUDED.history_json,
  updated_at=EXCLUDED.updated_at;
`
	history := p.History
	if history == nil {
		history = []string{}
	}
	b, err := json.Marshal(history)
	if err != nil {
		return err
	}
	theme := p.Theme
	if strings.TrimSpace(theme) == "" {
		theme = session.ThemeLight
	}
	updated := p.UpdatedAt
	if updated.IsZero() {
		updated = time.Now().UTC()
	}
	_, err = r.db.ExecContext(ctx, q, p.ClientID, theme, string(b), updated)
	return err
}

func (r *PreferenceRepository) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return r.db.PingContext(ctx)
}
