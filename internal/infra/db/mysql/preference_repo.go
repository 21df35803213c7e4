package mysql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/bryanwahyu/fisichecker/internal/domain/session"
)

type PreferenceRepository struct {
	db *sql.DB
}

func NewPreferenceRepository(db *sql.DB) *PreferenceRepository {
	return &PreferenceRepository{db: db}
}

// Get returns empty preferences for unknown clients
func (r *PreferenceRepository) Get(ctx context.Context, clientID string) (*session.Preferences, error) {
	const q = `
SELECT client_id, theme, history_json, updated_at
FROM dashboard_preferences
WHERE client_id=?;
`
	var p session.Preferences
	var history string
	err := r.db.QueryRowContext(ctx, q, clientID).Scan(&p.ClientID, &p.Theme, &history, &p.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return &session.Preferences{ClientID: clientID}, nil
	}
	if err != nil {
		return nil, err
	}
	if p.History, err = decodeHistory(history); err != nil {
		return nil, fmt.Errorf("decode history for %s: %w", clientID, err)
	}
	return &p, nil
}

// Save inserts or updates the row of p.ClientID
func (r *PreferenceRepository) Save(ctx context.Context, p *session.Preferences) error {
	const q = `
INSERT INTO dashboard_preferences
  (client_id, theme, history_json, updated_at)
VALUES (?,?,?,?)
ON DUPLICATE KEY UPDATE
  theme=VALUES(theme), history_json=VALUES(history_json), updated_at=VALUES(updated_at);
`
	history, err := encodeHistory(p.History)
	if err != nil {
		return err
	}
	updated := p.UpdatedAt
	if updated.IsZero() {
		updated = time.Now().UTC()
	}
	_, err = r.db.ExecContext(ctx, q, p.ClientID, themeOrDefault(p.Theme), history, updated)
	return err
}

func (r *PreferenceRepository) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return r.db.PingContext(ctx)
}
