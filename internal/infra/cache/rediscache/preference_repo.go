package rediscache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/bryanwahyu/fisichecker/internal/domain/session"
)

// PreferenceRepository stores each browser's preferences as one JSON value
// under prefix+clientID.
type PreferenceRepository struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// Connect parses a redis:// URL and checks the connection.
// URL format: redis://[:password@]host:port/db
func Connect(ctx context.Context, redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis URL: %w", err)
	}

	// Connection pool settings
	opts.PoolSize = 10
	opts.MinIdleConns = 2
	opts.DialTimeout = 5 * time.Second
	opts.ReadTimeout = 3 * time.Second
	opts.WriteTimeout = 3 * time.Second

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis connection failed: %w", err)
	}
	return client, nil
}

// NewPreferenceRepository stores values without expiry when ttl is zero.
func NewPreferenceRepository(client *redis.Client, prefix string, ttl time.Duration) *PreferenceRepository {
	return &PreferenceRepository{client: client, prefix: prefix, ttl: ttl}
}

func (r *PreferenceRepository) key(clientID string) string {
	return r.prefix + clientID
}

func (r *PreferenceRepository) Get(ctx context.Context, clientID string) (*session.Preferences, error) {
	data, err := r.client.Get(ctx, r.key(clientID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return &session.Preferences{ClientID: clientID}, nil
	}
	if err != nil {
		return nil, err
	}
	var p session.Preferences
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("decode preferences for %s: %w", clientID, err)
	}
	p.ClientID = clientID
	return &p, nil
}

func (r *PreferenceRepository) Save(ctx context.Context, p *session.Preferences) error {
	data, err := json.Marshal(p)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, r.key(p.ClientID), data, r.ttl).Err()
}

func (r *PreferenceRepository) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}
