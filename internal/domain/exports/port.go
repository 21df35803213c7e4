package exports

import (
	"context"
	"time"
)

// Source downloads exports from the backend.
type Source interface {
	Export(ctx context.Context, f Format) (*File, error)
}

// Archive keeps exported files and hands out time-limited links.
type Archive interface {
	Put(ctx context.Context, key string, file *File) error
	Link(ctx context.Context, key string, ttl time.Duration) (string, error)
}
