package exports

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bryanwahyu/fisichecker/internal/application"
	domain "github.com/bryanwahyu/fisichecker/internal/domain/exports"
)

// ErrArchiveDisabled is returned when no archive store is configured.
var ErrArchiveDisabled = errors.New("export archive is not configured")

// Service proxies backend exports and optionally keeps a copy in object
// storage.
type Service struct {
	Archive domain.Archive
	LinkTTL time.Duration
	Clock   application.Clock
}

func (s *Service) ArchiveEnabled() bool { return s.Archive != nil }

// Download fetches an export for immediate delivery to the browser.
func (s *Service) Download(ctx context.Context, src domain.Source, f domain.Format) (*domain.File, error) {
	return src.Export(ctx, f)
}

type ArchiveResult struct {
	Key  string
	Link string
	Size int
}

// ArchiveExport downloads an export, stores it and returns a presigned link.
func (s *Service) ArchiveExport(ctx context.Context, src domain.Source, f domain.Format) (ArchiveResult, error) {
	if s.Archive == nil {
		return ArchiveResult{}, ErrArchiveDisabled
	}
	file, err := src.Export(ctx, f)
	if err != nil {
		return ArchiveResult{}, err
	}
	var now time.Time
	if s.Clock != nil {
		now = s.Clock.Now()
	} else {
		now = time.Now()
	}
	key := domain.ObjectKey(f, now)
	if err := s.Archive.Put(ctx, key, file); err != nil {
		return ArchiveResult{}, fmt.Errorf("archive %s: %w", key, err)
	}
	link, err := s.Archive.Link(ctx, key, s.LinkTTL)
	if err != nil {
		return ArchiveResult{}, fmt.Errorf("presign %s: %w", key, err)
	}
	return ArchiveResult{Key: key, Link: link, Size: len(file.Data)}, nil
}
