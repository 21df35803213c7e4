package ai

import "errors"

var (
	// ErrQuotaExceeded wraps provider 429s and insufficient_quota replies.
	ErrQuotaExceeded = errors.New("ai quota exceeded")
	ErrDisabled      = errors.New("ai summaries are not configured")
)
