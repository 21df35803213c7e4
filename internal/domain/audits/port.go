package audits

import "context"

// Gateway is the audit half of the backend API.
type Gateway interface {
	Run(ctx context.Context, mode Mode, targetURL string) (*Record, error)
	List(ctx context.Context) ([]Record, error)
	Get(ctx context.Context, id AuditID) (*Record, error)
	Delete(ctx context.Context, id AuditID) error
}
