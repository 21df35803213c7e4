package audits

import (
	"context"
	"errors"

	domain "github.com/bryanwahyu/fisichecker/internal/domain/audits"
)

// RecentLimit bounds the recent-audits list on the panel.
const RecentLimit = 20

// ErrInvalidURL is returned before any backend call when the input is not
// an http(s) URL with a host.
var ErrInvalidURL = errors.New("URL inválida")

// Observer is told about every finished audit run. outcome is "ok",
// "invalid" or "error".
type Observer func(mode domain.Mode, outcome string)

// Service implements the panel and detail use-cases. It holds no per-user
// state: the caller passes the gateway of the current browser session.
type Service struct {
	Observer Observer
}

func (s *Service) observe(mode domain.Mode, outcome string) {
	if s.Observer != nil {
		s.Observer(mode, outcome)
	}
}

//
// ==== USE CASES ====
//

type RunAuditCommand struct {
	URL  string
	Mode domain.Mode
}

type RunAuditResult struct {
	URL    string
	Record *domain.Record
}

// RunAudit normalizes and validates the URL, then submits it. The returned
// record carries the submitted URL.
func (s *Service) RunAudit(ctx context.Context, gw domain.Gateway, cmd RunAuditCommand) (RunAuditResult, error) {
	res := RunAuditResult{URL: domain.NormalizeURL(cmd.URL)}
	if !domain.IsValidURL(cmd.URL) {
		s.observe(cmd.Mode, "invalid")
		return res, ErrInvalidURL
	}
	rec, err := gw.Run(ctx, cmd.Mode, res.URL)
	if err != nil {
		s.observe(cmd.Mode, "error")
		return res, err
	}
	rec.URL = res.URL
	res.Record = rec
	s.observe(cmd.Mode, "ok")
	return res, nil
}

// RecentQuery describes what the browser session already knows about.
type RecentQuery struct {
	// Pending is the audit this browser just ran; it goes first.
	Pending *domain.Record
	// Deleted reports ids this browser removed.
	Deleted func(domain.AuditID) bool
}

// Recent lists audits for the panel. A pending audit is put first and the
// list is then capped at RecentLimit.
func (s *Service) Recent(ctx context.Context, gw domain.Gateway, q RecentQuery) ([]domain.Record, error) {
	list, err := gw.List(ctx)
	if err != nil {
		return nil, err
	}
	if q.Deleted != nil {
		kept := list[:0:0]
		for _, r := range list {
			if !q.Deleted(r.ID) {
				kept = append(kept, r)
			}
		}
		list = kept
	}
	if q.Pending != nil {
		list = domain.PrependRecent(list, *q.Pending, RecentLimit)
	}
	return list, nil
}

// Detail returns the remembered audit when its id matches, otherwise it is
// fetched from the backend.
func (s *Service) Detail(ctx context.Context, gw domain.Gateway, id domain.AuditID, remembered *domain.Record) (*domain.Record, error) {
	if remembered != nil && remembered.ID == id {
		return remembered, nil
	}
	return gw.Get(ctx, id)
}

func (s *Service) Delete(ctx context.Context, gw domain.Gateway, id domain.AuditID) error {
	return gw.Delete(ctx, id)
}
