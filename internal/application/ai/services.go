package ai

import (
	"context"
	"fmt"
	"html/template"

	domain "github.com/bryanwahyu/fisichecker/internal/domain/ai"
	"github.com/bryanwahyu/fisichecker/internal/domain/audits"
)

// maxFindings keeps prompts small for audits with many failures.
const maxFindings = 25

// Renderer turns Markdown into safe HTML.
type Renderer interface {
	Render(markdown string) (template.HTML, error)
}

type Service struct {
	client   domain.Summarizer
	renderer Renderer
}

func NewService(client domain.Summarizer, renderer Renderer) *Service {
	return &Service{client: client, renderer: renderer}
}

// Enabled reports whether a summarizer is configured.
func (s *Service) Enabled() bool { return s != nil && s.client != nil }

type Summary struct {
	Markdown string
	HTML     template.HTML
}

// Summarize asks the model for an executive summary of rec.
func (s *Service) Summarize(ctx context.Context, rec *audits.Record) (Summary, error) {
	if !s.Enabled() {
		return Summary{}, domain.ErrDisabled
	}
	md, err := s.client.Summarize(ctx, BuildRequest(rec))
	if err != nil {
		return Summary{}, err
	}
	html, err := s.renderer.Render(md)
	if err != nil {
		return Summary{}, fmt.Errorf("render summary: %w", err)
	}
	return Summary{Markdown: md, HTML: html}, nil
}

// BuildRequest collects the failing and partial criteria of rec, failures
// first, in code order.
func BuildRequest(rec *audits.Record) domain.SummaryRequest {
	view := audits.Normalize(rec)
	counts := audits.CountVerdicts(rec, view)
	req := domain.SummaryRequest{
		URL:     rec.URL,
		Score:   "—",
		Passed:  counts.Pass,
		Failed:  counts.Fail,
		Partial: counts.Partial,
		NA:      counts.NA,
	}
	req.PageTitle = rec.PageTitle
	if pct, ok := audits.ScorePercent(rec.Score); ok {
		req.Score = fmt.Sprintf("%d%%", pct)
	}
	for _, want := range []audits.Verdict{audits.VerdictFail, audits.VerdictPartial} {
		for _, crit := range view.Sorted() {
			v := crit.DisplayVerdict()
			if v != want {
				continue
			}
			if len(req.Findings) == maxFindings {
				return req
			}
			req.Findings = append(req.Findings, domain.Finding{
				Code:        crit.Code,
				Title:       crit.Title,
				Level:       crit.Level,
				Verdict:     v.Label(),
				Detected:    audits.DetectedSummary(crit.Code, crit.Details),
				Recommended: audits.Recommendations(crit.Code, crit.Details, v),
			})
		}
	}
	return req
}
