package ai

import "context"

// Finding is one failing or partial criterion handed to the summarizer.
type Finding struct {
	Code        string
	Title       string
	Level       string
	Verdict     string
	Detected    []string
	Recommended []string
}

// SummaryRequest describes one audit for an executive summary.
type SummaryRequest struct {
	URL       string
	PageTitle string
	Score     string
	Passed    int
	Failed    int
	Partial   int
	NA        int
	Findings  []Finding
}

// Summarizer writes a Markdown summary for an audit.
type Summarizer interface {
	Summarize(ctx context.Context, req SummaryRequest) (string, error)
}
