package audits

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

// AuditID is the backend's audit identifier. The API sends numbers, older
// exports send strings; both decode to the same textual form.
type AuditID string

func (id *AuditID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*id = ""
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = AuditID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*id = AuditID(n.String())
	return nil
}

func (id AuditID) MarshalJSON() ([]byte, error) {
	if _, err := strconv.ParseInt(string(id), 10, 64); err == nil {
		return []byte(id), nil
	}
	return json.Marshal(string(id))
}

func (id AuditID) String() string { return string(id) }

type Verdict string

const (
	VerdictPass    Verdict = "pass"
	VerdictFail    Verdict = "fail"
	VerdictPartial Verdict = "partial"
	VerdictNA      Verdict = "na"
)

// Normalize lowercases v the way the dashboard compares verdicts.
func (v Verdict) Normalize() Verdict { return Verdict(strings.ToLower(string(v))) }

// Label is the badge text shown for a verdict.
func (v Verdict) Label() string {
	switch v.Normalize() {
	case VerdictPass:
		return "CUMPLE"
	case VerdictFail:
		return "NO CUMPLE"
	case VerdictPartial:
		return "PARCIAL"
	case VerdictNA:
		return "N/A"
	}
	return "—"
}

type Source string

const (
	SourceRaw      Source = "raw"
	SourceRendered Source = "rendered"
	SourceAI       Source = "ai"
)

// Chip returns the label and tooltip for a source chip. Anything that is
// neither ai nor rendered displays as RAW.
func (s Source) Chip() (label, title string) {
	switch Source(strings.ToLower(string(s))) {
	case SourceAI:
		return "AI", "Datos enriquecidos por IA"
	case SourceRendered:
		return "RENDERED", "Datos renderizados (DOM/CSS)"
	}
	return "RAW", "Datos crudos (HTML)"
}

// Mode selects how the backend evaluates a URL.
type Mode string

const (
	ModeRaw      Mode = "raw"
	ModeRendered Mode = "rendered"
	ModeAI       Mode = "ai"
	ModeAutoAI   Mode = "auto_ai"
)

// ParseMode maps form input to a Mode; unknown values fall back to raw.
func ParseMode(s string) Mode {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case ModeRendered:
		return ModeRendered
	case ModeAI:
		return ModeAI
	case ModeAutoAI:
		return ModeAutoAI
	}
	return ModeRaw
}

// Details is the free-form evidence object attached to a criterion.
type Details map[string]any

// UnmarshalJSON accepts only objects. null, arrays and scalars decode to an
// empty Details so one malformed criterion does not reject the audit.
func (d *Details) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || b[0] != '{' {
		*d = Details{}
		return nil
	}
	m := map[string]any{}
	if err := json.Unmarshal(b, &m); err != nil {
		return err
	}
	*d = m
	return nil
}

type Result struct {
	Passed  bool    `json:"passed"`
	Details Details `json:"details"`
}

type CriterionResult struct {
	Code      string   `json:"code"`
	Verdict   Verdict  `json:"verdict"`
	Passed    *bool    `json:"passed,omitempty"`
	Title     string   `json:"title"`
	Level     string   `json:"level"`
	Principle string   `json:"principle"`
	Source    Source   `json:"source"`
	ScoreHint *float64 `json:"score_hint"`
	Details   Details  `json:"details"`
}

// EffectiveVerdict is the verdict, or pass/fail derived from Passed when the
// backend omitted it.
func (c CriterionResult) EffectiveVerdict() Verdict {
	if c.Verdict != "" {
		return c.Verdict.Normalize()
	}
	if c.Passed != nil && *c.Passed {
		return VerdictPass
	}
	return VerdictFail
}

type VerdictCounts struct {
	Pass    int `json:"pass"`
	Fail    int `json:"fail"`
	Partial int `json:"partial"`
	NA      int `json:"na"`
}

func (c *VerdictCounts) add(v Verdict) {
	switch v {
	case VerdictPass:
		c.Pass++
	case VerdictFail:
		c.Fail++
	case VerdictPartial:
		c.Partial++
	case VerdictNA:
		c.NA++
	}
}

// Get returns the count for v; unknown verdicts count zero.
func (c VerdictCounts) Get(v Verdict) int {
	switch v {
	case VerdictPass:
		return c.Pass
	case VerdictFail:
		return c.Fail
	case VerdictPartial:
		return c.Partial
	case VerdictNA:
		return c.NA
	}
	return 0
}

type LevelTally struct {
	Total  int `json:"total"`
	Passed int `json:"passed"`
}

// Ratio is the pass percentage, 100 when nothing was evaluated.
func (t LevelTally) Ratio() int {
	if t.Total == 0 {
		return 100
	}
	return roundHalfUp(float64(t.Passed) / float64(t.Total) * 100)
}

// Record is one audit as returned by the backend. CriterionResults is nil
// for legacy records and non-nil (possibly empty) for current ones.
type Record struct {
	ID               AuditID               `json:"id"`
	URL              string                `json:"url"`
	PageTitle        string                `json:"page_title"`
	StatusCode       *int                  `json:"status_code"`
	ElapsedMS        *float64              `json:"elapsed_ms"`
	FetchedAt        string                `json:"fetched_at"`
	Score            *float64              `json:"score"`
	Rendered         bool                  `json:"rendered"`
	RenderedCodes    []string              `json:"rendered_codes"`
	RenderedError    any                   `json:"rendered_error"`
	Results          map[string]Result     `json:"results"`
	CriterionResults []CriterionResult     `json:"criterion_results"`
	VerdictCounts    *VerdictCounts        `json:"verdict_counts,omitempty"`
	ScoreBreakdown   map[string]LevelTally `json:"score_breakdown,omitempty"`
	ModeEffective    string                `json:"mode_effective,omitempty"`
	AnyAI            *bool                 `json:"any_ai,omitempty"`
	HasRendered      *bool                 `json:"has_rendered,omitempty"`
}

// FetchedTime parses FetchedAt in whatever layout the backend used.
func (r *Record) FetchedTime() (time.Time, bool) {
	return ParseTimestamp(r.FetchedAt)
}

// RenderedErrorText is the rendered-pipeline failure message, empty when none.
func (r *Record) RenderedErrorText() string {
	switch v := r.RenderedError.(type) {
	case nil:
		return ""
	case string:
		return v
	case bool:
		if !v {
			return ""
		}
	}
	return display(r.RenderedError)
}

// ParseTimestamp accepts ISO-8601 and the other layouts dateparse knows.
func ParseTimestamp(s string) (time.Time, bool) {
	if strings.TrimSpace(s) == "" {
		return time.Time{}, false
	}
	t, err := dateparse.ParseAny(s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// FormatTimestamp renders s for tables, "—" when absent or unparseable.
func FormatTimestamp(s string) string {
	t, ok := ParseTimestamp(s)
	if !ok {
		if s == "" {
			return "—"
		}
		return s
	}
	return t.Local().Format("02/01/2006 15:04:05")
}

// ScorePercent converts the 0–2 score to a 0–100 percentage.
func ScorePercent(score *float64) (int, bool) {
	if score == nil {
		return 0, false
	}
	return roundHalfUp(*score / 2 * 100), true
}

// PrependRecent puts rec at the front of list, drops any older copy of the
// same id and keeps at most limit entries.
func PrependRecent(list []Record, rec Record, limit int) []Record {
	out := make([]Record, 0, len(list)+1)
	out = append(out, rec)
	for _, r := range list {
		if rec.ID != "" && r.ID == rec.ID {
			continue
		}
		out = append(out, r)
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// RemoveRecent drops every entry with the given id.
func RemoveRecent(list []Record, id AuditID) []Record {
	out := list[:0:0]
	for _, r := range list {
		if r.ID != id {
			out = append(out, r)
		}
	}
	return out
}
