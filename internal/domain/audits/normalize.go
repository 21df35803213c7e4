package audits

import (
	"github.com/bryanwahyu/fisichecker/internal/domain/wcag"
)

// Criterion is one entry of the normalized view of an audit.
type Criterion struct {
	Code      string
	Verdict   Verdict // empty when only the legacy results map mentioned the code
	Passed    bool
	Title     string
	Level     string
	Principle string
	Source    Source
	ScoreHint *float64
	Details   Details
}

// DisplayVerdict is the verdict used for badges and tallies.
func (c Criterion) DisplayVerdict() Verdict {
	if c.Verdict != "" {
		return c.Verdict.Normalize()
	}
	if c.Passed {
		return VerdictPass
	}
	return VerdictFail
}

// View maps criterion code to its normalized entry.
type View map[string]*Criterion

// Normalize merges the legacy results map and the criterion_results list of
// rec into one view. Every code of either input appears exactly once.
// Seeded details win over criterion_results details when non-empty.
func Normalize(rec *Record) View {
	view := View{}
	if rec == nil {
		return view
	}

	for code, r := range rec.Results {
		details := r.Details
		if details == nil {
			details = Details{}
		}
		view[code] = &Criterion{Code: code, Passed: r.Passed, Details: details}
	}

	for _, cr := range rec.CriterionResults {
		view[cr.Code] = mergeCriterion(view[cr.Code], cr)
	}

	for code, c := range view {
		meta := wcag.Describe(code)
		if c.Title == "" {
			c.Title = meta.Title
		}
		if c.Level == "" {
			c.Level = string(meta.Level)
		}
		if c.Principle == "" {
			c.Principle = string(meta.Principle)
		}
	}
	return view
}

func mergeCriterion(seed *Criterion, cr CriterionResult) *Criterion {
	meta := wcag.Describe(cr.Code)
	c := &Criterion{Code: cr.Code}
	if seed != nil {
		*c = *seed
	}
	c.Verdict = cr.Verdict
	c.Passed = cr.Verdict == VerdictPass
	c.Title = firstNonEmpty(cr.Title, meta.Title)
	c.Level = firstNonEmpty(cr.Level, string(meta.Level))
	c.Principle = firstNonEmpty(cr.Principle, string(meta.Principle))
	c.Source = cr.Source
	if c.Source == "" {
		c.Source = SourceRaw
	}
	c.ScoreHint = cr.ScoreHint
	c.Details = chooseDetails(c.Details, cr.Details)
	return c
}

// chooseDetails prefers the seeded details when they carry anything.
func chooseDetails(seeded, incoming Details) Details {
	if len(seeded) > 0 {
		return seeded
	}
	if incoming == nil {
		return Details{}
	}
	return incoming
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

// Codes lists the view's codes in criterion order.
func (v View) Codes() []string {
	out := make([]string, 0, len(v))
	for code := range v {
		out = append(out, code)
	}
	wcag.SortCodes(out)
	return out
}

// Sorted returns the entries in criterion order.
func (v View) Sorted() []*Criterion {
	codes := v.Codes()
	out := make([]*Criterion, len(codes))
	for i, code := range codes {
		out[i] = v[code]
	}
	return out
}
