package statistics

import (
	"sort"
	"strconv"

	"github.com/bryanwahyu/fisichecker/internal/domain/audits"
)

// TopCriteria is how many failing criteria the statistics page lists.
const TopCriteria = 10

// RankingLimit is the per-side size of the URL ranking on the individual path.
const RankingLimit = 5

type Global struct {
	TotalAudits      int     `json:"total_audits"`
	AverageScore     float64 `json:"average_score"`
	TotalUniqueURLs  int     `json:"total_unique_urls"`
	AuditsWithRender int     `json:"audits_with_render"`
}

type VerdictShare struct {
	Percentage float64 `json:"percentage"`
	Count      int     `json:"count"`
}

type VerdictDistribution struct {
	Distribution map[string]VerdictShare `json:"distribution"`
}

// Verdicts lists the distribution in pass, fail, partial, na order, then any
// other verdict the backend reported.
func (d *VerdictDistribution) Verdicts() []string {
	if d == nil {
		return nil
	}
	order := map[string]int{"pass": 0, "fail": 1, "partial": 2, "na": 3}
	out := make([]string, 0, len(d.Distribution))
	for k := range d.Distribution {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool {
		oi, iok := order[out[i]]
		oj, jok := order[out[j]]
		switch {
		case iok && jok:
			return oi < oj
		case iok != jok:
			return iok
		}
		return out[i] < out[j]
	})
	return out
}

type LevelStats struct {
	TotalChecks  int     `json:"total_checks"`
	PassRate     float64 `json:"pass_rate"`
	FailRate     float64 `json:"fail_rate"`
	AverageScore float64 `json:"average_score"`
}

// LevelStatistics is keyed by WCAG level.
type LevelStatistics map[string]LevelStats

// Levels returns A, AA, AAA first, then unknown keys sorted.
func (l LevelStatistics) Levels() []string {
	out := make([]string, 0, len(l))
	for _, lv := range []string{"A", "AA", "AAA"} {
		if _, ok := l[lv]; ok {
			out = append(out, lv)
		}
	}
	var rest []string
	for k := range l {
		if k != "A" && k != "AA" && k != "AAA" {
			rest = append(rest, k)
		}
	}
	sort.Strings(rest)
	return append(out, rest...)
}

type FailingCriterion struct {
	Code      string  `json:"code"`
	Title     string  `json:"title"`
	Level     string  `json:"level"`
	FailCount int     `json:"fail_count"`
	FailRate  float64 `json:"fail_rate"`
	PassRate  float64 `json:"pass_rate"`
}

type RankedURL struct {
	PageTitle string   `json:"page_title"`
	URL       string   `json:"url"`
	AuditedAt string   `json:"audited_at"`
	Score     *float64 `json:"score"`
}

// Name is the page title, or the URL when the title is empty.
func (r RankedURL) Name() string {
	if r.PageTitle != "" {
		return r.PageTitle
	}
	return r.URL
}

// AuditedDate is the audit date without time, "—" when unparseable.
func (r RankedURL) AuditedDate() string {
	t, ok := audits.ParseTimestamp(r.AuditedAt)
	if !ok {
		return "—"
	}
	return t.Local().Format("02/01/2006")
}

// ScoreText renders the raw score as the backend sent it.
func (r RankedURL) ScoreText() string {
	if r.Score == nil {
		return "—"
	}
	return strconv.FormatFloat(*r.Score, 'f', -1, 64)
}

type URLRanking struct {
	BestURLs  []RankedURL `json:"best_urls"`
	WorstURLs []RankedURL `json:"worst_urls"`
}

// Report is the statistics page model. Each section may be nil when the
// backend did not return it.
type Report struct {
	Global              *Global              `json:"global_statistics"`
	VerdictDistribution *VerdictDistribution `json:"verdict_distribution"`
	LevelStatistics     LevelStatistics      `json:"level_statistics"`
	TopFailingCriteria  []FailingCriterion   `json:"top_failing_criteria"`
	URLRanking          *URLRanking          `json:"url_ranking"`
}

// Trim caps the failing-criteria list the way the page shows it.
func (r *Report) Trim() {
	if len(r.TopFailingCriteria) > TopCriteria {
		r.TopFailingCriteria = r.TopFailingCriteria[:TopCriteria]
	}
}

// Tab is one view of the statistics page.
type Tab string

const (
	TabOverview Tab = "overview"
	TabCriteria Tab = "criteria"
	TabRanking  Tab = "ranking"
)

// Tabs in display order.
var Tabs = []Tab{TabOverview, TabCriteria, TabRanking}

func (t Tab) Label() string {
	switch t {
	case TabCriteria:
		return "Por Criterio"
	case TabRanking:
		return "Ranking URLs"
	}
	return "Vista General"
}

// ParseTab falls back to the overview for unknown input.
func ParseTab(s string) Tab {
	for _, t := range Tabs {
		if string(t) == s {
			return t
		}
	}
	return TabOverview
}
