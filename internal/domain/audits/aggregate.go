package audits

import (
	"encoding/json"
	"sort"
	"strings"

	"github.com/bryanwahyu/fisichecker/internal/domain/wcag"
)

// CountVerdicts prefers the backend's own counts, then criterion_results,
// and only falls back to the normalized view for legacy records.
func CountVerdicts(rec *Record, view View) VerdictCounts {
	var c VerdictCounts
	if rec == nil {
		return c
	}
	if rec.VerdictCounts != nil {
		return *rec.VerdictCounts
	}
	if rec.CriterionResults != nil {
		for _, cr := range rec.CriterionResults {
			c.add(cr.EffectiveVerdict())
		}
		return c
	}
	for _, crit := range view {
		c.add(crit.DisplayVerdict())
	}
	return c
}

// LevelBreakdown returns pass tallies per conformance level.
func LevelBreakdown(rec *Record, view View) map[string]LevelTally {
	if rec != nil && rec.ScoreBreakdown != nil {
		return rec.ScoreBreakdown
	}
	out := map[string]LevelTally{}
	for _, lv := range wcag.Levels {
		out[string(lv)] = LevelTally{}
	}
	for _, crit := range view {
		lvl := crit.Level
		if lvl == "" {
			lvl = string(wcag.LevelA)
		}
		t := out[lvl]
		t.Total++
		if crit.Verdict == VerdictPass || crit.Passed {
			t.Passed++
		}
		out[lvl] = t
	}
	return out
}

// PrincipleTally counts verdicts of one principle.
type PrincipleTally struct {
	VerdictCounts
	Items []*Criterion
}

func ByPrinciple(view View) map[string]*PrincipleTally {
	acc := map[string]*PrincipleTally{}
	for _, crit := range view.Sorted() {
		p := crit.Principle
		if p == "" {
			p = string(wcag.PrincipleUnknown)
		}
		t, ok := acc[p]
		if !ok {
			t = &PrincipleTally{}
			acc[p] = t
		}
		t.add(crit.DisplayVerdict())
		t.Items = append(t.Items, crit)
	}
	return acc
}

// Filter values.
const (
	FilterAll    = "ALL"
	StatePassed  = "PASSED"
	StateFailed  = "FAILED"
	StatePartial = "PARTIAL"
	StateNA      = "NA"
)

// Filter narrows the per-principle tables. Empty fields match everything.
type Filter struct {
	Principle string
	Level     string
	State     string
	Search    string
}

func isAll(s string) bool { return s == "" || s == FilterAll }

func (f Filter) Match(crit *Criterion) bool {
	principle := firstNonEmpty(crit.Principle, string(wcag.PrincipleUnknown))
	level := firstNonEmpty(crit.Level, string(wcag.LevelA))
	if !isAll(f.Principle) && principle != f.Principle {
		return false
	}
	if !isAll(f.Level) && level != f.Level {
		return false
	}
	v := crit.DisplayVerdict()
	switch strings.ToUpper(f.State) {
	case StatePassed:
		if v != VerdictPass {
			return false
		}
	case StateFailed:
		if v != VerdictFail {
			return false
		}
	case StatePartial:
		if v != VerdictPartial {
			return false
		}
	case StateNA:
		if v != VerdictNA {
			return false
		}
	}
	if f.Search != "" {
		hay := strings.ToLower(crit.Code + " " + crit.Title + " " + crit.Principle)
		if !strings.Contains(hay, strings.ToLower(f.Search)) {
			return false
		}
	}
	return true
}

// PrincipleTable is one per-principle results table.
type PrincipleTable struct {
	Principle string
	Rows      []*Criterion
}

var verdictOrder = map[Verdict]int{VerdictFail: 0, VerdictPartial: 1, VerdictNA: 2, VerdictPass: 3}

func orderOf(v Verdict) int {
	if o, ok := verdictOrder[v]; ok {
		return o
	}
	return len(verdictOrder)
}

// PrincipleTables groups the filtered view by principle, failures first.
// Principles with no matching rows are omitted.
func PrincipleTables(view View, f Filter) []PrincipleTable {
	var out []PrincipleTable
	for _, p := range wcag.Principles {
		var rows []*Criterion
		for _, crit := range view {
			if crit.Principle == string(p) && f.Match(crit) {
				rows = append(rows, crit)
			}
		}
		if len(rows) == 0 {
			continue
		}
		sort.SliceStable(rows, func(i, j int) bool {
			oi, oj := orderOf(rows[i].DisplayVerdict()), orderOf(rows[j].DisplayVerdict())
			if oi != oj {
				return oi < oj
			}
			return wcag.CompareCodes(rows[i].Code, rows[j].Code) < 0
		})
		out = append(out, PrincipleTable{Principle: string(p), Rows: rows})
	}
	return out
}

// InferMode reports which pipeline effectively produced rec: RAW, RENDERED
// or AI.
func InferMode(rec *Record) string {
	if rec == nil {
		return "RAW"
	}
	switch m := strings.ToUpper(rec.ModeEffective); m {
	case "RAW", "RENDERED", "AI":
		return m
	}
	if rec.AnyAI != nil && *rec.AnyAI {
		return "AI"
	}
	if (rec.HasRendered != nil && *rec.HasRendered) || len(rec.RenderedCodes) > 0 {
		return "RENDERED"
	}
	var usedAI, usedRendered bool
	for _, cr := range rec.CriterionResults {
		switch Source(strings.ToLower(string(cr.Source))) {
		case SourceAI:
			usedAI = true
		case SourceRendered:
			usedRendered = true
		}
	}
	if usedAI {
		return "AI"
	}
	if usedRendered {
		return "RENDERED"
	}
	return "RAW"
}

// AIUsedCount counts criteria resolved by the AI pipeline.
func AIUsedCount(rec *Record) int {
	if rec == nil {
		return 0
	}
	n := 0
	for _, cr := range rec.CriterionResults {
		if cr.Source == SourceAI {
			n++
		}
	}
	return n
}

var offenderKeys = map[string]bool{
	"offenders":             true,
	"misannotated":          true,
	"now_misannotated":      true,
	"observed_misannotated": true,
}

// Offenders returns the offending elements listed in the details of code.
func Offenders(code string, d Details) []map[string]any {
	var keys []string
	if code == "4.1.3" {
		keys = []string{"misannotated", "now_misannotated", "observed_misannotated"}
	} else {
		keys = []string{"offenders", "misannotated"}
	}
	for _, k := range keys {
		v := d[k]
		if !truthy(v) {
			continue
		}
		list, ok := v.([]any)
		if !ok {
			return nil
		}
		out := make([]map[string]any, 0, len(list))
		for _, item := range list {
			if m, ok := item.(map[string]any); ok {
				out = append(out, m)
			} else {
				out = append(out, map[string]any{})
			}
		}
		return out
	}
	return nil
}

// OffenderColumn describes one column of the offender table.
type OffenderColumn struct {
	Key   string
	Label string
}

var OffenderColumns = []OffenderColumn{
	{"tag", "Tag"},
	{"role", "Role"},
	{"id", "ID"},
	{"class", "Clases"},
	{"type", "Tipo"},
	{"text", "Texto"},
	{"ariaLive", "aria-live"},
}

// OffenderCell renders one cell; class lists join with dots.
func OffenderCell(row map[string]any, key string) DetailValue {
	v := row[key]
	if key == "class" {
		if list, ok := v.([]any); ok {
			parts := make([]string, len(list))
			for i, x := range list {
				parts[i] = display(x)
			}
			return DetailValue{Text: strings.Join(parts, ".")}
		}
		if !truthy(v) {
			return DetailValue{}
		}
		return DetailValue{Text: display(v)}
	}
	return FormatDetailValue(v)
}

// DetailValue is a rendered details value. Block values are pretty JSON.
type DetailValue struct {
	Text  string
	Block bool
}

func FormatDetailValue(v any) DetailValue {
	switch x := v.(type) {
	case nil:
		return DetailValue{Text: "—"}
	case []any:
		if len(x) == 0 {
			return DetailValue{Text: "—"}
		}
		parts := make([]string, len(x))
		for i, item := range x {
			parts[i] = display(item)
		}
		return DetailValue{Text: strings.Join(parts, ", ")}
	case map[string]any:
		b, err := json.MarshalIndent(x, "", "  ")
		if err != nil {
			return DetailValue{Text: display(x)}
		}
		return DetailValue{Text: string(b), Block: true}
	}
	return DetailValue{Text: display(v)}
}

// DetailRow is one key/value row of the raw details table.
type DetailRow struct {
	Key   string
	Value DetailValue
}

// DetailRows lists the details in key order without offender lists.
func DetailRows(d Details) []DetailRow {
	var rows []DetailRow
	for _, k := range sortedKeys(d) {
		if offenderKeys[k] {
			continue
		}
		rows = append(rows, DetailRow{Key: k, Value: FormatDetailValue(d[k])})
	}
	return rows
}
