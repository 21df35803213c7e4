package audits

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleAudit = `{
	"id": 7,
	"url": "https://example.com",
	"score": 1.5,
	"results": {
		"1.1.1": {"passed": true, "details": {"images_total": 2}},
		"4.1.1": {"passed": false, "details": {}}
	},
	"criterion_results": [
		{"code": "1.1.1", "verdict": "pass", "source": "raw"},
		{"code": "1.4.3", "verdict": "fail", "source": "rendered"},
		{"code": "2.4.7", "verdict": "partial", "source": "ai"},
		{"code": "3.1.1", "verdict": "na"},
		{"code": "2.1.1", "verdict": "fail", "source": "ai"}
	]
}`

func TestCountVerdicts(t *testing.T) {
	tests := []struct {
		name string
		body string
		want VerdictCounts
	}{
		{"backend counts win", `{"verdict_counts": {"pass": 9, "fail": 1, "partial": 0, "na": 2},
			"criterion_results": [{"code": "1.1.1", "verdict": "fail"}]}`,
			VerdictCounts{Pass: 9, Fail: 1, NA: 2}},
		{"criterion results", sampleAudit, VerdictCounts{Pass: 1, Fail: 2, Partial: 1, NA: 1}},
		{"empty criterion results are authoritative", `{"results": {"1.1.1": {"passed": true}}, "criterion_results": []}`,
			VerdictCounts{}},
		{"legacy results only", `{"results": {"1.1.1": {"passed": true}, "1.4.3": {"passed": false}}}`,
			VerdictCounts{Pass: 1, Fail: 1}},
		{"uppercase verdicts", `{"criterion_results": [{"code": "1.1.1", "verdict": "PASS"}, {"code": "1.1.2", "passed": true}]}`,
			VerdictCounts{Pass: 2}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := decodeRecord(t, tt.body)
			assert.Equal(t, tt.want, CountVerdicts(rec, Normalize(rec)))
		})
	}
	assert.Equal(t, VerdictCounts{}, CountVerdicts(nil, nil))
}

func TestLevelBreakdown(t *testing.T) {
	rec := decodeRecord(t, sampleAudit)
	got := LevelBreakdown(rec, Normalize(rec))

	// 1.1.1 A pass, 4.1.1 A fail, 2.1.1 A fail, 3.1.1 A na; 1.4.3 AA fail, 2.4.7 AA partial.
	assert.Equal(t, LevelTally{Total: 4, Passed: 1}, got["A"])
	assert.Equal(t, LevelTally{Total: 2, Passed: 0}, got["AA"])
	assert.Equal(t, LevelTally{}, got["AAA"])
	assert.Equal(t, 100, got["AAA"].Ratio())
	assert.Equal(t, 25, got["A"].Ratio())

	withBreakdown := decodeRecord(t, `{"score_breakdown": {"A": {"total": 3, "passed": 3}}}`)
	assert.Equal(t, map[string]LevelTally{"A": {Total: 3, Passed: 3}}, LevelBreakdown(withBreakdown, nil))
}

func TestByPrinciple(t *testing.T) {
	rec := decodeRecord(t, sampleAudit)
	got := ByPrinciple(Normalize(rec))

	require.Contains(t, got, "Perceptible")
	assert.Equal(t, 1, got["Perceptible"].Pass)
	assert.Equal(t, 1, got["Perceptible"].Fail)
	assert.Len(t, got["Perceptible"].Items, 2)
	assert.Equal(t, 1, got["Operable"].Partial)
	assert.Equal(t, 1, got["Comprensible"].NA)
	assert.Equal(t, 1, got["Robusto"].Fail)
}

func TestPrincipleTables(t *testing.T) {
	rec := decodeRecord(t, `{"criterion_results": [
		{"code": "2.4.7", "verdict": "pass"},
		{"code": "2.1.1", "verdict": "fail"},
		{"code": "2.4.1", "verdict": "na"},
		{"code": "2.4.4", "verdict": "partial"},
		{"code": "2.1.2", "verdict": "fail"},
		{"code": "1.1.1", "verdict": "fail"}
	]}`)
	view := Normalize(rec)

	tables := PrincipleTables(view, Filter{})
	require.Len(t, tables, 2)
	assert.Equal(t, "Perceptible", tables[0].Principle)

	var codes []string
	for _, r := range tables[1].Rows {
		codes = append(codes, r.Code)
	}
	assert.Equal(t, []string{"2.1.1", "2.1.2", "2.4.4", "2.4.1", "2.4.7"}, codes)

	tests := []struct {
		name   string
		filter Filter
		want   int
	}{
		{"all", Filter{Principle: FilterAll, Level: FilterAll, State: FilterAll}, 6},
		{"principle", Filter{Principle: "Operable"}, 5},
		{"level", Filter{Level: "AA"}, 1},
		{"failed", Filter{State: StateFailed}, 3},
		{"passed", Filter{State: StatePassed}, 1},
		{"search by title", Filter{Search: "TECLADO"}, 2},
		{"search by code", Filter{Search: "2.4"}, 3},
		{"no match", Filter{State: StatePartial, Level: "AAA"}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := 0
			for _, tbl := range PrincipleTables(view, tt.filter) {
				n += len(tbl.Rows)
			}
			assert.Equal(t, tt.want, n)
		})
	}
}

func TestInferMode(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"explicit mode", `{"mode_effective": "rendered", "any_ai": true}`, "RENDERED"},
		{"auto follows signals", `{"mode_effective": "auto", "any_ai": true}`, "AI"},
		{"has rendered", `{"has_rendered": true}`, "RENDERED"},
		{"rendered codes", `{"rendered_codes": ["1.4.3"]}`, "RENDERED"},
		{"sources", `{"criterion_results": [{"code": "1.1.1", "source": "rendered"}, {"code": "1.1.2", "source": "AI"}]}`, "AI"},
		{"nothing", `{}`, "RAW"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, InferMode(decodeRecord(t, tt.body)))
		})
	}
}

func TestAIUsedCountAndScore(t *testing.T) {
	rec := decodeRecord(t, sampleAudit)
	assert.Equal(t, 2, AIUsedCount(rec))

	pct, ok := ScorePercent(rec.Score)
	assert.True(t, ok)
	assert.Equal(t, 75, pct)

	_, ok = ScorePercent(nil)
	assert.False(t, ok)
}

func TestOffenders(t *testing.T) {
	d := details(t, `{
		"offenders": [{"tag": "img", "class": ["a", "b"], "id": "hero"}],
		"misannotated": [],
		"now_misannotated": [{"tag": "div", "ariaLive": "polite"}],
		"count": 1
	}`)

	rows := Offenders("1.1.1", d)
	require.Len(t, rows, 1)
	assert.Equal(t, "a.b", OffenderCell(rows[0], "class").Text)
	assert.Equal(t, "hero", OffenderCell(rows[0], "id").Text)
	assert.Equal(t, "—", OffenderCell(rows[0], "role").Text)

	// An empty misannotated list is still picked first for status messages.
	assert.Empty(t, Offenders("4.1.3", d))

	rest := DetailRows(d)
	require.Len(t, rest, 1)
	assert.Equal(t, "count", rest[0].Key)
	assert.Equal(t, "1", rest[0].Value.Text)
}

func TestFormatDetailValue(t *testing.T) {
	assert.Equal(t, DetailValue{Text: "a, b"}, FormatDetailValue([]any{"a", "b"}))
	assert.Equal(t, DetailValue{Text: "—"}, FormatDetailValue([]any{}))
	assert.Equal(t, DetailValue{Text: "false"}, FormatDetailValue(false))
	assert.Equal(t, DetailValue{Text: "0.25"}, FormatDetailValue(0.25))
	obj := FormatDetailValue(map[string]any{"k": 1.0})
	assert.True(t, obj.Block)
	assert.Equal(t, "{\n  \"k\": 1\n}", obj.Text)
}

func TestPrependRecent(t *testing.T) {
	list := make([]Record, 0, 25)
	for i := 0; i < 25; i++ {
		list = append(list, Record{ID: AuditID(string(rune('a' + i)))})
	}
	out := PrependRecent(list, Record{ID: "c"}, 20)
	assert.Len(t, out, 20)
	assert.Equal(t, AuditID("c"), out[0].ID)
	for _, r := range out[1:] {
		assert.NotEqual(t, AuditID("c"), r.ID)
	}

	out = RemoveRecent(out, "c")
	assert.Len(t, out, 19)
	assert.Equal(t, AuditID("a"), out[0].ID)
}
