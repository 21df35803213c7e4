package audits

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeRecord(t *testing.T, body string) *Record {
	t.Helper()
	var rec Record
	require.NoError(t, json.Unmarshal([]byte(body), &rec))
	return &rec
}

func TestNormalizeNil(t *testing.T) {
	assert.Empty(t, Normalize(nil))
}

func TestNormalizeCodeSet(t *testing.T) {
	rec := decodeRecord(t, `{
		"id": 12,
		"results": {
			"1.1.1": {"passed": true, "details": {"images_total": 3}},
			"2.4.1": {"passed": false, "details": {}}
		},
		"criterion_results": [
			{"code": "1.1.1", "verdict": "pass", "source": "rendered", "details": {"images_total": 99}},
			{"code": "3.1.1", "verdict": "fail", "details": {"lang_present": false}},
			{"code": "9.9.9", "verdict": "na"}
		]
	}`)

	view := Normalize(rec)

	assert.Equal(t, []string{"1.1.1", "2.4.1", "3.1.1", "9.9.9"}, view.Codes())
	assert.Equal(t, AuditID("12"), rec.ID)
}

func TestNormalizeDetailsPrecedence(t *testing.T) {
	tests := []struct {
		name string
		body string
		want Details
	}{
		{
			name: "seeded details win when non-empty",
			body: `{"results": {"1.1.1": {"passed": false, "details": {"images_total": 3}}},
				"criterion_results": [{"code": "1.1.1", "verdict": "fail", "details": {"images_total": 99}}]}`,
			want: Details{"images_total": 3.0},
		},
		{
			name: "empty seed falls through to criterion details",
			body: `{"results": {"1.1.1": {"passed": false, "details": {}}},
				"criterion_results": [{"code": "1.1.1", "verdict": "fail", "details": {"images_total": 99}}]}`,
			want: Details{"images_total": 99.0},
		},
		{
			name: "neither side has details",
			body: `{"criterion_results": [{"code": "1.1.1", "verdict": "fail"}]}`,
			want: Details{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			view := Normalize(decodeRecord(t, tt.body))
			require.Contains(t, view, "1.1.1")
			assert.Equal(t, tt.want, view["1.1.1"].Details)
		})
	}
}

func TestNormalizeMetadata(t *testing.T) {
	rec := decodeRecord(t, `{
		"results": {"1.4.3": {"passed": true}, "7.7.7": {"passed": false}},
		"criterion_results": [
			{"code": "2.4.7", "verdict": "partial", "title": "Custom", "score_hint": 0.5},
			{"code": "8.8.8", "verdict": "fail"}
		]
	}`)
	view := Normalize(rec)

	contrast := view["1.4.3"]
	assert.Equal(t, "Contraste (mínimo)", contrast.Title)
	assert.Equal(t, "AA", contrast.Level)
	assert.Equal(t, "Perceptible", contrast.Principle)
	assert.Equal(t, Verdict(""), contrast.Verdict)
	assert.Equal(t, VerdictPass, contrast.DisplayVerdict())
	assert.Equal(t, Source(""), contrast.Source)

	focus := view["2.4.7"]
	assert.Equal(t, "Custom", focus.Title)
	assert.Equal(t, "AA", focus.Level)
	assert.Equal(t, SourceRaw, focus.Source)
	require.NotNil(t, focus.ScoreHint)
	assert.InDelta(t, 0.5, *focus.ScoreHint, 1e-9)
	assert.False(t, focus.Passed)

	for _, code := range []string{"7.7.7", "8.8.8"} {
		c := view[code]
		assert.Equal(t, "Criterio", c.Title, code)
		assert.Equal(t, "A", c.Level, code)
		assert.Equal(t, "—", c.Principle, code)
	}
}

func TestNormalizeIsDeterministic(t *testing.T) {
	body := `{"results": {"1.1.1": {"passed": true, "details": {"a": 1}}},
		"criterion_results": [{"code": "1.3.1", "verdict": "fail"}]}`
	a := Normalize(decodeRecord(t, body))
	b := Normalize(decodeRecord(t, body))
	assert.Equal(t, a, b)
}

func TestAuditIDDecoding(t *testing.T) {
	tests := []struct {
		in   string
		want AuditID
	}{
		{`{"id": 42}`, "42"},
		{`{"id": "abc"}`, "abc"},
		{`{"id": null}`, ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, decodeRecord(t, tt.in).ID)
		})
	}
}

func TestDetailsDecodingTolerance(t *testing.T) {
	tests := []struct {
		name    string
		details string
		want    Details
	}{
		{"array", `[]`, Details{}},
		{"null", `null`, Details{}},
		{"string", `"x"`, Details{}},
		{"number", `3`, Details{}},
		{"object", `{"missing_alt": 2}`, Details{"missing_alt": float64(2)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := decodeRecord(t, `{"id": 7, "criterion_results": [
				{"code": "1.1.1", "verdict": "fail", "details": `+tt.details+`},
				{"code": "2.4.2", "verdict": "pass", "details": {"has_title": true}}
			], "results": {"1.1.1": {"passed": false, "details": `+tt.details+`}}}`)

			require.Len(t, rec.CriterionResults, 2)
			assert.Equal(t, tt.want, rec.CriterionResults[0].Details)
			assert.Equal(t, Details{"has_title": true}, rec.CriterionResults[1].Details)
			assert.Equal(t, tt.want, rec.Results["1.1.1"].Details)
		})
	}
}
