package audits

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeURL(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"example.com", "https://example.com"},
		{"  example.com/path ", "https://example.com/path"},
		{"http://example.com", "http://example.com"},
		{"HTTPS://Example.com", "HTTPS://Example.com"},
		{"", ""},
		{"   ", ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeURL(tt.in))
		})
	}
}

func TestIsValidURL(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"example.com", true},
		{"https://wikipedia.org/wiki/WCAG", true},
		{"peru.gob.pe", true},
		{"", false},
		{"   ", false},
		{"https://", false},
		{"exa mple.com", false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, IsValidURL(tt.in))
		})
	}
}

func TestVerdictAndSourceLabels(t *testing.T) {
	assert.Equal(t, "CUMPLE", VerdictPass.Label())
	assert.Equal(t, "NO CUMPLE", Verdict("FAIL").Label())
	assert.Equal(t, "PARCIAL", VerdictPartial.Label())
	assert.Equal(t, "N/A", VerdictNA.Label())
	assert.Equal(t, "—", Verdict("weird").Label())

	label, title := SourceAI.Chip()
	assert.Equal(t, "AI", label)
	assert.Equal(t, "Datos enriquecidos por IA", title)
	label, _ = Source("").Chip()
	assert.Equal(t, "RAW", label)

	assert.Equal(t, ModeAutoAI, ParseMode("AUTO_AI"))
	assert.Equal(t, ModeRaw, ParseMode("bogus"))
}
