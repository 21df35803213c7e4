package audits

import (
	"net/url"
	"regexp"
	"strings"
)

var schemeRe = regexp.MustCompile(`(?i)^https?://`)

// NormalizeURL trims u and prepends https:// when it has no http(s) scheme.
// Empty input stays empty.
func NormalizeURL(u string) string {
	trimmed := strings.TrimSpace(u)
	if trimmed == "" {
		return ""
	}
	if schemeRe.MatchString(trimmed) {
		return trimmed
	}
	return "https://" + trimmed
}

// IsValidURL reports whether u, once normalized, is an absolute http(s) URL
// with a host.
func IsValidURL(u string) bool {
	norm := NormalizeURL(u)
	if norm == "" {
		return false
	}
	parsed, err := url.Parse(norm)
	if err != nil {
		return false
	}
	if parsed.Host == "" || parsed.Hostname() == "" || strings.ContainsAny(parsed.Host, " \t") {
		return false
	}
	return schemeRe.MatchString(norm)
}

// SampleURLs are offered as one-click examples on the panel.
var SampleURLs = []string{"example.com", "wikipedia.org", "peru.gob.pe"}
