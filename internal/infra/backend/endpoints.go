package backend

import (
	"fmt"
	"net"
	"net/url"
	"strings"

	"github.com/bryanwahyu/fisichecker/internal/domain/audits"
)

// Resolver picks the audit API base URL for a request hostname.
type Resolver struct {
	// BaseURL, when set, is used for every hostname.
	BaseURL       string
	ProductionURL string
	DevPort       int
}

// Resolve maps localhost and 127.0.0.1 to the local development backend on
// the same hostname and everything else to the production host. A port in
// host is ignored.
func (r Resolver) Resolve(host string) string {
	if r.BaseURL != "" {
		return strings.TrimRight(r.BaseURL, "/")
	}
	hostname := host
	if h, _, err := net.SplitHostPort(host); err == nil {
		hostname = h
	}
	if hostname == "localhost" || hostname == "127.0.0.1" {
		port := r.DevPort
		if port == 0 {
			port = 8000
		}
		return fmt.Sprintf("http://%s:%d", hostname, port)
	}
	if r.ProductionURL == "" {
		return "https://158.69.62.72"
	}
	return strings.TrimRight(r.ProductionURL, "/")
}

type StatisticsEndpoints struct {
	base string

	Global              string
	Verdicts            string
	Criteria            string
	Levels              string
	Principles          string
	Timeline            string
	Ranking             string
	Sources             string
	Report              string
	AccessibilityLevels string
	AccessibilityByWCAG string
}

// RankingLimit is the ranking endpoint with a limit query.
func (s StatisticsEndpoints) RankingLimit(limit int) string {
	return fmt.Sprintf("%s?limit=%d", s.Ranking, limit)
}

func (s StatisticsEndpoints) AuditDetail(id audits.AuditID) string {
	return s.base + "/api/statistics/audit/" + url.PathEscape(id.String()) + "/"
}

type ExportEndpoints struct {
	CSV   string
	Excel string
}

type DeleteEndpoints struct {
	base string

	BulkDelete string
}

// Audit keeps the trailing slash the backend routes on.
func (d DeleteEndpoints) Audit(id audits.AuditID) string {
	return d.base + "/api/audits/" + url.PathEscape(id.String()) + "/delete/"
}

// Endpoints is the fixed set of audit API URLs under one base.
type Endpoints struct {
	Base string

	Login       string
	Logout      string
	CurrentUser string
	Audit       string
	Audits      string

	Statistics StatisticsEndpoints
	Export     ExportEndpoints
	Delete     DeleteEndpoints
}

func NewEndpoints(base string) Endpoints {
	base = strings.TrimRight(base, "/")
	stats := base + "/api/statistics/"
	return Endpoints{
		Base:        base,
		Login:       base + "/api/auth/login",
		Logout:      base + "/api/auth/logout",
		CurrentUser: base + "/api/auth/user",
		Audit:       base + "/api/audit",
		Audits:      base + "/api/audits",
		Statistics: StatisticsEndpoints{
			base:                base,
			Global:              stats + "global/",
			Verdicts:            stats + "verdicts/",
			Criteria:            stats + "criteria/",
			Levels:              stats + "levels/",
			Principles:          stats + "principles/",
			Timeline:            stats + "timeline/",
			Ranking:             stats + "ranking/",
			Sources:             stats + "sources/",
			Report:              stats + "report/",
			AccessibilityLevels: stats + "accessibility-levels/",
			AccessibilityByWCAG: stats + "accessibility-by-wcag/",
		},
		Export: ExportEndpoints{
			CSV:   base + "/api/export/csv",
			Excel: base + "/api/export/excel",
		},
		Delete: DeleteEndpoints{
			base:       base,
			BulkDelete: base + "/api/audits/bulk-delete/",
		},
	}
}

func (e Endpoints) AuditDetail(id audits.AuditID) string {
	return e.Audits + "/" + url.PathEscape(id.String())
}

// AuditEndpoint is the audit submission URL for mode. Raw and unknown
// modes carry no query string.
func (e Endpoints) AuditEndpoint(mode audits.Mode) string {
	switch mode {
	case audits.ModeRendered:
		return e.Audit + "?mode=rendered"
	case audits.ModeAI:
		return e.Audit + "?mode=ai"
	case audits.ModeAutoAI:
		return e.Audit + "?mode=auto&ai=true"
	}
	return e.Audit
}
