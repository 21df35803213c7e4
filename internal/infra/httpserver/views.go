package httpserver

import (
	"fmt"
	"html/template"
	"net/url"
	"strconv"

	"github.com/bryanwahyu/fisichecker/internal/domain/audits"
	"github.com/bryanwahyu/fisichecker/internal/domain/statistics"
	"github.com/bryanwahyu/fisichecker/internal/domain/wcag"
)

type option struct {
	Value    string
	Label    string
	Selected bool
}

type levelRow struct {
	Level  string
	Passed int
	Total  int
	Ratio  int
}

type principleRow struct {
	Name   string
	Counts audits.VerdictCounts
	Total  int
}

type criterionRow struct {
	Code         string
	Title        string
	Level        string
	Verdict      string
	VerdictClass string
	SourceLabel  string
	SourceTitle  string
}

type tableView struct {
	Principle string
	Rows      []criterionRow
}

// resultView is the "last audit" block of the panel.
type resultView struct {
	ID            audits.AuditID
	URL           string
	Title         string
	Score         string
	Mode          string
	AIUsed        int
	Status        string
	Elapsed       string
	Fetched       string
	RenderedError string
	Overridden    []string
	Counts        audits.VerdictCounts
	Levels        []levelRow
	Principles    []principleRow
	Tables        []tableView
	Filter        audits.Filter
	PrincipleOpts []option
	LevelOpts     []option
	StateOpts     []option
}

func scoreText(score *float64) string {
	if pct, ok := audits.ScorePercent(score); ok {
		return strconv.Itoa(pct) + "%"
	}
	return "—"
}

func newCriterionRow(c *audits.Criterion) criterionRow {
	v := c.DisplayVerdict()
	label, title := c.Source.Chip()
	return criterionRow{
		Code:         c.Code,
		Title:        c.Title,
		Level:        c.Level,
		Verdict:      v.Label(),
		VerdictClass: verdictClass(v),
		SourceLabel:  label,
		SourceTitle:  title,
	}
}

func newResultView(rec *audits.Record, f audits.Filter) *resultView {
	if rec == nil {
		return nil
	}
	view := audits.Normalize(rec)
	rv := &resultView{
		ID:            rec.ID,
		URL:           rec.URL,
		Title:         rec.PageTitle,
		Score:         scoreText(rec.Score),
		Mode:          audits.InferMode(rec),
		AIUsed:        audits.AIUsedCount(rec),
		Status:        "—",
		Elapsed:       "—",
		Fetched:       audits.FormatTimestamp(rec.FetchedAt),
		RenderedError: rec.RenderedErrorText(),
		Overridden:    rec.RenderedCodes,
		Counts:        audits.CountVerdicts(rec, view),
		Filter:        f,
	}
	if rec.StatusCode != nil {
		rv.Status = strconv.Itoa(*rec.StatusCode)
	}
	if rec.ElapsedMS != nil {
		rv.Elapsed = fmt.Sprintf("%.0f ms", *rec.ElapsedMS)
	}

	levels := audits.LevelBreakdown(rec, view)
	for _, lv := range wcag.Levels {
		t := levels[string(lv)]
		rv.Levels = append(rv.Levels, levelRow{Level: string(lv), Passed: t.Passed, Total: t.Total, Ratio: t.Ratio()})
	}

	tallies := audits.ByPrinciple(view)
	for _, p := range wcag.Principles {
		t, ok := tallies[string(p)]
		if !ok {
			continue
		}
		rv.Principles = append(rv.Principles, principleRow{Name: string(p), Counts: t.VerdictCounts, Total: len(t.Items)})
	}

	for _, tbl := range audits.PrincipleTables(view, f) {
		tv := tableView{Principle: tbl.Principle}
		for _, c := range tbl.Rows {
			tv.Rows = append(tv.Rows, newCriterionRow(c))
		}
		rv.Tables = append(rv.Tables, tv)
	}

	rv.PrincipleOpts = []option{{Value: audits.FilterAll, Label: "Todos", Selected: isAllFilter(f.Principle)}}
	for _, p := range wcag.Principles {
		rv.PrincipleOpts = append(rv.PrincipleOpts, option{Value: string(p), Label: string(p), Selected: f.Principle == string(p)})
	}
	rv.LevelOpts = []option{{Value: audits.FilterAll, Label: "Todos", Selected: isAllFilter(f.Level)}}
	for _, lv := range wcag.Levels {
		rv.LevelOpts = append(rv.LevelOpts, option{Value: string(lv), Label: string(lv), Selected: f.Level == string(lv)})
	}
	states := []option{
		{Value: audits.FilterAll, Label: "Todos"},
		{Value: audits.StatePassed, Label: audits.VerdictPass.Label()},
		{Value: audits.StateFailed, Label: audits.VerdictFail.Label()},
		{Value: audits.StatePartial, Label: audits.VerdictPartial.Label()},
		{Value: audits.StateNA, Label: audits.VerdictNA.Label()},
	}
	for i := range states {
		states[i].Selected = states[i].Value == f.State || (i == 0 && isAllFilter(f.State))
	}
	rv.StateOpts = states
	return rv
}

func isAllFilter(s string) bool { return s == "" || s == audits.FilterAll }

// recentRow is one line of the recent audits table.
type recentRow struct {
	ID      audits.AuditID
	URL     string
	Title   string
	Score   string
	Mode    string
	Fetched string
}

func newRecentRows(list []audits.Record) []recentRow {
	rows := make([]recentRow, 0, len(list))
	for i := range list {
		rec := &list[i]
		rows = append(rows, recentRow{
			ID:      rec.ID,
			URL:     rec.URL,
			Title:   rec.PageTitle,
			Score:   scoreText(rec.Score),
			Mode:    audits.InferMode(rec),
			Fetched: audits.FormatTimestamp(rec.FetchedAt),
		})
	}
	return rows
}

type modeButton struct {
	Mode  audits.Mode
	Label string
}

var modeButtons = []modeButton{
	{audits.ModeRendered, "Auditar"},
	{audits.ModeAI, "Solo IA"},
	{audits.ModeAutoAI, "Auto + IA"},
}

type panelView struct {
	URL            string
	AuditError     string
	Recent         []recentRow
	RecentError    string
	History        []string
	Examples       []string
	Modes          []modeButton
	Result         *resultView
	ArchiveEnabled bool
}

// detail page

type offenderTable struct {
	Columns []audits.OffenderColumn
	Rows    [][]audits.DetailValue
}

type criterionDetail struct {
	criterionRow
	Principle       string
	Explain         string
	Detected        []string
	Details         []audits.DetailRow
	Offenders       *offenderTable
	Recommendations []string
}

type detailView struct {
	resultView
	Criteria     []criterionDetail
	AIEnabled    bool
	Summary      template.HTML
	SummaryError string
}

func newDetailView(rec *audits.Record) *detailView {
	rv := newResultView(rec, audits.Filter{})
	dv := &detailView{resultView: *rv}
	for _, c := range audits.Normalize(rec).Sorted() {
		cd := criterionDetail{
			criterionRow:    newCriterionRow(c),
			Principle:       c.Principle,
			Explain:         wcag.Explain(c.Code),
			Detected:        audits.DetectedSummary(c.Code, c.Details),
			Details:         audits.DetailRows(c.Details),
			Recommendations: audits.Recommendations(c.Code, c.Details, c.DisplayVerdict()),
		}
		if offenders := audits.Offenders(c.Code, c.Details); len(offenders) > 0 {
			ot := &offenderTable{Columns: audits.OffenderColumns}
			for _, row := range offenders {
				cells := make([]audits.DetailValue, len(ot.Columns))
				for i, col := range ot.Columns {
					cells[i] = audits.OffenderCell(row, col.Key)
				}
				ot.Rows = append(ot.Rows, cells)
			}
			cd.Offenders = ot
		}
		dv.Criteria = append(dv.Criteria, cd)
	}
	return dv
}

// statistics page

type tabLink struct {
	Label  string
	Href   string
	Active bool
}

type verdictShareRow struct {
	Verdict string
	Label   string
	Class   string
	Count   int
	Percent float64
}

type statisticsView struct {
	Tab        statistics.Tab
	Tabs       []tabLink
	Source     string
	Error      string
	Report     *statistics.Report
	Verdicts   []verdictShareRow
	Levels     []string
	Individual bool
}

func statisticsTabs(active statistics.Tab, source string) []tabLink {
	links := make([]tabLink, 0, len(statistics.Tabs))
	for _, t := range statistics.Tabs {
		q := url.Values{"tab": {string(t)}}
		if source != "" {
			q.Set("source", source)
		}
		links = append(links, tabLink{Label: t.Label(), Href: "/statistics?" + q.Encode(), Active: t == active})
	}
	return links
}

func newStatisticsView(tab statistics.Tab, source string, rep *statistics.Report) *statisticsView {
	sv := &statisticsView{
		Tab:        tab,
		Tabs:       statisticsTabs(tab, source),
		Source:     source,
		Report:     rep,
		Individual: source == sourceIndividual,
	}
	if rep == nil {
		return sv
	}
	if rep.VerdictDistribution != nil {
		for _, v := range rep.VerdictDistribution.Verdicts() {
			share := rep.VerdictDistribution.Distribution[v]
			verdict := audits.Verdict(v)
			sv.Verdicts = append(sv.Verdicts, verdictShareRow{
				Verdict: v,
				Label:   verdict.Label(),
				Class:   verdictClass(verdict),
				Count:   share.Count,
				Percent: share.Percentage,
			})
		}
	}
	sv.Levels = rep.LevelStatistics.Levels()
	return sv
}

const sourceIndividual = "individual"
