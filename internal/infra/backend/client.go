package backend

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"time"

	"golang.org/x/net/publicsuffix"

	"github.com/bryanwahyu/fisichecker/internal/domain/audits"
	"github.com/bryanwahyu/fisichecker/internal/domain/exports"
	"github.com/bryanwahyu/fisichecker/internal/domain/session"
	"github.com/bryanwahyu/fisichecker/internal/domain/statistics"
	"github.com/bryanwahyu/fisichecker/internal/logging"
)

const (
	csrfCookie = "csrftoken"
	maxBody    = 32 << 20
)

// Observer receives one call per backend round trip. status is 0 when no
// response arrived.
type Observer func(op string, status int, elapsed time.Duration)

type Options struct {
	Timeout     time.Duration
	InsecureTLS bool
	// Transport overrides the default transport, mostly for tests.
	Transport http.RoundTripper
	Observer  Observer
}

// Client talks to the audit API on behalf of one browser. It owns a cookie
// jar so the backend session cookie and csrftoken behave as they would in
// the browser.
type Client struct {
	ep      Endpoints
	http    *http.Client
	baseURL *url.URL
	observe Observer
}

func NewClient(baseURL string, opts Options) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse backend url: %w", err)
	}
	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		return nil, err
	}
	transport := opts.Transport
	if transport == nil {
		t := http.DefaultTransport.(*http.Transport).Clone()
		if opts.InsecureTLS {
			t.TLSClientConfig = &tls.Config{InsecureSkipVerify: true} //nolint:gosec // production host serves a self-signed cert
		}
		transport = t
	}
	observe := opts.Observer
	if observe == nil {
		observe = func(string, int, time.Duration) {}
	}
	return &Client{
		ep:      NewEndpoints(baseURL),
		http:    &http.Client{Jar: jar, Timeout: opts.Timeout, Transport: transport},
		baseURL: u,
		observe: observe,
	}, nil
}

func (c *Client) Endpoints() Endpoints { return c.ep }

// CSRFToken is the backend's csrftoken cookie, empty when not set yet.
func (c *Client) CSRFToken() string {
	for _, ck := range c.http.Jar.Cookies(c.baseURL) {
		if ck.Name == csrfCookie {
			return ck.Value
		}
	}
	return ""
}

// Cookies returns the backend cookies held for this browser as name/value
// pairs, so they can outlive a process restart inside the browser cookie.
func (c *Client) Cookies() map[string]string {
	out := make(map[string]string)
	for _, ck := range c.http.Jar.Cookies(c.baseURL) {
		out[ck.Name] = ck.Value
	}
	return out
}

// RestoreCookies puts cookies returned by Cookies back into the jar.
func (c *Client) RestoreCookies(values map[string]string) {
	if len(values) == 0 {
		return
	}
	cks := make([]*http.Cookie, 0, len(values))
	for name, value := range values {
		cks = append(cks, &http.Cookie{Name: name, Value: value, Path: "/"})
	}
	c.http.Jar.SetCookies(c.baseURL, cks)
}

func (c *Client) send(ctx context.Context, op, method, target string, payload any) (*http.Response, []byte, error) {
	var body io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return nil, nil, err
		}
		body = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if method != http.MethodGet {
		req.Header.Set("X-CSRFToken", c.CSRFToken())
	}

	log := logging.FromContext(ctx)
	log.Debug("backend request", "op", op, "method", method, "url", target)

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.observe(op, 0, time.Since(start))
		log.Warn("backend unreachable", "op", op, "error", err)
		return nil, nil, fmt.Errorf("%w: %w", ErrTransport, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	c.observe(op, resp.StatusCode, time.Since(start))
	if err != nil {
		return nil, nil, fmt.Errorf("%w: read body: %w", ErrTransport, err)
	}
	log.Debug("backend response", "op", op, "status", resp.StatusCode)
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return resp, data, newHTTPError(resp.StatusCode, data)
	}
	return resp, data, nil
}

func (c *Client) call(ctx context.Context, op, method, target string, payload, out any) error {
	_, data, err := c.send(ctx, op, method, target, payload)
	if err != nil {
		return err
	}
	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode %s response: %w", op, err)
	}
	return nil
}

// Ping reports whether the backend answers at all. Any HTTP status counts.
func (c *Client) Ping(ctx context.Context) error {
	_, _, err := c.send(ctx, "ping", http.MethodGet, c.ep.CurrentUser, nil)
	var he *HTTPError
	if errors.As(err, &he) {
		return nil
	}
	return err
}

func (c *Client) CurrentUser(ctx context.Context) (*session.User, error) {
	var u session.User
	if err := c.call(ctx, "current_user", http.MethodGet, c.ep.CurrentUser, nil, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (c *Client) Login(ctx context.Context, username, password string) (*session.LoginReply, error) {
	creds := map[string]string{"username": username, "password": password}
	var reply session.LoginReply
	if err := c.call(ctx, "login", http.MethodPost, c.ep.Login, creds, &reply); err != nil {
		return nil, err
	}
	return &reply, nil
}

func (c *Client) Logout(ctx context.Context) error {
	return c.call(ctx, "logout", http.MethodPost, c.ep.Logout, nil, nil)
}

func (c *Client) Run(ctx context.Context, mode audits.Mode, targetURL string) (*audits.Record, error) {
	var rec audits.Record
	err := c.call(ctx, "audit", http.MethodPost, c.ep.AuditEndpoint(mode), map[string]string{"url": targetURL}, &rec)
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// List returns the recent audits. A body that is not a JSON array yields an
// empty list.
func (c *Client) List(ctx context.Context) ([]audits.Record, error) {
	var raw json.RawMessage
	if err := c.call(ctx, "audits", http.MethodGet, c.ep.Audits, nil, &raw); err != nil {
		return nil, err
	}
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] != '[' {
		return []audits.Record{}, nil
	}
	var list []audits.Record
	if err := json.Unmarshal(raw, &list); err != nil {
		return nil, fmt.Errorf("decode audits response: %w", err)
	}
	return list, nil
}

func (c *Client) Get(ctx context.Context, id audits.AuditID) (*audits.Record, error) {
	var rec audits.Record
	if err := c.call(ctx, "audit_detail", http.MethodGet, c.ep.AuditDetail(id), nil, &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

func (c *Client) Delete(ctx context.Context, id audits.AuditID) error {
	return c.call(ctx, "audit_delete", http.MethodDelete, c.ep.Delete.Audit(id), nil, nil)
}

func (c *Client) Report(ctx context.Context) (*statistics.Report, error) {
	var r statistics.Report
	if err := c.call(ctx, "stats_report", http.MethodGet, c.ep.Statistics.Report, nil, &r); err != nil {
		return nil, err
	}
	return &r, nil
}

func (c *Client) Global(ctx context.Context) (*statistics.Global, error) {
	var g statistics.Global
	if err := c.call(ctx, "stats_global", http.MethodGet, c.ep.Statistics.Global, nil, &g); err != nil {
		return nil, err
	}
	return &g, nil
}

func (c *Client) Verdicts(ctx context.Context) (*statistics.VerdictDistribution, error) {
	var v statistics.VerdictDistribution
	if err := c.call(ctx, "stats_verdicts", http.MethodGet, c.ep.Statistics.Verdicts, nil, &v); err != nil {
		return nil, err
	}
	return &v, nil
}

func (c *Client) Criteria(ctx context.Context) ([]statistics.FailingCriterion, error) {
	var list []statistics.FailingCriterion
	if err := c.call(ctx, "stats_criteria", http.MethodGet, c.ep.Statistics.Criteria, nil, &list); err != nil {
		return nil, err
	}
	return list, nil
}

func (c *Client) Levels(ctx context.Context) (statistics.LevelStatistics, error) {
	var l statistics.LevelStatistics
	if err := c.call(ctx, "stats_levels", http.MethodGet, c.ep.Statistics.Levels, nil, &l); err != nil {
		return nil, err
	}
	return l, nil
}

func (c *Client) Ranking(ctx context.Context, limit int) (*statistics.URLRanking, error) {
	var r statistics.URLRanking
	if err := c.call(ctx, "stats_ranking", http.MethodGet, c.ep.Statistics.RankingLimit(limit), nil, &r); err != nil {
		return nil, err
	}
	return &r, nil
}

// Export downloads a CSV or Excel export of all audits.
func (c *Client) Export(ctx context.Context, f exports.Format) (*exports.File, error) {
	target := c.ep.Export.CSV
	if f == exports.FormatExcel {
		target = c.ep.Export.Excel
	}
	resp, data, err := c.send(ctx, "export_"+string(f), http.MethodGet, target, nil)
	if err != nil {
		return nil, err
	}
	file := &exports.File{
		Format:      f,
		ContentType: resp.Header.Get("Content-Type"),
		Filename:    "auditorias." + f.Extension(),
		Data:        data,
	}
	if file.ContentType == "" {
		file.ContentType = f.ContentType()
	}
	if _, params, err := mime.ParseMediaType(resp.Header.Get("Content-Disposition")); err == nil && params["filename"] != "" {
		file.Filename = params["filename"]
	}
	return file, nil
}
