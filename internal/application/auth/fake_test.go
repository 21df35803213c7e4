package auth

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/bryanwahyu/fisichecker/internal/domain/audits"
	"github.com/bryanwahyu/fisichecker/internal/domain/exports"
	"github.com/bryanwahyu/fisichecker/internal/domain/session"
	"github.com/bryanwahyu/fisichecker/internal/domain/statistics"
)

type rejection struct {
	status int
	detail string
}

func (r rejection) Error() string   { return "rejected" }
func (r rejection) HTTPStatus() int { return r.status }
func (r rejection) Reason() string  { return r.detail }

type fakeClient struct {
	mu sync.Mutex

	user      *session.User
	userErr   error
	release   chan struct{}
	checks    atomic.Int32
	login     *session.LoginReply
	loginErr  error
	logoutErr error
	logouts   int
	cookies   map[string]string
}

func (f *fakeClient) CurrentUser(ctx context.Context) (*session.User, error) {
	f.checks.Add(1)
	if f.release != nil {
		<-f.release
	}
	return f.user, f.userErr
}

func (f *fakeClient) Login(ctx context.Context, username, password string) (*session.LoginReply, error) {
	return f.login, f.loginErr
}

func (f *fakeClient) Logout(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.logouts++
	return f.logoutErr
}

func (f *fakeClient) Run(ctx context.Context, mode audits.Mode, targetURL string) (*audits.Record, error) {
	return nil, nil
}

func (f *fakeClient) List(ctx context.Context) ([]audits.Record, error) {
	return nil, nil
}

func (f *fakeClient) Get(ctx context.Context, id audits.AuditID) (*audits.Record, error) {
	return nil, nil
}

func (f *fakeClient) Delete(ctx context.Context, id audits.AuditID) error {
	return nil
}

func (f *fakeClient) Report(ctx context.Context) (*statistics.Report, error) {
	return nil, nil
}

func (f *fakeClient) Global(ctx context.Context) (*statistics.Global, error) {
	return nil, nil
}

func (f *fakeClient) Verdicts(ctx context.Context) (*statistics.VerdictDistribution, error) {
	return nil, nil
}

func (f *fakeClient) Criteria(ctx context.Context) ([]statistics.FailingCriterion, error) {
	return nil, nil
}

func (f *fakeClient) Levels(ctx context.Context) (statistics.LevelStatistics, error) {
	return nil, nil
}

func (f *fakeClient) Ranking(ctx context.Context, limit int) (*statistics.URLRanking, error) {
	return nil, nil
}

func (f *fakeClient) Export(ctx context.Context, format exports.Format) (*exports.File, error) {
	return nil, nil
}

func (f *fakeClient) Cookies() map[string]string {
	return f.cookies
}

func (f *fakeClient) RestoreCookies(c map[string]string) {
	f.cookies = c
}
