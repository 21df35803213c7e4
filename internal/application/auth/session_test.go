package auth

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bryanwahyu/fisichecker/internal/domain/audits"
	"github.com/bryanwahyu/fisichecker/internal/domain/session"
)

func testSession(c *fakeClient) *Session {
	return newSession("client-1", "http://backend", c, time.Now())
}

func TestInitialize(t *testing.T) {
	tests := []struct {
		name      string
		client    *fakeClient
		wantState session.State
		wantToken string
	}{
		{"authenticated", &fakeClient{user: &session.User{Username: "ana"}}, session.StateAuthenticated, session.TokenSentinel},
		{"unauthorized", &fakeClient{userErr: rejection{status: 401}}, session.StateAnonymous, ""},
		{"transport error", &fakeClient{userErr: errors.New("dial tcp: refused")}, session.StateAnonymous, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := testSession(tt.client)
			assert.True(t, s.Loading())

			s.Initialize(context.Background())

			assert.False(t, s.Loading())
			assert.Equal(t, tt.wantState, s.State())
			assert.Equal(t, tt.wantToken, s.Token())
			assert.Equal(t, tt.wantToken != "", s.IsAuthenticated())
		})
	}
}

func TestWaitSharesOneCheck(t *testing.T) {
	c := &fakeClient{user: &session.User{Username: "ana"}, release: make(chan struct{})}
	s := testSession(c)

	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, s.Wait(context.Background()))
		}()
	}
	require.Eventually(t, func() bool { return c.checks.Load() == 1 }, time.Second, 5*time.Millisecond)
	close(c.release)
	wg.Wait()

	assert.Equal(t, int32(1), c.checks.Load())
	assert.True(t, s.IsAuthenticated())
	assert.Equal(t, "ana", s.User().DisplayName())
}

func TestWaitTimesOutWithoutDeciding(t *testing.T) {
	c := &fakeClient{user: &session.User{Username: "ana"}, release: make(chan struct{})}
	s := testSession(c)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, s.Wait(ctx), context.DeadlineExceeded)
	assert.True(t, s.Loading())

	close(c.release)
	require.Eventually(t, func() bool { return !s.Loading() }, time.Second, 5*time.Millisecond)
	assert.True(t, s.IsAuthenticated())
}

func TestLogin(t *testing.T) {
	tests := []struct {
		name      string
		client    *fakeClient
		want      LoginResult
		wantToken string
	}{
		{"token and user", &fakeClient{login: &session.LoginReply{Token: "abc", User: &session.User{Username: "ana"}}},
			LoginResult{Success: true}, "abc"},
		{"empty token falls back to sentinel", &fakeClient{login: &session.LoginReply{}},
			LoginResult{Success: true}, session.TokenSentinel},
		{"detail message", &fakeClient{loginErr: rejection{status: 400, detail: "Credenciales inválidas"}},
			LoginResult{Error: "Credenciales inválidas"}, ""},
		{"no detail", &fakeClient{loginErr: rejection{status: 500}},
			LoginResult{Error: "Error en login"}, ""},
		{"transport", &fakeClient{loginErr: errors.New("backend unreachable")},
			LoginResult{Error: "backend unreachable"}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := testSession(tt.client)
			got := s.Login(context.Background(), "ana", "pw")
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantToken, s.Token())
			if got.Success {
				assert.Equal(t, "ana", s.User().DisplayName())
			}
		})
	}
}

func TestLogoutAlwaysClears(t *testing.T) {
	c := &fakeClient{
		login:     &session.LoginReply{Token: "abc"},
		logoutErr: errors.New("boom"),
	}
	s := testSession(c)
	require.True(t, s.Login(context.Background(), "ana", "pw").Success)
	s.RememberAudit(&audits.Record{ID: "4"})

	s.Logout(context.Background())

	assert.Equal(t, 1, c.logouts)
	assert.False(t, s.IsAuthenticated())
	assert.Nil(t, s.User())
	assert.Nil(t, s.LastAudit())
	assert.Equal(t, session.StateAnonymous, s.State())
}

func TestNavigationState(t *testing.T) {
	s := testSession(&fakeClient{})
	s.RememberAudit(&audits.Record{ID: "4"})
	assert.Equal(t, audits.AuditID("4"), s.LastAudit().ID)

	s.ForgetAudit("4")
	assert.Nil(t, s.LastAudit())
	assert.True(t, s.Deleted("4"))

	s.RememberAudit(&audits.Record{ID: "4"})
	assert.False(t, s.Deleted("4"))
}
