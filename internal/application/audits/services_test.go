package audits

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/bryanwahyu/fisichecker/internal/domain/audits"
)

type fakeGateway struct {
	runURL  string
	runMode domain.Mode
	runErr  error
	list    []domain.Record
	gets    int
	deleted []domain.AuditID
}

func (f *fakeGateway) Run(ctx context.Context, mode domain.Mode, targetURL string) (*domain.Record, error) {
	f.runURL, f.runMode = targetURL, mode
	if f.runErr != nil {
		return nil, f.runErr
	}
	return &domain.Record{ID: "77", URL: "https://other"}, nil
}

func (f *fakeGateway) List(ctx context.Context) ([]domain.Record, error) {
	return f.list, nil
}

func (f *fakeGateway) Get(ctx context.Context, id domain.AuditID) (*domain.Record, error) {
	f.gets++
	return &domain.Record{ID: id}, nil
}

func (f *fakeGateway) Delete(ctx context.Context, id domain.AuditID) error {
	f.deleted = append(f.deleted, id)
	return nil
}

func TestRunAudit(t *testing.T) {
	var outcomes []string
	svc := &Service{Observer: func(_ domain.Mode, outcome string) { outcomes = append(outcomes, outcome) }}

	tests := []struct {
		name    string
		input   string
		runErr  error
		wantErr error
		wantURL string
		called  bool
	}{
		{"normalized", " example.com ", nil, nil, "https://example.com", true},
		{"invalid never calls backend", "exa mple", nil, ErrInvalidURL, "", false},
		{"empty", "", nil, ErrInvalidURL, "", false},
		{"backend failure", "https://example.com", errors.New("HTTP 500"), nil, "https://example.com", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gw := &fakeGateway{runErr: tt.runErr}
			res, err := svc.RunAudit(context.Background(), gw, RunAuditCommand{URL: tt.input, Mode: domain.ModeAutoAI})
			switch {
			case tt.wantErr != nil:
				assert.ErrorIs(t, err, tt.wantErr)
			case tt.runErr != nil:
				assert.Equal(t, tt.runErr, err)
			default:
				require.NoError(t, err)
				assert.Equal(t, tt.wantURL, res.Record.URL)
				assert.Equal(t, domain.ModeAutoAI, gw.runMode)
			}
			assert.Equal(t, tt.called, gw.runURL != "")
			if tt.called {
				assert.Equal(t, tt.wantURL, gw.runURL)
			}
		})
	}
	assert.Equal(t, []string{"ok", "invalid", "invalid", "error"}, outcomes)
}

func TestRecent(t *testing.T) {
	list := make([]domain.Record, 0, 25)
	for i := 0; i < 25; i++ {
		list = append(list, domain.Record{ID: domain.AuditID(rune('a' + i))})
	}
	gw := &fakeGateway{list: list}
	svc := &Service{}

	all, err := svc.Recent(context.Background(), gw, RecentQuery{})
	require.NoError(t, err)
	assert.Len(t, all, 25)

	got, err := svc.Recent(context.Background(), gw, RecentQuery{
		Pending: &domain.Record{ID: "b"},
		Deleted: func(id domain.AuditID) bool { return id == "a" },
	})
	require.NoError(t, err)
	assert.Len(t, got, RecentLimit)
	assert.Equal(t, domain.AuditID("b"), got[0].ID)
	assert.Equal(t, domain.AuditID("c"), got[1].ID)
}

func TestDetailUsesRememberedAudit(t *testing.T) {
	gw := &fakeGateway{}
	svc := &Service{}
	remembered := &domain.Record{ID: "5", URL: "https://example.com"}

	got, err := svc.Detail(context.Background(), gw, "5", remembered)
	require.NoError(t, err)
	assert.Same(t, remembered, got)
	assert.Equal(t, 0, gw.gets)

	got, err = svc.Detail(context.Background(), gw, "6", remembered)
	require.NoError(t, err)
	assert.Equal(t, domain.AuditID("6"), got.ID)
	assert.Equal(t, 1, gw.gets)

	require.NoError(t, svc.Delete(context.Background(), gw, "6"))
	assert.Equal(t, []domain.AuditID{"6"}, gw.deleted)
}
