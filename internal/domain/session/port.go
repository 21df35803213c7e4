package session

import (
	"context"
	"errors"
)

// ErrUnauthorized is returned by the gateway when the backend has no
// session for the caller.
var ErrUnauthorized = errors.New("unauthorized")

// Rejection is a non-success answer from the backend. Reason is the
// "detail" message of the body, empty when there was none.
type Rejection interface {
	error
	HTTPStatus() int
	Reason() string
}

// Gateway is the authentication half of the backend API.
type Gateway interface {
	CurrentUser(ctx context.Context) (*User, error)
	Login(ctx context.Context, username, password string) (*LoginReply, error)
	Logout(ctx context.Context) error
}

// PreferenceRepository stores Preferences by client id. Get returns a zero
// Preferences with ClientID set when nothing is stored.
type PreferenceRepository interface {
	Get(ctx context.Context, clientID string) (*Preferences, error)
	Save(ctx context.Context, p *Preferences) error
	Ping(ctx context.Context) error
}
