package session

import (
	"encoding/json"
	"time"
)

// User is the authenticated account as the backend describes it. Fields
// beyond username are kept verbatim.
type User struct {
	ID       json.RawMessage `json:"id,omitempty"`
	Username string          `json:"username"`
	Email    string          `json:"email,omitempty"`
	Raw      map[string]any  `json:"-"`
}

func (u *User) UnmarshalJSON(b []byte) error {
	type plain User
	var p plain
	if err := json.Unmarshal(b, &p); err != nil {
		return err
	}
	var raw map[string]any
	if err := json.Unmarshal(b, &raw); err == nil {
		p.Raw = raw
	}
	*u = User(p)
	return nil
}

// DisplayName is shown in page headers.
func (u *User) DisplayName() string {
	if u == nil || u.Username == "" {
		return "Usuario"
	}
	return u.Username
}

// State is the lifecycle of a browser session.
type State int

const (
	StateUnknown State = iota
	StateAuthenticated
	StateAnonymous
)

func (s State) String() string {
	switch s {
	case StateAuthenticated:
		return "authenticated"
	case StateAnonymous:
		return "anonymous"
	}
	return "unknown"
}

// TokenSentinel marks "the backend session cookie is set" when the backend
// does not hand out a real token.
const TokenSentinel = "session"

// LoginReply is the backend's successful login body.
type LoginReply struct {
	Token string `json:"token"`
	User  *User  `json:"user"`
}

const (
	ThemeDark  = "dark"
	ThemeLight = "light"

	// MaxHistory bounds the URL history.
	MaxHistory = 6
)

// Preferences are per-browser settings that survive logout.
type Preferences struct {
	ClientID  string    `json:"client_id"`
	Theme     string    `json:"theme"`
	History   []string  `json:"history"`
	UpdatedAt time.Time `json:"updated_at"`
}

// PushHistory moves url to the front, removes older copies and keeps at
// most MaxHistory entries.
func (p *Preferences) PushHistory(url string) {
	if url == "" {
		return
	}
	next := make([]string, 0, MaxHistory)
	next = append(next, url)
	for _, h := range p.History {
		if h != url {
			next = append(next, h)
		}
	}
	if len(next) > MaxHistory {
		next = next[:MaxHistory]
	}
	p.History = next
}

func (p *Preferences) ClearHistory() { p.History = nil }

// ToggleTheme flips between dark and light; unset counts as light.
func (p *Preferences) ToggleTheme() {
	if p.Theme == ThemeDark {
		p.Theme = ThemeLight
		return
	}
	p.Theme = ThemeDark
}

// EffectiveTheme is the theme to render.
func (p *Preferences) EffectiveTheme() string {
	if p.Theme == ThemeDark {
		return ThemeDark
	}
	return ThemeLight
}
