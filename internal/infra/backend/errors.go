package backend

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/bryanwahyu/fisichecker/internal/domain/session"
)

// ErrTransport wraps failures that never produced an HTTP response.
var ErrTransport = errors.New("backend unreachable")

// HTTPError is a non-2xx response from the audit API.
type HTTPError struct {
	Status int
	Body   string
	// Detail is the "detail" field of a JSON error body, if any.
	Detail string
}

func newHTTPError(status int, body []byte) *HTTPError {
	e := &HTTPError{Status: status, Body: strings.TrimSpace(string(body))}
	var payload struct {
		Detail any `json:"detail"`
	}
	if json.Unmarshal(body, &payload) == nil {
		switch d := payload.Detail.(type) {
		case string:
			e.Detail = d
		case nil:
		default:
			b, _ := json.Marshal(d)
			e.Detail = string(b)
		}
	}
	return e
}

func (e *HTTPError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("backend: HTTP %d", e.Status)
	}
	return fmt.Sprintf("backend: HTTP %d: %s", e.Status, e.Body)
}

// Unwrap lets errors.Is(err, session.ErrUnauthorized) match a 401.
func (e *HTTPError) Unwrap() error {
	if e.Status == 401 {
		return session.ErrUnauthorized
	}
	return nil
}

func (e *HTTPError) HTTPStatus() int { return e.Status }

func (e *HTTPError) Reason() string { return e.Detail }

// StatusText is "HTTP <status>".
func (e *HTTPError) StatusText() string {
	return fmt.Sprintf("HTTP %d", e.Status)
}

// Message is the response text, or StatusText when the body was empty.
func (e *HTTPError) Message() string {
	if e.Body != "" {
		return e.Body
	}
	return e.StatusText()
}

// StatusText renders err as "HTTP <status>" for HTTP errors and the plain
// error text otherwise.
func StatusText(err error) string {
	var he *HTTPError
	if errors.As(err, &he) {
		return he.StatusText()
	}
	return err.Error()
}

// Message renders err the way audit submission and delete report it: the
// response text, "HTTP <status>" for empty bodies, or the transport error.
func Message(err error) string {
	var he *HTTPError
	if errors.As(err, &he) {
		return he.Message()
	}
	return err.Error()
}
