package mysql

import (
	"encoding/json"
	"strings"

	"github.com/bryanwahyu/fisichecker/internal/domain/session"
)

// themeOrDefault stores unset themes as light
func themeOrDefault(s string) string {
	if strings.TrimSpace(s) == "" {
		return session.ThemeLight
	}
	return s
}

// encodeHistory always yields a JSON array, the column is NOT NULL
func encodeHistory(h []string) (string, error) {
	if h == nil {
		h = []string{}
	}
	b, err := json.Marshal(h)
	return string(b), err
}

func decodeHistory(s string) ([]string, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	var h []string
	if err := json.Unmarshal([]byte(s), &h); err != nil {
		return nil, err
	}
	if len(h) == 0 {
		return nil, nil
	}
	return h, nil
}
