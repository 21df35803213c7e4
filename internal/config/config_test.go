package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)

	assert.Equal(t, 3000, cfg.Server.Port)
	assert.Equal(t, "https://158.69.62.72", cfg.Backend.ProductionURL)
	assert.Equal(t, 8000, cfg.Backend.DevPort)
	assert.Equal(t, "memory", cfg.Preferences.Driver)
	assert.Equal(t, 5*time.Second, cfg.Session.CheckTimeout)
	assert.Equal(t, DefaultBackendTimeout, cfg.Backend.Timeout)
	assert.NoError(t, cfg.Validate())
	assert.False(t, cfg.MinioEnabled())
}

func TestLoadFileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	body := `
server:
  port: 8080
  corsOrigins: [https://dash.example.org]
backend:
  devPort: 9000
preferences:
  driver: MySQL
database:
  host: db
  port: 3306
  user: app
  password: pw
  name: prefs
`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	t.Setenv("SESSION_SECRET", "from-env")
	t.Setenv("TRUSTED_PROXY_COUNT", "1")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 1, cfg.Server.TrustedProxyCount)
	assert.Equal(t, []string{"https://dash.example.org"}, cfg.Server.CORSOrigins)
	assert.Equal(t, 9000, cfg.Backend.DevPort)
	assert.Equal(t, "mysql", cfg.Preferences.Driver)
	assert.Equal(t, "from-env", cfg.Session.Secret)
	assert.Equal(t, "app:pw@tcp(db:3306)/prefs?parseTime=true&charset=utf8mb4&loc=UTC", cfg.MySQLDSN())
	assert.Contains(t, cfg.PostgresDSN(), "sslmode=disable")
	assert.NoError(t, cfg.Validate())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"unknown driver", func(c *Config) { c.Preferences.Driver = "sqlite" }, true},
		{"redis without url", func(c *Config) { c.Preferences.Driver = "redis" }, true},
		{"redis with url", func(c *Config) { c.Preferences.Driver = "redis"; c.Redis.URL = "redis://localhost:6379/0" }, false},
		{"postgres without host", func(c *Config) { c.Preferences.Driver = "postgres" }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{}
			cfg.applyDefaults()
			tt.mutate(cfg)
			if tt.wantErr {
				assert.Error(t, cfg.Validate())
			} else {
				assert.NoError(t, cfg.Validate())
			}
		})
	}
}

func TestBackendTimeout(t *testing.T) {
	tests := []struct {
		name string
		body string
		want time.Duration
	}{
		{"unset keeps default", "backend:\n  devPort: 9000\n", DefaultBackendTimeout},
		{"explicit zero disables", "backend:\n  timeout: 0s\n", 0},
		{"explicit value", "backend:\n  timeout: 30s\n", 30 * time.Second},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.yaml")
			require.NoError(t, os.WriteFile(path, []byte(tt.body), 0o600))
			cfg, err := Load(path)
			require.NoError(t, err)
			assert.Equal(t, tt.want, cfg.Backend.Timeout)
		})
	}
}
