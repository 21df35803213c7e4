package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultBackendTimeout applies when the file does not set backend.timeout.
const DefaultBackendTimeout = 120 * time.Second

type Config struct {
	Server struct {
		Port         int      `yaml:"port"`
		PublicURL    string   `yaml:"publicURL"`
		MaxBodyBytes int64    `yaml:"maxBodyBytes"`
		// CORSOrigins may call /api/v1 with credentials. Empty disables CORS.
		CORSOrigins  []string `yaml:"corsOrigins"`

		// TrustedProxyCount reverse proxies append to X-Forwarded-For. Zero
		// means the header is ignored.
		TrustedProxyCount int `yaml:"trustedProxyCount"`
	} `yaml:"server"`

	Backend struct {
		// BaseURL, when set, wins over the hostname rule.
		BaseURL       string        `yaml:"baseURL"`
		ProductionURL string        `yaml:"productionURL"`
		DevPort       int           `yaml:"devPort"`
		// Timeout bounds each call to the audit API. 0 means no limit.
		Timeout       time.Duration `yaml:"timeout"`
		InsecureTLS   bool          `yaml:"insecureTLS"`
	} `yaml:"backend"`

	Session struct {
		Secret       string        `yaml:"secret"`
		CookieName   string        `yaml:"cookieName"`
		MaxAge       int           `yaml:"maxAge"`
		Secure       bool          `yaml:"secure"`
		CheckTimeout time.Duration `yaml:"checkTimeout"`
		IdleTTL      time.Duration `yaml:"idleTTL"`
	} `yaml:"session"`

	Preferences struct {
		// Driver is one of memory, mysql, postgres, redis.
		Driver string `yaml:"driver"`
	} `yaml:"preferences"`

	Database struct {
		Host     string `yaml:"host"`
		Port     int    `yaml:"port"`
		User     string `yaml:"user"`
		Password string `yaml:"password"`
		Name     string `yaml:"name"`
		SSLMode  string `yaml:"sslMode"`
	} `yaml:"database"`

	Redis struct {
		URL    string `yaml:"url"`
		Prefix string `yaml:"prefix"`
	} `yaml:"redis"`

	Minio struct {
		Endpoint   string        `yaml:"endpoint"`
		AccessKey  string        `yaml:"accessKey"`
		SecretKey  string        `yaml:"secretKey"`
		BucketName string        `yaml:"bucketName"`
		Region     string        `yaml:"region"`
		UseSSL     bool          `yaml:"useSSL"`
		LinkTTL    time.Duration `yaml:"linkTTL"`
	} `yaml:"minio"`

	OpenAI struct {
		APIKey string `yaml:"apiKey"`
		Model  string `yaml:"model"`
	} `yaml:"openai"`

	RateLimit struct {
		Capacity   int `yaml:"capacity"`
		RefillRate int `yaml:"refillRate"`
	} `yaml:"rateLimit"`

	Log struct {
		Level string `yaml:"level"`
	} `yaml:"log"`
}

// Load baca file config.yaml. File yang tidak ada bukan error: default dipakai.
func Load(path string) (*Config, error) {
	var cfg Config
	// set before unmarshal: an explicit "timeout: 0" turns the limit off
	cfg.Backend.Timeout = DefaultBackendTimeout
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	case os.IsNotExist(err):
	default:
		return nil, err
	}
	cfg.applyEnv()
	cfg.applyDefaults()
	return &cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("SESSION_SECRET"); v != "" {
		c.Session.Secret = v
	}
	if v := os.Getenv("OPENAI_API_KEY"); v != "" {
		c.OpenAI.APIKey = v
	}
	if v := os.Getenv("MINIO_SECRET_KEY"); v != "" {
		c.Minio.SecretKey = v
	}
	if v := os.Getenv("BACKEND_BASE_URL"); v != "" {
		c.Backend.BaseURL = v
	}
	if v := os.Getenv("CORS_ORIGINS"); v != "" {
		c.Server.CORSOrigins = strings.Split(v, ",")
	}
	if v := os.Getenv("TRUSTED_PROXY_COUNT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			c.Server.TrustedProxyCount = n
		}
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
}

func (c *Config) applyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 3000
	}
	if c.Server.MaxBodyBytes == 0 {
		c.Server.MaxBodyBytes = 1 << 20
	}
	if c.Backend.ProductionURL == "" {
		c.Backend.ProductionURL = "https://158.69.62.72"
	}
	if c.Backend.DevPort == 0 {
		c.Backend.DevPort = 8000
	}
	if c.Session.CookieName == "" {
		c.Session.CookieName = "fisichecker"
	}
	if c.Session.MaxAge == 0 {
		c.Session.MaxAge = 7 * 24 * 3600
	}
	if c.Session.CheckTimeout == 0 {
		c.Session.CheckTimeout = 5 * time.Second
	}
	if c.Session.IdleTTL == 0 {
		c.Session.IdleTTL = 12 * time.Hour
	}
	if c.Preferences.Driver == "" {
		c.Preferences.Driver = "memory"
	}
	c.Preferences.Driver = strings.ToLower(c.Preferences.Driver)
	if c.Redis.Prefix == "" {
		c.Redis.Prefix = "fisichecker:prefs:"
	}
	if c.Minio.LinkTTL == 0 {
		c.Minio.LinkTTL = 24 * time.Hour
	}
	if c.RateLimit.Capacity == 0 {
		c.RateLimit.Capacity = 10
	}
	if c.RateLimit.RefillRate == 0 {
		c.RateLimit.RefillRate = 1
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
}

// Validate checks combinations Load cannot default.
func (c *Config) Validate() error {
	switch c.Preferences.Driver {
	case "memory", "mysql", "postgres", "redis":
	default:
		return fmt.Errorf("unknown preferences driver %q", c.Preferences.Driver)
	}
	if c.Preferences.Driver == "redis" && c.Redis.URL == "" {
		return fmt.Errorf("redis.url is required for the redis preferences driver")
	}
	if (c.Preferences.Driver == "mysql" || c.Preferences.Driver == "postgres") && c.Database.Host == "" {
		return fmt.Errorf("database.host is required for the %s preferences driver", c.Preferences.Driver)
	}
	return nil
}

// MinioEnabled reports whether export archiving is configured.
func (c *Config) MinioEnabled() bool {
	return c.Minio.Endpoint != "" && c.Minio.BucketName != ""
}

// OpenAIEnabled reports whether AI summaries are configured.
func (c *Config) OpenAIEnabled() bool {
	return c.OpenAI.APIKey != ""
}

// Helper untuk build DSN MySQL
func (c *Config) MySQLDSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?parseTime=true&charset=utf8mb4&loc=UTC",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
	)
}

// PostgresDSN builds a lib/pq connection string.
func (c *Config) PostgresDSN() string {
	ssl := c.Database.SSLMode
	if ssl == "" {
		ssl = "disable"
	}
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.Name,
		ssl,
	)
}
