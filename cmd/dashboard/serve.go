package main

import (
	"context"
	"crypto/rand"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/bryanwahyu/fisichecker/internal/application"
	appai "github.com/bryanwahyu/fisichecker/internal/application/ai"
	appaudits "github.com/bryanwahyu/fisichecker/internal/application/audits"
	"github.com/bryanwahyu/fisichecker/internal/application/auth"
	appexports "github.com/bryanwahyu/fisichecker/internal/application/exports"
	"github.com/bryanwahyu/fisichecker/internal/application/preferences"
	appstats "github.com/bryanwahyu/fisichecker/internal/application/statistics"
	"github.com/bryanwahyu/fisichecker/internal/config"
	"github.com/bryanwahyu/fisichecker/internal/domain/session"
	"github.com/bryanwahyu/fisichecker/internal/infra/ai/openai"
	"github.com/bryanwahyu/fisichecker/internal/infra/backend"
	"github.com/bryanwahyu/fisichecker/internal/infra/cache/rediscache"
	mysqlp "github.com/bryanwahyu/fisichecker/internal/infra/db/mysql"
	"github.com/bryanwahyu/fisichecker/internal/infra/db/postgres"
	"github.com/bryanwahyu/fisichecker/internal/infra/httpserver"
	"github.com/bryanwahyu/fisichecker/internal/infra/markdown"
	"github.com/bryanwahyu/fisichecker/internal/infra/memory"
	minioStore "github.com/bryanwahyu/fisichecker/internal/infra/storage"
	"github.com/bryanwahyu/fisichecker/internal/logging"
	"github.com/bryanwahyu/fisichecker/internal/middleware"
)

const sweepEvery = 10 * time.Minute

func loadConfig(path string) (*config.Config, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("config load: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

// openSQL connects the configured SQL preference store. db is nil for the
// memory and redis drivers.
func openSQL(ctx context.Context, cfg *config.Config) (*sql.DB, error) {
	switch cfg.Preferences.Driver {
	case "mysql":
		return mysqlp.Connect(ctx, cfg.MySQLDSN())
	case "postgres":
		return postgres.Connect(ctx, cfg.PostgresDSN())
	}
	return nil, nil
}

func runMigrations(ctx context.Context, driver string, db *sql.DB) (int, error) {
	if driver == "postgres" {
		return postgres.Migrate(ctx, db)
	}
	return mysqlp.Migrate(ctx, db)
}

// openPreferences returns the preference repository for cfg and a func
// releasing its connection.
func openPreferences(ctx context.Context, cfg *config.Config) (session.PreferenceRepository, func(), error) {
	switch cfg.Preferences.Driver {
	case "mysql", "postgres":
		db, err := openSQL(ctx, cfg)
		if err != nil {
			return nil, nil, fmt.Errorf("%s connect: %w", cfg.Preferences.Driver, err)
		}
		n, err := runMigrations(ctx, cfg.Preferences.Driver, db)
		if err != nil {
			db.Close()
			return nil, nil, fmt.Errorf("migrate: %w", err)
		}
		if n > 0 {
			slog.Info("migrations applied", "driver", cfg.Preferences.Driver, "count", n)
		}
		closer := func() { db.Close() }
		if cfg.Preferences.Driver == "postgres" {
			return postgres.NewPreferenceRepository(db), closer, nil
		}
		return mysqlp.NewPreferenceRepository(db), closer, nil
	case "redis":
		client, err := rediscache.Connect(ctx, cfg.Redis.URL)
		if err != nil {
			return nil, nil, fmt.Errorf("redis connect: %w", err)
		}
		ttl := time.Duration(cfg.Session.MaxAge) * time.Second
		return rediscache.NewPreferenceRepository(client, cfg.Redis.Prefix, ttl), func() { client.Close() }, nil
	}
	return memory.NewPreferenceRepository(), func() {}, nil
}

func migrate(ctx context.Context, configPath string) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	logging.Init(cfg.Log.Level, os.Stdout)

	db, err := openSQL(ctx, cfg)
	if err != nil {
		return fmt.Errorf("%s connect: %w", cfg.Preferences.Driver, err)
	}
	if db == nil {
		slog.Info("nothing to migrate", "driver", cfg.Preferences.Driver)
		return nil
	}
	defer db.Close()

	n, err := runMigrations(ctx, cfg.Preferences.Driver, db)
	if err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	slog.Info("migrations applied", "driver", cfg.Preferences.Driver, "count", n)
	return nil
}

// writeTimeout leaves room for an audit that runs as long as the backend
// timeout. Without a backend timeout writes are not limited either.
func writeTimeout(backendTimeout time.Duration) time.Duration {
	if backendTimeout <= 0 {
		return 0
	}
	return backendTimeout + 15*time.Second
}

func serve(ctx context.Context, configPath string) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	logging.Init(cfg.Log.Level, os.Stdout)

	secret := []byte(cfg.Session.Secret)
	if len(secret) == 0 {
		secret = make([]byte, 32)
		if _, err := rand.Read(secret); err != nil {
			return err
		}
		slog.Warn("session.secret not set, sessions will not survive a restart")
	}

	prefsRepo, closePrefs, err := openPreferences(ctx, cfg)
	if err != nil {
		return err
	}
	defer closePrefs()

	resolver := backend.Resolver{
		BaseURL:       cfg.Backend.BaseURL,
		ProductionURL: cfg.Backend.ProductionURL,
		DevPort:       cfg.Backend.DevPort,
	}

	var registry *auth.Registry
	metrics := middleware.NewMetrics(func() int { return registry.Len() })
	clientOpts := backend.Options{
		Timeout:     cfg.Backend.Timeout,
		InsecureTLS: cfg.Backend.InsecureTLS,
		Observer:    metrics.ObserveBackend,
	}
	registry = auth.NewRegistry(func(baseURL string) (auth.Client, error) {
		return backend.NewClient(baseURL, clientOpts)
	}, cfg.Session.IdleTTL, application.SystemClock{})

	health := map[string]middleware.HealthChecker{}
	prefsSvc := &preferences.Service{Repo: prefsRepo, Clock: application.SystemClock{}}
	health["preferences"] = middleware.CheckFunc(prefsSvc.Ping)

	ping, err := backend.NewClient(resolver.Resolve(""), backend.Options{
		Timeout:     5 * time.Second,
		InsecureTLS: cfg.Backend.InsecureTLS,
	})
	if err != nil {
		return fmt.Errorf("backend client: %w", err)
	}
	health["backend"] = middleware.CheckFunc(ping.Ping)

	exportsSvc := &appexports.Service{LinkTTL: cfg.Minio.LinkTTL, Clock: application.SystemClock{}}
	if cfg.MinioEnabled() {
		store, err := minioStore.New(ctx,
			cfg.Minio.Endpoint,
			cfg.Minio.Region,
			cfg.Minio.BucketName,
			cfg.Minio.AccessKey,
			cfg.Minio.SecretKey,
			cfg.Minio.UseSSL,
		)
		if err != nil {
			return fmt.Errorf("minio init: %w", err)
		}
		exportsSvc.Archive = store
		health["storage"] = middleware.CheckFunc(store.Ping)
	}

	md := markdown.New()
	var aiSvc *appai.Service
	if cfg.OpenAIEnabled() {
		aiSvc = appai.NewService(openai.NewClient(cfg.OpenAI.APIKey, cfg.OpenAI.Model), md)
	}

	limiter := middleware.NewRateLimiter(cfg.RateLimit.Capacity, cfg.RateLimit.RefillRate)

	handler, err := httpserver.NewRouter(httpserver.Options{
		Resolver:       resolver,
		Sessions:       registry,
		Audits:         &appaudits.Service{Observer: metrics.ObserveAudit},
		Statistics:     &appstats.Service{},
		Exports:        exportsSvc,
		Preferences:    prefsSvc,
		AI:             aiSvc,
		Markdown:       md,
		CookieStore:    httpserver.NewCookieStore(secret, cfg.Session.MaxAge, cfg.Session.Secure),
		CookieName:     cfg.Session.CookieName,
		CSRFSecret:     secret,
		CheckTimeout:   cfg.Session.CheckTimeout,
		MaxBodyBytes:   cfg.Server.MaxBodyBytes,
		CORSOrigins:    cfg.Server.CORSOrigins,
		TrustedProxies: cfg.Server.TrustedProxyCount,
		Limiter:        limiter,
		Metrics:        metrics,
		Health:         health,
		Ready:          middleware.CheckFunc(prefsSvc.Ping),
	})
	if err != nil {
		return fmt.Errorf("router: %w", err)
	}

	bgCtx, cancelBg := context.WithCancel(ctx)
	defer cancelBg()
	go registry.Run(bgCtx, sweepEvery)
	go limiter.Run(bgCtx)

	mux := chi.NewRouter()
	mux.Mount("/", handler)

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      writeTimeout(cfg.Backend.Timeout),
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server listening", "addr", addr, "backend", resolver.Resolve(""),
			"preferences", cfg.Preferences.Driver, "archive", cfg.MinioEnabled(), "ai", cfg.OpenAIEnabled())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	// graceful shutdown
	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}
	slog.Info("shutting down server...")

	ctx2, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx2); err != nil {
		slog.Error("shutdown error", "error", err)
	}
	return nil
}
