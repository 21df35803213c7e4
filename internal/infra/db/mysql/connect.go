package mysql

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	driver "github.com/go-sql-driver/mysql"

	"github.com/bryanwahyu/fisichecker/internal/infra/db"
)

// Connect opens a pool for dsn and waits until the server answers. parseTime
// is forced on since updated_at scans into time.Time.
func Connect(ctx context.Context, dsn string) (*sql.DB, error) {
	cfg, err := driver.ParseDSN(dsn)
	if err != nil {
		return nil, fmt.Errorf("mysql dsn: %w", err)
	}
	cfg.ParseTime = true
	connector, err := driver.NewConnector(cfg)
	if err != nil {
		return nil, err
	}
	conn := sql.OpenDB(connector)
	conn.SetMaxOpenConns(10)
	conn.SetMaxIdleConns(5)
	conn.SetConnMaxLifetime(30 * time.Minute)

	// database container bisa belum siap waktu startup
	if err := db.WaitReady(ctx, conn, db.StartupBackoff()); err != nil {
		conn.Close()
		return nil, fmt.Errorf("mysql ping %s@%s: %w", cfg.DBName, cfg.Addr, err)
	}
	return conn, nil
}
