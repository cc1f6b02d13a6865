// Package database owns the PostgreSQL pool. The pool is opened through
// pgx's database/sql adapter and verified by a ping during startup.
package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"

	"github.com/halalcheck/halalcheck/pkg/lifecycle"
)

// ErrNotReady is returned by Check before the startup ping succeeds and
// after shutdown begins.
var ErrNotReady = errors.New("database not ready")

type System interface {
	Connection() *sql.DB
	// Start pings the database on startup and closes the pool on shutdown.
	Start(lc *lifecycle.Coordinator) error
	// Check backs the readiness probe.
	Check(ctx context.Context) error
}

type database struct {
	conn    *sql.DB
	logger  *slog.Logger
	timeout time.Duration
	ready   atomic.Bool
}

// New parses the connection string and sizes the pool. No connection is
// made until Start.
func New(cfg *Config, logger *slog.Logger) (System, error) {
	connCfg, err := pgx.ParseConfig(cfg.ConnString())
	if err != nil {
		return nil, fmt.Errorf("parse connection string: %w", err)
	}
	connCfg.ConnectTimeout = cfg.ConnTimeoutDuration()

	db := stdlib.OpenDB(*connCfg)
	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetimeDuration())

	return &database{
		conn:    db,
		logger:  logger.With("system", "database", "host", connCfg.Host, "database", connCfg.Database),
		timeout: cfg.ConnTimeoutDuration(),
	}, nil
}

func (d *database) Connection() *sql.DB {
	return d.conn
}

func (d *database) Start(lc *lifecycle.Coordinator) error {
	lc.OnStartup(func() {
		if err := d.ping(lc.Context()); err != nil {
			d.logger.Error("database unreachable", "error", err)
			return
		}
		d.ready.Store(true)
		d.logger.Info("database connected")
	})

	lc.OnShutdown(func() {
		<-lc.Context().Done()
		d.ready.Store(false)
		if err := d.conn.Close(); err != nil {
			d.logger.Error("close database", "error", err)
			return
		}
		d.logger.Info("database closed")
	})

	return nil
}

func (d *database) Check(ctx context.Context) error {
	if !d.ready.Load() {
		return ErrNotReady
	}
	if err := d.ping(ctx); err != nil {
		return fmt.Errorf("%w: %w", ErrNotReady, err)
	}
	return nil
}

func (d *database) ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()
	return d.conn.PingContext(ctx)
}
