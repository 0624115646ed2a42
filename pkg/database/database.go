// Package database owns the PostgreSQL connection pool and reports its
// reachability to the lifecycle coordinator.
package database

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/fra-atlas/atlas/pkg/lifecycle"
)

const (
	firstRetry   = 250 * time.Millisecond
	maxRetry     = 2 * time.Second
	probeEvery   = 15 * time.Second
	probeTimeout = 3 * time.Second
)

// System manages database connections and lifecycle coordination.
type System interface {
	// Connection returns the underlying database connection pool.
	Connection() *sql.DB
	// Start registers startup and shutdown hooks with the lifecycle coordinator.
	Start(lc *lifecycle.Coordinator) error
}

type pool struct {
	db        *sql.DB
	logger    *slog.Logger
	timeout   time.Duration
	reachable atomic.Bool
}

// New opens a pool for cfg. No connection is made until Start runs.
func New(cfg *Config, logger *slog.Logger) (System, error) {
	db, err := sql.Open("pgx", cfg.Dsn())
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetimeDuration())

	return &pool{
		db:      db,
		logger:  logger.With("system", "database"),
		timeout: cfg.ConnTimeoutDuration(),
	}, nil
}

func (p *pool) Connection() *sql.DB {
	return p.db
}

// Start connects in the background, retrying until the connect timeout
// passes, then keeps probing so readiness follows the server.
func (p *pool) Start(lc *lifecycle.Coordinator) error {
	lc.Require("database", p.reachable.Load)

	lc.OnStartup(func() {
		ctx := lc.Context()
		if err := p.connect(ctx); err != nil {
			p.logger.Error("database unreachable", "error", err)
		} else {
			p.reachable.Store(true)
			p.logger.Info("database connection established")
		}
		go p.probe(ctx)
	})

	lc.OnShutdown(func() {
		<-lc.Context().Done()
		p.reachable.Store(false)

		if err := p.db.Close(); err != nil {
			p.logger.Error("database close failed", "error", err)
			return
		}
		p.logger.Info("database connection closed")
	})

	return nil
}

func (p *pool) connect(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	wait := firstRetry
	for {
		err := p.db.PingContext(ctx)
		if err == nil {
			return nil
		}

		select {
		case <-ctx.Done():
			return fmt.Errorf("ping after %v: %w", p.timeout, err)
		case <-time.After(wait):
		}
		wait = min(wait*2, maxRetry)
	}
}

// probe pings on an interval and logs reachability transitions.
func (p *pool) probe(ctx context.Context) {
	ticker := time.NewTicker(probeEvery)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		pingCtx, cancel := context.WithTimeout(ctx, probeTimeout)
		err := p.db.PingContext(pingCtx)
		cancel()

		up := err == nil
		if p.reachable.Swap(up) == up {
			continue
		}
		if up {
			p.logger.Info("database reachable again")
		} else {
			p.logger.Warn("database lost", "error", err)
		}
	}
}
