package postgres

import (
	"context"
	"fmt"
	"sync"

	"ricemill-erp/config"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// Pool is the subset of pgxpool.Pool used by the repositories. Both the
// Gateway and pgxmock satisfy it.
type Pool interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Begin(ctx context.Context) (pgx.Tx, error)
}

// pooledConn is an established pool the gateway can hand out and close.
type pooledConn interface {
	Pool
	Ping(ctx context.Context) error
	Close()
}

type dialFunc func(ctx context.Context, cfg config.DatabaseConfig) (pooledConn, error)

// ConnectionError reports that the database could not be reached.
type ConnectionError struct {
	Addr string
	Err  error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("database unavailable at %s: %v", e.Addr, e.Err)
}

func (e *ConnectionError) Unwrap() error {
	return e.Err
}

// Gateway owns the process-wide connection pool. Connect is lazy and
// idempotent; a failed attempt is not remembered, so the next call dials again.
type Gateway struct {
	cfg  config.DatabaseConfig
	log  zerolog.Logger
	dial dialFunc

	mu   sync.Mutex
	conn pooledConn
}

// NewGateway creates an unconnected gateway.
func NewGateway(cfg config.DatabaseConfig, log zerolog.Logger) *Gateway {
	return &Gateway{cfg: cfg, log: log, dial: dialPool}
}

// Connect establishes the pool on first use and reuses it afterwards.
func (g *Gateway) Connect(ctx context.Context) error {
	_, err := g.acquire(ctx)
	return err
}

func (g *Gateway) acquire(ctx context.Context) (pooledConn, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.conn != nil {
		return g.conn, nil
	}

	conn, err := g.dial(ctx, g.cfg)
	if err != nil {
		g.log.Warn().Err(err).
			Str("host", g.cfg.Host).
			Int("port", g.cfg.Port).
			Msg("PostgreSQL connection failed")
		return nil, &ConnectionError{Addr: fmt.Sprintf("%s:%d", g.cfg.Host, g.cfg.Port), Err: err}
	}

	g.log.Info().
		Str("host", g.cfg.Host).
		Int("port", g.cfg.Port).
		Str("dbname", g.cfg.DBName).
		Int32("max_conns", g.cfg.MaxConns).
		Msg("PostgreSQL connection pool established")

	g.conn = conn
	return conn, nil
}

// Close releases the pool. A later call to Connect dials again.
func (g *Gateway) Close() {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.conn != nil {
		g.conn.Close()
		g.conn = nil
	}
}

// Exec implements Pool.
func (g *Gateway) Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error) {
	conn, err := g.acquire(ctx)
	if err != nil {
		return pgconn.CommandTag{}, err
	}
	return conn.Exec(ctx, sql, arguments...)
}

// Query implements Pool.
func (g *Gateway) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	conn, err := g.acquire(ctx)
	if err != nil {
		return nil, err
	}
	return conn.Query(ctx, sql, args...)
}

// QueryRow implements Pool. A connection failure surfaces from Scan.
func (g *Gateway) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	conn, err := g.acquire(ctx)
	if err != nil {
		return errRow{err: err}
	}
	return conn.QueryRow(ctx, sql, args...)
}

// Begin implements Pool.
func (g *Gateway) Begin(ctx context.Context) (pgx.Tx, error) {
	conn, err := g.acquire(ctx)
	if err != nil {
		return nil, err
	}
	return conn.Begin(ctx)
}

// Ping connects if needed and checks the pool.
func (g *Gateway) Ping(ctx context.Context) error {
	conn, err := g.acquire(ctx)
	if err != nil {
		return err
	}
	return conn.Ping(ctx)
}

type errRow struct {
	err error
}

func (r errRow) Scan(...any) error {
	return r.err
}

// dialPool creates a pgx pool and verifies connectivity within the
// configured connect timeout.
func dialPool(ctx context.Context, cfg config.DatabaseConfig) (pooledConn, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("parsing database config: %w", err)
	}

	if cfg.MaxConns > 0 {
		poolCfg.MaxConns = cfg.MaxConns
	}
	poolCfg.MinConns = cfg.MinConns
	if cfg.ConnMaxLifetime > 0 {
		poolCfg.MaxConnLifetime = cfg.ConnMaxLifetime
	}
	if cfg.ConnectTimeout > 0 {
		poolCfg.ConnConfig.ConnectTimeout = cfg.ConnectTimeout
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("creating connection pool: %w", err)
	}

	pingCtx := ctx
	if cfg.ConnectTimeout > 0 {
		var cancel context.CancelFunc
		pingCtx, cancel = context.WithTimeout(ctx, cfg.ConnectTimeout)
		defer cancel()
	}
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	return pool, nil
}
