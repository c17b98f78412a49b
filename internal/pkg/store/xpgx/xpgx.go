// Package xpgx glues squirrel statement builders to a pgx pool.
package xpgx

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/cenkalti/backoff/v4"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joytest-admin/joytest-data-sub000/internal/pkg/logger"
)

// DB is the subset of *pgxpool.Pool the statistics store reads through.
type DB interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Ping(ctx context.Context) error
	Close()
}

// Pool runs squirrel statements and scans rows into structs by `db` tags.
type Pool struct {
	db DB
}

func New(db DB) *Pool {
	return &Pool{db: db}
}

type Config struct {
	URL        string
	MaxConns   int32
	MinConns   int32
	Retries    uint64
	LogQueries bool
}

// Connect opens a pool and pings it, retrying with exponential backoff while
// the database is not reachable yet.
func Connect(ctx context.Context, cfg Config) (*Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}

	if cfg.MaxConns > 0 {
		poolCfg.MaxConns = cfg.MaxConns
	}
	if cfg.MinConns > 0 {
		poolCfg.MinConns = cfg.MinConns
	}
	if cfg.LogQueries {
		poolCfg.ConnConfig.Tracer = &QueryTracer{}
	}

	var pool *pgxpool.Pool
	err = backoff.Retry(
		func() error {
			p, connErr := pgxpool.NewWithConfig(ctx, poolCfg)
			if connErr != nil {
				return backoff.Permanent(fmt.Errorf("create connection pool: %w", connErr))
			}

			if pingErr := p.Ping(ctx); pingErr != nil {
				p.Close()
				logger.Warnf(ctx, "database not ready: %s", pingErr.Error())
				return fmt.Errorf("ping database: %w", pingErr)
			}

			pool = p
			return nil
		},
		backoff.WithContext(
			backoff.WithMaxRetries(backoff.NewExponentialBackOff(), cfg.Retries),
			ctx,
		),
	)
	if err != nil {
		return nil, err
	}

	return New(pool), nil
}

// Selectx runs the statement and scans every row into dest, a pointer to a slice.
func (p *Pool) Selectx(ctx context.Context, dest interface{}, query squirrel.Sqlizer) error {
	sql, args, err := query.ToSql()
	if err != nil {
		return fmt.Errorf("build query: %w", err)
	}

	return p.Select(ctx, dest, sql, args...)
}

// Select is Selectx for statements assembled by hand.
func (p *Pool) Select(ctx context.Context, dest interface{}, sql string, args ...interface{}) error {
	return pgxscan.Select(ctx, p.db, dest, sql, args...)
}

// Getx runs the statement and scans exactly one row into dest. NotFound
// reports the error returned when there is none.
func (p *Pool) Getx(ctx context.Context, dest interface{}, query squirrel.Sqlizer) error {
	sql, args, err := query.ToSql()
	if err != nil {
		return fmt.Errorf("build query: %w", err)
	}

	return pgxscan.Get(ctx, p.db, dest, sql, args...)
}

func NotFound(err error) bool {
	return pgxscan.NotFound(err)
}

func (p *Pool) Ping(ctx context.Context) error {
	return p.db.Ping(ctx)
}

func (p *Pool) Close() {
	p.db.Close()
}

// QueryTracer logs every statement at debug level.
type QueryTracer struct{}

type traceKey struct{}

type traceData struct {
	sql   string
	start time.Time
}

func (t *QueryTracer) TraceQueryStart(ctx context.Context, _ *pgx.Conn, data pgx.TraceQueryStartData) context.Context {
	return context.WithValue(ctx, traceKey{}, traceData{sql: data.SQL, start: time.Now()})
}

func (t *QueryTracer) TraceQueryEnd(ctx context.Context, _ *pgx.Conn, data pgx.TraceQueryEndData) {
	td, _ := ctx.Value(traceKey{}).(traceData)
	if data.Err != nil {
		logger.Errorf(ctx, "query failed after %s: %s: %s", time.Since(td.start), td.sql, data.Err.Error())
		return
	}
	logger.Debugf(ctx, "query took %s (%s): %s", time.Since(td.start), data.CommandTag.String(), td.sql)
}
