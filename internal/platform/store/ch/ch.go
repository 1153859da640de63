// Package ch provides a clickhouse client for append-only analytics tables
package ch

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"
)

// Config configures clickhouse client
type Config struct {
	URL string

	// Role and Tag are reported to the server as client info
	Role string
	Tag  string

	DialTimeout time.Duration // default 5s
	PingTimeout time.Duration // default 3s
}

// Rows is the minimal result set iteration for ch
type Rows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
	Close() error
	Columns() []string
}

// batch is the part of driver.Batch Insert needs
type batch interface {
	Append(v ...any) error
	Send() error
	Abort() error
}

// conn is the part of driver.Conn CH needs
type conn interface {
	Exec(ctx context.Context, query string, args ...any) error
	Query(ctx context.Context, query string, args ...any) (driver.Rows, error)
	Ping(ctx context.Context) error
	Close() error
}

// CH is a thin wrapper over a clickhouse-go native connection
type CH struct {
	conn    conn
	prepare func(ctx context.Context, query string) (batch, error)
}

var openConn = func(opts *clickhouse.Options) (driver.Conn, error) {
	return clickhouse.Open(opts)
}

// Open parses cfg.URL as a clickhouse DSN, connects, and pings once
func Open(ctx context.Context, cfg Config) (*CH, error) {
	if cfg.URL == "" {
		return nil, errors.New("ch: empty url")
	}
	opts, err := clickhouse.ParseDSN(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("ch: parse dsn: %w", err)
	}
	opts.ClientInfo = BuildClientInfo(cfg.Role, cfg.Tag)
	opts.DialTimeout = orDefault(cfg.DialTimeout, 5*time.Second)

	dc, err := openConn(opts)
	if err != nil {
		return nil, fmt.Errorf("ch: open: %w", err)
	}

	pctx, cancel := context.WithTimeout(ctx, orDefault(cfg.PingTimeout, 3*time.Second))
	defer cancel()
	if err := dc.Ping(pctx); err != nil {
		_ = dc.Close()
		return nil, fmt.Errorf("ch: ping: %w", err)
	}

	return &CH{
		conn: dc,
		prepare: func(ctx context.Context, q string) (batch, error) {
			return dc.PrepareBatch(ctx, q)
		},
	}, nil
}

// Insert appends rows to table in a single batch; each row is the column values in table order
func (c *CH) Insert(ctx context.Context, table string, rows [][]any) error {
	if len(rows) == 0 {
		return nil
	}
	b, err := c.prepare(ctx, "INSERT INTO "+table)
	if err != nil {
		return fmt.Errorf("ch: prepare %s: %w", table, err)
	}
	for i, r := range rows {
		if err := b.Append(r...); err != nil {
			_ = b.Abort()
			return fmt.Errorf("ch: append %s row %d: %w", table, i, err)
		}
	}
	if err := b.Send(); err != nil {
		return fmt.Errorf("ch: send %s: %w", table, err)
	}
	return nil
}

// Exec runs a statement that returns no rows, DDL included
func (c *CH) Exec(ctx context.Context, q string, args ...any) error {
	return c.conn.Exec(ctx, q, args...)
}

// Query runs a query and returns ch.Rows
func (c *CH) Query(ctx context.Context, q string, args ...any) (Rows, error) {
	r, err := c.conn.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	return r, nil
}

// Ping checks the server is reachable
func (c *CH) Ping(ctx context.Context) error { return c.conn.Ping(ctx) }

// Close closes resources
func (c *CH) Close() error {
	if c == nil || c.conn == nil {
		return nil
	}
	return c.conn.Close()
}

func orDefault(d, def time.Duration) time.Duration {
	if d <= 0 {
		return def
	}
	return d
}
