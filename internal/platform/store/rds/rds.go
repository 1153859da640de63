// Package rds provides a small key/value client over go-redis
package rds

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrMiss is returned by Get when the key does not exist
var ErrMiss = errors.New("rds: miss")

// Config configures redis client
type Config struct {
	Addr     string
	Password string
	DB       int

	DialTimeout time.Duration // default 5s
	IOTimeout   time.Duration // read and write, default 3s
}

// RDS wraps a go-redis client
type RDS struct {
	c *redis.Client
}

// Open connects and pings once
func Open(ctx context.Context, cfg Config) (*RDS, error) {
	if cfg.Addr == "" {
		return nil, errors.New("rds: empty addr")
	}
	io := cfg.IOTimeout
	if io <= 0 {
		io = 3 * time.Second
	}
	dial := cfg.DialTimeout
	if dial <= 0 {
		dial = 5 * time.Second
	}
	c := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  dial,
		ReadTimeout:  io,
		WriteTimeout: io,
	})
	if err := c.Ping(ctx).Err(); err != nil {
		_ = c.Close()
		return nil, fmt.Errorf("rds: ping %s: %w", cfg.Addr, err)
	}
	return &RDS{c: c}, nil
}

// Get returns the raw value for key or ErrMiss
func (r *RDS) Get(ctx context.Context, key string) ([]byte, error) {
	b, err := r.c.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrMiss
	}
	return b, err
}

// Set stores value under key; ttl of zero keeps it forever
func (r *RDS) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return r.c.Set(ctx, key, value, ttl).Err()
}

// Del removes keys, missing keys are not an error
func (r *RDS) Del(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	return r.c.Del(ctx, keys...).Err()
}

// Ping checks the server is reachable
func (r *RDS) Ping(ctx context.Context) error { return r.c.Ping(ctx).Err() }

// Close closes the pool
func (r *RDS) Close() error {
	if r == nil || r.c == nil {
		return nil
	}
	return r.c.Close()
}
