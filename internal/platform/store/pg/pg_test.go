package pg

import (
	"context"
	"errors"
	"testing"
	"time"

	"tomotrip/internal/platform/testkit"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

func TestOpen_BadURL(t *testing.T) {
	if _, err := Open(context.Background(), Config{URL: "://bad"}, zerolog.Nop()); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestOpen_PoolConfig(t *testing.T) {
	testkit.Serial(t)

	var seen *pgxpool.Config
	testkit.Swap(t, &newPool, func(_ context.Context, c *pgxpool.Config) (*pgxpool.Pool, error) {
		seen = c
		return nil, errors.New("stop here")
	})

	cfg := Config{URL: "postgres://u:p@db:5432/tomotrip?sslmode=disable", MaxConns: 7, Slow: time.Second}
	if _, err := Open(context.Background(), cfg, zerolog.Nop()); err == nil {
		t.Fatal("expected pool error")
	}
	if seen == nil || seen.MaxConns != 7 {
		t.Fatalf("pool config = %+v", seen)
	}
	if _, ok := seen.ConnConfig.Tracer.(*Tracer); !ok {
		t.Fatalf("tracer not installed: %T", seen.ConnConfig.Tracer)
	}
}

func TestWaitReady(t *testing.T) {
	testkit.Serial(t)
	testkit.Swap(t, &backoffStart, time.Millisecond)
	testkit.Swap(t, &backoffMax, 2*time.Millisecond)
	testkit.Swap(t, &pingAttempts, 4)

	calls := 0
	err := waitReady(context.Background(), func(context.Context) error {
		calls++
		if calls < 3 {
			return errors.New("starting up")
		}
		return nil
	})
	if err != nil || calls != 3 {
		t.Fatalf("err = %v calls = %d", err, calls)
	}

	calls = 0
	err = waitReady(context.Background(), func(context.Context) error { calls++; return errors.New("down") })
	if err == nil || calls != 4 {
		t.Fatalf("err = %v calls = %d", err, calls)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := waitReady(ctx, func(context.Context) error { return errors.New("down") }); !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v", err)
	}
}
