package http

import (
	"context"
	"io"
	"net"
	stdhttp "net/http"
	"testing"
	"time"

	"tomotrip/internal/platform/config"

	"github.com/go-chi/chi/v5"
)

func TestNewServer_Config(t *testing.T) {
	t.Setenv("SRVTEST_PORT", ":4555")
	t.Setenv("SRVTEST_READ_TIMEOUT", "3s")

	called := false
	s := NewServer(config.New().Prefix("SRVTEST_"), func(*chi.Mux) { called = true })
	if !called {
		t.Fatal("mux option not applied")
	}
	if s.Addr() != ":4555" || s.srv.ReadTimeout != 3*time.Second || s.srv.WriteTimeout != 45*time.Second {
		t.Fatalf("server = %+v", s.srv)
	}
}

func TestServer_ServeUntilCancel(t *testing.T) {
	s := NewServer(config.New().Prefix("SRVTEST_UNSET_"))
	s.Router().Get("/ping", Handle(func(*stdhttp.Request) (any, error) { return "pong", nil }))

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Serve(ctx, ln) }()

	resp, err := stdhttp.Get("http://" + ln.Addr().String() + "/ping")
	if err != nil {
		t.Fatal(err)
	}
	body, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	if resp.StatusCode != 200 || len(body) == 0 {
		t.Fatalf("ping: %d %s", resp.StatusCode, body)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Serve: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}
