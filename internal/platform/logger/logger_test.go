package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"tomotrip/internal/platform/testkit"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]zerolog.Level{
		"trace":    zerolog.TraceLevel,
		" INFO ":   zerolog.InfoLevel,
		"warning":  zerolog.WarnLevel,
		"error":    zerolog.ErrorLevel,
		"":         zerolog.DebugLevel,
		"nonsense": zerolog.DebugLevel,
	}
	for in, want := range cases {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestNew_JSON(t *testing.T) {
	var buf bytes.Buffer
	l := New(Options{Level: "info", JSON: true, Service: "tomotrip-api", Writer: &buf})
	l.Debug().Msg("dropped")
	l.Info().Str("k", "v").Msg("kept")

	var line map[string]any
	if err := json.Unmarshal(buf.Bytes(), &line); err != nil {
		t.Fatalf("want one json line, got %q: %v", buf.String(), err)
	}
	if line["service"] != "tomotrip-api" || line["k"] != "v" || line["message"] != "kept" {
		t.Fatalf("line = %v", line)
	}
}

func TestNew_Console(t *testing.T) {
	var buf bytes.Buffer
	l := New(Options{Level: "debug", Writer: &buf})
	l.Info().Msg("hello")
	testkit.MustContain(t, buf.String(), "hello")
}

func TestFromEnv(t *testing.T) {
	t.Setenv("LOG_LEVEL", "warn")
	t.Setenv("LOG_FORMAT", "JSON")
	t.Setenv("LOG_SERVICE", "tomotrip-seed")
	t.Setenv("LOG_CALLER", "yes")
	t.Setenv("LOG_SAMPLE_EVERY", "5")

	want := Options{Level: "warn", JSON: true, Service: "tomotrip-seed", Caller: true, SampleEvery: 5}
	if got := FromEnv(); got != want {
		t.Fatalf("FromEnv = %+v", got)
	}
}

func TestRootChildren(t *testing.T) {
	var buf bytes.Buffer
	prev := Get()
	Init(Options{Level: "debug", JSON: true, Writer: &buf})
	t.Cleanup(func() {
		mu.Lock()
		root = prev
		mu.Unlock()
	})

	Named("http").Info().Msg("named")
	ctx := context.WithValue(context.Background(), chimw.RequestIDKey, "req-42")
	C(ctx).Info().Msg("scoped")
	C(context.Background()).Info().Msg("bare")

	out := buf.String()
	testkit.MustContain(t, out, `"component":"http"`)
	testkit.MustContain(t, out, `"request_id":"req-42"`)
	testkit.MustContain(t, out, "bare")
}
