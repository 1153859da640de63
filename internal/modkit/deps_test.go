package modkit

import (
	"bytes"
	"strings"
	"testing"

	"tomotrip/internal/platform/config"
	"tomotrip/internal/platform/store"

	"github.com/rs/zerolog"
)

func TestNewDeps(t *testing.T) {
	st := &store.Store{}
	d := NewDeps(config.New(), st)
	if d.Store != st {
		t.Fatal("store not kept")
	}
}

func TestDeps_Named(t *testing.T) {
	var buf bytes.Buffer
	d := Deps{Log: zerolog.New(&buf)}
	log := d.Named("guides")
	log.Info().Msg("mounted")
	if !strings.Contains(buf.String(), `"module":"guides"`) {
		t.Fatalf("log = %s", buf.String())
	}
}
