// Command tomotrip-seed manages the guide catalog: schema, loading, offline filtering
// and the popular search report
package main

import (
	"context"
	"os"

	"tomotrip/internal/platform/config"
	"tomotrip/internal/platform/logger"
	"tomotrip/internal/platform/store"

	"github.com/joho/godotenv"
)

// openStore is a seam so tests can supply fake backends
var openStore = func(ctx context.Context) (*store.Store, error) {
	return store.Open(ctx, store.ConfigFromEnv(config.New(), "tomotrip-seed"), store.WithLogger(*logger.Get()))
}

func main() {
	_ = godotenv.Load()

	if err := newRootCmd(os.Stdout).Execute(); err != nil {
		logger.Get().Error().Err(err).Msg("seed failed")
		os.Exit(1)
	}
}
