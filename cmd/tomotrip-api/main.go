// Command tomotrip-api serves the guide catalog search API
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"tomotrip/internal/core/guidefilter"
	"tomotrip/internal/modkit/httpkit"
	"tomotrip/internal/platform/config"
	"tomotrip/internal/platform/logger"
	"tomotrip/internal/platform/net/middleware"
	phttp "tomotrip/internal/platform/net/http"
	"tomotrip/internal/platform/store"

	"tomotrip/internal/services/api"
	guidesrepo "tomotrip/internal/services/api/guides/repo"
	guidessvc "tomotrip/internal/services/api/guides/service"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"
)

func main() {
	// .env is optional; real env wins
	_ = godotenv.Load()

	// service-scoped config for HTTP etc (CORE_API_*)
	root := config.New()
	apiCfg := root.Prefix("CORE_API_")
	guidesCfg := root.Prefix("GUIDES_")

	// bring up logging early
	l := logger.Get()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// open the platform store (postgres, clickhouse, redis as configured)
	st, err := store.Open(ctx, store.ConfigFromEnv(root, "tomotrip-api"), store.WithLogger(*l))
	if err != nil {
		l.Panic().Err(err).Msg("store.Open failed")
	}
	defer func() {
		if err := st.Close(context.Background()); err != nil {
			l.Error().Err(err).Msg("failed to close store")
		}
	}()

	// catalog source and analytics sink
	src, err := guidesrepo.Select(
		guidesCfg.MayEnum("SOURCE", "pg", "pg", "yaml"),
		guidesCfg.MayString("SEED_FILE", "seed/guides.yaml"),
		st.PG,
		st.KV,
		guidesCfg.MayDuration("CACHE_TTL", 10*time.Minute),
	)
	if err != nil {
		l.Panic().Err(err).Msg("catalog source")
	}
	events := guidesrepo.NewAsyncSink(
		guidesrepo.NewEventSink(st.CH),
		guidesCfg.MayInt("EVENT_QUEUE", 1024),
		guidesCfg.MayDuration("EVENT_TIMEOUT", 2*time.Second),
	)
	guides := guidessvc.New(src, events, guidessvc.Options{
		PerPage: guidesCfg.MayInt("PER_PAGE", guidefilter.DefaultPerPage),
	})

	// a failed first load serves 503 until the refresher succeeds
	if err := guides.Reload(ctx); err != nil {
		l.Warn().Err(err).Msg("initial catalog load failed")
	}

	// http server (reads CORE_API_PORT and the CORE_API_*_TIMEOUT keys)
	srv := phttp.NewServer(apiCfg)

	var limiter *middleware.IPRateLimiter
	if rps := apiCfg.MayFloat64("RATE_RPS", 0); rps > 0 {
		limiter = middleware.NewIPRateLimiter(rps, apiCfg.MayInt("RATE_BURST", 20))
	}

	// mount our API
	api.Mount(
		srv.Router(),
		api.Options{
			Config: apiCfg,
			Store:  st,
			Logger: l,
			Guides: guides,
			Stack: httpkit.StackOptions{
				CORSOrigins: apiCfg.MayCSV("CORS_ORIGINS", nil),
				Limiter:     limiter,
				SlowRequest: apiCfg.MayDuration("SLOW_REQUEST", time.Second),
			},
			EnableSwagger:  apiCfg.MayBool("SWAGGER", true),
			EnableProfiler: apiCfg.MayBool("PROFILER", false),
			EnableMetrics:  apiCfg.MayBool("METRICS", true),
		},
	)

	// run server, refresher and event writer until a signal or a fatal error
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return srv.Run(gctx) })
	g.Go(func() error { return events.Run(gctx) })
	g.Go(func() error { return guides.Run(gctx, guidesCfg.MayDuration("REFRESH_EVERY", 5*time.Minute)) })

	if err := g.Wait(); err != nil {
		l.Error().Err(err).Msg("api stopped")
		return
	}
	l.Info().Msg("api stopped")
}
