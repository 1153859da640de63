package store

import (
	"time"

	"tomotrip/internal/platform/config"
)

// Config aggregates per backend configuration
type Config struct {
	AppName string

	PG  PGConfig
	CH  CHConfig
	RDS RedisConfig
}

// PGConfig configures postgres connectivity and tracing
type PGConfig struct {
	Enabled     bool
	URL         string
	MaxConns    int32
	LogSQL      bool
	SlowQueryMs int
}

// CHConfig configures clickhouse connectivity
type CHConfig struct {
	Enabled     bool
	URL         string
	DialTimeout time.Duration
}

// RedisConfig configures redis connectivity
type RedisConfig struct {
	Enabled  bool
	Addr     string
	Password string
	DB       int
}

// ConfigFromEnv reads SERVICE_PGSQL_*, SERVICE_CLICKHOUSE_* and SERVICE_REDIS_* from root
// only enabled backends must carry a URL
func ConfigFromEnv(root config.Conf, app string) Config {
	pgCfg := root.Prefix("SERVICE_PGSQL_")
	chCfg := root.Prefix("SERVICE_CLICKHOUSE_")
	rdsCfg := root.Prefix("SERVICE_REDIS_")

	c := Config{AppName: app}

	c.PG.Enabled = pgCfg.MayBool("ENABLED", true)
	if c.PG.Enabled {
		c.PG.URL = pgCfg.MustString("DBURL")
		c.PG.MaxConns = int32(pgCfg.MayInt("MAX_CONNS", 4))
		c.PG.SlowQueryMs = pgCfg.MayInt("SLOW_MS", 500)
		c.PG.LogSQL = pgCfg.MayBool("LOG_SQL", false)
	}

	c.CH.Enabled = chCfg.MayBool("ENABLED", false)
	if c.CH.Enabled {
		c.CH.URL = chCfg.MustString("DBURL")
		c.CH.DialTimeout = chCfg.MayDuration("DIAL_TIMEOUT", 5*time.Second)
	}

	c.RDS.Enabled = rdsCfg.MayBool("ENABLED", false)
	if c.RDS.Enabled {
		c.RDS.Addr = rdsCfg.MayString("ADDR", "127.0.0.1:6379")
		c.RDS.Password = rdsCfg.MayString("PASSWORD", "")
		c.RDS.DB = rdsCfg.MayInt("DB", 0)
	}
	return c
}
