package store

import (
	"time"

	"dncsweep/internal/platform/config"
)

// Config aggregates per backend configuration
type Config struct {
	AppName string

	PG PGConfig
}

// PGConfig configures postgres connectivity and tracing
type PGConfig struct {
	Enabled     bool
	URL         string
	MaxConns    int32
	LogSQL      bool
	SlowQueryMs int

	// Guard/boot knobs:
	ConnectRetries int           // default 20
	PingTimeout    time.Duration // default 3s
}

// FromConf reads the SERVICE_PGSQL_ namespace into a Config
func FromConf(cfg config.Conf, appName string) Config {
	pg := cfg.Prefix("SERVICE_PGSQL_")
	return Config{
		AppName: appName,
		PG: PGConfig{
			Enabled:     pg.MayBool("ENABLED", true),
			URL:         pg.MustString("URL"),
			MaxConns:    int32(pg.MayInt("MAX_CONNS", 8)),
			LogSQL:      pg.MayBool("LOG_SQL", false),
			SlowQueryMs: pg.MayInt("SLOW_MS", 250),
		},
	}
}
