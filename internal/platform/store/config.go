package store

import (
	"time"

	"jmnedict/internal/platform/config"
)

// Config aggregates per backend configuration
type Config struct {
	PG PGConfig
	CH CHConfig
}

// PGConfig configures postgres connectivity and tracing
type PGConfig struct {
	Enabled     bool
	URL         string
	MaxConns    int32
	LogSQL      bool
	SlowQueryMs int

	ConnectAttempts int           // default 20
	PingTimeout     time.Duration // default 3s
}

// CHConfig configures clickhouse connectivity
type CHConfig struct {
	Enabled    bool
	URL        string
	ClientName string
	ClientTag  string
}

// PGFromConfig reads DBURL, MAX_CONNS, SLOW_MS, LOG_SQL and CONNECT_ATTEMPTS
// from a SERVICE_PGSQL_ style prefix
func PGFromConfig(c config.Conf, enabled bool) PGConfig {
	if !enabled {
		return PGConfig{}
	}
	return PGConfig{
		Enabled:         true,
		URL:             c.MustString("DBURL"),
		MaxConns:        int32(c.MayPositiveInt("MAX_CONNS", 4)),
		SlowQueryMs:     c.MayInt("SLOW_MS", 500),
		LogSQL:          c.MayBool("LOG_SQL", false),
		ConnectAttempts: c.MayPositiveInt("CONNECT_ATTEMPTS", 20),
	}
}

// CHFromConfig reads DBURL from a SERVICE_CLICKHOUSE_ style prefix
func CHFromConfig(c config.Conf, enabled bool, role string) CHConfig {
	if !enabled {
		return CHConfig{}
	}
	return CHConfig{
		Enabled:    true,
		URL:        c.MustString("DBURL"),
		ClientName: "jmnedict",
		ClientTag:  role,
	}
}
