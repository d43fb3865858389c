package module

import (
	"time"

	"jmnedict/internal/adapters/source"
	"jmnedict/internal/core/codec"
	"jmnedict/internal/core/freshness"
	"jmnedict/internal/platform/config"
)

// DefaultOutDir is where artifacts land when CORE_FETCH_OUT_DIR is unset
const DefaultOutDir = "./build/resources/jmnedict"

// Options holds configuration options for the fetch service
type Options struct {
	URL         string
	OutDir      string
	Codec       codec.Codec
	Freshness   time.Duration
	HTTPTimeout time.Duration
	RunTimeout  time.Duration
}

// FromConfig reads the fetch options from config with CORE_FETCH_ prefix
func FromConfig(cfg config.Conf) Options {
	fc := cfg.Prefix("CORE_FETCH_")
	c, err := codec.Parse(fc.MayEnum("CODEC", "zstd", "zstd", "gzip"))
	if err != nil {
		// MayEnum already restricted the value
		c = codec.Zstd
	}
	return Options{
		URL:         fc.MayURL("SOURCE_URL", source.DefaultURL, "http", "https", "ftp", "file").String(),
		OutDir:      fc.MayString("OUT_DIR", DefaultOutDir),
		Codec:       c,
		Freshness:   fc.MayDuration("FRESHNESS", freshness.DefaultThreshold),
		HTTPTimeout: fc.MayDuration("HTTP_TIMEOUT", 0), // 0 == no client timeout
		RunTimeout:  fc.MayDuration("RUN_TIMEOUT", 0),
	}
}
