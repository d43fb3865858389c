package module

import (
	"time"

	"jmnedict/internal/platform/config"
	"jmnedict/internal/services/load/domain"
	"jmnedict/internal/services/load/service"
	"jmnedict/pkg/jmnedict"
)

// DefaultArtifactDir matches the fetch command's default output
const DefaultArtifactDir = "./build/resources/jmnedict"

// Options holds configuration options for the load service
type Options struct {
	Target      domain.Target
	ArtifactDir string
	DecodeBatch int
	WriteBatch  int
	RunTimeout  time.Duration
}

// FromConfig reads CORE_LOAD_*, CORE_FETCH_OUT_DIR and CORE_DECODE_BATCH_SIZE
func FromConfig(cfg config.Conf) Options {
	lc := cfg.Prefix("CORE_LOAD_")
	return Options{
		Target:      domain.Target(lc.MayEnum("TARGET", string(domain.TargetPG), string(domain.TargetPG), string(domain.TargetCH))),
		ArtifactDir: cfg.Prefix("CORE_FETCH_").MayString("OUT_DIR", DefaultArtifactDir),
		DecodeBatch: cfg.Prefix("CORE_DECODE_").MayPositiveInt("BATCH_SIZE", jmnedict.DefaultBatchSize),
		WriteBatch:  lc.MayPositiveInt("BATCH_ROWS", service.DefaultWriteBatch),
		RunTimeout:  lc.MayDuration("RUN_TIMEOUT", 0),
	}
}
