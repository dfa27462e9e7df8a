package config

import "trackmatch/internal/matching"

const (
	defaultConfigPath       = "~/.config/trackmatch/config.toml"
	projectConfigName       = "trackmatch.toml"
	defaultDataDir          = "~/.local/share/trackmatch"
	defaultLogDir           = "~/.local/share/trackmatch/logs"
	defaultReviewDBName     = "review.db"
	defaultLockName         = "batch.lock"
	defaultSearchLimit      = 25
	defaultBatchWorkers     = 4
	maxBatchWorkers         = 64
	defaultLogFormat        = "console"
	defaultLogLevel         = "info"
	defaultLogMaxSizeMB     = 10
	defaultLogMaxBackups    = 3
	defaultLogMaxAgeDays    = 28
	defaultReviewEnabled    = true
	defaultIdentifierWeight = 0
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir: defaultDataDir,
			LogDir:  defaultLogDir,
		},
		Matching: Matching{
			Weights:          matching.DefaultWeights(),
			IdentifierWeight: defaultIdentifierWeight,
			SearchLimit:      defaultSearchLimit,
		},
		Review: Review{
			Enabled: defaultReviewEnabled,
		},
		Batch: Batch{
			Workers: defaultBatchWorkers,
		},
		Logging: Logging{
			Format:     defaultLogFormat,
			Level:      defaultLogLevel,
			MaxSizeMB:  defaultLogMaxSizeMB,
			MaxBackups: defaultLogMaxBackups,
			MaxAgeDays: defaultLogMaxAgeDays,
		},
	}
}
