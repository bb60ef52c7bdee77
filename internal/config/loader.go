package config

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Load builds a Config by layering defaults, optional file, and env.
// Order of precedence (low -> high):
//  1. defaults (New)
//  2. file (YAML) if CROSSOVER_CONFIG is set
//  3. env (prefix CROSSOVER_)
func Load(ctx context.Context) (*Config, error) {
	base := New()

	k := koanf.New(".")

	if path := os.Getenv("CROSSOVER_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
		}
	}

	// Env keys like CROSSOVER_SCAN_STEP_KM map to scan_step_km;
	// underscores are preserved to match the koanf tags.
	envProvider := env.Provider("CROSSOVER_", ".", func(s string) string {
		s = strings.ToLower(s)
		return strings.TrimPrefix(s, "crossover_")
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch {
	case c.Addr == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case c.WorkerCount < 1:
		return fmt.Errorf("%w: worker_count must be positive", ErrInvalidConfig)
	case c.QueueSize < 1:
		return fmt.Errorf("%w: queue_size must be positive", ErrInvalidConfig)
	case c.ScanStepKM <= 0:
		return fmt.Errorf("%w: scan_step_km must be positive", ErrInvalidConfig)
	case c.TimeToleranceSec < 2 || c.TimeToleranceSec > 5:
		return fmt.Errorf("%w: time_tolerance_sec must be within [2,5]", ErrInvalidConfig)
	case c.MinOverlapSec <= 0:
		return fmt.Errorf("%w: min_overlap_sec must be positive", ErrInvalidConfig)
	case c.TemporalBinThresholdMin <= 0:
		return fmt.Errorf("%w: temporal_bin_threshold_min must be positive", ErrInvalidConfig)
	case c.SpatialBinThresholdM <= 0:
		return fmt.Errorf("%w: spatial_bin_threshold_m must be positive", ErrInvalidConfig)
	}
	return nil
}
