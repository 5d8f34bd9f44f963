package config

import (
	"context"
	"log/slog"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/KirkDiggler/rpg-loot/internal/errors"
)

const (
	envPrefix     = "LOOT_"
	envConfigFile = "LOOT_CONFIG"
)

// Load builds a Config by layering defaults, an optional YAML file and env
// vars. Order of precedence (low -> high):
//  1. defaults (New)
//  2. file at path, or at $LOOT_CONFIG when path is empty
//  3. env (prefix LOOT_, e.g. LOOT_CONCURRENCY, LOOT_CACHE_TTL)
func Load(ctx context.Context, path string) (*Config, error) {
	base := New()

	k := koanf.New(".")

	if path == "" {
		path = os.Getenv(envConfigFile)
	}
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, errors.WrapWithCode(err, errors.CodeInvalidArgument, "failed to load config file").
				WithMeta("path", path)
		}
	}

	envProvider := env.Provider(envPrefix, ".", envKey)
	if err := k.Load(envProvider, nil); err != nil {
		return nil, errors.Wrap(err, "failed to load config from environment")
	}

	cfg := *base
	// a configured tier list replaces the defaults instead of merging into them
	if k.Exists("tiers") {
		cfg.Tiers = nil
	}
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeInvalidArgument, "failed to decode config")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	slog.DebugContext(ctx, "loaded config",
		"file", path,
		"tiers", len(cfg.Tiers))

	return &cfg, nil
}

// envKey maps LOOT_NESTED_DEPTH to nested_depth and LOOT_CACHE_REDIS_ADDR to
// cache.redis_addr.
func envKey(s string) string {
	s = strings.ToLower(strings.TrimPrefix(s, envPrefix))
	if rest, ok := strings.CutPrefix(s, "cache_"); ok {
		return "cache." + rest
	}
	return s
}
