// Package config defines the lootctl configuration and its loader.
package config

import (
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/KirkDiggler/rpg-loot/internal/entities/loot"
	"github.com/KirkDiggler/rpg-loot/internal/errors"
	"github.com/KirkDiggler/rpg-loot/internal/pkg/logging"
)

const (
	// DefaultAssetsBaseURL is the content endpoint root of the game assets
	DefaultAssetsBaseURL = "https://api.github.com/repos/EvanMeek/veloren-wecw-assets/contents/"

	maxNestedDepth = 16
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// UserAgent is attached to every request.
	UserAgent string `koanf:"user_agent"`

	// HTTPTimeout bounds a single request.
	HTTPTimeout time.Duration `koanf:"http_timeout"`

	// AssetsBaseURL is where dotted asset paths and relative tier paths resolve.
	AssetsBaseURL string `koanf:"assets_base_url"`

	// AssetExtension is appended to asset locators.
	AssetExtension string `koanf:"asset_extension"`

	// Tiers in menu order.
	Tiers []Tier `koanf:"tiers"`

	// Concurrency bounds in-flight requests per tier. 1 is sequential.
	Concurrency int `koanf:"concurrency"`

	// Strict aborts a tier on its first failure.
	Strict bool `koanf:"strict"`

	// NestedDepth is how many levels of nested loot tables are expanded.
	NestedDepth int `koanf:"nested_depth"`

	Cache CacheConfig `koanf:"cache"`

	// MetricsFile receives Prometheus text output at exit when set.
	MetricsFile string `koanf:"metrics_file"`
}

// Tier is one configured dungeon tier. Path is resolved under
// AssetsBaseURL; Locator, when set, is used as is.
type Tier struct {
	ID      string `koanf:"id"`
	Label   string `koanf:"label"`
	Path    string `koanf:"path"`
	Locator string `koanf:"locator"`
}

// CacheConfig configures the optional Redis content cache.
type CacheConfig struct {
	Enabled   bool          `koanf:"enabled"`
	RedisAddr string        `koanf:"redis_addr"`
	TTL       time.Duration `koanf:"ttl"`
}

// New returns a Config holding the defaults.
func New() *Config {
	return &Config{
		LogLevel:       "info",
		UserAgent:      "rpg-loot",
		HTTPTimeout:    30 * time.Second,
		AssetsBaseURL:  DefaultAssetsBaseURL,
		AssetExtension: ".ron",
		Tiers:          DefaultTiers(),
		Concurrency:    1,
		NestedDepth:    0,
		Cache: CacheConfig{
			RedisAddr: "localhost:6379",
			TTL:       time.Hour,
		},
	}
}

// DefaultTiers returns the six dungeon tiers plus the wild bosses.
func DefaultTiers() []Tier {
	return []Tier{
		{ID: "tier-0", Label: "T1", Path: "common/loot_tables/dungeon/tier-0"},
		{ID: "tier-1", Label: "T2", Path: "common/loot_tables/dungeon/tier-1"},
		{ID: "tier-2", Label: "T3", Path: "common/loot_tables/dungeon/tier-2"},
		{ID: "tier-3", Label: "T4", Path: "common/loot_tables/dungeon/tier-3"},
		{ID: "tier-4", Label: "T5", Path: "common/loot_tables/dungeon/tier-4"},
		{ID: "tier-5", Label: "T6", Path: "common/loot_tables/dungeon/tier-5"},
		{ID: "wildboss", Label: "WildBoss", Path: "common/loot_tables/dungeon/wildboss"},
	}
}

// Validate checks the configuration as a whole.
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()

	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		vb.InvalidField("log_level", err.Error())
	}
	if c.HTTPTimeout < 0 {
		vb.InvalidField("http_timeout", "must not be negative")
	}
	if u, err := url.Parse(c.AssetsBaseURL); err != nil || !u.IsAbs() {
		vb.InvalidField("assets_base_url", "must be an absolute URL")
	}
	if c.Concurrency <= 0 {
		vb.InvalidField("concurrency", "must be positive")
	}
	errors.ValidateRange("nested_depth", c.NestedDepth, 0, maxNestedDepth, vb)

	if len(c.Tiers) == 0 {
		vb.RequiredField("tiers")
	}
	ids := make([]string, 0, len(c.Tiers))
	for _, t := range c.Tiers {
		if strings.TrimSpace(t.ID) == "" {
			vb.Field("tiers", "every tier needs an id")
			continue
		}
		if t.Path == "" && t.Locator == "" {
			vb.Fieldf("tiers", "tier %s needs a path or a locator", t.ID)
		}
		ids = append(ids, t.ID)
	}
	errors.ValidateUnique("tiers", ids, vb)

	if c.Cache.Enabled {
		errors.ValidateRequired("cache.redis_addr", c.Cache.RedisAddr, vb)
		if c.Cache.TTL < 0 {
			vb.InvalidField("cache.ttl", "must not be negative")
		}
	}

	return vb.Build()
}

// ResolvedTiers returns the tiers with absolute locators, in menu order.
func (c *Config) ResolvedTiers() []loot.Tier {
	out := make([]loot.Tier, 0, len(c.Tiers))
	for _, t := range c.Tiers {
		locator := t.Locator
		if locator == "" {
			locator = strings.TrimSuffix(c.AssetsBaseURL, "/") + "/" + strings.TrimPrefix(t.Path, "/")
		}
		label := t.Label
		if label == "" {
			label = t.ID
		}
		out = append(out, loot.Tier{ID: t.ID, Label: label, Locator: locator})
	}
	return out
}

// FindTier looks a tier up by id, label (case-insensitive) or 1-based menu
// number.
func (c *Config) FindTier(key string) (loot.Tier, error) {
	tiers := c.ResolvedTiers()
	key = strings.TrimSpace(key)

	for i, t := range tiers {
		if strings.EqualFold(t.ID, key) || strings.EqualFold(t.Label, key) || key == strconv.Itoa(i+1) {
			return t, nil
		}
	}
	return loot.Tier{}, errors.NotFoundf("unknown tier %q", key)
}
