// Package names turns loot references into display names by fetching the
// description file an asset path points at.
package names

//go:generate mockgen -destination=mock/mock_resolver.go -package=namesmock github.com/KirkDiggler/rpg-loot/internal/services/names Resolver

import (
	"context"
	"log/slog"
	"regexp"
	"strings"

	"github.com/KirkDiggler/rpg-loot/internal/clients/content"
	"github.com/KirkDiggler/rpg-loot/internal/entities/loot"
	"github.com/KirkDiggler/rpg-loot/internal/errors"
	"github.com/KirkDiggler/rpg-loot/internal/pkg/metrics"
	"github.com/KirkDiggler/rpg-loot/internal/services/decoder"
)

const (
	// NothingLabel is shown for entries that award no reward
	NothingLabel = "Nothing"
	// NestedTablePlaceholder is shown for a nested table that is not expanded
	NestedTablePlaceholder = "(loot table)"

	defaultExtension = ".ron"
)

// firstQuoted matches the first double-quoted substring of a description
var firstQuoted = regexp.MustCompile(`"(.*?)"`)

// Resolver maps references to display names and fetches nested tables
type Resolver interface {
	// ResolveName returns the display name for a reference
	ResolveName(ctx context.Context, ref loot.Reference) (string, error)

	// FetchTable fetches and decodes the loot table stored at an asset path
	FetchTable(ctx context.Context, path string) (loot.Table, error)
}

// Config holds the dependencies for the resolver
type Config struct {
	Client content.Client
	// AssetsBaseURL is the locator that asset paths are resolved under
	AssetsBaseURL string
	// Extension appended to asset locators (optional, defaults to .ron)
	Extension string
	Metrics   *metrics.Manager
}

// Validate ensures all required dependencies are provided
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()

	if c.Client == nil {
		vb.RequiredField("Client")
	}
	errors.ValidateRequired("AssetsBaseURL", c.AssetsBaseURL, vb)

	return vb.Build()
}

type resolver struct {
	client    content.Client
	baseURL   string
	extension string
	metrics   *metrics.Manager
}

// NewResolver creates a name resolver
func NewResolver(cfg *Config) (Resolver, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config cannot be nil")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	ext := cfg.Extension
	if ext == "" {
		ext = defaultExtension
	}

	return &resolver{
		client:    cfg.Client,
		baseURL:   strings.TrimSuffix(cfg.AssetsBaseURL, "/") + "/",
		extension: ext,
		metrics:   cfg.Metrics,
	}, nil
}

// Ensure resolver implements Resolver
var _ Resolver = (*resolver)(nil)

// AssetLocator maps a dotted asset path onto the content endpoint:
// common.items.coin under base B becomes B/common/items/coin.ron
func AssetLocator(baseURL, path, extension string) string {
	return strings.TrimSuffix(baseURL, "/") + "/" + strings.ReplaceAll(path, ".", "/") + extension
}

// ExtractName returns the first double-quoted substring of text, unquoted
func ExtractName(text string) (string, error) {
	m := firstQuoted.FindStringSubmatch(text)
	if m == nil {
		return "", errors.NameNotFound("description has no quoted name")
	}
	return m[1], nil
}

func (r *resolver) ResolveName(ctx context.Context, ref loot.Reference) (string, error) {
	switch v := ref.(type) {
	case loot.Nothing:
		r.metrics.NameResolved(string(loot.VariantNothing))
		return NothingLabel, nil
	case loot.TableRef:
		r.metrics.NameResolved(string(loot.VariantLootTable))
		return NestedTablePlaceholder, nil
	case loot.Item:
		return r.describe(ctx, v.Path, loot.VariantItem)
	case loot.ItemQuantity:
		return r.describe(ctx, v.Path, loot.VariantItemQuantity)
	default:
		return "", errors.InvalidArgumentf("unknown reference %T", ref)
	}
}

func (r *resolver) describe(ctx context.Context, path string, variant loot.Variant) (string, error) {
	locator := r.locator(path)

	env, err := r.client.GetFile(ctx, locator)
	if err != nil {
		return "", errors.Resolutionf(err, "failed to fetch description of %s", path).
			WithMeta("path", path)
	}

	text, err := decoder.Payload(env)
	if err != nil {
		r.metrics.DecodeFailure()
		return "", errors.Resolutionf(err, "failed to decode description of %s", path).
			WithMeta("path", path)
	}

	name, err := ExtractName(text)
	if err != nil {
		return "", errors.Resolutionf(err, "failed to name %s", path).
			WithMeta("path", path)
	}

	slog.DebugContext(ctx, "resolved name",
		"path", path,
		"name", name)
	r.metrics.NameResolved(string(variant))

	return name, nil
}

func (r *resolver) FetchTable(ctx context.Context, path string) (loot.Table, error) {
	if path == "" {
		return loot.Table{}, errors.InvalidArgument("table path cannot be empty")
	}

	env, err := r.client.GetFile(ctx, r.locator(path))
	if err != nil {
		return loot.Table{}, errors.Resolutionf(err, "failed to fetch nested table %s", path).
			WithMeta("path", path)
	}

	table, err := decoder.Decode(env)
	if err != nil {
		r.metrics.DecodeFailure()
		return loot.Table{}, errors.Resolutionf(err, "failed to decode nested table %s", path).
			WithMeta("path", path)
	}

	return table, nil
}

func (r *resolver) locator(path string) string {
	return AssetLocator(r.baseURL, path, r.extension)
}
