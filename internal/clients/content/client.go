package content

import (
	"context"
	"encoding/json"

	"github.com/KirkDiggler/rpg-loot/internal/errors"
)

// Client reads the two JSON shapes served by the content endpoint
type Client interface {
	// ListDirectory returns the entries of a directory listing in listing order
	ListDirectory(ctx context.Context, locator string) ([]DirectoryEntry, error)

	// GetFile returns the envelope of a single description file
	GetFile(ctx context.Context, locator string) (*FileEnvelope, error)
}

// ClientConfig holds the dependencies for the content client
type ClientConfig struct {
	Fetcher Fetcher
}

// Validate ensures all required dependencies are provided
func (c *ClientConfig) Validate() error {
	vb := errors.NewValidationBuilder()

	if c.Fetcher == nil {
		vb.RequiredField("Fetcher")
	}

	return vb.Build()
}

type client struct {
	fetcher Fetcher
}

// NewClient creates a content client on top of a fetcher
func NewClient(cfg *ClientConfig) (Client, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config cannot be nil")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	return &client{fetcher: cfg.Fetcher}, nil
}

// Ensure client implements Client
var _ Client = (*client)(nil)

func (c *client) ListDirectory(ctx context.Context, locator string) ([]DirectoryEntry, error) {
	body, err := c.fetcher.Fetch(ctx, locator)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to fetch directory listing")
	}

	var entries []DirectoryEntry
	if err := json.Unmarshal(body, &entries); err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeProtocol, "directory listing is not a JSON array of entries").
			WithMeta("locator", locator)
	}

	for i, e := range entries {
		if e.Name == "" || e.URL == "" {
			return nil, errors.Protocolf("listing entry %d is missing name or url", i).
				WithMeta("locator", locator)
		}
	}

	return entries, nil
}

func (c *client) GetFile(ctx context.Context, locator string) (*FileEnvelope, error) {
	body, err := c.fetcher.Fetch(ctx, locator)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to fetch file")
	}

	var env FileEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeProtocol, "file response is not a JSON envelope").
			WithMeta("locator", locator)
	}
	if len(env.Content) == 0 || string(env.Content) == "null" {
		return nil, errors.Protocol("file envelope has no content field").
			WithMeta("locator", locator)
	}

	return &env, nil
}
