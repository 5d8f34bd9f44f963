// Package contentcache provides repository interface and types for caching
// fetched content endpoint responses
package contentcache

import (
	"context"
	"time"
)

//go:generate mockgen -destination=mock/mock_repository.go -package=contentcachemock github.com/KirkDiggler/rpg-loot/internal/repositories/contentcache Repository

// Entry is a cached response body
type Entry struct {
	// Locator the body was fetched from
	Locator string

	// Raw response body
	Body []byte

	// When the body was stored
	StoredAt time.Time
}

// GetInput contains parameters for reading a cached body
type GetInput struct {
	Locator string
}

// GetOutput contains the cached body
type GetOutput struct {
	Entry *Entry
}

// PutInput contains parameters for storing a body
type PutInput struct {
	Locator string
	Body    []byte
	TTL     time.Duration // How long the body should be kept
}

// PutOutput contains the result of storing a body
type PutOutput struct {
	Entry *Entry
}

// Repository defines the interface for content cache storage operations
type Repository interface {
	// Get returns the cached body for a locator, or a NotFound error
	Get(ctx context.Context, input GetInput) (*GetOutput, error)

	// Put stores a body under its locator with the given TTL
	Put(ctx context.Context, input PutInput) (*PutOutput, error)
}
