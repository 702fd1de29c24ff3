// Package cache provides pluggable response caching for registry clients.
//
// Two backends are included:
//   - FileCache: file-based storage for CLI usage (XDG cache dir)
//   - NullCache: no-op backend for tests or --no-cache runs
//
// Keys are hashed with SHA-256 before hitting the filesystem, so arbitrary
// strings (URLs, repo refs) are safe cache keys.
package cache

import (
	"context"
	"time"
)

// Cache is the interface for cache backends.
type Cache interface {
	// Get retrieves a value by key. The second return value reports whether
	// the key was present and unexpired.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value under key. A ttl of 0 means the entry never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value from the cache.
	Delete(ctx context.Context, key string) error

	// Close releases any resources held by the backend.
	Close() error
}
