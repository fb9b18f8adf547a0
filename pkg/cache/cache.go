// Package cache stores computed layouts and rendered artifacts.
//
// Layouts are keyed by the graph fingerprint plus a hash of the layout
// configuration, so edits that do not change geometry (renames, colors)
// still hit. Artifacts are keyed by a hash of the rendered scene plus the
// output options.
//
// Three backends are provided: [FileCache] for the CLI, [RedisCache] for
// the HTTP server, and [NullCache] when caching is disabled.
package cache

import (
	"context"
	"time"
)

// Cache is a byte-oriented key/value store with per-entry TTL.
//
// Get returns (nil, false, nil) on a miss. A zero TTL means no expiry.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Default TTLs for the pipeline.
const (
	LayoutTTL   = 7 * 24 * time.Hour
	ArtifactTTL = 24 * time.Hour
)
