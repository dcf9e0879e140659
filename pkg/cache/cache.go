// Package cache stores derived conversion artifacts keyed by content hash.
//
// Converting a large data graph is a full linear pass over a file that can
// be gigabytes in size, and experiment runs convert the same data graph for
// every query batch. The cache keeps the encoded target description (and its
// statistics) under a key derived from the SHA-256 of the source bytes, so a
// repeated conversion of unchanged input is a lookup plus one write.
//
// Three backends implement [Cache]:
//   - [FileCache]: entries as JSON files under the XDG cache directory (CLI default)
//   - [RedisCache]: a shared Redis instance, for several machines running experiments
//   - [NullCache]: caching disabled
//
// Keys are produced by a [Keyer]; [ScopedKeyer] adds a namespace prefix.
package cache

import (
	"context"
	"time"
)

// Cache is a byte-oriented key/value store with per-entry expiry.
//
// Get reports a miss with hit=false and a nil error; errors are reserved for
// backend failures. Implementations must be safe for concurrent use.
type Cache interface {
	Get(ctx context.Context, key string) (data []byte, hit bool, err error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// TTLs for cached artifacts. Entries are content-addressed, so expiry only
// bounds disk usage.
const (
	TTLTarget = 7 * 24 * time.Hour
	TTLStats  = 7 * 24 * time.Hour
)
