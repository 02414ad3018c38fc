// Package cache stores rendered artifacts between CLI runs.
//
// Rendering a display graph through Graphviz is the only expensive step of a
// session, and toggling a group back and forth produces the same DOT source
// again. Artifacts are therefore cached under a key derived from the hash of
// the DOT source and the output format.
//
// # Backends
//
//   - [FileCache] stores one JSON entry per key below a directory, sharded by
//     the first two hex digits of the key hash.
//   - [NullCache] never stores anything and is used for --no-cache.
//
// # Keys
//
// A [Keyer] turns render inputs into keys. [ScopedKeyer] prefixes every key,
// which the CLI uses to keep artifacts of different releases apart.
package cache

import (
	"context"
	"time"
)

// TTLArtifact is how long rendered artifacts stay valid.
const TTLArtifact = 24 * time.Hour

// Cache is a byte store with per-entry expiry.
type Cache interface {
	// Get returns the stored value and true, or false on a miss. Expired and
	// unreadable entries count as misses.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A zero ttl never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases resources held by the cache.
	Close() error
}

// NullCache is a cache that never stores anything.
type NullCache struct{}

// NewNullCache creates a null cache.
func NewNullCache() Cache { return NullCache{} }

func (NullCache) Get(context.Context, string) ([]byte, bool, error)        { return nil, false, nil }
func (NullCache) Set(context.Context, string, []byte, time.Duration) error { return nil }
func (NullCache) Delete(context.Context, string) error                     { return nil }
func (NullCache) Close() error                                             { return nil }
