// Package cache stores rendered plot artifacts and filtered datasets so
// repeated CLI and server requests skip the draw step.
//
// # Backends
//
//   - [FileCache]: one JSON file per entry under a directory, for the CLI
//   - [RedisCache]: a shared cache for the HTTP server
//   - [NullCache]: caching disabled
//
// # Keys
//
// Keys are built by a [Keyer] from content hashes, never from file names,
// so editing a data file or a plot spec invalidates its entries:
//
//	k := cache.NewDefaultKeyer()
//	key := k.ArtifactKey(cache.Hash(data), cache.ArtifactKeyOpts{SpecHash: cache.Hash(spec), Format: "html"})
package cache

import (
	"context"
	"time"
)

// Default time-to-live values per entry kind.
const (
	TTLArtifact = 7 * 24 * time.Hour
	TTLFilter   = 24 * time.Hour
)

// Cache is a byte-oriented key/value store with expiry.
//
// Get reports a miss with ok == false and a nil error. A ttl of zero
// stores the entry without expiry.
type Cache interface {
	Get(ctx context.Context, key string) (data []byte, ok bool, err error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}
