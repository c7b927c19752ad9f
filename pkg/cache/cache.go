// Package cache defines a key-value cache of discovery results. The
// durable copy of every cached value is a Discovery record, the cache
// only saves trips to Odoo and to the tracking database.
package cache

import (
	"context"
	"strings"
)

// KeyPrefix starts every key written by FBS.
const KeyPrefix = "fbs:discovery"

// Cache stores JSON-serializable values with an expiration time set by
// the implementation.
type Cache interface {
	// Get decodes a cached value into v. It returns false if the key is
	// absent or expired.
	Get(ctx context.Context, key string, v any) (bool, error)

	// Set stores a value.
	Set(ctx context.Context, key string, v any) error

	// Delete removes keys, absent keys are ignored.
	Delete(ctx context.Context, keys ...string) error

	// Close releases connections.
	Close() error
}

// Key builds a cache key of a discovery.
func Key(domain, kind, name string) string {
	return strings.Join([]string{KeyPrefix, domain, kind, name}, ":")
}
