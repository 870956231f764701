// Package cache provides a generic key-value cache with TTL support and two
// backends: an in-process Memory cache and a Redis-backed cache for sharing
// entries across processes.
//
// GetOrSet implements the read-through pattern with singleflight
// deduplication, which is how message tables are cached across controller
// instances without stampeding the component renderer.
package cache
