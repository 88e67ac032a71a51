// Package cache persists expensive downloads between runs. Values are
// gob-encoded blobs in a local SQLite database and expire after a
// configurable TTL, after which a lookup behaves like a miss.
package cache
