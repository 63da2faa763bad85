package cache

import (
	"context"
	"time"
)

// Cache is the key-value contract the import wizard persists its progress through.
// Values are JSON encoded by the implementation.
type Cache interface {
	// Get loads key into dest.
	// found = false on a miss, dest is left untouched.
	// A value that cannot be decoded into dest is returned as an error with found = true.
	Get(ctx context.Context, key string, dest interface{}) (bool, error)

	// Set stores value under key with the given TTL (0 = no expiry).
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error

	// Delete removes keys; missing keys are ignored.
	Delete(ctx context.Context, keys ...string) error

	// SetNX stores value only when key is absent and reports whether it did.
	SetNX(ctx context.Context, key string, value interface{}, ttl time.Duration) (bool, error)

	// DeleteIfEqual removes key only while it still holds value.
	DeleteIfEqual(ctx context.Context, key string, value interface{}) (bool, error)

	Expire(ctx context.Context, key string, ttl time.Duration) error
	Ping(ctx context.Context) error
}
