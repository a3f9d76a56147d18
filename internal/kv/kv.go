// Package kv provides the local string-keyed, string-valued cache used to keep
// the signed-in identity and per-user saved-city lists on the device.
package kv

import "context"

// Store is a local persistent key-value cache.
// Get reports ok=false for missing keys; Delete of a missing key is not an error.
type Store interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}
