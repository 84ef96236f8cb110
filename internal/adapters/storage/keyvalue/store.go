package keyvalue

import "context"

// Store is local persistent key/value storage. Values are opaque strings;
// a missing key is reported through the boolean, not an error.
type Store interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}
