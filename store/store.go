// Package store persists MQTT property blocks in their wire form.
//
// A decoded property collection borrows its payload from the buffer it was
// parsed from, so the stores keep the encoded bytes and decode on the way
// out. MemoryStore is process local, PebbleStore is on disk and RedisStore
// is shared between processes.
package store

import (
	"context"
	"time"
)

// Block is one encoded property block: the length prefix followed by the
// properties, exactly as it appears on the wire.
type Block struct {
	Data     []byte    `cbor:"1,keyasint" msgpack:"d"`
	Count    int       `cbor:"2,keyasint" msgpack:"n"`
	StoredAt time.Time `cbor:"3,keyasint" msgpack:"t"`
}

// Store is a key-value store for values of type T.
type Store[T any] interface {
	Reader[T]
	Metrics

	// Save stores or replaces the value at key.
	Save(ctx context.Context, key string, value T) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	Close() error
}

type Reader[T any] interface {
	// Load returns the value at key, or ErrNotFound.
	Load(ctx context.Context, key string) (T, error)

	Exists(ctx context.Context, key string) (bool, error)

	// List returns every key in ascending order.
	List(ctx context.Context) ([]string, error)
}

// Metrics reports on the store contents.
type Metrics interface {
	Count(ctx context.Context) (int64, error)
}
