package store

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/cockroachdb/pebble"
)

// PebbleStore keeps values in a Pebble database under a key prefix, encoded
// with the configured Codec.
type PebbleStore[T any] struct {
	db     *pebble.DB
	mu     sync.RWMutex
	closed bool
	prefix []byte
	upper  []byte
	codec  Codec
	wo     *pebble.WriteOptions
}

// PebbleStoreConfig configures the Pebble store
type PebbleStoreConfig struct {
	Path   string
	Prefix string // Key prefix, so several stores can share one database
	Codec  Codec  // Defaults to CBOR
	NoSync bool   // Skip fsync on every write
	Opts   *pebble.Options
}

// DefaultPebbleStoreConfig returns a config for a database at path.
func DefaultPebbleStoreConfig(path string) PebbleStoreConfig {
	return PebbleStoreConfig{
		Path:   path,
		Prefix: "props:",
		Codec:  CBOR{},
	}
}

func NewPebbleStore[T any](config PebbleStoreConfig) (*PebbleStore[T], error) {
	opts := config.Opts
	if opts == nil {
		opts = &pebble.Options{}
	}

	db, err := pebble.Open(config.Path, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open pebble at %s: %w", config.Path, err)
	}

	prefix := []byte(config.Prefix)
	if len(prefix) == 0 {
		prefix = []byte("props:")
	}

	codec := config.Codec
	if codec == nil {
		codec = CBOR{}
	}

	wo := pebble.Sync
	if config.NoSync {
		wo = pebble.NoSync
	}

	return &PebbleStore[T]{
		db:     db,
		prefix: prefix,
		upper:  prefixUpperBound(prefix),
		codec:  codec,
		wo:     wo,
	}, nil
}

// prefixUpperBound returns the smallest key greater than every key starting
// with prefix, or nil when there is none.
func prefixUpperBound(prefix []byte) []byte {
	upper := make([]byte, len(prefix))
	copy(upper, prefix)
	for i := len(upper) - 1; i >= 0; i-- {
		upper[i]++
		if upper[i] != 0 {
			return upper[:i+1]
		}
	}
	return nil
}

func (p *PebbleStore[T]) makeKey(key string) []byte {
	fullKey := make([]byte, len(p.prefix)+len(key))
	copy(fullKey, p.prefix)
	copy(fullKey[len(p.prefix):], key)
	return fullKey
}

// check fails when ctx is done or the store is closed. The read lock is not
// held afterwards; Pebble itself is safe for concurrent use.
func (p *PebbleStore[T]) check(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return ErrStoreClosed
	}
	return nil
}

func (p *PebbleStore[T]) Save(ctx context.Context, key string, value T) error {
	if err := p.check(ctx); err != nil {
		return err
	}

	data, err := p.codec.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal value with %s: %w", p.codec.Name(), err)
	}

	return p.db.Set(p.makeKey(key), data, p.wo)
}

func (p *PebbleStore[T]) Load(ctx context.Context, key string) (T, error) {
	var zero T
	if err := p.check(ctx); err != nil {
		return zero, err
	}

	data, closer, err := p.db.Get(p.makeKey(key))
	if err != nil {
		if errors.Is(err, pebble.ErrNotFound) {
			return zero, ErrNotFound
		}
		return zero, err
	}
	defer closer.Close()

	// data is only valid until closer is closed; the codec copies what it keeps.
	var value T
	if err := p.codec.Unmarshal(data, &value); err != nil {
		return zero, fmt.Errorf("failed to unmarshal value with %s: %w", p.codec.Name(), err)
	}

	return value, nil
}

func (p *PebbleStore[T]) Delete(ctx context.Context, key string) error {
	if err := p.check(ctx); err != nil {
		return err
	}
	return p.db.Delete(p.makeKey(key), p.wo)
}

func (p *PebbleStore[T]) Exists(ctx context.Context, key string) (bool, error) {
	if err := p.check(ctx); err != nil {
		return false, err
	}

	_, closer, err := p.db.Get(p.makeKey(key))
	if err != nil {
		if errors.Is(err, pebble.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	closer.Close()
	return true, nil
}

// scan calls fn with each key under the prefix, prefix stripped, in order.
func (p *PebbleStore[T]) scan(ctx context.Context, fn func(key []byte)) error {
	if err := p.check(ctx); err != nil {
		return err
	}

	iter, err := p.db.NewIter(&pebble.IterOptions{
		LowerBound: p.prefix,
		UpperBound: p.upper,
	})
	if err != nil {
		return err
	}

	for iter.First(); iter.Valid(); iter.Next() {
		if err := ctx.Err(); err != nil {
			iter.Close()
			return err
		}
		fn(iter.Key()[len(p.prefix):])
	}

	if err := iter.Error(); err != nil {
		iter.Close()
		return err
	}
	return iter.Close()
}

func (p *PebbleStore[T]) List(ctx context.Context) ([]string, error) {
	var keys []string
	if err := p.scan(ctx, func(key []byte) { keys = append(keys, string(key)) }); err != nil {
		return nil, err
	}
	return keys, nil
}

func (p *PebbleStore[T]) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := p.scan(ctx, func([]byte) { count++ }); err != nil {
		return 0, err
	}
	return count, nil
}

func (p *PebbleStore[T]) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return ErrStoreClosed
	}

	p.closed = true
	return p.db.Close()
}
