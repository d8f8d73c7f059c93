package store

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore keeps values in Redis under a key prefix. A set at
// prefix+"index" tracks the keys so List and Count avoid SCAN.
type RedisStore[T any] struct {
	client *redis.Client
	mu     sync.RWMutex
	closed bool
	ttl    time.Duration
	prefix string
	index  string
	codec  Codec
}

// RedisStoreConfig configures the Redis store
type RedisStoreConfig struct {
	Addr        string
	Password    string
	DB          int
	Prefix      string        // Key prefix, e.g. "props:will:"
	TTL         time.Duration // 0 keeps keys forever
	Codec       Codec         // Defaults to MessagePack
	DialTimeout time.Duration // Bounds the initial PING
	Options     *redis.Options
}

// DefaultRedisStoreConfig returns a config for a local server.
func DefaultRedisStoreConfig() RedisStoreConfig {
	return RedisStoreConfig{
		Addr:        "localhost:6379",
		Prefix:      "props:",
		Codec:       MessagePack{},
		DialTimeout: 5 * time.Second,
	}
}

func NewRedisStore[T any](config RedisStoreConfig) (*RedisStore[T], error) {
	opts := config.Options
	if opts == nil {
		opts = &redis.Options{
			Addr:     config.Addr,
			Password: config.Password,
			DB:       config.DB,
		}
	}
	client := redis.NewClient(opts)

	timeout := config.DialTimeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis at %s: %w", opts.Addr, err)
	}

	prefix := config.Prefix
	if prefix == "" {
		prefix = "props:"
	}

	codec := config.Codec
	if codec == nil {
		codec = MessagePack{}
	}

	return &RedisStore[T]{
		client: client,
		ttl:    config.TTL,
		prefix: prefix,
		index:  prefix + "index",
		codec:  codec,
	}, nil
}

func (r *RedisStore[T]) makeKey(key string) string {
	return r.prefix + key
}

func (r *RedisStore[T]) check(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.closed {
		return ErrStoreClosed
	}
	return nil
}

func (r *RedisStore[T]) Save(ctx context.Context, key string, value T) error {
	if err := r.check(ctx); err != nil {
		return err
	}

	data, err := r.codec.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal value with %s: %w", r.codec.Name(), err)
	}

	pipe := r.client.TxPipeline()
	pipe.Set(ctx, r.makeKey(key), data, r.ttl)
	pipe.SAdd(ctx, r.index, key)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save value: %w", err)
	}
	return nil
}

func (r *RedisStore[T]) Load(ctx context.Context, key string) (T, error) {
	var zero T
	if err := r.check(ctx); err != nil {
		return zero, err
	}

	data, err := r.client.Get(ctx, r.makeKey(key)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return zero, ErrNotFound
		}
		return zero, fmt.Errorf("failed to load value: %w", err)
	}

	var value T
	if err := r.codec.Unmarshal(data, &value); err != nil {
		return zero, fmt.Errorf("failed to unmarshal value with %s: %w", r.codec.Name(), err)
	}
	return value, nil
}

func (r *RedisStore[T]) Delete(ctx context.Context, key string) error {
	if err := r.check(ctx); err != nil {
		return err
	}

	pipe := r.client.TxPipeline()
	pipe.Del(ctx, r.makeKey(key))
	pipe.SRem(ctx, r.index, key)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to delete value: %w", err)
	}
	return nil
}

func (r *RedisStore[T]) Exists(ctx context.Context, key string) (bool, error) {
	if err := r.check(ctx); err != nil {
		return false, err
	}

	count, err := r.client.Exists(ctx, r.makeKey(key)).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check existence: %w", err)
	}
	return count > 0, nil
}

// List returns the indexed keys. With a TTL set, keys that expired since
// they were saved are dropped from the index as they are found.
func (r *RedisStore[T]) List(ctx context.Context) ([]string, error) {
	if err := r.check(ctx); err != nil {
		return nil, err
	}

	keys, err := r.client.SMembers(ctx, r.index).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list keys: %w", err)
	}

	if r.ttl > 0 && len(keys) > 0 {
		if keys, err = r.pruneExpired(ctx, keys); err != nil {
			return nil, err
		}
	}

	slices.Sort(keys)
	return keys, nil
}

func (r *RedisStore[T]) pruneExpired(ctx context.Context, keys []string) ([]string, error) {
	pipe := r.client.Pipeline()
	cmds := make([]*redis.IntCmd, len(keys))
	for i, key := range keys {
		cmds[i] = pipe.Exists(ctx, r.makeKey(key))
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, fmt.Errorf("failed to check existence: %w", err)
	}

	live := keys[:0]
	var gone []any
	for i, key := range keys {
		if cmds[i].Val() > 0 {
			live = append(live, key)
		} else {
			gone = append(gone, key)
		}
	}
	if len(gone) > 0 {
		if err := r.client.SRem(ctx, r.index, gone...).Err(); err != nil {
			return nil, fmt.Errorf("failed to prune index: %w", err)
		}
	}
	return live, nil
}

func (r *RedisStore[T]) Count(ctx context.Context) (int64, error) {
	if r.ttl > 0 {
		keys, err := r.List(ctx)
		return int64(len(keys)), err
	}

	if err := r.check(ctx); err != nil {
		return 0, err
	}

	count, err := r.client.SCard(ctx, r.index).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to count items: %w", err)
	}
	return count, nil
}

func (r *RedisStore[T]) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return ErrStoreClosed
	}

	r.closed = true
	return r.client.Close()
}
