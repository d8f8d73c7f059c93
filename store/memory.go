package store

import (
	"context"
	"maps"
	"slices"
	"sync"
)

// MemoryStore keeps values in a map guarded by a RWMutex.
type MemoryStore[T any] struct {
	mu     sync.RWMutex
	data   map[string]T
	closed bool
}

func NewMemoryStore[T any]() *MemoryStore[T] {
	return &MemoryStore[T]{
		data: make(map[string]T),
	}
}

// read runs fn under the read lock once ctx and the closed flag are checked.
func (m *MemoryStore[T]) read(ctx context.Context, fn func()) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return ErrStoreClosed
	}
	fn()
	return nil
}

func (m *MemoryStore[T]) write(ctx context.Context, fn func()) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrStoreClosed
	}
	fn()
	return nil
}

func (m *MemoryStore[T]) Save(ctx context.Context, key string, value T) error {
	return m.write(ctx, func() { m.data[key] = value })
}

func (m *MemoryStore[T]) Load(ctx context.Context, key string) (T, error) {
	var value T
	var ok bool
	if err := m.read(ctx, func() { value, ok = m.data[key] }); err != nil {
		return value, err
	}
	if !ok {
		return value, ErrNotFound
	}
	return value, nil
}

func (m *MemoryStore[T]) Delete(ctx context.Context, key string) error {
	return m.write(ctx, func() { delete(m.data, key) })
}

func (m *MemoryStore[T]) Exists(ctx context.Context, key string) (bool, error) {
	var ok bool
	err := m.read(ctx, func() { _, ok = m.data[key] })
	return ok, err
}

func (m *MemoryStore[T]) List(ctx context.Context) ([]string, error) {
	var keys []string
	err := m.read(ctx, func() { keys = slices.Sorted(maps.Keys(m.data)) })
	return keys, err
}

func (m *MemoryStore[T]) Count(ctx context.Context) (int64, error) {
	var n int64
	err := m.read(ctx, func() { n = int64(len(m.data)) })
	return n, err
}

func (m *MemoryStore[T]) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrStoreClosed
	}

	m.closed = true
	m.data = nil
	return nil
}
