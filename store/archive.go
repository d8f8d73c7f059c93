package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rpcme/coreMQTT/encoding"
	"github.com/rpcme/coreMQTT/pkg/logger"
	"github.com/rpcme/coreMQTT/stats"
)

// ArchiveConfig configures an Archive.
type ArchiveConfig struct {
	// MaxProperties sizes the collection Get allocates when the caller
	// passes none.
	MaxProperties int
	Logger        logger.Logger
	Stats         *stats.Collector
}

func DefaultArchiveConfig() ArchiveConfig {
	return ArchiveConfig{
		MaxProperties: 32,
		Logger:        logger.Nop{},
	}
}

// Archive saves property collections into a Store as encoded blocks and
// decodes them again on the way out.
type Archive struct {
	store Store[Block]
	cfg   ArchiveConfig
	log   logger.Logger
	now   func() time.Time
}

func NewArchive(s Store[Block], cfg ArchiveConfig) (*Archive, error) {
	if s == nil {
		return nil, ErrNilStore
	}
	if cfg.MaxProperties <= 0 {
		cfg.MaxProperties = DefaultArchiveConfig().MaxProperties
	}
	return &Archive{
		store: s,
		cfg:   cfg,
		log:   logger.OrNop(cfg.Logger),
		now:   time.Now,
	}, nil
}

// Put encodes props and stores the block under key. It returns the block
// size in bytes.
func (a *Archive) Put(ctx context.Context, key string, props *encoding.Properties) (int, error) {
	if key == "" {
		return 0, ErrInvalidKey
	}

	data, err := props.AppendTo(nil)
	a.cfg.Stats.ObserveEncode(len(data), err)
	if err != nil {
		a.log.Warn("property block rejected", "key", key, "error", err)
		return 0, err
	}

	block := Block{Data: data, Count: props.Len(), StoredAt: a.now().UTC()}
	if err := a.store.Save(ctx, key, block); err != nil {
		a.log.Error("failed to save property block", "key", key, "error", err)
		return 0, err
	}

	a.log.Debug("property block stored", "key", key, "bytes", len(data), "properties", block.Count)
	return len(data), nil
}

// Get loads the block under key and decodes it into out. A nil out gets a
// fresh collection of MaxProperties entries. The returned collection borrows
// from the loaded block and stays valid for as long as it is referenced.
// A block that fails to decode is reported as ErrCorruptBlock, unless out is
// too small or uninitialized, in which case the decoder's error is returned.
func (a *Archive) Get(ctx context.Context, key string, out *encoding.Properties) (*encoding.Properties, error) {
	block, err := a.store.Load(ctx, key)
	if err != nil {
		return nil, err
	}

	if out == nil {
		if out, err = encoding.NewProperties(make([]encoding.Property, a.cfg.MaxProperties)); err != nil {
			return nil, err
		}
	}

	before := out.Len()
	n, err := out.Deserialize(block.Data)
	a.cfg.Stats.ObserveDecode(n, err)
	if errors.Is(err, encoding.ErrNoMemory) || err == encoding.ErrBadParameter {
		// The destination collection is full or uninitialized; the block is fine.
		a.log.Warn("property block does not fit destination", "key", key, "capacity", out.Cap(), "error", err)
		return nil, err
	}
	if err != nil {
		a.log.Error("stored property block does not decode", "key", key, "error", err)
		return nil, fmt.Errorf("%w: %s: %w", ErrCorruptBlock, key, err)
	}
	if n != len(block.Data) || out.Len()-before != block.Count {
		a.log.Error("stored property block does not match its record", "key", key,
			"bytes", len(block.Data), "consumed", n, "properties", out.Len()-before, "recorded", block.Count)
		return nil, fmt.Errorf("%w: %s", ErrCorruptBlock, key)
	}

	return out, nil
}

// Block returns the raw stored block under key.
func (a *Archive) Block(ctx context.Context, key string) (Block, error) {
	return a.store.Load(ctx, key)
}

func (a *Archive) Delete(ctx context.Context, key string) error {
	if err := a.store.Delete(ctx, key); err != nil {
		return err
	}
	a.log.Debug("property block deleted", "key", key)
	return nil
}

// Keys lists the stored keys in ascending order.
func (a *Archive) Keys(ctx context.Context) ([]string, error) {
	return a.store.List(ctx)
}

func (a *Archive) Len(ctx context.Context) (int64, error) {
	return a.store.Count(ctx)
}

// Close closes the underlying store.
func (a *Archive) Close() error {
	return a.store.Close()
}
