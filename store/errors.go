package store

import "errors"

var (
	ErrNotFound     = errors.New("key not found")
	ErrStoreClosed  = errors.New("store is closed")
	ErrInvalidKey   = errors.New("invalid key")
	ErrCorruptBlock = errors.New("stored property block is corrupt")
	ErrNilStore     = errors.New("nil store")
)
