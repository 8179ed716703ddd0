// Package store persists the hotplate configuration record in a small
// byte-addressable store with explicit commit, in the manner of an
// on-board EEPROM.
package store

import (
	"errors"
	"fmt"
)

// Store is a byte-addressable persistent store.
// Writes are buffered until Commit.
type Store interface {
	Get(addr, size int) ([]byte, error)
	Put(addr int, data []byte) error
	Commit() error
}

// DefaultSize is the emulated EEPROM size in bytes.
const DefaultSize = 512

// erased is the value of a never-written byte.
const erased = 0xFF

// ErrOutOfRange is returned for accesses beyond the store size.
var ErrOutOfRange = errors.New("store: address out of range")

// image is the shared byte buffer behind FileStore and MemStore.
type image []byte

func newImage(size int) image {
	img := make(image, size)
	for i := range img {
		img[i] = erased
	}
	return img
}

func (img image) get(addr, size int) ([]byte, error) {
	if addr < 0 || size < 0 || addr+size > len(img) {
		return nil, fmt.Errorf("get %d bytes at %d: %w", size, addr, ErrOutOfRange)
	}
	out := make([]byte, size)
	copy(out, img[addr:addr+size])
	return out, nil
}

func (img image) put(addr int, data []byte) error {
	if addr < 0 || addr+len(data) > len(img) {
		return fmt.Errorf("put %d bytes at %d: %w", len(data), addr, ErrOutOfRange)
	}
	copy(img[addr:], data)
	return nil
}
