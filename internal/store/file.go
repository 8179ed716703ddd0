package store

import (
	"fmt"
	"os"
	"path/filepath"
)

// FileStore emulates an EEPROM with a fixed-size file.
// Put changes the in-memory image; Commit replaces the file atomically.
type FileStore struct {
	path  string
	img   image
	dirty bool
}

// OpenFile loads the image at path. A missing file yields an erased image of
// size bytes; it is created on the first Commit.
func OpenFile(path string, size int) (*FileStore, error) {
	if size <= 0 {
		size = DefaultSize
	}
	s := &FileStore{path: path, img: newImage(size)}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read store %s: %w", path, err)
	}
	copy(s.img, data)
	return s, nil
}

// Path returns the backing file path.
func (s *FileStore) Path() string {
	return s.path
}

// Get returns a copy of size bytes at addr.
func (s *FileStore) Get(addr, size int) ([]byte, error) {
	return s.img.get(addr, size)
}

// Put writes data at addr into the image.
func (s *FileStore) Put(addr int, data []byte) error {
	if err := s.img.put(addr, data); err != nil {
		return err
	}
	s.dirty = true
	return nil
}

// Commit flushes the image if it changed since the last commit.
func (s *FileStore) Commit() error {
	if !s.dirty {
		return nil
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create store dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".hotplate-store-*")
	if err != nil {
		return fmt.Errorf("create temp store: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(s.img); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write temp store: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("sync temp store: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close temp store: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace store %s: %w", s.path, err)
	}

	s.dirty = false
	return nil
}
