package store

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
)

// Block is a small durable array of 32-bit words.
type Block interface {
	Load() ([]uint32, error)
	Save(words []uint32) error
}

// FileBlock keeps the block in a file as little-endian words. Saves replace
// the file atomically.
type FileBlock struct {
	path string
}

// NewFileBlock creates a block stored at path.
func NewFileBlock(path string) *FileBlock {
	return &FileBlock{path: path}
}

// Load reads the block. A missing file yields ErrColdStart.
func (f *FileBlock) Load() ([]uint32, error) {
	data, err := os.ReadFile(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrColdStart
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", f.path, err)
	}
	if len(data)%4 != 0 {
		return nil, fmt.Errorf("%s: %d bytes is not whole words: %w", f.path, len(data), ErrCorrupt)
	}
	words := make([]uint32, len(data)/4)
	for i := range words {
		words[i] = binary.LittleEndian.Uint32(data[i*4:])
	}
	return words, nil
}

// Save writes the block to a temporary file and renames it into place.
func (f *FileBlock) Save(words []uint32) error {
	data := make([]byte, 0, len(words)*4)
	for _, w := range words {
		data = binary.LittleEndian.AppendUint32(data, w)
	}

	tmp, err := os.CreateTemp(filepath.Dir(f.path), filepath.Base(f.path)+".*")
	if err != nil {
		return fmt.Errorf("create temp: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write %s: %w", tmp.Name(), err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("sync %s: %w", tmp.Name(), err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", tmp.Name(), err)
	}
	if err := os.Rename(tmp.Name(), f.path); err != nil {
		return fmt.Errorf("rename to %s: %w", f.path, err)
	}
	return nil
}

// MemBlock is an in-memory Block for tests and for running without a store.
type MemBlock struct {
	mu    sync.Mutex
	words []uint32

	// Saves counts successful saves.
	Saves int

	// Err, if set, is returned by Save.
	Err error
}

// Load returns a copy of the stored words, ErrColdStart when empty.
func (m *MemBlock) Load() ([]uint32, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.words == nil {
		return nil, ErrColdStart
	}
	return append([]uint32(nil), m.words...), nil
}

// Save stores a copy of words.
func (m *MemBlock) Save(words []uint32) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	m.words = append([]uint32(nil), words...)
	m.Saves++
	return nil
}
