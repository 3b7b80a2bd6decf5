package store

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
)

// FileDir is the directory, under the store root, that holds record files.
const FileDir = "cache_request_data"

// File stores each record as a JSON file named after the MD5 of its key.
type File struct {
	root string

	mu     sync.RWMutex
	opened bool
}

// NewFile creates a file store rooted at root.
func NewFile(root string) *File {
	return &File{root: root}
}

// Name returns "file".
func (f *File) Name() string { return "file" }

// Dir returns the directory holding record files.
func (f *File) Dir() string {
	return filepath.Join(f.root, FileDir)
}

// Path returns the file path for key.
func (f *File) Path(key string) string {
	sum := md5.Sum([]byte(key))
	return filepath.Join(f.Dir(), hex.EncodeToString(sum[:])+".json")
}

// Open marks the store usable. The record directory is created on first Put.
func (f *File) Open(_ context.Context) error {
	if f.root == "" {
		return fmt.Errorf("%w: file store root is empty", ErrClosed)
	}

	f.mu.Lock()
	f.opened = true
	f.mu.Unlock()
	return nil
}

// Get reads the record file of key.
func (f *File) Get(_ context.Context, key string) ([]byte, bool, error) {
	if err := f.check(); err != nil {
		return nil, false, err
	}

	data, err := os.ReadFile(f.Path(key))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("%w: %v", ErrRead, err)
	}
	return data, true, nil
}

// Put writes the record file of key through a temporary file and a rename.
func (f *File) Put(_ context.Context, key string, value []byte) error {
	if err := f.check(); err != nil {
		return err
	}

	dir := f.Dir()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("%w: %v", ErrWrite, err)
	}

	tmp, err := os.CreateTemp(dir, ".record-*")
	if err != nil {
		return fmt.Errorf("%w: %v", ErrWrite, err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(value); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("%w: %v", ErrWrite, err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("%w: %v", ErrWrite, err)
	}

	if err := os.Rename(tmpName, f.Path(key)); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("%w: %v", ErrWrite, err)
	}
	return nil
}

// Delete removes the record file of key.
func (f *File) Delete(_ context.Context, key string) error {
	if err := f.check(); err != nil {
		return err
	}

	err := os.Remove(f.Path(key))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: %v", ErrDelete, err)
	}
	return nil
}

// Close marks the store closed. Record files stay on disk.
func (f *File) Close() error {
	f.mu.Lock()
	f.opened = false
	f.mu.Unlock()
	return nil
}

func (f *File) check() error {
	f.mu.RLock()
	defer f.mu.RUnlock()

	if !f.opened {
		return ErrClosed
	}
	return nil
}

var _ Store = (*File)(nil)
