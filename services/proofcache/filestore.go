// Copyright (C) 2025 SafeRL ProofStack Authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package proofcache

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// FileStore persists one JSON record per key as
// "<digest>_<algorithm>_<version>.json" in a single directory.
//
// Writes go to a temp file in the same directory followed by an atomic
// rename, so a concurrent reader sees either the old record or the new
// one, never a partial write. The store exclusively owns its directory;
// Clear only removes record files it could have written.
type FileStore struct {
	dir string
}

// NewFileStore creates the cache directory (0750) if needed and returns
// a store rooted there.
func NewFileStore(dir string) (*FileStore, error) {
	if dir == "" {
		return nil, fmt.Errorf("%w: cache directory must not be empty", ErrStorageUnavailable)
	}
	if err := os.MkdirAll(dir, 0750); err != nil {
		return nil, fmt.Errorf("%w: create cache directory %s: %v", ErrStorageUnavailable, dir, err)
	}
	return &FileStore{dir: dir}, nil
}

// Dir returns the directory this store is rooted at.
func (s *FileStore) Dir() string {
	return s.dir
}

func (s *FileStore) path(key Key) string {
	return filepath.Join(s.dir, key.String()+".json")
}

// Get reads the record for key. Missing files map to ErrNotFound; any
// other read failure maps to ErrStorageUnavailable.
func (s *FileStore) Get(ctx context.Context, key Key) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(s.path(key))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: read %s: %v", ErrStorageUnavailable, key.String(), err)
	}
	return data, nil
}

// Set writes data to a temp file in the cache directory and renames it
// over the record path. Rename within one directory is atomic on POSIX
// filesystems, which gives last-write-wins for same-key racers.
func (s *FileStore) Set(ctx context.Context, key Key, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(s.dir, ".tmp-entry-*")
	if err != nil {
		return fmt.Errorf("%w: create temp file: %v", ErrStorageUnavailable, err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("%w: write temp file: %v", ErrStorageUnavailable, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("%w: sync temp file: %v", ErrStorageUnavailable, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("%w: close temp file: %v", ErrStorageUnavailable, err)
	}
	if err := os.Chmod(tmpName, 0640); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("%w: chmod temp file: %v", ErrStorageUnavailable, err)
	}
	if err := os.Rename(tmpName, s.path(key)); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("%w: commit %s: %v", ErrStorageUnavailable, key.String(), err)
	}
	return nil
}

// Clear removes every record file in the cache directory. Files that
// are not cache records (no .json suffix) are left alone.
func (s *FileStore) Clear(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	matches, err := filepath.Glob(filepath.Join(s.dir, "*.json"))
	if err != nil {
		return fmt.Errorf("%w: list cache directory: %v", ErrStorageUnavailable, err)
	}
	var firstErr error
	for _, path := range matches {
		if err := os.Remove(path); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("%w: remove %s: %v", ErrStorageUnavailable, filepath.Base(path), err)
		}
	}
	return firstErr
}

// Stats counts record files and sums their sizes.
func (s *FileStore) Stats(ctx context.Context) (Stats, error) {
	if err := ctx.Err(); err != nil {
		return Stats{}, err
	}
	matches, err := filepath.Glob(filepath.Join(s.dir, "*.json"))
	if err != nil {
		return Stats{}, fmt.Errorf("%w: list cache directory: %v", ErrStorageUnavailable, err)
	}
	stats := Stats{Entries: len(matches)}
	for _, path := range matches {
		if info, err := os.Stat(path); err == nil {
			stats.Bytes += info.Size()
		}
	}
	return stats, nil
}

// Close is a no-op; the file store holds no open handles between calls.
func (s *FileStore) Close() error {
	return nil
}

var _ Store = (*FileStore)(nil)
