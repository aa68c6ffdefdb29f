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
	"log/slog"
	"os"

	"github.com/dgraph-io/badger/v4"
)

// BadgerConfig configures the embedded BadgerDB backend.
type BadgerConfig struct {
	// Path is the directory for BadgerDB files.
	// Required unless InMemory is true.
	Path string

	// InMemory enables in-memory mode (no disk persistence).
	// Useful for testing.
	InMemory bool

	// SyncWrites enables synchronous writes for durability.
	// Default: true for production, false for testing.
	SyncWrites bool

	// Logger receives BadgerDB's internal logging. If nil, Badger
	// logging is disabled.
	Logger *slog.Logger
}

// DefaultBadgerConfig returns production defaults for a persistent
// store at path.
func DefaultBadgerConfig(path string) BadgerConfig {
	return BadgerConfig{
		Path:       path,
		SyncWrites: true,
	}
}

// InMemoryBadgerConfig returns a configuration for tests: no disk I/O,
// async writes.
func InMemoryBadgerConfig() BadgerConfig {
	return BadgerConfig{
		InMemory:   true,
		SyncWrites: false,
	}
}

// badgerLogger adapts slog.Logger to BadgerDB's Logger interface.
type badgerLogger struct {
	logger *slog.Logger
}

func (l *badgerLogger) Errorf(format string, args ...interface{}) {
	l.logger.Error(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Warningf(format string, args ...interface{}) {
	l.logger.Warn(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Infof(format string, args ...interface{}) {
	l.logger.Info(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Debugf(format string, args ...interface{}) {
	l.logger.Debug(fmt.Sprintf(format, args...))
}

// BadgerStore is the embedded-KV backend. Entry-level atomicity comes
// from Badger transactions, so same-key racers are last-write-wins and
// readers never observe a torn record.
type BadgerStore struct {
	db *badger.DB
}

// NewBadgerStore opens (creating if needed) a BadgerDB database per
// cfg. The caller must Close the returned store.
func NewBadgerStore(cfg BadgerConfig) (*BadgerStore, error) {
	var opts badger.Options
	if cfg.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if cfg.Path == "" {
			return nil, fmt.Errorf("%w: badger path must not be empty", ErrStorageUnavailable)
		}
		if err := os.MkdirAll(cfg.Path, 0750); err != nil {
			return nil, fmt.Errorf("%w: create badger directory %s: %v", ErrStorageUnavailable, cfg.Path, err)
		}
		opts = badger.DefaultOptions(cfg.Path)
	}
	opts = opts.WithSyncWrites(cfg.SyncWrites)
	if cfg.Logger != nil {
		opts = opts.WithLogger(&badgerLogger{logger: cfg.Logger})
	} else {
		opts = opts.WithLogger(nil)
	}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("%w: open badger at %s: %v", ErrStorageUnavailable, cfg.Path, err)
	}
	return &BadgerStore{db: db}, nil
}

// Get reads the record for key inside a read transaction.
func (s *BadgerStore) Get(ctx context.Context, key Key) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var data []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key.String()))
		if err != nil {
			return err
		}
		data, err = item.ValueCopy(nil)
		return err
	})
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: badger get %s: %v", ErrStorageUnavailable, key.String(), err)
	}
	return data, nil
}

// Set writes the record for key inside an update transaction.
func (s *BadgerStore) Set(ctx context.Context, key Key, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key.String()), data)
	})
	if err != nil {
		return fmt.Errorf("%w: badger set %s: %v", ErrStorageUnavailable, key.String(), err)
	}
	return nil
}

// Clear drops all keys in this database. The database is dedicated to
// one cache instance, so the scope matches the cache's storage
// location exactly.
func (s *BadgerStore) Clear(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.db.DropAll(); err != nil {
		return fmt.Errorf("%w: badger drop all: %v", ErrStorageUnavailable, err)
	}
	return nil
}

// Stats iterates keys without prefetching values and sums estimated
// entry sizes.
func (s *BadgerStore) Stats(ctx context.Context) (Stats, error) {
	if err := ctx.Err(); err != nil {
		return Stats{}, err
	}
	var stats Stats
	err := s.db.View(func(txn *badger.Txn) error {
		iterOpts := badger.DefaultIteratorOptions
		iterOpts.PrefetchValues = false
		it := txn.NewIterator(iterOpts)
		defer it.Close()
		for it.Rewind(); it.Valid(); it.Next() {
			stats.Entries++
			stats.Bytes += it.Item().EstimatedSize()
		}
		return nil
	})
	if err != nil {
		return Stats{}, fmt.Errorf("%w: badger stats: %v", ErrStorageUnavailable, err)
	}
	return stats, nil
}

// Close closes the underlying database.
func (s *BadgerStore) Close() error {
	return s.db.Close()
}

var _ Store = (*BadgerStore)(nil)
