// Copyright 2026 Mintleaf Software
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package database

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	badger "github.com/dgraph-io/badger/v4"
	"github.com/dgraph-io/badger/v4/options"
	"github.com/mintleaf-io/roost/database/types"
)

const (
	blobGcInterval     = 5 * time.Minute
	blobGcDiscardRatio = 0.5
	commitTimestampKey = "metadata_commit_timestamp"
)

// BadgerLogger is a wrapper type to give our logger the expected interface
type BadgerLogger struct {
	*slog.Logger
}

func NewBadgerLogger(logger *slog.Logger) *BadgerLogger {
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	return &BadgerLogger{Logger: logger}
}

func (b *BadgerLogger) Infof(msg string, args ...any) {
	b.Info(strings.TrimSuffix(fmt.Sprintf(msg, args...), "\n"))
}

func (b *BadgerLogger) Warningf(msg string, args ...any) {
	b.Warn(strings.TrimSuffix(fmt.Sprintf(msg, args...), "\n"))
}

func (b *BadgerLogger) Debugf(msg string, args ...any) {
	b.Debug(strings.TrimSuffix(fmt.Sprintf(msg, args...), "\n"))
}

func (b *BadgerLogger) Errorf(msg string, args ...any) {
	b.Error(strings.TrimSuffix(fmt.Sprintf(msg, args...), "\n"))
}

// BlobStore is a badger-backed store for payout receipts. It holds the
// immutable audit trail written alongside each disbursement.
type BlobStore struct {
	db        *badger.DB
	logger    *slog.Logger
	gcStopCh  chan struct{}
	gcWg      sync.WaitGroup
	dataDir   string
	gcEnabled bool
}

// NewBlobStore creates a badger blob store. Uses an in-memory database if
// dataDir is empty.
func NewBlobStore(
	dataDir string,
	logger *slog.Logger,
) (*BlobStore, error) {
	db := &BlobStore{
		logger:  logger,
		dataDir: dataDir,
	}
	var blobDb *badger.DB
	var err error
	if dataDir == "" {
		// No dataDir, use in-memory config
		badgerOpts := badger.DefaultOptions("").
			WithLogger(NewBadgerLogger(logger)).
			// The default INFO logging is a bit verbose
			WithLoggingLevel(badger.WARNING).
			WithInMemory(true)
		blobDb, err = badger.Open(badgerOpts)
		if err != nil {
			return nil, err
		}
	} else {
		// Make sure that we can read data dir, and create if it doesn't exist
		if _, err := os.Stat(dataDir); err != nil {
			if !errors.Is(err, fs.ErrNotExist) {
				return nil, fmt.Errorf("failed to read data dir: %w", err)
			}
			if err := os.MkdirAll(dataDir, 0o755); err != nil {
				return nil, fmt.Errorf("failed to create data dir: %w", err)
			}
		}
		blobDir := filepath.Join(
			dataDir,
			"blob",
		)
		badgerOpts := badger.DefaultOptions(blobDir).
			WithLogger(NewBadgerLogger(logger)).
			WithLoggingLevel(badger.WARNING).
			WithCompression(options.Snappy)
		blobDb, err = badger.Open(badgerOpts)
		if err != nil {
			return nil, err
		}
		// Value log GC only applies to disk-backed stores
		db.gcEnabled = true
	}
	db.db = blobDb
	if err := db.init(); err != nil {
		return db, err
	}
	return db, nil
}

func (d *BlobStore) init() error {
	if d.logger == nil {
		// Create logger to throw away logs
		// We do this so we don't have to add guards around every log operation
		d.logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	if d.gcEnabled {
		d.gcStopCh = make(chan struct{})
		d.gcWg.Add(1)
		go d.blobGc()
	}
	return nil
}

func (d *BlobStore) blobGc() {
	defer d.gcWg.Done()
	ticker := time.NewTicker(blobGcInterval)
	defer ticker.Stop()
	for {
		select {
		case <-d.gcStopCh:
			return
		case <-ticker.C:
			if err := d.db.RunValueLogGC(blobGcDiscardRatio); err != nil {
				// Not an error, this is expected when there is nothing to GC
				if errors.Is(err, badger.ErrNoRewrite) {
					continue
				}
				d.logger.Error(
					"blob GC failure",
					"component", "database",
					"error", err,
				)
			}
		}
	}
}

// DB returns the underlying badger.DB handle
func (d *BlobStore) DB() *badger.DB {
	return d.db
}

// NewTransaction begins a new blob transaction
func (d *BlobStore) NewTransaction(update bool) *badger.Txn {
	return d.db.NewTransaction(update)
}

// Get returns the value for a key within the given transaction
func (d *BlobStore) Get(txn *badger.Txn, key []byte) ([]byte, error) {
	if txn == nil {
		return nil, types.ErrNilTxn
	}
	item, err := txn.Get(key)
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, types.ErrBlobKeyNotFound
		}
		return nil, err
	}
	return item.ValueCopy(nil)
}

// Set stores a value for a key within the given transaction
func (d *BlobStore) Set(txn *badger.Txn, key, val []byte) error {
	if txn == nil {
		return types.ErrNilTxn
	}
	return txn.Set(key, val)
}

// GetCommitTimestamp returns the stored commit timestamp, or zero if unset
func (d *BlobStore) GetCommitTimestamp() (int64, error) {
	var ret int64
	err := d.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(commitTimestampKey))
		if err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return nil
			}
			return err
		}
		val, err := item.ValueCopy(nil)
		if err != nil {
			return err
		}
		ret = int64(binary.BigEndian.Uint64(val)) //nolint:gosec
		return nil
	})
	return ret, err
}

// SetCommitTimestamp updates the stored commit timestamp within the given transaction
func (d *BlobStore) SetCommitTimestamp(txn *badger.Txn, timestamp int64) error {
	if txn == nil {
		return types.ErrNilTxn
	}
	val := make([]byte, 8)
	binary.BigEndian.PutUint64(val, uint64(timestamp)) //nolint:gosec
	return txn.Set([]byte(commitTimestampKey), val)
}

func badgerIteratorOptions(prefix []byte) badger.IteratorOptions {
	opts := badger.DefaultIteratorOptions
	opts.Prefix = prefix
	return opts
}

// Close stops background GC and closes the database
func (d *BlobStore) Close() error {
	if d.gcStopCh != nil {
		close(d.gcStopCh)
		d.gcWg.Wait()
		d.gcStopCh = nil
	}
	return d.db.Close()
}
