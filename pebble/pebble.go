// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package pebble

import (
	"errors"
	"sync"
	"time"

	"github.com/ava-labs/avalanchego/database"
	"github.com/ava-labs/avalanchego/utils/units"
	"github.com/cockroachdb/pebble"
	"github.com/prometheus/client_golang/prometheus"
)

var (
	_ database.KeyValueReaderWriterDeleter = (*Database)(nil)
	_ database.Batcher                     = (*Database)(nil)
	_ database.Batch                       = (*batch)(nil)
)

type Config struct {
	CacheSize                   int   `json:"cacheSize"`
	BytesPerSync                int   `json:"bytesPerSync"`
	WALBytesPerSync             int   `json:"walBytesPerSync"` // 0 means no background syncing
	MemTableStopWritesThreshold int   `json:"memTableStopWritesThreshold"`
	MemTableSize                int   `json:"memTableSize"`
	MaxOpenFiles                int   `json:"maxOpenFiles"`
	ConcurrentCompactions       int   `json:"concurrentCompactions"`
	Sync                        bool  `json:"sync"`
	L0CompactionThreshold       int   `json:"l0CompactionThreshold"`
	L0StopWritesThreshold       int   `json:"l0StopWritesThreshold"`
	TargetFileSize              int64 `json:"targetFileSize"`
}

func NewDefaultConfig() Config {
	return Config{
		CacheSize:                   64 * units.MiB,
		BytesPerSync:                512 * units.KiB,
		WALBytesPerSync:             0,
		MemTableStopWritesThreshold: 8,
		MemTableSize:                16 * units.MiB,
		MaxOpenFiles:                4_096,
		ConcurrentCompactions:       1,
		Sync:                        true,
		L0CompactionThreshold:       4,
		L0StopWritesThreshold:       12,
		TargetFileSize:              2 * units.MiB,
	}
}

// Database is a pebble-backed key-value store. Batches are committed
// atomically.
type Database struct {
	db      *pebble.DB
	metrics *metrics

	writeOptions *pebble.WriteOptions

	closeOnce sync.Once
	closing   chan struct{}
	closed    sync.WaitGroup
}

func New(file string, cfg Config) (*Database, *prometheus.Registry, error) {
	// These default settings are based on https://github.com/ethereum/go-ethereum/blob/master/ethdb/pebble/pebble.go
	d := &Database{closing: make(chan struct{})}
	opts := &pebble.Options{
		Cache:                       pebble.NewCache(int64(cfg.CacheSize)),
		BytesPerSync:                cfg.BytesPerSync,
		WALBytesPerSync:             cfg.WALBytesPerSync,
		MemTableStopWritesThreshold: cfg.MemTableStopWritesThreshold,
		MemTableSize:                uint64(cfg.MemTableSize),
		MaxOpenFiles:                cfg.MaxOpenFiles,
		MaxConcurrentCompactions:    func() int { return cfg.ConcurrentCompactions },
		L0CompactionThreshold:       cfg.L0CompactionThreshold,
		L0StopWritesThreshold:       cfg.L0StopWritesThreshold,
	}
	opts.Experimental.ReadSamplingMultiplier = -1 // explicitly disable seek compaction
	opts.Levels = make([]pebble.LevelOptions, 7)
	for i := 0; i < len(opts.Levels); i++ {
		l := &opts.Levels[i]
		l.TargetFileSize = cfg.TargetFileSize
		if i > 0 {
			l.TargetFileSize = opts.Levels[i-1].TargetFileSize * 2
		}
		l.EnsureDefaults()
	}
	registry, metrics, err := newMetrics()
	if err != nil {
		return nil, nil, err
	}
	d.metrics = metrics
	opts.EventListener = &pebble.EventListener{
		CompactionBegin: d.onCompactionBegin,
		CompactionEnd:   d.onCompactionEnd,
		WriteStallBegin: d.onWriteStallBegin,
		WriteStallEnd:   d.onWriteStallEnd,
	}
	db, err := pebble.Open(file, opts)
	if err != nil {
		return nil, nil, err
	}
	d.db = db
	if cfg.Sync {
		d.writeOptions = pebble.Sync
	} else {
		d.writeOptions = pebble.NoSync
	}
	d.closed.Add(1)
	go func() {
		defer d.closed.Done()
		d.collectMetrics()
	}()
	return d, registry, nil
}

func (db *Database) Close() error {
	db.closeOnce.Do(func() {
		close(db.closing)
	})
	db.closed.Wait()
	return db.db.Close()
}

func (db *Database) Has(key []byte) (bool, error) {
	_, closer, err := db.db.Get(key)
	if errors.Is(err, pebble.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, closer.Close()
}

func (db *Database) Get(key []byte) ([]byte, error) {
	start := time.Now()
	defer func() {
		db.metrics.getLatency.Observe(time.Since(start).Seconds())
	}()

	data, closer, err := db.db.Get(key)
	if errors.Is(err, pebble.ErrNotFound) {
		return nil, database.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	ret := make([]byte, len(data))
	copy(ret, data)
	return ret, closer.Close()
}

func (db *Database) Put(key []byte, value []byte) error {
	return db.db.Set(key, value, db.writeOptions)
}

func (db *Database) Delete(key []byte) error {
	return db.db.Delete(key, db.writeOptions)
}

func (db *Database) NewBatch() database.Batch {
	return &batch{db: db, batch: db.db.NewBatch()}
}

type op struct {
	delete bool
	key    []byte
	value  []byte
}

type batch struct {
	db    *Database
	batch *pebble.Batch

	ops  []op
	size int
}

func (b *batch) Put(key, value []byte) error {
	b.ops = append(b.ops, op{key: copyBytes(key), value: copyBytes(value)})
	b.size += len(key) + len(value)
	return b.batch.Set(key, value, nil)
}

func (b *batch) Delete(key []byte) error {
	b.ops = append(b.ops, op{delete: true, key: copyBytes(key)})
	b.size += len(key)
	return b.batch.Delete(key, nil)
}

func (b *batch) Size() int {
	return b.size
}

func (b *batch) Write() error {
	return b.batch.Commit(b.db.writeOptions)
}

func (b *batch) Reset() {
	b.batch.Reset()
	b.ops = b.ops[:0]
	b.size = 0
}

func (b *batch) Replay(w database.KeyValueWriterDeleter) error {
	for _, o := range b.ops {
		if o.delete {
			if err := w.Delete(o.key); err != nil {
				return err
			}
			continue
		}
		if err := w.Put(o.key, o.value); err != nil {
			return err
		}
	}
	return nil
}

func (b *batch) Inner() database.Batch {
	return b
}

func copyBytes(b []byte) []byte {
	c := make([]byte, len(b))
	copy(c, b)
	return c
}
