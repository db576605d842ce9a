// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package pebble

import (
	"crypto/rand"
	"fmt"
	"testing"

	"github.com/ava-labs/avalanchego/database"
	"github.com/ava-labs/avalanchego/database/memdb"
	"github.com/stretchr/testify/require"

	"github.com/ava-labs/countervm/storage"
)

func randBytes() []byte {
	b := make([]byte, 32)
	_, err := rand.Read(b)
	if err != nil {
		panic(err)
	}
	return b
}

func newTestDB(t *testing.T) *Database {
	cfg := NewDefaultConfig()
	cfg.Sync = false
	db, _, err := New(t.TempDir(), cfg)
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, db.Close())
	})
	return db
}

func TestGetPutDelete(t *testing.T) {
	require := require.New(t)
	db := newTestDB(t)

	k, v := randBytes(), randBytes()
	_, err := db.Get(k)
	require.ErrorIs(err, database.ErrNotFound)
	has, err := db.Has(k)
	require.NoError(err)
	require.False(has)

	require.NoError(db.Put(k, v))
	got, err := db.Get(k)
	require.NoError(err)
	require.Equal(v, got)
	has, err = db.Has(k)
	require.NoError(err)
	require.True(has)

	require.NoError(db.Delete(k))
	_, err = db.Get(k)
	require.ErrorIs(err, database.ErrNotFound)
}

func TestBatchAtomicWrite(t *testing.T) {
	require := require.New(t)
	db := newTestDB(t)

	deleted := randBytes()
	require.NoError(db.Put(deleted, randBytes()))

	batch := db.NewBatch()
	keys := make([][]byte, 10)
	for i := range keys {
		keys[i] = randBytes()
		require.NoError(batch.Put(keys[i], keys[i]))
	}
	require.NoError(batch.Delete(deleted))
	require.Equal(len(keys)*64+32, batch.Size())

	for _, k := range keys {
		_, err := db.Get(k)
		require.ErrorIs(err, database.ErrNotFound)
	}

	require.NoError(batch.Write())
	for _, k := range keys {
		v, err := db.Get(k)
		require.NoError(err)
		require.Equal(k, v)
	}
	_, err := db.Get(deleted)
	require.ErrorIs(err, database.ErrNotFound)

	replayed := memdb.New()
	require.NoError(replayed.Put(deleted, []byte{1}))
	require.NoError(batch.Replay(replayed))
	for _, k := range keys {
		v, err := replayed.Get(k)
		require.NoError(err)
		require.Equal(k, v)
	}
	_, err = replayed.Get(deleted)
	require.ErrorIs(err, database.ErrNotFound)

	batch.Reset()
	require.Zero(batch.Size())
}

func TestCounterPersistence(t *testing.T) {
	require := require.New(t)
	dir := t.TempDir()
	cfg := NewDefaultConfig()

	k := storage.CounterKey([32]byte{1})
	v, err := storage.MarshalCounter(&storage.Counter{Owner: [32]byte{2}, Count: 3, TotalIncrements: 4})
	require.NoError(err)

	db, _, err := New(dir, cfg)
	require.NoError(err)
	batch := db.NewBatch()
	require.NoError(batch.Put(k, v))
	require.NoError(batch.Write())
	require.NoError(db.Close())

	db, _, err = New(dir, cfg)
	require.NoError(err)
	got, err := db.Get(k)
	require.NoError(err)
	counter, err := storage.UnmarshalCounter(got)
	require.NoError(err)
	require.Equal(uint64(3), counter.Count)
	require.Equal(uint64(4), counter.TotalIncrements)
	require.NoError(db.Close())
}

func TestMetrics(t *testing.T) {
	require := require.New(t)

	cfg := NewDefaultConfig()
	cfg.Sync = false
	db, registry, err := New(t.TempDir(), cfg)
	require.NoError(err)
	defer func() {
		require.NoError(db.Close())
	}()

	k := randBytes()
	require.NoError(db.Put(k, randBytes()))
	_, err = db.Get(k)
	require.NoError(err)

	families, err := registry.Gather()
	require.NoError(err)
	found := make(map[string]bool, len(families))
	for _, family := range families {
		found[family.GetName()] = true
		if family.GetName() == "pebble_read_latency" {
			require.Equal(uint64(1), family.GetMetric()[0].GetHistogram().GetSampleCount())
		}
	}
	for _, name := range []string{"pebble_read_latency", "pebble_write_stall", "pebble_disk_usage", "pebble_tombstone_count"} {
		require.True(found[name], name)
	}
}

func BenchmarkBatchInsertion(b *testing.B) {
	const batchSize = 100_000
	for _, sync := range []bool{false, true} {
		b.Run(fmt.Sprintf("sync=%t", sync), func(b *testing.B) {
			b.StopTimer()
			cfg := NewDefaultConfig()
			cfg.Sync = sync
			db, _, err := New(b.TempDir(), cfg)
			if err != nil {
				b.Fatal(err)
			}
			keys := make([][]byte, batchSize)
			for i := 0; i < batchSize; i++ {
				keys[i] = randBytes()
			}

			b.StartTimer()
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				batch := db.NewBatch()
				for j := 0; j < batchSize; j++ {
					if err := batch.Put(keys[j], randBytes()); err != nil {
						b.Fatal(err)
					}
				}
				if err := batch.Write(); err != nil {
					b.Fatal(err)
				}
			}
			b.StopTimer()

			if err := db.Close(); err != nil {
				b.Fatal(err)
			}
		})
	}
}
