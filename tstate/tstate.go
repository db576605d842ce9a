// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package tstate

import (
	"context"
	"errors"
	"sync"

	"github.com/ava-labs/avalanchego/database"
	"github.com/ava-labs/avalanchego/trace"
	"github.com/ava-labs/avalanchego/utils/maybe"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"github.com/ava-labs/countervm/keys"
	"github.com/ava-labs/countervm/state"
)

// TState collects the changes of committed views until they are exported to
// a database batch.
type TState struct {
	l           sync.RWMutex
	changedKeys map[string]maybe.Maybe[[]byte]
	ops         int
}

// New returns a new instance of TState. [changedSize] is an estimate of the
// number of keys that will be changed.
func New(changedSize int) *TState {
	return &TState{
		changedKeys: make(map[string]maybe.Maybe[[]byte], changedSize),
	}
}

func (ts *TState) getChangedValue(_ context.Context, key string) ([]byte, bool, bool) {
	ts.l.RLock()
	defer ts.l.RUnlock()

	if v, ok := ts.changedKeys[key]; ok {
		if v.IsNothing() {
			return nil, true, false
		}
		return v.Value(), true, true
	}
	return nil, false, false
}

// Insert should only be called if you know what you are doing (updates
// here are not scoped by permissions and may overwrite keys on disk).
func (ts *TState) Insert(_ context.Context, key, value []byte) error {
	if !keys.VerifyValue(key, value) {
		return ErrInvalidKeyValue
	}
	ts.l.Lock()
	defer ts.l.Unlock()

	ts.changedKeys[string(key)] = maybe.Some(value)
	return nil
}

// PendingChanges returns the number of keys changed by committed views.
func (ts *TState) PendingChanges() int {
	ts.l.RLock()
	defer ts.l.RUnlock()

	return len(ts.changedKeys)
}

// OpIndex returns the number of operations committed to [TState].
func (ts *TState) OpIndex() int {
	ts.l.RLock()
	defer ts.l.RUnlock()

	return ts.ops
}

// WriteChanges writes all changes in [TState] to [w] in key order. Removed
// keys are deleted. [w] is typically a [database.Batch] so that the changes
// land atomically.
func (ts *TState) WriteChanges(
	ctx context.Context,
	t trace.Tracer, //nolint:interfacer
	w database.KeyValueWriterDeleter,
) error {
	_, span := t.Start(ctx, "TState.WriteChanges")
	defer span.End()

	ts.l.RLock()
	defer ts.l.RUnlock()

	changed := maps.Keys(ts.changedKeys)
	slices.Sort(changed)
	for _, key := range changed {
		maybeValue := ts.changedKeys[key]
		if maybeValue.IsNothing() {
			if err := w.Delete([]byte(key)); err != nil {
				return err
			}
			continue
		}
		if err := w.Put([]byte(key), maybeValue.Value()); err != nil {
			return err
		}
	}
	return nil
}

// Scope reads every key in [scope] from [im] so that a view can be created
// over it. Missing keys are omitted from the returned storage.
func Scope(ctx context.Context, im database.KeyValueReader, scope state.Keys) (map[string][]byte, error) {
	storage := make(map[string][]byte, len(scope))
	for _, key := range scope.Sorted() {
		v, err := im.Get([]byte(key))
		if errors.Is(err, database.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		storage[key] = v
	}
	return storage, ctx.Err()
}
