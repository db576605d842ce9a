// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package actions

import (
	"context"

	"github.com/ava-labs/avalanchego/ids"

	"github.com/ava-labs/countervm/chain"
	"github.com/ava-labs/countervm/codec"
	"github.com/ava-labs/countervm/state"
	"github.com/ava-labs/countervm/storage"
)

// counterStateKeys returns the key of [actor]'s counter. A location that
// cannot be derived yields no keys and execution fails on first access.
func counterStateKeys(actor codec.Address, namespace ids.ID, perm state.Permissions) state.Keys {
	key, err := storage.OwnerCounterKey(namespace, actor)
	if err != nil {
		return state.Keys{}
	}
	return state.Keys{string(key): perm}
}

func loadOwnedCounter(
	ctx context.Context,
	r chain.Rules,
	mu state.Mutable,
	actor codec.Address,
) ([]byte, *storage.Counter, error) {
	key, err := storage.OwnerCounterKey(r.GetChainID(), actor)
	if err != nil {
		return nil, nil, err
	}
	counter, err := storage.GetCounter(ctx, mu, key)
	if err != nil {
		return nil, nil, err
	}
	if counter.Owner != actor {
		return nil, nil, ErrUnauthorized
	}
	return key, counter, nil
}
