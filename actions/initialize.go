// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package actions

import (
	"context"

	"github.com/ava-labs/avalanchego/ids"

	"github.com/ava-labs/countervm/chain"
	"github.com/ava-labs/countervm/codec"
	"github.com/ava-labs/countervm/consts"
	"github.com/ava-labs/countervm/state"
	"github.com/ava-labs/countervm/storage"
)

var _ chain.Action = (*Initialize)(nil)

// Initialize creates the counter owned by the actor.
type Initialize struct{}

func (*Initialize) GetTypeID() uint8 {
	return consts.InitializeID
}

func (*Initialize) StateKeys(actor codec.Address, namespace ids.ID) state.Keys {
	return counterStateKeys(actor, namespace, state.All)
}

func (*Initialize) Execute(
	ctx context.Context,
	r chain.Rules,
	mu state.Mutable,
	timestamp int64,
	actor codec.Address,
	_ ids.ID,
) ([]byte, error) {
	key, err := storage.OwnerCounterKey(r.GetChainID(), actor)
	if err != nil {
		return nil, err
	}
	counter := &storage.Counter{
		Owner:     actor,
		CreatedAt: timestamp / consts.MillisecondsPerSecond,
	}
	if err := storage.CreateCounter(ctx, mu, key, counter); err != nil {
		return nil, err
	}
	return OutputCounterInitialized(actor), nil
}

func (*Initialize) Size() int {
	return 0
}

func (*Initialize) Marshal(*codec.Packer) {}

func UnmarshalInitialize(*codec.Packer) (chain.Action, error) {
	return &Initialize{}, nil
}
