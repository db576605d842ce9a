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

var _ chain.Action = (*Reset)(nil)

// Reset zeroes the actor's counter. The lifetime total is kept.
type Reset struct{}

func (*Reset) GetTypeID() uint8 {
	return consts.ResetID
}

func (*Reset) StateKeys(actor codec.Address, namespace ids.ID) state.Keys {
	return counterStateKeys(actor, namespace, state.Read|state.Write)
}

func (*Reset) Execute(
	ctx context.Context,
	r chain.Rules,
	mu state.Mutable,
	_ int64,
	actor codec.Address,
	_ ids.ID,
) ([]byte, error) {
	key, counter, err := loadOwnedCounter(ctx, r, mu, actor)
	if err != nil {
		return nil, err
	}
	counter.Count = 0
	if err := storage.SetCounter(ctx, mu, key, counter); err != nil {
		return nil, err
	}
	return OutputCounterReset, nil
}

func (*Reset) Size() int {
	return 0
}

func (*Reset) Marshal(*codec.Packer) {}

func UnmarshalReset(*codec.Packer) (chain.Action, error) {
	return &Reset{}, nil
}
