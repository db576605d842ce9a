// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package actions

import (
	"context"
	"fmt"

	"github.com/ava-labs/avalanchego/ids"

	"github.com/ava-labs/countervm/chain"
	"github.com/ava-labs/countervm/codec"
	"github.com/ava-labs/countervm/consts"
	"github.com/ava-labs/countervm/state"
	"github.com/ava-labs/countervm/storage"

	smath "github.com/ava-labs/avalanchego/utils/math"
)

var _ chain.Action = (*Increment)(nil)

// Increment adds one to the actor's counter and its lifetime total.
type Increment struct{}

func (*Increment) GetTypeID() uint8 {
	return consts.IncrementID
}

func (*Increment) StateKeys(actor codec.Address, namespace ids.ID) state.Keys {
	return counterStateKeys(actor, namespace, state.Read|state.Write)
}

func (*Increment) Execute(
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
	count, err := smath.Add64(counter.Count, 1)
	if err != nil {
		return nil, fmt.Errorf("%w: count: %w", ErrOverflow, err)
	}
	total, err := smath.Add64(counter.TotalIncrements, 1)
	if err != nil {
		return nil, fmt.Errorf("%w: total increments: %w", ErrOverflow, err)
	}
	counter.Count = count
	counter.TotalIncrements = total
	if err := storage.SetCounter(ctx, mu, key, counter); err != nil {
		return nil, err
	}
	return OutputCounterIncremented(count), nil
}

func (*Increment) Size() int {
	return 0
}

func (*Increment) Marshal(*codec.Packer) {}

func UnmarshalIncrement(*codec.Packer) (chain.Action, error) {
	return &Increment{}, nil
}
