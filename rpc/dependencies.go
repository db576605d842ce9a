// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package rpc

import (
	"context"

	"github.com/ava-labs/avalanchego/ids"
	"github.com/ava-labs/avalanchego/trace"
	"github.com/ava-labs/avalanchego/utils/logging"

	"github.com/ava-labs/countervm/chain"
	"github.com/ava-labs/countervm/codec"
	"github.com/ava-labs/countervm/storage"
)

type Controller interface {
	Logger() logging.Logger
	Tracer() trace.Tracer
	Namespace() ids.ID
	ValidityWindow() int64
	Registry() (chain.ActionRegistry, chain.AuthRegistry)
	Submit(ctx context.Context, txs []*chain.Transaction) ([]*chain.Result, []error)
	GetCounter(ctx context.Context, owner codec.Address) (*storage.Counter, error)
	CounterAddress(owner codec.Address) (codec.Address, uint8, error)
	GetTransaction(ctx context.Context, txID ids.ID) (bool, int64, bool, error)
}
