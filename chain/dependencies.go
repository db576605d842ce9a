// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package chain

import (
	"context"

	"github.com/ava-labs/avalanchego/database"
	"github.com/ava-labs/avalanchego/ids"

	"github.com/ava-labs/countervm/codec"
	"github.com/ava-labs/countervm/state"
)

// Database is the committed store a [Processor] reads scope from and writes
// finished units of work to.
type Database interface {
	database.KeyValueReaderWriterDeleter
	database.Batcher
}

type Rules interface {
	// GetChainID is the namespace every derived location and signed
	// transaction is scoped to.
	GetChainID() ids.ID

	GetValidityWindow() int64 // in milliseconds
}

type Action interface {
	// GetTypeID uniquely identifies each supported [Action]. We use IDs to avoid
	// reflection.
	GetTypeID() uint8

	// StateKeys is a full enumeration of all database keys that could be touched during execution
	// of an [Action]. This is used to serialize units of work that touch the
	// same keys and to load their scope before execution.
	//
	// All keys specified must be suffixed with the number of chunks that could ever be read from that
	// key (formatted as a big-endian uint16). This is used to automatically calculate storage usage.
	StateKeys(actor codec.Address, namespace ids.ID) state.Keys

	// Execute actually runs the [Action]. Any state changes that the [Action] performs should
	// be done here.
	//
	// If any keys are touched during [Execute] that are not specified in [StateKeys], the transaction
	// will revert and the error will be returned.
	//
	// [output] is a human-readable message describing the effect of the action.
	Execute(
		ctx context.Context,
		r Rules,
		mu state.Mutable,
		timestamp int64,
		actor codec.Address,
		txID ids.ID,
	) (output []byte, err error)

	// Size is the number of bytes it takes to represent this [Action]. This is used to preallocate
	// memory during encoding.
	Size() int

	// Marshal encodes an [Action] as bytes.
	Marshal(p *codec.Packer)
}

type Auth interface {
	// GetTypeID uniquely identifies each supported [Auth]. We use IDs to avoid
	// reflection.
	GetTypeID() uint8

	// Verify is run concurrently during transaction verification. It may not be run by the time
	// a transaction is executed but will be checked before a [Transaction] is considered successful.
	// Verify is typically used to perform cryptographic operations.
	Verify(ctx context.Context, msg []byte) error

	// Actor is the subject of the [Action] signed.
	//
	// To avoid collisions with other [Auth] modules, this must be prefixed
	// by the [TypeID].
	Actor() codec.Address

	// Size is the number of bytes it takes to represent this [Auth]. This is used to preallocate
	// memory during encoding.
	Size() int

	// Marshal encodes an [Auth] as bytes.
	Marshal(p *codec.Packer)
}

// AuthBatchVerifier verifies many signatures at once. [Add] returns a
// function to run when a batch fills up (or nil); [Done] returns whatever
// work remains.
type AuthBatchVerifier interface {
	Add([]byte, Auth) func() error
	Done() []func() error
}

type AuthEngine interface {
	GetBatchVerifier(count int) AuthBatchVerifier
}

type AuthFactory interface {
	// Sign is used by helpers, auth object should store internally to be ready for marshaling
	Sign(msg []byte) (Auth, error)
	Address() codec.Address
}
