// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/ava-labs/avalanchego/database"
	"github.com/ava-labs/avalanchego/ids"
	"github.com/ava-labs/avalanchego/utils/hashing"
	"github.com/near/borsh-go"

	"github.com/ava-labs/countervm/codec"
	"github.com/ava-labs/countervm/consts"
	"github.com/ava-labs/countervm/keys"
	"github.com/ava-labs/countervm/state"
)

// State
// 0x0/ (counters)
//   -> [location] => discriminator|owner|count|totalIncrements|createdAt
// 0x1/ (reserved: tx metadata, see chain)

const counterPrefix = 0x0

const (
	HeaderSize  = 8
	CounterSize = HeaderSize + codec.AddressLen + consts.Uint64Len*2 + consts.Int64Len

	CounterChunks uint16 = 2
)

var (
	// counterDiscriminator tags every counter value so that the storage layer
	// can reject bytes that were not written as a counter record.
	counterDiscriminator = hashing.ComputeHash256([]byte("account:Counter"))[:HeaderSize]
)

// Counter is the record kept for every owner.
type Counter struct {
	Owner           codec.Address `json:"owner"`
	Count           uint64        `json:"count"`
	TotalIncrements uint64        `json:"totalIncrements"`
	CreatedAt       int64         `json:"createdAt"`
}

// MarshalCounter encodes [c] as a fixed header followed by the borsh body.
func MarshalCounter(c *Counter) ([]byte, error) {
	body, err := borsh.Serialize(*c)
	if err != nil {
		return nil, err
	}
	v := make([]byte, 0, CounterSize)
	v = append(v, counterDiscriminator...)
	v = append(v, body...)
	if len(v) != CounterSize {
		return nil, fmt.Errorf("%w: encoded %d bytes", ErrInvalidRecord, len(v))
	}
	return v, nil
}

// UnmarshalCounter decodes a value produced by [MarshalCounter].
func UnmarshalCounter(v []byte) (*Counter, error) {
	if len(v) != CounterSize {
		return nil, fmt.Errorf("%w: size %d != %d", ErrInvalidRecord, len(v), CounterSize)
	}
	if string(v[:HeaderSize]) != string(counterDiscriminator) {
		return nil, fmt.Errorf("%w: unexpected discriminator %x", ErrInvalidRecord, v[:HeaderSize])
	}
	var c Counter
	if err := borsh.Deserialize(&c, v[HeaderSize:]); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidRecord, err)
	}
	return &c, nil
}

// [counterPrefix] + [location] + [chunks]
func CounterKey(location codec.Address) []byte {
	k := make([]byte, 0, 1+codec.AddressLen+consts.Uint16Len)
	k = append(k, counterPrefix)
	k = append(k, location[:]...)
	return keys.EncodeChunks(k, CounterChunks)
}

// OwnerCounterKey derives the location of [owner]'s counter and returns its
// state key.
func OwnerCounterKey(namespace ids.ID, owner codec.Address) ([]byte, error) {
	location, _, err := DeriveLocation(namespace, owner)
	if err != nil {
		return nil, err
	}
	return CounterKey(location), nil
}

// GetCounter loads the counter stored at [key].
func GetCounter(ctx context.Context, im state.Immutable, key []byte) (*Counter, error) {
	return innerGetCounter(im.GetValue(ctx, key))
}

// GetCounterFromDB is used to serve read-only queries from the committed
// database.
func GetCounterFromDB(db database.KeyValueReader, namespace ids.ID, owner codec.Address) (*Counter, error) {
	k, err := OwnerCounterKey(namespace, owner)
	if err != nil {
		return nil, err
	}
	return innerGetCounter(db.Get(k))
}

func innerGetCounter(v []byte, err error) (*Counter, error) {
	if errors.Is(err, database.ErrNotFound) {
		return nil, ErrCounterNotFound
	}
	if err != nil {
		return nil, err
	}
	return UnmarshalCounter(v)
}

// CreateCounter allocates [c] at [key]. The key must not already hold a
// value.
func CreateCounter(ctx context.Context, mu state.Mutable, key []byte, c *Counter) error {
	_, err := mu.GetValue(ctx, key)
	switch {
	case err == nil:
		return ErrCounterExists
	case !errors.Is(err, database.ErrNotFound):
		return err
	}
	return SetCounter(ctx, mu, key, c)
}

// SetCounter overwrites the value at [key] with [c].
func SetCounter(ctx context.Context, mu state.Mutable, key []byte, c *Counter) error {
	v, err := MarshalCounter(c)
	if err != nil {
		return err
	}
	return mu.Insert(ctx, key, v)
}
