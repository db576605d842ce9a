// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package chain

import (
	"context"

	"github.com/ava-labs/avalanchego/ids"

	"github.com/ava-labs/countervm/codec"
	"github.com/ava-labs/countervm/consts"
	"github.com/ava-labs/countervm/keys"
	"github.com/ava-labs/countervm/state"
	"github.com/ava-labs/countervm/utils"
)

type Transaction struct {
	Base *Base `json:"base"`

	Action Action `json:"action"`
	Auth   Auth   `json:"auth"`

	digest    []byte
	bytes     []byte
	size      int
	id        ids.ID
	stateKeys state.Keys
}

func NewTx(base *Base, action Action) *Transaction {
	return &Transaction{
		Base:   base,
		Action: action,
	}
}

// Digest is the message signed by [Auth].
func (t *Transaction) Digest() ([]byte, error) {
	if len(t.digest) > 0 {
		return t.digest, nil
	}
	if t.Action == nil {
		return nil, ErrMissingAction
	}
	size := t.Base.Size() + consts.ByteLen + t.Action.Size()
	p := codec.NewWriter(size, consts.NetworkSizeLimit)
	t.Base.Marshal(p)
	p.PackByte(t.Action.GetTypeID())
	t.Action.Marshal(p)
	return p.Bytes(), p.Err()
}

func (t *Transaction) Sign(
	factory AuthFactory,
	actionRegistry ActionRegistry,
	authRegistry AuthRegistry,
) (*Transaction, error) {
	msg, err := t.Digest()
	if err != nil {
		return nil, err
	}
	auth, err := factory.Sign(msg)
	if err != nil {
		return nil, err
	}
	t.Auth = auth

	// Ensure transaction is fully initialized and correct by reloading it from
	// bytes
	size := len(msg) + consts.ByteLen + t.Auth.Size()
	p := codec.NewWriter(size, consts.NetworkSizeLimit)
	if err := t.Marshal(p); err != nil {
		return nil, err
	}
	if err := p.Err(); err != nil {
		return nil, err
	}
	p = codec.NewReader(p.Bytes(), consts.MaxInt)
	return UnmarshalTx(p, actionRegistry, authRegistry)
}

func (t *Transaction) Bytes() []byte { return t.bytes }

func (t *Transaction) Size() int { return t.size }

func (t *Transaction) ID() ids.ID { return t.id }

func (t *Transaction) Expiry() int64 { return t.Base.Timestamp }

// Actor is the identity that signed the transaction.
func (t *Transaction) Actor() codec.Address { return t.Auth.Actor() }

// StateKeys is the union of the keys the action may touch, validated and
// cached after the first call.
func (t *Transaction) StateKeys(namespace ids.ID) (state.Keys, error) {
	if t.stateKeys != nil {
		return t.stateKeys, nil
	}
	stateKeys := make(state.Keys)
	for k, v := range t.Action.StateKeys(t.Auth.Actor(), namespace) {
		if !keys.Valid(k) {
			return nil, ErrInvalidKeyValue
		}
		stateKeys.Add(k, v)
	}
	t.stateKeys = stateKeys
	return stateKeys, nil
}

// VerifyAuth checks the signature over [Digest].
func (t *Transaction) VerifyAuth(ctx context.Context) error {
	msg, err := t.Digest()
	if err != nil {
		return err
	}
	return t.Auth.Verify(ctx, msg)
}

func (t *Transaction) Marshal(p *codec.Packer) error {
	if len(t.bytes) > 0 {
		p.PackFixedBytes(t.bytes)
		return p.Err()
	}
	if t.Action == nil {
		return ErrMissingAction
	}
	if t.Auth == nil {
		return ErrMissingAuth
	}
	t.Base.Marshal(p)
	p.PackByte(t.Action.GetTypeID())
	t.Action.Marshal(p)
	p.PackByte(t.Auth.GetTypeID())
	t.Auth.Marshal(p)
	return p.Err()
}

// UnmarshalTx decodes a signed transaction and computes its ID from the
// bytes consumed.
func UnmarshalTx(
	p *codec.Packer,
	actionRegistry ActionRegistry,
	authRegistry AuthRegistry,
) (*Transaction, error) {
	start := p.Offset()
	base, err := UnmarshalBase(p)
	if err != nil {
		return nil, err
	}
	action, err := actionRegistry.Unmarshal(p)
	if err != nil {
		return nil, err
	}
	digest := p.Offset()
	auth, err := authRegistry.Unmarshal(p)
	if err != nil {
		return nil, err
	}
	if err := p.Err(); err != nil {
		return nil, err
	}

	var tx Transaction
	tx.Base = base
	tx.Action = action
	tx.Auth = auth
	codecBytes := p.Bytes()
	tx.digest = codecBytes[start:digest]
	tx.bytes = codecBytes[start:p.Offset()] // ensure errors handled before grabbing memory
	tx.size = len(tx.bytes)
	tx.id = utils.ToID(tx.bytes)
	return &tx, nil
}

// ParseTx decodes a single transaction that must consume all of [b].
func ParseTx(b []byte, actionRegistry ActionRegistry, authRegistry AuthRegistry) (*Transaction, error) {
	p := codec.NewReader(b, consts.NetworkSizeLimit)
	tx, err := UnmarshalTx(p, actionRegistry, authRegistry)
	if err != nil {
		return nil, err
	}
	if !p.Empty() {
		return nil, codec.ErrExtraBytes
	}
	return tx, nil
}
