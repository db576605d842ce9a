// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package chain

import (
	"fmt"

	"github.com/ava-labs/countervm/codec"
)

// Registry maps type IDs to the function that decodes them.
type Registry[T any] struct {
	unmarshalers map[uint8]func(*codec.Packer) (T, error)
}

type (
	ActionRegistry = *Registry[Action]
	AuthRegistry   = *Registry[Auth]
)

func NewRegistry[T any]() *Registry[T] {
	return &Registry[T]{unmarshalers: make(map[uint8]func(*codec.Packer) (T, error))}
}

// Register adds [f] as the decoder for [typeID]. IDs may only be registered
// once.
func (r *Registry[T]) Register(typeID uint8, f func(*codec.Packer) (T, error)) error {
	if _, ok := r.unmarshalers[typeID]; ok {
		return fmt.Errorf("%w: type %d", ErrDuplicateItem, typeID)
	}
	r.unmarshalers[typeID] = f
	return nil
}

// Unmarshal reads a type ID from [p] and decodes the matching object.
func (r *Registry[T]) Unmarshal(p *codec.Packer) (T, error) {
	var empty T
	typeID := p.UnpackByte()
	if err := p.Err(); err != nil {
		return empty, err
	}
	f, ok := r.unmarshalers[typeID]
	if !ok {
		return empty, fmt.Errorf("%w: %d", ErrUnknownTypeID, typeID)
	}
	return f(p)
}
