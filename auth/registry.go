// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package auth

import (
	"github.com/ava-labs/countervm/chain"
	"github.com/ava-labs/countervm/consts"
)

// NewRegistry returns the auth registry with every supported signer.
func NewRegistry() (chain.AuthRegistry, error) {
	r := chain.NewRegistry[chain.Auth]()
	if err := r.Register(consts.ED25519ID, UnmarshalED25519); err != nil {
		return nil, err
	}
	return r, nil
}

// Engines returns the batch verification engines keyed by auth type.
func Engines() map[uint8]chain.AuthEngine {
	return map[uint8]chain.AuthEngine{
		consts.ED25519ID: &ED25519AuthEngine{},
	}
}
