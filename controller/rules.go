// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package controller

import (
	"github.com/ava-labs/avalanchego/ids"

	"github.com/ava-labs/countervm/chain"
)

var _ chain.Rules = (*Rules)(nil)

type Rules struct {
	namespace      ids.ID
	validityWindow int64
}

func NewRules(namespace ids.ID, validityWindow int64) *Rules {
	return &Rules{
		namespace:      namespace,
		validityWindow: validityWindow,
	}
}

func (r *Rules) GetChainID() ids.ID {
	return r.namespace
}

func (r *Rules) GetValidityWindow() int64 {
	return r.validityWindow
}
