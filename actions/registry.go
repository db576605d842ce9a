// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package actions

import (
	"github.com/ava-labs/avalanchego/utils/wrappers"

	"github.com/ava-labs/countervm/chain"
	"github.com/ava-labs/countervm/consts"
)

// NewRegistry returns the registry of every counter action.
func NewRegistry() (chain.ActionRegistry, error) {
	r := chain.NewRegistry[chain.Action]()
	errs := &wrappers.Errs{}
	errs.Add(
		r.Register(consts.InitializeID, UnmarshalInitialize),
		r.Register(consts.IncrementID, UnmarshalIncrement),
		r.Register(consts.ResetID, UnmarshalReset),
	)
	if errs.Errored() {
		return nil, errs.Err
	}
	return r, nil
}
