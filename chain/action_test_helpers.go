// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package chain

import (
	"context"
	"testing"

	"github.com/ava-labs/avalanchego/ids"
	"github.com/stretchr/testify/require"

	"github.com/ava-labs/countervm/codec"
	"github.com/ava-labs/countervm/state"
)

type ActionTest struct {
	Name string

	Action Action

	Rules     Rules
	State     state.Mutable
	Timestamp int64
	Actor     codec.Address
	ActionID  ids.ID

	ExpectedOutput []byte
	ExpectedErr    error

	// Assertion runs after [Execute] against the resulting [State].
	Assertion func(context.Context, *testing.T, state.Mutable)
}

type ActionTestSuite struct {
	Tests []ActionTest
}

// Run executes each test in order. Tests may share [State] to express a
// sequence of operations.
func (suite *ActionTestSuite) Run(t *testing.T) {
	for _, test := range suite.Tests {
		t.Run(test.Name, func(t *testing.T) {
			require := require.New(t)
			ctx := context.Background()

			output, err := test.Action.Execute(ctx, test.Rules, test.State, test.Timestamp, test.Actor, test.ActionID)

			require.ErrorIs(err, test.ExpectedErr)
			require.Equal(test.ExpectedOutput, output)

			if test.Assertion != nil {
				test.Assertion(ctx, t, test.State)
			}
		})
	}
}
