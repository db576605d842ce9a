// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cli

import (
	"context"
	"testing"

	"github.com/ava-labs/avalanchego/utils/logging"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v2"
)

const lifecyclePlan = `
name: lifecycle
description: two owners share a node
steps:
  - description: read before initialize
    actor: alice
    action: get
    require:
      error: not found
  - description: alice initializes
    actor: alice
    action: initialize
    require:
      count: 0
      total: 0
  - description: alice increments
    actor: alice
    action: increment
  - description: alice increments again
    actor: alice
    action: increment
    require:
      count: 2
      total: 2
  - description: bob cannot reset without a counter
    actor: bob
    action: reset
    require:
      error: not found
  - description: alice resets
    actor: alice
    action: reset
    require:
      count: 0
      total: 2
  - description: alice initializes twice
    actor: alice
    action: initialize
    require:
      error: already in use
  - description: bob reads alice
    actor: bob
    action: get
    owner: alice
    require:
      count: 0
`

func TestSimulate(t *testing.T) {
	require := require.New(t)

	plan, err := UnmarshalPlan([]byte(lifecyclePlan))
	require.NoError(err)
	require.Equal("lifecycle", plan.Name)

	results, err := Simulate(context.Background(), logging.NoLog{}, plan)
	require.NoError(err)
	require.Len(results, len(plan.Steps))
	require.Equal("counter incremented to: 2", results[3].Output)
	require.NotNil(results[7].Counter)
	require.Equal(uint64(2), results[7].Counter.TotalIncrements)

	_, err = yaml.Marshal(results)
	require.NoError(err)
}

func TestSimulateMismatch(t *testing.T) {
	require := require.New(t)

	plan, err := UnmarshalPlan([]byte(`
steps:
  - actor: alice
    action: initialize
  - actor: alice
    action: increment
    require:
      count: 5
`))
	require.NoError(err)
	results, err := Simulate(context.Background(), logging.NoLog{}, plan)
	require.ErrorIs(err, ErrUnexpected)
	require.Len(results, 2)
}

func TestPlanVerify(t *testing.T) {
	require := require.New(t)

	_, err := UnmarshalPlan([]byte(`name: empty`))
	require.ErrorIs(err, ErrInvalidPlan)

	_, err = UnmarshalPlan([]byte(`
steps:
  - actor: alice
    action: transfer
`))
	require.ErrorIs(err, ErrInvalidStep)

	_, err = UnmarshalPlan([]byte(`
steps:
  - action: get
`))
	require.ErrorIs(err, ErrInvalidStep)
}
