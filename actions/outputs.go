// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package actions

import (
	"fmt"

	"github.com/ava-labs/countervm/codec"
)

var OutputCounterReset = []byte("counter reset to 0")

func OutputCounterInitialized(owner codec.Address) []byte {
	return []byte(fmt.Sprintf("counter initialized for user: %s", owner))
}

func OutputCounterIncremented(count uint64) []byte {
	return []byte(fmt.Sprintf("counter incremented to: %d", count))
}
