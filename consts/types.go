// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package consts

// Note: the registries reject duplicate IDs. IDs are assigned explicitly so
// that reordering declarations never remaps an encoded transaction.
const (
	// Action TypeIDs
	InitializeID uint8 = 0
	IncrementID  uint8 = 1
	ResetID      uint8 = 2

	// Auth TypeIDs
	ED25519ID uint8 = 0
)
