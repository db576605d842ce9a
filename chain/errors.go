// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package chain

import "errors"

var (
	// Parsing
	ErrInvalidObject  = errors.New("invalid object")
	ErrDuplicateItem  = errors.New("duplicate item")
	ErrUnknownTypeID  = errors.New("unknown type id")
	ErrMisalignedTime = errors.New("misaligned time")

	// Execution
	ErrTimestampTooLate  = errors.New("timestamp too late")
	ErrTimestampTooEarly = errors.New("timestamp too early")
	ErrInvalidChainID    = errors.New("invalid chain ID")
	ErrDuplicateTx       = errors.New("duplicate transaction")
	ErrInvalidKeyValue   = errors.New("invalid key or value")
	ErrAuthNotVerified   = errors.New("auth not verified")
	ErrMissingAction     = errors.New("missing action")
	ErrMissingAuth       = errors.New("missing auth")
)
