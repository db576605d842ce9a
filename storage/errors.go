// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package storage

import "errors"

var (
	ErrCounterNotFound = errors.New("counter account not found")
	ErrCounterExists   = errors.New("counter account already in use")
	ErrInvalidRecord   = errors.New("invalid counter record")
	ErrNoViableBump    = errors.New("unable to find a viable bump for derived location")
)
