// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cli

import "errors"

var (
	ErrInputEmpty      = errors.New("input is empty")
	ErrInvalidChoice   = errors.New("invalid choice")
	ErrIndexOutOfRange = errors.New("index out-of-range")
	ErrDuplicate       = errors.New("duplicate")
	ErrNoKeys          = errors.New("no available keys")
	ErrNoEndpoint      = errors.New("no endpoint set")
	ErrKeyNotFound     = errors.New("key not found")
	ErrCorruptKeyIndex = errors.New("corrupt key index")
	ErrTxFailed        = errors.New("tx failed")
	ErrInvalidPlan     = errors.New("invalid plan")
	ErrInvalidStep     = errors.New("invalid step")
	ErrUnexpected      = errors.New("unexpected step outcome")
)
