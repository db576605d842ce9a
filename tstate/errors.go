// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package tstate

import "errors"

var (
	ErrInvalidKeyOrPermission = errors.New("key is not specified or does not have the required permission")
	ErrInvalidKeyValue        = errors.New("invalid key or value")
)
