// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cli

import (
	"github.com/ava-labs/countervm/pebble"
)

// Handler serves the commands of the counter CLI. Keys and the default
// endpoint are kept in a local pebble database.
type Handler struct {
	db *pebble.Database
}

func New(dbPath string) (*Handler, error) {
	db, _, err := pebble.New(dbPath, pebble.NewDefaultConfig())
	if err != nil {
		return nil, err
	}
	return &Handler{db}, nil
}
