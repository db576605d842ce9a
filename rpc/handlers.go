// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package rpc

import (
	"net/http"

	"github.com/ava-labs/countervm/server"
)

// Handlers returns the endpoints served for [c], keyed by path relative to
// the base URL of the node.
func Handlers(c Controller, feed http.Handler) (map[string]http.Handler, error) {
	jsonRPCHandler, err := server.NewJSONRPCHandler(NewJSONRPCServer(c), Name)
	if err != nil {
		return nil, err
	}
	return map[string]http.Handler{
		JSONRPCEndpoint:   jsonRPCHandler,
		WebSocketEndpoint: feed,
	}, nil
}
