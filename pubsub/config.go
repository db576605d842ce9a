// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package pubsub

import (
	"time"

	"github.com/ava-labs/avalanchego/utils/units"
)

type ServerConfig struct {
	// Size of the ws read buffer
	ReadBufferSize int `json:"readBufferSize"`
	// Size of the ws write buffer
	WriteBufferSize int `json:"writeBufferSize"`
	// Maximum number of pending messages to send to a peer.
	MaxPendingMessages int `json:"maxPendingMessages"`
	// Maximum message size in bytes allowed from peer.
	MaxReadMessageSize int64 `json:"maxReadMessageSize"`
	// Time allowed to write a message to the peer.
	WriteWait time.Duration `json:"writeWait"`
	// Time allowed to read the next pong message from the peer.
	PongWait time.Duration `json:"pongWait"`
	// Send pings to peer with this period. Must be less than pongWait.
	PingPeriod time.Duration `json:"pingPeriod"`
}

// NewDefaultServerConfig sizes buffers for result messages, which are well
// under a KiB, and pings often enough to stay inside [PongWait].
func NewDefaultServerConfig() ServerConfig {
	const pongWait = time.Minute
	return ServerConfig{
		ReadBufferSize:     units.KiB,
		WriteBufferSize:    units.KiB,
		MaxPendingMessages: 1024,
		// subscriptions are at most an address
		MaxReadMessageSize: units.KiB,
		WriteWait:          10 * time.Second,
		PongWait:           pongWait,
		PingPeriod:         pongWait * 9 / 10,
	}
}
