// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package rpc

import (
	"strings"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/ava-labs/countervm/chain"
	"github.com/ava-labs/countervm/codec"
)

type WebSocketClient struct {
	conn *websocket.Conn
	wl   sync.Mutex
	rl   sync.Mutex
	cl   sync.Once
}

// NewWebSocketClient dials the result feed of the node at [uri].
func NewWebSocketClient(uri string) (*WebSocketClient, error) {
	uri = strings.TrimSuffix(uri, "/")
	uri = strings.Replace(uri, "http", "ws", 1)
	uri += WebSocketEndpoint
	conn, resp, err := websocket.DefaultDialer.Dial(uri, nil)
	if err != nil {
		return nil, err
	}
	// not using resp for now
	_ = resp.Body.Close()
	return &WebSocketClient{conn: conn}, nil
}

// SubscribeAll requests results for every owner.
func (c *WebSocketClient) SubscribeAll() error {
	c.wl.Lock()
	defer c.wl.Unlock()

	return c.conn.WriteMessage(websocket.BinaryMessage, []byte{})
}

// Subscribe requests results for [owner].
func (c *WebSocketClient) Subscribe(owner codec.Address) error {
	c.wl.Lock()
	defer c.wl.Unlock()

	return c.conn.WriteMessage(websocket.BinaryMessage, owner[:])
}

// ListenResult blocks until the next result arrives.
func (c *WebSocketClient) ListenResult() (*chain.Result, error) {
	c.rl.Lock()
	defer c.rl.Unlock()

	_, msg, err := c.conn.ReadMessage()
	if err != nil {
		return nil, err
	}
	return chain.ParseResult(msg)
}

func (c *WebSocketClient) Close() error {
	var err error
	c.cl.Do(func() {
		err = c.conn.Close()
	})
	return err
}
