// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package pubsub

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/ava-labs/avalanchego/utils/logging"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"
)

func dial(t *testing.T, url string) *websocket.Conn {
	conn, resp, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(url, "http"), nil)
	require.NoError(t, err)
	require.NoError(t, resp.Body.Close())
	return conn
}

func TestServerDisconnect(t *testing.T) {
	require := require.New(t)

	subscribers := NewConnections()
	closed := make(chan *Connection, 1)
	server := New(logging.NoLog{}, NewDefaultServerConfig(), func(_ []byte, c *Connection) {
		subscribers.Add(c)
	}, func(c *Connection) {
		if subscribers.Remove(c) {
			closed <- c
		}
	})
	httpServer := httptest.NewServer(server)
	defer httpServer.Close()

	conn := dial(t, httpServer.URL)
	require.NoError(conn.WriteMessage(websocket.BinaryMessage, []byte("subscribe")))
	require.Eventually(func() bool { return subscribers.Len() == 1 }, time.Second, 10*time.Millisecond)

	msg := []byte("counter incremented to: 1")
	server.Publish(msg, subscribers)
	_, got, err := conn.ReadMessage()
	require.NoError(err)
	require.Equal(msg, got)

	require.NoError(conn.Close())
	select {
	case c := <-closed:
		require.False(server.Connected(c))
	case <-time.After(time.Second):
		require.FailNow("close callback not invoked")
	}
	require.Zero(server.Connections())
	require.Zero(subscribers.Len())
}

func TestServerCallback(t *testing.T) {
	require := require.New(t)

	subscribers := NewConnections()
	var server *Server
	server = New(logging.NoLog{}, NewDefaultServerConfig(), func(msg []byte, c *Connection) {
		if string(msg) == "subscribe" {
			subscribers.Add(c)
			server.Publish([]byte("subscribed"), subscribers)
		}
	}, nil)
	httpServer := httptest.NewServer(server)
	defer httpServer.Close()

	subscriber := dial(t, httpServer.URL)
	defer subscriber.Close()
	other := dial(t, httpServer.URL)
	defer other.Close()

	require.NoError(subscriber.WriteMessage(websocket.BinaryMessage, []byte("subscribe")))
	_, got, err := subscriber.ReadMessage()
	require.NoError(err)
	require.Equal([]byte("subscribed"), got)
	require.Equal(1, subscribers.Len())

	server.Publish([]byte("only subscribers"), subscribers)
	_, got, err = subscriber.ReadMessage()
	require.NoError(err)
	require.Equal([]byte("only subscribers"), got)

	server.Close()
	require.Zero(server.Connections())
	_, _, err = other.ReadMessage()
	require.Error(err)
}

func TestConnectionsAddRemove(t *testing.T) {
	require := require.New(t)

	conns := NewConnections()
	a, b := &Connection{}, &Connection{}
	require.True(conns.Add(a))
	require.False(conns.Add(a))
	require.True(conns.Add(b))
	require.Equal(2, conns.Len())
	require.ElementsMatch([]*Connection{a, b}, conns.Conns())

	require.True(conns.Remove(a))
	require.False(conns.Remove(a))
	require.False(conns.Has(a))
	require.True(conns.Has(b))
	require.Equal(1, conns.Len())
}
