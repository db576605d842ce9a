// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package pubsub

import (
	"sync"

	"github.com/ava-labs/avalanchego/utils/set"
)

// Connections is a set of client connections that is safe for concurrent
// use. Add and Remove report whether they changed the set so callers can
// keep counts without a separate lookup.
type Connections struct {
	lock  sync.RWMutex
	conns set.Set[*Connection]
}

func NewConnections() *Connections {
	return &Connections{}
}

// Conns returns a snapshot of the set.
func (c *Connections) Conns() []*Connection {
	c.lock.RLock()
	defer c.lock.RUnlock()

	return c.conns.List()
}

func (c *Connections) Has(conn *Connection) bool {
	c.lock.RLock()
	defer c.lock.RUnlock()

	return c.conns.Contains(conn)
}

func (c *Connections) Add(conn *Connection) bool {
	c.lock.Lock()
	defer c.lock.Unlock()

	if c.conns.Contains(conn) {
		return false
	}
	c.conns.Add(conn)
	return true
}

func (c *Connections) Remove(conn *Connection) bool {
	c.lock.Lock()
	defer c.lock.Unlock()

	if !c.conns.Contains(conn) {
		return false
	}
	c.conns.Remove(conn)
	return true
}

func (c *Connections) Len() int {
	c.lock.RLock()
	defer c.lock.RUnlock()

	return c.conns.Len()
}
