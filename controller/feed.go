// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package controller

import (
	"sync"

	"github.com/ava-labs/avalanchego/utils/logging"
	"go.uber.org/zap"

	"github.com/ava-labs/countervm/chain"
	"github.com/ava-labs/countervm/codec"
	"github.com/ava-labs/countervm/pubsub"
)

// feed publishes executed results to websocket subscribers. A client sends
// an empty message to follow every owner or a 32 byte address to follow a
// single owner. Subscriptions are dropped when the client disconnects.
type feed struct {
	log     logging.Logger
	metrics *metrics
	server  *pubsub.Server

	l      sync.Mutex
	all    *pubsub.Connections
	owners map[codec.Address]*pubsub.Connections
	subs   map[*pubsub.Connection][]codec.Address
}

func newFeed(log logging.Logger, m *metrics, cfg pubsub.ServerConfig) *feed {
	f := &feed{
		log:     log,
		metrics: m,
		all:     pubsub.NewConnections(),
		owners:  make(map[codec.Address]*pubsub.Connections),
		subs:    make(map[*pubsub.Connection][]codec.Address),
	}
	f.server = pubsub.New(log, cfg, f.subscribe, f.unsubscribe)
	return f
}

func (f *feed) subscribe(msg []byte, c *pubsub.Connection) {
	f.l.Lock()
	defer f.l.Unlock()

	// [unsubscribe] may already have run for [c]
	if !f.server.Connected(c) {
		return
	}
	switch len(msg) {
	case 0:
		if !f.all.Add(c) {
			return
		}
	case codec.AddressLen:
		owner := codec.Address(msg)
		conns, ok := f.owners[owner]
		if !ok {
			conns = pubsub.NewConnections()
			f.owners[owner] = conns
		}
		if !conns.Add(c) {
			return
		}
		f.subs[c] = append(f.subs[c], owner)
	default:
		f.log.Debug("ignoring invalid subscription", zap.Int("size", len(msg)))
		return
	}
	f.metrics.subscribers.Inc()
}

func (f *feed) unsubscribe(c *pubsub.Connection) {
	f.l.Lock()
	defer f.l.Unlock()

	if f.all.Remove(c) {
		f.metrics.subscribers.Dec()
	}
	for _, owner := range f.subs[c] {
		conns := f.owners[owner]
		if conns.Remove(c) {
			f.metrics.subscribers.Dec()
		}
		if conns.Len() == 0 {
			delete(f.owners, owner)
		}
	}
	delete(f.subs, c)
}

func (f *feed) publish(result *chain.Result) {
	msg, err := result.Bytes()
	if err != nil {
		f.log.Warn("unable to encode result", zap.Stringer("txID", result.TxID), zap.Error(err))
		return
	}
	f.server.Publish(msg, f.all)

	f.l.Lock()
	conns, ok := f.owners[result.Actor]
	f.l.Unlock()
	if ok {
		f.server.Publish(msg, conns)
	}
}
