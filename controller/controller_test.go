// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package controller

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/ava-labs/avalanchego/database/memdb"
	"github.com/ava-labs/avalanchego/ids"
	"github.com/ava-labs/avalanchego/trace"
	"github.com/ava-labs/avalanchego/utils/logging"
	"github.com/ava-labs/avalanchego/utils/timer/mockable"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	dto "github.com/prometheus/client_model/go"

	"github.com/ava-labs/countervm/actions"
	"github.com/ava-labs/countervm/auth"
	"github.com/ava-labs/countervm/chain"
	"github.com/ava-labs/countervm/config"
	"github.com/ava-labs/countervm/crypto/ed25519"
	"github.com/ava-labs/countervm/storage"
)

const testNow int64 = 1_700_000_000_000

func newTestController(t *testing.T) *Controller {
	require := require.New(t)

	cfg := config.NewDefaultConfig()
	cfg.Namespace = ids.GenerateTestID()
	cfg.AuthBatchSize = ed25519.MinBatchSize
	clock := &mockable.Clock{}
	clock.Set(time.UnixMilli(testNow))
	c, err := New(logging.NoLog{}, trace.Noop, memdb.New(), cfg, clock, prometheus.NewRegistry())
	require.NoError(err)
	return c
}

func newFactory(t *testing.T) *auth.ED25519Factory {
	priv, err := ed25519.GeneratePrivateKey()
	require.NoError(t, err)
	return auth.NewED25519Factory(priv)
}

func requireCounter(t *testing.T, c *Controller, factory chain.AuthFactory, count, total uint64) {
	counter, err := c.GetCounter(context.Background(), factory.Address())
	require.NoError(t, err)
	require.Equal(t, factory.Address(), counter.Owner)
	require.Equal(t, count, counter.Count)
	require.Equal(t, total, counter.TotalIncrements)
}

func TestCounterEndToEnd(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	c := newTestController(t)
	factory := newFactory(t)

	_, err := c.GetCounter(ctx, factory.Address())
	require.ErrorIs(err, storage.ErrCounterNotFound)

	result, err := c.Initialize(ctx, factory)
	require.NoError(err)
	require.Equal(actions.OutputCounterInitialized(factory.Address()), result.Output)
	requireCounter(t, c, factory, 0, 0)

	// Identical increments at the same instant each get a distinct tx.
	for i := uint64(1); i <= 3; i++ {
		result, err := c.Increment(ctx, factory)
		require.NoError(err)
		require.Equal(actions.OutputCounterIncremented(i), result.Output)
	}
	requireCounter(t, c, factory, 3, 3)

	result, err = c.Reset(ctx, factory)
	require.NoError(err)
	require.Equal(actions.OutputCounterReset, result.Output)
	requireCounter(t, c, factory, 0, 3)

	_, err = c.Increment(ctx, factory)
	require.NoError(err)
	requireCounter(t, c, factory, 1, 4)

	result, err = c.Initialize(ctx, factory)
	require.ErrorIs(err, storage.ErrCounterExists)
	require.False(result.Success)
	requireCounter(t, c, factory, 1, 4)

	seen, ts, success, err := c.GetTransaction(ctx, result.TxID)
	require.NoError(err)
	require.True(seen)
	require.Equal(testNow, ts)
	require.False(success)

	location, bump, err := c.CounterAddress(factory.Address())
	require.NoError(err)
	require.True(storage.VerifyLocation(c.Namespace(), factory.Address(), location, bump))
}

func TestSubmitBatch(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	c := newTestController(t)

	factories := make([]*auth.ED25519Factory, 6)
	txs := make([]*chain.Transaction, len(factories))
	for i := range factories {
		factories[i] = newFactory(t)
		base := &chain.Base{Timestamp: testNow, ChainID: c.Namespace()}
		tx, err := chain.NewTx(base, &actions.Initialize{}).Sign(factories[i], c.actionRegistry, c.authRegistry)
		require.NoError(err)
		txs[i] = tx
	}

	results, errs := c.Submit(ctx, txs)
	for i := range txs {
		require.NoError(errs[i])
		require.True(results[i].Success)
		requireCounter(t, c, factories[i], 0, 0)
	}

	// A forged signature fails the batch and is caught individually.
	forged := make([]*chain.Transaction, len(factories))
	for i, factory := range factories {
		base := &chain.Base{Timestamp: testNow + 1_000, ChainID: c.Namespace()}
		tx, err := chain.NewTx(base, &actions.Increment{}).Sign(factory, c.actionRegistry, c.authRegistry)
		require.NoError(err)
		forged[i] = tx
	}
	forged[2].Auth.(*auth.ED25519).Signature = forged[3].Auth.(*auth.ED25519).Signature
	results, errs = c.Submit(ctx, forged)
	for i := range forged {
		if i == 2 {
			require.ErrorIs(errs[i], chain.ErrAuthNotVerified)
			require.Nil(results[i])
			requireCounter(t, c, factories[i], 0, 0)
			continue
		}
		require.NoError(errs[i])
		requireCounter(t, c, factories[i], 1, 1)
	}
}

func TestFeed(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	c := newTestController(t)
	factory := newFactory(t)
	other := newFactory(t)

	s := httptest.NewServer(c.Feed())
	defer s.Close()
	conn, resp, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(s.URL, "http"), nil)
	require.NoError(err)
	require.NoError(resp.Body.Close())
	defer conn.Close()

	owner := factory.Address()
	require.NoError(conn.WriteMessage(websocket.BinaryMessage, owner[:]))
	require.Eventually(func() bool {
		c.feed.l.Lock()
		defer c.feed.l.Unlock()
		_, ok := c.feed.owners[owner]
		return ok
	}, time.Second, 10*time.Millisecond)

	_, err = c.Initialize(ctx, other)
	require.NoError(err)
	_, err = c.Initialize(ctx, factory)
	require.NoError(err)

	_, msg, err := conn.ReadMessage()
	require.NoError(err)
	result, err := chain.ParseResult(msg)
	require.NoError(err)
	require.Equal(owner, result.Actor)
	require.True(result.Success)
	require.Equal(actions.OutputCounterInitialized(owner), result.Output)
}

func feedSubscriptions(f *feed) float64 {
	var m dto.Metric
	_ = f.metrics.subscribers.Write(&m)
	return m.GetGauge().GetValue()
}

func TestFeedDisconnect(t *testing.T) {
	require := require.New(t)
	c := newTestController(t)
	owner := newFactory(t).Address()

	s := httptest.NewServer(c.Feed())
	defer s.Close()

	const clients = 10
	conns := make([]*websocket.Conn, 0, clients)
	for i := 0; i < clients; i++ {
		conn, resp, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(s.URL, "http"), nil)
		require.NoError(err)
		require.NoError(resp.Body.Close())
		require.NoError(conn.WriteMessage(websocket.BinaryMessage, nil))
		require.NoError(conn.WriteMessage(websocket.BinaryMessage, owner[:]))
		// repeated subscriptions are not counted twice
		require.NoError(conn.WriteMessage(websocket.BinaryMessage, owner[:]))
		conns = append(conns, conn)
	}
	require.Eventually(func() bool {
		return feedSubscriptions(c.feed) == 2*clients
	}, time.Second, 10*time.Millisecond)

	c.feed.l.Lock()
	require.Equal(clients, c.feed.all.Len())
	require.Equal(clients, c.feed.owners[owner].Len())
	c.feed.l.Unlock()

	for _, conn := range conns {
		require.NoError(conn.Close())
	}
	require.Eventually(func() bool {
		c.feed.l.Lock()
		defer c.feed.l.Unlock()
		return c.feed.all.Len() == 0 && len(c.feed.owners) == 0 && len(c.feed.subs) == 0
	}, time.Second, 10*time.Millisecond)
	require.Zero(c.feed.server.Connections())
	require.Zero(feedSubscriptions(c.feed))
}
