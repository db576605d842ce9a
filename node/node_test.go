// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package node

import (
	"context"
	"io"
	"net"
	"net/http"
	"testing"

	"github.com/ava-labs/avalanchego/ids"
	"github.com/ava-labs/avalanchego/utils/logging"
	"github.com/stretchr/testify/require"

	"github.com/ava-labs/countervm/actions"
	"github.com/ava-labs/countervm/auth"
	"github.com/ava-labs/countervm/config"
	"github.com/ava-labs/countervm/crypto/ed25519"
	"github.com/ava-labs/countervm/rpc"
)

func newTestConfig(t *testing.T, dataDir string, namespace ids.ID) *config.Config {
	cfg := config.NewDefaultConfig()
	cfg.Namespace = namespace
	cfg.DataDir = dataDir
	cfg.HTTPPort = 0
	cfg.LogLevel = logging.Off
	cfg.LogDisplayLevel = logging.Off
	cfg.ContinuousProfilerDir = t.TempDir()
	require.NoError(t, cfg.Verify())
	return cfg
}

func startNode(t *testing.T, cfg *config.Config) (*Node, chan error) {
	n, err := New(cfg)
	require.NoError(t, err)
	done := make(chan error, 1)
	go func() {
		done <- n.Run()
	}()
	return n, done
}

func TestNodeRestart(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	dataDir := t.TempDir()
	namespace := ids.GenerateTestID()

	priv, err := ed25519.GeneratePrivateKey()
	require.NoError(err)
	factory := auth.NewED25519Factory(priv)

	n, done := startNode(t, newTestConfig(t, dataDir, namespace))
	cli, err := rpc.NewJSONRPCClient(n.URI())
	require.NoError(err)
	network, err := cli.Network(ctx)
	require.NoError(err)
	require.Equal(namespace, network.Namespace)

	_, err = cli.Execute(ctx, &actions.Initialize{}, factory)
	require.NoError(err)
	_, err = cli.Execute(ctx, &actions.Increment{}, factory)
	require.NoError(err)

	resp, err := http.Get(n.MetricsURI())
	require.NoError(err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(err)
	require.NoError(resp.Body.Close())
	require.Equal(http.StatusOK, resp.StatusCode)
	require.Contains(string(body), "chain_txs_processed 2")
	require.Contains(string(body), "actions_increment 1")
	require.Contains(string(body), "pebble_write_stall")

	require.NoError(n.Shutdown())
	require.NoError(<-done)

	// The counter survives a restart on the same data directory.
	n, done = startNode(t, newTestConfig(t, dataDir, namespace))
	cli, err = rpc.NewJSONRPCClient(n.URI())
	require.NoError(err)
	counter, err := cli.Counter(ctx, factory.Address())
	require.NoError(err)
	require.Equal(uint64(1), counter.Count)
	require.Equal(uint64(1), counter.TotalIncrements)

	_, err = cli.Execute(ctx, &actions.Initialize{}, factory)
	require.Error(err)

	require.NoError(n.Shutdown())
	require.NoError(<-done)
}

func TestNodeFeed(t *testing.T) {
	require := require.New(t)

	n, done := startNode(t, newTestConfig(t, t.TempDir(), ids.GenerateTestID()))
	ws, err := rpc.NewWebSocketClient(n.URI())
	require.NoError(err)
	require.NoError(ws.SubscribeAll())
	require.NoError(ws.Close())

	require.NoError(n.Shutdown())
	require.NoError(<-done)
}

func TestNodeCloseBeforeRun(t *testing.T) {
	require := require.New(t)

	n, err := New(newTestConfig(t, t.TempDir(), ids.GenerateTestID()))
	require.NoError(err)
	require.NotNil(n.server)
	addr := n.listener.Addr().String()

	// Without [Run] the server never took ownership of the listener.
	require.NoError(n.close())
	l, err := net.Listen("tcp", addr)
	require.NoError(err)
	require.NoError(l.Close())
}
