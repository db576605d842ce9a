// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package rpc

import (
	"context"
	"strings"
	"time"

	"github.com/ava-labs/avalanchego/ids"

	"github.com/ava-labs/countervm/actions"
	"github.com/ava-labs/countervm/auth"
	"github.com/ava-labs/countervm/chain"
	"github.com/ava-labs/countervm/codec"
	"github.com/ava-labs/countervm/consts"
	"github.com/ava-labs/countervm/requester"
	"github.com/ava-labs/countervm/storage"
	"github.com/ava-labs/countervm/utils"
)

type JSONRPCClient struct {
	requester *requester.EndpointRequester

	actionRegistry chain.ActionRegistry
	authRegistry   chain.AuthRegistry

	network *NetworkReply
}

func NewJSONRPCClient(uri string) (*JSONRPCClient, error) {
	uri = strings.TrimSuffix(uri, "/")
	uri += JSONRPCEndpoint
	actionRegistry, err := actions.NewRegistry()
	if err != nil {
		return nil, err
	}
	authRegistry, err := auth.NewRegistry()
	if err != nil {
		return nil, err
	}
	return &JSONRPCClient{
		requester:      requester.New(uri, Name),
		actionRegistry: actionRegistry,
		authRegistry:   authRegistry,
	}, nil
}

func (cli *JSONRPCClient) Ping(ctx context.Context) (bool, error) {
	resp := new(PingReply)
	err := cli.requester.SendRequest(ctx,
		"ping",
		nil,
		resp,
	)
	return resp.Success, err
}

// Network returns the namespace and validity window of the node. The reply
// is cached after the first call.
func (cli *JSONRPCClient) Network(ctx context.Context) (*NetworkReply, error) {
	if cli.network != nil {
		return cli.network, nil
	}
	resp := new(NetworkReply)
	err := cli.requester.SendRequest(
		ctx,
		"network",
		nil,
		resp,
	)
	if err != nil {
		return nil, err
	}
	cli.network = resp
	return resp, nil
}

func (cli *JSONRPCClient) SubmitTx(ctx context.Context, d []byte) (*SubmitTxReply, error) {
	resp := new(SubmitTxReply)
	err := cli.requester.SendRequest(
		ctx,
		"submitTx",
		&SubmitTxArgs{Tx: d},
		resp,
	)
	return resp, err
}

func (cli *JSONRPCClient) Counter(ctx context.Context, owner codec.Address) (*storage.Counter, error) {
	resp := new(CounterReply)
	err := cli.requester.SendRequest(
		ctx,
		"counter",
		&AddressArgs{Owner: owner},
		resp,
	)
	if err != nil {
		return nil, err
	}
	return resp.Counter, nil
}

func (cli *JSONRPCClient) CounterAddress(ctx context.Context, owner codec.Address) (codec.Address, uint8, error) {
	resp := new(CounterAddressReply)
	err := cli.requester.SendRequest(
		ctx,
		"counterAddress",
		&AddressArgs{Owner: owner},
		resp,
	)
	return resp.Location, resp.Bump, err
}

func (cli *JSONRPCClient) Tx(ctx context.Context, txID ids.ID) (bool, int64, bool, error) {
	resp := new(TxReply)
	err := cli.requester.SendRequest(
		ctx,
		"tx",
		&TxArgs{TxID: txID},
		resp,
	)
	return resp.Exists, resp.Timestamp, resp.Success, err
}

// GenerateTransaction signs [action] with an expiry [offset] ms before the
// end of the validity window.
func (cli *JSONRPCClient) GenerateTransaction(
	ctx context.Context,
	action chain.Action,
	factory chain.AuthFactory,
	offset int64,
) (*chain.Transaction, error) {
	network, err := cli.Network(ctx)
	if err != nil {
		return nil, err
	}
	base := &chain.Base{
		Timestamp: utils.UnixRMilli(-1, network.ValidityWindow-offset),
		ChainID:   network.Namespace,
	}
	return chain.NewTx(base, action).Sign(factory, cli.actionRegistry, cli.authRegistry)
}

// Execute generates and submits [action]. An identical tx that was already
// processed is retried with an earlier expiry.
func (cli *JSONRPCClient) Execute(
	ctx context.Context,
	action chain.Action,
	factory chain.AuthFactory,
) (*SubmitTxReply, error) {
	network, err := cli.Network(ctx)
	if err != nil {
		return nil, err
	}
	for offset := int64(0); offset < network.ValidityWindow; offset += consts.MillisecondsPerSecond {
		tx, err := cli.GenerateTransaction(ctx, action, factory, offset)
		if err != nil {
			return nil, err
		}
		reply, err := cli.SubmitTx(ctx, tx.Bytes())
		if err != nil && strings.Contains(err.Error(), chain.ErrDuplicateTx.Error()) {
			continue
		}
		if reply.TxID == ids.Empty {
			reply.TxID = tx.ID()
		}
		return reply, err
	}
	return nil, chain.ErrDuplicateTx
}

// WaitForCounter polls until [check] accepts the counter of [owner] or [ctx]
// is done.
func (cli *JSONRPCClient) WaitForCounter(
	ctx context.Context,
	owner codec.Address,
	check func(*storage.Counter) bool,
) (*storage.Counter, error) {
	ticker := time.NewTicker(waitSleep)
	defer ticker.Stop()
	for {
		counter, err := cli.Counter(ctx, owner)
		if err == nil && check(counter) {
			return counter, nil
		}
		select {
		case <-ticker.C:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
}

const waitSleep = 500 * time.Millisecond
