// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cli

import (
	"context"
	"time"

	"github.com/ava-labs/countervm/actions"
	"github.com/ava-labs/countervm/auth"
	"github.com/ava-labs/countervm/chain"
	"github.com/ava-labs/countervm/codec"
	"github.com/ava-labs/countervm/rpc"
	"github.com/ava-labs/countervm/storage"
	"github.com/ava-labs/countervm/utils"
)

func (h *Handler) client() (*rpc.JSONRPCClient, error) {
	uri, err := h.GetDefaultEndpoint()
	if err != nil {
		return nil, err
	}
	utils.Outf("{{yellow}}endpoint:{{/}} %s\n", uri)
	return rpc.NewJSONRPCClient(uri)
}

// SetEndpoint checks that a node is reachable at [uri] and stores it as the
// default.
func (h *Handler) SetEndpoint(ctx context.Context, uri string) error {
	cli, err := rpc.NewJSONRPCClient(uri)
	if err != nil {
		return err
	}
	network, err := cli.Network(ctx)
	if err != nil {
		return err
	}
	utils.Outf(
		"{{green}}connected to %s{{/}} {{yellow}}version:{{/}} %s {{yellow}}namespace:{{/}} %s\n",
		network.Name,
		network.Version,
		network.Namespace,
	)
	return h.StoreDefaultEndpoint(uri)
}

func (h *Handler) execute(ctx context.Context, action chain.Action) (*rpc.SubmitTxReply, error) {
	priv, err := h.GetDefaultKey(true)
	if err != nil {
		return nil, err
	}
	cli, err := h.client()
	if err != nil {
		return nil, err
	}
	reply, err := cli.Execute(ctx, action, auth.NewED25519Factory(priv))
	if err != nil {
		utils.Outf("{{red}}tx failed:{{/}} %s\n", err)
		return nil, err
	}
	PrintResult(reply.Result)
	return reply, nil
}

func (h *Handler) Initialize(ctx context.Context) error {
	_, err := h.execute(ctx, &actions.Initialize{})
	return err
}

func (h *Handler) Increment(ctx context.Context) error {
	_, err := h.execute(ctx, &actions.Increment{})
	return err
}

// Reset sets the count of the default key's counter to zero. Unless [force]
// is set, the user confirms first.
func (h *Handler) Reset(ctx context.Context, force bool) error {
	if !force {
		cont, err := h.PromptContinue()
		if err != nil || !cont {
			return err
		}
	}
	_, err := h.execute(ctx, &actions.Reset{})
	return err
}

// owner returns [addr] if set, otherwise the address of the default key.
func (h *Handler) owner(addr string) (codec.Address, error) {
	if len(addr) > 0 {
		return codec.ParseAddress(addr)
	}
	priv, err := h.GetDefaultKey(false)
	if err != nil {
		return codec.EmptyAddress, err
	}
	return auth.NewED25519Address(priv.PublicKey()), nil
}

func (h *Handler) Counter(ctx context.Context, addr string) (*storage.Counter, error) {
	owner, err := h.owner(addr)
	if err != nil {
		return nil, err
	}
	cli, err := h.client()
	if err != nil {
		return nil, err
	}
	counter, err := cli.Counter(ctx, owner)
	if err != nil {
		utils.Outf("{{red}}counter unavailable:{{/}} %s\n", err)
		return nil, err
	}
	PrintCounter(counter)
	return counter, nil
}

func (h *Handler) CounterAddress(ctx context.Context, addr string) error {
	owner, err := h.owner(addr)
	if err != nil {
		return err
	}
	cli, err := h.client()
	if err != nil {
		return err
	}
	location, bump, err := cli.CounterAddress(ctx, owner)
	if err != nil {
		return err
	}
	utils.Outf("{{yellow}}owner:{{/}} %s\n{{yellow}}location:{{/}} %s {{yellow}}bump:{{/}} %d\n", owner, location, bump)
	return nil
}

// Watch prints executed results until [ctx] is done. If [all] is set every
// owner is followed, otherwise only [addr] (or the default key).
func (h *Handler) Watch(ctx context.Context, addr string, all bool) error {
	uri, err := h.GetDefaultEndpoint()
	if err != nil {
		return err
	}
	ws, err := rpc.NewWebSocketClient(uri)
	if err != nil {
		return err
	}
	go func() {
		<-ctx.Done()
		_ = ws.Close()
	}()
	if all {
		err = ws.SubscribeAll()
	} else {
		var owner codec.Address
		owner, err = h.owner(addr)
		if err != nil {
			_ = ws.Close()
			return err
		}
		err = ws.Subscribe(owner)
	}
	if err != nil {
		_ = ws.Close()
		return err
	}
	utils.Outf("{{green}}watching for results{{/}}\n")
	for {
		result, err := ws.ListenResult()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}
		PrintResult(result)
	}
}

func PrintResult(result *chain.Result) {
	if result == nil {
		return
	}
	ts := time.UnixMilli(result.Timestamp).UTC().Format(time.RFC3339)
	if result.Success {
		utils.Outf(
			"{{green}}%s{{/}} {{yellow}}txID:{{/}} %s {{yellow}}actor:{{/}} %s {{yellow}}time:{{/}} %s\n",
			result.Output,
			result.TxID,
			result.Actor,
			ts,
		)
		return
	}
	utils.Outf(
		"{{red}}failed: %s{{/}} {{yellow}}txID:{{/}} %s {{yellow}}actor:{{/}} %s {{yellow}}time:{{/}} %s\n",
		result.Error,
		result.TxID,
		result.Actor,
		ts,
	)
}

func PrintCounter(counter *storage.Counter) {
	created := time.Unix(counter.CreatedAt, 0).UTC().Format(time.RFC3339)
	utils.Outf(
		"{{yellow}}owner:{{/}} %s\n{{yellow}}count:{{/}} %d\n{{yellow}}total increments:{{/}} %d\n{{yellow}}created:{{/}} %s\n",
		counter.Owner,
		counter.Count,
		counter.TotalIncrements,
		created,
	)
}
