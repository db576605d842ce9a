// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package rpc

import (
	"fmt"
	"net/http"

	"github.com/ava-labs/avalanchego/ids"
	"go.uber.org/zap"

	"github.com/ava-labs/countervm/chain"
	"github.com/ava-labs/countervm/codec"
	"github.com/ava-labs/countervm/consts"
	"github.com/ava-labs/countervm/storage"
	"github.com/ava-labs/countervm/version"
)

type JSONRPCServer struct {
	c Controller
}

func NewJSONRPCServer(c Controller) *JSONRPCServer {
	return &JSONRPCServer{c}
}

type PingReply struct {
	Success bool `json:"success"`
}

func (j *JSONRPCServer) Ping(_ *http.Request, _ *struct{}, reply *PingReply) (err error) {
	j.c.Logger().Info("ping")
	reply.Success = true
	return nil
}

type NetworkReply struct {
	Name           string `json:"name"`
	Version        string `json:"version"`
	Namespace      ids.ID `json:"namespace"`
	ValidityWindow int64  `json:"validityWindow"`
}

func (j *JSONRPCServer) Network(_ *http.Request, _ *struct{}, reply *NetworkReply) (err error) {
	reply.Name = consts.Name
	reply.Version = version.Version.String()
	reply.Namespace = j.c.Namespace()
	reply.ValidityWindow = j.c.ValidityWindow()
	return nil
}

type SubmitTxArgs struct {
	Tx []byte `json:"tx"`
}

type SubmitTxReply struct {
	TxID   ids.ID        `json:"txId"`
	Result *chain.Result `json:"result"`
}

// SubmitTx executes a signed transaction. An error is returned if the tx
// was rejected or its action failed; in the latter case the tx is still
// recorded.
func (j *JSONRPCServer) SubmitTx(
	req *http.Request,
	args *SubmitTxArgs,
	reply *SubmitTxReply,
) error {
	ctx, span := j.c.Tracer().Start(req.Context(), "JSONRPCServer.SubmitTx")
	defer span.End()

	actionRegistry, authRegistry := j.c.Registry()
	tx, err := chain.ParseTx(args.Tx, actionRegistry, authRegistry)
	if err != nil {
		return fmt.Errorf("%w: unable to unmarshal on public service", err)
	}
	reply.TxID = tx.ID()
	results, errs := j.c.Submit(ctx, []*chain.Transaction{tx})
	reply.Result = results[0]
	if errs[0] != nil {
		j.c.Logger().Debug("tx not successful",
			zap.Stringer("txID", reply.TxID),
			zap.Error(errs[0]),
		)
	}
	return errs[0]
}

type AddressArgs struct {
	Owner codec.Address `json:"owner"`
}

type CounterReply struct {
	Counter *storage.Counter `json:"counter"`
}

func (j *JSONRPCServer) Counter(req *http.Request, args *AddressArgs, reply *CounterReply) error {
	ctx, span := j.c.Tracer().Start(req.Context(), "JSONRPCServer.Counter")
	defer span.End()

	counter, err := j.c.GetCounter(ctx, args.Owner)
	if err != nil {
		return err
	}
	reply.Counter = counter
	return nil
}

type CounterAddressReply struct {
	Location codec.Address `json:"location"`
	Bump     uint8         `json:"bump"`
}

func (j *JSONRPCServer) CounterAddress(_ *http.Request, args *AddressArgs, reply *CounterAddressReply) error {
	location, bump, err := j.c.CounterAddress(args.Owner)
	if err != nil {
		return err
	}
	reply.Location = location
	reply.Bump = bump
	return nil
}

type TxArgs struct {
	TxID ids.ID `json:"txId"`
}

type TxReply struct {
	Exists    bool  `json:"exists"`
	Timestamp int64 `json:"timestamp"`
	Success   bool  `json:"success"`
}

func (j *JSONRPCServer) Tx(req *http.Request, args *TxArgs, reply *TxReply) error {
	ctx, span := j.c.Tracer().Start(req.Context(), "JSONRPCServer.Tx")
	defer span.End()

	exists, t, success, err := j.c.GetTransaction(ctx, args.TxID)
	if err != nil {
		return err
	}
	reply.Exists = exists
	reply.Timestamp = t
	reply.Success = success
	return nil
}
