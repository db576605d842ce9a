// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package chain

import (
	"github.com/ava-labs/avalanchego/ids"

	"github.com/ava-labs/countervm/codec"
	"github.com/ava-labs/countervm/consts"
)

// Result is the outcome of processing a single [Transaction].
type Result struct {
	TxID       ids.ID        `json:"txId"`
	Actor      codec.Address `json:"actor"`
	ActionType uint8         `json:"actionType"`
	Success    bool          `json:"success"`
	Error      []byte        `json:"error"`

	// Output is the human-readable line emitted by the action.
	Output []byte `json:"output"`

	Timestamp int64 `json:"timestamp"`
}

func (r *Result) Size() int {
	return consts.IDLen +
		codec.AddressLen +
		consts.ByteLen +
		consts.BoolLen +
		codec.BytesLen(r.Error) +
		codec.BytesLen(r.Output) +
		consts.Int64Len
}

func (r *Result) Marshal(p *codec.Packer) {
	p.PackID(r.TxID)
	p.PackAddress(r.Actor)
	p.PackByte(r.ActionType)
	p.PackBool(r.Success)
	p.PackBytes(r.Error)
	p.PackBytes(r.Output)
	p.PackInt64(r.Timestamp)
}

func (r *Result) Bytes() ([]byte, error) {
	p := codec.NewWriter(r.Size(), consts.MaxInt)
	r.Marshal(p)
	return p.Bytes(), p.Err()
}

func UnmarshalResult(p *codec.Packer) (*Result, error) {
	var result Result
	p.UnpackID(true, &result.TxID)
	p.UnpackAddress(&result.Actor)
	result.ActionType = p.UnpackByte()
	result.Success = p.UnpackBool()
	p.UnpackBytes(consts.MaxInt, false, &result.Error)
	p.UnpackBytes(consts.MaxInt, false, &result.Output)
	result.Timestamp = p.UnpackInt64(true)
	if !result.Success && len(result.Output) > 0 {
		return nil, ErrInvalidObject
	}
	return &result, p.Err()
}

// ParseResult decodes [b] and rejects trailing bytes.
func ParseResult(b []byte) (*Result, error) {
	p := codec.NewReader(b, consts.MaxInt)
	result, err := UnmarshalResult(p)
	if err != nil {
		return nil, err
	}
	if !p.Empty() {
		return nil, codec.ErrExtraBytes
	}
	return result, nil
}
