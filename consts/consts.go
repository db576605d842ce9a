// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package consts

const (
	Name = "countervm"

	IDLen     = 32
	ByteLen   = 1
	BoolLen   = 1
	IntLen    = 4
	Uint16Len = 2
	Uint64Len = 8
	Int64Len  = 8

	MaxUint8  = ^uint8(0)
	MaxUint16 = ^uint16(0)
	MaxUint64 = ^uint64(0)
	MaxUint   = ^uint(0)
	MaxInt    = int(MaxUint >> 1)

	MillisecondsPerSecond = 1000

	// NetworkSizeLimit bounds any transaction or reply decoded from a peer.
	NetworkSizeLimit = 2_044_723 // 1.95 MiB
)
