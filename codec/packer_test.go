// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package codec

import (
	"testing"

	"github.com/ava-labs/avalanchego/ids"
	"github.com/stretchr/testify/require"

	"github.com/ava-labs/countervm/consts"
)

func TestPackerFields(t *testing.T) {
	require := require.New(t)

	id := ids.GenerateTestID()
	addr := Address{9}
	wp := NewWriter(128, consts.MaxInt)
	wp.PackID(id)
	wp.PackAddress(addr)
	wp.PackByte(7)
	wp.PackBool(true)
	wp.PackUint64(42)
	wp.PackInt64(-5)
	wp.PackInt(3)
	wp.PackBytes([]byte("memo"))
	wp.PackString("hello")
	require.NoError(wp.Err())

	rp := NewReader(wp.Bytes(), consts.MaxInt)
	var (
		gotID    ids.ID
		gotAddr  Address
		gotBytes []byte
	)
	rp.UnpackID(true, &gotID)
	rp.UnpackAddress(&gotAddr)
	require.Equal(byte(7), rp.UnpackByte())
	require.True(rp.UnpackBool())
	require.Equal(uint64(42), rp.UnpackUint64(true))
	require.Equal(int64(-5), rp.UnpackInt64(true))
	require.Equal(3, rp.UnpackInt(true))
	rp.UnpackBytes(16, true, &gotBytes)
	require.Equal("hello", rp.UnpackString(true))
	require.NoError(rp.Err())
	require.True(rp.Empty())

	require.Equal(id, gotID)
	require.Equal(addr, gotAddr)
	require.Equal([]byte("memo"), gotBytes)
}

func TestPackerRequiredUnpack(t *testing.T) {
	require := require.New(t)

	wp := NewWriter(consts.Uint64Len, consts.MaxInt)
	wp.PackUint64(0)
	rp := NewReader(wp.Bytes(), consts.MaxInt)
	rp.UnpackUint64(true)
	require.ErrorIs(rp.Err(), ErrFieldNotPopulated)
}

func TestPackerEmptyAddress(t *testing.T) {
	require := require.New(t)

	wp := NewWriter(AddressLen, consts.MaxInt)
	wp.PackAddress(EmptyAddress)
	rp := NewReader(wp.Bytes(), consts.MaxInt)
	var a Address
	rp.UnpackAddress(&a)
	require.ErrorIs(rp.Err(), ErrFieldNotPopulated)
}

func TestPackerShortRead(t *testing.T) {
	require := require.New(t)

	rp := NewReader([]byte{1, 2}, consts.MaxInt)
	rp.UnpackUint64(false)
	require.Error(rp.Err())
}
