// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package storage

import (
	"bytes"
	"testing"

	"github.com/ava-labs/avalanchego/ids"
	"github.com/stretchr/testify/require"

	"github.com/ava-labs/countervm/codec"
	"github.com/ava-labs/countervm/crypto/ed25519"
)

func testOwner(b byte) codec.Address {
	return codec.Address(bytes.Repeat([]byte{b}, codec.AddressLen))
}

func TestDeriveLocationVector(t *testing.T) {
	require := require.New(t)

	location, bump, err := DeriveLocation(ids.Empty, testOwner(3))
	require.NoError(err)
	require.Equal(uint8(251), bump)
	require.Equal("0xa0cc10c5048e8dda782549d453686c2e1b747ba3d3bca3034313799ee01fbd94", location.String())
	require.True(VerifyLocation(ids.Empty, testOwner(3), location, bump))
	require.False(VerifyLocation(ids.Empty, testOwner(3), location, 255))
}

func TestDeriveLocationDeterministic(t *testing.T) {
	require := require.New(t)

	namespace := ids.GenerateTestID()
	owner := testOwner(7)
	a, bumpA, err := DeriveLocation(namespace, owner)
	require.NoError(err)
	b, bumpB, err := DeriveLocation(namespace, owner)
	require.NoError(err)
	require.Equal(a, b)
	require.Equal(bumpA, bumpB)
	require.False(ed25519.OnCurve(a))
}

func TestDeriveLocationScoped(t *testing.T) {
	require := require.New(t)

	namespace := ids.GenerateTestID()
	a, _, err := DeriveLocation(namespace, testOwner(1))
	require.NoError(err)
	b, _, err := DeriveLocation(namespace, testOwner(2))
	require.NoError(err)
	require.NotEqual(a, b)

	c, _, err := DeriveLocation(ids.GenerateTestID(), testOwner(1))
	require.NoError(err)
	require.NotEqual(a, c)
}
