// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package chain

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ava-labs/countervm/codec"
	"github.com/ava-labs/countervm/consts"
)

func TestRegistryDuplicate(t *testing.T) {
	require := require.New(t)

	r := NewRegistry[uint8]()
	f := func(p *codec.Packer) (uint8, error) { return p.UnpackByte(), p.Err() }
	require.NoError(r.Register(1, f))
	require.ErrorIs(r.Register(1, f), ErrDuplicateItem)

	v, err := r.Unmarshal(codec.NewReader([]byte{1, 42}, consts.NetworkSizeLimit))
	require.NoError(err)
	require.Equal(uint8(42), v)

	_, err = r.Unmarshal(codec.NewReader([]byte{2}, consts.NetworkSizeLimit))
	require.ErrorIs(err, ErrUnknownTypeID)

	_, err = r.Unmarshal(codec.NewReader(nil, consts.NetworkSizeLimit))
	require.Error(err)
}
