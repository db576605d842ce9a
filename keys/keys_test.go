// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package keys

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestChunks(t *testing.T) {
	tests := map[string]struct {
		valueLen int
		chunks   uint16
	}{
		"empty":       {valueLen: 0, chunks: 0},
		"small":       {valueLen: 10, chunks: 1},
		"one less":    {valueLen: 63, chunks: 1},
		"exact chunk": {valueLen: 64, chunks: 2},
		"counter":     {valueLen: 64, chunks: 2},
		"large":       {valueLen: 200, chunks: 4},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			chunks, ok := NumChunks(make([]byte, tt.valueLen))
			require.True(t, ok)
			require.Equal(t, tt.chunks, chunks)
		})
	}
}

func TestVerifyValue(t *testing.T) {
	require := require.New(t)

	key := EncodeChunks([]byte{0x1, 0x2}, 2)
	maxChunks, ok := MaxChunks(key)
	require.True(ok)
	require.Equal(uint16(2), maxChunks)
	require.True(Valid(string(key)))

	require.True(VerifyValue(key, make([]byte, 64)))
	require.True(VerifyValue(key, make([]byte, 127)))
	require.False(VerifyValue(key, make([]byte, 128)))

	require.False(VerifyValue([]byte{0x1}, []byte{0x1}))
}
