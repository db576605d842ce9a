// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package codec

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAddressStringRoundTrip(t *testing.T) {
	require := require.New(t)

	var a Address
	for i := range a {
		a[i] = byte(i)
	}
	s := a.String()
	require.Equal("0x000102030405060708090a0b0c0d0e0f101112131415161718191a1b1c1d1e1f", s)

	parsed, err := ParseAddress(s)
	require.NoError(err)
	require.Equal(a, parsed)

	// prefix is optional
	parsed, err = ParseAddress(s[2:])
	require.NoError(err)
	require.Equal(a, parsed)
}

func TestParseAddressInvalid(t *testing.T) {
	tests := map[string]struct {
		input string
	}{
		"short":   {input: "0x0102"},
		"long":    {input: "0x" + ToHex(make([]byte, AddressLen+1))},
		"not hex": {input: "0xzz"},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := ParseAddress(tt.input)
			require.Error(t, err)
		})
	}
	_, err := ParseAddress("0x0102")
	require.ErrorIs(t, err, ErrInvalidSize)
}

func TestAddressJSON(t *testing.T) {
	require := require.New(t)

	type wrapper struct {
		Owner Address `json:"owner"`
	}
	in := wrapper{Owner: Address{1, 2, 3}}
	b, err := json.Marshal(in)
	require.NoError(err)

	var out wrapper
	require.NoError(json.Unmarshal(b, &out))
	require.Equal(in, out)
}
