// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package utils

import (
	"os"
	"testing"

	"github.com/ava-labs/avalanchego/ids"
	"github.com/stretchr/testify/require"
)

func TestUnixRMilli(t *testing.T) {
	require := require.New(t)

	require.Equal(int64(12_000), UnixRMilli(12_345, 0))
	require.Equal(int64(14_000), UnixRMilli(12_345, 2_000))
	require.Zero(UnixRMilli(-1, 0) % 1_000)
}

func TestToID(t *testing.T) {
	require := require.New(t)

	a := ToID([]byte("counter"))
	require.Equal(a, ToID([]byte("counter")))
	require.NotEqual(ids.Empty, a)
	require.NotEqual(a, ToID([]byte("counters")))
}

func TestInitSubDirectory(t *testing.T) {
	require := require.New(t)

	p, err := InitSubDirectory(t.TempDir(), "db")
	require.NoError(err)
	info, err := os.Stat(p)
	require.NoError(err)
	require.True(info.IsDir())
}

func TestHostPort(t *testing.T) {
	require := require.New(t)

	host, err := GetHost("http://127.0.0.1:9650/ext/counter")
	require.NoError(err)
	require.Equal("127.0.0.1", host)
	port, err := GetPort("http://127.0.0.1:9650/ext/counter")
	require.NoError(err)
	require.Equal("9650", port)

	_, err = GetHost("http://localhost/ext")
	require.Error(err)
}
