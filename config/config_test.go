// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ava-labs/avalanchego/ids"
	"github.com/ava-labs/avalanchego/utils/logging"
	"github.com/stretchr/testify/require"

	"github.com/ava-labs/countervm/server"
)

func TestNew(t *testing.T) {
	namespace := ids.GenerateTestID()
	tests := map[string]struct {
		raw    string
		err    error
		verify func(*require.Assertions, *Config)
	}{
		"defaults": {
			verify: func(require *require.Assertions, c *Config) {
				require.Equal(int64(defaultValidityWindow), c.ValidityWindow)
				require.Equal(logging.Info, c.GetLogLevel())
				require.True(c.VerifyAuth)
				require.False(c.GetContinuousProfilerConfig().Enabled)
			},
		},
		"overrides": {
			raw: `{"namespace":"` + namespace.String() + `","validityWindow":5000,"logLevel":"debug","traceEnabled":true,"continuousProfilerDir":"/tmp/prof"}`,
			verify: func(require *require.Assertions, c *Config) {
				require.Equal(namespace, c.GetNamespace())
				require.Equal(int64(5000), c.GetValidityWindow())
				require.Equal(logging.Debug, c.GetLogLevel())
				require.True(c.GetTraceConfig().Enabled)
				require.True(c.GetContinuousProfilerConfig().Enabled)
				require.Equal(uint16(defaultHTTPPort), c.HTTPPort)
			},
		},
		"misaligned window": {
			raw: `{"validityWindow":1500}`,
			err: ErrInvalidValidityWindow,
		},
		"missing data dir": {
			raw: `{"dataDir":""}`,
			err: ErrMissingDataDir,
		},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			require := require.New(t)

			c, err := New([]byte(tt.raw))
			require.ErrorIs(err, tt.err)
			if tt.verify != nil {
				tt.verify(require, c)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	require := require.New(t)

	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(os.WriteFile(path, []byte(`{"httpPort":9000,"http":{"allowedHosts":["*"]}}`), 0o600))
	c, err := Load(path)
	require.NoError(err)
	require.Equal(uint16(9000), c.HTTPPort)
	require.Equal([]string{"*"}, c.HTTP.AllowedHosts)
	// unset fields keep their defaults
	require.Equal(server.NewDefaultConfig().ShutdownTimeout, c.HTTP.ShutdownTimeout)

	_, err = Load(filepath.Join(t.TempDir(), "missing.json"))
	require.Error(err)

	require.NoError(os.WriteFile(path, []byte(`{`), 0o600))
	_, err = Load(path)
	require.Error(err)
}
