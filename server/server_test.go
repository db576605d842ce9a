// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package server

import (
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ava-labs/avalanchego/utils/logging"
	"github.com/stretchr/testify/require"
)

func TestAllowedHosts(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	tests := map[string]struct {
		allowed []string
		host    string
		status  int
	}{
		"wildcard":        {allowed: []string{"*"}, host: "example.com", status: http.StatusOK},
		"listed":          {allowed: []string{"Node.Local"}, host: "node.local:9650", status: http.StatusOK},
		"ip":              {allowed: []string{"node.local"}, host: "127.0.0.1:9650", status: http.StatusOK},
		"missing host":    {allowed: []string{"node.local"}, host: "", status: http.StatusOK},
		"not listed":      {allowed: []string{"node.local"}, host: "evil.com", status: http.StatusForbidden},
		"nothing allowed": {allowed: nil, host: "node.local", status: http.StatusForbidden},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			require := require.New(t)

			h := filterInvalidHosts(ok, tt.allowed)
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.Host = tt.host
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			require.Equal(tt.status, rec.Code)
		})
	}
}

func TestRouterDuplicate(t *testing.T) {
	require := require.New(t)

	r := newRouter()
	h := http.NotFoundHandler()
	require.NoError(r.AddRouter("/ext/counter", "/rpc", h))
	require.Error(r.AddRouter("/ext/counter", "/rpc", h))

	got, err := r.GetHandler("/ext/counter", "/rpc")
	require.NoError(err)
	require.NotNil(got)
	_, err = r.GetHandler("/ext/other", "/rpc")
	require.ErrorIs(err, errUnknownBaseURL)
}

func TestServerDispatch(t *testing.T) {
	require := require.New(t)

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(err)
	config := NewDefaultConfig()
	config.AllowedHosts = []string{"*"}
	config.ShutdownTimeout = time.Second
	s := New("/ext", logging.NoLog{}, listener, config)
	require.NoError(s.AddRoute(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("pong"))
	}), "counter", "/ping"))

	done := make(chan error, 1)
	go func() {
		done <- s.Dispatch()
	}()

	resp, err := http.Get("http://" + listener.Addr().String() + "/ext/counter/ping")
	require.NoError(err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(err)
	require.NoError(resp.Body.Close())
	require.Equal("pong", string(body))

	require.NoError(s.Shutdown())
	require.ErrorIs(<-done, http.ErrServerClosed)
}
