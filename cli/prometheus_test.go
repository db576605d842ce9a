// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cli

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v2"
)

func TestPrometheusConfig(t *testing.T) {
	require := require.New(t)

	cfg, err := NewPrometheusConfig([]string{"http://127.0.0.1:9650/ext/counter"})
	require.NoError(err)
	require.Equal([]string{"127.0.0.1:9650"}, cfg.ScrapeConfigs[0].StaticConfigs[0].Targets)

	b, err := yaml.Marshal(cfg)
	require.NoError(err)
	require.Contains(string(b), "metrics_path: /ext/metrics")
	require.Contains(string(b), "scrape_interval: 1s")

	_, err = NewPrometheusConfig([]string{"http://localhost/ext/counter"})
	require.Error(err)
}

func TestDashboardURL(t *testing.T) {
	require := require.New(t)

	dashboard := DashboardURL("http://localhost:9090", Panels)
	require.True(strings.HasPrefix(dashboard, "http://localhost:9090/graph?g0.expr="))
	require.Contains(dashboard, "&g1.expr=")
	require.Equal(1, strings.Count(dashboard, "?"))
}
