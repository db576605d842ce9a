// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

//nolint:gosec
package cli

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"os/exec"
	"time"

	"github.com/pkg/browser"
	"gopkg.in/yaml.v2"

	"github.com/ava-labs/countervm/utils"
)

// MetricsPath is where a node serves its prometheus metrics.
const MetricsPath = "/ext/metrics"

// Panels are the default queries of the generated dashboard.
var Panels = []string{
	"increase(chain_txs_processed[5s])/5",
	"increase(chain_txs_failed[5s])/5",
	"increase(chain_txs_rejected[5s])/5",
	"increase(actions_initialize[5s])/5",
	"increase(actions_increment[5s])/5",
	"increase(actions_reset[5s])/5",
	"increase(chain_execute_duration_sum[5s])/increase(chain_execute_duration_count[5s])",
	"controller_subscribers",
	"increase(pebble_write_stall[5s])/5",
	"increase(pebble_compactions[5s])/5",
	"pebble_disk_usage",
}

type PrometheusStaticConfig struct {
	Targets []string `yaml:"targets"`
}

type PrometheusScrapeConfig struct {
	JobName       string                    `yaml:"job_name"`
	StaticConfigs []*PrometheusStaticConfig `yaml:"static_configs"`
	MetricsPath   string                    `yaml:"metrics_path"`
}

type PrometheusConfig struct {
	Global struct {
		ScrapeInterval     string `yaml:"scrape_interval"`
		EvaluationInterval string `yaml:"evaluation_interval"`
	} `yaml:"global"`
	ScrapeConfigs []*PrometheusScrapeConfig `yaml:"scrape_configs"`
}

// NewPrometheusConfig returns a config that scrapes every node in [uris].
func NewPrometheusConfig(uris []string) (*PrometheusConfig, error) {
	endpoints := make([]string, len(uris))
	for i, uri := range uris {
		host, err := utils.GetHost(uri)
		if err != nil {
			return nil, err
		}
		port, err := utils.GetPort(uri)
		if err != nil {
			return nil, err
		}
		endpoints[i] = fmt.Sprintf("%s:%s", host, port)
	}
	var prometheusConfig PrometheusConfig
	prometheusConfig.Global.ScrapeInterval = "1s"
	prometheusConfig.Global.EvaluationInterval = "1s"
	prometheusConfig.ScrapeConfigs = []*PrometheusScrapeConfig{
		{
			JobName: "prometheus",
			StaticConfigs: []*PrometheusStaticConfig{
				{
					Targets: endpoints,
				},
			},
			MetricsPath: MetricsPath,
		},
	}
	return &prometheusConfig, nil
}

// DashboardURL links to a prometheus graph page with one panel per query.
//
// We must manually encode the params because prometheus skips any panels
// that are not numerically sorted and `url.params` only sorts
// lexicographically.
func DashboardURL(baseURI string, panels []string) string {
	dashboard := baseURI + "/graph"
	for i, panel := range panels {
		appendChar := "&"
		if i == 0 {
			appendChar = "?"
		}
		dashboard = fmt.Sprintf("%s%sg%d.expr=%s&g%d.tab=0&g%d.step_input=1&g%d.range_input=5m", dashboard, appendChar, i, url.QueryEscape(panel), i, i, i)
	}
	return dashboard
}

func (h *Handler) GeneratePrometheus(baseURI string, openBrowser bool, startPrometheus bool, prometheusFile string, prometheusData string) error {
	uri, err := h.GetDefaultEndpoint()
	if err != nil {
		return err
	}
	if err := h.CloseDatabase(); err != nil {
		return err
	}
	prometheusConfig, err := NewPrometheusConfig([]string{uri})
	if err != nil {
		return err
	}
	yamlData, err := yaml.Marshal(prometheusConfig)
	if err != nil {
		return err
	}
	if err := os.WriteFile(prometheusFile, yamlData, fsModeWrite); err != nil {
		return err
	}
	dashboard := DashboardURL(baseURI, Panels)

	if !startPrometheus {
		if !openBrowser {
			utils.Outf("{{orange}}pre-built dashboard:{{/}} %s\n", dashboard)
			utils.Outf("{{green}}prometheus cmd:{{/}} /tmp/prometheus --config.file=%s --storage.tsdb.path=%s\n", prometheusFile, prometheusData)
			return nil
		}
		return browser.OpenURL(dashboard)
	}

	// Attempting to exit from the terminal will gracefully stop this process.
	cmd := exec.CommandContext(context.Background(), "/tmp/prometheus", "--config.file="+prometheusFile, "--storage.tsdb.path="+prometheusData)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	errChan := make(chan error, 1)
	go func() {
		select {
		case <-errChan:
			return
		case <-time.After(5 * time.Second):
			if !openBrowser {
				utils.Outf("{{orange}}pre-built dashboard:{{/}} %s\n", dashboard)
				return
			}
			utils.Outf("{{cyan}}opening dashboard{{/}}\n")
			if err := browser.OpenURL(dashboard); err != nil {
				utils.Outf("{{red}}unable to open dashboard:{{/}} %s\n", err.Error())
			}
		}
	}()

	utils.Outf("{{cyan}}starting prometheus (/tmp/prometheus) in background{{/}}\n")
	if err := cmd.Run(); err != nil {
		errChan <- err
		utils.Outf("{{orange}}prometheus exited with error:{{/}} %v\n", err)
		return err
	}
	utils.Outf("{{cyan}}prometheus exited{{/}}\n")
	return nil
}
