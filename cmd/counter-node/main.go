// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// "counter-node" serves per-owner counters over JSON-RPC and websockets.
package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/akamensky/argparse"
	"github.com/ava-labs/avalanchego/ids"
	"github.com/ava-labs/avalanchego/utils/logging"
	"go.uber.org/zap"

	"github.com/ava-labs/countervm/config"
	"github.com/ava-labs/countervm/node"
	"github.com/ava-labs/countervm/utils"
)

func main() {
	parser := argparse.NewParser("counter-node", "Serves per-owner counters")
	configPath := parser.String("c", "config", &argparse.Options{
		Help: "path to a JSON config file",
	})
	dataDir := parser.String("d", "data-dir", &argparse.Options{
		Help: "overrides dataDir",
	})
	httpPort := parser.Int("p", "http-port", &argparse.Options{
		Help:    "overrides httpPort",
		Default: -1,
	})
	namespace := parser.String("n", "namespace", &argparse.Options{
		Help: "overrides namespace (cb58 ID)",
	})
	logLevel := parser.String("l", "log-level", &argparse.Options{
		Help: "overrides logLevel",
	})
	if err := parser.Parse(os.Args); err != nil {
		fmt.Fprint(os.Stderr, parser.Usage(err))
		os.Exit(1)
	}

	cfg, err := loadConfig(*configPath, *dataDir, *httpPort, *namespace, *logLevel)
	if err != nil {
		utils.Outf("{{red}}invalid config:{{/}} %v\n", err)
		os.Exit(1)
	}
	if err := run(cfg); err != nil {
		utils.Outf("{{red}}counter-node exited with error:{{/}} %v\n", err)
		os.Exit(1)
	}
}

func loadConfig(path string, dataDir string, httpPort int, namespace string, logLevel string) (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if len(path) > 0 {
		cfg, err = config.Load(path)
	} else {
		cfg, err = config.New(nil)
	}
	if err != nil {
		return nil, err
	}
	if len(dataDir) > 0 {
		cfg.DataDir = dataDir
	}
	if httpPort >= 0 {
		cfg.HTTPPort = uint16(httpPort)
	}
	if len(namespace) > 0 {
		cfg.Namespace, err = ids.FromString(namespace)
		if err != nil {
			return nil, err
		}
	}
	if len(logLevel) > 0 {
		cfg.LogLevel, err = logging.ToLevel(logLevel)
		if err != nil {
			return nil, err
		}
		cfg.LogDisplayLevel = cfg.LogLevel
	}
	return cfg, cfg.Verify()
}

func run(cfg *config.Config) error {
	n, err := node.New(cfg)
	if err != nil {
		return err
	}
	done := make(chan error, 1)
	go func() {
		done <- n.Run()
	}()

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, os.Interrupt, syscall.SIGTERM)
	select {
	case sig := <-signals:
		n.Logger().Info("received signal", zap.Stringer("signal", sig))
	case err := <-done:
		if err != nil {
			_ = n.Shutdown()
			return err
		}
	}
	return n.Shutdown()
}
