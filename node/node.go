// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package node assembles a standalone counter node: storage, execution,
// the HTTP API, metrics and profiling.
package node

import (
	"errors"
	"fmt"
	"net"
	"net/http"
	"path/filepath"

	"github.com/ava-labs/avalanchego/trace"
	"github.com/ava-labs/avalanchego/utils/logging"
	"github.com/ava-labs/avalanchego/utils/profiler"
	"github.com/ava-labs/avalanchego/utils/timer/mockable"
	"github.com/ava-labs/avalanchego/utils/wrappers"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/ava-labs/countervm/config"
	"github.com/ava-labs/countervm/consts"
	"github.com/ava-labs/countervm/controller"
	"github.com/ava-labs/countervm/pebble"
	"github.com/ava-labs/countervm/rpc"
	"github.com/ava-labs/countervm/server"
	"github.com/ava-labs/countervm/utils"
	"github.com/ava-labs/countervm/version"

	ctrace "github.com/ava-labs/countervm/trace"
)

const (
	baseURL      = "/ext"
	metricsBase  = "metrics"
	databaseDir  = "db"
	logsDir      = "logs"
	logMaxSize   = 8 // megabytes
	logMaxFiles  = 4
	logMaxAge    = 7 // days
	loggerName   = "node"
	apiEndpoints = consts.Name
)

type Node struct {
	config *config.Config

	logFactory logging.Factory
	log        logging.Logger
	tracer     trace.Tracer
	db         *pebble.Database
	controller *controller.Controller
	server     server.Server
	listener   net.Listener
	profiler   profiler.ContinuousProfiler
}

// New opens the database in the configured data directory and binds the
// API listener. Nothing is served until [Run] is called.
func New(cfg *config.Config) (*Node, error) {
	n := &Node{config: cfg}

	logDir := cfg.LogDir
	if len(logDir) == 0 {
		logDir = filepath.Join(cfg.DataDir, logsDir)
	}
	var lc logging.Config
	lc.Directory = logDir
	lc.MaxSize = logMaxSize
	lc.MaxFiles = logMaxFiles
	lc.MaxAge = logMaxAge
	lc.LogLevel = cfg.LogLevel
	lc.DisplayLevel = cfg.LogDisplayLevel
	lc.LogFormat = logging.Plain
	n.logFactory = logging.NewFactory(lc)
	log, err := n.logFactory.Make(loggerName)
	if err != nil {
		return nil, err
	}
	n.log = log
	n.log.Info("starting node",
		zap.Stringer("version", version.Version),
		zap.String("dataDir", cfg.DataDir),
	)

	n.tracer, err = ctrace.New(cfg.GetTraceConfig())
	if err != nil {
		n.close()
		return nil, err
	}

	dbPath, err := utils.InitSubDirectory(cfg.DataDir, databaseDir)
	if err != nil {
		n.close()
		return nil, err
	}
	db, dbRegistry, err := pebble.New(dbPath, cfg.Pebble)
	if err != nil {
		n.close()
		return nil, err
	}
	n.db = db

	registry := prometheus.NewRegistry()
	n.controller, err = controller.New(n.log, n.tracer, n.db, cfg, &mockable.Clock{}, registry)
	if err != nil {
		n.close()
		return nil, err
	}

	n.listener, err = net.Listen("tcp", fmt.Sprintf("%s:%d", cfg.HTTPHost, cfg.HTTPPort))
	if err != nil {
		n.close()
		return nil, err
	}
	n.server = server.New(baseURL, n.log, n.listener, cfg.HTTP)
	handlers, err := rpc.Handlers(n.controller, n.controller.Feed())
	if err != nil {
		n.close()
		return nil, err
	}
	for endpoint, handler := range handlers {
		if err := n.server.AddRoute(handler, apiEndpoints, endpoint); err != nil {
			n.close()
			return nil, err
		}
	}
	gatherer := prometheus.Gatherers{registry, dbRegistry}
	metricsHandler := promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
	if err := n.server.AddRoute(metricsHandler, metricsBase, ""); err != nil {
		n.close()
		return nil, err
	}

	if pc := cfg.GetContinuousProfilerConfig(); pc.Enabled {
		n.profiler = profiler.NewContinuous(pc.Dir, pc.Freq, pc.MaxNumFiles)
	}
	return n, nil
}

// URI is the base of the counter API, as expected by the rpc clients.
func (n *Node) URI() string {
	return fmt.Sprintf("http://%s%s/%s", n.listener.Addr(), baseURL, apiEndpoints)
}

// MetricsURI is where prometheus metrics are served.
func (n *Node) MetricsURI() string {
	return fmt.Sprintf("http://%s%s/%s", n.listener.Addr(), baseURL, metricsBase)
}

func (n *Node) Controller() *controller.Controller { return n.controller }

func (n *Node) Logger() logging.Logger { return n.log }

// Run serves the API until [Shutdown] is called.
func (n *Node) Run() error {
	if n.profiler != nil {
		go func() {
			if err := n.profiler.Dispatch(); err != nil {
				n.log.Warn("continuous profiler failed", zap.Error(err))
			}
		}()
	}
	n.log.Info("serving API", zap.String("uri", n.URI()))
	err := n.server.Dispatch()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Shutdown stops the API, then closes storage and the tracer.
func (n *Node) Shutdown() error {
	errs := wrappers.Errs{}
	errs.Add(n.server.Shutdown())
	n.controller.Close()
	if n.profiler != nil {
		n.profiler.Shutdown()
	}
	errs.Add(n.close())
	return errs.Err
}

func (n *Node) close() error {
	errs := wrappers.Errs{}
	// The listener is already closed if the server was dispatched and shut
	// down.
	if n.listener != nil {
		if err := n.listener.Close(); err != nil && !errors.Is(err, net.ErrClosed) {
			errs.Add(err)
		}
	}
	if n.db != nil {
		errs.Add(n.db.Close())
	}
	if n.tracer != nil {
		errs.Add(n.tracer.Close())
	}
	if n.log != nil {
		n.log.Info("node stopped")
	}
	if n.logFactory != nil {
		n.logFactory.Close()
	}
	return errs.Err
}
