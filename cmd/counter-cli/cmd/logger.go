// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cmd

import (
	"os"
	"path/filepath"

	"github.com/ava-labs/avalanchego/utils/logging"
	"github.com/ava-labs/avalanchego/utils/perms"
	"gopkg.in/natefinch/lumberjack.v2"
)

const (
	logMaxSize  = 8 // megabytes
	logMaxFiles = 4
	logMaxAge   = 7 // days
)

// newSimulationLogger writes JSON logs to a rotating file in [dir]. Console
// output is limited to warnings so step results stay readable.
func newSimulationLogger(dir string, level logging.Level) (logging.Logger, func(), error) {
	if err := os.MkdirAll(dir, perms.ReadWriteExecute); err != nil {
		return nil, nil, err
	}
	rw := &lumberjack.Logger{
		Filename:   filepath.Join(dir, "simulate.log"),
		MaxSize:    logMaxSize,
		MaxAge:     logMaxAge,
		MaxBackups: logMaxFiles,
		Compress:   true,
	}
	fileCore := logging.NewWrappedCore(level, rw, logging.JSON.FileEncoder())
	consoleCore := logging.NewWrappedCore(logging.Warn, os.Stderr, logging.Colors.ConsoleEncoder())
	log := logging.NewLogger("simulate", consoleCore, fileCore)
	return log, func() {
		log.Stop()
		_ = rw.Close()
	}, nil
}
