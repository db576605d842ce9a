// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/ava-labs/avalanchego/ids"
	"github.com/ava-labs/avalanchego/utils/logging"
	"github.com/ava-labs/avalanchego/utils/profiler"

	"github.com/ava-labs/countervm/consts"
	"github.com/ava-labs/countervm/pebble"
	"github.com/ava-labs/countervm/pubsub"
	"github.com/ava-labs/countervm/server"
	"github.com/ava-labs/countervm/trace"
	"github.com/ava-labs/countervm/version"
)

const (
	defaultValidityWindow              = 60 * consts.MillisecondsPerSecond
	defaultHTTPHost                    = "127.0.0.1"
	defaultHTTPPort                    = 9650
	defaultContinuousProfilerFrequency = 1 * time.Minute
	defaultContinuousProfilerMaxFiles  = 10
)

var (
	ErrInvalidValidityWindow = errors.New("validity window must be a positive multiple of 1s")
	ErrMissingDataDir        = errors.New("missing data directory")
)

type Config struct {
	// Namespace scopes every counter location and signed transaction.
	Namespace ids.ID `json:"namespace"`
	// ValidityWindow bounds how far in the future a tx may expire (in ms).
	ValidityWindow int64 `json:"validityWindow"`

	// Storage
	DataDir string        `json:"dataDir"`
	Pebble  pebble.Config `json:"pebble"`

	// Logging
	LogLevel        logging.Level `json:"logLevel"`
	LogDisplayLevel logging.Level `json:"logDisplayLevel"`
	LogDir          string        `json:"logDir"`

	// API
	HTTPHost string              `json:"httpHost"`
	HTTPPort uint16              `json:"httpPort"`
	HTTP     server.Config       `json:"http"`
	Feed     pubsub.ServerConfig `json:"feed"`

	// Tracing
	TraceEnabled    bool    `json:"traceEnabled"`
	TraceSampleRate float64 `json:"traceSampleRate"`
	TraceEndpoint   string  `json:"traceEndpoint"`

	// Profiling
	ContinuousProfilerDir string `json:"continuousProfilerDir"`

	// Signatures of this many txs or more are batch verified on submission.
	AuthBatchSize int  `json:"authBatchSize"`
	VerifyAuth    bool `json:"verifyAuth"`
}

func NewDefaultConfig() *Config {
	return &Config{
		ValidityWindow:  defaultValidityWindow,
		DataDir:         filepath.Join(os.TempDir(), consts.Name),
		Pebble:          pebble.NewDefaultConfig(),
		LogLevel:        logging.Info,
		LogDisplayLevel: logging.Info,
		HTTPHost:        defaultHTTPHost,
		HTTPPort:        defaultHTTPPort,
		HTTP:            server.NewDefaultConfig(),
		Feed:            pubsub.NewDefaultServerConfig(),
		AuthBatchSize:   16,
		VerifyAuth:      true,
	}
}

// New overlays [b] on the defaults.
func New(b []byte) (*Config, error) {
	c := NewDefaultConfig()
	if len(b) > 0 {
		if err := json.Unmarshal(b, c); err != nil {
			return nil, fmt.Errorf("failed to unmarshal config %s: %w", string(b), err)
		}
	}
	if err := c.Verify(); err != nil {
		return nil, err
	}
	return c, nil
}

// Load reads the config at [path].
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return New(b)
}

func (c *Config) Verify() error {
	if c.ValidityWindow <= 0 || c.ValidityWindow%consts.MillisecondsPerSecond != 0 {
		return fmt.Errorf("%w: %d", ErrInvalidValidityWindow, c.ValidityWindow)
	}
	if len(c.DataDir) == 0 {
		return ErrMissingDataDir
	}
	return nil
}

func (c *Config) GetNamespace() ids.ID       { return c.Namespace }
func (c *Config) GetValidityWindow() int64   { return c.ValidityWindow }
func (c *Config) GetLogLevel() logging.Level { return c.LogLevel }
func (c *Config) GetTraceConfig() *trace.Config {
	return &trace.Config{
		Enabled:         c.TraceEnabled,
		TraceSampleRate: c.TraceSampleRate,
		Endpoint:        c.TraceEndpoint,
		AppName:         consts.Name,
		Agent:           consts.Name,
		Version:         version.Version.String(),
	}
}

func (c *Config) GetContinuousProfilerConfig() *profiler.Config {
	if len(c.ContinuousProfilerDir) == 0 {
		return &profiler.Config{Enabled: false}
	}
	return &profiler.Config{
		Enabled:     true,
		Dir:         c.ContinuousProfilerDir,
		Freq:        defaultContinuousProfilerFrequency,
		MaxNumFiles: defaultContinuousProfilerMaxFiles,
	}
}
