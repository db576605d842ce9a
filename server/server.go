// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package server

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/NYTimes/gziphandler"
	"github.com/ava-labs/avalanchego/utils/json"
	"github.com/ava-labs/avalanchego/utils/logging"
	"github.com/gorilla/rpc/v2"
	"github.com/rs/cors"
	"go.uber.org/zap"
)

var _ Server = (*server)(nil)

// Server routes API requests below a base url.
type Server interface {
	// AddRoute serves [handler] at [baseURL]/[base][endpoint].
	AddRoute(handler http.Handler, base, endpoint string) error
	// Dispatch serves requests until [Shutdown] is called.
	Dispatch() error
	Shutdown() error
}

type Config struct {
	ReadTimeout       time.Duration `json:"readTimeout"`
	ReadHeaderTimeout time.Duration `json:"readHeaderTimeout"`
	WriteTimeout      time.Duration `json:"writeTimeout"`
	IdleTimeout       time.Duration `json:"idleTimeout"`
	ShutdownTimeout   time.Duration `json:"shutdownTimeout"`

	// Origins allowed by CORS. "*" allows any.
	AllowedOrigins []string `json:"allowedOrigins"`
	// Host headers accepted. "*" accepts any.
	AllowedHosts []string `json:"allowedHosts"`
}

func NewDefaultConfig() Config {
	return Config{
		ReadTimeout:       30 * time.Second,
		ReadHeaderTimeout: 30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
		ShutdownTimeout:   30 * time.Second,
		AllowedOrigins:    []string{"*"},
		AllowedHosts:      []string{"localhost"},
	}
}

type server struct {
	baseURL         string
	log             logging.Logger
	shutdownTimeout time.Duration

	router   *router
	srv      *http.Server
	listener net.Listener
}

// New returns a server that will accept requests on [listener] once
// dispatched. Requests pass host filtering, then CORS, then gzip.
func New(baseURL string, log logging.Logger, listener net.Listener, config Config) Server {
	router := newRouter()
	handler := gziphandler.GzipHandler(
		cors.New(cors.Options{
			AllowedOrigins:   config.AllowedOrigins,
			AllowCredentials: true,
		}).Handler(filterInvalidHosts(router, config.AllowedHosts)),
	)
	log.Info("API created",
		zap.String("address", listener.Addr().String()),
		zap.Strings("allowedOrigins", config.AllowedOrigins),
		zap.Strings("allowedHosts", config.AllowedHosts),
	)
	return &server{
		baseURL:         baseURL,
		log:             log,
		shutdownTimeout: config.ShutdownTimeout,
		router:          router,
		srv: &http.Server{
			Handler:           handler,
			ReadTimeout:       config.ReadTimeout,
			ReadHeaderTimeout: config.ReadHeaderTimeout,
			WriteTimeout:      config.WriteTimeout,
			IdleTimeout:       config.IdleTimeout,
		},
		listener: listener,
	}
}

func (s *server) Dispatch() error {
	return s.srv.Serve(s.listener)
}

func (s *server) AddRoute(handler http.Handler, base, endpoint string) error {
	url := fmt.Sprintf("%s/%s", s.baseURL, base)
	s.log.Info("adding route",
		zap.String("url", url),
		zap.String("endpoint", endpoint),
	)
	return s.router.AddRouter(url, endpoint, handler)
}

func (s *server) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
	defer cancel()

	err := s.srv.Shutdown(ctx)
	// Force remaining connections closed if the graceful shutdown timed out.
	_ = s.srv.Close()
	return err
}

// NewJSONRPCHandler serves the exported methods of [service] as JSON-RPC
// methods named [name].<Method>.
func NewJSONRPCHandler(service any, name string) (http.Handler, error) {
	rpcServer := rpc.NewServer()
	codec := json.NewCodec()
	for _, contentType := range []string{"application/json", "application/json;charset=UTF-8"} {
		rpcServer.RegisterCodec(codec, contentType)
	}
	if err := rpcServer.RegisterService(service, name); err != nil {
		return nil, err
	}
	return rpcServer, nil
}
