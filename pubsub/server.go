// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package pubsub

import (
	"net/http"
	"sync"

	"github.com/ava-labs/avalanchego/utils/logging"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

var _ http.Handler = (*Server)(nil)

// Server maintains the set of active clients and sends messages to them.
// It is mounted on an existing HTTP server.
//
// Connect with websocket.DefaultDialer.Dial().
type Server struct {
	log      logging.Logger
	config   ServerConfig
	upgrader websocket.Upgrader

	// lock guards sends against connections being torn down.
	lock     sync.RWMutex
	conns    *Connections
	callback Callback
	onClose  CloseCallback
}

// New returns a new Server instance. [callback] is invoked for every message
// a client sends and [onClose] once for every connection that goes away.
// Either may be nil.
func New(log logging.Logger, config ServerConfig, callback Callback, onClose CloseCallback) *Server {
	return &Server{
		log:    log,
		config: config,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  config.ReadBufferSize,
			WriteBufferSize: config.WriteBufferSize,
			CheckOrigin: func(*http.Request) bool {
				return true
			},
		},
		conns:    NewConnections(),
		callback: callback,
		onClose:  onClose,
	}
}

// ServeHTTP upgrades the request to a websocket and starts the read and
// write pumps for it.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	wsConn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Debug("failed to upgrade",
			zap.Error(err),
		)
		return
	}
	conn := &Connection{
		s:    s,
		conn: wsConn,
		send: make(chan []byte, s.config.MaxPendingMessages),
	}
	conn.active.Store(true)
	s.conns.Add(conn)

	go conn.writePump()
	go conn.readPump()
}

// Publish sends [msg] to every connection in [toConns] that is still
// connected to [s].
func (s *Server) Publish(msg []byte, toConns *Connections) {
	for _, conn := range toConns.Conns() {
		if !s.conns.Has(conn) {
			continue
		}
		if !conn.Send(msg) {
			s.log.Verbo(
				"dropping message to subscribed connection due to too many pending messages",
			)
		}
	}
}

// Connected returns true if [conn] has not been removed from [s].
func (s *Server) Connected(conn *Connection) bool {
	return s.conns.Has(conn)
}

// Connections returns the number of open connections.
func (s *Server) Connections() int {
	return s.conns.Len()
}

// Close closes every connection.
func (s *Server) Close() {
	for _, conn := range s.conns.Conns() {
		s.removeConnection(conn)
	}
}

func (s *Server) removeConnection(conn *Connection) {
	s.lock.Lock()
	removed := s.conns.Remove(conn)
	conn.deactivate()
	s.lock.Unlock()

	if removed && s.onClose != nil {
		s.onClose(conn)
	}
}
