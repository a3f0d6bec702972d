// Package server is the connection driver: a TCP accept loop handing each
// connection its own goroutine, a per-connection command.Context, and the
// read-dispatch-write loop. Logging uses a Named sub-logger with one line
// per accepted/closed connection and Warn on protocol errors.
package server

import (
	"context"
	"net"
	"time"

	"go.uber.org/zap"

	"github.com/candicandi/zedis/internal/command"
	"github.com/candicandi/zedis/internal/engine/store"
	"github.com/candicandi/zedis/internal/pubsub"
)

// Config is the subset of configuration the connection driver needs.
type Config struct {
	ListenAddr     string
	MaxConnections int64 // <= 0 means unbounded
}

// Server owns the listener and hands off accepted connections.
type Server struct {
	log     *zap.Logger
	engine  *store.Engine
	cfg     Config
	limiter *connLimiter
	pubsub  *pubsub.Hub

	aof      command.AOFWriter
	snapshot command.Snapshotter
}

// New constructs a Server bound to engine. aof/snapshot may be nil if
// persistence is disabled.
func New(log *zap.Logger, engine *store.Engine, cfg Config, aof command.AOFWriter, snapshot command.Snapshotter) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	return &Server{
		log:      log.Named("server"),
		engine:   engine,
		cfg:      cfg,
		limiter:  newConnLimiter(cfg.MaxConnections),
		pubsub:   pubsub.NewHub(),
		aof:      aof,
		snapshot: snapshot,
	}
}

// Serve runs the accept loop until ctx is canceled or the listener fails.
// It always closes the listener on return.
func (s *Server) Serve(ctx context.Context) error {
	lc := net.ListenConfig{}
	ln, err := lc.Listen(ctx, "tcp", s.cfg.ListenAddr)
	if err != nil {
		return err
	}
	defer ln.Close()

	go func() {
		<-ctx.Done()
		ln.Close()
	}()

	s.log.Info("listening", zap.String("addr", s.cfg.ListenAddr))

	for {
		conn, err := ln.Accept()
		if err != nil {
			select {
			case <-ctx.Done():
				return nil
			default:
			}
			s.log.Error("accept failed", zap.Error(err))
			return err
		}
		go s.handleConn(conn)
	}
}

func (s *Server) handleConn(conn net.Conn) {
	id := s.engine.NextClientID()
	s.limiter.acquire(id)
	defer s.limiter.release(id)

	start := time.Now()
	remote := conn.RemoteAddr().String()
	s.log.Info("connection accepted", zap.Uint64("client_id", id), zap.String("remote", remote))

	commands := serveConn(s, conn, id)

	s.log.Info("connection closed",
		zap.Uint64("client_id", id),
		zap.String("remote", remote),
		zap.Int("commands", commands),
		zap.Duration("duration", time.Since(start)),
	)
}
