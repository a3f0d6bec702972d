package server

import (
	"bufio"
	"errors"
	"io"
	"net"
	"sync"

	"go.uber.org/zap"

	"github.com/candicandi/zedis/internal/command"
	"github.com/candicandi/zedis/internal/pubsub"
	"github.com/candicandi/zedis/internal/resp"
)

// deliverBuf bounds how many pushed messages a subscribed connection can
// have queued before Hub.Publish starts dropping deliveries to it rather
// than blocking the publisher.
const deliverBuf = 256

// connReadBuf / connWriteBuf size the bufio wrappers that back every
// connection. These fixed buffers are reused across commands: lines are
// read out of the read buffer and each reply is accumulated into the
// write buffer. There is no per-command arena: resp.ReadCommand copies
// every argument into a freshly allocated slice, left to the garbage
// collector once the command is done.
const (
	connReadBuf  = 16 * 1024
	connWriteBuf = 16 * 1024
)

// serveConn runs the read-dispatch-write loop for one accepted connection
// until EOF, a protocol error, a write failure, or QUIT. It returns the
// number of commands served.
func serveConn(s *Server, conn net.Conn, clientID uint64) int {
	defer conn.Close()

	r := bufio.NewReaderSize(conn, connReadBuf)
	bw := bufio.NewWriterSize(conn, connWriteBuf)
	w := resp.NewWriter(bw)

	// writeMu serializes writes to w between the command loop below and
	// the push-delivery goroutine started once this connection
	// subscribes to anything: both write to the same bufio.Writer.
	var writeMu sync.Mutex
	deliver := make(chan pubsub.Message, deliverBuf)
	deliverDone := make(chan struct{})
	go func() {
		defer close(deliverDone)
		for msg := range deliver {
			writeMu.Lock()
			err := command.PushMessage(w, msg)
			if err == nil {
				err = w.Flush()
			}
			writeMu.Unlock()
			if err != nil {
				return
			}
		}
	}()
	defer func() {
		s.pubsub.UnsubscribeAll(clientID)
		close(deliver)
		<-deliverDone
	}()

	ctx := &command.Context{
		Engine:     s.engine,
		ClientID:   clientID,
		AOF:        s.aof,
		Snapshot:   s.snapshot,
		PubSub:     s.pubsub,
		Deliver:    deliver,
		Subscribed: make(map[string]struct{}),
	}

	served := 0
	for {
		args, err := resp.ReadCommand(r)
		if err != nil {
			if errors.Is(err, io.EOF) {
				return served
			}
			s.log.Warn("protocol error", zap.Uint64("client_id", clientID), zap.Error(err))
			writeMu.Lock()
			_ = w.Error("ERR protocol error")
			_ = w.Flush()
			writeMu.Unlock()
			return served
		}

		writeMu.Lock()
		dispatchErr := command.Dispatch(ctx, w, args)
		flushErr := w.Flush()
		writeMu.Unlock()
		if dispatchErr != nil {
			s.log.Warn("connection write failed", zap.Uint64("client_id", clientID), zap.Error(dispatchErr))
			return served
		}
		served++
		if flushErr != nil {
			s.log.Warn("connection flush failed", zap.Uint64("client_id", clientID), zap.Error(flushErr))
			return served
		}
		if ctx.Quit {
			return served
		}
	}
}
