// Package command implements the RESP command registry: name-to-handler
// dispatch with argument-count validation, auth gating, and translation of
// engine errors to stable wire error strings. Handlers are thin adapters
// over internal/engine/store.Engine; the registry itself carries no engine
// state.
package command

import (
	"github.com/candicandi/zedis/internal/engine/store"
	"github.com/candicandi/zedis/internal/pubsub"
)

// AOFWriter is the persistence-log collaborator: handlers whose registry
// entry sets Persist call Append with the original argument vector after a
// successful execution.
type AOFWriter interface {
	Append(args [][]byte) error
}

// Snapshotter is the pull-API collaborator SAVE invokes synchronously.
type Snapshotter interface {
	Save() error
}

// Context is the per-connection dispatch state: selected database, auth
// status, and the optional persistence/snapshot collaborators. One Context
// is owned by each connection goroutine in internal/server and reused
// across every command on that connection.
type Context struct {
	Engine *store.Engine

	DB            int
	Authenticated bool
	ClientID      uint64
	Quit          bool

	AOF      AOFWriter
	Snapshot Snapshotter

	PubSub     *pubsub.Hub
	Deliver    chan<- pubsub.Message // this connection's push-delivery handle, nil until the server wires one
	Subscribed map[string]struct{}   // channels this connection currently holds a slot in

	failed bool // set by writeErr; cleared by Dispatch before each command
}
