package command

import (
	"bufio"
	"io"
	"strings"

	"github.com/candicandi/zedis/internal/resp"
)

// maxCommandNameLen guards against uppercasing an unbounded command name;
// no real command exceeds a dozen bytes ("TS.DECRBY").
const maxCommandNameLen = 32

// Dispatch runs one parsed command against ctx in a fixed order:
// empty-command check, name normalization, auth gate, lookup,
// arg-count validation, handler invocation, and the persistence hook on
// success. The returned error is non-nil only for a connection write
// failure; command-level failures are written to w as RESP errors and
// Dispatch returns nil so the connection keeps serving.
func Dispatch(ctx *Context, w *resp.Writer, args [][]byte) error {
	if len(args) == 0 {
		return ctx.writeErr(w, errEmptyCommand)
	}
	if len(args[0]) > maxCommandNameLen {
		return ctx.writeErr(w, errUnknownCommand)
	}
	name := strings.ToUpper(string(args[0]))
	entry, ok := lookup(name)

	// The auth gate runs before the unknown-command check: an
	// unauthenticated client gets NOAUTH even for a name the registry
	// doesn't recognize, rather than leaking whether the command exists.
	// Names longer than maxCommandNameLen are rejected as unknown above,
	// before this gate.
	if !(ok && entry.NoAuth) && ctx.Engine.RequiresAuth() && !ctx.Authenticated {
		return ctx.writeErr(w, errNoAuth)
	}
	if !ok {
		return ctx.writeErr(w, errUnknownCommand)
	}

	n := len(args)
	if n < entry.MinArgs || (entry.MaxArgs >= 0 && n > entry.MaxArgs) {
		return ctx.writeErr(w, errWrongArgCount)
	}

	ctx.failed = false
	if err := entry.Handler(ctx, w, args); err != nil {
		return err
	}

	if entry.Persist && !ctx.failed && ctx.AOF != nil {
		_ = ctx.AOF.Append(args)
	}
	return nil
}

// DispatchDiscard runs Dispatch against a throwaway writer, for replaying
// a logged command at startup where no client is waiting on a reply.
func DispatchDiscard(ctx *Context, args [][]byte) error {
	w := resp.NewWriter(bufio.NewWriter(io.Discard))
	return Dispatch(ctx, w, args)
}
