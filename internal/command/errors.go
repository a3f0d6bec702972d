package command

import (
	"errors"

	"github.com/candicandi/zedis/internal/engine/store"
	"github.com/candicandi/zedis/internal/engine/timeseries"
	"github.com/candicandi/zedis/internal/resp"
)

// cmdError carries an already-formatted RESP error line (including its
// leading error-kind word, e.g. "WRONGTYPE" or "ERR"), for handlers that
// need to surface something the sentinel table below doesn't cover
// (argument grammar mistakes, auth responses).
type cmdError struct{ msg string }

func (e cmdError) Error() string { return e.msg }

func newCmdError(msg string) error { return cmdError{msg: msg} }

var (
	errEmptyCommand   = newCmdError("ERR empty command")
	errUnknownCommand = newCmdError("ERR unknown command")
	errWrongArgCount  = newCmdError("ERR wrong number of arguments")
	errNoAuth         = newCmdError("NOAUTH Authentication required")
	errNoPasswordSet  = newCmdError("ERR Client sent AUTH, but no password is set")
	errInvalidPassword = newCmdError("ERR invalid password")
	errBadDBIndex     = newCmdError("ERR invalid database index (must be 0-15)")
	errProtocol       = newCmdError("ERR protocol error")
	errInvalidCount   = newCmdError("ERR value is not an integer or out of range")
	errInvalidIndex   = newCmdError("ERR value is not an integer or out of range")
)

// surface maps a store/timeseries/resp sentinel (or a cmdError built by a
// handler) to the stable RESP surface string from the error taxonomy.
// Anything unrecognized becomes the catch-all "any other handler failure".
func surface(err error) string {
	var ce cmdError
	if errors.As(err, &ce) {
		return ce.msg
	}
	switch {
	case errors.Is(err, store.ErrWrongType):
		return "WRONGTYPE Operation against a key holding the wrong kind of value"
	case errors.Is(err, store.ErrNotInteger):
		return "ERR value is not an integer or out of range"
	case errors.Is(err, store.ErrNotFloat):
		return "ERR value is not a valid float"
	case errors.Is(err, store.ErrOverflow):
		return "ERR increment or decrement would overflow"
	case errors.Is(err, store.ErrNoSuchKey):
		return "ERR no such key"
	case errors.Is(err, store.ErrIndexOutOfRange):
		return "ERR index out of range"
	case errors.Is(err, store.ErrKeyExists):
		return "ERR key already exists"
	case errors.Is(err, store.ErrBadDBIndex):
		return "ERR invalid database index (must be 0-15)"
	case errors.Is(err, store.ErrOOM):
		return "ERR out of memory"
	case errors.Is(err, timeseries.ErrDuplicateTimestamp):
		return "ERR duplicate timestamp"
	case errors.Is(err, resp.ErrProtocol):
		return "ERR protocol error"
	default:
		return "ERR while processing command"
	}
}

// writeErr writes err's surface string as a RESP error reply and marks the
// command as failed so Dispatch skips the persistence-log hook.
func (ctx *Context) writeErr(w *resp.Writer, err error) error {
	ctx.failed = true
	return w.Error(surface(err))
}
