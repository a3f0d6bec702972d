package command

import "github.com/candicandi/zedis/internal/resp"

func init() {
	register(Entry{Name: "DBSIZE", MinArgs: 1, MaxArgs: 1, Handler: cmdDBSize})
	register(Entry{Name: "FLUSHDB", MinArgs: 1, MaxArgs: 1, Persist: true, Handler: cmdFlushDB})
	register(Entry{Name: "FLUSHALL", MinArgs: 1, MaxArgs: 1, Persist: true, Handler: cmdFlushAll})
	register(Entry{Name: "SAVE", MinArgs: 1, MaxArgs: 1, Handler: cmdSave})
}

func cmdDBSize(ctx *Context, w *resp.Writer, args [][]byte) error {
	n, err := ctx.Engine.DBSize(ctx.DB)
	if err != nil {
		return ctx.writeErr(w, err)
	}
	return w.Integer(int64(n))
}

func cmdFlushDB(ctx *Context, w *resp.Writer, args [][]byte) error {
	if err := ctx.Engine.FlushDB(ctx.DB); err != nil {
		return ctx.writeErr(w, err)
	}
	return w.SimpleString("OK")
}

func cmdFlushAll(ctx *Context, w *resp.Writer, args [][]byte) error {
	ctx.Engine.FlushAll()
	return w.SimpleString("OK")
}

// cmdSave invokes the snapshot collaborator synchronously; if none is
// configured (persistence disabled), SAVE is a no-op success, matching the
// source's "collaborator interface" contract rather than an error.
func cmdSave(ctx *Context, w *resp.Writer, args [][]byte) error {
	if ctx.Snapshot != nil {
		if err := ctx.Snapshot.Save(); err != nil {
			return ctx.writeErr(w, newCmdError("ERR "+err.Error()))
		}
	}
	return w.SimpleString("OK")
}
