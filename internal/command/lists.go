package command

import (
	"github.com/candicandi/zedis/internal/engine/list"
	"github.com/candicandi/zedis/internal/resp"
)

func init() {
	register(Entry{Name: "LPUSH", MinArgs: 3, MaxArgs: -1, Persist: true, Handler: cmdLPush})
	register(Entry{Name: "RPUSH", MinArgs: 3, MaxArgs: -1, Persist: true, Handler: cmdRPush})
	register(Entry{Name: "LPOP", MinArgs: 2, MaxArgs: 3, Persist: true, Handler: cmdLPop})
	register(Entry{Name: "RPOP", MinArgs: 2, MaxArgs: 3, Persist: true, Handler: cmdRPop})
	register(Entry{Name: "LLEN", MinArgs: 2, MaxArgs: 2, Handler: cmdLLen})
	register(Entry{Name: "LINDEX", MinArgs: 3, MaxArgs: 3, Handler: cmdLIndex})
	register(Entry{Name: "LSET", MinArgs: 4, MaxArgs: 4, Persist: true, Handler: cmdLSet})
	register(Entry{Name: "LRANGE", MinArgs: 4, MaxArgs: 4, Handler: cmdLRange})
}

func cmdLPush(ctx *Context, w *resp.Writer, args [][]byte) error {
	n, err := ctx.Engine.LPush(ctx.DB, args[1], args[2:])
	if err != nil {
		return ctx.writeErr(w, err)
	}
	return w.Integer(int64(n))
}

func cmdRPush(ctx *Context, w *resp.Writer, args [][]byte) error {
	n, err := ctx.Engine.RPush(ctx.DB, args[1], args[2:])
	if err != nil {
		return ctx.writeErr(w, err)
	}
	return w.Integer(int64(n))
}

func cmdLPop(ctx *Context, w *resp.Writer, args [][]byte) error {
	return pop(ctx, w, args, true)
}

func cmdRPop(ctx *Context, w *resp.Writer, args [][]byte) error {
	return pop(ctx, w, args, false)
}

func pop(ctx *Context, w *resp.Writer, args [][]byte, left bool) error {
	count := -1
	hasCount := len(args) == 3
	if hasCount {
		n, ok := parseInt(args[2])
		if !ok || n < 0 {
			return ctx.writeErr(w, errInvalidCount)
		}
		count = int(n)
	}

	var (
		out []list.Cell
		err error
	)
	if left {
		out, err = ctx.Engine.LPop(ctx.DB, args[1], count)
	} else {
		out, err = ctx.Engine.RPop(ctx.DB, args[1], count)
	}
	if err != nil {
		return ctx.writeErr(w, err)
	}

	if !hasCount {
		if len(out) == 0 {
			return w.NullBulk()
		}
		return w.BulkString(out[0].Bytes())
	}
	if out == nil {
		return w.NullArray()
	}
	if err := w.ArrayHeader(len(out)); err != nil {
		return err
	}
	for _, c := range out {
		if err := w.BulkString(c.Bytes()); err != nil {
			return err
		}
	}
	return nil
}

func cmdLLen(ctx *Context, w *resp.Writer, args [][]byte) error {
	n, err := ctx.Engine.LLen(ctx.DB, args[1])
	if err != nil {
		return ctx.writeErr(w, err)
	}
	return w.Integer(int64(n))
}

func cmdLIndex(ctx *Context, w *resp.Writer, args [][]byte) error {
	i, ok := parseInt(args[2])
	if !ok {
		return ctx.writeErr(w, errInvalidIndex)
	}
	c, found, err := ctx.Engine.LIndex(ctx.DB, args[1], int(i))
	if err != nil {
		return ctx.writeErr(w, err)
	}
	if !found {
		return w.NullBulk()
	}
	return w.BulkString(c.Bytes())
}

func cmdLSet(ctx *Context, w *resp.Writer, args [][]byte) error {
	i, ok := parseInt(args[2])
	if !ok {
		return ctx.writeErr(w, errInvalidIndex)
	}
	if err := ctx.Engine.LSet(ctx.DB, args[1], int(i), args[3]); err != nil {
		return ctx.writeErr(w, err)
	}
	return w.SimpleString("OK")
}

// cmdLRange counts the clamped range in one walk, writes the RESP array
// header (which must carry the element count up front), then re-walks to
// stream each element straight to the writer — matching the list's own
// Range, which never materializes an intermediate slice.
func cmdLRange(ctx *Context, w *resp.Writer, args [][]byte) error {
	start, ok1 := parseInt(args[2])
	stop, ok2 := parseInt(args[3])
	if !ok1 || !ok2 {
		return ctx.writeErr(w, errInvalidIndex)
	}

	var n int
	if err := ctx.Engine.LRange(ctx.DB, args[1], int(start), int(stop), func(list.Cell) { n++ }); err != nil {
		return ctx.writeErr(w, err)
	}
	if err := w.ArrayHeader(n); err != nil {
		return err
	}

	var writeErr error
	err := ctx.Engine.LRange(ctx.DB, args[1], int(start), int(stop), func(c list.Cell) {
		if writeErr != nil {
			return
		}
		writeErr = w.BulkString(c.Bytes())
	})
	if err != nil {
		return ctx.writeErr(w, err)
	}
	return writeErr
}
