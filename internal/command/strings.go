package command

import (
	"github.com/candicandi/zedis/internal/engine/store"
	"github.com/candicandi/zedis/internal/resp"
)

func init() {
	register(Entry{Name: "SET", MinArgs: 3, MaxArgs: 3, Persist: true, Handler: cmdSet})
	register(Entry{Name: "GET", MinArgs: 2, MaxArgs: 2, Handler: cmdGet})
	register(Entry{Name: "INCR", MinArgs: 2, MaxArgs: 2, Persist: true, Handler: cmdIncr})
	register(Entry{Name: "DECR", MinArgs: 2, MaxArgs: 2, Persist: true, Handler: cmdDecr})
	register(Entry{Name: "INCRBY", MinArgs: 3, MaxArgs: 3, Persist: true, Handler: cmdIncrBy})
	register(Entry{Name: "DECRBY", MinArgs: 3, MaxArgs: 3, Persist: true, Handler: cmdDecrBy})
	register(Entry{Name: "INCRBYFLOAT", MinArgs: 3, MaxArgs: 3, Persist: true, Handler: cmdIncrByFloat})
	register(Entry{Name: "APPEND", MinArgs: 3, MaxArgs: 3, Persist: true, Handler: cmdAppend})
	register(Entry{Name: "STRLEN", MinArgs: 2, MaxArgs: 2, Handler: cmdStrLen})
	register(Entry{Name: "GETSET", MinArgs: 3, MaxArgs: 3, Persist: true, Handler: cmdGetSet})
	register(Entry{Name: "MGET", MinArgs: 2, MaxArgs: -1, Handler: cmdMGet})
	register(Entry{Name: "MSET", MinArgs: 3, MaxArgs: -1, Persist: true, Handler: cmdMSet})
	register(Entry{Name: "SETEX", MinArgs: 4, MaxArgs: 4, Persist: true, Handler: cmdSetEx})
	register(Entry{Name: "SETNX", MinArgs: 3, MaxArgs: 3, Persist: true, Handler: cmdSetNX})
}

func cmdSet(ctx *Context, w *resp.Writer, args [][]byte) error {
	if err := ctx.Engine.Set(ctx.DB, args[1], args[2]); err != nil {
		return ctx.writeErr(w, err)
	}
	return w.SimpleString("OK")
}

func cmdGet(ctx *Context, w *resp.Writer, args [][]byte) error {
	var scratch [32]byte
	val, ok, err := ctx.Engine.Get(ctx.DB, args[1], scratch[:0])
	if err != nil {
		return ctx.writeErr(w, err)
	}
	if !ok {
		return w.NullBulk()
	}
	return w.BulkString(val)
}

func cmdIncr(ctx *Context, w *resp.Writer, args [][]byte) error {
	return incrByAndReply(ctx, w, args[1], 1)
}

func cmdDecr(ctx *Context, w *resp.Writer, args [][]byte) error {
	return incrByAndReply(ctx, w, args[1], -1)
}

func cmdIncrBy(ctx *Context, w *resp.Writer, args [][]byte) error {
	delta, ok := parseInt(args[2])
	if !ok {
		return ctx.writeErr(w, store.ErrNotInteger)
	}
	return incrByAndReply(ctx, w, args[1], delta)
}

func cmdDecrBy(ctx *Context, w *resp.Writer, args [][]byte) error {
	delta, ok := parseInt(args[2])
	if !ok {
		return ctx.writeErr(w, store.ErrNotInteger)
	}
	return incrByAndReply(ctx, w, args[1], -delta)
}

func incrByAndReply(ctx *Context, w *resp.Writer, key []byte, delta int64) error {
	n, err := ctx.Engine.IncrBy(ctx.DB, key, delta)
	if err != nil {
		return ctx.writeErr(w, err)
	}
	return w.Integer(n)
}

func cmdIncrByFloat(ctx *Context, w *resp.Writer, args [][]byte) error {
	delta, ok := parseFloat(args[2])
	if !ok {
		return ctx.writeErr(w, store.ErrNotFloat)
	}
	text, err := ctx.Engine.IncrByFloat(ctx.DB, args[1], delta)
	if err != nil {
		return ctx.writeErr(w, err)
	}
	return w.BulkString(text)
}

func cmdAppend(ctx *Context, w *resp.Writer, args [][]byte) error {
	n, err := ctx.Engine.Append(ctx.DB, args[1], args[2])
	if err != nil {
		return ctx.writeErr(w, err)
	}
	return w.Integer(int64(n))
}

func cmdStrLen(ctx *Context, w *resp.Writer, args [][]byte) error {
	n, err := ctx.Engine.StrLen(ctx.DB, args[1])
	if err != nil {
		return ctx.writeErr(w, err)
	}
	return w.Integer(int64(n))
}

func cmdGetSet(ctx *Context, w *resp.Writer, args [][]byte) error {
	old, existed, err := ctx.Engine.GetSet(ctx.DB, args[1], args[2])
	if err != nil {
		return ctx.writeErr(w, err)
	}
	if !existed {
		return w.NullBulk()
	}
	return w.BulkString(old)
}

func cmdMGet(ctx *Context, w *resp.Writer, args [][]byte) error {
	vals, err := ctx.Engine.MGet(ctx.DB, args[1:])
	if err != nil {
		return ctx.writeErr(w, err)
	}
	if err := w.ArrayHeader(len(vals)); err != nil {
		return err
	}
	for _, v := range vals {
		if v == nil {
			if err := w.NullBulk(); err != nil {
				return err
			}
			continue
		}
		if err := w.BulkString(v); err != nil {
			return err
		}
	}
	return nil
}

func cmdMSet(ctx *Context, w *resp.Writer, args [][]byte) error {
	rest := args[1:]
	if len(rest)%2 != 0 {
		return ctx.writeErr(w, errWrongArgCount)
	}
	pairs := make([][2][]byte, 0, len(rest)/2)
	for i := 0; i < len(rest); i += 2 {
		pairs = append(pairs, [2][]byte{rest[i], rest[i+1]})
	}
	if err := ctx.Engine.MSet(ctx.DB, pairs); err != nil {
		return ctx.writeErr(w, err)
	}
	return w.SimpleString("OK")
}

func cmdSetEx(ctx *Context, w *resp.Writer, args [][]byte) error {
	seconds, ok := parseInt(args[2])
	if !ok || seconds <= 0 {
		return ctx.writeErr(w, store.ErrNotInteger)
	}
	if err := ctx.Engine.SetEx(ctx.DB, args[1], args[3], seconds*1000); err != nil {
		return ctx.writeErr(w, err)
	}
	return w.SimpleString("OK")
}

func cmdSetNX(ctx *Context, w *resp.Writer, args [][]byte) error {
	ok, err := ctx.Engine.SetNX(ctx.DB, args[1], args[2])
	if err != nil {
		return ctx.writeErr(w, err)
	}
	if ok {
		return w.Integer(1)
	}
	return w.Integer(0)
}
