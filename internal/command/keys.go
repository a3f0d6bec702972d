package command

import (
	"github.com/candicandi/zedis/internal/engine/glob"
	"github.com/candicandi/zedis/internal/engine/store"
	"github.com/candicandi/zedis/internal/resp"
)

func init() {
	register(Entry{Name: "DEL", MinArgs: 2, MaxArgs: -1, Persist: true, Handler: cmdDel})
	register(Entry{Name: "EXISTS", MinArgs: 2, MaxArgs: -1, Handler: cmdExists})
	register(Entry{Name: "KEYS", MinArgs: 2, MaxArgs: 2, Handler: cmdKeys})
	register(Entry{Name: "TTL", MinArgs: 2, MaxArgs: 2, Handler: cmdTTL})
	register(Entry{Name: "PERSIST", MinArgs: 2, MaxArgs: 2, Persist: true, Handler: cmdPersist})
	register(Entry{Name: "TYPE", MinArgs: 2, MaxArgs: 2, Handler: cmdType})
	register(Entry{Name: "RENAME", MinArgs: 3, MaxArgs: 3, Persist: true, Handler: cmdRename})
	register(Entry{Name: "RANDOMKEY", MinArgs: 1, MaxArgs: 1, Handler: cmdRandomKey})
	register(Entry{Name: "EXPIRE", MinArgs: 3, MaxArgs: 3, Persist: true, Handler: cmdExpire})
	register(Entry{Name: "EXPIREAT", MinArgs: 3, MaxArgs: 3, Persist: true, Handler: cmdExpireAt})
}

func cmdDel(ctx *Context, w *resp.Writer, args [][]byte) error {
	n, err := ctx.Engine.Del(ctx.DB, args[1:])
	if err != nil {
		return ctx.writeErr(w, err)
	}
	return w.Integer(int64(n))
}

func cmdExists(ctx *Context, w *resp.Writer, args [][]byte) error {
	n, err := ctx.Engine.Exists(ctx.DB, args[1:])
	if err != nil {
		return ctx.writeErr(w, err)
	}
	return w.Integer(int64(n))
}

func cmdKeys(ctx *Context, w *resp.Writer, args [][]byte) error {
	pat := string(args[1])
	keys, err := ctx.Engine.Keys(ctx.DB, func(key []byte) bool {
		return glob.Match(pat, string(key))
	})
	if err != nil {
		return ctx.writeErr(w, err)
	}
	if err := w.ArrayHeader(len(keys)); err != nil {
		return err
	}
	for _, k := range keys {
		if err := w.BulkString(k); err != nil {
			return err
		}
	}
	return nil
}

func cmdTTL(ctx *Context, w *resp.Writer, args [][]byte) error {
	ms, err := ctx.Engine.TTL(ctx.DB, args[1])
	if err != nil {
		return ctx.writeErr(w, err)
	}
	return w.Integer(ms)
}

func cmdPersist(ctx *Context, w *resp.Writer, args [][]byte) error {
	ok, err := ctx.Engine.Persist(ctx.DB, args[1])
	if err != nil {
		return ctx.writeErr(w, err)
	}
	if ok {
		return w.Integer(1)
	}
	return w.Integer(0)
}

func cmdType(ctx *Context, w *resp.Writer, args [][]byte) error {
	t, err := ctx.Engine.Type(ctx.DB, args[1])
	if err != nil {
		return ctx.writeErr(w, err)
	}
	return w.SimpleString(t)
}

func cmdRename(ctx *Context, w *resp.Writer, args [][]byte) error {
	if err := ctx.Engine.Rename(ctx.DB, args[1], args[2]); err != nil {
		return ctx.writeErr(w, err)
	}
	return w.SimpleString("OK")
}

func cmdRandomKey(ctx *Context, w *resp.Writer, args [][]byte) error {
	key, ok, err := ctx.Engine.RandomKey(ctx.DB)
	if err != nil {
		return ctx.writeErr(w, err)
	}
	if !ok {
		return w.NullBulk()
	}
	return w.BulkString(key)
}

// cmdExpire / cmdExpireAt both delete the key outright when the resulting
// absolute expiry is non-positive/past, per the open-question resolution
// in DESIGN.md: rather than installing an already-expired TTL, EXPIRE
// couples straight through to DEL and reports its deletion count.
func cmdExpire(ctx *Context, w *resp.Writer, args [][]byte) error {
	seconds, ok := parseInt(args[2])
	if !ok {
		return ctx.writeErr(w, store.ErrNotInteger)
	}
	return expireAt(ctx, w, args[1], nowMillis()+seconds*1000)
}

func cmdExpireAt(ctx *Context, w *resp.Writer, args [][]byte) error {
	ts, ok := parseInt(args[2])
	if !ok {
		return ctx.writeErr(w, store.ErrNotInteger)
	}
	return expireAt(ctx, w, args[1], ts*1000)
}

func expireAt(ctx *Context, w *resp.Writer, key []byte, atMS int64) error {
	ok, err := ctx.Engine.Expire(ctx.DB, key, atMS)
	if err != nil {
		return ctx.writeErr(w, err)
	}
	if ok {
		return w.Integer(1)
	}
	return w.Integer(0)
}
