package command

import (
	"strconv"

	"github.com/candicandi/zedis/internal/engine/timeseries"
	"github.com/candicandi/zedis/internal/resp"
)

func init() {
	register(Entry{Name: "TS.CREATE", MinArgs: 2, MaxArgs: -1, Persist: true, Handler: cmdTSCreate})
	register(Entry{Name: "TS.ALTER", MinArgs: 2, MaxArgs: -1, Persist: true, Handler: cmdTSAlter})
	register(Entry{Name: "TS.ADD", MinArgs: 4, MaxArgs: -1, Persist: true, Handler: cmdTSAdd})
	register(Entry{Name: "TS.GET", MinArgs: 2, MaxArgs: 2, Handler: cmdTSGet})
	register(Entry{Name: "TS.INCRBY", MinArgs: 3, MaxArgs: -1, Persist: true, Handler: cmdTSIncrBy})
	register(Entry{Name: "TS.DECRBY", MinArgs: 3, MaxArgs: -1, Persist: true, Handler: cmdTSDecrBy})
	register(Entry{Name: "TS.RANGE", MinArgs: 4, MaxArgs: -1, Handler: cmdTSRange})
}

func cmdTSCreate(ctx *Context, w *resp.Writer, args [][]byte) error {
	opts, err := parseTSOptions(args, 2)
	if err != nil {
		return ctx.writeErr(w, err)
	}
	if err := ctx.Engine.TSCreate(ctx.DB, args[1], opts); err != nil {
		return ctx.writeErr(w, err)
	}
	return w.SimpleString("OK")
}

func cmdTSAlter(ctx *Context, w *resp.Writer, args [][]byte) error {
	opts, err := parseTSOptions(args, 2)
	if err != nil {
		return ctx.writeErr(w, err)
	}
	if err := ctx.Engine.TSAlter(ctx.DB, args[1], opts); err != nil {
		return ctx.writeErr(w, err)
	}
	return w.SimpleString("OK")
}

func cmdTSAdd(ctx *Context, w *resp.Writer, args [][]byte) error {
	ts, ok := parseInt(args[2])
	if !ok {
		return ctx.writeErr(w, errInvalidIndex)
	}
	v, ok := parseFloat(args[3])
	if !ok {
		return ctx.writeErr(w, newCmdError("ERR value is not a valid float"))
	}
	defaults, err := parseTSOptions(args, 4)
	if err != nil {
		return ctx.writeErr(w, err)
	}
	stored, err := ctx.Engine.TSAdd(ctx.DB, args[1], ts, v, defaults)
	if err != nil {
		return ctx.writeErr(w, err)
	}
	return w.Integer(stored)
}

func cmdTSGet(ctx *Context, w *resp.Writer, args [][]byte) error {
	ts, v, ok, err := ctx.Engine.TSGet(ctx.DB, args[1])
	if err != nil {
		return ctx.writeErr(w, err)
	}
	if !ok {
		return w.NullArray()
	}
	if err := w.ArrayHeader(2); err != nil {
		return err
	}
	if err := w.Integer(ts); err != nil {
		return err
	}
	return w.BulkString(formatFloat(v))
}

func cmdTSIncrBy(ctx *Context, w *resp.Writer, args [][]byte) error {
	return tsIncr(ctx, w, args, true)
}

func cmdTSDecrBy(ctx *Context, w *resp.Writer, args [][]byte) error {
	return tsIncr(ctx, w, args, false)
}

func tsIncr(ctx *Context, w *resp.Writer, args [][]byte, positive bool) error {
	delta, ok := parseFloat(args[2])
	if !ok {
		return ctx.writeErr(w, newCmdError("ERR value is not a valid float"))
	}
	defaults, err := parseTSOptions(args, 3)
	if err != nil {
		return ctx.writeErr(w, err)
	}
	ts := nowMillis()
	var v float64
	if positive {
		v, err = ctx.Engine.TSIncrBy(ctx.DB, args[1], ts, delta, defaults)
	} else {
		v, err = ctx.Engine.TSDecrBy(ctx.DB, args[1], ts, delta, defaults)
	}
	if err != nil {
		return ctx.writeErr(w, err)
	}
	return w.BulkString(formatFloat(v))
}

// cmdTSRange parses "TS.RANGE key from to [COUNT n] [AGGREGATION type
// bucket]" and streams the resulting (timestamp, value) pairs as nested
// two-element arrays.
func cmdTSRange(ctx *Context, w *resp.Writer, args [][]byte) error {
	from, ok1 := rangeBound(args[2])
	to, ok2 := rangeBound(args[3])
	if !ok1 || !ok2 {
		return ctx.writeErr(w, errInvalidIndex)
	}

	q := timeseries.RangeQuery{FromTS: from, ToTS: to}
	i := 4
	for i < len(args) {
		switch commandGroup(args[i]) {
		case "COUNT":
			if i+1 >= len(args) {
				return ctx.writeErr(w, errWrongArgCount)
			}
			n, ok := parseInt(args[i+1])
			if !ok || n < 0 {
				return ctx.writeErr(w, errInvalidIndex)
			}
			q.Count = int(n)
			i += 2
		case "AGGREGATION":
			if i+2 >= len(args) {
				return ctx.writeErr(w, errWrongArgCount)
			}
			agg, ok := parseAggregation(args[i+1])
			if !ok {
				return ctx.writeErr(w, newCmdError("ERR invalid AGGREGATION type"))
			}
			bucket, ok := parseInt(args[i+2])
			if !ok || bucket <= 0 {
				return ctx.writeErr(w, newCmdError("ERR invalid AGGREGATION bucket"))
			}
			q.Agg = agg
			q.BucketMS = bucket
			i += 3
		default:
			return ctx.writeErr(w, newCmdError("ERR syntax error"))
		}
	}

	samples, err := ctx.Engine.TSRange(ctx.DB, args[1], q)
	if err != nil {
		return ctx.writeErr(w, err)
	}
	if err := w.ArrayHeader(len(samples)); err != nil {
		return err
	}
	for _, s := range samples {
		if err := w.ArrayHeader(2); err != nil {
			return err
		}
		if err := w.Integer(s.TS); err != nil {
			return err
		}
		if err := w.BulkString(formatFloat(s.Val)); err != nil {
			return err
		}
	}
	return nil
}

func formatFloat(v float64) []byte {
	return strconv.AppendFloat(nil, v, 'f', -1, 64)
}
