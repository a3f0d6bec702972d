package command

import (
	"github.com/candicandi/zedis/internal/pubsub"
	"github.com/candicandi/zedis/internal/resp"
)

func init() {
	register(Entry{Name: "SUBSCRIBE", MinArgs: 2, MaxArgs: -1, Handler: cmdSubscribe})
	register(Entry{Name: "UNSUBSCRIBE", MinArgs: 1, MaxArgs: -1, Handler: cmdUnsubscribe})
	register(Entry{Name: "PUBLISH", MinArgs: 3, MaxArgs: 3, Handler: cmdPublish})
}

// cmdSubscribe registers the connection's delivery channel against each
// named channel and confirms each with the three-element push reply real
// clients expect: "subscribe", the channel name, and the connection's
// total subscription count after the add.
func cmdSubscribe(ctx *Context, w *resp.Writer, args [][]byte) error {
	if ctx.PubSub == nil || ctx.Deliver == nil {
		return ctx.writeErr(w, newCmdError("ERR pub/sub is not available on this connection"))
	}
	for _, raw := range args[1:] {
		channel := string(raw)
		ctx.PubSub.Subscribe(channel, ctx.ClientID, ctx.Deliver)
		ctx.Subscribed[channel] = struct{}{}
		if err := writeSubReply(w, "subscribe", channel, len(ctx.Subscribed)); err != nil {
			return err
		}
	}
	return nil
}

// cmdUnsubscribe removes the connection from each named channel, or from
// every channel it currently holds when no names are given.
func cmdUnsubscribe(ctx *Context, w *resp.Writer, args [][]byte) error {
	if ctx.PubSub == nil {
		return ctx.writeErr(w, newCmdError("ERR pub/sub is not available on this connection"))
	}
	channels := args[1:]
	if len(channels) == 0 {
		for channel := range ctx.Subscribed {
			channels = append(channels, []byte(channel))
		}
	}
	if len(channels) == 0 {
		return writeUnsubReply(w, "", 0)
	}
	for _, raw := range channels {
		channel := string(raw)
		ctx.PubSub.Unsubscribe(channel, ctx.ClientID)
		delete(ctx.Subscribed, channel)
		if err := writeUnsubReply(w, channel, len(ctx.Subscribed)); err != nil {
			return err
		}
	}
	return nil
}

// cmdPublish fans the message out through the hub and reports the number
// of connections it was delivered to.
func cmdPublish(ctx *Context, w *resp.Writer, args [][]byte) error {
	if ctx.PubSub == nil {
		return w.Integer(0)
	}
	n := ctx.PubSub.Publish(string(args[1]), args[2])
	return w.Integer(int64(n))
}

func writeSubReply(w *resp.Writer, kind, channel string, count int) error {
	if err := w.ArrayHeader(3); err != nil {
		return err
	}
	if err := w.BulkString([]byte(kind)); err != nil {
		return err
	}
	if err := w.BulkString([]byte(channel)); err != nil {
		return err
	}
	return w.Integer(int64(count))
}

func writeUnsubReply(w *resp.Writer, channel string, count int) error {
	if err := w.ArrayHeader(3); err != nil {
		return err
	}
	if err := w.BulkString([]byte("unsubscribe")); err != nil {
		return err
	}
	if channel == "" {
		if err := w.NullBulk(); err != nil {
			return err
		}
	} else if err := w.BulkString([]byte(channel)); err != nil {
		return err
	}
	return w.Integer(int64(count))
}

// PushMessage writes a pushed PUBLISH payload in the three-element
// "message" form, for the connection's delivery goroutine to call
// directly against the shared writer (under its own write lock).
func PushMessage(w *resp.Writer, msg pubsub.Message) error {
	if err := w.ArrayHeader(3); err != nil {
		return err
	}
	if err := w.BulkString([]byte("message")); err != nil {
		return err
	}
	if err := w.BulkString([]byte(msg.Channel)); err != nil {
		return err
	}
	if err := w.BulkString(msg.Payload); err != nil {
		return err
	}
	return nil
}
