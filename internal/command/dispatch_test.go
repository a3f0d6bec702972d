package command

import (
	"bufio"
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/candicandi/zedis/internal/engine/store"
	"github.com/candicandi/zedis/internal/pubsub"
	"github.com/candicandi/zedis/internal/resp"
)

func newTestCtx() (*Context, *bytes.Buffer, *resp.Writer) {
	engine := store.New(nil, store.Config{InitialCapacity: 8, NumDatabases: 4})
	var buf bytes.Buffer
	w := resp.NewWriter(bufio.NewWriter(&buf))
	ctx := &Context{Engine: engine, Subscribed: make(map[string]struct{})}
	return ctx, &buf, w
}

func dispatch(t *testing.T, ctx *Context, w *resp.Writer, buf *bytes.Buffer, args ...string) string {
	t.Helper()
	raw := make([][]byte, len(args))
	for i, a := range args {
		raw[i] = []byte(a)
	}
	buf.Reset()
	require.NoError(t, Dispatch(ctx, w, raw))
	require.NoError(t, w.Flush())
	return buf.String()
}

func TestDispatchUnknownCommand(t *testing.T) {
	ctx, buf, w := newTestCtx()
	out := dispatch(t, ctx, w, buf, "BOGUS")
	require.Equal(t, "-ERR unknown command\r\n", out)
}

func TestDispatchWrongArgCount(t *testing.T) {
	ctx, buf, w := newTestCtx()
	out := dispatch(t, ctx, w, buf, "GET")
	require.Contains(t, out, "-ERR wrong number of arguments")
}

func TestDispatchPing(t *testing.T) {
	ctx, buf, w := newTestCtx()
	require.Equal(t, "+PONG\r\n", dispatch(t, ctx, w, buf, "PING"))
	require.Equal(t, "$5\r\nhello\r\n", dispatch(t, ctx, w, buf, "PING", "hello"))
}

func TestDispatchRequiresAuthWhenPasswordSet(t *testing.T) {
	ctx, buf, w := newTestCtx()
	ctx.Engine.SetAuthPassword("secret")

	out := dispatch(t, ctx, w, buf, "GET", "k")
	require.Equal(t, "-NOAUTH Authentication required\r\n", out)

	out = dispatch(t, ctx, w, buf, "AUTH", "wrong")
	require.Equal(t, "-ERR invalid password\r\n", out)

	out = dispatch(t, ctx, w, buf, "AUTH", "secret")
	require.Equal(t, "+OK\r\n", out)
	require.True(t, ctx.Authenticated)

	out = dispatch(t, ctx, w, buf, "SET", "k", "v")
	require.Equal(t, "+OK\r\n", out)
}

func TestDispatchUnknownCommandRequiresAuthFirst(t *testing.T) {
	ctx, buf, w := newTestCtx()
	ctx.Engine.SetAuthPassword("secret")

	out := dispatch(t, ctx, w, buf, "BOGUS")
	require.Equal(t, "-NOAUTH Authentication required\r\n", out)
}

func TestDispatchSetGetRoundTrip(t *testing.T) {
	ctx, buf, w := newTestCtx()
	require.Equal(t, "+OK\r\n", dispatch(t, ctx, w, buf, "SET", "k", "v"))
	require.Equal(t, "$1\r\nv\r\n", dispatch(t, ctx, w, buf, "GET", "k"))
}

func TestDispatchWrongTypeError(t *testing.T) {
	ctx, buf, w := newTestCtx()
	dispatch(t, ctx, w, buf, "RPUSH", "l", "a")
	out := dispatch(t, ctx, w, buf, "GET", "l")
	require.Equal(t, "-WRONGTYPE Operation against a key holding the wrong kind of value\r\n", out)
}

func TestDispatchPersistsOnlyOnSuccess(t *testing.T) {
	ctx, buf, w := newTestCtx()
	aof := &fakeAOF{}
	ctx.AOF = aof

	dispatch(t, ctx, w, buf, "FLUSHDB")
	require.Equal(t, 1, aof.calls)

	dispatch(t, ctx, w, buf, "RPUSH", "l", "a")
	require.Equal(t, 2, aof.calls)

	dispatch(t, ctx, w, buf, "INCR", "l") // WRONGTYPE: fails, not persisted
	dispatch(t, ctx, w, buf, "FLUSHALL")  // succeeds, always persists
	require.Equal(t, 3, aof.calls)
}

type fakeAOF struct{ calls int }

func (f *fakeAOF) Append(args [][]byte) error {
	f.calls++
	return nil
}

func TestPubSubSubscribePublishUnsubscribe(t *testing.T) {
	ctx, buf, w := newTestCtx()
	hub := pubsub.NewHub()
	ctx.PubSub = hub
	deliver := make(chan pubsub.Message, 4)
	ctx.Deliver = deliver

	out := dispatch(t, ctx, w, buf, "SUBSCRIBE", "news")
	require.Equal(t, "*3\r\n$9\r\nsubscribe\r\n$4\r\nnews\r\n:1\r\n", out)

	n := hub.Publish("news", []byte("hello"))
	require.Equal(t, 1, n)
	msg := <-deliver
	require.Equal(t, "news", msg.Channel)
	require.Equal(t, []byte("hello"), msg.Payload)

	out = dispatch(t, ctx, w, buf, "UNSUBSCRIBE", "news")
	require.Equal(t, "*3\r\n$11\r\nunsubscribe\r\n$4\r\nnews\r\n:0\r\n", out)
	require.Equal(t, 0, hub.Publish("news", []byte("ignored")))
}

func TestPublishCountsReceivers(t *testing.T) {
	ctx, buf, w := newTestCtx()
	ctx.PubSub = pubsub.NewHub()
	out := dispatch(t, ctx, w, buf, "PUBLISH", "news", "payload")
	require.Equal(t, ":0\r\n", out)
}
