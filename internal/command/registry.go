package command

import "github.com/candicandi/zedis/internal/resp"

// HandlerFunc executes one command. It writes the full reply (success or
// command-level error) to w itself; a returned error means a write to the
// connection failed and the caller should stop serving it.
type HandlerFunc func(ctx *Context, w *resp.Writer, args [][]byte) error

// Entry is one command registry row: name, handler, and the dispatch
// dispatch metadata (inclusive arg bounds, auth exemption,
// persistence-log flag).
type Entry struct {
	Name    string
	MinArgs int // inclusive, counting the command name itself
	MaxArgs int // inclusive; -1 means unbounded
	NoAuth  bool
	Persist bool
	Handler HandlerFunc
}

var registry = map[string]Entry{}

func register(e Entry) {
	if _, dup := registry[e.Name]; dup {
		panic("command: duplicate registration for " + e.Name)
	}
	registry[e.Name] = e
}

func lookup(name string) (Entry, bool) {
	e, ok := registry[name]
	return e, ok
}
