package command

import (
	"strings"

	"github.com/candicandi/zedis/internal/resp"
)

func commandGroup(b []byte) string { return strings.ToUpper(string(b)) }

func init() {
	register(Entry{Name: "PING", MinArgs: 1, MaxArgs: 2, NoAuth: true, Handler: cmdPing})
	register(Entry{Name: "ECHO", MinArgs: 2, MaxArgs: 2, Handler: cmdEcho})
	register(Entry{Name: "AUTH", MinArgs: 2, MaxArgs: 2, NoAuth: true, Handler: cmdAuth})
	register(Entry{Name: "SELECT", MinArgs: 2, MaxArgs: 2, Handler: cmdSelect})
	register(Entry{Name: "QUIT", MinArgs: 1, MaxArgs: 1, NoAuth: true, Handler: cmdQuit})
	register(Entry{Name: "HELP", MinArgs: 1, MaxArgs: 2, NoAuth: true, Handler: cmdHelp})
}

func cmdPing(ctx *Context, w *resp.Writer, args [][]byte) error {
	if len(args) == 2 {
		return w.BulkString(args[1])
	}
	return w.SimpleString("PONG")
}

func cmdEcho(ctx *Context, w *resp.Writer, args [][]byte) error {
	return w.BulkString(args[1])
}

func cmdAuth(ctx *Context, w *resp.Writer, args [][]byte) error {
	if !ctx.Engine.RequiresAuth() {
		return ctx.writeErr(w, errNoPasswordSet)
	}
	if !ctx.Engine.CheckAuth(string(args[1])) {
		return ctx.writeErr(w, errInvalidPassword)
	}
	ctx.Authenticated = true
	return w.SimpleString("OK")
}

func cmdSelect(ctx *Context, w *resp.Writer, args [][]byte) error {
	n, ok := parseInt(args[1])
	if !ok || n < 0 || int(n) >= ctx.Engine.NumDatabases() {
		return ctx.writeErr(w, errBadDBIndex)
	}
	ctx.DB = int(n)
	return w.SimpleString("OK")
}

func cmdQuit(ctx *Context, w *resp.Writer, args [][]byte) error {
	ctx.Quit = true
	return w.SimpleString("OK")
}

// helpText is a minimal static usage catalog; HELP with no argument lists
// every group, HELP <group> narrows to one.
var helpText = map[string][]string{
	"PING":   {"PING", "PING [message]"},
	"ECHO":   {"ECHO message"},
	"AUTH":   {"AUTH password"},
	"SELECT": {"SELECT index"},
	"QUIT":   {"QUIT"},
	"HELP":   {"HELP [command]"},
}

func cmdHelp(ctx *Context, w *resp.Writer, args [][]byte) error {
	var lines []string
	if len(args) == 2 {
		lines = helpText[commandGroup(args[1])]
	} else {
		for _, g := range []string{"PING", "ECHO", "AUTH", "SELECT", "QUIT", "HELP"} {
			lines = append(lines, helpText[g]...)
		}
	}
	if err := w.ArrayHeader(len(lines)); err != nil {
		return err
	}
	for _, l := range lines {
		if err := w.BulkString([]byte(l)); err != nil {
			return err
		}
	}
	return nil
}
