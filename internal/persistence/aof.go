// Package persistence implements an append-only command-replay log and a
// point-in-time snapshotter, each a small struct owning a *zap.Logger and
// its file (an open handle for the log, a path for the snapshot), in the
// style of this codebase's repository types.
package persistence

import (
	"bufio"
	"fmt"
	"os"
	"sync"

	"go.uber.org/zap"

	"github.com/candicandi/zedis/internal/resp"
)

// AOFWriter appends each successful write command, RESP-array-encoded, to
// an append-only file. Disabled instances are a legal, inert zero-cost
// Append: the command layer never has to branch on whether AOF is
// configured.
type AOFWriter struct {
	log     *zap.Logger
	enabled bool

	mu   sync.Mutex
	file *os.File
	w    *resp.Writer
}

// NewAOFWriter opens (creating/appending to) path when enabled is true.
// When enabled is false, the returned writer's Append is a no-op and no
// file is touched.
func NewAOFWriter(log *zap.Logger, path string, enabled bool) (*AOFWriter, error) {
	if log == nil {
		log = zap.NewNop()
	}
	a := &AOFWriter{log: log.Named("aof"), enabled: enabled}
	if !enabled {
		return a, nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open aof file %s: %w", path, err)
	}
	a.file = f
	a.w = resp.NewWriter(bufio.NewWriter(f))
	return a, nil
}

// Append serializes args as a RESP array and flushes it to the file.
// Flushing per-call trades throughput for the replay log never missing a
// command that the client believes succeeded.
func (a *AOFWriter) Append(args [][]byte) error {
	if !a.enabled {
		return nil
	}
	a.mu.Lock()
	defer a.mu.Unlock()

	if err := a.w.ArrayHeader(len(args)); err != nil {
		return err
	}
	for _, arg := range args {
		if err := a.w.BulkString(arg); err != nil {
			return err
		}
	}
	return a.w.Flush()
}

// Replay reads every command previously written to path and invokes fn for
// each, in order, for startup recovery. Replay is a no-op if the file does
// not exist yet.
func Replay(path string, fn func(args [][]byte) error) error {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("open aof file %s: %w", path, err)
	}
	defer f.Close()

	r := bufio.NewReader(f)
	for {
		args, err := resp.ReadCommand(r)
		if err != nil {
			if err == resp.ErrProtocol {
				return fmt.Errorf("aof replay: %w", err)
			}
			return nil // clean EOF
		}
		if err := fn(args); err != nil {
			return err
		}
	}
}

// Close flushes and closes the backing file, if any.
func (a *AOFWriter) Close() error {
	if !a.enabled {
		return nil
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	_ = a.w.Flush()
	return a.file.Close()
}
