package persistence

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAOFAppendAndReplay(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.aof")

	w, err := NewAOFWriter(nil, path, true)
	require.NoError(t, err)
	require.NoError(t, w.Append([][]byte{[]byte("SET"), []byte("k"), []byte("v")}))
	require.NoError(t, w.Append([][]byte{[]byte("INCR"), []byte("n")}))
	require.NoError(t, w.Close())

	var replayed [][][]byte
	err = Replay(path, func(args [][]byte) error {
		cp := make([][]byte, len(args))
		copy(cp, args)
		replayed = append(replayed, cp)
		return nil
	})
	require.NoError(t, err)
	require.Len(t, replayed, 2)
	require.Equal(t, [][]byte{[]byte("SET"), []byte("k"), []byte("v")}, replayed[0])
	require.Equal(t, [][]byte{[]byte("INCR"), []byte("n")}, replayed[1])
}

func TestAOFDisabledAppendIsNoop(t *testing.T) {
	path := filepath.Join(t.TempDir(), "disabled.aof")
	w, err := NewAOFWriter(nil, path, false)
	require.NoError(t, err)
	require.NoError(t, w.Append([][]byte{[]byte("SET"), []byte("k"), []byte("v")}))
	require.NoError(t, w.Close())

	var calls int
	require.NoError(t, Replay(path, func(args [][]byte) error {
		calls++
		return nil
	}))
	require.Equal(t, 0, calls)
}

func TestReplayMissingFileIsNoop(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.aof")
	var calls int
	require.NoError(t, Replay(path, func(args [][]byte) error {
		calls++
		return nil
	}))
	require.Equal(t, 0, calls)
}
