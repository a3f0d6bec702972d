package store

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/candicandi/zedis/internal/engine/list"
	"github.com/candicandi/zedis/internal/engine/timeseries"
)

func newTestEngine() *Engine {
	return New(nil, Config{InitialCapacity: 8, NumDatabases: 4})
}

func TestSetGetRoundTrip(t *testing.T) {
	e := newTestEngine()
	require.NoError(t, e.Set(0, []byte("k"), []byte("hello")))

	v, ok, err := e.Get(0, []byte("k"), nil)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, []byte("hello"), v)
}

func TestSetEncodesIntegerCanonically(t *testing.T) {
	e := newTestEngine()
	require.NoError(t, e.Set(0, []byte("n"), []byte("41")))

	got, err := e.IncrBy(0, []byte("n"), 1)
	require.NoError(t, err)
	require.Equal(t, int64(42), got)

	v, _, _ := e.Get(0, []byte("n"), nil)
	require.Equal(t, []byte("42"), v)
}

func TestGetMissingReturnsNotFound(t *testing.T) {
	e := newTestEngine()
	_, ok, err := e.Get(0, []byte("missing"), nil)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestDelRemovesAndReportsCount(t *testing.T) {
	e := newTestEngine()
	require.NoError(t, e.Set(0, []byte("a"), []byte("1")))
	n, err := e.Del(0, [][]byte{[]byte("a"), []byte("missing")})
	require.NoError(t, err)
	require.Equal(t, 1, n)

	_, ok, _ := e.Get(0, []byte("a"), nil)
	require.False(t, ok)
}

func TestInterningReusesCanonicalKeyAddress(t *testing.T) {
	e := newTestEngine()
	require.NoError(t, e.Set(0, []byte("samekey"), []byte("v1")))
	a, _ := e.interner.Lookup([]byte("samekey"))
	require.NoError(t, e.Set(0, []byte("samekey"), []byte("v2")))

	b, _ := e.interner.Lookup([]byte("samekey"))
	require.NotNil(t, a)
	require.Same(t, &a[0], &b[0])
}

func TestExpireInThePastDeletesImmediately(t *testing.T) {
	e := newTestEngine()
	require.NoError(t, e.Set(0, []byte("k"), []byte("v")))
	deleted, err := e.Expire(0, []byte("k"), nowMS()-1000)
	require.NoError(t, err)
	require.True(t, deleted)

	_, ok, _ := e.Get(0, []byte("k"), nil)
	require.False(t, ok)
}

func TestTTLReportsAbsentNoTTLAndExpiry(t *testing.T) {
	e := newTestEngine()
	ttl, err := e.TTL(0, []byte("absent"))
	require.NoError(t, err)
	require.Equal(t, int64(-2), ttl)

	require.NoError(t, e.Set(0, []byte("k"), []byte("v")))
	ttl, err = e.TTL(0, []byte("k"))
	require.NoError(t, err)
	require.Equal(t, int64(-1), ttl)

	exp := nowMS() + 1_000_000
	_, err = e.Expire(0, []byte("k"), exp)
	require.NoError(t, err)
	ttl, err = e.TTL(0, []byte("k"))
	require.NoError(t, err)
	require.Equal(t, exp, ttl)
}

func TestPersistRemovesTTL(t *testing.T) {
	e := newTestEngine()
	require.NoError(t, e.Set(0, []byte("k"), []byte("v")))
	_, err := e.Expire(0, []byte("k"), nowMS()+1_000_000)
	require.NoError(t, err)

	removed, err := e.Persist(0, []byte("k"))
	require.NoError(t, err)
	require.True(t, removed)

	ttl, _ := e.TTL(0, []byte("k"))
	require.Equal(t, int64(-1), ttl)
}

func TestRenameMovesValueAndTTL(t *testing.T) {
	e := newTestEngine()
	require.NoError(t, e.Set(0, []byte("src"), []byte("v")))
	exp := nowMS() + 1_000_000
	_, err := e.Expire(0, []byte("src"), exp)
	require.NoError(t, err)

	require.NoError(t, e.Rename(0, []byte("src"), []byte("dst")))

	_, ok, _ := e.Get(0, []byte("src"), nil)
	require.False(t, ok)
	v, ok, _ := e.Get(0, []byte("dst"), nil)
	require.True(t, ok)
	require.Equal(t, []byte("v"), v)
	ttl, _ := e.TTL(0, []byte("dst"))
	require.Equal(t, exp, ttl)
}

func TestRenameMissingSourceErrors(t *testing.T) {
	e := newTestEngine()
	require.ErrorIs(t, e.Rename(0, []byte("missing"), []byte("dst")), ErrNoSuchKey)
}

func TestWrongTypeOnGetAgainstList(t *testing.T) {
	e := newTestEngine()
	_, err := e.RPush(0, []byte("l"), [][]byte{[]byte("a")})
	require.NoError(t, err)

	_, _, err = e.Get(0, []byte("l"), nil)
	require.ErrorIs(t, err, ErrWrongType)
}

func TestIncrByAgainstListIsWrongTypeAndPreservesList(t *testing.T) {
	e := newTestEngine()
	_, err := e.RPush(0, []byte("k"), [][]byte{[]byte("a")})
	require.NoError(t, err)

	_, err = e.IncrBy(0, []byte("k"), 1)
	require.ErrorIs(t, err, ErrWrongType)

	n, err := e.LLen(0, []byte("k"))
	require.NoError(t, err)
	require.Equal(t, 1, n, "the list must survive the failed INCR")
}

func TestIncrByFloatAgainstListIsWrongType(t *testing.T) {
	e := newTestEngine()
	_, err := e.RPush(0, []byte("k"), [][]byte{[]byte("a")})
	require.NoError(t, err)

	_, err = e.IncrByFloat(0, []byte("k"), 1.5)
	require.ErrorIs(t, err, ErrWrongType)
}

func TestAppendAgainstListIsWrongType(t *testing.T) {
	e := newTestEngine()
	_, err := e.RPush(0, []byte("k"), [][]byte{[]byte("a")})
	require.NoError(t, err)

	_, err = e.Append(0, []byte("k"), []byte("x"))
	require.ErrorIs(t, err, ErrWrongType)
}

func TestStrLenAgainstListIsWrongType(t *testing.T) {
	e := newTestEngine()
	_, err := e.RPush(0, []byte("k"), [][]byte{[]byte("a")})
	require.NoError(t, err)

	_, err = e.StrLen(0, []byte("k"))
	require.ErrorIs(t, err, ErrWrongType)
}

func TestDeletingKeyInOneDatabaseDoesNotCorruptSameKeyInAnother(t *testing.T) {
	e := newTestEngine()
	require.NoError(t, e.Set(1, []byte("foo"), []byte("x")))
	require.NoError(t, e.Set(0, []byte("foo"), []byte("y")))

	n, err := e.Del(0, [][]byte{[]byte("foo")})
	require.NoError(t, err)
	require.Equal(t, 1, n)

	v, ok, err := e.Get(1, []byte("foo"), nil)
	require.NoError(t, err)
	require.True(t, ok, "db 1's key must survive a delete of the same key content in db 0")
	require.Equal(t, []byte("x"), v)
}

func TestListPushPopRangeRoundTrip(t *testing.T) {
	e := newTestEngine()
	n, err := e.RPush(0, []byte("L"), [][]byte{[]byte("a"), []byte("b"), []byte("c")})
	require.NoError(t, err)
	require.Equal(t, 3, n)

	var got []string
	err = e.LRange(0, []byte("L"), 0, -1, func(c list.Cell) {
		got = append(got, string(c.Bytes()))
	})
	require.NoError(t, err)
	require.Equal(t, []string{"a", "b", "c"}, got)

	cell, ok, err := e.LIndex(0, []byte("L"), -1)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "c", string(cell.Bytes()))
}

func TestLSetOutOfRangeOnExistingList(t *testing.T) {
	e := newTestEngine()
	_, err := e.RPush(0, []byte("L"), [][]byte{[]byte("a")})
	require.NoError(t, err)
	require.ErrorIs(t, e.LSet(0, []byte("L"), 5, []byte("x")), ErrIndexOutOfRange)
}

func TestLSetOnAbsentKeyIsNoSuchKey(t *testing.T) {
	e := newTestEngine()
	require.ErrorIs(t, e.LSet(0, []byte("absent"), 0, []byte("x")), ErrNoSuchKey)
}

func TestTSCreateAddRange(t *testing.T) {
	e := newTestEngine()
	require.NoError(t, e.TSCreate(0, []byte("ts"), TSCreateOptions{MaxChunkSamples: 100, Encoding: timeseries.DeltaXor}))

	_, err := e.TSAdd(0, []byte("ts"), 1000, 10, TSCreateOptions{})
	require.NoError(t, err)
	_, err = e.TSAdd(0, []byte("ts"), 2000, 20, TSCreateOptions{})
	require.NoError(t, err)

	samples, err := e.TSRange(0, []byte("ts"), timeseries.RangeQuery{FromTS: 0, ToTS: 5000})
	require.NoError(t, err)
	require.Len(t, samples, 2)
	require.Equal(t, int64(1000), samples[0].TS)
	require.Equal(t, 10.0, samples[0].Val)
}

func TestTSCreateDuplicateErrors(t *testing.T) {
	e := newTestEngine()
	require.NoError(t, e.TSCreate(0, []byte("ts"), TSCreateOptions{}))
	require.ErrorIs(t, e.TSCreate(0, []byte("ts"), TSCreateOptions{}), ErrKeyExists)
}

func TestFlushDBClearsOnlySelectedDatabase(t *testing.T) {
	e := newTestEngine()
	require.NoError(t, e.Set(0, []byte("a"), []byte("1")))
	require.NoError(t, e.Set(1, []byte("b"), []byte("2")))

	require.NoError(t, e.FlushDB(0))

	_, ok, _ := e.Get(0, []byte("a"), nil)
	require.False(t, ok)
	_, ok, _ = e.Get(1, []byte("b"), nil)
	require.True(t, ok)
}

func TestDBSizeReflectsLiveKeys(t *testing.T) {
	e := newTestEngine()
	require.NoError(t, e.Set(0, []byte("a"), []byte("1")))
	require.NoError(t, e.Set(0, []byte("b"), []byte("2")))
	n, err := e.DBSize(0)
	require.NoError(t, err)
	require.Equal(t, 2, n)
}

func TestDBSizeExcludesExpiredUnsweptKeys(t *testing.T) {
	e := newTestEngine()
	require.NoError(t, e.Set(0, []byte("a"), []byte("1")))
	require.NoError(t, e.Set(0, []byte("b"), []byte("2")))

	// Back-date b's TTL directly (bypassing Expire, which would sweep it
	// immediately) so it's still present in the index but already expired
	// — lazy expiry only sweeps on access.
	e.mu.Lock()
	d, err := e.db(0)
	require.NoError(t, err)
	d.ttl["b"] = nowMS() - 1
	e.mu.Unlock()

	n, err := e.DBSize(0)
	require.NoError(t, err)
	require.Equal(t, 1, n)
}

func TestInvalidDatabaseIndexErrors(t *testing.T) {
	e := newTestEngine()
	_, err := e.DBSize(99)
	require.ErrorIs(t, err, ErrBadDBIndex)
}

func TestLRUMonotonicityAcrossGets(t *testing.T) {
	e := newTestEngine()
	require.NoError(t, e.Set(0, []byte("a"), []byte("1")))
	require.NoError(t, e.Set(0, []byte("b"), []byte("2")))

	_, _, _ = e.Get(0, []byte("a"), nil)
	stampA := e.accessCounter
	_, _, _ = e.Get(0, []byte("b"), nil)
	stampB := e.accessCounter
	require.Less(t, stampA, stampB)
}
