package hashindex

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPutGetDelete(t *testing.T) {
	ix := New[int](8)
	key := []byte("mykey")
	h := Hash64(key)

	ix.Put(key, h, 42)
	v, ok := ix.Get(key, h)
	require.True(t, ok)
	require.Equal(t, 42, v)

	_, ok = ix.Delete(key, h)
	require.True(t, ok)
	_, ok = ix.Get(key, h)
	require.False(t, ok)
}

func TestLoadFactorNeverExceeds75PercentAfterPut(t *testing.T) {
	ix := New[int](8)
	for i := 0; i < 1000; i++ {
		key := []byte(fmt.Sprintf("key-%d", i))
		ix.Put(key, Hash64(key), i)
		require.LessOrEqual(t, ix.LoadFactor(), 0.75)
	}
	require.Equal(t, 1000, ix.Len())
}

func TestPointerEqualityFastPathForInternedKeys(t *testing.T) {
	canon := []byte("shared")
	ix := New[int](8)
	ix.Put(canon, Hash64(canon), 7)

	v, ok := ix.Get(canon, Hash64(canon))
	require.True(t, ok)
	require.Equal(t, 7, v)
}

func TestDeleteThenReinsertReusesTombstoneSlot(t *testing.T) {
	ix := New[int](8)
	a, b := []byte("a"), []byte("b")
	ix.Put(a, Hash64(a), 1)
	ix.Put(b, Hash64(b), 2)
	ix.Delete(a, Hash64(a))
	ix.Put(a, Hash64(a), 99)

	v, ok := ix.Get(a, Hash64(a))
	require.True(t, ok)
	require.Equal(t, 99, v)
	v2, ok := ix.Get(b, Hash64(b))
	require.True(t, ok)
	require.Equal(t, 2, v2)
}

func TestForEachVisitsAllLiveEntries(t *testing.T) {
	ix := New[int](8)
	want := map[string]int{}
	for i := 0; i < 50; i++ {
		key := fmt.Sprintf("k%d", i)
		want[key] = i
		ix.Put([]byte(key), Hash64([]byte(key)), i)
	}

	got := map[string]int{}
	ix.ForEach(func(key []byte, val int) bool {
		got[string(key)] = val
		return true
	})
	require.Equal(t, want, got)
}

func TestHash64Deterministic(t *testing.T) {
	require.Equal(t, Hash64([]byte("hello")), Hash64([]byte("hello")))
}
