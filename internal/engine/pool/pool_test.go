package pool

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAllocRoutesToSmallestFittingClass(t *testing.T) {
	p := New()

	buf, ok := p.Alloc(10)
	require.True(t, ok)
	require.Equal(t, 32, cap(buf))

	buf2, ok := p.Alloc(100)
	require.True(t, ok)
	require.Equal(t, 128, cap(buf2))

	buf3, ok := p.Alloc(512)
	require.True(t, ok)
	require.Equal(t, 512, cap(buf3))
}

func TestAllocMissBeyondLargestClass(t *testing.T) {
	p := New()
	buf, ok := p.Alloc(513)
	require.False(t, ok)
	require.Nil(t, buf)

	stats := p.Stats()
	require.Equal(t, uint64(1), stats.Misses)
}

func TestOwnsAndFreeRoundTrip(t *testing.T) {
	p := New()
	buf, ok := p.Alloc(16)
	require.True(t, ok)
	require.True(t, p.Owns(buf))

	p.Free(buf)
	// A slice not allocated by the pool is never "owned".
	require.False(t, p.Owns(make([]byte, 16)))
}

func TestFreedSlotIsReused(t *testing.T) {
	p := New()
	buf, _ := p.Alloc(10)
	p.Free(buf)

	buf2, ok := p.Alloc(10)
	require.True(t, ok)
	require.Equal(t, cap(buf), cap(buf2))

	stats := p.Stats()
	require.Equal(t, uint64(2), stats.Hits)
}

func TestInternReturnsSameBackingArrayOnSecondInsertion(t *testing.T) {
	in := NewInterner(New())

	a := in.Intern([]byte("mykey"))
	b := in.Intern([]byte("mykey"))

	require.Equal(t, &a[0], &b[0], "second insertion must return the same canonical backing array")
}

func TestInternEmptyKeyNoHeapPoolUsage(t *testing.T) {
	in := NewInterner(New())
	got := in.Intern([]byte(""))
	require.Equal(t, []byte{}, got)
}

func TestInternerLookupDoesNotCreate(t *testing.T) {
	in := NewInterner(New())
	_, ok := in.Lookup([]byte("absent"))
	require.False(t, ok)
	require.Equal(t, 0, in.Len())
}

func TestInternerReleaseFreesPoolSlot(t *testing.T) {
	p := New()
	in := NewInterner(p)
	canon := in.Intern([]byte("short"))
	require.True(t, in.Len() == 1)
	require.True(t, p.Owns(canon))

	in.Release([]byte("short"))
	require.Equal(t, 0, in.Len())

	// The freed slot is the next one handed out for the same size class.
	buf, ok := p.Alloc(len("short"))
	require.True(t, ok)
	require.Same(t, &canon[:1][0], &buf[:1][0])
}

func TestInternerSurvivesReleaseWhileStillReferenced(t *testing.T) {
	in := NewInterner(New())
	canon := in.Intern([]byte("shared"))
	in.Acquire(canon) // db 0's index entry
	in.Acquire(canon) // db 1's index entry

	in.Release(canon) // db 0 deletes its entry
	require.Equal(t, 1, in.Len(), "key must stay interned while db 1 still references it")

	got, ok := in.Lookup([]byte("shared"))
	require.True(t, ok)
	require.Equal(t, &canon[0], &got[0])

	in.Release(canon) // db 1 deletes its entry
	require.Equal(t, 0, in.Len())
}
