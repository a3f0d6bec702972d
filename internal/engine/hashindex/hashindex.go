// Package hashindex implements the ordered open-addressing map from
// interned key to stored object: CityHash64 keying, pointer-equality fast
// path for already-interned keys, and a 75% load-factor rehash policy
// enforced before every insert.
//
// hashindex is not internally synchronized. The engine's concurrency model
// calls for a single engine-wide lock held across each command's execution
// as the simplest faithful model; the store package that embeds Index is
// the lock holder.
package hashindex

const (
	maxLoadFactorNum = 3
	maxLoadFactorDen = 4 // 75%
	minCapacity      = 8
)

type slotState uint8

const (
	slotEmpty slotState = iota
	slotOccupied
	slotTombstone
)

type slot[V any] struct {
	state slotState
	hash  uint32
	key   []byte
	val   V
}

// Index is a generic open-addressing hash map keyed by byte-slice key
// content, hashed with CityHash64. V is the stored object type (the store
// package instantiates it with its entry type, keeping this package free
// of any dependency on the object/list/timeseries packages).
type Index[V any] struct {
	slots []slot[V]
	count int // occupied, excludes tombstones
	used  int // occupied + tombstones, drives resize timing
}

// New returns an index with at least the requested initial capacity,
// rounded up to a power of two no smaller than minCapacity.
func New[V any](initialCapacity int) *Index[V] {
	cap := minCapacity
	for cap < initialCapacity {
		cap *= 2
	}
	return &Index[V]{slots: make([]slot[V], cap)}
}

// Len returns the number of live (non-tombstone) entries.
func (ix *Index[V]) Len() int { return ix.count }

// LoadFactor returns the current occupied/used fraction against capacity,
// for diagnostics.
func (ix *Index[V]) LoadFactor() float64 {
	if len(ix.slots) == 0 {
		return 0
	}
	return float64(ix.count) / float64(len(ix.slots))
}

func (ix *Index[V]) probe(key []byte, hash uint32) (idx int, found bool) {
	mask := uint32(len(ix.slots) - 1)
	i := hash & mask
	firstTombstone := -1
	for probed := 0; probed < len(ix.slots); probed++ {
		s := &ix.slots[i]
		switch s.state {
		case slotEmpty:
			if firstTombstone >= 0 {
				return firstTombstone, false
			}
			return int(i), false
		case slotTombstone:
			if firstTombstone < 0 {
				firstTombstone = int(i)
			}
		case slotOccupied:
			if s.hash == hash && keyEqual(s.key, key) {
				return int(i), true
			}
		}
		i = (i + 1) & mask
	}
	if firstTombstone >= 0 {
		return firstTombstone, false
	}
	return -1, false
}

// Get looks up key (already CityHash64-hashed by the caller, which owns
// the interned canonical copy and so can cache the hash alongside it).
func (ix *Index[V]) Get(key []byte, hash uint32) (V, bool) {
	idx, found := ix.probe(key, hash)
	if !found {
		var zero V
		return zero, false
	}
	return ix.slots[idx].val, true
}

// Put installs key->val, growing the table first if the insertion would
// push the load factor past 75% (load factor never exceeds 75% *after* a
// put). key must be the interned canonical slice;
// Index stores it by reference, not by copy.
func (ix *Index[V]) Put(key []byte, hash uint32, val V) {
	if (ix.used+1)*maxLoadFactorDen > len(ix.slots)*maxLoadFactorNum {
		ix.grow()
	}

	idx, found := ix.probe(key, hash)
	s := &ix.slots[idx]
	if !found {
		if s.state == slotEmpty {
			ix.used++
		}
		ix.count++
	}
	s.state = slotOccupied
	s.hash = hash
	s.key = key
	s.val = val
}

// Delete removes key, if present, returning its value.
func (ix *Index[V]) Delete(key []byte, hash uint32) (V, bool) {
	idx, found := ix.probe(key, hash)
	if !found {
		var zero V
		return zero, false
	}
	s := &ix.slots[idx]
	val := s.val
	var zero V
	s.val = zero
	s.key = nil
	s.state = slotTombstone
	ix.count--
	return val, true
}

func (ix *Index[V]) grow() {
	old := ix.slots
	ix.slots = make([]slot[V], len(old)*2)
	ix.used = 0
	ix.count = 0
	for _, s := range old {
		if s.state != slotOccupied {
			continue
		}
		ix.Put(s.key, s.hash, s.val)
	}
}

// ForEach walks live entries in slot order (unspecified relative to
// insertion order, which is fine for KEYS/DBSIZE). Stops early if fn
// returns false.
func (ix *Index[V]) ForEach(fn func(key []byte, val V) bool) {
	for i := range ix.slots {
		if ix.slots[i].state != slotOccupied {
			continue
		}
		if !fn(ix.slots[i].key, ix.slots[i].val) {
			return
		}
	}
}

// SampleOccupied returns up to n (key, val) pairs starting from a
// caller-chosen slot offset, wrapping around the table. Used by the
// approximate-LRU sampler to draw "up to n random indices" without
// building an auxiliary index of all keys.
func (ix *Index[V]) SampleOccupied(start, n int) []Sample[V] {
	if len(ix.slots) == 0 {
		return nil
	}
	out := make([]Sample[V], 0, n)
	i := start % len(ix.slots)
	if i < 0 {
		i += len(ix.slots)
	}
	for scanned := 0; scanned < len(ix.slots) && len(out) < n; scanned++ {
		if ix.slots[i].state == slotOccupied {
			out = append(out, Sample[V]{Key: ix.slots[i].key, Val: ix.slots[i].val})
		}
		i = (i + 1) % len(ix.slots)
	}
	return out
}

// Sample is one (key, value) pair drawn by SampleOccupied.
type Sample[V any] struct {
	Key []byte
	Val V
}
