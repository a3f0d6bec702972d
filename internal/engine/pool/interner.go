package pool

import "sync"

// Interner canonicalizes key byte content to a single owned copy. Once a
// key has been interned, every later reference to the same content reuses
// the same backing array: hash-index lookups, the TTL index, and values
// returned to callers all point at the canonical slice, so repeated
// insertions of the same key collapse to a pointer compare.
//
// The same canonical slice can be referenced by more than one logical
// database's hash index at once (identical key content in db 0 and db 1
// shares one entry here), so entries are reference-counted rather than
// freed on first release: Acquire records a new index entry pointing at
// the canonical slice, Release undoes one, and the backing buffer only
// returns to the pool once the count reaches zero.
type Interner struct {
	pool *Pool

	mu  sync.RWMutex
	set map[string]*internedKey
}

type internedKey struct {
	buf  []byte
	refs int
}

// NewInterner builds an interner backed by p. p may be shared with other
// consumers of the tiered pool.
func NewInterner(p *Pool) *Interner {
	return &Interner{pool: p, set: make(map[string]*internedKey)}
}

// Intern returns the canonical copy of b. If b has not been seen before, a
// new owned copy is duplicated through the tiered pool (falling back to a
// plain allocation when b exceeds every pool class) and installed as the
// canonical slice. Intern alone does not count as a reference; callers
// that install a new index entry for the returned slice must also call
// Acquire.
func (in *Interner) Intern(b []byte) []byte {
	in.mu.RLock()
	if k, ok := in.set[string(b)]; ok {
		in.mu.RUnlock()
		return k.buf
	}
	in.mu.RUnlock()

	in.mu.Lock()
	defer in.mu.Unlock()

	// Re-check: another goroutine may have interned it while we upgraded
	// to the write lock.
	if k, ok := in.set[string(b)]; ok {
		return k.buf
	}

	canon := in.duplicate(b)
	in.set[string(canon)] = &internedKey{buf: canon}
	return canon
}

// Lookup returns the canonical copy of b without interning it, for callers
// (e.g. DEL, GET) that must not create a key as a side effect of reading.
func (in *Interner) Lookup(b []byte) ([]byte, bool) {
	in.mu.RLock()
	defer in.mu.RUnlock()
	k, ok := in.set[string(b)]
	if !ok {
		return nil, false
	}
	return k.buf, true
}

// Acquire records one more index entry pointing at the already-interned
// canonical slice b. Must be called exactly once per hash-index entry
// created for b (i.e. once per database that stores the key), balanced by
// one later Release.
func (in *Interner) Acquire(b []byte) {
	in.mu.Lock()
	defer in.mu.Unlock()
	if k, ok := in.set[string(b)]; ok {
		k.refs++
	}
}

// Release drops one reference to b. Once every index entry that referenced
// it has called Release, the key is dropped from the interned set and its
// backing buffer returned to the pool that owns it (or left for the GC, for
// base-allocator fallbacks).
func (in *Interner) Release(b []byte) {
	in.mu.Lock()
	defer in.mu.Unlock()

	k, ok := in.set[string(b)]
	if !ok {
		return
	}
	k.refs--
	if k.refs > 0 {
		return
	}
	delete(in.set, string(b))
	in.pool.Free(k.buf)
}

// Len reports the number of distinct interned keys.
func (in *Interner) Len() int {
	in.mu.RLock()
	defer in.mu.RUnlock()
	return len(in.set)
}

func (in *Interner) duplicate(b []byte) []byte {
	if len(b) == 0 {
		return []byte{}
	}
	if buf, ok := in.pool.Alloc(len(b)); ok {
		buf = append(buf, b...)
		return buf
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out
}
