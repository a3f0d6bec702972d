package store

import (
	"github.com/candicandi/zedis/internal/engine/hashindex"
	"github.com/candicandi/zedis/internal/engine/object"
)

// lookup returns the live entry for key in d, deleting and reporting
// absence if it has lazily expired.
func (e *Engine) lookup(d *db, key []byte, nowMS int64) (*entry, bool) {
	h := hashindex.Hash64(key)
	ent, ok := d.index.Get(key, h)
	if !ok {
		return nil, false
	}
	if exp, hasTTL := d.ttl[string(key)]; hasTTL && nowMS > exp {
		e.deleteLocked(d, key, h)
		return nil, false
	}
	return ent, true
}

// deleteLocked removes key from d's index and TTL map, releasing the
// interned copy once nothing references it.
func (e *Engine) deleteLocked(d *db, key []byte, h uint32) bool {
	if !e.deleteIndexOnly(d, key, h) {
		return false
	}
	e.interner.Release(key)
	return true
}

// deleteIndexOnly removes key from d's index and TTL map without
// releasing its interned copy, for callers that are about to reinstall
// the same key (e.g. RENAME overwriting an existing destination).
func (e *Engine) deleteIndexOnly(d *db, key []byte, h uint32) bool {
	_, ok := d.index.Delete(key, h)
	if !ok {
		return false
	}
	delete(d.ttl, string(key))
	return true
}

// Del removes keys, returning the count actually removed.
func (e *Engine) Del(dbIndex int, keys [][]byte) (int, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	d, err := e.db(dbIndex)
	if err != nil {
		return 0, err
	}
	now := nowMS()
	n := 0
	for _, key := range keys {
		if canon, ok := e.interner.Lookup(key); ok {
			if _, live := e.lookup(d, canon, now); live {
				if e.deleteLocked(d, canon, hashindex.Hash64(canon)) {
					n++
				}
			}
		}
	}
	return n, nil
}

// Exists reports how many of keys are currently present (duplicates in
// the input each count, matching Redis EXISTS semantics).
func (e *Engine) Exists(dbIndex int, keys [][]byte) (int, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	d, err := e.db(dbIndex)
	if err != nil {
		return 0, err
	}
	now := nowMS()
	n := 0
	for _, key := range keys {
		if canon, ok := e.interner.Lookup(key); ok {
			if _, live := e.lookup(d, canon, now); live {
				n++
			}
		}
	}
	return n, nil
}

// Type returns the RESP TYPE name for key, "none" if absent.
func (e *Engine) Type(dbIndex int, key []byte) (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	d, err := e.db(dbIndex)
	if err != nil {
		return "", err
	}
	canon, ok := e.interner.Lookup(key)
	if !ok {
		return "none", nil
	}
	ent, live := e.lookup(d, canon, nowMS())
	if !live {
		return "none", nil
	}
	return ent.val.TypeName(), nil
}

// Keys returns every live key for which match reports true.
func (e *Engine) Keys(dbIndex int, match func(key []byte) bool) ([][]byte, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	d, err := e.db(dbIndex)
	if err != nil {
		return nil, err
	}
	now := nowMS()
	var out [][]byte
	d.index.ForEach(func(key []byte, val *entry) bool {
		if exp, hasTTL := d.ttl[string(key)]; hasTTL && now > exp {
			return true // lazily-expired keys are swept on access, not here
		}
		_ = val
		if match(key) {
			cp := append([]byte(nil), key...)
			out = append(out, cp)
		}
		return true
	})
	return out, nil
}

// RandomKey returns one live key chosen by the approximate sampler, or
// ok=false if the database is empty.
func (e *Engine) RandomKey(dbIndex int) (key []byte, ok bool, err error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	d, err := e.db(dbIndex)
	if err != nil {
		return nil, false, err
	}
	now := nowMS()
	for _, s := range d.index.SampleOccupied(int(e.accessCounter), d.index.Len()) {
		if exp, hasTTL := d.ttl[string(s.Key)]; hasTTL && now > exp {
			continue // lazily-expired, not yet swept
		}
		return append([]byte(nil), s.Key...), true, nil
	}
	return nil, false, nil
}

// Rename moves the value (and TTL) at src to dst. Fails with ErrNoSuchKey
// if src is absent; overwrites dst if present.
func (e *Engine) Rename(dbIndex int, src, dst []byte) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	d, err := e.db(dbIndex)
	if err != nil {
		return err
	}
	now := nowMS()
	srcCanon, ok := e.interner.Lookup(src)
	if !ok {
		return ErrNoSuchKey
	}
	ent, live := e.lookup(d, srcCanon, now)
	if !live {
		return ErrNoSuchKey
	}

	srcExp, srcHasTTL := d.ttl[string(srcCanon)]

	dstCanon := e.interner.Intern(dst)
	dstWasLive := false
	if _, live := e.lookup(d, dstCanon, now); live {
		dstWasLive = true
		e.deleteIndexOnly(d, dstCanon, hashindex.Hash64(dstCanon))
	}

	e.deleteLocked(d, srcCanon, hashindex.Hash64(srcCanon))
	d.index.Put(dstCanon, hashindex.Hash64(dstCanon), ent)
	if !dstWasLive {
		e.interner.Acquire(dstCanon)
	}
	if srcHasTTL {
		d.ttl[string(dstCanon)] = srcExp
	}
	return nil
}

// DBSize returns the number of live (non-expired) keys in the selected
// database. Keys whose TTL has passed but haven't yet been swept by a
// lazy lookup are not counted, so this walks the TTL map rather than
// trusting the index's raw entry count.
func (e *Engine) DBSize(dbIndex int) (int, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	d, err := e.db(dbIndex)
	if err != nil {
		return 0, err
	}
	now := nowMS()
	expired := 0
	for _, exp := range d.ttl {
		if now > exp {
			expired++
		}
	}
	return d.index.Len() - expired, nil
}

// FlushDB clears the selected database.
func (e *Engine) FlushDB(dbIndex int) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	d, err := e.db(dbIndex)
	if err != nil {
		return err
	}
	e.flushDB(d)
	return nil
}

// FlushAll clears every logical database.
func (e *Engine) FlushAll() {
	e.mu.Lock()
	defer e.mu.Unlock()
	for _, d := range e.dbs {
		e.flushDB(d)
	}
}

func (e *Engine) flushDB(d *db) {
	var keys [][]byte
	d.index.ForEach(func(key []byte, val *entry) bool {
		_ = val
		keys = append(keys, key)
		return true
	})
	for _, key := range keys {
		e.deleteLocked(d, key, hashindex.Hash64(key))
	}
}

// putObject installs val under key in d, interning the key if new and
// evicting under pressure first: the engine itself plays allocator and
// eviction policy, invoked from inside put rather than via a separate
// collaborator. Returns ErrOOM only under NoEviction when the memory
// budget cannot admit the entry; under the LRU policies eviction stops
// once no victim can be sampled and the entry is admitted anyway.
func (e *Engine) putObject(d *db, key []byte, val object.Value) error {
	canon := e.interner.Intern(key)
	if err := e.maybeEvict(approxSize(val)); err != nil {
		return err
	}
	h := hashindex.Hash64(canon)
	if existing, ok := d.index.Get(canon, h); ok {
		*existing = entry{val: val, lastAccess: e.bumpAccess()}
		return nil
	}
	e.interner.Acquire(canon)
	d.index.Put(canon, h, &entry{val: val, lastAccess: e.bumpAccess()})
	return nil
}

func (e *Engine) bumpAccess() uint64 {
	e.accessCounter++
	return e.accessCounter
}

func approxSize(v object.Value) uint64 {
	return uint64(32 + v.Len())
}
