package store

import (
	"strconv"

	"github.com/candicandi/zedis/internal/engine/hashindex"
	"github.com/candicandi/zedis/internal/engine/object"
)

// Set stores value under key using the automatic int/short-string/string
// encoding, clearing any existing TTL. SETEX builds on this path; SETNX
// uses the same object.Encode call rather than re-deriving the encoding
// logic.
func (e *Engine) Set(dbIndex int, key, value []byte) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	d, err := e.db(dbIndex)
	if err != nil {
		return err
	}
	canon := e.interner.Intern(key)
	delete(d.ttl, string(canon))
	return e.putObject(d, key, object.Encode(value, e.pool))
}

// SetEx is Set followed by an Expire at now+ttlMS.
func (e *Engine) SetEx(dbIndex int, key, value []byte, ttlMS int64) error {
	if err := e.Set(dbIndex, key, value); err != nil {
		return err
	}
	_, err := e.Expire(dbIndex, key, nowMS()+ttlMS)
	return err
}

// SetNX sets key only if it does not already exist, reporting whether the
// set happened.
func (e *Engine) SetNX(dbIndex int, key, value []byte) (bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	d, err := e.db(dbIndex)
	if err != nil {
		return false, err
	}
	if canon, ok := e.interner.Lookup(key); ok {
		if _, live := e.lookup(d, canon, nowMS()); live {
			return false, nil
		}
	}
	if err := e.putObject(d, key, object.Encode(value, e.pool)); err != nil {
		return false, err
	}
	return true, nil
}

// Get returns the string-family bytes stored at key, materializing into
// scratch for KindInt values. ok is false if the key is absent or
// lazily-expired; err is ErrWrongType if the stored value is list/ts.
func (e *Engine) Get(dbIndex int, key, scratch []byte) (val []byte, ok bool, err error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	d, err := e.db(dbIndex)
	if err != nil {
		return nil, false, err
	}
	canon, found := e.interner.Lookup(key)
	if !found {
		return nil, false, nil
	}
	ent, live := e.lookup(d, canon, nowMS())
	if !live {
		return nil, false, nil
	}
	if !ent.val.IsStringFamily() {
		return nil, false, ErrWrongType
	}
	ent.lastAccess = e.bumpAccess()
	return append(scratch[:0], ent.val.Bytes(nil)...), true, nil
}

// GetSet atomically replaces key's value and returns the previous
// string-family bytes (nil, false if previously absent).
func (e *Engine) GetSet(dbIndex int, key, value []byte) (old []byte, existed bool, err error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	d, err := e.db(dbIndex)
	if err != nil {
		return nil, false, err
	}
	canon, found := e.interner.Lookup(key)
	if found {
		if ent, live := e.lookup(d, canon, nowMS()); live {
			if !ent.val.IsStringFamily() {
				return nil, false, ErrWrongType
			}
			old = append([]byte(nil), ent.val.Bytes(nil)...)
			existed = true
		}
	}
	delete(d.ttl, string(e.interner.Intern(key)))
	if err := e.putObject(d, key, object.Encode(value, e.pool)); err != nil {
		return nil, false, err
	}
	return old, existed, nil
}

// MGet returns one string-family value per key (nil entries for absent
// or wrong-typed keys, matching Redis MGET's "null for anything odd").
func (e *Engine) MGet(dbIndex int, keys [][]byte) ([][]byte, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	d, err := e.db(dbIndex)
	if err != nil {
		return nil, err
	}
	now := nowMS()
	out := make([][]byte, len(keys))
	for i, key := range keys {
		canon, found := e.interner.Lookup(key)
		if !found {
			continue
		}
		ent, live := e.lookup(d, canon, now)
		if !live || !ent.val.IsStringFamily() {
			continue
		}
		ent.lastAccess = e.bumpAccess()
		out[i] = append([]byte(nil), ent.val.Bytes(nil)...)
	}
	return out, nil
}

// MSet installs every (key, value) pair in pairs, in order.
func (e *Engine) MSet(dbIndex int, pairs [][2][]byte) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	d, err := e.db(dbIndex)
	if err != nil {
		return err
	}
	for _, kv := range pairs {
		canon := e.interner.Intern(kv[0])
		delete(d.ttl, string(canon))
		if err := e.putObject(d, kv[0], object.Encode(kv[1], e.pool)); err != nil {
			return err
		}
	}
	return nil
}

// IncrBy adds delta to the integer value at key (defaulting to 0 if
// absent), storing and returning the result.
func (e *Engine) IncrBy(dbIndex int, key []byte, delta int64) (int64, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	d, err := e.db(dbIndex)
	if err != nil {
		return 0, err
	}
	canon, ent, live, err := e.existingStringEntry(d, key)
	if err != nil {
		return 0, err
	}
	base := int64(0)
	if live {
		n, ok := ent.val.Int64()
		if !ok {
			return 0, ErrNotInteger
		}
		base = n
	}
	next := base + delta
	if delta > 0 && next < base {
		return 0, ErrOverflow
	}
	if delta < 0 && next > base {
		return 0, ErrOverflow
	}
	if err := e.storeScalar(d, canon, key, object.Int(next)); err != nil {
		return 0, err
	}
	return next, nil
}

// IncrByFloat adds delta to the float value at key, storing the canonical
// decimal text form and returning it.
func (e *Engine) IncrByFloat(dbIndex int, key []byte, delta float64) ([]byte, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	d, err := e.db(dbIndex)
	if err != nil {
		return nil, err
	}
	canon, ent, live, err := e.existingStringEntry(d, key)
	if err != nil {
		return nil, err
	}
	base := 0.0
	if live {
		b := ent.val.Bytes(nil)
		f, perr := strconv.ParseFloat(string(b), 64)
		if perr != nil {
			return nil, ErrNotFloat
		}
		base = f
	}
	next := base + delta
	text := strconv.FormatFloat(next, 'f', -1, 64)
	if err := e.storeScalar(d, canon, key, object.Encode([]byte(text), e.pool)); err != nil {
		return nil, err
	}
	return []byte(text), nil
}

// Append concatenates value onto the existing string-family bytes at key
// (or creates it), returning the new total length.
func (e *Engine) Append(dbIndex int, key, value []byte) (int, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	d, err := e.db(dbIndex)
	if err != nil {
		return 0, err
	}
	canon, ent, live, err := e.existingStringEntry(d, key)
	if err != nil {
		return 0, err
	}
	var combined []byte
	if live {
		combined = append(combined, ent.val.Bytes(nil)...)
	}
	combined = append(combined, value...)
	if err := e.storeScalar(d, canon, key, object.Encode(combined, e.pool)); err != nil {
		return 0, err
	}
	return len(combined), nil
}

// StrLen returns the byte length of the string-family value at key, 0 if
// absent.
func (e *Engine) StrLen(dbIndex int, key []byte) (int, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	d, err := e.db(dbIndex)
	if err != nil {
		return 0, err
	}
	_, ent, live, err := e.existingStringEntry(d, key)
	if err != nil {
		return 0, err
	}
	if !live {
		return 0, nil
	}
	return ent.val.Len(), nil
}

// existingStringEntry looks up key, validating that any existing value is
// string-family; canon is the interned key regardless of whether the key
// currently exists (needed by callers that must create it on miss). Returns
// ErrWrongType if key holds a non-string-family value, the same contract
// existingList follows for lists.
func (e *Engine) existingStringEntry(d *db, key []byte) (canon []byte, ent *entry, live bool, err error) {
	canon = e.interner.Intern(key)
	found, ok := e.lookup(d, canon, nowMS())
	if !ok {
		return canon, nil, false, nil
	}
	if !found.val.IsStringFamily() {
		return canon, nil, false, ErrWrongType
	}
	return canon, found, true, nil
}

// storeScalar overwrites (or creates) canon's entry with val without
// touching its TTL, matching INCR*/APPEND's "mutate in place" lifecycle.
func (e *Engine) storeScalar(d *db, canon, key []byte, val object.Value) error {
	h := hashindex.Hash64(canon)
	if existing, ok := d.index.Get(canon, h); ok {
		existing.val = val
		existing.lastAccess = e.bumpAccess()
		return nil
	}
	return e.putObject(d, key, val)
}
