package store

import (
	"github.com/candicandi/zedis/internal/engine/hashindex"
	"github.com/candicandi/zedis/internal/engine/list"
	"github.com/candicandi/zedis/internal/engine/object"
)

// existingList fetches key's list, creating an empty one in place when
// create is true and the key is absent. Returns ErrWrongType if key holds
// a non-list value.
func (e *Engine) existingList(d *db, key []byte, create bool) (canon []byte, l *list.List, err error) {
	now := nowMS()
	canon = e.interner.Intern(key)
	ent, live := e.lookup(d, canon, now)
	if live {
		if ent.val.Kind != object.KindList {
			return canon, nil, ErrWrongType
		}
		return canon, ent.val.List, nil
	}
	if !create {
		return canon, nil, nil
	}
	l = list.New()
	if err := e.putObject(d, key, object.FromList(l)); err != nil {
		return canon, nil, err
	}
	return canon, l, nil
}

// LPush / RPush create the list at key if absent and push vals,
// left-to-right, returning the new length.
func (e *Engine) LPush(dbIndex int, key []byte, vals [][]byte) (int, error) {
	return e.push(dbIndex, key, vals, true)
}

func (e *Engine) RPush(dbIndex int, key []byte, vals [][]byte) (int, error) {
	return e.push(dbIndex, key, vals, false)
}

func (e *Engine) push(dbIndex int, key []byte, vals [][]byte, left bool) (int, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	d, err := e.db(dbIndex)
	if err != nil {
		return 0, err
	}
	_, l, err := e.existingList(d, key, true)
	if err != nil {
		return 0, err
	}
	cells := make([]list.Cell, len(vals))
	for i, v := range vals {
		cells[i] = list.NewCell(v)
	}
	if left {
		return l.PushLeft(cells...), nil
	}
	return l.PushRight(cells...), nil
}

// LPop / RPop remove up to count elements (count < 0 means "no count": at
// most one element, returned as a slice of length 0 or 1). A nil slice
// means the key is absent.
func (e *Engine) LPop(dbIndex int, key []byte, count int) ([]list.Cell, error) {
	return e.pop(dbIndex, key, count, true)
}

func (e *Engine) RPop(dbIndex int, key []byte, count int) ([]list.Cell, error) {
	return e.pop(dbIndex, key, count, false)
}

func (e *Engine) pop(dbIndex int, key []byte, count int, left bool) ([]list.Cell, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	d, err := e.db(dbIndex)
	if err != nil {
		return nil, err
	}
	canon, l, err := e.existingList(d, key, false)
	if err != nil {
		return nil, err
	}
	if l == nil {
		return nil, nil
	}
	var out []list.Cell
	if left {
		out = l.PopLeft(count)
	} else {
		out = l.PopRight(count)
	}
	if l.Len() == 0 {
		e.deleteList(d, canon)
	}
	return out, nil
}

func (e *Engine) deleteList(d *db, canon []byte) {
	e.deleteLocked(d, canon, hashindex.Hash64(canon))
}

// LLen returns 0 if key is absent.
func (e *Engine) LLen(dbIndex int, key []byte) (int, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	d, err := e.db(dbIndex)
	if err != nil {
		return 0, err
	}
	_, l, err := e.existingList(d, key, false)
	if err != nil || l == nil {
		return 0, err
	}
	return l.Len(), nil
}

// LIndex returns the element at i, ok=false if out of range or the key is
// absent.
func (e *Engine) LIndex(dbIndex int, key []byte, i int) (list.Cell, bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	d, err := e.db(dbIndex)
	if err != nil {
		return list.Cell{}, false, err
	}
	_, l, err := e.existingList(d, key, false)
	if err != nil || l == nil {
		return list.Cell{}, false, err
	}
	c, ok := l.Index(i)
	return c, ok, nil
}

// LSet overwrites the element at i. Returns ErrNoSuchKey if key is
// absent, ErrIndexOutOfRange if i is out of range for an existing list.
func (e *Engine) LSet(dbIndex int, key []byte, i int, val []byte) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	d, err := e.db(dbIndex)
	if err != nil {
		return err
	}
	_, l, err := e.existingList(d, key, false)
	if err != nil {
		return err
	}
	if l == nil {
		return ErrNoSuchKey
	}
	if !l.Set(i, list.NewCell(val)) {
		return ErrIndexOutOfRange
	}
	return nil
}

// LRange streams the clamped [start, stop] range to emit, in order.
func (e *Engine) LRange(dbIndex int, key []byte, start, stop int, emit func(list.Cell)) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	d, err := e.db(dbIndex)
	if err != nil {
		return err
	}
	_, l, err := e.existingList(d, key, false)
	if err != nil || l == nil {
		return err
	}
	l.Range(start, stop, emit)
	return nil
}
