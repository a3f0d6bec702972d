// Package list implements the doubly-linked list value type: cached
// length, signed-index semantics (LINDEX/LSET), and the clamped-range walk
// used by LRANGE. Primitive list cells are string or int, the same
// auto-encoding SET applies to top-level string values.
package list

import "strconv"

// CellKind discriminates a list element.
type CellKind uint8

const (
	CellString CellKind = iota
	CellInt
)

// Cell is one list element: a primitive string or int, never both.
type Cell struct {
	Kind CellKind
	Str  []byte
	Int  int64
}

// NewCell builds a Cell from raw bytes, promoting to CellInt when b parses
// as a canonical base-10 signed 64-bit integer, mirroring the string
// encoder's integer promotion.
func NewCell(b []byte) Cell {
	if n, err := strconv.ParseInt(string(b), 10, 64); err == nil {
		if strconv.FormatInt(n, 10) == string(b) {
			return Cell{Kind: CellInt, Int: n}
		}
	}
	dup := make([]byte, len(b))
	copy(dup, b)
	return Cell{Kind: CellString, Str: dup}
}

// Bytes returns the byte representation of the cell.
func (c Cell) Bytes() []byte {
	if c.Kind == CellInt {
		return strconv.AppendInt(nil, c.Int, 10)
	}
	return c.Str
}

type node struct {
	prev, next *node
	cell       Cell
}

// List is a doubly-linked list with O(1) push/pop at either end and O(1)
// access to the head and tail via LINDEX/LSET with index 0 or -1.
type List struct {
	head, tail *node
	length     int
}

// New returns an empty list.
func New() *List { return &List{} }

// Len returns the cached length; O(1).
func (l *List) Len() int { return l.length }

// PushLeft prepends each value in vals left-to-right (so the last element
// of vals ends up closest to the head) and returns the new length.
func (l *List) PushLeft(vals ...Cell) int {
	for _, v := range vals {
		n := &node{cell: v, next: l.head}
		if l.head != nil {
			l.head.prev = n
		}
		l.head = n
		if l.tail == nil {
			l.tail = n
		}
		l.length++
	}
	return l.length
}

// PushRight appends each value in vals left-to-right and returns the new
// length.
func (l *List) PushRight(vals ...Cell) int {
	for _, v := range vals {
		n := &node{cell: v, prev: l.tail}
		if l.tail != nil {
			l.tail.next = n
		}
		l.tail = n
		if l.head == nil {
			l.head = n
		}
		l.length++
	}
	return l.length
}

// PopLeft removes and returns up to n elements from the head. n < 0 means
// "no count": at most one element is removed, returned as a slice of
// length 0 or 1.
func (l *List) PopLeft(n int) []Cell {
	return l.pop(n, true)
}

// PopRight removes and returns up to n elements from the tail.
func (l *List) PopRight(n int) []Cell {
	return l.pop(n, false)
}

func (l *List) pop(n int, left bool) []Cell {
	if n < 0 {
		n = 1
	}
	if n > l.length {
		n = l.length
	}
	out := make([]Cell, 0, n)
	for i := 0; i < n; i++ {
		var cur *node
		if left {
			cur = l.head
		} else {
			cur = l.tail
		}
		if cur == nil {
			break
		}
		l.remove(cur)
		out = append(out, cur.cell)
	}
	return out
}

func (l *List) remove(n *node) {
	if n.prev != nil {
		n.prev.next = n.next
	} else {
		l.head = n.next
	}
	if n.next != nil {
		n.next.prev = n.prev
	} else {
		l.tail = n.prev
	}
	l.length--
}

// resolveIndex converts a signed, possibly-negative index (negative counts
// from the tail) into a 0-based forward offset. ok is false when the index
// is out of [0, length).
func (l *List) resolveIndex(i int) (int, bool) {
	if i < 0 {
		i += l.length
	}
	if i < 0 || i >= l.length {
		return 0, false
	}
	return i, true
}

func (l *List) nodeAt(i int) *node {
	// O(1) at either end, linear walk otherwise.
	if i <= l.length-1-i {
		n := l.head
		for ; i > 0; i-- {
			n = n.next
		}
		return n
	}
	n := l.tail
	for j := l.length - 1; j > i; j-- {
		n = n.prev
	}
	return n
}

// Index returns the element at i (negative counts from the tail). ok is
// false when i is out of range.
func (l *List) Index(i int) (Cell, bool) {
	idx, ok := l.resolveIndex(i)
	if !ok {
		return Cell{}, false
	}
	return l.nodeAt(idx).cell, true
}

// Set overwrites the element at i. ok is false ("index out of range") when
// i is out of range.
func (l *List) Set(i int, v Cell) bool {
	idx, ok := l.resolveIndex(i)
	if !ok {
		return false
	}
	l.nodeAt(idx).cell = v
	return true
}

// Range clamps [start, stop] and streams the
// resulting elements to emit in order, without building an intermediate
// slice:
//   - negative indices count from the tail and are clamped, never errored;
//   - if start >= length after clamping, the range is empty;
//   - stop is clamped to length-1;
//   - if start > stop after normalization, the range is empty.
func (l *List) Range(start, stop int, emit func(Cell)) {
	n := l.length
	if n == 0 {
		return
	}
	if start < 0 {
		start += n
		if start < 0 {
			start = 0
		}
	}
	if stop < 0 {
		stop += n
		if stop < 0 {
			stop = -1 // forces empty range below
		}
	}
	if start >= n {
		return
	}
	if stop >= n {
		stop = n - 1
	}
	if start > stop {
		return
	}

	cur := l.nodeAt(start)
	for i := start; i <= stop && cur != nil; i++ {
		emit(cur.cell)
		cur = cur.next
	}
}
