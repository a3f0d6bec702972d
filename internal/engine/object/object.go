// Package object implements the tagged-value union stored for every key:
// automatic integer encoding, inline short-string storage, pool-backed long
// strings, and the list/time-series variants built by the sibling engine
// packages.
package object

import (
	"strconv"

	"github.com/candicandi/zedis/internal/engine/list"
	"github.com/candicandi/zedis/internal/engine/timeseries"
)

// Kind discriminates the tagged union. Kept to a single byte so the common
// scalar variants stay small and well aligned.
type Kind uint8

const (
	KindInt Kind = iota
	KindShortString
	KindString
	KindList
	KindTimeSeries
)

// shortStringCap is the inline capacity for short_string values: up to 23
// bytes fit alongside the length byte and kind tag with no heap allocation.
const shortStringCap = 23

// Allocator is the minimal surface object.Encode needs from the tiered
// pool: round n up to a class and hand back a zero-length, size-capacity
// buffer, or report a miss so the caller falls back to a plain allocation.
type Allocator interface {
	Alloc(n int) (buf []byte, ok bool)
}

// Value is the tagged union over the stored variants. The zero Value is
// KindInt holding 0, which is never an observable state for a stored
// object (every stored Value is produced by a constructor below).
type Value struct {
	Kind Kind

	i        int64
	short    [shortStringCap]byte
	shortLen uint8
	str      []byte

	List *list.List
	TS   *timeseries.Series
}

// Int constructs a KindInt value.
func Int(i int64) Value { return Value{Kind: KindInt, i: i} }

// Encode applies the SET encoding rule:
//  1. value_bytes parses as a signed 64-bit base-10 integer -> KindInt.
//  2. len(value_bytes) <= 23 -> inline KindShortString, no allocation.
//  3. otherwise -> KindString, duplicated through alloc (or a plain
//     allocation when every pool class misses).
func Encode(b []byte, alloc Allocator) Value {
	if n, ok := ParseInt64(b); ok {
		return Value{Kind: KindInt, i: n}
	}
	if len(b) <= shortStringCap {
		v := Value{Kind: KindShortString, shortLen: uint8(len(b))}
		copy(v.short[:], b)
		return v
	}
	return Value{Kind: KindString, str: duplicate(b, alloc)}
}

// FromList / FromTimeSeries wrap the other two heap-allocated variants
// so every non-scalar kind is still produced through this package.
func FromList(l *list.List) Value             { return Value{Kind: KindList, List: l} }
func FromTimeSeries(s *timeseries.Series) Value { return Value{Kind: KindTimeSeries, TS: s} }

func duplicate(b []byte, alloc Allocator) []byte {
	if len(b) == 0 {
		return []byte{}
	}
	if alloc != nil {
		if buf, ok := alloc.Alloc(len(b)); ok {
			return append(buf, b...)
		}
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out
}

// ParseInt64 parses b as a base-10 signed 64-bit integer with no
// surrounding whitespace and no leading zeros beyond a lone "0", matching
// the strict grammar expected of an auto-encoded integer value.
func ParseInt64(b []byte) (int64, bool) {
	if len(b) == 0 {
		return 0, false
	}
	n, err := strconv.ParseInt(string(b), 10, 64)
	if err != nil {
		return 0, false
	}
	// Reject forms strconv accepts but that aren't canonical decimal
	// (e.g. "+5"); GET must be able to round-trip the exact decimal form.
	if canon := strconv.FormatInt(n, 10); canon != string(b) {
		return 0, false
	}
	return n, true
}

// IsStringFamily reports whether v is one of the three string-like
// variants accepted by GET/INCR*/APPEND/STRLEN.
func (v Value) IsStringFamily() bool {
	return v.Kind == KindInt || v.Kind == KindShortString || v.Kind == KindString
}

// Bytes materializes the string-family representation of v. For KindInt
// this formats into scratch (reused across calls by the caller); for
// KindShortString and KindString it returns the live backing slice with no
// copy, so callers must treat it as read-only.
func (v Value) Bytes(scratch []byte) []byte {
	switch v.Kind {
	case KindInt:
		return strconv.AppendInt(scratch[:0], v.i, 10)
	case KindShortString:
		return v.short[:v.shortLen]
	case KindString:
		return v.str
	default:
		return nil
	}
}

// Len returns the byte length of the string-family representation without
// necessarily materializing it.
func (v Value) Len() int {
	switch v.Kind {
	case KindInt:
		return len(strconv.AppendInt(nil, v.i, 10))
	case KindShortString:
		return int(v.shortLen)
	case KindString:
		return len(v.str)
	default:
		return 0
	}
}

// Int64 returns the integer form of a string-family value, for INCR/DECR.
func (v Value) Int64() (int64, bool) {
	switch v.Kind {
	case KindInt:
		return v.i, true
	case KindShortString:
		return ParseInt64(v.short[:v.shortLen])
	case KindString:
		return ParseInt64(v.str)
	default:
		return 0, false
	}
}

// TypeName returns the RESP TYPE name for v.
func (v Value) TypeName() string {
	switch v.Kind {
	case KindInt, KindShortString, KindString:
		return "string"
	case KindList:
		return "list"
	case KindTimeSeries:
		return "TSDB-TYPE"
	default:
		return "none"
	}
}
