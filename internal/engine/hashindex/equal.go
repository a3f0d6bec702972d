package hashindex

import "encoding/binary"

// simdThreshold is the length below which a plain byte compare beats the
// overhead of batching into 16-byte lanes.
const simdThreshold = 16

// keyEqual implements a three-step equality check:
//  1. length differs -> not equal
//  2. pointer equality (fast path for interned keys) -> equal
//  3. vectorized compare: 16-byte lanes combined via XOR-then-reduce, with
//     a scalar tail for the remainder. True SIMD intrinsics aren't
//     reachable from portable Go without assembly, so the lanes are
//     emulated with paired 64-bit word XORs, which is the idiomatic
//     software analogue and what the runtime's own word-at-a-time
//     compares do.
func keyEqual(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	if len(a) == 0 {
		return true
	}
	if &a[0] == &b[0] {
		return true
	}
	if len(a) < simdThreshold {
		return byteCompare(a, b)
	}

	n := len(a)
	lanes := n / 16
	for i := 0; i < lanes; i++ {
		off := i * 16
		if lane64(a[off:off+8]) != lane64(b[off:off+8]) {
			return false
		}
		if lane64(a[off+8:off+16]) != lane64(b[off+8:off+16]) {
			return false
		}
	}
	return byteCompare(a[lanes*16:], b[lanes*16:])
}

func byteCompare(a, b []byte) bool {
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// lane64 reads 8 bytes as a uint64 word for a XOR-then-reduce compare; s
// is guaranteed to have at least 8 bytes by the caller.
func lane64(s []byte) uint64 {
	return binary.LittleEndian.Uint64(s[:8])
}
