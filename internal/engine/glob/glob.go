// Package glob implements the `*`/`?` pattern matcher used by KEYS. Only
// two wildcards are supported: `*` (any run of bytes, including empty) and
// `?` (exactly one byte). There is no character-class (`[...]`) or escape
// support — KEYS scanning is the only consumer.
package glob

// Match reports whether name matches pattern.
func Match(pattern, name string) bool {
	return match([]byte(pattern), []byte(name))
}

// match is a classic two-pointer wildcard matcher with backtracking on the
// most recent `*`, O(len(pattern)*len(name)) worst case.
func match(pattern, name []byte) bool {
	var (
		pi, ni         int
		starIdx        = -1
		starMatchIdx   int
	)

	for ni < len(name) {
		switch {
		case pi < len(pattern) && (pattern[pi] == '?' || pattern[pi] == name[ni]):
			pi++
			ni++
		case pi < len(pattern) && pattern[pi] == '*':
			starIdx = pi
			starMatchIdx = ni
			pi++
		case starIdx != -1:
			pi = starIdx + 1
			starMatchIdx++
			ni = starMatchIdx
		default:
			return false
		}
	}

	for pi < len(pattern) && pattern[pi] == '*' {
		pi++
	}
	return pi == len(pattern)
}
