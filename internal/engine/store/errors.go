package store

import "errors"

// Sentinel errors returned by store operations. The command layer maps
// these to stable RESP error surface strings.
var (
	ErrWrongType      = errors.New("wrongtype")
	ErrNotInteger     = errors.New("not an integer")
	ErrNotFloat       = errors.New("not a float")
	ErrOverflow       = errors.New("overflow")
	ErrNoSuchKey      = errors.New("no such key")
	ErrIndexOutOfRange = errors.New("index out of range")
	ErrKeyExists      = errors.New("key already exists")
	ErrBadDBIndex     = errors.New("invalid database index")
	ErrOOM            = errors.New("out of memory")
)
