// Package timeseries implements the chunked time-series value type:
// duplicate-timestamp policy, an ignore-filter for near-duplicate samples,
// retention eviction, sealing into the Gorilla codec (or a flat
// uncompressed record layout), and the TS.RANGE query path with
// aggregation.
package timeseries

import (
	"encoding/binary"
	"errors"
	"math"

	"github.com/candicandi/zedis/internal/engine/gorilla"
)

// Encoding selects how a sealed chunk's samples are stored.
type Encoding uint8

const (
	Uncompressed Encoding = iota
	DeltaXor
)

// DuplicatePolicy governs what happens when addSample sees ts == the
// current tail's last timestamp.
type DuplicatePolicy uint8

const (
	DupBlock DuplicatePolicy = iota
	DupFirst
	DupLast
	DupMin
	DupMax
	DupSum
)

var (
	// ErrDuplicateTimestamp is raised by DupBlock on a repeated timestamp.
	ErrDuplicateTimestamp = errors.New("duplicate timestamp")
)

// Sample is one (timestamp, value) point.
type Sample struct {
	TS  int64
	Val float64
}

// chunk is one node in the head->tail chunk chain. The active (tail) chunk
// keeps its samples uncompressed in samples; sealed chunks hold encoded
// bytes and nil out samples to free the uncompressed buffer.
type chunk struct {
	prev, next *chunk

	firstTS, lastTS int64
	count           int

	samples []Sample // only populated while this is the active chunk
	sealed  bool
	enc     Encoding
	data    gorilla.Chunk // DeltaXor
	flat    []byte        // Uncompressed: 16-byte records, little-endian (ts, value-bits)
}

// Series is the full time-series value: metadata plus the chunk chain.
type Series struct {
	RetentionMS      int64
	Duplicate        DuplicatePolicy
	MaxChunkSamples  int
	Enc              Encoding
	IgnoreMaxTimeDiff  int64
	IgnoreMaxValueDiff float64

	head, tail   *chunk
	totalSamples int64
	lastSample   Sample
	hasLast      bool
}

// NewSeries constructs a series with the given configuration.
func NewSeries(retentionMS int64, dup DuplicatePolicy, maxChunkSamples int, enc Encoding, ignoreMaxTimeDiff int64, ignoreMaxValueDiff float64) *Series {
	if maxChunkSamples <= 0 {
		maxChunkSamples = 4096
	}
	return &Series{
		RetentionMS:        retentionMS,
		Duplicate:          dup,
		MaxChunkSamples:    maxChunkSamples,
		Enc:                enc,
		IgnoreMaxTimeDiff:  ignoreMaxTimeDiff,
		IgnoreMaxValueDiff: ignoreMaxValueDiff,
	}
}

// TotalSamples returns the running total-sample count.
func (s *Series) TotalSamples() int64 { return s.totalSamples }

// LastSample returns the most recently inserted sample, if any.
func (s *Series) LastSample() (Sample, bool) { return s.lastSample, s.hasLast }

// AddSample appends a new sample, applying the duplicate-timestamp policy,
// ignore-diff filter, chunk sealing, and retention eviction in order.
func (s *Series) AddSample(ts int64, v float64) error {
	if s.tail != nil && ts == s.tail.lastTS {
		drop, err := s.applyDuplicatePolicy(v)
		if err != nil {
			return err
		}
		if drop {
			return nil
		}
	} else if s.Duplicate == DupLast && s.hasLast && ts >= s.lastSample.TS {
		if (ts-s.lastSample.TS) <= s.IgnoreMaxTimeDiff && math.Abs(v-s.lastSample.Val) <= s.IgnoreMaxValueDiff {
			return nil
		}
	}

	if s.tail == nil || s.tail.count >= s.MaxChunkSamples {
		s.seal()
		s.newActiveChunk(ts)
	}

	s.tail.samples = append(s.tail.samples, Sample{TS: ts, Val: v})
	s.tail.lastTS = ts
	s.tail.count++
	s.totalSamples++
	s.lastSample = Sample{TS: ts, Val: v}
	s.hasLast = true

	s.evictExpired(ts)
	return nil
}

// applyDuplicatePolicy handles ts == tail.lastTS. drop is true when the new
// sample must be discarded instead of appended.
func (s *Series) applyDuplicatePolicy(v float64) (drop bool, err error) {
	last := s.lastSample
	switch s.Duplicate {
	case DupBlock:
		return false, ErrDuplicateTimestamp
	case DupFirst:
		return true, nil
	case DupLast:
		return false, nil
	case DupMin:
		return !(v < last.Val), nil
	case DupMax:
		return !(v > last.Val), nil
	case DupSum:
		// SUM currently drops the new sample instead of summing; see
		// DESIGN.md for the rationale.
		return true, nil
	default:
		return false, nil
	}
}

func (s *Series) newActiveChunk(firstTS int64) {
	c := &chunk{firstTS: firstTS, lastTS: firstTS, prev: s.tail}
	if s.tail != nil {
		s.tail.next = c
	}
	s.tail = c
	if s.head == nil {
		s.head = c
	}
}

// seal encodes the current active chunk's samples per s.Enc and clears the
// uncompressed buffer for reuse.
func (s *Series) seal() {
	if s.tail == nil || s.tail.sealed || len(s.tail.samples) == 0 {
		return
	}
	c := s.tail
	c.enc = s.Enc
	switch s.Enc {
	case DeltaXor:
		ts := make([]int64, len(c.samples))
		vals := make([]float64, len(c.samples))
		for i, smp := range c.samples {
			ts[i] = smp.TS
			vals[i] = smp.Val
		}
		c.data = gorilla.Encode(ts, vals)
	case Uncompressed:
		c.flat = encodeFlat(c.samples)
	}
	c.sealed = true
	c.samples = nil
}

func encodeFlat(samples []Sample) []byte {
	buf := make([]byte, 16*len(samples))
	for i, smp := range samples {
		off := i * 16
		binary.LittleEndian.PutUint64(buf[off:], uint64(smp.TS))
		binary.LittleEndian.PutUint64(buf[off+8:], math.Float64bits(smp.Val))
	}
	return buf
}

func decodeFlat(buf []byte, n int) []Sample {
	out := make([]Sample, n)
	for i := 0; i < n; i++ {
		off := i * 16
		out[i] = Sample{
			TS:  int64(binary.LittleEndian.Uint64(buf[off:])),
			Val: math.Float64frombits(binary.LittleEndian.Uint64(buf[off+8:])),
		}
	}
	return out
}

// samplesOf returns c's samples regardless of seal state.
func (c *chunk) samplesOf() []Sample {
	if !c.sealed {
		return c.samples
	}
	switch c.enc {
	case DeltaXor:
		ts, vals, err := gorilla.Decode(c.data, c.count)
		if err != nil {
			return nil
		}
		out := make([]Sample, c.count)
		for i := range ts {
			out[i] = Sample{TS: ts[i], Val: vals[i]}
		}
		return out
	case Uncompressed:
		return decodeFlat(c.flat, c.count)
	default:
		return nil
	}
}

// evictExpired drops chunks whose lastTS < now - RetentionMS (skipped when
// RetentionMS == 0), updating head/tail; both may become nil if every
// chunk expires.
func (s *Series) evictExpired(now int64) {
	if s.RetentionMS == 0 {
		return
	}
	cutoff := now - s.RetentionMS
	for s.head != nil && s.head.lastTS < cutoff {
		s.head = s.head.next
		if s.head != nil {
			s.head.prev = nil
		} else {
			s.tail = nil
		}
	}
}
