package store

import (
	"github.com/candicandi/zedis/internal/engine/object"
	"github.com/candicandi/zedis/internal/engine/timeseries"
)

// TSCreateOptions mirrors TS.CREATE/TS.ALTER's configurable fields.
type TSCreateOptions struct {
	RetentionMS        int64
	Duplicate          timeseries.DuplicatePolicy
	MaxChunkSamples    int
	Encoding           timeseries.Encoding
	IgnoreMaxTimeDiff  int64
	IgnoreMaxValueDiff float64
}

// TSCreate installs a new, empty time series at key. Returns ErrKeyExists
// if key is already present (any kind).
func (e *Engine) TSCreate(dbIndex int, key []byte, opts TSCreateOptions) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	d, err := e.db(dbIndex)
	if err != nil {
		return err
	}
	if canon, ok := e.interner.Lookup(key); ok {
		if _, live := e.lookup(d, canon, nowMS()); live {
			return ErrKeyExists
		}
	}
	s := timeseries.NewSeries(opts.RetentionMS, opts.Duplicate, opts.MaxChunkSamples, opts.Encoding, opts.IgnoreMaxTimeDiff, opts.IgnoreMaxValueDiff)
	return e.putObject(d, key, object.FromTimeSeries(s))
}

// TSAlter updates the mutable configuration of an existing series
// in place.
func (e *Engine) TSAlter(dbIndex int, key []byte, opts TSCreateOptions) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	d, err := e.db(dbIndex)
	if err != nil {
		return err
	}
	s, err := e.existingSeries(d, key)
	if err != nil {
		return err
	}
	if s == nil {
		return ErrNoSuchKey
	}
	s.RetentionMS = opts.RetentionMS
	s.Duplicate = opts.Duplicate
	s.Enc = opts.Encoding
	s.IgnoreMaxTimeDiff = opts.IgnoreMaxTimeDiff
	s.IgnoreMaxValueDiff = opts.IgnoreMaxValueDiff
	if opts.MaxChunkSamples > 0 {
		s.MaxChunkSamples = opts.MaxChunkSamples
	}
	return nil
}

// TSAdd appends one sample, auto-creating the series with default
// options if absent, and returns the stored timestamp.
func (e *Engine) TSAdd(dbIndex int, key []byte, ts int64, v float64, defaults TSCreateOptions) (int64, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	d, err := e.db(dbIndex)
	if err != nil {
		return 0, err
	}
	s, err := e.existingSeries(d, key)
	if err != nil {
		return 0, err
	}
	if s == nil {
		s = timeseries.NewSeries(defaults.RetentionMS, defaults.Duplicate, defaults.MaxChunkSamples, defaults.Encoding, defaults.IgnoreMaxTimeDiff, defaults.IgnoreMaxValueDiff)
		if err := e.putObject(d, key, object.FromTimeSeries(s)); err != nil {
			return 0, err
		}
	}
	if err := s.AddSample(ts, v); err != nil {
		return 0, err
	}
	return ts, nil
}

// TSGet returns the last sample of the series at key.
func (e *Engine) TSGet(dbIndex int, key []byte) (ts int64, v float64, ok bool, err error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	d, err := e.db(dbIndex)
	if err != nil {
		return 0, 0, false, err
	}
	s, err := e.existingSeries(d, key)
	if err != nil || s == nil {
		return 0, 0, false, err
	}
	smp, has := s.LastSample()
	if !has {
		return 0, 0, false, nil
	}
	return smp.TS, smp.Val, true, nil
}

// TSIncrBy / TSDecrBy add (or subtract) delta from the series' last value
// and append the result as a new sample at ts.
func (e *Engine) TSIncrBy(dbIndex int, key []byte, ts int64, delta float64, defaults TSCreateOptions) (float64, error) {
	return e.tsIncr(dbIndex, key, ts, delta, defaults)
}

func (e *Engine) TSDecrBy(dbIndex int, key []byte, ts int64, delta float64, defaults TSCreateOptions) (float64, error) {
	return e.tsIncr(dbIndex, key, ts, -delta, defaults)
}

func (e *Engine) tsIncr(dbIndex int, key []byte, ts int64, delta float64, defaults TSCreateOptions) (float64, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	d, err := e.db(dbIndex)
	if err != nil {
		return 0, err
	}
	s, err := e.existingSeries(d, key)
	if err != nil {
		return 0, err
	}
	if s == nil {
		s = timeseries.NewSeries(defaults.RetentionMS, defaults.Duplicate, defaults.MaxChunkSamples, defaults.Encoding, defaults.IgnoreMaxTimeDiff, defaults.IgnoreMaxValueDiff)
		if err := e.putObject(d, key, object.FromTimeSeries(s)); err != nil {
			return 0, err
		}
	}
	return s.IncrBy(ts, delta)
}

// TSRange executes a TS.RANGE query against the series at key.
func (e *Engine) TSRange(dbIndex int, key []byte, q timeseries.RangeQuery) ([]timeseries.Sample, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	d, err := e.db(dbIndex)
	if err != nil {
		return nil, err
	}
	s, err := e.existingSeries(d, key)
	if err != nil || s == nil {
		return nil, err
	}
	return s.Range(q), nil
}

func (e *Engine) existingSeries(d *db, key []byte) (*timeseries.Series, error) {
	canon, found := e.interner.Lookup(key)
	if !found {
		return nil, nil
	}
	ent, live := e.lookup(d, canon, nowMS())
	if !live {
		return nil, nil
	}
	if ent.val.Kind != object.KindTimeSeries {
		return nil, ErrWrongType
	}
	return ent.val.TS, nil
}
