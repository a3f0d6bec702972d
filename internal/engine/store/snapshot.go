package store

import (
	"github.com/candicandi/zedis/internal/engine/list"
	"github.com/candicandi/zedis/internal/engine/object"
	"github.com/candicandi/zedis/internal/engine/timeseries"
)

// SnapshotEntry is one exported, serialization-ready record of a live key,
// for the SAVE collaborator (internal/persistence.Snapshotter) to encode.
// Exactly one of Str/ListVals/TSSamples is populated, per Kind.
type SnapshotEntry struct {
	Key        []byte
	Kind       object.Kind
	Str        []byte
	ListVals   [][]byte
	TSSamples  []timeseries.Sample
	ExpireAtMS int64 // 0 means no TTL
}

// Snapshot walks the selected database's live (non-expired) keys and
// returns one SnapshotEntry per key, materializing every variant's bytes
// so the result owns no references into live store state.
func (e *Engine) Snapshot(dbIndex int) ([]SnapshotEntry, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	d, err := e.db(dbIndex)
	if err != nil {
		return nil, err
	}

	now := nowMS()
	var out []SnapshotEntry
	d.index.ForEach(func(key []byte, ent *entry) bool {
		if exp, hasTTL := d.ttl[string(key)]; hasTTL && now > exp {
			return true
		}
		se := SnapshotEntry{Key: append([]byte(nil), key...), Kind: ent.val.Kind}
		if exp, hasTTL := d.ttl[string(key)]; hasTTL {
			se.ExpireAtMS = exp
		}
		switch ent.val.Kind {
		case object.KindList:
			ent.val.List.Range(0, ent.val.List.Len()-1, func(c list.Cell) {
				se.ListVals = append(se.ListVals, append([]byte(nil), c.Bytes()...))
			})
		case object.KindTimeSeries:
			se.TSSamples = ent.val.TS.Range(timeseries.RangeQuery{FromTS: minInt64, ToTS: maxInt64})
		default:
			se.Str = append([]byte(nil), ent.val.Bytes(nil)...)
		}
		out = append(out, se)
		return true
	})
	return out, nil
}

const (
	minInt64 = -1 << 63
	maxInt64 = 1<<63 - 1
)

// Restore installs entries into the selected database, replacing anything
// currently there (used by the loader on startup). It re-derives each
// value through the same constructors SET/LPUSH/TS.ADD use, rather than
// poking the tagged union directly. SnapshotEntry carries a series'
// samples but not its configuration: a restored time series gets
// retention 0, DUPLICATE_POLICY BLOCK, the default chunk size, compressed
// encoding and IGNORE thresholds of 0, whatever it was created with.
func (e *Engine) Restore(dbIndex int, entries []SnapshotEntry) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	d, err := e.db(dbIndex)
	if err != nil {
		return err
	}
	e.flushDB(d)

	for _, se := range entries {
		switch se.Kind {
		case object.KindList:
			l := list.New()
			cells := make([]list.Cell, len(se.ListVals))
			for i, v := range se.ListVals {
				cells[i] = list.NewCell(v)
			}
			l.PushRight(cells...)
			if err := e.putObject(d, se.Key, object.FromList(l)); err != nil {
				return err
			}
		case object.KindTimeSeries:
			s := timeseries.NewSeries(0, timeseries.DupBlock, 0, timeseries.DeltaXor, 0, 0)
			for _, smp := range se.TSSamples {
				if err := s.AddSample(smp.TS, smp.Val); err != nil {
					return err
				}
			}
			if err := e.putObject(d, se.Key, object.FromTimeSeries(s)); err != nil {
				return err
			}
		default:
			if err := e.putObject(d, se.Key, object.Encode(se.Str, e.pool)); err != nil {
				return err
			}
		}
		if se.ExpireAtMS != 0 {
			d.ttl[string(e.interner.Intern(se.Key))] = se.ExpireAtMS
		}
	}
	return nil
}
