package timeseries

import (
	"math"
	"sort"
)

// Aggregation selects a TS.RANGE bucket reducer.
type Aggregation uint8

const (
	AggNone Aggregation = iota
	AggAvg
	AggSum
	AggMin
	AggMax
	AggRange
	AggCount
	AggFirst
	AggLast
	AggStdP
	AggStdS
	AggVarP
	AggVarS
)

// RangeQuery describes one TS.RANGE invocation.
type RangeQuery struct {
	FromTS, ToTS int64 // inclusive; use math.MinInt64/MaxInt64 for "-"/"+"
	Count        int   // 0 means unlimited
	Agg          Aggregation
	BucketMS     int64 // required when Agg != AggNone
}

// Range walks the chunk chain in time order, collects samples within
// [FromTS, ToTS], applies the COUNT cutoff, and optionally aggregates into
// fixed-width buckets.
func (s *Series) Range(q RangeQuery) []Sample {
	var raw []Sample
	for c := s.head; c != nil; c = c.next {
		if c.lastTS < q.FromTS || c.firstTS > q.ToTS {
			continue
		}
		for _, smp := range c.samplesOf() {
			if smp.TS < q.FromTS || smp.TS > q.ToTS {
				continue
			}
			raw = append(raw, smp)
			if q.Agg == AggNone && q.Count > 0 && len(raw) >= q.Count {
				return raw
			}
		}
	}

	if q.Agg == AggNone {
		return raw
	}

	buckets := aggregate(raw, q.BucketMS, q.Agg)
	if q.Count > 0 && len(buckets) > q.Count {
		buckets = buckets[:q.Count]
	}
	return buckets
}

// aggregate groups raw (already time-sorted) samples into BucketMS-wide
// windows keyed by the window's start timestamp, reducing each with agg.
func aggregate(raw []Sample, bucketMS int64, agg Aggregation) []Sample {
	if bucketMS <= 0 || len(raw) == 0 {
		return nil
	}
	sort.Slice(raw, func(i, j int) bool { return raw[i].TS < raw[j].TS })

	var out []Sample
	bucketStart := (raw[0].TS / bucketMS) * bucketMS
	var vals []float64

	flush := func() {
		if len(vals) == 0 {
			return
		}
		out = append(out, Sample{TS: bucketStart, Val: reduce(vals, agg)})
	}

	for _, smp := range raw {
		start := (smp.TS / bucketMS) * bucketMS
		if start != bucketStart {
			flush()
			bucketStart = start
			vals = vals[:0]
		}
		vals = append(vals, smp.Val)
	}
	flush()
	return out
}

func reduce(vals []float64, agg Aggregation) float64 {
	switch agg {
	case AggSum:
		var sum float64
		for _, v := range vals {
			sum += v
		}
		return sum
	case AggAvg:
		var sum float64
		for _, v := range vals {
			sum += v
		}
		return sum / float64(len(vals))
	case AggMin:
		m := vals[0]
		for _, v := range vals[1:] {
			if v < m {
				m = v
			}
		}
		return m
	case AggMax:
		m := vals[0]
		for _, v := range vals[1:] {
			if v > m {
				m = v
			}
		}
		return m
	case AggRange:
		return reduce(vals, AggMax) - reduce(vals, AggMin)
	case AggCount:
		return float64(len(vals))
	case AggFirst:
		return vals[0]
	case AggLast:
		return vals[len(vals)-1]
	case AggVarP:
		return variance(vals, true)
	case AggVarS:
		return variance(vals, false)
	case AggStdP:
		return stdDev(vals, true)
	case AggStdS:
		return stdDev(vals, false)
	default:
		return 0
	}
}

// variance computes population (population=true) or sample
// (population=false) variance; stdDev below takes the square root for the
// STD.P/STD.S cases.
func variance(vals []float64, population bool) float64 {
	mean := reduce(vals, AggAvg)
	var sumSq float64
	for _, v := range vals {
		d := v - mean
		sumSq += d * d
	}
	denom := float64(len(vals))
	if !population {
		if denom <= 1 {
			return 0
		}
		denom--
	}
	v := sumSq / denom
	return v
}

// stdDev adjusts variance's result for the STD.P/STD.S cases.
func stdDev(vals []float64, population bool) float64 {
	return math.Sqrt(variance(vals, population))
}
