package timeseries

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func newTestSeries(dup DuplicatePolicy) *Series {
	return NewSeries(0, dup, 4, DeltaXor, 0, 0)
}

func TestAddSampleAppendsInOrder(t *testing.T) {
	s := newTestSeries(DupBlock)
	require.NoError(t, s.AddSample(100, 1.5))
	require.NoError(t, s.AddSample(200, 2.5))
	require.Equal(t, int64(2), s.TotalSamples())

	last, ok := s.LastSample()
	require.True(t, ok)
	require.Equal(t, Sample{TS: 200, Val: 2.5}, last)
}

func TestDuplicateBlockReturnsError(t *testing.T) {
	s := newTestSeries(DupBlock)
	require.NoError(t, s.AddSample(100, 1))
	require.ErrorIs(t, s.AddSample(100, 2), ErrDuplicateTimestamp)
}

func TestDuplicateFirstKeepsOriginal(t *testing.T) {
	s := newTestSeries(DupFirst)
	require.NoError(t, s.AddSample(100, 1))
	require.NoError(t, s.AddSample(100, 99))
	last, _ := s.LastSample()
	require.Equal(t, 1.0, last.Val)
}

func TestDuplicateLastOverwrites(t *testing.T) {
	s := newTestSeries(DupLast)
	require.NoError(t, s.AddSample(100, 1))
	require.NoError(t, s.AddSample(100, 99))
	last, _ := s.LastSample()
	require.Equal(t, 99.0, last.Val)
}

func TestDuplicateMinMaxKeepExtreme(t *testing.T) {
	min := newTestSeries(DupMin)
	require.NoError(t, min.AddSample(100, 5))
	require.NoError(t, min.AddSample(100, 2))
	require.NoError(t, min.AddSample(100, 9))
	last, _ := min.LastSample()
	require.Equal(t, 2.0, last.Val)

	max := newTestSeries(DupMax)
	require.NoError(t, max.AddSample(100, 5))
	require.NoError(t, max.AddSample(100, 2))
	require.NoError(t, max.AddSample(100, 9))
	last, _ = max.LastSample()
	require.Equal(t, 9.0, last.Val)
}

func TestChunkSealsAtMaxSamplesAndRoundTripsThroughRange(t *testing.T) {
	s := newTestSeries(DupBlock) // maxChunkSamples=4
	for i := int64(0); i < 10; i++ {
		require.NoError(t, s.AddSample(i*10, float64(i)))
	}
	require.Equal(t, int64(10), s.TotalSamples())

	got := s.Range(RangeQuery{FromTS: 0, ToTS: 1000})
	require.Len(t, got, 10)
	for i, smp := range got {
		require.Equal(t, int64(i)*10, smp.TS)
		require.Equal(t, float64(i), smp.Val)
	}
}

func TestRangeRespectsFromToAndCount(t *testing.T) {
	s := newTestSeries(DupBlock)
	for i := int64(0); i < 10; i++ {
		require.NoError(t, s.AddSample(i*10, float64(i)))
	}

	got := s.Range(RangeQuery{FromTS: 20, ToTS: 60})
	require.Len(t, got, 5)
	require.Equal(t, int64(20), got[0].TS)
	require.Equal(t, int64(60), got[len(got)-1].TS)

	limited := s.Range(RangeQuery{FromTS: 0, ToTS: 1000, Count: 3})
	require.Len(t, limited, 3)
}

func TestRangeAggregationBuckets(t *testing.T) {
	s := newTestSeries(DupBlock)
	for i := int64(0); i < 8; i++ {
		require.NoError(t, s.AddSample(i*10, float64(i)))
	}

	buckets := s.Range(RangeQuery{FromTS: 0, ToTS: 1000, Agg: AggSum, BucketMS: 40})
	require.NotEmpty(t, buckets)
	var total float64
	for _, b := range buckets {
		total += b.Val
	}
	require.Equal(t, 28.0, total) // sum(0..7) = 28, spread across buckets
}

func TestRangeAggregationFunctions(t *testing.T) {
	s := newTestSeries(DupBlock)
	vals := []float64{1, 2, 3, 4}
	for i, v := range vals {
		require.NoError(t, s.AddSample(int64(i), v))
	}

	cases := []struct {
		agg  Aggregation
		want float64
	}{
		{AggMin, 1},
		{AggMax, 4},
		{AggSum, 10},
		{AggAvg, 2.5},
		{AggRange, 3},
		{AggCount, 4},
		{AggFirst, 1},
		{AggLast, 4},
	}
	for _, tc := range cases {
		got := s.Range(RangeQuery{FromTS: 0, ToTS: 10, Agg: tc.agg, BucketMS: 100})
		require.Len(t, got, 1)
		require.Equal(t, tc.want, got[0].Val)
	}
}

func TestRetentionEvictsOldChunks(t *testing.T) {
	s := NewSeries(50, DupBlock, 2, DeltaXor, 0, 0)
	for i := int64(0); i < 10; i++ {
		require.NoError(t, s.AddSample(i*10, float64(i)))
	}

	got := s.Range(RangeQuery{FromTS: 0, ToTS: 1000})
	for _, smp := range got {
		require.GreaterOrEqual(t, smp.TS, int64(40))
	}
}

func TestIncrByAndDecrByAccumulate(t *testing.T) {
	s := newTestSeries(DupBlock)
	v, err := s.IncrBy(10, 5)
	require.NoError(t, err)
	require.Equal(t, 5.0, v)

	v, err = s.IncrBy(20, 3)
	require.NoError(t, err)
	require.Equal(t, 8.0, v)

	v, err = s.DecrBy(30, 2)
	require.NoError(t, err)
	require.Equal(t, 6.0, v)
}

func TestUncompressedEncodingRoundTrips(t *testing.T) {
	s := NewSeries(0, DupBlock, 3, Uncompressed, 0, 0)
	for i := int64(0); i < 7; i++ {
		require.NoError(t, s.AddSample(i*5, float64(i)*1.25))
	}
	got := s.Range(RangeQuery{FromTS: 0, ToTS: 1000})
	require.Len(t, got, 7)
	for i, smp := range got {
		require.Equal(t, int64(i)*5, smp.TS)
		require.Equal(t, float64(i)*1.25, smp.Val)
	}
}
