package gorilla

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTimestampRoundTripRegularCadence(t *testing.T) {
	ts := []int64{1000, 2000, 3000, 4000, 5000, 6000}
	enc := EncodeTimestamps(ts)
	got, err := DecodeTimestamps(enc, len(ts))
	require.NoError(t, err)
	require.Equal(t, ts, got)
}

func TestTimestampRoundTripIrregularCadence(t *testing.T) {
	ts := []int64{1000, 1007, 1050, 900000, 900001, -5}
	enc := EncodeTimestamps(ts)
	got, err := DecodeTimestamps(enc, len(ts))
	require.NoError(t, err)
	require.Equal(t, ts, got)
}

func TestTimestampSingleSample(t *testing.T) {
	ts := []int64{42}
	enc := EncodeTimestamps(ts)
	got, err := DecodeTimestamps(enc, 1)
	require.NoError(t, err)
	require.Equal(t, ts, got)
}

func TestValuesRoundTripRepeated(t *testing.T) {
	vals := []float64{10.0, 10.0, 10.0, 20.5, 20.5, -3.25, 0, -0.0, 1e100}
	enc := Encode(make([]int64, len(vals)), vals)
	_, got, err := Decode(enc, len(vals))
	require.NoError(t, err)
	require.Equal(t, vals, got, "value codec must be bit-exact")
}

func TestFullChunkRoundTrip(t *testing.T) {
	ts := []int64{1000, 2000, 3000, 3500, 9000}
	vals := []float64{1.5, 2.5, 2.5, -40.125, 0}
	c := Encode(ts, vals)
	gotTS, gotVals, err := Decode(c, len(ts))
	require.NoError(t, err)
	require.Equal(t, ts, gotTS)
	require.Equal(t, vals, gotVals)
}
