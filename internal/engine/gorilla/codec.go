package gorilla

import "math"

// Chunk is the encoded form of one sealed DeltaXor chunk: timestamps and
// values are packed as two independent bit streams, each self-contained so
// a reader can decode a chunk without any earlier chunk's state.
type Chunk struct {
	Timestamps []byte
	Values     []byte
}

// Encode compresses parallel timestamp/value slices into a Chunk.
func Encode(ts []int64, vals []float64) Chunk {
	bits := make([]uint64, len(vals))
	for i, v := range vals {
		bits[i] = math.Float64bits(v)
	}
	return Chunk{
		Timestamps: EncodeTimestamps(ts),
		Values:     EncodeValues(bits),
	}
}

// Decode reconstructs n (timestamp, value) samples from a Chunk.
func Decode(c Chunk, n int) (ts []int64, vals []float64, err error) {
	ts, err = DecodeTimestamps(c.Timestamps, n)
	if err != nil {
		return nil, nil, err
	}
	rawVals, err := DecodeValues(c.Values, n)
	if err != nil {
		return nil, nil, err
	}
	vals = make([]float64, len(rawVals))
	for i, b := range rawVals {
		vals[i] = math.Float64frombits(b)
	}
	return ts, vals, nil
}
