package command

import (
	"math"
	"strconv"
	"strings"

	"github.com/candicandi/zedis/internal/engine/store"
	"github.com/candicandi/zedis/internal/engine/timeseries"
)

func parseInt(b []byte) (int64, bool) {
	n, err := strconv.ParseInt(string(b), 10, 64)
	return n, err == nil
}

func parseFloat(b []byte) (float64, bool) {
	f, err := strconv.ParseFloat(string(b), 64)
	return f, err == nil
}

// rangeBound parses a TS.RANGE endpoint: "-"/"+" for the i64 extremes, or
// a decimal timestamp.
func rangeBound(b []byte) (int64, bool) {
	switch string(b) {
	case "-":
		return math.MinInt64, true
	case "+":
		return math.MaxInt64, true
	}
	return parseInt(b)
}

func parseDuplicatePolicy(b []byte) (timeseries.DuplicatePolicy, bool) {
	switch strings.ToUpper(string(b)) {
	case "BLOCK":
		return timeseries.DupBlock, true
	case "FIRST":
		return timeseries.DupFirst, true
	case "LAST":
		return timeseries.DupLast, true
	case "MIN":
		return timeseries.DupMin, true
	case "MAX":
		return timeseries.DupMax, true
	case "SUM":
		return timeseries.DupSum, true
	default:
		return 0, false
	}
}

func parseEncoding(b []byte) (timeseries.Encoding, bool) {
	switch strings.ToUpper(string(b)) {
	case "UNCOMPRESSED":
		return timeseries.Uncompressed, true
	case "COMPRESSED":
		return timeseries.DeltaXor, true
	default:
		return 0, false
	}
}

func parseAggregation(b []byte) (timeseries.Aggregation, bool) {
	switch strings.ToUpper(string(b)) {
	case "AVG":
		return timeseries.AggAvg, true
	case "SUM":
		return timeseries.AggSum, true
	case "MIN":
		return timeseries.AggMin, true
	case "MAX":
		return timeseries.AggMax, true
	case "RANGE":
		return timeseries.AggRange, true
	case "COUNT":
		return timeseries.AggCount, true
	case "FIRST":
		return timeseries.AggFirst, true
	case "LAST":
		return timeseries.AggLast, true
	case "STD.P":
		return timeseries.AggStdP, true
	case "STD.S":
		return timeseries.AggStdS, true
	case "VAR.P":
		return timeseries.AggVarP, true
	case "VAR.S":
		return timeseries.AggVarS, true
	default:
		return 0, false
	}
}

// defaultTSOptions is what a series gets when created with no explicit
// clauses (TS.ADD auto-create, or TS.CREATE with a bare key).
func defaultTSOptions() store.TSCreateOptions {
	return store.TSCreateOptions{
		RetentionMS:     0,
		Duplicate:       timeseries.DupBlock,
		MaxChunkSamples: 0, // Series defaults this to 4096
		Encoding:        timeseries.DeltaXor,
	}
}

// parseTSOptions parses the optional TS.CREATE/TS.ALTER/TS.ADD clause set
// starting at args[from]: RETENTION n, ENCODING UNCOMPRESSED|COMPRESSED,
// CHUNK_SIZE n (samples per chunk), DUPLICATE_POLICY policy, IGNORE
// maxTimeDiff maxValueDiff. Clauses may appear in any order; each is
// optional and overrides the matching default from defaultTSOptions.
func parseTSOptions(args [][]byte, from int) (store.TSCreateOptions, error) {
	opts := defaultTSOptions()
	i := from
	for i < len(args) {
		switch strings.ToUpper(string(args[i])) {
		case "RETENTION":
			if i+1 >= len(args) {
				return opts, errWrongArgCount
			}
			n, ok := parseInt(args[i+1])
			if !ok {
				return opts, newCmdError("ERR invalid RETENTION value")
			}
			opts.RetentionMS = n
			i += 2
		case "ENCODING":
			if i+1 >= len(args) {
				return opts, errWrongArgCount
			}
			enc, ok := parseEncoding(args[i+1])
			if !ok {
				return opts, newCmdError("ERR invalid ENCODING value")
			}
			opts.Encoding = enc
			i += 2
		case "CHUNK_SIZE":
			if i+1 >= len(args) {
				return opts, errWrongArgCount
			}
			n, ok := parseInt(args[i+1])
			if !ok || n <= 0 {
				return opts, newCmdError("ERR invalid CHUNK_SIZE value")
			}
			opts.MaxChunkSamples = int(n)
			i += 2
		case "DUPLICATE_POLICY":
			if i+1 >= len(args) {
				return opts, errWrongArgCount
			}
			dup, ok := parseDuplicatePolicy(args[i+1])
			if !ok {
				return opts, newCmdError("ERR invalid DUPLICATE_POLICY value")
			}
			opts.Duplicate = dup
			i += 2
		case "IGNORE":
			if i+2 >= len(args) {
				return opts, errWrongArgCount
			}
			maxTimeDiff, ok1 := parseInt(args[i+1])
			maxValueDiff, ok2 := parseFloat(args[i+2])
			if !ok1 || !ok2 {
				return opts, newCmdError("ERR invalid IGNORE value")
			}
			opts.IgnoreMaxTimeDiff = maxTimeDiff
			opts.IgnoreMaxValueDiff = maxValueDiff
			i += 3
		default:
			return opts, newCmdError("ERR syntax error")
		}
	}
	return opts, nil
}
