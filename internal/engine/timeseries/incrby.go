package timeseries

// IncrBy adds delta to the last sample's value (or 0 if the series is
// empty) and appends the result as a new sample at ts, returning the new
// value. DecrBy is IncrBy with a negated delta.
func (s *Series) IncrBy(ts int64, delta float64) (float64, error) {
	base := 0.0
	if s.hasLast {
		base = s.lastSample.Val
	}
	next := base + delta
	if err := s.AddSample(ts, next); err != nil {
		return 0, err
	}
	return next, nil
}

// DecrBy is IncrBy(ts, -delta).
func (s *Series) DecrBy(ts int64, delta float64) (float64, error) {
	return s.IncrBy(ts, -delta)
}
