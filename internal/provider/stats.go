package provider

import "sync/atomic"

// Stats is a snapshot of an adapter's request counters.
type Stats struct {
	Requests  int64 `json:"requests"`
	Successes int64 `json:"successes"`
	Failures  int64 `json:"failures"`
}

// callStats counts requests across concurrent pipelines.
type callStats struct {
	requests  atomic.Int64
	successes atomic.Int64
	failures  atomic.Int64
}

func (s *callStats) record(ok bool) {
	s.requests.Add(1)
	if ok {
		s.successes.Add(1)
	} else {
		s.failures.Add(1)
	}
}

func (s *callStats) snapshot() Stats {
	return Stats{
		Requests:  s.requests.Load(),
		Successes: s.successes.Load(),
		Failures:  s.failures.Load(),
	}
}

// healthy reports whether the recent success rate is acceptable. An adapter
// with no traffic yet counts as healthy.
func (s *callStats) healthy() bool {
	total := s.requests.Load()
	if total == 0 {
		return true
	}
	return float64(s.successes.Load())/float64(total) >= 0.8
}
