package storage

import (
	"sort"
	"sync"
	"time"
)

// OpStats is the running total for one kind of statement.
type OpStats struct {
	Op    string
	Count int
	Total time.Duration
}

// Mean returns the average statement duration.
func (o OpStats) Mean() time.Duration {
	if o.Count == 0 {
		return 0
	}
	return o.Total / time.Duration(o.Count)
}

// StatementStats accumulates TimedDB observations per operation.
type StatementStats struct {
	mu  sync.Mutex
	ops map[string]*OpStats
}

// NewStatementStats creates an empty collector.
func NewStatementStats() *StatementStats {
	return &StatementStats{ops: make(map[string]*OpStats)}
}

// Observe records one statement. It matches the TimedDB.OnStatement hook.
func (s *StatementStats) Observe(op string, d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.ops[op]
	if !ok {
		o = &OpStats{Op: op}
		s.ops[op] = o
	}
	o.Count++
	o.Total += d
}

// Snapshot returns a copy of the totals sorted by operation name.
func (s *StatementStats) Snapshot() []OpStats {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]OpStats, 0, len(s.ops))
	for _, o := range s.ops {
		out = append(out, *o)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Op < out[j].Op })
	return out
}
