// Package tracker records which build attempts have a pre-checkout invocation in flight.
package tracker

import (
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"
	"go.trai.ch/precheckout/internal/core/domain"
	"go.trai.ch/precheckout/internal/core/ports"
)

var _ ports.Tracker = (*Tracker)(nil)

const shardCount = 32

type shard struct {
	mu   sync.Mutex
	seen map[domain.BuildAttemptKey]time.Time
}

// Tracker is a lock-striped set of in-flight build attempts.
// Each key lives in exactly one shard, so the check-and-flip of ShouldRun is
// atomic per key while unrelated keys rarely contend.
type Tracker struct {
	shards [shardCount]shard
	now    func() time.Time
}

// Option configures a Tracker.
type Option func(*Tracker)

// WithClock replaces the time source used to stamp first sightings.
func WithClock(now func() time.Time) Option {
	return func(t *Tracker) {
		t.now = now
	}
}

// New creates an empty Tracker.
func New(opts ...Option) *Tracker {
	t := &Tracker{now: time.Now}
	for i := range t.shards {
		t.shards[i].seen = make(map[domain.BuildAttemptKey]time.Time)
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

func (t *Tracker) shardFor(key domain.BuildAttemptKey) *shard {
	d := xxhash.New()
	_, _ = d.WriteString(key.Project)
	_, _ = d.Write([]byte{0})
	_, _ = d.WriteString(key.Executor)
	return &t.shards[d.Sum64()%shardCount]
}

// ShouldRun reports true and records key when it is not in flight.
// When key is in flight it is forgotten and ShouldRun reports false.
func (t *Tracker) ShouldRun(key domain.BuildAttemptKey) bool {
	s := t.shardFor(key)
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.seen[key]; ok {
		delete(s.seen, key)
		return false
	}
	s.seen[key] = t.now()
	return true
}

// Sweep forgets keys first seen more than olderThan ago and returns how many
// were dropped. A non-positive olderThan sweeps nothing.
func (t *Tracker) Sweep(olderThan time.Duration) int {
	if olderThan <= 0 {
		return 0
	}

	cutoff := t.now().Add(-olderThan)
	removed := 0
	for i := range t.shards {
		s := &t.shards[i]
		s.mu.Lock()
		for key, at := range s.seen {
			if at.Before(cutoff) {
				delete(s.seen, key)
				removed++
			}
		}
		s.mu.Unlock()
	}
	return removed
}

// Len returns the number of attempts in flight.
func (t *Tracker) Len() int {
	n := 0
	for i := range t.shards {
		s := &t.shards[i]
		s.mu.Lock()
		n += len(s.seen)
		s.mu.Unlock()
	}
	return n
}
