package ports

import "go.trai.ch/precheckout/internal/core/domain"

// Tracker decides which of the paired hook invocations of a build attempt acts.
//
//go:generate mockgen -source=tracker.go -destination=mocks/mock_tracker.go -package=mocks
type Tracker interface {
	// ShouldRun reports true when key was not in flight and records it.
	// When key was in flight it forgets the key and reports false.
	// The check and the flip happen atomically per key.
	ShouldRun(key domain.BuildAttemptKey) bool
}
