package ports

import "go.trai.ch/precheckout/internal/core/domain"

// PropertyCache remembers the last non-empty snapshot seen per project.
//
//go:generate mockgen -source=property_cache.go -destination=mocks/mock_property_cache.go -package=mocks
type PropertyCache interface {
	// Put stores snapshot for project. Empty snapshots are ignored.
	Put(project string, snapshot domain.PropertySnapshot)
	// Take returns the cached snapshot without removing it.
	Take(project string) (domain.PropertySnapshot, bool)
	// Evict removes the cached snapshot of project.
	Evict(project string)
}
