// Package propcache holds the last non-empty property snapshot seen per project.
package propcache

import (
	"sync"

	"go.trai.ch/precheckout/internal/core/domain"
	"go.trai.ch/precheckout/internal/core/ports"
)

var _ ports.PropertyCache = (*Cache)(nil)

// Cache is a thread-safe project to snapshot map.
type Cache struct {
	mu        sync.RWMutex
	snapshots map[string]domain.PropertySnapshot
}

// New creates an empty Cache.
func New() *Cache {
	return &Cache{
		snapshots: make(map[string]domain.PropertySnapshot),
	}
}

// Put stores snapshot for project, replacing any earlier one.
// Empty snapshots are ignored so a later read never loses a good value.
func (c *Cache) Put(project string, snapshot domain.PropertySnapshot) {
	if snapshot.IsEmpty() {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.snapshots[project] = snapshot
}

// Take returns the snapshot cached for project without removing it.
func (c *Cache) Take(project string) (domain.PropertySnapshot, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	snapshot, ok := c.snapshots[project]
	return snapshot, ok
}

// Evict drops the snapshot cached for project.
func (c *Cache) Evict(project string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.snapshots, project)
}

// Len returns the number of cached projects.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.snapshots)
}
