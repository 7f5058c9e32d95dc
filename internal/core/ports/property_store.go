package ports

import (
	"context"

	"go.trai.ch/precheckout/internal/core/domain"
)

// PropertyStore reads the persisted configuration of projects.
//
//go:generate mockgen -source=property_store.go -destination=mocks/mock_property_store.go -package=mocks
type PropertyStore interface {
	// Snapshot returns the current configuration of the project.
	// A project that was never saved yields an empty snapshot and no error.
	Snapshot(ctx context.Context, project domain.Project) (domain.PropertySnapshot, error)
}
