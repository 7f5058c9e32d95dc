package ports

import (
	"context"

	"go.trai.ch/precheckout/internal/core/domain"
)

//go:generate mockgen -source=host.go -destination=mocks/mock_host.go -package=mocks

// Build is the host scheduler's view of one build at the pre-checkout point.
type Build interface {
	// ID identifies the build among the builds of the host.
	ID() string
	// DisplayName is the human readable name of the build.
	DisplayName() string
	// Project returns the project the build belongs to.
	Project() domain.Project
	// Executor returns the executor slot running the build, if the host knows it.
	Executor() (string, bool)
	// Environment returns the variables the host provides to the build.
	Environment(ctx context.Context) (map[string]string, error)
}

// Node is the machine a build is assigned to.
type Node interface {
	// DisplayName is the human readable name of the node.
	DisplayName() string
	// Channel opens the channel to the node's agent. The caller closes it.
	Channel(ctx context.Context) (Channel, error)
	// OneOffExecutors lists the node's one-off executor slots.
	OneOffExecutors() []domain.Executor
}
