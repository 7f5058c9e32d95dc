package envresolver

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/precheckout/internal/core/ports"
)

// NodeID is the unique identifier for the environment resolver Graft node.
const NodeID graft.ID = "adapter.envresolver"

func init() {
	graft.Register(graft.Node[ports.EnvironmentResolver]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.EnvironmentResolver, error) {
			return New(), nil
		},
	})
}
