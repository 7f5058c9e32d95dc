package propcache

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/precheckout/internal/core/ports"
)

// NodeID is the unique identifier for the property cache Graft node.
const NodeID graft.ID = "adapter.propcache"

func init() {
	graft.Register(graft.Node[ports.PropertyCache]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.PropertyCache, error) {
			return New(), nil
		},
	})
}
