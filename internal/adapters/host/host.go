// Package host adapts a wire-level build request to the host scheduler ports
// the orchestrator consumes.
package host

import (
	"context"
	"maps"

	"go.trai.ch/precheckout/internal/adapters/agent"
	"go.trai.ch/precheckout/internal/core/domain"
	"go.trai.ch/precheckout/internal/core/ports"
)

var (
	_ ports.Build = (*Build)(nil)
	_ ports.Node  = (*Node)(nil)
)

// Dialer opens a channel to the agent at address on the node called node.
type Dialer func(ctx context.Context, node, address string) (ports.Channel, error)

// DialAgent opens an in-process channel for domain.LocalAgent and a gRPC
// channel for anything else.
func DialAgent(opts ...agent.LocalOption) Dialer {
	return func(ctx context.Context, node, address string) (ports.Channel, error) {
		if address == "" || address == domain.LocalAgent {
			return agent.NewLocal(node, opts...), nil
		}
		return agent.Connect(ctx, address)
	}
}

// DialFromController is the dialer of the controller daemon. An in-process
// channel there runs in the controller itself, so it carries the controller's
// identity and the dispatcher refuses it. Remote agents are dialled as usual.
func DialFromController(controller string) Dialer {
	remote := DialAgent()
	return func(ctx context.Context, node, address string) (ports.Channel, error) {
		if address == "" || address == domain.LocalAgent {
			return agent.NewLocal(controller), nil
		}
		return remote(ctx, node, address)
	}
}

// Build implements ports.Build over a request.
type Build struct {
	req domain.BuildRequest
}

// NewBuild creates the build view of req.
func NewBuild(req domain.BuildRequest) *Build {
	return &Build{req: req}
}

// ID returns the build id.
func (b *Build) ID() string { return b.req.BuildID }

// DisplayName returns the build display name.
func (b *Build) DisplayName() string {
	if b.req.DisplayName != "" {
		return b.req.DisplayName
	}
	return b.req.Project.Label() + " #" + b.req.BuildID
}

// Project returns the build's project.
func (b *Build) Project() domain.Project { return b.req.Project }

// Executor returns the executor named in the request, if any.
func (b *Build) Executor() (string, bool) {
	return b.req.Executor, b.req.Executor != ""
}

// Environment returns a copy of the request environment.
func (b *Build) Environment(context.Context) (map[string]string, error) {
	env := make(map[string]string, len(b.req.Environment))
	maps.Copy(env, b.req.Environment)
	return env, nil
}

// Node implements ports.Node over a request.
type Node struct {
	name    string
	address string
	oneOff  []domain.Executor
	dial    Dialer
}

// NewNode creates the node view of req. Channels are opened with dial.
func NewNode(req domain.BuildRequest, dial Dialer) *Node {
	name := req.NodeName
	if name == "" {
		name = domain.LocalAgent
	}
	return &Node{
		name:    name,
		address: req.AgentAddress,
		oneOff:  req.OneOffExecutors,
		dial:    dial,
	}
}

// DisplayName returns the node name.
func (n *Node) DisplayName() string { return n.name }

// Channel opens a channel to the node's agent.
func (n *Node) Channel(ctx context.Context) (ports.Channel, error) {
	return n.dial(ctx, n.name, n.address)
}

// OneOffExecutors returns the node's one-off executors.
func (n *Node) OneOffExecutors() []domain.Executor { return n.oneOff }
