package ports

import (
	"context"
	"io"
)

// DispatchRequest describes one pre-checkout script run.
type DispatchRequest struct {
	Command     string
	Environment map[string]string
	// Build and Executor annotate logs and spans.
	Build    string
	Executor string
}

// Dispatcher runs a pre-checkout command on a build's agent.
//
//go:generate mockgen -source=dispatcher.go -destination=mocks/mock_dispatcher.go -package=mocks
type Dispatcher interface {
	// Dispatch runs the command on node and returns the script's exit code.
	Dispatch(ctx context.Context, req DispatchRequest, node Node, console io.Writer) (int, error)
}
