package ports

import (
	"context"
	"io"

	"go.trai.ch/precheckout/internal/core/domain"
)

// Channel is a command and file channel to one execution agent.
//
//go:generate mockgen -source=channel.go -destination=mocks/mock_channel.go -package=mocks
type Channel interface {
	// ID returns the identity of the agent behind the channel.
	ID() string
	// CreateTempFile writes content to a new uniquely named file in dir whose
	// name starts with prefix and ends with suffix. It returns the file's path.
	CreateTempFile(ctx context.Context, dir, prefix, suffix, content string) (string, error)
	// Delete removes the file at path.
	Delete(ctx context.Context, path string) error
	// Launch runs spec, streams its combined output to output and returns the
	// exit code. A non-zero exit is not an error.
	Launch(ctx context.Context, spec domain.LaunchSpec, output io.Writer) (int, error)
	// Close releases the channel.
	Close() error
}
