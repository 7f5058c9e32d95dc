package agent

import (
	"context"
	"errors"
	"io"
	"strconv"

	"go.trai.ch/precheckout/internal/adapters/daemon"
	"go.trai.ch/precheckout/internal/core/domain"
	"go.trai.ch/precheckout/internal/core/ports"
	"go.trai.ch/zerr"
	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

var _ ports.Channel = (*Client)(nil)

// Client is a channel to a remote agent daemon.
type Client struct {
	conn *grpc.ClientConn
	id   string
}

// Connect dials the agent at address and asks for its identity.
func Connect(ctx context.Context, address string, opts ...grpc.DialOption) (*Client, error) {
	conn, err := daemon.Dial(address, opts...)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(domain.ErrChannelUnavailable, err.Error()), "agent", address)
	}
	return NewClient(ctx, conn)
}

// NewClient wraps an established connection. It owns conn from here on.
func NewClient(ctx context.Context, conn *grpc.ClientConn) (*Client, error) {
	id := new(wrapperspb.StringValue)
	if err := conn.Invoke(ctx, identityMethod, &emptypb.Empty{}, id); err != nil {
		_ = conn.Close()
		return nil, zerr.With(zerr.Wrap(domain.ErrChannelUnavailable, err.Error()), "agent", conn.Target())
	}
	return &Client{conn: conn, id: id.GetValue()}, nil
}

// ID returns the identity the agent reported when the client connected.
func (c *Client) ID() string {
	return c.id
}

// CreateTempFile creates a file on the agent.
func (c *Client) CreateTempFile(ctx context.Context, dir, prefix, suffix, content string) (string, error) {
	in := encodeTempFile(dir, prefix, suffix, content)

	out := new(wrapperspb.StringValue)
	if err := c.conn.Invoke(ctx, createTempFileMethod, in, out); err != nil {
		return "", zerr.With(zerr.Wrap(err, "agent failed to create temp file"), "agent", c.id)
	}
	return out.GetValue(), nil
}

// Delete removes a file on the agent.
func (c *Client) Delete(ctx context.Context, path string) error {
	if err := c.conn.Invoke(ctx, deleteMethod, wrapperspb.String(path), &emptypb.Empty{}); err != nil {
		return zerr.With(zerr.Wrap(err, "agent failed to delete file"), "path", path)
	}
	return nil
}

// Launch runs spec on the agent, copying the output stream to output.
func (c *Client) Launch(ctx context.Context, spec domain.LaunchSpec, output io.Writer) (int, error) {
	in := encodeLaunch(spec)

	stream, err := c.conn.NewStream(ctx, launchStreamDesc, launchMethod)
	if err != nil {
		return -1, zerr.With(zerr.Wrap(err, "failed to open launch stream"), "agent", c.id)
	}
	if err := stream.SendMsg(in); err != nil {
		return -1, zerr.With(zerr.Wrap(err, "failed to send launch request"), "agent", c.id)
	}
	if err := stream.CloseSend(); err != nil {
		return -1, zerr.With(zerr.Wrap(err, "failed to close launch request"), "agent", c.id)
	}

	for {
		chunk := new(wrapperspb.BytesValue)
		err := stream.RecvMsg(chunk)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return -1, zerr.With(zerr.Wrap(err, "launch stream failed"), "agent", c.id)
		}
		if _, err := output.Write(chunk.GetValue()); err != nil {
			return -1, zerr.Wrap(err, "failed to write process output")
		}
	}

	values := stream.Trailer().Get(exitCodeTrailer)
	if len(values) == 0 {
		return -1, zerr.With(zerr.Wrap(domain.ErrMissingExitCode, "no trailer"), "agent", c.id)
	}
	code, err := strconv.Atoi(values[0])
	if err != nil {
		return -1, zerr.With(zerr.Wrap(domain.ErrMissingExitCode, err.Error()), "agent", c.id)
	}
	return code, nil
}

// Close closes the connection.
func (c *Client) Close() error {
	return c.conn.Close()
}
