package controller

import (
	"context"
	"errors"
	"io"
	"strconv"

	"go.trai.ch/precheckout/internal/adapters/daemon"
	"go.trai.ch/precheckout/internal/core/domain"
	"go.trai.ch/zerr"
	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// Client calls a controller's hook service.
type Client struct {
	conn *grpc.ClientConn
}

// Dial creates a client for the controller at address.
func Dial(address string, opts ...grpc.DialOption) (*Client, error) {
	conn, err := daemon.Dial(address, opts...)
	if err != nil {
		return nil, err
	}
	return NewClient(conn), nil
}

// NewClient wraps an established connection. It owns conn from here on.
func NewClient(conn *grpc.ClientConn) *Client {
	return &Client{conn: conn}
}

// SetUp sends req to the controller, copies console output to console and
// returns the controller's result.
func (c *Client) SetUp(ctx context.Context, req domain.BuildRequest, console io.Writer) (domain.SetUpResult, error) {
	in := EncodeRequest(req)

	stream, err := c.conn.NewStream(ctx, setUpStreamDesc, setUpMethod)
	if err != nil {
		return domain.SetUpResult{}, zerr.With(zerr.Wrap(err, "failed to open set-up stream"), "controller", c.conn.Target())
	}
	if err := stream.SendMsg(in); err != nil {
		return domain.SetUpResult{}, zerr.Wrap(err, "failed to send set-up request")
	}
	if err := stream.CloseSend(); err != nil {
		return domain.SetUpResult{}, zerr.Wrap(err, "failed to close set-up request")
	}

	for {
		chunk := new(wrapperspb.BytesValue)
		err := stream.RecvMsg(chunk)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return domain.SetUpResult{}, zerr.With(zerr.Wrap(err, "set-up stream failed"), "controller", c.conn.Target())
		}
		if _, err := console.Write(chunk.GetValue()); err != nil {
			return domain.SetUpResult{}, zerr.Wrap(err, "failed to write console output")
		}
	}

	return decodeTrailer(stream.Trailer().Get(outcomeTrailer), stream.Trailer().Get(exitCodeTrailer))
}

func decodeTrailer(outcomes, codes []string) (domain.SetUpResult, error) {
	if len(outcomes) == 0 || len(codes) == 0 {
		return domain.SetUpResult{}, zerr.Wrap(domain.ErrMissingExitCode, "controller sent no result trailer")
	}

	outcome, ok := domain.ParseOutcome(outcomes[0])
	if !ok {
		return domain.SetUpResult{}, zerr.With(zerr.Wrap(domain.ErrMissingExitCode, "unknown outcome"), "outcome", outcomes[0])
	}
	code, err := strconv.Atoi(codes[0])
	if err != nil {
		return domain.SetUpResult{}, zerr.Wrap(domain.ErrMissingExitCode, err.Error())
	}
	return domain.SetUpResult{Outcome: outcome, ExitCode: code}, nil
}

// Close closes the connection.
func (c *Client) Close() error {
	return c.conn.Close()
}
