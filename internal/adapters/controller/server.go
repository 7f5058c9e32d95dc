package controller

import (
	"context"
	"io"
	"strconv"
	"sync"

	"go.trai.ch/precheckout/internal/adapters/host"
	"go.trai.ch/precheckout/internal/core/domain"
	"go.trai.ch/precheckout/internal/core/ports"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

var _ HookServer = (*Server)(nil)

// Hook is the pre-checkout entry point served by the controller.
type Hook interface {
	SetUp(ctx context.Context, build ports.Build, node ports.Node, console io.Writer) domain.SetUpResult
}

// Server serves the hook service.
type Server struct {
	hook   Hook
	dial   host.Dialer
	logger ports.Logger
}

// NewServer creates a server that runs hook for every request. Agent channels
// are opened with dial.
func NewServer(hook Hook, dial host.Dialer, logger ports.Logger) *Server {
	return &Server{hook: hook, dial: dial, logger: logger}
}

// Register registers the hook service on g.
func (s *Server) Register(g *grpc.Server) {
	RegisterHookServer(g, s)
}

// SetUp runs the hook for one build, streaming console output back to the
// caller. The outcome and exit code travel in the trailer.
func (s *Server) SetUp(in *structpb.Struct, stream grpc.ServerStream) error {
	req, err := DecodeRequest(in)
	if err != nil {
		return status.Error(codes.InvalidArgument, err.Error())
	}

	s.logger.Debug("set-up requested for " + req.Project.Name + " build " + req.BuildID)

	console := &streamWriter{stream: stream}
	result := s.hook.SetUp(stream.Context(), host.NewBuild(req), host.NewNode(req, s.dial), console)

	stream.SetTrailer(metadata.Pairs(
		outcomeTrailer, result.Outcome.String(),
		exitCodeTrailer, strconv.Itoa(result.ExitCode),
	))
	return nil
}

// streamWriter forwards console output as BytesValue messages. Output may
// arrive from the process copier and the hook itself.
type streamWriter struct {
	mu     sync.Mutex
	stream grpc.ServerStream
}

func (w *streamWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.stream.SendMsg(wrapperspb.Bytes(p)); err != nil {
		return 0, err
	}
	return len(p), nil
}
