package agent

import (
	"context"
	"errors"
	"strconv"

	"go.trai.ch/precheckout/internal/core/domain"
	"go.trai.ch/precheckout/internal/core/ports"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

var _ AgentServer = (*Server)(nil)

// Server exposes a channel over gRPC. The agent daemon serves its Local channel.
type Server struct {
	channel ports.Channel
	logger  ports.Logger
}

// NewServer creates a server for channel.
func NewServer(channel ports.Channel, logger ports.Logger) *Server {
	return &Server{channel: channel, logger: logger}
}

// Register registers the agent service on s.
func (s *Server) Register(g *grpc.Server) {
	RegisterAgentServer(g, s)
}

// Identity returns the agent identity.
func (s *Server) Identity(context.Context, *emptypb.Empty) (*wrapperspb.StringValue, error) {
	return wrapperspb.String(s.channel.ID()), nil
}

// CreateTempFile creates a file on the agent and returns its path.
func (s *Server) CreateTempFile(ctx context.Context, in *structpb.Struct) (*wrapperspb.StringValue, error) {
	req, err := decodeTempFile(in)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	path, err := s.channel.CreateTempFile(ctx, req.dir, req.prefix, req.suffix, req.content)
	if err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}
	s.logger.Debug("created " + path)
	return wrapperspb.String(path), nil
}

// Delete removes a file on the agent.
func (s *Server) Delete(ctx context.Context, in *wrapperspb.StringValue) (*emptypb.Empty, error) {
	if err := s.channel.Delete(ctx, in.GetValue()); err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}
	s.logger.Debug("deleted " + in.GetValue())
	return &emptypb.Empty{}, nil
}

// Launch runs a process and streams its output, reporting the exit code in
// the trailer.
func (s *Server) Launch(in *structpb.Struct, stream grpc.ServerStream) error {
	spec, err := decodeLaunch(in)
	if err != nil {
		return status.Error(codes.InvalidArgument, err.Error())
	}
	if len(spec.Argv) == 0 {
		return status.Error(codes.InvalidArgument, domain.ErrEmptyArgv.Error())
	}

	s.logger.Debug("launching " + spec.Argv[0] + " in " + spec.Dir)

	code, err := s.channel.Launch(stream.Context(), spec, &streamWriter{stream: stream})
	if err != nil {
		if errors.Is(err, context.Canceled) || stream.Context().Err() != nil {
			return status.Error(codes.Canceled, err.Error())
		}
		return status.Error(codes.Aborted, err.Error())
	}

	stream.SetTrailer(metadata.Pairs(exitCodeTrailer, strconv.Itoa(code)))
	return nil
}

// streamWriter forwards process output as BytesValue messages.
type streamWriter struct {
	stream grpc.ServerStream
}

func (w *streamWriter) Write(p []byte) (int, error) {
	if err := w.stream.SendMsg(wrapperspb.Bytes(p)); err != nil {
		return 0, err
	}
	return len(p), nil
}
