package agent

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

const (
	serviceName = "precheckout.agent.v1.AgentService"

	identityMethod       = "/" + serviceName + "/Identity"
	createTempFileMethod = "/" + serviceName + "/CreateTempFile"
	deleteMethod         = "/" + serviceName + "/Delete"
	launchMethod         = "/" + serviceName + "/Launch"

	// exitCodeTrailer carries the exit code of a launched process.
	exitCodeTrailer = "exit-code"
)

// AgentServer is the server side of the agent service.
type AgentServer interface {
	Identity(ctx context.Context, in *emptypb.Empty) (*wrapperspb.StringValue, error)
	CreateTempFile(ctx context.Context, in *structpb.Struct) (*wrapperspb.StringValue, error)
	Delete(ctx context.Context, in *wrapperspb.StringValue) (*emptypb.Empty, error)
	Launch(in *structpb.Struct, stream grpc.ServerStream) error
}

// ServiceDesc describes the agent service for grpc.Server.RegisterService.
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: serviceName,
	HandlerType: (*AgentServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "Identity",
			Handler:    unaryHandler(identityMethod, AgentServer.Identity),
		},
		{
			MethodName: "CreateTempFile",
			Handler:    unaryHandler(createTempFileMethod, AgentServer.CreateTempFile),
		},
		{
			MethodName: "Delete",
			Handler:    unaryHandler(deleteMethod, AgentServer.Delete),
		},
	},
	Streams: []grpc.StreamDesc{
		{
			StreamName:    "Launch",
			Handler:       launchHandler,
			ServerStreams: true,
		},
	},
	Metadata: "precheckout/agent/v1/agent.proto",
}

// RegisterAgentServer registers srv on s.
func RegisterAgentServer(s grpc.ServiceRegistrar, srv AgentServer) {
	s.RegisterService(&ServiceDesc, srv)
}

func unaryHandler[Req, Resp any](
	method string,
	call func(AgentServer, context.Context, *Req) (*Resp, error),
) grpc.MethodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(Req)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(AgentServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: method}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(AgentServer), ctx, req.(*Req))
		}
		return interceptor(ctx, in, info, handler)
	}
}

func launchHandler(srv any, stream grpc.ServerStream) error {
	in := new(structpb.Struct)
	if err := stream.RecvMsg(in); err != nil {
		return err
	}
	return srv.(AgentServer).Launch(in, stream)
}

var launchStreamDesc = &ServiceDesc.Streams[0]
