// Package controller exposes the pre-checkout hook over gRPC so a host
// scheduler, or the setup command, can call into a long-running controller
// that owns the attempt tracker and property cache.
package controller

import (
	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

const (
	serviceName = "precheckout.controller.v1.HookService"

	setUpMethod = "/" + serviceName + "/SetUp"

	outcomeTrailer  = "outcome"
	exitCodeTrailer = "exit-code"
)

// HookServer is the server side of the hook service.
type HookServer interface {
	SetUp(in *structpb.Struct, stream grpc.ServerStream) error
}

// ServiceDesc describes the hook service for grpc.Server.RegisterService.
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: serviceName,
	HandlerType: (*HookServer)(nil),
	Methods:     []grpc.MethodDesc{},
	Streams: []grpc.StreamDesc{
		{
			StreamName:    "SetUp",
			Handler:       setUpHandler,
			ServerStreams: true,
		},
	},
	Metadata: "precheckout/controller/v1/hook.proto",
}

// RegisterHookServer registers srv on s.
func RegisterHookServer(s grpc.ServiceRegistrar, srv HookServer) {
	s.RegisterService(&ServiceDesc, srv)
}

func setUpHandler(srv any, stream grpc.ServerStream) error {
	in := new(structpb.Struct)
	if err := stream.RecvMsg(in); err != nil {
		return err
	}
	return srv.(HookServer).SetUp(in, stream)
}

var setUpStreamDesc = &ServiceDesc.Streams[0]
