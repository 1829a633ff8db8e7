package grpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// The service is described with well-known message types only, so it needs
// no generated stubs. Reports are opaque JSON objects carried as Struct.

const (
	HeartbeatServiceName = "vigilant.v1.HeartbeatService"

	SubmitHeartbeatFullMethod = "/vigilant.v1.HeartbeatService/SubmitHeartbeat"
	ListRigsFullMethod        = "/vigilant.v1.HeartbeatService/ListRigs"
	GetRigFullMethod          = "/vigilant.v1.HeartbeatService/GetRig"
)

type HeartbeatServiceServer interface {
	SubmitHeartbeat(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ListRigs(context.Context, *emptypb.Empty) (*structpb.Struct, error)
	GetRig(context.Context, *wrapperspb.StringValue) (*structpb.Struct, error)
}

func RegisterHeartbeatServiceServer(s grpc.ServiceRegistrar, srv HeartbeatServiceServer) {
	s.RegisterService(&HeartbeatServiceDesc, srv)
}

func submitHeartbeatHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(HeartbeatServiceServer).SubmitHeartbeat(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: SubmitHeartbeatFullMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(HeartbeatServiceServer).SubmitHeartbeat(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

func listRigsHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(emptypb.Empty)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(HeartbeatServiceServer).ListRigs(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: ListRigsFullMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(HeartbeatServiceServer).ListRigs(ctx, req.(*emptypb.Empty))
	}
	return interceptor(ctx, in, info, handler)
}

func getRigHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(wrapperspb.StringValue)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(HeartbeatServiceServer).GetRig(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: GetRigFullMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(HeartbeatServiceServer).GetRig(ctx, req.(*wrapperspb.StringValue))
	}
	return interceptor(ctx, in, info, handler)
}

var HeartbeatServiceDesc = grpc.ServiceDesc{
	ServiceName: HeartbeatServiceName,
	HandlerType: (*HeartbeatServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "SubmitHeartbeat", Handler: submitHeartbeatHandler},
		{MethodName: "ListRigs", Handler: listRigsHandler},
		{MethodName: "GetRig", Handler: getRigHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "vigilant/v1/heartbeat.proto",
}

type HeartbeatServiceClient interface {
	SubmitHeartbeat(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
	ListRigs(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*structpb.Struct, error)
	GetRig(ctx context.Context, in *wrapperspb.StringValue, opts ...grpc.CallOption) (*structpb.Struct, error)
}

type heartbeatServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewHeartbeatServiceClient(cc grpc.ClientConnInterface) HeartbeatServiceClient {
	return &heartbeatServiceClient{cc}
}

func (c *heartbeatServiceClient) SubmitHeartbeat(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, SubmitHeartbeatFullMethod, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *heartbeatServiceClient) ListRigs(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, ListRigsFullMethod, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *heartbeatServiceClient) GetRig(ctx context.Context, in *wrapperspb.StringValue, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, GetRigFullMethod, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}
