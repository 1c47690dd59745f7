package hydration_service

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const (
	HydrationService_GetUser_FullMethodName       = "/water.HydrationService/GetUser"
	HydrationService_GetIntake_FullMethodName     = "/water.HydrationService/GetIntake"
	HydrationService_UpdateProfile_FullMethodName = "/water.HydrationService/UpdateProfile"
	HydrationService_PostLimiter_FullMethodName   = "/water.HydrationService/PostLimiter"
)

type HydrationServiceClient interface {
	GetUser(ctx context.Context, in *UserRequest, opts ...grpc.CallOption) (*GetUserResponse, error)
	GetIntake(ctx context.Context, in *GetIntakeRequest, opts ...grpc.CallOption) (*GetIntakeResponse, error)
	UpdateProfile(ctx context.Context, in *UpdateProfileRequest, opts ...grpc.CallOption) (*UpdateProfileResponse, error)
	PostLimiter(ctx context.Context, in *PostLimiterRequest, opts ...grpc.CallOption) (*PostLimiterResponse, error)
}

type hydrationServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewHydrationServiceClient(cc grpc.ClientConnInterface) HydrationServiceClient {
	return &hydrationServiceClient{cc}
}

func (c *hydrationServiceClient) invoke(ctx context.Context, method string, in, out any, opts []grpc.CallOption) error {
	callOpts := append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
	return c.cc.Invoke(ctx, method, in, out, callOpts...)
}

func (c *hydrationServiceClient) GetUser(ctx context.Context, in *UserRequest, opts ...grpc.CallOption) (*GetUserResponse, error) {
	out := new(GetUserResponse)
	if err := c.invoke(ctx, HydrationService_GetUser_FullMethodName, in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *hydrationServiceClient) GetIntake(ctx context.Context, in *GetIntakeRequest, opts ...grpc.CallOption) (*GetIntakeResponse, error) {
	out := new(GetIntakeResponse)
	if err := c.invoke(ctx, HydrationService_GetIntake_FullMethodName, in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *hydrationServiceClient) UpdateProfile(ctx context.Context, in *UpdateProfileRequest, opts ...grpc.CallOption) (*UpdateProfileResponse, error) {
	out := new(UpdateProfileResponse)
	if err := c.invoke(ctx, HydrationService_UpdateProfile_FullMethodName, in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *hydrationServiceClient) PostLimiter(ctx context.Context, in *PostLimiterRequest, opts ...grpc.CallOption) (*PostLimiterResponse, error) {
	out := new(PostLimiterResponse)
	if err := c.invoke(ctx, HydrationService_PostLimiter_FullMethodName, in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

type HydrationServiceServer interface {
	GetUser(context.Context, *UserRequest) (*GetUserResponse, error)
	GetIntake(context.Context, *GetIntakeRequest) (*GetIntakeResponse, error)
	UpdateProfile(context.Context, *UpdateProfileRequest) (*UpdateProfileResponse, error)
	PostLimiter(context.Context, *PostLimiterRequest) (*PostLimiterResponse, error)
}

// UnimplementedHydrationServiceServer can be embedded to stay forward compatible.
type UnimplementedHydrationServiceServer struct{}

func (UnimplementedHydrationServiceServer) GetUser(context.Context, *UserRequest) (*GetUserResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method GetUser not implemented")
}
func (UnimplementedHydrationServiceServer) GetIntake(context.Context, *GetIntakeRequest) (*GetIntakeResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method GetIntake not implemented")
}
func (UnimplementedHydrationServiceServer) UpdateProfile(context.Context, *UpdateProfileRequest) (*UpdateProfileResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method UpdateProfile not implemented")
}
func (UnimplementedHydrationServiceServer) PostLimiter(context.Context, *PostLimiterRequest) (*PostLimiterResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method PostLimiter not implemented")
}

func RegisterHydrationServiceServer(s grpc.ServiceRegistrar, srv HydrationServiceServer) {
	s.RegisterService(&HydrationService_ServiceDesc, srv)
}

// unaryHandler adapts one typed server method to grpc.MethodDesc.
func unaryHandler[Req any, Resp any](
	fullMethod string,
	call func(HydrationServiceServer, context.Context, *Req) (*Resp, error),
) func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(Req)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(HydrationServiceServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{
			Server:     srv,
			FullMethod: fullMethod,
		}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(HydrationServiceServer), ctx, req.(*Req))
		}
		return interceptor(ctx, in, info, handler)
	}
}

var HydrationService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: "water.HydrationService",
	HandlerType: (*HydrationServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "GetUser",
			Handler:    unaryHandler(HydrationService_GetUser_FullMethodName, HydrationServiceServer.GetUser),
		},
		{
			MethodName: "GetIntake",
			Handler:    unaryHandler(HydrationService_GetIntake_FullMethodName, HydrationServiceServer.GetIntake),
		},
		{
			MethodName: "UpdateProfile",
			Handler:    unaryHandler(HydrationService_UpdateProfile_FullMethodName, HydrationServiceServer.UpdateProfile),
		},
		{
			MethodName: "PostLimiter",
			Handler:    unaryHandler(HydrationService_PostLimiter_FullMethodName, HydrationServiceServer.PostLimiter),
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "water/hydration_service",
}
