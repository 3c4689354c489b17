package userv1

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const ServiceName = "userdirectory.v1.UserService"

const (
	UserService_CreateUser_FullMethodName   = "/" + ServiceName + "/CreateUser"
	UserService_GetUser_FullMethodName      = "/" + ServiceName + "/GetUser"
	UserService_UpdateUser_FullMethodName   = "/" + ServiceName + "/UpdateUser"
	UserService_DeleteUser_FullMethodName   = "/" + ServiceName + "/DeleteUser"
	UserService_ListUsers_FullMethodName    = "/" + ServiceName + "/ListUsers"
	UserService_ReplaceUsers_FullMethodName = "/" + ServiceName + "/ReplaceUsers"
	UserService_ResetUsers_FullMethodName   = "/" + ServiceName + "/ResetUsers"
)

// UserServiceServer is the server API for UserService.
type UserServiceServer interface {
	CreateUser(context.Context, *CreateUserRequest) (*CreateUserResponse, error)
	GetUser(context.Context, *GetUserRequest) (*GetUserResponse, error)
	UpdateUser(context.Context, *UpdateUserRequest) (*UpdateUserResponse, error)
	DeleteUser(context.Context, *DeleteUserRequest) (*DeleteUserResponse, error)
	ListUsers(context.Context, *ListUsersRequest) (*ListUsersResponse, error)
	ReplaceUsers(context.Context, *ReplaceUsersRequest) (*ReplaceUsersResponse, error)
	ResetUsers(context.Context, *ResetUsersRequest) (*ResetUsersResponse, error)
}

// UnimplementedUserServiceServer answers every method with codes.Unimplemented.
// Embed it to stay source compatible when methods are added.
type UnimplementedUserServiceServer struct{}

func (UnimplementedUserServiceServer) CreateUser(context.Context, *CreateUserRequest) (*CreateUserResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method CreateUser not implemented")
}
func (UnimplementedUserServiceServer) GetUser(context.Context, *GetUserRequest) (*GetUserResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method GetUser not implemented")
}
func (UnimplementedUserServiceServer) UpdateUser(context.Context, *UpdateUserRequest) (*UpdateUserResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method UpdateUser not implemented")
}
func (UnimplementedUserServiceServer) DeleteUser(context.Context, *DeleteUserRequest) (*DeleteUserResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method DeleteUser not implemented")
}
func (UnimplementedUserServiceServer) ListUsers(context.Context, *ListUsersRequest) (*ListUsersResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method ListUsers not implemented")
}
func (UnimplementedUserServiceServer) ReplaceUsers(context.Context, *ReplaceUsersRequest) (*ReplaceUsersResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method ReplaceUsers not implemented")
}
func (UnimplementedUserServiceServer) ResetUsers(context.Context, *ResetUsersRequest) (*ResetUsersResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method ResetUsers not implemented")
}

// RegisterUserServiceServer registers srv on s.
func RegisterUserServiceServer(s grpc.ServiceRegistrar, srv UserServiceServer) {
	s.RegisterService(&UserService_ServiceDesc, srv)
}

// unaryHandler adapts a typed server method to a grpc.MethodHandler.
func unaryHandler[Req, Resp any](fullMethod string, call func(UserServiceServer, context.Context, *Req) (*Resp, error)) grpc.MethodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(Req)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(UserServiceServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{
			Server:     srv,
			FullMethod: fullMethod,
		}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(UserServiceServer), ctx, req.(*Req))
		}
		return interceptor(ctx, in, info, handler)
	}
}

// UserService_ServiceDesc is the grpc.ServiceDesc for UserService.
var UserService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*UserServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "CreateUser",
			Handler:    unaryHandler(UserService_CreateUser_FullMethodName, UserServiceServer.CreateUser),
		},
		{
			MethodName: "GetUser",
			Handler:    unaryHandler(UserService_GetUser_FullMethodName, UserServiceServer.GetUser),
		},
		{
			MethodName: "UpdateUser",
			Handler:    unaryHandler(UserService_UpdateUser_FullMethodName, UserServiceServer.UpdateUser),
		},
		{
			MethodName: "DeleteUser",
			Handler:    unaryHandler(UserService_DeleteUser_FullMethodName, UserServiceServer.DeleteUser),
		},
		{
			MethodName: "ListUsers",
			Handler:    unaryHandler(UserService_ListUsers_FullMethodName, UserServiceServer.ListUsers),
		},
		{
			MethodName: "ReplaceUsers",
			Handler:    unaryHandler(UserService_ReplaceUsers_FullMethodName, UserServiceServer.ReplaceUsers),
		},
		{
			MethodName: "ResetUsers",
			Handler:    unaryHandler(UserService_ResetUsers_FullMethodName, UserServiceServer.ResetUsers),
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "userdirectory/v1/user.json",
}

// UserServiceClient is the client API for UserService. Every call uses the
// JSON codec.
type UserServiceClient struct {
	cc grpc.ClientConnInterface
}

// NewUserServiceClient creates a client over cc.
func NewUserServiceClient(cc grpc.ClientConnInterface) *UserServiceClient {
	return &UserServiceClient{cc: cc}
}

func invoke[Resp any](ctx context.Context, cc grpc.ClientConnInterface, method string, in any, opts []grpc.CallOption) (*Resp, error) {
	out := new(Resp)
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
	if err := cc.Invoke(ctx, method, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *UserServiceClient) CreateUser(ctx context.Context, in *CreateUserRequest, opts ...grpc.CallOption) (*CreateUserResponse, error) {
	return invoke[CreateUserResponse](ctx, c.cc, UserService_CreateUser_FullMethodName, in, opts)
}

func (c *UserServiceClient) GetUser(ctx context.Context, in *GetUserRequest, opts ...grpc.CallOption) (*GetUserResponse, error) {
	return invoke[GetUserResponse](ctx, c.cc, UserService_GetUser_FullMethodName, in, opts)
}

func (c *UserServiceClient) UpdateUser(ctx context.Context, in *UpdateUserRequest, opts ...grpc.CallOption) (*UpdateUserResponse, error) {
	return invoke[UpdateUserResponse](ctx, c.cc, UserService_UpdateUser_FullMethodName, in, opts)
}

func (c *UserServiceClient) DeleteUser(ctx context.Context, in *DeleteUserRequest, opts ...grpc.CallOption) (*DeleteUserResponse, error) {
	return invoke[DeleteUserResponse](ctx, c.cc, UserService_DeleteUser_FullMethodName, in, opts)
}

func (c *UserServiceClient) ListUsers(ctx context.Context, in *ListUsersRequest, opts ...grpc.CallOption) (*ListUsersResponse, error) {
	return invoke[ListUsersResponse](ctx, c.cc, UserService_ListUsers_FullMethodName, in, opts)
}

func (c *UserServiceClient) ReplaceUsers(ctx context.Context, in *ReplaceUsersRequest, opts ...grpc.CallOption) (*ReplaceUsersResponse, error) {
	return invoke[ReplaceUsersResponse](ctx, c.cc, UserService_ReplaceUsers_FullMethodName, in, opts)
}

func (c *UserServiceClient) ResetUsers(ctx context.Context, in *ResetUsersRequest, opts ...grpc.CallOption) (*ResetUsersResponse, error) {
	return invoke[ResetUsersResponse](ctx, c.cc, UserService_ResetUsers_FullMethodName, in, opts)
}
