package grpc

import (
	"context"

	"go.uber.org/zap"

	userv1 "user-directory/api/userdirectory/v1"
	"user-directory/internal/adapter/convert"
	"user-directory/internal/usecase/user"
	"user-directory/pkg/logger"
)

// UserServiceServer implements the gRPC user service
type UserServiceServer struct {
	userv1.UnimplementedUserServiceServer
	uc  user.Usecase
	log *zap.Logger
}

// NewUserServiceServer creates a new gRPC user service server
func NewUserServiceServer(uc user.Usecase, log *zap.Logger) *UserServiceServer {
	return &UserServiceServer{uc: uc, log: log}
}

// CreateUser handles gRPC CreateUser request
func (s *UserServiceServer) CreateUser(ctx context.Context, req *userv1.CreateUserRequest) (*userv1.CreateUserResponse, error) {
	logger.WithContext(ctx, s.log).Debug("gRPC CreateUser request", zap.String("email", req.User.Email))

	resp, err := s.uc.CreateUser(ctx, user.CreateUserRequest{UserForm: convert.FormFromWire(req.User)})
	if err != nil {
		return nil, err
	}

	return &userv1.CreateUserResponse{
		User:    convert.UserToWire(resp.User),
		Message: resp.Message,
	}, nil
}

// GetUser handles gRPC GetUser request
func (s *UserServiceServer) GetUser(ctx context.Context, req *userv1.GetUserRequest) (*userv1.GetUserResponse, error) {
	resp, err := s.uc.GetUser(ctx, user.GetUserRequest{ID: req.ID})
	if err != nil {
		return nil, err
	}

	return &userv1.GetUserResponse{User: convert.UserToWire(resp.User)}, nil
}

// UpdateUser handles gRPC UpdateUser request
func (s *UserServiceServer) UpdateUser(ctx context.Context, req *userv1.UpdateUserRequest) (*userv1.UpdateUserResponse, error) {
	logger.WithContext(ctx, s.log).Debug("gRPC UpdateUser request", zap.Int64("id", req.ID))

	resp, err := s.uc.UpdateUser(ctx, user.UpdateUserRequest{ID: req.ID, UserForm: convert.FormFromWire(req.User)})
	if err != nil {
		return nil, err
	}

	return &userv1.UpdateUserResponse{
		User:    convert.UserToWire(resp.User),
		Message: resp.Message,
	}, nil
}

// DeleteUser handles gRPC DeleteUser request
func (s *UserServiceServer) DeleteUser(ctx context.Context, req *userv1.DeleteUserRequest) (*userv1.DeleteUserResponse, error) {
	resp, err := s.uc.DeleteUser(ctx, user.DeleteUserRequest{ID: req.ID})
	if err != nil {
		return nil, err
	}

	return &userv1.DeleteUserResponse{
		ID:      resp.ID,
		Deleted: resp.Deleted,
		Message: resp.Message,
	}, nil
}

// ListUsers handles gRPC ListUsers request
func (s *UserServiceServer) ListUsers(ctx context.Context, req *userv1.ListUsersRequest) (*userv1.ListUsersResponse, error) {
	resp, err := s.uc.ListUsers(ctx, user.ListUsersRequest{
		Query: req.Query,
		Sort:  convert.SortFromWire(req.Sort),
	})
	if err != nil {
		return nil, err
	}

	return convert.ListToWire(resp), nil
}

// ReplaceUsers handles gRPC ReplaceUsers request
func (s *UserServiceServer) ReplaceUsers(ctx context.Context, req *userv1.ReplaceUsersRequest) (*userv1.ReplaceUsersResponse, error) {
	logger.WithContext(ctx, s.log).Debug("gRPC ReplaceUsers request", zap.Int("count", len(req.Users)))

	resp, err := s.uc.ReplaceUsers(ctx, user.ReplaceUsersRequest{
		Users:  convert.UsersFromWire(req.Users),
		Strict: req.Strict,
	})
	if err != nil {
		return nil, err
	}

	return convert.ReplaceToWire(resp), nil
}

// ResetUsers handles gRPC ResetUsers request
func (s *UserServiceServer) ResetUsers(ctx context.Context, _ *userv1.ResetUsersRequest) (*userv1.ResetUsersResponse, error) {
	resp, err := s.uc.ResetUsers(ctx)
	if err != nil {
		return nil, err
	}

	return &userv1.ResetUsersResponse{Message: resp.Message}, nil
}
