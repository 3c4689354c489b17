package grpc

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap/zaptest"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"

	userv1 "user-directory/api/userdirectory/v1"
	"user-directory/internal/ordering"
	"user-directory/internal/store"
	"user-directory/internal/usecase/user"
	"user-directory/pkg/logger"
)

// UserServiceSuite runs the service over an in-memory connection against a
// real store.
type UserServiceSuite struct {
	suite.Suite
	server *grpc.Server
	conn   *grpc.ClientConn
	client *userv1.UserServiceClient
	store  *store.Store
}

func (s *UserServiceSuite) SetupTest() {
	log := zaptest.NewLogger(s.T())
	lis := bufconn.Listen(1 << 20)

	s.store = store.New()
	uc := user.New(s.store, nil, log, ordering.DefaultKey)

	s.server = grpc.NewServer(grpc.ChainUnaryInterceptor(logger.RequestIDInterceptor()))
	userv1.RegisterUserServiceServer(s.server, NewUserServiceServer(uc, log))
	go func() {
		_ = s.server.Serve(lis)
	}()

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	s.Require().NoError(err)

	s.conn = conn
	s.client = userv1.NewUserServiceClient(conn)
}

func (s *UserServiceSuite) TearDownTest() {
	_ = s.conn.Close()
	s.server.Stop()
}

func (s *UserServiceSuite) ctx() context.Context {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	s.T().Cleanup(cancel)
	return ctx
}

func form(first, last string) userv1.UserForm {
	return userv1.UserForm{
		FirstName:     first,
		LastName:      last,
		Email:         "person@example.com",
		Phone:         "(555) 123-4567",
		StreetAddress: "1 Main St",
		City:          "Springfield",
		Region:        "IL",
		PostalCode:    "62701",
		Country:       "US",
	}
}

func (s *UserServiceSuite) TestCreateAndGet() {
	created, err := s.client.CreateUser(s.ctx(), &userv1.CreateUserRequest{User: form("Jane", "Doe")})
	s.Require().NoError(err)
	s.Equal(user.MsgUserCreated, created.Message)
	s.Positive(created.User.ID)
	s.Equal("5551234567", created.User.Phone)

	got, err := s.client.GetUser(s.ctx(), &userv1.GetUserRequest{ID: created.User.ID})
	s.Require().NoError(err)
	s.Equal(created.User, got.User)
}

func (s *UserServiceSuite) TestCreateValidationError() {
	f := form("Jane", "Doe")
	f.Email = "not-an-email"

	_, err := s.client.CreateUser(s.ctx(), &userv1.CreateUserRequest{User: f})

	s.Equal(codes.InvalidArgument, status.Code(err))
	s.Equal(0, s.store.Len())
}

func (s *UserServiceSuite) TestGetNotFound() {
	_, err := s.client.GetUser(s.ctx(), &userv1.GetUserRequest{ID: 42})

	s.Equal(codes.NotFound, status.Code(err))
}

func (s *UserServiceSuite) TestUpdateInPlace() {
	a, err := s.client.CreateUser(s.ctx(), &userv1.CreateUserRequest{User: form("Jane", "Doe")})
	s.Require().NoError(err)
	_, err = s.client.CreateUser(s.ctx(), &userv1.CreateUserRequest{User: form("Amy", "Smith")})
	s.Require().NoError(err)

	updated, err := s.client.UpdateUser(s.ctx(), &userv1.UpdateUserRequest{ID: a.User.ID, User: form("Janet", "Doe")})
	s.Require().NoError(err)
	s.Equal(user.MsgUserUpdated, updated.Message)
	s.Equal(a.User.ID, updated.User.ID)

	all := s.store.List()
	s.Require().Len(all, 2)
	s.Equal("Janet", all[0].FirstName)

	_, err = s.client.UpdateUser(s.ctx(), &userv1.UpdateUserRequest{ID: 999, User: form("X", "Y")})
	s.Equal(codes.NotFound, status.Code(err))
}

func (s *UserServiceSuite) TestDeleteIsIdempotent() {
	a, err := s.client.CreateUser(s.ctx(), &userv1.CreateUserRequest{User: form("Jane", "Doe")})
	s.Require().NoError(err)

	first, err := s.client.DeleteUser(s.ctx(), &userv1.DeleteUserRequest{ID: a.User.ID})
	s.Require().NoError(err)
	s.True(first.Deleted)

	second, err := s.client.DeleteUser(s.ctx(), &userv1.DeleteUserRequest{ID: a.User.ID})
	s.Require().NoError(err)
	s.False(second.Deleted)
	s.Equal(user.MsgUserNotFound, second.Message)
}

func (s *UserServiceSuite) TestListSorted() {
	for _, name := range []string{"Charlie", "Alice", "Bob"} {
		_, err := s.client.CreateUser(s.ctx(), &userv1.CreateUserRequest{User: form(name, "Doe")})
		s.Require().NoError(err)
	}

	asc, err := s.client.ListUsers(s.ctx(), &userv1.ListUsersRequest{})
	s.Require().NoError(err)
	s.Equal([]string{"Alice", "Bob", "Charlie"}, names(asc.Users))
	s.Equal([]userv1.SortKey{{Field: "firstName", Order: "asc"}}, asc.Sort)
	s.Equal(uint64(3), asc.Version)

	desc, err := s.client.ListUsers(s.ctx(), &userv1.ListUsersRequest{Sort: []userv1.SortKey{{Field: "firstName", Order: "desc"}}})
	s.Require().NoError(err)
	s.Equal([]string{"Charlie", "Bob", "Alice"}, names(desc.Users))

	filtered, err := s.client.ListUsers(s.ctx(), &userv1.ListUsersRequest{Query: "ali"})
	s.Require().NoError(err)
	s.Equal([]string{"Alice"}, names(filtered.Users))

	_, err = s.client.ListUsers(s.ctx(), &userv1.ListUsersRequest{Sort: []userv1.SortKey{{Field: "age"}}})
	s.Equal(codes.InvalidArgument, status.Code(err))
}

func (s *UserServiceSuite) TestReplaceAndReset() {
	users := []userv1.User{
		{ID: 10, UserForm: form("Jane", "Doe")},
		{ID: 20, UserForm: form("Amy", "Smith")},
		{ID: 10, UserForm: form("Dup", "Licate")},
	}

	replaced, err := s.client.ReplaceUsers(s.ctx(), &userv1.ReplaceUsersRequest{Users: users})
	s.Require().NoError(err)
	s.Equal(2, replaced.Count)
	s.Equal([]int64{10}, replaced.Rejected)
	s.Equal(2, s.store.Len())

	reset, err := s.client.ResetUsers(s.ctx(), &userv1.ResetUsersRequest{})
	s.Require().NoError(err)
	s.Equal(user.MsgUsersReset, reset.Message)
	s.Equal(0, s.store.Len())
}

func (s *UserServiceSuite) TestStrictReplaceRefusesDuplicates() {
	users := []userv1.User{
		{ID: 10, UserForm: form("Jane", "Doe")},
		{ID: 10, UserForm: form("Dup", "Licate")},
	}

	_, err := s.client.ReplaceUsers(s.ctx(), &userv1.ReplaceUsersRequest{Users: users, Strict: true})

	s.Equal(codes.AlreadyExists, status.Code(err))
	s.Equal(0, s.store.Len())
}

func (s *UserServiceSuite) TestRequestIDHeader() {
	var header metadata.MD
	ctx := metadata.AppendToOutgoingContext(s.ctx(), logger.RequestIDHeader, "req-123")

	_, err := s.client.ListUsers(ctx, &userv1.ListUsersRequest{}, grpc.Header(&header))
	s.Require().NoError(err)
	s.Equal([]string{"req-123"}, header.Get(logger.RequestIDHeader))
}

func names(users []userv1.User) []string {
	out := make([]string, len(users))
	for i, u := range users {
		out[i] = u.FirstName
	}
	return out
}

func TestUserServiceSuite(t *testing.T) {
	suite.Run(t, new(UserServiceSuite))
}

func TestUnimplementedServer(t *testing.T) {
	var srv userv1.UnimplementedUserServiceServer

	_, err := srv.ListUsers(context.Background(), &userv1.ListUsersRequest{})

	require.Error(t, err)
	assert.Equal(t, codes.Unimplemented, status.Code(err))
}
