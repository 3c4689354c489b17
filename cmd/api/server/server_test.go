package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net"
	"net/http"
	"path/filepath"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	userv1 "user-directory/api/userdirectory/v1"
	"user-directory/cmd/api/di"
	"user-directory/internal/adapter/cache"
	"user-directory/internal/config"
	"user-directory/internal/ordering"
)

func testConfig(t *testing.T, mr *miniredis.Miniredis) *config.Config {
	return &config.Config{
		App: config.AppConfig{Env: "test", GRPCPort: "50051", HTTPPort: "8080", ShutdownTimeoutSeconds: 5},
		Logger: config.LoggerConfig{
			Level:       "debug",
			ServiceName: "user-directory",
		},
		Redis: config.RedisConfig{
			Enabled:             true,
			Host:                mr.Host(),
			Port:                mr.Port(),
			PoolSize:            2,
			ViewCacheTTLSeconds: 60,
		},
		RateLimit: config.RateLimitConfig{Enabled: true, RequestsPerSecond: 100, WindowSeconds: 1},
		Journal: config.JournalConfig{
			Enabled:   true,
			Driver:    config.DriverSQLite,
			DSN:       filepath.Join(t.TempDir(), "journal.db"),
			QueueSize: 16,
		},
		Sort: config.SortConfig{Field: "firstName", Direction: "asc"},
	}
}

func listen(t *testing.T) net.Listener {
	lis, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	return lis
}

func TestServer_ServesRESTAndGRPC(t *testing.T) {
	mr := miniredis.RunT(t)
	log := zaptest.NewLogger(t)
	cfg := testConfig(t, mr)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	c, err := di.NewContainer(ctx, cfg, log)
	require.NoError(t, err)
	defer c.Close()

	srv := New(cfg, log, c)
	grpcLis, httpLis := listen(t), listen(t)

	done := make(chan error, 1)
	go func() {
		done <- srv.Serve(ctx, grpcLis, httpLis)
	}()
	journalDone := make(chan error, 1)
	go func() {
		journalDone <- c.Journal.Run(ctx)
	}()

	base := "http://" + httpLis.Addr().String()

	// REST create
	body, err := json.Marshal(userv1.UserForm{
		FirstName: "Jane", LastName: "Doe", Email: "jane@example.com", Phone: "5551234567",
		StreetAddress: "1 Main St", City: "Springfield", Region: "IL", PostalCode: "62701", Country: "US",
	})
	require.NoError(t, err)
	resp, err := http.Post(base+"/v1/users", "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	// gRPC list sees the REST write
	conn, err := grpc.NewClient(grpcLis.Addr().String(), grpc.WithTransportCredentials(insecure.NewCredentials()))
	require.NoError(t, err)
	defer conn.Close()

	callCtx, callCancel := context.WithTimeout(ctx, 5*time.Second)
	defer callCancel()
	list, err := userv1.NewUserServiceClient(conn).ListUsers(callCtx, &userv1.ListUsersRequest{})
	require.NoError(t, err)
	require.Len(t, list.Users, 1)
	assert.Equal(t, "Jane", list.Users[0].FirstName)

	// The ordered view was cached for the current version
	assert.True(t, mr.Exists(cache.ViewKey(c.Store.Epoch(), 1, []ordering.Key{ordering.DefaultKey})))

	// The journal catches up asynchronously
	assert.Eventually(t, func() bool {
		resp, err := http.Get(base + "/v1/journal")
		if err != nil {
			return false
		}
		defer resp.Body.Close()
		var out struct {
			Count int `json:"count"`
		}
		return resp.StatusCode == http.StatusOK && json.NewDecoder(resp.Body).Decode(&out) == nil && out.Count == 1
	}, 5*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(10 * time.Second):
		t.Fatal("server did not shut down")
	}
	assert.NoError(t, <-journalDone)
}
