package infrastructure

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"user-directory/internal/config"
)

func redisConfig(mr *miniredis.Miniredis) config.RedisConfig {
	return config.RedisConfig{Enabled: true, Host: mr.Host(), Port: mr.Port(), PoolSize: 2, ViewCacheTTLSeconds: 30}
}

func TestNewRedisClient(t *testing.T) {
	mr := miniredis.RunT(t)
	log := zaptest.NewLogger(t)

	rdb, err := NewRedisClient(context.Background(), redisConfig(mr), log)
	require.NoError(t, err)

	require.NoError(t, rdb.Set(context.Background(), "k", "v", 0).Err())
	got, err := mr.Get("k")
	require.NoError(t, err)
	assert.Equal(t, "v", got)
	assert.NoError(t, CloseRedis(rdb, log))
}

func TestNewRedisClient_Unreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	cfg := redisConfig(mr)
	mr.Close()

	rdb, err := NewRedisClient(context.Background(), cfg, zaptest.NewLogger(t))

	assert.Nil(t, rdb)
	require.Error(t, err)
	assert.Contains(t, err.Error(), cfg.Addr())
}

func TestNewJournalDatabase(t *testing.T) {
	cfg := &config.Config{
		Logger:  config.LoggerConfig{Level: "info", SlowQuerySeconds: 1},
		Journal: config.JournalConfig{Enabled: true, Driver: config.DriverSQLite, DSN: filepath.Join(t.TempDir(), "journal.db")},
	}

	db, err := NewJournalDatabase(cfg, zaptest.NewLogger(t))
	require.NoError(t, err)
	assert.NoError(t, CloseDatabase(db))
}

func TestNewJournalDatabase_UnknownDriver(t *testing.T) {
	cfg := &config.Config{Journal: config.JournalConfig{Driver: "mysql"}}

	_, err := NewJournalDatabase(cfg, zaptest.NewLogger(t))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported journal driver")
}
