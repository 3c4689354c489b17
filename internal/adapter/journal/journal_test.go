package journal

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	domain "user-directory/internal/domain/user"
	"user-directory/internal/store"
)

func setupTestDB(t *testing.T) *gorm.DB {
	dsn := filepath.Join(t.TempDir(), "journal.db")
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() {
		_ = sqlDB.Close()
	})
	return db
}

func TestNew_RejectsEmptyQueue(t *testing.T) {
	_, err := New(setupTestDB(t), 0, zaptest.NewLogger(t))

	assert.Error(t, err)
}

func TestAppendAndEntries(t *testing.T) {
	j, err := New(setupTestDB(t), 4, zaptest.NewLogger(t))
	require.NoError(t, err)
	ctx := context.Background()
	at := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	jane := domain.User{ID: 10, Profile: domain.Profile{FirstName: "Jane", LastName: "Doe"}}
	require.NoError(t, j.Append(ctx, store.Event{Kind: store.EventCreated, Version: 1, Users: []domain.User{jane}, At: at}))
	require.NoError(t, j.Append(ctx, store.Event{Kind: store.EventReset, Version: 2, At: at.Add(time.Second)}))

	entries, err := j.Entries(ctx, 0)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	assert.Equal(t, "reset", entries[0].Kind)
	assert.Equal(t, uint64(2), entries[0].Version)
	assert.Empty(t, entries[0].UserIDs)
	assert.Empty(t, entries[0].Users)

	assert.Equal(t, "created", entries[1].Kind)
	assert.Equal(t, []int64{10}, entries[1].UserIDs)
	assert.Equal(t, []domain.User{jane}, entries[1].Users)
	assert.True(t, at.Equal(entries[1].At))

	limited, err := j.Entries(ctx, 1)
	require.NoError(t, err)
	require.Len(t, limited, 1)
	assert.Equal(t, "reset", limited[0].Kind)
}

func TestHandle_DropsWhenFull(t *testing.T) {
	j, err := New(setupTestDB(t), 1, zaptest.NewLogger(t))
	require.NoError(t, err)

	j.Handle(store.Event{Kind: store.EventCreated, Version: 1})
	j.Handle(store.Event{Kind: store.EventCreated, Version: 2})

	assert.Equal(t, uint64(1), j.Dropped())
}

func TestRun_JournalsStoreEventsInOrder(t *testing.T) {
	j, err := New(setupTestDB(t), 16, zaptest.NewLogger(t))
	require.NoError(t, err)

	s := store.New()
	unsubscribe := s.Subscribe(j.Handle)
	defer unsubscribe()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- j.Run(ctx)
	}()

	jane := s.Create(domain.Profile{FirstName: "Jane"})
	amy := s.Create(domain.Profile{FirstName: "Amy"})
	jane.LastName = "Doe"
	_, err = s.Update(jane)
	require.NoError(t, err)
	s.Delete(amy.ID)
	s.Reset()

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("journal writer did not stop")
	}

	entries, err := j.Entries(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, entries, 5)

	kinds := make([]string, len(entries))
	for i, e := range entries {
		kinds[i] = e.Kind
		assert.Equal(t, uint64(len(entries)-i), e.Version)
	}
	assert.Equal(t, []string{"reset", "deleted", "updated", "created", "created"}, kinds)
	assert.Equal(t, []int64{amy.ID}, entries[1].UserIDs)
	assert.Equal(t, "Doe", entries[2].Users[0].LastName)
	assert.Zero(t, j.Dropped())
}
