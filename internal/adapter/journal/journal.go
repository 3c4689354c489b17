// Package journal keeps an append-only audit log of store mutations in a SQL
// database. The log is write-only from the store's point of view: it is never
// replayed into the in-memory collection.
package journal

import (
	"context"
	"encoding/json"
	"fmt"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	domain "user-directory/internal/domain/user"
	"user-directory/internal/store"
)

// DefaultLimit bounds Entries when the caller passes no limit.
const DefaultLimit = 100

// Entry is one journaled store mutation.
type Entry struct {
	Seq     int64         `json:"seq"`
	Version uint64        `json:"version"`
	Kind    string        `json:"kind"`
	UserIDs []int64       `json:"userIds"`
	Users   []domain.User `json:"users"`
	At      time.Time     `json:"at"`
}

// EntrySchema represents the database schema for the user_journal table.
type EntrySchema struct {
	Seq     int64     `gorm:"primaryKey;autoIncrement"` // Insertion order
	Version uint64    `gorm:"not null;index"`           // Store version after the mutation
	Kind    string    `gorm:"size:16;not null"`         // created, updated, deleted, replaced, reset
	UserIDs string    `gorm:"type:text;not null"`       // JSON array of affected IDs
	Payload string    `gorm:"type:text;not null"`       // JSON array of affected records
	At      time.Time `gorm:"not null"`                 // When the mutation was applied
}

// TableName specifies the table name for the EntrySchema model.
func (EntrySchema) TableName() string {
	return "user_journal"
}

// Journal receives store events and writes them from a single background
// worker, so the store never waits on the database.
type Journal struct {
	db      *gorm.DB
	log     *zap.Logger
	queue   chan store.Event
	dropped atomic.Uint64
}

// New migrates the journal table and returns a Journal with a queue of queueSize events.
func New(db *gorm.DB, queueSize int, log *zap.Logger) (*Journal, error) {
	if queueSize <= 0 {
		return nil, fmt.Errorf("journal queue size must be positive, got %d", queueSize)
	}
	if err := db.AutoMigrate(&EntrySchema{}); err != nil {
		return nil, fmt.Errorf("failed to migrate journal: %w", err)
	}
	return &Journal{
		db:    db,
		log:   log,
		queue: make(chan store.Event, queueSize),
	}, nil
}

// Handle enqueues ev for writing. It never blocks: when the queue is full the
// event is dropped and counted. Handle is a store.Subscriber.
func (j *Journal) Handle(ev store.Event) {
	select {
	case j.queue <- ev:
	default:
		n := j.dropped.Add(1)
		j.log.Warn("journal queue full, event dropped",
			zap.String("kind", string(ev.Kind)),
			zap.Uint64("version", ev.Version),
			zap.Uint64("dropped_total", n),
		)
	}
}

// Dropped returns the number of events discarded because the queue was full.
func (j *Journal) Dropped() uint64 {
	return j.dropped.Load()
}

// Run writes queued events until ctx is cancelled, then drains what is left.
func (j *Journal) Run(ctx context.Context) error {
	j.log.Info("journal writer started")
	for {
		select {
		case ev := <-j.queue:
			j.write(ctx, ev)
		case <-ctx.Done():
			j.drain(context.WithoutCancel(ctx))
			j.log.Info("journal writer stopped")
			return nil
		}
	}
}

func (j *Journal) drain(ctx context.Context) {
	for {
		select {
		case ev := <-j.queue:
			j.write(ctx, ev)
		default:
			return
		}
	}
}

func (j *Journal) write(ctx context.Context, ev store.Event) {
	if err := j.Append(ctx, ev); err != nil {
		j.log.Error("failed to journal event",
			zap.String("kind", string(ev.Kind)),
			zap.Uint64("version", ev.Version),
			zap.Error(err),
		)
	}
}

// Append writes ev synchronously.
func (j *Journal) Append(ctx context.Context, ev store.Event) error {
	ids, err := json.Marshal(ev.IDs())
	if err != nil {
		return fmt.Errorf("failed to encode ids: %w", err)
	}
	users := ev.Users
	if users == nil {
		users = []domain.User{}
	}
	payload, err := json.Marshal(users)
	if err != nil {
		return fmt.Errorf("failed to encode users: %w", err)
	}

	model := EntrySchema{
		Version: ev.Version,
		Kind:    string(ev.Kind),
		UserIDs: string(ids),
		Payload: string(payload),
		At:      ev.At.UTC(),
	}
	if err := j.db.WithContext(ctx).Create(&model).Error; err != nil {
		return fmt.Errorf("failed to insert journal entry: %w", err)
	}

	j.log.Debug("event journaled", zap.Int64("seq", model.Seq), zap.String("kind", model.Kind), zap.Uint64("version", model.Version))
	return nil
}

// Entries returns up to limit entries, newest first.
func (j *Journal) Entries(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}

	var models []EntrySchema
	if err := j.db.WithContext(ctx).Order("seq DESC").Limit(limit).Find(&models).Error; err != nil {
		j.log.Error("failed to read journal", zap.Error(err))
		return nil, fmt.Errorf("failed to read journal: %w", err)
	}

	entries := make([]Entry, 0, len(models))
	for _, m := range models {
		e := Entry{
			Seq:     m.Seq,
			Version: m.Version,
			Kind:    m.Kind,
			At:      m.At,
		}
		if err := json.Unmarshal([]byte(m.UserIDs), &e.UserIDs); err != nil {
			return nil, fmt.Errorf("failed to decode ids of entry %d: %w", m.Seq, err)
		}
		if err := json.Unmarshal([]byte(m.Payload), &e.Users); err != nil {
			return nil, fmt.Errorf("failed to decode users of entry %d: %w", m.Seq, err)
		}
		entries = append(entries, e)
	}
	return entries, nil
}
