// Package store holds the authoritative in-memory collection of users.
//
// The Store is the single owner of the collection and of its identity
// invariant: no two live records share an ID. All mutators are serialized
// behind one writer lock, readers receive copies, and subscribers are told
// about every change after it has been applied.
package store

import (
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/google/uuid"

	domain "user-directory/internal/domain/user"
	pkgerrors "user-directory/pkg/errors"
)

// EventKind names the mutation that produced an Event.
type EventKind string

const (
	EventCreated  EventKind = "created"
	EventUpdated  EventKind = "updated"
	EventDeleted  EventKind = "deleted"
	EventReplaced EventKind = "replaced"
	EventReset    EventKind = "reset"
)

// Event describes one applied mutation.
type Event struct {
	Kind    EventKind
	Version uint64        // collection version after the mutation
	Users   []domain.User // records affected; for deletes, the removed record
	At      time.Time
}

// IDs returns the identities of the affected records.
func (e Event) IDs() []int64 {
	ids := make([]int64, len(e.Users))
	for i, u := range e.Users {
		ids[i] = u.ID
	}
	return ids
}

// Subscriber receives events. It runs synchronously after the mutation and
// must not call mutators on the same Store.
type Subscriber func(Event)

type subscription struct {
	id uint64
	fn Subscriber
}

// Option configures a Store.
type Option func(*Store)

// WithClock overrides the time source used for ID generation and event stamps.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// Store is a concurrency-safe, in-memory, insertion-ordered user collection.
type Store struct {
	mu      sync.RWMutex
	users   []domain.User
	index   map[int64]int // id -> position in users
	lastID  int64
	version uint64
	epoch   string
	now     func() time.Time

	// notifyMu keeps event delivery in mutation order.
	notifyMu sync.Mutex
	subMu    sync.Mutex
	subs     []subscription
	nextSub  uint64
}

// New returns an empty Store.
func New(opts ...Option) *Store {
	s := &Store{
		index: make(map[int64]int),
		epoch: uuid.NewString(),
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create assigns a fresh ID to profile, appends the record and returns it.
func (s *Store) Create(profile domain.Profile) domain.User {
	s.mu.Lock()
	u := profile.WithID(s.nextID())
	s.index[u.ID] = len(s.users)
	s.users = append(s.users, u)
	ev := s.event(EventCreated, u)
	s.publish(ev)
	return u
}

// nextID derives an ID from the clock in milliseconds, bumped past the last
// assigned ID and past any ID already in use. Once the counter reaches
// math.MaxInt64 the lowest free positive ID is used instead. Caller holds mu.
func (s *Store) nextID() int64 {
	id := s.now().UnixMilli()
	if id <= s.lastID {
		if s.lastID == math.MaxInt64 {
			return s.lowestFreeID()
		}
		id = s.lastID + 1
	}
	for {
		if _, taken := s.index[id]; !taken {
			break
		}
		if id == math.MaxInt64 {
			s.lastID = id
			return s.lowestFreeID()
		}
		id++
	}
	s.lastID = id
	return id
}

// lowestFreeID returns the smallest positive ID not in use. Caller holds mu.
func (s *Store) lowestFreeID() int64 {
	for id := int64(1); ; id++ {
		if _, taken := s.index[id]; !taken {
			return id
		}
	}
}

// Update replaces the record with u.ID in place. When no such record exists
// the collection is left unchanged and a NotFound error is returned.
func (s *Store) Update(u domain.User) (domain.User, error) {
	s.mu.Lock()
	pos, ok := s.index[u.ID]
	if !ok {
		s.mu.Unlock()
		return domain.User{}, notFound(u.ID)
	}
	s.users[pos] = u
	ev := s.event(EventUpdated, u)
	s.publish(ev)
	return u, nil
}

// Delete removes the record with id and reports whether one was removed.
// Deleting an absent id is a no-op.
func (s *Store) Delete(id int64) bool {
	s.mu.Lock()
	pos, ok := s.index[id]
	if !ok {
		s.mu.Unlock()
		return false
	}
	removed := s.users[pos]
	s.users = append(s.users[:pos:pos], s.users[pos+1:]...)
	s.reindex()
	ev := s.event(EventDeleted, removed)
	s.publish(ev)
	return true
}

// SetAll replaces the whole collection with users, in order. A record whose
// ID repeats an earlier record in users is rejected; rejected records are
// returned and the first occurrence wins.
func (s *Store) SetAll(users []domain.User) (rejected []domain.User) {
	accepted := make([]domain.User, 0, len(users))
	index := make(map[int64]int, len(users))
	for _, u := range users {
		if _, dup := index[u.ID]; dup {
			rejected = append(rejected, u)
			continue
		}
		index[u.ID] = len(accepted)
		accepted = append(accepted, u)
	}

	s.mu.Lock()
	s.users = accepted
	s.index = index
	for _, u := range accepted {
		if u.ID > s.lastID {
			s.lastID = u.ID
		}
	}
	ev := s.event(EventReplaced, accepted...)
	s.publish(ev)
	return rejected
}

// Reset empties the collection.
func (s *Store) Reset() {
	s.mu.Lock()
	s.users = nil
	s.index = make(map[int64]int)
	ev := s.event(EventReset)
	s.publish(ev)
}

// Get returns the record with id.
func (s *Store) Get(id int64) (domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	pos, ok := s.index[id]
	if !ok {
		return domain.User{}, notFound(id)
	}
	return s.users[pos], nil
}

// List returns a copy of the collection in store order.
func (s *Store) List() []domain.User {
	users, _ := s.Snapshot()
	return users
}

// Snapshot returns a copy of the collection together with the version it was
// taken at.
func (s *Store) Snapshot() ([]domain.User, uint64) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.User, len(s.users))
	copy(out, s.users)
	return out, s.version
}

// Len returns the number of records.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.users)
}

// Version returns the number of mutations applied so far.
func (s *Store) Version() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.version
}

// Epoch returns the random identifier of this store instance. Versions are
// only comparable between snapshots of the same epoch.
func (s *Store) Epoch() string {
	return s.epoch
}

// Subscribe registers fn for every subsequent Event and returns a function
// that removes the subscription.
func (s *Store) Subscribe(fn Subscriber) (unsubscribe func()) {
	s.subMu.Lock()
	defer s.subMu.Unlock()

	s.nextSub++
	id := s.nextSub
	s.subs = append(s.subs, subscription{id: id, fn: fn})

	var once sync.Once
	return func() {
		once.Do(func() {
			s.subMu.Lock()
			defer s.subMu.Unlock()
			for i, sub := range s.subs {
				if sub.id == id {
					s.subs = append(s.subs[:i:i], s.subs[i+1:]...)
					return
				}
			}
		})
	}
}

// event bumps the version and builds the Event for a mutation. Caller holds mu.
func (s *Store) event(kind EventKind, users ...domain.User) Event {
	s.version++
	affected := make([]domain.User, len(users))
	copy(affected, users)
	return Event{
		Kind:    kind,
		Version: s.version,
		Users:   affected,
		At:      s.now(),
	}
}

// publish releases mu and delivers ev to the current subscribers. notifyMu is
// taken before mu is released so that deliveries follow mutation order.
func (s *Store) publish(ev Event) {
	s.notifyMu.Lock()
	s.mu.Unlock()
	defer s.notifyMu.Unlock()

	s.subMu.Lock()
	subs := make([]subscription, len(s.subs))
	copy(subs, s.subs)
	s.subMu.Unlock()

	for _, sub := range subs {
		sub.fn(ev)
	}
}

// reindex rebuilds the position index. Caller holds mu.
func (s *Store) reindex() {
	s.index = make(map[int64]int, len(s.users))
	for i, u := range s.users {
		s.index[u.ID] = i
	}
}

func notFound(id int64) error {
	return pkgerrors.NewNotFoundError("user", fmt.Sprintf("user not found: id=%d", id))
}
