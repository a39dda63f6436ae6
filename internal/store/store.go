// Package store holds the in-memory task collection and notifies subscribers
// with a full snapshot after every change.
package store

import (
	stderrors "errors"
	"io"
	"log/slog"
	"sync"
	"time"

	"taskboard/internal/domain"
	"taskboard/internal/errors"
)

// ErrNoChange may be returned by an Apply mutator to leave the task untouched
// without reporting a failure. Nothing is broadcast in that case.
var ErrNoChange = stderrors.New("no change")

// Listener receives a snapshot of the collection. It runs synchronously on
// the goroutine that changed the store and must not block.
type Listener func(tasks []domain.Task)

type subscription struct {
	fn Listener
}

// Option configures a Store.
type Option func(*Store)

// WithClock sets the time source used for UpdatedAt stamps.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// WithLogger sets the logger used for debug output.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// Store is the single authoritative in-memory collection of tasks.
// Soft-deleted tasks stay in the collection.
type Store struct {
	mu     sync.RWMutex
	tasks  []domain.Task
	index  map[string]int
	subs   []*subscription
	now    func() time.Time
	logger *slog.Logger
}

// New creates an empty Store.
func New(opts ...Option) *Store {
	s := &Store{
		index:  make(map[string]int),
		now:    func() time.Time { return time.Now().UTC() },
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Now returns the store's current time.
func (s *Store) Now() time.Time {
	return s.now()
}

// Snapshot returns a deep copy of every task in insertion order.
func (s *Store) Snapshot() []domain.Task {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

func (s *Store) snapshotLocked() []domain.Task {
	return cloneAll(s.tasks)
}

// Len returns the number of tasks, deleted ones included.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.tasks)
}

// Get returns a copy of the task with the given ID.
func (s *Store) Get(id string) (domain.Task, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i, ok := s.index[id]
	if !ok {
		return domain.Task{}, false
	}
	return s.tasks[i].Clone(), true
}

// Subscribe registers fn and immediately delivers the current snapshot to it.
// The returned function removes the subscription; it is safe to call twice.
func (s *Store) Subscribe(fn Listener) func() {
	sub := &subscription{fn: fn}

	s.mu.Lock()
	s.subs = append(s.subs, sub)
	snapshot := s.snapshotLocked()
	s.mu.Unlock()

	fn(snapshot)

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		for i, existing := range s.subs {
			if existing == sub {
				s.subs = append(s.subs[:i:i], s.subs[i+1:]...)
				return
			}
		}
	}
}

// Load replaces the whole collection, typically once at session start.
func (s *Store) Load(tasks []domain.Task) error {
	index := make(map[string]int, len(tasks))
	copied := make([]domain.Task, len(tasks))
	for i, t := range tasks {
		if t.ID == "" {
			return errors.NewInvalidInputError("id", t.ID, "task id must not be empty")
		}
		if _, dup := index[t.ID]; dup {
			return errors.NewConflictError("task", t.ID)
		}
		index[t.ID] = i
		copied[i] = t.Clone()
	}

	s.mu.Lock()
	s.tasks = copied
	s.index = index
	s.mu.Unlock()

	s.logger.Debug("store loaded", slog.Int("tasks", len(copied)))
	s.broadcast()
	return nil
}

// Insert appends a new task.
func (s *Store) Insert(t domain.Task) error {
	if t.ID == "" {
		return errors.NewInvalidInputError("id", t.ID, "task id must not be empty")
	}

	s.mu.Lock()
	if _, exists := s.index[t.ID]; exists {
		s.mu.Unlock()
		return errors.NewConflictError("task", t.ID)
	}
	s.index[t.ID] = len(s.tasks)
	s.tasks = append(s.tasks, t.Clone())
	s.mu.Unlock()

	s.logger.Debug("task inserted", slog.String("task_id", t.ID))
	s.broadcast()
	return nil
}

// Apply runs mutate against a working copy of the task and stores the result
// with UpdatedAt set to now, the instant also passed to mutate. It returns the
// task as it was before and after the change. If mutate fails the store is
// left unchanged; ErrNoChange is reported as a nil error with before == after.
func (s *Store) Apply(id string, mutate func(t *domain.Task, now time.Time) error) (before, after domain.Task, err error) {
	s.mu.Lock()
	i, ok := s.index[id]
	if !ok {
		s.mu.Unlock()
		return domain.Task{}, domain.Task{}, errors.NewNotFoundError("task", id)
	}

	before = s.tasks[i].Clone()
	working := before.Clone()
	now := s.now()
	if now.Before(working.CreatedAt) {
		now = working.CreatedAt
	}
	if err := mutate(&working, now); err != nil {
		s.mu.Unlock()
		if stderrors.Is(err, ErrNoChange) {
			return before, before.Clone(), nil
		}
		return before, domain.Task{}, err
	}
	if working.ID != id {
		s.mu.Unlock()
		return before, domain.Task{}, errors.NewInvalidInputError("id", working.ID, "task id is immutable")
	}

	working.UpdatedAt = now
	s.tasks[i] = working
	after = working.Clone()
	s.mu.Unlock()

	s.logger.Debug("task updated", slog.String("task_id", id))
	s.broadcast()
	return before, after, nil
}

// Replace swaps the task stored under id for t as-is, without touching
// UpdatedAt. It is used to install an authoritative record or to restore a
// previous state. t may carry a new ID, which must not already be in use.
func (s *Store) Replace(id string, t domain.Task) error {
	if t.ID == "" {
		return errors.NewInvalidInputError("id", t.ID, "task id must not be empty")
	}

	s.mu.Lock()
	i, ok := s.index[id]
	if !ok {
		s.mu.Unlock()
		return errors.NewNotFoundError("task", id)
	}
	if t.ID != id {
		if _, taken := s.index[t.ID]; taken {
			s.mu.Unlock()
			return errors.NewConflictError("task", t.ID)
		}
		delete(s.index, id)
		s.index[t.ID] = i
	}
	s.tasks[i] = t.Clone()
	s.mu.Unlock()

	s.logger.Debug("task replaced", slog.String("task_id", id), slog.String("new_id", t.ID))
	s.broadcast()
	return nil
}

// Remove drops a task entirely. It exists to undo an optimistic insert;
// user-facing deletion is a soft delete through Apply.
func (s *Store) Remove(id string) error {
	s.mu.Lock()
	i, ok := s.index[id]
	if !ok {
		s.mu.Unlock()
		return errors.NewNotFoundError("task", id)
	}
	s.tasks = append(s.tasks[:i], s.tasks[i+1:]...)
	delete(s.index, id)
	for j := i; j < len(s.tasks); j++ {
		s.index[s.tasks[j].ID] = j
	}
	s.mu.Unlock()

	s.logger.Debug("task removed", slog.String("task_id", id))
	s.broadcast()
	return nil
}

// broadcast delivers the current state to every subscriber in subscription
// order. The lock is released first so listeners may read the store; each
// listener gets its own copy.
func (s *Store) broadcast() {
	s.mu.RLock()
	subs := make([]*subscription, len(s.subs))
	copy(subs, s.subs)
	snapshot := s.snapshotLocked()
	s.mu.RUnlock()

	s.logger.Debug("broadcasting snapshot", slog.Int("tasks", len(snapshot)), slog.Int("subscribers", len(subs)))
	for i, sub := range subs {
		if i == len(subs)-1 {
			sub.fn(snapshot)
			continue
		}
		sub.fn(cloneAll(snapshot))
	}
}

func cloneAll(tasks []domain.Task) []domain.Task {
	out := make([]domain.Task, len(tasks))
	for i, t := range tasks {
		out[i] = t.Clone()
	}
	return out
}
