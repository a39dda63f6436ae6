// Package api is the surface a dashboard front end talks to: mutation
// operations in, task snapshots and derived views out.
package api

import (
	"context"
	"strings"
	"sync"
	"time"

	"taskboard/internal/domain"
	"taskboard/internal/services"
	"taskboard/internal/store"
)

// Dashboard defines every operation a dashboard front end needs.
type Dashboard interface {
	// Session
	Load(ctx context.Context) error

	// Task operations
	Create(ctx context.Context, form domain.TaskFormData) (*services.MutationResult, error)
	Update(ctx context.Context, id string, patch domain.TaskPatch) (*services.MutationResult, error)
	SoftDelete(ctx context.Context, id string) (*services.MutationResult, error)
	CycleStatus(ctx context.Context, id string) (*services.MutationResult, error)
	Restore(ctx context.Context, id string) (*services.MutationResult, error)
	ChangeColor(ctx context.Context, id string, color string) (*services.MutationResult, error)
	Get(ctx context.Context, id string) (*domain.Task, error)

	// View state
	SetSearchQuery(query string)
	SearchQuery() string
	SetSortOrder(order services.SortOrder)
	View(ref time.Time) services.DashboardView

	// Outbound streams
	Subscribe(fn store.Listener) func()
	Watch(fn func(services.DashboardView)) func()
	Snapshot() []domain.Task
}

type dashboardImpl struct {
	store *store.Store
	tasks services.TaskService
	now   func() time.Time

	mu       sync.Mutex
	query    string
	order    services.SortOrder
	watchers []*watcher
}

type watcher struct {
	fn func(services.DashboardView)
}

// Option configures a Dashboard.
type Option func(*dashboardImpl)

// WithClock sets the reference clock for pushed views. "Today" and overdue
// are judged on the calendar day of the times it returns, so it should be
// in the viewer's zone. Defaults to time.Now.
func WithClock(now func() time.Time) Option {
	return func(d *dashboardImpl) {
		if now != nil {
			d.now = now
		}
	}
}

// New creates a Dashboard over st, mutating it through tasks.
func New(st *store.Store, tasks services.TaskService, opts ...Option) Dashboard {
	d := &dashboardImpl{
		store: st,
		tasks: tasks,
		now:   time.Now,
		order: services.SortByDueDate,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

func (d *dashboardImpl) Load(ctx context.Context) error {
	return d.tasks.Load(ctx)
}

func (d *dashboardImpl) Create(ctx context.Context, form domain.TaskFormData) (*services.MutationResult, error) {
	return d.tasks.Create(ctx, form)
}

func (d *dashboardImpl) Update(ctx context.Context, id string, patch domain.TaskPatch) (*services.MutationResult, error) {
	return d.tasks.Update(ctx, id, patch)
}

func (d *dashboardImpl) SoftDelete(ctx context.Context, id string) (*services.MutationResult, error) {
	return d.tasks.SoftDelete(ctx, id)
}

func (d *dashboardImpl) CycleStatus(ctx context.Context, id string) (*services.MutationResult, error) {
	return d.tasks.CycleStatus(ctx, id)
}

func (d *dashboardImpl) Restore(ctx context.Context, id string) (*services.MutationResult, error) {
	return d.tasks.Restore(ctx, id)
}

func (d *dashboardImpl) ChangeColor(ctx context.Context, id string, color string) (*services.MutationResult, error) {
	return d.tasks.ChangeColor(ctx, id, color)
}

func (d *dashboardImpl) Get(ctx context.Context, id string) (*domain.Task, error) {
	return d.tasks.Get(ctx, id)
}

// SetSearchQuery changes the query applied to the task lists and re-renders
// every watcher. A blank query is stored as "".
func (d *dashboardImpl) SetSearchQuery(query string) {
	if strings.TrimSpace(query) == "" {
		query = ""
	}

	d.mu.Lock()
	if d.query == query {
		d.mu.Unlock()
		return
	}
	d.query = query
	d.mu.Unlock()

	d.render(d.store.Snapshot())
}

func (d *dashboardImpl) SearchQuery() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.query
}

// SetSortOrder changes the order of the active and completed lists.
func (d *dashboardImpl) SetSortOrder(order services.SortOrder) {
	d.mu.Lock()
	d.order = order
	d.mu.Unlock()

	d.render(d.store.Snapshot())
}

// View derives the dashboard for the current snapshot as seen at ref.
func (d *dashboardImpl) View(ref time.Time) services.DashboardView {
	return d.viewOf(d.store.Snapshot(), ref)
}

func (d *dashboardImpl) viewOf(tasks []domain.Task, ref time.Time) services.DashboardView {
	d.mu.Lock()
	query, order := d.query, d.order
	d.mu.Unlock()

	view := services.Summarize(tasks, query, ref)
	view.Active = services.SortTasks(view.Active, order)
	view.Completed = services.SortTasks(view.Completed, order)
	return view
}

// Subscribe forwards to the store: fn gets the current snapshot now and a
// fresh one after every change.
func (d *dashboardImpl) Subscribe(fn store.Listener) func() {
	return d.store.Subscribe(fn)
}

// Watch calls fn with a freshly derived view now, after every store change
// and whenever the search query or sort order changes. Views use the
// dashboard clock as their reference time.
func (d *dashboardImpl) Watch(fn func(services.DashboardView)) func() {
	w := &watcher{fn: fn}

	d.mu.Lock()
	d.watchers = append(d.watchers, w)
	d.mu.Unlock()

	unsubscribe := d.store.Subscribe(func(tasks []domain.Task) {
		w.fn(d.viewOf(tasks, d.now()))
	})

	return func() {
		unsubscribe()
		d.mu.Lock()
		defer d.mu.Unlock()
		for i, other := range d.watchers {
			if other == w {
				d.watchers = append(d.watchers[:i], d.watchers[i+1:]...)
				return
			}
		}
	}
}

func (d *dashboardImpl) Snapshot() []domain.Task {
	return d.store.Snapshot()
}

// render pushes a new view to every watcher outside the lock.
func (d *dashboardImpl) render(tasks []domain.Task) {
	d.mu.Lock()
	watchers := make([]*watcher, len(d.watchers))
	copy(watchers, d.watchers)
	d.mu.Unlock()

	if len(watchers) == 0 {
		return
	}
	ref := d.now()
	for _, w := range watchers {
		w.fn(d.viewOf(tasks, ref))
	}
}
