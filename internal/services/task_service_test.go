package services

import (
	"context"
	stderrors "errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskboard/internal/domain"
	"taskboard/internal/errors"
	"taskboard/internal/store"
	"taskboard/internal/validation"
)

var testNow = time.Date(2024, 6, 20, 9, 0, 0, 0, time.UTC)

type testClock struct {
	now time.Time
}

func (c *testClock) Now() time.Time { return c.now }

func (c *testClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

// fakeRemote records calls and fails the operations listed in failOn.
type fakeRemote struct {
	failOn  map[string]bool
	calls   []string
	tasks   []domain.Task
	nextID  int
	lastReq UpdateTaskRequest
	// savedID, when set, is the ID the remote gives every record it saves.
	savedID string
}

func newFakeRemote(failOn ...string) *fakeRemote {
	r := &fakeRemote{failOn: map[string]bool{}}
	for _, op := range failOn {
		r.failOn[op] = true
	}
	return r
}

func (r *fakeRemote) CreateTask(ctx context.Context, req CreateTaskRequest) (*domain.Task, error) {
	r.calls = append(r.calls, "create")
	if r.failOn["create"] {
		return nil, stderrors.New("remote unavailable")
	}
	r.nextID++
	id := fmt.Sprintf("srv-%d", r.nextID)
	if r.savedID != "" {
		id = r.savedID
	}
	return &domain.Task{
		ID:          id,
		Title:       req.Title,
		Description: req.Description,
		DueDate:     req.DueDate,
		Priority:    req.Priority,
		Status:      domain.StatusNotStarted,
		CreatedAt:   testNow,
		UpdatedAt:   testNow,
	}, nil
}

func (r *fakeRemote) UpdateTask(ctx context.Context, req UpdateTaskRequest) (*domain.Task, error) {
	r.calls = append(r.calls, "update")
	r.lastReq = req
	if r.failOn["update"] {
		return nil, stderrors.New("remote unavailable")
	}
	saved := req.Task.Clone()
	if r.savedID != "" {
		saved.ID = r.savedID
	}
	return &saved, nil
}

func (r *fakeRemote) DeleteTask(ctx context.Context, id string) error {
	r.calls = append(r.calls, "delete")
	if r.failOn["delete"] {
		return stderrors.New("remote unavailable")
	}
	return nil
}

func (r *fakeRemote) ListTasks(ctx context.Context) ([]domain.Task, error) {
	r.calls = append(r.calls, "list")
	if r.failOn["list"] {
		return nil, stderrors.New("remote unavailable")
	}
	return r.tasks, nil
}

func setupTaskService(t *testing.T, opts ...TaskServiceOption) (TaskService, *store.Store, *testClock) {
	t.Helper()
	clock := &testClock{now: testNow}
	st := store.New(store.WithClock(clock.Now))
	ids := 0
	opts = append([]TaskServiceOption{WithIDGenerator(func() string {
		ids++
		return fmt.Sprintf("task-%d", ids)
	})}, opts...)
	return NewTaskService(st, opts...), st, clock
}

func validForm() domain.TaskFormData {
	return domain.TaskFormData{
		Title:       "Walk the dog",
		DueDate:     "2024-06-21",
		Priority:    domain.PriorityLow,
		Description: "Take the dog to the park and bring treats",
		Tags:        []string{"home"},
	}
}

func createTask(t *testing.T, svc TaskService) domain.Task {
	t.Helper()
	res, err := svc.Create(context.Background(), validForm())
	require.NoError(t, err)
	return res.Task
}

func TestTaskService_Create(t *testing.T) {
	svc, st, _ := setupTaskService(t)

	res, err := svc.Create(context.Background(), validForm())
	require.NoError(t, err)

	assert.Equal(t, SyncLocal, res.Sync)
	assert.Equal(t, "task-1", res.Task.ID)
	assert.Equal(t, domain.StatusNotStarted, res.Task.Status)
	assert.Nil(t, res.Task.CompletedAt)
	assert.Equal(t, res.Task.CreatedAt, res.Task.UpdatedAt)
	assert.Equal(t, testNow, res.Task.CreatedAt)
	assert.Equal(t, time.Date(2024, 6, 21, 0, 0, 0, 0, time.UTC), res.Task.DueDate)
	assert.Equal(t, 1, st.Len())
}

func TestTaskService_Create_DefaultsForEveryPriority(t *testing.T) {
	svc, _, _ := setupTaskService(t)

	for _, p := range domain.Priorities {
		t.Run(string(p), func(t *testing.T) {
			form := validForm()
			form.Priority = p
			res, err := svc.Create(context.Background(), form)
			require.NoError(t, err)
			assert.Equal(t, domain.StatusNotStarted, res.Task.Status)
			assert.Nil(t, res.Task.CompletedAt)
			assert.Equal(t, res.Task.CreatedAt, res.Task.UpdatedAt)
		})
	}
}

func TestTaskService_Create_Validation(t *testing.T) {
	svc, st, _ := setupTaskService(t)

	form := validForm()
	form.Title = "ab"
	form.Description = "short"

	res, err := svc.Create(context.Background(), form)
	require.Error(t, err)
	assert.Nil(t, res)
	assert.True(t, errors.IsErrorType(err, errors.ErrorTypeValidation))

	ve, ok := validation.AsValidationError(err)
	require.True(t, ok)
	assert.Equal(t, []string{validation.FieldTitle, validation.FieldDescription}, ve.Fields())
	for _, fe := range ve.Errors {
		assert.Equal(t, validation.ErrorTypeInvalidLength, fe.Type)
	}
	assert.Equal(t, 0, st.Len())
}

func TestTaskService_Update(t *testing.T) {
	svc, _, clock := setupTaskService(t)
	task := createTask(t, svc)
	clock.Advance(time.Hour)

	title := "Walk the dog twice"
	status := domain.StatusCompleted
	res, err := svc.Update(context.Background(), task.ID, domain.TaskPatch{Title: &title, Status: &status})
	require.NoError(t, err)

	assert.Equal(t, title, res.Task.Title)
	assert.Equal(t, task.Description, res.Task.Description)
	assert.Equal(t, clock.Now(), res.Task.UpdatedAt)
	require.NotNil(t, res.Task.CompletedAt)
	assert.Equal(t, clock.Now(), *res.Task.CompletedAt)

	clock.Advance(time.Hour)
	back := domain.StatusInProgress
	res, err = svc.Update(context.Background(), task.ID, domain.TaskPatch{Status: &back})
	require.NoError(t, err)
	assert.Nil(t, res.Task.CompletedAt)
}

func TestTaskService_Update_MissingID(t *testing.T) {
	svc, st, _ := setupTaskService(t)
	createTask(t, svc)
	before := st.Snapshot()

	title := "Some new title"
	res, err := svc.Update(context.Background(), "missing-id", domain.TaskPatch{Title: &title})
	require.Error(t, err)
	assert.Nil(t, res)
	assert.True(t, errors.IsErrorType(err, errors.ErrorTypeNotFound))
	assert.Equal(t, before, st.Snapshot())
}

func TestTaskService_Update_InvalidPatch(t *testing.T) {
	svc, st, _ := setupTaskService(t)
	task := createTask(t, svc)
	before := st.Snapshot()

	short := "ab"
	_, err := svc.Update(context.Background(), task.ID, domain.TaskPatch{Title: &short})
	assert.True(t, errors.IsErrorType(err, errors.ErrorTypeValidation))
	assert.Equal(t, before, st.Snapshot())
}

func TestTaskService_CycleStatus(t *testing.T) {
	svc, _, clock := setupTaskService(t)
	task := createTask(t, svc)

	steps := []struct {
		want          domain.Status
		wantCompleted bool
	}{
		{domain.StatusInProgress, false},
		{domain.StatusCompleted, true},
		{domain.StatusNotStarted, false},
	}

	for _, step := range steps {
		clock.Advance(time.Minute)
		res, err := svc.CycleStatus(context.Background(), task.ID)
		require.NoError(t, err)
		assert.Equal(t, step.want, res.Task.Status)
		if step.wantCompleted {
			require.NotNil(t, res.Task.CompletedAt)
			assert.Equal(t, clock.Now(), *res.Task.CompletedAt)
		} else {
			assert.Nil(t, res.Task.CompletedAt)
		}
		assert.Equal(t, clock.Now(), res.Task.UpdatedAt)
	}

	_, err := svc.CycleStatus(context.Background(), "missing")
	assert.True(t, errors.IsErrorType(err, errors.ErrorTypeNotFound))
}

func TestTaskService_CycleStatus_ThreeTimesFromEveryStatus(t *testing.T) {
	for _, start := range domain.Statuses {
		t.Run(string(start), func(t *testing.T) {
			svc, _, _ := setupTaskService(t)
			task := createTask(t, svc)
			if start != domain.StatusNotStarted {
				s := start
				_, err := svc.Update(context.Background(), task.ID, domain.TaskPatch{Status: &s})
				require.NoError(t, err)
			}

			var last *MutationResult
			for i := 0; i < 3; i++ {
				res, err := svc.CycleStatus(context.Background(), task.ID)
				require.NoError(t, err)
				assert.Equal(t, res.Task.Status == domain.StatusCompleted, res.Task.CompletedAt != nil)
				last = res
			}
			assert.Equal(t, start, last.Task.Status)
		})
	}
}

func TestTaskService_SoftDelete_Idempotent(t *testing.T) {
	svc, st, clock := setupTaskService(t)
	task := createTask(t, svc)
	clock.Advance(time.Hour)

	_, err := svc.SoftDelete(context.Background(), task.ID)
	require.NoError(t, err)
	once := st.Snapshot()

	broadcasts := 0
	st.Subscribe(func([]domain.Task) { broadcasts++ })
	broadcasts = 0

	clock.Advance(time.Hour)
	res, err := svc.SoftDelete(context.Background(), task.ID)
	require.NoError(t, err)
	assert.True(t, res.Task.IsDeleted)
	assert.Equal(t, once, st.Snapshot())
	assert.Equal(t, 0, broadcasts)

	require.Len(t, once, 1)
	assert.True(t, once[0].IsDeleted)
	assert.Equal(t, testNow.Add(time.Hour), once[0].UpdatedAt)

	_, err = svc.SoftDelete(context.Background(), "missing")
	assert.True(t, errors.IsErrorType(err, errors.ErrorTypeNotFound))
}

func TestTaskService_Restore(t *testing.T) {
	svc, _, _ := setupTaskService(t)
	task := createTask(t, svc)

	_, err := svc.Restore(context.Background(), task.ID)
	assert.True(t, errors.IsErrorType(err, errors.ErrorTypeValidation), "not completed yet")

	completed := domain.StatusCompleted
	_, err = svc.Update(context.Background(), task.ID, domain.TaskPatch{Status: &completed})
	require.NoError(t, err)

	res, err := svc.Restore(context.Background(), task.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusInProgress, res.Task.Status)
	assert.Nil(t, res.Task.CompletedAt)
}

func TestTaskService_ChangeColor(t *testing.T) {
	svc, _, _ := setupTaskService(t)
	task := createTask(t, svc)

	res, err := svc.ChangeColor(context.Background(), task.ID, "#e3f2fd")
	require.NoError(t, err)
	assert.Equal(t, "#E3F2FD", res.Task.BackgroundColor)

	_, err = svc.ChangeColor(context.Background(), task.ID, "blue")
	assert.True(t, errors.IsErrorType(err, errors.ErrorTypeValidation))
}

func TestTaskService_Get(t *testing.T) {
	svc, _, _ := setupTaskService(t)
	task := createTask(t, svc)

	got, err := svc.Get(context.Background(), task.ID)
	require.NoError(t, err)
	assert.Equal(t, task, *got)

	_, err = svc.Get(context.Background(), "missing")
	assert.True(t, errors.IsErrorType(err, errors.ErrorTypeNotFound))
}

func TestTaskService_RemoteConfirms(t *testing.T) {
	remote := newFakeRemote()
	svc, st, _ := setupTaskService(t, WithRemote(remote))

	res, err := svc.Create(context.Background(), validForm())
	require.NoError(t, err)
	assert.Equal(t, SyncConfirmed, res.Sync)
	assert.Equal(t, "srv-1", res.Task.ID, "authoritative record replaces the local one")

	_, ok := st.Get("task-1")
	assert.False(t, ok)

	res, err = svc.CycleStatus(context.Background(), "srv-1")
	require.NoError(t, err)
	assert.Equal(t, SyncConfirmed, res.Sync)
	require.NotNil(t, remote.lastReq.Patch.Status)
	assert.Equal(t, domain.StatusInProgress, *remote.lastReq.Patch.Status)
	assert.Equal(t, domain.StatusInProgress, remote.lastReq.Task.Status)

	res, err = svc.SoftDelete(context.Background(), "srv-1")
	require.NoError(t, err)
	assert.Equal(t, SyncConfirmed, res.Sync)

	_, err = svc.SoftDelete(context.Background(), "srv-1")
	require.NoError(t, err)
	assert.Equal(t, []string{"create", "update", "delete"}, remote.calls, "repeat delete does not reach the remote")
}

func TestTaskService_RollbackCreate(t *testing.T) {
	remote := newFakeRemote("create")
	svc, st, _ := setupTaskService(t, WithRemote(remote))

	var seen []int
	st.Subscribe(func(tasks []domain.Task) { seen = append(seen, len(tasks)) })

	res, err := svc.Create(context.Background(), validForm())
	require.NoError(t, err)
	assert.True(t, res.RolledBack())
	assert.True(t, errors.IsErrorType(res.SyncErr, errors.ErrorTypeSync))
	assert.Equal(t, 0, st.Len())
	assert.Equal(t, []int{0, 1, 0}, seen, "optimistic insert is shown, then removed")
}

func TestTaskService_RollbackUpdate(t *testing.T) {
	remote := newFakeRemote()
	svc, st, clock := setupTaskService(t, WithRemote(remote))
	created := createTask(t, svc)
	before := st.Snapshot()

	remote.failOn["update"] = true
	clock.Advance(time.Hour)

	title := "A different title"
	res, err := svc.Update(context.Background(), created.ID, domain.TaskPatch{Title: &title})
	require.NoError(t, err)
	assert.Equal(t, SyncRolledBack, res.Sync)
	require.Error(t, res.SyncErr)
	assert.Contains(t, errors.GetUserMessage(res.SyncErr), "rolled back")
	assert.Equal(t, before, st.Snapshot())

	res, err = svc.CycleStatus(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, SyncRolledBack, res.Sync)
	assert.Equal(t, before, st.Snapshot())
}

func TestTaskService_RollbackDelete(t *testing.T) {
	remote := newFakeRemote("delete")
	svc, st, _ := setupTaskService(t, WithRemote(remote))
	created := createTask(t, svc)
	before := st.Snapshot()

	res, err := svc.SoftDelete(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, SyncRolledBack, res.Sync)
	assert.False(t, res.Task.IsDeleted)
	assert.Equal(t, before, st.Snapshot())
}

func TestTaskService_Load(t *testing.T) {
	remote := newFakeRemote()
	remote.tasks = []domain.Task{
		{ID: "a", Title: "Alpha", Status: domain.StatusNotStarted, Priority: domain.PriorityLow},
		{ID: "b", Title: "Beta", Status: domain.StatusCompleted, Priority: domain.PriorityHigh, IsDeleted: true},
	}
	svc, st, _ := setupTaskService(t, WithRemote(remote))

	require.NoError(t, svc.Load(context.Background()))
	assert.Equal(t, 2, st.Len())

	remote.failOn["list"] = true
	err := svc.Load(context.Background())
	assert.True(t, errors.IsErrorType(err, errors.ErrorTypeSync))
}

func TestTaskService_LoadWithoutRemote(t *testing.T) {
	svc, st, _ := setupTaskService(t)
	require.NoError(t, svc.Load(context.Background()))
	assert.Equal(t, 0, st.Len())
}

func TestTaskService_RemoteSavedButNotInstalled(t *testing.T) {
	remote := newFakeRemote()
	svc, st, _ := setupTaskService(t, WithRemote(remote))
	first := createTask(t, svc)
	require.Equal(t, "srv-1", first.ID)

	// the remote hands back an ID the store already holds
	remote.savedID = first.ID

	res, err := svc.Create(context.Background(), validForm())
	require.NoError(t, err)
	assert.Equal(t, SyncUnreconciled, res.Sync)
	assert.False(t, res.RolledBack(), "the remote kept the change")
	assert.Equal(t, "task-2", res.Task.ID)
	assert.Equal(t, 2, st.Len(), "tentative task stays visible")
	assert.Equal(t, "SYNC_UNRECONCILED", errors.GetErrorCode(res.SyncErr))

	second := res.Task
	title := "Renamed on the server"
	res, err = svc.Update(context.Background(), second.ID, domain.TaskPatch{Title: &title})
	require.NoError(t, err)
	assert.Equal(t, SyncUnreconciled, res.Sync)
	stored, ok := st.Get(second.ID)
	require.True(t, ok)
	assert.Equal(t, title, stored.Title, "local change is not undone")
	assert.Equal(t, "unreconciled", res.Sync.String())
}
