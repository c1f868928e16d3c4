package tasks

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"taskly/internal/auth"
	"taskly/internal/users"
)

type fakeTaskRepo struct {
	tasks     map[uuid.UUID]*Task
	assignees map[uuid.UUID][]uuid.UUID
}

func newFakeTaskRepo() *fakeTaskRepo {
	return &fakeTaskRepo{
		tasks:     make(map[uuid.UUID]*Task),
		assignees: make(map[uuid.UUID][]uuid.UUID),
	}
}

func (f *fakeTaskRepo) Create(_ context.Context, task *Task) error {
	if task.ID == uuid.Nil {
		task.ID = uuid.New()
	}
	copied := *task
	f.tasks[task.ID] = &copied
	return nil
}

func (f *fakeTaskRepo) GetByIDAndCreator(_ context.Context, id, creatorID uuid.UUID) (*Task, error) {
	task, ok := f.tasks[id]
	if !ok || task.CreatedBy != creatorID {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *task
	return &copied, nil
}

func (f *fakeTaskRepo) Update(_ context.Context, task *Task) error {
	copied := *task
	f.tasks[task.ID] = &copied
	return nil
}

func (f *fakeTaskRepo) ListByCreator(_ context.Context, creatorID uuid.UUID) ([]Task, error) {
	var out []Task
	for _, task := range f.tasks {
		if task.CreatedBy == creatorID {
			out = append(out, *task)
		}
	}
	return out, nil
}

func (f *fakeTaskRepo) ListByCreatorAndStatus(ctx context.Context, creatorID uuid.UUID, status Status) ([]Task, error) {
	all, _ := f.ListByCreator(ctx, creatorID)
	var out []Task
	for _, task := range all {
		if task.Status == status {
			out = append(out, task)
		}
	}
	return out, nil
}

func (f *fakeTaskRepo) ListByCreatorAndPriority(ctx context.Context, creatorID uuid.UUID, priority Priority) ([]Task, error) {
	all, _ := f.ListByCreator(ctx, creatorID)
	var out []Task
	for _, task := range all {
		if task.Priority == priority {
			out = append(out, task)
		}
	}
	return out, nil
}

func (f *fakeTaskRepo) ListOverdue(ctx context.Context, creatorID uuid.UUID, before time.Time) ([]Task, error) {
	all, _ := f.ListByCreator(ctx, creatorID)
	var out []Task
	for _, task := range all {
		if task.DueDate.Before(before) && task.Status != StatusCompleted {
			out = append(out, task)
		}
	}
	return out, nil
}

func (f *fakeTaskRepo) ListByProjectAndCreator(ctx context.Context, projectID, creatorID uuid.UUID) ([]Task, error) {
	all, _ := f.ListByCreator(ctx, creatorID)
	var out []Task
	for _, task := range all {
		if task.ProjectID == projectID {
			out = append(out, task)
		}
	}
	return out, nil
}

func (f *fakeTaskRepo) AddAssignee(_ context.Context, taskID, userID uuid.UUID) error {
	for _, id := range f.assignees[taskID] {
		if id == userID {
			return nil
		}
	}
	f.assignees[taskID] = append(f.assignees[taskID], userID)
	return nil
}

func (f *fakeTaskRepo) RemoveAssignee(_ context.Context, taskID, userID uuid.UUID) error {
	ids := f.assignees[taskID]
	for i, id := range ids {
		if id == userID {
			f.assignees[taskID] = append(ids[:i], ids[i+1:]...)
			return nil
		}
	}
	return nil
}

func (f *fakeTaskRepo) ListAssigneeIDs(_ context.Context, taskID uuid.UUID) ([]uuid.UUID, error) {
	return f.assignees[taskID], nil
}

type fakeProjectDir struct {
	existing map[uuid.UUID]bool
	members  map[uuid.UUID][]uuid.UUID
}

func newFakeProjectDir(ids ...uuid.UUID) *fakeProjectDir {
	f := &fakeProjectDir{
		existing: make(map[uuid.UUID]bool),
		members:  make(map[uuid.UUID][]uuid.UUID),
	}
	for _, id := range ids {
		f.existing[id] = true
	}
	return f
}

func (f *fakeProjectDir) Exists(_ context.Context, projectID uuid.UUID) (bool, error) {
	return f.existing[projectID], nil
}

func (f *fakeProjectDir) EnsureMember(_ context.Context, projectID, userID uuid.UUID) error {
	f.members[projectID] = append(f.members[projectID], userID)
	return nil
}

type fakeUserDir struct {
	byID map[uuid.UUID]*users.User
}

func (f *fakeUserDir) GetUser(_ context.Context, id uuid.UUID) (*users.User, error) {
	user, ok := f.byID[id]
	if !ok {
		return nil, auth.ErrUserNotFound
	}
	return user, nil
}

type recordingNotifier struct {
	assigned      []uuid.UUID
	statusChanged []uuid.UUID
}

func (n *recordingNotifier) TaskAssigned(_ context.Context, task *Task, _ *users.User) {
	n.assigned = append(n.assigned, task.ID)
}

func (n *recordingNotifier) TaskStatusChanged(_ context.Context, task *Task) {
	n.statusChanged = append(n.statusChanged, task.ID)
}

type taskFixture struct {
	svc       Service
	repo      *fakeTaskRepo
	projects  *fakeProjectDir
	notifier  *recordingNotifier
	identity  auth.Identity
	projectID uuid.UUID
	teammate  *users.User
}

func newTaskFixture() *taskFixture {
	projectID := uuid.New()
	teammate := &users.User{ID: uuid.New(), Username: "bob", Email: "bob@taskly.dev", Role: users.RoleUser}

	repo := newFakeTaskRepo()
	projects := newFakeProjectDir(projectID)
	userDir := &fakeUserDir{byID: map[uuid.UUID]*users.User{teammate.ID: teammate}}
	notifier := &recordingNotifier{}

	return &taskFixture{
		svc:       NewService(repo, projects, userDir, notifier),
		repo:      repo,
		projects:  projects,
		notifier:  notifier,
		identity:  auth.Identity{UserID: uuid.New(), Username: "alice", Role: users.RoleUser},
		projectID: projectID,
		teammate:  teammate,
	}
}

func (f *taskFixture) createTask(t *testing.T, title string) *TaskResponse {
	t.Helper()
	resp, err := f.svc.Create(context.Background(), f.identity, &CreateTaskRequest{
		Title:     title,
		Priority:  string(PriorityHigh),
		DueDate:   time.Now().Add(48 * time.Hour),
		ProjectID: f.projectID.String(),
	})
	require.NoError(t, err)
	return resp
}

func TestCreateTask(t *testing.T) {
	f := newTaskFixture()

	resp := f.createTask(t, "Write release notes")
	assert.Equal(t, "Write release notes", resp.Title)
	assert.Equal(t, string(StatusPending), resp.Status, "new tasks start pending")
	assert.Equal(t, string(PriorityHigh), resp.Priority)
	assert.Equal(t, f.projectID.String(), resp.ProjectID)
	assert.Empty(t, resp.Assignees)
}

func TestCreateTaskUnknownProject(t *testing.T) {
	f := newTaskFixture()

	_, err := f.svc.Create(context.Background(), f.identity, &CreateTaskRequest{
		Title:     "Orphan",
		Priority:  string(PriorityLow),
		DueDate:   time.Now().Add(time.Hour),
		ProjectID: uuid.New().String(),
	})
	assert.ErrorIs(t, err, ErrProjectNotFound)
}

func TestGetTaskScopedToCreator(t *testing.T) {
	f := newTaskFixture()
	resp := f.createTask(t, "Private work")
	taskID := uuid.MustParse(resp.ID)

	got, err := f.svc.Get(context.Background(), f.identity, taskID)
	require.NoError(t, err)
	assert.Equal(t, resp.ID, got.ID)

	// Another caller's view: the task does not exist
	stranger := auth.Identity{UserID: uuid.New(), Username: "mallory", Role: users.RoleUser}
	_, err = f.svc.Get(context.Background(), stranger, taskID)
	assert.ErrorIs(t, err, ErrTaskNotFound)
}

func TestUpdateStatusNotifies(t *testing.T) {
	f := newTaskFixture()
	resp := f.createTask(t, "Ship it")
	taskID := uuid.MustParse(resp.ID)

	updated, err := f.svc.UpdateStatus(context.Background(), f.identity, taskID, StatusCompleted)
	require.NoError(t, err)
	assert.Equal(t, string(StatusCompleted), updated.Status)
	assert.Equal(t, []uuid.UUID{taskID}, f.notifier.statusChanged)
}

func TestAddAssignee(t *testing.T) {
	f := newTaskFixture()
	resp := f.createTask(t, "Pair on this")
	taskID := uuid.MustParse(resp.ID)

	updated, err := f.svc.AddAssignee(context.Background(), f.identity, taskID, f.teammate.ID)
	require.NoError(t, err)
	assert.Contains(t, updated.Assignees, f.teammate.ID.String())

	// Assignment pulls the assignee into the project
	assert.Contains(t, f.projects.members[f.projectID], f.teammate.ID)
	assert.Equal(t, []uuid.UUID{taskID}, f.notifier.assigned)
}

func TestAddAssigneeUnknownUser(t *testing.T) {
	f := newTaskFixture()
	resp := f.createTask(t, "Needs help")
	taskID := uuid.MustParse(resp.ID)

	_, err := f.svc.AddAssignee(context.Background(), f.identity, taskID, uuid.New())
	assert.ErrorIs(t, err, ErrAssigneeNotFound)
}

func TestRemoveAssignee(t *testing.T) {
	f := newTaskFixture()
	resp := f.createTask(t, "Shared work")
	taskID := uuid.MustParse(resp.ID)

	_, err := f.svc.AddAssignee(context.Background(), f.identity, taskID, f.teammate.ID)
	require.NoError(t, err)

	updated, err := f.svc.RemoveAssignee(context.Background(), f.identity, taskID, f.teammate.ID)
	require.NoError(t, err)
	assert.NotContains(t, updated.Assignees, f.teammate.ID.String())
}

func TestListOverdue(t *testing.T) {
	f := newTaskFixture()
	ctx := context.Background()

	overdue, err := f.svc.Create(ctx, f.identity, &CreateTaskRequest{
		Title:     "Late already",
		Priority:  string(PriorityMedium),
		DueDate:   time.Now().Add(-24 * time.Hour),
		ProjectID: f.projectID.String(),
	})
	require.NoError(t, err)

	done, err := f.svc.Create(ctx, f.identity, &CreateTaskRequest{
		Title:     "Late but finished",
		Priority:  string(PriorityMedium),
		DueDate:   time.Now().Add(-24 * time.Hour),
		ProjectID: f.projectID.String(),
	})
	require.NoError(t, err)
	_, err = f.svc.UpdateStatus(ctx, f.identity, uuid.MustParse(done.ID), StatusCompleted)
	require.NoError(t, err)

	f.createTask(t, "Still on time")

	list, err := f.svc.ListOverdue(ctx, f.identity)
	require.NoError(t, err)
	require.Len(t, list, 1, "completed and future tasks are not overdue")
	assert.Equal(t, overdue.ID, list[0].ID)
}

func TestUpdateTask(t *testing.T) {
	f := newTaskFixture()
	resp := f.createTask(t, "Draft")
	taskID := uuid.MustParse(resp.ID)

	newDue := time.Now().Add(72 * time.Hour)
	updated, err := f.svc.Update(context.Background(), f.identity, taskID, &UpdateTaskRequest{
		Title:       "Final",
		Description: "Polished version",
		Status:      string(StatusInProgress),
		Priority:    string(PriorityLow),
		DueDate:     newDue,
		Comments:    "reviewed",
	})
	require.NoError(t, err)
	assert.Equal(t, "Final", updated.Title)
	assert.Equal(t, string(StatusInProgress), updated.Status)
	assert.Equal(t, string(PriorityLow), updated.Priority)
	assert.Equal(t, "reviewed", updated.Comments)
}

func TestListByStatusAndPriority(t *testing.T) {
	f := newTaskFixture()
	ctx := context.Background()

	first := f.createTask(t, "One")
	f.createTask(t, "Two")
	_, err := f.svc.UpdateStatus(ctx, f.identity, uuid.MustParse(first.ID), StatusInProgress)
	require.NoError(t, err)

	inProgress, err := f.svc.ListByStatus(ctx, f.identity, StatusInProgress)
	require.NoError(t, err)
	require.Len(t, inProgress, 1)
	assert.Equal(t, first.ID, inProgress[0].ID)

	high, err := f.svc.ListByPriority(ctx, f.identity, PriorityHigh)
	require.NoError(t, err)
	assert.Len(t, high, 2)
}
