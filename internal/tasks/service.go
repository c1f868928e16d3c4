package tasks

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"taskly/internal/auth"
	"taskly/internal/users"
)

var (
	ErrTaskNotFound     = errors.New("task not found")
	ErrProjectNotFound  = errors.New("project not found")
	ErrAssigneeNotFound = errors.New("assignee not found")
)

// ProjectDirectory is the slice of the projects module the task service
// needs: existence checks for task placement and member bookkeeping when
// someone is assigned to a task.
type ProjectDirectory interface {
	Exists(ctx context.Context, projectID uuid.UUID) (bool, error)
	EnsureMember(ctx context.Context, projectID, userID uuid.UUID) error
}

// UserDirectory resolves assignees.
type UserDirectory interface {
	GetUser(ctx context.Context, id uuid.UUID) (*users.User, error)
}

// Notifier publishes task lifecycle events. Implementations must be safe
// for concurrent use; a nil Notifier disables publishing.
type Notifier interface {
	TaskAssigned(ctx context.Context, task *Task, assignee *users.User)
	TaskStatusChanged(ctx context.Context, task *Task)
}

type Service interface {
	Create(ctx context.Context, identity auth.Identity, req *CreateTaskRequest) (*TaskResponse, error)
	List(ctx context.Context, identity auth.Identity) ([]TaskResponse, error)
	Get(ctx context.Context, identity auth.Identity, id uuid.UUID) (*TaskResponse, error)
	Update(ctx context.Context, identity auth.Identity, id uuid.UUID, req *UpdateTaskRequest) (*TaskResponse, error)
	UpdateStatus(ctx context.Context, identity auth.Identity, id uuid.UUID, status Status) (*TaskResponse, error)
	ListByStatus(ctx context.Context, identity auth.Identity, status Status) ([]TaskResponse, error)
	ListByPriority(ctx context.Context, identity auth.Identity, priority Priority) ([]TaskResponse, error)
	ListOverdue(ctx context.Context, identity auth.Identity) ([]TaskResponse, error)
	ListByProject(ctx context.Context, identity auth.Identity, projectID uuid.UUID) ([]TaskResponse, error)
	AddAssignee(ctx context.Context, identity auth.Identity, taskID, userID uuid.UUID) (*TaskResponse, error)
	RemoveAssignee(ctx context.Context, identity auth.Identity, taskID, userID uuid.UUID) (*TaskResponse, error)
}

type service struct {
	repo     Repository
	projects ProjectDirectory
	userDir  UserDirectory
	notifier Notifier
}

func NewService(repo Repository, projects ProjectDirectory, userDir UserDirectory, notifier Notifier) Service {
	return &service{
		repo:     repo,
		projects: projects,
		userDir:  userDir,
		notifier: notifier,
	}
}

func (s *service) Create(ctx context.Context, identity auth.Identity, req *CreateTaskRequest) (*TaskResponse, error) {
	projectID, err := uuid.Parse(req.ProjectID)
	if err != nil {
		return nil, ErrProjectNotFound
	}

	exists, err := s.projects.Exists(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrProjectNotFound
	}

	priority, ok := ParsePriority(req.Priority)
	if !ok {
		priority = PriorityMedium
	}

	task := &Task{
		Title:       req.Title,
		Description: req.Description,
		Status:      StatusPending,
		Priority:    priority,
		DueDate:     req.DueDate,
		Comments:    req.Comments,
		ProjectID:   projectID,
		CreatedBy:   identity.UserID,
	}

	if err := s.repo.Create(ctx, task); err != nil {
		return nil, err
	}

	resp := task.ToResponse(nil)
	return &resp, nil
}

func (s *service) List(ctx context.Context, identity auth.Identity) ([]TaskResponse, error) {
	tasks, err := s.repo.ListByCreator(ctx, identity.UserID)
	if err != nil {
		return nil, err
	}
	return s.toResponses(ctx, tasks)
}

func (s *service) Get(ctx context.Context, identity auth.Identity, id uuid.UUID) (*TaskResponse, error) {
	task, err := s.ownedTask(ctx, identity, id)
	if err != nil {
		return nil, err
	}
	return s.toResponse(ctx, task)
}

func (s *service) Update(ctx context.Context, identity auth.Identity, id uuid.UUID, req *UpdateTaskRequest) (*TaskResponse, error) {
	task, err := s.ownedTask(ctx, identity, id)
	if err != nil {
		return nil, err
	}

	status, ok := ParseStatus(req.Status)
	if !ok {
		status = task.Status
	}
	priority, ok := ParsePriority(req.Priority)
	if !ok {
		priority = task.Priority
	}

	task.Title = req.Title
	task.Description = req.Description
	task.Status = status
	task.Priority = priority
	task.DueDate = req.DueDate
	task.Comments = req.Comments

	if err := s.repo.Update(ctx, task); err != nil {
		return nil, err
	}
	return s.toResponse(ctx, task)
}

func (s *service) UpdateStatus(ctx context.Context, identity auth.Identity, id uuid.UUID, status Status) (*TaskResponse, error) {
	task, err := s.ownedTask(ctx, identity, id)
	if err != nil {
		return nil, err
	}

	task.Status = status
	if err := s.repo.Update(ctx, task); err != nil {
		return nil, err
	}

	if s.notifier != nil {
		s.notifier.TaskStatusChanged(ctx, task)
	}
	return s.toResponse(ctx, task)
}

func (s *service) ListByStatus(ctx context.Context, identity auth.Identity, status Status) ([]TaskResponse, error) {
	tasks, err := s.repo.ListByCreatorAndStatus(ctx, identity.UserID, status)
	if err != nil {
		return nil, err
	}
	return s.toResponses(ctx, tasks)
}

func (s *service) ListByPriority(ctx context.Context, identity auth.Identity, priority Priority) ([]TaskResponse, error) {
	tasks, err := s.repo.ListByCreatorAndPriority(ctx, identity.UserID, priority)
	if err != nil {
		return nil, err
	}
	return s.toResponses(ctx, tasks)
}

func (s *service) ListOverdue(ctx context.Context, identity auth.Identity) ([]TaskResponse, error) {
	tasks, err := s.repo.ListOverdue(ctx, identity.UserID, time.Now())
	if err != nil {
		return nil, err
	}
	return s.toResponses(ctx, tasks)
}

func (s *service) ListByProject(ctx context.Context, identity auth.Identity, projectID uuid.UUID) ([]TaskResponse, error) {
	tasks, err := s.repo.ListByProjectAndCreator(ctx, projectID, identity.UserID)
	if err != nil {
		return nil, err
	}
	return s.toResponses(ctx, tasks)
}

func (s *service) AddAssignee(ctx context.Context, identity auth.Identity, taskID, userID uuid.UUID) (*TaskResponse, error) {
	task, err := s.ownedTask(ctx, identity, taskID)
	if err != nil {
		return nil, err
	}

	assignee, err := s.userDir.GetUser(ctx, userID)
	if err != nil {
		return nil, ErrAssigneeNotFound
	}

	if err := s.repo.AddAssignee(ctx, task.ID, assignee.ID); err != nil {
		return nil, err
	}

	// Assignees automatically join the task's project
	if err := s.projects.EnsureMember(ctx, task.ProjectID, assignee.ID); err != nil {
		return nil, err
	}

	if s.notifier != nil {
		s.notifier.TaskAssigned(ctx, task, assignee)
	}
	return s.toResponse(ctx, task)
}

func (s *service) RemoveAssignee(ctx context.Context, identity auth.Identity, taskID, userID uuid.UUID) (*TaskResponse, error) {
	task, err := s.ownedTask(ctx, identity, taskID)
	if err != nil {
		return nil, err
	}

	assignee, err := s.userDir.GetUser(ctx, userID)
	if err != nil {
		return nil, ErrAssigneeNotFound
	}

	if err := s.repo.RemoveAssignee(ctx, task.ID, assignee.ID); err != nil {
		return nil, err
	}
	return s.toResponse(ctx, task)
}

// ownedTask fetches a task scoped to its creator; other users' tasks are
// indistinguishable from missing ones.
func (s *service) ownedTask(ctx context.Context, identity auth.Identity, id uuid.UUID) (*Task, error) {
	task, err := s.repo.GetByIDAndCreator(ctx, id, identity.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, err
	}
	return task, nil
}

func (s *service) toResponse(ctx context.Context, task *Task) (*TaskResponse, error) {
	assigneeIDs, err := s.repo.ListAssigneeIDs(ctx, task.ID)
	if err != nil {
		return nil, err
	}
	resp := task.ToResponse(assigneeIDs)
	return &resp, nil
}

func (s *service) toResponses(ctx context.Context, tasks []Task) ([]TaskResponse, error) {
	responses := make([]TaskResponse, 0, len(tasks))
	for i := range tasks {
		resp, err := s.toResponse(ctx, &tasks[i])
		if err != nil {
			return nil, err
		}
		responses = append(responses, *resp)
	}
	return responses, nil
}
