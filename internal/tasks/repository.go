package tasks

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// urgencyOrder sorts the most pressing work first: high priority before
// low, earlier due dates before later ones.
const urgencyOrder = "CASE priority WHEN 'HIGH' THEN 0 WHEN 'MEDIUM' THEN 1 ELSE 2 END, due_date ASC"

type Repository interface {
	Create(ctx context.Context, task *Task) error
	GetByIDAndCreator(ctx context.Context, id, creatorID uuid.UUID) (*Task, error)
	Update(ctx context.Context, task *Task) error
	ListByCreator(ctx context.Context, creatorID uuid.UUID) ([]Task, error)
	ListByCreatorAndStatus(ctx context.Context, creatorID uuid.UUID, status Status) ([]Task, error)
	ListByCreatorAndPriority(ctx context.Context, creatorID uuid.UUID, priority Priority) ([]Task, error)
	ListOverdue(ctx context.Context, creatorID uuid.UUID, before time.Time) ([]Task, error)
	ListByProjectAndCreator(ctx context.Context, projectID, creatorID uuid.UUID) ([]Task, error)

	AddAssignee(ctx context.Context, taskID, userID uuid.UUID) error
	RemoveAssignee(ctx context.Context, taskID, userID uuid.UUID) error
	ListAssigneeIDs(ctx context.Context, taskID uuid.UUID) ([]uuid.UUID, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, task *Task) error {
	return r.db.WithContext(ctx).Create(task).Error
}

func (r *repository) GetByIDAndCreator(ctx context.Context, id, creatorID uuid.UUID) (*Task, error) {
	var task Task
	err := r.db.WithContext(ctx).
		Where("id = ? AND created_by = ?", id, creatorID).
		First(&task).Error
	if err != nil {
		return nil, err
	}
	return &task, nil
}

func (r *repository) Update(ctx context.Context, task *Task) error {
	return r.db.WithContext(ctx).Save(task).Error
}

func (r *repository) ListByCreator(ctx context.Context, creatorID uuid.UUID) ([]Task, error) {
	var tasks []Task
	err := r.db.WithContext(ctx).
		Where("created_by = ?", creatorID).
		Order(urgencyOrder).
		Find(&tasks).Error
	return tasks, err
}

func (r *repository) ListByCreatorAndStatus(ctx context.Context, creatorID uuid.UUID, status Status) ([]Task, error) {
	var tasks []Task
	err := r.db.WithContext(ctx).
		Where("created_by = ? AND status = ?", creatorID, status).
		Order(urgencyOrder).
		Find(&tasks).Error
	return tasks, err
}

func (r *repository) ListByCreatorAndPriority(ctx context.Context, creatorID uuid.UUID, priority Priority) ([]Task, error) {
	var tasks []Task
	err := r.db.WithContext(ctx).
		Where("created_by = ? AND priority = ?", creatorID, priority).
		Order("due_date ASC").
		Find(&tasks).Error
	return tasks, err
}

func (r *repository) ListOverdue(ctx context.Context, creatorID uuid.UUID, before time.Time) ([]Task, error) {
	var tasks []Task
	err := r.db.WithContext(ctx).
		Where("created_by = ? AND due_date < ? AND status <> ?", creatorID, before, StatusCompleted).
		Order("due_date ASC").
		Find(&tasks).Error
	return tasks, err
}

func (r *repository) ListByProjectAndCreator(ctx context.Context, projectID, creatorID uuid.UUID) ([]Task, error) {
	var tasks []Task
	err := r.db.WithContext(ctx).
		Where("project_id = ? AND created_by = ?", projectID, creatorID).
		Order(urgencyOrder).
		Find(&tasks).Error
	return tasks, err
}

func (r *repository) AddAssignee(ctx context.Context, taskID, userID uuid.UUID) error {
	assignee := &TaskAssignee{
		TaskID: taskID,
		UserID: userID,
	}
	// The composite unique index makes repeat assignment a no-op
	err := r.db.WithContext(ctx).Create(assignee).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return nil
	}
	return err
}

func (r *repository) RemoveAssignee(ctx context.Context, taskID, userID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("task_id = ? AND user_id = ?", taskID, userID).
		Delete(&TaskAssignee{}).Error
}

func (r *repository) ListAssigneeIDs(ctx context.Context, taskID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.db.WithContext(ctx).Model(&TaskAssignee{}).
		Where("task_id = ?", taskID).
		Pluck("user_id", &ids).Error
	return ids, err
}
