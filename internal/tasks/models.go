package tasks

import (
	"time"

	"github.com/google/uuid"
)

// Task is the persisted task entity
type Task struct {
	ID          uuid.UUID `json:"id" gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	Title       string    `json:"title" gorm:"uniqueIndex;not null;size:100"`
	Description string    `json:"description" gorm:"size:500"`
	Status      Status    `json:"status" gorm:"not null;default:'PENDING'"`
	Priority    Priority  `json:"priority" gorm:"not null"`
	DueDate     time.Time `json:"due_date" gorm:"not null"`
	Comments    string    `json:"comments" gorm:"size:255"`
	ProjectID   uuid.UUID `json:"project_id" gorm:"type:uuid;not null;index"`
	CreatedBy   uuid.UUID `json:"created_by" gorm:"type:uuid;not null;index"`
	CreatedAt   time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt   time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// TaskAssignee represents the many-to-many relationship between tasks and users
type TaskAssignee struct {
	ID     uuid.UUID `json:"id" gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	TaskID uuid.UUID `json:"task_id" gorm:"type:uuid;not null;index;uniqueIndex:idx_task_assignee_unique"`
	UserID uuid.UUID `json:"user_id" gorm:"type:uuid;not null;index;uniqueIndex:idx_task_assignee_unique"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
}

func (t *Task) ToResponse(assigneeIDs []uuid.UUID) TaskResponse {
	assignees := make([]string, 0, len(assigneeIDs))
	for _, id := range assigneeIDs {
		assignees = append(assignees, id.String())
	}
	return TaskResponse{
		ID:          t.ID.String(),
		Title:       t.Title,
		Description: t.Description,
		Status:      string(t.Status),
		Priority:    string(t.Priority),
		DueDate:     t.DueDate,
		Comments:    t.Comments,
		ProjectID:   t.ProjectID.String(),
		Assignees:   assignees,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

// TableName specifies the table name for GORM
func (Task) TableName() string {
	return "tasks"
}

func (TaskAssignee) TableName() string {
	return "task_assignees"
}
