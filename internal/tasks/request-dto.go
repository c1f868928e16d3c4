package tasks

import "time"

// task creation payload
type CreateTaskRequest struct {
	Title       string    `json:"title" validate:"required,max=100"`
	Description string    `json:"description" validate:"max=500"`
	Priority    string    `json:"priority" validate:"required,oneof=HIGH MEDIUM LOW"`
	DueDate     time.Time `json:"due_date" validate:"required"`
	ProjectID   string    `json:"project_id" validate:"required,uuid"`
	Comments    string    `json:"comments" validate:"max=255"`
}

// full task update payload
type UpdateTaskRequest struct {
	Title       string    `json:"title" validate:"required,max=100"`
	Description string    `json:"description" validate:"max=500"`
	Status      string    `json:"status" validate:"required,oneof=PENDING IN_PROGRESS COMPLETED"`
	Priority    string    `json:"priority" validate:"required,oneof=HIGH MEDIUM LOW"`
	DueDate     time.Time `json:"due_date" validate:"required"`
	Comments    string    `json:"comments" validate:"max=255"`
}
