package notifications

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type NotificationType string

const (
	NotificationTypeTaskAssigned      NotificationType = "TASK_ASSIGNED"
	NotificationTypeTaskStatusChanged NotificationType = "TASK_STATUS_CHANGED"
	NotificationTypeMemberAdded       NotificationType = "PROJECT_MEMBER_ADDED"
)

type NotificationStatus string

const (
	NotificationStatusPending NotificationStatus = "PENDING"
	NotificationStatusQueued  NotificationStatus = "QUEUED"
	NotificationStatusSent    NotificationStatus = "SENT"
	NotificationStatusFailed  NotificationStatus = "FAILED"
)

// EmailNotification is the message published to Kafka and consumed by
// the email workers.
type EmailNotification struct {
	ID   uuid.UUID        `json:"id"`
	Type NotificationType `json:"type"`

	RecipientID    uuid.UUID `json:"recipient_id"`
	RecipientEmail string    `json:"recipient_email"`
	RecipientName  string    `json:"recipient_name"`

	Subject      string                 `json:"subject"`
	TemplateData map[string]interface{} `json:"template_data"`

	TaskID    *uuid.UUID `json:"task_id,omitempty"`
	ProjectID *uuid.UUID `json:"project_id,omitempty"`

	Status    NotificationStatus `json:"status"`
	CreatedAt time.Time          `json:"created_at"`
	UpdatedAt time.Time          `json:"updated_at"`
}

func NewEmailNotification(notificationType NotificationType, recipientID uuid.UUID, email, name, subject string) *EmailNotification {
	now := time.Now()
	return &EmailNotification{
		ID:             uuid.New(),
		Type:           notificationType,
		RecipientID:    recipientID,
		RecipientEmail: email,
		RecipientName:  name,
		Subject:        subject,
		TemplateData:   make(map[string]interface{}),
		Status:         NotificationStatusPending,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

func (n *EmailNotification) ToJSON() ([]byte, error) {
	return json.Marshal(n)
}

func NotificationFromJSON(data []byte) (*EmailNotification, error) {
	var n EmailNotification
	if err := json.Unmarshal(data, &n); err != nil {
		return nil, err
	}
	return &n, nil
}

// GetPartitionKey routes all of one recipient's notifications to the
// same partition so they are delivered in order.
func (n *EmailNotification) GetPartitionKey() string {
	return n.RecipientID.String()
}
