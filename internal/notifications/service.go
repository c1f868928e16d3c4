package notifications

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"taskly/internal/projects"
	"taskly/internal/shared/config"
	"taskly/internal/tasks"
	"taskly/internal/users"
)

// UserResolver looks up notification recipients that event payloads only
// carry by ID.
type UserResolver interface {
	GetUser(ctx context.Context, id uuid.UUID) (*users.User, error)
}

// Service is the application-facing notification facade. It implements
// the Notifier interfaces of the tasks and projects modules: events are
// turned into email notifications and published to Kafka, where consumer
// workers pick them up and deliver them over SMTP.
//
// Publishing is fire-and-forget: a broker outage must never fail the
// request that triggered the event.
type Service struct {
	producer NotificationProducer
	consumer NotificationConsumer
	userDir  UserResolver
	workers  int
}

// NewService wires the notification pipeline from configuration. When
// Kafka is disabled the service degrades to logging the events it would
// have published, so the rest of the application does not care.
func NewService(cfg *config.Config, userDir UserResolver) (*Service, error) {
	if !cfg.Kafka.Enabled {
		log.Printf("Kafka disabled; notifications will be logged only")
		return &Service{producer: logProducer{}, userDir: userDir}, nil
	}

	producerConfig := DefaultKafkaProducerConfig()
	producerConfig.Brokers = cfg.Kafka.Brokers
	producerConfig.NotificationTopic = cfg.Kafka.NotificationTopic

	producer, err := NewKafkaNotificationProducer(producerConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create notification producer: %w", err)
	}

	var emailService EmailService
	if cfg.Email.SMTPHost != "" {
		emailService, err = NewSMTPEmailService(NewSMTPConfig(cfg))
		if err != nil {
			producer.Close()
			return nil, err
		}
	} else {
		emailService = LogEmailService{}
	}

	consumerConfig := DefaultConsumerConfig()
	consumerConfig.Brokers = cfg.Kafka.Brokers
	consumerConfig.GroupID = cfg.Kafka.ConsumerGroup
	consumerConfig.Topics = []string{cfg.Kafka.NotificationTopic}

	consumer, err := NewKafkaNotificationConsumer(consumerConfig, emailService)
	if err != nil {
		producer.Close()
		return nil, fmt.Errorf("failed to create notification consumer: %w", err)
	}

	return &Service{
		producer: producer,
		consumer: consumer,
		userDir:  userDir,
		workers:  cfg.Kafka.ConsumerWorkers,
	}, nil
}

// Start launches the consumer workers. A no-op when Kafka is disabled.
func (s *Service) Start(ctx context.Context) error {
	if s.consumer == nil {
		return nil
	}
	return s.consumer.StartConsumers(ctx, s.workers)
}

// Stop drains the consumer workers and closes the producer.
func (s *Service) Stop() error {
	var firstErr error
	if s.consumer != nil {
		if err := s.consumer.Stop(); err != nil {
			firstErr = err
		}
	}
	if err := s.producer.Close(); err != nil && firstErr == nil {
		firstErr = err
	}
	return firstErr
}

// TaskAssigned notifies the assignee that a task landed on their plate.
func (s *Service) TaskAssigned(ctx context.Context, task *tasks.Task, assignee *users.User) {
	notification := NewEmailNotification(
		NotificationTypeTaskAssigned,
		assignee.ID,
		assignee.Email,
		assignee.Username,
		fmt.Sprintf("You were assigned to %q", task.Title),
	)
	notification.TaskID = &task.ID
	notification.ProjectID = &task.ProjectID
	notification.TemplateData["TaskTitle"] = task.Title
	notification.TemplateData["DueDate"] = task.DueDate.Format(time.RFC1123)

	s.publish(ctx, notification)
}

// TaskStatusChanged notifies the task's creator of the new status.
func (s *Service) TaskStatusChanged(ctx context.Context, task *tasks.Task) {
	creator, err := s.userDir.GetUser(ctx, task.CreatedBy)
	if err != nil {
		log.Printf("Skipping status notification for task %s: creator lookup failed: %v", task.ID, err)
		return
	}

	notification := NewEmailNotification(
		NotificationTypeTaskStatusChanged,
		creator.ID,
		creator.Email,
		creator.Username,
		fmt.Sprintf("Task %q is now %s", task.Title, task.Status),
	)
	notification.TaskID = &task.ID
	notification.ProjectID = &task.ProjectID
	notification.TemplateData["TaskTitle"] = task.Title
	notification.TemplateData["Status"] = string(task.Status)

	s.publish(ctx, notification)
}

// MemberAdded notifies a user that they joined a project.
func (s *Service) MemberAdded(ctx context.Context, project *projects.Project, member *users.User) {
	notification := NewEmailNotification(
		NotificationTypeMemberAdded,
		member.ID,
		member.Email,
		member.Username,
		fmt.Sprintf("You were added to project %q", project.Name),
	)
	notification.ProjectID = &project.ID
	notification.TemplateData["ProjectName"] = project.Name

	s.publish(ctx, notification)
}

func (s *Service) publish(ctx context.Context, notification *EmailNotification) {
	if err := s.producer.PublishNotification(ctx, notification); err != nil {
		log.Printf("Failed to publish %s notification %s: %v",
			notification.Type, notification.ID, err)
	}
}

// logProducer stands in for Kafka when notifications are disabled.
type logProducer struct{}

func (logProducer) PublishNotification(_ context.Context, notification *EmailNotification) error {
	log.Printf("[notifications disabled] %s for %s: %s",
		notification.Type, notification.RecipientEmail, notification.Subject)
	return nil
}

func (logProducer) Close() error { return nil }
