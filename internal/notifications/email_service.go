package notifications

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"log"
	"net/smtp"
	"strings"
	"time"

	"taskly/internal/shared/config"
)

// EmailService sends notifications to their recipients
type EmailService interface {
	SendNotification(ctx context.Context, notification *EmailNotification) error
}

// SMTPConfig holds SMTP configuration
type SMTPConfig struct {
	Host      string
	Port      int
	Username  string
	Password  string
	FromEmail string
	FromName  string
}

// NewSMTPConfig builds SMTP config from the application configuration
func NewSMTPConfig(cfg *config.Config) *SMTPConfig {
	return &SMTPConfig{
		Host:      cfg.Email.SMTPHost,
		Port:      cfg.Email.SMTPPort,
		Username:  cfg.Email.SMTPUsername,
		Password:  cfg.Email.SMTPPassword,
		FromEmail: cfg.Email.FromEmail,
		FromName:  "Taskly",
	}
}

func (c *SMTPConfig) validate() error {
	if c.Host == "" {
		return fmt.Errorf("SMTP host is required")
	}
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("SMTP port must be between 1 and 65535")
	}
	if c.FromEmail == "" {
		return fmt.Errorf("from email is required")
	}
	return nil
}

// SMTPEmailService delivers notifications over SMTP
type SMTPEmailService struct {
	config    *SMTPConfig
	templates map[NotificationType]*template.Template
}

func NewSMTPEmailService(config *SMTPConfig) (*SMTPEmailService, error) {
	if err := config.validate(); err != nil {
		return nil, fmt.Errorf("invalid SMTP configuration: %w", err)
	}

	service := &SMTPEmailService{
		config:    config,
		templates: make(map[NotificationType]*template.Template),
	}
	service.loadDefaultTemplates()

	return service, nil
}

func (s *SMTPEmailService) loadDefaultTemplates() {
	bodies := map[NotificationType]string{
		NotificationTypeTaskAssigned: `
			<p>Hi {{.RecipientName}},</p>
			<p>You have been assigned to the task <strong>{{.TaskTitle}}</strong>.</p>
			<p>Due date: {{.DueDate}}</p>`,
		NotificationTypeTaskStatusChanged: `
			<p>Hi {{.RecipientName}},</p>
			<p>The task <strong>{{.TaskTitle}}</strong> moved to status
			<strong>{{.Status}}</strong>.</p>`,
		NotificationTypeMemberAdded: `
			<p>Hi {{.RecipientName}},</p>
			<p>You were added to the project <strong>{{.ProjectName}}</strong>.</p>`,
	}

	for notificationType, body := range bodies {
		s.templates[notificationType] = template.Must(
			template.New(string(notificationType)).Parse(body))
	}
}

// SendNotification renders the notification's template and sends it
func (s *SMTPEmailService) SendNotification(ctx context.Context, notification *EmailNotification) error {
	log.Printf("Sending %s notification to %s", notification.Type, notification.RecipientEmail)

	tmpl, ok := s.templates[notification.Type]
	if !ok {
		return fmt.Errorf("no template for notification type %s", notification.Type)
	}

	data := map[string]interface{}{
		"RecipientName": notification.RecipientName,
	}
	for k, v := range notification.TemplateData {
		data[k] = v
	}

	var body bytes.Buffer
	if err := tmpl.Execute(&body, data); err != nil {
		return fmt.Errorf("failed to render template: %w", err)
	}

	if err := s.send(ctx, notification.RecipientEmail, notification.Subject, body.String()); err != nil {
		notification.Status = NotificationStatusFailed
		return err
	}

	notification.Status = NotificationStatusSent
	notification.UpdatedAt = time.Now()
	return nil
}

func (s *SMTPEmailService) send(ctx context.Context, to, subject, htmlBody string) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	var msg strings.Builder
	msg.WriteString(fmt.Sprintf("From: %s <%s>\r\n", s.config.FromName, s.config.FromEmail))
	msg.WriteString(fmt.Sprintf("To: %s\r\n", to))
	msg.WriteString(fmt.Sprintf("Subject: %s\r\n", subject))
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString("Content-Type: text/html; charset=UTF-8\r\n")
	msg.WriteString("\r\n")
	msg.WriteString(htmlBody)

	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
	var auth smtp.Auth
	if s.config.Username != "" {
		auth = smtp.PlainAuth("", s.config.Username, s.config.Password, s.config.Host)
	}

	return smtp.SendMail(addr, auth, s.config.FromEmail, []string{to}, []byte(msg.String()))
}

// LogEmailService is the development fallback when SMTP is not
// configured: it just logs what would have been sent.
type LogEmailService struct{}

func (LogEmailService) SendNotification(_ context.Context, notification *EmailNotification) error {
	log.Printf("[email disabled] %s notification for %s: %s",
		notification.Type, notification.RecipientEmail, notification.Subject)
	notification.Status = NotificationStatusSent
	return nil
}
