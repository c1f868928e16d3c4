package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"taskly/internal/projects"
	"taskly/internal/shared/config"
	"taskly/internal/shared/database"
	"taskly/internal/tasks"
	"taskly/internal/users"
)

type Seeder struct {
	db *database.DB
}

func main() {
	fmt.Println("🌱 Starting Taskly Database Seeder...")

	// Load configuration
	cfg := config.Load()

	// Initialize database
	db, err := database.InitDB(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	seeder := &Seeder{db: db}

	// Clean database
	fmt.Println("\n🧹 Cleaning database...")
	if err := seeder.CleanDatabase(); err != nil {
		log.Fatalf("Failed to clean database: %v", err)
	}
	fmt.Println("✅ Database cleaned successfully")

	// Seed data
	fmt.Println("\n🌱 Seeding database...")
	if err := seeder.SeedAll(); err != nil {
		log.Fatalf("Failed to seed database: %v", err)
	}
	fmt.Println("✅ Database seeded successfully")

	fmt.Println("\n🎉 Seeding completed! Database is ready for testing.")
}

// CleanDatabase truncates all tables in the correct order (respecting foreign key constraints)
func (s *Seeder) CleanDatabase() error {
	// Delete in reverse dependency order
	tables := []string{
		"task_assignees",
		"tasks",
		"project_members",
		"projects",
		"users",
	}

	tx := s.db.PostgreSQL.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	if err := tx.Exec("SET CONSTRAINTS ALL DEFERRED").Error; err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to defer constraints: %w", err)
	}

	for _, table := range tables {
		fmt.Printf("  Truncating table: %s\n", table)
		if err := tx.Exec(fmt.Sprintf("TRUNCATE TABLE %s RESTART IDENTITY CASCADE", table)).Error; err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to truncate table %s: %w", table, err)
		}
	}

	if err := tx.Exec("SET CONSTRAINTS ALL IMMEDIATE").Error; err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to restore constraints: %w", err)
	}

	return tx.Commit().Error
}

// SeedAll seeds all required data
func (s *Seeder) SeedAll() error {
	ctx := context.Background()

	// Users first (no dependencies)
	userIDs, err := s.SeedUsers()
	if err != nil {
		return fmt.Errorf("failed to seed users: %w", err)
	}

	projectIDs, err := s.SeedProjects(userIDs)
	if err != nil {
		return fmt.Errorf("failed to seed projects: %w", err)
	}

	if err := s.SeedTasks(userIDs, projectIDs); err != nil {
		return fmt.Errorf("failed to seed tasks: %w", err)
	}

	// Clear Redis so rate limit windows start fresh
	if err := s.db.Redis.FlushDB(ctx).Err(); err != nil {
		log.Printf("Warning: Failed to clear Redis: %v", err)
	}

	return nil
}

// SeedUsers creates 3 users: 1 admin and 2 regular users
func (s *Seeder) SeedUsers() (map[string]uuid.UUID, error) {
	fmt.Println("  👤 Seeding users...")

	userIDs := make(map[string]uuid.UUID)

	// Hash password for all users (using "qwerty")
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte("qwerty"), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	usersData := []struct {
		key      string
		username string
		email    string
		role     users.Role
	}{
		{"admin", "admin", "admin@taskly.dev", users.RoleAdmin},
		{"user1", "alice", "alice@taskly.dev", users.RoleUser},
		{"user2", "bob", "bob@taskly.dev", users.RoleUser},
	}

	for _, userData := range usersData {
		user := users.User{
			ID:        uuid.New(),
			Username:  userData.username,
			Email:     userData.email,
			Password:  string(hashedPassword),
			Role:      userData.role,
			CreatedAt: time.Now(),
			UpdatedAt: time.Now(),
		}

		if err := s.db.PostgreSQL.Create(&user).Error; err != nil {
			return nil, fmt.Errorf("failed to create user %s: %w", userData.username, err)
		}

		userIDs[userData.key] = user.ID
		fmt.Printf("    ✅ Created user: %s (%s)\n", user.Username, user.Role)
	}

	return userIDs, nil
}

// SeedProjects creates sample projects with memberships
func (s *Seeder) SeedProjects(userIDs map[string]uuid.UUID) (map[string]uuid.UUID, error) {
	fmt.Println("  📁 Seeding projects...")

	projectIDs := make(map[string]uuid.UUID)

	projectsData := []struct {
		key     string
		name    string
		creator string
		members []string
	}{
		{"website", "Website Relaunch", "user1", []string{"user1", "user2"}},
		{"mobile", "Mobile App", "user2", []string{"user2"}},
		{"infra", "Infrastructure Cleanup", "user1", []string{"user1"}},
	}

	for _, projectData := range projectsData {
		project := projects.Project{
			ID:        uuid.New(),
			Name:      projectData.name,
			CreatedBy: userIDs[projectData.creator],
			CreatedAt: time.Now(),
			UpdatedAt: time.Now(),
		}

		if err := s.db.PostgreSQL.Create(&project).Error; err != nil {
			return nil, fmt.Errorf("failed to create project %s: %w", project.Name, err)
		}

		for _, memberKey := range projectData.members {
			member := projects.ProjectMember{
				ID:        uuid.New(),
				ProjectID: project.ID,
				UserID:    userIDs[memberKey],
				CreatedAt: time.Now(),
			}
			if err := s.db.PostgreSQL.Create(&member).Error; err != nil {
				return nil, fmt.Errorf("failed to add member to project %s: %w", project.Name, err)
			}
		}

		projectIDs[projectData.key] = project.ID
		fmt.Printf("    ✅ Created project: %s (%d members)\n", project.Name, len(projectData.members))
	}

	return projectIDs, nil
}

// SeedTasks creates sample tasks across the seeded projects
func (s *Seeder) SeedTasks(userIDs map[string]uuid.UUID, projectIDs map[string]uuid.UUID) error {
	fmt.Println("  📝 Seeding tasks...")

	tasksData := []struct {
		title       string
		description string
		status      tasks.Status
		priority    tasks.Priority
		daysFromNow int
		comments    string
		project     string
		creator     string
		assignees   []string
	}{
		{
			title:       "Design landing page",
			description: "New hero section, pricing table and testimonials.",
			status:      tasks.StatusInProgress,
			priority:    tasks.PriorityHigh,
			daysFromNow: 7,
			comments:    "Figma draft is linked in the project wiki",
			project:     "website",
			creator:     "user1",
			assignees:   []string{"user2"},
		},
		{
			title:       "Migrate blog content",
			description: "Export posts from the old CMS and import into the new stack.",
			status:      tasks.StatusPending,
			priority:    tasks.PriorityMedium,
			daysFromNow: 14,
			project:     "website",
			creator:     "user1",
			assignees:   []string{"user1"},
		},
		{
			title:       "Set up push notifications",
			description: "Wire FCM for Android and APNs for iOS.",
			status:      tasks.StatusPending,
			priority:    tasks.PriorityHigh,
			daysFromNow: 10,
			project:     "mobile",
			creator:     "user2",
			assignees:   []string{"user2"},
		},
		{
			title:       "Fix login screen crash",
			description: "Crash on rotation while the keyboard is open.",
			status:      tasks.StatusCompleted,
			priority:    tasks.PriorityHigh,
			daysFromNow: -2,
			comments:    "Fixed in build 42",
			project:     "mobile",
			creator:     "user2",
		},
		{
			title:       "Rotate TLS certificates",
			description: "Staging certs expire at the end of the month.",
			status:      tasks.StatusPending,
			priority:    tasks.PriorityLow,
			daysFromNow: -1,
			project:     "infra",
			creator:     "user1",
		},
	}

	for _, taskData := range tasksData {
		task := tasks.Task{
			ID:          uuid.New(),
			Title:       taskData.title,
			Description: taskData.description,
			Status:      taskData.status,
			Priority:    taskData.priority,
			DueDate:     time.Now().AddDate(0, 0, taskData.daysFromNow),
			Comments:    taskData.comments,
			ProjectID:   projectIDs[taskData.project],
			CreatedBy:   userIDs[taskData.creator],
			CreatedAt:   time.Now(),
			UpdatedAt:   time.Now(),
		}

		if err := s.db.PostgreSQL.Create(&task).Error; err != nil {
			return fmt.Errorf("failed to create task %s: %w", task.Title, err)
		}

		for _, assigneeKey := range taskData.assignees {
			assignee := tasks.TaskAssignee{
				ID:        uuid.New(),
				TaskID:    task.ID,
				UserID:    userIDs[assigneeKey],
				CreatedAt: time.Now(),
			}
			if err := s.db.PostgreSQL.Create(&assignee).Error; err != nil {
				return fmt.Errorf("failed to assign task %s: %w", task.Title, err)
			}
		}

		fmt.Printf("    ✅ Created task: %s (%s/%s)\n", task.Title, task.Status, task.Priority)
	}

	return nil
}
