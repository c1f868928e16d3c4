package database

import (
	"taskly/internal/projects"
	"taskly/internal/tasks"
	"taskly/internal/users"

	"gorm.io/gorm"
)

func Migrate(db *gorm.DB) error {
	// uuid_generate_v4 defaults on primary keys need the extension
	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS "uuid-ossp"`).Error; err != nil {
		return err
	}

	return db.AutoMigrate(
		&users.User{},
		&projects.Project{},
		&projects.ProjectMember{},
		&tasks.Task{},
		&tasks.TaskAssignee{},
	)
}
