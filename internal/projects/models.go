package projects

import (
	"time"

	"github.com/google/uuid"
)

// Project is the persisted project entity
type Project struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	Name      string    `json:"name" gorm:"not null;size:100"`
	CreatedBy uuid.UUID `json:"created_by" gorm:"type:uuid;not null;index"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// ProjectMember represents the many-to-many relationship between projects and users
type ProjectMember struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	ProjectID uuid.UUID `json:"project_id" gorm:"type:uuid;not null;index;uniqueIndex:idx_project_member_unique"`
	UserID    uuid.UUID `json:"user_id" gorm:"type:uuid;not null;index;uniqueIndex:idx_project_member_unique"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
}

func (p *Project) ToResponse(memberIDs []uuid.UUID) ProjectResponse {
	members := make([]string, 0, len(memberIDs))
	for _, id := range memberIDs {
		members = append(members, id.String())
	}
	return ProjectResponse{
		ID:        p.ID.String(),
		Name:      p.Name,
		CreatedBy: p.CreatedBy.String(),
		Members:   members,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

// TableName specifies the table name for GORM
func (Project) TableName() string {
	return "projects"
}

func (ProjectMember) TableName() string {
	return "project_members"
}
