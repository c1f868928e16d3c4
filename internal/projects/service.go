package projects

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"taskly/internal/auth"
	"taskly/internal/users"
)

var (
	ErrProjectNotFound = errors.New("project not found")
	ErrMemberNotFound  = errors.New("member not found")
	ErrNotMember       = errors.New("caller is not a project member")
)

// UserDirectory resolves users added as project members.
type UserDirectory interface {
	GetUser(ctx context.Context, id uuid.UUID) (*users.User, error)
}

// Notifier publishes project membership events. A nil Notifier disables
// publishing.
type Notifier interface {
	MemberAdded(ctx context.Context, project *Project, member *users.User)
}

type Service interface {
	Create(ctx context.Context, identity auth.Identity, req *ProjectRequest) (*ProjectResponse, error)
	List(ctx context.Context, identity auth.Identity) ([]ProjectResponse, error)
	Get(ctx context.Context, identity auth.Identity, id uuid.UUID) (*ProjectResponse, error)
	Update(ctx context.Context, identity auth.Identity, id uuid.UUID, req *ProjectRequest) (*ProjectResponse, error)
	Delete(ctx context.Context, identity auth.Identity, id uuid.UUID) error
	AddMember(ctx context.Context, identity auth.Identity, projectID, userID uuid.UUID) (*ProjectResponse, error)
	RemoveMember(ctx context.Context, identity auth.Identity, projectID, userID uuid.UUID) (*ProjectResponse, error)

	// Collaborator surface used by the task service
	Exists(ctx context.Context, projectID uuid.UUID) (bool, error)
	EnsureMember(ctx context.Context, projectID, userID uuid.UUID) error
}

type service struct {
	repo     Repository
	userDir  UserDirectory
	notifier Notifier
}

func NewService(repo Repository, userDir UserDirectory, notifier Notifier) Service {
	return &service{
		repo:     repo,
		userDir:  userDir,
		notifier: notifier,
	}
}

func (s *service) Create(ctx context.Context, identity auth.Identity, req *ProjectRequest) (*ProjectResponse, error) {
	project := &Project{
		Name:      req.Name,
		CreatedBy: identity.UserID,
	}

	if err := s.repo.Create(ctx, project); err != nil {
		return nil, err
	}

	// The creator is the first member
	if err := s.repo.AddMember(ctx, project.ID, identity.UserID); err != nil {
		return nil, err
	}

	return s.toResponse(ctx, project)
}

func (s *service) List(ctx context.Context, identity auth.Identity) ([]ProjectResponse, error) {
	projects, err := s.repo.ListByMember(ctx, identity.UserID)
	if err != nil {
		return nil, err
	}

	responses := make([]ProjectResponse, 0, len(projects))
	for i := range projects {
		resp, err := s.toResponse(ctx, &projects[i])
		if err != nil {
			return nil, err
		}
		responses = append(responses, *resp)
	}
	return responses, nil
}

func (s *service) Get(ctx context.Context, identity auth.Identity, id uuid.UUID) (*ProjectResponse, error) {
	project, err := s.memberProject(ctx, identity, id)
	if err != nil {
		return nil, err
	}
	return s.toResponse(ctx, project)
}

func (s *service) Update(ctx context.Context, identity auth.Identity, id uuid.UUID, req *ProjectRequest) (*ProjectResponse, error) {
	project, err := s.memberProject(ctx, identity, id)
	if err != nil {
		return nil, err
	}

	project.Name = req.Name
	if err := s.repo.Update(ctx, project); err != nil {
		return nil, err
	}
	return s.toResponse(ctx, project)
}

func (s *service) Delete(ctx context.Context, identity auth.Identity, id uuid.UUID) error {
	if _, err := s.memberProject(ctx, identity, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

func (s *service) AddMember(ctx context.Context, identity auth.Identity, projectID, userID uuid.UUID) (*ProjectResponse, error) {
	project, err := s.memberProject(ctx, identity, projectID)
	if err != nil {
		return nil, err
	}

	member, err := s.userDir.GetUser(ctx, userID)
	if err != nil {
		return nil, ErrMemberNotFound
	}

	if err := s.repo.AddMember(ctx, project.ID, member.ID); err != nil {
		return nil, err
	}

	if s.notifier != nil {
		s.notifier.MemberAdded(ctx, project, member)
	}
	return s.toResponse(ctx, project)
}

func (s *service) RemoveMember(ctx context.Context, identity auth.Identity, projectID, userID uuid.UUID) (*ProjectResponse, error) {
	project, err := s.memberProject(ctx, identity, projectID)
	if err != nil {
		return nil, err
	}

	member, err := s.userDir.GetUser(ctx, userID)
	if err != nil {
		return nil, ErrMemberNotFound
	}

	if err := s.repo.RemoveMember(ctx, project.ID, member.ID); err != nil {
		return nil, err
	}
	return s.toResponse(ctx, project)
}

func (s *service) Exists(ctx context.Context, projectID uuid.UUID) (bool, error) {
	return s.repo.Exists(ctx, projectID)
}

// EnsureMember makes userID a member of the project if they are not
// already; task assignment relies on this.
func (s *service) EnsureMember(ctx context.Context, projectID, userID uuid.UUID) error {
	return s.repo.AddMember(ctx, projectID, userID)
}

// memberProject fetches a project only if the caller belongs to it.
func (s *service) memberProject(ctx context.Context, identity auth.Identity, id uuid.UUID) (*Project, error) {
	project, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, err
	}

	isMember, err := s.repo.IsMember(ctx, id, identity.UserID)
	if err != nil {
		return nil, err
	}
	if !isMember {
		return nil, ErrNotMember
	}
	return project, nil
}

func (s *service) toResponse(ctx context.Context, project *Project) (*ProjectResponse, error) {
	memberIDs, err := s.repo.ListMemberIDs(ctx, project.ID)
	if err != nil {
		return nil, err
	}
	resp := project.ToResponse(memberIDs)
	return &resp, nil
}
