package projects

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"taskly/internal/auth"
	"taskly/internal/users"
)

type fakeProjectRepo struct {
	projects map[uuid.UUID]*Project
	members  map[uuid.UUID][]uuid.UUID
}

func newFakeProjectRepo() *fakeProjectRepo {
	return &fakeProjectRepo{
		projects: make(map[uuid.UUID]*Project),
		members:  make(map[uuid.UUID][]uuid.UUID),
	}
}

func (f *fakeProjectRepo) Create(_ context.Context, project *Project) error {
	if project.ID == uuid.Nil {
		project.ID = uuid.New()
	}
	copied := *project
	f.projects[project.ID] = &copied
	return nil
}

func (f *fakeProjectRepo) GetByID(_ context.Context, id uuid.UUID) (*Project, error) {
	project, ok := f.projects[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *project
	return &copied, nil
}

func (f *fakeProjectRepo) Update(_ context.Context, project *Project) error {
	copied := *project
	f.projects[project.ID] = &copied
	return nil
}

func (f *fakeProjectRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(f.projects, id)
	delete(f.members, id)
	return nil
}

func (f *fakeProjectRepo) ListByMember(_ context.Context, userID uuid.UUID) ([]Project, error) {
	var out []Project
	for projectID, memberIDs := range f.members {
		for _, id := range memberIDs {
			if id == userID {
				out = append(out, *f.projects[projectID])
				break
			}
		}
	}
	return out, nil
}

func (f *fakeProjectRepo) Exists(_ context.Context, id uuid.UUID) (bool, error) {
	_, ok := f.projects[id]
	return ok, nil
}

func (f *fakeProjectRepo) AddMember(_ context.Context, projectID, userID uuid.UUID) error {
	for _, id := range f.members[projectID] {
		if id == userID {
			return nil
		}
	}
	f.members[projectID] = append(f.members[projectID], userID)
	return nil
}

func (f *fakeProjectRepo) RemoveMember(_ context.Context, projectID, userID uuid.UUID) error {
	ids := f.members[projectID]
	for i, id := range ids {
		if id == userID {
			f.members[projectID] = append(ids[:i], ids[i+1:]...)
			return nil
		}
	}
	return nil
}

func (f *fakeProjectRepo) IsMember(_ context.Context, projectID, userID uuid.UUID) (bool, error) {
	for _, id := range f.members[projectID] {
		if id == userID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeProjectRepo) ListMemberIDs(_ context.Context, projectID uuid.UUID) ([]uuid.UUID, error) {
	return f.members[projectID], nil
}

type fakeUserDir struct {
	byID map[uuid.UUID]*users.User
}

func (f *fakeUserDir) GetUser(_ context.Context, id uuid.UUID) (*users.User, error) {
	user, ok := f.byID[id]
	if !ok {
		return nil, auth.ErrUserNotFound
	}
	return user, nil
}

type recordingNotifier struct {
	memberAdded []uuid.UUID
}

func (n *recordingNotifier) MemberAdded(_ context.Context, _ *Project, member *users.User) {
	n.memberAdded = append(n.memberAdded, member.ID)
}

type projectFixture struct {
	svc      Service
	repo     *fakeProjectRepo
	notifier *recordingNotifier
	identity auth.Identity
	teammate *users.User
}

func newProjectFixture() *projectFixture {
	teammate := &users.User{ID: uuid.New(), Username: "bob", Email: "bob@taskly.dev", Role: users.RoleUser}
	repo := newFakeProjectRepo()
	notifier := &recordingNotifier{}
	userDir := &fakeUserDir{byID: map[uuid.UUID]*users.User{teammate.ID: teammate}}

	return &projectFixture{
		svc:      NewService(repo, userDir, notifier),
		repo:     repo,
		notifier: notifier,
		identity: auth.Identity{UserID: uuid.New(), Username: "alice", Role: users.RoleUser},
		teammate: teammate,
	}
}

func (f *projectFixture) createProject(t *testing.T, name string) *ProjectResponse {
	t.Helper()
	resp, err := f.svc.Create(context.Background(), f.identity, &ProjectRequest{Name: name})
	require.NoError(t, err)
	return resp
}

func TestCreateProject(t *testing.T) {
	f := newProjectFixture()

	resp := f.createProject(t, "Website Relaunch")
	assert.Equal(t, "Website Relaunch", resp.Name)
	assert.Equal(t, f.identity.UserID.String(), resp.CreatedBy)
	assert.Equal(t, []string{f.identity.UserID.String()}, resp.Members, "creator joins automatically")
}

func TestListProjectsByMembership(t *testing.T) {
	f := newProjectFixture()
	ctx := context.Background()

	f.createProject(t, "Mine")

	// A project created by someone else, with our caller as a member
	otherOwner := auth.Identity{UserID: uuid.New(), Username: "carol", Role: users.RoleUser}
	shared, err := f.svc.Create(ctx, otherOwner, &ProjectRequest{Name: "Shared"})
	require.NoError(t, err)
	require.NoError(t, f.svc.EnsureMember(ctx, uuid.MustParse(shared.ID), f.identity.UserID))

	// And one the caller has nothing to do with
	_, err = f.svc.Create(ctx, otherOwner, &ProjectRequest{Name: "Foreign"})
	require.NoError(t, err)

	list, err := f.svc.List(ctx, f.identity)
	require.NoError(t, err)
	names := make([]string, 0, len(list))
	for _, p := range list {
		names = append(names, p.Name)
	}
	assert.ElementsMatch(t, []string{"Mine", "Shared"}, names)
}

func TestGetProjectRequiresMembership(t *testing.T) {
	f := newProjectFixture()
	resp := f.createProject(t, "Team Space")
	projectID := uuid.MustParse(resp.ID)

	got, err := f.svc.Get(context.Background(), f.identity, projectID)
	require.NoError(t, err)
	assert.Equal(t, resp.ID, got.ID)

	outsider := auth.Identity{UserID: uuid.New(), Username: "mallory", Role: users.RoleUser}
	_, err = f.svc.Get(context.Background(), outsider, projectID)
	assert.ErrorIs(t, err, ErrNotMember)

	_, err = f.svc.Get(context.Background(), f.identity, uuid.New())
	assert.ErrorIs(t, err, ErrProjectNotFound)
}

func TestUpdateProject(t *testing.T) {
	f := newProjectFixture()
	resp := f.createProject(t, "Old Name")

	updated, err := f.svc.Update(context.Background(), f.identity,
		uuid.MustParse(resp.ID), &ProjectRequest{Name: "New Name"})
	require.NoError(t, err)
	assert.Equal(t, "New Name", updated.Name)
}

func TestDeleteProject(t *testing.T) {
	f := newProjectFixture()
	resp := f.createProject(t, "Doomed")
	projectID := uuid.MustParse(resp.ID)

	require.NoError(t, f.svc.Delete(context.Background(), f.identity, projectID))

	exists, err := f.svc.Exists(context.Background(), projectID)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestAddMember(t *testing.T) {
	f := newProjectFixture()
	resp := f.createProject(t, "Growing Team")
	projectID := uuid.MustParse(resp.ID)

	updated, err := f.svc.AddMember(context.Background(), f.identity, projectID, f.teammate.ID)
	require.NoError(t, err)
	assert.Contains(t, updated.Members, f.teammate.ID.String())
	assert.Equal(t, []uuid.UUID{f.teammate.ID}, f.notifier.memberAdded)

	// Adding the same member again is a no-op, not an error
	again, err := f.svc.AddMember(context.Background(), f.identity, projectID, f.teammate.ID)
	require.NoError(t, err)
	assert.Len(t, again.Members, 2)
}

func TestAddMemberUnknownUser(t *testing.T) {
	f := newProjectFixture()
	resp := f.createProject(t, "Team")

	_, err := f.svc.AddMember(context.Background(), f.identity,
		uuid.MustParse(resp.ID), uuid.New())
	assert.ErrorIs(t, err, ErrMemberNotFound)
}

func TestRemoveMember(t *testing.T) {
	f := newProjectFixture()
	resp := f.createProject(t, "Team")
	projectID := uuid.MustParse(resp.ID)

	_, err := f.svc.AddMember(context.Background(), f.identity, projectID, f.teammate.ID)
	require.NoError(t, err)

	updated, err := f.svc.RemoveMember(context.Background(), f.identity, projectID, f.teammate.ID)
	require.NoError(t, err)
	assert.NotContains(t, updated.Members, f.teammate.ID.String())
}

func TestEnsureMemberIsIdempotent(t *testing.T) {
	f := newProjectFixture()
	resp := f.createProject(t, "Team")
	projectID := uuid.MustParse(resp.ID)

	require.NoError(t, f.svc.EnsureMember(context.Background(), projectID, f.teammate.ID))
	require.NoError(t, f.svc.EnsureMember(context.Background(), projectID, f.teammate.ID))

	got, err := f.svc.Get(context.Background(), f.identity, projectID)
	require.NoError(t, err)
	assert.Len(t, got.Members, 2)
}
