package auth

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"taskly/internal/users"
)

// fakeRepository keeps users in memory and mirrors the duplicate and
// not-found behavior of the real repository.
type fakeRepository struct {
	users map[string]*users.User
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{users: make(map[string]*users.User)}
}

func (f *fakeRepository) CreateUser(_ context.Context, user *users.User) error {
	for _, existing := range f.users {
		if existing.Username == user.Username || existing.Email == user.Email {
			return ErrUserAlreadyExists
		}
	}
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	f.users[user.Username] = user
	return nil
}

func (f *fakeRepository) GetUserByUsername(_ context.Context, username string) (*users.User, error) {
	user, ok := f.users[username]
	if !ok {
		return nil, ErrUserNotFound
	}
	return user, nil
}

func (f *fakeRepository) GetUserByID(_ context.Context, id uuid.UUID) (*users.User, error) {
	for _, user := range f.users {
		if user.ID == id {
			return user, nil
		}
	}
	return nil, ErrUserNotFound
}

func (f *fakeRepository) UsernameOrEmailExists(_ context.Context, username, email string) (bool, error) {
	for _, user := range f.users {
		if user.Username == username || user.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func newTestService(t *testing.T) (Service, *fakeRepository, *TokenService) {
	t.Helper()
	repo := newFakeRepository()
	tokens := newTestTokenService(testSigningSecret())
	return NewService(repo, tokens), repo, tokens
}

func TestRegister(t *testing.T) {
	svc, repo, tokens := newTestService(t)

	resp, err := svc.Register(context.Background(), &RegisterRequest{
		Username: "alice",
		Email:    "alice@taskly.dev",
		Password: "s3cret-pass",
	})
	require.NoError(t, err)

	assert.Equal(t, "alice", resp.User.Username)
	assert.Equal(t, "alice@taskly.dev", resp.User.Email)
	assert.Equal(t, string(users.RoleUser), resp.User.Role)

	// Tokens are bound to the stored principal
	assert.True(t, tokens.IsValid(resp.AccessToken, "alice"))
	assert.True(t, tokens.IsValid(resp.RefreshToken, "alice"))

	// The plaintext password is never stored
	stored := repo.users["alice"]
	require.NotNil(t, stored)
	assert.NotEqual(t, "s3cret-pass", stored.Password)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.Password), []byte("s3cret-pass")))
}

func TestRegisterDuplicate(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, &RegisterRequest{
		Username: "alice", Email: "alice@taskly.dev", Password: "s3cret-pass",
	})
	require.NoError(t, err)

	_, err = svc.Register(ctx, &RegisterRequest{
		Username: "alice", Email: "other@taskly.dev", Password: "s3cret-pass",
	})
	assert.ErrorIs(t, err, ErrUserAlreadyExists)

	_, err = svc.Register(ctx, &RegisterRequest{
		Username: "alice2", Email: "alice@taskly.dev", Password: "s3cret-pass",
	})
	assert.ErrorIs(t, err, ErrUserAlreadyExists, "email collisions are conflicts too")
}

func TestLogin(t *testing.T) {
	svc, _, tokens := newTestService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, &RegisterRequest{
		Username: "alice", Email: "alice@taskly.dev", Password: "s3cret-pass",
	})
	require.NoError(t, err)

	resp, err := svc.Login(ctx, &LoginRequest{Username: "alice", Password: "s3cret-pass"})
	require.NoError(t, err)
	assert.True(t, tokens.IsValid(resp.AccessToken, "alice"))
}

func TestLoginFailureIsOpaque(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, &RegisterRequest{
		Username: "alice", Email: "alice@taskly.dev", Password: "s3cret-pass",
	})
	require.NoError(t, err)

	// Wrong password and unknown user must be indistinguishable
	_, err = svc.Login(ctx, &LoginRequest{Username: "alice", Password: "wrong"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(ctx, &LoginRequest{Username: "nobody", Password: "s3cret-pass"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestRefresh(t *testing.T) {
	svc, _, tokens := newTestService(t)
	ctx := context.Background()

	resp, err := svc.Register(ctx, &RegisterRequest{
		Username: "alice", Email: "alice@taskly.dev", Password: "s3cret-pass",
	})
	require.NoError(t, err)

	accessToken, err := svc.Refresh(resp.RefreshToken)
	require.NoError(t, err)
	assert.True(t, tokens.IsValid(accessToken, "alice"))

	_, err = svc.Refresh("garbage")
	assert.ErrorIs(t, err, ErrTokenMalformed)
}
