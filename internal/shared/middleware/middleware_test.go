package middleware

import (
	"context"
	"encoding/base64"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskly/internal/auth"
	"taskly/internal/shared/config"
	"taskly/internal/users"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakePrincipals struct {
	byUsername map[string]*users.User
}

func (f *fakePrincipals) GetUserByUsername(_ context.Context, username string) (*users.User, error) {
	user, ok := f.byUsername[username]
	if !ok {
		return nil, auth.ErrUserNotFound
	}
	return user, nil
}

func newTokenService() *auth.TokenService {
	raw := make([]byte, 36)
	for i := range raw {
		raw[i] = byte(i)
	}
	cfg := &config.Config{}
	cfg.JWT.Secret = base64.StdEncoding.EncodeToString(raw)
	cfg.JWT.AccessTokenTTL = 15 * time.Minute
	cfg.JWT.RefreshTokenTTL = 7 * 24 * time.Hour
	return auth.NewTokenService(cfg)
}

type fixture struct {
	engine *gin.Engine
	tokens *auth.TokenService
	alice  *users.User
	admin  *users.User
}

func newFixture() *fixture {
	tokens := newTokenService()
	alice := &users.User{ID: uuid.New(), Username: "alice", Email: "alice@taskly.dev", Role: users.RoleUser}
	admin := &users.User{ID: uuid.New(), Username: "root", Email: "root@taskly.dev", Role: users.RoleAdmin}
	principals := &fakePrincipals{byUsername: map[string]*users.User{
		"alice": alice,
		"root":  admin,
	}}

	engine := gin.New()
	engine.Use(Authenticate(tokens, principals))

	whoami := func(c *gin.Context) {
		identity, ok := auth.CurrentIdentity(c)
		if !ok {
			c.JSON(http.StatusOK, gin.H{"anonymous": true})
			return
		}
		c.JSON(http.StatusOK, gin.H{"username": identity.Username, "role": string(identity.Role)})
	}

	engine.GET("/open", whoami)
	engine.GET("/private", RequireAuth(), whoami)
	engine.GET("/admin", RequireAdmin(), whoami)

	return &fixture{engine: engine, tokens: tokens, alice: alice, admin: admin}
}

func (f *fixture) request(t *testing.T, path, token string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	f.engine.ServeHTTP(rec, req)
	return rec
}

func TestAuthenticatePassesAnonymousThrough(t *testing.T) {
	f := newFixture()

	rec := f.request(t, "/open", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "anonymous")
}

func TestAuthenticateBindsIdentity(t *testing.T) {
	f := newFixture()

	token, err := f.tokens.GenerateAccessToken("alice")
	require.NoError(t, err)

	rec := f.request(t, "/open", token)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "alice")
	assert.Contains(t, rec.Body.String(), "USER")
}

func TestAuthenticateIgnoresBadTokens(t *testing.T) {
	f := newFixture()

	expired, err := f.tokens.Generate("alice", nil, -time.Minute)
	require.NoError(t, err)

	for name, token := range map[string]string{
		"garbage":         "not-a-token",
		"expired":         expired,
		"unknown subject": mustToken(t, f.tokens, "ghost"),
	} {
		rec := f.request(t, "/open", token)
		assert.Equal(t, http.StatusOK, rec.Code, name)
		assert.Contains(t, rec.Body.String(), "anonymous", name)
	}
}

func TestAuthenticateIgnoresMalformedHeader(t *testing.T) {
	f := newFixture()

	req := httptest.NewRequest(http.MethodGet, "/open", nil)
	req.Header.Set("Authorization", "Token abc")
	rec := httptest.NewRecorder()
	f.engine.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "anonymous")
}

func TestRequireAuth(t *testing.T) {
	f := newFixture()

	rec := f.request(t, "/private", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	token, err := f.tokens.GenerateAccessToken("alice")
	require.NoError(t, err)

	rec = f.request(t, "/private", token)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequireAdmin(t *testing.T) {
	f := newFixture()

	// Anonymous callers are unauthenticated, not forbidden
	rec := f.request(t, "/admin", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	userToken, err := f.tokens.GenerateAccessToken("alice")
	require.NoError(t, err)
	rec = f.request(t, "/admin", userToken)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	adminToken, err := f.tokens.GenerateAccessToken("root")
	require.NoError(t, err)
	rec = f.request(t, "/admin", adminToken)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func mustToken(t *testing.T, tokens *auth.TokenService, subject string) string {
	t.Helper()
	token, err := tokens.GenerateAccessToken(subject)
	require.NoError(t, err)
	return token
}
