package auth

import (
	"encoding/base64"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskly/internal/shared/config"
)

// testSigningSecret returns a well-formed secret: 48 base64 characters
// encoding 36 raw key bytes.
func testSigningSecret() string {
	raw := make([]byte, 36)
	for i := range raw {
		raw[i] = byte(i * 7)
	}
	return base64.StdEncoding.EncodeToString(raw)
}

func newTestTokenService(secret string) *TokenService {
	cfg := &config.Config{}
	cfg.JWT.Secret = secret
	cfg.JWT.AccessTokenTTL = 15 * time.Minute
	cfg.JWT.RefreshTokenTTL = 7 * 24 * time.Hour
	return NewTokenService(cfg)
}

func TestGenerateAndParseRoundTrip(t *testing.T) {
	tokens := newTestTokenService(testSigningSecret())

	token, err := tokens.Generate("alice", []string{"USER"}, time.Minute)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := tokens.ParseAndVerify(token)
	require.NoError(t, err)
	assert.Equal(t, "alice", claims.Subject)
	assert.Equal(t, []string{"USER"}, claims.Roles)
	assert.True(t, claims.ExpiresAt.After(time.Now()))
}

func TestGenerateRejectsBlankSubject(t *testing.T) {
	tokens := newTestTokenService(testSigningSecret())

	for _, subject := range []string{"", "   ", "\t"} {
		_, err := tokens.Generate(subject, nil, time.Minute)
		assert.ErrorIs(t, err, ErrInvalidSubject)
	}
}

func TestSigningKeyConfiguration(t *testing.T) {
	tests := []struct {
		name    string
		secret  string
		wantErr error
	}{
		{"missing", "", ErrMissingSigningKey},
		{"too short", "c2hvcnQ=", ErrInvalidSigningKey},
		{"too long", testSigningSecret() + "AAAA", ErrInvalidSigningKey},
		{"right length, not base64", strings.Repeat("!", 48), ErrInvalidSigningKey},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokens := newTestTokenService(tt.secret)

			_, err := tokens.Generate("alice", nil, time.Minute)
			assert.ErrorIs(t, err, tt.wantErr)

			// Verification against the same broken key reports the
			// configuration problem, not a token problem.
			good := newTestTokenService(testSigningSecret())
			token, genErr := good.Generate("alice", nil, time.Minute)
			require.NoError(t, genErr)

			_, err = tokens.ParseAndVerify(token)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestParseAndVerifyExpiredToken(t *testing.T) {
	tokens := newTestTokenService(testSigningSecret())

	token, err := tokens.Generate("alice", nil, -time.Minute)
	require.NoError(t, err)

	_, err = tokens.ParseAndVerify(token)
	assert.ErrorIs(t, err, ErrTokenExpired)
	assert.NotErrorIs(t, err, ErrTokenMalformed)
}

func TestParseAndVerifyWrongKey(t *testing.T) {
	issuer := newTestTokenService(testSigningSecret())

	otherRaw := make([]byte, 36)
	for i := range otherRaw {
		otherRaw[i] = byte(255 - i)
	}
	verifier := newTestTokenService(base64.StdEncoding.EncodeToString(otherRaw))

	token, err := issuer.Generate("alice", nil, time.Minute)
	require.NoError(t, err)

	_, err = verifier.ParseAndVerify(token)
	assert.ErrorIs(t, err, ErrTokenMalformed)
}

func TestParseAndVerifyGarbage(t *testing.T) {
	tokens := newTestTokenService(testSigningSecret())

	for _, input := range []string{"", "not-a-token", "a.b.c", "header.payload"} {
		_, err := tokens.ParseAndVerify(input)
		assert.ErrorIs(t, err, ErrTokenMalformed, "input %q", input)
	}
}

func TestExtractSubject(t *testing.T) {
	tokens := newTestTokenService(testSigningSecret())

	token, err := tokens.Generate("alice", nil, time.Minute)
	require.NoError(t, err)

	subject, err := tokens.ExtractSubject(token)
	require.NoError(t, err)
	assert.Equal(t, "alice", subject)

	// Extraction is unverified, so it works on expired tokens too
	expired, err := tokens.Generate("bob", nil, -time.Minute)
	require.NoError(t, err)

	subject, err = tokens.ExtractSubject(expired)
	require.NoError(t, err)
	assert.Equal(t, "bob", subject)

	_, err = tokens.ExtractSubject("garbage")
	assert.ErrorIs(t, err, ErrTokenMalformed)
}

func TestIsValid(t *testing.T) {
	tokens := newTestTokenService(testSigningSecret())

	token, err := tokens.Generate("alice", nil, time.Minute)
	require.NoError(t, err)

	assert.True(t, tokens.IsValid(token, "alice"))
	assert.False(t, tokens.IsValid(token, "bob"), "subject mismatch must fail")
	assert.False(t, tokens.IsValid("garbage", "alice"))

	expired, err := tokens.Generate("alice", nil, -time.Minute)
	require.NoError(t, err)
	assert.False(t, tokens.IsValid(expired, "alice"))
}

func TestGenerateTokenPair(t *testing.T) {
	tokens := newTestTokenService(testSigningSecret())

	pair, err := tokens.GenerateTokenPair("alice")
	require.NoError(t, err)

	assert.True(t, tokens.IsValid(pair.AccessToken, "alice"))
	assert.True(t, tokens.IsValid(pair.RefreshToken, "alice"))
	assert.Equal(t, int64((15 * time.Minute).Seconds()), pair.ExpiresIn)
}

func TestRenewAccess(t *testing.T) {
	tokens := newTestTokenService(testSigningSecret())

	refreshToken, err := tokens.GenerateRefreshToken("alice")
	require.NoError(t, err)

	accessToken, err := tokens.RenewAccess(refreshToken)
	require.NoError(t, err)
	assert.True(t, tokens.IsValid(accessToken, "alice"))
}

func TestRenewAccessExpiredRefreshToken(t *testing.T) {
	tokens := newTestTokenService(testSigningSecret())

	expired, err := tokens.Generate("alice", nil, -time.Minute)
	require.NoError(t, err)

	_, err = tokens.RenewAccess(expired)
	assert.ErrorIs(t, err, ErrRefreshTokenExpired)
}

func TestRenewAccessMalformedToken(t *testing.T) {
	tokens := newTestTokenService(testSigningSecret())

	_, err := tokens.RenewAccess("garbage")
	assert.ErrorIs(t, err, ErrTokenMalformed)
}
