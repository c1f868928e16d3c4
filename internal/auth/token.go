package auth

import (
	"encoding/base64"
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"

	"taskly/internal/shared/config"
)

// secretKeyLength is the exact length of the base64 JWT_SECRET_KEY value.
const secretKeyLength = 48

var (
	ErrMissingSigningKey   = errors.New("signing key is not configured")
	ErrInvalidSigningKey   = errors.New("signing key is malformed")
	ErrInvalidSubject      = errors.New("token subject cannot be empty")
	ErrTokenMalformed      = errors.New("token is malformed")
	ErrTokenExpired        = errors.New("token has expired")
	ErrRefreshTokenExpired = errors.New("refresh token has expired")
)

// Claims carried in issued tokens. Custom claims ride alongside the
// registered sub/iat/exp set, so any compliant JWT verifier can read them.
type Claims struct {
	Roles []string `json:"roles,omitempty"`
	jwt.RegisteredClaims
}

// TokenVerifier is the slice of the token service the request
// authentication filter depends on.
type TokenVerifier interface {
	ExtractSubject(tokenString string) (string, error)
	IsValid(tokenString, expectedSubject string) bool
}

// TokenService issues and verifies compact HMAC-SHA256 signed JWTs.
// It keeps no state besides the process-wide signing key, so it is safe
// to share across request goroutines.
type TokenService struct {
	config *config.Config
}

func NewTokenService(cfg *config.Config) *TokenService {
	return &TokenService{config: cfg}
}

// signingKey resolves the configured secret into the raw HMAC key.
// Resolution is deliberately lazy: a broken configuration surfaces at the
// first token operation rather than a startup probe.
func (t *TokenService) signingKey() ([]byte, error) {
	secret := t.config.JWT.Secret
	if secret == "" {
		return nil, ErrMissingSigningKey
	}
	if len(secret) != secretKeyLength {
		return nil, ErrInvalidSigningKey
	}
	key, err := base64.StdEncoding.DecodeString(secret)
	if err != nil {
		return nil, ErrInvalidSigningKey
	}
	return key, nil
}

// Generate issues a token binding subject and optional role claims to a
// validity window starting now.
func (t *TokenService) Generate(subject string, roles []string, ttl time.Duration) (string, error) {
	if strings.TrimSpace(subject) == "" {
		return "", ErrInvalidSubject
	}

	key, err := t.signingKey()
	if err != nil {
		return "", err
	}

	now := time.Now()
	claims := Claims{
		Roles: roles,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(key)
}

// GenerateAccessToken issues a short-lived token for ordinary requests.
func (t *TokenService) GenerateAccessToken(subject string) (string, error) {
	return t.Generate(subject, nil, t.config.JWT.AccessTokenTTL)
}

// GenerateRefreshToken issues a long-lived token used only to mint new
// access tokens.
func (t *TokenService) GenerateRefreshToken(subject string) (string, error) {
	return t.Generate(subject, nil, t.config.JWT.RefreshTokenTTL)
}

// GenerateTokenPair issues the (access, refresh) tuple returned at
// login and registration.
func (t *TokenService) GenerateTokenPair(subject string) (*TokenPair, error) {
	accessToken, err := t.GenerateAccessToken(subject)
	if err != nil {
		return nil, err
	}

	refreshToken, err := t.GenerateRefreshToken(subject)
	if err != nil {
		return nil, err
	}

	return &TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int64(t.config.JWT.AccessTokenTTL.Seconds()),
	}, nil
}

// ParseAndVerify decodes the token and checks its signature and expiry
// against wall-clock now. An otherwise well-formed but expired token is
// reported as ErrTokenExpired, not ErrTokenMalformed.
func (t *TokenService) ParseAndVerify(tokenString string) (*Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return t.signingKey()
	})

	switch {
	case err == nil:
		return claims, nil
	case errors.Is(err, ErrMissingSigningKey), errors.Is(err, ErrInvalidSigningKey):
		return nil, err
	case errors.Is(err, jwt.ErrTokenExpired):
		return nil, ErrTokenExpired
	default:
		return nil, ErrTokenMalformed
	}
}

// ExtractSubject reads the subject claim without verifying the token.
// Callers must follow up with IsValid before trusting the result.
func (t *TokenService) ExtractSubject(tokenString string) (string, error) {
	claims := &Claims{}
	if _, _, err := jwt.NewParser().ParseUnverified(tokenString, claims); err != nil {
		return "", ErrTokenMalformed
	}
	return claims.Subject, nil
}

// IsValid reports whether the token verifies against the current signing
// key, has not expired and was issued for expectedSubject. Verification
// failures of any kind come back as false, never as an error.
func (t *TokenService) IsValid(tokenString, expectedSubject string) bool {
	claims, err := t.ParseAndVerify(tokenString)
	if err != nil {
		return false
	}
	return claims.Subject == expectedSubject
}

// RenewAccess mints a fresh access token from a still-valid refresh
// token. Possession of the refresh token is the only proof required; no
// credential or principal re-check happens here.
func (t *TokenService) RenewAccess(refreshToken string) (string, error) {
	claims, err := t.ParseAndVerify(refreshToken)
	if err != nil {
		if errors.Is(err, ErrTokenExpired) {
			return "", ErrRefreshTokenExpired
		}
		return "", err
	}
	return t.GenerateAccessToken(claims.Subject)
}
