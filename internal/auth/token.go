package auth

import (
	"encoding/base64"
	"fmt"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"

	"github.com/samraify/multicore-crm-new/internal/domain"
	apperrors "github.com/samraify/multicore-crm-new/pkg/util"
)

// minKeyBytes is the smallest acceptable signing key for HS512 (512 bits).
const minKeyBytes = 64

// TokenManager issues and validates identity tokens. It is stateless apart
// from the immutable signing key and safe for concurrent use.
type TokenManager struct {
	secret []byte
	ttl    time.Duration
}

// NewTokenManager builds a manager from the configured secret. The secret may
// be base64-encoded or raw bytes; anything shorter than 64 bytes is a fatal
// configuration error, surfaced here so startup fails rather than requests.
func NewTokenManager(secret string, ttl time.Duration) (*TokenManager, error) {
	keyBytes, err := base64.StdEncoding.DecodeString(secret)
	if err != nil {
		keyBytes = []byte(secret)
	}
	if len(keyBytes) < minKeyBytes {
		return nil, apperrors.NewConfiguration(fmt.Sprintf(
			"jwt secret is too short (%d bytes); HS512 requires at least %d bytes", len(keyBytes), minKeyBytes))
	}
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &TokenManager{secret: keyBytes, ttl: ttl}, nil
}

// Claims describes the identity token payload.
type Claims struct {
	UserID     string        `json:"user_id"`
	BusinessID *string       `json:"business_id,omitempty"`
	Roles      []domain.Role `json:"roles"`
	jwt.RegisteredClaims
}

// GenerateToken builds and signs a token for the user. The subject is the
// user's email when present, the user id otherwise.
func (tm *TokenManager) GenerateToken(user *domain.User) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(tm.ttl)

	subject := user.Email
	if subject == "" {
		subject = user.ID
	}

	claims := &Claims{
		UserID:     user.ID,
		BusinessID: user.BusinessID,
		Roles:      user.Roles,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS512, claims)
	tokenString, err := token.SignedString(tm.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return tokenString, expiresAt, nil
}

// ParseToken validates signature and expiry and returns the claims. Any
// malformed, expired or badly signed input yields an invalid-token error.
func (tm *TokenManager) ParseToken(tokenStr string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS512 {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return tm.secret, nil
	})
	if err != nil {
		return nil, apperrors.NewInvalidToken(err.Error())
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, apperrors.NewInvalidToken("invalid token claims")
	}
	return claims, nil
}
