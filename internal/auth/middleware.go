package auth

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/samraify/multicore-crm-new/internal/domain"
	"github.com/samraify/multicore-crm-new/internal/repository"
)

const principalKey = "auth_principal"

// Principal represents the authenticated caller. BusinessID is nil for
// platform-level accounts.
type Principal struct {
	UserID     string
	BusinessID *string
	Email      string
	Roles      []domain.Role
}

// HasRole reports whether the principal carries the given role tag.
func (p *Principal) HasRole(role domain.Role) bool {
	for _, r := range p.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// AuthMiddleware validates bearer tokens and loads principals. It never
// aborts the pipeline: a missing or bad token leaves the request
// unauthenticated and lets the downstream gates decide.
type AuthMiddleware struct {
	tokens *TokenManager
	users  repository.UserRepository
	logger *zap.Logger
}

// NewAuthMiddleware constructs middleware.
func NewAuthMiddleware(tokens *TokenManager, users repository.UserRepository, logger *zap.Logger) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens, users: users, logger: logger}
}

// Handle extracts and validates the bearer token when present. Validation
// failures are logged and swallowed; the request continues unauthenticated.
func (m *AuthMiddleware) Handle(c *fiber.Ctx) error {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return c.Next()
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		m.logger.Debug("malformed authorization header")
		return c.Next()
	}

	claims, err := m.tokens.ParseToken(parts[1])
	if err != nil {
		m.logger.Warn("token validation failed", zap.Error(err))
		return c.Next()
	}

	user, err := m.users.GetByID(c.Context(), claims.UserID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			m.logger.Warn("token subject unknown", zap.String("user_id", claims.UserID))
		} else {
			m.logger.Error("principal lookup failed", zap.Error(err))
		}
		return c.Next()
	}
	if user.Status != domain.UserStatusActive {
		m.logger.Warn("token subject suspended", zap.String("user_id", user.ID))
		return c.Next()
	}

	c.Locals(principalKey, &Principal{
		UserID:     user.ID,
		BusinessID: user.BusinessID,
		Email:      user.Email,
		Roles:      user.Roles,
	})
	return c.Next()
}

// PrincipalFromContext retrieves the authenticated entity.
func PrincipalFromContext(c *fiber.Ctx) (*Principal, bool) {
	val := c.Locals(principalKey)
	if val == nil {
		return nil, false
	}
	principal, ok := val.(*Principal)
	return principal, ok
}
