package auth

import (
	"github.com/gofiber/fiber/v2"

	"github.com/samraify/multicore-crm-new/internal/domain"
	apperrors "github.com/samraify/multicore-crm-new/pkg/util"
)

// Capability names a coarse permission derived from role tags.
type Capability string

const (
	CapTicketsRead  Capability = "tickets:read"
	CapTicketsWrite Capability = "tickets:write"
	CapPlatformAll  Capability = "platform:all"
)

// roleCapabilities is the exhaustive mapping from the closed role set to
// capabilities. Every role must appear here; there is no name-based lookup.
var roleCapabilities = map[domain.Role][]Capability{
	domain.RoleSuperAdmin:     {CapPlatformAll, CapTicketsRead, CapTicketsWrite},
	domain.RoleBusinessAdmin:  {CapTicketsRead, CapTicketsWrite},
	domain.RoleSalesManager:   {CapTicketsRead},
	domain.RoleSalesAgent:     {CapTicketsRead},
	domain.RoleSupportManager: {CapTicketsRead, CapTicketsWrite},
	domain.RoleSupportAgent:   {CapTicketsRead, CapTicketsWrite},
	domain.RoleFinance:        {CapTicketsRead},
	domain.RoleViewer:         {CapTicketsRead},
	domain.RoleCustomer:       {CapTicketsRead, CapTicketsWrite},
}

// HasCapability reports whether any of the roles grants the capability.
func HasCapability(roles []domain.Role, cap Capability) bool {
	for _, role := range roles {
		for _, granted := range roleCapabilities[role] {
			if granted == cap {
				return true
			}
		}
	}
	return false
}

// RequireCapability rejects unauthenticated (401) or under-privileged (403)
// requests. Authentication itself is established by AuthMiddleware; this gate
// is the only place a bad or missing token turns into a failure.
func RequireCapability(cap Capability) fiber.Handler {
	return func(c *fiber.Ctx) error {
		principal, ok := PrincipalFromContext(c)
		if !ok {
			return apperrors.NewUnauthorized("authentication required")
		}
		if !HasCapability(principal.Roles, cap) {
			return apperrors.NewForbidden("insufficient role")
		}
		return c.Next()
	}
}

// RequireAuthenticated ensures a principal is present without checking roles.
func RequireAuthenticated() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, ok := PrincipalFromContext(c); !ok {
			return apperrors.NewUnauthorized("authentication required")
		}
		return c.Next()
	}
}
