package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/samraify/multicore-crm-new/internal/domain"
)

func TestEveryRoleHasCapabilities(t *testing.T) {
	for _, role := range domain.AllRoles {
		caps, ok := roleCapabilities[role]
		assert.Truef(t, ok, "role %s missing from capability map", role)
		assert.NotEmptyf(t, caps, "role %s grants nothing", role)
	}
}

func TestHasCapability(t *testing.T) {
	assert.True(t, HasCapability([]domain.Role{domain.RoleSupportAgent}, CapTicketsWrite))
	assert.True(t, HasCapability([]domain.Role{domain.RoleViewer}, CapTicketsRead))
	assert.False(t, HasCapability([]domain.Role{domain.RoleViewer}, CapTicketsWrite))
	assert.False(t, HasCapability([]domain.Role{domain.RoleFinance}, CapTicketsWrite))
	assert.False(t, HasCapability(nil, CapTicketsRead))
	assert.True(t, HasCapability([]domain.Role{domain.RoleViewer, domain.RoleSupportAgent}, CapTicketsWrite))
}

func TestOnlySuperAdminHoldsPlatformCapability(t *testing.T) {
	for _, role := range domain.AllRoles {
		granted := HasCapability([]domain.Role{role}, CapPlatformAll)
		if role == domain.RoleSuperAdmin {
			assert.True(t, granted)
		} else {
			assert.Falsef(t, granted, "role %s must not hold platform capability", role)
		}
	}
}
