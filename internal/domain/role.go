package domain

// Role enumerates the closed set of role tags a user may carry.
type Role string

const (
	RoleSuperAdmin     Role = "SUPER_ADMIN"
	RoleBusinessAdmin  Role = "BUSINESS_ADMIN"
	RoleSalesManager   Role = "SALES_MANAGER"
	RoleSalesAgent     Role = "SALES_AGENT"
	RoleSupportManager Role = "SUPPORT_MANAGER"
	RoleSupportAgent   Role = "SUPPORT_AGENT"
	RoleFinance        Role = "FINANCE"
	RoleViewer         Role = "VIEWER"
	RoleCustomer       Role = "CUSTOMER"
)

// AllRoles lists every known role tag.
var AllRoles = []Role{
	RoleSuperAdmin,
	RoleBusinessAdmin,
	RoleSalesManager,
	RoleSalesAgent,
	RoleSupportManager,
	RoleSupportAgent,
	RoleFinance,
	RoleViewer,
	RoleCustomer,
}

// ValidRole reports whether the tag belongs to the closed role set.
func ValidRole(r Role) bool {
	for _, known := range AllRoles {
		if known == r {
			return true
		}
	}
	return false
}
