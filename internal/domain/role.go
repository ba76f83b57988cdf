package domain

import "strings"

// Role classifies an Identity. Values match the legacy role_id column.
type Role uint8

const (
	RoleUnknown   Role = 0
	RoleMember    Role = 1 // Buys vouchers through an affiliate
	RoleAffiliate Role = 2 // Earns commission on referred members
	RoleVendor    Role = 3 // Issues and redeems vouchers
	RoleAdmin     Role = 4 // Unrestricted access

	legacyVendorRoleID = 5 // Older vendor accounts were created with role_id 5
)

// String returns the canonical label used in tokens and responses
func (r Role) String() string {
	switch r {
	case RoleMember:
		return "member"
	case RoleAffiliate:
		return "affiliate"
	case RoleVendor:
		return "vendor"
	case RoleAdmin:
		return "admin"
	default:
		return "unknown"
	}
}

// Valid reports whether r is one of the four known roles
func (r Role) Valid() bool {
	return r >= RoleMember && r <= RoleAdmin
}

// ResolveRole maps a role label or a numeric role id onto a Role.
// A recognised label wins over the id.
func ResolveRole(label string, id int) Role {
	switch strings.ToLower(strings.TrimSpace(label)) {
	case "admin":
		return RoleAdmin
	case "vendor":
		return RoleVendor
	case "affiliate":
		return RoleAffiliate
	case "member", "customer":
		return RoleMember
	}
	switch id {
	case int(RoleMember):
		return RoleMember
	case int(RoleAffiliate):
		return RoleAffiliate
	case int(RoleVendor), legacyVendorRoleID:
		return RoleVendor
	case int(RoleAdmin):
		return RoleAdmin
	}
	return RoleUnknown
}
