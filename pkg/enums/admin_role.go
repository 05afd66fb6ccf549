package enums

import "fmt"

// AdminRole is the permission level of a back-office account.
type AdminRole string

const (
	AdminRoleOwner AdminRole = "owner"
	AdminRoleAdmin AdminRole = "admin"
)

var validAdminRoles = []AdminRole{
	AdminRoleOwner,
	AdminRoleAdmin,
}

// String implements fmt.Stringer.
func (r AdminRole) String() string {
	return string(r)
}

// IsValid reports whether the value is a known AdminRole.
func (r AdminRole) IsValid() bool {
	for _, candidate := range validAdminRoles {
		if candidate == r {
			return true
		}
	}
	return false
}

// ParseAdminRole converts raw input into an AdminRole.
func ParseAdminRole(value string) (AdminRole, error) {
	for _, candidate := range validAdminRoles {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid admin role %q", value)
}
