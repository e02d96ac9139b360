package models

// RoleType defines the user role type
type RoleType string

const (
	RoleSuperAdmin RoleType = "SUPER_ADMIN"
	RoleAdmin      RoleType = "ADMIN"
	RoleTeacher    RoleType = "TEACHER"
	RoleStudent    RoleType = "STUDENT"
)

// AllRoles lists every role the system knows, in precedence order.
var AllRoles = []RoleType{RoleSuperAdmin, RoleAdmin, RoleTeacher, RoleStudent}

// IsAdministrative reports whether the role carries unrestricted record access.
func (r RoleType) IsAdministrative() bool {
	return r == RoleSuperAdmin || r == RoleAdmin
}
