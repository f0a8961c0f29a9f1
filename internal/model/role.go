package model

import "fmt"

// Role is the single access role carried by a user account.
type Role string

const (
	RoleGuest   Role = "guest"
	RoleClient  Role = "client"
	RoleService Role = "service"
	RoleManager Role = "manager"
)

// Roles lists every known role in display order.
var Roles = []Role{RoleGuest, RoleClient, RoleService, RoleManager}

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleGuest, RoleClient, RoleService, RoleManager:
		return true
	}
	return false
}

// ParseRole converts a string into a Role.
func ParseRole(s string) (Role, error) {
	r := Role(s)
	if !r.Valid() {
		return "", fmt.Errorf("unknown role %q", s)
	}
	return r, nil
}
