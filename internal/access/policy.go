package access

import (
	"fmt"

	"silant-backend/internal/apperr"
	"silant-backend/internal/model"
)

// Resource is a kind of record access is decided for.
type Resource string

const (
	ResourceMachine     Resource = "machine"
	ResourceMaintenance Resource = "maintenance"
	ResourceClaim       Resource = "claim"
	ResourceDirectory   Resource = "directory"
	ResourceUser        Resource = "user"
)

// Action is an operation on a resource.
type Action string

const (
	ActionList   Action = "list"
	ActionRead   Action = "read"
	ActionCreate Action = "create"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)

// Authorize decides whether the actor's role may perform action on resource
// at all. Row-level checks are done separately against Visibility.
// It returns an Unauthenticated or Forbidden *apperr.Error, or nil.
func Authorize(a Actor, r Resource, act Action) error {
	if !a.Authenticated() {
		return apperr.Unauthenticated("authentication required")
	}
	if permitted(a.Role, r, act) {
		return nil
	}
	return apperr.Forbidden(fmt.Sprintf("role %q may not %s %s records", a.Role, act, r))
}

func permitted(role model.Role, r Resource, act Action) bool {
	reading := act == ActionList || act == ActionRead
	writing := act == ActionCreate || act == ActionUpdate

	switch role {
	case model.RoleManager:
		return true
	case model.RoleService:
		if r == ResourceUser {
			return false
		}
		if reading {
			return true
		}
		return writing && (r == ResourceMaintenance || r == ResourceClaim)
	case model.RoleClient:
		if r == ResourceUser {
			return false
		}
		if reading {
			return true
		}
		return writing && r == ResourceMaintenance
	case model.RoleGuest:
		// Reads succeed against an empty visibility.
		return reading && r != ResourceUser
	default:
		return false
	}
}
