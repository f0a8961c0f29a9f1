package access

import "silant-backend/internal/model"

// VisibilityKind is the shape of a row filter.
type VisibilityKind int

const (
	// VisibleNone matches no rows.
	VisibleNone VisibilityKind = iota
	// VisibleAll matches every row.
	VisibleAll
	// VisibleClientOwned matches machines whose client user is UserID.
	VisibleClientOwned
	// VisibleServiceOwned matches machines whose service user is UserID.
	VisibleServiceOwned
)

// Visibility is a row filter over machines. Maintenance and Claim rows are
// filtered through their parent machine. The store translates it to SQL;
// Allows evaluates it in memory.
type Visibility struct {
	Kind   VisibilityKind
	UserID int64
}

// MachineVisibility returns the machines the actor may see.
func MachineVisibility(a Actor) Visibility {
	if !a.Authenticated() {
		return Visibility{Kind: VisibleNone}
	}
	switch a.Role {
	case model.RoleManager:
		return Visibility{Kind: VisibleAll}
	case model.RoleClient:
		return Visibility{Kind: VisibleClientOwned, UserID: a.UserID}
	case model.RoleService:
		return Visibility{Kind: VisibleServiceOwned, UserID: a.UserID}
	default:
		return Visibility{Kind: VisibleNone}
	}
}

// DirectoryVisibility returns VisibleAll for client, service and manager
// actors and VisibleNone for everybody else.
func DirectoryVisibility(a Actor) Visibility {
	if !a.Authenticated() {
		return Visibility{Kind: VisibleNone}
	}
	switch a.Role {
	case model.RoleManager, model.RoleClient, model.RoleService:
		return Visibility{Kind: VisibleAll}
	default:
		return Visibility{Kind: VisibleNone}
	}
}

// VisibilityFor returns the row filter for a resource.
func VisibilityFor(a Actor, r Resource) Visibility {
	switch r {
	case ResourceMachine, ResourceMaintenance, ResourceClaim:
		return MachineVisibility(a)
	case ResourceDirectory:
		return DirectoryVisibility(a)
	case ResourceUser:
		if a.Authenticated() && a.Role == model.RoleManager {
			return Visibility{Kind: VisibleAll}
		}
	}
	return Visibility{Kind: VisibleNone}
}

// Allows evaluates the filter against a machine's owners. Directory
// visibility only ever uses VisibleAll and VisibleNone, so it can be
// evaluated with nil owners.
func (v Visibility) Allows(clientUserID, serviceUserID *int64) bool {
	switch v.Kind {
	case VisibleAll:
		return true
	case VisibleClientOwned:
		return clientUserID != nil && *clientUserID == v.UserID
	case VisibleServiceOwned:
		return serviceUserID != nil && *serviceUserID == v.UserID
	default:
		return false
	}
}

// AllowsMachine is Allows applied to m. A nil machine is never visible.
func (v Visibility) AllowsMachine(m *model.Machine) bool {
	if m == nil {
		return false
	}
	return v.Allows(m.ClientUserID, m.ServiceUserID)
}
