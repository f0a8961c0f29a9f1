// Package defaults computes the service company recorded on maintenance
// and claim writes.
package defaults

import (
	"context"

	"go.uber.org/zap"

	"silant-backend/internal/access"
	"silant-backend/internal/model"
)

// Record selects which set of rules applies.
type Record int

const (
	RecordMaintenance Record = iota
	RecordClaim
)

func (r Record) String() string {
	if r == RecordClaim {
		return "claim"
	}
	return "maintenance"
}

// DirectoryLookup finds a Directory row by category and name. It returns
// nil and no error when no row matches.
type DirectoryLookup interface {
	FindDirectory(ctx context.Context, category, name string) (*model.Directory, error)
}

// Resolution is the outcome of resolving the service company.
type Resolution struct {
	// ServiceCompany is the forced value; nil when no rule matched.
	ServiceCompany *model.Directory
	// Locked means the submitted value is ignored.
	Locked bool
	// LookupName is the company name that was searched for, if any.
	LookupName string
}

// Apply returns the service company id to persist given the submitted one.
func (r Resolution) Apply(submitted *int64) *int64 {
	if !r.Locked || r.ServiceCompany == nil {
		return submitted
	}
	id := r.ServiceCompany.ID
	return &id
}

// Resolver applies the service company rules:
//
//   - a service actor is its own service company, found by display name;
//   - a client performing maintenance uses the self-performed company;
//   - a client recording a claim gets the machine's service company, found
//     by the display name of the machine's service user.
//
// When the looked-up company does not exist the submitted value passes
// through unchanged and the miss is logged.
type Resolver struct {
	lookup DirectoryLookup
	logger *zap.Logger
}

// NewResolver creates a Resolver.
func NewResolver(lookup DirectoryLookup, logger *zap.Logger) *Resolver {
	return &Resolver{lookup: lookup, logger: logger}
}

// Resolve computes the resolution for actor writing a record of the given
// kind against machine. machine may be nil when it is not known yet, and
// must have ServiceUser loaded for the client claim rule.
func (r *Resolver) Resolve(ctx context.Context, actor access.Actor, rec Record, machine *model.Machine) (Resolution, error) {
	name, ok := companyName(actor, rec, machine)
	if !ok {
		return Resolution{}, nil
	}

	dir, err := r.lookup.FindDirectory(ctx, model.CategoryServiceCompany, name)
	if err != nil {
		return Resolution{}, err
	}
	if dir == nil {
		r.logger.Warn("service company lookup missed",
			zap.Int64("user_id", actor.UserID),
			zap.String("role", string(actor.Role)),
			zap.Stringer("record", rec),
			zap.String("name", name),
		)
		return Resolution{LookupName: name}, nil
	}
	return Resolution{ServiceCompany: dir, Locked: true, LookupName: name}, nil
}

func companyName(actor access.Actor, rec Record, machine *model.Machine) (string, bool) {
	if !actor.Authenticated() {
		return "", false
	}
	switch actor.Role {
	case model.RoleService:
		return actor.DisplayName, actor.DisplayName != ""
	case model.RoleClient:
		if rec == RecordMaintenance {
			return model.SelfServiceCompany, true
		}
		// Clients cannot write claims; kept so the rule holds if that changes.
		if machine != nil && machine.ServiceUser != nil {
			return machine.ServiceUser.DisplayName(), true
		}
	}
	return "", false
}
