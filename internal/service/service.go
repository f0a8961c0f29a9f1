// Package service implements the record-keeping operations. Every
// operation takes the acting identity explicitly and returns
// *apperr.Error values for anything a caller should see.
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"silant-backend/internal/access"
	"silant-backend/internal/apperr"
	"silant-backend/internal/auth"
	"silant-backend/internal/defaults"
	"silant-backend/internal/model"
	"silant-backend/internal/store"
)

// DateLayout is the wire format of every date.
const DateLayout = "2006-01-02"

// Service holds shared dependencies for all operations.
type Service struct {
	store    store.Store
	resolver *defaults.Resolver
	tokens   *auth.Tokens
	validate *validator.Validate
	log      *zap.Logger
}

// New creates a Service.
func New(s store.Store, tokens *auth.Tokens, log *zap.Logger) *Service {
	return &Service{
		store:    s,
		resolver: defaults.NewResolver(s, log),
		tokens:   tokens,
		validate: apperr.NewValidator(),
		log:      log,
	}
}

// storeErr classifies a store failure.
func storeErr(err error, what string) error {
	if errors.Is(err, store.ErrNotFound) {
		return apperr.NotFound(what + " not found")
	}
	return apperr.Internal(err)
}

func (s *Service) checkStruct(fe *apperr.FieldErrors, in any) error {
	if err := fe.AddValidatorErrors(s.validate.Struct(in)); err != nil {
		return apperr.Internal(err)
	}
	return nil
}

// requireText flags a missing or blank value. Partial writes only check
// values that were sent.
func requireText(fe *apperr.FieldErrors, field string, v *string, partial bool) {
	if partial && v == nil {
		return
	}
	if (v == nil || strings.TrimSpace(*v) == "") && !fe.Has(field) {
		fe.Add(field, "required", "this field is required")
	}
}

func requireValue[T any](fe *apperr.FieldErrors, field string, v *T, partial bool) {
	if !partial && v == nil && !fe.Has(field) {
		fe.Add(field, "required", "this field is required")
	}
}

// parseDate parses a submitted date that has not already failed validation.
func parseDate(fe *apperr.FieldErrors, field string, v *string) (time.Time, bool) {
	if v == nil || fe.Has(field) {
		return time.Time{}, false
	}
	d, err := time.Parse(DateLayout, strings.TrimSpace(*v))
	if err != nil {
		fe.Add(field, "datetime", "must be a date in "+DateLayout+" format")
		return time.Time{}, false
	}
	return d, true
}

func setText(dst *string, v *string, partial bool) {
	switch {
	case v != nil:
		*dst = strings.TrimSpace(*v)
	case !partial:
		*dst = ""
	}
}

func setRef(dst **int64, v *int64, partial bool) {
	if v != nil || !partial {
		*dst = v
	}
}

// checkDirectoryRef verifies that id names a Directory row of category.
func (s *Service) checkDirectoryRef(ctx context.Context, fe *apperr.FieldErrors, field, category string, id *int64) error {
	if id == nil {
		return nil
	}
	d, err := s.store.GetDirectory(ctx, *id)
	if errors.Is(err, store.ErrNotFound) {
		fe.Add(field, "does_not_exist", fmt.Sprintf("directory entry %d does not exist", *id))
		return nil
	}
	if err != nil {
		return apperr.Internal(err)
	}
	if d.Category != category {
		fe.Add(field, "invalid_choice", fmt.Sprintf("directory entry %d is not a %q entry", *id, category))
	}
	return nil
}

// checkUserRef verifies that id names a user with role.
func (s *Service) checkUserRef(ctx context.Context, fe *apperr.FieldErrors, field string, role model.Role, id *int64) error {
	if id == nil {
		return nil
	}
	u, err := s.store.GetUser(ctx, *id)
	if errors.Is(err, store.ErrNotFound) {
		fe.Add(field, "does_not_exist", fmt.Sprintf("user %d does not exist", *id))
		return nil
	}
	if err != nil {
		return apperr.Internal(err)
	}
	if u.Role != role {
		fe.Add(field, "invalid_choice", fmt.Sprintf("user %d does not have the %s role", *id, role))
	}
	return nil
}

// targetMachine loads the machine a maintenance or claim write points at.
// A missing id or unknown machine is a field error; a machine the actor
// cannot see is Forbidden.
func (s *Service) targetMachine(ctx context.Context, actor access.Actor, fe *apperr.FieldErrors, id *int64, partial bool) (*model.Machine, error) {
	if id == nil {
		requireValue(fe, "machine", id, partial)
		return nil, nil
	}
	m, err := s.store.GetMachine(ctx, *id)
	if errors.Is(err, store.ErrNotFound) {
		fe.Add("machine", "does_not_exist", fmt.Sprintf("machine %d does not exist", *id))
		return nil, nil
	}
	if err != nil {
		return nil, apperr.Internal(err)
	}
	if !access.MachineVisibility(actor).AllowsMachine(m) {
		return nil, apperr.Forbidden("machine is not accessible")
	}
	return m, nil
}

// resolveCompany runs the service company rules and returns the id to
// persist. The submitted id is validated only when it is kept.
func (s *Service) resolveCompany(ctx context.Context, actor access.Actor, fe *apperr.FieldErrors, rec defaults.Record, machine *model.Machine, current, submitted *int64, partial bool) (*int64, error) {
	res, err := s.resolver.Resolve(ctx, actor, rec, machine)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	if res.Locked {
		return res.Apply(submitted), nil
	}

	keep := current
	if submitted != nil || !partial {
		keep = submitted
		if err := s.checkDirectoryRef(ctx, fe, "service_company", model.CategoryServiceCompany, submitted); err != nil {
			return nil, err
		}
	}
	return keep, nil
}
