package service

import (
	"context"
	"net/url"

	"silant-backend/internal/access"
	"silant-backend/internal/apperr"
	"silant-backend/internal/defaults"
	"silant-backend/internal/listing"
	"silant-backend/internal/model"
)

func (s *Service) ListClaims(ctx context.Context, actor access.Actor, params url.Values) ([]model.Claim, error) {
	if err := access.Authorize(actor, access.ResourceClaim, access.ActionList); err != nil {
		return nil, err
	}
	q, err := listing.Parse(listing.Claims, params)
	if err != nil {
		return nil, err
	}
	out, err := s.store.ListClaims(ctx, access.VisibilityFor(actor, access.ResourceClaim), q)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return out, nil
}

func (s *Service) GetClaim(ctx context.Context, actor access.Actor, id int64) (*model.Claim, error) {
	if err := access.Authorize(actor, access.ResourceClaim, access.ActionRead); err != nil {
		return nil, err
	}
	c, err := s.store.GetClaim(ctx, id)
	if err != nil {
		return nil, storeErr(err, "claim")
	}
	if !access.VisibilityFor(actor, access.ResourceClaim).AllowsMachine(c.Machine) {
		return nil, apperr.NotFound("claim not found")
	}
	return c, nil
}

func (s *Service) CreateClaim(ctx context.Context, actor access.Actor, in ClaimInput) (*model.Claim, error) {
	if err := access.Authorize(actor, access.ResourceClaim, access.ActionCreate); err != nil {
		return nil, err
	}
	var fe apperr.FieldErrors
	machine, err := s.targetMachine(ctx, actor, &fe, in.Machine, false)
	if err != nil {
		return nil, err
	}

	c := &model.Claim{}
	if err := s.applyClaim(ctx, actor, &fe, c, machine, in, false); err != nil {
		return nil, err
	}
	if err := s.store.CreateClaim(ctx, c); err != nil {
		return nil, apperr.Internal(err)
	}
	return s.reloadClaim(ctx, c.ID)
}

func (s *Service) UpdateClaim(ctx context.Context, actor access.Actor, id int64, in ClaimInput, partial bool) (*model.Claim, error) {
	if err := access.Authorize(actor, access.ResourceClaim, access.ActionUpdate); err != nil {
		return nil, err
	}
	c, err := s.store.GetClaim(ctx, id)
	if err != nil {
		return nil, storeErr(err, "claim")
	}
	if !access.VisibilityFor(actor, access.ResourceClaim).AllowsMachine(c.Machine) {
		return nil, apperr.Forbidden("claim is not accessible")
	}

	var fe apperr.FieldErrors
	machine := c.Machine
	if in.Machine != nil || !partial {
		target, err := s.targetMachine(ctx, actor, &fe, in.Machine, partial)
		if err != nil {
			return nil, err
		}
		if target != nil {
			machine = target
		}
	}

	if err := s.applyClaim(ctx, actor, &fe, c, machine, in, partial); err != nil {
		return nil, err
	}
	if err := s.store.UpdateClaim(ctx, c); err != nil {
		return nil, apperr.Internal(err)
	}
	return s.reloadClaim(ctx, c.ID)
}

func (s *Service) DeleteClaim(ctx context.Context, actor access.Actor, id int64) error {
	if err := access.Authorize(actor, access.ResourceClaim, access.ActionDelete); err != nil {
		return err
	}
	c, err := s.store.GetClaim(ctx, id)
	if err != nil {
		return storeErr(err, "claim")
	}
	if !access.VisibilityFor(actor, access.ResourceClaim).AllowsMachine(c.Machine) {
		return apperr.Forbidden("claim is not accessible")
	}
	if err := s.store.DeleteClaim(ctx, id); err != nil {
		return storeErr(err, "claim")
	}
	return nil
}

// ClaimDefaults returns the service company a new claim by actor would get.
func (s *Service) ClaimDefaults(ctx context.Context, actor access.Actor, machineID *int64) (defaults.Resolution, error) {
	if err := access.Authorize(actor, access.ResourceClaim, access.ActionCreate); err != nil {
		return defaults.Resolution{}, err
	}
	return s.formDefaults(ctx, actor, defaults.RecordClaim, machineID)
}

func (s *Service) reloadClaim(ctx context.Context, id int64) (*model.Claim, error) {
	c, err := s.store.GetClaim(ctx, id)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return c, nil
}

func (s *Service) applyClaim(ctx context.Context, actor access.Actor, fe *apperr.FieldErrors, c *model.Claim, machine *model.Machine, in ClaimInput, partial bool) error {
	if err := s.checkStruct(fe, in); err != nil {
		return err
	}
	requireText(fe, "failure_date", in.FailureDate, partial)
	requireValue(fe, "operating_time", in.OperatingTime, partial)
	requireText(fe, "failure_description", in.FailureDescription, partial)
	requireText(fe, "recovery_date", in.RecoveryDate, partial)
	failure, hasFailure := parseDate(fe, "failure_date", in.FailureDate)
	recovery, hasRecovery := parseDate(fe, "recovery_date", in.RecoveryDate)

	effFailure, effRecovery := c.FailureDate, c.RecoveryDate
	if hasFailure {
		effFailure = failure
	}
	if hasRecovery {
		effRecovery = recovery
	}
	datesKnown := !effFailure.IsZero() && !effRecovery.IsZero()
	if (hasFailure || hasRecovery) && datesKnown && effRecovery.Before(effFailure) {
		fe.Add("recovery_date", "before_failure_date", "recovery date must not precede the failure date")
	}

	for _, ref := range []struct {
		field    string
		category string
		id       *int64
	}{
		{"failed_unit", model.CategoryFailureUnit, in.FailedUnit},
		{"recovery_method", model.CategoryRecoveryMethod, in.RecoveryMethod},
	} {
		if err := s.checkDirectoryRef(ctx, fe, ref.field, ref.category, ref.id); err != nil {
			return err
		}
	}
	company, err := s.resolveCompany(ctx, actor, fe, defaults.RecordClaim, machine, c.ServiceCompanyID, in.ServiceCompany, partial)
	if err != nil {
		return err
	}
	if err := fe.Err(); err != nil {
		return err
	}

	if machine != nil {
		c.MachineID = machine.ID
	}
	c.FailureDate, c.RecoveryDate = effFailure, effRecovery
	if in.OperatingTime != nil {
		c.OperatingTime = *in.OperatingTime
	}
	setRef(&c.FailedUnitID, in.FailedUnit, partial)
	setText(&c.FailureDescription, in.FailureDescription, partial)
	setRef(&c.RecoveryMethodID, in.RecoveryMethod, partial)
	setText(&c.UsedParts, in.UsedParts, partial)
	switch {
	case in.Downtime != nil:
		c.Downtime = *in.Downtime
	case (hasFailure || hasRecovery) && datesKnown:
		c.Downtime = model.DowntimeDays(effFailure, effRecovery)
	}
	c.ServiceCompanyID = company
	return nil
}
