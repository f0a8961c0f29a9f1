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

func (s *Service) ListMaintenances(ctx context.Context, actor access.Actor, params url.Values) ([]model.Maintenance, error) {
	if err := access.Authorize(actor, access.ResourceMaintenance, access.ActionList); err != nil {
		return nil, err
	}
	q, err := listing.Parse(listing.Maintenances, params)
	if err != nil {
		return nil, err
	}
	out, err := s.store.ListMaintenances(ctx, access.VisibilityFor(actor, access.ResourceMaintenance), q)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return out, nil
}

func (s *Service) GetMaintenance(ctx context.Context, actor access.Actor, id int64) (*model.Maintenance, error) {
	if err := access.Authorize(actor, access.ResourceMaintenance, access.ActionRead); err != nil {
		return nil, err
	}
	m, err := s.store.GetMaintenance(ctx, id)
	if err != nil {
		return nil, storeErr(err, "maintenance")
	}
	if !access.VisibilityFor(actor, access.ResourceMaintenance).AllowsMachine(m.Machine) {
		return nil, apperr.NotFound("maintenance not found")
	}
	return m, nil
}

func (s *Service) CreateMaintenance(ctx context.Context, actor access.Actor, in MaintenanceInput) (*model.Maintenance, error) {
	if err := access.Authorize(actor, access.ResourceMaintenance, access.ActionCreate); err != nil {
		return nil, err
	}
	var fe apperr.FieldErrors
	machine, err := s.targetMachine(ctx, actor, &fe, in.Machine, false)
	if err != nil {
		return nil, err
	}

	m := &model.Maintenance{}
	if err := s.applyMaintenance(ctx, actor, &fe, m, machine, in, false); err != nil {
		return nil, err
	}
	if err := s.store.CreateMaintenance(ctx, m); err != nil {
		return nil, apperr.Internal(err)
	}
	return s.reloadMaintenance(ctx, m.ID)
}

func (s *Service) UpdateMaintenance(ctx context.Context, actor access.Actor, id int64, in MaintenanceInput, partial bool) (*model.Maintenance, error) {
	if err := access.Authorize(actor, access.ResourceMaintenance, access.ActionUpdate); err != nil {
		return nil, err
	}
	m, err := s.store.GetMaintenance(ctx, id)
	if err != nil {
		return nil, storeErr(err, "maintenance")
	}
	if !access.VisibilityFor(actor, access.ResourceMaintenance).AllowsMachine(m.Machine) {
		return nil, apperr.Forbidden("maintenance is not accessible")
	}

	var fe apperr.FieldErrors
	machine := m.Machine
	if in.Machine != nil || !partial {
		target, err := s.targetMachine(ctx, actor, &fe, in.Machine, partial)
		if err != nil {
			return nil, err
		}
		if target != nil {
			machine = target
		}
	}

	if err := s.applyMaintenance(ctx, actor, &fe, m, machine, in, partial); err != nil {
		return nil, err
	}
	if err := s.store.UpdateMaintenance(ctx, m); err != nil {
		return nil, apperr.Internal(err)
	}
	return s.reloadMaintenance(ctx, m.ID)
}

func (s *Service) DeleteMaintenance(ctx context.Context, actor access.Actor, id int64) error {
	if err := access.Authorize(actor, access.ResourceMaintenance, access.ActionDelete); err != nil {
		return err
	}
	m, err := s.store.GetMaintenance(ctx, id)
	if err != nil {
		return storeErr(err, "maintenance")
	}
	if !access.VisibilityFor(actor, access.ResourceMaintenance).AllowsMachine(m.Machine) {
		return apperr.Forbidden("maintenance is not accessible")
	}
	if err := s.store.DeleteMaintenance(ctx, id); err != nil {
		return storeErr(err, "maintenance")
	}
	return nil
}

// MaintenanceDefaults returns the service company a new maintenance record
// by actor would get, optionally for a given machine.
func (s *Service) MaintenanceDefaults(ctx context.Context, actor access.Actor, machineID *int64) (defaults.Resolution, error) {
	if err := access.Authorize(actor, access.ResourceMaintenance, access.ActionCreate); err != nil {
		return defaults.Resolution{}, err
	}
	return s.formDefaults(ctx, actor, defaults.RecordMaintenance, machineID)
}

func (s *Service) formDefaults(ctx context.Context, actor access.Actor, rec defaults.Record, machineID *int64) (defaults.Resolution, error) {
	var machine *model.Machine
	if machineID != nil {
		m, err := s.store.GetMachine(ctx, *machineID)
		if err != nil {
			return defaults.Resolution{}, storeErr(err, "machine")
		}
		if !access.MachineVisibility(actor).AllowsMachine(m) {
			return defaults.Resolution{}, apperr.Forbidden("machine is not accessible")
		}
		machine = m
	}
	res, err := s.resolver.Resolve(ctx, actor, rec, machine)
	if err != nil {
		return defaults.Resolution{}, apperr.Internal(err)
	}
	return res, nil
}

func (s *Service) reloadMaintenance(ctx context.Context, id int64) (*model.Maintenance, error) {
	m, err := s.store.GetMaintenance(ctx, id)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return m, nil
}

func (s *Service) applyMaintenance(ctx context.Context, actor access.Actor, fe *apperr.FieldErrors, m *model.Maintenance, machine *model.Machine, in MaintenanceInput, partial bool) error {
	if err := s.checkStruct(fe, in); err != nil {
		return err
	}
	requireText(fe, "date", in.Date, partial)
	requireValue(fe, "operating_time", in.OperatingTime, partial)
	requireText(fe, "order_number", in.OrderNumber, partial)
	requireText(fe, "order_date", in.OrderDate, partial)
	date, hasDate := parseDate(fe, "date", in.Date)
	orderDate, hasOrderDate := parseDate(fe, "order_date", in.OrderDate)

	if err := s.checkDirectoryRef(ctx, fe, "maintenance_type", model.CategoryMaintenanceType, in.MaintenanceType); err != nil {
		return err
	}
	company, err := s.resolveCompany(ctx, actor, fe, defaults.RecordMaintenance, machine, m.ServiceCompanyID, in.ServiceCompany, partial)
	if err != nil {
		return err
	}
	if err := fe.Err(); err != nil {
		return err
	}

	if machine != nil {
		m.MachineID = machine.ID
	}
	setRef(&m.MaintenanceTypeID, in.MaintenanceType, partial)
	if hasDate {
		m.Date = date
	}
	if in.OperatingTime != nil {
		m.OperatingTime = *in.OperatingTime
	}
	setText(&m.OrderNumber, in.OrderNumber, partial)
	if hasOrderDate {
		m.OrderDate = orderDate
	}
	m.ServiceCompanyID = company
	return nil
}
