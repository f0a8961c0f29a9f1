package service

import (
	"context"
	"errors"
	"net/url"
	"strings"

	"silant-backend/internal/access"
	"silant-backend/internal/apperr"
	"silant-backend/internal/listing"
	"silant-backend/internal/model"
	"silant-backend/internal/store"
)

func (s *Service) ListMachines(ctx context.Context, actor access.Actor, params url.Values) ([]model.Machine, error) {
	if err := access.Authorize(actor, access.ResourceMachine, access.ActionList); err != nil {
		return nil, err
	}
	q, err := listing.Parse(listing.Machines, params)
	if err != nil {
		return nil, err
	}
	machines, err := s.store.ListMachines(ctx, access.MachineVisibility(actor), q)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return machines, nil
}

// GetMachine returns NotFound for machines outside the actor's visibility.
func (s *Service) GetMachine(ctx context.Context, actor access.Actor, id int64) (*model.Machine, error) {
	if err := access.Authorize(actor, access.ResourceMachine, access.ActionRead); err != nil {
		return nil, err
	}
	m, err := s.store.GetMachine(ctx, id)
	if err != nil {
		return nil, storeErr(err, "machine")
	}
	if !access.MachineVisibility(actor).AllowsMachine(m) {
		return nil, apperr.NotFound("machine not found")
	}
	return m, nil
}

func (s *Service) CreateMachine(ctx context.Context, actor access.Actor, in MachineInput) (*model.Machine, error) {
	if err := access.Authorize(actor, access.ResourceMachine, access.ActionCreate); err != nil {
		return nil, err
	}
	m := &model.Machine{}
	if err := s.applyMachine(ctx, m, in, false); err != nil {
		return nil, err
	}
	if err := s.store.CreateMachine(ctx, m); err != nil {
		return nil, machineWriteErr(err)
	}
	return s.reloadMachine(ctx, m.ID)
}

// UpdateMachine replaces (partial=false) or patches a machine.
func (s *Service) UpdateMachine(ctx context.Context, actor access.Actor, id int64, in MachineInput, partial bool) (*model.Machine, error) {
	if err := access.Authorize(actor, access.ResourceMachine, access.ActionUpdate); err != nil {
		return nil, err
	}
	m, err := s.store.GetMachine(ctx, id)
	if err != nil {
		return nil, storeErr(err, "machine")
	}
	if !access.MachineVisibility(actor).AllowsMachine(m) {
		return nil, apperr.Forbidden("machine is not accessible")
	}
	if err := s.applyMachine(ctx, m, in, partial); err != nil {
		return nil, err
	}
	if err := s.store.UpdateMachine(ctx, m); err != nil {
		return nil, machineWriteErr(err)
	}
	return s.reloadMachine(ctx, m.ID)
}

// DeleteMachine deletes a machine together with its maintenance and claims.
func (s *Service) DeleteMachine(ctx context.Context, actor access.Actor, id int64) error {
	if err := access.Authorize(actor, access.ResourceMachine, access.ActionDelete); err != nil {
		return err
	}
	m, err := s.store.GetMachine(ctx, id)
	if err != nil {
		return storeErr(err, "machine")
	}
	if !access.MachineVisibility(actor).AllowsMachine(m) {
		return apperr.Forbidden("machine is not accessible")
	}
	if err := s.store.DeleteMachine(ctx, id); err != nil {
		return storeErr(err, "machine")
	}
	return nil
}

// LookupMachine finds a machine by serial number for the public, anonymous
// lookup.
func (s *Service) LookupMachine(ctx context.Context, serial string) (*model.Machine, error) {
	serial = strings.TrimSpace(serial)
	if serial == "" {
		return nil, apperr.Validation(apperr.FieldError{
			Field:   "serial_number",
			Code:    "required",
			Message: "serial_number query parameter is required",
		})
	}
	m, err := s.store.GetMachineBySerial(ctx, serial)
	if err != nil {
		return nil, storeErr(err, "machine")
	}
	return m, nil
}

func (s *Service) reloadMachine(ctx context.Context, id int64) (*model.Machine, error) {
	m, err := s.store.GetMachine(ctx, id)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return m, nil
}

func machineWriteErr(err error) error {
	if errors.Is(err, store.ErrDuplicate) {
		return apperr.Validation(apperr.FieldError{
			Field:   "serial_number",
			Code:    "unique",
			Message: "a machine with this serial number already exists",
		})
	}
	return apperr.Internal(err)
}

func (s *Service) applyMachine(ctx context.Context, m *model.Machine, in MachineInput, partial bool) error {
	var fe apperr.FieldErrors
	if err := s.checkStruct(&fe, in); err != nil {
		return err
	}

	for _, f := range []struct {
		name  string
		value *string
	}{
		{"serial_number", in.SerialNumber},
		{"engine_serial", in.EngineSerial},
		{"transmission_serial", in.TransmissionSerial},
		{"drive_axle_serial", in.DriveAxleSerial},
		{"steer_axle_serial", in.SteerAxleSerial},
		{"shipment_date", in.ShipmentDate},
		{"client", in.Client},
		{"consignee", in.Consignee},
		{"delivery_address", in.DeliveryAddress},
		{"equipment", in.Equipment},
	} {
		requireText(&fe, f.name, f.value, partial)
	}
	shipment, hasShipment := parseDate(&fe, "shipment_date", in.ShipmentDate)

	for _, ref := range []struct {
		field    string
		category string
		id       *int64
	}{
		{"model", model.CategoryMachineModel, in.Model},
		{"engine_model", model.CategoryEngineModel, in.EngineModel},
		{"transmission_model", model.CategoryTransmissionModel, in.TransmissionModel},
		{"drive_axle_model", model.CategoryDriveAxleModel, in.DriveAxleModel},
		{"steer_axle_model", model.CategorySteerAxleModel, in.SteerAxleModel},
	} {
		if err := s.checkDirectoryRef(ctx, &fe, ref.field, ref.category, ref.id); err != nil {
			return err
		}
	}
	if err := s.checkUserRef(ctx, &fe, "client_user", model.RoleClient, in.ClientUser); err != nil {
		return err
	}
	if err := s.checkUserRef(ctx, &fe, "service_user", model.RoleService, in.ServiceUser); err != nil {
		return err
	}

	if in.SerialNumber != nil && !fe.Has("serial_number") {
		taken, err := s.store.SerialNumberTaken(ctx, strings.TrimSpace(*in.SerialNumber), m.ID)
		if err != nil {
			return apperr.Internal(err)
		}
		if taken {
			fe.Add("serial_number", "unique", "a machine with this serial number already exists")
		}
	}
	if err := fe.Err(); err != nil {
		return err
	}

	setText(&m.SerialNumber, in.SerialNumber, partial)
	setRef(&m.MachineModelID, in.Model, partial)
	setRef(&m.EngineModelID, in.EngineModel, partial)
	setText(&m.EngineSerial, in.EngineSerial, partial)
	setRef(&m.TransmissionModelID, in.TransmissionModel, partial)
	setText(&m.TransmissionSerial, in.TransmissionSerial, partial)
	setRef(&m.DriveAxleModelID, in.DriveAxleModel, partial)
	setText(&m.DriveAxleSerial, in.DriveAxleSerial, partial)
	setRef(&m.SteerAxleModelID, in.SteerAxleModel, partial)
	setText(&m.SteerAxleSerial, in.SteerAxleSerial, partial)
	setText(&m.Contract, in.Contract, partial)
	if hasShipment {
		m.ShipmentDate = shipment
	}
	setText(&m.Client, in.Client, partial)
	setText(&m.Consignee, in.Consignee, partial)
	setText(&m.DeliveryAddress, in.DeliveryAddress, partial)
	setText(&m.Equipment, in.Equipment, partial)
	setText(&m.ServiceCompany, in.ServiceCompany, partial)
	setRef(&m.ClientUserID, in.ClientUser, partial)
	setRef(&m.ServiceUserID, in.ServiceUser, partial)
	return nil
}
