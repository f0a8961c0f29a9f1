package store

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"silant-backend/internal/access"
	"silant-backend/internal/listing"
	"silant-backend/internal/model"
)

var machineAssociations = []string{
	"MachineModel",
	"EngineModel",
	"TransmissionModel",
	"DriveAxleModel",
	"SteerAxleModel",
	"ClientUser",
	"ServiceUser",
}

func (s *gormStore) ListMachines(ctx context.Context, vis access.Visibility, q listing.Query) ([]model.Machine, error) {
	var machines []model.Machine
	db := s.db.WithContext(ctx).Scopes(q.Scope, visibleMachines(vis))
	if err := preload(db, machineAssociations).Find(&machines).Error; err != nil {
		return nil, fmt.Errorf("failed to list machines: %w", err)
	}
	return machines, nil
}

func (s *gormStore) GetMachine(ctx context.Context, id int64) (*model.Machine, error) {
	var m model.Machine
	if err := first(preload(s.db.WithContext(ctx), machineAssociations), &m, id, "machine"); err != nil {
		return nil, err
	}
	return &m, nil
}

func (s *gormStore) GetMachineBySerial(ctx context.Context, serial string) (*model.Machine, error) {
	var m model.Machine
	err := preload(s.db.WithContext(ctx), machineAssociations).
		Where("serial_number = ?", serial).
		First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("machine %q: %w", serial, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load machine %q: %w", serial, err)
	}
	return &m, nil
}

func (s *gormStore) SerialNumberTaken(ctx context.Context, serial string, excludeID int64) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&model.Machine{}).
		Where("serial_number = ? AND id <> ?", serial, excludeID).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check serial number %q: %w", serial, err)
	}
	return count > 0, nil
}

func (s *gormStore) CreateMachine(ctx context.Context, m *model.Machine) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Omit(clause.Associations).Create(m).Error
	})
	return writeErr(err, "create", "machine")
}

func (s *gormStore) UpdateMachine(ctx context.Context, m *model.Machine) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Omit(clause.Associations).Save(m).Error
	})
	return writeErr(err, "update", "machine")
}

func (s *gormStore) DeleteMachine(ctx context.Context, id int64) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("machine_id = ?", id).Delete(&model.Maintenance{}).Error; err != nil {
			return fmt.Errorf("failed to delete maintenance of machine %d: %w", id, err)
		}
		if err := tx.Where("machine_id = ?", id).Delete(&model.Claim{}).Error; err != nil {
			return fmt.Errorf("failed to delete claims of machine %d: %w", id, err)
		}
		return deleteByID(tx, &model.Machine{}, id, "machine")
	})
}
