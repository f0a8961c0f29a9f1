package store

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"silant-backend/internal/access"
	"silant-backend/internal/listing"
	"silant-backend/internal/model"
)

// Machine.ServiceUser is loaded so service company defaults can be
// resolved from a loaded record.
var maintenanceAssociations = []string{
	"Machine",
	"Machine.ServiceUser",
	"MaintenanceType",
	"ServiceCompany",
}

var claimAssociations = []string{
	"Machine",
	"Machine.ServiceUser",
	"FailedUnit",
	"RecoveryMethod",
	"ServiceCompany",
}

func (s *gormStore) ListMaintenances(ctx context.Context, vis access.Visibility, q listing.Query) ([]model.Maintenance, error) {
	var out []model.Maintenance
	db := s.db.WithContext(ctx).Scopes(q.Scope, visibleMachines(vis))
	if err := preload(db, maintenanceAssociations).Find(&out).Error; err != nil {
		return nil, fmt.Errorf("failed to list maintenance: %w", err)
	}
	return out, nil
}

func (s *gormStore) GetMaintenance(ctx context.Context, id int64) (*model.Maintenance, error) {
	var m model.Maintenance
	if err := first(preload(s.db.WithContext(ctx), maintenanceAssociations), &m, id, "maintenance"); err != nil {
		return nil, err
	}
	return &m, nil
}

func (s *gormStore) CreateMaintenance(ctx context.Context, m *model.Maintenance) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Omit(clause.Associations).Create(m).Error
	})
	return writeErr(err, "create", "maintenance")
}

func (s *gormStore) UpdateMaintenance(ctx context.Context, m *model.Maintenance) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Omit(clause.Associations).Save(m).Error
	})
	return writeErr(err, "update", "maintenance")
}

func (s *gormStore) DeleteMaintenance(ctx context.Context, id int64) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return deleteByID(tx, &model.Maintenance{}, id, "maintenance")
	})
}

func (s *gormStore) ListClaims(ctx context.Context, vis access.Visibility, q listing.Query) ([]model.Claim, error) {
	var out []model.Claim
	db := s.db.WithContext(ctx).Scopes(q.Scope, visibleMachines(vis))
	if err := preload(db, claimAssociations).Find(&out).Error; err != nil {
		return nil, fmt.Errorf("failed to list claims: %w", err)
	}
	return out, nil
}

func (s *gormStore) GetClaim(ctx context.Context, id int64) (*model.Claim, error) {
	var c model.Claim
	if err := first(preload(s.db.WithContext(ctx), claimAssociations), &c, id, "claim"); err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *gormStore) CreateClaim(ctx context.Context, c *model.Claim) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Omit(clause.Associations).Create(c).Error
	})
	return writeErr(err, "create", "claim")
}

func (s *gormStore) UpdateClaim(ctx context.Context, c *model.Claim) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Omit(clause.Associations).Save(c).Error
	})
	return writeErr(err, "update", "claim")
}

func (s *gormStore) DeleteClaim(ctx context.Context, id int64) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return deleteByID(tx, &model.Claim{}, id, "claim")
	})
}
