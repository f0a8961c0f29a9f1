package store

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"silant-backend/internal/access"
	"silant-backend/internal/listing"
	"silant-backend/internal/model"
)

// directoryRefs lists every column that references a directory row.
var directoryRefs = []struct {
	table  string
	column string
}{
	{"machines", "model_id"},
	{"machines", "engine_model_id"},
	{"machines", "transmission_model_id"},
	{"machines", "drive_axle_model_id"},
	{"machines", "steer_axle_model_id"},
	{"maintenances", "maintenance_type_id"},
	{"maintenances", "service_company_id"},
	{"claims", "failed_unit_id"},
	{"claims", "recovery_method_id"},
	{"claims", "service_company_id"},
}

func (s *gormStore) ListDirectories(ctx context.Context, vis access.Visibility, q listing.Query) ([]model.Directory, error) {
	var dirs []model.Directory
	db := s.db.WithContext(ctx).Scopes(q.Scope)
	if vis.Kind != access.VisibleAll {
		db = db.Where("1 = 0")
	}
	if err := db.Find(&dirs).Error; err != nil {
		return nil, fmt.Errorf("failed to list directories: %w", err)
	}
	return dirs, nil
}

func (s *gormStore) GetDirectory(ctx context.Context, id int64) (*model.Directory, error) {
	var d model.Directory
	if err := first(s.db.WithContext(ctx), &d, id, "directory"); err != nil {
		return nil, err
	}
	return &d, nil
}

func (s *gormStore) FindDirectory(ctx context.Context, category, name string) (*model.Directory, error) {
	var d model.Directory
	err := s.db.WithContext(ctx).
		Where("category = ? AND name = ?", category, name).
		Order("id").
		First(&d).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find directory %q/%q: %w", category, name, err)
	}
	return &d, nil
}

func (s *gormStore) CreateDirectory(ctx context.Context, d *model.Directory) error {
	return writeErr(s.db.WithContext(ctx).Create(d).Error, "create", "directory")
}

func (s *gormStore) UpdateDirectory(ctx context.Context, d *model.Directory) error {
	return writeErr(s.db.WithContext(ctx).Save(d).Error, "update", "directory")
}

func (s *gormStore) DeleteDirectory(ctx context.Context, id int64) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, ref := range directoryRefs {
			err := tx.Table(ref.table).
				Where(ref.column+" = ?", id).
				Update(ref.column, gorm.Expr("NULL")).Error
			if err != nil {
				return fmt.Errorf("failed to clear %s.%s references to directory %d: %w", ref.table, ref.column, id, err)
			}
		}
		return deleteByID(tx, &model.Directory{}, id, "directory")
	})
}
