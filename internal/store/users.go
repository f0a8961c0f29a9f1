package store

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"silant-backend/internal/model"
)

func (s *gormStore) GetUser(ctx context.Context, id int64) (*model.User, error) {
	var u model.User
	if err := first(s.db.WithContext(ctx), &u, id, "user"); err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *gormStore) GetUserByUsername(ctx context.Context, username string) (*model.User, error) {
	var u model.User
	err := s.db.WithContext(ctx).Where("username = ?", username).First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("user %q: %w", username, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load user %q: %w", username, err)
	}
	return &u, nil
}

func (s *gormStore) ListUsers(ctx context.Context, role model.Role) ([]model.User, error) {
	var users []model.User
	db := s.db.WithContext(ctx).Order("username")
	if role != "" {
		db = db.Where("role = ?", role)
	}
	if err := db.Find(&users).Error; err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

func (s *gormStore) CreateUser(ctx context.Context, u *model.User) error {
	return writeErr(s.db.WithContext(ctx).Create(u).Error, "create", "user")
}
