package service

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"silant-backend/internal/access"
	"silant-backend/internal/apperr"
	"silant-backend/internal/auth"
	"silant-backend/internal/model"
	"silant-backend/internal/store"
)

// ListUsers lists accounts, optionally only those with role.
func (s *Service) ListUsers(ctx context.Context, actor access.Actor, role string) ([]model.User, error) {
	if err := access.Authorize(actor, access.ResourceUser, access.ActionList); err != nil {
		return nil, err
	}
	var filter model.Role
	if role != "" {
		r, err := model.ParseRole(role)
		if err != nil {
			return nil, apperr.Validation(apperr.FieldError{Field: "role", Code: "invalid_choice", Message: err.Error()})
		}
		filter = r
	}
	users, err := s.store.ListUsers(ctx, filter)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return users, nil
}

// CreateUser creates an account. The role defaults to guest.
func (s *Service) CreateUser(ctx context.Context, actor access.Actor, in UserInput) (*model.User, error) {
	if err := access.Authorize(actor, access.ResourceUser, access.ActionCreate); err != nil {
		return nil, err
	}

	var fe apperr.FieldErrors
	if err := s.checkStruct(&fe, in); err != nil {
		return nil, err
	}
	requireText(&fe, "username", in.Username, false)
	requireText(&fe, "password", in.Password, false)
	if err := fe.Err(); err != nil {
		return nil, err
	}

	u := &model.User{Role: model.RoleGuest}
	setText(&u.Username, in.Username, false)
	setText(&u.FirstName, in.FirstName, false)
	setText(&u.LastName, in.LastName, false)
	if in.Role != nil {
		u.Role = model.Role(*in.Role)
	}

	if _, err := s.store.GetUserByUsername(ctx, u.Username); err == nil {
		return nil, usernameTaken()
	} else if !errors.Is(err, store.ErrNotFound) {
		return nil, apperr.Internal(err)
	}

	hash, err := auth.HashPassword(*in.Password)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	u.PasswordHash = hash

	if err := s.store.CreateUser(ctx, u); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return nil, usernameTaken()
		}
		return nil, apperr.Internal(err)
	}
	s.log.Info("user created",
		zap.Int64("user_id", u.ID),
		zap.String("role", string(u.Role)),
		zap.Int64("created_by", actor.UserID),
	)
	return u, nil
}

func usernameTaken() error {
	return apperr.Validation(apperr.FieldError{
		Field:   "username",
		Code:    "unique",
		Message: "a user with this username already exists",
	})
}
