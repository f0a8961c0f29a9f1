package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"silant-backend/internal/access"
	"silant-backend/internal/apperr"
	"silant-backend/internal/auth"
	"silant-backend/internal/model"
	"silant-backend/internal/store"
)

// Session is the result of a successful login.
type Session struct {
	Token     string
	ExpiresAt time.Time
	User      *model.User
}

// Login checks credentials and issues a bearer token.
func (s *Service) Login(ctx context.Context, username, password string) (*Session, error) {
	invalid := apperr.Unauthenticated("invalid username or password")

	u, err := s.store.GetUserByUsername(ctx, username)
	if errors.Is(err, store.ErrNotFound) {
		return nil, invalid
	}
	if err != nil {
		return nil, apperr.Internal(err)
	}
	if !auth.CheckPassword(u.PasswordHash, password) {
		return nil, invalid
	}

	token, expiresAt, err := s.tokens.Issue(u)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return &Session{Token: token, ExpiresAt: expiresAt, User: u}, nil
}

// Me returns the account of the acting user.
func (s *Service) Me(ctx context.Context, actor access.Actor) (*model.User, error) {
	if !actor.Authenticated() {
		return nil, apperr.Unauthenticated("authentication required")
	}
	u, err := s.store.GetUser(ctx, actor.UserID)
	if err != nil {
		return nil, storeErr(err, "user")
	}
	return u, nil
}

// EnsureManager creates a manager account named username unless a user
// with that name exists. It reports whether an account was created.
func (s *Service) EnsureManager(ctx context.Context, username, password string) (bool, error) {
	if username == "" {
		return false, nil
	}
	_, err := s.store.GetUserByUsername(ctx, username)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return false, err
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return false, err
	}
	u := &model.User{Username: username, PasswordHash: hash, Role: model.RoleManager}
	if err := s.store.CreateUser(ctx, u); err != nil {
		return false, err
	}
	s.log.Info("bootstrap manager created", zap.String("username", username), zap.Int64("user_id", u.ID))
	return true, nil
}
