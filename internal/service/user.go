package service

import (
	"context"
	"fmt"

	"github.com/shopapi/shopapi/internal/metrics"
	"github.com/shopapi/shopapi/internal/model"
	"github.com/shopapi/shopapi/internal/repository"
	"github.com/shopapi/shopapi/internal/validation"
)

// UserService handles user business logic.
type UserService struct {
	repo    repository.Store
	metrics metrics.Recorder
}

// NewUserService creates a new UserService.
func NewUserService(repo repository.Store, recorder metrics.Recorder) *UserService {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &UserService{repo: repo, metrics: recorder}
}

// CreateUser validates payload and stores a new user.
func (s *UserService) CreateUser(ctx context.Context, payload map[string]any) (*model.User, error) {
	fields, err := validation.UserSchema.Validate(payload, validation.ModeCreate)
	if err != nil {
		return nil, err
	}

	user := &model.User{}
	user.Name, _ = fields.String("name")
	user.Email, _ = fields.String("email")

	if err := s.repo.CreateUser(ctx, user); err != nil {
		return nil, translateOp("create user", err)
	}

	s.metrics.IncEntityCreated(metrics.EntityUser)
	return user, nil
}

// GetUser returns one user.
func (s *UserService) GetUser(ctx context.Context, id int64) (*model.User, error) {
	user, err := s.repo.GetUserByID(ctx, id)
	if err != nil {
		return nil, translateOp("get user", err)
	}
	return user, nil
}

// ListUsers returns every user.
func (s *UserService) ListUsers(ctx context.Context) ([]model.User, error) {
	users, err := s.repo.ListUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

// UpdateUser applies the fields present in payload to an existing user.
// The user is looked up before the payload is validated.
func (s *UserService) UpdateUser(ctx context.Context, id int64, payload map[string]any) (*model.User, error) {
	user, err := s.repo.GetUserByID(ctx, id)
	if err != nil {
		return nil, translateOp("get user", err)
	}

	fields, err := validation.UserSchema.Validate(payload, validation.ModePartial)
	if err != nil {
		return nil, err
	}
	if name, ok := fields.String("name"); ok {
		user.Name = name
	}
	if email, ok := fields.String("email"); ok {
		user.Email = email
	}

	if err := s.repo.UpdateUser(ctx, user); err != nil {
		return nil, translateOp("update user", err)
	}

	s.metrics.IncEntityUpdated(metrics.EntityUser)
	return user, nil
}

// DeleteUser removes a user that owns no orders.
func (s *UserService) DeleteUser(ctx context.Context, id int64) error {
	if err := s.repo.DeleteUser(ctx, id); err != nil {
		return translateOp("delete user", err)
	}
	s.metrics.IncEntityDeleted(metrics.EntityUser)
	return nil
}
