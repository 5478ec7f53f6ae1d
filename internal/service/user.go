package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/templui/workoutbuddy/internal/model"
	"github.com/templui/workoutbuddy/internal/repository"
	"github.com/templui/workoutbuddy/internal/validation"
)

type UserService struct {
	userRepository repository.UserRepository
	now            func() time.Time
}

func NewUserService(userRepository repository.UserRepository) *UserService {
	return &UserService{
		userRepository: userRepository,
		now:            time.Now,
	}
}

// Register creates a user record. An empty id gets a generated one.
func (s *UserService) Register(ctx context.Context, id, name string) (*model.User, error) {
	err := validation.ValidateName(name)
	if err != nil {
		return nil, validationError("name", err)
	}

	id = strings.TrimSpace(id)
	if id == "" {
		id = uuid.New().String()
	}

	user := &model.User{
		ID:        id,
		Name:      strings.TrimSpace(name),
		CreatedAt: s.now().UTC(),
	}

	err = s.userRepository.Create(ctx, user)
	if errors.Is(err, repository.ErrUserExists) {
		return nil, ErrUserExists
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return user, nil
}

func (s *UserService) ByID(ctx context.Context, id string) (*model.User, error) {
	user, err := s.userRepository.ByID(ctx, id)
	if errors.Is(err, repository.ErrUserNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	return user, nil
}
