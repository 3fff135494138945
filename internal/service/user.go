package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/clementroume/holbertonschool-files-manager/internal/model"
	"github.com/clementroume/holbertonschool-files-manager/internal/queue"
	"github.com/clementroume/holbertonschool-files-manager/internal/repository"
	"github.com/clementroume/holbertonschool-files-manager/internal/validation"
)

type UserService struct {
	userRepository repository.UserRepository
	authService    *AuthService
	publisher      queue.Publisher
	enqueueTimeout time.Duration
}

func NewUserService(
	userRepository repository.UserRepository,
	authService *AuthService,
	publisher queue.Publisher,
	enqueueTimeout time.Duration,
) *UserService {
	return &UserService{
		userRepository: userRepository,
		authService:    authService,
		publisher:      publisher,
		enqueueTimeout: enqueueTimeout,
	}
}

// Create registers a user and schedules the welcome job.
func (s *UserService) Create(ctx context.Context, email, password string) (*model.User, error) {
	email = strings.TrimSpace(strings.ToLower(email))

	err := validation.ValidateEmail(email)
	if err != nil {
		return nil, invalidArgument(err.Error())
	}
	err = validation.ValidatePassword(password)
	if err != nil {
		return nil, invalidArgument(err.Error())
	}

	_, err = s.userRepository.ByEmail(ctx, email)
	if err == nil {
		return nil, invalidArgument("Already exist")
	}
	if !errors.Is(err, repository.ErrUserNotFound) {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}

	hash, err := s.authService.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &model.User{Email: email, PasswordHash: hash}
	err = s.userRepository.Create(ctx, user)
	if errors.Is(err, repository.ErrDuplicateEmail) {
		return nil, invalidArgument("Already exist")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	err = enqueue(ctx, s.publisher, s.enqueueTimeout, model.QueueUsers, model.UserJob{UserID: user.ID})
	if err != nil {
		slog.Warn("failed to enqueue welcome job", "user_id", user.ID, "error", err)
	}

	return user, nil
}

func (s *UserService) ByID(ctx context.Context, id string) (*model.User, error) {
	user, err := s.userRepository.ByID(ctx, id)
	if errors.Is(err, repository.ErrUserNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

// Me returns the user owning token.
func (s *UserService) Me(ctx context.Context, token string) (*model.User, error) {
	userID, err := s.authService.Resolve(ctx, token)
	if err != nil {
		return nil, err
	}

	user, err := s.ByID(ctx, userID)
	if errors.Is(err, ErrNotFound) {
		return nil, ErrUnauthenticated
	}
	return user, err
}
