package service

import (
	"context"
	"fmt"

	"github.com/clementroume/holbertonschool-files-manager/internal/db"
	"github.com/clementroume/holbertonschool-files-manager/internal/kvstore"
	"github.com/clementroume/holbertonschool-files-manager/internal/model"
	"github.com/clementroume/holbertonschool-files-manager/internal/repository"
	"github.com/jmoiron/sqlx"
)

type StatusService struct {
	db             *sqlx.DB
	store          kvstore.Store
	userRepository repository.UserRepository
	fileRepository repository.FileRepository
}

func NewStatusService(
	database *sqlx.DB,
	store kvstore.Store,
	userRepository repository.UserRepository,
	fileRepository repository.FileRepository,
) *StatusService {
	return &StatusService{
		db:             database,
		store:          store,
		userRepository: userRepository,
		fileRepository: fileRepository,
	}
}

// Status reports whether the credential store and the database are reachable.
func (s *StatusService) Status(ctx context.Context) model.Status {
	return model.Status{
		Redis: s.store.Alive(ctx),
		DB:    db.Alive(ctx, s.db),
	}
}

func (s *StatusService) Stats(ctx context.Context) (*model.Stats, error) {
	users, err := s.userRepository.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count users: %w", err)
	}
	files, err := s.fileRepository.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count files: %w", err)
	}
	return &model.Stats{Users: users, Files: files}, nil
}
