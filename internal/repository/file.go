package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/clementroume/holbertonschool-files-manager/internal/model"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

var (
	ErrFileNotFound = errors.New("file not found")
)

const fileColumns = `id, user_id, name, type, is_public, parent_id, local_path, created_at`

type FileRepository interface {
	Create(ctx context.Context, file *model.File) error
	// ByID looks a file up regardless of its owner.
	ByID(ctx context.Context, id string) (*model.File, error)
	// ByOwner looks a file up only if userID owns it.
	ByOwner(ctx context.Context, id, userID string) (*model.File, error)
	// Children lists userID's files directly under parent, limit rows starting at offset.
	Children(ctx context.Context, userID string, parent model.ParentRef, limit, offset int) ([]*model.File, error)
	SetPublic(ctx context.Context, id, userID string, public bool) (*model.File, error)
	Count(ctx context.Context) (int64, error)
}

type fileRepository struct {
	db *sqlx.DB
}

func NewFileRepository(db *sqlx.DB) FileRepository {
	return &fileRepository{db: db}
}

func (r *fileRepository) Create(ctx context.Context, file *model.File) error {
	if file.ID == "" {
		file.ID = uuid.New().String()
	}
	if file.CreatedAt.IsZero() {
		file.CreatedAt = time.Now().UTC()
	}

	query := `INSERT INTO files (` + fileColumns + `)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := r.db.ExecContext(ctx, query,
		file.ID,
		file.UserID,
		file.Name,
		file.Type,
		file.IsPublic,
		file.ParentID,
		file.LocalPath,
		file.CreatedAt,
	)

	return err
}

func (r *fileRepository) ByID(ctx context.Context, id string) (*model.File, error) {
	file := &model.File{}
	query := `SELECT ` + fileColumns + ` FROM files WHERE id = $1`

	err := r.db.GetContext(ctx, file, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrFileNotFound
	}
	if err != nil {
		return nil, err
	}

	return file, nil
}

func (r *fileRepository) ByOwner(ctx context.Context, id, userID string) (*model.File, error) {
	file := &model.File{}
	query := `SELECT ` + fileColumns + ` FROM files WHERE id = $1 AND user_id = $2`

	err := r.db.GetContext(ctx, file, query, id, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrFileNotFound
	}
	if err != nil {
		return nil, err
	}

	return file, nil
}

func (r *fileRepository) Children(ctx context.Context, userID string, parent model.ParentRef, limit, offset int) ([]*model.File, error) {
	files := []*model.File{}

	var err error
	if parent.IsRoot() {
		query := `SELECT ` + fileColumns + ` FROM files
		          WHERE user_id = $1 AND parent_id IS NULL
		          ORDER BY created_at, id LIMIT $2 OFFSET $3`
		err = r.db.SelectContext(ctx, &files, query, userID, limit, offset)
	} else {
		query := `SELECT ` + fileColumns + ` FROM files
		          WHERE user_id = $1 AND parent_id = $2
		          ORDER BY created_at, id LIMIT $3 OFFSET $4`
		err = r.db.SelectContext(ctx, &files, query, userID, parent.ID(), limit, offset)
	}
	if err != nil {
		return nil, err
	}

	return files, nil
}

// SetPublic atomically updates visibility and returns the updated row.
func (r *fileRepository) SetPublic(ctx context.Context, id, userID string, public bool) (*model.File, error) {
	file := &model.File{}
	query := `
		UPDATE files
		SET is_public = $1
		WHERE id = $2 AND user_id = $3
		RETURNING ` + fileColumns

	err := r.db.GetContext(ctx, file, query, public, id, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrFileNotFound
	}
	if err != nil {
		return nil, err
	}

	return file, nil
}

func (r *fileRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM files`)
	return n, err
}
