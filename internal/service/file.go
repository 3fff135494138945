package service

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"mime"
	"net/http"
	"path/filepath"
	"strconv"
	"time"

	"github.com/clementroume/holbertonschool-files-manager/internal/model"
	"github.com/clementroume/holbertonschool-files-manager/internal/queue"
	"github.com/clementroume/holbertonschool-files-manager/internal/repository"
	"github.com/clementroume/holbertonschool-files-manager/internal/storage"
	"github.com/clementroume/holbertonschool-files-manager/internal/validation"
	"github.com/google/uuid"
)

const PageSize = 20

// EnqueueWarning is reported when an image was stored but its thumbnails
// could not be scheduled.
const EnqueueWarning = "Thumbnail generation could not be scheduled"

type FileService struct {
	fileRepo       repository.FileRepository
	storage        storage.Storage
	authService    *AuthService
	publisher      queue.Publisher
	enqueueTimeout time.Duration
}

func NewFileService(
	fileRepo repository.FileRepository,
	storage storage.Storage,
	authService *AuthService,
	publisher queue.Publisher,
	enqueueTimeout time.Duration,
) *FileService {
	return &FileService{
		fileRepo:       fileRepo,
		storage:        storage,
		authService:    authService,
		publisher:      publisher,
		enqueueTimeout: enqueueTimeout,
	}
}

type UploadInput struct {
	Name     string
	Type     model.FileType
	ParentID model.ParentRef
	IsPublic bool
	Data     string // base64, ignored for folders
}

type UploadResult struct {
	File    *model.File
	Warning string // non-empty when the upload succeeded with a degraded side effect
}

// Content is a blob ready to be served.
type Content struct {
	Data        []byte
	ContentType string
}

// Upload validates and stores a folder, file or image owned by the token's user.
// Image uploads publish a thumbnail job; a publish failure only sets a warning.
func (s *FileService) Upload(ctx context.Context, token string, in UploadInput) (*UploadResult, error) {
	userID, err := s.authService.Resolve(ctx, token)
	if err != nil {
		return nil, err
	}

	name := validation.NormalizeName(in.Name)
	err = validation.ValidateUpload(name, in.Type, in.Data)
	if err != nil {
		return nil, invalidArgument(err.Error())
	}

	if !in.ParentID.IsRoot() {
		parent, err := s.fileRepo.ByOwner(ctx, in.ParentID.ID(), userID)
		if errors.Is(err, repository.ErrFileNotFound) {
			return nil, invalidArgument("Parent not found")
		}
		if err != nil {
			return nil, fmt.Errorf("failed to get parent: %w", err)
		}
		if !parent.IsFolder() {
			return nil, invalidArgument("Parent is not a folder")
		}
	}

	file := &model.File{
		UserID:   userID,
		Name:     name,
		Type:     in.Type,
		IsPublic: in.IsPublic,
		ParentID: in.ParentID,
	}

	if file.IsFolder() {
		err = s.fileRepo.Create(ctx, file)
		if err != nil {
			return nil, fmt.Errorf("failed to create folder: %w", err)
		}
		uploadsTotal.WithLabelValues(string(file.Type)).Inc()
		return &UploadResult{File: file}, nil
	}

	data, err := base64.StdEncoding.DecodeString(in.Data)
	if err != nil {
		return nil, invalidArgument("Invalid data")
	}

	key := uuid.New().String()
	err = s.storage.Save(ctx, key, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to save file: %w", err)
	}
	file.LocalPath = &key

	err = s.fileRepo.Create(ctx, file)
	if err != nil {
		if delErr := s.storage.Delete(ctx, key); delErr != nil {
			slog.Error("failed to remove orphan blob", "key", key, "error", delErr)
		}
		return nil, fmt.Errorf("failed to create file: %w", err)
	}
	uploadsTotal.WithLabelValues(string(file.Type)).Inc()

	result := &UploadResult{File: file}
	if file.Type == model.FileTypeImage {
		job := model.FileJob{FileID: file.ID, UserID: userID}
		err = enqueue(ctx, s.publisher, s.enqueueTimeout, model.QueueFiles, job)
		if err != nil {
			slog.Warn("failed to enqueue thumbnail job", "file_id", file.ID, "error", err)
			result.Warning = EnqueueWarning
		}
	}

	return result, nil
}

// Get returns one of the token user's files. Foreign files are reported as absent.
func (s *FileService) Get(ctx context.Context, token, id string) (*model.File, error) {
	userID, err := s.authService.Resolve(ctx, token)
	if err != nil {
		return nil, err
	}

	file, err := s.fileRepo.ByOwner(ctx, id, userID)
	if errors.Is(err, repository.ErrFileNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get file: %w", err)
	}

	return file, nil
}

// List returns page (0-based, PageSize items) of the token user's files directly under parent.
func (s *FileService) List(ctx context.Context, token string, parent model.ParentRef, page int) ([]*model.File, error) {
	userID, err := s.authService.Resolve(ctx, token)
	if err != nil {
		return nil, err
	}

	if page < 0 {
		page = 0
	}

	files, err := s.fileRepo.Children(ctx, userID, parent, PageSize, page*PageSize)
	if err != nil {
		return nil, fmt.Errorf("failed to list files: %w", err)
	}

	return files, nil
}

// ParsePage reads a page query value. Anything but a non-negative integer is page 0.
func ParsePage(raw string) int {
	page, err := strconv.Atoi(raw)
	if err != nil || page < 0 {
		return 0
	}
	return page
}

func (s *FileService) SetVisibility(ctx context.Context, token, id string, public bool) (*model.File, error) {
	userID, err := s.authService.Resolve(ctx, token)
	if err != nil {
		return nil, err
	}

	file, err := s.fileRepo.SetPublic(ctx, id, userID, public)
	if errors.Is(err, repository.ErrFileNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update file: %w", err)
	}

	return file, nil
}

// ReadContent returns a file's bytes, or those of its thumbnail when size is
// one of model.ThumbnailWidths. Public files need no token. Private files,
// foreign files and blobs not yet written are all reported as ErrNotFound.
func (s *FileService) ReadContent(ctx context.Context, token, id string, size int) (*Content, error) {
	file, err := s.fileRepo.ByID(ctx, id)
	if errors.Is(err, repository.ErrFileNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get file: %w", err)
	}

	if !file.IsPublic {
		userID, err := s.authService.Resolve(ctx, token)
		if errors.Is(err, ErrUnauthenticated) {
			return nil, ErrNotFound
		}
		if err != nil {
			return nil, err
		}
		if userID != file.UserID {
			return nil, ErrNotFound
		}
	}

	if file.IsFolder() {
		return nil, invalidOperation("A folder doesn't have content")
	}
	if !file.HasContent() {
		return nil, ErrNotFound
	}

	key := *file.LocalPath
	if model.IsThumbnailWidth(size) {
		key = model.DerivativePath(key, size)
	}

	data, err := storage.ReadAll(ctx, s.storage, key)
	if errors.Is(err, storage.ErrNotExist) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	return &Content{Data: data, ContentType: ContentType(file.Name, data)}, nil
}

// ContentType infers a MIME type from the file name's extension, falling back
// to sniffing the content.
func ContentType(name string, data []byte) string {
	ct := mime.TypeByExtension(filepath.Ext(name))
	if ct == "" {
		return http.DetectContentType(data)
	}
	return ct
}
