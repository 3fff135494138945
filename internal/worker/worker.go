// Package worker consumes background jobs: thumbnail generation for uploaded
// images and welcome notifications for new users.
package worker

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"sync"

	"github.com/clementroume/holbertonschool-files-manager/internal/imaging"
	"github.com/clementroume/holbertonschool-files-manager/internal/model"
	"github.com/clementroume/holbertonschool-files-manager/internal/queue"
	"github.com/clementroume/holbertonschool-files-manager/internal/repository"
	"github.com/clementroume/holbertonschool-files-manager/internal/storage"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	jobsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "files_manager_worker_jobs_total",
		Help: "Jobs handled by the worker, by queue and result.",
	}, []string{"queue", "result"})

	derivativesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "files_manager_derivatives_total",
		Help: "Thumbnails written, by width and result.",
	}, []string{"width", "result"})
)

// Notifier delivers the welcome message of a new user.
type Notifier interface {
	SendWelcomeEmail(ctx context.Context, email string) error
}

// ErrDropped marks a job that can never succeed. It is not retried.
var ErrDropped = errors.New("job dropped")

type Worker struct {
	fileRepo    repository.FileRepository
	userRepo    repository.UserRepository
	storage     storage.Storage
	consumer    queue.Consumer
	notifier    Notifier
	concurrency int
	log         *slog.Logger
}

func New(
	fileRepo repository.FileRepository,
	userRepo repository.UserRepository,
	storage storage.Storage,
	consumer queue.Consumer,
	notifier Notifier,
	concurrency int,
) *Worker {
	if concurrency < 1 {
		concurrency = 1
	}
	return &Worker{
		fileRepo:    fileRepo,
		userRepo:    userRepo,
		storage:     storage,
		consumer:    consumer,
		notifier:    notifier,
		concurrency: concurrency,
		log:         slog.Default().With("component", "worker"),
	}
}

// Run consumes both queues until ctx is cancelled. If either consumer stops
// with an error the other is stopped too and Run returns the error.
func (w *Worker) Run(ctx context.Context) error {
	w.log.Info("worker started", "concurrency", w.concurrency)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var wg sync.WaitGroup
	errs := make(chan error, 2)
	consume := func(name string, concurrency int, h queue.Handler) {
		defer wg.Done()
		err := w.consumer.Consume(ctx, name, concurrency, h)
		if err != nil {
			w.log.Error("consumer stopped", "queue", name, "error", err)
			cancel()
		}
		errs <- err
	}

	wg.Add(2)
	go consume(model.QueueFiles, w.concurrency, w.handleFile)
	go consume(model.QueueUsers, 1, w.handleUser)
	wg.Wait()
	close(errs)

	w.log.Info("worker stopped")

	var err error
	for e := range errs {
		err = errors.Join(err, e)
	}
	return err
}

func (w *Worker) handleFile(ctx context.Context, body []byte) error {
	var job model.FileJob
	if err := json.Unmarshal(body, &job); err != nil {
		jobsTotal.WithLabelValues(model.QueueFiles, "dropped").Inc()
		return fmt.Errorf("%w: malformed message: %v", ErrDropped, err)
	}

	err := w.ProcessFile(ctx, job)
	switch {
	case errors.Is(err, ErrDropped):
		jobsTotal.WithLabelValues(model.QueueFiles, "dropped").Inc()
	case err != nil:
		jobsTotal.WithLabelValues(model.QueueFiles, "error").Inc()
	default:
		jobsTotal.WithLabelValues(model.QueueFiles, "ok").Inc()
	}
	return err
}

func (w *Worker) handleUser(ctx context.Context, body []byte) error {
	var job model.UserJob
	if err := json.Unmarshal(body, &job); err != nil {
		jobsTotal.WithLabelValues(model.QueueUsers, "dropped").Inc()
		return fmt.Errorf("%w: malformed message: %v", ErrDropped, err)
	}

	err := w.ProcessUser(ctx, job)
	switch {
	case errors.Is(err, ErrDropped):
		jobsTotal.WithLabelValues(model.QueueUsers, "dropped").Inc()
	case err != nil:
		jobsTotal.WithLabelValues(model.QueueUsers, "error").Inc()
	default:
		jobsTotal.WithLabelValues(model.QueueUsers, "ok").Inc()
	}
	return err
}

// ProcessFile writes every thumbnail width of the job's image next to the
// original blob. Widths are independent: the error lists the ones that failed.
// Outputs are deterministic, so processing the same job twice is harmless.
func (w *Worker) ProcessFile(ctx context.Context, job model.FileJob) error {
	if job.FileID == "" {
		return fmt.Errorf("%w: missing fileId", ErrDropped)
	}
	if job.UserID == "" {
		return fmt.Errorf("%w: missing userId", ErrDropped)
	}

	file, err := w.fileRepo.ByOwner(ctx, job.FileID, job.UserID)
	if errors.Is(err, repository.ErrFileNotFound) {
		return fmt.Errorf("%w: file %s not found", ErrDropped, job.FileID)
	}
	if err != nil {
		return fmt.Errorf("failed to get file: %w", err)
	}
	if file.Type != model.FileTypeImage || !file.HasContent() {
		return fmt.Errorf("%w: file %s is not an image", ErrDropped, file.ID)
	}

	src, err := storage.ReadAll(ctx, w.storage, *file.LocalPath)
	if err != nil {
		return fmt.Errorf("%w: read source %s: %v", ErrDropped, file.ID, err)
	}

	errs := make([]error, len(model.ThumbnailWidths))
	var wg sync.WaitGroup
	for i, width := range model.ThumbnailWidths {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs[i] = w.writeDerivative(ctx, *file.LocalPath, src, width)
		}()
	}
	wg.Wait()

	for i, err := range errs {
		label := strconv.Itoa(model.ThumbnailWidths[i])
		if err != nil {
			derivativesTotal.WithLabelValues(label, "error").Inc()
			w.log.Error("thumbnail failed", "file_id", file.ID, "width", label, "error", err)
			continue
		}
		derivativesTotal.WithLabelValues(label, "ok").Inc()
	}

	return errors.Join(errs...)
}

func (w *Worker) writeDerivative(ctx context.Context, key string, src []byte, width int) error {
	out, err := imaging.Resize(src, width)
	if err != nil {
		return fmt.Errorf("width %d: %w", width, err)
	}

	err = w.storage.Save(ctx, model.DerivativePath(key, width), bytes.NewReader(out))
	if err != nil {
		return fmt.Errorf("width %d: %w", width, err)
	}
	return nil
}

// ProcessUser greets a newly registered user.
func (w *Worker) ProcessUser(ctx context.Context, job model.UserJob) error {
	if job.UserID == "" {
		return fmt.Errorf("%w: missing userId", ErrDropped)
	}

	user, err := w.userRepo.ByID(ctx, job.UserID)
	if errors.Is(err, repository.ErrUserNotFound) {
		return fmt.Errorf("%w: user %s not found", ErrDropped, job.UserID)
	}
	if err != nil {
		return fmt.Errorf("failed to get user: %w", err)
	}

	w.log.Info("Welcome " + user.Email + "!")

	if w.notifier == nil {
		return nil
	}
	return w.notifier.SendWelcomeEmail(ctx, user.Email)
}
