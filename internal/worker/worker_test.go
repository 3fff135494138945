package worker

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"image"
	"image/color"
	"image/png"
	"io"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/clementroume/holbertonschool-files-manager/internal/db"
	"github.com/clementroume/holbertonschool-files-manager/internal/imaging"
	"github.com/clementroume/holbertonschool-files-manager/internal/model"
	"github.com/clementroume/holbertonschool-files-manager/internal/queue"
	"github.com/clementroume/holbertonschool-files-manager/internal/repository"
	"github.com/clementroume/holbertonschool-files-manager/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	files repository.FileRepository
	users repository.UserRepository
	blobs *storage.LocalStorage
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	database, err := db.Init("sqlite", filepath.Join(t.TempDir(), "worker.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })
	require.NoError(t, db.RunMigrations(database.DB, "sqlite"))

	blobs, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	return &fixture{
		files: repository.NewFileRepository(database),
		users: repository.NewUserRepository(database),
		blobs: blobs,
	}
}

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x * 25), G: uint8(y * 25), B: 200, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

// addFile stores content and a matching record owned by userID.
func (f *fixture) addFile(t *testing.T, userID string, kind model.FileType, content []byte) *model.File {
	t.Helper()
	ctx := context.Background()

	key := "blob-" + strings.ReplaceAll(t.Name(), "/", "_") + "-" + string(kind)
	require.NoError(t, f.blobs.Save(ctx, key, bytes.NewReader(content)))

	file := &model.File{UserID: userID, Name: "photo.png", Type: kind, LocalPath: &key}
	require.NoError(t, f.files.Create(ctx, file))
	return file
}

func (f *fixture) read(t *testing.T, key string) ([]byte, error) {
	t.Helper()
	return storage.ReadAll(context.Background(), f.blobs, key)
}

func TestProcessFile_WritesAllWidths(t *testing.T) {
	f := newFixture(t)
	w := New(f.files, f.users, f.blobs, queue.NewMemoryBroker(1), nil, 2)
	original := pngBytes(t, 10, 10)
	img := f.addFile(t, "u1", model.FileTypeImage, original)

	require.NoError(t, w.ProcessFile(context.Background(), model.FileJob{FileID: img.ID, UserID: "u1"}))

	for _, width := range model.ThumbnailWidths {
		data, err := f.read(t, model.DerivativePath(*img.LocalPath, width))
		require.NoError(t, err)
		cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
		require.NoError(t, err)
		assert.Equal(t, "png", format)
		assert.Equal(t, width, cfg.Width)
	}

	data, err := f.read(t, *img.LocalPath)
	require.NoError(t, err)
	assert.Equal(t, original, data)
}

func TestProcessFile_Idempotent(t *testing.T) {
	f := newFixture(t)
	w := New(f.files, f.users, f.blobs, queue.NewMemoryBroker(1), nil, 1)
	img := f.addFile(t, "u1", model.FileTypeImage, pngBytes(t, 10, 10))
	job := model.FileJob{FileID: img.ID, UserID: "u1"}
	key := model.DerivativePath(*img.LocalPath, 250)

	require.NoError(t, w.ProcessFile(context.Background(), job))
	first, err := f.read(t, key)
	require.NoError(t, err)

	require.NoError(t, w.ProcessFile(context.Background(), job))
	second, err := f.read(t, key)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestProcessFile_DropsUnusableJobs(t *testing.T) {
	f := newFixture(t)
	w := New(f.files, f.users, f.blobs, queue.NewMemoryBroker(1), nil, 1)
	ctx := context.Background()

	img := f.addFile(t, "u1", model.FileTypeImage, pngBytes(t, 4, 4))
	doc := f.addFile(t, "u1", model.FileTypeFile, []byte("text"))

	tests := []struct {
		name string
		job  model.FileJob
	}{
		{"missing file id", model.FileJob{UserID: "u1"}},
		{"missing user id", model.FileJob{FileID: img.ID}},
		{"unknown file", model.FileJob{FileID: "nope", UserID: "u1"}},
		{"wrong owner", model.FileJob{FileID: img.ID, UserID: "u2"}},
		{"not an image", model.FileJob{FileID: doc.ID, UserID: "u1"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, w.ProcessFile(ctx, tt.job), ErrDropped)
		})
	}

	_, err := f.read(t, model.DerivativePath(*img.LocalPath, 500))
	assert.ErrorIs(t, err, storage.ErrNotExist)
}

func TestProcessFile_UndecodableImage(t *testing.T) {
	f := newFixture(t)
	w := New(f.files, f.users, f.blobs, queue.NewMemoryBroker(1), nil, 1)
	img := f.addFile(t, "u1", model.FileTypeImage, []byte("not a png"))

	err := w.ProcessFile(context.Background(), model.FileJob{FileID: img.ID, UserID: "u1"})
	require.Error(t, err)

	for _, width := range model.ThumbnailWidths {
		_, err := f.read(t, model.DerivativePath(*img.LocalPath, width))
		assert.ErrorIs(t, err, storage.ErrNotExist)
	}
}

func TestProcessFile_OversizedImageFailsWithoutCrashing(t *testing.T) {
	f := newFixture(t)
	w := New(f.files, f.users, f.blobs, queue.NewMemoryBroker(1), nil, 1)

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewGray(image.Rect(0, 0, 1, 40000))))
	img := f.addFile(t, "u1", model.FileTypeImage, buf.Bytes())

	err := w.ProcessFile(context.Background(), model.FileJob{FileID: img.ID, UserID: "u1"})
	require.Error(t, err)
	assert.ErrorIs(t, err, imaging.ErrTooLarge)

	for _, width := range model.ThumbnailWidths {
		_, err := f.read(t, model.DerivativePath(*img.LocalPath, width))
		assert.ErrorIs(t, err, storage.ErrNotExist)
	}
}

// flakyStorage fails writes whose key ends with failSuffix.
type flakyStorage struct {
	storage.Storage
	failSuffix string
}

func (s *flakyStorage) Save(ctx context.Context, key string, r io.Reader) error {
	if strings.HasSuffix(key, s.failSuffix) {
		return errors.New("disk full")
	}
	return s.Storage.Save(ctx, key, r)
}

func TestProcessFile_WidthFailuresAreIsolated(t *testing.T) {
	f := newFixture(t)
	img := f.addFile(t, "u1", model.FileTypeImage, pngBytes(t, 10, 10))
	w := New(f.files, f.users, &flakyStorage{Storage: f.blobs, failSuffix: "_250"}, queue.NewMemoryBroker(1), nil, 1)

	err := w.ProcessFile(context.Background(), model.FileJob{FileID: img.ID, UserID: "u1"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "width 250")

	_, err = f.read(t, model.DerivativePath(*img.LocalPath, 500))
	assert.NoError(t, err)
	_, err = f.read(t, model.DerivativePath(*img.LocalPath, 100))
	assert.NoError(t, err)
	_, err = f.read(t, model.DerivativePath(*img.LocalPath, 250))
	assert.ErrorIs(t, err, storage.ErrNotExist)
}

func TestProcessUser(t *testing.T) {
	f := newFixture(t)
	w := New(f.files, f.users, f.blobs, queue.NewMemoryBroker(1), nil, 1)
	ctx := context.Background()

	u := &model.User{Email: "bob@dylan.com", PasswordHash: "x"}
	require.NoError(t, f.users.Create(ctx, u))

	assert.NoError(t, w.ProcessUser(ctx, model.UserJob{UserID: u.ID}))
	assert.ErrorIs(t, w.ProcessUser(ctx, model.UserJob{UserID: "ghost"}), ErrDropped)
	assert.ErrorIs(t, w.ProcessUser(ctx, model.UserJob{}), ErrDropped)
}

type recordingNotifier struct {
	sent []string
	err  error
}

func (n *recordingNotifier) SendWelcomeEmail(_ context.Context, email string) error {
	n.sent = append(n.sent, email)
	return n.err
}

func TestProcessUser_Notifies(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := &model.User{Email: "bob@dylan.com", PasswordHash: "x"}
	require.NoError(t, f.users.Create(ctx, u))

	n := &recordingNotifier{}
	w := New(f.files, f.users, f.blobs, queue.NewMemoryBroker(1), n, 1)
	require.NoError(t, w.ProcessUser(ctx, model.UserJob{UserID: u.ID}))
	assert.Equal(t, []string{"bob@dylan.com"}, n.sent)

	n.err = errors.New("smtp down")
	err := w.ProcessUser(ctx, model.UserJob{UserID: u.ID})
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrDropped)
}

func TestRun_ConsumesQueues(t *testing.T) {
	f := newFixture(t)
	broker := queue.NewMemoryBroker(10)
	w := New(f.files, f.users, f.blobs, broker, nil, 2)
	img := f.addFile(t, "u1", model.FileTypeImage, pngBytes(t, 10, 10))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	body, err := json.Marshal(model.FileJob{FileID: img.ID, UserID: "u1"})
	require.NoError(t, err)
	require.NoError(t, broker.Publish(ctx, model.QueueFiles, []byte("{garbage")))
	require.NoError(t, broker.Publish(ctx, model.QueueFiles, body))
	require.NoError(t, broker.Publish(ctx, model.QueueUsers, []byte(`{"userId":"ghost"}`)))

	require.Eventually(t, func() bool {
		for _, width := range model.ThumbnailWidths {
			if _, err := f.read(t, model.DerivativePath(*img.LocalPath, width)); err != nil {
				return false
			}
		}
		return true
	}, 5*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("worker did not stop")
	}
}

// brokenConsumer loses fileQueue at once and serves userQueue until cancelled.
type brokenConsumer struct{}

func (brokenConsumer) Consume(ctx context.Context, name string, _ int, _ queue.Handler) error {
	if name == model.QueueFiles {
		return queue.ErrClosed
	}
	<-ctx.Done()
	return nil
}

func TestRun_StopsWhenAConsumerFails(t *testing.T) {
	f := newFixture(t)
	w := New(f.files, f.users, f.blobs, brokenConsumer{}, nil, 1)

	done := make(chan error, 1)
	go func() { done <- w.Run(context.Background()) }()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, queue.ErrClosed)
	case <-time.After(5 * time.Second):
		t.Fatal("worker kept running with a dead consumer")
	}
}
