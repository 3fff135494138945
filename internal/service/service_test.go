package service

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/clementroume/holbertonschool-files-manager/internal/db"
	"github.com/clementroume/holbertonschool-files-manager/internal/kvstore"
	"github.com/clementroume/holbertonschool-files-manager/internal/model"
	"github.com/clementroume/holbertonschool-files-manager/internal/queue"
	"github.com/clementroume/holbertonschool-files-manager/internal/repository"
	"github.com/clementroume/holbertonschool-files-manager/internal/storage"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
)

type testEnv struct {
	db      *sqlx.DB
	users   repository.UserRepository
	files   repository.FileRepository
	store   kvstore.Store
	blobs   *storage.LocalStorage
	broker  *queue.MemoryBroker
	auth    *AuthService
	userSvc *UserService
	fileSvc *FileService
	status  *StatusService
}

type envOption func(*envConfig)

type envConfig struct {
	store     kvstore.Store
	publisher queue.Publisher
}

func withStore(s kvstore.Store) envOption {
	return func(c *envConfig) { c.store = s }
}

func withPublisher(p queue.Publisher) envOption {
	return func(c *envConfig) { c.publisher = p }
}

func newTestEnv(t *testing.T, opts ...envOption) *testEnv {
	t.Helper()

	database, err := db.Init("sqlite", filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })
	require.NoError(t, db.RunMigrations(database.DB, "sqlite"))

	blobs, err := storage.NewLocalStorage(filepath.Join(t.TempDir(), "files"))
	require.NoError(t, err)

	broker := queue.NewMemoryBroker(100)
	cfg := &envConfig{
		store:     kvstore.NewMemoryStore(1000, 24*time.Hour),
		publisher: broker,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	env := &testEnv{
		db:     database,
		users:  repository.NewUserRepository(database),
		files:  repository.NewFileRepository(database),
		store:  cfg.store,
		blobs:  blobs,
		broker: broker,
	}
	env.auth = NewAuthService(env.users, env.store, 24*time.Hour)
	env.userSvc = NewUserService(env.users, env.auth, cfg.publisher, time.Second)
	env.fileSvc = NewFileService(env.files, blobs, env.auth, cfg.publisher, time.Second)
	env.status = NewStatusService(database, env.store, env.users, env.files)

	return env
}

// login creates a user with password "secret" and returns its id and a fresh token.
func (e *testEnv) login(t *testing.T, email string) (string, string) {
	t.Helper()
	ctx := context.Background()

	hash, err := e.auth.HashPassword("secret")
	require.NoError(t, err)
	u := &model.User{Email: email, PasswordHash: hash}
	require.NoError(t, e.users.Create(ctx, u))

	token, err := e.auth.Issue(ctx, email, "secret")
	require.NoError(t, err)
	return u.ID, token
}

type failingPublisher struct{}

func (failingPublisher) Publish(context.Context, string, []byte) error {
	return errors.New("connection refused")
}

func requireKind(t *testing.T, err, kind error, msg string) {
	t.Helper()
	require.Error(t, err)
	require.ErrorIs(t, err, kind)
	if msg != "" {
		require.Equal(t, msg, err.Error())
	}
}
