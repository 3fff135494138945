package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/clementroume/holbertonschool-files-manager/internal/config"
	"github.com/clementroume/holbertonschool-files-manager/internal/db"
	"github.com/clementroume/holbertonschool-files-manager/internal/kvstore"
	"github.com/clementroume/holbertonschool-files-manager/internal/queue"
	"github.com/clementroume/holbertonschool-files-manager/internal/repository"
	"github.com/clementroume/holbertonschool-files-manager/internal/service"
	"github.com/clementroume/holbertonschool-files-manager/internal/storage"
	"github.com/clementroume/holbertonschool-files-manager/internal/worker"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
)

// memoryQueueSize bounds each in-process queue.
const memoryQueueSize = 1024

type App struct {
	Cfg            *config.Config
	DB             *sqlx.DB
	Store          kvstore.Store
	Broker         queue.Broker
	Storage        storage.Storage
	UserRepository repository.UserRepository
	FileRepository repository.FileRepository
	EmailService   *service.EmailService
	AuthService    *service.AuthService
	UserService    *service.UserService
	FileService    *service.FileService
	StatusService  *service.StatusService
	Worker         *worker.Worker

	redis *redis.Client
}

func New(ctx context.Context, cfg *config.Config) (*App, error) {
	a := &App{Cfg: cfg}

	err := a.init(ctx)
	if err != nil {
		if closeErr := a.Close(); closeErr != nil {
			slog.Error("failed to release resources", "error", closeErr)
		}
		return nil, err
	}

	return a, nil
}

func (a *App) init(ctx context.Context) error {
	cfg := a.Cfg

	// Initialize database
	database, err := db.Init(cfg.DBDriver, cfg.DBConnection)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	a.DB = database

	// Run database migrations
	err = db.RunMigrations(database.DB, cfg.DBDriver)
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	// Credential store
	switch cfg.SessionDriver {
	case "redis":
		a.Store = kvstore.NewRedisStore(a.redisClient())
	case "memory":
		a.Store = kvstore.NewMemoryStore(cfg.SessionCacheSize, cfg.SessionTTL)
	default:
		return fmt.Errorf("unknown session driver %q", cfg.SessionDriver)
	}

	// Job queue
	switch cfg.QueueDriver {
	case "redis":
		a.Broker = queue.NewRedisBroker(a.redisClient())
	case "amqp":
		a.Broker, err = queue.DialAMQP(cfg.AMQPURL)
		if err != nil {
			return fmt.Errorf("failed to connect to queue: %w", err)
		}
	case "memory":
		a.Broker = queue.NewMemoryBroker(memoryQueueSize)
	default:
		return fmt.Errorf("unknown queue driver %q", cfg.QueueDriver)
	}

	// Storage
	a.Storage, err = storage.New(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}

	// Repositories
	a.UserRepository = repository.NewUserRepository(database)
	a.FileRepository = repository.NewFileRepository(database)

	// Services
	a.EmailService = service.NewEmailService(cfg.ResendAPIKey, cfg.EmailFrom, cfg.AppName, cfg.IsDevelopment())
	a.AuthService = service.NewAuthService(a.UserRepository, a.Store, cfg.SessionTTL)
	a.UserService = service.NewUserService(a.UserRepository, a.AuthService, a.Broker, cfg.QueueEnqueueTimeout)
	a.FileService = service.NewFileService(a.FileRepository, a.Storage, a.AuthService, a.Broker, cfg.QueueEnqueueTimeout)
	a.StatusService = service.NewStatusService(database, a.Store, a.UserRepository, a.FileRepository)

	a.Worker = worker.New(a.FileRepository, a.UserRepository, a.Storage, a.Broker, a.EmailService, cfg.WorkerConcurrency)

	return nil
}

// redisClient is shared by the session store and the queue when both use Redis.
func (a *App) redisClient() *redis.Client {
	if a.redis == nil {
		a.redis = kvstore.NewRedisClient(kvstore.RedisConfig{
			Addr:     a.Cfg.RedisAddr,
			Password: a.Cfg.RedisPassword,
			DB:       a.Cfg.RedisDB,
		})
	}
	return a.redis
}

func (a *App) Close() error {
	var errs []error

	if a.Broker != nil {
		if _, shared := a.Broker.(*queue.RedisBroker); !shared {
			errs = append(errs, a.Broker.Close())
		}
	}
	if a.Store != nil {
		if _, shared := a.Store.(*kvstore.RedisStore); !shared {
			errs = append(errs, a.Store.Close())
		}
	}
	if a.redis != nil {
		errs = append(errs, a.redis.Close())
	}
	if a.DB != nil {
		errs = append(errs, a.DB.Close())
	}

	return errors.Join(errs...)
}
