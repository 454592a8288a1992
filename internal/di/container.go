package di

import (
	"fmt"
	"log/slog"

	"github.com/GoArmGo/TaskApp/internal/adapter/idgen"
	"github.com/GoArmGo/TaskApp/internal/adapter/tokengen"
	"github.com/GoArmGo/TaskApp/internal/app"
	"github.com/GoArmGo/TaskApp/internal/config"
	"github.com/GoArmGo/TaskApp/internal/core/ports"
	"github.com/GoArmGo/TaskApp/internal/database/client"
	"github.com/GoArmGo/TaskApp/internal/database/memory"
	"github.com/GoArmGo/TaskApp/internal/database/postgres"
	"github.com/GoArmGo/TaskApp/internal/database/storage"
	"github.com/GoArmGo/TaskApp/internal/logger"
	"github.com/GoArmGo/TaskApp/internal/rabbitmq"
	"github.com/GoArmGo/TaskApp/internal/usecase"
)

// repositories — нетранзакционные репозитории для запросов и фабрика UnitOfWork для команд.
type repositories struct {
	newUoW ports.UnitOfWorkFactory
	tasks  ports.TaskRepository
	users  ports.UserRepository
	tokens ports.TokenRepository
	closer app.Closer
}

// BuildApp инициализирует все зависимости и возвращает готовый объект App.
func BuildApp() (*app.App, error) {
	// 1. Загрузка конфигурации
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, err
	}

	slogger := logger.NewSlog(logger.SlogConfig{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
	})
	slogger.Info("logger initialized", "level", cfg.Log.Level, "format", cfg.Log.Format)

	// 2. Хранилище
	repos, err := buildRepositories(cfg, slogger)
	if err != nil {
		return nil, err
	}
	closers := []app.Closer{repos.closer}

	// 3. RabbitMQ (необязателен)
	var (
		publisher ports.TokenUsagePublisher
		consumer  ports.TokenUsageConsumer
	)
	if cfg.QueueEnabled() {
		rabbitMQClient, err := rabbitmq.NewClient(cfg, slogger)
		if err != nil {
			_ = repos.closer()
			return nil, err
		}
		publisher, consumer = rabbitMQClient, rabbitMQClient
		closers = append(closers, func() error {
			rabbitMQClient.Close()
			return nil
		})
	} else if cfg.RabbitMQ.RabbitMQURL != "" {
		slogger.Warn("RABBITMQ_URL is ignored with in-memory storage, token usage is recorded synchronously")
	} else {
		slogger.Info("RABBITMQ_URL is not set, token usage is recorded synchronously")
	}

	// 4. Бизнес-логика
	useCases := usecase.New(usecase.Dependencies{
		NewUnitOfWork:  repos.newUoW,
		Tasks:          repos.tasks,
		Users:          repos.users,
		Tokens:         repos.tokens,
		IDs:            idgen.UUIDv7{},
		TokenGenerator: tokengen.NewRandom(),
		Logger:         slogger,
	})

	slogger.Info("all dependencies initialized", "storage_driver", cfg.StorageDriver)
	return app.NewApp(cfg, slogger, useCases, publisher, consumer, closers...), nil
}

func buildRepositories(cfg *config.Config, logger *slog.Logger) (*repositories, error) {
	switch cfg.StorageDriver {
	case config.DriverSQLX:
		dbClient, err := client.NewClient(cfg, logger)
		if err != nil {
			return nil, err
		}
		return &repositories{
			newUoW: storage.NewUnitOfWorkFactory(dbClient.DB, logger),
			tasks:  storage.NewTaskStorage(dbClient.DB, logger),
			users:  storage.NewUserStorage(dbClient.DB, logger),
			tokens: storage.NewTokenStorage(dbClient.DB, logger),
			closer: dbClient.Close,
		}, nil

	case config.DriverGorm:
		db, err := postgres.NewGormDB(cfg, logger)
		if err != nil {
			return nil, err
		}
		sqlDB, err := db.DB()
		if err != nil {
			return nil, fmt.Errorf("ошибка получения *sql.DB из gorm: %w", err)
		}
		return &repositories{
			newUoW: postgres.NewGormUnitOfWorkFactory(db, logger),
			tasks:  postgres.NewGormTaskStorage(db, logger),
			users:  postgres.NewGormUserStorage(db, logger),
			tokens: postgres.NewGormTokenStorage(db, logger),
			closer: sqlDB.Close,
		}, nil

	case config.DriverMemory:
		logger.Warn("using in-memory storage, data is lost on restart")
		store := memory.NewStore()
		return &repositories{
			newUoW: store.UnitOfWorkFactory(),
			tasks:  store.Tasks(),
			users:  store.Users(),
			tokens: store.Tokens(),
			closer: func() error { return nil },
		}, nil

	default:
		return nil, fmt.Errorf("неизвестный STORAGE_DRIVER %q", cfg.StorageDriver)
	}
}
