package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

// Драйверы хранилища.
const (
	DriverSQLX   = "sqlx"
	DriverGorm   = "gorm"
	DriverMemory = "memory"
)

// Config хранит все конфигурационные параметры приложения.
type Config struct {
	DatabaseURL    string        `env:"DATABASE_URL"`
	StorageDriver  string        `env:"STORAGE_DRIVER" envDefault:"sqlx"`
	MigrationsPath string        `env:"MIGRATIONS_PATH" envDefault:"file://internal/database/postgres/migrations"`
	AutoMigrate    bool          `env:"AUTO_MIGRATE" envDefault:"true"`
	ServerPort     string        `env:"SERVER_PORT" envDefault:"8080"`
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT" envDefault:"15s"`

	Log struct {
		Level  string `env:"LOG_LEVEL" envDefault:"info"`
		Format string `env:"LOG_FORMAT" envDefault:"json"`
	}

	// RabbitMQ не обязателен: без URL (или с STORAGE_DRIVER=memory) время
	// использования токенов пишется синхронно.
	RabbitMQ struct {
		RabbitMQURL       string `env:"RABBITMQ_URL"`
		RabbitMQQueueName string `env:"RABBITMQ_QUEUE_NAME" envDefault:"token_usage_queue"`
	}
}

// LoadConfig загружает конфигурацию из переменных окружения.
// В режиме разработки пытается загрузить .env файл.
func LoadConfig() (*Config, error) {
	if _, err := os.Stat(".env"); !os.IsNotExist(err) {
		if err := godotenv.Load(); err != nil {
			return nil, fmt.Errorf("ошибка загрузки .env файла: %w", err)
		}
	}

	cfg := Config{}
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("ошибка парсинга конфигурации из окружения: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate проверяет зависимости между параметрами.
func (c *Config) Validate() error {
	switch c.StorageDriver {
	case DriverSQLX, DriverGorm:
		if c.DatabaseURL == "" {
			return errors.New("DATABASE_URL обязателен для драйвера " + c.StorageDriver)
		}
	case DriverMemory:
	default:
		return fmt.Errorf("неизвестный STORAGE_DRIVER %q", c.StorageDriver)
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("REQUEST_TIMEOUT должен быть положительным, получено %s", c.RequestTimeout)
	}
	return nil
}

// QueueEnabled — true, если настроен брокер RabbitMQ и хранилище общее для
// сервера и воркера. In-memory хранилище у каждого процесса своё, поэтому с ним
// очередь не используется.
func (c *Config) QueueEnabled() bool {
	return c.RabbitMQ.RabbitMQURL != "" && c.StorageDriver != DriverMemory
}
