package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/GoArmGo/TaskApp/internal/config"
	"github.com/GoArmGo/TaskApp/internal/core/ports"
	"github.com/GoArmGo/TaskApp/internal/database/client"
	"github.com/GoArmGo/TaskApp/internal/usecase"
)

// Режимы запуска.
const (
	ModeServer  = "server"
	ModeWorker  = "worker"
	ModeMigrate = "migrate"
)

// Closer освобождает ресурс при завершении приложения.
type Closer func() error

type App struct {
	cfg       *config.Config
	logger    *slog.Logger
	useCases  *usecase.UseCases
	publisher ports.TokenUsagePublisher
	consumer  ports.TokenUsageConsumer
	closers   []Closer
}

// NewApp собирает приложение. publisher и consumer равны nil, если брокер не настроен.
func NewApp(
	cfg *config.Config,
	logger *slog.Logger,
	useCases *usecase.UseCases,
	publisher ports.TokenUsagePublisher,
	consumer ports.TokenUsageConsumer,
	closers ...Closer,
) *App {
	return &App{
		cfg:       cfg,
		logger:    logger,
		useCases:  useCases,
		publisher: publisher,
		consumer:  consumer,
		closers:   closers,
	}
}

// LoggerIns возвращает основной логгер приложения.
func (a *App) LoggerIns() *slog.Logger {
	return a.logger
}

// Run запускает выбранный режим и блокируется до SIGINT/SIGTERM.
func (a *App) Run(ctx context.Context, mode string) error {
	// канал для graceful shutdown
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	defer func() {
		if err := a.Shutdown(); err != nil {
			a.logger.Error("shutdown finished with errors", "error", err)
		}
	}()

	a.logger.Info("running application", "mode", mode, "storage_driver", a.cfg.StorageDriver)

	switch mode {
	case ModeServer:
		if err := a.autoMigrate(); err != nil {
			return err
		}
		return runServer(ctx, a.cfg, a.logger, a.useCases, a.publisher)

	case ModeWorker:
		if a.consumer == nil {
			return errors.New("режим worker требует RABBITMQ_URL и хранилище PostgreSQL (sqlx или gorm)")
		}
		if err := a.autoMigrate(); err != nil {
			return err
		}
		return runWorker(ctx, a.logger, a.useCases.UpdateTokenLastUsed, a.consumer)

	case ModeMigrate:
		if !a.usesPostgres() {
			return fmt.Errorf("режим migrate недоступен для драйвера %q", a.cfg.StorageDriver)
		}
		return client.ApplyMigrations(a.cfg, a.logger)

	default:
		return fmt.Errorf("неизвестный режим: %s (используйте 'server', 'worker' или 'migrate')", mode)
	}
}

func (a *App) usesPostgres() bool {
	return a.cfg.StorageDriver != config.DriverMemory
}

func (a *App) autoMigrate() error {
	if !a.cfg.AutoMigrate || !a.usesPostgres() {
		return nil
	}
	return client.ApplyMigrations(a.cfg, a.logger)
}

// Shutdown закрывает все ресурсы приложения в обратном порядке.
func (a *App) Shutdown() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}
