package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/GoArmGo/TaskApp/internal/core/ports"
)

// runInTransaction открывает новый UnitOfWork, выполняет fn и фиксирует транзакцию.
// Ошибка или паника в fn приводят ровно к одному Rollback, после чего
// исходная ошибка возвращается без изменений.
func runInTransaction[T any](
	ctx context.Context,
	newUoW ports.UnitOfWorkFactory,
	logger *slog.Logger,
	fn func(uow ports.UnitOfWork) (T, error),
) (T, error) {
	var zero T

	uow := newUoW()
	if err := uow.Begin(ctx); err != nil {
		return zero, fmt.Errorf("begin transaction: %w", err)
	}

	released := false
	defer func() {
		if released {
			return
		}
		if err := uow.Rollback(); err != nil {
			logger.Error("failed to rollback transaction", "error", err)
		}
	}()

	result, err := fn(uow)
	if err != nil {
		return zero, err
	}

	// Commit сам откатывает транзакцию при неудаче.
	released = true
	if err := uow.Commit(); err != nil {
		return zero, fmt.Errorf("commit transaction: %w", err)
	}
	return result, nil
}

// inTransaction — вариант runInTransaction для команд без результата.
func inTransaction(
	ctx context.Context,
	newUoW ports.UnitOfWorkFactory,
	logger *slog.Logger,
	fn func(uow ports.UnitOfWork) error,
) error {
	_, err := runInTransaction(ctx, newUoW, logger, func(uow ports.UnitOfWork) (struct{}, error) {
		return struct{}{}, fn(uow)
	})
	return err
}
