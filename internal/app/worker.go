package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/GoArmGo/TaskApp/internal/core/ports"
	"github.com/GoArmGo/TaskApp/internal/domain"
	"github.com/GoArmGo/TaskApp/internal/messaging/payloads"
	"github.com/GoArmGo/TaskApp/internal/usecase"
)

// runWorker потребляет события использования токенов до отмены ctx.
func runWorker(
	ctx context.Context,
	logger *slog.Logger,
	updateLastUsed *usecase.UpdateTokenLastUsedCommand,
	consumer ports.TokenUsageConsumer,
) error {
	logger.Info("worker started, waiting for token usage events")

	workerCtx, cancelWorker := context.WithCancel(ctx)
	defer cancelWorker()

	err := consumer.StartConsumingTokenUsage(workerCtx, tokenUsageHandler(logger, updateLastUsed))
	if err != nil {
		return fmt.Errorf("ошибка при запуске потребителя RabbitMQ: %w", err)
	}

	<-ctx.Done()
	logger.Info("shutdown signal received, stopping worker")
	return nil
}

// tokenUsageHandler применяет событие к токену. Доменные ошибки (токен удалён
// вместе с пользователем, неверный ID) не повторяются: сообщение подтверждается.
func tokenUsageHandler(
	logger *slog.Logger,
	updateLastUsed *usecase.UpdateTokenLastUsedCommand,
) func(context.Context, payloads.TokenUsedPayload) error {
	return func(ctx context.Context, payload payloads.TokenUsedPayload) error {
		err := updateLastUsed.Execute(ctx, payload.TokenID)

		var derr *domain.Error
		switch {
		case err == nil:
			logger.Debug("token last used time updated", "token_id", payload.TokenID)
			return nil
		case errors.As(err, &derr):
			logger.Warn("token usage event dropped",
				"token_id", payload.TokenID,
				"kind", derr.Kind.String(),
			)
			return nil
		default:
			return err
		}
	}
}
