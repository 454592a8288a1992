package handler

import (
	"context"
	"log/slog"

	"github.com/GoArmGo/TaskApp/internal/core/ports"
	"github.com/GoArmGo/TaskApp/internal/domain"
	"github.com/GoArmGo/TaskApp/internal/messaging/payloads"
	"github.com/GoArmGo/TaskApp/internal/usecase"
)

// TokenUsageRecorder отмечает, что токен был предъявлен. Ошибки не прерывают запрос.
type TokenUsageRecorder interface {
	RecordTokenUsage(ctx context.Context, token *domain.Token)
}

// UsageRecorder публикует событие в очередь, а без брокера (или если публикация
// не удалась) обновляет last_used_at сразу.
type UsageRecorder struct {
	publisher ports.TokenUsagePublisher
	update    *usecase.UpdateTokenLastUsedCommand
	logger    *slog.Logger
}

// NewUsageRecorder создаёт recorder; publisher может быть nil.
func NewUsageRecorder(
	publisher ports.TokenUsagePublisher,
	update *usecase.UpdateTokenLastUsedCommand,
	logger *slog.Logger,
) *UsageRecorder {
	return &UsageRecorder{publisher: publisher, update: update, logger: logger}
}

func (u *UsageRecorder) RecordTokenUsage(ctx context.Context, token *domain.Token) {
	tokenID := token.ID().String()

	if u.publisher != nil {
		err := u.publisher.PublishTokenUsed(ctx, payloads.TokenUsedPayload{
			TokenID: tokenID,
			UsedAt:  domain.Now(),
		})
		if err == nil {
			return
		}
		u.logger.Warn("failed to publish token usage, updating synchronously", "token_id", tokenID, "error", err)
	}

	if err := u.update.Execute(ctx, tokenID); err != nil {
		u.logger.Error("failed to update token last used time", "token_id", tokenID, "error", err)
	}
}
