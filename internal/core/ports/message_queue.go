package ports

import (
	"context"

	"github.com/GoArmGo/TaskApp/internal/messaging/payloads"
)

// TokenUsagePublisher публикует факт использования токена.
// Используется middleware аутентификации HTTP-сервера.
type TokenUsagePublisher interface {
	PublishTokenUsed(ctx context.Context, payload payloads.TokenUsedPayload) error
}

// TokenUsageConsumer потребляет события использования токенов
// будет использоваться воркером
type TokenUsageConsumer interface {
	// StartConsumingTokenUsage начинает прослушивание очереди; handler вызывается на каждое сообщение
	StartConsumingTokenUsage(ctx context.Context, handler func(context.Context, payloads.TokenUsedPayload) error) error
}
