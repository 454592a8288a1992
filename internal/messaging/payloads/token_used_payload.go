package payloads

import "time"

// TokenUsedPayload — сообщение об использовании токена доступа,
// передаётся через RabbitMQ от HTTP-сервера воркеру.
type TokenUsedPayload struct {
	TokenID string    `json:"token_id"`
	UsedAt  time.Time `json:"used_at"`
}
