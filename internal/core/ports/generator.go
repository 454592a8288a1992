package ports

import (
	"time"

	"github.com/GoArmGo/TaskApp/internal/domain"
)

// IDGenerator выдаёт уникальные, сортируемые по времени идентификаторы (UUIDv7).
type IDGenerator interface {
	Generate() string
}

// TokenGenerator выпускает непрозрачное значение bearer-токена для пользователя.
type TokenGenerator interface {
	Generate(userID domain.UserID, expiresAt time.Time) (string, error)
}
