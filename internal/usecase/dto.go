package usecase

import (
	"time"

	"github.com/GoArmGo/TaskApp/internal/domain"
)

type CreateTaskInput struct {
	Title       string
	Description string
}

// UpdateTaskInput — частичное изменение задачи; nil-поля не меняются.
type UpdateTaskInput struct {
	ID          string
	Title       *string
	Description *string
	Status      *string
}

type CreateUserInput struct {
	Username string
	Email    string
	Password string
}

type UpdateUserInput struct {
	ID       string
	Username *string
	Email    *string
	Password *string
}

type LoginInput struct {
	Email      string
	Password   string
	RememberMe bool
}

type RegisterInput struct {
	Username string
	Email    string
	Password string
}

type CreateTokenInput struct {
	UserID         string
	PlainTextToken string
	ExpiresAt      *time.Time
}

// AuthResult возвращается из Login и Register. PlainTextToken передаётся клиенту
// один раз и больше нигде не хранится.
type AuthResult struct {
	User           *domain.User
	Token          *domain.Token
	PlainTextToken string
}
