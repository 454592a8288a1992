package ports

import (
	"context"
	"errors"

	"github.com/GoArmGo/TaskApp/internal/domain"
)

// TaskRepository определяет методы для работы с хранилищем задач.
// Отсутствие записи — всегда доменная ошибка TaskNotFound, а не nil.
type TaskRepository interface {
	GetTaskByID(ctx context.Context, id domain.TaskID) (*domain.Task, error)
	GetAllTasks(ctx context.Context) ([]*domain.Task, error)
	Save(ctx context.Context, task *domain.Task) error
	DeleteByTaskID(ctx context.Context, id domain.TaskID) error
}

// UserRepository определяет методы для работы с хранилищем пользователей.
type UserRepository interface {
	Save(ctx context.Context, user *domain.User) error
	FindByID(ctx context.Context, id domain.UserID) (*domain.User, error)
	FindByEmail(ctx context.Context, email domain.Email) (*domain.User, error)
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	DeleteByID(ctx context.Context, id domain.UserID) error
}

// TokenRepository определяет методы для работы с токенами доступа.
type TokenRepository interface {
	Save(ctx context.Context, token *domain.Token) error
	FindByID(ctx context.Context, id domain.TokenID) (*domain.Token, error)
	// GetByPlainTextToken ищет токен по отпечатку открытого значения.
	GetByPlainTextToken(ctx context.Context, plainTextToken string) (*domain.Token, error)
	// GetByUserID возвращает пустой срез, если у пользователя нет токенов.
	GetByUserID(ctx context.Context, userID domain.UserID) ([]*domain.Token, error)
	DeleteByID(ctx context.Context, id domain.TokenID) error
}

var (
	ErrNoTransaction     = errors.New("unit of work: no active transaction")
	ErrTransactionActive = errors.New("unit of work: transaction already started")
)

// UnitOfWork объединяет записи в нескольких репозиториях в одну транзакцию.
// Один экземпляр обслуживает одну операцию и не рассчитан на конкурентный доступ.
type UnitOfWork interface {
	Begin(ctx context.Context) error
	// Commit фиксирует транзакцию; при ошибке фиксации сам откатывает её и возвращает ошибку.
	Commit() error
	// Rollback без активной транзакции ничего не делает.
	Rollback() error

	Tasks() TaskRepository
	Users() UserRepository
	Tokens() TokenRepository
}

// UnitOfWorkFactory выдаёт новый UnitOfWork на каждую операцию.
type UnitOfWorkFactory func() UnitOfWork
