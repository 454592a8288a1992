package usecase

import (
	"context"
	"errors"
	"strings"

	"github.com/GoArmGo/TaskApp/internal/core/ports"
	"github.com/GoArmGo/TaskApp/internal/domain"
)

// Запросы только читают данные и работают без транзакции.

type GetAllTasksQuery struct {
	tasks ports.TaskRepository
}

func NewGetAllTasksQuery(tasks ports.TaskRepository) *GetAllTasksQuery {
	return &GetAllTasksQuery{tasks: tasks}
}

func (q *GetAllTasksQuery) Execute(ctx context.Context) ([]*domain.Task, error) {
	return q.tasks.GetAllTasks(ctx)
}

type GetTaskByIDQuery struct {
	tasks ports.TaskRepository
}

func NewGetTaskByIDQuery(tasks ports.TaskRepository) *GetTaskByIDQuery {
	return &GetTaskByIDQuery{tasks: tasks}
}

func (q *GetTaskByIDQuery) Execute(ctx context.Context, taskID string) (*domain.Task, error) {
	id, err := domain.NewTaskID(taskID)
	if err != nil {
		return nil, err
	}
	return q.tasks.GetTaskByID(ctx, id)
}

type GetUserByIDQuery struct {
	users ports.UserRepository
}

func NewGetUserByIDQuery(users ports.UserRepository) *GetUserByIDQuery {
	return &GetUserByIDQuery{users: users}
}

func (q *GetUserByIDQuery) Execute(ctx context.Context, userID string) (*domain.User, error) {
	id, err := domain.NewUserID(userID)
	if err != nil {
		return nil, err
	}
	return q.users.FindByID(ctx, id)
}

type GetUserByEmailQuery struct {
	users ports.UserRepository
}

func NewGetUserByEmailQuery(users ports.UserRepository) *GetUserByEmailQuery {
	return &GetUserByEmailQuery{users: users}
}

func (q *GetUserByEmailQuery) Execute(ctx context.Context, email string) (*domain.User, error) {
	emailVO, err := domain.NewEmail(email)
	if err != nil {
		return nil, err
	}
	return q.users.FindByEmail(ctx, emailVO)
}

type GetUserByUsernameQuery struct {
	users ports.UserRepository
}

func NewGetUserByUsernameQuery(users ports.UserRepository) *GetUserByUsernameQuery {
	return &GetUserByUsernameQuery{users: users}
}

func (q *GetUserByUsernameQuery) Execute(ctx context.Context, username string) (*domain.User, error) {
	username = strings.TrimSpace(username)
	if err := domain.ValidateUsername(username); err != nil {
		return nil, err
	}
	return q.users.FindByUsername(ctx, username)
}

type GetTokenByIDQuery struct {
	tokens ports.TokenRepository
}

func NewGetTokenByIDQuery(tokens ports.TokenRepository) *GetTokenByIDQuery {
	return &GetTokenByIDQuery{tokens: tokens}
}

func (q *GetTokenByIDQuery) Execute(ctx context.Context, tokenID string) (*domain.Token, error) {
	id, err := domain.NewTokenID(tokenID)
	if err != nil {
		return nil, err
	}
	return q.tokens.FindByID(ctx, id)
}

// GetTokensByUserIDQuery возвращает пустой срез, если токенов нет.
type GetTokensByUserIDQuery struct {
	tokens ports.TokenRepository
}

func NewGetTokensByUserIDQuery(tokens ports.TokenRepository) *GetTokensByUserIDQuery {
	return &GetTokensByUserIDQuery{tokens: tokens}
}

func (q *GetTokensByUserIDQuery) Execute(ctx context.Context, userID string) ([]*domain.Token, error) {
	id, err := domain.NewUserID(userID)
	if err != nil {
		return nil, err
	}
	return q.tokens.GetByUserID(ctx, id)
}

// AuthenticateTokenQuery находит действующий токен по bearer-значению.
// Неизвестный, отозванный или истёкший токен — InvalidCredentials.
type AuthenticateTokenQuery struct {
	tokens ports.TokenRepository
}

func NewAuthenticateTokenQuery(tokens ports.TokenRepository) *AuthenticateTokenQuery {
	return &AuthenticateTokenQuery{tokens: tokens}
}

func (q *AuthenticateTokenQuery) Execute(ctx context.Context, plainTextToken string) (*domain.Token, error) {
	plainTextToken = strings.TrimSpace(plainTextToken)
	if plainTextToken == "" {
		return nil, domain.NewError(domain.KindInvalidCredentials, "")
	}

	token, err := q.tokens.GetByPlainTextToken(ctx, plainTextToken)
	if errors.Is(err, domain.ErrTokenNotFound) {
		return nil, domain.NewError(domain.KindInvalidCredentials, "")
	}
	if err != nil {
		return nil, err
	}
	if !token.IsValid() {
		return nil, domain.NewError(domain.KindInvalidCredentials, "")
	}
	return token, nil
}
