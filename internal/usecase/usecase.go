package usecase

import (
	"log/slog"

	"github.com/GoArmGo/TaskApp/internal/core/ports"
)

// Dependencies — порты, из которых собираются все команды и запросы.
// Репозитории здесь не транзакционные и нужны только запросам.
type Dependencies struct {
	NewUnitOfWork  ports.UnitOfWorkFactory
	Tasks          ports.TaskRepository
	Users          ports.UserRepository
	Tokens         ports.TokenRepository
	IDs            ports.IDGenerator
	TokenGenerator ports.TokenGenerator
	Logger         *slog.Logger
}

// UseCases — бизнес-логика приложения: по одному объекту на сценарий.
type UseCases struct {
	CreateTask *CreateTaskCommand
	UpdateTask *UpdateTaskCommand
	DeleteTask *DeleteTaskCommand

	CreateUser      *CreateUserCommand
	UpdateUser      *UpdateUserCommand
	DeleteUser      *DeleteUserCommand
	VerifyUserEmail *VerifyUserEmailCommand

	Login    *LoginCommand
	Register *RegisterCommand

	CreateToken         *CreateTokenCommand
	RevokeToken         *RevokeTokenCommand
	RevokeAllUserTokens *RevokeAllUserTokensCommand
	UpdateTokenLastUsed *UpdateTokenLastUsedCommand

	GetAllTasks       *GetAllTasksQuery
	GetTaskByID       *GetTaskByIDQuery
	GetUserByID       *GetUserByIDQuery
	GetUserByEmail    *GetUserByEmailQuery
	GetUserByUsername *GetUserByUsernameQuery
	GetTokenByID      *GetTokenByIDQuery
	GetTokensByUserID *GetTokensByUserIDQuery
	AuthenticateToken *AuthenticateTokenQuery
}

// New собирает все сценарии из общих зависимостей.
func New(deps Dependencies) *UseCases {
	uow, log := deps.NewUnitOfWork, deps.Logger

	return &UseCases{
		CreateTask: NewCreateTaskCommand(uow, deps.IDs, log),
		UpdateTask: NewUpdateTaskCommand(uow, log),
		DeleteTask: NewDeleteTaskCommand(uow, log),

		CreateUser:      NewCreateUserCommand(uow, deps.IDs, log),
		UpdateUser:      NewUpdateUserCommand(uow, log),
		DeleteUser:      NewDeleteUserCommand(uow, log),
		VerifyUserEmail: NewVerifyUserEmailCommand(uow, log),

		Login:    NewLoginCommand(uow, deps.IDs, deps.TokenGenerator, log),
		Register: NewRegisterCommand(uow, deps.IDs, deps.TokenGenerator, log),

		CreateToken:         NewCreateTokenCommand(uow, deps.IDs, log),
		RevokeToken:         NewRevokeTokenCommand(uow, log),
		RevokeAllUserTokens: NewRevokeAllUserTokensCommand(uow, log),
		UpdateTokenLastUsed: NewUpdateTokenLastUsedCommand(uow, log),

		GetAllTasks:       NewGetAllTasksQuery(deps.Tasks),
		GetTaskByID:       NewGetTaskByIDQuery(deps.Tasks),
		GetUserByID:       NewGetUserByIDQuery(deps.Users),
		GetUserByEmail:    NewGetUserByEmailQuery(deps.Users),
		GetUserByUsername: NewGetUserByUsernameQuery(deps.Users),
		GetTokenByID:      NewGetTokenByIDQuery(deps.Tokens),
		GetTokensByUserID: NewGetTokensByUserIDQuery(deps.Tokens),
		AuthenticateToken: NewAuthenticateTokenQuery(deps.Tokens),
	}
}
