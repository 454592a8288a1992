package usecase

import (
	"context"
	"log/slog"

	"github.com/GoArmGo/TaskApp/internal/core/ports"
	"github.com/GoArmGo/TaskApp/internal/domain"
)

// CreateUserCommand регистрирует пользователя без выдачи токена.
type CreateUserCommand struct {
	newUoW ports.UnitOfWorkFactory
	ids    ports.IDGenerator
	logger *slog.Logger
}

func NewCreateUserCommand(newUoW ports.UnitOfWorkFactory, ids ports.IDGenerator, logger *slog.Logger) *CreateUserCommand {
	return &CreateUserCommand{newUoW: newUoW, ids: ids, logger: logger}
}

func (c *CreateUserCommand) Execute(ctx context.Context, in CreateUserInput) (*domain.User, error) {
	user, err := runInTransaction(ctx, c.newUoW, c.logger, func(uow ports.UnitOfWork) (*domain.User, error) {
		user, err := domain.NewUser(c.ids.Generate(), in.Username, in.Email, in.Password)
		if err != nil {
			return nil, err
		}
		if err := uow.Users().Save(ctx, user); err != nil {
			return nil, err
		}
		return user, nil
	})
	if err != nil {
		return nil, err
	}

	c.logger.Info("user created", "user_id", user.ID().String())
	return user, nil
}

// UpdateUserCommand меняет имя, почту или пароль пользователя.
type UpdateUserCommand struct {
	newUoW ports.UnitOfWorkFactory
	logger *slog.Logger
}

func NewUpdateUserCommand(newUoW ports.UnitOfWorkFactory, logger *slog.Logger) *UpdateUserCommand {
	return &UpdateUserCommand{newUoW: newUoW, logger: logger}
}

func (c *UpdateUserCommand) Execute(ctx context.Context, in UpdateUserInput) (*domain.User, error) {
	return runInTransaction(ctx, c.newUoW, c.logger, func(uow ports.UnitOfWork) (*domain.User, error) {
		id, err := domain.NewUserID(in.ID)
		if err != nil {
			return nil, err
		}

		user, err := uow.Users().FindByID(ctx, id)
		if err != nil {
			return nil, err
		}
		err = user.Update(domain.UserChanges{
			Username: in.Username,
			Email:    in.Email,
			Password: in.Password,
		})
		if err != nil {
			return nil, err
		}
		if err := uow.Users().Save(ctx, user); err != nil {
			return nil, err
		}
		return user, nil
	})
}

// DeleteUserCommand удаляет пользователя вместе с его токенами.
type DeleteUserCommand struct {
	newUoW ports.UnitOfWorkFactory
	logger *slog.Logger
}

func NewDeleteUserCommand(newUoW ports.UnitOfWorkFactory, logger *slog.Logger) *DeleteUserCommand {
	return &DeleteUserCommand{newUoW: newUoW, logger: logger}
}

func (c *DeleteUserCommand) Execute(ctx context.Context, userID string) error {
	err := inTransaction(ctx, c.newUoW, c.logger, func(uow ports.UnitOfWork) error {
		id, err := domain.NewUserID(userID)
		if err != nil {
			return err
		}
		return uow.Users().DeleteByID(ctx, id)
	})
	if err != nil {
		return err
	}

	c.logger.Info("user deleted", "user_id", userID)
	return nil
}

// VerifyUserEmailCommand отмечает почту пользователя подтверждённой.
type VerifyUserEmailCommand struct {
	newUoW ports.UnitOfWorkFactory
	logger *slog.Logger
}

func NewVerifyUserEmailCommand(newUoW ports.UnitOfWorkFactory, logger *slog.Logger) *VerifyUserEmailCommand {
	return &VerifyUserEmailCommand{newUoW: newUoW, logger: logger}
}

func (c *VerifyUserEmailCommand) Execute(ctx context.Context, userID string) (*domain.User, error) {
	return runInTransaction(ctx, c.newUoW, c.logger, func(uow ports.UnitOfWork) (*domain.User, error) {
		id, err := domain.NewUserID(userID)
		if err != nil {
			return nil, err
		}

		user, err := uow.Users().FindByID(ctx, id)
		if err != nil {
			return nil, err
		}
		user.VerifyEmail()
		if err := uow.Users().Save(ctx, user); err != nil {
			return nil, err
		}
		return user, nil
	})
}
