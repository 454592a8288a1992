package usecase

import (
	"context"
	"log/slog"

	"github.com/GoArmGo/TaskApp/internal/core/ports"
	"github.com/GoArmGo/TaskApp/internal/domain"
)

// CreateTokenCommand сохраняет токен с заранее известным открытым значением.
type CreateTokenCommand struct {
	newUoW ports.UnitOfWorkFactory
	ids    ports.IDGenerator
	logger *slog.Logger
}

func NewCreateTokenCommand(newUoW ports.UnitOfWorkFactory, ids ports.IDGenerator, logger *slog.Logger) *CreateTokenCommand {
	return &CreateTokenCommand{newUoW: newUoW, ids: ids, logger: logger}
}

func (c *CreateTokenCommand) Execute(ctx context.Context, in CreateTokenInput) (*domain.Token, error) {
	return runInTransaction(ctx, c.newUoW, c.logger, func(uow ports.UnitOfWork) (*domain.Token, error) {
		userID, err := domain.NewUserID(in.UserID)
		if err != nil {
			return nil, err
		}
		if _, err := uow.Users().FindByID(ctx, userID); err != nil {
			return nil, err
		}

		token, err := domain.NewToken(c.ids.Generate(), userID, in.PlainTextToken, in.ExpiresAt)
		if err != nil {
			return nil, err
		}
		if err := uow.Tokens().Save(ctx, token); err != nil {
			return nil, err
		}
		return token, nil
	})
}

// RevokeTokenCommand отзывает один токен.
type RevokeTokenCommand struct {
	newUoW ports.UnitOfWorkFactory
	logger *slog.Logger
}

func NewRevokeTokenCommand(newUoW ports.UnitOfWorkFactory, logger *slog.Logger) *RevokeTokenCommand {
	return &RevokeTokenCommand{newUoW: newUoW, logger: logger}
}

func (c *RevokeTokenCommand) Execute(ctx context.Context, tokenID string) error {
	err := inTransaction(ctx, c.newUoW, c.logger, func(uow ports.UnitOfWork) error {
		id, err := domain.NewTokenID(tokenID)
		if err != nil {
			return err
		}

		token, err := uow.Tokens().FindByID(ctx, id)
		if err != nil {
			return err
		}
		token.Revoke()
		return uow.Tokens().Save(ctx, token)
	})
	if err != nil {
		return err
	}

	c.logger.Info("token revoked", "token_id", tokenID)
	return nil
}

// RevokeAllUserTokensCommand отзывает все токены пользователя в одной транзакции.
// Пользователь без токенов — не ошибка.
type RevokeAllUserTokensCommand struct {
	newUoW ports.UnitOfWorkFactory
	logger *slog.Logger
}

func NewRevokeAllUserTokensCommand(newUoW ports.UnitOfWorkFactory, logger *slog.Logger) *RevokeAllUserTokensCommand {
	return &RevokeAllUserTokensCommand{newUoW: newUoW, logger: logger}
}

// Execute возвращает количество отозванных токенов.
func (c *RevokeAllUserTokensCommand) Execute(ctx context.Context, userID string) (int, error) {
	count, err := runInTransaction(ctx, c.newUoW, c.logger, func(uow ports.UnitOfWork) (int, error) {
		id, err := domain.NewUserID(userID)
		if err != nil {
			return 0, err
		}

		tokens, err := uow.Tokens().GetByUserID(ctx, id)
		if err != nil {
			return 0, err
		}
		for _, token := range tokens {
			token.Revoke()
			if err := uow.Tokens().Save(ctx, token); err != nil {
				return 0, err
			}
		}
		return len(tokens), nil
	})
	if err != nil {
		return 0, err
	}

	c.logger.Info("user tokens revoked", "user_id", userID, "count", count)
	return count, nil
}

// UpdateTokenLastUsedCommand отмечает время последнего использования токена.
type UpdateTokenLastUsedCommand struct {
	newUoW ports.UnitOfWorkFactory
	logger *slog.Logger
}

func NewUpdateTokenLastUsedCommand(newUoW ports.UnitOfWorkFactory, logger *slog.Logger) *UpdateTokenLastUsedCommand {
	return &UpdateTokenLastUsedCommand{newUoW: newUoW, logger: logger}
}

func (c *UpdateTokenLastUsedCommand) Execute(ctx context.Context, tokenID string) error {
	return inTransaction(ctx, c.newUoW, c.logger, func(uow ports.UnitOfWork) error {
		id, err := domain.NewTokenID(tokenID)
		if err != nil {
			return err
		}

		token, err := uow.Tokens().FindByID(ctx, id)
		if err != nil {
			return err
		}
		token.UpdateLastUsedAt()
		return uow.Tokens().Save(ctx, token)
	})
}
