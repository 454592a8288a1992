package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/GoArmGo/TaskApp/internal/core/ports"
	"github.com/GoArmGo/TaskApp/internal/domain"
)

const (
	sessionTokenTTL    = 24 * time.Hour
	rememberMeTokenTTL = 30 * 24 * time.Hour
	registerTokenTTL   = 30 * 24 * time.Hour
)

// LoginCommand проверяет почту и пароль и выпускает токен доступа.
type LoginCommand struct {
	newUoW    ports.UnitOfWorkFactory
	ids       ports.IDGenerator
	generator ports.TokenGenerator
	logger    *slog.Logger
}

func NewLoginCommand(newUoW ports.UnitOfWorkFactory, ids ports.IDGenerator, generator ports.TokenGenerator, logger *slog.Logger) *LoginCommand {
	return &LoginCommand{newUoW: newUoW, ids: ids, generator: generator, logger: logger}
}

// Execute не различает «нет такой почты» и «неверный пароль»: в обоих случаях InvalidCredentials.
func (c *LoginCommand) Execute(ctx context.Context, in LoginInput) (*AuthResult, error) {
	result, err := runInTransaction(ctx, c.newUoW, c.logger, func(uow ports.UnitOfWork) (*AuthResult, error) {
		email, err := domain.NewEmail(in.Email)
		if err != nil {
			return nil, domain.NewError(domain.KindInvalidCredentials, "")
		}

		user, err := uow.Users().FindByEmail(ctx, email)
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.NewError(domain.KindInvalidCredentials, "")
		}
		if err != nil {
			return nil, err
		}
		if !user.VerifyPassword(in.Password) {
			return nil, domain.NewError(domain.KindInvalidCredentials, "")
		}

		ttl := sessionTokenTTL
		if in.RememberMe {
			ttl = rememberMeTokenTTL
		}
		token, err := issueToken(ctx, uow, c.ids, c.generator, user.ID(), domain.Now().Add(ttl))
		if err != nil {
			return nil, err
		}

		return &AuthResult{User: user, Token: token, PlainTextToken: token.PlainTextToken()}, nil
	})
	if err != nil {
		return nil, err
	}

	c.logger.Info("user logged in", "user_id", result.User.ID().String(), "remember_me", in.RememberMe)
	return result, nil
}

// RegisterCommand создаёт пользователя и сразу выдаёт ему токен на 30 дней.
type RegisterCommand struct {
	newUoW    ports.UnitOfWorkFactory
	ids       ports.IDGenerator
	generator ports.TokenGenerator
	logger    *slog.Logger
}

func NewRegisterCommand(newUoW ports.UnitOfWorkFactory, ids ports.IDGenerator, generator ports.TokenGenerator, logger *slog.Logger) *RegisterCommand {
	return &RegisterCommand{newUoW: newUoW, ids: ids, generator: generator, logger: logger}
}

func (c *RegisterCommand) Execute(ctx context.Context, in RegisterInput) (*AuthResult, error) {
	result, err := runInTransaction(ctx, c.newUoW, c.logger, func(uow ports.UnitOfWork) (*AuthResult, error) {
		user, err := domain.NewUser(c.ids.Generate(), in.Username, in.Email, in.Password)
		if err != nil {
			return nil, err
		}
		if err := uow.Users().Save(ctx, user); err != nil {
			return nil, err
		}

		token, err := issueToken(ctx, uow, c.ids, c.generator, user.ID(), domain.Now().Add(registerTokenTTL))
		if err != nil {
			return nil, err
		}

		return &AuthResult{User: user, Token: token, PlainTextToken: token.PlainTextToken()}, nil
	})
	if err != nil {
		return nil, err
	}

	c.logger.Info("user registered", "user_id", result.User.ID().String())
	return result, nil
}

func issueToken(
	ctx context.Context,
	uow ports.UnitOfWork,
	ids ports.IDGenerator,
	generator ports.TokenGenerator,
	userID domain.UserID,
	expiresAt time.Time,
) (*domain.Token, error) {
	plain, err := generator.Generate(userID, expiresAt)
	if err != nil {
		return nil, fmt.Errorf("generate token: %w", err)
	}

	token, err := domain.NewToken(ids.Generate(), userID, plain, &expiresAt)
	if err != nil {
		return nil, err
	}
	if err := uow.Tokens().Save(ctx, token); err != nil {
		return nil, err
	}
	return token, nil
}
