package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/GoArmGo/TaskApp/internal/core/ports"
	"github.com/GoArmGo/TaskApp/internal/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var _ ports.UserRepository = (*GormUserStorage)(nil)

// GormUserStorage реализует интерфейс ports.UserRepository с использованием GORM
type GormUserStorage struct {
	conn *gormConn
}

// NewGormUserStorage создает новый экземпляр GormUserStorage
func NewGormUserStorage(db *gorm.DB, logger *slog.Logger) *GormUserStorage {
	return &GormUserStorage{conn: &gormConn{db: db, logger: logger}}
}

// Save вставляет или обновляет пользователя; дубликат имени или почты даёт UserAlreadyExists.
func (s *GormUserStorage) Save(ctx context.Context, user *domain.User) error {
	start := time.Now()

	model := userModelFromDomain(user)
	err := s.conn.session().WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"username", "email", "password_hash", "email_verified", "email_verified_at", "updated_at",
			}),
		}).
		Create(&model).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		s.conn.logger.Warn("user already exists", "username", model.Username)
		return domain.NewError(domain.KindUserAlreadyExists, "")
	}
	if err != nil {
		s.conn.logger.Error("failed to save user", "user_id", model.ID, "error", err)
		return fmt.Errorf("ошибка при сохранении пользователя с GORM: %w", err)
	}

	s.conn.logger.Info("user saved",
		"user_id", model.ID,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return nil
}

func (s *GormUserStorage) FindByID(ctx context.Context, id domain.UserID) (*domain.User, error) {
	return s.first(ctx, "id", "id = ?", id.String())
}

func (s *GormUserStorage) FindByEmail(ctx context.Context, email domain.Email) (*domain.User, error) {
	return s.first(ctx, "email", "lower(email) = ?", email.Normalized())
}

func (s *GormUserStorage) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	return s.first(ctx, "username", "username = ?", username)
}

func (s *GormUserStorage) DeleteByID(ctx context.Context, id domain.UserID) error {
	start := time.Now()

	res := s.conn.session().WithContext(ctx).Delete(&UserModel{}, "id = ?", id.String())
	if res.Error != nil {
		s.conn.logger.Error("failed to delete user", "user_id", id.String(), "error", res.Error)
		return fmt.Errorf("ошибка при удалении пользователя с GORM: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.NewError(domain.KindUserNotFound, "")
	}

	s.conn.logger.Info("user deleted",
		"user_id", id.String(),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return nil
}

func (s *GormUserStorage) first(ctx context.Context, by, where string, arg any) (*domain.User, error) {
	start := time.Now()

	var model UserModel
	err := s.conn.session().WithContext(ctx).Where(where, arg).First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s.conn.logger.Warn("user not found", "by", by)
			return nil, domain.NewError(domain.KindUserNotFound, "")
		}
		s.conn.logger.Error("failed to select user", "by", by, "error", err)
		return nil, fmt.Errorf("ошибка при поиске пользователя с GORM: %w", err)
	}

	s.conn.logger.Debug("user found",
		"user_id", model.ID,
		"by", by,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return model.toDomain()
}
