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

var _ ports.TokenRepository = (*GormTokenStorage)(nil)

type GormTokenStorage struct {
	conn *gormConn
}

func NewGormTokenStorage(db *gorm.DB, logger *slog.Logger) *GormTokenStorage {
	return &GormTokenStorage{conn: &gormConn{db: db, logger: logger}}
}

// tokenUpsert обновляет у существующего токена только revoked и last_used_at.
// Отзыв необратим: устаревшая копия токена его не снимает.
func tokenUpsert() clause.OnConflict {
	return clause.OnConflict{
		Columns: []clause.Column{{Name: "id"}},
		DoUpdates: clause.Set{
			{Column: clause.Column{Name: "revoked"}, Value: gorm.Expr("tokens.revoked OR excluded.revoked")},
			{Column: clause.Column{Name: "last_used_at"}, Value: gorm.Expr("excluded.last_used_at")},
		},
	}
}

func (s *GormTokenStorage) Save(ctx context.Context, token *domain.Token) error {
	start := time.Now()

	model := tokenModelFromDomain(token)
	err := s.conn.session().WithContext(ctx).
		Clauses(tokenUpsert()).
		Create(&model).Error
	if errors.Is(err, gorm.ErrForeignKeyViolated) {
		s.conn.logger.Warn("token owner does not exist", "user_id", model.UserID)
		return domain.NewError(domain.KindUserNotFound, "")
	}
	if err != nil {
		s.conn.logger.Error("failed to save token", "token_id", model.ID, "error", err)
		return fmt.Errorf("ошибка при сохранении токена с GORM: %w", err)
	}

	s.conn.logger.Info("token saved",
		"token_id", model.ID,
		"user_id", model.UserID,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return nil
}

func (s *GormTokenStorage) FindByID(ctx context.Context, id domain.TokenID) (*domain.Token, error) {
	return s.first(ctx, "id = ?", id.String())
}

func (s *GormTokenStorage) GetByPlainTextToken(ctx context.Context, plainTextToken string) (*domain.Token, error) {
	return s.first(ctx, "token_hash = ?", domain.HashToken(plainTextToken))
}

func (s *GormTokenStorage) GetByUserID(ctx context.Context, userID domain.UserID) ([]*domain.Token, error) {
	start := time.Now()

	var models []TokenModel
	err := s.conn.session().WithContext(ctx).
		Where("user_id = ?", userID.String()).
		Order("created_at, id").
		Find(&models).Error
	if err != nil {
		s.conn.logger.Error("failed to list user tokens", "user_id", userID.String(), "error", err)
		return nil, fmt.Errorf("ошибка при получении токенов пользователя с GORM: %w", err)
	}

	tokens := make([]*domain.Token, 0, len(models))
	for _, m := range models {
		token, err := m.toDomain()
		if err != nil {
			return nil, err
		}
		tokens = append(tokens, token)
	}

	s.conn.logger.Debug("listed user tokens",
		"user_id", userID.String(),
		"count", len(tokens),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return tokens, nil
}

func (s *GormTokenStorage) DeleteByID(ctx context.Context, id domain.TokenID) error {
	start := time.Now()

	res := s.conn.session().WithContext(ctx).Delete(&TokenModel{}, "id = ?", id.String())
	if res.Error != nil {
		s.conn.logger.Error("failed to delete token", "token_id", id.String(), "error", res.Error)
		return fmt.Errorf("ошибка при удалении токена с GORM: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.NewError(domain.KindTokenNotFound, "")
	}

	s.conn.logger.Info("token deleted",
		"token_id", id.String(),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return nil
}

func (s *GormTokenStorage) first(ctx context.Context, where string, arg any) (*domain.Token, error) {
	start := time.Now()

	var model TokenModel
	err := s.conn.session().WithContext(ctx).Where(where, arg).First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewError(domain.KindTokenNotFound, "")
		}
		s.conn.logger.Error("failed to select token", "error", err)
		return nil, fmt.Errorf("ошибка при получении токена с GORM: %w", err)
	}

	s.conn.logger.Debug("token found",
		"token_id", model.ID,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return model.toDomain()
}
