package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/GoArmGo/TaskApp/internal/core/ports"
	"github.com/GoArmGo/TaskApp/internal/domain"
	"github.com/jmoiron/sqlx"
)

var _ ports.UserRepository = (*UserStorage)(nil)

const userColumns = `id, username, email, password_hash, email_verified, email_verified_at, created_at, updated_at`

type userRow struct {
	ID              string     `db:"id"`
	Username        string     `db:"username"`
	Email           string     `db:"email"`
	PasswordHash    string     `db:"password_hash"`
	EmailVerified   bool       `db:"email_verified"`
	EmailVerifiedAt *time.Time `db:"email_verified_at"`
	CreatedAt       time.Time  `db:"created_at"`
	UpdatedAt       time.Time  `db:"updated_at"`
}

func userRowFromDomain(u *domain.User) userRow {
	s := u.Snapshot()
	return userRow{
		ID:              s.ID,
		Username:        s.Username,
		Email:           s.Email,
		PasswordHash:    s.PasswordHash,
		EmailVerified:   s.EmailVerified,
		EmailVerifiedAt: s.EmailVerifiedAt,
		CreatedAt:       s.CreatedAt,
		UpdatedAt:       s.UpdatedAt,
	}
}

func (r userRow) toDomain() (*domain.User, error) {
	var verifiedAt *time.Time
	if r.EmailVerifiedAt != nil {
		t := r.EmailVerifiedAt.UTC()
		verifiedAt = &t
	}
	return domain.ReconstructUser(domain.UserSnapshot{
		ID:              r.ID,
		Username:        r.Username,
		Email:           r.Email,
		PasswordHash:    r.PasswordHash,
		EmailVerified:   r.EmailVerified,
		EmailVerifiedAt: verifiedAt,
		CreatedAt:       r.CreatedAt.UTC(),
		UpdatedAt:       r.UpdatedAt.UTC(),
	})
}

// UserStorage хранит пользователей в таблице users.
type UserStorage struct {
	conn *conn
}

// NewUserStorage создает репозиторий пользователей вне транзакции.
func NewUserStorage(db *sqlx.DB, logger *slog.Logger) *UserStorage {
	return &UserStorage{conn: &conn{db: db, logger: logger}}
}

// Save вставляет пользователя или обновляет существующего. Нарушение
// уникальности имени или почты превращается в UserAlreadyExists.
func (s *UserStorage) Save(ctx context.Context, user *domain.User) error {
	start := time.Now()

	query := `
	INSERT INTO users (` + userColumns + `)
	VALUES (:id, :username, :email, :password_hash, :email_verified, :email_verified_at, :created_at, :updated_at)
	ON CONFLICT (id) DO UPDATE SET
		username = EXCLUDED.username,
		email = EXCLUDED.email,
		password_hash = EXCLUDED.password_hash,
		email_verified = EXCLUDED.email_verified,
		email_verified_at = EXCLUDED.email_verified_at,
		updated_at = EXCLUDED.updated_at
	`

	row := userRowFromDomain(user)
	if _, err := s.conn.q().NamedExecContext(ctx, query, row); err != nil {
		if isUniqueViolation(err) {
			s.conn.logger.Warn("user already exists", "username", row.Username)
			return domain.NewError(domain.KindUserAlreadyExists, "")
		}
		s.conn.logger.Error("failed to save user", "user_id", row.ID, "error", err)
		return fmt.Errorf("ошибка при сохранении пользователя: %w", err)
	}

	s.conn.logger.Info("user saved",
		"user_id", row.ID,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return nil
}

func (s *UserStorage) FindByID(ctx context.Context, id domain.UserID) (*domain.User, error) {
	return s.findOne(ctx, "id", `id = $1`, id.String())
}

// FindByEmail ищет без учёта регистра.
func (s *UserStorage) FindByEmail(ctx context.Context, email domain.Email) (*domain.User, error) {
	return s.findOne(ctx, "email", `lower(email) = $1`, email.Normalized())
}

func (s *UserStorage) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	return s.findOne(ctx, "username", `username = $1`, username)
}

// DeleteByID удаляет пользователя; токены удаляются внешним ключом ON DELETE CASCADE.
func (s *UserStorage) DeleteByID(ctx context.Context, id domain.UserID) error {
	res, err := s.conn.q().ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id.String())
	if err != nil {
		s.conn.logger.Error("failed to delete user", "user_id", id.String(), "error", err)
		return fmt.Errorf("ошибка при удалении пользователя: %w", err)
	}
	if err := checkDeleted(res, "пользователя", domain.NewError(domain.KindUserNotFound, "")); err != nil {
		return err
	}

	s.conn.logger.Info("user deleted", "user_id", id.String())
	return nil
}

func (s *UserStorage) findOne(ctx context.Context, by, where string, arg any) (*domain.User, error) {
	start := time.Now()

	var row userRow
	query := `SELECT ` + userColumns + ` FROM users WHERE ` + where + ` LIMIT 1`

	if err := s.conn.q().GetContext(ctx, &row, query, arg); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			s.conn.logger.Warn("user not found", "by", by)
			return nil, domain.NewError(domain.KindUserNotFound, "")
		}
		s.conn.logger.Error("failed to select user", "by", by, "error", err)
		return nil, fmt.Errorf("ошибка при получении пользователя: %w", err)
	}

	s.conn.logger.Debug("user found",
		"user_id", row.ID,
		"by", by,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return row.toDomain()
}
