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

var _ ports.TokenRepository = (*TokenStorage)(nil)

const tokenColumns = `id, user_id, token_hash, expires_at, revoked, created_at, last_used_at`

// tokenRow не содержит открытого значения токена: в БД хранится только хеш.
type tokenRow struct {
	ID         string     `db:"id"`
	UserID     string     `db:"user_id"`
	TokenHash  string     `db:"token_hash"`
	ExpiresAt  *time.Time `db:"expires_at"`
	Revoked    bool       `db:"revoked"`
	CreatedAt  time.Time  `db:"created_at"`
	LastUsedAt time.Time  `db:"last_used_at"`
}

func tokenRowFromDomain(t *domain.Token) tokenRow {
	s := t.Snapshot()
	return tokenRow{
		ID:         s.ID,
		UserID:     s.UserID,
		TokenHash:  s.TokenHash,
		ExpiresAt:  s.ExpiresAt,
		Revoked:    s.Revoked,
		CreatedAt:  s.CreatedAt,
		LastUsedAt: s.LastUsedAt,
	}
}

func (r tokenRow) toDomain() (*domain.Token, error) {
	var expiresAt *time.Time
	if r.ExpiresAt != nil {
		t := r.ExpiresAt.UTC()
		expiresAt = &t
	}
	return domain.ReconstructToken(domain.TokenSnapshot{
		ID:         r.ID,
		UserID:     r.UserID,
		TokenHash:  r.TokenHash,
		ExpiresAt:  expiresAt,
		Revoked:    r.Revoked,
		CreatedAt:  r.CreatedAt.UTC(),
		LastUsedAt: r.LastUsedAt.UTC(),
	})
}

// TokenStorage хранит токены доступа в таблице tokens.
type TokenStorage struct {
	conn *conn
}

func NewTokenStorage(db *sqlx.DB, logger *slog.Logger) *TokenStorage {
	return &TokenStorage{conn: &conn{db: db, logger: logger}}
}

// tokenUpsertQuery вставляет токен. У существующего меняются только revoked и
// last_used_at, причём отзыв необратим: устаревшая копия не снимает его.
const tokenUpsertQuery = `
	INSERT INTO tokens (` + tokenColumns + `)
	VALUES (:id, :user_id, :token_hash, :expires_at, :revoked, :created_at, :last_used_at)
	ON CONFLICT (id) DO UPDATE SET
		revoked = tokens.revoked OR EXCLUDED.revoked,
		last_used_at = EXCLUDED.last_used_at
	`

// Save вставляет новый токен. У существующего меняются только revoked и last_used_at.
func (s *TokenStorage) Save(ctx context.Context, token *domain.Token) error {
	start := time.Now()

	row := tokenRowFromDomain(token)
	if _, err := s.conn.q().NamedExecContext(ctx, tokenUpsertQuery, row); err != nil {
		if isForeignKeyViolation(err) {
			s.conn.logger.Warn("token owner does not exist", "user_id", row.UserID)
			return domain.NewError(domain.KindUserNotFound, "")
		}
		s.conn.logger.Error("failed to save token", "token_id", row.ID, "error", err)
		return fmt.Errorf("ошибка при сохранении токена: %w", err)
	}

	s.conn.logger.Info("token saved",
		"token_id", row.ID,
		"user_id", row.UserID,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return nil
}

func (s *TokenStorage) FindByID(ctx context.Context, id domain.TokenID) (*domain.Token, error) {
	return s.findOne(ctx, `id = $1`, id.String())
}

// GetByPlainTextToken ищет токен по SHA-256 открытого значения.
func (s *TokenStorage) GetByPlainTextToken(ctx context.Context, plainTextToken string) (*domain.Token, error) {
	return s.findOne(ctx, `token_hash = $1`, domain.HashToken(plainTextToken))
}

func (s *TokenStorage) GetByUserID(ctx context.Context, userID domain.UserID) ([]*domain.Token, error) {
	start := time.Now()

	var rows []tokenRow
	query := `SELECT ` + tokenColumns + ` FROM tokens WHERE user_id = $1 ORDER BY created_at, id`

	if err := s.conn.q().SelectContext(ctx, &rows, query, userID.String()); err != nil {
		s.conn.logger.Error("failed to list user tokens", "user_id", userID.String(), "error", err)
		return nil, fmt.Errorf("ошибка при получении токенов пользователя: %w", err)
	}

	tokens := make([]*domain.Token, 0, len(rows))
	for _, row := range rows {
		token, err := row.toDomain()
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

func (s *TokenStorage) DeleteByID(ctx context.Context, id domain.TokenID) error {
	res, err := s.conn.q().ExecContext(ctx, `DELETE FROM tokens WHERE id = $1`, id.String())
	if err != nil {
		s.conn.logger.Error("failed to delete token", "token_id", id.String(), "error", err)
		return fmt.Errorf("ошибка при удалении токена: %w", err)
	}
	if err := checkDeleted(res, "токена", domain.NewError(domain.KindTokenNotFound, "")); err != nil {
		return err
	}
	return nil
}

func (s *TokenStorage) findOne(ctx context.Context, where string, arg any) (*domain.Token, error) {
	var row tokenRow
	query := `SELECT ` + tokenColumns + ` FROM tokens WHERE ` + where + ` LIMIT 1`

	if err := s.conn.q().GetContext(ctx, &row, query, arg); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NewError(domain.KindTokenNotFound, "")
		}
		s.conn.logger.Error("failed to select token", "error", err)
		return nil, fmt.Errorf("ошибка при получении токена: %w", err)
	}
	return row.toDomain()
}
