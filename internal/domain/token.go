package domain

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"strings"
	"time"
)

// HashToken возвращает SHA-256 (hex) открытого значения токена.
// В хранилище лежит только этот отпечаток.
func HashToken(plainTextToken string) string {
	sum := sha256.Sum256([]byte(plainTextToken))
	return hex.EncodeToString(sum[:])
}

// Token — токен доступа пользователя.
type Token struct {
	id             TokenID
	userID         UserID
	plainTextToken string
	tokenHash      string
	expiresAt      *time.Time
	revoked        bool
	createdAt      time.Time
	lastUsedAt     time.Time
}

// TokenSnapshot — представление токена для хранилища. PlainTextToken не сохраняется
// и после чтения из хранилища пуст.
type TokenSnapshot struct {
	ID             string
	UserID         string
	PlainTextToken string
	TokenHash      string
	ExpiresAt      *time.Time
	Revoked        bool
	CreatedAt      time.Time
	LastUsedAt     time.Time
}

// NewToken выпускает токен. lastUsedAt совпадает с createdAt.
func NewToken(id string, userID UserID, plainTextToken string, expiresAt *time.Time) (*Token, error) {
	if err := ValidateTokenCreateProps(id, userID, plainTextToken, expiresAt); err != nil {
		return nil, err
	}

	tokenID, err := NewTokenID(id)
	if err != nil {
		return nil, err
	}

	plain := strings.TrimSpace(plainTextToken)
	now := Now()
	t := &Token{
		id:             tokenID,
		userID:         userID,
		plainTextToken: plain,
		tokenHash:      HashToken(plain),
		expiresAt:      expiresAt,
		createdAt:      now,
		lastUsedAt:     now,
	}

	if err := ValidateCreatedToken(t); err != nil {
		return nil, err
	}
	return t, nil
}

// ReconstructToken поднимает токен из хранилища.
func ReconstructToken(s TokenSnapshot) (*Token, error) {
	userID, err := NewUserID(s.UserID)
	if err != nil {
		return nil, err
	}
	if s.PlainTextToken != "" {
		if err := ValidatePlainTextToken(s.PlainTextToken); err != nil {
			return nil, err
		}
	}

	hash := s.TokenHash
	if hash == "" && s.PlainTextToken != "" {
		hash = HashToken(s.PlainTextToken)
	}

	t := &Token{
		id:             TokenIDFromStorage(s.ID),
		userID:         userID,
		plainTextToken: s.PlainTextToken,
		tokenHash:      hash,
		expiresAt:      s.ExpiresAt,
		revoked:        s.Revoked,
		createdAt:      s.CreatedAt,
		lastUsedAt:     s.LastUsedAt,
	}

	if err := ValidateReconstructedToken(t); err != nil {
		return nil, err
	}
	return t, nil
}

// IsExpired — true, если срок действия задан и уже прошёл.
func (t *Token) IsExpired() bool {
	if t.expiresAt == nil {
		return false
	}
	return Now().After(*t.expiresAt)
}

// IsValid — токен не отозван и не истёк.
func (t *Token) IsValid() bool {
	return !t.revoked && !t.IsExpired()
}

// Revoke отзывает токен. Обратного перехода нет.
func (t *Token) Revoke() {
	t.revoked = true
}

// UpdateLastUsedAt обновляет время последнего использования.
func (t *Token) UpdateLastUsedAt() {
	t.lastUsedAt = Now()
}

// Matches сравнивает кандидата с токеном за постоянное время.
func (t *Token) Matches(plainTextToken string) bool {
	candidate := HashToken(plainTextToken)
	return subtle.ConstantTimeCompare([]byte(t.tokenHash), []byte(candidate)) == 1
}

func (t *Token) ID() TokenID { return t.id }

func (t *Token) UserID() UserID { return t.userID }

// PlainTextToken доступен только у только что выпущенного токена.
func (t *Token) PlainTextToken() string { return t.plainTextToken }

func (t *Token) TokenHash() string { return t.tokenHash }

func (t *Token) ExpiresAt() *time.Time { return t.expiresAt }

func (t *Token) IsRevoked() bool { return t.revoked }

func (t *Token) CreatedAt() time.Time { return t.createdAt }

func (t *Token) LastUsedAt() time.Time { return t.lastUsedAt }

func (t *Token) Snapshot() TokenSnapshot {
	return TokenSnapshot{
		ID:             t.id.String(),
		UserID:         t.userID.String(),
		PlainTextToken: t.plainTextToken,
		TokenHash:      t.tokenHash,
		ExpiresAt:      t.expiresAt,
		Revoked:        t.revoked,
		CreatedAt:      t.createdAt,
		LastUsedAt:     t.lastUsedAt,
	}
}
