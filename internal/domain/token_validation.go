package domain

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

const (
	plainTokenMinLength = 32
	plainTokenMaxLength = 500
)

var plainTokenPattern = regexp.MustCompile(`^[a-zA-Z0-9_\-]+$`)

// ValidatePlainTextToken проверяет открытое значение токена после обрезки пробелов.
func ValidatePlainTextToken(token string) error {
	token = strings.TrimSpace(token)

	switch {
	case token == "":
		return NewError(KindInvalidPlainTextToken, "Token cannot be empty.")
	case len(token) < plainTokenMinLength:
		return NewError(KindInvalidPlainTextToken, fmt.Sprintf("Token must be at least %d characters long.", plainTokenMinLength))
	case len(token) > plainTokenMaxLength:
		return NewError(KindInvalidPlainTextToken, fmt.Sprintf("Token cannot exceed %d characters.", plainTokenMaxLength))
	case !plainTokenPattern.MatchString(token):
		return NewError(KindInvalidPlainTextToken, "Token can only contain alphanumeric characters, hyphens and underscores.")
	}
	return nil
}

// ValidateExpiresAt допускает отсутствие срока, но не срок в прошлом.
func ValidateExpiresAt(expiresAt *time.Time) error {
	if expiresAt == nil {
		return nil
	}
	if expiresAt.Before(Now()) {
		return NewError(KindInvalidTokenTimestamp, "Token expiration time cannot be in the past.")
	}
	return nil
}

// ValidateTokenCreateProps проверяет входные данные до выпуска токена.
func ValidateTokenCreateProps(id string, userID UserID, plainTextToken string, expiresAt *time.Time) error {
	if err := ValidateID(id); err != nil {
		return err
	}
	if err := ValidateID(userID.String()); err != nil {
		return err
	}
	if err := ValidatePlainTextToken(plainTextToken); err != nil {
		return err
	}
	return ValidateExpiresAt(expiresAt)
}

// ValidateCreatedToken проверяет только что выпущенный токен.
func ValidateCreatedToken(t *Token) error {
	if err := ValidateID(t.id.String()); err != nil {
		return err
	}
	if t.revoked {
		return NewError(KindInvalidPlainTextToken, "Newly created token cannot be revoked.")
	}
	return validateTokenTimestamps(t.createdAt, t.lastUsedAt)
}

// ValidateReconstructedToken проверяет токен, поднятый из хранилища.
// Срок действия здесь не проверяется: истёкший токен тоже должен читаться.
func ValidateReconstructedToken(t *Token) error {
	if err := ValidateID(t.id.String()); err != nil {
		return err
	}
	if err := ValidateID(t.userID.String()); err != nil {
		return err
	}
	return validateTokenTimestamps(t.createdAt, t.lastUsedAt)
}

func validateTokenTimestamps(createdAt, lastUsedAt time.Time) error {
	if err := ValidateTimestamp(createdAt); err != nil {
		return err
	}
	if err := ValidateTimestamp(lastUsedAt); err != nil {
		return err
	}
	return ValidateUpdatedAt(createdAt, lastUsedAt)
}
