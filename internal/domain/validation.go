package domain

import (
	"regexp"
	"time"
)

var uuidPattern = regexp.MustCompile(`(?i)^[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}$`)

// ValidateID проверяет, что строка — UUID в каноническом формате (регистр не важен).
func ValidateID(id string) error {
	if id == "" {
		return NewError(KindInvalidID, "ID cannot be empty.")
	}
	if !uuidPattern.MatchString(id) {
		return NewError(KindInvalidID, "Invalid UUID format")
	}
	return nil
}

// ValidateTimestamp отклоняет метки времени из будущего.
func ValidateTimestamp(t time.Time) error {
	if t.After(Now()) {
		return NewError(KindInvalidTimestamp, "Timestamp cannot be in the future.")
	}
	return nil
}

// ValidateUpdatedAt проверяет, что updatedAt не раньше createdAt.
func ValidateUpdatedAt(createdAt, updatedAt time.Time) error {
	if updatedAt.Before(createdAt) {
		return NewError(KindInvalidTimestamp, "UpdatedAt cannot be earlier than CreatedAt.")
	}
	return nil
}
