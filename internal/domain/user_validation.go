package domain

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

const (
	usernameMinLength = 3
	usernameMaxLength = 50
	emailMaxLength    = 255
	passwordMinLength = 8
)

var (
	usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)
	validate        = validator.New()
)

// ValidateUsername проверяет имя пользователя после обрезки пробелов.
func ValidateUsername(username string) error {
	username = strings.TrimSpace(username)

	switch {
	case username == "":
		return NewError(KindInvalidUsername, "Username cannot be empty.")
	case len(username) < usernameMinLength:
		return NewError(KindInvalidUsername, fmt.Sprintf("Username must be at least %d characters long.", usernameMinLength))
	case len(username) > usernameMaxLength:
		return NewError(KindInvalidUsername, fmt.Sprintf("Username cannot be longer than %d characters.", usernameMaxLength))
	case !usernamePattern.MatchString(username):
		return NewError(KindInvalidUsername, "Username can only contain letters, numbers, underscores, and hyphens.")
	}
	return nil
}

// ValidateEmail проверяет длину и синтаксис адреса.
func ValidateEmail(email string) error {
	email = strings.TrimSpace(email)

	switch {
	case email == "":
		return NewError(KindInvalidEmail, "Email cannot be empty.")
	case len(email) > emailMaxLength:
		return NewError(KindInvalidEmail, fmt.Sprintf("Email cannot be longer than %d characters.", emailMaxLength))
	case validate.Var(email, "email") != nil:
		return NewError(KindInvalidEmail, "Invalid email format: "+email)
	}
	return nil
}

func ValidatePassword(plainPassword string) error {
	if len(plainPassword) < passwordMinLength {
		return NewError(KindInvalidPassword, fmt.Sprintf("Password must be at least %d characters long.", passwordMinLength))
	}
	return nil
}

// ValidateUserCreateProps проверяет входные данные до создания пользователя.
func ValidateUserCreateProps(id, username, email, plainPassword string) error {
	if err := ValidateID(id); err != nil {
		return err
	}
	if err := ValidateUsername(username); err != nil {
		return err
	}
	if err := ValidateEmail(email); err != nil {
		return err
	}
	return ValidatePassword(plainPassword)
}

// ValidateUserUpdateProps проверяет только переданные поля.
func ValidateUserUpdateProps(username, email, plainPassword *string) error {
	if username != nil {
		if err := ValidateUsername(*username); err != nil {
			return err
		}
	}
	if email != nil {
		if err := ValidateEmail(*email); err != nil {
			return err
		}
	}
	if plainPassword != nil {
		if err := ValidatePassword(*plainPassword); err != nil {
			return err
		}
	}
	return nil
}

// ValidateCreatedUser проверяет только что собранного пользователя.
func ValidateCreatedUser(u *User) error {
	if err := ValidateID(u.id.String()); err != nil {
		return err
	}
	if u.username == "" {
		return NewError(KindInvalidUsername, "User username cannot be empty")
	}
	if u.email.String() == "" {
		return NewError(KindInvalidEmail, "User email cannot be empty")
	}
	if u.createdAt.IsZero() {
		return NewError(KindInvalidTimestamp, "User createdAt cannot be empty")
	}
	if err := ValidateUpdatedAt(u.createdAt, u.updatedAt); err != nil {
		return err
	}
	if u.emailVerified || u.emailVerifiedAt != nil {
		return NewError(KindInvalidEmail, "Newly created user cannot have a verified email.")
	}
	return nil
}
