package domain

import (
	"strings"
	"time"
)

// User — учётная запись пользователя.
type User struct {
	id              UserID
	username        string
	email           Email
	password        HashedPassword
	emailVerified   bool
	emailVerifiedAt *time.Time
	createdAt       time.Time
	updatedAt       time.Time
}

// UserSnapshot — представление пользователя для хранилища.
type UserSnapshot struct {
	ID              string
	Username        string
	Email           string
	PasswordHash    string
	EmailVerified   bool
	EmailVerifiedAt *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// UserChanges — частичное изменение пользователя; Password — открытый пароль.
type UserChanges struct {
	Username *string
	Email    *string
	Password *string
}

// NewUser создаёт пользователя с неподтверждённой почтой и хешированным паролем.
func NewUser(id, username, email, plainPassword string) (*User, error) {
	if err := ValidateUserCreateProps(id, username, email, plainPassword); err != nil {
		return nil, err
	}

	userID, err := NewUserID(id)
	if err != nil {
		return nil, err
	}
	emailVO, err := NewEmail(email)
	if err != nil {
		return nil, err
	}
	password, err := HashPassword(plainPassword)
	if err != nil {
		return nil, err
	}

	now := Now()
	u := &User{
		id:        userID,
		username:  strings.TrimSpace(username),
		email:     emailVO,
		password:  password,
		createdAt: now,
		updatedAt: now,
	}

	if err := ValidateCreatedUser(u); err != nil {
		return nil, err
	}
	return u, nil
}

// ReconstructUser поднимает пользователя из хранилища. Сложность пароля
// повторно не проверяется: в снимке лежит уже готовый хеш.
func ReconstructUser(s UserSnapshot) (*User, error) {
	userID, err := NewUserID(s.ID)
	if err != nil {
		return nil, err
	}
	if err := ValidateUpdatedAt(s.CreatedAt, s.UpdatedAt); err != nil {
		return nil, err
	}

	return &User{
		id:              userID,
		username:        s.Username,
		email:           EmailFromStorage(s.Email),
		password:        HashedPasswordFromHash(s.PasswordHash),
		emailVerified:   s.EmailVerified,
		emailVerifiedAt: s.EmailVerifiedAt,
		createdAt:       s.CreatedAt,
		updatedAt:       s.UpdatedAt,
	}, nil
}

// Update применяет изменения. Смена почты сбрасывает подтверждение,
// пароль перехешируется только если передан.
func (u *User) Update(changes UserChanges) error {
	username := u.username
	if changes.Username != nil {
		username = strings.TrimSpace(*changes.Username)
	}

	if err := ValidateUserUpdateProps(&username, changes.Email, changes.Password); err != nil {
		return err
	}

	email := u.email
	if changes.Email != nil {
		var err error
		if email, err = NewEmail(*changes.Email); err != nil {
			return err
		}
	}

	password := u.password
	if changes.Password != nil {
		var err error
		if password, err = HashPassword(*changes.Password); err != nil {
			return err
		}
	}

	changed := false
	if username != u.username {
		u.username = username
		changed = true
	}
	if !email.Equals(u.email) {
		u.email = email
		u.emailVerified = false
		u.emailVerifiedAt = nil
		changed = true
	}
	if !password.Equals(u.password) {
		u.password = password
		changed = true
	}

	if changed {
		u.updatedAt = Now()
	}
	return nil
}

// VerifyPassword сверяет открытый пароль с сохранённым хешем.
func (u *User) VerifyPassword(plain string) bool {
	return u.password.Verify(plain)
}

// VerifyEmail отмечает почту подтверждённой. Повторный вызов ничего не меняет.
func (u *User) VerifyEmail() {
	if u.emailVerified {
		return
	}
	now := Now()
	u.emailVerified = true
	u.emailVerifiedAt = &now
	u.updatedAt = now
}

func (u *User) ID() UserID                  { return u.id }
func (u *User) Username() string            { return u.username }
func (u *User) Email() Email                { return u.email }
func (u *User) Password() HashedPassword    { return u.password }
func (u *User) IsEmailVerified() bool       { return u.emailVerified }
func (u *User) EmailVerifiedAt() *time.Time { return u.emailVerifiedAt }
func (u *User) CreatedAt() time.Time        { return u.createdAt }
func (u *User) UpdatedAt() time.Time        { return u.updatedAt }

func (u *User) Snapshot() UserSnapshot {
	return UserSnapshot{
		ID:              u.id.String(),
		Username:        u.username,
		Email:           u.email.String(),
		PasswordHash:    u.password.String(),
		EmailVerified:   u.emailVerified,
		EmailVerifiedAt: u.emailVerifiedAt,
		CreatedAt:       u.createdAt,
		UpdatedAt:       u.updatedAt,
	}
}
