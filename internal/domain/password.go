package domain

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

var passwordCost = bcrypt.DefaultCost

// HashedPassword — bcrypt-хеш пароля. Открытый пароль в нём не хранится.
type HashedPassword struct {
	hash string
}

// HashPassword хеширует открытый пароль (с солью, поэтому два вызова дают разные хеши).
func HashPassword(plain string) (HashedPassword, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), passwordCost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return HashedPassword{}, NewError(KindInvalidPassword, "Password cannot be longer than 72 bytes.")
	}
	if err != nil {
		return HashedPassword{}, fmt.Errorf("hash password: %w", err)
	}
	return HashedPassword{hash: string(hash)}, nil
}

// HashedPasswordFromHash восстанавливает значение из сохранённого хеша.
func HashedPasswordFromHash(hash string) HashedPassword {
	return HashedPassword{hash: hash}
}

// Verify проверяет кандидата против хеша.
func (p HashedPassword) Verify(plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(p.hash), []byte(plain)) == nil
}

func (p HashedPassword) String() string { return p.hash }

func (p HashedPassword) Equals(other HashedPassword) bool {
	return p.hash == other.hash
}
