package domain

import "strings"

// Email — адрес электронной почты. Сравнение идёт по нормализованной форме.
type Email struct {
	value string
}

// NewEmail проверяет адрес и создаёт значение (пробелы по краям отбрасываются).
func NewEmail(raw string) (Email, error) {
	if err := ValidateEmail(raw); err != nil {
		return Email{}, err
	}
	return Email{value: strings.TrimSpace(raw)}, nil
}

// EmailFromStorage восстанавливает адрес из хранилища без проверки.
func EmailFromStorage(raw string) Email {
	return Email{value: raw}
}

func (e Email) String() string { return e.value }

// Normalized возвращает адрес в нижнем регистре без пробелов по краям.
func (e Email) Normalized() string {
	return strings.ToLower(strings.TrimSpace(e.value))
}

func (e Email) Equals(other Email) bool {
	return e.Normalized() == other.Normalized()
}
