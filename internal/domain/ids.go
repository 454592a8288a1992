package domain

// TaskID — идентификатор задачи в каноническом формате UUID.
type TaskID struct {
	value string
}

// NewTaskID проверяет формат и создаёт идентификатор задачи.
func NewTaskID(value string) (TaskID, error) {
	if err := ValidateID(value); err != nil {
		return TaskID{}, err
	}
	return TaskID{value: value}, nil
}

func (id TaskID) String() string { return id.value }

func (id TaskID) Equals(other TaskID) bool { return id.value == other.value }

// UserID — идентификатор пользователя.
type UserID struct {
	value string
}

// NewUserID проверяет формат и создаёт идентификатор пользователя.
func NewUserID(value string) (UserID, error) {
	if err := ValidateID(value); err != nil {
		return UserID{}, err
	}
	return UserID{value: value}, nil
}

func (id UserID) String() string { return id.value }

func (id UserID) Equals(other UserID) bool { return id.value == other.value }

// TokenID — идентификатор токена доступа.
type TokenID struct {
	value string
}

// NewTokenID проверяет формат и создаёт идентификатор токена.
func NewTokenID(value string) (TokenID, error) {
	if err := ValidateID(value); err != nil {
		return TokenID{}, err
	}
	return TokenID{value: value}, nil
}

// TokenIDFromStorage восстанавливает идентификатор из хранилища без проверки.
func TokenIDFromStorage(value string) TokenID {
	return TokenID{value: value}
}

func (id TokenID) String() string { return id.value }

func (id TokenID) Equals(other TokenID) bool { return id.value == other.value }
