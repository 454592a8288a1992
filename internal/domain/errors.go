package domain

import (
	"errors"
	"fmt"
)

// Group — категория доменной ошибки. По ней внешний слой выбирает HTTP-статус.
type Group string

const (
	GroupNotFound     Group = "not_found"
	GroupInvalidInput Group = "invalid_input"
	GroupConflict     Group = "conflict"
)

// Kind — конкретный вид доменной ошибки.
type Kind int

const (
	KindTaskNotFound Kind = iota + 1
	KindUserNotFound
	KindTokenNotFound

	KindInvalidTitle
	KindInvalidDescription
	KindInvalidID
	KindInvalidUsername
	KindInvalidEmail
	KindInvalidPassword
	KindInvalidStatus
	KindInvalidTimestamp
	KindInvalidPlainTextToken
	KindInvalidTokenTimestamp
	KindInvalidCredentials

	KindUserAlreadyExists
)

var kindNames = map[Kind]string{
	KindTaskNotFound:          "TaskNotFound",
	KindUserNotFound:          "UserNotFound",
	KindTokenNotFound:         "TokenNotFound",
	KindInvalidTitle:          "InvalidTitle",
	KindInvalidDescription:    "InvalidDescription",
	KindInvalidID:             "InvalidId",
	KindInvalidUsername:       "InvalidUsername",
	KindInvalidEmail:          "InvalidEmail",
	KindInvalidPassword:       "InvalidPassword",
	KindInvalidStatus:         "InvalidStatus",
	KindInvalidTimestamp:      "InvalidTimestamp",
	KindInvalidPlainTextToken: "InvalidPlainTextToken",
	KindInvalidTokenTimestamp: "InvalidTokenTimestamp",
	KindInvalidCredentials:    "InvalidCredentials",
	KindUserAlreadyExists:     "UserAlreadyExists",
}

var defaultMessages = map[Kind]string{
	KindTaskNotFound:          "The requested task was not found.",
	KindUserNotFound:          "User not found.",
	KindTokenNotFound:         "The requested token was not found.",
	KindInvalidTitle:          "The provided title is invalid.",
	KindInvalidDescription:    "The provided description is invalid.",
	KindInvalidID:             "The provided ID is invalid.",
	KindInvalidUsername:       "The provided username is invalid.",
	KindInvalidEmail:          "The provided email is invalid.",
	KindInvalidPassword:       "The provided password is invalid.",
	KindInvalidStatus:         "The provided status is invalid.",
	KindInvalidTimestamp:      "The provided timestamp is invalid.",
	KindInvalidPlainTextToken: "The provided token is invalid.",
	KindInvalidTokenTimestamp: "The provided token timestamp is invalid.",
	KindInvalidCredentials:    "Invalid email or password.",
	KindUserAlreadyExists:     "User with this username or email already exists.",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Group возвращает категорию, к которой относится вид ошибки.
func (k Kind) Group() Group {
	switch k {
	case KindTaskNotFound, KindUserNotFound, KindTokenNotFound:
		return GroupNotFound
	case KindUserAlreadyExists:
		return GroupConflict
	default:
		return GroupInvalidInput
	}
}

// Error — доменная ошибка: вид + человекочитаемое сообщение.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// Group возвращает категорию ошибки.
func (e *Error) Group() Group {
	return e.Kind.Group()
}

// Is сравнивает ошибки по виду, а не по сообщению,
// поэтому errors.Is(err, ErrTaskNotFound) срабатывает для любого текста.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// NewError создаёт доменную ошибку. Пустое сообщение заменяется сообщением по умолчанию.
func NewError(kind Kind, message string) *Error {
	if message == "" {
		message = defaultMessages[kind]
	}
	return &Error{Kind: kind, Message: message}
}

// Эталонные значения для errors.Is.
var (
	ErrTaskNotFound          = NewError(KindTaskNotFound, "")
	ErrUserNotFound          = NewError(KindUserNotFound, "")
	ErrTokenNotFound         = NewError(KindTokenNotFound, "")
	ErrInvalidTitle          = NewError(KindInvalidTitle, "")
	ErrInvalidDescription    = NewError(KindInvalidDescription, "")
	ErrInvalidID             = NewError(KindInvalidID, "")
	ErrInvalidUsername       = NewError(KindInvalidUsername, "")
	ErrInvalidEmail          = NewError(KindInvalidEmail, "")
	ErrInvalidPassword       = NewError(KindInvalidPassword, "")
	ErrInvalidStatus         = NewError(KindInvalidStatus, "")
	ErrInvalidTimestamp      = NewError(KindInvalidTimestamp, "")
	ErrInvalidPlainTextToken = NewError(KindInvalidPlainTextToken, "")
	ErrInvalidTokenTimestamp = NewError(KindInvalidTokenTimestamp, "")
	ErrInvalidCredentials    = NewError(KindInvalidCredentials, "")
	ErrUserAlreadyExists     = NewError(KindUserAlreadyExists, "")
)

// TaskNotFound сообщает об отсутствии задачи с указанным ID.
func TaskNotFound(id TaskID) *Error {
	return NewError(KindTaskNotFound, fmt.Sprintf("Task with ID %s not found", id))
}

// GroupOf извлекает категорию доменной ошибки из цепочки err.
func GroupOf(err error) (Group, bool) {
	var domainErr *Error
	if errors.As(err, &domainErr) {
		return domainErr.Group(), true
	}
	return "", false
}

// KindOf извлекает вид доменной ошибки из цепочки err.
func KindOf(err error) (Kind, bool) {
	var domainErr *Error
	if errors.As(err, &domainErr) {
		return domainErr.Kind, true
	}
	return 0, false
}
