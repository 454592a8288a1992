package domain

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

const (
	titleMinLength       = 3
	titleMaxLength       = 255
	descriptionMaxLength = 2000
)

var htmlTagPattern = regexp.MustCompile(`</?[a-zA-Z!?][^>]*>`)

// ValidateTitle проверяет заголовок задачи после обрезки пробелов.
func ValidateTitle(title string) error {
	title = strings.TrimSpace(title)
	length := utf8.RuneCountInString(title)

	switch {
	case title == "":
		return NewError(KindInvalidTitle, "Title cannot be empty.")
	case length < titleMinLength:
		return NewError(KindInvalidTitle, fmt.Sprintf("Title must be at least %d characters long.", titleMinLength))
	case length > titleMaxLength:
		return NewError(KindInvalidTitle, fmt.Sprintf("Title cannot exceed %d characters.", titleMaxLength))
	case htmlTagPattern.MatchString(title):
		return NewError(KindInvalidTitle, "Title cannot contain HTML tags.")
	}
	return nil
}

func ValidateDescription(description string) error {
	if utf8.RuneCountInString(description) > descriptionMaxLength {
		return NewError(KindInvalidDescription, fmt.Sprintf("Description cannot exceed %d characters.", descriptionMaxLength))
	}
	return nil
}

func ValidateStatus(status TaskStatus) error {
	if !status.IsValid() {
		return NewError(KindInvalidStatus, fmt.Sprintf("Invalid task status: %q", string(status)))
	}
	return nil
}

// ValidateTaskCreateProps проверяет входные данные до создания задачи.
func ValidateTaskCreateProps(id, title, description string) error {
	if err := ValidateID(id); err != nil {
		return err
	}
	if err := ValidateTitle(title); err != nil {
		return err
	}
	return ValidateDescription(description)
}

// ValidateTaskUpdateProps проверяет значения-кандидаты перед изменением задачи.
func ValidateTaskUpdateProps(title, description string, status TaskStatus) error {
	if err := ValidateTitle(title); err != nil {
		return err
	}
	if err := ValidateDescription(description); err != nil {
		return err
	}
	return ValidateStatus(status)
}

// ValidateCreatedTask проверяет уже собранную задачу целиком.
func ValidateCreatedTask(t *Task) error {
	if err := ValidateID(t.id.String()); err != nil {
		return err
	}
	if err := ValidateTitle(t.title); err != nil {
		return err
	}
	if err := ValidateDescription(t.description); err != nil {
		return err
	}
	if err := ValidateTimestamp(t.createdAt); err != nil {
		return err
	}
	if err := ValidateTimestamp(t.updatedAt); err != nil {
		return err
	}
	if err := ValidateUpdatedAt(t.createdAt, t.updatedAt); err != nil {
		return err
	}
	if t.status != TaskStatusTodo {
		return NewError(KindInvalidStatus, "Newly created task must have status TODO.")
	}
	return nil
}
