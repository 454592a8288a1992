package domain

import (
	"strings"
	"time"
)

// TaskStatus — статус задачи.
type TaskStatus string

const (
	TaskStatusTodo       TaskStatus = "todo"
	TaskStatusInProgress TaskStatus = "in_progress"
	TaskStatusCompleted  TaskStatus = "completed"
)

func (s TaskStatus) IsValid() bool {
	switch s {
	case TaskStatusTodo, TaskStatusInProgress, TaskStatusCompleted:
		return true
	}
	return false
}

// ParseTaskStatus переводит строку в статус или возвращает InvalidStatus.
func ParseTaskStatus(raw string) (TaskStatus, error) {
	status := TaskStatus(raw)
	if err := ValidateStatus(status); err != nil {
		return "", err
	}
	return status, nil
}

// Task — задача. Поля меняются только через Update.
type Task struct {
	id          TaskID
	title       string
	description string
	status      TaskStatus
	createdAt   time.Time
	updatedAt   time.Time
}

// TaskSnapshot — плоское представление задачи для хранилища.
type TaskSnapshot struct {
	ID          string
	Title       string
	Description string
	Status      TaskStatus
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TaskChanges — частичное изменение задачи; nil означает «оставить как есть».
type TaskChanges struct {
	Title       *string
	Description *string
	Status      *TaskStatus
}

// NewTask создаёт задачу в статусе TODO.
func NewTask(id, title, description string) (*Task, error) {
	if err := ValidateTaskCreateProps(id, title, description); err != nil {
		return nil, err
	}

	taskID, err := NewTaskID(id)
	if err != nil {
		return nil, err
	}

	now := Now()
	t := &Task{
		id:          taskID,
		title:       strings.TrimSpace(title),
		description: description,
		status:      TaskStatusTodo,
		createdAt:   now,
		updatedAt:   now,
	}

	if err := ValidateCreatedTask(t); err != nil {
		return nil, err
	}
	return t, nil
}

// ReconstructTask поднимает задачу из хранилища.
func ReconstructTask(s TaskSnapshot) (*Task, error) {
	taskID, err := NewTaskID(s.ID)
	if err != nil {
		return nil, err
	}
	if err := ValidateStatus(s.Status); err != nil {
		return nil, err
	}
	if err := ValidateUpdatedAt(s.CreatedAt, s.UpdatedAt); err != nil {
		return nil, err
	}

	return &Task{
		id:          taskID,
		title:       s.Title,
		description: s.Description,
		status:      s.Status,
		createdAt:   s.CreatedAt,
		updatedAt:   s.UpdatedAt,
	}, nil
}

// Update применяет изменения. updatedAt сдвигается, только если хотя бы одно поле
// действительно поменялось.
func (t *Task) Update(changes TaskChanges) error {
	title := t.title
	if changes.Title != nil {
		title = strings.TrimSpace(*changes.Title)
	}
	description := t.description
	if changes.Description != nil {
		description = *changes.Description
	}
	status := t.status
	if changes.Status != nil {
		status = *changes.Status
	}

	if err := ValidateTaskUpdateProps(title, description, status); err != nil {
		return err
	}

	changed := false
	if title != t.title {
		t.title = title
		changed = true
	}
	if description != t.description {
		t.description = description
		changed = true
	}
	if status != t.status {
		t.status = status
		changed = true
	}

	if changed {
		t.updatedAt = Now()
	}
	return nil
}

func (t *Task) ID() TaskID           { return t.id }
func (t *Task) Title() string        { return t.title }
func (t *Task) Description() string  { return t.description }
func (t *Task) Status() TaskStatus   { return t.status }
func (t *Task) CreatedAt() time.Time { return t.createdAt }
func (t *Task) UpdatedAt() time.Time { return t.updatedAt }

func (t *Task) Snapshot() TaskSnapshot {
	return TaskSnapshot{
		ID:          t.id.String(),
		Title:       t.title,
		Description: t.description,
		Status:      t.status,
		CreatedAt:   t.createdAt,
		UpdatedAt:   t.updatedAt,
	}
}
