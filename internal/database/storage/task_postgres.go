package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/GoArmGo/TaskApp/internal/core/ports"
	"github.com/GoArmGo/TaskApp/internal/domain"
	"github.com/jmoiron/sqlx"
)

var _ ports.TaskRepository = (*TaskStorage)(nil)

const taskColumns = `id, title, description, status, created_at, updated_at`

type taskRow struct {
	ID          string    `db:"id"`
	Title       string    `db:"title"`
	Description string    `db:"description"`
	Status      string    `db:"status"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}

func taskRowFromDomain(t *domain.Task) taskRow {
	s := t.Snapshot()
	return taskRow{
		ID:          s.ID,
		Title:       s.Title,
		Description: s.Description,
		Status:      string(s.Status),
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.UpdatedAt,
	}
}

func (r taskRow) toDomain() (*domain.Task, error) {
	return domain.ReconstructTask(domain.TaskSnapshot{
		ID:          r.ID,
		Title:       r.Title,
		Description: r.Description,
		Status:      domain.TaskStatus(r.Status),
		CreatedAt:   r.CreatedAt.UTC(),
		UpdatedAt:   r.UpdatedAt.UTC(),
	})
}

type TaskStorage struct {
	conn *conn
}

// NewTaskStorage создаёт репозиторий задач вне транзакции.
func NewTaskStorage(db *sqlx.DB, logger *slog.Logger) *TaskStorage {
	return &TaskStorage{conn: &conn{db: db, logger: logger}}
}

// GetTaskByID получает задачу по ID
func (s *TaskStorage) GetTaskByID(ctx context.Context, id domain.TaskID) (*domain.Task, error) {
	start := time.Now()

	var row taskRow
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE id = $1`

	if err := s.conn.q().GetContext(ctx, &row, query, id.String()); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			s.conn.logger.Warn("task not found by id", "id", id.String())
			return nil, domain.TaskNotFound(id)
		}
		s.conn.logger.Error("failed to get task by id", "id", id.String(), "error", err)
		return nil, fmt.Errorf("ошибка при получении задачи по ID: %w", err)
	}

	s.conn.logger.Debug("task retrieved by id",
		"id", id.String(),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return row.toDomain()
}

// GetAllTasks возвращает все задачи в порядке создания.
func (s *TaskStorage) GetAllTasks(ctx context.Context) ([]*domain.Task, error) {
	start := time.Now()

	var rows []taskRow
	query := `SELECT ` + taskColumns + ` FROM tasks ORDER BY created_at, id`

	if err := s.conn.q().SelectContext(ctx, &rows, query); err != nil {
		s.conn.logger.Error("failed to list tasks", "error", err)
		return nil, fmt.Errorf("ошибка при получении списка задач: %w", err)
	}

	tasks := make([]*domain.Task, 0, len(rows))
	for _, row := range rows {
		task, err := row.toDomain()
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, task)
	}

	s.conn.logger.Debug("listed tasks",
		"count", len(tasks),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return tasks, nil
}

// Save вставляет задачу или перезаписывает изменяемые поля существующей.
func (s *TaskStorage) Save(ctx context.Context, task *domain.Task) error {
	start := time.Now()

	query := `
	INSERT INTO tasks (` + taskColumns + `)
	VALUES (:id, :title, :description, :status, :created_at, :updated_at)
	ON CONFLICT (id) DO UPDATE SET
		title = EXCLUDED.title,
		description = EXCLUDED.description,
		status = EXCLUDED.status,
		updated_at = EXCLUDED.updated_at
	`

	row := taskRowFromDomain(task)
	if _, err := s.conn.q().NamedExecContext(ctx, query, row); err != nil {
		s.conn.logger.Error("failed to save task", "id", row.ID, "error", err)
		return fmt.Errorf("ошибка при сохранении задачи: %w", err)
	}

	s.conn.logger.Info("task saved",
		"id", row.ID,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return nil
}

func (s *TaskStorage) DeleteByTaskID(ctx context.Context, id domain.TaskID) error {
	res, err := s.conn.q().ExecContext(ctx, `DELETE FROM tasks WHERE id = $1`, id.String())
	if err != nil {
		s.conn.logger.Error("failed to delete task", "id", id.String(), "error", err)
		return fmt.Errorf("ошибка при удалении задачи: %w", err)
	}
	if err := checkDeleted(res, "задачи", domain.TaskNotFound(id)); err != nil {
		return err
	}

	s.conn.logger.Info("task deleted", "id", id.String())
	return nil
}
