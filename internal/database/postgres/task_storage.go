package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/GoArmGo/TaskApp/internal/core/ports"
	"github.com/GoArmGo/TaskApp/internal/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var _ ports.TaskRepository = (*GormTaskStorage)(nil)

// GormTaskStorage реализует ports.TaskRepository с использованием GORM
type GormTaskStorage struct {
	conn *gormConn
}

func NewGormTaskStorage(db *gorm.DB, logger *slog.Logger) *GormTaskStorage {
	return &GormTaskStorage{conn: &gormConn{db: db, logger: logger}}
}

func (s *GormTaskStorage) GetTaskByID(ctx context.Context, id domain.TaskID) (*domain.Task, error) {
	start := time.Now()

	var model TaskModel
	err := s.conn.session().WithContext(ctx).First(&model, "id = ?", id.String()).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s.conn.logger.Warn("task not found by id", "id", id.String())
			return nil, domain.TaskNotFound(id)
		}
		s.conn.logger.Error("failed to get task by id", "id", id.String(), "error", err)
		return nil, fmt.Errorf("ошибка при получении задачи по ID с помощью GORM: %w", err)
	}

	s.conn.logger.Debug("task retrieved by id",
		"id", id.String(),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return model.toDomain()
}

func (s *GormTaskStorage) GetAllTasks(ctx context.Context) ([]*domain.Task, error) {
	start := time.Now()

	var models []TaskModel
	err := s.conn.session().WithContext(ctx).Order("created_at, id").Find(&models).Error
	if err != nil {
		s.conn.logger.Error("failed to list tasks", "error", err)
		return nil, fmt.Errorf("ошибка при получении списка задач с помощью GORM: %w", err)
	}

	tasks := make([]*domain.Task, 0, len(models))
	for _, m := range models {
		task, err := m.toDomain()
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

func (s *GormTaskStorage) Save(ctx context.Context, task *domain.Task) error {
	start := time.Now()

	model := taskModelFromDomain(task)
	err := s.conn.session().WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{"title", "description", "status", "updated_at"}),
		}).
		Create(&model).Error
	if err != nil {
		s.conn.logger.Error("failed to save task", "id", model.ID, "error", err)
		return fmt.Errorf("ошибка при сохранении задачи с помощью GORM: %w", err)
	}

	s.conn.logger.Info("task saved",
		"id", model.ID,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return nil
}

func (s *GormTaskStorage) DeleteByTaskID(ctx context.Context, id domain.TaskID) error {
	start := time.Now()

	res := s.conn.session().WithContext(ctx).Delete(&TaskModel{}, "id = ?", id.String())
	if res.Error != nil {
		s.conn.logger.Error("failed to delete task", "id", id.String(), "error", res.Error)
		return fmt.Errorf("ошибка при удалении задачи с помощью GORM: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.TaskNotFound(id)
	}

	s.conn.logger.Info("task deleted",
		"id", id.String(),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return nil
}
