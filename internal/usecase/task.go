package usecase

import (
	"context"
	"log/slog"

	"github.com/GoArmGo/TaskApp/internal/core/ports"
	"github.com/GoArmGo/TaskApp/internal/domain"
)

// CreateTaskCommand создаёт задачу в статусе TODO.
type CreateTaskCommand struct {
	newUoW ports.UnitOfWorkFactory
	ids    ports.IDGenerator
	logger *slog.Logger
}

func NewCreateTaskCommand(newUoW ports.UnitOfWorkFactory, ids ports.IDGenerator, logger *slog.Logger) *CreateTaskCommand {
	return &CreateTaskCommand{newUoW: newUoW, ids: ids, logger: logger}
}

func (c *CreateTaskCommand) Execute(ctx context.Context, in CreateTaskInput) (*domain.Task, error) {
	task, err := runInTransaction(ctx, c.newUoW, c.logger, func(uow ports.UnitOfWork) (*domain.Task, error) {
		task, err := domain.NewTask(c.ids.Generate(), in.Title, in.Description)
		if err != nil {
			return nil, err
		}
		if err := uow.Tasks().Save(ctx, task); err != nil {
			return nil, err
		}
		return task, nil
	})
	if err != nil {
		return nil, err
	}

	c.logger.Info("task created", "task_id", task.ID().String())
	return task, nil
}

// UpdateTaskCommand частично изменяет существующую задачу.
type UpdateTaskCommand struct {
	newUoW ports.UnitOfWorkFactory
	logger *slog.Logger
}

func NewUpdateTaskCommand(newUoW ports.UnitOfWorkFactory, logger *slog.Logger) *UpdateTaskCommand {
	return &UpdateTaskCommand{newUoW: newUoW, logger: logger}
}

func (c *UpdateTaskCommand) Execute(ctx context.Context, in UpdateTaskInput) (*domain.Task, error) {
	return runInTransaction(ctx, c.newUoW, c.logger, func(uow ports.UnitOfWork) (*domain.Task, error) {
		id, err := domain.NewTaskID(in.ID)
		if err != nil {
			return nil, err
		}

		changes := domain.TaskChanges{Title: in.Title, Description: in.Description}
		if in.Status != nil {
			status, err := domain.ParseTaskStatus(*in.Status)
			if err != nil {
				return nil, err
			}
			changes.Status = &status
		}

		task, err := uow.Tasks().GetTaskByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if err := task.Update(changes); err != nil {
			return nil, err
		}
		if err := uow.Tasks().Save(ctx, task); err != nil {
			return nil, err
		}
		return task, nil
	})
}

// DeleteTaskCommand удаляет задачу без предварительной загрузки.
type DeleteTaskCommand struct {
	newUoW ports.UnitOfWorkFactory
	logger *slog.Logger
}

func NewDeleteTaskCommand(newUoW ports.UnitOfWorkFactory, logger *slog.Logger) *DeleteTaskCommand {
	return &DeleteTaskCommand{newUoW: newUoW, logger: logger}
}

func (c *DeleteTaskCommand) Execute(ctx context.Context, taskID string) error {
	err := inTransaction(ctx, c.newUoW, c.logger, func(uow ports.UnitOfWork) error {
		id, err := domain.NewTaskID(taskID)
		if err != nil {
			return err
		}
		return uow.Tasks().DeleteByTaskID(ctx, id)
	})
	if err != nil {
		return err
	}

	c.logger.Info("task deleted", "task_id", taskID)
	return nil
}
