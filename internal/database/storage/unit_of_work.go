package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/GoArmGo/TaskApp/internal/core/ports"
	"github.com/jmoiron/sqlx"
)

var _ ports.UnitOfWork = (*UnitOfWork)(nil)

// UnitOfWork — одна транзакция sqlx. Репозитории создаются в конструкторе
// и после Begin работают внутри транзакции.
type UnitOfWork struct {
	conn   *conn
	tasks  *TaskStorage
	users  *UserStorage
	tokens *TokenStorage
}

func NewUnitOfWork(db *sqlx.DB, logger *slog.Logger) *UnitOfWork {
	c := &conn{db: db, logger: logger}
	return &UnitOfWork{
		conn:   c,
		tasks:  &TaskStorage{conn: c},
		users:  &UserStorage{conn: c},
		tokens: &TokenStorage{conn: c},
	}
}

// NewUnitOfWorkFactory возвращает фабрику, которая на каждый вызов создаёт новый UnitOfWork.
func NewUnitOfWorkFactory(db *sqlx.DB, logger *slog.Logger) ports.UnitOfWorkFactory {
	return func() ports.UnitOfWork { return NewUnitOfWork(db, logger) }
}

func (u *UnitOfWork) Begin(ctx context.Context) error {
	if u.conn.tx != nil {
		return ports.ErrTransactionActive
	}
	tx, err := u.conn.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("ошибка при открытии транзакции: %w", err)
	}
	u.conn.tx = tx
	return nil
}

// Commit фиксирует транзакцию. При ошибке транзакция откатывается.
func (u *UnitOfWork) Commit() error {
	tx := u.conn.tx
	if tx == nil {
		return ports.ErrNoTransaction
	}
	u.conn.tx = nil

	if err := tx.Commit(); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
			u.conn.logger.Error("failed to rollback after commit error", "error", rbErr)
		}
		return err
	}
	return nil
}

// Rollback откатывает транзакцию. Без открытой транзакции ничего не делает.
func (u *UnitOfWork) Rollback() error {
	tx := u.conn.tx
	if tx == nil {
		return nil
	}
	u.conn.tx = nil

	if err := tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
		return fmt.Errorf("ошибка при откате транзакции: %w", err)
	}
	return nil
}

func (u *UnitOfWork) Tasks() ports.TaskRepository   { return u.tasks }
func (u *UnitOfWork) Users() ports.UserRepository   { return u.users }
func (u *UnitOfWork) Tokens() ports.TokenRepository { return u.tokens }
