package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/GoArmGo/TaskApp/internal/core/ports"
	"gorm.io/gorm"
)

var _ ports.UnitOfWork = (*GormUnitOfWork)(nil)

// GormUnitOfWork — транзакция GORM; репозитории создаются в конструкторе.
type GormUnitOfWork struct {
	conn   *gormConn
	tasks  *GormTaskStorage
	users  *GormUserStorage
	tokens *GormTokenStorage
}

func NewGormUnitOfWork(db *gorm.DB, logger *slog.Logger) *GormUnitOfWork {
	c := &gormConn{db: db, logger: logger}
	return &GormUnitOfWork{
		conn:   c,
		tasks:  &GormTaskStorage{conn: c},
		users:  &GormUserStorage{conn: c},
		tokens: &GormTokenStorage{conn: c},
	}
}

func NewGormUnitOfWorkFactory(db *gorm.DB, logger *slog.Logger) ports.UnitOfWorkFactory {
	return func() ports.UnitOfWork { return NewGormUnitOfWork(db, logger) }
}

func (u *GormUnitOfWork) Begin(ctx context.Context) error {
	if u.conn.tx != nil {
		return ports.ErrTransactionActive
	}
	tx := u.conn.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return fmt.Errorf("ошибка при открытии транзакции GORM: %w", tx.Error)
	}
	u.conn.tx = tx
	return nil
}

func (u *GormUnitOfWork) Commit() error {
	tx := u.conn.tx
	if tx == nil {
		return ports.ErrNoTransaction
	}
	u.conn.tx = nil

	if err := tx.Commit().Error; err != nil {
		tx.Rollback()
		return err
	}
	return nil
}

func (u *GormUnitOfWork) Rollback() error {
	tx := u.conn.tx
	if tx == nil {
		return nil
	}
	u.conn.tx = nil
	return tx.Rollback().Error
}

func (u *GormUnitOfWork) Tasks() ports.TaskRepository   { return u.tasks }
func (u *GormUnitOfWork) Users() ports.UserRepository   { return u.users }
func (u *GormUnitOfWork) Tokens() ports.TokenRepository { return u.tokens }
