// Package storage — репозитории задач, пользователей и токенов поверх sqlx и PostgreSQL.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

const (
	pqUniqueViolation     = "23505"
	pqForeignKeyViolation = "23503"
)

// queryer — общее подмножество *sqlx.DB и *sqlx.Tx.
type queryer interface {
	GetContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	SelectContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	NamedExecContext(ctx context.Context, query string, arg interface{}) (sql.Result, error)
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}

// conn направляет запросы в открытую транзакцию, а без неё в пул соединений.
type conn struct {
	db     *sqlx.DB
	tx     *sqlx.Tx
	logger *slog.Logger
}

func (c *conn) q() queryer {
	if c.tx != nil {
		return c.tx
	}
	return c.db
}

func pqCode(err error) string {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code)
	}
	return ""
}

func isUniqueViolation(err error) bool {
	return pqCode(err) == pqUniqueViolation
}

func isForeignKeyViolation(err error) bool {
	return pqCode(err) == pqForeignKeyViolation
}

// checkDeleted возвращает notFound, если DELETE не затронул ни одной строки.
func checkDeleted(res sql.Result, what string, notFound error) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("ошибка при проверке удаления %s: %w", what, err)
	}
	if n == 0 {
		return notFound
	}
	return nil
}
