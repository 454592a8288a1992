// Package postgres — репозитории задач, пользователей и токенов на GORM
// (STORAGE_DRIVER=gorm) и SQL-миграции схемы.
package postgres

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/GoArmGo/TaskApp/internal/config"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// NewGormDB открывает подключение GORM к PostgreSQL. Ошибки драйвера переводятся
// в gorm.ErrDuplicatedKey и gorm.ErrForeignKeyViolated.
func NewGormDB(cfg *config.Config, logger *slog.Logger) (*gorm.DB, error) {
	start := time.Now()

	db, err := gorm.Open(postgres.Open(cfg.DatabaseURL), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		NowFunc:        func() time.Time { return time.Now().UTC().Truncate(time.Microsecond) },
	})
	if err != nil {
		logger.Error("failed to open GORM connection", "error", err)
		return nil, fmt.Errorf("ошибка открытия соединения GORM: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("ошибка получения *sql.DB из GORM: %w", err)
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetConnMaxLifetime(5 * time.Minute)

	if err := sqlDB.Ping(); err != nil {
		logger.Error("failed to ping database", "error", err)
		return nil, fmt.Errorf("не удалось подключиться к базе данных: %w", err)
	}

	logger.Info("GORM connection established",
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return db, nil
}

// gormConn направляет запросы в открытую транзакцию, а без неё в общий *gorm.DB.
type gormConn struct {
	db     *gorm.DB
	tx     *gorm.DB
	logger *slog.Logger
}

func (c *gormConn) session() *gorm.DB {
	if c.tx != nil {
		return c.tx
	}
	return c.db
}
