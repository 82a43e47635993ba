package repository

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Store все репозитории поверх одной базы
type Store struct {
	DB         *gorm.DB
	Users      *GormUserRepository
	Events     *GormClockEventRepository
	Requests   *GormRequestRepository
	Broadcasts *GormBroadcastRepository
}

// OpenSQLite открывает базу SQLite и включает внешние ключи
func OpenSQLite(dsn string, logger *logrus.Logger) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true, // SQLite ограничения
		Logger:                                   gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}

	// Включаем поддержку внешних ключей (требуется для SQLite)
	if _, err := sqlDB.Exec("PRAGMA foreign_keys = ON"); err != nil {
		logger.Warnf("Failed to enable foreign keys: %v", err)
	}

	return db, nil
}

// NewStore создает все репозитории (с автомиграцией)
func NewStore(db *gorm.DB, logger *logrus.Logger) (*Store, error) {
	users, err := NewGormUserRepository(db)
	if err != nil {
		return nil, fmt.Errorf("failed to create user repository: %w", err)
	}

	events, err := NewGormClockEventRepository(db, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create clock event repository: %w", err)
	}

	requests, err := NewGormRequestRepository(db)
	if err != nil {
		return nil, fmt.Errorf("failed to create request repository: %w", err)
	}

	broadcasts, err := NewGormBroadcastRepository(db)
	if err != nil {
		return nil, fmt.Errorf("failed to create broadcast repository: %w", err)
	}

	return &Store{
		DB:         db,
		Users:      users,
		Events:     events,
		Requests:   requests,
		Broadcasts: broadcasts,
	}, nil
}

// Close закрывает соединение с БД
func (s *Store) Close() error {
	sqlDB, err := s.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
