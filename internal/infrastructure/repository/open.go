package repository

import (
	"fmt"
	"strings"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
	DriverMemory   = "memory"
)

// Open connects a relational store for the given driver name.
func Open(driver, dsn string) (*GormStore, error) {
	cfg := &gorm.Config{Logger: gormlogger.Default.LogMode(gormlogger.Warn)}

	var (
		db  *gorm.DB
		err error
	)
	switch strings.ToLower(driver) {
	case DriverPostgres:
		db, err = gorm.Open(postgres.Open(dsn), cfg)
	case DriverSQLite:
		db, err = gorm.Open(sqlite.Open(dsn), cfg)
		if err == nil {
			err = prepareSQLite(db)
		}
	default:
		return nil, fmt.Errorf("unsupported db driver %q", driver)
	}
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", driver, err)
	}
	return NewGormStore(db), nil
}

// SQLite enforces foreign keys per connection, and every connection to
// ":memory:" is a separate database, so the pool is pinned to one connection.
func prepareSQLite(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	sqlDB.SetMaxOpenConns(1)
	return db.Exec("PRAGMA foreign_keys = ON").Error
}
