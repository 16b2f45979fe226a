package database

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/creativehub205/ladies-tailor-shop/config"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// DriverName is the database/sql driver registered by go-sqlite3
const DriverName = "sqlite3"

// DB is an interface for database operations
type DB interface {
	DB() (*gorm.DB, error)
	Close() error
}

// GormDatabase implements the DB interface for GORM
type GormDatabase struct {
	db *gorm.DB
}

// Connect opens the SQLite database file. GORM logs through log, or the
// standard logrus logger when log is nil.
func Connect(cfg config.DatabaseConfig, log *logrus.Logger) (DB, error) {
	if dir := filepath.Dir(cfg.Path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, errors.Wrap(err, "failed to create database directory")
		}
	}

	db, err := gorm.Open(sqlite.Open(dsn(cfg)), &gorm.Config{
		Logger:                                   newLogAdapter(log, logLevel(cfg.LogLevel)),
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to connect to database")
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, errors.Wrap(err, "failed to get DB instance")
	}

	// One connection: SQLite allows a single writer, and transactions must
	// not interleave on the shared file.
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)
	sqlDB.SetConnMaxLifetime(0)

	RegisterDurationHooks(db)
	RegisterMetricsHooks(db)

	return &GormDatabase{db: db}, nil
}

func dsn(cfg config.DatabaseConfig) string {
	params := url.Values{}
	if cfg.BusyTimeoutMS > 0 {
		params.Set("_busy_timeout", fmt.Sprint(cfg.BusyTimeoutMS))
	}
	if len(params) == 0 {
		return cfg.Path
	}
	return fmt.Sprintf("file:%s?%s", cfg.Path, params.Encode())
}

func logLevel(level string) logger.LogLevel {
	switch strings.ToLower(level) {
	case "silent":
		return logger.Silent
	case "error":
		return logger.Error
	case "info":
		return logger.Info
	default:
		return logger.Warn
	}
}

// DB returns the underlying gorm.DB instance
func (d *GormDatabase) DB() (*gorm.DB, error) {
	return d.db, nil
}

// Close closes the database connection
func (d *GormDatabase) Close() error {
	sqlDB, err := d.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// SQLX exposes the shared connection pool through sqlx for raw schema work
func SQLX(db DB) (*sqlx.DB, error) {
	gormDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		return nil, errors.Wrap(err, "failed to get DB instance")
	}
	return sqlx.NewDb(sqlDB, DriverName), nil
}

// Ping checks that the database answers
func Ping(ctx context.Context, db DB) error {
	gormDB, err := db.DB()
	if err != nil {
		return err
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return sqlDB.PingContext(ctx)
}
