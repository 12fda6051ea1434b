package storage

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/frahmantamala/epic-crm/internal"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// MemoryDSN is an in-memory SQLite database with foreign keys enforced, so
// ON DELETE CASCADE behaves as it does on PostgreSQL.
const MemoryDSN = "file::memory:?_foreign_keys=on"

type Option func(*gorm.Config)

func WithLogLevel(level gormlogger.LogLevel) Option {
	return func(c *gorm.Config) {
		c.Logger = c.Logger.LogMode(level)
	}
}

// Open connects to the configured database and verifies the connection.
func Open(cfg internal.DatabaseConfig, opts ...Option) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.Driver {
	case internal.DriverPostgres:
		dialector = postgres.Open(cfg.Source)
	case internal.DriverSQLite:
		dialector = sqlite.Open(cfg.Source)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}

	gormCfg := &gorm.Config{
		TranslateError: true,
		Logger: gormlogger.New(log.New(os.Stderr, "\r\n", log.LstdFlags), gormlogger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  gormlogger.Warn,
			IgnoreRecordNotFoundError: true,
		}),
	}
	for _, opt := range opts {
		opt(gormCfg)
	}

	db, err := gorm.Open(dialector, gormCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s connection: %w", cfg.Driver, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to access connection pool: %w", err)
	}
	if cfg.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}

	ctx, cancel := internal.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}

// OpenMemory returns a private in-memory SQLite database. A single
// connection keeps every query on the same database.
func OpenMemory(opts ...Option) (*gorm.DB, error) {
	opts = append([]Option{WithLogLevel(gormlogger.Silent)}, opts...)
	return Open(internal.DatabaseConfig{
		Driver:       internal.DriverSQLite,
		Source:       MemoryDSN,
		MaxOpenConns: 1,
		MaxIdleConns: 1,
	}, opts...)
}

func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
