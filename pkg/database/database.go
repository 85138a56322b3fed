package database

import (
	"errors"
	"fmt"
	"time"

	"go-pos-ws/pkg/logger"

	"github.com/glebarez/sqlite"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

var ErrUnknownDriver = errors.New("unknown database driver")

type Config struct {
	Driver string

	// Postgres
	URL      string
	Host     string
	User     string
	Password string
	Name     string
	Port     string
	TimeZone string

	// SQLite
	Path string

	MaxIdleConns    int
	MaxOpenConns    int
	ConnMaxLifetime time.Duration
	SlowThreshold   time.Duration
	LogLevel        gormlogger.LogLevel
}

// DSN returns the postgres connection string, preferring URL when set.
func (c Config) DSN() string {
	if c.URL != "" {
		return c.URL
	}
	tz := c.TimeZone
	if tz == "" {
		tz = "UTC"
	}
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable TimeZone=%s",
		c.Host, c.User, c.Password, c.Name, c.Port, tz,
	)
}

// Connect opens the configured backend. The dialector is picked here, once;
// nothing downstream needs to know which one is in use.
func Connect(cfg Config, log *zap.Logger) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.Driver {
	case DriverPostgres, "":
		dialector = postgres.New(postgres.Config{
			DSN:                  cfg.DSN(),
			PreferSimpleProtocol: true, // Disables implicit prepared statements for Supabase Transaction Mode
		})
	case DriverSQLite:
		dialector = sqlite.Open(SQLiteDSN(cfg.Path))
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, cfg.Driver)
	}

	level := cfg.LogLevel
	if level == 0 {
		level = gormlogger.Warn
	}
	slow := cfg.SlowThreshold
	if slow == 0 {
		slow = time.Second
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         logger.NewGormLogger(log, level, slow),
		PrepareStmt:    false,
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("connect %s: %w", cfg.Driver, err)
	}

	// Connection Pooling Setup
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	if cfg.Driver == DriverSQLite {
		// sqlite allows a single writer, and an in-memory database lives
		// only as long as its connection
		sqlDB.SetMaxOpenConns(1)
		sqlDB.SetConnMaxLifetime(0)
	} else {
		sqlDB.SetMaxIdleConns(orDefault(cfg.MaxIdleConns, 10))
		sqlDB.SetMaxOpenConns(orDefault(cfg.MaxOpenConns, 100))
		lifetime := cfg.ConnMaxLifetime
		if lifetime <= 0 {
			lifetime = time.Hour
		}
		sqlDB.SetConnMaxLifetime(lifetime)
	}

	logger.OrNop(log).Info("database connection established", zap.String("driver", cfg.Driver))
	return db, nil
}

// SQLiteDSN turns a file path into a DSN with foreign keys enforced.
// ":memory:" and "" open a private in-memory database.
func SQLiteDSN(path string) string {
	if path == "" || path == ":memory:" {
		return "file::memory:?_pragma=foreign_keys(1)"
	}
	return fmt.Sprintf("file:%s?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)", path)
}

func orDefault(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}
