package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"go-pos-ws/pkg/database"
	"go-pos-ws/pkg/logger"

	"github.com/joho/godotenv"
	gormlogger "gorm.io/gorm/logger"
)

// Config holds application configuration.
type Config struct {
	AppName     string
	Environment string
	Port        string
	NodeID      int64 // snowflake node for receipt numbers, unique per instance
	SeedDemo    bool
	AccessLog   bool

	Log      logger.Config
	Database database.Config
}

// Load reads a .env file when present, then the environment.
func Load() Config {
	_ = godotenv.Load()

	appName := getenv("APP_NAME", "POS General v1.0")
	environment := getenv("ENVIRONMENT", "development")

	return Config{
		AppName:     appName,
		Environment: environment,
		Port:        getenv("PORT", "3000"),
		NodeID:      getenvInt64("NODE_ID", 1),
		SeedDemo:    getenvBool("SEED_DEMO", false),
		AccessLog:   getenvBool("ACCESS_LOG", true),
		Log: logger.Config{
			ServiceName: appName,
			Environment: environment,
			Level:       getenv("LOG_LEVEL", "info"),
			Format:      getenv("LOG_FORMAT", "json"),
		},
		Database: database.Config{
			Driver:          strings.ToLower(getenv("DB_DRIVER", database.DriverPostgres)),
			URL:             os.Getenv("DATABASE_URL"),
			Host:            getenv("DB_HOST", "localhost"),
			User:            getenv("DB_USER", "postgres"),
			Password:        os.Getenv("DB_PASSWORD"),
			Name:            getenv("DB_NAME", "pos"),
			Port:            getenv("DB_PORT", "5432"),
			TimeZone:        getenv("DB_TIMEZONE", "Asia/Jakarta"),
			Path:            getenv("SQLITE_PATH", "pos.db"),
			MaxIdleConns:    int(getenvInt64("DB_MAX_IDLE_CONNS", 10)),
			MaxOpenConns:    int(getenvInt64("DB_MAX_OPEN_CONNS", 100)),
			ConnMaxLifetime: getenvDuration("DB_CONN_MAX_LIFETIME", time.Hour),
			SlowThreshold:   getenvDuration("DB_SLOW_THRESHOLD", time.Second),
			LogLevel:        gormLevel(getenv("DB_LOG_LEVEL", "warn")),
		},
	}
}

func getenv(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func getenvBool(key string, def bool) bool {
	v, err := strconv.ParseBool(getenv(key, strconv.FormatBool(def)))
	if err != nil {
		return def
	}
	return v
}

func getenvInt64(key string, def int64) int64 {
	v, err := strconv.ParseInt(getenv(key, ""), 10, 64)
	if err != nil {
		return def
	}
	return v
}

func getenvDuration(key string, def time.Duration) time.Duration {
	v, err := time.ParseDuration(getenv(key, ""))
	if err != nil {
		return def
	}
	return v
}

func gormLevel(s string) gormlogger.LogLevel {
	switch strings.ToLower(s) {
	case "silent":
		return gormlogger.Silent
	case "error":
		return gormlogger.Error
	case "info":
		return gormlogger.Info
	default:
		return gormlogger.Warn
	}
}
